package service

import (
	"context"
	"errors"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/Sunil-Saini123/DS-Project-EXAM-PROCTORING/internal/cluster"
	"github.com/Sunil-Saini123/DS-Project-EXAM-PROCTORING/internal/cluster/memory"
	"github.com/Sunil-Saini123/DS-Project-EXAM-PROCTORING/internal/events"
	"github.com/Sunil-Saini123/DS-Project-EXAM-PROCTORING/internal/model"
	"github.com/Sunil-Saini123/DS-Project-EXAM-PROCTORING/internal/repository"
	"github.com/Sunil-Saini123/DS-Project-EXAM-PROCTORING/internal/worker"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

var t0 = time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)

// fakeClock is a manually advanced wall clock.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

// faultyStore wraps the in-memory store with switchable failures.
type faultyStore struct {
	*memory.Store
	mu         sync.Mutex
	failReads  bool
	failWrites bool
	failAll    bool
	// beforeWrite runs ahead of every write, outside the lock.
	beforeWrite func(roll string, rec *model.StudentRecord)
}

func (s *faultyStore) set(fn func(s *faultyStore)) {
	s.mu.Lock()
	fn(s)
	s.mu.Unlock()
}

func (s *faultyStore) ReadStudentRecord(ctx context.Context, roll string, role cluster.Role) (*model.StudentRecord, error) {
	s.mu.Lock()
	fail := s.failReads
	s.mu.Unlock()
	if fail {
		return nil, errors.New("replica unreachable")
	}
	return s.Store.ReadStudentRecord(ctx, roll, role)
}

func (s *faultyStore) WriteStudentRecord(ctx context.Context, roll string, rec *model.StudentRecord, role cluster.Role) error {
	s.mu.Lock()
	fail, hook := s.failWrites, s.beforeWrite
	s.mu.Unlock()
	if hook != nil {
		hook(roll, rec)
	}
	if fail {
		return errors.New("write quorum lost")
	}
	return s.Store.WriteStudentRecord(ctx, roll, rec, role)
}

func (s *faultyStore) ReadAllStudentRecords(ctx context.Context, role cluster.Role) ([]model.StudentRecord, error) {
	s.mu.Lock()
	fail := s.failAll
	s.mu.Unlock()
	if fail {
		return nil, errors.New("replica unreachable")
	}
	return s.Store.ReadAllStudentRecords(ctx, role)
}

// stubBalancer records every routed submission and answers with decide.
type stubBalancer struct {
	mu     sync.Mutex
	calls  []routedCall
	decide func(sub model.Submission) (model.RouteResult, error)
}

type routedCall struct {
	sub  model.Submission
	load int
}

func (b *stubBalancer) RouteSubmission(_ context.Context, sub model.Submission, load int) (model.RouteResult, error) {
	b.mu.Lock()
	b.calls = append(b.calls, routedCall{sub: sub, load: load})
	decide := b.decide
	b.mu.Unlock()
	if decide == nil {
		return model.RouteResult{Success: true, Message: "Submission processed by worker-1.", FinalScore: sub.Score}, nil
	}
	return decide(sub)
}

func (b *stubBalancer) setDecide(fn func(sub model.Submission) (model.RouteResult, error)) {
	b.mu.Lock()
	b.decide = fn
	b.mu.Unlock()
}

func (b *stubBalancer) routed() []routedCall {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]routedCall(nil), b.calls...)
}

type harness struct {
	clock       *fakeClock
	store       *faultyStore
	balancer    *stubBalancer
	sessions    *repository.SessionRepository
	enrollments *repository.EnrollmentRepository
	tasks       *worker.Registry
	scoring     *worker.ScoringWorker
	hub         *events.Hub
	feed        <-chan events.Event

	exams       *ExamService
	submissions *SubmissionService
	sweeper     *Sweeper
	sessionSvc  *SessionService
}

// newHarness wires the coordinator over in-memory collaborators. Cheating
// detection never fires unless detector is given.
func newHarness(t *testing.T, detector worker.Detector) *harness {
	t.Helper()
	log := zerolog.Nop()
	h := &harness{
		clock:       &fakeClock{now: t0},
		store:       &faultyStore{Store: memory.NewStore()},
		balancer:    &stubBalancer{},
		sessions:    repository.NewSessionRepository(),
		enrollments: repository.NewEnrollmentRepository(),
		tasks:       worker.NewRegistry(log),
		hub:         events.NewHub(log),
	}
	var unsub func()
	h.feed, unsub = h.hub.Subscribe(256)
	t.Cleanup(unsub)

	h.scoring = worker.NewScoringWorker(h.store, 64, time.Second, log)
	ctx, cancel := context.WithCancel(context.Background())
	go h.scoring.Start(ctx)
	t.Cleanup(func() {
		h.tasks.CancelAll()
		waitCtx, waitCancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer waitCancel()
		_ = h.tasks.Wait(waitCtx)
		cancel()
		<-h.scoring.Done()
	})

	if detector == nil {
		detector = worker.DetectorFunc(func(string, int) bool { return false })
	}
	monitor := worker.NewCheatingMonitor(h.store, h.enrollments, detector, h.hub, log,
		worker.WithInterval(func(string, int) time.Duration { return time.Millisecond }),
		worker.WithMonitorClock(h.clock.Now))

	now := WithNow(h.clock.Now)
	bank := repository.NewDefaultQuestionBank()
	h.exams = NewExamService(h.sessions, h.enrollments, bank, h.store, h.tasks, monitor, h.hub, log, now)
	h.submissions = NewSubmissionService(h.enrollments, bank, h.balancer, h.tasks, h.scoring, h.hub, log, now)
	h.sweeper = NewSweeper(h.enrollments, h.submissions, h.tasks, h.scoring, h.hub, log, now)
	timer := worker.NewSessionTimer(2*time.Millisecond, h.clock.Now, log)
	h.sessionSvc = NewSessionService(h.sessions, h.sweeper, h.tasks, timer, h.hub, log, now)
	return h
}

func (h *harness) startSession(t *testing.T, title string, minutes int) *model.ExamSession {
	t.Helper()
	s, _, err := h.sessionSvc.StartSession(title, minutes)
	require.NoError(t, err)
	return s
}

func (h *harness) enroll(t *testing.T, roll, name string) {
	t.Helper()
	_, err := h.exams.StartExam(context.Background(), roll, name)
	require.NoError(t, err)
}

func (h *harness) status(t *testing.T, roll string) model.StudentStatus {
	t.Helper()
	e, err := h.enrollments.Get(roll)
	require.NoError(t, err)
	return e.Status
}

func (h *harness) record(t *testing.T, roll string) *model.StudentRecord {
	t.Helper()
	rec, err := h.store.Store.ReadStudentRecord(context.Background(), roll, cluster.RoleSystem)
	require.NoError(t, err)
	return rec
}

// eventually waits until the stored record for roll satisfies cond.
func (h *harness) eventually(t *testing.T, roll string, cond func(rec *model.StudentRecord) bool) {
	t.Helper()
	require.Eventually(t, func() bool {
		rec, err := h.store.Store.ReadStudentRecord(context.Background(), roll, cluster.RoleSystem)
		return err == nil && cond(rec)
	}, 2*time.Second, 5*time.Millisecond)
}

// nextEvent returns the next event of type typ, skipping others.
func (h *harness) nextEvent(t *testing.T, typ events.Type) events.Event {
	t.Helper()
	deadline := time.After(2 * time.Second)
	for {
		select {
		case e := <-h.feed:
			if e.Type == typ {
				return e
			}
		case <-deadline:
			t.Fatalf("no %s event", typ)
			return events.Event{}
		}
	}
}

func answers(opts ...string) []model.Answer {
	out := make([]model.Answer, 0, len(opts))
	for i, o := range opts {
		out = append(out, model.Answer{QuestionID: "Q" + strconv.Itoa(i+1), SelectedOption: o})
	}
	return out
}

