package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/Sunil-Saini123/DS-Project-EXAM-PROCTORING/internal/cluster"
	"github.com/Sunil-Saini123/DS-Project-EXAM-PROCTORING/internal/cluster/memory"
	"github.com/Sunil-Saini123/DS-Project-EXAM-PROCTORING/internal/events"
	"github.com/Sunil-Saini123/DS-Project-EXAM-PROCTORING/internal/model"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// countingMutex wraps the in-memory mutex, counting grants and releases and
// optionally overriding the acquire outcome.
type countingMutex struct {
	inner *memory.Mutex

	mu       sync.Mutex
	grants   int
	releases int
	acquired []int64
	released []int64
	override func() (bool, error)
}

func newCountingMutex() *countingMutex {
	return &countingMutex{inner: memory.NewMutex()}
}

func (m *countingMutex) RequestCriticalSection(ctx context.Context, key string, token int64) (bool, error) {
	m.mu.Lock()
	override := m.override
	m.mu.Unlock()
	if override != nil {
		return override()
	}

	granted, err := m.inner.RequestCriticalSection(ctx, key, token)
	if granted {
		m.mu.Lock()
		m.grants++
		m.acquired = append(m.acquired, token)
		m.mu.Unlock()
	}
	return granted, err
}

func (m *countingMutex) ReleaseCriticalSection(ctx context.Context, key string, token int64) error {
	m.mu.Lock()
	m.releases++
	m.released = append(m.released, token)
	m.mu.Unlock()
	return m.inner.ReleaseCriticalSection(ctx, key, token)
}

func (m *countingMutex) counts() (grants, releases int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.grants, m.releases
}

type marksFixture struct {
	store *faultyStore
	mutex *countingMutex
	svc   *MarksService
	feed  <-chan events.Event
}

func newMarksFixture(t *testing.T) *marksFixture {
	t.Helper()
	hub := events.NewHub(zerolog.Nop())
	feed, unsub := hub.Subscribe(16)
	t.Cleanup(unsub)

	f := &marksFixture{
		store: &faultyStore{Store: memory.NewStore()},
		mutex: newCountingMutex(),
		feed:  feed,
	}
	rec := model.NewStudentRecord("S1", "Asha")
	rec.ESEMarks = 70
	require.NoError(t, f.store.Store.WriteStudentRecord(context.Background(), "S1", rec, cluster.RoleSystem))

	f.svc = NewMarksService(f.store, f.mutex, cluster.NewClock(), time.Second, hub, zerolog.Nop())
	return f
}

func upd(isa, mse, ese int) MarksUpdate {
	return MarksUpdate{ISA: isa, MSE: mse, ESE: ese, UpdatedBy: "teacher"}
}

func TestUpdateMarks_Success(t *testing.T) {
	f := newMarksFixture(t)

	rec, err := f.svc.UpdateMarks(context.Background(), "S1", upd(18, 25, 48))
	require.NoError(t, err)
	assert.Equal(t, 18, rec.ISAMarks)
	assert.Equal(t, 25, rec.MSEMarks)
	assert.Equal(t, 48, rec.ESEMarks)
	assert.Equal(t, model.StudentStatusActive, rec.Status)

	stored, err := f.store.Store.ReadStudentRecord(context.Background(), "S1", cluster.RoleTeacher)
	require.NoError(t, err)
	assert.Equal(t, *rec, *stored)

	grants, releases := f.mutex.counts()
	assert.Equal(t, 1, grants)
	assert.Equal(t, 1, releases)
	assert.Equal(t, f.mutex.acquired, f.mutex.released)

	e := <-f.feed
	assert.Equal(t, events.MarksUpdated, e.Type)
	assert.Equal(t, "S1", e.RollNo)
}

// annotatingStore stores a copy of each written record with one more
// cheating incident, standing in for a store that amends what it accepts.
type annotatingStore struct {
	*memory.Store
}

func (s annotatingStore) WriteStudentRecord(ctx context.Context, roll string, rec *model.StudentRecord, role cluster.Role) error {
	stored := *rec
	stored.CheatingCount++
	return s.Store.WriteStudentRecord(ctx, roll, &stored, role)
}

func TestUpdateMarks_ReturnsStoredRecord(t *testing.T) {
	store := annotatingStore{Store: memory.NewStore()}
	require.NoError(t, store.Store.WriteStudentRecord(context.Background(), "S1",
		model.NewStudentRecord("S1", "Asha"), cluster.RoleSystem))
	svc := NewMarksService(store, memory.NewMutex(), cluster.NewClock(), time.Second,
		events.NewHub(zerolog.Nop()), zerolog.Nop())

	rec, err := svc.UpdateMarks(context.Background(), "S1", upd(10, 20, 30))
	require.NoError(t, err)

	stored, err := store.Store.ReadStudentRecord(context.Background(), "S1", cluster.RoleTeacher)
	require.NoError(t, err)
	assert.Equal(t, *stored, *rec)
	assert.Equal(t, 1, rec.CheatingCount)
	assert.Equal(t, 30, rec.ESEMarks)
}

func TestUpdateMarks_ReleasesOnEveryFailure(t *testing.T) {
	cases := []struct {
		name   string
		roll   string
		fault  func(s *faultyStore)
		expect error
	}{
		{name: "missing record", roll: "S9", fault: func(*faultyStore) {}, expect: ErrStudentNotFound},
		{name: "read failure", roll: "S1", fault: func(s *faultyStore) { s.failReads = true }, expect: ErrUpdateFailed},
		{name: "write failure", roll: "S1", fault: func(s *faultyStore) { s.failWrites = true }, expect: ErrUpdateFailed},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := newMarksFixture(t)
			f.store.set(tc.fault)

			_, err := f.svc.UpdateMarks(context.Background(), tc.roll, upd(1, 2, 3))
			assert.ErrorIs(t, err, tc.expect)

			grants, releases := f.mutex.counts()
			assert.Equal(t, 1, grants)
			assert.Equal(t, 1, releases)
			_, held := f.mutex.inner.Holder("teacher_" + tc.roll)
			assert.False(t, held)
		})
	}
}

func TestUpdateMarks_WriteFailureIsInternal(t *testing.T) {
	f := newMarksFixture(t)
	f.store.set(func(s *faultyStore) { s.failWrites = true })

	_, err := f.svc.UpdateMarks(context.Background(), "S1", upd(1, 2, 3))
	assert.ErrorIs(t, err, ErrInternal)
	assert.Equal(t, "System error during update.", Message(err))
}

func TestUpdateMarks_DeniedTouchesNothing(t *testing.T) {
	f := newMarksFixture(t)
	f.mutex.override = func() (bool, error) { return false, nil }

	_, err := f.svc.UpdateMarks(context.Background(), "S1", upd(1, 2, 3))
	assert.ErrorIs(t, err, ErrLockUnavailable)
	assert.ErrorIs(t, err, ErrUnavailable)
	assert.Equal(t, "Failed to acquire lock for update.", Message(err))

	_, releases := f.mutex.counts()
	assert.Equal(t, 0, releases)
	stored, err := f.store.Store.ReadStudentRecord(context.Background(), "S1", cluster.RoleTeacher)
	require.NoError(t, err)
	assert.Equal(t, 70, stored.ESEMarks)
}

func TestUpdateMarks_AcquireErrorReleasesBestEffort(t *testing.T) {
	f := newMarksFixture(t)
	f.mutex.override = func() (bool, error) { return false, errors.New("deadline exceeded") }

	_, err := f.svc.UpdateMarks(context.Background(), "S1", upd(1, 2, 3))
	assert.ErrorIs(t, err, ErrLockUnavailable)

	_, releases := f.mutex.counts()
	assert.Equal(t, 1, releases)
	stored, err := f.store.Store.ReadStudentRecord(context.Background(), "S1", cluster.RoleTeacher)
	require.NoError(t, err)
	assert.Equal(t, 70, stored.ESEMarks)
}

func TestUpdateMarks_HeldKeyTimesOut(t *testing.T) {
	f := newMarksFixture(t)
	f.svc.acquireTimeout = 20 * time.Millisecond
	granted, err := f.mutex.inner.RequestCriticalSection(context.Background(), "teacher_S1", 1)
	require.NoError(t, err)
	require.True(t, granted)

	_, err = f.svc.UpdateMarks(context.Background(), "S1", upd(1, 2, 3))
	assert.ErrorIs(t, err, ErrLockUnavailable)

	// The foreign holder keeps the key.
	tok, held := f.mutex.inner.Holder("teacher_S1")
	assert.True(t, held)
	assert.Equal(t, int64(1), tok)
}

func TestUpdateMarks_CancelledCallerStillReleases(t *testing.T) {
	f := newMarksFixture(t)
	ctx, cancel := context.WithCancel(context.Background())
	f.mutex.override = func() (bool, error) {
		granted, err := f.mutex.inner.RequestCriticalSection(context.Background(), "teacher_S1", 42)
		cancel()
		return granted, err
	}

	_, err := f.svc.UpdateMarks(ctx, "S1", upd(1, 2, 3))
	assert.ErrorIs(t, err, ErrUpdateFailed)

	_, releases := f.mutex.counts()
	assert.Equal(t, 1, releases)
}

func TestUpdateMarks_TokensIncrease(t *testing.T) {
	f := newMarksFixture(t)
	for i := 0; i < 5; i++ {
		_, err := f.svc.UpdateMarks(context.Background(), "S1", upd(i, i, i))
		require.NoError(t, err)
	}
	require.Len(t, f.mutex.acquired, 5)
	for i := 1; i < len(f.mutex.acquired); i++ {
		assert.Greater(t, f.mutex.acquired[i], f.mutex.acquired[i-1])
	}
	assert.Equal(t, f.mutex.acquired, f.mutex.released)
}

func TestUpdateMarks_ConcurrentUpdatesSerialize(t *testing.T) {
	f := newMarksFixture(t)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			_, err := f.svc.UpdateMarks(context.Background(), "S1", upd(n, n, n))
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	grants, releases := f.mutex.counts()
	assert.Equal(t, 20, grants)
	assert.Equal(t, 20, releases)

	stored, err := f.store.Store.ReadStudentRecord(context.Background(), "S1", cluster.RoleTeacher)
	require.NoError(t, err)
	assert.Equal(t, stored.ISAMarks, stored.MSEMarks)
	assert.Equal(t, stored.ISAMarks, stored.ESEMarks)
}
