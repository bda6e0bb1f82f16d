package worker

import (
	"context"
	"errors"
	"time"

	"github.com/Sunil-Saini123/DS-Project-EXAM-PROCTORING/internal/cluster"
	"github.com/Sunil-Saini123/DS-Project-EXAM-PROCTORING/internal/model"
	"github.com/rs/zerolog"
)

// DefaultScoreQueueSize bounds the post-submission persistence queue.
const DefaultScoreQueueSize = 1024

// ScoreJob is one post-submission record update.
type ScoreJob struct {
	RollNo string
	Name   string
	Score  int
	Status model.StudentStatus
}

// ScoringWorker persists submission results to the consistency service in
// the background. Writes are best effort: failures are logged and never
// retried, so the record may lag the local enrollment status.
type ScoringWorker struct {
	records      cluster.ConsistencyService
	queue        chan ScoreJob
	done         chan struct{}
	writeTimeout time.Duration
	log          zerolog.Logger
}

// NewScoringWorker creates a worker with a queue of the given size.
func NewScoringWorker(records cluster.ConsistencyService, queueSize int, writeTimeout time.Duration, log zerolog.Logger) *ScoringWorker {
	if queueSize <= 0 {
		queueSize = DefaultScoreQueueSize
	}
	if writeTimeout <= 0 {
		writeTimeout = 5 * time.Second
	}
	return &ScoringWorker{
		records:      records,
		queue:        make(chan ScoreJob, queueSize),
		done:         make(chan struct{}),
		writeTimeout: writeTimeout,
		log:          log.With().Str("component", "scoring_worker").Logger(),
	}
}

// Enqueue schedules job without blocking. It reports false when the queue is
// full and the job was dropped.
func (w *ScoringWorker) Enqueue(job ScoreJob) bool {
	select {
	case w.queue <- job:
		return true
	default:
		w.log.Error().Str("roll_no", job.RollNo).Int("score", job.Score).Msg("Score queue full, result not persisted")
		return false
	}
}

// Pending returns the number of queued jobs.
func (w *ScoringWorker) Pending() int {
	return len(w.queue)
}

// Done is closed once Start has drained the queue and returned.
func (w *ScoringWorker) Done() <-chan struct{} {
	return w.done
}

// Start processes jobs until ctx is cancelled, then drains what is left.
// Call in a goroutine.
func (w *ScoringWorker) Start(ctx context.Context) {
	defer close(w.done)
	w.log.Info().Msg("ScoringWorker started")

	for {
		select {
		case <-ctx.Done():
			w.drain()
			w.log.Info().Msg("ScoringWorker stopped")
			return
		case job := <-w.queue:
			w.persist(ctx, job)
		}
	}
}

func (w *ScoringWorker) drain() {
	drained := 0
	for {
		select {
		case job := <-w.queue:
			w.persist(context.Background(), job)
			drained++
		default:
			if drained > 0 {
				w.log.Info().Int("count", drained).Msg("Drained remaining items")
			}
			return
		}
	}
}

// persist re-reads the record, sets the end-term marks and status, and writes
// it back. A missing record is recreated from the job.
func (w *ScoringWorker) persist(ctx context.Context, job ScoreJob) {
	ctx, cancel := context.WithTimeout(ctx, w.writeTimeout)
	defer cancel()
	log := w.log.With().Str("roll_no", job.RollNo).Logger()

	rec, err := w.records.ReadStudentRecord(ctx, job.RollNo, cluster.RoleSystem)
	switch {
	case errors.Is(err, cluster.ErrRecordNotFound):
		rec = model.NewStudentRecord(job.RollNo, job.Name)
	case err != nil:
		log.Error().Err(err).Msg("Failed to read record after submission, result not persisted")
		return
	}

	rec.ESEMarks = job.Score
	rec.Status = job.Status
	if err := w.records.WriteStudentRecord(ctx, job.RollNo, rec, cluster.RoleSystem); err != nil {
		log.Error().Err(err).Msg("Failed to persist submission result")
		return
	}
	log.Debug().Int("score", job.Score).Str("status", string(job.Status)).Msg("Submission result persisted")
}
