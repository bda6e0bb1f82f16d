package worker

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Sunil-Saini123/DS-Project-EXAM-PROCTORING/internal/cluster"
	"github.com/Sunil-Saini123/DS-Project-EXAM-PROCTORING/internal/cluster/memory"
	"github.com/Sunil-Saini123/DS-Project-EXAM-PROCTORING/internal/model"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type brokenStore struct{ *memory.Store }

func (b *brokenStore) ReadStudentRecord(context.Context, string, cluster.Role) (*model.StudentRecord, error) {
	return nil, errors.New("replica down")
}

func TestScoringWorker_PersistsResult(t *testing.T) {
	store := memory.NewStore()
	ctx := context.Background()
	rec := model.NewStudentRecord("S1", "Asha")
	rec.ISAMarks = 15
	require.NoError(t, store.WriteStudentRecord(ctx, "S1", rec, cluster.RoleSystem))

	w := NewScoringWorker(store, 4, time.Second, zerolog.Nop())
	runCtx, cancel := context.WithCancel(ctx)
	go w.Start(runCtx)

	require.True(t, w.Enqueue(ScoreJob{RollNo: "S1", Name: "Asha", Score: 70, Status: model.StudentStatusSubmitted}))
	require.Eventually(t, func() bool {
		got, err := store.ReadStudentRecord(ctx, "S1", cluster.RoleSystem)
		return err == nil && got.ESEMarks == 70
	}, time.Second, 5*time.Millisecond)

	got, _ := store.ReadStudentRecord(ctx, "S1", cluster.RoleSystem)
	assert.Equal(t, 15, got.ISAMarks)
	assert.Equal(t, model.StudentStatusSubmitted, got.Status)

	cancel()
	<-w.Done()
}

func TestScoringWorker_RecreatesMissingRecord(t *testing.T) {
	store := memory.NewStore()
	w := NewScoringWorker(store, 4, time.Second, zerolog.Nop())

	w.Enqueue(ScoreJob{RollNo: "S2", Name: "Bo", Score: 0, Status: model.StudentStatusAutoSubmitted})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	w.Start(ctx)

	got, err := store.ReadStudentRecord(context.Background(), "S2", cluster.RoleSystem)
	require.NoError(t, err)
	assert.Equal(t, "Bo", got.Name)
	assert.Equal(t, model.StudentStatusAutoSubmitted, got.Status)
}

func TestScoringWorker_DrainsOnShutdown(t *testing.T) {
	store := memory.NewStore()
	w := NewScoringWorker(store, 8, time.Second, zerolog.Nop())
	for _, roll := range []string{"A", "B", "C"} {
		require.True(t, w.Enqueue(ScoreJob{RollNo: roll, Score: 10, Status: model.StudentStatusSubmitted}))
	}
	assert.Equal(t, 3, w.Pending())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	w.Start(ctx)

	all, err := store.ReadAllStudentRecords(context.Background(), cluster.RoleTeacher)
	require.NoError(t, err)
	assert.Len(t, all, 3)
	assert.Equal(t, 0, w.Pending())
}

func TestScoringWorker_FullQueueDrops(t *testing.T) {
	w := NewScoringWorker(memory.NewStore(), 1, time.Second, zerolog.Nop())
	assert.True(t, w.Enqueue(ScoreJob{RollNo: "A"}))
	assert.False(t, w.Enqueue(ScoreJob{RollNo: "B"}))
}

func TestScoringWorker_ReadFailureSkipsWrite(t *testing.T) {
	store := &brokenStore{Store: memory.NewStore()}
	w := NewScoringWorker(store, 1, time.Second, zerolog.Nop())
	w.Enqueue(ScoreJob{RollNo: "A", Score: 50, Status: model.StudentStatusSubmitted})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	w.Start(ctx)

	all, err := store.ReadAllStudentRecords(context.Background(), cluster.RoleTeacher)
	require.NoError(t, err)
	assert.Empty(t, all)
}
