package memory

import (
	"context"
	"testing"

	"github.com/Sunil-Saini123/DS-Project-EXAM-PROCTORING/internal/cluster"
	"github.com/Sunil-Saini123/DS-Project-EXAM-PROCTORING/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore_ReadWrite(t *testing.T) {
	ctx := context.Background()
	s := NewStore()

	_, err := s.ReadStudentRecord(ctx, "S1", cluster.RoleSystem)
	assert.ErrorIs(t, err, cluster.ErrRecordNotFound)

	rec := model.NewStudentRecord("S1", "Asha")
	rec.ESEMarks = 60
	require.NoError(t, s.WriteStudentRecord(ctx, "S1", rec, cluster.RoleSystem))

	rec.ESEMarks = 0 // caller's copy must not leak into the store
	got, err := s.ReadStudentRecord(ctx, "S1", cluster.RoleTeacher)
	require.NoError(t, err)
	assert.Equal(t, 60, got.ESEMarks)
	assert.Equal(t, model.StudentStatusActive, got.Status)
}

func TestStore_ReadAllSorted(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	for _, roll := range []string{"S3", "S1", "S2"} {
		require.NoError(t, s.WriteStudentRecord(ctx, roll, model.NewStudentRecord(roll, roll), cluster.RoleSystem))
	}

	all, err := s.ReadAllStudentRecords(ctx, cluster.RoleTeacher)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, []string{"S1", "S2", "S3"}, []string{all[0].RollNo, all[1].RollNo, all[2].RollNo})
}

func TestStore_RejectsNilAndCancelled(t *testing.T) {
	s := NewStore()
	assert.ErrorIs(t, s.WriteStudentRecord(context.Background(), "S1", nil, cluster.RoleSystem), cluster.ErrWriteRejected)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := s.ReadStudentRecord(ctx, "S1", cluster.RoleSystem)
	assert.ErrorIs(t, err, context.Canceled)
}
