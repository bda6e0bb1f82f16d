package service

import (
	"context"
	"testing"

	"github.com/Sunil-Saini123/DS-Project-EXAM-PROCTORING/internal/cluster"
	"github.com/Sunil-Saini123/DS-Project-EXAM-PROCTORING/internal/cluster/memory"
	"github.com/Sunil-Saini123/DS-Project-EXAM-PROCTORING/internal/model"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputeStatistics(t *testing.T) {
	recs := []model.StudentRecord{
		{RollNo: "S1", ESEMarks: 80, Status: model.StudentStatusSubmitted},
		{RollNo: "S2", ESEMarks: 40, Status: model.StudentStatusSubmitted, CheatingCount: 1},
		{RollNo: "S3", ESEMarks: 0, Status: model.StudentStatusAutoSubmitted},
		{RollNo: "S4", ESEMarks: 0, Status: model.StudentStatusTerminated, CheatingCount: 2},
		{RollNo: "S5", ESEMarks: 30, Status: model.StudentStatusActive},
	}

	stats := ComputeStatistics(recs)
	assert.Equal(t, model.ExamStatistics{
		TotalStudents:         5,
		CompletedStudents:     2,
		AutoSubmittedStudents: 1,
		TerminatedStudents:    1,
		CheatingIncidents:     3,
		AverageScore:          30,
		PassedStudents:        2,
	}, stats)
}

func TestComputeStatistics_Empty(t *testing.T) {
	assert.Equal(t, model.ExamStatistics{}, ComputeStatistics(nil))
}

func TestGetExamResults(t *testing.T) {
	store := &faultyStore{Store: memory.NewStore()}
	svc := NewResultsService(store, zerolog.Nop())

	res, err := svc.GetExamResults(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, res.Students)
	assert.Empty(t, res.Students)

	rec := model.NewStudentRecord("S1", "Asha")
	rec.ESEMarks = 50
	rec.Status = model.StudentStatusSubmitted
	require.NoError(t, store.WriteStudentRecord(context.Background(), "S1", rec, cluster.RoleSystem))

	res, err = svc.GetExamResults(context.Background())
	require.NoError(t, err)
	require.Len(t, res.Students, 1)
	assert.Equal(t, 1, res.Statistics.PassedStudents)
	assert.InDelta(t, 50, res.Statistics.AverageScore, 0.0001)

	store.set(func(s *faultyStore) { s.failAll = true })
	_, err = svc.GetAllMarks(context.Background())
	assert.ErrorIs(t, err, ErrRecordsUnavailable)
	_, err = svc.GetExamResults(context.Background())
	assert.ErrorIs(t, err, ErrUnavailable)
}
