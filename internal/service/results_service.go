package service

import (
	"context"

	"github.com/Sunil-Saini123/DS-Project-EXAM-PROCTORING/internal/cluster"
	"github.com/Sunil-Saini123/DS-Project-EXAM-PROCTORING/internal/model"
	"github.com/rs/zerolog"
)

// ResultsService serves the proctor's read-only views over student records.
type ResultsService struct {
	records cluster.ConsistencyService
	log     zerolog.Logger
}

// NewResultsService creates a new ResultsService.
func NewResultsService(records cluster.ConsistencyService, log zerolog.Logger) *ResultsService {
	return &ResultsService{
		records: records,
		log:     log.With().Str("component", "results_service").Logger(),
	}
}

// GetAllMarks returns every student record.
func (s *ResultsService) GetAllMarks(ctx context.Context) ([]model.StudentRecord, error) {
	recs, err := s.records.ReadAllStudentRecords(ctx, cluster.RoleTeacher)
	if err != nil {
		s.log.Error().Err(err).Msg("Failed to read student records")
		return nil, wrap(ErrRecordsUnavailable, err)
	}
	if recs == nil {
		recs = []model.StudentRecord{}
	}
	return recs, nil
}

// GetExamResults returns every student record with aggregate statistics.
func (s *ResultsService) GetExamResults(ctx context.Context) (*model.ExamResults, error) {
	recs, err := s.GetAllMarks(ctx)
	if err != nil {
		return nil, err
	}
	return &model.ExamResults{
		Students:   recs,
		Statistics: ComputeStatistics(recs),
	}, nil
}

// ComputeStatistics aggregates recs. Only status submitted counts as
// completed; auto-submitted and terminated students are counted separately.
func ComputeStatistics(recs []model.StudentRecord) model.ExamStatistics {
	stats := model.ExamStatistics{TotalStudents: len(recs)}
	if len(recs) == 0 {
		return stats
	}

	total := 0
	for _, r := range recs {
		switch r.Status {
		case model.StudentStatusSubmitted:
			stats.CompletedStudents++
		case model.StudentStatusAutoSubmitted:
			stats.AutoSubmittedStudents++
		case model.StudentStatusTerminated:
			stats.TerminatedStudents++
		}
		stats.CheatingIncidents += r.CheatingCount
		total += r.ESEMarks
		if r.ESEMarks >= model.PassingMark {
			stats.PassedStudents++
		}
	}
	stats.AverageScore = float64(total) / float64(len(recs))
	return stats
}
