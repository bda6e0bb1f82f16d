// Package pgstore is a ConsistencyService backed by a PostgreSQL table.
package pgstore

import (
	"context"
	"errors"
	"fmt"

	"github.com/Sunil-Saini123/DS-Project-EXAM-PROCTORING/internal/cluster"
	"github.com/Sunil-Saini123/DS-Project-EXAM-PROCTORING/internal/model"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Store reads and writes rows of the student_records table.
type Store struct {
	pool *pgxpool.Pool
}

// New creates a Store over pool. The schema comes from the migrations package.
func New(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

const selectColumns = `roll_no, name, isa_marks, mse_marks, ese_marks, status, cheating_count`

// ReadStudentRecord returns the row for rollNo.
func (s *Store) ReadStudentRecord(ctx context.Context, rollNo string, _ cluster.Role) (*model.StudentRecord, error) {
	rec := &model.StudentRecord{}
	err := s.pool.QueryRow(ctx,
		`SELECT `+selectColumns+` FROM student_records WHERE roll_no = $1`, rollNo,
	).Scan(&rec.RollNo, &rec.Name, &rec.ISAMarks, &rec.MSEMarks, &rec.ESEMarks, &rec.Status, &rec.CheatingCount)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, cluster.ErrRecordNotFound
		}
		return nil, fmt.Errorf("read student record %s: %w", rollNo, err)
	}
	return rec, nil
}

// WriteStudentRecord upserts rec under rollNo. The role is stored as the
// row's last writer. Constraint violations surface as ErrWriteRejected.
func (s *Store) WriteStudentRecord(ctx context.Context, rollNo string, rec *model.StudentRecord, role cluster.Role) error {
	if rec == nil {
		return cluster.ErrWriteRejected
	}
	_, err := s.pool.Exec(ctx,
		`INSERT INTO student_records (roll_no, name, isa_marks, mse_marks, ese_marks, status, cheating_count, updated_by)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 ON CONFLICT (roll_no) DO UPDATE SET
		   name = EXCLUDED.name,
		   isa_marks = EXCLUDED.isa_marks,
		   mse_marks = EXCLUDED.mse_marks,
		   ese_marks = EXCLUDED.ese_marks,
		   status = EXCLUDED.status,
		   cheating_count = EXCLUDED.cheating_count,
		   updated_by = EXCLUDED.updated_by,
		   updated_at = NOW()`,
		rollNo, rec.Name, rec.ISAMarks, rec.MSEMarks, rec.ESEMarks, string(rec.Status), rec.CheatingCount, string(role),
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23514" {
			return fmt.Errorf("%w: %s", cluster.ErrWriteRejected, pgErr.ConstraintName)
		}
		return fmt.Errorf("write student record %s: %w", rollNo, err)
	}
	return nil
}

// ReadAllStudentRecords returns every row ordered by roll number.
func (s *Store) ReadAllStudentRecords(ctx context.Context, _ cluster.Role) ([]model.StudentRecord, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT `+selectColumns+` FROM student_records ORDER BY roll_no`)
	if err != nil {
		return nil, fmt.Errorf("list student records: %w", err)
	}
	defer rows.Close()

	var records []model.StudentRecord
	for rows.Next() {
		var rec model.StudentRecord
		if err := rows.Scan(&rec.RollNo, &rec.Name, &rec.ISAMarks, &rec.MSEMarks, &rec.ESEMarks, &rec.Status, &rec.CheatingCount); err != nil {
			return nil, fmt.Errorf("scan student record: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list student records: %w", err)
	}
	return records, nil
}
