//go:build integration

package pgstore

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/Sunil-Saini123/DS-Project-EXAM-PROCTORING/internal/cluster"
	"github.com/Sunil-Saini123/DS-Project-EXAM-PROCTORING/internal/model"
	"github.com/Sunil-Saini123/DS-Project-EXAM-PROCTORING/migrations"
	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newStore(t *testing.T) *Store {
	t.Helper()
	url := os.Getenv("DATABASE_URL")
	if url == "" {
		t.Skip("DATABASE_URL not set")
	}

	src, err := iofs.New(migrations.FS, ".")
	require.NoError(t, err)
	m, err := migrate.NewWithSourceInstance("iofs", src, url)
	require.NoError(t, err)
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		require.NoError(t, err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	pool, err := pgxpool.New(ctx, url)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	_, err = pool.Exec(ctx, `TRUNCATE student_records`)
	require.NoError(t, err)
	return New(pool)
}

func TestStore_RoundTrip(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()

	_, err := s.ReadStudentRecord(ctx, "S1", cluster.RoleSystem)
	assert.ErrorIs(t, err, cluster.ErrRecordNotFound)

	rec := model.NewStudentRecord("S1", "Asha")
	require.NoError(t, s.WriteStudentRecord(ctx, "S1", rec, cluster.RoleSystem))

	rec.ESEMarks = 70
	rec.Status = model.StudentStatusSubmitted
	require.NoError(t, s.WriteStudentRecord(ctx, "S1", rec, cluster.RoleTeacher))

	got, err := s.ReadStudentRecord(ctx, "S1", cluster.RoleTeacher)
	require.NoError(t, err)
	assert.Equal(t, 70, got.ESEMarks)
	assert.Equal(t, model.StudentStatusSubmitted, got.Status)

	require.NoError(t, s.WriteStudentRecord(ctx, "S0", model.NewStudentRecord("S0", "Bo"), cluster.RoleSystem))
	all, err := s.ReadAllStudentRecords(ctx, cluster.RoleTeacher)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "S0", all[0].RollNo)
}

func TestStore_RejectsUnknownStatus(t *testing.T) {
	s := newStore(t)
	rec := model.NewStudentRecord("S1", "Asha")
	rec.Status = "paused"

	err := s.WriteStudentRecord(context.Background(), "S1", rec, cluster.RoleSystem)
	assert.ErrorIs(t, err, cluster.ErrWriteRejected)
}
