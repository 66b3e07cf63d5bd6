package leave_test

import (
	"context"
	"database/sql/driver"
	"testing"
	"time"

	"go-elms/internal/leave"
	leaveerrors "go-elms/internal/leave/errors"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func setupLeaveRepo(t *testing.T) (leave.Repository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	gdb, err := gorm.Open(postgres.New(postgres.Config{Conn: db}), &gorm.Config{SkipDefaultTransaction: true})
	require.NoError(t, err)
	return leave.NewRepository(gdb), mock
}

const saveTransitionSQL = `UPDATE "leave_requests" SET .+ WHERE id = \$6 AND version = \$7`

func TestLeaveRepository_SaveTransition(t *testing.T) {
	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	id := uuid.New()
	req := &leave.LeaveRequest{
		ID:          id,
		Status:      leave.StatusApproved,
		CurrentStep: 1,
		Version:     4,
		UpdatedAt:   now,
		FinalizedAt: &now,
	}
	anySet := []driver.Value{sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg()}

	t.Run("stale version is a concurrent update", func(t *testing.T) {
		repo, mock := setupLeaveRepo(t)
		mock.ExpectExec(saveTransitionSQL).
			WithArgs(append(anySet, id, 3)...).
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := repo.SaveTransition(context.Background(), 3, req, nil)

		assert.ErrorIs(t, err, leaveerrors.ErrConcurrentUpdate)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("matching version writes", func(t *testing.T) {
		repo, mock := setupLeaveRepo(t)
		mock.ExpectExec(saveTransitionSQL).
			WithArgs(append(anySet, id, 3)...).
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := repo.SaveTransition(context.Background(), 3, req, nil)

		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestLeaveRepository_HasOverlap(t *testing.T) {
	userID := uuid.New()
	start := time.Date(2026, 3, 9, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, 3, 13, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name  string
		count int64
		want  bool
	}{
		{name: "touching range counts", count: 1, want: true},
		{name: "clear", count: 0, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, mock := setupLeaveRepo(t)
			// strict comparisons keep both ends inclusive
			mock.ExpectQuery(`SELECT count\(\*\) FROM "leave_requests" WHERE user_id = \$1 AND status IN \(\$2,\$3\) AND NOT \(end_date < \$4 OR start_date > \$5\)`).
				WithArgs(userID, "pending", "approved", start, end).
				WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(tt.count))

			got, err := repo.HasOverlap(context.Background(), userID, start, end)

			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestLeaveRepository_LockRequester(t *testing.T) {
	repo, mock := setupLeaveRepo(t)
	userID := uuid.New()
	mock.ExpectExec(`SELECT 1 FROM users WHERE id = \$1 FOR UPDATE`).
		WithArgs(userID).
		WillReturnResult(sqlmock.NewResult(0, 1))

	assert.NoError(t, repo.LockRequester(context.Background(), userID))
	assert.NoError(t, mock.ExpectationsWereMet())
}
