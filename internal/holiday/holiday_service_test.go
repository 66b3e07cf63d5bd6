package holiday_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"go-elms/internal/holiday"
	holidayerrors "go-elms/internal/holiday/errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

type fakeRepo struct {
	CreateFn      func(ctx context.Context, h *holiday.Holiday) error
	FindBetweenFn func(ctx context.Context, from, to time.Time) ([]holiday.Holiday, error)
	DeleteFn      func(ctx context.Context, id string) (bool, error)
}

func (f *fakeRepo) Create(ctx context.Context, h *holiday.Holiday) error {
	return f.CreateFn(ctx, h)
}
func (f *fakeRepo) FindBetween(ctx context.Context, from, to time.Time) ([]holiday.Holiday, error) {
	return f.FindBetweenFn(ctx, from, to)
}
func (f *fakeRepo) Delete(ctx context.Context, id string) (bool, error) {
	return f.DeleteFn(ctx, id)
}

func date(s string) time.Time {
	t, _ := time.Parse("2006-01-02", s)
	return t
}

func TestHolidayService_ListByYear(t *testing.T) {
	repo := &fakeRepo{
		FindBetweenFn: func(ctx context.Context, from, to time.Time) ([]holiday.Holiday, error) {
			assert.Equal(t, date("2026-01-01"), from)
			assert.Equal(t, date("2026-12-31"), to)
			return []holiday.Holiday{{ID: uuid.New(), Date: date("2026-08-17"), Name: "Independence Day", Kind: holiday.KindPublic}}, nil
		},
	}
	svc := holiday.NewService(repo)

	resp, err := svc.ListByYear(context.Background(), 2026)
	assert.NoError(t, err)
	assert.Len(t, resp, 1)
	assert.Equal(t, "2026-08-17", resp[0].Date)

	_, err = svc.ListByYear(context.Background(), 12)
	assert.ErrorIs(t, err, holidayerrors.ErrInvalidYear)
}

func TestHolidayService_Create(t *testing.T) {
	t.Run("default kind", func(t *testing.T) {
		repo := &fakeRepo{
			CreateFn: func(ctx context.Context, h *holiday.Holiday) error {
				assert.Equal(t, holiday.KindPublic, h.Kind)
				return nil
			},
		}
		resp, err := holiday.NewService(repo).Create(context.Background(), holiday.CreateHolidayRequest{Date: "2026-12-25", Name: " Christmas "})
		assert.NoError(t, err)
		assert.Equal(t, "Christmas", resp.Name)
	})

	t.Run("duplicate date", func(t *testing.T) {
		repo := &fakeRepo{
			CreateFn: func(ctx context.Context, h *holiday.Holiday) error {
				return &pgconn.PgError{Code: "23505"}
			},
		}
		_, err := holiday.NewService(repo).Create(context.Background(), holiday.CreateHolidayRequest{Date: "2026-12-25", Name: "Christmas"})
		assert.ErrorIs(t, err, holidayerrors.ErrHolidayDateExists)
	})
}

func TestHolidayService_Delete(t *testing.T) {
	repo := &fakeRepo{
		DeleteFn: func(ctx context.Context, id string) (bool, error) { return false, nil },
	}
	svc := holiday.NewService(repo)

	assert.ErrorIs(t, svc.Delete(context.Background(), "bad"), holidayerrors.ErrInvalidHolidayID)
	assert.ErrorIs(t, svc.Delete(context.Background(), uuid.NewString()), holidayerrors.ErrHolidayNotFound)

	repo.DeleteFn = func(ctx context.Context, id string) (bool, error) { return false, errors.New("db down") }
	assert.EqualError(t, svc.Delete(context.Background(), uuid.NewString()), "db down")
}

func TestHolidayService_DatesBetween(t *testing.T) {
	repo := &fakeRepo{
		FindBetweenFn: func(ctx context.Context, from, to time.Time) ([]holiday.Holiday, error) {
			return []holiday.Holiday{
				{Date: date("2026-05-01")},
				{Date: date("2026-05-14")},
			}, nil
		},
	}
	dates, err := holiday.NewService(repo).DatesBetween(context.Background(), date("2026-05-01"), date("2026-05-31"))
	assert.NoError(t, err)
	assert.Contains(t, dates, "2026-05-01")
	assert.Contains(t, dates, "2026-05-14")
	assert.Len(t, dates, 2)
}
