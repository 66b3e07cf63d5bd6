package holiday

import (
	"context"
	"errors"
	"strings"
	"time"

	holidayerrors "go-elms/internal/holiday/errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"
)

const dateLayout = "2006-01-02"

type Service interface {
	ListByYear(ctx context.Context, year int) ([]HolidayResponse, error)
	Create(ctx context.Context, req CreateHolidayRequest) (HolidayResponse, error)
	Delete(ctx context.Context, id string) error
	// DatesBetween feeds working-day counting. Keys are "2006-01-02".
	DatesBetween(ctx context.Context, from, to time.Time) (map[string]struct{}, error)
}

type service struct {
	repo   Repository
	logger *zap.Logger
}

func NewService(repo Repository, logger ...*zap.Logger) Service {
	l := zap.L().Named("holiday.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("holiday.service")
	}
	return &service{repo: repo, logger: l}
}

func (s *service) ListByYear(ctx context.Context, year int) ([]HolidayResponse, error) {
	if year < 1970 || year > 9999 {
		return nil, holidayerrors.ErrInvalidYear
	}
	from := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(year, time.December, 31, 0, 0, 0, 0, time.UTC)

	holidays, err := s.repo.FindBetween(ctx, from, to)
	if err != nil {
		s.logger.Error("list holidays failed", zap.Int("year", year), zap.Error(err))
		return nil, err
	}

	resp := make([]HolidayResponse, len(holidays))
	for i, h := range holidays {
		resp[i] = mapToResponse(h)
	}
	return resp, nil
}

func (s *service) Create(ctx context.Context, req CreateHolidayRequest) (HolidayResponse, error) {
	date, err := time.Parse(dateLayout, req.Date)
	if err != nil {
		return HolidayResponse{}, err
	}
	kind := req.Kind
	if kind == "" {
		kind = KindPublic
	}

	h := &Holiday{
		ID:   uuid.New(),
		Date: date,
		Name: strings.TrimSpace(req.Name),
		Kind: kind,
	}
	if err := s.repo.Create(ctx, h); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return HolidayResponse{}, holidayerrors.ErrHolidayDateExists
		}
		s.logger.Error("create holiday failed", zap.String("date", req.Date), zap.Error(err))
		return HolidayResponse{}, err
	}

	s.logger.Info("holiday created", zap.String("holiday_id", h.ID.String()), zap.String("date", req.Date))
	return mapToResponse(*h), nil
}

func (s *service) Delete(ctx context.Context, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return holidayerrors.ErrInvalidHolidayID
	}
	deleted, err := s.repo.Delete(ctx, id)
	if err != nil {
		s.logger.Error("delete holiday failed", zap.String("holiday_id", id), zap.Error(err))
		return err
	}
	if !deleted {
		return holidayerrors.ErrHolidayNotFound
	}
	return nil
}

func (s *service) DatesBetween(ctx context.Context, from, to time.Time) (map[string]struct{}, error) {
	holidays, err := s.repo.FindBetween(ctx, from, to)
	if err != nil {
		return nil, err
	}
	dates := make(map[string]struct{}, len(holidays))
	for _, h := range holidays {
		dates[h.Date.Format(dateLayout)] = struct{}{}
	}
	return dates, nil
}

func mapToResponse(h Holiday) HolidayResponse {
	return HolidayResponse{
		ID:   h.ID.String(),
		Date: h.Date.Format(dateLayout),
		Name: h.Name,
		Kind: h.Kind,
	}
}
