package balance

import (
	"context"
	"database/sql"
	"time"

	balanceerrors "go-elms/internal/balance/errors"
	"go-elms/internal/domain"
	"go-elms/internal/leavetype"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// LeaveTypeFinder is satisfied by leavetype.Service.
type LeaveTypeFinder interface {
	TypeCatalog
	Find(ctx context.Context, id string) (leavetype.LeaveType, error)
}

//go:generate mockgen -source=balance_service.go -destination=mock/balance_service_mock.go -package=mock
type Service interface {
	ListMine(ctx context.Context, actor domain.Actor, year int) ([]BalanceResponse, error)
	ListForUser(ctx context.Context, userID string, year int) ([]BalanceResponse, error)
	Credit(ctx context.Context, actor domain.Actor, req CreditRequest) (BalanceResponse, error)
	Rollover(ctx context.Context, actor domain.Actor, fromYear int) (RunResponse, error)
	Accrue(ctx context.Context, actor domain.Actor, year, month int) (RunResponse, error)
}

type service struct {
	db     *sql.DB
	ledger Ledger
	types  LeaveTypeFinder
	logger *zap.Logger
}

func NewService(db *sql.DB, ledger Ledger, types LeaveTypeFinder, logger ...*zap.Logger) Service {
	l := zap.L().Named("balance.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("balance.service")
	}
	return &service{db: db, ledger: ledger, types: types, logger: l}
}

func (s *service) ListMine(ctx context.Context, actor domain.Actor, year int) ([]BalanceResponse, error) {
	return s.list(ctx, actor.ID, year)
}

func (s *service) ListForUser(ctx context.Context, userID string, year int) ([]BalanceResponse, error) {
	id, err := uuid.Parse(userID)
	if err != nil {
		return nil, balanceerrors.ErrBalanceNotFound
	}
	return s.list(ctx, id, year)
}

// list merges stored rows with every active tracked type so a user sees the
// default allocation of types they have never used.
func (s *service) list(ctx context.Context, userID uuid.UUID, year int) ([]BalanceResponse, error) {
	if year < 1970 || year > 9999 {
		return nil, balanceerrors.ErrInvalidYear
	}

	rows, err := s.ledger.ListForUser(ctx, userID, year)
	if err != nil {
		s.logger.Error("list balances failed", zap.String("user_id", userID.String()), zap.Error(err))
		return nil, err
	}
	types, err := s.types.FindAll(ctx)
	if err != nil {
		return nil, err
	}

	byType := make(map[uuid.UUID]LeaveBalance, len(rows))
	for _, r := range rows {
		byType[r.LeaveTypeID] = r
	}

	resp := make([]BalanceResponse, 0, len(types))
	for _, lt := range types {
		row, ok := byType[lt.ID]
		if !ok {
			if !lt.IsActive || !lt.UsesBalance() {
				continue
			}
			row = LeaveBalance{UserID: userID, LeaveTypeID: lt.ID, Year: year, TotalDays: lt.DefaultAllocation}
		}
		resp = append(resp, mapToResponse(row, lt, ok))
	}
	return resp, nil
}

func (s *service) Credit(ctx context.Context, actor domain.Actor, req CreditRequest) (BalanceResponse, error) {
	lt, err := s.types.Find(ctx, req.LeaveTypeID)
	if err != nil {
		return BalanceResponse{}, err
	}
	if !lt.UsesBalance() {
		return BalanceResponse{}, balanceerrors.ErrInvalidLeaveType
	}
	userID, err := uuid.Parse(req.UserID)
	if err != nil {
		return BalanceResponse{}, balanceerrors.ErrBalanceNotFound
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return BalanceResponse{}, err
	}
	defer tx.Rollback()

	actorID := actor.ID
	b, err := s.ledger.WithTx(tx).Credit(ctx, CreditInput{
		UserID:            userID,
		LeaveTypeID:       lt.ID,
		Year:              req.Year,
		Days:              decimal.NewFromFloat(req.Days),
		DefaultAllocation: lt.DefaultAllocation,
		Note:              req.Note,
		ActorID:           &actorID,
	})
	if err != nil {
		s.logger.Error("credit balance failed", zap.String("user_id", req.UserID), zap.Error(err))
		return BalanceResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		return BalanceResponse{}, err
	}

	s.logger.Info("balance credit committed",
		zap.String("actor_id", actor.ID.String()),
		zap.String("user_id", req.UserID),
		zap.Float64("days", req.Days),
	)
	return mapToResponse(b, lt, true), nil
}

func (s *service) Rollover(ctx context.Context, actor domain.Actor, fromYear int) (RunResponse, error) {
	if fromYear < 1970 || fromYear > 9998 {
		return RunResponse{}, balanceerrors.ErrInvalidYear
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return RunResponse{}, err
	}
	defer tx.Rollback()

	res, err := s.ledger.WithTx(tx).Rollover(ctx, fromYear)
	if err != nil {
		s.logger.Error("rollover failed", zap.Int("from_year", fromYear), zap.Error(err))
		return RunResponse{}, err
	}
	if err := tx.Commit(); err != nil {
		return RunResponse{}, err
	}

	s.logger.Info("rollover committed", zap.String("actor_id", actor.ID.String()), zap.Int("from_year", fromYear))
	return mapRun(res), nil
}

func (s *service) Accrue(ctx context.Context, actor domain.Actor, year, month int) (RunResponse, error) {
	if year < 1970 || year > 9999 || month < 1 || month > 12 {
		return RunResponse{}, balanceerrors.ErrInvalidYear
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return RunResponse{}, err
	}
	defer tx.Rollback()

	res, err := s.ledger.WithTx(tx).Accrue(ctx, year, time.Month(month))
	if err != nil {
		s.logger.Error("accrual failed", zap.Int("year", year), zap.Int("month", month), zap.Error(err))
		return RunResponse{}, err
	}
	if err := tx.Commit(); err != nil {
		return RunResponse{}, err
	}

	s.logger.Info("accrual committed", zap.String("actor_id", actor.ID.String()), zap.Int("year", year), zap.Int("month", month))
	return mapRun(res), nil
}

func mapToResponse(b LeaveBalance, lt leavetype.LeaveType, persisted bool) BalanceResponse {
	resp := BalanceResponse{
		UserID:         b.UserID.String(),
		LeaveTypeID:    b.LeaveTypeID.String(),
		LeaveTypeCode:  lt.Code,
		LeaveTypeName:  lt.Name,
		Year:           b.Year,
		TotalDays:      b.TotalDays.InexactFloat64(),
		UsedDays:       b.UsedDays.InexactFloat64(),
		CarriedForward: b.CarriedForward.InexactFloat64(),
		RemainingDays:  b.Remaining().InexactFloat64(),
		Persisted:      persisted,
	}
	if persisted {
		resp.ID = b.ID.String()
	}
	return resp
}

func mapRun(r RunResult) RunResponse {
	return RunResponse{
		Processed: r.Processed,
		Applied:   r.Applied,
		Skipped:   r.Skipped,
		TotalDays: r.TotalDays.InexactFloat64(),
	}
}
