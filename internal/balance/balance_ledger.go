package balance

import (
	"context"
	"database/sql"
	"errors"
	"time"

	balanceerrors "go-elms/internal/balance/errors"
	"go-elms/internal/leavetype"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// TypeCatalog is the slice of the leave type service the ledger reads.
type TypeCatalog interface {
	FindAll(ctx context.Context) ([]leavetype.LeaveType, error)
}

type DebitInput struct {
	UserID            uuid.UUID
	LeaveTypeID       uuid.UUID
	Year              int
	Days              decimal.Decimal
	RequestID         uuid.UUID
	DefaultAllocation decimal.Decimal
	// AllowOverdraft lets an admin override or the system sweeper push
	// used past total.
	AllowOverdraft bool
	ActorID        *uuid.UUID
}

type CreditInput struct {
	UserID            uuid.UUID
	LeaveTypeID       uuid.UUID
	Year              int
	Days              decimal.Decimal
	DefaultAllocation decimal.Decimal
	Note              string
	ActorID           *uuid.UUID
}

type RunResult struct {
	Processed int             `json:"processed"`
	Applied   int             `json:"applied"`
	Skipped   int             `json:"skipped"`
	TotalDays decimal.Decimal `json:"total_days"`
}

//go:generate mockgen -source=balance_ledger.go -destination=mock/balance_ledger_mock.go -package=mock
type Ledger interface {
	WithTx(tx *sql.Tx) Ledger
	EnsureRow(ctx context.Context, userID, leaveTypeID uuid.UUID, year int, defaultAllocation decimal.Decimal) (LeaveBalance, error)
	Debit(ctx context.Context, in DebitInput) (LeaveBalance, error)
	Credit(ctx context.Context, in CreditInput) (LeaveBalance, error)
	Remaining(ctx context.Context, userID, leaveTypeID uuid.UUID, year int, defaultAllocation decimal.Decimal) (decimal.Decimal, error)
	Rollover(ctx context.Context, fromYear int) (RunResult, error)
	Accrue(ctx context.Context, year int, month time.Month) (RunResult, error)
	ListForUser(ctx context.Context, userID uuid.UUID, year int) ([]LeaveBalance, error)
}

type ledger struct {
	repo    Repository
	catalog TypeCatalog
	logger  *zap.Logger
}

// NewLedger does not own transactions. Callers bind it with WithTx so the
// movement commits together with whatever caused it.
func NewLedger(repo Repository, catalog TypeCatalog, logger ...*zap.Logger) Ledger {
	l := zap.L().Named("balance.ledger")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("balance.ledger")
	}
	return &ledger{repo: repo, catalog: catalog, logger: l}
}

func (l *ledger) WithTx(tx *sql.Tx) Ledger {
	return &ledger{repo: l.repo.WithTx(tx), catalog: l.catalog, logger: l.logger}
}

func (l *ledger) ensure(ctx context.Context, userID, leaveTypeID uuid.UUID, year int, defaultAllocation decimal.Decimal) error {
	row := &LeaveBalance{
		ID:          uuid.New(),
		UserID:      userID,
		LeaveTypeID: leaveTypeID,
		Year:        year,
		TotalDays:   defaultAllocation,
	}
	created, err := l.repo.InsertIfAbsent(ctx, row)
	if err != nil {
		return err
	}
	if !created {
		return nil
	}

	l.logger.Debug("balance row created",
		zap.String("balance_id", row.ID.String()),
		zap.String("user_id", userID.String()),
		zap.Int("year", year),
	)
	return l.repo.AppendEntry(ctx, &BalanceEntry{
		ID:             uuid.New(),
		BalanceID:      row.ID,
		Kind:           EntryAllocation,
		Days:           defaultAllocation,
		IdempotencyKey: allocationKey(row.ID),
	})
}

func (l *ledger) EnsureRow(ctx context.Context, userID, leaveTypeID uuid.UUID, year int, defaultAllocation decimal.Decimal) (LeaveBalance, error) {
	if err := l.ensure(ctx, userID, leaveTypeID, year, defaultAllocation); err != nil {
		return LeaveBalance{}, err
	}
	b, err := l.repo.FindByKey(ctx, userID, leaveTypeID, year)
	if err != nil {
		return LeaveBalance{}, err
	}
	return *b, nil
}

func (l *ledger) Debit(ctx context.Context, in DebitInput) (LeaveBalance, error) {
	if !in.Days.IsPositive() {
		return LeaveBalance{}, balanceerrors.ErrInvalidDays
	}

	if err := l.ensure(ctx, in.UserID, in.LeaveTypeID, in.Year, in.DefaultAllocation); err != nil {
		return LeaveBalance{}, err
	}

	b, err := l.repo.LockByKey(ctx, in.UserID, in.LeaveTypeID, in.Year)
	if err != nil {
		return LeaveBalance{}, err
	}

	key := DebitKey(in.RequestID)
	exists, err := l.repo.EntryExists(ctx, key)
	if err != nil {
		return LeaveBalance{}, err
	}
	if exists {
		l.logger.Warn("duplicate debit rejected", zap.String("request_id", in.RequestID.String()))
		return LeaveBalance{}, balanceerrors.ErrAlreadyDebited
	}

	if !in.AllowOverdraft && b.Remaining().LessThan(in.Days) {
		return LeaveBalance{}, balanceerrors.ErrInsufficientBalance
	}

	b.UsedDays = b.UsedDays.Add(in.Days)
	if err := l.repo.Save(ctx, b); err != nil {
		return LeaveBalance{}, err
	}

	requestID := in.RequestID
	err = l.repo.AppendEntry(ctx, &BalanceEntry{
		ID:             uuid.New(),
		BalanceID:      b.ID,
		Kind:           EntryDebit,
		Days:           in.Days,
		RequestID:      &requestID,
		IdempotencyKey: key,
		CreatedBy:      in.ActorID,
	})
	if isUniqueViolation(err) {
		return LeaveBalance{}, balanceerrors.ErrAlreadyDebited
	}
	if err != nil {
		return LeaveBalance{}, err
	}

	l.logger.Info("balance debited",
		zap.String("balance_id", b.ID.String()),
		zap.String("request_id", in.RequestID.String()),
		zap.String("days", in.Days.String()),
		zap.String("used", b.UsedDays.String()),
	)
	return *b, nil
}

func (l *ledger) Credit(ctx context.Context, in CreditInput) (LeaveBalance, error) {
	if !in.Days.IsPositive() {
		return LeaveBalance{}, balanceerrors.ErrInvalidDays
	}

	if err := l.ensure(ctx, in.UserID, in.LeaveTypeID, in.Year, in.DefaultAllocation); err != nil {
		return LeaveBalance{}, err
	}

	b, err := l.repo.LockByKey(ctx, in.UserID, in.LeaveTypeID, in.Year)
	if err != nil {
		return LeaveBalance{}, err
	}

	if in.Days.GreaterThan(b.UsedDays) {
		return LeaveBalance{}, balanceerrors.ErrCreditExceedsUsed
	}

	b.UsedDays = b.UsedDays.Sub(in.Days)
	if err := l.repo.Save(ctx, b); err != nil {
		return LeaveBalance{}, err
	}

	if err := l.repo.AppendEntry(ctx, &BalanceEntry{
		ID:             uuid.New(),
		BalanceID:      b.ID,
		Kind:           EntryCredit,
		Days:           in.Days,
		IdempotencyKey: creditKey(),
		Note:           in.Note,
		CreatedBy:      in.ActorID,
	}); err != nil {
		return LeaveBalance{}, err
	}

	l.logger.Info("balance credited",
		zap.String("balance_id", b.ID.String()),
		zap.String("days", in.Days.String()),
		zap.String("used", b.UsedDays.String()),
	)
	return *b, nil
}

// Remaining never writes. A missing row reads as the default allocation.
func (l *ledger) Remaining(ctx context.Context, userID, leaveTypeID uuid.UUID, year int, defaultAllocation decimal.Decimal) (decimal.Decimal, error) {
	b, err := l.repo.FindByKey(ctx, userID, leaveTypeID, year)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return defaultAllocation, nil
	}
	if err != nil {
		return decimal.Zero, err
	}
	return b.Remaining(), nil
}

// Rollover carries min(remaining, max_carry_forward) of every carry-forward
// balance in fromYear into fromYear+1. Balances already rolled are skipped.
func (l *ledger) Rollover(ctx context.Context, fromYear int) (RunResult, error) {
	result := RunResult{TotalDays: decimal.Zero}
	toYear := fromYear + 1

	types, err := l.catalog.FindAll(ctx)
	if err != nil {
		return result, err
	}

	for _, lt := range types {
		if !lt.CarryForward || !lt.UsesBalance() {
			continue
		}

		balances, err := l.repo.ListByTypeAndYear(ctx, lt.ID, fromYear)
		if err != nil {
			return result, err
		}

		for _, src := range balances {
			result.Processed++

			key := RolloverKey(src.ID, toYear)
			done, err := l.repo.EntryExists(ctx, key)
			if err != nil {
				return result, err
			}
			if done {
				result.Skipped++
				continue
			}

			carry := decimal.Max(src.Remaining(), decimal.Zero)
			if limit, ok := lt.CarryLimit(); ok {
				carry = decimal.Min(carry, limit)
			}

			if err := l.ensure(ctx, src.UserID, lt.ID, toYear, lt.DefaultAllocation); err != nil {
				return result, err
			}
			target, err := l.repo.LockByKey(ctx, src.UserID, lt.ID, toYear)
			if err != nil {
				return result, err
			}

			target.TotalDays = target.TotalDays.Add(carry)
			target.CarriedForward = target.CarriedForward.Add(carry)
			if err := l.repo.Save(ctx, target); err != nil {
				return result, err
			}

			// A zero carry still gets its entry so a re-run skips the row.
			if err := l.repo.AppendEntry(ctx, &BalanceEntry{
				ID:             uuid.New(),
				BalanceID:      target.ID,
				Kind:           EntryCarryForward,
				Days:           carry,
				IdempotencyKey: key,
				Note:           "from " + src.ID.String(),
			}); err != nil {
				return result, err
			}

			result.Applied++
			result.TotalDays = result.TotalDays.Add(carry)
		}
	}

	l.logger.Info("rollover completed",
		zap.Int("from_year", fromYear),
		zap.Int("processed", result.Processed),
		zap.Int("applied", result.Applied),
		zap.Int("skipped", result.Skipped),
		zap.String("total_days", result.TotalDays.String()),
	)
	return result, nil
}

// Accrue grants accrual_rate days to every existing row of accruing types,
// once per month.
func (l *ledger) Accrue(ctx context.Context, year int, month time.Month) (RunResult, error) {
	result := RunResult{TotalDays: decimal.Zero}

	types, err := l.catalog.FindAll(ctx)
	if err != nil {
		return result, err
	}

	for _, lt := range types {
		if !lt.UsesBalance() || !lt.AccrualRate.IsPositive() {
			continue
		}

		balances, err := l.repo.ListByTypeAndYear(ctx, lt.ID, year)
		if err != nil {
			return result, err
		}

		for _, row := range balances {
			result.Processed++

			key := AccrualKey(row.ID, year, month)
			done, err := l.repo.EntryExists(ctx, key)
			if err != nil {
				return result, err
			}
			if done {
				result.Skipped++
				continue
			}

			b, err := l.repo.LockByKey(ctx, row.UserID, row.LeaveTypeID, row.Year)
			if err != nil {
				return result, err
			}
			b.TotalDays = b.TotalDays.Add(lt.AccrualRate)
			if err := l.repo.Save(ctx, b); err != nil {
				return result, err
			}

			if err := l.repo.AppendEntry(ctx, &BalanceEntry{
				ID:             uuid.New(),
				BalanceID:      b.ID,
				Kind:           EntryAccrual,
				Days:           lt.AccrualRate,
				IdempotencyKey: key,
			}); err != nil {
				return result, err
			}

			result.Applied++
			result.TotalDays = result.TotalDays.Add(lt.AccrualRate)
		}
	}

	l.logger.Info("accrual completed",
		zap.Int("year", year),
		zap.Int("month", int(month)),
		zap.Int("applied", result.Applied),
		zap.Int("skipped", result.Skipped),
	)
	return result, nil
}

func (l *ledger) ListForUser(ctx context.Context, userID uuid.UUID, year int) ([]LeaveBalance, error) {
	return l.repo.ListByUser(ctx, userID, year)
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
