package balance_test

import (
	"context"
	"testing"
	"time"

	"go-elms/internal/balance"
	balanceerrors "go-elms/internal/balance/errors"
	balanceMock "go-elms/internal/balance/mock"
	"go-elms/internal/leavetype"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"gorm.io/gorm"
)

type fakeCatalog struct {
	types []leavetype.LeaveType
}

func (f *fakeCatalog) FindAll(ctx context.Context) ([]leavetype.LeaveType, error) {
	return f.types, nil
}

func (f *fakeCatalog) Find(ctx context.Context, id string) (leavetype.LeaveType, error) {
	for _, lt := range f.types {
		if lt.ID.String() == id {
			return lt, nil
		}
	}
	return leavetype.LeaveType{}, gorm.ErrRecordNotFound
}

func d(v float64) decimal.Decimal { return decimal.NewFromFloat(v) }

func setupLedger(t *testing.T, types ...leavetype.LeaveType) (balance.Ledger, *balanceMock.MockRepository) {
	ctrl := gomock.NewController(t)
	repo := balanceMock.NewMockRepository(ctrl)
	return balance.NewLedger(repo, &fakeCatalog{types: types}), repo
}

func TestLedger_Debit(t *testing.T) {
	ctx := context.Background()
	userID, typeID, requestID := uuid.New(), uuid.New(), uuid.New()
	in := balance.DebitInput{
		UserID:            userID,
		LeaveTypeID:       typeID,
		Year:              2026,
		Days:              d(5),
		RequestID:         requestID,
		DefaultAllocation: d(21),
	}

	t.Run("increments used exactly once", func(t *testing.T) {
		ledger, repo := setupLedger(t)
		row := &balance.LeaveBalance{ID: uuid.New(), UserID: userID, LeaveTypeID: typeID, Year: 2026, TotalDays: d(21)}

		gomock.InOrder(
			repo.EXPECT().InsertIfAbsent(gomock.Any(), gomock.Any()).Return(false, nil),
			repo.EXPECT().LockByKey(gomock.Any(), userID, typeID, 2026).Return(row, nil),
			repo.EXPECT().EntryExists(gomock.Any(), balance.DebitKey(requestID)).Return(false, nil),
			repo.EXPECT().Save(gomock.Any(), row).Return(nil),
			repo.EXPECT().
				AppendEntry(gomock.Any(), gomock.Any()).
				DoAndReturn(func(_ context.Context, e *balance.BalanceEntry) error {
					assert.Equal(t, balance.EntryDebit, e.Kind)
					assert.Equal(t, "debit:"+requestID.String(), e.IdempotencyKey)
					assert.True(t, e.Days.Equal(d(5)))
					assert.Equal(t, requestID, *e.RequestID)
					return nil
				}),
		)

		got, err := ledger.Debit(ctx, in)

		require.NoError(t, err)
		assert.True(t, got.UsedDays.Equal(d(5)))
		assert.True(t, got.Remaining().Equal(d(16)))
	})

	t.Run("new row gets an allocation entry", func(t *testing.T) {
		ledger, repo := setupLedger(t)

		repo.EXPECT().
			InsertIfAbsent(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, b *balance.LeaveBalance) (bool, error) {
				assert.True(t, b.TotalDays.Equal(d(21)))
				return true, nil
			})
		repo.EXPECT().
			AppendEntry(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, e *balance.BalanceEntry) error {
				assert.Equal(t, balance.EntryAllocation, e.Kind)
				return nil
			})
		repo.EXPECT().LockByKey(gomock.Any(), userID, typeID, 2026).
			Return(&balance.LeaveBalance{ID: uuid.New(), TotalDays: d(21)}, nil)
		repo.EXPECT().EntryExists(gomock.Any(), gomock.Any()).Return(false, nil)
		repo.EXPECT().Save(gomock.Any(), gomock.Any()).Return(nil)
		repo.EXPECT().AppendEntry(gomock.Any(), gomock.Any()).Return(nil)

		_, err := ledger.Debit(ctx, in)
		assert.NoError(t, err)
	})

	t.Run("duplicate debit is rejected without writing", func(t *testing.T) {
		ledger, repo := setupLedger(t)

		repo.EXPECT().InsertIfAbsent(gomock.Any(), gomock.Any()).Return(false, nil)
		repo.EXPECT().LockByKey(gomock.Any(), userID, typeID, 2026).
			Return(&balance.LeaveBalance{TotalDays: d(21), UsedDays: d(5)}, nil)
		repo.EXPECT().EntryExists(gomock.Any(), balance.DebitKey(requestID)).Return(true, nil)
		repo.EXPECT().Save(gomock.Any(), gomock.Any()).Times(0)

		_, err := ledger.Debit(ctx, in)
		assert.ErrorIs(t, err, balanceerrors.ErrAlreadyDebited)
	})

	t.Run("insufficient balance", func(t *testing.T) {
		ledger, repo := setupLedger(t)

		repo.EXPECT().InsertIfAbsent(gomock.Any(), gomock.Any()).Return(false, nil)
		repo.EXPECT().LockByKey(gomock.Any(), userID, typeID, 2026).
			Return(&balance.LeaveBalance{TotalDays: d(21), UsedDays: d(18)}, nil)
		repo.EXPECT().EntryExists(gomock.Any(), gomock.Any()).Return(false, nil)

		_, err := ledger.Debit(ctx, in)
		assert.ErrorIs(t, err, balanceerrors.ErrInsufficientBalance)
	})

	t.Run("overdraft allowed", func(t *testing.T) {
		ledger, repo := setupLedger(t)

		repo.EXPECT().InsertIfAbsent(gomock.Any(), gomock.Any()).Return(false, nil)
		repo.EXPECT().LockByKey(gomock.Any(), userID, typeID, 2026).
			Return(&balance.LeaveBalance{TotalDays: d(21), UsedDays: d(18)}, nil)
		repo.EXPECT().EntryExists(gomock.Any(), gomock.Any()).Return(false, nil)
		repo.EXPECT().Save(gomock.Any(), gomock.Any()).Return(nil)
		repo.EXPECT().AppendEntry(gomock.Any(), gomock.Any()).Return(nil)

		overdraft := in
		overdraft.AllowOverdraft = true
		got, err := ledger.Debit(ctx, overdraft)

		require.NoError(t, err)
		assert.True(t, got.Remaining().Equal(d(-2)))
	})

	t.Run("zero days", func(t *testing.T) {
		ledger, _ := setupLedger(t)
		zero := in
		zero.Days = decimal.Zero
		_, err := ledger.Debit(ctx, zero)
		assert.ErrorIs(t, err, balanceerrors.ErrInvalidDays)
	})
}

func TestLedger_Credit(t *testing.T) {
	ledger, repo := setupLedger(t)
	userID, typeID := uuid.New(), uuid.New()

	repo.EXPECT().InsertIfAbsent(gomock.Any(), gomock.Any()).Return(false, nil)
	repo.EXPECT().LockByKey(gomock.Any(), userID, typeID, 2026).
		Return(&balance.LeaveBalance{TotalDays: d(12), UsedDays: d(5)}, nil)
	repo.EXPECT().Save(gomock.Any(), gomock.Any()).Return(nil)
	repo.EXPECT().
		AppendEntry(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, e *balance.BalanceEntry) error {
			assert.Equal(t, balance.EntryCredit, e.Kind)
			assert.Equal(t, "sick day refund", e.Note)
			return nil
		})

	got, err := ledger.Credit(context.Background(), balance.CreditInput{
		UserID:      userID,
		LeaveTypeID: typeID,
		Year:        2026,
		Days:        d(2),
		Note:        "sick day refund",
	})

	require.NoError(t, err)
	assert.True(t, got.UsedDays.Equal(d(3)))
}

func TestLedger_Credit_CannotExceedUsed(t *testing.T) {
	ledger, repo := setupLedger(t)
	userID, typeID := uuid.New(), uuid.New()

	repo.EXPECT().InsertIfAbsent(gomock.Any(), gomock.Any()).Return(true, nil)
	repo.EXPECT().AppendEntry(gomock.Any(), gomock.Any()).Return(nil)
	repo.EXPECT().LockByKey(gomock.Any(), userID, typeID, 2026).
		Return(&balance.LeaveBalance{TotalDays: d(21), UsedDays: decimal.Zero}, nil)
	repo.EXPECT().Save(gomock.Any(), gomock.Any()).Times(0)

	_, err := ledger.Credit(context.Background(), balance.CreditInput{
		UserID:            userID,
		LeaveTypeID:       typeID,
		Year:              2026,
		Days:              d(10),
		DefaultAllocation: d(21),
	})

	assert.ErrorIs(t, err, balanceerrors.ErrCreditExceedsUsed)
}

func TestLedger_Remaining(t *testing.T) {
	ctx := context.Background()
	userID, typeID := uuid.New(), uuid.New()

	t.Run("missing row reads as default", func(t *testing.T) {
		ledger, repo := setupLedger(t)
		repo.EXPECT().FindByKey(gomock.Any(), userID, typeID, 2026).Return(nil, gorm.ErrRecordNotFound)
		repo.EXPECT().InsertIfAbsent(gomock.Any(), gomock.Any()).Times(0)

		got, err := ledger.Remaining(ctx, userID, typeID, 2026, d(12))
		require.NoError(t, err)
		assert.True(t, got.Equal(d(12)))
	})

	t.Run("existing row", func(t *testing.T) {
		ledger, repo := setupLedger(t)
		repo.EXPECT().FindByKey(gomock.Any(), userID, typeID, 2026).
			Return(&balance.LeaveBalance{TotalDays: d(21), UsedDays: d(7.5)}, nil)

		got, err := ledger.Remaining(ctx, userID, typeID, 2026, d(12))
		require.NoError(t, err)
		assert.True(t, got.Equal(d(13.5)))
	})
}

func TestLedger_Rollover(t *testing.T) {
	limit := d(5)
	annual := leavetype.LeaveType{ID: uuid.New(), Code: "ANNUAL", TracksBalance: true, IsPaid: true, CarryForward: true, MaxCarryForward: &limit, DefaultAllocation: d(12)}
	sick := leavetype.LeaveType{ID: uuid.New(), Code: "SICK", TracksBalance: true, IsPaid: true}
	ledger, repo := setupLedger(t, annual, sick)

	fresh := balance.LeaveBalance{ID: uuid.New(), UserID: uuid.New(), LeaveTypeID: annual.ID, Year: 2025, TotalDays: d(12), UsedDays: d(4)}
	rolled := balance.LeaveBalance{ID: uuid.New(), UserID: uuid.New(), LeaveTypeID: annual.ID, Year: 2025, TotalDays: d(12)}
	target := &balance.LeaveBalance{ID: uuid.New(), UserID: fresh.UserID, LeaveTypeID: annual.ID, Year: 2026, TotalDays: d(12)}

	repo.EXPECT().ListByTypeAndYear(gomock.Any(), annual.ID, 2025).Return([]balance.LeaveBalance{fresh, rolled}, nil)
	repo.EXPECT().EntryExists(gomock.Any(), balance.RolloverKey(fresh.ID, 2026)).Return(false, nil)
	repo.EXPECT().EntryExists(gomock.Any(), balance.RolloverKey(rolled.ID, 2026)).Return(true, nil)
	repo.EXPECT().InsertIfAbsent(gomock.Any(), gomock.Any()).Return(false, nil)
	repo.EXPECT().LockByKey(gomock.Any(), fresh.UserID, annual.ID, 2026).Return(target, nil)
	repo.EXPECT().Save(gomock.Any(), target).Return(nil)
	repo.EXPECT().
		AppendEntry(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, e *balance.BalanceEntry) error {
			assert.Equal(t, balance.EntryCarryForward, e.Kind)
			assert.Equal(t, target.ID, e.BalanceID)
			assert.True(t, e.Days.Equal(d(5)))
			return nil
		})

	res, err := ledger.Rollover(context.Background(), 2025)

	require.NoError(t, err)
	assert.Equal(t, 2, res.Processed)
	assert.Equal(t, 1, res.Applied)
	assert.Equal(t, 1, res.Skipped)
	assert.True(t, res.TotalDays.Equal(d(5)))
	assert.True(t, target.TotalDays.Equal(d(17)))
	assert.True(t, target.CarriedForward.Equal(d(5)))
}

func TestLedger_Accrue(t *testing.T) {
	monthly := leavetype.LeaveType{ID: uuid.New(), TracksBalance: true, IsPaid: true, AccrualRate: d(1.5)}
	flat := leavetype.LeaveType{ID: uuid.New(), TracksBalance: true, IsPaid: true}
	ledger, repo := setupLedger(t, monthly, flat)

	row := balance.LeaveBalance{ID: uuid.New(), UserID: uuid.New(), LeaveTypeID: monthly.ID, Year: 2026, TotalDays: d(3)}
	locked := row

	repo.EXPECT().ListByTypeAndYear(gomock.Any(), monthly.ID, 2026).Return([]balance.LeaveBalance{row}, nil)
	repo.EXPECT().EntryExists(gomock.Any(), balance.AccrualKey(row.ID, 2026, time.March)).Return(false, nil)
	repo.EXPECT().LockByKey(gomock.Any(), row.UserID, monthly.ID, 2026).Return(&locked, nil)
	repo.EXPECT().Save(gomock.Any(), gomock.Any()).Return(nil)
	repo.EXPECT().AppendEntry(gomock.Any(), gomock.Any()).Return(nil)

	res, err := ledger.Accrue(context.Background(), 2026, time.March)

	require.NoError(t, err)
	assert.Equal(t, 1, res.Applied)
	assert.True(t, locked.TotalDays.Equal(d(4.5)))
	assert.Equal(t, "accrual:"+row.ID.String()+":2026-03", balance.AccrualKey(row.ID, 2026, time.March))
}
