package balance

import (
	"context"
	"database/sql"
	"errors"

	"go-elms/internal/shared/connection"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

//go:generate mockgen -source=balance_repo.go -destination=mock/balance_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	FindByKey(ctx context.Context, userID, leaveTypeID uuid.UUID, year int) (*LeaveBalance, error)
	LockByKey(ctx context.Context, userID, leaveTypeID uuid.UUID, year int) (*LeaveBalance, error)
	InsertIfAbsent(ctx context.Context, b *LeaveBalance) (bool, error)
	Save(ctx context.Context, b *LeaveBalance) error
	ListByUser(ctx context.Context, userID uuid.UUID, year int) ([]LeaveBalance, error)
	ListByTypeAndYear(ctx context.Context, leaveTypeID uuid.UUID, year int) ([]LeaveBalance, error)
	AppendEntry(ctx context.Context, e *BalanceEntry) error
	EntryExists(ctx context.Context, idempotencyKey string) (bool, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *sql.Tx) Repository {
	return &repository{db: connection.BindTx(r.db, tx)}
}

func (r *repository) FindByKey(ctx context.Context, userID, leaveTypeID uuid.UUID, year int) (*LeaveBalance, error) {
	var b LeaveBalance
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND leave_type_id = ? AND year = ?", userID, leaveTypeID, year).
		First(&b).Error
	if err != nil {
		return nil, err
	}
	return &b, nil
}

// LockByKey takes a row lock held until the surrounding tx ends.
func (r *repository) LockByKey(ctx context.Context, userID, leaveTypeID uuid.UUID, year int) (*LeaveBalance, error) {
	var b LeaveBalance
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("user_id = ? AND leave_type_id = ? AND year = ?", userID, leaveTypeID, year).
		First(&b).Error
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *repository) InsertIfAbsent(ctx context.Context, b *LeaveBalance) (bool, error) {
	res := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "leave_type_id"}, {Name: "year"}},
			DoNothing: true,
		}).
		Create(b)
	return res.RowsAffected > 0, res.Error
}

func (r *repository) Save(ctx context.Context, b *LeaveBalance) error {
	return r.db.WithContext(ctx).Save(b).Error
}

func (r *repository) ListByUser(ctx context.Context, userID uuid.UUID, year int) ([]LeaveBalance, error) {
	var balances []LeaveBalance
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND year = ?", userID, year).
		Order("leave_type_id ASC").
		Find(&balances).Error
	return balances, err
}

func (r *repository) ListByTypeAndYear(ctx context.Context, leaveTypeID uuid.UUID, year int) ([]LeaveBalance, error) {
	var balances []LeaveBalance
	err := r.db.WithContext(ctx).
		Where("leave_type_id = ? AND year = ?", leaveTypeID, year).
		Order("user_id ASC").
		Find(&balances).Error
	return balances, err
}

func (r *repository) AppendEntry(ctx context.Context, e *BalanceEntry) error {
	return r.db.WithContext(ctx).Create(e).Error
}

func (r *repository) EntryExists(ctx context.Context, idempotencyKey string) (bool, error) {
	var e BalanceEntry
	err := r.db.WithContext(ctx).
		Select("id").
		Where("idempotency_key = ?", idempotencyKey).
		First(&e).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	return err == nil, err
}
