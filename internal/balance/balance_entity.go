package balance

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type LeaveBalance struct {
	ID             uuid.UUID       `gorm:"type:uuid;primaryKey"`
	UserID         uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:uq_leave_balances_key"`
	LeaveTypeID    uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:uq_leave_balances_key"`
	Year           int             `gorm:"not null;uniqueIndex:uq_leave_balances_key"`
	TotalDays      decimal.Decimal `gorm:"type:numeric(6,2);not null;default:0"`
	UsedDays       decimal.Decimal `gorm:"type:numeric(6,2);not null;default:0"`
	CarriedForward decimal.Decimal `gorm:"type:numeric(6,2);not null;default:0"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// Remaining may be negative after an admin adjustment.
func (b LeaveBalance) Remaining() decimal.Decimal {
	return b.TotalDays.Sub(b.UsedDays)
}

const (
	EntryAllocation   = "allocation"
	EntryDebit        = "debit"
	EntryCredit       = "credit"
	EntryCarryForward = "carry_forward"
	EntryAccrual      = "accrual"
)

// BalanceEntry is append-only. IdempotencyKey is unique across all entries.
type BalanceEntry struct {
	ID             uuid.UUID       `gorm:"type:uuid;primaryKey"`
	BalanceID      uuid.UUID       `gorm:"type:uuid;not null;index"`
	Kind           string          `gorm:"type:varchar(20);not null"`
	Days           decimal.Decimal `gorm:"type:numeric(6,2);not null"`
	RequestID      *uuid.UUID      `gorm:"type:uuid"`
	IdempotencyKey string          `gorm:"type:varchar(120);not null;uniqueIndex:uq_leave_balance_entries_key"`
	Note           string          `gorm:"type:text"`
	CreatedBy      *uuid.UUID      `gorm:"type:uuid"`
	CreatedAt      time.Time
}

func (BalanceEntry) TableName() string {
	return "leave_balance_entries"
}
