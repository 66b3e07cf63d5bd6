package leavetype

import (
	"time"

	"go-elms/internal/domain"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
)

type LeaveType struct {
	ID                 uuid.UUID        `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Code               string           `gorm:"type:varchar(30);not null;uniqueIndex:uq_leave_types_code"`
	Name               string           `gorm:"type:varchar(100);not null"`
	MaxDays            int              `gorm:"type:int;not null;default:0"`
	DefaultAllocation  decimal.Decimal  `gorm:"type:numeric(6,2);not null;default:0"`
	RequiresAttachment bool             `gorm:"not null;default:false"`
	IsPaid             bool             `gorm:"not null;default:true"`
	TracksBalance      bool             `gorm:"not null;default:true"`
	AccrualRate        decimal.Decimal  `gorm:"type:numeric(6,2);not null;default:0"`
	CarryForward       bool             `gorm:"not null;default:false"`
	MaxCarryForward    *decimal.Decimal `gorm:"type:numeric(6,2)"`
	ApplicableRoles    pq.StringArray   `gorm:"type:text[]"`
	Color              string           `gorm:"type:varchar(7)"`
	IsActive           bool             `gorm:"not null;default:true"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

// AppliesTo reports whether a requester holding role may take this leave.
// An empty role list means the type is open to everyone.
// UsesBalance reports whether requests of this type draw on a balance.
// Unpaid leave never does, whatever tracks_balance says.
func (lt LeaveType) UsesBalance() bool {
	return lt.IsPaid && lt.TracksBalance
}

func (lt LeaveType) AppliesTo(role domain.Role) bool {
	if len(lt.ApplicableRoles) == 0 {
		return true
	}
	for _, r := range lt.ApplicableRoles {
		if domain.Role(r) == role {
			return true
		}
	}
	return false
}

// CarryLimit caps the days moved into the next year. ok is false when unlimited.
func (lt LeaveType) CarryLimit() (limit decimal.Decimal, ok bool) {
	if lt.MaxCarryForward == nil {
		return decimal.Zero, false
	}
	return *lt.MaxCarryForward, true
}
