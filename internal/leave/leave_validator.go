package leave

import (
	"context"
	"strings"
	"time"

	"go-elms/internal/domain"
	leaveerrors "go-elms/internal/leave/errors"
	"go-elms/internal/leavetype"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OverlapChecker reports whether the user already holds a pending or approved
// request intersecting [start, end].
type OverlapChecker interface {
	HasOverlap(ctx context.Context, userID uuid.UUID, start, end time.Time) (bool, error)
}

// BalanceReader is the read-only slice of the ledger the validator uses.
type BalanceReader interface {
	Remaining(ctx context.Context, userID, leaveTypeID uuid.UUID, year int, defaultAllocation decimal.Decimal) (decimal.Decimal, error)
}

type ValidationInput struct {
	RequesterID   uuid.UUID
	RequesterRole domain.Role
	LeaveType     leavetype.LeaveType
	StartDate     time.Time
	EndDate       time.Time
	Days          int
	AttachmentRef *string
}

type Validator struct {
	overlaps OverlapChecker
	balances BalanceReader
}

func NewValidator(overlaps OverlapChecker, balances BalanceReader) *Validator {
	return &Validator{overlaps: overlaps, balances: balances}
}

// Validate fails on the first broken rule. It never writes.
func (v *Validator) Validate(ctx context.Context, in ValidationInput) error {
	if in.EndDate.Before(in.StartDate) || in.Days <= 0 {
		return leaveerrors.ErrInvalidDateRange
	}

	lt := in.LeaveType
	if !lt.IsActive || !lt.AppliesTo(in.RequesterRole) {
		return leaveerrors.ErrNotApplicable
	}
	if lt.MaxDays > 0 && in.Days > lt.MaxDays {
		return leaveerrors.ErrExceedsMaxDays
	}

	overlap, err := v.overlaps.HasOverlap(ctx, in.RequesterID, in.StartDate, in.EndDate)
	if err != nil {
		return err
	}
	if overlap {
		return leaveerrors.ErrLeaveOverlap
	}

	if lt.UsesBalance() {
		remaining, err := v.balances.Remaining(ctx, in.RequesterID, lt.ID, in.StartDate.Year(), lt.DefaultAllocation)
		if err != nil {
			return err
		}
		if remaining.LessThan(decimal.NewFromInt(int64(in.Days))) {
			return leaveerrors.ErrInsufficientBalance
		}
	}

	if lt.RequiresAttachment && (in.AttachmentRef == nil || strings.TrimSpace(*in.AttachmentRef) == "") {
		return leaveerrors.ErrMissingAttachment
	}

	return nil
}
