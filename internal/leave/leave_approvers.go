package leave

import (
	"context"
	"errors"
	"fmt"

	departmenterrors "go-elms/internal/department/errors"
	"go-elms/internal/domain"
	leaveerrors "go-elms/internal/leave/errors"
	"go-elms/internal/user"
	usererrors "go-elms/internal/user/errors"

	"github.com/google/uuid"
)

type UserDirectory interface {
	FindActive(ctx context.Context, id uuid.UUID) (user.User, error)
	FirstActiveByRole(ctx context.Context, role string) (*user.User, error)
}

type DepartmentHeads interface {
	HeadOf(ctx context.Context, id uuid.UUID) (*uuid.UUID, error)
}

// ApproverResolver maps each chain role to a concrete user. The department
// head approves as head_of_department; other roles go to the longest standing
// active holder of that role.
type ApproverResolver struct {
	users       UserDirectory
	departments DepartmentHeads
}

func NewApproverResolver(users UserDirectory, departments DepartmentHeads) *ApproverResolver {
	return &ApproverResolver{users: users, departments: departments}
}

func (r *ApproverResolver) Resolve(ctx context.Context, departmentID *uuid.UUID, roles []domain.Role) ([]Approver, error) {
	approvers := make([]Approver, 0, len(roles))
	for _, role := range roles {
		var (
			id  uuid.UUID
			err error
		)
		if role == domain.RoleHeadOfDepartment {
			id, err = r.departmentHead(ctx, departmentID)
		} else {
			id, err = r.firstOfRole(ctx, role)
		}
		if err != nil {
			return nil, err
		}
		approvers = append(approvers, Approver{Role: role, UserID: id})
	}
	return approvers, nil
}

func (r *ApproverResolver) departmentHead(ctx context.Context, departmentID *uuid.UUID) (uuid.UUID, error) {
	if departmentID == nil {
		return uuid.Nil, fmt.Errorf("%w: requester has no department", leaveerrors.ErrApproverUnavailable)
	}

	head, err := r.departments.HeadOf(ctx, *departmentID)
	if err != nil {
		if errors.Is(err, departmenterrors.ErrDepartmentNotFound) {
			return uuid.Nil, leaveerrors.ErrApproverUnavailable.WithCause(err)
		}
		return uuid.Nil, err
	}
	if head == nil {
		return uuid.Nil, fmt.Errorf("%w: department %s has no head", leaveerrors.ErrApproverUnavailable, departmentID)
	}

	u, err := r.users.FindActive(ctx, *head)
	if err != nil {
		if errors.Is(err, usererrors.ErrUserNotFound) || errors.Is(err, usererrors.ErrUserInactive) {
			return uuid.Nil, leaveerrors.ErrApproverUnavailable.WithCause(err)
		}
		return uuid.Nil, err
	}
	return u.ID, nil
}

func (r *ApproverResolver) firstOfRole(ctx context.Context, role domain.Role) (uuid.UUID, error) {
	u, err := r.users.FirstActiveByRole(ctx, string(role))
	if err != nil {
		return uuid.Nil, err
	}
	if u == nil {
		return uuid.Nil, fmt.Errorf("%w: no active %s", leaveerrors.ErrApproverUnavailable, role)
	}
	return u.ID, nil
}
