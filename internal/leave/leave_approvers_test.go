package leave_test

import (
	"context"
	"errors"
	"testing"

	departmenterrors "go-elms/internal/department/errors"
	"go-elms/internal/domain"
	"go-elms/internal/leave"
	leaveerrors "go-elms/internal/leave/errors"
	"go-elms/internal/user"
	usererrors "go-elms/internal/user/errors"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeDirectory struct {
	users  map[uuid.UUID]user.User
	byRole map[string]*user.User
	err    error
}

func (f *fakeDirectory) FindActive(ctx context.Context, id uuid.UUID) (user.User, error) {
	u, ok := f.users[id]
	if !ok {
		return user.User{}, usererrors.ErrUserNotFound
	}
	if !u.IsActive {
		return user.User{}, usererrors.ErrUserInactive
	}
	return u, nil
}

func (f *fakeDirectory) FirstActiveByRole(ctx context.Context, role string) (*user.User, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.byRole[role], nil
}

type fakeHeads struct {
	heads map[uuid.UUID]*uuid.UUID
}

func (f *fakeHeads) HeadOf(ctx context.Context, id uuid.UUID) (*uuid.UUID, error) {
	head, ok := f.heads[id]
	if !ok {
		return nil, departmenterrors.ErrDepartmentNotFound
	}
	return head, nil
}

func TestApproverResolver_Resolve(t *testing.T) {
	deptID := uuid.New()
	headless := uuid.New()
	head := user.User{ID: uuid.New(), Role: "head_of_department", IsActive: true}
	director := user.User{ID: uuid.New(), Role: "director", IsActive: true}

	dir := &fakeDirectory{
		users:  map[uuid.UUID]user.User{head.ID: head},
		byRole: map[string]*user.User{"director": &director},
	}
	heads := &fakeHeads{heads: map[uuid.UUID]*uuid.UUID{deptID: &head.ID, headless: nil}}
	r := leave.NewApproverResolver(dir, heads)
	roles := []domain.Role{domain.RoleHeadOfDepartment, domain.RoleDirector}

	approvers, err := r.Resolve(context.Background(), &deptID, roles)
	require.NoError(t, err)
	assert.Equal(t, []leave.Approver{
		{Role: domain.RoleHeadOfDepartment, UserID: head.ID},
		{Role: domain.RoleDirector, UserID: director.ID},
	}, approvers)

	unknown := uuid.New()
	for name, dept := range map[string]*uuid.UUID{"no department": nil, "unknown department": &unknown, "no head": &headless} {
		t.Run(name, func(t *testing.T) {
			_, err := r.Resolve(context.Background(), dept, roles)
			assert.ErrorIs(t, err, leaveerrors.ErrApproverUnavailable)
		})
	}

	t.Run("inactive head", func(t *testing.T) {
		inactive := head
		inactive.IsActive = false
		dir.users[head.ID] = inactive
		defer func() { dir.users[head.ID] = head }()

		_, err := r.Resolve(context.Background(), &deptID, roles)
		assert.ErrorIs(t, err, leaveerrors.ErrApproverUnavailable)
	})

	t.Run("nobody holds role", func(t *testing.T) {
		_, err := r.Resolve(context.Background(), &deptID, []domain.Role{domain.RoleAdmin})
		assert.ErrorIs(t, err, leaveerrors.ErrApproverUnavailable)
	})

	t.Run("directory error passes through", func(t *testing.T) {
		boom := errors.New("boom")
		dir.err = boom
		defer func() { dir.err = nil }()

		_, err := r.Resolve(context.Background(), &deptID, []domain.Role{domain.RoleDirector})
		assert.ErrorIs(t, err, boom)
		assert.False(t, errors.Is(err, leaveerrors.ErrApproverUnavailable))
	})
}
