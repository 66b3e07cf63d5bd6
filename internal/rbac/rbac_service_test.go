package rbac

import (
	"context"
	"errors"
	"testing"

	"go-elms/internal/domain"
	"go-elms/internal/rbac/infra"

	"github.com/casbin/casbin/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// =========================================
// Mock Repository
// =========================================

type mockRepo struct {
	perms       []RolePermissionRow
	inheritance []RoleInheritanceRow
	err         error
}

func (m *mockRepo) GetRolePermissions(ctx context.Context) ([]RolePermissionRow, error) {
	return m.perms, m.err
}

func (m *mockRepo) GetRoleInheritance(ctx context.Context) ([]RoleInheritanceRow, error) {
	return m.inheritance, m.err
}

func newTestEnforcer(t *testing.T) *casbin.Enforcer {
	e, err := infra.NewEnforcer()
	require.NoError(t, err)
	return e
}

func enforce(t *testing.T, s Service, role, resource, action string) bool {
	t.Helper()
	allowed, err := s.Enforce(domain.EnforceRequest{Role: role, Resource: resource, Action: action})
	require.NoError(t, err)
	return allowed
}

// =========================================
// TEST: Load + Enforce
// =========================================

func TestRBACService_StoredPolicy(t *testing.T) {
	repo := &mockRepo{
		perms: []RolePermissionRow{
			{Role: "staff", Resource: "leave", Action: "create"},
			{Role: "head_of_department", Resource: "leave", Action: "approve"},
		},
		inheritance: []RoleInheritanceRow{{Role: "head_of_department", Parent: "staff"}},
	}
	service := NewService(repo, newTestEnforcer(t))
	require.NoError(t, service.LoadPolicy(context.Background()))

	assert.True(t, enforce(t, service, "staff", "leave", "create"))
	assert.False(t, enforce(t, service, "staff", "leave", "approve"))
	assert.True(t, enforce(t, service, "head_of_department", "leave", "create"))
	assert.True(t, enforce(t, service, "head_of_department", "leave", "approve"))
}

func TestRBACService_DefaultPolicy(t *testing.T) {
	service := NewService(&mockRepo{}, newTestEnforcer(t))
	require.NoError(t, service.LoadPolicy(context.Background()))

	assert.True(t, enforce(t, service, "staff", "leave", "cancel"))
	assert.False(t, enforce(t, service, "staff", "report", "read"))
	assert.True(t, enforce(t, service, "director", "report", "read"))
	assert.True(t, enforce(t, service, "director", "leave", "approve"))
	assert.False(t, enforce(t, service, "director", "leave_type", "manage"))
	assert.True(t, enforce(t, service, "admin", "leave_type", "manage"))
	assert.True(t, enforce(t, service, "admin", "anything", "at_all"))
}

func TestRBACService_DefaultPolicy_ReadAllIsAdminOnly(t *testing.T) {
	service := NewService(&mockRepo{}, newTestEnforcer(t))
	require.NoError(t, service.LoadPolicy(context.Background()))

	for _, role := range []string{"staff", "head_of_department", "director"} {
		for _, resource := range []string{"leave", "balance"} {
			assert.False(t, enforce(t, service, role, resource, "read_all"), "%s %s:read_all", role, resource)
		}
	}
	assert.True(t, enforce(t, service, "admin", "leave", "read_all"))
	assert.True(t, enforce(t, service, "admin", "balance", "read_all"))
}

func TestRBACService_LoadPolicyError(t *testing.T) {
	service := NewService(&mockRepo{err: errors.New("db down")}, newTestEnforcer(t))
	assert.Error(t, service.LoadPolicy(context.Background()))
}
