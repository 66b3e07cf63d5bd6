package domain

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

type Role string

const (
	RoleStaff            Role = "staff"
	RoleHeadOfDepartment Role = "head_of_department"
	RoleDirector         Role = "director"
	RoleAdmin            Role = "admin"

	// RoleSystem is never issued in a token; only scheduled jobs act as it.
	RoleSystem Role = "system"
)

var knownRoles = map[Role]struct{}{
	RoleStaff:            {},
	RoleHeadOfDepartment: {},
	RoleDirector:         {},
	RoleAdmin:            {},
}

// ParseRole accepts the role tags issued in tokens. "hod" is kept as an alias
// because older tokens carry it.
func ParseRole(v string) (Role, error) {
	r := Role(strings.ToLower(strings.TrimSpace(v)))
	if r == "hod" {
		r = RoleHeadOfDepartment
	}
	if _, ok := knownRoles[r]; !ok {
		return "", fmt.Errorf("unknown role %q", v)
	}
	return r, nil
}

func (r Role) String() string { return string(r) }

// Actor is the authenticated caller of a lifecycle operation.
type Actor struct {
	ID           uuid.UUID
	Role         Role
	DepartmentID *uuid.UUID
}

func SystemActor() Actor {
	return Actor{ID: uuid.Nil, Role: RoleSystem}
}

func (a Actor) IsSystem() bool { return a.Role == RoleSystem }

func (a Actor) IsAdmin() bool { return a.Role == RoleAdmin }
