package rbac

import "go-elms/internal/domain"

// DefaultPermissions is used when role_permissions is empty, so a fresh
// database is usable before anyone seeds policies.
var DefaultPermissions = []RolePermissionRow{
	{Role: string(domain.RoleStaff), Resource: "leave", Action: "create"},
	{Role: string(domain.RoleStaff), Resource: "leave", Action: "read"},
	{Role: string(domain.RoleStaff), Resource: "leave", Action: "cancel"},
	{Role: string(domain.RoleStaff), Resource: "balance", Action: "read"},
	{Role: string(domain.RoleStaff), Resource: "leave_type", Action: "read"},
	{Role: string(domain.RoleStaff), Resource: "holiday", Action: "read"},
	{Role: string(domain.RoleStaff), Resource: "department", Action: "read"},
	{Role: string(domain.RoleStaff), Resource: "notification", Action: "read"},
	{Role: string(domain.RoleStaff), Resource: "notification", Action: "update"},

	{Role: string(domain.RoleHeadOfDepartment), Resource: "leave", Action: "approve"},

	{Role: string(domain.RoleDirector), Resource: "report", Action: "read"},

	// read_all on leave and balance stays with admin.
	{Role: string(domain.RoleAdmin), Resource: "*", Action: "*"},
}

// DefaultInheritance: each senior role holds everything the one below holds.
var DefaultInheritance = []RoleInheritanceRow{
	{Role: string(domain.RoleHeadOfDepartment), Parent: string(domain.RoleStaff)},
	{Role: string(domain.RoleDirector), Parent: string(domain.RoleHeadOfDepartment)},
	{Role: string(domain.RoleAdmin), Parent: string(domain.RoleDirector)},
}
