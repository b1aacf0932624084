package domain

// Role is the closed set of roles a user can hold. Authorization decisions
// go through Can; nothing compares raw role strings.
type Role string

const (
	RoleEmployee Role = "EMPLOYEE"
	RoleManager  Role = "MANAGER"
	RoleAdmin    Role = "ADMIN"
)

func ParseRole(s string) (Role, bool) {
	switch Role(s) {
	case RoleEmployee, RoleManager, RoleAdmin:
		return Role(s), true
	}
	return "", false
}

// Permission names one guarded operation on one resource.
type Permission string

const (
	PermEmployeeRead   Permission = "employee:read"
	PermEmployeeWrite  Permission = "employee:write"
	PermLeaveTypeRead  Permission = "leavetype:read"
	PermLeaveTypeWrite Permission = "leavetype:write"
	PermRequestRead    Permission = "request:read"
	PermRequestWrite   Permission = "request:write"
	PermRequestDelete  Permission = "request:delete"
	PermApprovalAct    Permission = "approval:act"
	PermBalanceRead    Permission = "balance:read"
	PermBalanceAdjust  Permission = "balance:adjust"
	PermCarryForward   Permission = "carryforward:process"
	PermHolidayRead    Permission = "holiday:read"
	PermHolidayWrite   Permission = "holiday:write"
	PermReportRead     Permission = "report:read"
)

var rolePermissions = map[Role]map[Permission]struct{}{
	RoleEmployee: permSet(
		PermRequestRead,
		PermRequestWrite,
		PermBalanceRead,
		PermHolidayRead,
	),
	RoleManager: permSet(
		PermEmployeeRead,
		PermLeaveTypeRead,
		PermRequestRead,
		PermRequestWrite,
		PermApprovalAct,
		PermBalanceRead,
		PermHolidayRead,
		PermReportRead,
	),
	RoleAdmin: permSet(
		PermEmployeeRead,
		PermEmployeeWrite,
		PermLeaveTypeRead,
		PermLeaveTypeWrite,
		PermRequestRead,
		PermRequestWrite,
		PermRequestDelete,
		PermApprovalAct,
		PermBalanceRead,
		PermBalanceAdjust,
		PermCarryForward,
		PermHolidayRead,
		PermHolidayWrite,
		PermReportRead,
	),
}

func permSet(perms ...Permission) map[Permission]struct{} {
	set := make(map[Permission]struct{}, len(perms))
	for _, p := range perms {
		set[p] = struct{}{}
	}
	return set
}

// Can reports whether the role holds the permission. Unknown roles hold
// nothing.
func Can(role Role, perm Permission) bool {
	perms, ok := rolePermissions[role]
	if !ok {
		return false
	}
	_, ok = perms[perm]
	return ok
}
