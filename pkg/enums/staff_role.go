package enums

import "fmt"

// StaffRole identifies the access level of an authenticated staff member.
type StaffRole string

const (
	StaffRoleCashier StaffRole = "cashier"
	StaffRoleManager StaffRole = "manager"
	StaffRoleAdmin   StaffRole = "admin"
)

// IsValid reports whether the role is one of the known values.
func (r StaffRole) IsValid() bool {
	switch r {
	case StaffRoleCashier, StaffRoleManager, StaffRoleAdmin:
		return true
	default:
		return false
	}
}

func (r StaffRole) String() string {
	return string(r)
}

// CanManagePromotions reports whether the role may create or modify promotions.
func (r StaffRole) CanManagePromotions() bool {
	return r == StaffRoleManager || r == StaffRoleAdmin
}

// ParseStaffRole validates a raw string into a StaffRole.
func ParseStaffRole(value string) (StaffRole, error) {
	role := StaffRole(value)
	if !role.IsValid() {
		return "", fmt.Errorf("invalid staff role %q", value)
	}
	return role, nil
}
