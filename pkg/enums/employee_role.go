package enums

import "fmt"

// EmployeeRole represents an organization-level permissions role.
type EmployeeRole string

const (
	EmployeeRoleAdmin     EmployeeRole = "admin"
	EmployeeRoleManager   EmployeeRole = "manager"
	EmployeeRoleServer    EmployeeRole = "server"
	EmployeeRoleKitchen   EmployeeRole = "kitchen"
	EmployeeRoleBartender EmployeeRole = "bartender"
)

var validEmployeeRoles = []EmployeeRole{
	EmployeeRoleAdmin,
	EmployeeRoleManager,
	EmployeeRoleServer,
	EmployeeRoleKitchen,
	EmployeeRoleBartender,
}

// String implements fmt.Stringer.
func (e EmployeeRole) String() string {
	return string(e)
}

// IsValid reports whether the value is a known EmployeeRole.
func (e EmployeeRole) IsValid() bool {
	for _, candidate := range validEmployeeRoles {
		if candidate == e {
			return true
		}
	}
	return false
}

// CanManageInventory reports whether the role may mutate stock and menu data.
func (e EmployeeRole) CanManageInventory() bool {
	return e == EmployeeRoleAdmin || e == EmployeeRoleManager
}

// ParseEmployeeRole converts raw input into an EmployeeRole.
func ParseEmployeeRole(value string) (EmployeeRole, error) {
	for _, candidate := range validEmployeeRoles {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid employee role %q", value)
}
