package enums

import "fmt"

// ActorRole identifies which staff surface a session belongs to.
type ActorRole string

const (
	ActorRoleAdmin   ActorRole = "admin"
	ActorRoleKitchen ActorRole = "kitchen"
	ActorRoleDriver  ActorRole = "driver"
)

var validActorRoles = []ActorRole{
	ActorRoleAdmin,
	ActorRoleKitchen,
	ActorRoleDriver,
}

// String implements fmt.Stringer.
func (a ActorRole) String() string {
	return string(a)
}

// IsValid reports whether the value is a known ActorRole.
func (a ActorRole) IsValid() bool {
	for _, candidate := range validActorRoles {
		if candidate == a {
			return true
		}
	}
	return false
}

// ParseActorRole converts raw input into an ActorRole.
func ParseActorRole(value string) (ActorRole, error) {
	for _, candidate := range validActorRoles {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid actor role %q", value)
}
