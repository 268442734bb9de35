package identity

import (
	"errors"
	"strings"
)

// Role is one of the fixed principal roles
type Role string

const (
	RoleSuperuser Role = "superuser"
	RoleAdmin     Role = "admin"
	RoleBoss      Role = "boss"
	RoleManager   Role = "manager"
	RoleWarehouse Role = "warehouse"
	RoleClient    Role = "client"
)

// ErrUnknownRole is returned for a role outside the rank table
var ErrUnknownRole = errors.New("unknown role")

// rankTable lists roles from most to least privileged. The index is the rank.
var rankTable = [...]Role{
	RoleSuperuser,
	RoleAdmin,
	RoleBoss,
	RoleManager,
	RoleWarehouse,
	RoleClient,
}

// Roles returns all roles ordered from most to least privileged
func Roles() []Role {
	out := make([]Role, len(rankTable))
	copy(out, rankTable[:])
	return out
}

// Rank returns the rank of role; lower is more privileged
func Rank(role Role) (int, error) {
	for i, r := range rankTable {
		if r == role {
			return i, nil
		}
	}
	return 0, ErrUnknownRole
}

// Dominates reports whether actor holds at least the privileges of required.
// Unknown roles never dominate and are never dominated.
func Dominates(actor, required Role) bool {
	a, err := Rank(actor)
	if err != nil {
		return false
	}
	r, err := Rank(required)
	if err != nil {
		return false
	}
	return a <= r
}

// ParseRole normalizes s into a known role
func ParseRole(s string) (Role, error) {
	role := Role(strings.ToLower(strings.TrimSpace(s)))
	if _, err := Rank(role); err != nil {
		return "", err
	}
	return role, nil
}

// IsValid reports whether r is in the rank table
func (r Role) IsValid() bool {
	_, err := Rank(r)
	return err == nil
}

// String returns the role name
func (r Role) String() string {
	return string(r)
}
