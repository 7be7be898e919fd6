package members

// AccountRole is a member account role
type AccountRole = string

const (
	// RoleGuest is a guest role (i.e. view)
	RoleGuest AccountRole = "guest"
	// RoleMember is a member (i.e. view, edit)
	RoleMember AccountRole = "member"
	// RoleAdmin is an admin role (i.e. view, edit, create)
	RoleAdmin AccountRole = "admin"
	// RoleOwner is an owner role (i.e. view, edit, create, delete)
	RoleOwner AccountRole = "owner"
)

// IsValidRole checks if the role is one of the predefined valid roles
func IsValidRole(role AccountRole) bool {
	switch role {
	case RoleGuest, RoleMember, RoleAdmin, RoleOwner:
		return true
	default:
		return false
	}
}

// ParseRole safely parses a string into an AccountRole
func ParseRole(roleStr string) (AccountRole, bool) {
	role := AccountRole(roleStr)
	return role, IsValidRole(role)
}

// GetAllRoles returns all predefined roles in hierarchical order
func GetAllRoles() []AccountRole {
	return []AccountRole{
		RoleGuest,
		RoleMember,
		RoleAdmin,
		RoleOwner,
	}
}

// NormalizeRoles filters the given set down to valid roles, falling back to
// member when nothing valid remains.
func NormalizeRoles(roles []string) []AccountRole {
	out := make([]AccountRole, 0, len(roles))
	for _, r := range roles {
		if role, ok := ParseRole(r); ok {
			out = append(out, role)
		}
	}
	if len(out) == 0 {
		out = append(out, RoleMember)
	}
	return out
}
