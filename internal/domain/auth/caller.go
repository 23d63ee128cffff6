package auth

type Role string

const (
	RoleAdmin  Role = "admin"
	RoleMember Role = "member"
)

func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleMember
}

// Caller is the resolved identity of a request. A caller without a
// FamilyID is pre-membership: it may only create a family or redeem an
// invite code.
type Caller struct {
	UserID   string
	FamilyID string
	Role     Role
}

func (c Caller) IsAdmin() bool {
	return c.Role == RoleAdmin
}

func (c Caller) InFamily(familyID string) bool {
	return c.FamilyID != "" && c.FamilyID == familyID
}
