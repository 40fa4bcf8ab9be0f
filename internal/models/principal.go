package models

// Principal is the authenticated actor behind a request. The zero value is
// an anonymous request.
type Principal struct {
	UserID uint
	Role   Role
}

// Anonymous reports whether the request carries no authenticated user.
func (p Principal) Anonymous() bool {
	return p.UserID == 0
}

// IsAdmin reports whether the principal has the admin role.
func (p Principal) IsAdmin() bool {
	return p.Role == RoleAdmin
}

// CanModify reports whether the principal may mutate a resource owned by
// ownerID: owners and admins may, everyone else may not.
func (p Principal) CanModify(ownerID uint) bool {
	if p.Anonymous() {
		return false
	}
	return p.UserID == ownerID || p.IsAdmin()
}
