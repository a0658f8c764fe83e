package auth

import "pawclub/internal/domain"

// Principal is the identity resolved from a verified token for the duration
// of a single request. It is built from claims only and never persisted.
type Principal struct {
	UserID    int64
	Email     string
	Role      domain.Role
	Name      string
	AvatarURL string
}

// IsAdmin reports whether the principal carries the admin role.
func (p *Principal) IsAdmin() bool {
	return p != nil && p.Role == domain.RoleAdmin
}
