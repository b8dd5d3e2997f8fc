package services

import "scoutlink/models"

// Principal is the authenticated caller of a request. It is built once per
// request from a freshly loaded user row and never mutated afterwards.
type Principal struct {
	UserID    uint
	SessionID string
	Email     string
	FirstName string
	LastName  string
	Role      models.Role
}

// NewPrincipal snapshots user for the given session.
func NewPrincipal(user *models.User, sessionID string) Principal {
	return Principal{
		UserID:    user.ID,
		SessionID: sessionID,
		Email:     user.Email,
		FirstName: user.FirstName,
		LastName:  user.LastName,
		Role:      user.Role,
	}
}

// HasRole reports whether the principal holds one of roles.
func (p Principal) HasRole(roles ...models.Role) bool {
	for _, r := range roles {
		if p.Role == r {
			return true
		}
	}
	return false
}
