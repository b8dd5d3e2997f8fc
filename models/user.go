// models/user.go
package models

import (
	"time"
)

type Role string

const (
	RolePlayer  Role = "player"
	RoleScout   Role = "scout"
	RoleAcademy Role = "academy"
)

// Roles lists every account role.
var Roles = []Role{RolePlayer, RoleScout, RoleAcademy}

// ParseRole returns the role named by s, or false if s is not a role.
func ParseRole(s string) (Role, bool) {
	for _, r := range Roles {
		if string(r) == s {
			return r, true
		}
	}
	return "", false
}

type User struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Email        string    `gorm:"uniqueIndex;not null;size:255" json:"email"`
	PasswordHash string    `gorm:"not null" json:"-"`
	FirstName    string    `gorm:"not null;size:100" json:"firstName"`
	LastName     string    `gorm:"not null;size:100" json:"lastName"`
	Role         Role      `gorm:"not null;size:20;index" json:"role"`
	ProfileImage *string   `json:"profileImage"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

func (User) TableName() string {
	return "users"
}

// UserSummary is the public view of a user.
type UserSummary struct {
	ID           uint    `json:"id"`
	Email        string  `json:"email,omitempty"`
	FirstName    string  `json:"firstName"`
	LastName     string  `json:"lastName"`
	Role         Role    `json:"role"`
	ProfileImage *string `json:"profileImage"`
}

// Summary returns the user's public fields including email.
func (u *User) Summary() UserSummary {
	return UserSummary{
		ID:           u.ID,
		Email:        u.Email,
		FirstName:    u.FirstName,
		LastName:     u.LastName,
		Role:         u.Role,
		ProfileImage: u.ProfileImage,
	}
}

// PublicSummary omits the email address.
func (u *User) PublicSummary() UserSummary {
	s := u.Summary()
	s.Email = ""
	return s
}

// Session backs the session cookie. Rows are deleted on logout or once expired.
type Session struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	UserID    uint      `gorm:"not null;index" json:"userId"`
	ExpiresAt time.Time `gorm:"not null;index" json:"expiresAt"`
	UserAgent string    `gorm:"size:255" json:"-"`
	ClientIP  string    `gorm:"size:64" json:"-"`
	CreatedAt time.Time `json:"createdAt"`
}

func (Session) TableName() string {
	return "sessions"
}
