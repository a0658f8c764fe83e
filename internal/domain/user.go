package domain

import "time"

// Role is the flat access level stored on a user. The wire format stays an
// open string so unknown values survive a round trip.
type Role string

const (
	RoleUser  Role = "USER"
	RoleAdmin Role = "ADMIN"
)

// User represents a registered member of the community.
type User struct {
	ID           int64
	Name         string
	Email        string
	PasswordHash string
	AvatarURL    string
	Role         Role
	Description  string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
