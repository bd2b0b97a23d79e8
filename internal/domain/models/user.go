package models

import "time"

// User is the account record the identity collaborator resolves callers to.
// The numeric ID is the authorization subject everywhere in the core.
type User struct {
	ID          int64      `json:"id" db:"id"`
	Email       string     `json:"email" db:"email"`
	FirstName   string     `json:"first_name" db:"first_name"`
	MidName     string     `json:"mid_name,omitempty" db:"mid_name"`
	LastName    string     `json:"last_name" db:"last_name"`
	AvatarURL   string     `json:"avatar_url,omitempty" db:"avatar_url"`
	Address     string     `json:"address,omitempty" db:"address"`
	Gender      string     `json:"gender,omitempty" db:"gender"`
	DateOfBirth *time.Time `json:"date_of_birth,omitempty" db:"date_of_birth"`
	CreatedAt   time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at" db:"updated_at"`
}
