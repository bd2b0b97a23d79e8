package services

import (
	"context"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"taskboard/internal/domain/models"
)

// UserResponse is the profile record returned to callers and pushed on the
// profile-info-changed channel. It never carries credential material.
type UserResponse struct {
	ID          int64      `json:"id"`
	Email       string     `json:"email"`
	FirstName   string     `json:"first_name"`
	MidName     string     `json:"mid_name,omitempty"`
	LastName    string     `json:"last_name"`
	AvatarURL   string     `json:"avatar_url,omitempty"`
	Address     string     `json:"address,omitempty"`
	Gender      string     `json:"gender,omitempty"`
	DateOfBirth *time.Time `json:"date_of_birth,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// NewUserResponse builds a response from the stored user record.
func NewUserResponse(u *models.User) UserResponse {
	return UserResponse{
		ID:          u.ID,
		Email:       u.Email,
		FirstName:   u.FirstName,
		MidName:     u.MidName,
		LastName:    u.LastName,
		AvatarURL:   u.AvatarURL,
		Address:     u.Address,
		Gender:      u.Gender,
		DateOfBirth: u.DateOfBirth,
		CreatedAt:   u.CreatedAt,
		UpdatedAt:   u.UpdatedAt,
	}
}

// FindUsersRequest filters a user search. At least one field must be set.
type FindUsersRequest struct {
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

// Validate checks that the search is not unbounded.
func (r FindUsersRequest) Validate() error {
	if r.Email == "" && r.FirstName == "" && r.LastName == "" {
		return validation.NewError("validation_empty_filter", "provide at least one field to search users by")
	}
	return nil
}

// UpdateUserRequest carries optional profile changes; nil fields are left
// untouched.
type UpdateUserRequest struct {
	FirstName   *string    `json:"first_name,omitempty"`
	MidName     *string    `json:"mid_name,omitempty"`
	LastName    *string    `json:"last_name,omitempty"`
	AvatarURL   *string    `json:"avatar_url,omitempty"`
	Address     *string    `json:"address,omitempty"`
	Gender      *string    `json:"gender,omitempty"`
	DateOfBirth *time.Time `json:"date_of_birth,omitempty"`
}

// UserService defines profile operations for accounts resolved by the
// identity collaborator.
type UserService interface {
	// GetByID retrieves one user's profile
	GetByID(ctx context.Context, userID int64) (*UserResponse, error)

	// Find searches users by profile fields
	Find(ctx context.Context, actorID int64, req *FindUsersRequest) ([]UserResponse, error)

	// Update applies profile changes for the acting user
	Update(ctx context.Context, actorID int64, req *UpdateUserRequest) (*UserResponse, error)
}
