package services

import (
	"context"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"taskboard/internal/domain/models"
	"taskboard/internal/roles"
)

// Participant is one user on a project together with every role they hold.
type Participant struct {
	User  UserResponse     `json:"user"`
	Roles []roles.RoleInfo `json:"roles"`
}

// ParticipantList is the full current participant roster of one project,
// pushed as-is on the project-participants-list-changed channel.
type ParticipantList struct {
	ProjectID    int64         `json:"project_id"`
	Participants []Participant `json:"participants"`
}

// ParticipationResponse describes a single granted membership edge.
type ParticipationResponse struct {
	ProjectID int64          `json:"project_id"`
	UserID    int64          `json:"user_id"`
	Role      roles.RoleInfo `json:"role"`
}

// NewParticipationRequest grants one role to a user on a project.
type NewParticipationRequest struct {
	UserID    int64              `json:"user_id"`
	ProjectID int64              `json:"project_id"`
	Role      models.ProjectRole `json:"role"`
}

// Validate checks the request shape and the role range.
func (r NewParticipationRequest) Validate() error {
	if !r.Role.Valid() {
		return validation.NewError("validation_role_range", "provided project role is outside the valid range")
	}
	return validation.ValidateStruct(&r,
		validation.Field(&r.UserID, validation.Required),
		validation.Field(&r.ProjectID, validation.Required),
	)
}

// DeleteParticipationRequest revokes one role, or every role when Role is
// nil, of a user on a project.
type DeleteParticipationRequest struct {
	UserID    int64               `json:"user_id"`
	ProjectID int64               `json:"project_id"`
	Role      *models.ProjectRole `json:"role,omitempty"`
}

// Validate checks the request shape.
func (r DeleteParticipationRequest) Validate() error {
	if r.Role != nil && !r.Role.Valid() {
		return validation.NewError("validation_role_range", "provided project role is outside the valid range")
	}
	return validation.ValidateStruct(&r,
		validation.Field(&r.UserID, validation.Required),
		validation.Field(&r.ProjectID, validation.Required),
	)
}

// ParticipationService manages membership edges. Duplicate (user, project,
// role) triples are conflicts; a project must keep at least one Owner while
// it is alive.
type ParticipationService interface {
	// Add grants a role to a user on a project
	Add(ctx context.Context, actorID int64, req *NewParticipationRequest) (*ParticipationResponse, error)

	// GetParticipants retrieves the full roster of a project with role sets
	GetParticipants(ctx context.Context, actorID, projectID int64) (*ParticipantList, error)

	// Delete revokes one role or all roles of a user on a project
	Delete(ctx context.Context, actorID int64, req *DeleteParticipationRequest) error
}
