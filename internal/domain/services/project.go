package services

import (
	"context"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"taskboard/internal/domain/models"
	"taskboard/internal/roles"
)

// ProjectResponse annotates a project with the requesting user's full role
// set and a recursively summarized parent chain. Parents carry no role
// annotation: the requester's roles apply only to the queried project.
type ProjectResponse struct {
	ID          int64            `json:"id"`
	Name        string           `json:"name"`
	Description string           `json:"description,omitempty"`
	Deleted     bool             `json:"deleted"`
	CreatedBy   int64            `json:"created_by"`
	UpdatedBy   int64            `json:"updated_by"`
	CreatedAt   time.Time        `json:"created_at"`
	UpdatedAt   time.Time        `json:"updated_at"`
	Roles       []roles.RoleInfo `json:"roles,omitempty"`
	Parent      *ProjectResponse `json:"parent,omitempty"`
}

// NewProjectRequest creates a project; the creator becomes Owner in the
// same transaction.
type NewProjectRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	ParentID    *int64 `json:"parent_id,omitempty"`
}

// Validate checks the request shape.
func (r NewProjectRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name, validation.Required, validation.Length(1, 255)),
		validation.Field(&r.Description, validation.Length(0, 4000)),
	)
}

// UpdateProjectRequest carries optional changes. When ParentID and
// MakeParentless arrive together, MakeParentless is ignored.
type UpdateProjectRequest struct {
	Name           *string `json:"name,omitempty"`
	Description    *string `json:"description,omitempty"`
	ParentID       *int64  `json:"parent_id,omitempty"`
	MakeParentless *bool   `json:"make_parentless,omitempty"`
}

// Validate checks the request shape.
func (r UpdateProjectRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name, validation.NilOrNotEmpty, validation.Length(1, 255)),
	)
}

// ProjectService defines business logic operations for projects. Every
// mutation runs in one transaction; fanout after commit is the caller's
// responsibility.
type ProjectService interface {
	// Create creates a project and grants the creator the Owner role
	Create(ctx context.Context, actorID int64, req *NewProjectRequest) (*ProjectResponse, error)

	// GetAll retrieves the user's non-deleted projects with full role sets
	GetAll(ctx context.Context, userID int64) ([]ProjectResponse, error)

	// GetOne retrieves a single project the user participates in
	GetOne(ctx context.Context, userID, projectID int64) (*ProjectResponse, error)

	// Update applies field changes; rejects making a project its own parent
	Update(ctx context.Context, projectID, actorID int64, req *UpdateProjectRequest) (*ProjectResponse, error)

	// SoftDelete flips the deleted flag without removing the row
	SoftDelete(ctx context.Context, projectID, actorID int64) (*ProjectResponse, error)
}

// RoleIDs extracts the role ids from a set of membership edges.
func RoleIDs(edges []models.Participation) []models.ProjectRole {
	ids := make([]models.ProjectRole, 0, len(edges))
	for _, e := range edges {
		ids = append(ids, e.RoleID)
	}
	return ids
}
