package repositories

import (
	"context"

	"taskboard/internal/domain/models"
)

// ParticipationRepository defines data access for membership edges.
// Edges are physical rows; each (user, project, role) triple is unique.
type ParticipationRepository interface {
	// Create inserts a new membership edge
	Create(ctx context.Context, p *models.Participation) error

	// ListByUser retrieves every edge the user holds across all projects
	ListByUser(ctx context.Context, userID int64) ([]models.Participation, error)

	// ListByProject retrieves every edge on one project
	ListByProject(ctx context.Context, projectID int64) ([]models.Participation, error)

	// ListByUserProject retrieves the user's edges on one project,
	// one per held role
	ListByUserProject(ctx context.Context, userID, projectID int64) ([]models.Participation, error)

	// Delete removes the edge for one role; returns the number of rows removed
	Delete(ctx context.Context, userID, projectID int64, role models.ProjectRole) (int64, error)

	// DeleteAll removes every edge a user holds on one project;
	// returns the number of rows removed
	DeleteAll(ctx context.Context, userID, projectID int64) (int64, error)

	// CountByProjectRole counts how many users hold the given role on a project
	CountByProjectRole(ctx context.Context, projectID int64, role models.ProjectRole) (int64, error)
}
