package repositories

import (
	"context"

	"taskboard/internal/domain/models"
)

// ProjectRepository defines data access operations for projects.
// GetByID resolves soft-deleted rows too; callers decide whether a deleted
// project is acceptable for the operation at hand.
type ProjectRepository interface {
	// Create inserts a new project and fills in its generated id
	Create(ctx context.Context, project *models.Project) error

	// GetByID retrieves a project by id regardless of the deleted flag.
	// Returns a StoreInconsistencyError if the id matches more than one row.
	GetByID(ctx context.Context, id int64) (*models.Project, error)

	// ListByUser retrieves all non-deleted projects the user participates in
	ListByUser(ctx context.Context, userID int64) ([]models.Project, error)

	// Update persists field changes of an existing project
	Update(ctx context.Context, project *models.Project) error
}
