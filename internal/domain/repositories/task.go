package repositories

import (
	"context"

	"taskboard/internal/domain/models"
)

// TaskFilter narrows a task listing. ProjectID of zero means all projects
// the user participates in.
type TaskFilter struct {
	UserID    int64
	ProjectID int64
	Category  models.TaskCategory
}

// TaskRepository defines data access operations for tasks
type TaskRepository interface {
	// Create inserts a new task and fills in its generated id
	Create(ctx context.Context, task *models.Task) error

	// GetByID retrieves a task by id regardless of the deleted flag.
	// Returns a StoreInconsistencyError if the id matches more than one row.
	GetByID(ctx context.Context, id int64) (*models.Task, error)

	// List retrieves non-deleted tasks across the user's projects,
	// optionally restricted to one project and a schedule category
	List(ctx context.Context, filter TaskFilter) ([]models.Task, error)

	// ListByProject retrieves all non-deleted tasks of one project
	ListByProject(ctx context.Context, projectID int64) ([]models.Task, error)

	// Update persists field changes of an existing task
	Update(ctx context.Context, task *models.Task) error
}
