package repositories

import (
	"context"

	"taskboard/internal/domain/models"
)

// UserFilter narrows a user search. Zero-valued fields are ignored.
type UserFilter struct {
	Email     string
	FirstName string
	LastName  string
}

// UserRepository defines data access for account records. Accounts are
// issued by the identity collaborator; the core only reads and updates
// profile fields.
type UserRepository interface {
	// GetByID retrieves a user by their numeric id.
	// Returns a StoreInconsistencyError if the id matches more than one row.
	GetByID(ctx context.Context, id int64) (*models.User, error)

	// Find retrieves users matching the filter, ordered by id
	Find(ctx context.Context, filter UserFilter) ([]models.User, error)

	// Update persists profile field changes and bumps updated_at
	Update(ctx context.Context, user *models.User) error
}
