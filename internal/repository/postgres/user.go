package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"taskboard/internal/domain"
	"taskboard/internal/domain/models"
	"taskboard/internal/domain/repositories"
)

// PostgresUserRepository implements the UserRepository interface
type PostgresUserRepository struct {
	pool   *pgxpool.Pool
	tables *TableNames
}

// NewUserRepository creates a new user repository
func NewUserRepository(config *RepositoryConfig) repositories.UserRepository {
	return &PostgresUserRepository{
		pool:   config.Pool,
		tables: config.Tables,
	}
}

const userColumns = `id, email, first_name, mid_name, last_name, avatar_url, address, gender, date_of_birth, created_at, updated_at`

func scanUser(row interface{ Scan(...any) error }, u *models.User) error {
	return row.Scan(
		&u.ID,
		&u.Email,
		&u.FirstName,
		&u.MidName,
		&u.LastName,
		&u.AvatarURL,
		&u.Address,
		&u.Gender,
		&u.DateOfBirth,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
}

// GetByID retrieves a user by their numeric id. The id column is unique by
// schema; a second matching row means the store broke its own invariant
// and is reported as such rather than as not-found.
func (r *PostgresUserRepository) GetByID(ctx context.Context, id int64) (*models.User, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s
		WHERE id = $1
	`, userColumns, r.tables.Users)

	executor := GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query, id)
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	defer rows.Close()

	var user *models.User
	for rows.Next() {
		if user != nil {
			return nil, &domain.StoreInconsistencyError{
				Message:      fmt.Sprintf("user id %d matches more than one row", id),
				ResourceType: "user",
			}
		}
		user = &models.User{}
		if err := scanUser(rows, user); err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate users: %w", err)
	}
	if user == nil {
		return nil, &domain.NotFoundError{Message: fmt.Sprintf("user %d not found", id)}
	}

	return user, nil
}

// Find retrieves users matching the filter, ordered by id
func (r *PostgresUserRepository) Find(ctx context.Context, filter repositories.UserFilter) ([]models.User, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s
		WHERE ($1 = '' OR email = $1)
		  AND ($2 = '' OR first_name ILIKE $2 || '%%')
		  AND ($3 = '' OR last_name ILIKE $3 || '%%')
		ORDER BY id
	`, userColumns, r.tables.Users)

	executor := GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query, filter.Email, filter.FirstName, filter.LastName)
	if err != nil {
		return nil, fmt.Errorf("find users: %w", err)
	}
	defer rows.Close()

	users := []models.User{}
	for rows.Next() {
		var u models.User
		if err := scanUser(rows, &u); err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate users: %w", err)
	}

	return users, nil
}

// Update persists profile field changes and bumps updated_at
func (r *PostgresUserRepository) Update(ctx context.Context, user *models.User) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET first_name = $1, mid_name = $2, last_name = $3, avatar_url = $4,
		    address = $5, gender = $6, date_of_birth = $7, updated_at = $8
		WHERE id = $9
	`, r.tables.Users)

	user.UpdatedAt = time.Now().UTC()

	executor := GetExecutor(ctx, r.pool)
	result, err := executor.Exec(ctx, query,
		user.FirstName,
		user.MidName,
		user.LastName,
		user.AvatarURL,
		user.Address,
		user.Gender,
		user.DateOfBirth,
		user.UpdatedAt,
		user.ID,
	)
	if err != nil {
		return fmt.Errorf("update user: %w", err)
	}

	if result.RowsAffected() == 0 {
		return &domain.NotFoundError{Message: fmt.Sprintf("user %d not found", user.ID)}
	}

	return nil
}
