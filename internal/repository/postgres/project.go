package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"taskboard/internal/domain"
	"taskboard/internal/domain/models"
	"taskboard/internal/domain/repositories"
)

// PostgresProjectRepository implements the ProjectRepository interface
type PostgresProjectRepository struct {
	pool   *pgxpool.Pool
	tables *TableNames
}

// NewProjectRepository creates a new project repository
func NewProjectRepository(config *RepositoryConfig) repositories.ProjectRepository {
	return &PostgresProjectRepository{
		pool:   config.Pool,
		tables: config.Tables,
	}
}

const projectColumns = `id, name, description, parent_id, deleted, created_by, updated_by, created_at, updated_at`

func scanProject(row interface{ Scan(...any) error }, p *models.Project) error {
	return row.Scan(
		&p.ID,
		&p.Name,
		&p.Description,
		&p.ParentID,
		&p.Deleted,
		&p.CreatedBy,
		&p.UpdatedBy,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
}

// Create inserts a new project and fills in its generated id
func (r *PostgresProjectRepository) Create(ctx context.Context, project *models.Project) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (name, description, parent_id, deleted, created_by, updated_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id
	`, r.tables.Projects)

	executor := GetExecutor(ctx, r.pool)
	err := executor.QueryRow(ctx, query,
		project.Name,
		project.Description,
		project.ParentID,
		project.Deleted,
		project.CreatedBy,
		project.UpdatedBy,
		project.CreatedAt,
		project.UpdatedAt,
	).Scan(&project.ID)
	if err != nil {
		if IsPgForeignKeyError(err) {
			return &domain.NotFoundError{Message: "parent project not found"}
		}
		return fmt.Errorf("create project: %w", err)
	}

	return nil
}

// GetByID retrieves a project by id regardless of the deleted flag. A
// second row under the same id is a broken store invariant, not not-found.
func (r *PostgresProjectRepository) GetByID(ctx context.Context, id int64) (*models.Project, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s
		WHERE id = $1
	`, projectColumns, r.tables.Projects)

	executor := GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query, id)
	if err != nil {
		return nil, fmt.Errorf("get project: %w", err)
	}
	defer rows.Close()

	var project *models.Project
	for rows.Next() {
		if project != nil {
			return nil, &domain.StoreInconsistencyError{
				Message:      fmt.Sprintf("project id %d matches more than one row", id),
				ResourceType: "project",
			}
		}
		project = &models.Project{}
		if err := scanProject(rows, project); err != nil {
			return nil, fmt.Errorf("scan project: %w", err)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate projects: %w", err)
	}
	if project == nil {
		return nil, &domain.NotFoundError{Message: fmt.Sprintf("project %d not found", id)}
	}

	return project, nil
}

// ListByUser retrieves all non-deleted projects the user participates in
func (r *PostgresProjectRepository) ListByUser(ctx context.Context, userID int64) ([]models.Project, error) {
	query := fmt.Sprintf(`
		SELECT DISTINCT p.id, p.name, p.description, p.parent_id, p.deleted,
		       p.created_by, p.updated_by, p.created_at, p.updated_at
		FROM %s p
		JOIN %s up ON up.project_id = p.id
		WHERE up.user_id = $1 AND p.deleted = FALSE
		ORDER BY p.id
	`, r.tables.Projects, r.tables.UserProjects)

	executor := GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	defer rows.Close()

	projects := []models.Project{}
	for rows.Next() {
		var p models.Project
		if err := scanProject(rows, &p); err != nil {
			return nil, fmt.Errorf("scan project: %w", err)
		}
		projects = append(projects, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate projects: %w", err)
	}

	return projects, nil
}

// Update persists field changes of an existing project
func (r *PostgresProjectRepository) Update(ctx context.Context, project *models.Project) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET name = $1, description = $2, parent_id = $3, deleted = $4,
		    updated_by = $5, updated_at = $6
		WHERE id = $7
	`, r.tables.Projects)

	executor := GetExecutor(ctx, r.pool)
	result, err := executor.Exec(ctx, query,
		project.Name,
		project.Description,
		project.ParentID,
		project.Deleted,
		project.UpdatedBy,
		project.UpdatedAt,
		project.ID,
	)
	if err != nil {
		return fmt.Errorf("update project: %w", err)
	}

	if result.RowsAffected() == 0 {
		return &domain.NotFoundError{Message: fmt.Sprintf("project %d not found", project.ID)}
	}

	return nil
}
