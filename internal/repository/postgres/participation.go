package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"taskboard/internal/domain"
	"taskboard/internal/domain/models"
	"taskboard/internal/domain/repositories"
)

// PostgresParticipationRepository implements the ParticipationRepository
// interface over the user_projects membership table.
type PostgresParticipationRepository struct {
	pool   *pgxpool.Pool
	tables *TableNames
}

// NewParticipationRepository creates a new participation repository
func NewParticipationRepository(config *RepositoryConfig) repositories.ParticipationRepository {
	return &PostgresParticipationRepository{
		pool:   config.Pool,
		tables: config.Tables,
	}
}

// Create inserts a new membership edge. The table carries a unique
// constraint on (user_id, project_id, role_id), so a duplicate grant
// surfaces as a conflict here even under concurrent inserts.
func (r *PostgresParticipationRepository) Create(ctx context.Context, p *models.Participation) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (user_id, project_id, role_id)
		VALUES ($1, $2, $3)
	`, r.tables.UserProjects)

	executor := GetExecutor(ctx, r.pool)
	_, err := executor.Exec(ctx, query, p.UserID, p.ProjectID, p.RoleID)
	if err != nil {
		if IsPgDuplicateError(err) {
			return &domain.ConflictError{
				Message:      fmt.Sprintf("user %d already holds role %s on project %d", p.UserID, p.RoleID, p.ProjectID),
				ResourceType: "participation",
			}
		}
		if IsPgForeignKeyError(err) {
			return &domain.NotFoundError{Message: "referenced user or project not found"}
		}
		return fmt.Errorf("create participation: %w", err)
	}

	return nil
}

func (r *PostgresParticipationRepository) queryEdges(ctx context.Context, query string, args ...any) ([]models.Participation, error) {
	executor := GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query participations: %w", err)
	}
	defer rows.Close()

	edges := []models.Participation{}
	for rows.Next() {
		var p models.Participation
		if err := rows.Scan(&p.UserID, &p.ProjectID, &p.RoleID); err != nil {
			return nil, fmt.Errorf("scan participation: %w", err)
		}
		edges = append(edges, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate participations: %w", err)
	}

	return edges, nil
}

// ListByUser retrieves every edge the user holds across all projects
func (r *PostgresParticipationRepository) ListByUser(ctx context.Context, userID int64) ([]models.Participation, error) {
	query := fmt.Sprintf(`
		SELECT user_id, project_id, role_id
		FROM %s
		WHERE user_id = $1
		ORDER BY project_id, role_id
	`, r.tables.UserProjects)

	return r.queryEdges(ctx, query, userID)
}

// ListByProject retrieves every edge on one project
func (r *PostgresParticipationRepository) ListByProject(ctx context.Context, projectID int64) ([]models.Participation, error) {
	query := fmt.Sprintf(`
		SELECT user_id, project_id, role_id
		FROM %s
		WHERE project_id = $1
		ORDER BY user_id, role_id
	`, r.tables.UserProjects)

	return r.queryEdges(ctx, query, projectID)
}

// ListByUserProject retrieves the user's edges on one project
func (r *PostgresParticipationRepository) ListByUserProject(ctx context.Context, userID, projectID int64) ([]models.Participation, error) {
	query := fmt.Sprintf(`
		SELECT user_id, project_id, role_id
		FROM %s
		WHERE user_id = $1 AND project_id = $2
		ORDER BY role_id
	`, r.tables.UserProjects)

	return r.queryEdges(ctx, query, userID, projectID)
}

// Delete removes the edge for one role; returns the number of rows removed
func (r *PostgresParticipationRepository) Delete(ctx context.Context, userID, projectID int64, role models.ProjectRole) (int64, error) {
	query := fmt.Sprintf(`
		DELETE FROM %s
		WHERE user_id = $1 AND project_id = $2 AND role_id = $3
	`, r.tables.UserProjects)

	executor := GetExecutor(ctx, r.pool)
	result, err := executor.Exec(ctx, query, userID, projectID, role)
	if err != nil {
		return 0, fmt.Errorf("delete participation: %w", err)
	}

	return result.RowsAffected(), nil
}

// DeleteAll removes every edge a user holds on one project
func (r *PostgresParticipationRepository) DeleteAll(ctx context.Context, userID, projectID int64) (int64, error) {
	query := fmt.Sprintf(`
		DELETE FROM %s
		WHERE user_id = $1 AND project_id = $2
	`, r.tables.UserProjects)

	executor := GetExecutor(ctx, r.pool)
	result, err := executor.Exec(ctx, query, userID, projectID)
	if err != nil {
		return 0, fmt.Errorf("delete participations: %w", err)
	}

	return result.RowsAffected(), nil
}

// CountByProjectRole counts how many users hold the given role on a project
func (r *PostgresParticipationRepository) CountByProjectRole(ctx context.Context, projectID int64, role models.ProjectRole) (int64, error) {
	query := fmt.Sprintf(`
		SELECT COUNT(*)
		FROM %s
		WHERE project_id = $1 AND role_id = $2
	`, r.tables.UserProjects)

	var count int64
	executor := GetExecutor(ctx, r.pool)
	if err := executor.QueryRow(ctx, query, projectID, role).Scan(&count); err != nil {
		return 0, fmt.Errorf("count participations: %w", err)
	}

	return count, nil
}
