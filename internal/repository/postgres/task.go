package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"taskboard/internal/domain"
	"taskboard/internal/domain/models"
	"taskboard/internal/domain/repositories"
)

// PostgresTaskRepository implements the TaskRepository interface
type PostgresTaskRepository struct {
	pool   *pgxpool.Pool
	tables *TableNames
}

// NewTaskRepository creates a new task repository
func NewTaskRepository(config *RepositoryConfig) repositories.TaskRepository {
	return &PostgresTaskRepository{
		pool:   config.Pool,
		tables: config.Tables,
	}
}

const taskColumns = `id, name, project_id, parent_id, priority, schedule, schedule_note, reminder, reminder_schedule, assigned_by, assigned_for, deleted, created_by, updated_by, created_at, updated_at`

func scanTask(row interface{ Scan(...any) error }, t *models.Task) error {
	return row.Scan(
		&t.ID,
		&t.Name,
		&t.ProjectID,
		&t.ParentID,
		&t.Priority,
		&t.Schedule,
		&t.ScheduleNote,
		&t.Reminder,
		&t.ReminderSchedule,
		&t.AssignedBy,
		&t.AssignedFor,
		&t.Deleted,
		&t.CreatedBy,
		&t.UpdatedBy,
		&t.CreatedAt,
		&t.UpdatedAt,
	)
}

// Create inserts a new task and fills in its generated id
func (r *PostgresTaskRepository) Create(ctx context.Context, task *models.Task) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (name, project_id, parent_id, priority, schedule, schedule_note,
		                reminder, reminder_schedule, assigned_by, assigned_for, deleted,
		                created_by, updated_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
		RETURNING id
	`, r.tables.Tasks)

	executor := GetExecutor(ctx, r.pool)
	err := executor.QueryRow(ctx, query,
		task.Name,
		task.ProjectID,
		task.ParentID,
		task.Priority,
		task.Schedule,
		task.ScheduleNote,
		task.Reminder,
		task.ReminderSchedule,
		task.AssignedBy,
		task.AssignedFor,
		task.Deleted,
		task.CreatedBy,
		task.UpdatedBy,
		task.CreatedAt,
		task.UpdatedAt,
	).Scan(&task.ID)
	if err != nil {
		if IsPgForeignKeyError(err) {
			return &domain.NotFoundError{Message: "referenced project, task or user not found"}
		}
		return fmt.Errorf("create task: %w", err)
	}

	return nil
}

// GetByID retrieves a task by id regardless of the deleted flag. A second
// row under the same id is a broken store invariant, not not-found.
func (r *PostgresTaskRepository) GetByID(ctx context.Context, id int64) (*models.Task, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s
		WHERE id = $1
	`, taskColumns, r.tables.Tasks)

	executor := GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query, id)
	if err != nil {
		return nil, fmt.Errorf("get task: %w", err)
	}
	defer rows.Close()

	var task *models.Task
	for rows.Next() {
		if task != nil {
			return nil, &domain.StoreInconsistencyError{
				Message:      fmt.Sprintf("task id %d matches more than one row", id),
				ResourceType: "task",
			}
		}
		task = &models.Task{}
		if err := scanTask(rows, task); err != nil {
			return nil, fmt.Errorf("scan task: %w", err)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate tasks: %w", err)
	}
	if task == nil {
		return nil, &domain.NotFoundError{Message: fmt.Sprintf("task %d not found", id)}
	}

	return task, nil
}

// List retrieves non-deleted tasks across the user's projects, optionally
// restricted to one project and a schedule category.
func (r *PostgresTaskRepository) List(ctx context.Context, filter repositories.TaskFilter) ([]models.Task, error) {
	query := fmt.Sprintf(`
		SELECT DISTINCT t.id, t.name, t.project_id, t.parent_id, t.priority, t.schedule,
		       t.schedule_note, t.reminder, t.reminder_schedule, t.assigned_by,
		       t.assigned_for, t.deleted, t.created_by, t.updated_by, t.created_at, t.updated_at
		FROM %s t
		JOIN %s up ON up.project_id = t.project_id
		WHERE up.user_id = $1
		  AND t.deleted = FALSE
		  AND ($2 = 0 OR t.project_id = $2)
		  AND ($3 = 0
		       OR ($3 = 1 AND t.schedule IS NOT NULL AND t.schedule::date = CURRENT_DATE)
		       OR ($3 = 2 AND t.schedule IS NOT NULL AND t.schedule::date > CURRENT_DATE))
		ORDER BY t.id
	`, r.tables.Tasks, r.tables.UserProjects)

	executor := GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query, filter.UserID, filter.ProjectID, int(filter.Category))
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	defer rows.Close()

	tasks := []models.Task{}
	for rows.Next() {
		var t models.Task
		if err := scanTask(rows, &t); err != nil {
			return nil, fmt.Errorf("scan task: %w", err)
		}
		tasks = append(tasks, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate tasks: %w", err)
	}

	return tasks, nil
}

// ListByProject retrieves all non-deleted tasks of one project
func (r *PostgresTaskRepository) ListByProject(ctx context.Context, projectID int64) ([]models.Task, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s
		WHERE project_id = $1 AND deleted = FALSE
		ORDER BY id
	`, taskColumns, r.tables.Tasks)

	executor := GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query, projectID)
	if err != nil {
		return nil, fmt.Errorf("list project tasks: %w", err)
	}
	defer rows.Close()

	tasks := []models.Task{}
	for rows.Next() {
		var t models.Task
		if err := scanTask(rows, &t); err != nil {
			return nil, fmt.Errorf("scan task: %w", err)
		}
		tasks = append(tasks, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate tasks: %w", err)
	}

	return tasks, nil
}

// Update persists field changes of an existing task
func (r *PostgresTaskRepository) Update(ctx context.Context, task *models.Task) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET name = $1, parent_id = $2, priority = $3, schedule = $4, schedule_note = $5,
		    reminder = $6, reminder_schedule = $7, assigned_for = $8, deleted = $9,
		    updated_by = $10, updated_at = $11
		WHERE id = $12
	`, r.tables.Tasks)

	executor := GetExecutor(ctx, r.pool)
	result, err := executor.Exec(ctx, query,
		task.Name,
		task.ParentID,
		task.Priority,
		task.Schedule,
		task.ScheduleNote,
		task.Reminder,
		task.ReminderSchedule,
		task.AssignedFor,
		task.Deleted,
		task.UpdatedBy,
		task.UpdatedAt,
		task.ID,
	)
	if err != nil {
		return fmt.Errorf("update task: %w", err)
	}

	if result.RowsAffected() == 0 {
		return &domain.NotFoundError{Message: fmt.Sprintf("task %d not found", task.ID)}
	}

	return nil
}
