package services

import (
	"context"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"taskboard/internal/domain/models"
	"taskboard/internal/roles"
)

// TaskResponse is the refreshed task view delivered to clients.
type TaskResponse struct {
	ID               int64               `json:"id"`
	Name             string              `json:"name"`
	ProjectID        int64               `json:"project_id"`
	ParentID         *int64              `json:"parent_id,omitempty"`
	Priority         *roles.PriorityInfo `json:"priority,omitempty"`
	Schedule         *time.Time          `json:"schedule,omitempty"`
	ScheduleNote     string              `json:"schedule_note,omitempty"`
	Reminder         bool                `json:"reminder"`
	ReminderSchedule *time.Time          `json:"reminder_schedule,omitempty"`
	AssignedBy       *int64              `json:"assigned_by,omitempty"`
	AssignedFor      *int64              `json:"assigned_for,omitempty"`
	Deleted          bool                `json:"deleted"`
	CreatedBy        int64               `json:"created_by"`
	UpdatedBy        int64               `json:"updated_by"`
	CreatedAt        time.Time           `json:"created_at"`
	UpdatedAt        time.Time           `json:"updated_at"`
}

// NewTaskRequest creates a task inside an existing project. A zero priority
// means "unset" and is stored as NULL.
type NewTaskRequest struct {
	Name             string               `json:"name"`
	ProjectID        int64                `json:"project_id"`
	ParentID         *int64               `json:"parent_id,omitempty"`
	Priority         models.PriorityLevel `json:"priority"`
	Schedule         *time.Time           `json:"schedule,omitempty"`
	ScheduleNote     string               `json:"schedule_note,omitempty"`
	Reminder         bool                 `json:"reminder"`
	ReminderSchedule *time.Time           `json:"reminder_schedule,omitempty"`
	AssignedBy       *int64               `json:"assigned_by,omitempty"`
	AssignedFor      *int64               `json:"assigned_for,omitempty"`
}

// Validate checks the request shape. Priority range is enforced here so an
// out-of-range value never reaches the transaction.
func (r NewTaskRequest) Validate() error {
	if !r.Priority.Valid() {
		return validation.NewError("validation_priority_range", "provided priority for task is outside the valid range")
	}
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name, validation.Required, validation.Length(1, 255)),
		validation.Field(&r.ProjectID, validation.Required),
	)
}

// UpdateTaskRequest carries optional changes; nil fields are left untouched.
type UpdateTaskRequest struct {
	Name             *string               `json:"name,omitempty"`
	ParentID         *int64                `json:"parent_id,omitempty"`
	Priority         *models.PriorityLevel `json:"priority,omitempty"`
	Schedule         *time.Time            `json:"schedule,omitempty"`
	ScheduleNote     *string               `json:"schedule_note,omitempty"`
	Reminder         *bool                 `json:"reminder,omitempty"`
	ReminderSchedule *time.Time            `json:"reminder_schedule,omitempty"`
	AssignedFor      *int64                `json:"assigned_for,omitempty"`
}

// Validate checks the request shape.
func (r UpdateTaskRequest) Validate() error {
	if r.Priority != nil && !r.Priority.Valid() {
		return validation.NewError("validation_priority_range", "provided priority for task is outside the valid range")
	}
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name, validation.NilOrNotEmpty, validation.Length(1, 255)),
	)
}

// ListTasksRequest selects tasks across the user's projects.
type ListTasksRequest struct {
	UserID    int64
	ProjectID int64
	Category  models.TaskCategory
}

// TaskService defines business logic operations for tasks. Authorization is
// always checked against the owning project's membership, never against
// task ownership.
type TaskService interface {
	// Create creates a task after validating project, parent task and
	// assignment references
	Create(ctx context.Context, actorID int64, req *NewTaskRequest) (*TaskResponse, error)

	// GetAll retrieves tasks across the user's projects
	GetAll(ctx context.Context, req *ListTasksRequest) ([]TaskResponse, error)

	// GetOne retrieves a single task the user may see
	GetOne(ctx context.Context, actorID, taskID int64) (*TaskResponse, error)

	// Update applies field changes under project-membership authorization
	Update(ctx context.Context, taskID, actorID int64, req *UpdateTaskRequest) (*TaskResponse, error)

	// SoftDelete flips the deleted flag without removing the row
	SoftDelete(ctx context.Context, taskID, actorID int64) (*TaskResponse, error)
}
