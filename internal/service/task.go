package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"taskboard/internal/domain"
	"taskboard/internal/domain/models"
	"taskboard/internal/domain/repositories"
	"taskboard/internal/domain/services"
	"taskboard/internal/roles"
)

// taskService implements the TaskService interface
type taskService struct {
	taskRepo          repositories.TaskRepository
	projectRepo       repositories.ProjectRepository
	participationRepo repositories.ParticipationRepository
	userRepo          repositories.UserRepository
	txManager         repositories.TransactionManager
	catalog           *roles.Registry
	logger            *slog.Logger
}

// NewTaskService creates a new task service
func NewTaskService(
	taskRepo repositories.TaskRepository,
	projectRepo repositories.ProjectRepository,
	participationRepo repositories.ParticipationRepository,
	userRepo repositories.UserRepository,
	txManager repositories.TransactionManager,
	catalog *roles.Registry,
	logger *slog.Logger,
) services.TaskService {
	return &taskService{
		taskRepo:          taskRepo,
		projectRepo:       projectRepo,
		participationRepo: participationRepo,
		userRepo:          userRepo,
		txManager:         txManager,
		catalog:           catalog,
		logger:            logger,
	}
}

// requireMembership returns an error unless the user holds at least one
// role on the project. Task authorization always resolves through the
// owning project, never through task ownership.
func (s *taskService) requireMembership(ctx context.Context, userID, projectID int64) error {
	edges, err := s.participationRepo.ListByUserProject(ctx, userID, projectID)
	if err != nil {
		return err
	}
	if len(edges) == 0 {
		return &domain.ForbiddenError{Message: "you do not participate in this task's project"}
	}
	return nil
}

// Create creates a task after validating every reference it carries.
func (s *taskService) Create(ctx context.Context, actorID int64, req *services.NewTaskRequest) (*services.TaskResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, &domain.ValidationError{Message: fmt.Sprintf("invalid task: %v", err)}
	}

	task := &models.Task{
		Name:             strings.TrimSpace(req.Name),
		ProjectID:        req.ProjectID,
		ParentID:         req.ParentID,
		Priority:         normalizePriority(req.Priority),
		Schedule:         req.Schedule,
		ScheduleNote:     req.ScheduleNote,
		Reminder:         req.Reminder,
		ReminderSchedule: req.ReminderSchedule,
		AssignedBy:       req.AssignedBy,
		AssignedFor:      req.AssignedFor,
		CreatedBy:        actorID,
		UpdatedBy:        actorID,
		CreatedAt:        time.Now().UTC(),
		UpdatedAt:        time.Now().UTC(),
	}

	err := s.txManager.ExecTx(ctx, func(ctx context.Context) error {
		if _, err := s.userRepo.GetByID(ctx, actorID); err != nil {
			return err
		}

		project, err := s.projectRepo.GetByID(ctx, req.ProjectID)
		if err != nil {
			return err
		}
		if project.Deleted {
			return &domain.NotFoundError{Message: fmt.Sprintf("project %d not found", req.ProjectID)}
		}

		if err := s.requireMembership(ctx, actorID, project.ID); err != nil {
			return err
		}

		if req.ParentID != nil {
			parent, err := s.taskRepo.GetByID(ctx, *req.ParentID)
			if err != nil {
				return err
			}
			if parent.ProjectID != project.ID {
				return &domain.ValidationError{Message: "parent task belongs to a different project"}
			}
		}

		if req.AssignedBy != nil {
			if _, err := s.userRepo.GetByID(ctx, *req.AssignedBy); err != nil {
				return err
			}
		}
		if req.AssignedFor != nil {
			if _, err := s.userRepo.GetByID(ctx, *req.AssignedFor); err != nil {
				return err
			}
		}

		return s.taskRepo.Create(ctx, task)
	})
	if err != nil {
		s.logger.Error("create task failed", "user_id", actorID, "project_id", req.ProjectID, "error", err)
		return nil, err
	}

	s.logger.Info("task created",
		"id", task.ID,
		"name", task.Name,
		"project_id", task.ProjectID,
		"user_id", actorID,
	)

	return s.buildResponse(task), nil
}

// GetAll retrieves tasks across the user's projects.
func (s *taskService) GetAll(ctx context.Context, req *services.ListTasksRequest) ([]services.TaskResponse, error) {
	if _, err := s.userRepo.GetByID(ctx, req.UserID); err != nil {
		return nil, err
	}

	tasks, err := s.taskRepo.List(ctx, repositories.TaskFilter{
		UserID:    req.UserID,
		ProjectID: req.ProjectID,
		Category:  req.Category,
	})
	if err != nil {
		return nil, err
	}

	result := make([]services.TaskResponse, 0, len(tasks))
	for i := range tasks {
		result = append(result, *s.buildResponse(&tasks[i]))
	}
	return result, nil
}

// GetOne retrieves a single task the user may see.
func (s *taskService) GetOne(ctx context.Context, actorID, taskID int64) (*services.TaskResponse, error) {
	task, err := s.taskRepo.GetByID(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if task.Deleted {
		return nil, &domain.NotFoundError{Message: fmt.Sprintf("task %d not found", taskID)}
	}

	if err := s.requireMembership(ctx, actorID, task.ProjectID); err != nil {
		return nil, err
	}

	return s.buildResponse(task), nil
}

// Update applies field changes under project-membership authorization,
// touching fields only when they actually differ.
func (s *taskService) Update(ctx context.Context, taskID, actorID int64, req *services.UpdateTaskRequest) (*services.TaskResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, &domain.ValidationError{Message: fmt.Sprintf("invalid task update: %v", err)}
	}

	var task *models.Task

	err := s.txManager.ExecTx(ctx, func(ctx context.Context) error {
		if _, err := s.userRepo.GetByID(ctx, actorID); err != nil {
			return err
		}

		var err error
		task, err = s.taskRepo.GetByID(ctx, taskID)
		if err != nil {
			return err
		}

		if err := s.requireMembership(ctx, actorID, task.ProjectID); err != nil {
			return err
		}

		updated := false

		if req.Name != nil && *req.Name != "" && *req.Name != task.Name {
			task.Name = strings.TrimSpace(*req.Name)
			updated = true
		}

		if req.ParentID != nil {
			if *req.ParentID == task.ID {
				return &domain.ValidationError{Message: "cannot set a task to be its own parent"}
			}
			parent, err := s.taskRepo.GetByID(ctx, *req.ParentID)
			if err != nil {
				return err
			}
			if parent.ProjectID != task.ProjectID {
				return &domain.ValidationError{Message: "parent task belongs to a different project"}
			}
			if task.ParentID == nil || *task.ParentID != parent.ID {
				task.ParentID = &parent.ID
				updated = true
			}
		}

		if req.Priority != nil {
			next := normalizePriority(*req.Priority)
			if !priorityEqual(task.Priority, next) {
				task.Priority = next
				updated = true
			}
		}

		if req.Schedule != nil && (task.Schedule == nil || !task.Schedule.Equal(*req.Schedule)) {
			task.Schedule = req.Schedule
			updated = true
		}
		if req.ScheduleNote != nil && *req.ScheduleNote != task.ScheduleNote {
			task.ScheduleNote = *req.ScheduleNote
			updated = true
		}
		if req.Reminder != nil && *req.Reminder != task.Reminder {
			task.Reminder = *req.Reminder
			updated = true
		}
		if req.ReminderSchedule != nil && (task.ReminderSchedule == nil || !task.ReminderSchedule.Equal(*req.ReminderSchedule)) {
			task.ReminderSchedule = req.ReminderSchedule
			updated = true
		}

		if req.AssignedFor != nil && (task.AssignedFor == nil || *task.AssignedFor != *req.AssignedFor) {
			if _, err := s.userRepo.GetByID(ctx, *req.AssignedFor); err != nil {
				return err
			}
			task.AssignedFor = req.AssignedFor
			updated = true
		}

		if updated {
			task.UpdatedBy = actorID
			task.UpdatedAt = time.Now().UTC()
			return s.taskRepo.Update(ctx, task)
		}
		return nil
	})
	if err != nil {
		s.logger.Error("update task failed", "task_id", taskID, "user_id", actorID, "error", err)
		return nil, err
	}

	return s.buildResponse(task), nil
}

// SoftDelete flips the deleted flag under the same membership check as an
// update.
func (s *taskService) SoftDelete(ctx context.Context, taskID, actorID int64) (*services.TaskResponse, error) {
	var task *models.Task

	err := s.txManager.ExecTx(ctx, func(ctx context.Context) error {
		if _, err := s.userRepo.GetByID(ctx, actorID); err != nil {
			return err
		}

		var err error
		task, err = s.taskRepo.GetByID(ctx, taskID)
		if err != nil {
			return err
		}

		if err := s.requireMembership(ctx, actorID, task.ProjectID); err != nil {
			return err
		}

		if task.Deleted {
			return nil
		}

		task.Deleted = true
		task.UpdatedBy = actorID
		task.UpdatedAt = time.Now().UTC()
		return s.taskRepo.Update(ctx, task)
	})
	if err != nil {
		s.logger.Error("delete task failed", "task_id", taskID, "user_id", actorID, "error", err)
		return nil, err
	}

	s.logger.Info("task deleted", "id", taskID, "user_id", actorID)

	return s.buildResponse(task), nil
}

// buildResponse annotates a task with its priority catalog entry.
func (s *taskService) buildResponse(t *models.Task) *services.TaskResponse {
	resp := &services.TaskResponse{
		ID:               t.ID,
		Name:             t.Name,
		ProjectID:        t.ProjectID,
		ParentID:         t.ParentID,
		Schedule:         t.Schedule,
		ScheduleNote:     t.ScheduleNote,
		Reminder:         t.Reminder,
		ReminderSchedule: t.ReminderSchedule,
		AssignedBy:       t.AssignedBy,
		AssignedFor:      t.AssignedFor,
		Deleted:          t.Deleted,
		CreatedBy:        t.CreatedBy,
		UpdatedBy:        t.UpdatedBy,
		CreatedAt:        t.CreatedAt,
		UpdatedAt:        t.UpdatedAt,
	}
	if t.Priority != nil {
		info := s.catalog.Priority(*t.Priority)
		resp.Priority = &info
	}
	return resp
}

// normalizePriority maps the zero "unset" value to NULL storage.
func normalizePriority(p models.PriorityLevel) *models.PriorityLevel {
	if p == models.PriorityNone {
		return nil
	}
	return &p
}

func priorityEqual(a, b *models.PriorityLevel) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
