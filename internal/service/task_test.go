package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"taskboard/internal/domain"
	"taskboard/internal/domain/models"
	"taskboard/internal/domain/services"
)

func TestTaskCreate(t *testing.T) {
	e := newEnv(t)
	projectID := seedProject(t, e, 42)

	task, err := e.tasks.Create(context.Background(), 42, &services.NewTaskRequest{
		Name:      "Write migration",
		ProjectID: projectID,
		Priority:  models.PriorityHigh,
	})
	require.NoError(t, err)
	require.NotZero(t, task.ID)
	require.Equal(t, projectID, task.ProjectID)
	require.NotNil(t, task.Priority)
	require.Equal(t, models.PriorityHigh, task.Priority.ID)
}

func TestTaskCreateZeroPriorityIsUnset(t *testing.T) {
	e := newEnv(t)
	projectID := seedProject(t, e, 42)

	task, err := e.tasks.Create(context.Background(), 42, &services.NewTaskRequest{
		Name:      "No priority",
		ProjectID: projectID,
	})
	require.NoError(t, err)
	require.Nil(t, task.Priority)
	require.Nil(t, e.store.tasks[task.ID].Priority)
}

func TestTaskCreateOutOfRangePriority(t *testing.T) {
	e := newEnv(t)
	projectID := seedProject(t, e, 42)

	_, err := e.tasks.Create(context.Background(), 42, &services.NewTaskRequest{
		Name:      "Bad",
		ProjectID: projectID,
		Priority:  models.PriorityLevel(99),
	})
	require.True(t, errors.Is(err, domain.ErrValidation))
	require.Empty(t, e.store.tasks)
}

func TestTaskCreateRequiresMembership(t *testing.T) {
	e := newEnv(t)
	projectID := seedProject(t, e, 42)
	e.store.addUser(7, "outsider@example.com")

	_, err := e.tasks.Create(context.Background(), 7, &services.NewTaskRequest{
		Name:      "Sneaky",
		ProjectID: projectID,
	})
	require.True(t, errors.Is(err, domain.ErrForbidden))
}

func TestTaskCreateRejectsDeletedProject(t *testing.T) {
	e := newEnv(t)
	projectID := seedProject(t, e, 42)

	_, err := e.projects.SoftDelete(context.Background(), projectID, 42)
	require.NoError(t, err)

	_, err = e.tasks.Create(context.Background(), 42, &services.NewTaskRequest{
		Name:      "Too late",
		ProjectID: projectID,
	})
	require.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestTaskCreateParentMustShareProject(t *testing.T) {
	e := newEnv(t)
	projectA := seedProject(t, e, 42)
	pb, err := e.projects.Create(context.Background(), 42, &services.NewProjectRequest{Name: "Other"})
	require.NoError(t, err)

	parent, err := e.tasks.Create(context.Background(), 42, &services.NewTaskRequest{
		Name:      "Parent",
		ProjectID: pb.ID,
	})
	require.NoError(t, err)

	_, err = e.tasks.Create(context.Background(), 42, &services.NewTaskRequest{
		Name:      "Child",
		ProjectID: projectA,
		ParentID:  &parent.ID,
	})
	require.True(t, errors.Is(err, domain.ErrValidation))
}

func TestTaskCreateValidatesAssignmentReferences(t *testing.T) {
	e := newEnv(t)
	projectID := seedProject(t, e, 42)
	missing := int64(999)

	_, err := e.tasks.Create(context.Background(), 42, &services.NewTaskRequest{
		Name:        "Assigned to nobody",
		ProjectID:   projectID,
		AssignedFor: &missing,
	})
	require.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestTaskGetAllCategories(t *testing.T) {
	e := newEnv(t)
	projectID := seedProject(t, e, 42)

	now := time.Now().UTC()
	tomorrow := now.Add(24 * time.Hour)

	_, err := e.tasks.Create(context.Background(), 42, &services.NewTaskRequest{
		Name: "today", ProjectID: projectID, Schedule: &now,
	})
	require.NoError(t, err)
	_, err = e.tasks.Create(context.Background(), 42, &services.NewTaskRequest{
		Name: "tomorrow", ProjectID: projectID, Schedule: &tomorrow,
	})
	require.NoError(t, err)
	_, err = e.tasks.Create(context.Background(), 42, &services.NewTaskRequest{
		Name: "unscheduled", ProjectID: projectID,
	})
	require.NoError(t, err)

	all, err := e.tasks.GetAll(context.Background(), &services.ListTasksRequest{UserID: 42})
	require.NoError(t, err)
	require.Len(t, all, 3)

	today, err := e.tasks.GetAll(context.Background(), &services.ListTasksRequest{
		UserID: 42, Category: models.CategoryToday,
	})
	require.NoError(t, err)
	require.Len(t, today, 1)
	require.Equal(t, "today", today[0].Name)

	upcoming, err := e.tasks.GetAll(context.Background(), &services.ListTasksRequest{
		UserID: 42, Category: models.CategoryUpcoming,
	})
	require.NoError(t, err)
	require.Len(t, upcoming, 1)
	require.Equal(t, "tomorrow", upcoming[0].Name)
}

func TestTaskGetOneRequiresMembership(t *testing.T) {
	e := newEnv(t)
	projectID := seedProject(t, e, 42)
	e.store.addUser(7, "outsider@example.com")

	task, err := e.tasks.Create(context.Background(), 42, &services.NewTaskRequest{
		Name: "Private", ProjectID: projectID,
	})
	require.NoError(t, err)

	_, err = e.tasks.GetOne(context.Background(), 7, task.ID)
	require.True(t, errors.Is(err, domain.ErrForbidden))
}

func TestTaskUpdateRejectsSelfParent(t *testing.T) {
	e := newEnv(t)
	projectID := seedProject(t, e, 42)

	task, err := e.tasks.Create(context.Background(), 42, &services.NewTaskRequest{
		Name: "T", ProjectID: projectID,
	})
	require.NoError(t, err)

	_, err = e.tasks.Update(context.Background(), task.ID, 42, &services.UpdateTaskRequest{
		ParentID: &task.ID,
	})
	require.True(t, errors.Is(err, domain.ErrValidation))
}

func TestTaskUpdateClearsPriority(t *testing.T) {
	e := newEnv(t)
	projectID := seedProject(t, e, 42)

	task, err := e.tasks.Create(context.Background(), 42, &services.NewTaskRequest{
		Name: "T", ProjectID: projectID, Priority: models.PriorityLow,
	})
	require.NoError(t, err)

	unset := models.PriorityNone
	got, err := e.tasks.Update(context.Background(), task.ID, 42, &services.UpdateTaskRequest{
		Priority: &unset,
	})
	require.NoError(t, err)
	require.Nil(t, got.Priority)
}

func TestTaskUpdateNoChangeKeepsAuditFields(t *testing.T) {
	e := newEnv(t)
	projectID := seedProject(t, e, 42)

	task, err := e.tasks.Create(context.Background(), 42, &services.NewTaskRequest{
		Name: "T", ProjectID: projectID,
	})
	require.NoError(t, err)

	same := "T"
	got, err := e.tasks.Update(context.Background(), task.ID, 42, &services.UpdateTaskRequest{
		Name: &same,
	})
	require.NoError(t, err)
	require.Equal(t, task.UpdatedAt, got.UpdatedAt)
}

func TestTaskSoftDeleteHidesFromListing(t *testing.T) {
	e := newEnv(t)
	projectID := seedProject(t, e, 42)

	task, err := e.tasks.Create(context.Background(), 42, &services.NewTaskRequest{
		Name: "T", ProjectID: projectID,
	})
	require.NoError(t, err)

	got, err := e.tasks.SoftDelete(context.Background(), task.ID, 42)
	require.NoError(t, err)
	require.True(t, got.Deleted)

	list, err := e.tasks.GetAll(context.Background(), &services.ListTasksRequest{UserID: 42})
	require.NoError(t, err)
	require.Empty(t, list)

	_, err = e.tasks.GetOne(context.Background(), 42, task.ID)
	require.True(t, errors.Is(err, domain.ErrNotFound))
}
