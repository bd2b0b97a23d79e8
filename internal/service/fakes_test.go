package service

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"taskboard/internal/domain"
	"taskboard/internal/domain/models"
	"taskboard/internal/domain/repositories"
	"taskboard/internal/domain/services"
	"taskboard/internal/roles"
)

// passTxManager runs the closure directly. The services only care that
// everything inside one ExecTx call sees the same store.
type passTxManager struct{}

func (passTxManager) ExecTx(ctx context.Context, fn repositories.TxFn) error {
	return fn(ctx)
}

// fakeStore is a shared in-memory backing for all fake repositories, so a
// service wired from its views behaves like one consistent database.
type fakeStore struct {
	mu         sync.Mutex
	projectSeq int64
	taskSeq    int64
	users      map[int64]*models.User
	projects   map[int64]*models.Project
	tasks      map[int64]*models.Task
	edges      []models.Participation
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		users:    make(map[int64]*models.User),
		projects: make(map[int64]*models.Project),
		tasks:    make(map[int64]*models.Task),
	}
}

func (s *fakeStore) addUser(id int64, email string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[id] = &models.User{
		ID:        id,
		Email:     email,
		CreatedAt: time.Now().UTC(),
		UpdatedAt: time.Now().UTC(),
	}
}

func (s *fakeStore) edgesOf(userID, projectID int64) []models.Participation {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.Participation
	for _, e := range s.edges {
		if e.UserID == userID && e.ProjectID == projectID {
			out = append(out, e)
		}
	}
	return out
}

type fakeUsers struct{ *fakeStore }

func (f fakeUsers) GetByID(ctx context.Context, id int64) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[id]
	if !ok {
		return nil, &domain.NotFoundError{Message: fmt.Sprintf("user %d not found", id)}
	}
	cp := *u
	return &cp, nil
}

func (f fakeUsers) Find(ctx context.Context, filter repositories.UserFilter) ([]models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.User
	for _, u := range f.users {
		if filter.Email != "" && !strings.Contains(u.Email, filter.Email) {
			continue
		}
		if filter.FirstName != "" && !strings.Contains(u.FirstName, filter.FirstName) {
			continue
		}
		if filter.LastName != "" && !strings.Contains(u.LastName, filter.LastName) {
			continue
		}
		out = append(out, *u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f fakeUsers) Update(ctx context.Context, user *models.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.users[user.ID]; !ok {
		return &domain.NotFoundError{Message: fmt.Sprintf("user %d not found", user.ID)}
	}
	cp := *user
	f.users[user.ID] = &cp
	return nil
}

type fakeProjects struct{ *fakeStore }

func (f fakeProjects) Create(ctx context.Context, project *models.Project) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.projectSeq++
	project.ID = f.projectSeq
	cp := *project
	f.projects[project.ID] = &cp
	return nil
}

func (f fakeProjects) GetByID(ctx context.Context, id int64) (*models.Project, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.projects[id]
	if !ok {
		return nil, &domain.NotFoundError{Message: fmt.Sprintf("project %d not found", id)}
	}
	cp := *p
	return &cp, nil
}

func (f fakeProjects) ListByUser(ctx context.Context, userID int64) ([]models.Project, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	seen := make(map[int64]bool)
	var out []models.Project
	for _, e := range f.edges {
		if e.UserID != userID || seen[e.ProjectID] {
			continue
		}
		seen[e.ProjectID] = true
		if p, ok := f.projects[e.ProjectID]; ok && !p.Deleted {
			out = append(out, *p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f fakeProjects) Update(ctx context.Context, project *models.Project) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.projects[project.ID]; !ok {
		return &domain.NotFoundError{Message: fmt.Sprintf("project %d not found", project.ID)}
	}
	cp := *project
	f.projects[project.ID] = &cp
	return nil
}

type fakeTasks struct{ *fakeStore }

func (f fakeTasks) Create(ctx context.Context, task *models.Task) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.taskSeq++
	task.ID = f.taskSeq
	cp := *task
	f.tasks[task.ID] = &cp
	return nil
}

func (f fakeTasks) GetByID(ctx context.Context, id int64) (*models.Task, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	t, ok := f.tasks[id]
	if !ok {
		return nil, &domain.NotFoundError{Message: fmt.Sprintf("task %d not found", id)}
	}
	cp := *t
	return &cp, nil
}

func (f fakeTasks) List(ctx context.Context, filter repositories.TaskFilter) ([]models.Task, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	member := make(map[int64]bool)
	for _, e := range f.edges {
		if e.UserID == filter.UserID {
			member[e.ProjectID] = true
		}
	}

	today := time.Now().UTC().Truncate(24 * time.Hour)
	var out []models.Task
	for _, t := range f.tasks {
		if t.Deleted || !member[t.ProjectID] {
			continue
		}
		if filter.ProjectID != 0 && t.ProjectID != filter.ProjectID {
			continue
		}
		switch filter.Category {
		case models.CategoryToday:
			if t.Schedule == nil || !t.Schedule.UTC().Truncate(24*time.Hour).Equal(today) {
				continue
			}
		case models.CategoryUpcoming:
			if t.Schedule == nil || !t.Schedule.UTC().Truncate(24*time.Hour).After(today) {
				continue
			}
		}
		out = append(out, *t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f fakeTasks) ListByProject(ctx context.Context, projectID int64) ([]models.Task, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Task
	for _, t := range f.tasks {
		if t.ProjectID == projectID && !t.Deleted {
			out = append(out, *t)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f fakeTasks) Update(ctx context.Context, task *models.Task) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.tasks[task.ID]; !ok {
		return &domain.NotFoundError{Message: fmt.Sprintf("task %d not found", task.ID)}
	}
	cp := *task
	f.tasks[task.ID] = &cp
	return nil
}

type fakeEdges struct{ *fakeStore }

func (f fakeEdges) Create(ctx context.Context, p *models.Participation) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, e := range f.edges {
		if e.UserID == p.UserID && e.ProjectID == p.ProjectID && e.RoleID == p.RoleID {
			return &domain.ConflictError{
				Message:      "participation already exists",
				ResourceType: "participation",
			}
		}
	}
	f.edges = append(f.edges, *p)
	return nil
}

func (f fakeEdges) ListByUser(ctx context.Context, userID int64) ([]models.Participation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Participation
	for _, e := range f.edges {
		if e.UserID == userID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (f fakeEdges) ListByProject(ctx context.Context, projectID int64) ([]models.Participation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Participation
	for _, e := range f.edges {
		if e.ProjectID == projectID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (f fakeEdges) ListByUserProject(ctx context.Context, userID, projectID int64) ([]models.Participation, error) {
	return f.edgesOf(userID, projectID), nil
}

func (f fakeEdges) Delete(ctx context.Context, userID, projectID int64, role models.ProjectRole) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var kept []models.Participation
	var removed int64
	for _, e := range f.edges {
		if e.UserID == userID && e.ProjectID == projectID && e.RoleID == role {
			removed++
			continue
		}
		kept = append(kept, e)
	}
	f.edges = kept
	return removed, nil
}

func (f fakeEdges) DeleteAll(ctx context.Context, userID, projectID int64) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var kept []models.Participation
	var removed int64
	for _, e := range f.edges {
		if e.UserID == userID && e.ProjectID == projectID {
			removed++
			continue
		}
		kept = append(kept, e)
	}
	f.edges = kept
	return removed, nil
}

func (f fakeEdges) CountByProjectRole(ctx context.Context, projectID int64, role models.ProjectRole) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var n int64
	for _, e := range f.edges {
		if e.ProjectID == projectID && e.RoleID == role {
			n++
		}
	}
	return n, nil
}

// env bundles one store with every service wired against it.
type env struct {
	store          *fakeStore
	users          services.UserService
	projects       services.ProjectService
	tasks          services.TaskService
	participations services.ParticipationService
}

func newEnv(t *testing.T) *env {
	t.Helper()

	catalog, err := roles.NewRegistry()
	require.NoError(t, err)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	store := newFakeStore()
	tx := passTxManager{}

	return &env{
		store:          store,
		users:          NewUserService(fakeUsers{store}, tx, logger),
		projects:       NewProjectService(fakeProjects{store}, fakeEdges{store}, fakeUsers{store}, tx, catalog, logger),
		tasks:          NewTaskService(fakeTasks{store}, fakeProjects{store}, fakeEdges{store}, fakeUsers{store}, tx, catalog, logger),
		participations: NewParticipationService(fakeEdges{store}, fakeProjects{store}, fakeUsers{store}, tx, catalog, logger),
	}
}
