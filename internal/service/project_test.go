package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"taskboard/internal/domain"
	"taskboard/internal/domain/models"
	"taskboard/internal/domain/services"
)

func TestProjectCreateGrantsOwner(t *testing.T) {
	e := newEnv(t)
	e.store.addUser(42, "owner@example.com")

	resp, err := e.projects.Create(context.Background(), 42, &services.NewProjectRequest{
		Name:        "Website redesign",
		Description: "Q4 work",
	})
	require.NoError(t, err)
	require.NotZero(t, resp.ID)
	require.Equal(t, "Website redesign", resp.Name)
	require.Equal(t, int64(42), resp.CreatedBy)

	// The creator holds exactly the Owner role
	require.Len(t, resp.Roles, 1)
	require.Equal(t, models.RoleOwner, resp.Roles[0].ID)

	edges := e.store.edgesOf(42, resp.ID)
	require.Len(t, edges, 1)
	require.Equal(t, models.RoleOwner, edges[0].RoleID)
}

func TestProjectCreateValidation(t *testing.T) {
	e := newEnv(t)
	e.store.addUser(42, "owner@example.com")

	_, err := e.projects.Create(context.Background(), 42, &services.NewProjectRequest{Name: ""})
	require.Error(t, err)
	require.True(t, errors.Is(err, domain.ErrValidation))
}

func TestProjectCreateUnknownActor(t *testing.T) {
	e := newEnv(t)

	_, err := e.projects.Create(context.Background(), 99, &services.NewProjectRequest{Name: "x"})
	require.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestProjectCreateWithParent(t *testing.T) {
	e := newEnv(t)
	e.store.addUser(42, "owner@example.com")

	parent, err := e.projects.Create(context.Background(), 42, &services.NewProjectRequest{Name: "Parent"})
	require.NoError(t, err)

	child, err := e.projects.Create(context.Background(), 42, &services.NewProjectRequest{
		Name:     "Child",
		ParentID: &parent.ID,
	})
	require.NoError(t, err)
	require.NotNil(t, child.Parent)
	require.Equal(t, parent.ID, child.Parent.ID)

	// Parent chain entries carry no role annotation
	require.Empty(t, child.Parent.Roles)
}

func TestProjectGetAllEmptyListIsNotAnError(t *testing.T) {
	e := newEnv(t)
	e.store.addUser(42, "owner@example.com")

	list, err := e.projects.GetAll(context.Background(), 42)
	require.NoError(t, err)
	require.Empty(t, list)
}

func TestProjectGetAllAggregatesRoles(t *testing.T) {
	e := newEnv(t)
	e.store.addUser(42, "owner@example.com")
	e.store.addUser(7, "dev@example.com")

	p, err := e.projects.Create(context.Background(), 42, &services.NewProjectRequest{Name: "P"})
	require.NoError(t, err)

	for _, role := range []models.ProjectRole{models.RoleDev, models.RoleQA} {
		_, err := e.participations.Add(context.Background(), 42, &services.NewParticipationRequest{
			UserID:    7,
			ProjectID: p.ID,
			Role:      role,
		})
		require.NoError(t, err)
	}

	list, err := e.projects.GetAll(context.Background(), 7)
	require.NoError(t, err)
	require.Len(t, list, 1)

	held := make([]models.ProjectRole, 0, len(list[0].Roles))
	for _, r := range list[0].Roles {
		held = append(held, r.ID)
	}
	require.ElementsMatch(t, []models.ProjectRole{models.RoleDev, models.RoleQA}, held)
}

func TestProjectGetOneRequiresParticipation(t *testing.T) {
	e := newEnv(t)
	e.store.addUser(42, "owner@example.com")
	e.store.addUser(7, "outsider@example.com")

	p, err := e.projects.Create(context.Background(), 42, &services.NewProjectRequest{Name: "P"})
	require.NoError(t, err)

	// Non-participants cannot even learn that the project exists
	_, err = e.projects.GetOne(context.Background(), 7, p.ID)
	require.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestProjectGetOneHidesDeleted(t *testing.T) {
	e := newEnv(t)
	e.store.addUser(42, "owner@example.com")

	p, err := e.projects.Create(context.Background(), 42, &services.NewProjectRequest{Name: "P"})
	require.NoError(t, err)

	_, err = e.projects.SoftDelete(context.Background(), p.ID, 42)
	require.NoError(t, err)

	_, err = e.projects.GetOne(context.Background(), 42, p.ID)
	require.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestProjectUpdateRejectsSelfParent(t *testing.T) {
	e := newEnv(t)
	e.store.addUser(42, "owner@example.com")

	p, err := e.projects.Create(context.Background(), 42, &services.NewProjectRequest{Name: "P"})
	require.NoError(t, err)

	_, err = e.projects.Update(context.Background(), p.ID, 42, &services.UpdateProjectRequest{
		ParentID: &p.ID,
	})
	require.True(t, errors.Is(err, domain.ErrValidation))

	// Nothing was persisted
	got, err := e.projects.GetOne(context.Background(), 42, p.ID)
	require.NoError(t, err)
	require.Nil(t, got.Parent)
}

func TestProjectUpdateParentWinsOverParentless(t *testing.T) {
	e := newEnv(t)
	e.store.addUser(42, "owner@example.com")

	parent, err := e.projects.Create(context.Background(), 42, &services.NewProjectRequest{Name: "Parent"})
	require.NoError(t, err)
	p, err := e.projects.Create(context.Background(), 42, &services.NewProjectRequest{Name: "P"})
	require.NoError(t, err)

	yes := true
	got, err := e.projects.Update(context.Background(), p.ID, 42, &services.UpdateProjectRequest{
		ParentID:       &parent.ID,
		MakeParentless: &yes,
	})
	require.NoError(t, err)
	require.NotNil(t, got.Parent)
	require.Equal(t, parent.ID, got.Parent.ID)
}

func TestProjectUpdateMakeParentless(t *testing.T) {
	e := newEnv(t)
	e.store.addUser(42, "owner@example.com")

	parent, err := e.projects.Create(context.Background(), 42, &services.NewProjectRequest{Name: "Parent"})
	require.NoError(t, err)
	p, err := e.projects.Create(context.Background(), 42, &services.NewProjectRequest{
		Name:     "P",
		ParentID: &parent.ID,
	})
	require.NoError(t, err)

	yes := true
	got, err := e.projects.Update(context.Background(), p.ID, 42, &services.UpdateProjectRequest{
		MakeParentless: &yes,
	})
	require.NoError(t, err)
	require.Nil(t, got.Parent)
}

func TestProjectUpdateForbiddenForNonParticipant(t *testing.T) {
	e := newEnv(t)
	e.store.addUser(42, "owner@example.com")
	e.store.addUser(7, "outsider@example.com")

	p, err := e.projects.Create(context.Background(), 42, &services.NewProjectRequest{Name: "P"})
	require.NoError(t, err)

	name := "renamed"
	_, err = e.projects.Update(context.Background(), p.ID, 7, &services.UpdateProjectRequest{Name: &name})
	require.True(t, errors.Is(err, domain.ErrForbidden))
}

func TestProjectSoftDeleteKeepsRow(t *testing.T) {
	e := newEnv(t)
	e.store.addUser(42, "owner@example.com")

	p, err := e.projects.Create(context.Background(), 42, &services.NewProjectRequest{Name: "P"})
	require.NoError(t, err)

	got, err := e.projects.SoftDelete(context.Background(), p.ID, 42)
	require.NoError(t, err)
	require.True(t, got.Deleted)

	// The row survives, it is just filtered from listings
	list, err := e.projects.GetAll(context.Background(), 42)
	require.NoError(t, err)
	require.Empty(t, list)
	require.NotNil(t, e.store.projects[p.ID])
}
