package realtime

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"taskboard/internal/domain"
	"taskboard/internal/domain/services"
)

// stubProjects serves canned views keyed by user.
type stubProjects struct {
	listsByUser map[int64][]services.ProjectResponse
	detail      *services.ProjectResponse
}

func (s *stubProjects) Create(ctx context.Context, actorID int64, req *services.NewProjectRequest) (*services.ProjectResponse, error) {
	panic("not used in fanout")
}

func (s *stubProjects) GetAll(ctx context.Context, userID int64) ([]services.ProjectResponse, error) {
	return s.listsByUser[userID], nil
}

func (s *stubProjects) GetOne(ctx context.Context, userID, projectID int64) (*services.ProjectResponse, error) {
	if s.detail == nil {
		return nil, &domain.NotFoundError{Message: "project not found"}
	}
	return s.detail, nil
}

func (s *stubProjects) Update(ctx context.Context, projectID, actorID int64, req *services.UpdateProjectRequest) (*services.ProjectResponse, error) {
	panic("not used in fanout")
}

func (s *stubProjects) SoftDelete(ctx context.Context, projectID, actorID int64) (*services.ProjectResponse, error) {
	panic("not used in fanout")
}

// stubParticipations serves one fixed roster.
type stubParticipations struct {
	roster *services.ParticipantList
}

func (s *stubParticipations) Add(ctx context.Context, actorID int64, req *services.NewParticipationRequest) (*services.ParticipationResponse, error) {
	panic("not used in fanout")
}

func (s *stubParticipations) GetParticipants(ctx context.Context, actorID, projectID int64) (*services.ParticipantList, error) {
	if s.roster == nil {
		return nil, &domain.NotFoundError{Message: "no roster"}
	}
	return s.roster, nil
}

func (s *stubParticipations) Delete(ctx context.Context, actorID int64, req *services.DeleteParticipationRequest) error {
	panic("not used in fanout")
}

// stubUsers serves one fixed profile.
type stubUsers struct {
	profile *services.UserResponse
}

func (s *stubUsers) GetByID(ctx context.Context, userID int64) (*services.UserResponse, error) {
	if s.profile == nil {
		return nil, &domain.NotFoundError{Message: "user not found"}
	}
	return s.profile, nil
}

func (s *stubUsers) Find(ctx context.Context, actorID int64, req *services.FindUsersRequest) ([]services.UserResponse, error) {
	panic("not used in fanout")
}

func (s *stubUsers) Update(ctx context.Context, actorID int64, req *services.UpdateUserRequest) (*services.UserResponse, error) {
	panic("not used in fanout")
}

func rosterOf(projectID int64, userIDs ...int64) *services.ParticipantList {
	roster := &services.ParticipantList{ProjectID: projectID}
	for _, id := range userIDs {
		roster.Participants = append(roster.Participants, services.Participant{
			User: services.UserResponse{ID: id},
		})
	}
	return roster
}

func newTestFanout(projects *stubProjects, participations *stubParticipations, users *stubUsers) (*Fanout, *Hub) {
	hub := NewHub(testLogger())
	return NewFanout(hub, projects, participations, users, testLogger()), hub
}

func TestFanoutParticipantAdded(t *testing.T) {
	// User 1 owns project 7 and just added user 2 as a developer
	projects := &stubProjects{
		listsByUser: map[int64][]services.ProjectResponse{
			1: {{ID: 7}},
			2: {{ID: 7}},
		},
	}
	participations := &stubParticipations{roster: rosterOf(7, 1, 2)}
	fanout, hub := newTestFanout(projects, participations, &stubUsers{})

	viewer := &fakeSender{}
	owner := &fakeSender{}
	added := &fakeSender{}
	unrelated := &fakeSender{}

	viewerConn := hub.Connect(viewer)
	hub.RegisterViewProject(viewerConn, 7)
	hub.Login(hub.Connect(owner), 1)
	hub.Login(hub.Connect(added), 2)
	hub.Login(hub.Connect(unrelated), 3)

	fanout.ParticipantAdded(context.Background(), 1, 7)
	fanout.Wait()

	// Exactly one roster event on the project channel
	require.Equal(t, []string{EventProjectParticipantsChanged}, viewer.received())

	// Every participant gets a refreshed project list on their own channel
	require.Equal(t, []string{EventProjectsListChanged}, owner.received())
	require.Equal(t, []string{EventProjectsListChanged}, added.received())

	// Nobody outside the touched channels hears anything
	require.Empty(t, unrelated.received())
}

func TestFanoutParticipantRemovedRefreshesRemovedUser(t *testing.T) {
	// User 2 was just removed from project 7; the roster now only holds
	// user 1, but user 2 still needs to see the project vanish
	projects := &stubProjects{
		listsByUser: map[int64][]services.ProjectResponse{
			1: {{ID: 7}},
			2: {},
		},
	}
	participations := &stubParticipations{roster: rosterOf(7, 1)}
	fanout, hub := newTestFanout(projects, participations, &stubUsers{})

	removed := &fakeSender{}
	hub.Login(hub.Connect(removed), 2)

	fanout.ParticipantRemoved(context.Background(), 1, 7, 2)
	fanout.Wait()

	require.Equal(t, []string{EventProjectsListChanged}, removed.received())
}

func TestFanoutProjectDetailChanged(t *testing.T) {
	projects := &stubProjects{detail: &services.ProjectResponse{ID: 7, Name: "renamed"}}
	fanout, hub := newTestFanout(projects, &stubParticipations{}, &stubUsers{})

	viewer := &fakeSender{}
	viewerConn := hub.Connect(viewer)
	hub.RegisterViewProject(viewerConn, 7)

	fanout.ProjectDetailChanged(context.Background(), 1, 7)
	fanout.Wait()

	require.Equal(t, []string{EventProjectDetailChanged}, viewer.received())
}

func TestFanoutProjectChangedAfterDelete(t *testing.T) {
	// Detail refresh comes back not-found after a soft delete; list
	// refreshes still go out to every remaining participant
	projects := &stubProjects{
		listsByUser: map[int64][]services.ProjectResponse{1: {}},
	}
	participations := &stubParticipations{roster: rosterOf(7, 1)}
	fanout, hub := newTestFanout(projects, participations, &stubUsers{})

	viewer := &fakeSender{}
	participant := &fakeSender{}
	hub.RegisterViewProject(hub.Connect(viewer), 7)
	hub.Login(hub.Connect(participant), 1)

	fanout.ProjectChanged(context.Background(), 1, 7)
	fanout.Wait()

	require.Empty(t, viewer.received())
	require.Equal(t, []string{EventProjectsListChanged}, participant.received())
}

func TestFanoutProfileChanged(t *testing.T) {
	users := &stubUsers{profile: &services.UserResponse{ID: 1, FirstName: "Ada"}}
	fanout, hub := newTestFanout(&stubProjects{}, &stubParticipations{}, users)

	self := &fakeSender{}
	other := &fakeSender{}
	hub.Login(hub.Connect(self), 1)
	hub.Login(hub.Connect(other), 2)

	fanout.ProfileChanged(context.Background(), 1)
	fanout.Wait()

	require.Equal(t, []string{EventProfileInfoChanged}, self.received())
	require.Empty(t, other.received())
}

func TestFanoutDetachesFromCancelledRequestContext(t *testing.T) {
	users := &stubUsers{profile: &services.UserResponse{ID: 1}}
	fanout, hub := newTestFanout(&stubProjects{}, &stubParticipations{}, users)

	self := &fakeSender{}
	hub.Login(hub.Connect(self), 1)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	// A request context cancelled right after commit must not suppress
	// the broadcast
	fanout.ProfileChanged(ctx, 1)
	fanout.Wait()

	require.Equal(t, []string{EventProfileInfoChanged}, self.received())
}
