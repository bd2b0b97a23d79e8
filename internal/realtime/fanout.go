package realtime

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"taskboard/internal/domain/services"
)

// refreshConcurrency caps parallel per-user view queries during a
// participant fanout.
const refreshConcurrency = 8

// Fanout turns committed mutations into channel broadcasts. Every notify
// method returns immediately and does its query + delivery work on a
// detached context, so a slow transport or recipient never extends the
// transactional path that triggered it.
type Fanout struct {
	hub            *Hub
	projects       services.ProjectService
	participations services.ParticipationService
	users          services.UserService
	logger         *slog.Logger
	timeout        time.Duration

	wg sync.WaitGroup
}

// NewFanout wires the broadcaster to the hub and the read side of the
// domain services.
func NewFanout(
	hub *Hub,
	projects services.ProjectService,
	participations services.ParticipationService,
	users services.UserService,
	logger *slog.Logger,
) *Fanout {
	return &Fanout{
		hub:            hub,
		projects:       projects,
		participations: participations,
		users:          users,
		logger:         logger,
		timeout:        15 * time.Second,
	}
}

// Wait blocks until every in-flight fanout finishes. Used on shutdown and
// in tests.
func (f *Fanout) Wait() {
	f.wg.Wait()
}

// dispatch runs fn on a context detached from the request's cancellation
// but bounded by the fanout timeout.
func (f *Fanout) dispatch(ctx context.Context, fn func(ctx context.Context)) {
	detached, cancel := context.WithTimeout(context.WithoutCancel(ctx), f.timeout)

	f.wg.Add(1)
	go func() {
		defer f.wg.Done()
		defer cancel()
		fn(detached)
	}()
}

// ParticipantAdded refreshes the project roster for everyone viewing the
// project and the project list of every current participant, whose own
// index view just changed too.
func (f *Fanout) ParticipantAdded(ctx context.Context, actorID, projectID int64) {
	f.dispatch(ctx, func(ctx context.Context) {
		f.participantsChanged(ctx, actorID, projectID)
	})
}

// ParticipantRemoved behaves like ParticipantAdded and additionally
// refreshes the removed user's project list: they are no longer in the
// roster, but their index view shrank.
func (f *Fanout) ParticipantRemoved(ctx context.Context, actorID, projectID, removedUserID int64) {
	f.dispatch(ctx, func(ctx context.Context) {
		f.participantsChanged(ctx, actorID, projectID)
		f.refreshProjectsList(ctx, removedUserID)
	})
}

// ProjectDetailChanged refreshes the detail view for everyone currently
// viewing the project. Used after task mutations and project info updates.
func (f *Fanout) ProjectDetailChanged(ctx context.Context, actorID, projectID int64) {
	f.dispatch(ctx, func(ctx context.Context) {
		detail, err := f.projects.GetOne(ctx, actorID, projectID)
		if err != nil {
			f.logger.Warn("fanout: refresh project detail failed",
				"project_id", projectID, "error", err)
			return
		}
		f.hub.Broadcast(ProjectChannel(projectID), EventProjectDetailChanged,
			ProjectDetailPayload{ProjectDetail: detail})
	})
}

// ProjectChanged refreshes the detail view for everyone viewing the
// project and the project list of every participant, whose index entry
// carries the changed name. After a soft delete the detail query comes
// back not-found and is skipped; the list refreshes still go out so the
// project drops off every index view.
func (f *Fanout) ProjectChanged(ctx context.Context, actorID, projectID int64) {
	f.dispatch(ctx, func(ctx context.Context) {
		if detail, err := f.projects.GetOne(ctx, actorID, projectID); err != nil {
			f.logger.Debug("fanout: project detail unavailable",
				"project_id", projectID, "error", err)
		} else {
			f.hub.Broadcast(ProjectChannel(projectID), EventProjectDetailChanged,
				ProjectDetailPayload{ProjectDetail: detail})
		}

		roster, err := f.participations.GetParticipants(ctx, actorID, projectID)
		if err != nil {
			f.logger.Warn("fanout: refresh participants failed",
				"project_id", projectID, "error", err)
			return
		}
		f.refreshParticipantLists(ctx, roster)
	})
}

// ProjectsListChanged refreshes one user's project list view.
func (f *Fanout) ProjectsListChanged(ctx context.Context, userID int64) {
	f.dispatch(ctx, func(ctx context.Context) {
		f.refreshProjectsList(ctx, userID)
	})
}

// ProfileChanged refreshes one user's profile view.
func (f *Fanout) ProfileChanged(ctx context.Context, userID int64) {
	f.dispatch(ctx, func(ctx context.Context) {
		profile, err := f.users.GetByID(ctx, userID)
		if err != nil {
			f.logger.Warn("fanout: refresh profile failed",
				"user_id", userID, "error", err)
			return
		}
		f.hub.Broadcast(UserChannel(userID), EventProfileInfoChanged,
			ProfilePayload{Profile: profile})
	})
}

// participantsChanged is the two-tier broadcast: one project-level roster
// event, then one projects-list event per current participant.
func (f *Fanout) participantsChanged(ctx context.Context, actorID, projectID int64) {
	roster, err := f.participations.GetParticipants(ctx, actorID, projectID)
	if err != nil {
		f.logger.Warn("fanout: refresh participants failed",
			"project_id", projectID, "error", err)
		return
	}

	f.hub.Broadcast(ProjectChannel(projectID), EventProjectParticipantsChanged,
		ParticipantsPayload{ParticipantList: roster})

	f.refreshParticipantLists(ctx, roster)
}

// refreshParticipantLists pushes a fresh project list to every user in the
// roster, a bounded number at a time.
func (f *Fanout) refreshParticipantLists(ctx context.Context, roster *services.ParticipantList) {
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(refreshConcurrency)
	for _, participant := range roster.Participants {
		userID := participant.User.ID
		g.Go(func() error {
			f.refreshProjectsList(ctx, userID)
			return nil
		})
	}
	_ = g.Wait()
}

// refreshProjectsList queries and pushes one user's full project list.
// A user with no remaining participations still gets an empty list.
func (f *Fanout) refreshProjectsList(ctx context.Context, userID int64) {
	list, err := f.projects.GetAll(ctx, userID)
	if err != nil {
		f.logger.Warn("fanout: refresh projects list failed",
			"user_id", userID, "error", err)
		return
	}
	f.hub.Broadcast(UserChannel(userID), EventProjectsListChanged,
		ProjectsListPayload{Projects: list})
}
