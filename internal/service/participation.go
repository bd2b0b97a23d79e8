package service

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"github.com/samber/lo"

	"taskboard/internal/domain"
	"taskboard/internal/domain/models"
	"taskboard/internal/domain/repositories"
	"taskboard/internal/domain/services"
	"taskboard/internal/roles"
)

// participationService implements the ParticipationService interface
type participationService struct {
	participationRepo repositories.ParticipationRepository
	projectRepo       repositories.ProjectRepository
	userRepo          repositories.UserRepository
	txManager         repositories.TransactionManager
	catalog           *roles.Registry
	logger            *slog.Logger
}

// NewParticipationService creates a new participation service
func NewParticipationService(
	participationRepo repositories.ParticipationRepository,
	projectRepo repositories.ProjectRepository,
	userRepo repositories.UserRepository,
	txManager repositories.TransactionManager,
	catalog *roles.Registry,
	logger *slog.Logger,
) services.ParticipationService {
	return &participationService{
		participationRepo: participationRepo,
		projectRepo:       projectRepo,
		userRepo:          userRepo,
		txManager:         txManager,
		catalog:           catalog,
		logger:            logger,
	}
}

// canManage reports whether the edges grant participant management rights.
func canManage(edges []models.Participation) bool {
	return lo.ContainsBy(edges, func(e models.Participation) bool {
		return e.RoleID == models.RoleOwner || e.RoleID == models.RolePM
	})
}

// Add grants one role to a user on a project. The same user may hold
// several different roles on one project; granting a role they already
// hold is a conflict.
func (s *participationService) Add(ctx context.Context, actorID int64, req *services.NewParticipationRequest) (*services.ParticipationResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, &domain.ValidationError{Message: fmt.Sprintf("invalid participation: %v", err)}
	}

	err := s.txManager.ExecTx(ctx, func(ctx context.Context) error {
		if _, err := s.userRepo.GetByID(ctx, actorID); err != nil {
			return err
		}
		if _, err := s.userRepo.GetByID(ctx, req.UserID); err != nil {
			return err
		}

		project, err := s.projectRepo.GetByID(ctx, req.ProjectID)
		if err != nil {
			return err
		}
		if project.Deleted {
			return &domain.NotFoundError{Message: fmt.Sprintf("project %d not found", req.ProjectID)}
		}

		actorEdges, err := s.participationRepo.ListByUserProject(ctx, actorID, req.ProjectID)
		if err != nil {
			return err
		}
		if !canManage(actorEdges) {
			return &domain.ForbiddenError{Message: "only an Owner or PM may manage participants"}
		}

		existing, err := s.participationRepo.ListByUserProject(ctx, req.UserID, req.ProjectID)
		if err != nil {
			return err
		}
		held := lo.ContainsBy(existing, func(e models.Participation) bool {
			return e.RoleID == req.Role
		})
		if held {
			return &domain.ConflictError{
				Message:      fmt.Sprintf("user %d already holds role %s on project %d", req.UserID, req.Role, req.ProjectID),
				ResourceType: "participation",
			}
		}

		return s.participationRepo.Create(ctx, &models.Participation{
			UserID:    req.UserID,
			ProjectID: req.ProjectID,
			RoleID:    req.Role,
		})
	})
	if err != nil {
		s.logger.Error("add participation failed",
			"actor_id", actorID, "user_id", req.UserID, "project_id", req.ProjectID, "error", err)
		return nil, err
	}

	s.logger.Info("participation added",
		"actor_id", actorID,
		"user_id", req.UserID,
		"project_id", req.ProjectID,
		"role", req.Role.String(),
	)

	return &services.ParticipationResponse{
		ProjectID: req.ProjectID,
		UserID:    req.UserID,
		Role:      s.catalog.Role(req.Role),
	}, nil
}

// GetParticipants retrieves the full current roster of a project, each
// participant annotated with every role they hold.
func (s *participationService) GetParticipants(ctx context.Context, actorID, projectID int64) (*services.ParticipantList, error) {
	if _, err := s.userRepo.GetByID(ctx, actorID); err != nil {
		return nil, err
	}

	actorEdges, err := s.participationRepo.ListByUserProject(ctx, actorID, projectID)
	if err != nil {
		return nil, err
	}
	if len(actorEdges) == 0 {
		return nil, &domain.NotFoundError{Message: "cannot find any project you participate in with the provided id"}
	}

	edges, err := s.participationRepo.ListByProject(ctx, projectID)
	if err != nil {
		return nil, err
	}

	byUser := lo.GroupBy(edges, func(e models.Participation) int64 { return e.UserID })
	userIDs := lo.Keys(byUser)
	sort.Slice(userIDs, func(i, j int) bool { return userIDs[i] < userIDs[j] })

	participants := make([]services.Participant, 0, len(userIDs))
	for _, uid := range userIDs {
		user, err := s.userRepo.GetByID(ctx, uid)
		if err != nil {
			return nil, err
		}
		participants = append(participants, services.Participant{
			User:  services.NewUserResponse(user),
			Roles: s.catalog.Roles(services.RoleIDs(byUser[uid])),
		})
	}

	return &services.ParticipantList{
		ProjectID:    projectID,
		Participants: participants,
	}, nil
}

// Delete revokes one role, or all roles when none is named, of a user on a
// project. A project that is still alive must keep at least one Owner.
func (s *participationService) Delete(ctx context.Context, actorID int64, req *services.DeleteParticipationRequest) error {
	if err := req.Validate(); err != nil {
		return &domain.ValidationError{Message: fmt.Sprintf("invalid participation delete: %v", err)}
	}

	err := s.txManager.ExecTx(ctx, func(ctx context.Context) error {
		if _, err := s.userRepo.GetByID(ctx, actorID); err != nil {
			return err
		}

		project, err := s.projectRepo.GetByID(ctx, req.ProjectID)
		if err != nil {
			return err
		}

		actorEdges, err := s.participationRepo.ListByUserProject(ctx, actorID, req.ProjectID)
		if err != nil {
			return err
		}
		// Leaving a project yourself needs no management role.
		if actorID != req.UserID && !canManage(actorEdges) {
			return &domain.ForbiddenError{Message: "only an Owner or PM may manage participants"}
		}

		targetEdges, err := s.participationRepo.ListByUserProject(ctx, req.UserID, req.ProjectID)
		if err != nil {
			return err
		}
		if len(targetEdges) == 0 {
			return &domain.NotFoundError{Message: "no participation found for the provided user and project"}
		}

		removesOwner := false
		if req.Role != nil {
			held := lo.ContainsBy(targetEdges, func(e models.Participation) bool {
				return e.RoleID == *req.Role
			})
			if !held {
				return &domain.NotFoundError{Message: "no participation found for the provided role"}
			}
			removesOwner = *req.Role == models.RoleOwner
		} else {
			removesOwner = lo.ContainsBy(targetEdges, func(e models.Participation) bool {
				return e.RoleID == models.RoleOwner
			})
		}

		// Ownership continuity: the last Owner may only be dropped when the
		// project itself is already deleted.
		if removesOwner && !project.Deleted {
			owners, err := s.participationRepo.CountByProjectRole(ctx, req.ProjectID, models.RoleOwner)
			if err != nil {
				return err
			}
			if owners <= 1 {
				return &domain.ConflictError{
					Message:      fmt.Sprintf("project %d would be left without an owner", req.ProjectID),
					ResourceType: "participation",
				}
			}
		}

		var removed int64
		if req.Role != nil {
			removed, err = s.participationRepo.Delete(ctx, req.UserID, req.ProjectID, *req.Role)
		} else {
			removed, err = s.participationRepo.DeleteAll(ctx, req.UserID, req.ProjectID)
		}
		if err != nil {
			return err
		}
		if removed == 0 {
			return &domain.NotFoundError{Message: "no participation found for the provided user and project"}
		}
		return nil
	})
	if err != nil {
		s.logger.Error("delete participation failed",
			"actor_id", actorID, "user_id", req.UserID, "project_id", req.ProjectID, "error", err)
		return err
	}

	s.logger.Info("participation removed",
		"actor_id", actorID,
		"user_id", req.UserID,
		"project_id", req.ProjectID,
	)

	return nil
}
