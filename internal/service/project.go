package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/samber/lo"

	"taskboard/internal/domain"
	"taskboard/internal/domain/models"
	"taskboard/internal/domain/repositories"
	"taskboard/internal/domain/services"
	"taskboard/internal/roles"
)

// maxParentDepth bounds parent-chain expansion. Acyclicity is only enforced
// at the single-parent-assignment boundary, so a cycle built across two
// updates would otherwise loop forever here.
const maxParentDepth = 32

// projectService implements the ProjectService interface
type projectService struct {
	projectRepo       repositories.ProjectRepository
	participationRepo repositories.ParticipationRepository
	userRepo          repositories.UserRepository
	txManager         repositories.TransactionManager
	catalog           *roles.Registry
	logger            *slog.Logger
}

// NewProjectService creates a new project service
func NewProjectService(
	projectRepo repositories.ProjectRepository,
	participationRepo repositories.ParticipationRepository,
	userRepo repositories.UserRepository,
	txManager repositories.TransactionManager,
	catalog *roles.Registry,
	logger *slog.Logger,
) services.ProjectService {
	return &projectService{
		projectRepo:       projectRepo,
		participationRepo: participationRepo,
		userRepo:          userRepo,
		txManager:         txManager,
		catalog:           catalog,
		logger:            logger,
	}
}

// Create creates a project and grants the creator the Owner role in the
// same transaction, so there is no window where the project has no owner.
func (s *projectService) Create(ctx context.Context, actorID int64, req *services.NewProjectRequest) (*services.ProjectResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, &domain.ValidationError{Message: fmt.Sprintf("invalid project: %v", err)}
	}

	project := &models.Project{
		Name:        strings.TrimSpace(req.Name),
		Description: req.Description,
		ParentID:    req.ParentID,
		CreatedBy:   actorID,
		UpdatedBy:   actorID,
		CreatedAt:   time.Now().UTC(),
		UpdatedAt:   time.Now().UTC(),
	}

	err := s.txManager.ExecTx(ctx, func(ctx context.Context) error {
		if _, err := s.userRepo.GetByID(ctx, actorID); err != nil {
			return err
		}

		if req.ParentID != nil {
			if _, err := s.projectRepo.GetByID(ctx, *req.ParentID); err != nil {
				return err
			}
		}

		if err := s.projectRepo.Create(ctx, project); err != nil {
			return err
		}

		edge := &models.Participation{
			UserID:    actorID,
			ProjectID: project.ID,
			RoleID:    models.RoleOwner,
		}
		return s.participationRepo.Create(ctx, edge)
	})
	if err != nil {
		s.logger.Error("create project failed", "user_id", actorID, "error", err)
		return nil, err
	}

	s.logger.Info("project created",
		"id", project.ID,
		"name", project.Name,
		"user_id", actorID,
	)

	return s.buildResponse(ctx, project, []models.ProjectRole{models.RoleOwner}), nil
}

// GetAll retrieves the user's non-deleted projects, each annotated with the
// full set of the user's roles on it and a summarized parent chain.
func (s *projectService) GetAll(ctx context.Context, userID int64) ([]services.ProjectResponse, error) {
	if _, err := s.userRepo.GetByID(ctx, userID); err != nil {
		return nil, err
	}

	edges, err := s.participationRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	projects, err := s.projectRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	byProject := lo.GroupBy(edges, func(e models.Participation) int64 { return e.ProjectID })

	result := make([]services.ProjectResponse, 0, len(projects))
	for i := range projects {
		p := projects[i]
		result = append(result, *s.buildResponse(ctx, &p, services.RoleIDs(byProject[p.ID])))
	}
	return result, nil
}

// GetOne retrieves a single project the user participates in.
func (s *projectService) GetOne(ctx context.Context, userID, projectID int64) (*services.ProjectResponse, error) {
	if _, err := s.userRepo.GetByID(ctx, userID); err != nil {
		return nil, err
	}

	edges, err := s.participationRepo.ListByUserProject(ctx, userID, projectID)
	if err != nil {
		return nil, err
	}
	if len(edges) == 0 {
		return nil, &domain.NotFoundError{Message: "cannot find any project you participate in with the provided id"}
	}

	project, err := s.projectRepo.GetByID(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if project.Deleted {
		return nil, &domain.NotFoundError{Message: fmt.Sprintf("project %d not found", projectID)}
	}

	return s.buildResponse(ctx, project, services.RoleIDs(edges)), nil
}

// Update applies field changes inside one transaction. Fields are touched
// only when they actually differ, so an effectively empty update does not
// churn the audit timestamp.
func (s *projectService) Update(ctx context.Context, projectID, actorID int64, req *services.UpdateProjectRequest) (*services.ProjectResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, &domain.ValidationError{Message: fmt.Sprintf("invalid project update: %v", err)}
	}

	var (
		project *models.Project
		edges   []models.Participation
	)

	err := s.txManager.ExecTx(ctx, func(ctx context.Context) error {
		if _, err := s.userRepo.GetByID(ctx, actorID); err != nil {
			return err
		}

		var err error
		project, err = s.projectRepo.GetByID(ctx, projectID)
		if err != nil {
			return err
		}

		edges, err = s.participationRepo.ListByUserProject(ctx, actorID, projectID)
		if err != nil {
			return err
		}
		if len(edges) == 0 {
			return &domain.ForbiddenError{Message: "you do not participate in this project"}
		}

		updated := false

		// Parent reassignment wins over parent removal when both arrive.
		if req.ParentID != nil {
			parent, err := s.projectRepo.GetByID(ctx, *req.ParentID)
			if err != nil {
				return err
			}
			if parent.ID == project.ID {
				return &domain.ValidationError{Message: "cannot set a project to be its own parent"}
			}
			if project.ParentID == nil || *project.ParentID != parent.ID {
				project.ParentID = &parent.ID
				updated = true
			}
		} else if req.MakeParentless != nil && *req.MakeParentless && project.ParentID != nil {
			project.ParentID = nil
			updated = true
		}

		if req.Name != nil && *req.Name != "" && *req.Name != project.Name {
			project.Name = strings.TrimSpace(*req.Name)
			updated = true
		}
		if req.Description != nil && *req.Description != project.Description {
			project.Description = *req.Description
			updated = true
		}

		if updated {
			project.UpdatedBy = actorID
			project.UpdatedAt = time.Now().UTC()
			return s.projectRepo.Update(ctx, project)
		}
		return nil
	})
	if err != nil {
		s.logger.Error("update project failed", "project_id", projectID, "user_id", actorID, "error", err)
		return nil, err
	}

	return s.buildResponse(ctx, project, services.RoleIDs(edges)), nil
}

// SoftDelete flips the deleted flag under the same authorization check as
// an update. The row stays in the store.
func (s *projectService) SoftDelete(ctx context.Context, projectID, actorID int64) (*services.ProjectResponse, error) {
	var (
		project *models.Project
		edges   []models.Participation
	)

	err := s.txManager.ExecTx(ctx, func(ctx context.Context) error {
		if _, err := s.userRepo.GetByID(ctx, actorID); err != nil {
			return err
		}

		var err error
		project, err = s.projectRepo.GetByID(ctx, projectID)
		if err != nil {
			return err
		}

		edges, err = s.participationRepo.ListByUserProject(ctx, actorID, projectID)
		if err != nil {
			return err
		}
		if len(edges) == 0 {
			return &domain.ForbiddenError{Message: "you do not participate in this project"}
		}

		if project.Deleted {
			return nil
		}

		project.Deleted = true
		project.UpdatedBy = actorID
		project.UpdatedAt = time.Now().UTC()
		return s.projectRepo.Update(ctx, project)
	})
	if err != nil {
		s.logger.Error("delete project failed", "project_id", projectID, "user_id", actorID, "error", err)
		return nil, err
	}

	s.logger.Info("project deleted", "id", projectID, "user_id", actorID)

	return s.buildResponse(ctx, project, services.RoleIDs(edges)), nil
}

// buildResponse annotates a project with the requester's role set and the
// summarized parent chain. Parents carry no role annotation.
func (s *projectService) buildResponse(ctx context.Context, p *models.Project, roleIDs []models.ProjectRole) *services.ProjectResponse {
	resp := &services.ProjectResponse{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Deleted:     p.Deleted,
		CreatedBy:   p.CreatedBy,
		UpdatedBy:   p.UpdatedBy,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
		Roles:       s.catalog.Roles(lo.Uniq(roleIDs)),
	}
	resp.Parent = s.expandParent(ctx, p.ParentID, 0)
	return resp
}

// expandParent loads the parent chain recursively. Resolution failures are
// tolerated: the chain is a courtesy summary, not part of the contract.
func (s *projectService) expandParent(ctx context.Context, parentID *int64, depth int) *services.ProjectResponse {
	if parentID == nil || depth >= maxParentDepth {
		return nil
	}

	parent, err := s.projectRepo.GetByID(ctx, *parentID)
	if err != nil {
		s.logger.Warn("resolve parent project failed", "parent_id", *parentID, "error", err)
		return nil
	}

	return &services.ProjectResponse{
		ID:          parent.ID,
		Name:        parent.Name,
		Description: parent.Description,
		Deleted:     parent.Deleted,
		CreatedBy:   parent.CreatedBy,
		UpdatedBy:   parent.UpdatedBy,
		CreatedAt:   parent.CreatedAt,
		UpdatedAt:   parent.UpdatedAt,
		Parent:      s.expandParent(ctx, parent.ParentID, depth+1),
	}
}
