package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"taskboard/internal/domain"
	"taskboard/internal/domain/models"
	"taskboard/internal/domain/repositories"
	"taskboard/internal/domain/services"
)

// userService implements the UserService interface
type userService struct {
	userRepo  repositories.UserRepository
	txManager repositories.TransactionManager
	logger    *slog.Logger
}

// NewUserService creates a new user service
func NewUserService(
	userRepo repositories.UserRepository,
	txManager repositories.TransactionManager,
	logger *slog.Logger,
) services.UserService {
	return &userService{
		userRepo:  userRepo,
		txManager: txManager,
		logger:    logger,
	}
}

// GetByID retrieves one user's profile.
func (s *userService) GetByID(ctx context.Context, userID int64) (*services.UserResponse, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	resp := services.NewUserResponse(user)
	return &resp, nil
}

// Find searches users by profile fields. The acting user must exist; the
// search itself is not restricted beyond that.
func (s *userService) Find(ctx context.Context, actorID int64, req *services.FindUsersRequest) ([]services.UserResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, &domain.ValidationError{Message: fmt.Sprintf("invalid user search: %v", err)}
	}

	if _, err := s.userRepo.GetByID(ctx, actorID); err != nil {
		return nil, err
	}

	users, err := s.userRepo.Find(ctx, repositories.UserFilter{
		Email:     req.Email,
		FirstName: req.FirstName,
		LastName:  req.LastName,
	})
	if err != nil {
		return nil, err
	}

	result := make([]services.UserResponse, 0, len(users))
	for i := range users {
		result = append(result, services.NewUserResponse(&users[i]))
	}
	return result, nil
}

// Update applies profile changes for the acting user, touching fields only
// when they actually differ.
func (s *userService) Update(ctx context.Context, actorID int64, req *services.UpdateUserRequest) (*services.UserResponse, error) {
	var user *models.User

	err := s.txManager.ExecTx(ctx, func(ctx context.Context) error {
		var err error
		user, err = s.userRepo.GetByID(ctx, actorID)
		if err != nil {
			return err
		}

		updated := false
		setString := func(dst *string, src *string) {
			if src != nil && *src != *dst {
				*dst = *src
				updated = true
			}
		}

		setString(&user.FirstName, req.FirstName)
		setString(&user.MidName, req.MidName)
		setString(&user.LastName, req.LastName)
		setString(&user.AvatarURL, req.AvatarURL)
		setString(&user.Address, req.Address)
		setString(&user.Gender, req.Gender)

		if req.DateOfBirth != nil && (user.DateOfBirth == nil || !user.DateOfBirth.Equal(*req.DateOfBirth)) {
			user.DateOfBirth = req.DateOfBirth
			updated = true
		}

		if updated {
			user.UpdatedAt = time.Now().UTC()
			return s.userRepo.Update(ctx, user)
		}
		return nil
	})
	if err != nil {
		s.logger.Error("update profile failed", "user_id", actorID, "error", err)
		return nil, err
	}

	s.logger.Info("profile updated", "user_id", actorID)

	resp := services.NewUserResponse(user)
	return &resp, nil
}
