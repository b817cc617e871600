package service

import (
	"context"
	"errors"

	"shareit/internal/apperr"
	"shareit/internal/database"
	"shareit/internal/domain"
	"shareit/internal/models"

	"github.com/rs/zerolog"
)

type CreateUserRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// UpdateUserRequest carries a partial update. Nil fields keep the stored
// value.
type UpdateUserRequest struct {
	Name  *string `json:"name,omitempty"`
	Email *string `json:"email,omitempty"`
}

type UserService struct {
	store  domain.Store
	logger *zerolog.Logger
}

func NewUserService(store domain.Store, logger *zerolog.Logger) *UserService {
	return &UserService{store: store, logger: logger}
}

func (s *UserService) Create(ctx context.Context, req CreateUserRequest) (*models.User, error) {
	user := &models.User{Name: req.Name, Email: req.Email}
	if err := s.store.CreateUser(ctx, user); err != nil {
		if errors.Is(err, database.ErrEmailTaken) {
			return nil, apperr.Conflict("email %s is already in use", req.Email)
		}
		return nil, err
	}

	s.logger.Info().Int64("user_id", user.ID).Msg("user created")
	return user, nil
}

func (s *UserService) Update(ctx context.Context, userID int64, req UpdateUserRequest) (*models.User, error) {
	user, err := s.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		user.Name = *req.Name
	}
	if req.Email != nil {
		user.Email = *req.Email
	}
	if err := s.store.UpdateUser(ctx, user); err != nil {
		if errors.Is(err, database.ErrEmailTaken) {
			return nil, apperr.Conflict("email %s is already in use", user.Email)
		}
		if errors.Is(err, database.ErrNotFound) {
			return nil, apperr.NotFound("user with id = %d not found", userID)
		}
		return nil, err
	}
	return user, nil
}

func (s *UserService) FindByID(ctx context.Context, userID int64) (*models.User, error) {
	user, err := s.store.GetUser(ctx, userID)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, apperr.NotFound("user with id = %d not found", userID)
		}
		return nil, err
	}
	return user, nil
}

func (s *UserService) FindAll(ctx context.Context) ([]models.User, error) {
	users, err := s.store.AllUsers(ctx)
	if err != nil {
		return nil, err
	}
	if users == nil {
		users = []models.User{}
	}
	return users, nil
}

func (s *UserService) Delete(ctx context.Context, userID int64) error {
	err := s.store.DeleteUser(ctx, userID)
	if errors.Is(err, database.ErrNotFound) {
		return apperr.NotFound("user with id = %d not found", userID)
	}
	return err
}
