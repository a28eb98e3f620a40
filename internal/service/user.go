package service

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/dailydiet/dailydiet-go/internal/diet"
	"github.com/dailydiet/dailydiet-go/internal/model"
	"github.com/dailydiet/dailydiet-go/internal/repository"
)

var (
	ErrNameRequired     = errors.New("name is required")
	ErrEmailRequired    = errors.New("email is required")
	ErrSessionRequired  = errors.New("session is required")
	ErrDuplicateSession = errors.New("a user with the same session_id already exists")
	ErrUserNotFound     = errors.New("user not found")
)

// UserService handles user business logic.
type UserService struct {
	users    UserStore
	meals    MealStore
	recorder Recorder
}

// NewUserService creates a new UserService. rec may be nil.
func NewUserService(users UserStore, meals MealStore, rec Recorder) *UserService {
	return &UserService{
		users:    users,
		meals:    meals,
		recorder: recorderOrNop(rec),
	}
}

// ValidateUser checks that every required field of req is present.
func ValidateUser(req model.CreateUserRequest) error {
	if req.Name == nil {
		return ErrNameRequired
	}
	if req.Email == nil {
		return ErrEmailRequired
	}
	return nil
}

// Create binds a new user to sessionID.
func (s *UserService) Create(ctx context.Context, sessionID string, req model.CreateUserRequest) (model.CreateUserResponse, error) {
	if err := ValidateUser(req); err != nil {
		return model.CreateUserResponse{}, err
	}
	if sessionID == "" {
		return model.CreateUserResponse{}, ErrSessionRequired
	}

	_, err := s.users.GetBySessionID(ctx, sessionID)
	switch {
	case err == nil:
		return model.CreateUserResponse{}, ErrDuplicateSession
	case !errors.Is(err, repository.ErrUserNotFound):
		return model.CreateUserResponse{}, err
	}

	user := &model.User{
		UserID:    uuid.NewString(),
		Name:      *req.Name,
		Email:     *req.Email,
		SessionID: sessionID,
	}

	// The check above and this insert are not atomic; a concurrent request for
	// the same session is caught by the unique index instead.
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicateSession) {
			return model.CreateUserResponse{}, ErrDuplicateSession
		}
		return model.CreateUserResponse{}, err
	}
	s.recorder.UserCreated()

	return model.CreateUserResponse{
		SessionID: sessionID,
		Name:      user.Name,
		Email:     user.Email,
	}, nil
}

// Profile returns the user bound to sessionID together with their diet metrics.
func (s *UserService) Profile(ctx context.Context, sessionID string) (model.ProfileResponse, error) {
	if sessionID == "" {
		return model.ProfileResponse{}, ErrUserNotFound
	}

	user, err := s.users.GetBySessionID(ctx, sessionID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return model.ProfileResponse{}, ErrUserNotFound
		}
		return model.ProfileResponse{}, err
	}

	meals, err := s.meals.ListBySessionID(ctx, sessionID)
	if err != nil {
		return model.ProfileResponse{}, err
	}

	return model.ProfileResponse{
		User:    *user,
		Metrics: diet.Summarize(meals),
	}, nil
}
