package service

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/dailydiet/dailydiet-go/internal/model"
	"github.com/dailydiet/dailydiet-go/internal/repository"
)

var (
	ErrDescriptionRequired = errors.New("description is required")
	ErrIsInDietRequired    = errors.New("isInDiet is required")
	ErrMealNotFound        = errors.New("meal not found")
)

// MealService handles meal business logic.
type MealService struct {
	users    UserFinder
	meals    MealStore
	recorder Recorder
}

// NewMealService creates a new MealService. rec may be nil.
func NewMealService(users UserFinder, meals MealStore, rec Recorder) *MealService {
	return &MealService{
		users:    users,
		meals:    meals,
		recorder: recorderOrNop(rec),
	}
}

// List returns every meal owned by sessionID, oldest first.
func (s *MealService) List(ctx context.Context, sessionID string) ([]model.Meal, error) {
	return s.meals.ListBySessionID(ctx, sessionID)
}

// Get returns a meal by id. The owner is not checked: any session holding a
// meal id can read it.
func (s *MealService) Get(ctx context.Context, mealID string) (*model.Meal, error) {
	meal, err := s.meals.GetByID(ctx, mealID)
	if err != nil {
		if errors.Is(err, repository.ErrMealNotFound) {
			return nil, ErrMealNotFound
		}
		return nil, err
	}
	return meal, nil
}

// Create records a new meal for the user bound to sessionID.
func (s *MealService) Create(ctx context.Context, sessionID string, req model.MealRequest) (model.MealResponse, error) {
	fields, err := validateMeal(req)
	if err != nil {
		return model.MealResponse{}, err
	}

	if err := s.requireUser(ctx, sessionID); err != nil {
		return model.MealResponse{}, err
	}

	meal := &model.Meal{
		MealID:      uuid.NewString(),
		Name:        fields.Name,
		Description: fields.Description,
		IsInDiet:    fields.IsInDiet,
		SessionID:   sessionID,
	}
	if err := s.meals.Create(ctx, meal); err != nil {
		return model.MealResponse{}, err
	}
	s.recorder.MealCreated(meal.IsInDiet)

	return model.MealResponse{
		Name:        meal.Name,
		Description: meal.Description,
		IsInDiet:    meal.IsInDiet,
	}, nil
}

// Update replaces the mutable fields of a meal owned by sessionID and
// refreshes its timestamp.
func (s *MealService) Update(ctx context.Context, sessionID, mealID string, req model.MealRequest) error {
	fields, err := validateMeal(req)
	if err != nil {
		return err
	}

	if err := s.requireUser(ctx, sessionID); err != nil {
		return err
	}
	if err := s.requireOwner(ctx, sessionID, mealID); err != nil {
		return err
	}

	if err := s.meals.UpdateByID(ctx, mealID, fields); err != nil {
		if errors.Is(err, repository.ErrMealNotFound) {
			return ErrMealNotFound
		}
		return err
	}
	return nil
}

// Delete removes a meal owned by sessionID.
func (s *MealService) Delete(ctx context.Context, sessionID, mealID string) error {
	if err := s.requireUser(ctx, sessionID); err != nil {
		return err
	}
	if err := s.requireOwner(ctx, sessionID, mealID); err != nil {
		return err
	}

	if err := s.meals.DeleteByID(ctx, mealID); err != nil {
		if errors.Is(err, repository.ErrMealNotFound) {
			return ErrMealNotFound
		}
		return err
	}
	return nil
}

func (s *MealService) requireUser(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return ErrUserNotFound
	}

	_, err := s.users.GetBySessionID(ctx, sessionID)
	if errors.Is(err, repository.ErrUserNotFound) {
		return ErrUserNotFound
	}
	return err
}

// requireOwner reports ErrMealNotFound both for missing meals and for meals
// owned by another session, so ids of other users' meals are not confirmed.
func (s *MealService) requireOwner(ctx context.Context, sessionID, mealID string) error {
	meal, err := s.Get(ctx, mealID)
	if err != nil {
		return err
	}
	if meal.SessionID != sessionID {
		return ErrMealNotFound
	}
	return nil
}

func validateMeal(req model.MealRequest) (model.MealFields, error) {
	if req.Name == nil {
		return model.MealFields{}, ErrNameRequired
	}
	if req.Description == nil {
		return model.MealFields{}, ErrDescriptionRequired
	}
	if req.IsInDiet == nil {
		return model.MealFields{}, ErrIsInDietRequired
	}

	return model.MealFields{
		Name:        *req.Name,
		Description: *req.Description,
		IsInDiet:    *req.IsInDiet,
	}, nil
}
