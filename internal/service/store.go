package service

import (
	"context"

	"github.com/dailydiet/dailydiet-go/internal/model"
)

// UserFinder looks up the user bound to a session token.
type UserFinder interface {
	GetBySessionID(ctx context.Context, sessionID string) (*model.User, error)
}

// UserStore is the user persistence required by the services.
// It is implemented by repository.UserRepository.
type UserStore interface {
	UserFinder
	Create(ctx context.Context, user *model.User) error
}

// MealStore is the meal persistence required by the services.
// It is implemented by repository.MealRepository.
type MealStore interface {
	ListBySessionID(ctx context.Context, sessionID string) ([]model.Meal, error)
	GetByID(ctx context.Context, mealID string) (*model.Meal, error)
	Create(ctx context.Context, meal *model.Meal) error
	UpdateByID(ctx context.Context, mealID string, fields model.MealFields) error
	DeleteByID(ctx context.Context, mealID string) error
}

// Recorder receives domain events for instrumentation.
type Recorder interface {
	UserCreated()
	MealCreated(inDiet bool)
}

type nopRecorder struct{}

func (nopRecorder) UserCreated() {}
func (nopRecorder) MealCreated(bool) {}

func recorderOrNop(rec Recorder) Recorder {
	if rec == nil {
		return nopRecorder{}
	}
	return rec
}
