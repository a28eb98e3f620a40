package service

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/dailydiet/dailydiet-go/internal/model"
	"github.com/dailydiet/dailydiet-go/internal/repository"
)

type memUserStore struct {
	mu        sync.Mutex
	bySession map[string]model.User
	createErr error
}

func newMemUserStore() *memUserStore {
	return &memUserStore{bySession: make(map[string]model.User)}
}

func (s *memUserStore) GetBySessionID(_ context.Context, sessionID string) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.bySession[sessionID]
	if !ok {
		return nil, repository.ErrUserNotFound
	}
	return &u, nil
}

func (s *memUserStore) Create(_ context.Context, user *model.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.createErr != nil {
		return s.createErr
	}
	if _, ok := s.bySession[user.SessionID]; ok {
		return repository.ErrDuplicateSession
	}
	user.CreatedAt = time.Now().UTC()
	s.bySession[user.SessionID] = *user
	return nil
}

type memMealStore struct {
	mu    sync.Mutex
	meals map[string]model.Meal
	clock time.Time
}

func newMemMealStore() *memMealStore {
	return &memMealStore{
		meals: make(map[string]model.Meal),
		clock: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

// tick returns strictly increasing timestamps so ordering is deterministic.
func (s *memMealStore) tick() time.Time {
	s.clock = s.clock.Add(time.Minute)
	return s.clock
}

func (s *memMealStore) ListBySessionID(_ context.Context, sessionID string) ([]model.Meal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := []model.Meal{}
	for _, m := range s.meals {
		if m.SessionID == sessionID {
			out = append(out, m)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (s *memMealStore) GetByID(_ context.Context, mealID string) (*model.Meal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	m, ok := s.meals[mealID]
	if !ok {
		return nil, repository.ErrMealNotFound
	}
	return &m, nil
}

func (s *memMealStore) Create(_ context.Context, meal *model.Meal) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if meal.CreatedAt.IsZero() {
		meal.CreatedAt = s.tick()
	}
	s.meals[meal.MealID] = *meal
	return nil
}

func (s *memMealStore) UpdateByID(_ context.Context, mealID string, fields model.MealFields) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	m, ok := s.meals[mealID]
	if !ok {
		return repository.ErrMealNotFound
	}
	m.Name = fields.Name
	m.Description = fields.Description
	m.IsInDiet = fields.IsInDiet
	m.CreatedAt = s.tick()
	s.meals[mealID] = m
	return nil
}

func (s *memMealStore) DeleteByID(_ context.Context, mealID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.meals[mealID]; !ok {
		return repository.ErrMealNotFound
	}
	delete(s.meals, mealID)
	return nil
}

type countingRecorder struct {
	users        int
	mealsInDiet  int
	mealsOutDiet int
}

func (r *countingRecorder) UserCreated() { r.users++ }

func (r *countingRecorder) MealCreated(inDiet bool) {
	if inDiet {
		r.mealsInDiet++
		return
	}
	r.mealsOutDiet++
}

func ptr[T any](v T) *T { return &v }
