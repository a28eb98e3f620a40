package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/dailydiet/dailydiet-go/internal/middleware"
	"github.com/dailydiet/dailydiet-go/internal/model"
	"github.com/dailydiet/dailydiet-go/internal/repository"
	"github.com/dailydiet/dailydiet-go/internal/service"
)

// memStore implements both service.UserStore and service.MealStore in memory.
type memStore struct {
	mu    sync.Mutex
	users map[string]model.User
	meals map[string]model.Meal
	clock time.Time
}

func newMemStore() *memStore {
	return &memStore{
		users: make(map[string]model.User),
		meals: make(map[string]model.Meal),
		clock: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

func (s *memStore) tick() time.Time {
	s.clock = s.clock.Add(time.Minute)
	return s.clock
}

type memUsers struct{ *memStore }

func (s memUsers) GetBySessionID(_ context.Context, sessionID string) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[sessionID]
	if !ok {
		return nil, repository.ErrUserNotFound
	}
	return &u, nil
}

func (s memUsers) Create(_ context.Context, user *model.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[user.SessionID]; ok {
		return repository.ErrDuplicateSession
	}
	user.CreatedAt = s.tick()
	s.users[user.SessionID] = *user
	return nil
}

type memMeals struct{ *memStore }

func (s memMeals) ListBySessionID(_ context.Context, sessionID string) ([]model.Meal, error) {
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

func (s memMeals) GetByID(_ context.Context, mealID string) (*model.Meal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, ok := s.meals[mealID]
	if !ok {
		return nil, repository.ErrMealNotFound
	}
	return &m, nil
}

func (s memMeals) Create(_ context.Context, meal *model.Meal) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	meal.CreatedAt = s.tick()
	s.meals[meal.MealID] = *meal
	return nil
}

func (s memMeals) UpdateByID(_ context.Context, mealID string, f model.MealFields) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, ok := s.meals[mealID]
	if !ok {
		return repository.ErrMealNotFound
	}
	m.Name, m.Description, m.IsInDiet, m.CreatedAt = f.Name, f.Description, f.IsInDiet, s.tick()
	s.meals[mealID] = m
	return nil
}

func (s memMeals) DeleteByID(_ context.Context, mealID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.meals[mealID]; !ok {
		return repository.ErrMealNotFound
	}
	delete(s.meals, mealID)
	return nil
}

// mealIDs returns the ids of meals owned by sessionID in creation order.
func (s *memStore) mealIDs(t *testing.T, sessionID string) []string {
	t.Helper()
	meals, err := memMeals{s}.ListBySessionID(context.Background(), sessionID)
	require.NoError(t, err)
	ids := make([]string, len(meals))
	for i, m := range meals {
		ids[i] = m.MealID
	}
	return ids
}

type testServer struct {
	handler http.Handler
	store   *memStore
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	store := newMemStore()
	users, meals := memUsers{store}, memMeals{store}

	h := NewRouter(RouterDeps{
		UserService: service.NewUserService(users, meals, nil),
		MealService: service.NewMealService(users, meals, nil),
		Logger:      slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
	return &testServer{handler: h, store: store}
}

// do sends a request, attaching the session cookie when session is non-empty.
func (s *testServer) do(t *testing.T, method, path, session string, body any) *http.Response {
	t.Helper()

	var r io.Reader
	if body != nil {
		if raw, ok := body.(string); ok {
			r = bytes.NewBufferString(raw)
		} else {
			b, err := json.Marshal(body)
			require.NoError(t, err)
			r = bytes.NewReader(b)
		}
	}

	req := httptest.NewRequest(method, path, r)
	req.Header.Set("Content-Type", "application/json")
	if session != "" {
		req.AddCookie(&http.Cookie{Name: middleware.SessionCookieName, Value: session})
	}
	w := httptest.NewRecorder()
	s.handler.ServeHTTP(w, req)
	return w.Result()
}

func decode(t *testing.T, resp *http.Response) map[string]any {
	t.Helper()
	defer resp.Body.Close()

	var out map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

func sessionCookie(resp *http.Response) string {
	for _, c := range resp.Cookies() {
		if c.Name == middleware.SessionCookieName {
			return c.Value
		}
	}
	return ""
}

// signUp creates a user without a prior cookie and returns the issued session.
func (s *testServer) signUp(t *testing.T, name string) string {
	t.Helper()
	resp := s.do(t, http.MethodPost, "/users", "", map[string]string{"name": name, "email": name + "@example.com"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	session := sessionCookie(resp)
	require.NotEmpty(t, session)
	return session
}

func (s *testServer) addMeal(t *testing.T, session, name string, inDiet bool) {
	t.Helper()
	resp := s.do(t, http.MethodPost, "/meals", session, map[string]any{
		"name": name, "description": name + " description", "isInDiet": inDiet,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
}
