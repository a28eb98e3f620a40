package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dailydiet/dailydiet-go/internal/middleware"
	"github.com/dailydiet/dailydiet-go/internal/model"
	"github.com/dailydiet/dailydiet-go/internal/service"
)

const mealNotOwnedMessage = "Meal not found or does not belong to the user"

// MealServiceInterface is the meal logic the handler depends on.
type MealServiceInterface interface {
	List(ctx context.Context, sessionID string) ([]model.Meal, error)
	Get(ctx context.Context, mealID string) (*model.Meal, error)
	Create(ctx context.Context, sessionID string, req model.MealRequest) (model.MealResponse, error)
	Update(ctx context.Context, sessionID, mealID string, req model.MealRequest) error
	Delete(ctx context.Context, sessionID, mealID string) error
}

// MealHandler handles HTTP requests for meal operations.
type MealHandler struct {
	service MealServiceInterface
}

// NewMealHandler creates a new MealHandler.
func NewMealHandler(svc MealServiceInterface) *MealHandler {
	return &MealHandler{service: svc}
}

// HandleList handles GET /meals requests.
func (h *MealHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	sessionID, _ := middleware.SessionIDFromContext(r.Context())

	meals, err := h.service.List(r.Context(), sessionID)
	if err != nil {
		internalError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string][]model.Meal{"meals": meals})
}

// HandleGet handles GET /meals/{mealId} requests.
func (h *MealHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	meal, err := h.service.Get(r.Context(), chi.URLParam(r, "mealId"))
	if err != nil {
		if errors.Is(err, service.ErrMealNotFound) {
			writeJSON(w, http.StatusOK, errorResponse("Meal not found"))
			return
		}
		internalError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]*model.Meal{"meal": meal})
}

// HandleCreate handles POST /meals requests.
func (h *MealHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req model.MealRequest
	if !decodeBody(w, r, &req) {
		return
	}

	sessionID, _ := middleware.SessionIDFromContext(r.Context())

	resp, err := h.service.Create(r.Context(), sessionID, req)
	if err != nil {
		switch {
		case isMealValidationError(err):
			writeJSON(w, http.StatusBadRequest, errorResponse(err.Error()))
		case errors.Is(err, service.ErrUserNotFound):
			writeJSON(w, http.StatusNotFound, messageResponse("User not found."))
		default:
			internalError(w, r, err)
		}
		return
	}

	writeJSON(w, http.StatusCreated, resp)
}

// HandleUpdate handles PUT /meals/{mealId} requests.
func (h *MealHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	var req model.MealRequest
	if !decodeBody(w, r, &req) {
		return
	}

	sessionID, _ := middleware.SessionIDFromContext(r.Context())

	err := h.service.Update(r.Context(), sessionID, chi.URLParam(r, "mealId"), req)
	if err != nil {
		switch {
		case isMealValidationError(err):
			writeJSON(w, http.StatusBadRequest, errorResponse(err.Error()))
		case errors.Is(err, service.ErrUserNotFound):
			writeJSON(w, http.StatusNotFound, messageResponse("User not found."))
		case errors.Is(err, service.ErrMealNotFound):
			writeJSON(w, http.StatusNotFound, messageResponse(mealNotOwnedMessage))
		default:
			internalError(w, r, err)
		}
		return
	}

	writeJSON(w, http.StatusOK, messageResponse("Meal updated successfully"))
}

// HandleDelete handles DELETE /meals/{mealId} requests.
func (h *MealHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	sessionID, _ := middleware.SessionIDFromContext(r.Context())

	err := h.service.Delete(r.Context(), sessionID, chi.URLParam(r, "mealId"))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUserNotFound):
			writeJSON(w, http.StatusNotFound, messageResponse("User not found"))
		case errors.Is(err, service.ErrMealNotFound):
			writeJSON(w, http.StatusNotFound, messageResponse(mealNotOwnedMessage))
		default:
			internalError(w, r, err)
		}
		return
	}

	writeJSON(w, http.StatusOK, messageResponse("Meal deleted successfully"))
}

func isMealValidationError(err error) bool {
	return errors.Is(err, service.ErrNameRequired) ||
		errors.Is(err, service.ErrDescriptionRequired) ||
		errors.Is(err, service.ErrIsInDietRequired)
}
