package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/dailydiet/dailydiet-go/internal/middleware"
	"github.com/dailydiet/dailydiet-go/internal/model"
	"github.com/dailydiet/dailydiet-go/internal/service"
)

const duplicateSessionMessage = "A user with the same session_id already exists. Please clear cookies before creating a new user."

// UserServiceInterface is the user logic the handler depends on.
type UserServiceInterface interface {
	Create(ctx context.Context, sessionID string, req model.CreateUserRequest) (model.CreateUserResponse, error)
	Profile(ctx context.Context, sessionID string) (model.ProfileResponse, error)
}

// UserHandler handles HTTP requests for users.
type UserHandler struct {
	service UserServiceInterface
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(svc UserServiceInterface) *UserHandler {
	return &UserHandler{service: svc}
}

// HandleCreate handles POST /users requests.
func (h *UserHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req model.CreateUserRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if err := service.ValidateUser(req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse(err.Error()))
		return
	}

	// A new session cookie is only issued for a well-formed request.
	sessionID, ok := middleware.EnsureSession(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorResponse("Unauthorized."))
		return
	}

	resp, err := h.service.Create(r.Context(), sessionID, req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNameRequired), errors.Is(err, service.ErrEmailRequired):
			writeJSON(w, http.StatusBadRequest, errorResponse(err.Error()))
		case errors.Is(err, service.ErrDuplicateSession):
			writeJSON(w, http.StatusBadRequest, messageResponse(duplicateSessionMessage))
		default:
			internalError(w, r, err)
		}
		return
	}

	writeJSON(w, http.StatusCreated, resp)
}

// HandleProfile handles GET /users requests. A missing user is reported
// inline with a 200 status.
func (h *UserHandler) HandleProfile(w http.ResponseWriter, r *http.Request) {
	sessionID, _ := middleware.SessionIDFromContext(r.Context())

	resp, err := h.service.Profile(r.Context(), sessionID)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			writeJSON(w, http.StatusOK, errorResponse("User not found"))
			return
		}
		internalError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

func internalError(w http.ResponseWriter, r *http.Request, err error) {
	slog.ErrorContext(r.Context(), "request failed",
		"method", r.Method,
		"path", r.URL.Path,
		"error", err,
	)
	writeJSON(w, http.StatusInternalServerError, errorResponse("internal server error"))
}
