package model

import "time"

// User represents a user in the database. A user is bound to exactly one
// browser session through SessionID.
type User struct {
	UserID    string    `json:"user_id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	SessionID string    `json:"session_id"`
	CreatedAt time.Time `json:"created_at"`
}

// CreateUserRequest represents a user creation request.
// Pointer fields distinguish a missing field from an empty string.
type CreateUserRequest struct {
	Name  *string `json:"name"`
	Email *string `json:"email"`
}

// CreateUserResponse is returned after a user has been created.
type CreateUserResponse struct {
	SessionID string `json:"sessionId"`
	Name      string `json:"name"`
	Email     string `json:"email"`
}

// ProfileResponse holds the current user together with their diet metrics.
type ProfileResponse struct {
	User    User    `json:"user"`
	Metrics Metrics `json:"metrics"`
}
