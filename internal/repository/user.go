package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/go-sql-driver/mysql"

	"github.com/dailydiet/dailydiet-go/internal/model"
)

// mysqlDuplicateEntry is the MySQL error number for a unique key violation.
const mysqlDuplicateEntry = 1062

var (
	ErrUserNotFound     = errors.New("user not found")
	ErrDuplicateSession = errors.New("session already has a user")
)

// UserRepository handles user persistence operations.
type UserRepository struct {
	db *sql.DB
}

// NewUserRepository creates a new UserRepository.
func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{db: db}
}

// Create inserts a new user. CreatedAt is set to the current time when zero.
// A second user for the same session is rejected by the unique index on
// session_id and reported as ErrDuplicateSession.
func (r *UserRepository) Create(ctx context.Context, user *model.User) error {
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now().UTC()
	}

	query := `INSERT INTO users (user_id, name, email, session_id, created_at) VALUES (?, ?, ?, ?, ?)`

	_, err := r.db.ExecContext(ctx, query,
		user.UserID, user.Name, user.Email, user.SessionID, user.CreatedAt,
	)
	if err != nil {
		if isDuplicateEntryError(err) {
			return ErrDuplicateSession
		}
		return err
	}

	return nil
}

// GetBySessionID retrieves the user bound to a session token.
func (r *UserRepository) GetBySessionID(ctx context.Context, sessionID string) (*model.User, error) {
	query := `SELECT user_id, name, email, session_id, created_at FROM users WHERE session_id = ?`

	user := &model.User{}
	err := r.db.QueryRowContext(ctx, query, sessionID).Scan(
		&user.UserID, &user.Name, &user.Email, &user.SessionID, &user.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	return user, nil
}

// isDuplicateEntryError checks if a MySQL error is a duplicate entry error (code 1062).
func isDuplicateEntryError(err error) bool {
	var myErr *mysql.MySQLError
	return errors.As(err, &myErr) && myErr.Number == mysqlDuplicateEntry
}
