package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/dailydiet/dailydiet-go/internal/model"
)

var ErrMealNotFound = errors.New("meal not found")

const mealColumns = `meal_id, name, description, isInDiet, session_id, created_at`

// MealRepository handles meal persistence operations.
type MealRepository struct {
	db *sql.DB
}

// NewMealRepository creates a new MealRepository.
func NewMealRepository(db *sql.DB) *MealRepository {
	return &MealRepository{db: db}
}

// Create inserts a new meal. CreatedAt is set to the current time when zero.
func (r *MealRepository) Create(ctx context.Context, meal *model.Meal) error {
	if meal.CreatedAt.IsZero() {
		meal.CreatedAt = time.Now().UTC()
	}

	query := `INSERT INTO meals (` + mealColumns + `) VALUES (?, ?, ?, ?, ?, ?)`

	_, err := r.db.ExecContext(ctx, query,
		meal.MealID, meal.Name, meal.Description, meal.IsInDiet, meal.SessionID, meal.CreatedAt,
	)
	return err
}

// GetByID retrieves a meal by its identifier regardless of owner.
func (r *MealRepository) GetByID(ctx context.Context, mealID string) (*model.Meal, error) {
	query := `SELECT ` + mealColumns + ` FROM meals WHERE meal_id = ?`

	meal := &model.Meal{}
	err := r.db.QueryRowContext(ctx, query, mealID).Scan(
		&meal.MealID, &meal.Name, &meal.Description, &meal.IsInDiet, &meal.SessionID, &meal.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrMealNotFound
		}
		return nil, err
	}

	return meal, nil
}

// ListBySessionID retrieves every meal owned by a session, oldest first.
func (r *MealRepository) ListBySessionID(ctx context.Context, sessionID string) ([]model.Meal, error) {
	query := `SELECT ` + mealColumns + ` FROM meals WHERE session_id = ? ORDER BY created_at ASC, meal_id ASC`

	rows, err := r.db.QueryContext(ctx, query, sessionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	meals := []model.Meal{}
	for rows.Next() {
		var m model.Meal
		if err := rows.Scan(
			&m.MealID, &m.Name, &m.Description, &m.IsInDiet, &m.SessionID, &m.CreatedAt,
		); err != nil {
			return nil, err
		}
		meals = append(meals, m)
	}

	return meals, rows.Err()
}

// UpdateByID overwrites the mutable fields of a meal and moves its timestamp
// to now. The owning session is never changed.
func (r *MealRepository) UpdateByID(ctx context.Context, mealID string, fields model.MealFields) error {
	query := `UPDATE meals SET name = ?, description = ?, isInDiet = ?, created_at = ? WHERE meal_id = ?`

	result, err := r.db.ExecContext(ctx, query,
		fields.Name, fields.Description, fields.IsInDiet, time.Now().UTC(), mealID,
	)
	if err != nil {
		return err
	}

	return requireAffected(result)
}

// DeleteByID removes a meal.
func (r *MealRepository) DeleteByID(ctx context.Context, mealID string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM meals WHERE meal_id = ?`, mealID)
	if err != nil {
		return err
	}

	return requireAffected(result)
}

func requireAffected(result sql.Result) error {
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rowsAffected == 0 {
		return ErrMealNotFound
	}

	return nil
}
