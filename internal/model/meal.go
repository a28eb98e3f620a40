package model

import "time"

// Meal represents a meal in the database.
type Meal struct {
	MealID      string    `json:"meal_id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	IsInDiet    bool      `json:"isInDiet"`
	SessionID   string    `json:"session_id"`
	CreatedAt   time.Time `json:"created_at"`
}

// MealRequest is the body accepted by meal creation and update.
type MealRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	IsInDiet    *bool   `json:"isInDiet"`
}

// MealFields holds the mutable columns of a meal.
type MealFields struct {
	Name        string
	Description string
	IsInDiet    bool
}

// MealResponse echoes the fields of a newly created meal.
type MealResponse struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	IsInDiet    bool   `json:"isInDiet"`
}

// Metrics summarises diet adherence over a user's meals.
type Metrics struct {
	TotalMeals         int    `json:"totalMeals"`
	TotalInDiet        int    `json:"totalInDiet"`
	TotalOutOfDiet     int    `json:"totalOutOfDiet"`
	BestInDietSequence []Meal `json:"bestInDietSequence"`
}
