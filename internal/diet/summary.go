// Package diet computes diet adherence statistics over a user's meals.
package diet

import "github.com/dailydiet/dailydiet-go/internal/model"

// Summarize computes totals and the longest run of consecutive in-diet meals.
// meals must already be ordered by creation time, oldest first.
//
// When several runs share the maximal length the earliest one is returned.
func Summarize(meals []model.Meal) model.Metrics {
	inDiet := 0
	current := []model.Meal{}
	best := []model.Meal{}

	for _, meal := range meals {
		if meal.IsInDiet {
			inDiet++
			current = append(current, meal)
			continue
		}
		if len(current) > len(best) {
			best = current
		}
		current = []model.Meal{}
	}

	if len(current) > len(best) {
		best = current
	}

	return model.Metrics{
		TotalMeals:         len(meals),
		TotalInDiet:        inDiet,
		TotalOutOfDiet:     len(meals) - inDiet,
		BestInDietSequence: best,
	}
}
