package service

import (
	"context"
	"database/sql"
	"time"

	"github.com/victormarques-ia/apex/internal/model"
)

// Repository is the data access used by the totals and agenda computations.
// Dates are YYYY-MM-DD strings and ranges are inclusive on both ends.
type Repository interface {
	GetAthlete(ctx context.Context, id string) (model.Athlete, error)
	ListAthletes(ctx context.Context, f ListAthletesFilter) (Page[model.Athlete], error)
	FindConsumptions(ctx context.Context, athleteID, from, to string) ([]model.Consumption, error)
	FindActiveDietPlans(ctx context.Context, athleteID, date string) ([]model.DietPlan, error)
	FindDietPlanDays(ctx context.Context, dietPlanID string, weekday time.Weekday) ([]model.DietPlanDay, error)
	FindMealsForDietPlanDay(ctx context.Context, dietPlanDayID string) ([]model.Meal, error)
	FindActiveWorkoutPlans(ctx context.Context, athleteID, date string) ([]model.WorkoutPlan, error)
}

type SQLRepository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) *SQLRepository {
	return &SQLRepository{db: db}
}

func (r *SQLRepository) GetAthlete(ctx context.Context, id string) (model.Athlete, error) {
	return GetAthlete(ctx, r.db, id)
}

func (r *SQLRepository) ListAthletes(ctx context.Context, f ListAthletesFilter) (Page[model.Athlete], error) {
	return ListAthletes(ctx, r.db, f)
}

func (r *SQLRepository) FindConsumptions(ctx context.Context, athleteID, from, to string) ([]model.Consumption, error) {
	return findConsumptions(ctx, r.db, athleteID, from, to)
}

func (r *SQLRepository) FindActiveDietPlans(ctx context.Context, athleteID, date string) ([]model.DietPlan, error) {
	return findActiveDietPlans(ctx, r.db, athleteID, date)
}

func (r *SQLRepository) FindDietPlanDays(ctx context.Context, dietPlanID string, weekday time.Weekday) ([]model.DietPlanDay, error) {
	return findDietPlanDays(ctx, r.db, dietPlanID, weekday)
}

func (r *SQLRepository) FindMealsForDietPlanDay(ctx context.Context, dietPlanDayID string) ([]model.Meal, error) {
	return findMealsForDietPlanDay(ctx, r.db, dietPlanDayID)
}

func (r *SQLRepository) FindActiveWorkoutPlans(ctx context.Context, athleteID, date string) ([]model.WorkoutPlan, error) {
	return findActiveWorkoutPlans(ctx, r.db, athleteID, date)
}
