package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/victormarques-ia/apex/internal/model"
)

type DailyAgenda struct {
	AthleteID  string         `json:"athlete_id"`
	Date       string         `json:"date"`
	Activities []ActivityItem `json:"activities"`
}

// Meals are joined in plan, day, position order.
func DailyActivities(ctx context.Context, repo Repository, athleteID string, date time.Time) (*DailyAgenda, error) {
	athleteID = strings.TrimSpace(athleteID)
	if athleteID == "" {
		return nil, fmt.Errorf("athlete id is required")
	}
	if _, err := authorizeAthlete(ctx, repo, athleteID); err != nil {
		return nil, err
	}
	day := date.Format(dateLayout)

	var meals []model.Meal
	var workouts []model.WorkoutPlan
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		found, err := activeMeals(gctx, repo, athleteID, day, date.Weekday())
		if err != nil {
			return err
		}
		meals = found
		return nil
	})
	g.Go(func() error {
		found, err := repo.FindActiveWorkoutPlans(gctx, athleteID, day)
		if err != nil {
			return fmt.Errorf("find active workout plans: %w", err)
		}
		workouts = found
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return &DailyAgenda{
		AthleteID:  athleteID,
		Date:       day,
		Activities: ComposeDailyActivities(meals, workouts),
	}, nil
}

func activeMeals(ctx context.Context, repo Repository, athleteID, day string, weekday time.Weekday) ([]model.Meal, error) {
	plans, err := repo.FindActiveDietPlans(ctx, athleteID, day)
	if err != nil {
		return nil, fmt.Errorf("find active diet plans: %w", err)
	}
	var days []model.DietPlanDay
	for _, p := range plans {
		found, err := repo.FindDietPlanDays(ctx, p.ID, weekday)
		if err != nil {
			return nil, fmt.Errorf("find days for diet plan %s: %w", p.ID, err)
		}
		days = append(days, found...)
	}

	perDay := make([][]model.Meal, len(days))
	g, gctx := errgroup.WithContext(ctx)
	for i, d := range days {
		i, d := i, d
		g.Go(func() error {
			found, err := repo.FindMealsForDietPlanDay(gctx, d.ID)
			if err != nil {
				return fmt.Errorf("find meals for diet plan day %s: %w", d.ID, err)
			}
			perDay[i] = found
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	meals := make([]model.Meal, 0)
	for _, m := range perDay {
		meals = append(meals, m...)
	}
	return meals, nil
}
