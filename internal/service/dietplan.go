package service

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/victormarques-ia/apex/internal/model"
)

type DietPlanInput struct {
	AthleteID string
	Name      string
	StartDate string
	EndDate   string
	Notes     string
}

type DietPlanDayInput struct {
	DietPlanID string
	Weekday    *time.Weekday
	Label      string
}

type MealInput struct {
	DietPlanDayID string
	MealType      string
	ScheduledTime string
	Notes         string
	Position      *int
}

type DietPlanDetail struct {
	Plan  model.DietPlan
	Days  []model.DietPlanDay
	Meals map[string][]model.Meal
}

var dietPlanWriters = []model.Role{model.RoleAgency, model.RoleNutritionist}

func CreateDietPlan(ctx context.Context, db *sql.DB, in DietPlanInput) (string, error) {
	if strings.TrimSpace(in.AthleteID) == "" {
		return "", fmt.Errorf("athlete id is required")
	}
	athlete, err := authorizeAthlete(ctx, NewRepository(db), in.AthleteID, dietPlanWriters...)
	if err != nil {
		return "", err
	}
	in.Name = strings.TrimSpace(in.Name)
	if in.Name == "" {
		return "", fmt.Errorf("diet plan name is required")
	}
	start, end, err := parsePlanWindow(in.StartDate, in.EndDate)
	if err != nil {
		return "", err
	}
	id := newID()
	if _, err := db.ExecContext(ctx, `
INSERT INTO diet_plans(id, athlete_id, name, start_date, end_date, notes)
VALUES(?, ?, ?, ?, ?, ?)
`, id, athlete.ID, in.Name, start, end, strings.TrimSpace(in.Notes)); err != nil {
		return "", fmt.Errorf("insert diet plan: %w", err)
	}
	return id, nil
}

func AddDietPlanDay(ctx context.Context, db *sql.DB, in DietPlanDayInput) (string, error) {
	plan, err := getDietPlan(ctx, db, in.DietPlanID)
	if err != nil {
		return "", err
	}
	if _, err := authorizeAthlete(ctx, NewRepository(db), plan.AthleteID, dietPlanWriters...); err != nil {
		return "", err
	}
	var weekday any
	if in.Weekday != nil {
		if *in.Weekday < time.Sunday || *in.Weekday > time.Saturday {
			return "", fmt.Errorf("weekday must be between 0 (Sunday) and 6 (Saturday)")
		}
		weekday = int(*in.Weekday)
	}
	id := newID()
	if _, err := db.ExecContext(ctx, `
INSERT INTO diet_plan_days(id, diet_plan_id, weekday, label)
VALUES(?, ?, ?, ?)
`, id, plan.ID, weekday, strings.TrimSpace(in.Label)); err != nil {
		return "", fmt.Errorf("insert diet plan day: %w", err)
	}
	return id, nil
}

func AddMeal(ctx context.Context, db *sql.DB, in MealInput) (string, error) {
	in.DietPlanDayID = strings.TrimSpace(in.DietPlanDayID)
	if in.DietPlanDayID == "" {
		return "", fmt.Errorf("diet plan day id is required")
	}
	var athleteID string
	err := db.QueryRowContext(ctx, `
SELECT p.athlete_id
FROM diet_plan_days d
JOIN diet_plans p ON p.id = d.diet_plan_id
WHERE d.id = ?
`, in.DietPlanDayID).Scan(&athleteID)
	if err == sql.ErrNoRows {
		return "", fmt.Errorf("diet plan day %s: %w", in.DietPlanDayID, ErrNotFound)
	}
	if err != nil {
		return "", fmt.Errorf("lookup diet plan day %s: %w", in.DietPlanDayID, err)
	}
	if _, err := authorizeAthlete(ctx, NewRepository(db), athleteID, dietPlanWriters...); err != nil {
		return "", err
	}

	scheduled := ""
	if strings.TrimSpace(in.ScheduledTime) != "" {
		scheduled, err = normalizeClock(in.ScheduledTime)
		if err != nil {
			return "", err
		}
	}
	position := 0
	if in.Position != nil {
		if *in.Position < 0 {
			return "", fmt.Errorf("position must be >= 0")
		}
		position = *in.Position
	} else if err := db.QueryRowContext(ctx, `SELECT IFNULL(MAX(position) + 1, 0) FROM meals WHERE diet_plan_day_id = ?`, in.DietPlanDayID).Scan(&position); err != nil {
		return "", fmt.Errorf("next meal position: %w", err)
	}

	id := newID()
	if _, err := db.ExecContext(ctx, `
INSERT INTO meals(id, diet_plan_day_id, meal_type, scheduled_time, notes, position)
VALUES(?, ?, ?, ?, ?, ?)
`, id, in.DietPlanDayID, strings.TrimSpace(strings.ToLower(in.MealType)), nullableString(scheduled), nullableString(in.Notes), position); err != nil {
		return "", fmt.Errorf("insert meal: %w", err)
	}
	return id, nil
}

func ListDietPlans(ctx context.Context, db *sql.DB, athleteID string) ([]model.DietPlan, error) {
	if strings.TrimSpace(athleteID) == "" {
		return nil, fmt.Errorf("athlete id is required")
	}
	if _, err := authorizeAthlete(ctx, NewRepository(db), athleteID); err != nil {
		return nil, err
	}
	return queryDietPlans(ctx, db, `
SELECT id, athlete_id, name, start_date, end_date, IFNULL(notes, ''), created_at
FROM diet_plans
WHERE athlete_id = ?
ORDER BY start_date DESC, id ASC
`, strings.TrimSpace(athleteID))
}

func DietPlanDetails(ctx context.Context, db *sql.DB, id string) (*DietPlanDetail, error) {
	plan, err := getDietPlan(ctx, db, id)
	if err != nil {
		return nil, err
	}
	if _, err := authorizeAthlete(ctx, NewRepository(db), plan.AthleteID); err != nil {
		return nil, err
	}
	days, err := queryDietPlanDays(ctx, db, `
SELECT id, diet_plan_id, weekday, label FROM diet_plan_days WHERE diet_plan_id = ? ORDER BY IFNULL(weekday, -1) ASC, created_at ASC, id ASC
`, plan.ID)
	if err != nil {
		return nil, err
	}
	detail := &DietPlanDetail{Plan: plan, Days: days, Meals: map[string][]model.Meal{}}
	for _, d := range days {
		meals, err := findMealsForDietPlanDay(ctx, db, d.ID)
		if err != nil {
			return nil, err
		}
		detail.Meals[d.ID] = meals
	}
	return detail, nil
}

func DeleteDietPlan(ctx context.Context, db *sql.DB, id string) error {
	plan, err := getDietPlan(ctx, db, id)
	if err != nil {
		return err
	}
	if _, err := authorizeAthlete(ctx, NewRepository(db), plan.AthleteID, dietPlanWriters...); err != nil {
		return err
	}
	res, err := db.ExecContext(ctx, `DELETE FROM diet_plans WHERE id = ?`, plan.ID)
	if err != nil {
		return fmt.Errorf("delete diet plan %s: %w", plan.ID, err)
	}
	return requireAffected(res, "diet plan", plan.ID)
}

func getDietPlan(ctx context.Context, db *sql.DB, id string) (model.DietPlan, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return model.DietPlan{}, fmt.Errorf("diet plan id is required")
	}
	plans, err := queryDietPlans(ctx, db, `
SELECT id, athlete_id, name, start_date, end_date, IFNULL(notes, ''), created_at
FROM diet_plans
WHERE id = ?
`, id)
	if err != nil {
		return model.DietPlan{}, err
	}
	if len(plans) == 0 {
		return model.DietPlan{}, fmt.Errorf("diet plan %s: %w", id, ErrNotFound)
	}
	return plans[0], nil
}

func findActiveDietPlans(ctx context.Context, db *sql.DB, athleteID, date string) ([]model.DietPlan, error) {
	return queryDietPlans(ctx, db, `
SELECT id, athlete_id, name, start_date, end_date, IFNULL(notes, ''), created_at
FROM diet_plans
WHERE athlete_id = ? AND start_date <= ? AND end_date >= ?
ORDER BY start_date ASC, created_at ASC, id ASC
`, athleteID, date, date)
}

// findDietPlanDays returns the plan days that apply on the given weekday:
// those pinned to it plus those without a weekday.
func findDietPlanDays(ctx context.Context, db *sql.DB, dietPlanID string, weekday time.Weekday) ([]model.DietPlanDay, error) {
	return queryDietPlanDays(ctx, db, `
SELECT id, diet_plan_id, weekday, label
FROM diet_plan_days
WHERE diet_plan_id = ? AND (weekday IS NULL OR weekday = ?)
ORDER BY IFNULL(weekday, -1) ASC, created_at ASC, id ASC
`, dietPlanID, int(weekday))
}

func findMealsForDietPlanDay(ctx context.Context, db *sql.DB, dietPlanDayID string) ([]model.Meal, error) {
	rows, err := db.QueryContext(ctx, `
SELECT id, diet_plan_day_id, meal_type, IFNULL(scheduled_time, ''), IFNULL(notes, ''), position
FROM meals
WHERE diet_plan_day_id = ?
ORDER BY position ASC, created_at ASC, id ASC
`, dietPlanDayID)
	if err != nil {
		return nil, fmt.Errorf("query meals: %w", err)
	}
	defer rows.Close()

	items := make([]model.Meal, 0)
	for rows.Next() {
		var m model.Meal
		if err := rows.Scan(&m.ID, &m.DietPlanDayID, &m.MealType, &m.ScheduledTime, &m.Notes, &m.Position); err != nil {
			return nil, fmt.Errorf("scan meal: %w", err)
		}
		items = append(items, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate meals: %w", err)
	}
	return items, nil
}

func queryDietPlans(ctx context.Context, db *sql.DB, query string, args ...any) ([]model.DietPlan, error) {
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query diet plans: %w", err)
	}
	defer rows.Close()

	items := make([]model.DietPlan, 0)
	for rows.Next() {
		var p model.DietPlan
		var createdRaw string
		if err := rows.Scan(&p.ID, &p.AthleteID, &p.Name, &p.StartDate, &p.EndDate, &p.Notes, &createdRaw); err != nil {
			return nil, fmt.Errorf("scan diet plan: %w", err)
		}
		p.CreatedAt = parseTimestamp(createdRaw)
		items = append(items, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate diet plans: %w", err)
	}
	return items, nil
}

func queryDietPlanDays(ctx context.Context, db *sql.DB, query string, args ...any) ([]model.DietPlanDay, error) {
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query diet plan days: %w", err)
	}
	defer rows.Close()

	items := make([]model.DietPlanDay, 0)
	for rows.Next() {
		var d model.DietPlanDay
		var weekday sql.NullInt64
		if err := rows.Scan(&d.ID, &d.DietPlanID, &weekday, &d.Label); err != nil {
			return nil, fmt.Errorf("scan diet plan day: %w", err)
		}
		if weekday.Valid {
			w := time.Weekday(weekday.Int64)
			d.Weekday = &w
		}
		items = append(items, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate diet plan days: %w", err)
	}
	return items, nil
}

func parsePlanWindow(start, end string) (string, string, error) {
	s, err := parseDate("start date", start)
	if err != nil {
		return "", "", err
	}
	e, err := parseDate("end date", end)
	if err != nil {
		return "", "", err
	}
	if s > e {
		return "", "", fmt.Errorf("start date must be <= end date")
	}
	return s, e, nil
}

func normalizeClock(value string) (string, error) {
	t, err := time.Parse("15:04", strings.TrimSpace(value))
	if err != nil {
		return "", fmt.Errorf("invalid time %q (expected HH:MM)", value)
	}
	return t.Format("15:04"), nil
}
