package service

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/victormarques-ia/apex/internal/model"
)

type WorkoutPlanInput struct {
	AthleteID string
	Name      string
	Goal      string
	StartDate string
	EndDate   string
	Notes     string
}

var workoutPlanWriters = []model.Role{model.RoleAgency, model.RoleTrainer}

const workoutPlanColumns = `id, athlete_id, name, IFNULL(goal, ''), start_date, end_date, IFNULL(notes, ''), created_at`

func CreateWorkoutPlan(ctx context.Context, db *sql.DB, in WorkoutPlanInput) (string, error) {
	if strings.TrimSpace(in.AthleteID) == "" {
		return "", fmt.Errorf("athlete id is required")
	}
	athlete, err := authorizeAthlete(ctx, NewRepository(db), in.AthleteID, workoutPlanWriters...)
	if err != nil {
		return "", err
	}
	in.Name = strings.TrimSpace(in.Name)
	if in.Name == "" {
		return "", fmt.Errorf("workout plan name is required")
	}
	start, end, err := parsePlanWindow(in.StartDate, in.EndDate)
	if err != nil {
		return "", err
	}
	id := newID()
	if _, err := db.ExecContext(ctx, `
INSERT INTO workout_plans(id, athlete_id, name, goal, start_date, end_date, notes)
VALUES(?, ?, ?, ?, ?, ?, ?)
`, id, athlete.ID, in.Name, nullableString(in.Goal), start, end, strings.TrimSpace(in.Notes)); err != nil {
		return "", fmt.Errorf("insert workout plan: %w", err)
	}
	return id, nil
}

func ListWorkoutPlans(ctx context.Context, db *sql.DB, athleteID string) ([]model.WorkoutPlan, error) {
	if strings.TrimSpace(athleteID) == "" {
		return nil, fmt.Errorf("athlete id is required")
	}
	if _, err := authorizeAthlete(ctx, NewRepository(db), athleteID); err != nil {
		return nil, err
	}
	return queryWorkoutPlans(ctx, db, `SELECT `+workoutPlanColumns+` FROM workout_plans WHERE athlete_id = ? ORDER BY start_date DESC, id ASC`, strings.TrimSpace(athleteID))
}

func DeleteWorkoutPlan(ctx context.Context, db *sql.DB, id string) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return fmt.Errorf("workout plan id is required")
	}
	plans, err := queryWorkoutPlans(ctx, db, `SELECT `+workoutPlanColumns+` FROM workout_plans WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if len(plans) == 0 {
		return fmt.Errorf("workout plan %s: %w", id, ErrNotFound)
	}
	if _, err := authorizeAthlete(ctx, NewRepository(db), plans[0].AthleteID, workoutPlanWriters...); err != nil {
		return err
	}
	res, err := db.ExecContext(ctx, `DELETE FROM workout_plans WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete workout plan %s: %w", id, err)
	}
	return requireAffected(res, "workout plan", id)
}

func findActiveWorkoutPlans(ctx context.Context, db *sql.DB, athleteID, date string) ([]model.WorkoutPlan, error) {
	return queryWorkoutPlans(ctx, db, `
SELECT `+workoutPlanColumns+`
FROM workout_plans
WHERE athlete_id = ? AND start_date <= ? AND end_date >= ?
ORDER BY start_date ASC, created_at ASC, id ASC
`, athleteID, date, date)
}

func queryWorkoutPlans(ctx context.Context, db *sql.DB, query string, args ...any) ([]model.WorkoutPlan, error) {
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query workout plans: %w", err)
	}
	defer rows.Close()

	items := make([]model.WorkoutPlan, 0)
	for rows.Next() {
		var p model.WorkoutPlan
		var createdRaw string
		if err := rows.Scan(&p.ID, &p.AthleteID, &p.Name, &p.Goal, &p.StartDate, &p.EndDate, &p.Notes, &createdRaw); err != nil {
			return nil, fmt.Errorf("scan workout plan: %w", err)
		}
		p.CreatedAt = parseTimestamp(createdRaw)
		items = append(items, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate workout plans: %w", err)
	}
	return items, nil
}
