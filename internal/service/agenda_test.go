package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/victormarques-ia/apex/internal/model"
	"github.com/victormarques-ia/apex/internal/service"
)

func mustDate(t *testing.T, v string) time.Time {
	t.Helper()
	d, err := time.Parse("2006-01-02", v)
	if err != nil {
		t.Fatalf("parse date %s: %v", v, err)
	}
	return d
}

func TestDailyActivitiesFromStoredPlans(t *testing.T) {
	t.Parallel()
	sqldb := newTestDB(t)
	defer sqldb.Close()
	ctx := adminCtx()

	athleteID := mustCreateAthlete(t, sqldb, service.CreateAthleteInput{Name: "Duda"})
	planID, err := service.CreateDietPlan(ctx, sqldb, service.DietPlanInput{AthleteID: athleteID, Name: "Cutting", StartDate: "2024-01-01", EndDate: "2024-01-31"})
	if err != nil {
		t.Fatalf("create diet plan: %v", err)
	}
	everyDay, err := service.AddDietPlanDay(ctx, sqldb, service.DietPlanDayInput{DietPlanID: planID, Label: "Base"})
	if err != nil {
		t.Fatalf("add every-day plan day: %v", err)
	}
	monday := time.Monday
	mondayDay, err := service.AddDietPlanDay(ctx, sqldb, service.DietPlanDayInput{DietPlanID: planID, Weekday: &monday, Label: "Segunda"})
	if err != nil {
		t.Fatalf("add monday plan day: %v", err)
	}
	for _, in := range []service.MealInput{
		{DietPlanDayID: everyDay, MealType: "dinner", ScheduledTime: "19:00"},
		{DietPlanDayID: everyDay, MealType: "breakfast", ScheduledTime: "7:30"},
		{DietPlanDayID: mondayDay, MealType: "lunch", ScheduledTime: "12:30", Notes: "arroz e frango"},
	} {
		if _, err := service.AddMeal(ctx, sqldb, in); err != nil {
			t.Fatalf("add meal: %v", err)
		}
	}
	if _, err := service.CreateWorkoutPlan(ctx, sqldb, service.WorkoutPlanInput{AthleteID: athleteID, Name: "Bloco A", Goal: "Hipertrofia", StartDate: "2024-01-10", EndDate: "2024-01-20"}); err != nil {
		t.Fatalf("create workout plan: %v", err)
	}

	repo := service.NewRepository(sqldb)
	cases := []struct {
		date       string
		activities []string
	}{
		{"2024-01-15", []string{"Café da manhã", "Treino: Hipertrofia", "2000ml Água - Para ser tomada durante o dia", "Almoço", "Jantar"}},
		{"2024-01-16", []string{"Café da manhã", "Treino: Hipertrofia", "2000ml Água - Para ser tomada durante o dia", "Jantar"}},
		{"2024-01-20", []string{"Café da manhã", "Treino: Hipertrofia", "2000ml Água - Para ser tomada durante o dia", "Jantar"}},
		{"2024-01-31", []string{"Café da manhã", "2000ml Água - Para ser tomada durante o dia", "Jantar"}},
		{"2024-02-01", []string{}},
	}
	for _, tc := range cases {
		agenda, err := service.DailyActivities(ctx, repo, athleteID, mustDate(t, tc.date))
		if err != nil {
			t.Fatalf("%s: daily activities: %v", tc.date, err)
		}
		if agenda.Date != tc.date || agenda.AthleteID != athleteID {
			t.Fatalf("%s: unexpected agenda header %+v", tc.date, agenda)
		}
		if agenda.Activities == nil {
			t.Fatalf("%s: expected non-nil activities", tc.date)
		}
		if len(agenda.Activities) != len(tc.activities) {
			t.Fatalf("%s: expected %d activities, got %+v", tc.date, len(tc.activities), agenda.Activities)
		}
		for i, want := range tc.activities {
			if agenda.Activities[i].Activity != want {
				t.Fatalf("%s: item %d expected %q, got %q", tc.date, i, want, agenda.Activities[i].Activity)
			}
		}
	}
}

type fakeRepo struct {
	athlete     model.Athlete
	plans       []model.DietPlan
	days        map[string][]model.DietPlanDay
	meals       map[string][]model.Meal
	workouts    []model.WorkoutPlan
	consumption []model.Consumption
	mealsErr    error
	workoutErr  error
}

func (f *fakeRepo) GetAthlete(_ context.Context, id string) (model.Athlete, error) {
	if id != f.athlete.ID {
		return model.Athlete{}, service.ErrNotFound
	}
	return f.athlete, nil
}

func (f *fakeRepo) ListAthletes(context.Context, service.ListAthletesFilter) (service.Page[model.Athlete], error) {
	return service.Page[model.Athlete]{Docs: []model.Athlete{f.athlete}, TotalDocs: 1}, nil
}

func (f *fakeRepo) FindConsumptions(context.Context, string, string, string) ([]model.Consumption, error) {
	return f.consumption, nil
}

func (f *fakeRepo) FindActiveDietPlans(context.Context, string, string) ([]model.DietPlan, error) {
	return f.plans, nil
}

func (f *fakeRepo) FindDietPlanDays(_ context.Context, planID string, _ time.Weekday) ([]model.DietPlanDay, error) {
	return f.days[planID], nil
}

func (f *fakeRepo) FindMealsForDietPlanDay(_ context.Context, dayID string) ([]model.Meal, error) {
	if f.mealsErr != nil {
		return nil, f.mealsErr
	}
	return f.meals[dayID], nil
}

func (f *fakeRepo) FindActiveWorkoutPlans(context.Context, string, string) ([]model.WorkoutPlan, error) {
	if f.workoutErr != nil {
		return nil, f.workoutErr
	}
	return f.workouts, nil
}

func TestDailyActivitiesJoinsDaysInOrder(t *testing.T) {
	t.Parallel()
	repo := &fakeRepo{
		athlete: model.Athlete{ID: "a1"},
		plans:   []model.DietPlan{{ID: "p1"}, {ID: "p2"}},
		days: map[string][]model.DietPlanDay{
			"p1": {{ID: "d1"}, {ID: "d2"}},
			"p2": {{ID: "d3"}},
		},
		meals: map[string][]model.Meal{
			"d1": {{ID: "m1", MealType: "lunch", ScheduledTime: "12:00"}},
			"d2": {{ID: "m2", MealType: "supper", ScheduledTime: "12:00"}},
			"d3": {{ID: "m3", MealType: "dinner", ScheduledTime: "12:00"}},
		},
	}
	agenda, err := service.DailyActivities(adminCtx(), repo, "a1", mustDate(t, "2024-03-04"))
	if err != nil {
		t.Fatalf("daily activities: %v", err)
	}
	want := []string{"2000ml Água - Para ser tomada durante o dia", "Almoço", "Ceia", "Jantar"}
	if len(agenda.Activities) != len(want) {
		t.Fatalf("expected %d activities, got %+v", len(want), agenda.Activities)
	}
	for i, w := range want {
		if agenda.Activities[i].Activity != w {
			t.Fatalf("item %d: expected %q, got %q", i, w, agenda.Activities[i].Activity)
		}
	}
}

func TestDailyActivitiesPropagatesRepositoryErrors(t *testing.T) {
	t.Parallel()
	boom := errors.New("boom")

	withMealsErr := &fakeRepo{
		athlete:  model.Athlete{ID: "a1"},
		plans:    []model.DietPlan{{ID: "p1"}},
		days:     map[string][]model.DietPlanDay{"p1": {{ID: "d1"}}},
		mealsErr: boom,
	}
	if _, err := service.DailyActivities(adminCtx(), withMealsErr, "a1", mustDate(t, "2024-03-04")); !errors.Is(err, boom) {
		t.Fatalf("expected meals error to propagate, got %v", err)
	}

	withWorkoutErr := &fakeRepo{athlete: model.Athlete{ID: "a1"}, workoutErr: boom}
	if _, err := service.DailyActivities(adminCtx(), withWorkoutErr, "a1", mustDate(t, "2024-03-04")); !errors.Is(err, boom) {
		t.Fatalf("expected workout error to propagate, got %v", err)
	}

	if _, err := service.DailyActivities(adminCtx(), withWorkoutErr, " ", mustDate(t, "2024-03-04")); err == nil {
		t.Fatalf("expected missing athlete id error")
	}
}
