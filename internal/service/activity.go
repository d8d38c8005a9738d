package service

import (
	"sort"
	"strconv"
	"strings"

	"github.com/victormarques-ia/apex/internal/model"
)

type ActivityType string

const (
	ActivityMeal      ActivityType = "meal"
	ActivityWorkout   ActivityType = "workout"
	ActivityHydration ActivityType = "hydration"
)

const (
	activityStatusPending = "pending"
	defaultMealTime       = "12:00"
	defaultWorkoutTime    = "08:00"
	hydrationTime         = "08:00"
	hydrationActivity     = "2000ml Água - Para ser tomada durante o dia"
	defaultMealLabel      = "Refeição"
	defaultWorkoutGoal    = "Treino programado"
)

var mealTypeLabels = map[string]string{
	"breakfast":       "Café da manhã",
	"morning_snack":   "Lanche da manhã",
	"lunch":           "Almoço",
	"afternoon_snack": "Lanche da tarde",
	"dinner":          "Jantar",
	"supper":          "Ceia",
}

// ActivityItem is one entry of an athlete's daily agenda. Details is nil when
// there is nothing to add, which is distinct from an empty string.
type ActivityItem struct {
	Time     string       `json:"time"`
	Activity string       `json:"activity"`
	Type     ActivityType `json:"type"`
	Status   string       `json:"status"`
	Details  *string      `json:"details"`
}

// ComposeDailyActivities merges meals and active workout plans into a single
// agenda sorted by time of day. A hydration reminder is added when anything is
// scheduled. The sort is stable, so equal times keep meal, workout, hydration
// order.
func ComposeDailyActivities(meals []model.Meal, workoutPlans []model.WorkoutPlan) []ActivityItem {
	items := make([]ActivityItem, 0, len(meals)+len(workoutPlans)+1)
	for _, m := range meals {
		item := ActivityItem{
			Time:     defaultMealTime,
			Activity: mealLabel(m.MealType),
			Type:     ActivityMeal,
			Status:   activityStatusPending,
		}
		if t, err := normalizeClock(m.ScheduledTime); err == nil {
			item.Time = t
		}
		if notes := strings.TrimSpace(m.Notes); notes != "" {
			item.Details = &notes
		}
		items = append(items, item)
	}
	for _, p := range workoutPlans {
		goal := strings.TrimSpace(p.Goal)
		label := goal
		if label == "" {
			label = defaultWorkoutGoal
		}
		items = append(items, ActivityItem{
			Time:     defaultWorkoutTime,
			Activity: "Treino: " + label,
			Type:     ActivityWorkout,
			Status:   activityStatusPending,
			Details:  &goal,
		})
	}
	if len(meals) > 0 || len(workoutPlans) > 0 {
		items = append(items, ActivityItem{
			Time:     hydrationTime,
			Activity: hydrationActivity,
			Type:     ActivityHydration,
			Status:   activityStatusPending,
		})
	}

	sort.SliceStable(items, func(i, j int) bool {
		return clockMinutes(items[i].Time) < clockMinutes(items[j].Time)
	})
	return items
}

func mealLabel(mealType string) string {
	t := strings.TrimSpace(mealType)
	if t == "" {
		return defaultMealLabel
	}
	if label, ok := mealTypeLabels[strings.ToLower(t)]; ok {
		return label
	}
	return t
}

// clockMinutes converts HH:MM into minutes since midnight. Items always carry a
// normalized time, so a malformed value only sorts first.
func clockMinutes(v string) int {
	h, m, ok := strings.Cut(v, ":")
	if !ok {
		return 0
	}
	hours, err := strconv.Atoi(h)
	if err != nil {
		return 0
	}
	minutes, err := strconv.Atoi(m)
	if err != nil {
		return 0
	}
	return hours*60 + minutes
}
