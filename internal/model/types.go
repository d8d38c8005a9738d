package model

import "time"

type Role string

const (
	RoleAdmin        Role = "admin"
	RoleAgency       Role = "agency"
	RoleTrainer      Role = "trainer"
	RoleNutritionist Role = "nutritionist"
	RoleAthlete      Role = "athlete"
)

type Staff struct {
	ID        string
	Name      string
	Role      Role
	AgencyID  string
	CreatedAt time.Time
}

type Athlete struct {
	ID             string
	Name           string
	TrainerID      string
	NutritionistID string
	AgencyID       string
	CreatedAt      time.Time
}

// Food holds nutrition facts per 100g. A nil value means the fact is unknown.
type Food struct {
	ID              string
	Name            string
	Brand           string
	CaloriesPer100g *float64
	ProteinPer100g  *float64
	CarbsPer100g    *float64
	FatPer100g      *float64
	SourceType      string
	SourceRef       string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// Consumption is a quantity of food eaten by an athlete on a calendar date.
// Food is nil when the referenced food could not be resolved.
type Consumption struct {
	ID        string
	AthleteID string
	FoodID    string
	Food      *Food
	Date      string
	QuantityG float64
	Notes     string
	CreatedAt time.Time
}

type DietPlan struct {
	ID        string
	AthleteID string
	Name      string
	StartDate string
	EndDate   string
	Notes     string
	CreatedAt time.Time
}

// DietPlanDay groups meals of a diet plan. A nil Weekday applies to every day.
type DietPlanDay struct {
	ID         string
	DietPlanID string
	Weekday    *time.Weekday
	Label      string
}

type Meal struct {
	ID            string
	DietPlanDayID string
	MealType      string
	ScheduledTime string
	Notes         string
	Position      int
}

type WorkoutPlan struct {
	ID        string
	AthleteID string
	Name      string
	Goal      string
	StartDate string
	EndDate   string
	Notes     string
	CreatedAt time.Time
}
