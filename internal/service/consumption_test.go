package service_test

import (
	"errors"
	"testing"

	"github.com/victormarques-ia/apex/internal/model"
	"github.com/victormarques-ia/apex/internal/service"
)

func TestConsumptionLifecycle(t *testing.T) {
	t.Parallel()
	sqldb := newTestDB(t)
	defer sqldb.Close()
	ctx := adminCtx()

	athleteID := mustCreateAthlete(t, sqldb, service.CreateAthleteInput{Name: "Kaique"})
	eggID := mustCreateFood(t, sqldb, service.FoodInput{Name: "Ovo", CaloriesPer100g: floatPtr(143), ProteinPer100g: floatPtr(12.6)})
	breadID := mustCreateFood(t, sqldb, service.FoodInput{Name: "Pão", CaloriesPer100g: floatPtr(265)})

	id, err := service.CreateConsumption(ctx, sqldb, service.ConsumptionInput{AthleteID: athleteID, FoodID: eggID, Date: "2024-02-10", Quantity: 4, Unit: "oz", Notes: "café"})
	if err != nil {
		t.Fatalf("create consumption: %v", err)
	}
	c, err := service.GetConsumption(ctx, sqldb, id)
	if err != nil {
		t.Fatalf("get consumption: %v", err)
	}
	if c.QuantityG < 113.39 || c.QuantityG > 113.40 || c.Food == nil || c.Food.ID != eggID || c.Notes != "café" {
		t.Fatalf("unexpected consumption: %+v", c)
	}

	if err := service.UpdateConsumption(ctx, sqldb, service.UpdateConsumptionInput{ID: id, FoodID: breadID, Date: "2024-02-11", Quantity: 50}); err != nil {
		t.Fatalf("update consumption: %v", err)
	}
	c, err = service.GetConsumption(ctx, sqldb, id)
	if err != nil {
		t.Fatalf("get updated consumption: %v", err)
	}
	if c.Date != "2024-02-11" || c.QuantityG != 50 || c.FoodID != breadID {
		t.Fatalf("unexpected updated consumption: %+v", c)
	}

	if err := service.DeleteFood(ctx, sqldb, breadID); err != nil {
		t.Fatalf("delete food: %v", err)
	}
	c, err = service.GetConsumption(ctx, sqldb, id)
	if err != nil {
		t.Fatalf("get consumption after food delete: %v", err)
	}
	if c.Food != nil || c.FoodID != "" {
		t.Fatalf("expected unresolved food reference, got %+v", c)
	}

	if err := service.DeleteConsumption(ctx, sqldb, id); err != nil {
		t.Fatalf("delete consumption: %v", err)
	}
	if _, err := service.GetConsumption(ctx, sqldb, id); !errors.Is(err, service.ErrNotFound) {
		t.Fatalf("expected not found after delete, got %v", err)
	}
}

func TestCreateConsumptionValidation(t *testing.T) {
	t.Parallel()
	sqldb := newTestDB(t)
	defer sqldb.Close()
	ctx := adminCtx()

	athleteID := mustCreateAthlete(t, sqldb, service.CreateAthleteInput{Name: "Lia"})
	foodID := mustCreateFood(t, sqldb, service.FoodInput{Name: "Maçã"})

	cases := []service.ConsumptionInput{
		{FoodID: foodID, Date: "2024-01-01", Quantity: 10},
		{AthleteID: athleteID, FoodID: foodID, Date: "2024-13-01", Quantity: 10},
		{AthleteID: athleteID, FoodID: foodID, Date: "2024-01-01", Quantity: -5},
		{AthleteID: athleteID, FoodID: foodID, Date: "2024-01-01", Quantity: 1, Unit: "cup"},
		{AthleteID: athleteID, FoodID: "missing", Date: "2024-01-01", Quantity: 1},
	}
	for i, in := range cases {
		if _, err := service.CreateConsumption(ctx, sqldb, in); err == nil {
			t.Fatalf("case %d: expected validation error", i)
		}
	}
	if _, err := service.CreateConsumption(actorCtx("stranger", model.RoleAthlete), sqldb, service.ConsumptionInput{AthleteID: athleteID, FoodID: foodID, Date: "2024-01-01", Quantity: 1}); !errors.Is(err, service.ErrForbidden) {
		t.Fatalf("expected forbidden for another athlete, got %v", err)
	}
	if _, err := service.CreateConsumption(actorCtx(athleteID, model.RoleAthlete), sqldb, service.ConsumptionInput{AthleteID: athleteID, FoodID: foodID, Date: "2024-01-01", Quantity: 1}); err != nil {
		t.Fatalf("athlete logging own consumption: %v", err)
	}
}

func TestListConsumptionsFiltersAndPaginates(t *testing.T) {
	t.Parallel()
	sqldb := newTestDB(t)
	defer sqldb.Close()
	ctx := adminCtx()

	athleteID := mustCreateAthlete(t, sqldb, service.CreateAthleteInput{Name: "Mari"})
	foodID := mustCreateFood(t, sqldb, service.FoodInput{Name: "Iogurte"})
	for _, date := range []string{"2024-04-01", "2024-04-02", "2024-04-03", "2024-04-04"} {
		if _, err := service.CreateConsumption(ctx, sqldb, service.ConsumptionInput{AthleteID: athleteID, FoodID: foodID, Date: date, Quantity: 170}); err != nil {
			t.Fatalf("create consumption %s: %v", date, err)
		}
	}

	page, err := service.ListConsumptions(ctx, sqldb, service.ListConsumptionsFilter{AthleteID: athleteID, FromDate: "2024-04-02", ToDate: "2024-04-04", Limit: 2})
	if err != nil {
		t.Fatalf("list consumptions: %v", err)
	}
	if page.TotalDocs != 3 || len(page.Docs) != 2 {
		t.Fatalf("expected 3 total and 2 docs, got %+v", page)
	}
	if page.Docs[0].Date != "2024-04-04" || page.Docs[1].Date != "2024-04-03" {
		t.Fatalf("expected newest first, got %s, %s", page.Docs[0].Date, page.Docs[1].Date)
	}
	if _, err := service.ListConsumptions(ctx, sqldb, service.ListConsumptionsFilter{}); err == nil {
		t.Fatalf("expected athlete id required error")
	}
}
