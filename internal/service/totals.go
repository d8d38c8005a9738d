package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/victormarques-ia/apex/internal/model"
)

type MacroTotals struct {
	Calories float64 `json:"calories"`
	Protein  float64 `json:"protein"`
	Carbs    float64 `json:"carbs"`
	Fat      float64 `json:"fat"`
}

type DateTotals struct {
	MacroTotals
	Consumptions int `json:"consumptions"`
}

type NutritionTotals struct {
	Totals  MacroTotals           `json:"totals"`
	Grouped map[string]DateTotals `json:"grouped,omitempty"`
	Count   int                   `json:"count"`
}

type NutritionTotalsRequest struct {
	AthleteID   string
	From        string
	To          string
	GroupByDate bool
}

type NutritionTotalsReport struct {
	AthleteID         string                `json:"athlete_id"`
	FromDate          string                `json:"from_date"`
	ToDate            string                `json:"to_date"`
	Totals            MacroTotals           `json:"totals"`
	Grouped           map[string]DateTotals `json:"grouped,omitempty"`
	TotalConsumptions int                   `json:"total_consumptions"`
}

// AggregateNutrition sums calories and macros over the records. Each record
// contributes nutrientPer100g * quantity/100; records whose food is unresolved
// contribute nothing but are still counted. Values are rounded to two decimals
// (half away from zero) only after every record has been summed. Grouped is nil
// unless groupByDate is set.
func AggregateNutrition(records []model.Consumption, groupByDate bool) NutritionTotals {
	out := NutritionTotals{Count: len(records)}
	if groupByDate {
		out.Grouped = map[string]DateTotals{}
	}
	for _, r := range records {
		var c MacroTotals
		if r.Food != nil {
			factor := r.QuantityG / 100
			c = MacroTotals{
				Calories: valueOrZero(r.Food.CaloriesPer100g) * factor,
				Protein:  valueOrZero(r.Food.ProteinPer100g) * factor,
				Carbs:    valueOrZero(r.Food.CarbsPer100g) * factor,
				Fat:      valueOrZero(r.Food.FatPer100g) * factor,
			}
		}
		out.Totals.add(c)
		if groupByDate {
			g := out.Grouped[r.Date]
			g.add(c)
			g.Consumptions++
			out.Grouped[r.Date] = g
		}
	}

	out.Totals = out.Totals.rounded()
	for date, g := range out.Grouped {
		g.MacroTotals = g.MacroTotals.rounded()
		out.Grouped[date] = g
	}
	return out
}

// NutritionTotalsFor validates the request, checks access to the athlete and
// aggregates the athlete's consumptions over the inclusive date range.
func NutritionTotalsFor(ctx context.Context, repo Repository, req NutritionTotalsRequest) (*NutritionTotalsReport, error) {
	req.AthleteID = strings.TrimSpace(req.AthleteID)
	if req.AthleteID == "" {
		return nil, fmt.Errorf("athlete id is required")
	}
	from, to, err := parseDateRange(req.From, req.To)
	if err != nil {
		return nil, err
	}
	if _, err := authorizeAthlete(ctx, repo, req.AthleteID); err != nil {
		return nil, err
	}
	records, err := repo.FindConsumptions(ctx, req.AthleteID, from, to)
	if err != nil {
		return nil, fmt.Errorf("find consumptions: %w", err)
	}
	agg := AggregateNutrition(records, req.GroupByDate)
	return &NutritionTotalsReport{
		AthleteID:         req.AthleteID,
		FromDate:          from,
		ToDate:            to,
		Totals:            agg.Totals,
		Grouped:           agg.Grouped,
		TotalConsumptions: agg.Count,
	}, nil
}

func (m *MacroTotals) add(o MacroTotals) {
	m.Calories += o.Calories
	m.Protein += o.Protein
	m.Carbs += o.Carbs
	m.Fat += o.Fat
}

func (m MacroTotals) rounded() MacroTotals {
	return MacroTotals{
		Calories: roundTo2(m.Calories),
		Protein:  roundTo2(m.Protein),
		Carbs:    roundTo2(m.Carbs),
		Fat:      roundTo2(m.Fat),
	}
}

func valueOrZero(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}
