package service

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/victormarques-ia/apex/internal/model"
)

type ConsumptionInput struct {
	AthleteID string
	FoodID    string
	Date      string
	Quantity  float64
	Unit      string
	Notes     string
}

type UpdateConsumptionInput struct {
	ID       string
	FoodID   string
	Date     string
	Quantity float64
	Unit     string
	Notes    string
}

type ListConsumptionsFilter struct {
	AthleteID string
	FromDate  string
	ToDate    string
	Limit     int
	Offset    int
}

const consumptionSelect = `
SELECT c.id, c.athlete_id, IFNULL(c.food_id, ''), c.consumed_on, c.quantity_g, IFNULL(c.notes, ''), c.created_at,
  f.id, f.name, f.brand, f.calories_per_100g, f.protein_per_100g, f.carbs_per_100g, f.fat_per_100g, f.source_type, f.source_ref, f.created_at, f.updated_at
FROM consumptions c
LEFT JOIN foods f ON f.id = c.food_id`

func CreateConsumption(ctx context.Context, db *sql.DB, in ConsumptionInput) (string, error) {
	if strings.TrimSpace(in.AthleteID) == "" {
		return "", fmt.Errorf("athlete id is required")
	}
	athlete, err := authorizeAthlete(ctx, NewRepository(db), in.AthleteID)
	if err != nil {
		return "", err
	}
	date, err := parseDate("date", in.Date)
	if err != nil {
		return "", err
	}
	grams, err := ConvertToGrams(in.Quantity, in.Unit)
	if err != nil {
		return "", err
	}
	food, err := GetFood(ctx, db, in.FoodID)
	if err != nil {
		return "", err
	}

	id := newID()
	if _, err := db.ExecContext(ctx, `
INSERT INTO consumptions(id, athlete_id, food_id, consumed_on, quantity_g, notes)
VALUES(?, ?, ?, ?, ?, ?)
`, id, athlete.ID, food.ID, date, grams, strings.TrimSpace(in.Notes)); err != nil {
		return "", fmt.Errorf("insert consumption: %w", err)
	}
	return id, nil
}

func GetConsumption(ctx context.Context, db *sql.DB, id string) (model.Consumption, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return model.Consumption{}, fmt.Errorf("consumption id is required")
	}
	c, err := scanConsumption(db.QueryRowContext(ctx, consumptionSelect+` WHERE c.id = ?`, id))
	if err == sql.ErrNoRows {
		return model.Consumption{}, fmt.Errorf("consumption %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return model.Consumption{}, fmt.Errorf("get consumption %s: %w", id, err)
	}
	if _, err := authorizeAthlete(ctx, NewRepository(db), c.AthleteID); err != nil {
		return model.Consumption{}, err
	}
	return c, nil
}

func ListConsumptions(ctx context.Context, db *sql.DB, f ListConsumptionsFilter) (Page[model.Consumption], error) {
	if strings.TrimSpace(f.AthleteID) == "" {
		return Page[model.Consumption]{}, fmt.Errorf("athlete id is required")
	}
	if _, err := authorizeAthlete(ctx, NewRepository(db), f.AthleteID); err != nil {
		return Page[model.Consumption]{}, err
	}
	limit, offset, err := normalizePaging(f.Limit, f.Offset, defaultPageSize(ctx, db))
	if err != nil {
		return Page[model.Consumption]{}, err
	}

	where := ` WHERE c.athlete_id = ?`
	args := []any{strings.TrimSpace(f.AthleteID)}
	if strings.TrimSpace(f.FromDate) != "" {
		from, err := parseDate("from date", f.FromDate)
		if err != nil {
			return Page[model.Consumption]{}, err
		}
		where += ` AND c.consumed_on >= ?`
		args = append(args, from)
	}
	if strings.TrimSpace(f.ToDate) != "" {
		to, err := parseDate("to date", f.ToDate)
		if err != nil {
			return Page[model.Consumption]{}, err
		}
		where += ` AND c.consumed_on <= ?`
		args = append(args, to)
	}

	page := Page[model.Consumption]{Limit: limit, Offset: offset}
	if err := db.QueryRowContext(ctx, `SELECT COUNT(1) FROM consumptions c`+where, args...).Scan(&page.TotalDocs); err != nil {
		return page, fmt.Errorf("count consumptions: %w", err)
	}
	items, err := queryConsumptions(ctx, db, consumptionSelect+where+` ORDER BY c.consumed_on DESC, c.created_at DESC, c.id ASC LIMIT ? OFFSET ?`, append(args, limit, offset)...)
	if err != nil {
		return page, err
	}
	page.Docs = items
	return page, nil
}

func UpdateConsumption(ctx context.Context, db *sql.DB, in UpdateConsumptionInput) error {
	current, err := GetConsumption(ctx, db, in.ID)
	if err != nil {
		return err
	}
	date, err := parseDate("date", in.Date)
	if err != nil {
		return err
	}
	grams, err := ConvertToGrams(in.Quantity, in.Unit)
	if err != nil {
		return err
	}
	foodID := strings.TrimSpace(in.FoodID)
	if foodID == "" {
		foodID = current.FoodID
	} else if _, err := GetFood(ctx, db, foodID); err != nil {
		return err
	}
	res, err := db.ExecContext(ctx, `
UPDATE consumptions
SET food_id = ?, consumed_on = ?, quantity_g = ?, notes = ?, updated_at = CURRENT_TIMESTAMP
WHERE id = ?
`, nullableString(foodID), date, grams, strings.TrimSpace(in.Notes), current.ID)
	if err != nil {
		return fmt.Errorf("update consumption %s: %w", current.ID, err)
	}
	return requireAffected(res, "consumption", current.ID)
}

func DeleteConsumption(ctx context.Context, db *sql.DB, id string) error {
	current, err := GetConsumption(ctx, db, id)
	if err != nil {
		return err
	}
	res, err := db.ExecContext(ctx, `DELETE FROM consumptions WHERE id = ?`, current.ID)
	if err != nil {
		return fmt.Errorf("delete consumption %s: %w", current.ID, err)
	}
	return requireAffected(res, "consumption", current.ID)
}

func findConsumptions(ctx context.Context, db *sql.DB, athleteID, from, to string) ([]model.Consumption, error) {
	return queryConsumptions(ctx, db, consumptionSelect+`
WHERE c.athlete_id = ? AND c.consumed_on >= ? AND c.consumed_on <= ?
ORDER BY c.consumed_on ASC, c.created_at ASC, c.id ASC`, athleteID, from, to)
}

func queryConsumptions(ctx context.Context, db *sql.DB, query string, args ...any) ([]model.Consumption, error) {
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query consumptions: %w", err)
	}
	defer rows.Close()

	items := make([]model.Consumption, 0)
	for rows.Next() {
		c, err := scanConsumption(rows)
		if err != nil {
			return nil, fmt.Errorf("scan consumption: %w", err)
		}
		items = append(items, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate consumptions: %w", err)
	}
	return items, nil
}

func scanConsumption(row rowScanner) (model.Consumption, error) {
	var c model.Consumption
	var createdRaw string
	var foodID, foodName, foodBrand, foodSourceType, foodSourceRef sql.NullString
	var calories, protein, carbs, fat sql.NullFloat64
	var foodCreated, foodUpdated sql.NullString
	if err := row.Scan(&c.ID, &c.AthleteID, &c.FoodID, &c.Date, &c.QuantityG, &c.Notes, &createdRaw,
		&foodID, &foodName, &foodBrand, &calories, &protein, &carbs, &fat, &foodSourceType, &foodSourceRef, &foodCreated, &foodUpdated); err != nil {
		return model.Consumption{}, err
	}
	c.CreatedAt = parseTimestamp(createdRaw)
	if foodID.Valid {
		c.Food = &model.Food{
			ID:              foodID.String,
			Name:            foodName.String,
			Brand:           foodBrand.String,
			CaloriesPer100g: floatPtr(calories),
			ProteinPer100g:  floatPtr(protein),
			CarbsPer100g:    floatPtr(carbs),
			FatPer100g:      floatPtr(fat),
			SourceType:      foodSourceType.String,
			SourceRef:       foodSourceRef.String,
			CreatedAt:       parseTimestamp(foodCreated.String),
			UpdatedAt:       parseTimestamp(foodUpdated.String),
		}
	}
	return c, nil
}
