package service

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/victormarques-ia/apex/internal/identity"
	"github.com/victormarques-ia/apex/internal/model"
)

type FoodInput struct {
	Name            string
	Brand           string
	CaloriesPer100g *float64
	ProteinPer100g  *float64
	CarbsPer100g    *float64
	FatPer100g      *float64
	SourceType      string
	SourceRef       string
}

type UpdateFoodInput struct {
	ID string
	FoodInput
}

type ListFoodsFilter struct {
	Query  string
	Limit  int
	Offset int
}

const foodColumns = `id, name, brand, calories_per_100g, protein_per_100g, carbs_per_100g, fat_per_100g, source_type, source_ref, created_at, updated_at`

func CreateFood(ctx context.Context, db *sql.DB, in FoodInput) (string, error) {
	if err := requireFoodEditor(ctx); err != nil {
		return "", err
	}
	in, err := normalizeFoodInput(in)
	if err != nil {
		return "", err
	}
	id := newID()
	if _, err := db.ExecContext(ctx, `
INSERT INTO foods(id, name, name_norm, brand, calories_per_100g, protein_per_100g, carbs_per_100g, fat_per_100g, source_type, source_ref)
VALUES(?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
`, id, in.Name, normalizeName(in.Name), in.Brand, in.CaloriesPer100g, in.ProteinPer100g, in.CarbsPer100g, in.FatPer100g, in.SourceType, in.SourceRef); err != nil {
		return "", fmt.Errorf("insert food: %w", err)
	}
	return id, nil
}

func GetFood(ctx context.Context, db *sql.DB, id string) (model.Food, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return model.Food{}, fmt.Errorf("food id is required")
	}
	row := db.QueryRowContext(ctx, `SELECT `+foodColumns+` FROM foods WHERE id = ?`, id)
	f, err := scanFood(row)
	if err == sql.ErrNoRows {
		return model.Food{}, fmt.Errorf("food %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return model.Food{}, fmt.Errorf("get food %s: %w", id, err)
	}
	return f, nil
}

func ListFoods(ctx context.Context, db *sql.DB, f ListFoodsFilter) (Page[model.Food], error) {
	limit, offset, err := normalizePaging(f.Limit, f.Offset, defaultPageSize(ctx, db))
	if err != nil {
		return Page[model.Food]{}, err
	}
	where := ` WHERE 1=1`
	args := make([]any, 0)
	if q := normalizeName(f.Query); q != "" {
		where += ` AND name_norm LIKE ?`
		args = append(args, "%"+q+"%")
	}

	page := Page[model.Food]{Limit: limit, Offset: offset}
	if err := db.QueryRowContext(ctx, `SELECT COUNT(1) FROM foods`+where, args...).Scan(&page.TotalDocs); err != nil {
		return page, fmt.Errorf("count foods: %w", err)
	}
	rows, err := db.QueryContext(ctx, `SELECT `+foodColumns+` FROM foods`+where+` ORDER BY name_norm ASC, id ASC LIMIT ? OFFSET ?`, append(args, limit, offset)...)
	if err != nil {
		return page, fmt.Errorf("list foods: %w", err)
	}
	defer rows.Close()

	page.Docs = make([]model.Food, 0)
	for rows.Next() {
		item, err := scanFood(rows)
		if err != nil {
			return page, fmt.Errorf("scan food: %w", err)
		}
		page.Docs = append(page.Docs, item)
	}
	if err := rows.Err(); err != nil {
		return page, fmt.Errorf("iterate foods: %w", err)
	}
	return page, nil
}

func UpdateFood(ctx context.Context, db *sql.DB, in UpdateFoodInput) error {
	if err := requireFoodEditor(ctx); err != nil {
		return err
	}
	in.ID = strings.TrimSpace(in.ID)
	if in.ID == "" {
		return fmt.Errorf("food id is required")
	}
	normalized, err := normalizeFoodInput(in.FoodInput)
	if err != nil {
		return err
	}
	res, err := db.ExecContext(ctx, `
UPDATE foods
SET name = ?, name_norm = ?, brand = ?, calories_per_100g = ?, protein_per_100g = ?, carbs_per_100g = ?, fat_per_100g = ?, source_type = ?, source_ref = ?, updated_at = CURRENT_TIMESTAMP
WHERE id = ?
`, normalized.Name, normalizeName(normalized.Name), normalized.Brand, normalized.CaloriesPer100g, normalized.ProteinPer100g, normalized.CarbsPer100g, normalized.FatPer100g, normalized.SourceType, normalized.SourceRef, in.ID)
	if err != nil {
		return fmt.Errorf("update food %s: %w", in.ID, err)
	}
	return requireAffected(res, "food", in.ID)
}

// DeleteFood removes a food. Consumptions that referenced it keep their rows
// with an unresolved food reference.
func DeleteFood(ctx context.Context, db *sql.DB, id string) error {
	if err := requireFoodEditor(ctx); err != nil {
		return err
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return fmt.Errorf("food id is required")
	}
	res, err := db.ExecContext(ctx, `DELETE FROM foods WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete food %s: %w", id, err)
	}
	return requireAffected(res, "food", id)
}

func normalizeFoodInput(in FoodInput) (FoodInput, error) {
	in.Name = strings.TrimSpace(in.Name)
	if in.Name == "" {
		return in, fmt.Errorf("food name is required")
	}
	in.Brand = strings.TrimSpace(in.Brand)
	if err := validateOptionalNonNegative("calories per 100g", in.CaloriesPer100g); err != nil {
		return in, err
	}
	if err := validateOptionalNonNegative("protein per 100g", in.ProteinPer100g); err != nil {
		return in, err
	}
	if err := validateOptionalNonNegative("carbs per 100g", in.CarbsPer100g); err != nil {
		return in, err
	}
	if err := validateOptionalNonNegative("fat per 100g", in.FatPer100g); err != nil {
		return in, err
	}
	in.SourceType = strings.TrimSpace(strings.ToLower(in.SourceType))
	if in.SourceType == "" {
		in.SourceType = "manual"
	}
	in.SourceRef = strings.TrimSpace(in.SourceRef)
	return in, nil
}

func requireFoodEditor(ctx context.Context) error {
	actor, err := identity.FromContext(ctx)
	if err != nil {
		return err
	}
	if !hasRole(actor, []model.Role{model.RoleAgency, model.RoleNutritionist}) {
		return fmt.Errorf("role %s cannot edit foods: %w", actor.Role, ErrForbidden)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanFood(row rowScanner) (model.Food, error) {
	var f model.Food
	var calories, protein, carbs, fat sql.NullFloat64
	var createdRaw, updatedRaw string
	if err := row.Scan(&f.ID, &f.Name, &f.Brand, &calories, &protein, &carbs, &fat, &f.SourceType, &f.SourceRef, &createdRaw, &updatedRaw); err != nil {
		return model.Food{}, err
	}
	f.CaloriesPer100g = floatPtr(calories)
	f.ProteinPer100g = floatPtr(protein)
	f.CarbsPer100g = floatPtr(carbs)
	f.FatPer100g = floatPtr(fat)
	f.CreatedAt = parseTimestamp(createdRaw)
	f.UpdatedAt = parseTimestamp(updatedRaw)
	return f, nil
}

func floatPtr(v sql.NullFloat64) *float64 {
	if !v.Valid {
		return nil
	}
	f := v.Float64
	return &f
}

func requireAffected(res sql.Result, kind, id string) error {
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("read rows affected for %s %s: %w", kind, id, err)
	}
	if affected == 0 {
		return fmt.Errorf("%s %s: %w", kind, id, ErrNotFound)
	}
	return nil
}
