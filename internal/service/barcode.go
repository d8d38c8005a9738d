package service

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/victormarques-ia/apex/internal/model"
	"github.com/victormarques-ia/apex/internal/provider/openfoodfacts"
)

type BarcodeLookup interface {
	LookupBarcode(ctx context.Context, barcode string) (openfoodfacts.FoodLookup, []byte, error)
}

// ImportFoodByBarcode creates a food from a barcode lookup. A food already
// imported for the same barcode is returned as is.
func ImportFoodByBarcode(ctx context.Context, db *sql.DB, lookup BarcodeLookup, barcode string) (model.Food, bool, error) {
	if err := requireFoodEditor(ctx); err != nil {
		return model.Food{}, false, err
	}
	barcode = strings.TrimSpace(barcode)
	if barcode == "" {
		return model.Food{}, false, fmt.Errorf("barcode is required")
	}

	var existingID string
	err := db.QueryRowContext(ctx, `SELECT id FROM foods WHERE source_type = 'openfoodfacts' AND source_ref = ?`, barcode).Scan(&existingID)
	if err == nil {
		f, err := GetFood(ctx, db, existingID)
		return f, false, err
	}
	if err != sql.ErrNoRows {
		return model.Food{}, false, fmt.Errorf("lookup imported food %s: %w", barcode, err)
	}

	item, _, err := lookup.LookupBarcode(ctx, barcode)
	if err != nil {
		return model.Food{}, false, err
	}
	id, err := CreateFood(ctx, db, FoodInput{
		Name:            item.Description,
		Brand:           item.Brand,
		CaloriesPer100g: item.CaloriesPer100g,
		ProteinPer100g:  item.ProteinPer100g,
		CarbsPer100g:    item.CarbsPer100g,
		FatPer100g:      item.FatPer100g,
		SourceType:      "openfoodfacts",
		SourceRef:       barcode,
	})
	if err != nil {
		return model.Food{}, false, err
	}
	f, err := GetFood(ctx, db, id)
	return f, true, err
}
