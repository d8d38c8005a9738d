package openfoodfacts

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

const defaultBaseURL = "https://world.openfoodfacts.org"

// FoodLookup carries per-100g nutrition facts. A nil value means the product
// does not declare that nutrient.
type FoodLookup struct {
	Barcode         string
	Description     string
	Brand           string
	CaloriesPer100g *float64
	ProteinPer100g  *float64
	CarbsPer100g    *float64
	FatPer100g      *float64
}

type Client struct {
	BaseURL    string
	HTTPClient *http.Client
}

func (c *Client) LookupBarcode(ctx context.Context, barcode string) (FoodLookup, []byte, error) {
	barcode = strings.TrimSpace(barcode)
	if barcode == "" {
		return FoodLookup{}, nil, fmt.Errorf("barcode is required")
	}
	base := strings.TrimRight(strings.TrimSpace(c.BaseURL), "/")
	if base == "" {
		base = defaultBaseURL
	}
	httpClient := c.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 12 * time.Second}
	}
	endpoint := fmt.Sprintf("%s/api/v2/product/%s.json", base, url.PathEscape(barcode))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return FoodLookup{}, nil, fmt.Errorf("create openfoodfacts request: %w", err)
	}
	req.Header.Set("User-Agent", "apex/1.0 (+https://github.com/victormarques-ia/apex)")

	resp, err := httpClient.Do(req)
	if err != nil {
		return FoodLookup{}, nil, fmt.Errorf("execute openfoodfacts request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return FoodLookup{}, nil, fmt.Errorf("read openfoodfacts response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return FoodLookup{}, body, fmt.Errorf("openfoodfacts request failed with status %d", resp.StatusCode)
	}

	var parsed offResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return FoodLookup{}, body, fmt.Errorf("decode openfoodfacts response: %w", err)
	}
	if parsed.Status != 1 || strings.TrimSpace(parsed.Product.ProductName) == "" {
		return FoodLookup{}, body, fmt.Errorf("no openfoodfacts product found for barcode %q", barcode)
	}

	n := parsed.Product.Nutriments
	return FoodLookup{
		Barcode:         barcode,
		Description:     strings.TrimSpace(parsed.Product.ProductName),
		Brand:           strings.TrimSpace(parsed.Product.Brands),
		CaloriesPer100g: per100g(n, "energy-kcal"),
		ProteinPer100g:  per100g(n, "proteins"),
		CarbsPer100g:    per100g(n, "carbohydrates"),
		FatPer100g:      per100g(n, "fat"),
	}, body, nil
}

// per100g reads "<base>_100g", falling back to the unsuffixed key which Open
// Food Facts also reports per 100g.
func per100g(n map[string]any, base string) *float64 {
	for _, key := range []string{base + "_100g", base} {
		if v, ok := parseFloatAny(n[key]); ok && v >= 0 {
			return &v
		}
	}
	return nil
}

func parseFloatAny(v any) (float64, bool) {
	switch t := v.(type) {
	case float64:
		return t, true
	case float32:
		return float64(t), true
	case int:
		return float64(t), true
	case int64:
		return float64(t), true
	case json.Number:
		f, err := t.Float64()
		return f, err == nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(t), 64)
		return f, err == nil
	default:
		return 0, false
	}
}

type offResponse struct {
	Status  int        `json:"status"`
	Product offProduct `json:"product"`
}

type offProduct struct {
	Code        string         `json:"code"`
	ProductName string         `json:"product_name"`
	Brands      string         `json:"brands"`
	Nutriments  map[string]any `json:"nutriments"`
}
