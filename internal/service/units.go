package service

import (
	"fmt"
	"strings"
)

var massToGrams = map[string]float64{
	"mg":  0.001,
	"g":   1,
	"kg":  1000,
	"oz":  28.349523125,
	"lb":  453.59237,
	"lbs": 453.59237,
}

// An empty unit means grams.
func ConvertToGrams(value float64, unit string) (float64, error) {
	if err := validateNonNegativeFloat("quantity", value); err != nil {
		return 0, err
	}
	u := strings.ToLower(strings.TrimSpace(unit))
	if u == "" {
		u = "g"
	}
	factor, ok := massToGrams[u]
	if !ok {
		return 0, fmt.Errorf("unsupported unit %q (expected one of mg, g, kg, oz, lb)", unit)
	}
	return value * factor, nil
}
