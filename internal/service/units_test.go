package service_test

import (
	"math"
	"testing"

	"github.com/victormarques-ia/apex/internal/service"
)

func TestConvertToGrams(t *testing.T) {
	t.Parallel()
	cases := []struct {
		value float64
		unit  string
		want  float64
	}{
		{value: 150, unit: "", want: 150},
		{value: 1.5, unit: "kg", want: 1500},
		{value: 500, unit: "mg", want: 0.5},
		{value: 4, unit: "OZ", want: 113.3981},
		{value: 1, unit: "lbs", want: 453.5924},
	}
	for _, tc := range cases {
		got, err := service.ConvertToGrams(tc.value, tc.unit)
		if err != nil {
			t.Fatalf("convert %v %s: %v", tc.value, tc.unit, err)
		}
		if math.Abs(got-tc.want) > 0.001 {
			t.Fatalf("convert %v %s: expected %.4f, got %.4f", tc.value, tc.unit, tc.want, got)
		}
	}
}

func TestConvertToGramsRejectsInvalidQuantities(t *testing.T) {
	t.Parallel()
	if _, err := service.ConvertToGrams(1, "cup"); err == nil {
		t.Fatalf("expected unsupported unit error")
	}
	if _, err := service.ConvertToGrams(-1, "g"); err == nil {
		t.Fatalf("expected negative quantity error")
	}
	for _, v := range []float64{math.Inf(1), math.Inf(-1), math.NaN()} {
		if _, err := service.ConvertToGrams(v, "g"); err == nil {
			t.Fatalf("expected error for quantity %v", v)
		}
	}
}
