package service

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
)

const dateLayout = "2006-01-02"

var ErrNotFound = errors.New("not found")

type Page[T any] struct {
	Docs      []T `json:"docs"`
	TotalDocs int `json:"total_docs"`
	Limit     int `json:"limit"`
	Offset    int `json:"offset"`
}

func validateNonNegativeFloat(name string, value float64) error {
	if math.IsNaN(value) || math.IsInf(value, 0) || value < 0 {
		return fmt.Errorf("%s must be a finite number >= 0", name)
	}
	return nil
}

func validateOptionalNonNegative(name string, value *float64) error {
	if value == nil {
		return nil
	}
	return validateNonNegativeFloat(name, *value)
}

func normalizeName(name string) string {
	return strings.TrimSpace(strings.ToLower(name))
}

func newID() string {
	return uuid.New().String()
}

func parseDate(name, value string) (string, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return "", fmt.Errorf("%s is required", name)
	}
	t, err := time.Parse(dateLayout, value)
	if err != nil {
		return "", fmt.Errorf("invalid %s %q (expected YYYY-MM-DD)", name, value)
	}
	return t.Format(dateLayout), nil
}

func parseDateRange(from, to string) (string, string, error) {
	f, err := parseDate("from date", from)
	if err != nil {
		return "", "", err
	}
	t, err := parseDate("to date", to)
	if err != nil {
		return "", "", err
	}
	if f > t {
		return "", "", fmt.Errorf("from date must be <= to date")
	}
	return f, t, nil
}

func normalizePaging(limit, offset, defaultLimit int) (int, int, error) {
	if offset < 0 {
		return 0, 0, fmt.Errorf("offset must be >= 0")
	}
	if limit <= 0 {
		limit = defaultLimit
	}
	if limit <= 0 {
		limit = 50
	}
	return limit, offset, nil
}

func nullableString(v string) any {
	v = strings.TrimSpace(v)
	if v == "" {
		return nil
	}
	return v
}

func roundTo2(v float64) float64 {
	return math.Round(v*100) / 100
}
