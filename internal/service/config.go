package service

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"

	"github.com/robfig/cron/v3"
)

const (
	ConfigDefaultPageSize  = "default_page_size"
	ConfigReminderSchedule = "reminder_schedule"
)

var configValidators = map[string]func(string) error{
	ConfigDefaultPageSize: func(v string) error {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 || n > 1000 {
			return fmt.Errorf("%s must be an integer between 1 and 1000", ConfigDefaultPageSize)
		}
		return nil
	},
	ConfigReminderSchedule: func(v string) error {
		if _, err := cron.ParseStandard(v); err != nil {
			return fmt.Errorf("invalid %s %q: %w", ConfigReminderSchedule, v, err)
		}
		return nil
	},
}

func SetConfig(ctx context.Context, db *sql.DB, key, value string) error {
	key = strings.TrimSpace(strings.ToLower(key))
	if key == "" {
		return fmt.Errorf("config key is required")
	}
	value = strings.TrimSpace(value)
	if validate, ok := configValidators[key]; ok {
		if err := validate(value); err != nil {
			return err
		}
	}
	_, err := db.ExecContext(ctx, `
INSERT INTO app_config(key, value, updated_at)
VALUES(?, ?, CURRENT_TIMESTAMP)
ON CONFLICT(key) DO UPDATE SET value=excluded.value, updated_at=excluded.updated_at
`, key, value)
	if err != nil {
		return fmt.Errorf("set config %q: %w", key, err)
	}
	return nil
}

func GetConfig(ctx context.Context, db *sql.DB, key string) (string, bool, error) {
	key = strings.TrimSpace(strings.ToLower(key))
	if key == "" {
		return "", false, fmt.Errorf("config key is required")
	}
	var value string
	err := db.QueryRowContext(ctx, `SELECT value FROM app_config WHERE key = ?`, key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("get config %q: %w", key, err)
	}
	return value, true, nil
}

func ListConfig(ctx context.Context, db *sql.DB) (map[string]string, error) {
	rows, err := db.QueryContext(ctx, `SELECT key, value FROM app_config ORDER BY key ASC`)
	if err != nil {
		return nil, fmt.Errorf("list config: %w", err)
	}
	defer rows.Close()
	out := map[string]string{}
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return nil, fmt.Errorf("scan config: %w", err)
		}
		out[key] = value
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate config: %w", err)
	}
	return out, nil
}

// defaultPageSize falls back to 50 when the key is missing or unreadable.
func defaultPageSize(ctx context.Context, db *sql.DB) int {
	v, ok, err := GetConfig(ctx, db, ConfigDefaultPageSize)
	if err != nil || !ok {
		return 50
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return 50
	}
	return n
}
