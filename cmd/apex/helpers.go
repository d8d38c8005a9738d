package apex

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/victormarques-ia/apex/internal/app"
	"github.com/victormarques-ia/apex/internal/db"
)

func withDB(cmd *cobra.Command, run func(context.Context, *sql.DB) error) error {
	path, err := resolveDBPath()
	if err != nil {
		return err
	}
	if err := app.EnsureDBDir(path); err != nil {
		return err
	}
	sqldb, err := db.Open(path)
	if err != nil {
		return err
	}
	defer sqldb.Close()

	if err := db.ApplyMigrations(sqldb); err != nil {
		return err
	}
	log.Debug("database ready", zap.String("path", path))
	return run(cmd.Context(), sqldb)
}

func resolveDBPath() (string, error) {
	return settings.DatabasePath(dbPath)
}

// optionalFloat returns nil unless the flag was set on the command line.
func optionalFloat(cmd *cobra.Command, name string, value float64) *float64 {
	if !cmd.Flags().Changed(name) {
		return nil
	}
	return &value
}

func optionalString(cmd *cobra.Command, name, value string) *string {
	if !cmd.Flags().Changed(name) {
		return nil
	}
	return &value
}

func dateOrToday(date string) (time.Time, error) {
	date = strings.TrimSpace(date)
	if date == "" {
		now := time.Now()
		return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.Local), nil
	}
	t, err := time.ParseInLocation("2006-01-02", date, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid --date %q (expected YYYY-MM-DD)", date)
	}
	return t, nil
}

var weekdayNames = map[string]time.Weekday{
	"sunday":    time.Sunday,
	"monday":    time.Monday,
	"tuesday":   time.Tuesday,
	"wednesday": time.Wednesday,
	"thursday":  time.Thursday,
	"friday":    time.Friday,
	"saturday":  time.Saturday,
}

// parseWeekday accepts 0-6 (Sunday first) or an English day name.
func parseWeekday(value string) (time.Weekday, error) {
	v := strings.TrimSpace(strings.ToLower(value))
	if n, err := strconv.Atoi(v); err == nil {
		if n < 0 || n > 6 {
			return 0, fmt.Errorf("invalid --weekday %q (use 0-6 or a day name)", value)
		}
		return time.Weekday(n), nil
	}
	if d, ok := weekdayNames[v]; ok {
		return d, nil
	}
	if len(v) >= 3 {
		for name, d := range weekdayNames {
			if strings.HasPrefix(name, v) {
				return d, nil
			}
		}
	}
	return 0, fmt.Errorf("invalid --weekday %q (use 0-6 or a day name)", value)
}

func writeJSON(w io.Writer, v any) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal json: %w", err)
	}
	fmt.Fprintln(w, string(b))
	return nil
}

func formatOptional(v *float64) string {
	if v == nil {
		return "-"
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}
