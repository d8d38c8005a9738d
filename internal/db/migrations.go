package db

import (
	"database/sql"
	"fmt"
)

type migration struct {
	version int
	name    string
	sql     string
}

var migrations = []migration{
	{
		version: 1,
		name:    "initial_schema",
		sql: `
CREATE TABLE IF NOT EXISTS staff (
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  role TEXT NOT NULL CHECK(role IN ('agency', 'trainer', 'nutritionist')),
  agency_id TEXT REFERENCES staff(id) ON DELETE SET NULL,
  created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS athletes (
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  trainer_id TEXT REFERENCES staff(id) ON DELETE SET NULL,
  nutritionist_id TEXT REFERENCES staff(id) ON DELETE SET NULL,
  agency_id TEXT REFERENCES staff(id) ON DELETE SET NULL,
  created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_athletes_trainer_id ON athletes(trainer_id);
CREATE INDEX IF NOT EXISTS idx_athletes_nutritionist_id ON athletes(nutritionist_id);
CREATE INDEX IF NOT EXISTS idx_athletes_agency_id ON athletes(agency_id);

CREATE TABLE IF NOT EXISTS foods (
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  name_norm TEXT NOT NULL,
  brand TEXT NOT NULL DEFAULT '',
  calories_per_100g REAL CHECK(calories_per_100g >= 0),
  protein_per_100g REAL CHECK(protein_per_100g >= 0),
  carbs_per_100g REAL CHECK(carbs_per_100g >= 0),
  fat_per_100g REAL CHECK(fat_per_100g >= 0),
  source_type TEXT NOT NULL DEFAULT 'manual',
  source_ref TEXT NOT NULL DEFAULT '',
  created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
  updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_foods_name_norm ON foods(name_norm);

CREATE TABLE IF NOT EXISTS consumptions (
  id TEXT PRIMARY KEY,
  athlete_id TEXT NOT NULL REFERENCES athletes(id) ON DELETE CASCADE,
  food_id TEXT REFERENCES foods(id) ON DELETE SET NULL,
  consumed_on TEXT NOT NULL,
  quantity_g REAL NOT NULL CHECK(quantity_g >= 0),
  notes TEXT,
  created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
  updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_consumptions_athlete_date ON consumptions(athlete_id, consumed_on);
`,
	},
	{
		version: 2,
		name:    "plans",
		sql: `
CREATE TABLE IF NOT EXISTS diet_plans (
  id TEXT PRIMARY KEY,
  athlete_id TEXT NOT NULL REFERENCES athletes(id) ON DELETE CASCADE,
  name TEXT NOT NULL,
  start_date TEXT NOT NULL,
  end_date TEXT NOT NULL,
  notes TEXT,
  created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
  CHECK(start_date <= end_date)
);

CREATE INDEX IF NOT EXISTS idx_diet_plans_athlete_window ON diet_plans(athlete_id, start_date, end_date);

CREATE TABLE IF NOT EXISTS diet_plan_days (
  id TEXT PRIMARY KEY,
  diet_plan_id TEXT NOT NULL REFERENCES diet_plans(id) ON DELETE CASCADE,
  weekday INTEGER CHECK(weekday >= 0 AND weekday <= 6),
  label TEXT NOT NULL DEFAULT '',
  created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_diet_plan_days_plan ON diet_plan_days(diet_plan_id);

CREATE TABLE IF NOT EXISTS meals (
  id TEXT PRIMARY KEY,
  diet_plan_day_id TEXT NOT NULL REFERENCES diet_plan_days(id) ON DELETE CASCADE,
  meal_type TEXT NOT NULL DEFAULT '',
  scheduled_time TEXT,
  notes TEXT,
  position INTEGER NOT NULL DEFAULT 0,
  created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_meals_day ON meals(diet_plan_day_id, position);

CREATE TABLE IF NOT EXISTS workout_plans (
  id TEXT PRIMARY KEY,
  athlete_id TEXT NOT NULL REFERENCES athletes(id) ON DELETE CASCADE,
  name TEXT NOT NULL,
  goal TEXT,
  start_date TEXT NOT NULL,
  end_date TEXT NOT NULL,
  notes TEXT,
  created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
  CHECK(start_date <= end_date)
);

CREATE INDEX IF NOT EXISTS idx_workout_plans_athlete_window ON workout_plans(athlete_id, start_date, end_date);
`,
	},
	{
		version: 3,
		name:    "app_config",
		sql: `
CREATE TABLE IF NOT EXISTS app_config (
  key TEXT PRIMARY KEY,
  value TEXT NOT NULL,
  updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);
`,
	},
}

var defaultConfig = map[string]string{
	"default_page_size": "50",
	"reminder_schedule": "0 6 * * *",
}

func ApplyMigrations(db *sql.DB) error {
	if _, err := db.Exec(`
CREATE TABLE IF NOT EXISTS schema_migrations (
  version INTEGER PRIMARY KEY,
  name TEXT NOT NULL,
  applied_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);
`); err != nil {
		return fmt.Errorf("ensure schema_migrations table: %w", err)
	}

	for _, m := range migrations {
		var exists int
		err := db.QueryRow(`SELECT 1 FROM schema_migrations WHERE version = ?`, m.version).Scan(&exists)
		if err == nil {
			continue
		}
		if err != sql.ErrNoRows {
			return fmt.Errorf("check migration version %d: %w", m.version, err)
		}

		tx, err := db.Begin()
		if err != nil {
			return fmt.Errorf("begin migration tx: %w", err)
		}

		if _, err := tx.Exec(m.sql); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("apply migration version %d (%s): %w", m.version, m.name, err)
		}
		if _, err := tx.Exec(`INSERT INTO schema_migrations(version, name) VALUES(?, ?)`, m.version, m.name); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("record migration version %d: %w", m.version, err)
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("commit migration version %d: %w", m.version, err)
		}
	}

	for key, value := range defaultConfig {
		if _, err := db.Exec(`INSERT OR IGNORE INTO app_config(key, value) VALUES(?, ?)`, key, value); err != nil {
			return fmt.Errorf("seed config %q: %w", key, err)
		}
	}
	return nil
}
