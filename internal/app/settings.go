package app

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Settings are read from the environment, optionally seeded from a .env file.
type Settings struct {
	DBPath    string `env:"APEX_DB"`
	LogLevel  string `env:"APEX_LOG_LEVEL" envDefault:"warn"`
	ActorID   string `env:"APEX_ACTOR_ID"`
	ActorRole string `env:"APEX_ACTOR_ROLE" envDefault:"admin"`

	OpenFoodFactsURL string `env:"APEX_OPENFOODFACTS_URL"`
}

// LoadSettings loads dotenv files (missing files are ignored) and parses the
// environment. Variables already set in the environment win over dotenv values.
func LoadSettings(dotenvFiles ...string) (Settings, error) {
	if len(dotenvFiles) == 0 {
		dotenvFiles = []string{".env"}
	}
	for _, f := range dotenvFiles {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Settings{}, fmt.Errorf("load %s: %w", f, err)
		}
	}
	var s Settings
	if err := env.Parse(&s); err != nil {
		return Settings{}, fmt.Errorf("parse env: %w", err)
	}
	return s, nil
}
