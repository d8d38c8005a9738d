package app

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const (
	appDirName = "apex"
	dbFileName = "apex.db"
)

// DatabasePath picks the database file: an explicit override (the --db flag),
// then APEX_DB, then apex/apex.db under the user config directory.
func (s Settings) DatabasePath(override string) (string, error) {
	if p := strings.TrimSpace(override); p != "" {
		return p, nil
	}
	if p := strings.TrimSpace(s.DBPath); p != "" {
		return p, nil
	}
	base, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("resolve user config dir: %w", err)
	}
	return filepath.Join(base, appDirName, dbFileName), nil
}

// EnsureDBDir creates the directory holding the database file.
func EnsureDBDir(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("create db directory: %w", err)
	}
	return nil
}
