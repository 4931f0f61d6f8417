package database

import (
	"database/sql"
	"fmt"
	"os"
)

const defaultSchemaPath = "docs/schema.sql"

func Migrate(db *sql.DB) error {
	return MigrateFile(db, defaultSchemaPath)
}

func MigrateFile(db *sql.DB, path string) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}

	if _, err := db.Exec(string(b)); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	return nil
}
