package svcmigrate

import (
	"fmt"
	"path/filepath"
)

func init() {
	providers["sqlite"] = &sqliteProvider{}
}

type sqliteProvider struct{}

func (p *sqliteProvider) driverName() string {
	return "sqlite3"
}

func (p *sqliteProvider) dsn(settings *Settings) (string, error) {
	if settings.Database == "" {
		return "", errDBNameNotProvided
	}

	if filepath.IsAbs(settings.Database) {
		return settings.Database, nil
	}
	return "./" + settings.Database, nil
}

func (p *sqliteProvider) hasTableQuery() string {
	return "SELECT name FROM sqlite_master WHERE type = 'table' AND name = ?"
}

func (p *sqliteProvider) createHistoryTableQuery(table string) string {
	return fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
		version TEXT NOT NULL,
		name TEXT NOT NULL,
		applied_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
		execution_time_ms BIGINT NOT NULL DEFAULT 0,
		checksum TEXT NOT NULL,
		success BOOLEAN NOT NULL,
		error_message TEXT NOT NULL DEFAULT ''
	)`, table)
}
