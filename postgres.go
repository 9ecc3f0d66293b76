package svcmigrate

import (
	"fmt"
	"strconv"
	"strings"
)

func init() {
	providers["postgres"] = &postgresProvider{}
}

type postgresProvider struct {
	defaultProvider
}

func (p *postgresProvider) driverName() string {
	return "postgres"
}

func (p *postgresProvider) dsn(settings *Settings) (string, error) {
	if settings.Database == "" {
		return "", errDBNameNotProvided
	}
	if settings.User == "" {
		return "", errUserNotProvided
	}

	kvs := []string{"dbname=" + settings.Database, "user=" + settings.User}

	if settings.Password != "" {
		kvs = append(kvs, "password="+settings.Password)
	}
	if settings.Host != "" {
		kvs = append(kvs, "host="+settings.Host)
	}
	if settings.Port != 0 {
		kvs = append(kvs, "port="+strconv.Itoa(settings.Port))
	}

	return strings.Join(kvs, " "), nil
}

func (p *postgresProvider) setPlaceholders(s string) string {
	counter := 0
	for strings.Contains(s, "?") {
		counter++
		s = strings.Replace(s, "?", fmt.Sprintf("$%d", counter), 1)
	}
	return s
}

func (p *postgresProvider) createHistoryTableQuery(table string) string {
	return fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
		version TEXT NOT NULL,
		name TEXT NOT NULL,
		applied_at TIMESTAMPTZ(3) NOT NULL DEFAULT now(),
		execution_time_ms BIGINT NOT NULL DEFAULT 0,
		checksum TEXT NOT NULL,
		success BOOLEAN NOT NULL,
		error_message TEXT NOT NULL DEFAULT ''
	)`, table)
}
