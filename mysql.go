package svcmigrate

import "fmt"

func init() {
	providers["mysql"] = &mysqlProvider{}
}

type mysqlProvider struct {
	defaultProvider
}

func (p *mysqlProvider) driverName() string {
	return "mysql"
}

func (p *mysqlProvider) dsn(settings *Settings) (string, error) {
	if settings.Database == "" {
		return "", errDBNameNotProvided
	}
	if settings.User == "" {
		return "", errUserNotProvided
	}

	host := settings.Host
	if host == "" {
		host = "127.0.0.1"
	}
	port := settings.Port
	if port == 0 {
		port = 3306
	}

	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?parseTime=true", settings.User, settings.Password, host, port, settings.Database), nil
}

func (p *mysqlProvider) createHistoryTableQuery(table string) string {
	// no DEFAULT on error_message: mysql TEXT columns can't carry one
	return fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
		version VARCHAR(64) NOT NULL,
		name VARCHAR(255) NOT NULL,
		applied_at DATETIME(3) NOT NULL DEFAULT CURRENT_TIMESTAMP(3),
		execution_time_ms BIGINT UNSIGNED NOT NULL DEFAULT 0,
		checksum VARCHAR(64) NOT NULL,
		success BOOLEAN NOT NULL,
		error_message TEXT NOT NULL
	)`, table)
}
