package svcmigrate

import "log/slog"

// Settings holds everything the Migrator needs to know at construction
// time. Policy flags live here and only here: the engine never consults
// process environment mid-run, so two differently configured migrators can
// coexist in one process.
type Settings struct {
	// Engine is the database engine name: postgres, mysql or sqlite
	Engine string
	// Database is the database name (or file path for sqlite)
	Database string
	User     string
	Password string
	Host     string
	Port     int

	// Service identifies the owner of the migrations ledger;
	// the ledger table name is derived from it
	Service string

	// MigrationsDir is the directory holding migration files,
	// default is migrations. Relative paths are resolved against the
	// project dir (the closest ancestor of the working directory that
	// contains MigrationsDir as a straight subdir).
	MigrationsDir string

	// ContinueOnFailure makes a run skip past a failed migration instead
	// of halting, leaving the failure recorded in the ledger either way
	ContinueOnFailure bool
	// SkipChecksumValidation disables drift detection for migrations
	// that are already marked successful in the ledger
	SkipChecksumValidation bool
	// ConcurrentScan reads migration files with one goroutine per file;
	// execution order is unaffected, the pending list is re-sorted by
	// version before anything runs
	ConcurrentScan bool

	// Logger for engine progress, slog.Default() when nil
	Logger *slog.Logger

	// MigrationsCh, if set, gets every migration right after it is
	// applied or rolled back. The caller must drain it.
	MigrationsCh chan *MigrationFile
	// ErrorsCh, if set, gets non-fatal errors: skipped files,
	// ledger write failures. The caller must drain it.
	ErrorsCh chan error
}
