package svcmigrate

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/pkg/errors"
)

// Migrator is the schema migration engine for one service. It owns the
// database handle and passes it to each sub-step; no sub-step holds it
// past its own call. One run at a time: mutual exclusion across processes
// is the deployment's job, not the engine's.
type Migrator struct {
	// MigrationsCh gets every migration right after it is applied or
	// rolled back, when set
	MigrationsCh chan *MigrationFile
	// ErrorsCh gets non-fatal errors (skipped files, ledger write
	// failures), when set
	ErrorsCh chan error

	// Engine is the database engine name used by this migrator
	Engine string

	service       string
	projectDir    string
	migrationsDir string

	continueOnFailure      bool
	skipChecksumValidation bool
	concurrentScan         bool

	log     *slog.Logger
	history *historyStore
}

// NewMigrator returns a migrator set up from settings. The ledger table is
// created right away if it does not exist, it is the one piece of schema
// the engine owns unconditionally.
func NewMigrator(settings *Settings) (*Migrator, error) {
	if settings.Engine == "" {
		return nil, errors.New("database engine not specified")
	}
	provider, ok := providers[settings.Engine]
	if !ok {
		return nil, errors.Errorf("unknown database engine %s", settings.Engine)
	}
	if settings.Database == "" {
		return nil, errors.New("database name not specified")
	}
	if err := validServiceName(settings.Service); err != nil {
		return nil, err
	}

	m := &Migrator{
		MigrationsCh:           settings.MigrationsCh,
		ErrorsCh:               settings.ErrorsCh,
		Engine:                 settings.Engine,
		service:                settings.Service,
		migrationsDir:          settings.MigrationsDir,
		continueOnFailure:      settings.ContinueOnFailure,
		skipChecksumValidation: settings.SkipChecksumValidation,
		concurrentScan:         settings.ConcurrentScan,
		log:                    settings.Logger,
	}
	if m.migrationsDir == "" {
		m.migrationsDir = "migrations"
	}
	if m.log == nil {
		m.log = slog.Default()
	}

	if !filepath.IsAbs(m.migrationsDir) {
		wd, err := os.Getwd()
		if err != nil {
			return nil, errors.Wrap(err, "can't get working directory")
		}
		m.projectDir, err = findProjectDir(wd, m.migrationsDir)
		if err != nil {
			return nil, err
		}
	}

	m.history = newHistoryStore(settings, provider)
	if err := m.history.open(settings); err != nil {
		return nil, err
	}

	if err := m.history.ensureHistoryTable(); err != nil {
		m.history.close()
		return nil, err
	}

	return m, nil
}

// Close frees resources acquired by the migrator.
func (m *Migrator) Close() error {
	return m.history.close()
}

func (m *Migrator) migrationsDirPath() string {
	if filepath.IsAbs(m.migrationsDir) {
		return m.migrationsDir
	}
	return filepath.Join(m.projectDir, m.migrationsDir)
}

// Migrate scans the migrations dir, validates the discovered set against
// the ledger and applies every pending migration in ascending version
// order, strictly one at a time. Every attempt lands in the ledger,
// failures included. A validation error aborts the run before any SQL
// executes. With ContinueOnFailure unset (the default) the run halts at
// the first failed migration, leaving the rest un-attempted for the next
// run.
func (m *Migrator) Migrate() (*MigrationSummary, error) {
	start := time.Now()
	summary := &MigrationSummary{}

	files, err := m.scanMigrationFiles()
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		m.log.Warn("no migration files found", "dir", m.migrationsDirPath())
		return summary, nil
	}

	if err = checkDuplicateVersions(files); err != nil {
		return nil, err
	}

	if !m.skipChecksumValidation {
		applied, err := m.history.appliedChecksums()
		if err != nil {
			return nil, err
		}
		if err = checkChecksums(files, applied, m.log); err != nil {
			return nil, err
		}
	}

	applied, err := m.history.appliedVersions()
	if err != nil {
		return nil, err
	}

	pending := sortedPending(files, applied)
	if len(pending) == 0 {
		m.log.Info("no pending migrations")
		return summary, nil
	}
	m.log.Info("found pending migrations", "count", len(pending))

	for _, migration := range pending {
		record, err := m.apply(migration)
		if err != nil {
			summary.Failed = append(summary.Failed, FailedMigration{
				Version: migration.Version,
				Name:    migration.Name,
				Error:   err.Error(),
			})
			if !m.continueOnFailure {
				m.log.Error("halting run after failed migration", "version", migration.Version)
				break
			}
			continue
		}

		summary.Successful = append(summary.Successful, record)
		if m.MigrationsCh != nil {
			m.MigrationsCh <- migration
		}
	}

	summary.TotalTime = time.Since(start)
	return summary, nil
}

// apply executes one migration and records the attempt in the ledger
// whatever the outcome. A ledger write failure is a warning, not a run
// failure: the ledger is then behind reality and the next run will
// observe and correct that.
func (m *Migrator) apply(migration *MigrationFile) (*MigrationRecord, error) {
	m.log.Info("executing migration", "version", migration.Version, "name", migration.Name)

	start := time.Now()
	var execErr error
	if migration.IsBaseline {
		m.log.Info("baseline migration, skipping SQL execution", "version", migration.Version)
	} else {
		execErr = errors.Wrapf(m.execStatements(migration.UpSQL),
			"can't apply migration %s (%s)", migration.Version, migration.Name)
	}
	elapsed := time.Since(start)

	record := &MigrationRecord{
		Version:         migration.Version,
		Name:            migration.Name,
		AppliedAt:       time.Now().UTC().Truncate(time.Millisecond),
		ExecutionTimeMs: uint64(elapsed.Milliseconds()),
		Checksum:        migration.Checksum,
		Success:         execErr == nil,
	}
	if execErr != nil {
		record.ErrorMessage = execErr.Error()
	}

	if err := m.history.insertRecord(record); err != nil {
		m.log.Warn("can't record migration attempt in ledger", "version", migration.Version, "error", err)
		m.emitError(err)
	}

	if execErr != nil {
		m.log.Error("migration failed", "version", migration.Version, "duration_ms", elapsed.Milliseconds(), "error", execErr)
		return nil, execErr
	}

	m.log.Info("migration applied", "version", migration.Version, "duration_ms", elapsed.Milliseconds())
	return record, nil
}

// execStatements runs each statement of a migration body in order.
// Statements execute individually: engines without transactional DDL
// can't be given cross-statement atomicity, so none is pretended.
func (m *Migrator) execStatements(body string) error {
	statements := SplitStatements(body)
	for i, statement := range statements {
		m.log.Debug("executing statement", "statement", statementPreview(statement), "n", i+1, "of", len(statements))
		if _, err := m.history.db.Exec(statement); err != nil {
			return errors.Wrapf(err, "statement %d/%d (%s)", i+1, len(statements), statementPreview(statement))
		}
	}
	return nil
}

func statementPreview(statement string) string {
	if len(statement) > 100 {
		return statement[:100] + "..."
	}
	return statement
}

// scanMigrationFiles reads every .sql file in the migrations dir into a
// version-keyed map. A file that does not parse is skipped with a
// warning, one malformed file does not abort discovery of the rest. Two
// files with the byte-identical version string are a hard error, never a
// silent override.
func (m *Migrator) scanMigrationFiles() (map[string]*MigrationFile, error) {
	dir := m.migrationsDirPath()
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			m.log.Warn("migrations dir does not exist", "dir", dir)
			return map[string]*MigrationFile{}, nil
		}
		return nil, errors.Wrapf(err, "can't read migrations dir %s", dir)
	}

	var names []string
	for _, entry := range entries {
		if entry.IsDir() || !strings.EqualFold(filepath.Ext(entry.Name()), ".sql") {
			continue
		}
		names = append(names, entry.Name())
	}

	files := make(map[string]*MigrationFile, len(names))
	for _, content := range m.readMigrationFiles(dir, names) {
		if content.err != nil {
			m.log.Warn("can't read migration file", "file", content.name, "error", content.err)
			m.emitError(content.err)
			continue
		}

		migration, err := parseMigrationFile(content.name, string(content.data))
		if err != nil {
			m.log.Warn("skipping migration file", "file", content.name, "error", err)
			m.emitError(err)
			continue
		}

		if _, ok := files[migration.Version]; ok {
			return nil, errors.Errorf("duplicate migration version %s", migration.Version)
		}
		files[migration.Version] = migration
	}

	m.log.Debug("scanned migration files", "count", len(files))
	return files, nil
}

type migrationContent struct {
	name string
	data []byte
	err  error
}

// readMigrationFiles loads file contents, fanning out one goroutine per
// file when concurrent scanning is on. Files are independent, so the only
// shared state is the merged result slice; ordering does not matter here,
// the pending list is re-sorted by version before execution.
func (m *Migrator) readMigrationFiles(dir string, names []string) []migrationContent {
	contents := make([]migrationContent, len(names))

	if !m.concurrentScan {
		for i, name := range names {
			data, err := os.ReadFile(filepath.Join(dir, name))
			contents[i] = migrationContent{name: name, data: data, err: err}
		}
		return contents
	}

	var wg sync.WaitGroup
	for i, name := range names {
		wg.Add(1)
		go func(i int, name string) {
			defer wg.Done()
			data, err := os.ReadFile(filepath.Join(dir, name))
			contents[i] = migrationContent{name: name, data: data, err: err}
		}(i, name)
	}
	wg.Wait()

	return contents
}

// Rollback reverses the most recently applied migration, single step
// only. The migration's file must still exist and must carry a Down
// section; anything missing fails loudly instead of guessing. On success
// the version's ledger rows are deleted entirely.
func (m *Migrator) Rollback() error {
	applied, err := m.history.appliedVersions()
	if err != nil {
		return err
	}
	if len(applied) == 0 {
		return errors.New("no migrations to roll back")
	}
	last := maxVersion(applied)

	files, err := m.scanMigrationFiles()
	if err != nil {
		return err
	}
	migration, ok := files[last]
	if !ok {
		return errors.Errorf("migration file for version %s not found", last)
	}
	if migration.DownSQL == "" {
		return errors.Errorf("migration %s does not support rollback", last)
	}

	m.log.Info("rolling back migration", "version", migration.Version, "name", migration.Name)
	if err = m.execStatements(migration.DownSQL); err != nil {
		return errors.Wrapf(err, "can't roll back migration %s", last)
	}

	if err = m.history.deleteVersion(last); err != nil {
		return err
	}

	if m.MigrationsCh != nil {
		m.MigrationsCh <- migration
	}
	return nil
}

// Status reports the current shape of the service's ledger.
func (m *Migrator) Status() (*MigrationStatus, error) {
	status := &MigrationStatus{Service: m.service, Table: m.history.table}

	exists, err := m.history.hasHistoryTable()
	if err != nil {
		return nil, err
	}
	status.TableExists = exists
	if !exists {
		return status, nil
	}

	applied, err := m.history.appliedVersions()
	if err != nil {
		return nil, err
	}
	status.TotalApplied = len(applied)
	status.LastVersion = maxVersion(applied)

	return status, nil
}

// Records returns every ledger row for audit output.
func (m *Migrator) Records() ([]*MigrationRecord, error) {
	return m.history.records()
}

// FailedRecords returns the ledger rows of failed attempts, most recent
// first.
func (m *Migrator) FailedRecords() ([]*MigrationRecord, error) {
	return m.history.failedRecords()
}

func (m *Migrator) emitError(err error) {
	if m.ErrorsCh != nil {
		m.ErrorsCh <- err
	}
}

// maxVersion picks the numerically highest version out of a set of
// version strings. Lexicographic order would get mixed-width versions
// wrong, so the comparison is numeric.
func maxVersion(versions map[string]struct{}) string {
	var max MigrationVersion
	var found bool
	for version := range versions {
		ver, err := parseMigrationVersion(version)
		if err != nil {
			continue
		}
		if !found || max.less(ver) {
			max = ver
			found = true
		}
	}
	return max.original
}

func validServiceName(service string) error {
	if service == "" {
		return errors.New("service name not specified")
	}
	for _, r := range service {
		if r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9' || r == '_' {
			continue
		}
		return errors.Errorf("invalid service name %s, only letters, digits and underscores are allowed", service)
	}
	return nil
}
