package svcmigrate

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/pkg/errors"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
)

var (
	errDBNameNotProvided = errors.New("database name is not provided")
	errUserNotProvided   = errors.New("user is not provided")
)

// historyTablePrefix plus the service name gives the ledger table,
// e.g. _migrations_billing
const historyTablePrefix = "_migrations_"

const recordColumns = "version, name, applied_at, execution_time_ms, checksum, success, error_message"

// historyStore owns the per-service migrations ledger: one table,
// append-only writes, one row per execution attempt. It shares the
// migrator's database handle and never holds it past a single call.
type historyStore struct {
	db    *sql.DB
	table string
	provider
	placeholdersProvider
}

func newHistoryStore(settings *Settings, provider provider) *historyStore {
	s := &historyStore{
		table:    historyTablePrefix + settings.Service,
		provider: provider,
	}
	if pp, ok := provider.(placeholdersProvider); ok {
		s.placeholdersProvider = pp
	}
	return s
}

func (s *historyStore) setPlaceholders(query string) string {
	if s.placeholdersProvider == nil {
		return query
	}
	return s.placeholdersProvider.setPlaceholders(query)
}

func (s *historyStore) open(settings *Settings) error {
	dsn, err := s.provider.dsn(settings)
	if err != nil {
		return err
	}

	s.db, err = sql.Open(s.provider.driverName(), dsn)
	if err != nil {
		return errors.Wrap(err, "can't open database")
	}
	return nil
}

func (s *historyStore) close() error {
	err := s.db.Close()
	if err != nil {
		return errors.Wrap(err, "can't close database")
	}
	return nil
}

func (s *historyStore) hasHistoryTable() (bool, error) {
	var table string
	err := s.db.QueryRow(s.setPlaceholders(s.provider.hasTableQuery()), s.table).Scan(&table)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, errors.Wrap(err, "can't check if migrations table exists")
	}
	return true, nil
}

// ensureHistoryTable creates the ledger table if it does not exist yet.
// This is the one piece of schema the engine owns unconditionally.
func (s *historyStore) ensureHistoryTable() error {
	_, err := s.db.Exec(s.provider.createHistoryTableQuery(s.table))
	if err != nil {
		return errors.Wrap(err, "can't create migrations table")
	}
	return nil
}

func (s *historyStore) insertRecord(r *MigrationRecord) error {
	if p, ok := s.provider.(textOnlyProvider); ok && p.textOnly() {
		_, err := s.db.Exec(insertRecordStatement(s.table, r))
		return errors.Wrap(err, "can't insert migration record")
	}

	query := s.setPlaceholders(fmt.Sprintf(
		"INSERT INTO %s (%s) VALUES (?, ?, ?, ?, ?, ?, ?)", s.table, recordColumns))
	_, err := s.db.Exec(query,
		r.Version, r.Name, r.AppliedAt, r.ExecutionTimeMs, r.Checksum, r.Success, r.ErrorMessage)
	return errors.Wrap(err, "can't insert migration record")
}

// appliedVersions returns the set of versions with at least one successful
// ledger row. Failed attempts leave a version pending.
func (s *historyStore) appliedVersions() (map[string]struct{}, error) {
	query := s.setPlaceholders(fmt.Sprintf("SELECT DISTINCT version FROM %s WHERE success = ?", s.table))
	rows, err := s.db.Query(query, true)
	if err != nil {
		return nil, errors.Wrap(err, "can't get applied migrations versions")
	}
	defer rows.Close()

	applied := make(map[string]struct{})
	var version string
	for rows.Next() {
		if err = rows.Scan(&version); err != nil {
			return nil, errors.Wrap(err, "can't scan migration version row")
		}
		applied[version] = struct{}{}
	}
	return applied, rows.Err()
}

// ledgerChecksum pairs a successfully applied version with the checksum
// recorded at the time it ran.
type ledgerChecksum struct {
	version  string
	checksum string
}

func (s *historyStore) appliedChecksums() ([]ledgerChecksum, error) {
	query := s.setPlaceholders(fmt.Sprintf("SELECT version, checksum FROM %s WHERE success = ?", s.table))
	rows, err := s.db.Query(query, true)
	if err != nil {
		return nil, errors.Wrap(err, "can't get applied migrations checksums")
	}
	defer rows.Close()

	var checksums []ledgerChecksum
	for rows.Next() {
		var lc ledgerChecksum
		if err = rows.Scan(&lc.version, &lc.checksum); err != nil {
			return nil, errors.Wrap(err, "can't scan migration checksum row")
		}
		checksums = append(checksums, lc)
	}
	return checksums, rows.Err()
}

// records returns every ledger row, attempts of all outcomes, for status
// and audit output.
func (s *historyStore) records() ([]*MigrationRecord, error) {
	query := fmt.Sprintf("SELECT %s FROM %s ORDER BY version, applied_at", recordColumns, s.table)
	return s.queryRecords(query)
}

func (s *historyStore) failedRecords() ([]*MigrationRecord, error) {
	query := s.setPlaceholders(fmt.Sprintf(
		"SELECT %s FROM %s WHERE success = ? ORDER BY applied_at DESC", recordColumns, s.table))
	return s.queryRecords(query, false)
}

func (s *historyStore) queryRecords(query string, args ...interface{}) ([]*MigrationRecord, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "can't get migration records")
	}
	defer rows.Close()

	var records []*MigrationRecord
	for rows.Next() {
		r := &MigrationRecord{}
		err = rows.Scan(&r.Version, &r.Name, &r.AppliedAt, &r.ExecutionTimeMs, &r.Checksum, &r.Success, &r.ErrorMessage)
		if err != nil {
			return nil, errors.Wrap(err, "can't scan migration record row")
		}
		records = append(records, r)
	}
	return records, rows.Err()
}

// deleteVersion removes every ledger row for the version, the final step
// of a rollback. Rolled back migrations are deleted, not marked.
func (s *historyStore) deleteVersion(version string) error {
	query := s.setPlaceholders(fmt.Sprintf("DELETE FROM %s WHERE version = ?", s.table))
	_, err := s.db.Exec(query, version)
	return errors.Wrapf(err, "can't delete ledger rows for version %s", version)
}

// insertRecordStatement renders the ledger insert as literal statement
// text for engines without parameter binding. Embedded quotes are doubled
// and null bytes stripped so generated SQL stays well formed.
func insertRecordStatement(table string, r *MigrationRecord) string {
	success := 0
	if r.Success {
		success = 1
	}
	return fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s, %s, %s, %d, %s, %d, %s)",
		table, recordColumns,
		quoteSQLLiteral(r.Version),
		quoteSQLLiteral(r.Name),
		quoteSQLLiteral(r.AppliedAt.Format("2006-01-02 15:04:05.000")),
		r.ExecutionTimeMs,
		quoteSQLLiteral(r.Checksum),
		success,
		quoteSQLLiteral(r.ErrorMessage))
}

func quoteSQLLiteral(s string) string {
	s = strings.Replace(s, "\x00", "", -1)
	return "'" + strings.Replace(s, "'", "''", -1) + "'"
}
