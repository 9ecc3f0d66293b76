package svcmigrate

import (
	"fmt"
	"strings"
	"time"
)

// MigrationRecord is one persisted ledger entry. A record is written per
// execution attempt, failed attempts included, so the ledger is strictly
// append oriented.
type MigrationRecord struct {
	Version         string
	Name            string
	AppliedAt       time.Time
	ExecutionTimeMs uint64
	Checksum        string
	Success         bool
	ErrorMessage    string
}

// FailedMigration names one migration that failed during a run.
type FailedMigration struct {
	Version string
	Name    string
	Error   string
}

// MigrationSummary is the outcome of one Migrate call. Not persisted.
type MigrationSummary struct {
	Successful []*MigrationRecord
	Failed     []FailedMigration
	TotalTime  time.Duration
}

// NoOp reports whether the run had no pending work at all.
func (s *MigrationSummary) NoOp() bool {
	return s.TotalExecuted() == 0
}

// IsSuccess reports whether every attempted migration succeeded.
func (s *MigrationSummary) IsSuccess() bool {
	return len(s.Failed) == 0
}

func (s *MigrationSummary) HasFailures() bool {
	return len(s.Failed) > 0
}

// TotalExecuted is the number of attempted migrations, both outcomes.
func (s *MigrationSummary) TotalExecuted() int {
	return len(s.Successful) + len(s.Failed)
}

func (s *MigrationSummary) String() string {
	if s.NoOp() {
		return "no pending migrations"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "ran %d, %d succeeded, %d failed in %s",
		s.TotalExecuted(), len(s.Successful), len(s.Failed), s.TotalTime.Round(time.Millisecond))
	for _, failed := range s.Failed {
		fmt.Fprintf(&b, "\n  %s (%s): %s", failed.Version, failed.Name, failed.Error)
	}
	return b.String()
}

// MigrationStatus describes the current state of a service's ledger.
type MigrationStatus struct {
	Service      string
	Table        string
	TableExists  bool
	TotalApplied int
	LastVersion  string
}

func (st *MigrationStatus) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "migration status for service %s\n", st.Service)
	fmt.Fprintf(&b, "  table: %s\n", st.Table)
	fmt.Fprintf(&b, "  table exists: %t\n", st.TableExists)
	fmt.Fprintf(&b, "  applied migrations: %d\n", st.TotalApplied)
	if st.LastVersion != "" {
		fmt.Fprintf(&b, "  last applied version: %s\n", st.LastVersion)
	}
	return b.String()
}
