package svcmigrate

import (
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/pkg/errors"
)

// checkDuplicateVersions rejects a discovered set where two files resolve
// to the same numeric version, e.g. V5 and V05. The scan already refuses
// byte-identical version strings, this catches the rest.
func checkDuplicateVersions(files map[string]*MigrationFile) error {
	seen := make(map[uint64]string, len(files))
	for _, f := range files {
		ver, err := f.version()
		if err != nil {
			return err
		}
		if previous, ok := seen[ver.number]; ok {
			return errors.Errorf("migration versions %s and %s are duplicated: both resolve to %d",
				previous, f.Version, ver.number)
		}
		seen[ver.number] = f.Version
	}
	return nil
}

// checkChecksums compares the checksum stored for every successfully
// applied migration against the current content of its file. Every
// mismatch is reported, and any mismatch prevents the run from executing
// anything. A ledger row with no matching file is only worth a warning:
// the file may simply have been deleted after it was applied. A changed
// file that was never applied is not drift, it is just the content that
// pending version will run with.
func checkChecksums(files map[string]*MigrationFile, applied []ledgerChecksum, log *slog.Logger) error {
	var mismatches []string
	for _, lc := range applied {
		f, ok := files[lc.version]
		if !ok {
			log.Warn("applied migration has no file on disk", "version", lc.version)
			continue
		}
		if f.Checksum != lc.checksum {
			mismatches = append(mismatches, fmt.Sprintf(
				"migration %s: checksum mismatch (expected %s, found %s)", lc.version, lc.checksum, f.Checksum))
		}
	}

	if len(mismatches) > 0 {
		return errors.Errorf("checksum validation failed:\n%s", strings.Join(mismatches, "\n"))
	}
	return nil
}

// sortedPending returns discovered minus applied, ascending by numeric
// version. Runs strictly in this order, later migrations may depend on
// schema state left by earlier ones.
func sortedPending(files map[string]*MigrationFile, applied map[string]struct{}) []*MigrationFile {
	var pending []*MigrationFile
	for version, f := range files {
		if _, ok := applied[version]; !ok {
			pending = append(pending, f)
		}
	}

	sort.Slice(pending, func(i, j int) bool {
		vi, _ := pending[i].version()
		vj, _ := pending[j].version()
		return vi.less(vj)
	})
	return pending
}
