package svcmigrate

import (
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func filesByVersion(t *testing.T, contents map[string]string) map[string]*MigrationFile {
	t.Helper()
	files := make(map[string]*MigrationFile, len(contents))
	for fname, content := range contents {
		m, err := parseMigrationFile(fname, content)
		require.NoError(t, err)
		files[m.Version] = m
	}
	return files
}

func Test_checkDuplicateVersions(t *testing.T) {
	files := filesByVersion(t, map[string]string{
		"V001__a.sql": "CREATE TABLE a (id INTEGER);",
		"V002__b.sql": "CREATE TABLE b (id INTEGER);",
		"V003__c.sql": "CREATE TABLE c (id INTEGER);",
	})
	assert.NoError(t, checkDuplicateVersions(files))

	// V5 and V05 are distinct strings but the same numeric version
	files = filesByVersion(t, map[string]string{
		"V5__a.sql":  "CREATE TABLE a (id INTEGER);",
		"V05__b.sql": "CREATE TABLE b (id INTEGER);",
	})
	err := checkDuplicateVersions(files)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicated")
	assert.Contains(t, err.Error(), "5")
}

func Test_checkChecksums(t *testing.T) {
	log := slog.Default()
	files := filesByVersion(t, map[string]string{
		"V001__a.sql": "CREATE TABLE a (id INTEGER);",
		"V002__b.sql": "CREATE TABLE b (id INTEGER);",
	})

	// matching checksums are fine
	applied := []ledgerChecksum{
		{version: "001", checksum: files["001"].Checksum},
	}
	assert.NoError(t, checkChecksums(files, applied, log))

	// a ledger row without a file is a warning, not an error
	applied = append(applied, ledgerChecksum{version: "009", checksum: "whatever"})
	assert.NoError(t, checkChecksums(files, applied, log))

	// every mismatched version is enumerated
	applied = []ledgerChecksum{
		{version: "001", checksum: "stale1"},
		{version: "002", checksum: "stale2"},
	}
	err := checkChecksums(files, applied, log)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "migration 001: checksum mismatch")
	assert.Contains(t, err.Error(), "migration 002: checksum mismatch")
	assert.Contains(t, err.Error(), "expected stale1")
	assert.Contains(t, err.Error(), "found "+files["001"].Checksum)
}

func Test_sortedPending(t *testing.T) {
	files := filesByVersion(t, map[string]string{
		"V001__a.sql": "CREATE TABLE a (id INTEGER);",
		"V002__b.sql": "CREATE TABLE b (id INTEGER);",
		"V003__c.sql": "CREATE TABLE c (id INTEGER);",
		"V010__d.sql": "CREATE TABLE d (id INTEGER);",
		"V9__e.sql":   "CREATE TABLE e (id INTEGER);",
	})

	pending := sortedPending(files, map[string]struct{}{"001": {}})
	versions := make([]string, 0, len(pending))
	for _, m := range pending {
		versions = append(versions, m.Version)
	}
	// numeric order: 9 before 010
	assert.Equal(t, []string{"002", "003", "9", "010"}, versions)

	pending = sortedPending(files, map[string]struct{}{
		"001": {}, "002": {}, "003": {}, "9": {}, "010": {},
	})
	assert.Empty(t, pending)
}
