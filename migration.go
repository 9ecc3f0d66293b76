package svcmigrate

import (
	"crypto/sha256"
	"encoding/hex"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

const (
	upMarker   = "-- +migrate Up"
	downMarker = "-- +migrate Down"

	// baselineNumber is the reserved version marking "the schema already
	// exists": such a migration is recorded but executes no SQL
	baselineNumber = 0
)

// MigrationFile is a single migration discovered on disk, immutable once
// parsed. One instance per file per scan, scans are never cached.
type MigrationFile struct {
	// Version is the numeric version exactly as written in the filename,
	// e.g. 003
	Version string
	// Name is the human readable name derived from the filename
	Name string
	// UpSQL is the trimmed body of the Up section
	UpSQL string
	// DownSQL is the trimmed body of the optional Down section,
	// empty when the migration can't be rolled back
	DownSQL string
	// Checksum is the sha256 hex digest of UpSQL
	Checksum string
	// IsBaseline is true for the reserved version 0 or an empty Up body
	IsBaseline bool
}

// FileName returns the canonical file name the migration was parsed from.
func (m *MigrationFile) FileName() string {
	return "V" + m.Version + "__" + strings.Replace(m.Name, " ", "_", -1) + ".sql"
}

func (m *MigrationFile) version() (MigrationVersion, error) {
	return parseMigrationVersion(m.Version)
}

// MigrationVersion is a parsed, strictly ordered migration version: the
// numeric value decides ordering, the original string form is kept for
// display and ledger lookups.
type MigrationVersion struct {
	number   uint64
	original string
}

func parseMigrationVersion(s string) (MigrationVersion, error) {
	number, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return MigrationVersion{}, errors.Wrapf(err, "invalid migration version %s", s)
	}
	return MigrationVersion{number: number, original: s}, nil
}

func (v MigrationVersion) less(other MigrationVersion) bool {
	return v.number < other.number
}

func (v MigrationVersion) String() string {
	return v.original
}

// parseMigrationFile builds a MigrationFile from a file name and its full
// content. The name must match V<digits>__<description> with the extension
// stripped; description underscores become spaces.
func parseMigrationFile(fname string, content string) (*MigrationFile, error) {
	version, name, err := parseMigrationFileName(fname)
	if err != nil {
		return nil, err
	}

	upSQL, downSQL := splitSections(content)

	ver, err := parseMigrationVersion(version)
	if err != nil {
		return nil, err
	}

	return &MigrationFile{
		Version:    version,
		Name:       name,
		UpSQL:      upSQL,
		DownSQL:    downSQL,
		Checksum:   checksum(upSQL),
		IsBaseline: ver.number == baselineNumber || upSQL == "",
	}, nil
}

func parseMigrationFileName(fname string) (version string, name string, err error) {
	errMsg := errors.Errorf("invalid migration file name %s, expected format is V001__description.sql", fname)

	base := strings.TrimSuffix(fname, filepath.Ext(fname))
	if !strings.HasPrefix(base, "V") {
		return "", "", errMsg
	}

	sep := strings.Index(base, "__")
	if sep < 2 || sep+2 == len(base) {
		return "", "", errMsg
	}

	version = base[1:sep]
	for _, r := range version {
		if r < '0' || r > '9' {
			return "", "", errMsg
		}
	}

	name = strings.Replace(base[sep+2:], "_", " ", -1)
	return version, name, nil
}

// splitSections separates a migration body into Up and Down parts using
// the section markers, matched as exact trimmed whole lines. Content
// before the first marker, or all content when there are no markers,
// belongs to Up. Bare metadata comment lines are dropped; everything else,
// blank lines included, is kept verbatim so checksums stay stable.
func splitSections(content string) (upSQL string, downSQL string) {
	var up, down strings.Builder
	section := &up

	for _, line := range strings.Split(content, "\n") {
		trimmed := strings.TrimSpace(line)

		switch trimmed {
		case upMarker:
			section = &up
			continue
		case downMarker:
			section = &down
			continue
		}

		if strings.HasPrefix(trimmed, "-- ") && !strings.Contains(trimmed, "/*") {
			continue
		}

		section.WriteString(line)
		section.WriteString("\n")
	}

	return strings.TrimSpace(up.String()), strings.TrimSpace(down.String())
}

// checksum is the content hash recorded in the ledger and compared on
// later runs to detect drift. It is a pure function of the trimmed Up
// body.
func checksum(upSQL string) string {
	digest := sha256.Sum256([]byte(upSQL))
	return hex.EncodeToString(digest[:])
}
