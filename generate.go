package svcmigrate

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
)

const migrationTemplate = upMarker + "\n\n" + downMarker + "\n"

// GenerateMigration creates a skeleton migration file in the migrations
// dir, versioned one past the highest version already there. The
// description words become the underscored part of the file name, e.g.
// "Create posts table" turns into V001__create_posts_table.sql.
func (m *Migrator) GenerateMigration(description string) (string, error) {
	description = strings.ToLower(strings.Join(strings.Fields(description), "_"))
	if description == "" {
		return "", errors.New("migration description not specified")
	}

	files, err := m.scanMigrationFiles()
	if err != nil {
		return "", err
	}

	var next uint64 = 1
	for _, f := range files {
		ver, err := f.version()
		if err != nil {
			continue
		}
		if ver.number >= next {
			next = ver.number + 1
		}
	}

	fpath := filepath.Join(m.migrationsDirPath(), fmt.Sprintf("V%03d__%s.sql", next, description))
	if FileExists(fpath) {
		return "", errors.Errorf("migration file %s already exists", fpath)
	}

	if err = os.WriteFile(fpath, []byte(migrationTemplate), 0644); err != nil {
		return "", errors.Wrapf(err, "can't create migration file %s", fpath)
	}

	m.log.Info("generated migration", "file", fpath)
	return fpath, nil
}
