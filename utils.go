package svcmigrate

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
)

// DirExists checks if directory at path exists
func DirExists(dirpath string) bool {
	stats, err := os.Stat(dirpath)
	if os.IsNotExist(err) || err != nil || !stats.IsDir() {
		return false
	}
	return true
}

// FileExists checks if file at path exists
func FileExists(fpath string) bool {
	stats, err := os.Stat(fpath)
	if os.IsNotExist(err) || err != nil || stats.IsDir() {
		return false
	}
	return true
}

// FindProjectDir walks up from fromDir to the closest dir containing a
// migrations subdir, which is treated as the project dir.
func FindProjectDir(fromDir string) (string, error) {
	return findProjectDir(fromDir, "migrations")
}

func findProjectDir(fromDir string, migrationsDir string) (string, error) {
	if DirExists(filepath.Join(fromDir, migrationsDir)) {
		return fromDir, nil
	}

	if isRootDir(fromDir) {
		return "", errors.New("project dir not found")
	}

	return findProjectDir(filepath.Dir(fromDir), migrationsDir)
}

func isRootDir(dir string) bool {
	// second check is for windows
	return dir == "/" || dir == strings.Split(dir, string(filepath.Separator))[0]
}
