package svcmigrate

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_DirExists_FileExists(t *testing.T) {
	dir := t.TempDir()
	fpath := filepath.Join(dir, "file.sql")
	require.NoError(t, os.WriteFile(fpath, []byte("SELECT 1;"), 0644))

	assert.True(t, DirExists(dir))
	assert.False(t, DirExists(fpath))
	assert.False(t, DirExists(filepath.Join(dir, "nope")))

	assert.True(t, FileExists(fpath))
	assert.False(t, FileExists(dir))
	assert.False(t, FileExists(filepath.Join(dir, "nope.sql")))
}

func Test_FindProjectDir(t *testing.T) {
	projectDir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(projectDir, "migrations"), 0755))
	nested := filepath.Join(projectDir, "cmd", "app")
	require.NoError(t, os.MkdirAll(nested, 0755))

	found, err := FindProjectDir(nested)
	require.NoError(t, err)
	assert.Equal(t, projectDir, found)

	found, err = FindProjectDir(projectDir)
	require.NoError(t, err)
	assert.Equal(t, projectDir, found)

	_, err = findProjectDir(t.TempDir(), "no_such_dir")
	assert.EqualError(t, err, "project dir not found")
}

func Test_Engines(t *testing.T) {
	assert.True(t, EngineExists("sqlite"))
	assert.True(t, EngineExists("postgres"))
	assert.True(t, EngineExists("mysql"))
	assert.False(t, EngineExists("oracle"))
	assert.Len(t, Engines(), 3)
}
