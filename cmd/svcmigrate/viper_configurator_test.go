package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestProject(t *testing.T) string {
	t.Helper()
	projectDir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(projectDir, "migrations"), 0755))

	config := "engine: sqlite\ndatabase: app.db\nservice: blog\ntest:\n  database: test.db\n"
	require.NoError(t, os.WriteFile(filepath.Join(projectDir, "svcmigrate.yml"), []byte(config), 0644))

	oldWd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(projectDir))
	t.Cleanup(func() { _ = os.Chdir(oldWd) })
	return projectDir
}

func Test_viperConfigurator_configFile(t *testing.T) {
	setupTestProject(t)

	v, err := (&viperConfigurator{viper: viper.New(), flags: &appFlags{configFile: "svcmigrate"}}).configure()
	require.NoError(t, err)
	assert.Equal(t, "sqlite", v.GetString("engine"))
	assert.Equal(t, "app.db", v.GetString("database"))
	assert.Equal(t, "blog", v.GetString("service"))
}

func Test_viperConfigurator_missingConfigFileIsAllowed(t *testing.T) {
	setupTestProject(t)

	v, err := (&viperConfigurator{viper: viper.New(), flags: &appFlags{configFile: "nonexistent"}}).configure()
	require.NoError(t, err)
	assert.Empty(t, v.GetString("engine"))
}

func Test_viperConfigurator_scopeToEnv(t *testing.T) {
	setupTestProject(t)

	v, err := (&viperConfigurator{viper: viper.New(), flags: &appFlags{configFile: "svcmigrate", env: "test"}}).configure()
	require.NoError(t, err)
	assert.Equal(t, "test.db", v.GetString("database"))
}

func Test_viperConfigurator_envVars(t *testing.T) {
	setupTestProject(t)
	t.Setenv("APP_DATABASE", "env.db")

	v, err := (&viperConfigurator{viper: viper.New(), flags: &appFlags{configFile: "svcmigrate", prefix: "APP"}}).configure()
	require.NoError(t, err)
	// env vars win over the config file
	assert.Equal(t, "env.db", v.GetString("database"))
	assert.Equal(t, "sqlite", v.GetString("engine"))
}
