package svcmigrate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_sqliteProvider_dsn(t *testing.T) {
	p := &sqliteProvider{}

	_, err := p.dsn(&Settings{})
	assert.Equal(t, errDBNameNotProvided, err)

	dsn, err := p.dsn(&Settings{Database: "test.db"})
	require.NoError(t, err)
	assert.Equal(t, "./test.db", dsn)

	dsn, err = p.dsn(&Settings{Database: "/var/data/test.db"})
	require.NoError(t, err)
	assert.Equal(t, "/var/data/test.db", dsn)
}

func Test_sqliteProvider_queries(t *testing.T) {
	p := &sqliteProvider{}
	assert.Equal(t, "sqlite3", p.driverName())
	assert.Contains(t, p.hasTableQuery(), "sqlite_master")
	assert.Contains(t, p.createHistoryTableQuery("_migrations_blog"), "CREATE TABLE IF NOT EXISTS _migrations_blog")
}
