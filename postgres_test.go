package svcmigrate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_postgresProvider_dsn(t *testing.T) {
	p := &postgresProvider{}

	_, err := p.dsn(&Settings{})
	assert.Equal(t, errDBNameNotProvided, err)

	_, err = p.dsn(&Settings{Database: "blog"})
	assert.Equal(t, errUserNotProvided, err)

	dsn, err := p.dsn(&Settings{Database: "blog", User: "admin"})
	require.NoError(t, err)
	assert.Equal(t, "dbname=blog user=admin", dsn)

	dsn, err = p.dsn(&Settings{Database: "blog", User: "admin", Password: "secret", Host: "db.local", Port: 5433})
	require.NoError(t, err)
	assert.Equal(t, "dbname=blog user=admin password=secret host=db.local port=5433", dsn)
}

func Test_postgresProvider_setPlaceholders(t *testing.T) {
	p := &postgresProvider{}
	assert.Equal(t, "SELECT 1", p.setPlaceholders("SELECT 1"))
	assert.Equal(t,
		"INSERT INTO t (a, b, c) VALUES ($1, $2, $3)",
		p.setPlaceholders("INSERT INTO t (a, b, c) VALUES (?, ?, ?)"))
}
