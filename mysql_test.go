package svcmigrate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_mysqlProvider_dsn(t *testing.T) {
	p := &mysqlProvider{}

	_, err := p.dsn(&Settings{})
	assert.Equal(t, errDBNameNotProvided, err)

	_, err = p.dsn(&Settings{Database: "blog"})
	assert.Equal(t, errUserNotProvided, err)

	dsn, err := p.dsn(&Settings{Database: "blog", User: "admin"})
	require.NoError(t, err)
	assert.Equal(t, "admin:@tcp(127.0.0.1:3306)/blog?parseTime=true", dsn)

	dsn, err = p.dsn(&Settings{Database: "blog", User: "admin", Password: "secret", Host: "db.local", Port: 3307})
	require.NoError(t, err)
	assert.Equal(t, "admin:secret@tcp(db.local:3307)/blog?parseTime=true", dsn)
}

func Test_mysqlProvider_queries(t *testing.T) {
	p := &mysqlProvider{}
	assert.Equal(t, "mysql", p.driverName())
	assert.Contains(t, p.hasTableQuery(), "information_schema")
	assert.Contains(t, p.createHistoryTableQuery("_migrations_blog"), "DATETIME(3)")
}
