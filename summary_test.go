package svcmigrate

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func Test_MigrationSummary(t *testing.T) {
	summary := &MigrationSummary{}
	assert.True(t, summary.NoOp())
	assert.True(t, summary.IsSuccess())
	assert.Equal(t, "no pending migrations", summary.String())

	summary.Successful = append(summary.Successful, &MigrationRecord{Version: "001", Name: "a"})
	summary.Failed = append(summary.Failed, FailedMigration{Version: "002", Name: "b", Error: "boom"})
	summary.TotalTime = 1500 * time.Millisecond

	assert.False(t, summary.NoOp())
	assert.False(t, summary.IsSuccess())
	assert.True(t, summary.HasFailures())
	assert.Equal(t, 2, summary.TotalExecuted())

	s := summary.String()
	assert.Contains(t, s, "ran 2, 1 succeeded, 1 failed")
	assert.Contains(t, s, "002 (b): boom")
}

func Test_MigrationStatus_String(t *testing.T) {
	status := &MigrationStatus{
		Service:      "blog",
		Table:        "_migrations_blog",
		TableExists:  true,
		TotalApplied: 3,
		LastVersion:  "003",
	}
	s := status.String()
	assert.Contains(t, s, "service blog")
	assert.Contains(t, s, "_migrations_blog")
	assert.Contains(t, s, "applied migrations: 3")
	assert.Contains(t, s, "last applied version: 003")
}
