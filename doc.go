// Package svcmigrate applies versioned SQL schema migrations for a service
// and keeps a durable, per-service ledger of every attempt.
//
// Migrations are plain .sql files named V<digits>__<description>.sql with
// optional "-- +migrate Up" / "-- +migrate Down" sections. The engine scans
// a directory, validates versions and checksums against the ledger, applies
// whatever is pending in strict version order and records each outcome,
// failed attempts included. A single-step rollback is supported for
// migrations that carry a Down section.
//
// Can be used as a library or through the svcmigrate CLI tool, which is
// configured with flags, a config file, environment variables or a remote
// key value store.
package svcmigrate
