package svcmigrate

// providers maps database engine names to their provider implementations
var providers = make(map[string]provider)

// provider is the interface for database engine specific stuff
type provider interface {
	// driverName returns the driver name used by database/sql to connect
	driverName() string
	// dsn returns the database connection string
	dsn(settings *Settings) (string, error)
	// hasTableQuery returns the query checking if a table exists,
	// with the table name as its single parameter
	hasTableQuery() string
	// createHistoryTableQuery returns the idempotent DDL creating the
	// migrations ledger table
	createHistoryTableQuery(table string) string
}

// placeholdersProvider is implemented by engines that use something other
// than ? for query parameter placeholders
type placeholdersProvider interface {
	setPlaceholders(string) string
}

// textOnlyProvider is implemented by engines whose exec path takes raw
// statement text with no parameter binding; ledger writes for such
// engines fall back to literal interpolation with escaping
type textOnlyProvider interface {
	textOnly() bool
}

// defaultProvider carries behavior shared by engines with an
// information_schema
type defaultProvider struct{}

func (p *defaultProvider) hasTableQuery() string {
	return "SELECT table_name FROM information_schema.tables WHERE table_name = ?"
}

// EngineExists checks if the database engine is supported
func EngineExists(engine string) bool {
	_, ok := providers[engine]
	return ok
}

// Engines returns the list of supported database engines
func Engines() []string {
	var engines []string
	for engine := range providers {
		engines = append(engines, engine)
	}
	return engines
}
