package dialect

// ForDriver returns the Dialect implementation for a driver name.
func ForDriver(driver string) Dialect {
	switch driver {
	case "postgres", "postgresql", "pgx":
		return &PostgresDialect{}
	case "mysql":
		return &MysqlDialect{}
	case "sqlserver", "mssql":
		return &MSSQLDialect{}
	case "oracle":
		return &OracleDialect{}
	default: // sqlite3
		return &SQLiteDialect{}
	}
}

// Ensure interface implementation
var _ Dialect = (*SQLiteDialect)(nil)
var _ Dialect = (*PostgresDialect)(nil)
var _ Dialect = (*MysqlDialect)(nil)
var _ Dialect = (*MSSQLDialect)(nil)
var _ Dialect = (*OracleDialect)(nil)
