package dialect

import (
	"database/sql"

	sq "github.com/Masterminds/squirrel"

	"synthdb/internal/schema"
)

// Dialect abstracts database-specific SQL for creating and loading tables.
type Dialect interface {
	// Identity
	Name() string
	Driver() string

	// Quoting and placeholders
	Quote(ident string) string
	Placeholder() sq.PlaceholderFormat

	// Type mapping and value binding
	ColumnType(f *schema.Field) string
	BindValue(f *schema.Field, v any) any

	// DDL and cleanup statements
	CreateTableSQL(t *schema.Table) string
	DropTableSQL(table string) string
	TruncateSQL(table string) string

	// MultiRowInsert reports whether INSERT ... VALUES (...), (...) works.
	MultiRowInsert() bool

	// Session hooks, for foreign key enforcement and date formats.
	BeforeLoad(tx *sql.Tx) error
	AfterLoad(tx *sql.Tx) error

	// Introspection queries, for building a definition from a live
	// database. Each takes the schema name as its single bind argument
	// and yields a fixed column shape:
	//
	//   TablesSQL:      table_name
	//   ColumnsSQL:     table_name, column_name, data_type, max_length,
	//                   is_nullable (0/1), is_pk (0/1)
	//   ForeignKeysSQL: table_name, column_name, ref_table, ref_column
	//
	// Columns arrive in ordinal position order.
	TablesSQL() string
	ColumnsSQL() string
	ForeignKeysSQL() string

	// DefaultSchema resolves an empty schema name to the dialect's default.
	DefaultSchema(name string) string

	// FieldType maps an introspected column type to a field type.
	FieldType(dbType string) schema.FieldType
}
