package dialect

import (
	"database/sql"
	"fmt"
	"strings"

	sq "github.com/Masterminds/squirrel"

	"synthdb/internal/schema"
)

type PostgresDialect struct{}

func (d *PostgresDialect) Name() string   { return "postgres" }
func (d *PostgresDialect) Driver() string { return "postgres" }

func (d *PostgresDialect) Quote(ident string) string { return `"` + ident + `"` }

func (d *PostgresDialect) Placeholder() sq.PlaceholderFormat { return sq.Dollar }

func (d *PostgresDialect) ColumnType(f *schema.Field) string {
	switch f.Type {
	case schema.TypeInteger:
		return "BIGINT"
	case schema.TypeFloat:
		return "DOUBLE PRECISION"
	case schema.TypeBoolean:
		return "BOOLEAN"
	case schema.TypeDate:
		return "DATE"
	case schema.TypeDatetime:
		return "TIMESTAMP"
	case schema.TypeChoice:
		switch ChoiceKind(f) {
		case schema.TypeInteger:
			return "BIGINT"
		case schema.TypeFloat:
			return "DOUBLE PRECISION"
		}
		return "TEXT"
	default:
		if n := f.Constraints.MaxLength; n > 0 {
			return fmt.Sprintf("VARCHAR(%d)", n)
		}
		return "TEXT"
	}
}

func (d *PostgresDialect) BindValue(f *schema.Field, v any) any {
	return DefaultBindValue(f, v)
}

func (d *PostgresDialect) CreateTableSQL(t *schema.Table) string {
	return BuildCreateTable(d, t, "CREATE TABLE IF NOT EXISTS ")
}

func (d *PostgresDialect) DropTableSQL(table string) string {
	return "DROP TABLE IF EXISTS " + d.Quote(table) + " CASCADE"
}

func (d *PostgresDialect) TruncateSQL(table string) string {
	return "TRUNCATE TABLE " + d.Quote(table) + " CASCADE"
}

func (d *PostgresDialect) MultiRowInsert() bool { return true }

func (d *PostgresDialect) BeforeLoad(tx *sql.Tx) error { return nil }
func (d *PostgresDialect) AfterLoad(tx *sql.Tx) error  { return nil }

func (d *PostgresDialect) TablesSQL() string {
	return `SELECT table_name FROM information_schema.tables
WHERE table_schema = $1 AND table_type = 'BASE TABLE'
ORDER BY table_name`
}

func (d *PostgresDialect) ColumnsSQL() string {
	return `SELECT c.table_name, c.column_name, c.udt_name,
    COALESCE(c.character_maximum_length, 0),
    CASE WHEN c.is_nullable = 'YES' THEN 1 ELSE 0 END,
    CASE WHEN EXISTS (
        SELECT 1 FROM information_schema.table_constraints tc
        JOIN information_schema.key_column_usage kcu ON tc.constraint_name = kcu.constraint_name
        WHERE tc.constraint_type = 'PRIMARY KEY'
          AND kcu.table_schema = c.table_schema
          AND kcu.table_name = c.table_name
          AND kcu.column_name = c.column_name
    ) THEN 1 ELSE 0 END
FROM information_schema.columns c
WHERE c.table_schema = $1
ORDER BY c.table_name, c.ordinal_position`
}

func (d *PostgresDialect) ForeignKeysSQL() string {
	return `SELECT kcu.table_name, kcu.column_name, ccu.table_name, ccu.column_name
FROM information_schema.key_column_usage kcu
JOIN information_schema.constraint_column_usage ccu ON kcu.constraint_name = ccu.constraint_name
JOIN information_schema.table_constraints tc ON kcu.constraint_name = tc.constraint_name
WHERE kcu.table_schema = $1 AND tc.constraint_type = 'FOREIGN KEY'`
}

func (d *PostgresDialect) DefaultSchema(name string) string {
	if name == "" {
		return "public"
	}
	return name
}

func (d *PostgresDialect) FieldType(dbType string) schema.FieldType {
	switch strings.ToLower(dbType) {
	case "int2", "int4", "int8", "smallint", "integer", "bigint", "serial", "bigserial":
		return schema.TypeInteger
	case "float4", "float8", "real", "numeric", "decimal", "double precision", "money":
		return schema.TypeFloat
	case "bool", "boolean":
		return schema.TypeBoolean
	case "date":
		return schema.TypeDate
	case "timestamp", "timestamptz", "timestamp without time zone", "timestamp with time zone":
		return schema.TypeDatetime
	default:
		return schema.TypeString
	}
}
