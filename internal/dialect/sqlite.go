package dialect

import (
	"database/sql"
	"strings"

	sq "github.com/Masterminds/squirrel"

	"synthdb/internal/schema"
)

type SQLiteDialect struct{}

func (d *SQLiteDialect) Name() string   { return "sqlite" }
func (d *SQLiteDialect) Driver() string { return "sqlite3" }

func (d *SQLiteDialect) Quote(ident string) string { return `"` + ident + `"` }

func (d *SQLiteDialect) Placeholder() sq.PlaceholderFormat { return sq.Question }

func (d *SQLiteDialect) ColumnType(f *schema.Field) string {
	switch f.Type {
	case schema.TypeInteger, schema.TypeBoolean:
		return "INTEGER"
	case schema.TypeFloat:
		return "REAL"
	case schema.TypeChoice:
		switch ChoiceKind(f) {
		case schema.TypeInteger:
			return "INTEGER"
		case schema.TypeFloat:
			return "REAL"
		}
		return "TEXT"
	default:
		return "TEXT"
	}
}

func (d *SQLiteDialect) BindValue(f *schema.Field, v any) any {
	return DefaultBindValue(f, v)
}

func (d *SQLiteDialect) CreateTableSQL(t *schema.Table) string {
	return BuildCreateTable(d, t, "CREATE TABLE IF NOT EXISTS ")
}

func (d *SQLiteDialect) DropTableSQL(table string) string {
	return "DROP TABLE IF EXISTS " + d.Quote(table)
}

func (d *SQLiteDialect) TruncateSQL(table string) string {
	return "DELETE FROM " + d.Quote(table)
}

func (d *SQLiteDialect) MultiRowInsert() bool { return true }

func (d *SQLiteDialect) BeforeLoad(tx *sql.Tx) error { return nil }
func (d *SQLiteDialect) AfterLoad(tx *sql.Tx) error  { return nil }

// Introspection reads sqlite_master joined against the pragma table-valued
// functions. SQLite has no schema argument to speak of, so the bind slot is
// consumed by a dummy clause.

func (d *SQLiteDialect) TablesSQL() string {
	return `SELECT name FROM sqlite_master
WHERE type = 'table' AND name NOT LIKE 'sqlite_%' AND ? IS NOT NULL
ORDER BY name`
}

func (d *SQLiteDialect) ColumnsSQL() string {
	return `SELECT m.name, p.name, p.type, 0,
    CASE WHEN p."notnull" = 0 THEN 1 ELSE 0 END,
    CASE WHEN p.pk > 0 THEN 1 ELSE 0 END
FROM sqlite_master m JOIN pragma_table_info(m.name) p
WHERE m.type = 'table' AND m.name NOT LIKE 'sqlite_%' AND ? IS NOT NULL
ORDER BY m.name, p.cid`
}

func (d *SQLiteDialect) ForeignKeysSQL() string {
	return `SELECT m.name, f."from", f."table", f."to"
FROM sqlite_master m JOIN pragma_foreign_key_list(m.name) f
WHERE m.type = 'table' AND m.name NOT LIKE 'sqlite_%' AND ? IS NOT NULL
ORDER BY m.name, f.id, f.seq`
}

func (d *SQLiteDialect) DefaultSchema(name string) string {
	if name == "" {
		return "main"
	}
	return name
}

// Declared types follow the affinity rules, so a contains match is enough.
func (d *SQLiteDialect) FieldType(dbType string) schema.FieldType {
	t := strings.ToUpper(dbType)
	switch {
	case strings.Contains(t, "INT"):
		return schema.TypeInteger
	case strings.Contains(t, "CHAR") || strings.Contains(t, "CLOB") || strings.Contains(t, "TEXT"):
		return schema.TypeString
	case strings.Contains(t, "REAL") || strings.Contains(t, "FLOA") || strings.Contains(t, "DOUB") ||
		strings.Contains(t, "NUMER") || strings.Contains(t, "DEC"):
		return schema.TypeFloat
	case strings.Contains(t, "BOOL"):
		return schema.TypeBoolean
	case strings.Contains(t, "DATETIME") || strings.Contains(t, "TIMESTAMP"):
		return schema.TypeDatetime
	case strings.Contains(t, "DATE"):
		return schema.TypeDate
	default:
		return schema.TypeString
	}
}
