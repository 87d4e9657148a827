package dialect

import (
	"database/sql"
	"fmt"
	"strings"

	sq "github.com/Masterminds/squirrel"

	"synthdb/internal/schema"
)

type MysqlDialect struct{}

func (d *MysqlDialect) Name() string   { return "mysql" }
func (d *MysqlDialect) Driver() string { return "mysql" }

func (d *MysqlDialect) Quote(ident string) string { return "`" + ident + "`" }

func (d *MysqlDialect) Placeholder() sq.PlaceholderFormat { return sq.Question }

func (d *MysqlDialect) ColumnType(f *schema.Field) string {
	switch f.Type {
	case schema.TypeInteger:
		return "BIGINT"
	case schema.TypeFloat:
		return "DOUBLE"
	case schema.TypeBoolean:
		return "TINYINT(1)"
	case schema.TypeDate:
		return "DATE"
	case schema.TypeDatetime:
		return "DATETIME"
	case schema.TypeChoice:
		switch ChoiceKind(f) {
		case schema.TypeInteger:
			return "BIGINT"
		case schema.TypeFloat:
			return "DOUBLE"
		}
		return "VARCHAR(255)"
	default:
		if n := f.Constraints.MaxLength; n > 0 {
			return fmt.Sprintf("VARCHAR(%d)", n)
		}
		return "VARCHAR(255)"
	}
}

func (d *MysqlDialect) BindValue(f *schema.Field, v any) any {
	return DefaultBindValue(f, v)
}

func (d *MysqlDialect) CreateTableSQL(t *schema.Table) string {
	return BuildCreateTable(d, t, "CREATE TABLE IF NOT EXISTS ") +
		" CHARACTER SET utf8mb4 COLLATE utf8mb4_unicode_ci"
}

func (d *MysqlDialect) DropTableSQL(table string) string {
	return "DROP TABLE IF EXISTS " + d.Quote(table)
}

func (d *MysqlDialect) TruncateSQL(table string) string {
	return "TRUNCATE TABLE " + d.Quote(table)
}

func (d *MysqlDialect) MultiRowInsert() bool { return true }

// TRUNCATE refuses to touch tables referenced by foreign keys, so checks
// are suspended for the session.
func (d *MysqlDialect) BeforeLoad(tx *sql.Tx) error {
	_, err := tx.Exec("SET FOREIGN_KEY_CHECKS = 0")
	return err
}

func (d *MysqlDialect) AfterLoad(tx *sql.Tx) error {
	_, err := tx.Exec("SET FOREIGN_KEY_CHECKS = 1")
	return err
}

// The introspection queries fall back to DATABASE() so an empty schema
// name means "whatever database the DSN selected".

func (d *MysqlDialect) TablesSQL() string {
	return `SELECT TABLE_NAME FROM information_schema.TABLES
WHERE TABLE_SCHEMA = COALESCE(NULLIF(?, ''), DATABASE()) AND TABLE_TYPE = 'BASE TABLE'
ORDER BY TABLE_NAME`
}

func (d *MysqlDialect) ColumnsSQL() string {
	return `SELECT TABLE_NAME, COLUMN_NAME, DATA_TYPE,
    COALESCE(CHARACTER_MAXIMUM_LENGTH, 0),
    IF(IS_NULLABLE = 'YES', 1, 0),
    IF(COLUMN_KEY = 'PRI', 1, 0)
FROM information_schema.COLUMNS
WHERE TABLE_SCHEMA = COALESCE(NULLIF(?, ''), DATABASE())
ORDER BY TABLE_NAME, ORDINAL_POSITION`
}

func (d *MysqlDialect) ForeignKeysSQL() string {
	return `SELECT TABLE_NAME, COLUMN_NAME, REFERENCED_TABLE_NAME, REFERENCED_COLUMN_NAME
FROM information_schema.KEY_COLUMN_USAGE
WHERE TABLE_SCHEMA = COALESCE(NULLIF(?, ''), DATABASE()) AND REFERENCED_TABLE_NAME IS NOT NULL`
}

func (d *MysqlDialect) DefaultSchema(name string) string { return name }

func (d *MysqlDialect) FieldType(dbType string) schema.FieldType {
	switch strings.ToLower(dbType) {
	case "tinyint", "smallint", "mediumint", "int", "bigint", "year":
		return schema.TypeInteger
	case "float", "double", "decimal", "numeric":
		return schema.TypeFloat
	case "bit":
		return schema.TypeBoolean
	case "date":
		return schema.TypeDate
	case "datetime", "timestamp":
		return schema.TypeDatetime
	default:
		return schema.TypeString
	}
}
