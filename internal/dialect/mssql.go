package dialect

import (
	"database/sql"
	"fmt"
	"strings"

	sq "github.com/Masterminds/squirrel"

	"synthdb/internal/schema"
)

type MSSQLDialect struct{}

func (d *MSSQLDialect) Name() string   { return "mssql" }
func (d *MSSQLDialect) Driver() string { return "sqlserver" }

func (d *MSSQLDialect) Quote(ident string) string { return "[" + ident + "]" }

func (d *MSSQLDialect) Placeholder() sq.PlaceholderFormat { return sq.AtP }

// NVARCHAR keeps Hebrew intact; plain VARCHAR depends on the collation.
func (d *MSSQLDialect) ColumnType(f *schema.Field) string {
	switch f.Type {
	case schema.TypeInteger:
		return "BIGINT"
	case schema.TypeFloat:
		return "FLOAT"
	case schema.TypeBoolean:
		return "BIT"
	case schema.TypeDate:
		return "DATE"
	case schema.TypeDatetime:
		return "DATETIME2"
	case schema.TypeChoice:
		switch ChoiceKind(f) {
		case schema.TypeInteger:
			return "BIGINT"
		case schema.TypeFloat:
			return "FLOAT"
		}
		return "NVARCHAR(255)"
	default:
		if n := f.Constraints.MaxLength; n > 0 {
			return fmt.Sprintf("NVARCHAR(%d)", n)
		}
		return "NVARCHAR(MAX)"
	}
}

func (d *MSSQLDialect) BindValue(f *schema.Field, v any) any {
	return DefaultBindValue(f, v)
}

func (d *MSSQLDialect) CreateTableSQL(t *schema.Table) string {
	return fmt.Sprintf("IF OBJECT_ID(N'%s', N'U') IS NULL\n%s",
		t.Name, BuildCreateTable(d, t, "CREATE TABLE "))
}

func (d *MSSQLDialect) DropTableSQL(table string) string {
	return fmt.Sprintf("IF OBJECT_ID(N'%s', N'U') IS NOT NULL DROP TABLE %s", table, d.Quote(table))
}

// TRUNCATE is not allowed on tables referenced by foreign keys; rows are
// deleted in reverse dependency order instead.
func (d *MSSQLDialect) TruncateSQL(table string) string {
	return "DELETE FROM " + d.Quote(table)
}

func (d *MSSQLDialect) MultiRowInsert() bool { return true }

func (d *MSSQLDialect) BeforeLoad(tx *sql.Tx) error { return nil }
func (d *MSSQLDialect) AfterLoad(tx *sql.Tx) error  { return nil }

func (d *MSSQLDialect) TablesSQL() string {
	return `SELECT TABLE_NAME FROM INFORMATION_SCHEMA.TABLES
WHERE TABLE_SCHEMA = @p1 AND TABLE_TYPE = 'BASE TABLE'
ORDER BY TABLE_NAME`
}

func (d *MSSQLDialect) ColumnsSQL() string {
	return `SELECT c.TABLE_NAME, c.COLUMN_NAME, c.DATA_TYPE,
    COALESCE(c.CHARACTER_MAXIMUM_LENGTH, 0),
    CASE WHEN c.IS_NULLABLE = 'YES' THEN 1 ELSE 0 END,
    CASE WHEN pk.COLUMN_NAME IS NOT NULL THEN 1 ELSE 0 END
FROM INFORMATION_SCHEMA.COLUMNS c
LEFT JOIN (
    SELECT kcu.TABLE_NAME, kcu.COLUMN_NAME
    FROM INFORMATION_SCHEMA.TABLE_CONSTRAINTS tc
    JOIN INFORMATION_SCHEMA.KEY_COLUMN_USAGE kcu ON tc.CONSTRAINT_NAME = kcu.CONSTRAINT_NAME
    WHERE tc.CONSTRAINT_TYPE = 'PRIMARY KEY' AND tc.TABLE_SCHEMA = @p1
) pk ON c.TABLE_NAME = pk.TABLE_NAME AND c.COLUMN_NAME = pk.COLUMN_NAME
WHERE c.TABLE_SCHEMA = @p1
ORDER BY c.TABLE_NAME, c.ORDINAL_POSITION`
}

func (d *MSSQLDialect) ForeignKeysSQL() string {
	return `SELECT KCU1.TABLE_NAME, KCU1.COLUMN_NAME, KCU2.TABLE_NAME, KCU2.COLUMN_NAME
FROM INFORMATION_SCHEMA.REFERENTIAL_CONSTRAINTS RC
JOIN INFORMATION_SCHEMA.KEY_COLUMN_USAGE KCU1 ON RC.CONSTRAINT_NAME = KCU1.CONSTRAINT_NAME
JOIN INFORMATION_SCHEMA.KEY_COLUMN_USAGE KCU2 ON RC.UNIQUE_CONSTRAINT_NAME = KCU2.CONSTRAINT_NAME
WHERE KCU1.TABLE_SCHEMA = @p1`
}

func (d *MSSQLDialect) DefaultSchema(name string) string {
	if name == "" {
		return "dbo"
	}
	return name
}

func (d *MSSQLDialect) FieldType(dbType string) schema.FieldType {
	switch strings.ToLower(dbType) {
	case "tinyint", "smallint", "int", "bigint":
		return schema.TypeInteger
	case "decimal", "numeric", "money", "smallmoney", "float", "real":
		return schema.TypeFloat
	case "bit":
		return schema.TypeBoolean
	case "date":
		return schema.TypeDate
	case "datetime", "datetime2", "smalldatetime", "datetimeoffset":
		return schema.TypeDatetime
	default:
		return schema.TypeString
	}
}
