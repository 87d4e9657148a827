package dialect

import (
	"database/sql"
	"fmt"
	"strings"

	sq "github.com/Masterminds/squirrel"

	"synthdb/internal/schema"
)

type OracleDialect struct{}

func (d *OracleDialect) Name() string   { return "oracle" }
func (d *OracleDialect) Driver() string { return "oracle" }

func (d *OracleDialect) Quote(ident string) string { return `"` + ident + `"` }

func (d *OracleDialect) Placeholder() sq.PlaceholderFormat { return sq.Colon }

// VARCHAR2 lengths use CHAR semantics so Hebrew text is measured in
// characters, not bytes.
func (d *OracleDialect) ColumnType(f *schema.Field) string {
	switch f.Type {
	case schema.TypeInteger:
		return "NUMBER(19)"
	case schema.TypeFloat:
		return "BINARY_DOUBLE"
	case schema.TypeBoolean:
		return "NUMBER(1)"
	case schema.TypeDate:
		return "DATE"
	case schema.TypeDatetime:
		return "TIMESTAMP"
	case schema.TypeChoice:
		switch ChoiceKind(f) {
		case schema.TypeInteger:
			return "NUMBER(19)"
		case schema.TypeFloat:
			return "BINARY_DOUBLE"
		}
		return "VARCHAR2(255 CHAR)"
	default:
		if n := f.Constraints.MaxLength; n > 0 {
			return fmt.Sprintf("VARCHAR2(%d CHAR)", n)
		}
		return "VARCHAR2(4000 CHAR)"
	}
}

// Booleans become 0/1 since Oracle has no boolean column type.
func (d *OracleDialect) BindValue(f *schema.Field, v any) any {
	if b, ok := v.(bool); ok {
		if b {
			return 1
		}
		return 0
	}
	return DefaultBindValue(f, v)
}

func (d *OracleDialect) CreateTableSQL(t *schema.Table) string {
	return BuildCreateTable(d, t, "CREATE TABLE ")
}

func (d *OracleDialect) DropTableSQL(table string) string {
	return "DROP TABLE " + d.Quote(table) + " CASCADE CONSTRAINTS"
}

func (d *OracleDialect) TruncateSQL(table string) string {
	return "DELETE FROM " + d.Quote(table)
}

// Oracle has no multi-row VALUES clause.
func (d *OracleDialect) MultiRowInsert() bool { return false }

// Dates are bound as ISO strings, so the session formats must match.
func (d *OracleDialect) BeforeLoad(tx *sql.Tx) error {
	if _, err := tx.Exec("ALTER SESSION SET NLS_DATE_FORMAT = 'YYYY-MM-DD HH24:MI:SS'"); err != nil {
		return fmt.Errorf("failed to set NLS_DATE_FORMAT: %w", err)
	}
	if _, err := tx.Exec("ALTER SESSION SET NLS_TIMESTAMP_FORMAT = 'YYYY-MM-DD HH24:MI:SS'"); err != nil {
		return fmt.Errorf("failed to set NLS_TIMESTAMP_FORMAT: %w", err)
	}
	return nil
}

func (d *OracleDialect) AfterLoad(tx *sql.Tx) error { return nil }

// The USER_ views are scoped to the connected user, so the schema name
// only feeds the bind slot. NUMBER columns are split on scale: a nonzero
// scale reads as DECIMAL, the rest as INTEGER.

func (d *OracleDialect) TablesSQL() string {
	return `SELECT TABLE_NAME FROM USER_TABLES WHERE :1 IS NOT NULL ORDER BY TABLE_NAME`
}

func (d *OracleDialect) ColumnsSQL() string {
	return `SELECT t.TABLE_NAME, t.COLUMN_NAME,
    CASE
        WHEN t.DATA_TYPE = 'NUMBER' AND COALESCE(t.DATA_SCALE, 0) > 0 THEN 'DECIMAL'
        WHEN t.DATA_TYPE = 'NUMBER' THEN 'INTEGER'
        ELSE t.DATA_TYPE
    END,
    COALESCE(t.CHAR_LENGTH, 0),
    CASE WHEN t.NULLABLE = 'Y' THEN 1 ELSE 0 END,
    CASE WHEN p.CONSTRAINT_NAME IS NOT NULL THEN 1 ELSE 0 END
FROM USER_TAB_COLUMNS t
LEFT JOIN (
    SELECT cc.TABLE_NAME, cc.COLUMN_NAME, cc.CONSTRAINT_NAME
    FROM USER_CONS_COLUMNS cc
    JOIN USER_CONSTRAINTS uc ON cc.CONSTRAINT_NAME = uc.CONSTRAINT_NAME
    WHERE uc.CONSTRAINT_TYPE = 'P'
) p ON t.TABLE_NAME = p.TABLE_NAME AND t.COLUMN_NAME = p.COLUMN_NAME
WHERE :1 IS NOT NULL
ORDER BY t.TABLE_NAME, t.COLUMN_ID`
}

func (d *OracleDialect) ForeignKeysSQL() string {
	return `SELECT c.TABLE_NAME, cc.COLUMN_NAME, r.TABLE_NAME, rcc.COLUMN_NAME
FROM USER_CONSTRAINTS c
JOIN USER_CONS_COLUMNS cc ON c.CONSTRAINT_NAME = cc.CONSTRAINT_NAME AND c.OWNER = cc.OWNER
JOIN USER_CONSTRAINTS r ON c.R_CONSTRAINT_NAME = r.CONSTRAINT_NAME AND c.R_OWNER = r.OWNER
JOIN USER_CONS_COLUMNS rcc ON r.CONSTRAINT_NAME = rcc.CONSTRAINT_NAME AND r.OWNER = rcc.OWNER
    AND cc.POSITION = rcc.POSITION
WHERE c.CONSTRAINT_TYPE = 'R' AND :1 IS NOT NULL`
}

func (d *OracleDialect) DefaultSchema(name string) string {
	if name == "" {
		return "user"
	}
	return name
}

func (d *OracleDialect) FieldType(dbType string) schema.FieldType {
	t := strings.ToLower(dbType)
	switch {
	case t == "integer":
		return schema.TypeInteger
	case t == "decimal" || strings.Contains(t, "float") || strings.Contains(t, "double"):
		return schema.TypeFloat
	case t == "date":
		return schema.TypeDate
	case strings.Contains(t, "timestamp"):
		return schema.TypeDatetime
	default:
		return schema.TypeString
	}
}
