package dialect

import (
	"strings"
	"time"

	"synthdb/internal/schema"
)

// BuildCreateTable renders a CREATE TABLE statement using the dialect's
// quoting and column types. The primary key is declared inline; required
// fields become NOT NULL; foreign keys become REFERENCES clauses.
func BuildCreateTable(d Dialect, t *schema.Table, head string) string {
	var b strings.Builder
	b.WriteString(head)
	b.WriteString(d.Quote(t.Name))
	b.WriteString(" (\n")
	for i, f := range t.Fields {
		b.WriteString("  ")
		b.WriteString(d.Quote(f.Name))
		b.WriteString(" ")
		b.WriteString(d.ColumnType(f))
		if f.Name == t.PrimaryKey {
			b.WriteString(" PRIMARY KEY")
		} else if f.Required {
			b.WriteString(" NOT NULL")
		}
		if i < len(t.Fields)-1 || len(t.ForeignKeys) > 0 {
			b.WriteString(",")
		}
		b.WriteString("\n")
	}
	for i, fk := range t.ForeignKeys {
		b.WriteString("  FOREIGN KEY (")
		b.WriteString(d.Quote(fk.Field))
		b.WriteString(") REFERENCES ")
		b.WriteString(d.Quote(fk.RefTable))
		b.WriteString(" (")
		b.WriteString(d.Quote(fk.RefField))
		b.WriteString(")")
		if i < len(t.ForeignKeys)-1 {
			b.WriteString(",")
		}
		b.WriteString("\n")
	}
	b.WriteString(")")
	return b.String()
}

// ChoiceKind reports the SQL-relevant kind of a choice field by inspecting
// its literals: integer, float, or string.
func ChoiceKind(f *schema.Field) schema.FieldType {
	hasInt, hasFloat, hasOther := false, false, false
	for _, c := range f.Constraints.Choices {
		switch c.(type) {
		case int, int64:
			hasInt = true
		case float64:
			hasFloat = true
		default:
			hasOther = true
		}
	}
	switch {
	case hasOther || (!hasInt && !hasFloat):
		return schema.TypeString
	case hasFloat:
		return schema.TypeFloat
	default:
		return schema.TypeInteger
	}
}

// DefaultBindValue renders times as the ISO strings every supported engine
// parses; other values pass through to the driver untouched.
func DefaultBindValue(f *schema.Field, v any) any {
	if t, ok := v.(time.Time); ok {
		if f.Type == schema.TypeDate {
			return t.Format("2006-01-02")
		}
		return t.Format("2006-01-02 15:04:05")
	}
	return v
}
