package schema

// FieldType enumerates the value types a field may declare.
type FieldType string

const (
	TypeString   FieldType = "string"
	TypeInteger  FieldType = "integer"
	TypeFloat    FieldType = "float"
	TypeChoice   FieldType = "choice"
	TypeBoolean  FieldType = "boolean"
	TypeDate     FieldType = "date"
	TypeDatetime FieldType = "datetime"
)

func (t FieldType) Valid() bool {
	switch t {
	case TypeString, TypeInteger, TypeFloat, TypeChoice, TypeBoolean, TypeDate, TypeDatetime:
		return true
	}
	return false
}

// Constraints restrict the values a field may take. Zero values mean
// "not constrained"; Min and Max are pointers so 0 stays expressible.
type Constraints struct {
	Pattern   string
	MaxLength int
	Min       *float64
	Max       *float64
	Choices   []any
}

// Field is one column of a table. Generator optionally names a value
// generator; Params carries its extra parameters (prefix, days_back, ...).
type Field struct {
	Name        string
	Type        FieldType
	Description string
	Required    bool
	Constraints Constraints
	Generator   string
	Params      map[string]any
}

// ForeignKey declares that Field references RefTable's primary key.
type ForeignKey struct {
	Field    string
	RefTable string
	RefField string
}

type Table struct {
	Name        string
	Description string
	PrimaryKey  string
	Fields      []*Field // document order = column order
	ForeignKeys []*ForeignKey

	fieldIndex map[string]*Field
	fkIndex    map[string]*ForeignKey
}

// index builds the lookup maps. Called once during validation.
func (t *Table) index() {
	t.fieldIndex = make(map[string]*Field, len(t.Fields))
	for _, f := range t.Fields {
		if _, ok := t.fieldIndex[f.Name]; !ok {
			t.fieldIndex[f.Name] = f
		}
	}
	t.fkIndex = make(map[string]*ForeignKey, len(t.ForeignKeys))
	for _, fk := range t.ForeignKeys {
		t.fkIndex[fk.Field] = fk
	}
}

func (t *Table) Field(name string) *Field {
	if t.fieldIndex == nil {
		t.index()
	}
	return t.fieldIndex[name]
}

// PKField returns the primary-key field, or nil if the schema is invalid.
func (t *Table) PKField() *Field {
	return t.Field(t.PrimaryKey)
}

// ForeignKey returns the foreign key declared on the named field, or nil.
func (t *Table) ForeignKey(field string) *ForeignKey {
	if t.fkIndex == nil {
		t.index()
	}
	return t.fkIndex[field]
}

// FieldNames returns the column names in declaration order.
func (t *Table) FieldNames() []string {
	names := make([]string, len(t.Fields))
	for i, f := range t.Fields {
		names[i] = f.Name
	}
	return names
}

// Dependencies returns the distinct tables this table references,
// in foreign-key declaration order.
func (t *Table) Dependencies() []string {
	var deps []string
	seen := make(map[string]bool, len(t.ForeignKeys))
	for _, fk := range t.ForeignKeys {
		if !seen[fk.RefTable] {
			seen[fk.RefTable] = true
			deps = append(deps, fk.RefTable)
		}
	}
	return deps
}

// Settings are the document-level generation defaults.
type Settings struct {
	DefaultRecords int
	Locale         string
	Seed           int64
}

// Definition is the canonical schema model. It is validated once after
// construction and treated as an immutable snapshot from then on.
type Definition struct {
	Name         string
	Version      string
	Locale       string
	TargetSystem string
	Tables       []*Table // document order
	Settings     Settings

	tableIndex map[string]*Table
}

func (d *Definition) Table(name string) *Table {
	if d.tableIndex == nil {
		d.tableIndex = make(map[string]*Table, len(d.Tables))
		for _, t := range d.Tables {
			d.tableIndex[t.Name] = t
		}
	}
	return d.tableIndex[name]
}

func (d *Definition) TableNames() []string {
	names := make([]string, len(d.Tables))
	for i, t := range d.Tables {
		names[i] = t.Name
	}
	return names
}
