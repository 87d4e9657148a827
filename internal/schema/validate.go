package schema

import (
	"fmt"
	"regexp"
	"strings"
)

// ValidationError reports a structurally invalid schema, pointing at the
// offending table and field.
type ValidationError struct {
	Table  string
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	switch {
	case e.Table == "":
		return fmt.Sprintf("invalid schema: %s", e.Reason)
	case e.Field == "":
		return fmt.Sprintf("invalid schema: table %q: %s", e.Table, e.Reason)
	}
	return fmt.Sprintf("invalid schema: table %q field %q: %s", e.Table, e.Field, e.Reason)
}

// CycleError reports tables whose foreign keys form a dependency cycle.
type CycleError struct {
	Tables []string
}

func (e *CycleError) Error() string {
	return fmt.Sprintf("foreign-key cycle involving tables: %s", strings.Join(e.Tables, ", "))
}

// Validate checks the structural invariants once after construction:
// every primary key names an existing field, every foreign key points at an
// existing table's primary key, and the dependency graph is acyclic.
// A failure means the Definition must be discarded.
func (d *Definition) Validate() error {
	if len(d.Tables) == 0 {
		return &ValidationError{Reason: "schema has no tables"}
	}
	d.tableIndex = make(map[string]*Table, len(d.Tables))
	for _, t := range d.Tables {
		if t.Name == "" {
			return &ValidationError{Reason: "table with empty name"}
		}
		if _, dup := d.tableIndex[t.Name]; dup {
			return &ValidationError{Table: t.Name, Reason: "duplicate table name"}
		}
		d.tableIndex[t.Name] = t
		t.index()
	}
	for _, t := range d.Tables {
		if err := d.validateTable(t); err != nil {
			return err
		}
	}
	if _, err := d.TopologicalOrder(); err != nil {
		return err
	}
	return nil
}

func (d *Definition) validateTable(t *Table) error {
	if len(t.Fields) == 0 {
		return &ValidationError{Table: t.Name, Reason: "table has no fields"}
	}
	if t.PrimaryKey == "" {
		return &ValidationError{Table: t.Name, Reason: "primary_key is not set"}
	}
	if t.Field(t.PrimaryKey) == nil {
		return &ValidationError{Table: t.Name, Field: t.PrimaryKey, Reason: "primary_key names a field that does not exist"}
	}
	seen := make(map[string]bool, len(t.Fields))
	for _, f := range t.Fields {
		if seen[f.Name] {
			return &ValidationError{Table: t.Name, Field: f.Name, Reason: "duplicate field name"}
		}
		seen[f.Name] = true
		if !f.Type.Valid() {
			return &ValidationError{Table: t.Name, Field: f.Name, Reason: fmt.Sprintf("unknown field type %q", f.Type)}
		}
		if f.Type == TypeChoice && len(f.Constraints.Choices) == 0 {
			return &ValidationError{Table: t.Name, Field: f.Name, Reason: "choice field has no choices"}
		}
		if p := f.Constraints.Pattern; p != "" {
			if _, err := regexp.Compile(p); err != nil {
				return &ValidationError{Table: t.Name, Field: f.Name, Reason: fmt.Sprintf("invalid pattern: %v", err)}
			}
		}
	}
	for _, fk := range t.ForeignKeys {
		if t.Field(fk.Field) == nil {
			return &ValidationError{Table: t.Name, Field: fk.Field, Reason: "foreign key declared on a field that does not exist"}
		}
		ref := d.Table(fk.RefTable)
		if ref == nil {
			return &ValidationError{Table: t.Name, Field: fk.Field, Reason: fmt.Sprintf("foreign key references unknown table %q", fk.RefTable)}
		}
		if ref.Field(fk.RefField) == nil {
			return &ValidationError{Table: t.Name, Field: fk.Field, Reason: fmt.Sprintf("foreign key references unknown field %q.%q", fk.RefTable, fk.RefField)}
		}
		if fk.RefField != ref.PrimaryKey {
			return &ValidationError{Table: t.Name, Field: fk.Field, Reason: fmt.Sprintf("foreign key must reference the primary key of %q (%s)", fk.RefTable, ref.PrimaryKey)}
		}
	}
	return nil
}
