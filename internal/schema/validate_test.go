package schema_test

import (
	"errors"
	"testing"

	"synthdb/internal/schema"
)

func validDef() *schema.Definition {
	return &schema.Definition{
		Name: "test",
		Tables: []*schema.Table{
			{
				Name:       "users",
				PrimaryKey: "national_id",
				Fields: []*schema.Field{
					strField("national_id"),
					strField("name"),
				},
			},
			{
				Name:       "accounts",
				PrimaryKey: "account_number",
				Fields: []*schema.Field{
					strField("account_number"),
					strField("national_id"),
				},
				ForeignKeys: []*schema.ForeignKey{
					{Field: "national_id", RefTable: "users", RefField: "national_id"},
				},
			},
		},
	}
}

func TestValidate_OK(t *testing.T) {
	if err := validDef().Validate(); err != nil {
		t.Fatalf("Expected valid schema, got %v", err)
	}
}

func TestValidate_Failures(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(d *schema.Definition)
		table  string
		field  string
	}{
		{
			name:   "primary key not among fields",
			mutate: func(d *schema.Definition) { d.Tables[0].PrimaryKey = "missing" },
			table:  "users",
			field:  "missing",
		},
		{
			name:   "primary key unset",
			mutate: func(d *schema.Definition) { d.Tables[0].PrimaryKey = "" },
			table:  "users",
		},
		{
			name: "foreign key to unknown table",
			mutate: func(d *schema.Definition) {
				d.Tables[1].ForeignKeys[0].RefTable = "ghosts"
			},
			table: "accounts",
			field: "national_id",
		},
		{
			name: "foreign key to unknown field",
			mutate: func(d *schema.Definition) {
				d.Tables[1].ForeignKeys[0].RefField = "ghost_id"
			},
			table: "accounts",
			field: "national_id",
		},
		{
			name: "foreign key to a non primary-key field",
			mutate: func(d *schema.Definition) {
				d.Tables[1].ForeignKeys[0].RefField = "name"
			},
			table: "accounts",
			field: "national_id",
		},
		{
			name: "foreign key on unknown field",
			mutate: func(d *schema.Definition) {
				d.Tables[1].ForeignKeys[0].Field = "ghost"
			},
			table: "accounts",
			field: "ghost",
		},
		{
			name: "choice field without choices",
			mutate: func(d *schema.Definition) {
				d.Tables[0].Fields[1].Type = schema.TypeChoice
			},
			table: "users",
			field: "name",
		},
		{
			name: "unknown field type",
			mutate: func(d *schema.Definition) {
				d.Tables[0].Fields[1].Type = "decimal"
			},
			table: "users",
			field: "name",
		},
		{
			name: "invalid pattern",
			mutate: func(d *schema.Definition) {
				d.Tables[0].Fields[1].Constraints.Pattern = "[0-9"
			},
			table: "users",
			field: "name",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			def := validDef()
			tc.mutate(def)
			err := def.Validate()
			if err == nil {
				t.Fatal("Expected validation error, got nil")
			}
			var verr *schema.ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("Expected ValidationError, got %T: %v", err, err)
			}
			if verr.Table != tc.table {
				t.Errorf("Expected table %q in error, got %q", tc.table, verr.Table)
			}
			if tc.field != "" && verr.Field != tc.field {
				t.Errorf("Expected field %q in error, got %q", tc.field, verr.Field)
			}
		})
	}
}

func TestValidate_NoTables(t *testing.T) {
	def := &schema.Definition{Name: "empty"}
	var verr *schema.ValidationError
	if err := def.Validate(); !errors.As(err, &verr) {
		t.Fatalf("Expected ValidationError, got %v", err)
	}
}

func TestValidate_MutualCycleFailsConstruction(t *testing.T) {
	// Two tables referencing each other must be rejected at construction,
	// before any generation can start.
	def := &schema.Definition{
		Tables: []*schema.Table{
			{
				Name: "a", PrimaryKey: "id",
				Fields:      []*schema.Field{strField("id"), strField("b_id")},
				ForeignKeys: []*schema.ForeignKey{{Field: "b_id", RefTable: "b", RefField: "id"}},
			},
			{
				Name: "b", PrimaryKey: "id",
				Fields:      []*schema.Field{strField("id"), strField("a_id")},
				ForeignKeys: []*schema.ForeignKey{{Field: "a_id", RefTable: "a", RefField: "id"}},
			},
		},
	}

	err := def.Validate()
	if err == nil {
		t.Fatal("Expected cycle error, got nil")
	}
	var cycleErr *schema.CycleError
	if !errors.As(err, &cycleErr) {
		t.Fatalf("Expected CycleError, got %T: %v", err, err)
	}
}
