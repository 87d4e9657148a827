package store_test

import (
	"context"
	"path/filepath"
	"testing"

	_ "github.com/mattn/go-sqlite3"

	"synthdb/internal/engine"
	"synthdb/internal/schema"
	"synthdb/internal/store"
)

func miniBankDefinition(t *testing.T) *schema.Definition {
	t.Helper()
	def := &schema.Definition{
		Name:    "mini_bank",
		Version: "1.0",
		Locale:  "he_IL",
		Tables: []*schema.Table{
			{
				Name:       "users",
				PrimaryKey: "תעודת_זהות",
				Fields: []*schema.Field{
					{Name: "תעודת_זהות", Type: schema.TypeString, Required: true, Generator: "israeli_id"},
					{Name: "שם_פרטי", Type: schema.TypeString, Required: true, Generator: "hebrew_first_name"},
					{Name: "גיל", Type: schema.TypeInteger, Required: true},
					{Name: "יתרה", Type: schema.TypeFloat, Required: true},
				},
			},
			{
				Name:       "accounts",
				PrimaryKey: "מספר_חשבון",
				Fields: []*schema.Field{
					{Name: "מספר_חשבון", Type: schema.TypeString, Required: true, Generator: "account_number"},
					{Name: "תעודת_זהות", Type: schema.TypeString, Required: true},
					{Name: "סכום", Type: schema.TypeFloat, Required: true},
				},
				ForeignKeys: []*schema.ForeignKey{
					{Field: "תעודת_זהות", RefTable: "users", RefField: "תעודת_זהות"},
				},
			},
		},
		Settings: schema.Settings{DefaultRecords: 10},
	}
	if err := def.Validate(); err != nil {
		t.Fatalf("definition invalid: %v", err)
	}
	return def
}

func openTestStore(t *testing.T) *store.Store {
	t.Helper()
	dsn := filepath.Join(t.TempDir(), "bank.db")
	st, err := store.Open(context.Background(), "sqlite3", dsn)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { st.Close() })
	return st
}

func TestInitLoadVerify(t *testing.T) {
	ctx := context.Background()
	def := miniBankDefinition(t)
	data, report, err := engine.Run(ctx, def, engine.NewRegistry(), engine.Options{Records: 8, Seed: 11})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	st := openTestStore(t)
	if err := st.Init(ctx, def, false); err != nil {
		t.Fatalf("Init: %v", err)
	}
	var tables []string
	if err := st.Load(ctx, def, data, 0, func(table string, rows int) {
		tables = append(tables, table)
		if rows != 8 {
			t.Errorf("loaded %d rows into %s, expected 8", rows, table)
		}
	}); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(tables) != 2 || tables[0] != "users" || tables[1] != "accounts" {
		t.Errorf("load order %v, expected parents first", tables)
	}

	counts, err := st.Verify(ctx, def)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	generated := make(map[string]int)
	for _, tr := range report.Tables {
		generated[tr.Table] = tr.Generated
	}
	for _, c := range counts {
		if int(c.Rows) != generated[c.Table] {
			t.Errorf("%s holds %d rows, generated %d", c.Table, c.Rows, generated[c.Table])
		}
	}

	// A second Init must tolerate existing tables; with clean set it must
	// leave them empty.
	if err := st.Init(ctx, def, false); err != nil {
		t.Fatalf("repeat Init: %v", err)
	}
	if err := st.Init(ctx, def, true); err != nil {
		t.Fatalf("clean Init: %v", err)
	}
	counts, err = st.Verify(ctx, def)
	if err != nil {
		t.Fatalf("Verify after clean: %v", err)
	}
	for _, c := range counts {
		if c.Rows != 0 {
			t.Errorf("%s holds %d rows after clean Init", c.Table, c.Rows)
		}
	}
}

func TestInspect(t *testing.T) {
	ctx := context.Background()
	def := miniBankDefinition(t)
	st := openTestStore(t)
	if err := st.Init(ctx, def, false); err != nil {
		t.Fatalf("Init: %v", err)
	}

	got, err := st.Inspect(ctx, "", "recovered_bank")
	if err != nil {
		t.Fatalf("Inspect: %v", err)
	}
	if got.Name != "recovered_bank" {
		t.Errorf("name %q, expected recovered_bank", got.Name)
	}
	if got.TargetSystem != "sqlite" {
		t.Errorf("target system %q, expected sqlite", got.TargetSystem)
	}
	if len(got.Tables) != 2 {
		t.Fatalf("inspected %d tables, expected 2", len(got.Tables))
	}

	users := got.Table("users")
	if users == nil {
		t.Fatal("missing users table")
	}
	if users.PrimaryKey != "תעודת_זהות" {
		t.Errorf("users primary key %q", users.PrimaryKey)
	}
	cases := []struct {
		field string
		typ   schema.FieldType
	}{
		{"תעודת_זהות", schema.TypeString},
		{"שם_פרטי", schema.TypeString},
		{"גיל", schema.TypeInteger},
		{"יתרה", schema.TypeFloat},
	}
	for _, c := range cases {
		f := users.Field(c.field)
		if f == nil {
			t.Fatalf("missing users field %s", c.field)
		}
		if f.Type != c.typ {
			t.Errorf("users.%s type %s, expected %s", c.field, f.Type, c.typ)
		}
	}
	if f := users.Field("שם_פרטי"); !f.Required {
		t.Error("users.שם_פרטי lost its NOT NULL")
	}
	if g := users.Field("תעודת_זהות").Generator; g != "israeli_id" {
		t.Errorf("users.תעודת_זהות generator %q, expected israeli_id", g)
	}
	if g := users.Field("שם_פרטי").Generator; g != "hebrew_first_name" {
		t.Errorf("users.שם_פרטי generator %q, expected hebrew_first_name", g)
	}

	accounts := got.Table("accounts")
	if accounts == nil {
		t.Fatal("missing accounts table")
	}
	if accounts.PrimaryKey != "מספר_חשבון" {
		t.Errorf("accounts primary key %q", accounts.PrimaryKey)
	}
	fk := accounts.ForeignKey("תעודת_זהות")
	if fk == nil {
		t.Fatal("accounts foreign key on תעודת_זהות not recovered")
	}
	if fk.RefTable != "users" || fk.RefField != "תעודת_זהות" {
		t.Errorf("foreign key targets %s.%s", fk.RefTable, fk.RefField)
	}
	if g := accounts.Field("תעודת_זהות").Generator; g != "" {
		t.Errorf("foreign key field carries generator %q", g)
	}

	// The recovered definition must order parents before children.
	order, err := got.TopologicalOrder()
	if err != nil {
		t.Fatalf("TopologicalOrder: %v", err)
	}
	if order[0].Name != "users" || order[1].Name != "accounts" {
		t.Errorf("order %s, %s", order[0].Name, order[1].Name)
	}

	// Inspection output must be generation-ready as is.
	data, _, err := engine.Run(ctx, got, engine.NewRegistry(), engine.Options{Records: 3, Seed: 5})
	if err != nil {
		t.Fatalf("Run on inspected definition: %v", err)
	}
	if len(data["accounts"].Rows) != 3 {
		t.Errorf("generated %d account rows, expected 3", len(data["accounts"].Rows))
	}
}
