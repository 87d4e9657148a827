package convert_test

import (
	"errors"
	"reflect"
	"strings"
	"testing"

	"synthdb/internal/convert"
	"synthdb/internal/schema"
)

const bankingAPI = `{
  "openapi": "3.0.0",
  "info": {"title": "Israeli Banking API", "version": "2.1.0"},
  "paths": {},
  "components": {
    "schemas": {
      "User": {
        "type": "object",
        "description": "לקוח בנק",
        "properties": {
          "תעודת_זהות": {
            "type": "string",
            "description": "מספר תעודת זהות ישראלית",
            "pattern": "^[0-9]{9}$",
            "maxLength": 9,
            "example": "123456782"
          },
          "שם_פרטי": {"type": "string", "maxLength": 50},
          "דואר_אלקטרוני": {"type": "string", "format": "email"},
          "תאריך_יצירה": {"type": "string", "format": "date-time"},
          "דירוג": {"type": "integer", "minimum": 300, "maximum": 850},
          "סטטוס": {"type": "string", "enum": ["פעיל", "מושעה"]}
        },
        "required": ["תעודת_זהות", "שם_פרטי"]
      },
      "Account": {
        "type": "object",
        "properties": {
          "מספר_חשבון": {"type": "string", "maxLength": 15},
          "תעודת_זהות": {"type": "string", "maxLength": 9},
          "יתרה": {"type": "number", "minimum": 0, "maximum": 1000000},
          "תאריך_פתיחה": {"type": "string", "format": "date"},
          "פעיל": {"type": "boolean"}
        },
        "required": ["מספר_חשבון", "תעודת_זהות"]
      }
    }
  }
}`

func TestParseAPI(t *testing.T) {
	api, err := convert.ParseAPI([]byte(bankingAPI))
	if err != nil {
		t.Fatalf("ParseAPI: %v", err)
	}
	if api.OpenAPI != "3.0.0" {
		t.Errorf("openapi = %q", api.OpenAPI)
	}
	if api.Info.Title != "Israeli Banking API" || api.Info.Version != "2.1.0" {
		t.Errorf("info = %+v", api.Info)
	}
	if len(api.Schemas) != 2 || api.Schemas[0].Name != "User" || api.Schemas[1].Name != "Account" {
		t.Fatalf("unexpected components: %+v", api.Schemas)
	}

	user := api.Schemas[0]
	if user.Type != "object" || user.Description != "לקוח בנק" {
		t.Errorf("user component = %+v", user)
	}
	if !reflect.DeepEqual(user.Required, []string{"תעודת_זהות", "שם_פרטי"}) {
		t.Errorf("required = %v", user.Required)
	}
	if len(user.Properties) != 6 {
		t.Fatalf("user has %d properties", len(user.Properties))
	}
	id := user.Properties[0]
	if id.Name != "תעודת_זהות" || id.Type != "string" || id.Pattern != "^[0-9]{9}$" || id.MaxLength != 9 {
		t.Errorf("id property = %+v", id)
	}
	if id.Example != "123456782" {
		t.Errorf("example = %v", id.Example)
	}
	rating := user.Properties[4]
	if rating.Type != "integer" || rating.Minimum == nil || *rating.Minimum != 300 || rating.Maximum == nil || *rating.Maximum != 850 {
		t.Errorf("rating property = %+v", rating)
	}
	status := user.Properties[5]
	if len(status.Enum) != 2 || status.Enum[0] != "פעיל" {
		t.Errorf("enum = %v", status.Enum)
	}
}

func TestParseAPIFormatErrors(t *testing.T) {
	cases := []struct {
		name string
		doc  string
		path string
	}{
		{"no components", `{"openapi": "3.0.0"}`, "components"},
		{"no schemas", `{"components": {}}`, "components.schemas"},
		{"component not object", `{"components": {"schemas": {"User": "nope"}}}`, "components.schemas.User"},
		{"component without type", `{"components": {"schemas": {"User": {"properties": {}}}}}`, "components.schemas.User.type"},
		{"ref property", `{"components": {"schemas": {"User": {"type": "object", "properties": {"חשבון": {"$ref": "#/components/schemas/Account"}}}}}}`, "components.schemas.User.properties.חשבון"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := convert.ParseAPI([]byte(tc.doc))
			var fe *convert.FormatError
			if !errors.As(err, &fe) {
				t.Fatalf("err = %v, want FormatError", err)
			}
			if fe.Path != tc.path {
				t.Errorf("path = %q, want %q", fe.Path, tc.path)
			}
		})
	}
}

func TestAPIToDefinition(t *testing.T) {
	api, err := convert.ParseAPI([]byte(bankingAPI))
	if err != nil {
		t.Fatalf("ParseAPI: %v", err)
	}
	def, err := convert.APIToDefinition(api, "")
	if err != nil {
		t.Fatalf("APIToDefinition: %v", err)
	}
	if def.Name != "israeli_banking" {
		t.Errorf("name = %q", def.Name)
	}
	if def.Version != "2.1.0" || def.Locale != "he_IL" {
		t.Errorf("version = %q, locale = %q", def.Version, def.Locale)
	}

	users := def.Table("users")
	if users == nil {
		t.Fatal("users table missing")
	}
	if users.PrimaryKey != "תעודת_זהות" {
		t.Errorf("users primary key = %q", users.PrimaryKey)
	}
	accounts := def.Table("accounts")
	if accounts == nil {
		t.Fatal("accounts table missing")
	}
	if accounts.PrimaryKey != "מספר_חשבון" {
		t.Errorf("accounts primary key = %q", accounts.PrimaryKey)
	}
	fk := accounts.ForeignKey("תעודת_זהות")
	if fk == nil || fk.RefTable != "users" || fk.RefField != "תעודת_זהות" {
		t.Fatalf("inferred foreign key = %+v", fk)
	}

	typeChecks := []struct {
		table, field string
		want         schema.FieldType
	}{
		{"users", "תאריך_יצירה", schema.TypeDatetime},
		{"users", "דירוג", schema.TypeInteger},
		{"users", "סטטוס", schema.TypeChoice},
		{"accounts", "תאריך_פתיחה", schema.TypeDate},
		{"accounts", "יתרה", schema.TypeFloat},
		{"accounts", "פעיל", schema.TypeBoolean},
	}
	for _, tc := range typeChecks {
		f := def.Table(tc.table).Field(tc.field)
		if f == nil {
			t.Fatalf("%s.%s missing", tc.table, tc.field)
		}
		if f.Type != tc.want {
			t.Errorf("%s.%s type = %s, want %s", tc.table, tc.field, f.Type, tc.want)
		}
	}

	if f := accounts.Field("יתרה"); f.Constraints.Min == nil || *f.Constraints.Min != 0 || f.Constraints.Max == nil || *f.Constraints.Max != 1000000 {
		t.Errorf("יתרה constraints = %+v", f.Constraints)
	}
	if !users.Field("תעודת_זהות").Required || users.Field("דואר_אלקטרוני").Required {
		t.Error("required flags did not survive")
	}

	generatorChecks := []struct {
		table, field, want string
	}{
		{"users", "תעודת_זהות", "israeli_id"},
		{"users", "שם_פרטי", "hebrew_first_name"},
		{"users", "דואר_אלקטרוני", "email"},
		{"accounts", "מספר_חשבון", "account_number"},
		{"accounts", "תעודת_זהות", ""},
	}
	for _, tc := range generatorChecks {
		if g := def.Table(tc.table).Field(tc.field).Generator; g != tc.want {
			t.Errorf("%s.%s generator = %q, want %q", tc.table, tc.field, g, tc.want)
		}
	}
}

func TestAPIToDefinitionAtomic(t *testing.T) {
	doc := `{"components": {"schemas": {
		"User": {"type": "object", "properties": {"תעודת_זהות": {"type": "string"}}},
		"Report": {"type": "object", "properties": {"שדות": {"type": "array"}}}
	}}}`
	api, err := convert.ParseAPI([]byte(doc))
	if err != nil {
		t.Fatalf("ParseAPI: %v", err)
	}
	def, err := convert.APIToDefinition(api, "bad")
	var fe *convert.FormatError
	if !errors.As(err, &fe) {
		t.Fatalf("err = %v, want FormatError", err)
	}
	if fe.Path != "components.schemas.Report.properties.שדות.type" {
		t.Errorf("path = %q", fe.Path)
	}
	if def != nil {
		t.Errorf("conversion left a partial definition: %+v", def)
	}
}

func TestInferredCycleDropped(t *testing.T) {
	doc := `{"components": {"schemas": {
		"Alpha": {"type": "object", "properties": {"alpha_id": {"type": "string"}, "beta_id": {"type": "string"}}},
		"Beta": {"type": "object", "properties": {"beta_id": {"type": "string"}, "alpha_id": {"type": "string"}}}
	}}}`
	api, err := convert.ParseAPI([]byte(doc))
	if err != nil {
		t.Fatalf("ParseAPI: %v", err)
	}
	def, err := convert.APIToDefinition(api, "cycle")
	if err != nil {
		t.Fatalf("APIToDefinition: %v", err)
	}
	for _, tbl := range def.Tables {
		if len(tbl.ForeignKeys) != 0 {
			t.Errorf("table %s kept foreign keys %v after cycle drop", tbl.Name, tbl.ForeignKeys)
		}
	}
}

func TestDefinitionAPIRoundTrip(t *testing.T) {
	orig, err := schema.BuiltinBanking()
	if err != nil {
		t.Fatalf("BuiltinBanking: %v", err)
	}
	encoded, err := convert.EncodeAPI(convert.DefinitionToAPI(orig))
	if err != nil {
		t.Fatalf("EncodeAPI: %v", err)
	}
	api, err := convert.ParseAPI(encoded)
	if err != nil {
		t.Fatalf("ParseAPI: %v", err)
	}
	back, err := convert.APIToDefinition(api, orig.Name)
	if err != nil {
		t.Fatalf("APIToDefinition: %v", err)
	}

	if back.Version != orig.Version {
		t.Errorf("version = %q, want %q", back.Version, orig.Version)
	}
	if len(back.Tables) != len(orig.Tables) {
		t.Fatalf("got %d tables, want %d", len(back.Tables), len(orig.Tables))
	}
	for i, want := range orig.Tables {
		got := back.Tables[i]
		if got.Name != want.Name {
			t.Fatalf("table %d = %q, want %q", i, got.Name, want.Name)
		}
		if got.PrimaryKey != want.PrimaryKey {
			t.Errorf("%s: primary key %q, want %q", got.Name, got.PrimaryKey, want.PrimaryKey)
		}
		if len(got.Fields) != len(want.Fields) {
			t.Fatalf("%s: %d fields, want %d", got.Name, len(got.Fields), len(want.Fields))
		}
		for j, wf := range want.Fields {
			gf := got.Fields[j]
			if gf.Name != wf.Name || gf.Type != wf.Type || gf.Required != wf.Required {
				t.Errorf("%s.%s: got (%s, %v), want (%s, %v)",
					got.Name, wf.Name, gf.Type, gf.Required, wf.Type, wf.Required)
			}
			if gf.Constraints.Pattern != wf.Constraints.Pattern || gf.Constraints.MaxLength != wf.Constraints.MaxLength {
				t.Errorf("%s.%s: constraints %+v, want %+v", got.Name, wf.Name, gf.Constraints, wf.Constraints)
			}
			if !sameBound(gf.Constraints.Min, wf.Constraints.Min) || !sameBound(gf.Constraints.Max, wf.Constraints.Max) {
				t.Errorf("%s.%s: numeric bounds changed", got.Name, wf.Name)
			}
			if !reflect.DeepEqual(gf.Constraints.Choices, wf.Constraints.Choices) {
				t.Errorf("%s.%s: choices %v, want %v", got.Name, wf.Name, gf.Constraints.Choices, wf.Constraints.Choices)
			}
		}
		if !reflect.DeepEqual(fkEdges(got), fkEdges(want)) {
			t.Errorf("%s: foreign keys %v, want %v", got.Name, fkEdges(got), fkEdges(want))
		}
	}

	// Name hints bring string generators back; date generators exist only
	// on the definition side and reset to the type default.
	generatorChecks := []struct {
		table, field, want string
	}{
		{"users", "תעודת_זהות", "israeli_id"},
		{"users", "טלפון", "israeli_phone"},
		{"accounts", "מספר_חשבון", "account_number"},
		{"credit_cards", "מספר_כרטיס", "credit_card_number"},
		{"credit_cards", "תוקף", "credit_card_expiry"},
		{"transactions", "id", "uuid"},
		{"transactions", "שם_עסק", "hebrew_business_name"},
	}
	for _, tc := range generatorChecks {
		if g := back.Table(tc.table).Field(tc.field).Generator; g != tc.want {
			t.Errorf("%s.%s generator = %q, want %q", tc.table, tc.field, g, tc.want)
		}
	}
}

func TestEncodeAPIOutput(t *testing.T) {
	def, err := schema.BuiltinBanking()
	if err != nil {
		t.Fatalf("BuiltinBanking: %v", err)
	}
	out, err := convert.EncodeAPI(convert.DefinitionToAPI(def))
	if err != nil {
		t.Fatalf("EncodeAPI: %v", err)
	}
	s := string(out)
	for _, want := range []string{
		`"openapi": "3.0.0"`,
		`"title": "Israeli Banking Database Schema API"`,
		`"paths": {}`,
		`"תעודת_זהות"`,
		`"format": "date-time"`,
		`"enum"`,
	} {
		if !strings.Contains(s, want) {
			t.Errorf("output missing %s", want)
		}
	}
	if strings.Contains(s, `\u`) {
		t.Error("Hebrew escaped instead of written as UTF-8")
	}
}

func TestNamingMaps(t *testing.T) {
	cases := []struct{ component, table string }{
		{"User", "users"},
		{"CreditCard", "credit_cards"},
		{"Transaction", "transactions"},
		{"Invoice", "invoices"},
		{"LoanOffer", "loan_offers"},
	}
	for _, tc := range cases {
		if got := convert.TableName(tc.component); got != tc.table {
			t.Errorf("TableName(%s) = %s, want %s", tc.component, got, tc.table)
		}
		if got := convert.ComponentName(tc.table); got != tc.component {
			t.Errorf("ComponentName(%s) = %s, want %s", tc.table, got, tc.component)
		}
	}
	if got := convert.EnglishFieldName("תעודת_זהות"); got != "israeli_id" {
		t.Errorf("EnglishFieldName = %s", got)
	}
	if got := convert.HebrewFieldName("israeli_id"); got != "תעודת_זהות" {
		t.Errorf("HebrewFieldName = %s", got)
	}
	if got := convert.EnglishFieldName("custom_field"); got != "custom_field" {
		t.Errorf("EnglishFieldName fallback = %s", got)
	}
}

func sameBound(a, b *float64) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func fkEdges(t *schema.Table) []string {
	var out []string
	for _, fk := range t.ForeignKeys {
		out = append(out, fk.Field+"->"+fk.RefTable+"."+fk.RefField)
	}
	return out
}
