package convert

import (
	"strconv"
	"strings"

	"synthdb/internal/schema"
)

// pkCandidates are the identifier fields a component may carry, most
// specific first. Claiming is first-come: once a table owns a candidate,
// later tables carrying the same field are treated as referencing it.
var pkCandidates = []string{
	"תעודת_זהות", "מספר_כרטיס", "מספר_חשבון",
	"id", "uuid", "israeli_id", "card_number", "account_number",
	"customer_id", "user_id",
}

// APIToDefinition converts parsed API components into a validated
// definition. Only object components become tables; component and
// property order survive. The conversion is atomic: any failure leaves
// no partial result.
func APIToDefinition(api *APIDocument, name string) (*schema.Definition, error) {
	def := &schema.Definition{
		Name:    name,
		Version: api.Info.Version,
		Locale:  "he_IL",
		Settings: schema.Settings{
			DefaultRecords: 1000,
			Locale:         "he_IL",
		},
	}
	if def.Name == "" {
		def.Name = definitionName(api.Info.Title)
	}
	if def.Version == "" {
		def.Version = "1.0"
	}

	for _, c := range api.Schemas {
		if c.Type != "object" {
			continue
		}
		t := &schema.Table{Name: TableName(c.Name), Description: c.Description}
		required := make(map[string]bool, len(c.Required))
		for _, r := range c.Required {
			required[r] = true
		}
		for _, p := range c.Properties {
			path := "components.schemas." + c.Name + ".properties." + p.Name
			f, err := fieldFromProperty(p, path)
			if err != nil {
				return nil, err
			}
			f.Required = required[p.Name]
			t.Fields = append(t.Fields, f)
		}
		def.Tables = append(def.Tables, t)
	}

	claimPrimaryKeys(def.Tables)
	inferForeignKeys(def.Tables)
	attachGenerators(def.Tables)

	if err := def.Validate(); err != nil {
		return nil, err
	}
	return def, nil
}

// fieldFromProperty maps one property onto a canonical field. Enum
// properties become choice fields whatever their declared type, keeping
// the literals as drawn values.
func fieldFromProperty(p *Property, path string) (*schema.Field, error) {
	f := &schema.Field{Name: p.Name, Description: p.Description}
	switch {
	case len(p.Enum) > 0:
		f.Type = schema.TypeChoice
		f.Constraints.Choices = p.Enum
	case p.Type == "integer":
		f.Type = schema.TypeInteger
	case p.Type == "number":
		f.Type = schema.TypeFloat
	case p.Type == "boolean":
		f.Type = schema.TypeBoolean
	case p.Type == "string" && p.Format == "date":
		f.Type = schema.TypeDate
	case p.Type == "string" && p.Format == "date-time":
		f.Type = schema.TypeDatetime
	case p.Type == "string":
		f.Type = schema.TypeString
	default:
		return nil, &FormatError{Path: path + ".type", Reason: "unsupported type " + strconv.Quote(p.Type)}
	}
	f.Constraints.Pattern = p.Pattern
	f.Constraints.MaxLength = p.MaxLength
	f.Constraints.Min = p.Minimum
	f.Constraints.Max = p.Maximum
	if p.Format == "email" && f.Type == schema.TypeString {
		f.Generator = "email"
	}
	return f, nil
}

func fieldSet(t *schema.Table) map[string]bool {
	m := make(map[string]bool, len(t.Fields))
	for _, f := range t.Fields {
		m[f.Name] = true
	}
	return m
}

func claimPrimaryKeys(tables []*schema.Table) {
	claimed := make(map[string]bool, len(tables))
	for _, t := range tables {
		names := fieldSet(t)
		for _, cand := range pkCandidates {
			if !names[cand] || claimed[cand] {
				continue
			}
			t.PrimaryKey = cand
			claimed[cand] = true
			break
		}
		if t.PrimaryKey == "" && len(t.Fields) > 0 {
			t.PrimaryKey = t.Fields[0].Name
		}
	}
}

// inferForeignKeys links a field to another table when it carries that
// table's claimed primary key. If the inferred edges happen to form a
// cycle the whole inference is dropped so the result stays loadable.
func inferForeignKeys(tables []*schema.Table) {
	owner := make(map[string]*schema.Table, len(tables))
	for _, t := range tables {
		if t.PrimaryKey != "" && owner[t.PrimaryKey] == nil {
			owner[t.PrimaryKey] = t
		}
	}
	for _, t := range tables {
		for _, f := range t.Fields {
			parent := owner[f.Name]
			if parent == nil || parent == t || f.Name == t.PrimaryKey {
				continue
			}
			t.ForeignKeys = append(t.ForeignKeys, &schema.ForeignKey{
				Field:    f.Name,
				RefTable: parent.Name,
				RefField: f.Name,
			})
		}
	}
	probe := &schema.Definition{Tables: tables}
	if _, err := probe.TopologicalOrder(); err != nil {
		for _, t := range tables {
			t.ForeignKeys = nil
		}
	}
}

func attachGenerators(tables []*schema.Table) {
	for _, t := range tables {
		fks := make(map[string]bool, len(t.ForeignKeys))
		for _, fk := range t.ForeignKeys {
			fks[fk.Field] = true
		}
		for _, f := range t.Fields {
			if f.Generator != "" || fks[f.Name] {
				continue
			}
			if g := GuessGenerator(f); g != "" {
				f.Generator = g
			}
		}
	}
}

// DefinitionToAPI renders a definition as API components. Generators and
// relationships have no counterpart on the API side and are dropped;
// names, types, required flags, constraints and descriptions survive.
func DefinitionToAPI(def *schema.Definition) *APIDocument {
	api := &APIDocument{
		OpenAPI: "3.0.0",
		Info: Info{
			Title:   apiTitle(def.Name),
			Version: def.Version,
		},
	}
	if api.Info.Version == "" {
		api.Info.Version = "1.0.0"
	}
	for _, t := range def.Tables {
		c := &Component{
			Name:        ComponentName(t.Name),
			Type:        "object",
			Description: t.Description,
		}
		for _, f := range t.Fields {
			c.Properties = append(c.Properties, propertyFromField(f))
			if f.Required {
				c.Required = append(c.Required, f.Name)
			}
		}
		api.Schemas = append(api.Schemas, c)
	}
	return api
}

func propertyFromField(f *schema.Field) *Property {
	p := &Property{Name: f.Name, Description: f.Description}
	switch f.Type {
	case schema.TypeInteger:
		p.Type = "integer"
	case schema.TypeFloat:
		p.Type = "number"
	case schema.TypeBoolean:
		p.Type = "boolean"
	case schema.TypeDate:
		p.Type = "string"
		p.Format = "date"
	case schema.TypeDatetime:
		p.Type = "string"
		p.Format = "date-time"
	case schema.TypeChoice:
		p.Type = enumType(f.Constraints.Choices)
		p.Enum = f.Constraints.Choices
	default:
		p.Type = "string"
	}
	p.Pattern = f.Constraints.Pattern
	p.MaxLength = f.Constraints.MaxLength
	p.Minimum = f.Constraints.Min
	p.Maximum = f.Constraints.Max
	if f.Generator == "email" {
		p.Format = "email"
	}
	if ex, ok := fieldExamples[f.Name]; ok {
		p.Example = ex
	}
	return p
}

// enumType reports the JSON type shared by the choice literals, falling
// back to string for a mixed set.
func enumType(choices []any) string {
	kind := ""
	for _, c := range choices {
		var k string
		switch c.(type) {
		case int, int64:
			k = "integer"
		case float64:
			k = "number"
		case bool:
			k = "boolean"
		default:
			k = "string"
		}
		if kind == "" {
			kind = k
			continue
		}
		if kind != k {
			if (kind == "integer" && k == "number") || (kind == "number" && k == "integer") {
				kind = "number"
				continue
			}
			return "string"
		}
	}
	if kind == "" {
		return "string"
	}
	return kind
}

func definitionName(title string) string {
	name := strings.ToLower(strings.TrimSpace(title))
	name = strings.TrimSuffix(name, " api")
	name = strings.ReplaceAll(name, " ", "_")
	if name == "" {
		name = "converted_schema"
	}
	return name
}

func apiTitle(name string) string {
	if name == "" {
		return "Banking Data API"
	}
	parts := strings.Split(name, "_")
	for i, p := range parts {
		if p == "" {
			continue
		}
		r := []rune(p)
		parts[i] = strings.ToUpper(string(r[0])) + string(r[1:])
	}
	return strings.Join(parts, " ") + " API"
}
