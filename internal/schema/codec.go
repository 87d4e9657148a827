package schema

import (
	"fmt"
	"math"
	"sort"
)

// ParseDefinition decodes a Definition document (JSON or YAML) and returns
// the validated canonical schema. The result is an immutable snapshot; a
// validation failure leaves nothing registered.
func ParseDefinition(data []byte) (*Definition, error) {
	doc, err := DecodeDocument(data)
	if err != nil {
		return nil, err
	}
	return DefinitionFromDocument(doc)
}

// DefinitionFromDocument builds a Definition from an already-decoded
// document tree and validates it.
func DefinitionFromDocument(doc *Obj) (*Definition, error) {
	def := &Definition{}
	if info := doc.Obj("schema_info"); info != nil {
		def.Name = info.Str("name")
		def.Version = info.Str("version")
		def.Locale = info.Str("locale")
		def.TargetSystem = info.Str("target_system")
	}
	if tables := doc.Obj("tables"); tables != nil {
		for _, name := range tables.Keys() {
			to := tables.Obj(name)
			if to == nil {
				return nil, fmt.Errorf("table %q: definition must be an object", name)
			}
			t, err := tableFromDocument(name, to)
			if err != nil {
				return nil, err
			}
			def.Tables = append(def.Tables, t)
		}
	}
	def.Settings = settingsFromDocument(doc.Obj("generation_settings"))
	if err := def.Validate(); err != nil {
		return nil, err
	}
	return def, nil
}

func tableFromDocument(name string, o *Obj) (*Table, error) {
	t := &Table{
		Name:        name,
		Description: o.Str("description"),
		PrimaryKey:  o.Str("primary_key"),
	}
	if fields := o.Obj("fields"); fields != nil {
		for _, fname := range fields.Keys() {
			fo := fields.Obj(fname)
			if fo == nil {
				return nil, fmt.Errorf("table %q: field %q must be an object", name, fname)
			}
			t.Fields = append(t.Fields, fieldFromDocument(fname, fo))
		}
	}
	rels := o.Obj("relationships")
	if rels == nil {
		// older documents used this key
		rels = o.Obj("foreign_keys")
	}
	if rels != nil {
		for _, fname := range rels.Keys() {
			ref := ""
			if ro := rels.Obj(fname); ro != nil {
				ref = ro.Str("references")
			}
			refTable, refField, ok := splitRef(ref)
			if !ok {
				return nil, fmt.Errorf("table %q: relationship %q: references must be \"table.field\", got %q", name, fname, ref)
			}
			t.ForeignKeys = append(t.ForeignKeys, &ForeignKey{Field: fname, RefTable: refTable, RefField: refField})
		}
	}
	return t, nil
}

func fieldFromDocument(name string, o *Obj) *Field {
	f := &Field{
		Name:        name,
		Type:        FieldType(o.Str("type")),
		Description: o.Str("description"),
		Required:    o.Bool("required"),
	}
	if f.Type == "" {
		f.Type = TypeString
	}
	if co := o.Obj("constraints"); co != nil {
		f.Constraints = constraintsFromDocument(co)
	}
	if gen := o.Obj("generation"); gen != nil {
		for _, k := range gen.Keys() {
			v, _ := gen.Get(k)
			if k == "generator" {
				f.Generator, _ = v.(string)
				continue
			}
			if f.Params == nil {
				f.Params = make(map[string]any)
			}
			f.Params[k] = v
		}
	} else if g := o.Str("generator"); g != "" {
		// older documents bound the generator as a flat key
		f.Generator = g
	}
	return f
}

func constraintsFromDocument(o *Obj) Constraints {
	var c Constraints
	c.Pattern = o.Str("pattern")
	if n, ok := o.Int("max_length"); ok {
		c.MaxLength = n
	}
	if n, ok := o.Number("min"); ok {
		c.Min = &n
	}
	if n, ok := o.Number("max"); ok {
		c.Max = &n
	}
	c.Choices = o.List("choices")
	return c
}

func settingsFromDocument(o *Obj) Settings {
	s := Settings{DefaultRecords: 1000}
	if o == nil {
		return s
	}
	if n, ok := o.Int("default_records_per_table"); ok {
		s.DefaultRecords = n
	}
	s.Locale = o.Str("locale")
	if s.Locale == "" {
		s.Locale = o.Str("default_locale")
	}
	if n, ok := o.Int64("seed"); ok {
		s.Seed = n
	}
	return s
}

func splitRef(ref string) (table, field string, ok bool) {
	for i := 0; i < len(ref); i++ {
		if ref[i] == '.' {
			if i == 0 || i == len(ref)-1 {
				return "", "", false
			}
			return ref[:i], ref[i+1:], true
		}
	}
	return "", "", false
}

// EncodeDefinition renders the canonical schema as an indented Definition
// document, preserving table and field order.
func EncodeDefinition(def *Definition) ([]byte, error) {
	return EncodeIndent(DefinitionDocument(def))
}

// DefinitionDocument builds the ordered document tree for a Definition.
func DefinitionDocument(def *Definition) *Obj {
	doc := NewObj()

	info := NewObj()
	info.Set("name", def.Name)
	info.Set("version", def.Version)
	info.Set("locale", def.Locale)
	if def.TargetSystem != "" {
		info.Set("target_system", def.TargetSystem)
	}
	doc.Set("schema_info", info)

	tables := NewObj()
	for _, t := range def.Tables {
		tables.Set(t.Name, tableDocument(t))
	}
	doc.Set("tables", tables)

	settings := NewObj()
	settings.Set("default_records_per_table", int64(def.Settings.DefaultRecords))
	if def.Settings.Locale != "" {
		settings.Set("locale", def.Settings.Locale)
	}
	if def.Settings.Seed != 0 {
		settings.Set("seed", def.Settings.Seed)
	}
	doc.Set("generation_settings", settings)

	return doc
}

func tableDocument(t *Table) *Obj {
	o := NewObj()
	if t.Description != "" {
		o.Set("description", t.Description)
	}
	o.Set("primary_key", t.PrimaryKey)
	fields := NewObj()
	for _, f := range t.Fields {
		fields.Set(f.Name, fieldDocument(f))
	}
	o.Set("fields", fields)
	if len(t.ForeignKeys) > 0 {
		rels := NewObj()
		for _, fk := range t.ForeignKeys {
			ro := NewObj()
			ro.Set("references", fk.RefTable+"."+fk.RefField)
			rels.Set(fk.Field, ro)
		}
		o.Set("relationships", rels)
	}
	return o
}

func fieldDocument(f *Field) *Obj {
	o := NewObj()
	o.Set("type", string(f.Type))
	if f.Description != "" {
		o.Set("description", f.Description)
	}
	o.Set("required", f.Required)
	if co := constraintsDocument(f.Constraints); co.Len() > 0 {
		o.Set("constraints", co)
	}
	if f.Generator != "" {
		gen := NewObj()
		gen.Set("generator", f.Generator)
		for _, k := range sortedParamKeys(f.Params) {
			gen.Set(k, f.Params[k])
		}
		o.Set("generation", gen)
	}
	return o
}

func constraintsDocument(c Constraints) *Obj {
	o := NewObj()
	if c.Pattern != "" {
		o.Set("pattern", c.Pattern)
	}
	if c.MaxLength > 0 {
		o.Set("max_length", int64(c.MaxLength))
	}
	if c.Min != nil {
		o.Set("min", numberOut(*c.Min))
	}
	if c.Max != nil {
		o.Set("max", numberOut(*c.Max))
	}
	if len(c.Choices) > 0 {
		o.Set("choices", c.Choices)
	}
	return o
}

// numberOut emits whole numbers without a fractional part so documents
// round-trip byte-stable.
func numberOut(f float64) any {
	if f == math.Trunc(f) && math.Abs(f) < 1<<53 {
		return int64(f)
	}
	return f
}

func sortedParamKeys(params map[string]any) []string {
	if len(params) == 0 {
		return nil
	}
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
