package schema

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// Obj is a JSON/YAML object that remembers key order. Schema documents rely
// on object order (field order = column order), which plain maps lose.
// Values are *Obj, []any, string, bool, int64, float64 or nil.
type Obj struct {
	keys []string
	vals map[string]any
}

func NewObj() *Obj {
	return &Obj{vals: make(map[string]any)}
}

// Set stores a value under key. Setting an existing key overwrites in place.
func (o *Obj) Set(key string, val any) {
	if _, ok := o.vals[key]; !ok {
		o.keys = append(o.keys, key)
	}
	o.vals[key] = val
}

func (o *Obj) Get(key string) (any, bool) {
	v, ok := o.vals[key]
	return v, ok
}

func (o *Obj) Has(key string) bool {
	_, ok := o.vals[key]
	return ok
}

func (o *Obj) Keys() []string { return o.keys }

func (o *Obj) Len() int { return len(o.keys) }

// Str returns the string under key, or "" when absent or not a string.
func (o *Obj) Str(key string) string {
	if s, ok := o.vals[key].(string); ok {
		return s
	}
	return ""
}

// Obj returns the nested object under key, or nil.
func (o *Obj) Obj(key string) *Obj {
	if child, ok := o.vals[key].(*Obj); ok {
		return child
	}
	return nil
}

// List returns the array under key, or nil.
func (o *Obj) List(key string) []any {
	if l, ok := o.vals[key].([]any); ok {
		return l
	}
	return nil
}

func (o *Obj) Bool(key string) bool {
	b, _ := o.vals[key].(bool)
	return b
}

// Number returns the numeric value under key as a float64.
func (o *Obj) Number(key string) (float64, bool) {
	switch v := o.vals[key].(type) {
	case int64:
		return float64(v), true
	case float64:
		return v, true
	}
	return 0, false
}

func (o *Obj) Int(key string) (int, bool) {
	if n, ok := o.Number(key); ok {
		return int(n), true
	}
	return 0, false
}

func (o *Obj) Int64(key string) (int64, bool) {
	if n, ok := o.Number(key); ok {
		return int64(n), true
	}
	return 0, false
}

// MarshalJSON writes the object with its keys in insertion order.
// Non-ASCII text (Hebrew field names) is emitted as literal UTF-8.
func (o *Obj) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range o.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		kb, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		buf.Write(kb)
		buf.WriteByte(':')
		vb, err := json.Marshal(o.vals[k])
		if err != nil {
			return nil, fmt.Errorf("marshal key %q: %w", k, err)
		}
		buf.Write(vb)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// EncodeIndent renders a document tree as indented JSON.
func EncodeIndent(o *Obj) ([]byte, error) {
	return json.MarshalIndent(o, "", "  ")
}

// DecodeDocument parses a JSON or YAML document into an ordered tree.
// The format is sniffed from the payload: a leading '{' means JSON.
func DecodeDocument(data []byte) (*Obj, error) {
	data = bytes.TrimPrefix(data, []byte("\xef\xbb\xbf"))
	trimmed := bytes.TrimLeft(data, " \t\r\n")
	if len(trimmed) > 0 && trimmed[0] == '{' {
		return decodeJSONDocument(data)
	}
	return decodeYAMLDocument(data)
}

func decodeJSONDocument(data []byte) (*Obj, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	tok, err := dec.Token()
	if err != nil {
		return nil, fmt.Errorf("decode document: %w", err)
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, fmt.Errorf("decode document: root must be an object")
	}
	obj, err := readJSONObject(dec)
	if err != nil {
		return nil, fmt.Errorf("decode document: %w", err)
	}
	return obj, nil
}

func readJSONObject(dec *json.Decoder) (*Obj, error) {
	o := NewObj()
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		key, ok := keyTok.(string)
		if !ok {
			return nil, fmt.Errorf("object key is not a string: %v", keyTok)
		}
		val, err := readJSONValue(dec)
		if err != nil {
			return nil, err
		}
		o.Set(key, val)
	}
	// consume the closing brace
	if _, err := dec.Token(); err != nil {
		return nil, err
	}
	return o, nil
}

func readJSONArray(dec *json.Decoder) ([]any, error) {
	list := []any{}
	for dec.More() {
		v, err := readJSONValue(dec)
		if err != nil {
			return nil, err
		}
		list = append(list, v)
	}
	if _, err := dec.Token(); err != nil {
		return nil, err
	}
	return list, nil
}

func readJSONValue(dec *json.Decoder) (any, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	switch v := tok.(type) {
	case json.Delim:
		switch v {
		case '{':
			return readJSONObject(dec)
		case '[':
			return readJSONArray(dec)
		}
		return nil, fmt.Errorf("unexpected delimiter %q", v.String())
	case json.Number:
		return normalizeNumber(v)
	default:
		// string, bool or nil
		return tok, nil
	}
}

// normalizeNumber keeps whole numbers as int64 so choice literals and
// constraint values round-trip without picking up a fractional form.
func normalizeNumber(n json.Number) (any, error) {
	s := n.String()
	if !strings.ContainsAny(s, ".eE") {
		if i, err := n.Int64(); err == nil {
			return i, nil
		}
	}
	f, err := n.Float64()
	if err != nil {
		return nil, fmt.Errorf("invalid number %q: %w", s, err)
	}
	return f, nil
}

func decodeYAMLDocument(data []byte) (*Obj, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, fmt.Errorf("decode document: %w", err)
	}
	if root.Kind != yaml.DocumentNode || len(root.Content) == 0 {
		return nil, fmt.Errorf("decode document: empty document")
	}
	v, err := yamlValue(root.Content[0])
	if err != nil {
		return nil, fmt.Errorf("decode document: %w", err)
	}
	obj, ok := v.(*Obj)
	if !ok {
		return nil, fmt.Errorf("decode document: root must be a mapping")
	}
	return obj, nil
}

func yamlValue(n *yaml.Node) (any, error) {
	switch n.Kind {
	case yaml.MappingNode:
		o := NewObj()
		for i := 0; i+1 < len(n.Content); i += 2 {
			val, err := yamlValue(n.Content[i+1])
			if err != nil {
				return nil, err
			}
			o.Set(n.Content[i].Value, val)
		}
		return o, nil
	case yaml.SequenceNode:
		list := make([]any, 0, len(n.Content))
		for _, c := range n.Content {
			v, err := yamlValue(c)
			if err != nil {
				return nil, err
			}
			list = append(list, v)
		}
		return list, nil
	case yaml.ScalarNode:
		switch n.Tag {
		case "!!int":
			var i int64
			if err := n.Decode(&i); err != nil {
				return nil, err
			}
			return i, nil
		case "!!float":
			var f float64
			if err := n.Decode(&f); err != nil {
				return nil, err
			}
			return f, nil
		case "!!bool":
			var b bool
			if err := n.Decode(&b); err != nil {
				return nil, err
			}
			return b, nil
		case "!!null":
			return nil, nil
		default:
			return n.Value, nil
		}
	case yaml.AliasNode:
		return yamlValue(n.Alias)
	}
	return nil, fmt.Errorf("unsupported node kind %d at line %d", n.Kind, n.Line)
}
