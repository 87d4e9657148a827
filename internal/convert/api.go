package convert

import (
	"fmt"
	"math"

	"synthdb/internal/schema"
)

// FormatError reports a document that cannot be understood as an API schema.
// Path points at the offending node, e.g. "components.schemas.User.type".
type FormatError struct {
	Path   string
	Reason string
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("schema format: %s: %s", e.Path, e.Reason)
}

// Property is one field of an API component.
type Property struct {
	Name        string
	Type        string
	Description string
	Format      string
	Pattern     string
	MaxLength   int
	Minimum     *float64
	Maximum     *float64
	Enum        []any
	Example     any
}

// Component is one entry under components.schemas.
type Component struct {
	Name        string
	Type        string
	Description string
	Required    []string
	Properties  []*Property
}

// Info mirrors the info block of an API document.
type Info struct {
	Title       string
	Version     string
	Description string
}

// APIDocument is the parsed form of an OpenAPI-style schema document.
// Component and property order follow the source document.
type APIDocument struct {
	OpenAPI string
	Info    Info
	Schemas []*Component
}

// ParseAPI decodes an API document from JSON or YAML. Parsing is atomic:
// any malformed node fails the whole document with a FormatError.
func ParseAPI(data []byte) (*APIDocument, error) {
	doc, err := schema.DecodeDocument(data)
	if err != nil {
		return nil, err
	}
	return APIFromDocument(doc)
}

// APIFromDocument builds the component model from a decoded document tree.
func APIFromDocument(doc *schema.Obj) (*APIDocument, error) {
	api := &APIDocument{OpenAPI: doc.Str("openapi")}
	if info := doc.Obj("info"); info != nil {
		api.Info = Info{
			Title:       info.Str("title"),
			Version:     info.Str("version"),
			Description: info.Str("description"),
		}
	}
	comps := doc.Obj("components")
	if comps == nil {
		return nil, &FormatError{Path: "components", Reason: "missing"}
	}
	schemas := comps.Obj("schemas")
	if schemas == nil {
		return nil, &FormatError{Path: "components.schemas", Reason: "missing"}
	}
	for _, name := range schemas.Keys() {
		path := "components.schemas." + name
		node := schemas.Obj(name)
		if node == nil {
			return nil, &FormatError{Path: path, Reason: "must be an object"}
		}
		comp, err := componentFromDocument(name, path, node)
		if err != nil {
			return nil, err
		}
		api.Schemas = append(api.Schemas, comp)
	}
	return api, nil
}

func componentFromDocument(name, path string, node *schema.Obj) (*Component, error) {
	typ := node.Str("type")
	if typ == "" {
		return nil, &FormatError{Path: path + ".type", Reason: "missing"}
	}
	c := &Component{Name: name, Type: typ, Description: node.Str("description")}
	for _, r := range node.List("required") {
		if s, ok := r.(string); ok {
			c.Required = append(c.Required, s)
		}
	}
	props := node.Obj("properties")
	if props == nil {
		return c, nil
	}
	for _, pname := range props.Keys() {
		ppath := path + ".properties." + pname
		pnode := props.Obj(pname)
		if pnode == nil {
			return nil, &FormatError{Path: ppath, Reason: "must be an object"}
		}
		p, err := propertyFromDocument(pname, ppath, pnode)
		if err != nil {
			return nil, err
		}
		c.Properties = append(c.Properties, p)
	}
	return c, nil
}

func propertyFromDocument(name, path string, node *schema.Obj) (*Property, error) {
	if node.Has("$ref") {
		return nil, &FormatError{Path: path, Reason: "$ref is not supported"}
	}
	p := &Property{
		Name:        name,
		Type:        node.Str("type"),
		Description: node.Str("description"),
		Format:      node.Str("format"),
		Pattern:     node.Str("pattern"),
	}
	// Untyped enum properties are common enough to tolerate; everything
	// else defaults to string like the definition side does.
	if p.Type == "" {
		p.Type = "string"
	}
	if n, ok := node.Int("maxLength"); ok {
		p.MaxLength = n
	}
	if n, ok := node.Number("minimum"); ok {
		p.Minimum = &n
	}
	if n, ok := node.Number("maximum"); ok {
		p.Maximum = &n
	}
	p.Enum = node.List("enum")
	if v, ok := node.Get("example"); ok {
		p.Example = v
	}
	return p, nil
}

// EncodeAPI renders the component model as an indented JSON document.
func EncodeAPI(api *APIDocument) ([]byte, error) {
	return schema.EncodeIndent(APIDocumentTree(api))
}

// APIDocumentTree builds the ordered document tree for an API document.
func APIDocumentTree(api *APIDocument) *schema.Obj {
	doc := schema.NewObj()
	version := api.OpenAPI
	if version == "" {
		version = "3.0.0"
	}
	doc.Set("openapi", version)

	info := schema.NewObj()
	title := api.Info.Title
	if title == "" {
		title = "Banking Data API"
	}
	info.Set("title", title)
	infoVersion := api.Info.Version
	if infoVersion == "" {
		infoVersion = "1.0.0"
	}
	info.Set("version", infoVersion)
	if api.Info.Description != "" {
		info.Set("description", api.Info.Description)
	}
	doc.Set("info", info)
	doc.Set("paths", schema.NewObj())

	schemas := schema.NewObj()
	for _, c := range api.Schemas {
		schemas.Set(c.Name, componentDocument(c))
	}
	comps := schema.NewObj()
	comps.Set("schemas", schemas)
	doc.Set("components", comps)
	return doc
}

func componentDocument(c *Component) *schema.Obj {
	node := schema.NewObj()
	node.Set("type", c.Type)
	if c.Description != "" {
		node.Set("description", c.Description)
	}
	props := schema.NewObj()
	for _, p := range c.Properties {
		props.Set(p.Name, propertyDocument(p))
	}
	node.Set("properties", props)
	if len(c.Required) > 0 {
		required := make([]any, len(c.Required))
		for i, r := range c.Required {
			required[i] = r
		}
		node.Set("required", required)
	}
	return node
}

func propertyDocument(p *Property) *schema.Obj {
	node := schema.NewObj()
	node.Set("type", p.Type)
	if p.Description != "" {
		node.Set("description", p.Description)
	}
	if p.Format != "" {
		node.Set("format", p.Format)
	}
	if p.Pattern != "" {
		node.Set("pattern", p.Pattern)
	}
	if p.MaxLength > 0 {
		node.Set("maxLength", int64(p.MaxLength))
	}
	if p.Minimum != nil {
		node.Set("minimum", numberValue(*p.Minimum))
	}
	if p.Maximum != nil {
		node.Set("maximum", numberValue(*p.Maximum))
	}
	if len(p.Enum) > 0 {
		node.Set("enum", p.Enum)
	}
	if p.Example != nil {
		node.Set("example", p.Example)
	}
	return node
}

// numberValue keeps whole bounds as integers in the output document.
func numberValue(f float64) any {
	if f == math.Trunc(f) && math.Abs(f) < 1<<53 {
		return int64(f)
	}
	return f
}
