// Package schema declares stream schemas with a small JSON-schema vocabulary.
package schema

// Type is a JSON-schema type. Every rendered type also admits null.
type Type struct {
	name       string
	format     string
	properties Properties
	items      *Type
}

var (
	StringType   = Type{name: "string"}
	BooleanType  = Type{name: "boolean"}
	IntegerType  = Type{name: "integer"}
	NumberType   = Type{name: "number"}
	DateType     = Type{name: "string", format: "date"}
	DateTimeType = Type{name: "string", format: "date-time"}
)

// ObjectType declares a nested object with the given properties
func ObjectType(properties ...Prop) Type {
	return Type{name: "object", properties: properties}
}

// ArrayType declares a list whose elements are of type item
func ArrayType(item Type) Type {
	return Type{name: "array", items: &item}
}

// Format returns the JSON-schema format annotation, if any
func (t Type) Format() string {
	return t.format
}

// ToMap renders the type as a JSON-schema fragment
func (t Type) ToMap() map[string]interface{} {
	m := map[string]interface{}{
		"type": []interface{}{t.name, "null"},
	}
	if t.format != "" {
		m["format"] = t.format
	}
	if t.name == "object" {
		m["properties"] = t.properties.propertyMap()
	}
	if t.items != nil {
		m["items"] = t.items.ToMap()
	}
	return m
}

// Prop is a single named property of a schema
type Prop struct {
	Name        string
	Type        Type
	Description string
	Required    bool
}

// Option customises a Prop
type Option func(*Prop)

// Description annotates a property with a human-readable description
func Description(description string) Option {
	return func(p *Prop) {
		p.Description = description
	}
}

// Required marks a property as required
func Required() Option {
	return func(p *Prop) {
		p.Required = true
	}
}

// Property declares a named property
func Property(name string, t Type, opts ...Option) Prop {
	p := Prop{Name: name, Type: t}
	for _, opt := range opts {
		opt(&p)
	}
	return p
}

// Properties is an ordered list of properties forming an object schema
type Properties []Prop

// PropertiesList collects properties into an object schema
func PropertiesList(properties ...Prop) Properties {
	return Properties(properties)
}

// Names returns the property names in declaration order
func (p Properties) Names() []string {
	names := make([]string, 0, len(p))
	for _, prop := range p {
		names = append(names, prop.Name)
	}
	return names
}

// Get looks up a property by name
func (p Properties) Get(name string) (Prop, bool) {
	for _, prop := range p {
		if prop.Name == name {
			return prop, true
		}
	}
	return Prop{}, false
}

// ToMap renders the JSON-schema document for the properties
func (p Properties) ToMap() map[string]interface{} {
	m := map[string]interface{}{
		"type":       "object",
		"properties": p.propertyMap(),
	}

	var required []interface{}
	for _, prop := range p {
		if prop.Required {
			required = append(required, prop.Name)
		}
	}
	if len(required) > 0 {
		m["required"] = required
	}

	return m
}

func (p Properties) propertyMap() map[string]interface{} {
	properties := make(map[string]interface{}, len(p))
	for _, prop := range p {
		rendered := prop.Type.ToMap()
		if prop.Description != "" {
			rendered["description"] = prop.Description
		}
		properties[prop.Name] = rendered
	}
	return properties
}
