// Copyright 2025 John Wang. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package mcpbridge

import (
	"encoding/json"
	"reflect"
	"strconv"
	"strings"

	"github.com/google/jsonschema-go/jsonschema"
)

// ParamType is a primitive JSON schema type tag.
type ParamType string

// Parameter types. Anything outside this table is treated as a string.
const (
	TypeString  ParamType = "string"
	TypeInteger ParamType = "integer"
	TypeNumber  ParamType = "number"
	TypeBoolean ParamType = "boolean"
	TypeArray   ParamType = "array"
	TypeObject  ParamType = "object"
)

// Param describes one declared parameter of an exposed endpoint. Tables
// of Params are attached at registration time; dispatch never inspects
// the callable itself.
type Param struct {
	// Name keys the argument in tool calls.
	Name string

	// Type tags the parameter's primitive JSON type. Empty means string.
	Type ParamType

	// Description documents the parameter in the generated schema.
	Description string

	// Default is substituted when the argument is omitted. A parameter
	// with a nil Default and Optional unset is required.
	Default any

	// Optional marks a parameter that may be omitted without a default.
	Optional bool
}

// Required reports whether the parameter must be supplied by the caller.
func (p Param) Required() bool { return p.Default == nil && !p.Optional }

// schemaType returns the effective type tag, defaulting to string.
func (p Param) schemaType() ParamType {
	if p.Type == "" {
		return TypeString
	}
	return p.Type
}

// inputSchema synthesizes the JSON input schema for a parameter table.
// It returns nil for an empty table: a tool with no schema accepts no
// arguments.
func inputSchema(params []Param) *jsonschema.Schema {
	if len(params) == 0 {
		return nil
	}

	properties := make(map[string]*jsonschema.Schema, len(params))
	var required []string
	for _, p := range params {
		prop := &jsonschema.Schema{
			Type:        string(p.schemaType()),
			Description: p.Description,
		}
		if p.Default != nil {
			if raw, err := json.Marshal(p.Default); err == nil {
				prop.Default = json.RawMessage(raw)
			}
		}
		properties[p.Name] = prop
		if p.Required() {
			required = append(required, p.Name)
		}
	}

	return &jsonschema.Schema{
		Type:       "object",
		Properties: properties,
		Required:   required,
	}
}

// ParamsOf derives a parameter table from a prototype struct, once, at
// registration time. Exported fields become parameters named by their
// json tag (falling back to the lowercased field name); unexported and
// embedded fields are skipped. A field is optional when it carries a
// "default" tag or is a pointer. Prototypes that are not structs yield
// no table, so schema synthesis degrades to "no schema" rather than
// failing.
//
//	type queryInput struct {
//		File  string `json:"file"`
//		Limit int    `json:"limit" default:"20"`
//	}
//	params := mcpbridge.ParamsOf(queryInput{})
func ParamsOf(prototype any) []Param {
	if prototype == nil {
		return nil
	}

	t := reflect.TypeOf(prototype)
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct {
		return nil
	}

	var params []Param
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		if !field.IsExported() || field.Anonymous {
			continue
		}

		name := field.Name
		tag := field.Tag.Get("json")
		if tag == "-" {
			continue
		}
		optional := false
		if tag != "" {
			parts := strings.Split(tag, ",")
			if parts[0] != "" {
				name = parts[0]
			}
			for _, opt := range parts[1:] {
				if opt == "omitempty" {
					optional = true
				}
			}
		} else {
			name = strings.ToLower(name)
		}

		ft := field.Type
		if ft.Kind() == reflect.Pointer {
			optional = true
			ft = ft.Elem()
		}
		ptype := typeOfKind(ft.Kind())

		p := Param{
			Name:        name,
			Type:        ptype,
			Description: field.Tag.Get("description"),
			Optional:    optional,
		}
		if def, ok := field.Tag.Lookup("default"); ok {
			p.Default = parseDefault(ptype, def)
		}
		params = append(params, p)
	}
	return params
}

// typeOfKind maps a Go kind onto the primitive type table. Kinds outside
// the table map to string.
func typeOfKind(k reflect.Kind) ParamType {
	switch k {
	case reflect.String:
		return TypeString
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return TypeInteger
	case reflect.Float32, reflect.Float64:
		return TypeNumber
	case reflect.Bool:
		return TypeBoolean
	case reflect.Slice, reflect.Array:
		return TypeArray
	case reflect.Map, reflect.Struct:
		return TypeObject
	default:
		return TypeString
	}
}

// parseDefault interprets a "default" struct tag per the declared type.
// Unparseable values fall back to the raw string.
func parseDefault(t ParamType, raw string) any {
	switch t {
	case TypeInteger:
		if n, err := strconv.Atoi(raw); err == nil {
			return n
		}
	case TypeNumber:
		if f, err := strconv.ParseFloat(raw, 64); err == nil {
			return f
		}
	case TypeBoolean:
		if b, err := strconv.ParseBool(raw); err == nil {
			return b
		}
	case TypeArray, TypeObject:
		var v any
		if err := json.Unmarshal([]byte(raw), &v); err == nil {
			return v
		}
	}
	return raw
}
