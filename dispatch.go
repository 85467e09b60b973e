// Copyright 2025 John Wang. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package mcpbridge

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// CallTool invokes a registered tool by name.
//
// Arguments are validated against the tool's declared schema, bound
// against its parameter table (unknown or missing required arguments fail
// the bind) with defaults applied, and passed to the callable. Every
// failure surfaces as a *DispatchError naming the tool: lookup misses
// wrap ErrToolNotFound, everything else wraps the original error.
func (b *Bridge) CallTool(ctx context.Context, name string, args map[string]any) (any, error) {
	b.mu.RLock()
	entry, ok := b.tools[name]
	b.mu.RUnlock()

	if !ok {
		return nil, &DispatchError{Target: name, Err: fmt.Errorf("%w: %s", ErrToolNotFound, name)}
	}

	b.logger.Debug("calling tool", slog.String("name", name))

	bound, err := bindArguments(entry.params, args)
	if err != nil {
		return nil, &DispatchError{Target: name, Err: err}
	}
	if entry.validator != nil {
		if err := validateArguments(entry.validator, bound); err != nil {
			return nil, &DispatchError{Target: name, Err: err}
		}
	}

	result, err := entry.call(ctx, bound)
	if err != nil {
		return nil, &DispatchError{Target: name, Err: err}
	}
	return coerceResult(result), nil
}

// ReadResource reads a registered resource by URI. The underlying
// callable is always invoked with zero arguments; otherwise the contract
// matches CallTool, with lookup misses wrapping ErrResourceNotFound.
func (b *Bridge) ReadResource(ctx context.Context, uri string) (any, error) {
	b.mu.RLock()
	entry, ok := b.resources[uri]
	b.mu.RUnlock()

	if !ok {
		return nil, &DispatchError{Target: uri, Err: fmt.Errorf("%w: %s", ErrResourceNotFound, uri)}
	}

	b.logger.Debug("reading resource", slog.String("uri", uri))

	result, err := entry.call(ctx, nil)
	if err != nil {
		return nil, &DispatchError{Target: uri, Err: err}
	}
	return coerceResult(result), nil
}

// bindArguments checks the supplied arguments against the declared
// parameter table and fills in defaults for omitted optional parameters.
// The table is the whole truth: arguments it doesn't name are rejected.
func bindArguments(params []Param, args map[string]any) (map[string]any, error) {
	byName := make(map[string]Param, len(params))
	for _, p := range params {
		byName[p.Name] = p
	}

	for name := range args {
		if _, ok := byName[name]; !ok {
			return nil, fmt.Errorf("binding arguments: unknown argument %q", name)
		}
	}

	bound := make(map[string]any, len(params))
	for k, v := range args {
		bound[k] = v
	}
	for _, p := range params {
		if _, supplied := bound[p.Name]; supplied {
			continue
		}
		if p.Default != nil {
			bound[p.Name] = p.Default
			continue
		}
		if !p.Optional {
			return nil, fmt.Errorf("binding arguments: missing required argument %q", p.Name)
		}
	}
	return bound, nil
}

// validateArguments checks bound arguments against the compiled input
// schema, so type mismatches fail before the callable runs.
func validateArguments(validator *gojsonschema.Schema, bound map[string]any) error {
	result, err := validator.Validate(gojsonschema.NewGoLoader(bound))
	if err != nil {
		return fmt.Errorf("validating arguments: %w", err)
	}
	if result.Valid() {
		return nil
	}

	msgs := make([]string, 0, len(result.Errors()))
	for _, resErr := range result.Errors() {
		msgs = append(msgs, resErr.String())
	}
	return fmt.Errorf("validating arguments: %s", strings.Join(msgs, "; "))
}

// coerceResult makes a callable's return value JSON-serializable.
// Primitive JSON shapes pass through unchanged. Other values round-trip
// through encoding/json; values that can't even be marshaled degrade to
// their textual form. The fallback is lossy and one-way.
func coerceResult(v any) any {
	switch v.(type) {
	case nil, bool, string, json.Number,
		int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64,
		float32, float64,
		[]any, map[string]any:
		return v
	}

	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprint(v)
	}
	var out any
	if err := json.Unmarshal(raw, &out); err != nil {
		return fmt.Sprint(v)
	}
	return out
}
