// Copyright 2025 John Wang. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package mcpbridge

import "context"

// Callable is the uniform invocation signature for an exposed endpoint
// function. Arguments arrive already validated and bound, with defaults
// applied, keyed by parameter name. The return value should be JSON
// serializable; anything else degrades to its textual form.
type Callable func(ctx context.Context, args map[string]any) (any, error)

// Endpoint is one (verb, callable) pair on a route. An implementation
// must expose its callable and its HTTP verb; the rest is metadata the
// registry uses when building tool and resource descriptions.
type Endpoint interface {
	// Verb is the HTTP method this endpoint serves ("GET", "POST", ...).
	Verb() string

	// Name identifies the endpoint function. It becomes the tool name,
	// or the resource display name, and must be stable across restarts.
	Name() string

	// Callable returns the underlying endpoint function.
	Callable() Callable

	// Params returns the declared parameter table, or nil when the
	// endpoint takes no arguments.
	Params() []Param

	// Doc returns the endpoint's documentation string, or "".
	Doc() string

	// Exposure returns explicit tool/resource tagging, or nil when the
	// endpoint is untagged and subject to auto-exposure.
	Exposure() *Exposure
}

// Route is an ordered group of endpoints mounted under one path.
type Route interface {
	Path() string
	Endpoints() []Endpoint
}

// RouteSource supplies the ordered route collection the registry walks at
// setup. The bridge reads it exactly once and never mutates it.
type RouteSource interface {
	Routes() []Route
}

// ExposureKind distinguishes tool from resource registrations.
type ExposureKind string

// Exposure kinds.
const (
	ExposureTool     ExposureKind = "tool"
	ExposureResource ExposureKind = "resource"
)

// Exposure is explicit tool/resource tagging attached to an endpoint. It
// overrides verb-based auto-exposure and supplies registration metadata
// the endpoint itself doesn't carry.
type Exposure struct {
	Kind        ExposureKind
	Title       string
	Description string

	// URI addresses the resource. Resources only; defaults to
	// "app://<endpoint name>" when empty.
	URI string

	// MIMEType of the resource contents. Resources only; defaults to
	// "application/json".
	MIMEType string
}

// ExposureOption configures an Exposure.
type ExposureOption func(*Exposure)

// WithTitle sets a human-readable title.
func WithTitle(title string) ExposureOption {
	return func(e *Exposure) { e.Title = title }
}

// WithDescription sets the registration description. It takes precedence
// over the endpoint's doc string.
func WithDescription(desc string) ExposureOption {
	return func(e *Exposure) { e.Description = desc }
}

// WithMIMEType sets the MIME type reported for a resource.
func WithMIMEType(mimeType string) ExposureOption {
	return func(e *Exposure) { e.MIMEType = mimeType }
}

// AsTool tags an endpoint as an MCP tool.
func AsTool(opts ...ExposureOption) *Exposure {
	e := &Exposure{Kind: ExposureTool}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// AsResource tags an endpoint as an MCP resource addressed by uri.
func AsResource(uri string, opts ...ExposureOption) *Exposure {
	e := &Exposure{Kind: ExposureResource, URI: uri}
	for _, opt := range opts {
		opt(e)
	}
	return e
}
