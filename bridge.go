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
	"sync"

	"github.com/google/jsonschema-go/jsonschema"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/xeipuuv/gojsonschema"
)

// DocsResourceURI addresses the generated resource describing every
// exposed tool and resource. Registered when Config.ExposeDocs is set.
const DocsResourceURI = "docs://routes"

// autoURIScheme prefixes resource URIs synthesized from route paths.
const autoURIScheme = "app://"

// ToolInfo describes a registered MCP tool.
type ToolInfo struct {
	Name        string             `json:"name"`
	Description string             `json:"description,omitempty"`
	InputSchema *jsonschema.Schema `json:"inputSchema,omitempty"`
}

// ResourceInfo describes a registered MCP resource.
type ResourceInfo struct {
	URI         string `json:"uri"`
	Name        string `json:"name,omitempty"`
	Description string `json:"description,omitempty"`
	MIMEType    string `json:"mimeType,omitempty"`
}

// toolEntry holds a registered tool for library-mode dispatch.
type toolEntry struct {
	info      ToolInfo
	call      Callable
	params    []Param
	validator *gojsonschema.Schema
}

// resourceEntry holds a registered resource for library-mode dispatch.
type resourceEntry struct {
	info ResourceInfo
	call Callable
}

// Bridge is the core type for mcpbridge. It owns the registration map
// built from a RouteSource and the underlying MCP server the map is
// mirrored into.
//
// A Bridge is created with [New]. The registration map is built once
// there and is read-only afterward.
type Bridge struct {
	cfg    *Config
	server *mcp.Server
	logger *slog.Logger

	// mu protects the registries for library-mode dispatch. No writer
	// runs after New returns; the lock keeps concurrent readers honest.
	mu        sync.RWMutex
	tools     map[string]toolEntry
	resources map[string]resourceEntry
}

// New builds a Bridge from the application's routes. Every endpoint is
// classified (explicit exposure first, then verb-based auto-exposure when
// configured) and registered both in the bridge's dispatch table and with
// the MCP server. The first registration failure aborts setup with a
// *RegistrationError naming the endpoint.
//
// A nil cfg means DefaultConfig. A disabled config yields an inert
// bridge: no registrations, and Handler passes everything through.
func New(src RouteSource, cfg *Config) (*Bridge, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	b := &Bridge{
		cfg: cfg,
		server: mcp.NewServer(&mcp.Implementation{
			Name:    cfg.ServerName,
			Version: cfg.ServerVersion,
		}, nil),
		logger:    logger,
		tools:     make(map[string]toolEntry),
		resources: make(map[string]resourceEntry),
	}

	if !cfg.Enabled {
		return b, nil
	}

	if src != nil {
		for _, route := range src.Routes() {
			for _, ep := range route.Endpoints() {
				if err := b.registerEndpoint(route, ep); err != nil {
					return nil, &RegistrationError{Endpoint: ep.Name(), Err: err}
				}
			}
		}
	}

	if cfg.ExposeDocs {
		b.registerDocsResource()
	}

	return b, nil
}

// registerEndpoint classifies one endpoint. Explicit exposure wins;
// untagged endpoints fall through to verb-based auto-exposure.
func (b *Bridge) registerEndpoint(route Route, ep Endpoint) error {
	if exp := ep.Exposure(); exp != nil {
		switch exp.Kind {
		case ExposureTool:
			return b.registerTool(route, ep, exp)
		case ExposureResource:
			return b.registerResource(route, ep, exp)
		default:
			return fmt.Errorf("unknown exposure kind %q", exp.Kind)
		}
	}

	if !b.cfg.AutoExpose {
		return nil
	}

	switch strings.ToUpper(ep.Verb()) {
	case "POST", "PUT", "PATCH":
		return b.registerTool(route, ep, nil)
	case "GET":
		exp := AsResource(autoResourceURI(route.Path()))
		return b.registerResource(route, ep, exp)
	default:
		// DELETE and friends are left off the protocol surface.
		return nil
	}
}

// registerTool registers an endpoint as an MCP tool and installs the
// forwarding handler on the server.
func (b *Bridge) registerTool(route Route, ep Endpoint, exp *Exposure) error {
	name := ep.Name()
	if name == "" {
		return fmt.Errorf("endpoint on %s has no name", route.Path())
	}
	if _, exists := b.tools[name]; exists {
		return fmt.Errorf("%w: tool %q", ErrDuplicateName, name)
	}

	desc := ""
	if exp != nil {
		desc = exp.Description
	}
	if desc == "" {
		desc = ep.Doc()
	}
	if desc == "" {
		desc = "Tool: " + name
	}

	params := ep.Params()
	schema := inputSchema(params)

	entry := toolEntry{
		info:   ToolInfo{Name: name, Description: desc, InputSchema: schema},
		call:   ep.Callable(),
		params: params,
	}
	if entry.call == nil {
		return fmt.Errorf("endpoint %s has no callable", name)
	}
	if schema != nil {
		validator, err := compileSchema(schema)
		if err != nil {
			return fmt.Errorf("compiling schema for %s: %w", name, err)
		}
		entry.validator = validator
	}

	b.tools[name] = entry

	// The SDK requires a non-nil object input schema.
	toolSchema := schema
	if toolSchema == nil {
		toolSchema = &jsonschema.Schema{Type: "object"}
	}
	b.server.AddTool(&mcp.Tool{
		Name:        name,
		Description: desc,
		InputSchema: toolSchema,
	}, b.toolForwarder(name))

	b.logger.Info("tool registered",
		slog.String("name", name),
		slog.String("route", route.Path()),
		slog.String("verb", ep.Verb()),
	)
	return nil
}

// registerResource registers an endpoint as an MCP resource and installs
// the forwarding handler on the server.
func (b *Bridge) registerResource(route Route, ep Endpoint, exp *Exposure) error {
	name := ep.Name()
	if name == "" {
		return fmt.Errorf("endpoint on %s has no name", route.Path())
	}

	uri := exp.URI
	if uri == "" {
		uri = autoURIScheme + name
	}
	if _, exists := b.resources[uri]; exists {
		return fmt.Errorf("%w: resource %q", ErrDuplicateName, uri)
	}

	display := exp.Title
	if display == "" {
		display = name
	}
	desc := exp.Description
	if desc == "" {
		desc = ep.Doc()
	}
	if desc == "" {
		desc = "Resource: " + name
	}
	mimeType := exp.MIMEType
	if mimeType == "" {
		mimeType = "application/json"
	}

	call := ep.Callable()
	if call == nil {
		return fmt.Errorf("endpoint %s has no callable", name)
	}

	info := ResourceInfo{URI: uri, Name: display, Description: desc, MIMEType: mimeType}
	b.resources[uri] = resourceEntry{info: info, call: call}

	b.server.AddResource(&mcp.Resource{
		URI:         uri,
		Name:        display,
		Description: desc,
		MIMEType:    mimeType,
	}, b.resourceForwarder(uri, mimeType))

	b.logger.Info("resource registered",
		slog.String("uri", uri),
		slog.String("route", route.Path()),
	)
	return nil
}

// registerDocsResource exposes the registration map itself, so protocol
// clients can discover what the application offers.
func (b *Bridge) registerDocsResource() {
	info := ResourceInfo{
		URI:         DocsResourceURI,
		Name:        "routes",
		Description: "Tools and resources exposed by this application",
		MIMEType:    "application/json",
	}
	b.resources[DocsResourceURI] = resourceEntry{
		info: info,
		call: func(context.Context, map[string]any) (any, error) {
			return map[string]any{
				"tools":     b.Tools(),
				"resources": b.Resources(),
			}, nil
		},
	}

	b.server.AddResource(&mcp.Resource{
		URI:         info.URI,
		Name:        info.Name,
		Description: info.Description,
		MIMEType:    info.MIMEType,
	}, b.resourceForwarder(info.URI, info.MIMEType))

	b.logger.Info("resource registered", slog.String("uri", DocsResourceURI))
}

// toolForwarder builds the handler installed on the MCP server. It
// redirects execution through CallTool so protocol and library mode
// share one dispatch path.
func (b *Bridge) toolForwarder(name string) mcp.ToolHandler {
	return func(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		var args map[string]any
		if len(req.Params.Arguments) > 0 {
			if err := json.Unmarshal(req.Params.Arguments, &args); err != nil {
				return nil, fmt.Errorf("unmarshaling tool arguments: %w", err)
			}
		}

		result, err := b.CallTool(ctx, name, args)
		if err != nil {
			// Tool failures travel inside the result, per MCP.
			return &mcp.CallToolResult{
				IsError: true,
				Content: []mcp.Content{&mcp.TextContent{Text: err.Error()}},
			}, nil
		}

		raw, err := json.Marshal(result)
		if err != nil {
			return nil, fmt.Errorf("marshaling tool result: %w", err)
		}
		return &mcp.CallToolResult{
			Content:           []mcp.Content{&mcp.TextContent{Text: string(raw)}},
			StructuredContent: json.RawMessage(raw),
		}, nil
	}
}

// resourceForwarder builds the read handler installed on the MCP server.
func (b *Bridge) resourceForwarder(uri, mimeType string) mcp.ResourceHandler {
	return func(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
		result, err := b.ReadResource(ctx, uri)
		if err != nil {
			return nil, err
		}

		text, err := resourceText(result, mimeType)
		if err != nil {
			return nil, err
		}
		return &mcp.ReadResourceResult{
			Contents: []*mcp.ResourceContents{{
				URI:      uri,
				MIMEType: mimeType,
				Text:     text,
			}},
		}, nil
	}
}

// resourceText renders a resource value for the wire. String values of
// non-JSON resources pass through verbatim; everything else is JSON.
func resourceText(v any, mimeType string) (string, error) {
	if s, ok := v.(string); ok && !strings.Contains(mimeType, "json") {
		return s, nil
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("marshaling resource contents: %w", err)
	}
	return string(raw), nil
}

// compileSchema prepares a validator for the synthesized input schema.
func compileSchema(schema *jsonschema.Schema) (*gojsonschema.Schema, error) {
	raw, err := json.Marshal(schema)
	if err != nil {
		return nil, err
	}
	return gojsonschema.NewSchema(gojsonschema.NewBytesLoader(raw))
}

// autoResourceURI slugifies a route path into a resource URI:
// "/admin/stats" becomes "app://admin_stats".
func autoResourceURI(path string) string {
	return autoURIScheme + strings.Trim(strings.ReplaceAll(path, "/", "_"), "_")
}

// MCPServer returns the underlying mcp.Server for advanced use cases.
//
// Use with caution: registrations made directly on the returned server
// are invisible to the bridge's library-mode dispatch.
func (b *Bridge) MCPServer() *mcp.Server {
	return b.server
}

// Config returns the bridge's configuration.
func (b *Bridge) Config() *Config {
	return b.cfg
}

// Tools returns the registered tools.
func (b *Bridge) Tools() []ToolInfo {
	b.mu.RLock()
	defer b.mu.RUnlock()

	tools := make([]ToolInfo, 0, len(b.tools))
	for _, entry := range b.tools {
		tools = append(tools, entry.info)
	}
	return tools
}

// Resources returns the registered resources.
func (b *Bridge) Resources() []ResourceInfo {
	b.mu.RLock()
	defer b.mu.RUnlock()

	resources := make([]ResourceInfo, 0, len(b.resources))
	for _, entry := range b.resources {
		resources = append(resources, entry.info)
	}
	return resources
}

// HasTool reports whether a tool with the given name is registered.
func (b *Bridge) HasTool(name string) bool {
	b.mu.RLock()
	_, ok := b.tools[name]
	b.mu.RUnlock()
	return ok
}

// HasResource reports whether a resource with the given URI is registered.
func (b *Bridge) HasResource(uri string) bool {
	b.mu.RLock()
	_, ok := b.resources[uri]
	b.mu.RUnlock()
	return ok
}

// ToolCount returns the number of registered tools.
func (b *Bridge) ToolCount() int {
	b.mu.RLock()
	n := len(b.tools)
	b.mu.RUnlock()
	return n
}

// ResourceCount returns the number of registered resources.
func (b *Bridge) ResourceCount() int {
	b.mu.RLock()
	n := len(b.resources)
	b.mu.RUnlock()
	return n
}
