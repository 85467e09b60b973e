// Copyright 2025 John Wang. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

// Package echoroutes binds Echo applications to the mcpbridge route
// contract. A RouteSet mounts each endpoint function on an *echo.Echo
// behind a JSON adapter and records it as an mcpbridge endpoint, so the
// same function serves plain HTTP and MCP.
package echoroutes

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/mcpbridge/mcpbridge"
)

// RouteSet records endpoints while mounting them on an Echo instance.
// It implements mcpbridge.RouteSource; routes keep mount order.
type RouteSet struct {
	echo   *echo.Echo
	order  []*route
	byPath map[string]*route
}

// New creates a RouteSet over e.
func New(e *echo.Echo) *RouteSet {
	return &RouteSet{
		echo:   e,
		byPath: make(map[string]*route),
	}
}

// Echo returns the wrapped Echo instance.
func (rs *RouteSet) Echo() *echo.Echo { return rs.echo }

// Routes returns the recorded routes in mount order.
func (rs *RouteSet) Routes() []mcpbridge.Route {
	routes := make([]mcpbridge.Route, len(rs.order))
	for i, r := range rs.order {
		routes[i] = r
	}
	return routes
}

// Option configures one endpoint registration.
type Option func(*endpoint)

// Expose attaches explicit tool/resource tagging.
func Expose(exp *mcpbridge.Exposure) Option {
	return func(ep *endpoint) { ep.exposure = exp }
}

// Doc sets the endpoint's documentation string.
func Doc(doc string) Option {
	return func(ep *endpoint) { ep.doc = doc }
}

// Params declares the endpoint's parameter table.
func Params(params ...mcpbridge.Param) Option {
	return func(ep *endpoint) { ep.params = params }
}

// Input declares the parameter table from a prototype struct via
// mcpbridge.ParamsOf.
func Input(prototype any) Option {
	return func(ep *endpoint) { ep.params = mcpbridge.ParamsOf(prototype) }
}

// GET mounts fn on path and records it as a GET endpoint named name.
func (rs *RouteSet) GET(path, name string, fn mcpbridge.Callable, opts ...Option) {
	rs.Handle(http.MethodGet, path, name, fn, opts...)
}

// POST mounts fn on path and records it as a POST endpoint named name.
func (rs *RouteSet) POST(path, name string, fn mcpbridge.Callable, opts ...Option) {
	rs.Handle(http.MethodPost, path, name, fn, opts...)
}

// PUT mounts fn on path and records it as a PUT endpoint named name.
func (rs *RouteSet) PUT(path, name string, fn mcpbridge.Callable, opts ...Option) {
	rs.Handle(http.MethodPut, path, name, fn, opts...)
}

// PATCH mounts fn on path and records it as a PATCH endpoint named name.
func (rs *RouteSet) PATCH(path, name string, fn mcpbridge.Callable, opts ...Option) {
	rs.Handle(http.MethodPatch, path, name, fn, opts...)
}

// DELETE mounts fn on path and records it as a DELETE endpoint named
// name. Auto-exposure skips DELETE endpoints; tag one explicitly to put
// it on the protocol surface.
func (rs *RouteSet) DELETE(path, name string, fn mcpbridge.Callable, opts ...Option) {
	rs.Handle(http.MethodDelete, path, name, fn, opts...)
}

// Handle mounts fn for an arbitrary method and records the endpoint.
func (rs *RouteSet) Handle(method, path, name string, fn mcpbridge.Callable, opts ...Option) {
	ep := &endpoint{
		verb: method,
		name: name,
		call: fn,
	}
	for _, opt := range opts {
		opt(ep)
	}

	r, ok := rs.byPath[path]
	if !ok {
		r = &route{path: path}
		rs.byPath[path] = r
		rs.order = append(rs.order, r)
	}
	r.endpoints = append(r.endpoints, ep)

	rs.echo.Add(method, path, httpHandler(ep))
}

// route groups the endpoints mounted under one path.
type route struct {
	path      string
	endpoints []mcpbridge.Endpoint
}

func (r *route) Path() string                     { return r.path }
func (r *route) Endpoints() []mcpbridge.Endpoint  { return r.endpoints }

// endpoint implements mcpbridge.Endpoint.
type endpoint struct {
	verb     string
	name     string
	doc      string
	call     mcpbridge.Callable
	params   []mcpbridge.Param
	exposure *mcpbridge.Exposure
}

func (ep *endpoint) Verb() string                  { return ep.verb }
func (ep *endpoint) Name() string                  { return ep.name }
func (ep *endpoint) Callable() mcpbridge.Callable  { return ep.call }
func (ep *endpoint) Params() []mcpbridge.Param     { return ep.params }
func (ep *endpoint) Doc() string                   { return ep.doc }
func (ep *endpoint) Exposure() *mcpbridge.Exposure { return ep.exposure }
