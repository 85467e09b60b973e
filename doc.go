// Copyright 2025 John Wang. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

// Package mcpbridge exposes the routes of a web application as MCP tools
// and resources on an MCP server.
//
// mcpbridge walks an application's route table once at startup and, for
// each exposed endpoint function, registers a forwarding handler with the
// official MCP Go SDK (github.com/modelcontextprotocol/go-sdk). Mutating
// endpoints become tools an MCP client can invoke with arguments; read
// endpoints become resources addressed by URI. The same function keeps
// serving ordinary HTTP traffic; the bridge only adds a second door.
//
// # Quick Start
//
// Declare routes through a binding (here the Echo binding), tag the ones
// you want exposed, and put the bridge's handler in front of the app:
//
//	e := echo.New()
//	rs := echoroutes.New(e)
//
//	rs.POST("/orders", "create_order", createOrder,
//		echoroutes.Expose(mcpbridge.AsTool(
//			mcpbridge.WithDescription("Create a new order"),
//		)),
//		echoroutes.Params(
//			mcpbridge.Param{Name: "sku", Type: mcpbridge.TypeString},
//			mcpbridge.Param{Name: "qty", Type: mcpbridge.TypeInteger, Default: 1},
//		),
//	)
//
//	bridge, err := mcpbridge.New(rs, mcpbridge.DefaultConfig())
//	if err != nil {
//		log.Fatal(err)
//	}
//	http.ListenAndServe(":8080", bridge.Handler(e))
//
// MCP clients now reach the server under the configured path prefix
// (default "/mcp"); everything else still goes to the Echo app.
//
// # Exposure Rules
//
// An endpoint carrying an explicit [Exposure] (via [AsTool] or
// [AsResource]) is registered exactly as tagged. Without a tag, and with
// Config.AutoExpose set, the HTTP verb decides: POST, PUT and PATCH
// endpoints become tools named after the endpoint, GET endpoints become
// resources whose URI is derived from the route path ("/admin/stats"
// becomes "app://admin_stats"). Other verbs are left alone.
//
// # Parameter Schemas
//
// Each endpoint declares its parameters as a static [Param] table, either
// literally or derived once from a prototype struct with [ParamsOf]. The
// table produces the tool's JSON input schema: a parameter is required
// exactly when it declares no default. Arguments are validated against
// that schema and bound with defaults applied before the endpoint runs.
//
// # Dispatch
//
// [Bridge.CallTool] and [Bridge.ReadResource] are the library-mode entry
// points; the handlers installed on the MCP server go through the same
// path, so behavior is identical over every transport. Lookup and
// invocation failures surface as a single uniform [DispatchError] naming
// the target.
//
// # Transports
//
// [Bridge.Handler] serves MCP over streamable HTTP next to the wrapped
// application, classifying inbound requests by path prefix or by JSON
// content type plus the MCP protocol version header. [Bridge.ServeStdio]
// runs the same server over stdio for subprocess use, and
// [Bridge.InMemorySession] connects an in-process client for tests.
package mcpbridge
