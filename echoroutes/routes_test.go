// Copyright 2025 John Wang. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package echoroutes

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcpbridge/mcpbridge"
)

func echoBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestRouteSet_RecordsRoutes(t *testing.T) {
	rs := New(echo.New())
	noop := func(context.Context, map[string]any) (any, error) { return nil, nil }

	rs.GET("/items", "list_items", noop)
	rs.POST("/items", "create_item", noop)
	rs.GET("/health", "health", noop)

	routes := rs.Routes()
	require.Len(t, routes, 2)

	assert.Equal(t, "/items", routes[0].Path())
	require.Len(t, routes[0].Endpoints(), 2)
	assert.Equal(t, http.MethodGet, routes[0].Endpoints()[0].Verb())
	assert.Equal(t, "list_items", routes[0].Endpoints()[0].Name())
	assert.Equal(t, http.MethodPost, routes[0].Endpoints()[1].Verb())

	assert.Equal(t, "/health", routes[1].Path())
}

func TestRouteSet_Options(t *testing.T) {
	rs := New(echo.New())
	exp := mcpbridge.AsResource("items://all")

	rs.GET("/items", "list_items",
		func(context.Context, map[string]any) (any, error) { return nil, nil },
		Doc("List every item"),
		Params(mcpbridge.Param{Name: "limit", Type: mcpbridge.TypeInteger, Default: 10}),
		Expose(exp),
	)

	ep := rs.Routes()[0].Endpoints()[0]
	assert.Equal(t, "List every item", ep.Doc())
	require.Len(t, ep.Params(), 1)
	assert.Equal(t, "limit", ep.Params()[0].Name)
	assert.Same(t, exp, ep.Exposure())
}

func TestRouteSet_InputPrototype(t *testing.T) {
	type createItem struct {
		Name  string `json:"name"`
		Count int    `json:"count" default:"1"`
	}

	rs := New(echo.New())
	rs.POST("/items", "create_item",
		func(context.Context, map[string]any) (any, error) { return nil, nil },
		Input(createItem{}),
	)

	params := rs.Routes()[0].Endpoints()[0].Params()
	require.Len(t, params, 2)
	assert.Equal(t, "name", params[0].Name)
	assert.Equal(t, mcpbridge.TypeString, params[0].Type)
	assert.Equal(t, "count", params[1].Name)
	assert.Equal(t, 1, params[1].Default)
}

func TestHTTPHandler_JSONBody(t *testing.T) {
	e := echo.New()
	rs := New(e)
	rs.POST("/sum", "sum",
		func(_ context.Context, args map[string]any) (any, error) {
			return args["a"].(float64) + args["b"].(float64), nil
		},
		Params(
			mcpbridge.Param{Name: "a", Type: mcpbridge.TypeNumber},
			mcpbridge.Param{Name: "b", Type: mcpbridge.TypeNumber},
		),
	)

	req := httptest.NewRequest(http.MethodPost, "/sum", strings.NewReader(`{"a": 5, "b": 3}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "8\n", rec.Body.String())
}

func TestHTTPHandler_QueryConversion(t *testing.T) {
	e := echo.New()
	rs := New(e)
	var got map[string]any
	rs.GET("/search", "search",
		func(_ context.Context, args map[string]any) (any, error) {
			got = args
			return "ok", nil
		},
		Params(
			mcpbridge.Param{Name: "q", Type: mcpbridge.TypeString},
			mcpbridge.Param{Name: "limit", Type: mcpbridge.TypeInteger, Default: 10},
			mcpbridge.Param{Name: "exact", Type: mcpbridge.TypeBoolean, Default: false},
		),
	)

	req := httptest.NewRequest(http.MethodGet, "/search?q=widgets&limit=5&exact=true", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "widgets", got["q"])
	assert.Equal(t, 5, got["limit"])
	assert.Equal(t, true, got["exact"])
}

func TestHTTPHandler_PathParams(t *testing.T) {
	e := echo.New()
	rs := New(e)
	var got map[string]any
	rs.GET("/items/:id", "get_item",
		func(_ context.Context, args map[string]any) (any, error) {
			got = args
			return "ok", nil
		},
		Params(mcpbridge.Param{Name: "id", Type: mcpbridge.TypeInteger}),
	)

	req := httptest.NewRequest(http.MethodGet, "/items/42", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 42, got["id"])
}

func TestHTTPHandler_DefaultApplied(t *testing.T) {
	e := echo.New()
	rs := New(e)
	var got map[string]any
	rs.GET("/search", "search",
		func(_ context.Context, args map[string]any) (any, error) {
			got = args
			return "ok", nil
		},
		Params(mcpbridge.Param{Name: "limit", Type: mcpbridge.TypeInteger, Default: 10}),
	)

	req := httptest.NewRequest(http.MethodGet, "/search", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 10, got["limit"])
}

func TestHTTPHandler_MissingRequired(t *testing.T) {
	e := echo.New()
	rs := New(e)
	rs.POST("/items", "create_item",
		func(context.Context, map[string]any) (any, error) { return nil, nil },
		Params(mcpbridge.Param{Name: "name", Type: mcpbridge.TypeString}),
	)

	req := httptest.NewRequest(http.MethodPost, "/items", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, echoBody(t, rec)["error"], "name")
}

func TestHTTPHandler_CallableError(t *testing.T) {
	e := echo.New()
	rs := New(e)
	rs.POST("/items", "create_item",
		func(context.Context, map[string]any) (any, error) {
			return nil, errors.New("store unavailable")
		},
	)

	req := httptest.NewRequest(http.MethodPost, "/items", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "store unavailable", echoBody(t, rec)["error"])
}

// TestRouteSet_BridgeIntegration mounts a RouteSet and checks the same
// functions answer through the bridge dispatcher.
func TestRouteSet_BridgeIntegration(t *testing.T) {
	rs := New(echo.New())
	rs.POST("/sum", "sum",
		func(_ context.Context, args map[string]any) (any, error) {
			return args["a"].(int) + args["b"].(int), nil
		},
		Params(
			mcpbridge.Param{Name: "a", Type: mcpbridge.TypeInteger},
			mcpbridge.Param{Name: "b", Type: mcpbridge.TypeInteger},
		),
	)
	rs.GET("/items", "list_items",
		func(context.Context, map[string]any) (any, error) {
			return []any{"bolt", "nut"}, nil
		},
	)

	cfg := mcpbridge.DefaultConfig()
	cfg.ExposeDocs = false
	b, err := mcpbridge.New(rs, cfg)
	require.NoError(t, err)

	require.True(t, b.HasTool("sum"))
	require.True(t, b.HasResource("app://items"))

	result, err := b.CallTool(context.Background(), "sum", map[string]any{"a": 5, "b": 3})
	require.NoError(t, err)
	assert.Equal(t, 8, result)

	items, err := b.ReadResource(context.Background(), "app://items")
	require.NoError(t, err)
	assert.Equal(t, []any{"bolt", "nut"}, items)
}
