// Copyright 2025 John Wang. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package echoroutes

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/mcpbridge/mcpbridge"
)

// httpHandler adapts an endpoint callable to Echo. Arguments are
// collected from the JSON body, query string and path parameters (in
// that order, later sources winning), converted per the declared
// parameter table, and bound with defaults before the callable runs.
func httpHandler(ep *endpoint) echo.HandlerFunc {
	byName := make(map[string]mcpbridge.Param, len(ep.params))
	for _, p := range ep.params {
		byName[p.Name] = p
	}

	return func(c echo.Context) error {
		args := make(map[string]any)

		req := c.Request()
		if req.Body != nil && strings.Contains(req.Header.Get(echo.HeaderContentType), echo.MIMEApplicationJSON) {
			var body map[string]any
			if err := json.NewDecoder(req.Body).Decode(&body); err == nil {
				for k, v := range body {
					args[k] = v
				}
			}
		}
		for name, vals := range c.QueryParams() {
			if len(vals) > 0 {
				args[name] = convertArg(byName, name, vals[0])
			}
		}
		names := c.ParamNames()
		values := c.ParamValues()
		for i, name := range names {
			args[name] = convertArg(byName, name, values[i])
		}

		bound, err := bindHTTPArgs(ep.params, args)
		if err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
		}

		result, err := ep.call(req.Context(), bound)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
		}
		return c.JSON(http.StatusOK, result)
	}
}

// convertArg converts a string-valued HTTP parameter per its declared
// type. Undeclared or unconvertible values stay strings.
func convertArg(byName map[string]mcpbridge.Param, name, raw string) any {
	p, ok := byName[name]
	if !ok {
		return raw
	}
	switch p.Type {
	case mcpbridge.TypeInteger:
		if n, err := strconv.Atoi(raw); err == nil {
			return n
		}
	case mcpbridge.TypeNumber:
		if f, err := strconv.ParseFloat(raw, 64); err == nil {
			return f
		}
	case mcpbridge.TypeBoolean:
		if b, err := strconv.ParseBool(raw); err == nil {
			return b
		}
	case mcpbridge.TypeArray, mcpbridge.TypeObject:
		var v any
		if err := json.Unmarshal([]byte(raw), &v); err == nil {
			return v
		}
	}
	return raw
}

// bindHTTPArgs mirrors dispatch binding for the HTTP side: defaults for
// omitted optional parameters, an error for missing required ones.
// Unknown arguments are dropped rather than rejected; HTTP requests
// legitimately carry extra query noise MCP calls don't.
func bindHTTPArgs(params []mcpbridge.Param, args map[string]any) (map[string]any, error) {
	bound := make(map[string]any, len(params))
	for _, p := range params {
		if v, ok := args[p.Name]; ok {
			bound[p.Name] = v
			continue
		}
		if p.Default != nil {
			bound[p.Name] = p.Default
			continue
		}
		if !p.Optional {
			return nil, fmt.Errorf("missing required argument %q", p.Name)
		}
	}
	return bound, nil
}
