// Copyright 2025 John Wang. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package mcpbridge

import (
	"mime"
	"net/http"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// protocolVersionHeader is sent by MCP clients on every HTTP request.
// Its presence, together with a JSON content type, marks protocol
// traffic that arrives outside the path prefix.
const protocolVersionHeader = "Mcp-Protocol-Version"

// Handler returns the shared ingress handler: protocol traffic goes to
// the MCP server over streamable HTTP, everything else to app. With the
// bridge disabled, all traffic goes to app.
//
// A request is protocol traffic when its path starts with
// Config.PathPrefix, or when it carries a JSON content type together
// with the MCP protocol version header. Upgrade requests (websockets and
// friends) are never protocol traffic.
func (b *Bridge) Handler(app http.Handler) http.Handler {
	mcpHandler := mcp.NewStreamableHTTPHandler(
		func(*http.Request) *mcp.Server { return b.server },
		nil,
	)

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !b.cfg.Enabled || !b.isProtocolRequest(r) {
			app.ServeHTTP(w, r)
			return
		}
		if b.cfg.AuthRequired && bearerToken(r) == "" {
			http.Error(w, "authorization required", http.StatusUnauthorized)
			return
		}
		mcpHandler.ServeHTTP(w, r)
	})
}

// isProtocolRequest classifies one inbound request.
func (b *Bridge) isProtocolRequest(r *http.Request) bool {
	if r.Header.Get("Upgrade") != "" {
		return false
	}
	if strings.HasPrefix(r.URL.Path, b.cfg.PathPrefix) {
		return true
	}

	mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if err != nil {
		return false
	}
	if mediaType != "application/json" && !strings.HasSuffix(mediaType, "+json") {
		return false
	}
	return r.Header.Get(protocolVersionHeader) != ""
}

// bearerToken extracts the bearer token from the Authorization header,
// or "" when absent or malformed.
func bearerToken(r *http.Request) string {
	auth := r.Header.Get("Authorization")
	const prefix = "Bearer "
	if len(auth) <= len(prefix) || !strings.EqualFold(auth[:len(prefix)], prefix) {
		return ""
	}
	return strings.TrimSpace(auth[len(prefix):])
}
