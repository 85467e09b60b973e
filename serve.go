// Copyright 2025 John Wang. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package mcpbridge

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// ServeStdio runs the MCP server over stdio until the context is
// cancelled or the client disconnects. Intended for subprocess use;
// application HTTP routes are not served in this mode.
func (b *Bridge) ServeStdio(ctx context.Context) error {
	return b.server.Run(ctx, &mcp.StdioTransport{})
}

// Serve runs the bridge per the configured transport: stdio, or an HTTP
// server on addr fronted by Handler with app behind it. The HTTP server
// shuts down gracefully when the context is cancelled.
func (b *Bridge) Serve(ctx context.Context, addr string, app http.Handler) error {
	switch b.cfg.Transport {
	case TransportStdio:
		return b.ServeStdio(ctx)
	case TransportHTTP:
		srv := &http.Server{Addr: addr, Handler: b.Handler(app)}

		errc := make(chan error, 1)
		go func() { errc <- srv.ListenAndServe() }()

		select {
		case <-ctx.Done():
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = srv.Shutdown(shutdownCtx)
			return ctx.Err()
		case err := <-errc:
			return err
		}
	default:
		return fmt.Errorf("unknown transport %q", b.cfg.Transport)
	}
}

// InMemorySession connects an in-process MCP client to the bridge's
// server over in-memory transports. It returns the server and client
// sessions; close the client session when done. Useful for tests and for
// embedding without any wire transport.
func (b *Bridge) InMemorySession(ctx context.Context) (*mcp.ServerSession, *mcp.ClientSession, error) {
	serverTransport, clientTransport := mcp.NewInMemoryTransports()

	serverSession, err := b.server.Connect(ctx, serverTransport, nil)
	if err != nil {
		return nil, nil, fmt.Errorf("connecting server: %w", err)
	}

	client := mcp.NewClient(&mcp.Implementation{
		Name:    b.cfg.ServerName + "-client",
		Version: b.cfg.ServerVersion,
	}, nil)
	clientSession, err := client.Connect(ctx, clientTransport, nil)
	if err != nil {
		return nil, nil, fmt.Errorf("connecting client: %w", err)
	}

	return serverSession, clientSession, nil
}
