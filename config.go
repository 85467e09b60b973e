// Copyright 2025 John Wang. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package mcpbridge

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Transport selects how the MCP server is served.
const (
	TransportHTTP  = "http"
	TransportStdio = "stdio"
)

// Config configures a Bridge.
type Config struct {
	// Enabled gates the whole integration. A disabled bridge registers
	// nothing and its Handler forwards all traffic to the application.
	Enabled bool `yaml:"enabled"`

	// ServerName and ServerVersion identify the MCP server to clients.
	ServerName    string `yaml:"server_name"`
	ServerVersion string `yaml:"server_version"`

	// AutoExpose registers untagged endpoints by HTTP verb: POST, PUT
	// and PATCH become tools, GET becomes a resource.
	AutoExpose bool `yaml:"auto_expose"`

	// ExposeDocs registers a docs://routes resource describing every
	// exposed tool and resource.
	ExposeDocs bool `yaml:"expose_docs"`

	// AuthRequired rejects protocol traffic without a bearer token.
	AuthRequired bool `yaml:"auth_required"`

	// Transport is "http" or "stdio".
	Transport string `yaml:"transport"`

	// PathPrefix marks protocol traffic on the shared HTTP ingress.
	PathPrefix string `yaml:"path_prefix"`

	// Logger for bridge activity. If nil, slog.Default is used.
	Logger *slog.Logger `yaml:"-"`
}

// DefaultConfig returns an enabled configuration with auto-exposure, the
// docs resource, HTTP transport and the "/mcp" prefix.
func DefaultConfig() *Config {
	return &Config{
		Enabled:       true,
		ServerName:    "mcpbridge-server",
		ServerVersion: "v0.1.0",
		AutoExpose:    true,
		ExposeDocs:    true,
		Transport:     TransportHTTP,
		PathPrefix:    "/mcp",
	}
}

// Validate reports configuration errors. The zero value fails: use
// DefaultConfig as the starting point.
func (c *Config) Validate() error {
	if c.ServerName == "" {
		return fmt.Errorf("server_name is required")
	}
	if c.ServerVersion == "" {
		return fmt.Errorf("server_version is required")
	}
	switch c.Transport {
	case TransportHTTP, TransportStdio:
	default:
		return fmt.Errorf("transport must be %q or %q, got %q", TransportHTTP, TransportStdio, c.Transport)
	}
	if !strings.HasPrefix(c.PathPrefix, "/") {
		return fmt.Errorf("path_prefix must start with /, got %q", c.PathPrefix)
	}
	return nil
}

// LoadConfig reads a YAML config file over DefaultConfig, so the file
// only needs the fields it changes.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
