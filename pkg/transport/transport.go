// Package transport binds the MCP server to its delivery mechanism:
// stdio for a single local client, or HTTP with SSE push streams for
// concurrent networked sessions. Both bindings feed the same dispatch
// table; tools never know which one is in front of them.
package transport

import (
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/mark3labs/mcp-go/server"

	"github.com/firebridge/mcp-server-firebase/pkg/config"
)

// Serve runs the MCP server on the configured transport and blocks until
// the transport shuts down.
func Serve(cfg *config.Config, srv *server.MCPServer) error {
	switch cfg.Transport.Mode {
	case "http":
		sse := server.NewSSEServer(srv, cfg.BaseURL())
		log.Info("listening", "transport", "http", "addr", cfg.HTTPAddr())
		return sse.Start(cfg.HTTPAddr())
	case "stdio":
		log.Info("listening", "transport", "stdio")
		return server.ServeStdio(srv)
	default:
		return fmt.Errorf("unsupported transport %q", cfg.Transport.Mode)
	}
}
