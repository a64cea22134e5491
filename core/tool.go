// Package core defines the contract every Firebase tool implements.
package core

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
)

// Tool is a single named Firebase operation exposed over MCP. Handle
// carries the tool's name and input schema; Handler performs the backend
// call. Handlers report backend failures as error results, not as a
// returned error; the returned error is reserved for conditions the
// dispatch layer should classify itself.
type Tool interface {
	Handle() mcp.Tool
	Handler(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error)
}
