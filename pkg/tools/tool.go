// Package tools holds the pieces shared by every Firebase tool: the
// uniform success/error result envelope, the backend error classifier,
// and typed accessors for tool-call arguments.
package tools

import (
	"github.com/mark3labs/mcp-go/mcp"
)

// StringArg returns a string argument. ok is false when the argument is
// absent, empty, or not a string.
func StringArg(request mcp.CallToolRequest, name string) (string, bool) {
	v, ok := request.Params.Arguments[name].(string)
	return v, ok && v != ""
}

// OptionalString returns a string argument or the empty string.
func OptionalString(request mcp.CallToolRequest, name string) string {
	v, _ := request.Params.Arguments[name].(string)
	return v
}

// IntArg returns a numeric argument clamped to [1, max], or def when the
// argument is absent. JSON numbers arrive as float64.
func IntArg(request mcp.CallToolRequest, name string, def, max int) int {
	raw, ok := request.Params.Arguments[name]
	if !ok {
		return def
	}
	f, ok := raw.(float64)
	if !ok {
		return def
	}
	n := int(f)
	if n < 1 {
		return def
	}
	if n > max {
		return max
	}
	return n
}

// MapArg returns an object argument. ok is false when the argument is
// absent or not an object.
func MapArg(request mcp.CallToolRequest, name string) (map[string]any, bool) {
	v, ok := request.Params.Arguments[name].(map[string]any)
	return v, ok
}

// SliceArg returns an array argument. ok is false when the argument is
// absent or not an array.
func SliceArg(request mcp.CallToolRequest, name string) ([]any, bool) {
	v, ok := request.Params.Arguments[name].([]any)
	return v, ok
}

// StringMapArg returns an object argument whose values are all strings,
// such as custom storage metadata. Non-string values are dropped.
func StringMapArg(request mcp.CallToolRequest, name string) map[string]string {
	raw, ok := MapArg(request, name)
	if !ok || len(raw) == 0 {
		return nil
	}
	out := make(map[string]string, len(raw))
	for k, v := range raw {
		if s, ok := v.(string); ok {
			out[k] = s
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
