// Package registry implements the tool dispatch table: a name-keyed
// registry of tools whose handlers run behind schema validation, a
// per-call timeout, panic recovery, and error classification. The table
// is populated at startup and read-only afterwards, so concurrent
// dispatches share it without locking.
package registry

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/xeipuuv/gojsonschema"

	"github.com/firebridge/mcp-server-firebase/core"
	"github.com/firebridge/mcp-server-firebase/pkg/tools"
)

type entry struct {
	tool   core.Tool
	schema *gojsonschema.Schema
}

// Registry is the tool dispatch table.
type Registry struct {
	timeout time.Duration
	entries map[string]entry
}

// New creates an empty registry. timeout bounds each handler invocation;
// zero disables the bound.
func New(timeout time.Duration) *Registry {
	return &Registry{
		timeout: timeout,
		entries: make(map[string]entry),
	}
}

// Register adds a tool to the table. Registering a nil tool or a name
// that is already taken is a configuration error.
func (r *Registry) Register(t core.Tool) error {
	if t == nil {
		return fmt.Errorf("cannot register nil tool")
	}

	handle := t.Handle()
	if handle.Name == "" {
		return fmt.Errorf("cannot register tool with empty name")
	}
	if _, exists := r.entries[handle.Name]; exists {
		return fmt.Errorf("tool %q is already registered", handle.Name)
	}

	schema, err := compileSchema(handle)
	if err != nil {
		return fmt.Errorf("tool %q has an invalid input schema: %w", handle.Name, err)
	}

	r.entries[handle.Name] = entry{tool: t, schema: schema}
	return nil
}

// Names returns the registered tool names in sorted order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.entries))
	for name := range r.entries {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Dispatch looks the tool up by name, validates the arguments against
// its input schema, and invokes the handler. Every failure mode (an
// unknown name, bad arguments, a handler error, even a handler panic)
// comes back as an error tool result; Dispatch never returns nil and
// never lets an error escape.
func (r *Registry) Dispatch(ctx context.Context, request mcp.CallToolRequest) (result *mcp.CallToolResult) {
	name := request.Params.Name
	callID := uuid.NewString()

	defer func() {
		if p := recover(); p != nil {
			log.Error("tool handler panicked", "tool", name, "call", callID, "panic", p)
			result = tools.Failure(tools.CategoryUnknown, fmt.Sprintf("internal error in tool %q", name), nil)
		}
	}()

	ent, ok := r.entries[name]
	if !ok {
		return tools.Validationf("unknown tool %q", name)
	}

	if msg := validate(ent.schema, request.Params.Arguments); msg != "" {
		return tools.Failure(tools.CategoryValidation, msg, nil)
	}

	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	start := time.Now()
	res, err := ent.tool.Handler(ctx, request)
	if err != nil {
		log.Error("tool call failed", "tool", name, "call", callID, "error", err)
		return tools.FailureFromError(err)
	}
	if res == nil {
		return tools.Failure(tools.CategoryUnknown, fmt.Sprintf("tool %q produced no result", name), nil)
	}

	log.Info("tool call", "tool", name, "call", callID, "duration", time.Since(start), "isError", res.IsError)
	return res
}

// Attach registers every tool with the MCP server so both transports
// route tools/call requests through Dispatch.
func (r *Registry) Attach(srv *server.MCPServer) {
	for _, ent := range r.entries {
		srv.AddTool(ent.tool.Handle(), func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return r.Dispatch(ctx, request), nil
		})
	}
}

func compileSchema(handle mcp.Tool) (*gojsonschema.Schema, error) {
	raw, err := json.Marshal(handle.InputSchema)
	if err != nil {
		return nil, err
	}
	return gojsonschema.NewSchema(gojsonschema.NewBytesLoader(raw))
}

func validate(schema *gojsonschema.Schema, args map[string]any) string {
	if args == nil {
		args = map[string]any{}
	}

	res, err := schema.Validate(gojsonschema.NewGoLoader(args))
	if err != nil {
		return fmt.Sprintf("arguments are not a valid JSON object: %v", err)
	}
	if res.Valid() {
		return ""
	}

	msgs := make([]string, 0, len(res.Errors()))
	for _, e := range res.Errors() {
		msgs = append(msgs, e.String())
	}
	return "invalid arguments: " + strings.Join(msgs, "; ")
}
