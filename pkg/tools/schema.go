package tools

import "github.com/mark3labs/mcp-go/mcp"

// mcp-go only ships property options for scalar parameter types; the
// object and array options below follow the same shape so tool schemas
// stay declarative.

// WithObject declares an object-typed tool parameter.
func WithObject(name string, opts ...mcp.PropertyOption) mcp.ToolOption {
	return withProperty(name, "object", opts)
}

// WithArray declares an array-typed tool parameter.
func WithArray(name string, opts ...mcp.PropertyOption) mcp.ToolOption {
	return withProperty(name, "array", opts)
}

// Items sets the item schema of an array parameter.
func Items(schema map[string]any) mcp.PropertyOption {
	return func(m map[string]interface{}) {
		m["items"] = schema
	}
}

func withProperty(name, typ string, opts []mcp.PropertyOption) mcp.ToolOption {
	return func(t *mcp.Tool) {
		schema := map[string]interface{}{
			"type": typ,
		}
		for _, opt := range opts {
			opt(schema)
		}

		if required, ok := schema["required"].(bool); ok && required {
			delete(schema, "required")
			t.InputSchema.Required = append(t.InputSchema.Required, name)
		}

		t.InputSchema.Properties[name] = schema
	}
}
