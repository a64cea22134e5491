package tools

import (
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
)

// Success wraps a structured payload in the uniform tool-result envelope.
// The payload is serialized to a single JSON text content item; the
// result never has empty content.
func Success(payload any) *mcp.CallToolResult {
	data, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return Failure(CategoryUnknown, fmt.Sprintf("failed to encode result: %v", err), nil)
	}
	return mcp.NewToolResultText(string(data))
}

// Failure builds an error tool result carrying the category, a human
// message, and optional category-specific metadata (such as the console
// URL for a missing index). Callers never see a raw error value.
func Failure(cat Category, message string, meta map[string]any) *mcp.CallToolResult {
	body := map[string]any{
		"category": string(cat),
		"message":  message,
	}
	for k, v := range meta {
		body[k] = v
	}

	data, err := json.MarshalIndent(body, "", "  ")
	if err != nil {
		// The body is maps and strings; this is unreachable in practice.
		return mcp.NewToolResultError(fmt.Sprintf("[%s] %s", cat, message))
	}
	return mcp.NewToolResultError(string(data))
}

// FailureFromError classifies a backend error and wraps it as an error
// tool result.
func FailureFromError(err error) *mcp.CallToolResult {
	c := Classify(err)
	return Failure(c.Category, c.Message, c.Meta)
}

// Validationf builds a validation-category error result. Used for
// argument-shape failures detected before any backend call.
func Validationf(format string, args ...any) *mcp.CallToolResult {
	return Failure(CategoryValidation, fmt.Sprintf(format, args...), nil)
}
