package firestore

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/firebridge/mcp-server-firebase/core"
	fb "github.com/firebridge/mcp-server-firebase/pkg/firebase"
	"github.com/firebridge/mcp-server-firebase/pkg/tools"
)

// ListDocumentsTool pages through the documents of one collection.
type ListDocumentsTool struct {
	client *fb.Client
	handle mcp.Tool
}

func NewListDocumentsTool(client *fb.Client) core.Tool {
	t := &ListDocumentsTool{client: client}
	t.handle = mcp.NewTool(
		"firestore_list_documents",
		mcp.WithDescription("List documents in a Firestore collection, optionally filtered, with pagination."),
		mcp.WithString("collection", mcp.Required(), mcp.Description("Collection name.")),
		filtersOption(),
		mcp.WithNumber("limit", mcp.Description("Page size, default 20, max 100.")),
		mcp.WithString("pageToken", mcp.Description("Continuation token from a previous call with the same filters.")),
	)
	return t
}

func (t *ListDocumentsTool) Handle() mcp.Tool {
	return t.handle
}

func (t *ListDocumentsTool) Handler(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	collection, ok := tools.StringArg(request, "collection")
	if !ok {
		return tools.Validationf("missing required parameter: collection"), nil
	}

	coll, fail := collectionRef(t.client, collection)
	if fail != nil {
		return fail, nil
	}

	q, fail := applyFilters(coll.Query, request)
	if fail != nil {
		return fail, nil
	}

	q, fail = resumeAfterToken(ctx, t.client, q, tools.OptionalString(request, "pageToken"))
	if fail != nil {
		return fail, nil
	}

	limit := tools.IntArg(request, "limit", defaultPageSize, maxPageSize)
	docs, next, fail := runQuery(ctx, t.client, q, limit)
	if fail != nil {
		return fail, nil
	}

	payload := map[string]any{"documents": docs}
	if next != "" {
		payload["nextPageToken"] = next
	}
	return tools.Success(payload), nil
}
