package firestore

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/firebridge/mcp-server-firebase/core"
	fb "github.com/firebridge/mcp-server-firebase/pkg/firebase"
	"github.com/firebridge/mcp-server-firebase/pkg/tools"
)

// QueryCollectionGroupTool queries every subcollection sharing a name,
// irrespective of parent document. Multi-field combinations of filters
// and ordering may require a composite index; the backend's index error
// is surfaced with its console link.
type QueryCollectionGroupTool struct {
	client *fb.Client
	handle mcp.Tool
}

func NewQueryCollectionGroupTool(client *fb.Client) core.Tool {
	t := &QueryCollectionGroupTool{client: client}
	t.handle = mcp.NewTool(
		"firestore_query_collection_group",
		mcp.WithDescription("Query all collections with a given id across the database, with filters, ordering, and pagination."),
		mcp.WithString("collectionId", mcp.Required(), mcp.Description("Collection id shared by the collections to query, e.g. 'notes'.")),
		filtersOption(),
		orderByOption(),
		mcp.WithNumber("limit", mcp.Description("Page size, default 20, max 100.")),
		mcp.WithString("pageToken", mcp.Description("Continuation token from a previous call with the same filters and ordering.")),
	)
	return t
}

func (t *QueryCollectionGroupTool) Handle() mcp.Tool {
	return t.handle
}

func (t *QueryCollectionGroupTool) Handler(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	collectionID, ok := tools.StringArg(request, "collectionId")
	if !ok {
		return tools.Validationf("missing required parameter: collectionId"), nil
	}

	q := t.client.Firestore.CollectionGroup(collectionID).Query

	q, fail := applyFilters(q, request)
	if fail != nil {
		return fail, nil
	}
	q, fail = applyOrderBy(q, request)
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
