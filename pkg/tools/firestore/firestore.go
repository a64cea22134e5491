// Package firestore exposes Firestore document CRUD, listing, and
// collection-group queries as MCP tools.
package firestore

import (
	"context"
	"sort"
	"strings"

	fs "cloud.google.com/go/firestore"
	"github.com/mark3labs/mcp-go/mcp"

	"github.com/firebridge/mcp-server-firebase/core"
	fb "github.com/firebridge/mcp-server-firebase/pkg/firebase"
	"github.com/firebridge/mcp-server-firebase/pkg/paginate"
	"github.com/firebridge/mcp-server-firebase/pkg/tools"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// Register constructs every Firestore tool against the given client.
func Register(client *fb.Client) []core.Tool {
	return []core.Tool{
		NewAddDocumentTool(client),
		NewListDocumentsTool(client),
		NewGetDocumentTool(client),
		NewUpdateDocumentTool(client),
		NewDeleteDocumentTool(client),
		NewListCollectionsTool(client),
		NewQueryCollectionGroupTool(client),
	}
}

var validOperators = map[string]bool{
	"==": true, "!=": true, "<": true, "<=": true, ">": true, ">=": true,
	"array-contains": true, "array-contains-any": true, "in": true, "not-in": true,
}

func operatorList() string {
	ops := make([]string, 0, len(validOperators))
	for op := range validOperators {
		ops = append(ops, op)
	}
	sort.Strings(ops)
	return strings.Join(ops, ", ")
}

func filtersOption() mcp.ToolOption {
	return tools.WithArray("filters",
		mcp.Description("Field filters: [{field, operator, value}]. Operators: "+operatorList()+". RFC3339 strings in values are compared as timestamps."),
		tools.Items(map[string]any{
			"type": "object",
			"properties": map[string]any{
				"field":    map[string]any{"type": "string"},
				"operator": map[string]any{"type": "string"},
				"value":    map[string]any{},
			},
			"required": []any{"field", "operator"},
		}),
	)
}

func orderByOption() mcp.ToolOption {
	return tools.WithArray("orderBy",
		mcp.Description("Sort order: [{field, direction}] with direction asc (default) or desc."),
		tools.Items(map[string]any{
			"type": "object",
			"properties": map[string]any{
				"field":     map[string]any{"type": "string"},
				"direction": map[string]any{"type": "string"},
			},
			"required": []any{"field"},
		}),
	)
}

// applyFilters appends Where clauses from the filters argument. A non-nil
// result reports a validation failure; the query is untouched in that case.
func applyFilters(q fs.Query, request mcp.CallToolRequest) (fs.Query, *mcp.CallToolResult) {
	raw, present := request.Params.Arguments["filters"]
	if !present || raw == nil {
		return q, nil
	}

	items, ok := raw.([]any)
	if !ok {
		return q, tools.Validationf("filters must be an array of {field, operator, value} objects")
	}

	for _, item := range items {
		f, ok := item.(map[string]any)
		if !ok {
			return q, tools.Validationf("each filter must be an object with field, operator, and value")
		}
		field, _ := f["field"].(string)
		op, _ := f["operator"].(string)
		if field == "" {
			return q, tools.Validationf("filter is missing a field name")
		}
		if !validOperators[op] {
			return q, tools.Validationf("filter operator %q is not one of: %s", op, operatorList())
		}
		q = q.Where(field, op, fb.ParseFilterValue(f["value"]))
	}
	return q, nil
}

// applyOrderBy appends OrderBy clauses from the orderBy argument.
func applyOrderBy(q fs.Query, request mcp.CallToolRequest) (fs.Query, *mcp.CallToolResult) {
	raw, present := request.Params.Arguments["orderBy"]
	if !present || raw == nil {
		return q, nil
	}

	items, ok := raw.([]any)
	if !ok {
		return q, tools.Validationf("orderBy must be an array of {field, direction} objects")
	}

	for _, item := range items {
		o, ok := item.(map[string]any)
		if !ok {
			return q, tools.Validationf("each orderBy entry must be an object with field and direction")
		}
		field, _ := o["field"].(string)
		if field == "" {
			return q, tools.Validationf("orderBy entry is missing a field name")
		}
		dir := fs.Asc
		switch direction, _ := o["direction"].(string); direction {
		case "", "asc":
		case "desc":
			dir = fs.Desc
		default:
			return q, tools.Validationf("orderBy direction must be asc or desc")
		}
		q = q.OrderBy(field, dir)
	}
	return q, nil
}

// resumeAfterToken applies a page token to a query by fetching the
// document it names and starting just after its snapshot. An empty token
// leaves the query untouched.
func resumeAfterToken(ctx context.Context, client *fb.Client, q fs.Query, token string) (fs.Query, *mcp.CallToolResult) {
	if token == "" {
		return q, nil
	}

	cursor, err := paginate.Decode(token)
	if err != nil {
		return q, tools.Failure(tools.CategoryValidation, err.Error(), nil)
	}
	if cursor.DocPath == "" {
		return q, tools.Validationf("page token does not reference a document")
	}
	// Document paths alternate collection/document, so they always have
	// an even segment count. Client.Doc returns nil for odd counts and
	// the Get would surface an opaque internal error.
	if len(strings.Split(cursor.DocPath, "/"))%2 != 0 {
		return q, tools.Validationf("page token references %q, which is not a document path", cursor.DocPath)
	}

	snap, err := client.Firestore.Doc(cursor.DocPath).Get(ctx)
	if err != nil {
		return q, tools.FailureFromError(err)
	}
	return q.StartAfter(snap), nil
}

// runQuery fetches one page plus a lookahead document. When the
// lookahead exists a continuation token naming the page's last document
// is produced.
func runQuery(ctx context.Context, client *fb.Client, q fs.Query, limit int) ([]map[string]any, string, *mcp.CallToolResult) {
	var snaps []*fs.DocumentSnapshot
	err := client.Retry(ctx, func() error {
		it := q.Limit(limit + 1).Documents(ctx)
		defer it.Stop()
		s, err := it.GetAll()
		if err != nil {
			return err
		}
		snaps = s
		return nil
	})
	if err != nil {
		return nil, "", tools.FailureFromError(err)
	}

	page, more := trimLookahead(snaps, limit)

	docs := make([]map[string]any, len(page))
	for i, snap := range page {
		docs[i] = docPayload(snap)
	}

	var next string
	if more && len(page) > 0 {
		token, err := continuationToken(page)
		if err != nil {
			return nil, "", tools.FailureFromError(err)
		}
		next = token
	}
	return docs, next, nil
}

// trimLookahead drops the lookahead document from a limit+1 fetch and
// reports whether another page follows.
func trimLookahead(snaps []*fs.DocumentSnapshot, limit int) ([]*fs.DocumentSnapshot, bool) {
	if len(snaps) > limit {
		return snaps[:limit], true
	}
	return snaps, false
}

// continuationToken encodes a cursor naming the page's last document.
func continuationToken(page []*fs.DocumentSnapshot) (string, error) {
	return paginate.Encode(paginate.Cursor{
		DocPath: fb.RelativePath(page[len(page)-1].Ref.Path),
	})
}

func docPayload(snap *fs.DocumentSnapshot) map[string]any {
	return map[string]any{
		"id":         snap.Ref.ID,
		"path":       fb.RelativePath(snap.Ref.Path),
		"data":       fb.NormalizeMap(snap.Data()),
		"createTime": fb.FormatTime(snap.CreateTime),
		"updateTime": fb.FormatTime(snap.UpdateTime),
	}
}

// collectionRef resolves a collection path, rejecting paths with an even
// number of segments (those name documents, not collections).
func collectionRef(client *fb.Client, path string) (*fs.CollectionRef, *mcp.CallToolResult) {
	ref := client.Firestore.Collection(path)
	if ref == nil {
		return nil, tools.Validationf("%q is not a valid collection path", path)
	}
	return ref, nil
}

// documentRef resolves a document path, rejecting paths with an odd
// number of segments.
func documentRef(client *fb.Client, path string) (*fs.DocumentRef, *mcp.CallToolResult) {
	ref := client.Firestore.Doc(path)
	if ref == nil {
		return nil, tools.Validationf("%q is not a valid document path", path)
	}
	return ref, nil
}
