package firestore

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/firebridge/mcp-server-firebase/core"
	fb "github.com/firebridge/mcp-server-firebase/pkg/firebase"
	"github.com/firebridge/mcp-server-firebase/pkg/tools"
)

// DeleteDocumentTool removes a document. Deleting a missing document is
// not an error, matching Firestore semantics.
type DeleteDocumentTool struct {
	client *fb.Client
	handle mcp.Tool
}

func NewDeleteDocumentTool(client *fb.Client) core.Tool {
	t := &DeleteDocumentTool{client: client}
	t.handle = mcp.NewTool(
		"firestore_delete_document",
		mcp.WithDescription("Delete a Firestore document by collection and id."),
		mcp.WithString("collection", mcp.Required(), mcp.Description("Collection name.")),
		mcp.WithString("id", mcp.Required(), mcp.Description("Document id.")),
	)
	return t
}

func (t *DeleteDocumentTool) Handle() mcp.Tool {
	return t.handle
}

func (t *DeleteDocumentTool) Handler(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	collection, ok := tools.StringArg(request, "collection")
	if !ok {
		return tools.Validationf("missing required parameter: collection"), nil
	}
	id, ok := tools.StringArg(request, "id")
	if !ok {
		return tools.Validationf("missing required parameter: id"), nil
	}

	coll, fail := collectionRef(t.client, collection)
	if fail != nil {
		return fail, nil
	}

	if _, err := coll.Doc(id).Delete(ctx); err != nil {
		return tools.FailureFromError(err), nil
	}

	return tools.Success(map[string]any{
		"id":      id,
		"path":    collection + "/" + id,
		"deleted": true,
	}), nil
}
