package firestore

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/firebridge/mcp-server-firebase/core"
	fb "github.com/firebridge/mcp-server-firebase/pkg/firebase"
	"github.com/firebridge/mcp-server-firebase/pkg/tools"
)

// AddDocumentTool creates a document with a generated id.
type AddDocumentTool struct {
	client *fb.Client
	handle mcp.Tool
}

func NewAddDocumentTool(client *fb.Client) core.Tool {
	t := &AddDocumentTool{client: client}
	t.handle = mcp.NewTool(
		"firestore_add_document",
		mcp.WithDescription("Add a document to a Firestore collection. The document id is generated."),
		mcp.WithString("collection", mcp.Required(), mcp.Description("Collection name, e.g. 'users' or 'users/ada/notes'.")),
		tools.WithObject("data", mcp.Required(), mcp.Description("Document fields as a JSON object.")),
	)
	return t
}

func (t *AddDocumentTool) Handle() mcp.Tool {
	return t.handle
}

func (t *AddDocumentTool) Handler(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	collection, ok := tools.StringArg(request, "collection")
	if !ok {
		return tools.Validationf("missing required parameter: collection"), nil
	}
	data, ok := tools.MapArg(request, "data")
	if !ok {
		return tools.Validationf("missing required parameter: data"), nil
	}

	coll, fail := collectionRef(t.client, collection)
	if fail != nil {
		return fail, nil
	}

	ref, _, err := coll.Add(ctx, data)
	if err != nil {
		return tools.FailureFromError(err), nil
	}

	return tools.Success(map[string]any{
		"id":   ref.ID,
		"path": fb.RelativePath(ref.Path),
	}), nil
}
