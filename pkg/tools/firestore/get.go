package firestore

import (
	"context"

	fs "cloud.google.com/go/firestore"
	"github.com/mark3labs/mcp-go/mcp"

	"github.com/firebridge/mcp-server-firebase/core"
	fb "github.com/firebridge/mcp-server-firebase/pkg/firebase"
	"github.com/firebridge/mcp-server-firebase/pkg/tools"
)

// GetDocumentTool fetches one document by collection and id.
type GetDocumentTool struct {
	client *fb.Client
	handle mcp.Tool
}

func NewGetDocumentTool(client *fb.Client) core.Tool {
	t := &GetDocumentTool{client: client}
	t.handle = mcp.NewTool(
		"firestore_get_document",
		mcp.WithDescription("Get a Firestore document by collection and id. Timestamps are returned as RFC3339 strings."),
		mcp.WithString("collection", mcp.Required(), mcp.Description("Collection name.")),
		mcp.WithString("id", mcp.Required(), mcp.Description("Document id.")),
	)
	return t
}

func (t *GetDocumentTool) Handle() mcp.Tool {
	return t.handle
}

func (t *GetDocumentTool) Handler(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
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

	var snap *fs.DocumentSnapshot
	err := t.client.Retry(ctx, func() error {
		s, err := coll.Doc(id).Get(ctx)
		if err != nil {
			return err
		}
		snap = s
		return nil
	})
	if err != nil {
		return tools.FailureFromError(err), nil
	}

	return tools.Success(docPayload(snap)), nil
}
