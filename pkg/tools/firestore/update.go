package firestore

import (
	"context"

	fs "cloud.google.com/go/firestore"
	"github.com/mark3labs/mcp-go/mcp"

	"github.com/firebridge/mcp-server-firebase/core"
	fb "github.com/firebridge/mcp-server-firebase/pkg/firebase"
	"github.com/firebridge/mcp-server-firebase/pkg/tools"
)

// UpdateDocumentTool merges fields into an existing document. The
// operation fails with not-found when the document does not exist.
type UpdateDocumentTool struct {
	client *fb.Client
	handle mcp.Tool
}

func NewUpdateDocumentTool(client *fb.Client) core.Tool {
	t := &UpdateDocumentTool{client: client}
	t.handle = mcp.NewTool(
		"firestore_update_document",
		mcp.WithDescription("Update fields of an existing Firestore document. Fails when the document does not exist."),
		mcp.WithString("collection", mcp.Required(), mcp.Description("Collection name.")),
		mcp.WithString("id", mcp.Required(), mcp.Description("Document id.")),
		tools.WithObject("data", mcp.Required(), mcp.Description("Fields to set; other fields are left untouched.")),
	)
	return t
}

func (t *UpdateDocumentTool) Handle() mcp.Tool {
	return t.handle
}

func (t *UpdateDocumentTool) Handler(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	collection, ok := tools.StringArg(request, "collection")
	if !ok {
		return tools.Validationf("missing required parameter: collection"), nil
	}
	id, ok := tools.StringArg(request, "id")
	if !ok {
		return tools.Validationf("missing required parameter: id"), nil
	}
	data, ok := tools.MapArg(request, "data")
	if !ok {
		return tools.Validationf("missing required parameter: data"), nil
	}
	if len(data) == 0 {
		return tools.Validationf("data must contain at least one field"), nil
	}

	coll, fail := collectionRef(t.client, collection)
	if fail != nil {
		return fail, nil
	}

	// FieldPath keeps keys containing dots from being interpreted as
	// nested field selectors.
	updates := make([]fs.Update, 0, len(data))
	for k, v := range data {
		updates = append(updates, fs.Update{FieldPath: fs.FieldPath{k}, Value: v})
	}

	res, err := coll.Doc(id).Update(ctx, updates)
	if err != nil {
		return tools.FailureFromError(err), nil
	}

	return tools.Success(map[string]any{
		"id":         id,
		"path":       collection + "/" + id,
		"updateTime": fb.FormatTime(res.UpdateTime),
	}), nil
}
