package storage

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/firebridge/mcp-server-firebase/core"
	fb "github.com/firebridge/mcp-server-firebase/pkg/firebase"
	"github.com/firebridge/mcp-server-firebase/pkg/tools"
)

// GetFileInfoTool reports an object's metadata and download URL.
type GetFileInfoTool struct {
	client *fb.Client
	handle mcp.Tool
}

func NewGetFileInfoTool(client *fb.Client) core.Tool {
	t := &GetFileInfoTool{client: client}
	t.handle = mcp.NewTool(
		"storage_get_file_info",
		mcp.WithDescription("Get metadata and a download URL for a file in the storage bucket."),
		mcp.WithString("filePath", mcp.Required(), mcp.Description("Object path, e.g. 'notes/a.txt'.")),
	)
	return t
}

func (t *GetFileInfoTool) Handle() mcp.Tool {
	return t.handle
}

func (t *GetFileInfoTool) Handler(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	filePath, ok := tools.StringArg(request, "filePath")
	if !ok {
		return tools.Validationf("missing required parameter: filePath"), nil
	}
	if fail := requireBucket(t.client); fail != nil {
		return fail, nil
	}

	attrs, err := objectAttrs(ctx, t.client, filePath)
	if err != nil {
		return tools.FailureFromError(err), nil
	}

	return tools.Success(attrsPayload(t.client, attrs)), nil
}
