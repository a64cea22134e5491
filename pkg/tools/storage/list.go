package storage

import (
	"context"
	"strings"

	gcs "cloud.google.com/go/storage"
	"github.com/mark3labs/mcp-go/mcp"
	"google.golang.org/api/iterator"

	"github.com/firebridge/mcp-server-firebase/core"
	fb "github.com/firebridge/mcp-server-firebase/pkg/firebase"
	"github.com/firebridge/mcp-server-firebase/pkg/paginate"
	"github.com/firebridge/mcp-server-firebase/pkg/tools"
)

// ListFilesTool pages through the objects under a directory prefix. The
// backend's native continuation token travels inside the opaque page
// token.
type ListFilesTool struct {
	client *fb.Client
	handle mcp.Tool
}

func NewListFilesTool(client *fb.Client) core.Tool {
	t := &ListFilesTool{client: client}
	t.handle = mcp.NewTool(
		"storage_list_files",
		mcp.WithDescription("List files in the storage bucket, optionally under a directory prefix."),
		mcp.WithString("directoryPath", mcp.Description("Optional directory prefix, e.g. 'images'.")),
		mcp.WithNumber("pageSize", mcp.Description("Page size, default 10, max 1000.")),
		mcp.WithString("pageToken", mcp.Description("Continuation token from a previous call with the same directoryPath.")),
	)
	return t
}

func (t *ListFilesTool) Handle() mcp.Tool {
	return t.handle
}

func (t *ListFilesTool) Handler(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if fail := requireBucket(t.client); fail != nil {
		return fail, nil
	}

	var native string
	if token := tools.OptionalString(request, "pageToken"); token != "" {
		cursor, err := paginate.Decode(token)
		if err != nil {
			return tools.Failure(tools.CategoryValidation, err.Error(), nil), nil
		}
		native = cursor.Native
	}

	prefix := tools.OptionalString(request, "directoryPath")
	if prefix != "" && !strings.HasSuffix(prefix, "/") {
		prefix += "/"
	}

	pageSize := tools.IntArg(request, "pageSize", defaultPageSize, maxPageSize)

	var (
		entries []*gcs.ObjectAttrs
		next    string
	)
	err := t.client.Retry(ctx, func() error {
		it := t.client.Bucket.Objects(ctx, &gcs.Query{Prefix: prefix})
		pager := iterator.NewPager(it, pageSize, native)

		var page []*gcs.ObjectAttrs
		token, err := pager.NextPage(&page)
		if err != nil {
			return err
		}
		entries, next = page, token
		return nil
	})
	if err != nil {
		return tools.FailureFromError(err), nil
	}

	files := make([]map[string]any, 0, len(entries))
	for _, attrs := range entries {
		files = append(files, map[string]any{
			"name":        attrs.Name,
			"size":        attrs.Size,
			"contentType": attrs.ContentType,
			"updated":     fb.FormatTime(attrs.Updated),
		})
	}

	payload := map[string]any{"files": files}
	if next != "" {
		token, err := paginate.Encode(paginate.Cursor{Native: next})
		if err != nil {
			return tools.FailureFromError(err), nil
		}
		payload["nextPageToken"] = token
	}
	return tools.Success(payload), nil
}
