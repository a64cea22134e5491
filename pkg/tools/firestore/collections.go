package firestore

import (
	"context"

	fs "cloud.google.com/go/firestore"
	"github.com/mark3labs/mcp-go/mcp"

	"github.com/firebridge/mcp-server-firebase/core"
	fb "github.com/firebridge/mcp-server-firebase/pkg/firebase"
	"github.com/firebridge/mcp-server-firebase/pkg/paginate"
	"github.com/firebridge/mcp-server-firebase/pkg/tools"
)

// ListCollectionsTool enumerates root collections, or the subcollections
// of one document. Firestore has no native cursor for collection
// enumeration, so pagination uses an offset token.
type ListCollectionsTool struct {
	client *fb.Client
	handle mcp.Tool
}

func NewListCollectionsTool(client *fb.Client) core.Tool {
	t := &ListCollectionsTool{client: client}
	t.handle = mcp.NewTool(
		"firestore_list_collections",
		mcp.WithDescription("List root collections, or the subcollections of a document when documentPath is given."),
		mcp.WithString("documentPath", mcp.Description("Optional document path, e.g. 'users/ada'.")),
		mcp.WithNumber("limit", mcp.Description("Page size, default 20, max 100.")),
		mcp.WithString("pageToken", mcp.Description("Continuation token from a previous call.")),
	)
	return t
}

func (t *ListCollectionsTool) Handle() mcp.Tool {
	return t.handle
}

// offsetWindow clamps an offset cursor onto n items. A token pointing
// past the end yields an empty window rather than an error, so a list
// that shrank between calls still terminates cleanly.
func offsetWindow(n, offset, limit int) (start, end int) {
	if offset > n {
		offset = n
	}
	end = offset + limit
	if end > n {
		end = n
	}
	return offset, end
}

func (t *ListCollectionsTool) Handler(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	offset := 0
	if token := tools.OptionalString(request, "pageToken"); token != "" {
		cursor, err := paginate.Decode(token)
		if err != nil {
			return tools.Failure(tools.CategoryValidation, err.Error(), nil), nil
		}
		offset = cursor.Offset
	}

	var doc *fs.DocumentRef
	if docPath := tools.OptionalString(request, "documentPath"); docPath != "" {
		ref, fail := documentRef(t.client, docPath)
		if fail != nil {
			return fail, nil
		}
		doc = ref
	}

	var refs []*fs.CollectionRef
	err := t.client.Retry(ctx, func() error {
		var it *fs.CollectionIterator
		if doc != nil {
			it = doc.Collections(ctx)
		} else {
			it = t.client.Firestore.Collections(ctx)
		}
		all, err := it.GetAll()
		if err != nil {
			return err
		}
		refs = all
		return nil
	})
	if err != nil {
		return tools.FailureFromError(err), nil
	}

	limit := tools.IntArg(request, "limit", defaultPageSize, maxPageSize)
	start, end := offsetWindow(len(refs), offset, limit)

	names := make([]string, 0, end-start)
	for _, ref := range refs[start:end] {
		names = append(names, ref.ID)
	}

	payload := map[string]any{"collections": names}
	if end < len(refs) {
		token, err := paginate.Encode(paginate.Cursor{Offset: end})
		if err != nil {
			return tools.FailureFromError(err), nil
		}
		payload["nextPageToken"] = token
	}
	return tools.Success(payload), nil
}
