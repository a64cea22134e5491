package storage

import (
	"context"
	"encoding/base64"
	"fmt"
	"mime"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/firebridge/mcp-server-firebase/core"
	fb "github.com/firebridge/mcp-server-firebase/pkg/firebase"
	"github.com/firebridge/mcp-server-firebase/pkg/tools"
)

// UploadTool writes content to an object. The content argument is
// interpreted as a data URI, an absolute local file path, or literal
// text, in that order.
type UploadTool struct {
	client *fb.Client
	handle mcp.Tool
}

func NewUploadTool(client *fb.Client) core.Tool {
	t := &UploadTool{client: client}
	t.handle = mcp.NewTool(
		"storage_upload",
		mcp.WithDescription("Upload a file to the storage bucket. Content may be a data: URI, an absolute local file path, or plain text."),
		mcp.WithString("filePath", mcp.Required(), mcp.Description("Destination object path, e.g. 'notes/a.txt'.")),
		mcp.WithString("content", mcp.Required(), mcp.Description("File content: data URI, absolute local path, or text.")),
		mcp.WithString("contentType", mcp.Description("Optional MIME type; detected when omitted.")),
		tools.WithObject("metadata", mcp.Description("Optional custom metadata, string values only.")),
	)
	return t
}

func (t *UploadTool) Handle() mcp.Tool {
	return t.handle
}

func (t *UploadTool) Handler(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	filePath, ok := tools.StringArg(request, "filePath")
	if !ok {
		return tools.Validationf("missing required parameter: filePath"), nil
	}
	content, ok := tools.StringArg(request, "content")
	if !ok {
		return tools.Validationf("missing required parameter: content"), nil
	}
	if fail := requireBucket(t.client); fail != nil {
		return fail, nil
	}

	data, detectedType, err := resolveContent(content)
	if err != nil {
		return tools.Validationf("cannot read content: %v", err), nil
	}

	contentType := resolveContentType(
		tools.OptionalString(request, "contentType"),
		detectedType,
		filePath,
		data,
	)

	if fail := writeObject(ctx, t.client, filePath, data, contentType, tools.StringMapArg(request, "metadata")); fail != nil {
		return fail, nil
	}

	attrs, err := objectAttrs(ctx, t.client, filePath)
	if err != nil {
		return tools.FailureFromError(err), nil
	}
	return tools.Success(attrsPayload(t.client, attrs)), nil
}

func writeObject(ctx context.Context, client *fb.Client, object string, data []byte, contentType string, metadata map[string]string) *mcp.CallToolResult {
	w := client.Bucket.Object(object).NewWriter(ctx)
	w.ContentType = contentType
	if metadata != nil {
		w.Metadata = metadata
	}
	if _, err := w.Write(data); err != nil {
		_ = w.Close()
		return tools.FailureFromError(err)
	}
	if err := w.Close(); err != nil {
		return tools.FailureFromError(err)
	}
	return nil
}

// resolveContent turns the content argument into raw bytes, reporting
// the MIME type when the source carries one (data URIs only).
func resolveContent(content string) (data []byte, contentType string, err error) {
	if strings.HasPrefix(content, "data:") {
		return decodeDataURI(content)
	}

	if filepath.IsAbs(content) {
		if _, statErr := os.Stat(content); statErr == nil {
			data, err = os.ReadFile(content)
			return data, "", err
		}
	}

	return []byte(content), "", nil
}

func decodeDataURI(uri string) ([]byte, string, error) {
	rest := strings.TrimPrefix(uri, "data:")
	comma := strings.IndexByte(rest, ',')
	if comma < 0 {
		return nil, "", fmt.Errorf("data URI has no payload")
	}

	header, payload := rest[:comma], rest[comma+1:]
	contentType := header
	base64Encoded := false
	if strings.HasSuffix(header, ";base64") {
		base64Encoded = true
		contentType = strings.TrimSuffix(header, ";base64")
	}

	if base64Encoded {
		data, err := base64.StdEncoding.DecodeString(payload)
		if err != nil {
			return nil, "", fmt.Errorf("invalid base64 payload in data URI: %w", err)
		}
		return data, contentType, nil
	}

	decoded, err := url.QueryUnescape(payload)
	if err != nil {
		return nil, "", fmt.Errorf("invalid percent-encoding in data URI: %w", err)
	}
	return []byte(decoded), contentType, nil
}

// resolveContentType picks the MIME type: explicit argument, then the
// type carried by the content source, then the destination extension,
// then content sniffing.
func resolveContentType(explicit, detected, object string, data []byte) string {
	if explicit != "" {
		return explicit
	}
	if detected != "" {
		return detected
	}
	if ext := path.Ext(object); ext != "" {
		if byExt := mime.TypeByExtension(ext); byExt != "" {
			return byExt
		}
	}
	return http.DetectContentType(data)
}
