package storage

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/firebridge/mcp-server-firebase/core"
	fb "github.com/firebridge/mcp-server-firebase/pkg/firebase"
	"github.com/firebridge/mcp-server-firebase/pkg/tools"
)

// fetchClient is the HTTP client used to pull source URLs. Package-level
// so tests can point it at a local server.
var fetchClient = &http.Client{Timeout: 60 * time.Second}

const maxFetchBytes = 100 << 20 // refuse sources larger than 100 MiB

// UploadFromURLTool fetches a remote URL and stores its body as an
// object.
type UploadFromURLTool struct {
	client *fb.Client
	handle mcp.Tool
}

func NewUploadFromURLTool(client *fb.Client) core.Tool {
	t := &UploadFromURLTool{client: client}
	t.handle = mcp.NewTool(
		"storage_upload_from_url",
		mcp.WithDescription("Download a file from a URL and upload it to the storage bucket."),
		mcp.WithString("filePath", mcp.Required(), mcp.Description("Destination object path, e.g. 'images/logo.png'.")),
		mcp.WithString("url", mcp.Required(), mcp.Description("Source URL, http or https.")),
		mcp.WithString("contentType", mcp.Description("Optional MIME type; taken from the response when omitted.")),
		tools.WithObject("metadata", mcp.Description("Optional custom metadata, string values only.")),
	)
	return t
}

func (t *UploadFromURLTool) Handle() mcp.Tool {
	return t.handle
}

func (t *UploadFromURLTool) Handler(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	filePath, ok := tools.StringArg(request, "filePath")
	if !ok {
		return tools.Validationf("missing required parameter: filePath"), nil
	}
	sourceURL, ok := tools.StringArg(request, "url")
	if !ok {
		return tools.Validationf("missing required parameter: url"), nil
	}
	if fail := validateSourceURL(sourceURL); fail != nil {
		return fail, nil
	}
	if fail := requireBucket(t.client); fail != nil {
		return fail, nil
	}

	data, headerType, fail := fetchSource(ctx, sourceURL)
	if fail != nil {
		return fail, nil
	}

	contentType := resolveContentType(
		tools.OptionalString(request, "contentType"),
		headerType,
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

	payload := attrsPayload(t.client, attrs)
	payload["sourceUrl"] = sourceURL
	return tools.Success(payload), nil
}

func validateSourceURL(raw string) *mcp.CallToolResult {
	u, err := url.Parse(raw)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return tools.Validationf("url must be a valid http or https URL")
	}
	return nil
}

func fetchSource(ctx context.Context, sourceURL string) ([]byte, string, *mcp.CallToolResult) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, sourceURL, nil)
	if err != nil {
		return nil, "", tools.Validationf("url must be a valid http or https URL")
	}

	resp, err := fetchClient.Do(req)
	if err != nil {
		return nil, "", tools.Failure(tools.CategoryNetwork,
			fmt.Sprintf("failed to fetch source URL: %v", err), nil)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, "", tools.Failure(tools.CategoryNetwork,
			fmt.Sprintf("source URL returned status %d", resp.StatusCode), nil)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxFetchBytes+1))
	if err != nil {
		return nil, "", tools.Failure(tools.CategoryNetwork,
			fmt.Sprintf("failed to read source URL body: %v", err), nil)
	}
	if len(data) > maxFetchBytes {
		return nil, "", tools.Validationf("source is larger than the %d byte upload limit", maxFetchBytes)
	}

	return data, resp.Header.Get("Content-Type"), nil
}
