package storage

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/firebridge/mcp-server-firebase/core"
	fb "github.com/firebridge/mcp-server-firebase/pkg/firebase"
)

func request(name string, args map[string]any) mcp.CallToolRequest {
	req := mcp.CallToolRequest{}
	req.Params.Name = name
	req.Params.Arguments = args
	return req
}

func category(t *testing.T, res *mcp.CallToolResult) string {
	t.Helper()
	require.NotNil(t, res)
	require.NotEmpty(t, res.Content)
	tc, ok := res.Content[0].(mcp.TextContent)
	require.True(t, ok)
	var body map[string]any
	require.NoError(t, json.Unmarshal([]byte(tc.Text), &body))
	cat, _ := body["category"].(string)
	return cat
}

func TestRegisterExposesAllStorageTools(t *testing.T) {
	reg := Register(&fb.Client{})

	names := make([]string, 0, len(reg))
	for _, tool := range reg {
		names = append(names, tool.Handle().Name)
	}

	assert.ElementsMatch(t, []string{
		"storage_list_files",
		"storage_get_file_info",
		"storage_upload",
		"storage_upload_from_url",
	}, names)
}

func TestHandlersRejectMissingArguments(t *testing.T) {
	client := &fb.Client{}

	tests := []struct {
		tool core.Tool
		args map[string]any
	}{
		{NewGetFileInfoTool(client), nil},
		{NewUploadTool(client), nil},
		{NewUploadTool(client), map[string]any{"filePath": "notes/a.txt"}},
		{NewUploadFromURLTool(client), map[string]any{"filePath": "notes/a.txt"}},
		{NewUploadFromURLTool(client), map[string]any{"filePath": "a", "url": "ftp://host/file"}},
	}

	for _, tt := range tests {
		name := tt.tool.Handle().Name
		t.Run(name, func(t *testing.T) {
			res, err := tt.tool.Handler(context.Background(), request(name, tt.args))
			require.NoError(t, err)
			assert.True(t, res.IsError)
			assert.Equal(t, "validation", category(t, res))
		})
	}
}

func TestHandlersReportMissingBucket(t *testing.T) {
	client := &fb.Client{} // no bucket configured

	res, err := NewListFilesTool(client).Handler(context.Background(),
		request("storage_list_files", nil))
	require.NoError(t, err)
	assert.True(t, res.IsError)

	res, err = NewUploadTool(client).Handler(context.Background(),
		request("storage_upload", map[string]any{"filePath": "a.txt", "content": "hello"}))
	require.NoError(t, err)
	assert.True(t, res.IsError)
}

func TestResolveContent(t *testing.T) {
	t.Run("base64 data URI", func(t *testing.T) {
		data, ctype, err := resolveContent("data:text/plain;base64,aGVsbG8=")
		require.NoError(t, err)
		assert.Equal(t, []byte("hello"), data)
		assert.Equal(t, "text/plain", ctype)
	})

	t.Run("textual data URI", func(t *testing.T) {
		data, ctype, err := resolveContent("data:text/plain,hello%20world")
		require.NoError(t, err)
		assert.Equal(t, []byte("hello world"), data)
		assert.Equal(t, "text/plain", ctype)
	})

	t.Run("invalid base64 payload", func(t *testing.T) {
		_, _, err := resolveContent("data:text/plain;base64,@@@")
		assert.Error(t, err)
	})

	t.Run("data URI without payload", func(t *testing.T) {
		_, _, err := resolveContent("data:text/plain")
		assert.Error(t, err)
	})

	t.Run("existing local file", func(t *testing.T) {
		p := filepath.Join(t.TempDir(), "note.txt")
		require.NoError(t, os.WriteFile(p, []byte("from disk"), 0o644))

		data, ctype, err := resolveContent(p)
		require.NoError(t, err)
		assert.Equal(t, []byte("from disk"), data)
		assert.Empty(t, ctype)
	})

	t.Run("absolute path that does not exist is literal text", func(t *testing.T) {
		data, _, err := resolveContent("/no/such/file/anywhere")
		require.NoError(t, err)
		assert.Equal(t, []byte("/no/such/file/anywhere"), data)
	})

	t.Run("plain text", func(t *testing.T) {
		data, ctype, err := resolveContent("hello")
		require.NoError(t, err)
		assert.Equal(t, []byte("hello"), data)
		assert.Empty(t, ctype)
	})
}

func TestResolveContentType(t *testing.T) {
	assert.Equal(t, "application/json", resolveContentType("application/json", "text/plain", "a.txt", nil))
	assert.Equal(t, "text/plain", resolveContentType("", "text/plain", "a.bin", nil))
	assert.Contains(t, resolveContentType("", "", "a.html", nil), "text/html")
	assert.Equal(t, "application/pdf", resolveContentType("", "", "doc", []byte("%PDF-1.4")))
}

func TestObjectURLs(t *testing.T) {
	assert.Equal(t,
		"https://storage.googleapis.com/demo.appspot.com/notes/a.txt",
		publicURL("demo.appspot.com", "notes/a.txt"))

	assert.Equal(t,
		"https://storage.googleapis.com/demo.appspot.com/notes/a%20b.txt",
		publicURL("demo.appspot.com", "notes/a b.txt"))
}

func TestFetchSource(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/ok":
			w.Header().Set("Content-Type", "text/plain")
			_, _ = w.Write([]byte("payload"))
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	t.Run("success", func(t *testing.T) {
		data, ctype, fail := fetchSource(context.Background(), srv.URL+"/ok")
		require.Nil(t, fail)
		assert.Equal(t, []byte("payload"), data)
		assert.Equal(t, "text/plain", ctype)
	})

	t.Run("non-2xx status", func(t *testing.T) {
		_, _, fail := fetchSource(context.Background(), srv.URL+"/missing")
		require.NotNil(t, fail)
		assert.True(t, fail.IsError)
		assert.Equal(t, "network", category(t, fail))
	})
}
