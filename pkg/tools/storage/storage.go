// Package storage exposes Cloud Storage file management as MCP tools.
package storage

import (
	"context"
	"net/url"
	"strings"
	"time"

	gcs "cloud.google.com/go/storage"
	"github.com/mark3labs/mcp-go/mcp"

	"github.com/firebridge/mcp-server-firebase/core"
	fb "github.com/firebridge/mcp-server-firebase/pkg/firebase"
	"github.com/firebridge/mcp-server-firebase/pkg/tools"
)

const (
	defaultPageSize = 10
	maxPageSize     = 1000

	signedURLTTL = 24 * time.Hour
)

// Register constructs every storage tool against the given client.
func Register(client *fb.Client) []core.Tool {
	return []core.Tool{
		NewListFilesTool(client),
		NewGetFileInfoTool(client),
		NewUploadTool(client),
		NewUploadFromURLTool(client),
	}
}

// requireBucket guards handlers when no storage bucket is configured.
func requireBucket(client *fb.Client) *mcp.CallToolResult {
	if client == nil || client.Bucket == nil {
		return tools.Failure(tools.CategoryUnknown,
			"storage bucket not configured: set FIREBASE_STORAGE_BUCKET", nil)
	}
	return nil
}

// publicURL is the unauthenticated download URL for an object.
func publicURL(bucket, object string) string {
	return "https://storage.googleapis.com/" + bucket + "/" + escapeObject(object)
}

// escapeObject percent-encodes each path segment of an object name while
// keeping the separators readable.
func escapeObject(object string) string {
	segments := strings.Split(object, "/")
	for i, s := range segments {
		segments[i] = url.PathEscape(s)
	}
	return strings.Join(segments, "/")
}

// downloadURL prefers a V4 signed URL; when the credentials cannot sign
// (e.g. application-default credentials without a key) it falls back to
// the public object URL, which works for publicly readable buckets.
func downloadURL(client *fb.Client, object string) string {
	signed, err := client.Bucket.SignedURL(object, &gcs.SignedURLOptions{
		Method:  "GET",
		Expires: time.Now().Add(signedURLTTL),
		Scheme:  gcs.SigningSchemeV4,
	})
	if err != nil {
		return publicURL(client.BucketName, object)
	}
	return signed
}

func attrsPayload(client *fb.Client, attrs *gcs.ObjectAttrs) map[string]any {
	payload := map[string]any{
		"name":        attrs.Name,
		"bucket":      attrs.Bucket,
		"size":        attrs.Size,
		"contentType": attrs.ContentType,
		"created":     fb.FormatTime(attrs.Created),
		"updated":     fb.FormatTime(attrs.Updated),
		"downloadUrl": downloadURL(client, attrs.Name),
	}
	if len(attrs.Metadata) > 0 {
		payload["metadata"] = attrs.Metadata
	}
	return payload
}

// objectAttrs fetches object metadata with the transient-failure retry.
func objectAttrs(ctx context.Context, client *fb.Client, object string) (*gcs.ObjectAttrs, error) {
	var attrs *gcs.ObjectAttrs
	err := client.Retry(ctx, func() error {
		a, err := client.Bucket.Object(object).Attrs(ctx)
		if err != nil {
			return err
		}
		attrs = a
		return nil
	})
	return attrs, err
}
