// Package firebase bundles the Admin SDK handles every tool depends on
// and verifies backend credentials once at startup.
package firebase

import (
	"context"
	"fmt"

	"cloud.google.com/go/firestore"
	gcs "cloud.google.com/go/storage"
	fb "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/auth"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"

	"github.com/firebridge/mcp-server-firebase/pkg/config"
)

// Client owns the process-wide backend handles. It is constructed once
// in main and passed explicitly to the tool constructors; after startup
// it is only ever read.
type Client struct {
	App       *fb.App
	Firestore *firestore.Client
	Auth      *auth.Client

	// Bucket is nil when no storage bucket is configured; storage tools
	// report that as a configuration problem per call.
	Bucket     *gcs.BucketHandle
	BucketName string

	retryAttempts int
}

// New initializes the Admin app and eagerly constructs the Firestore,
// Auth, and Storage handles. Credentials come from
// SERVICE_ACCOUNT_KEY_PATH, falling back to application-default
// credentials when unset.
func New(ctx context.Context, cfg *config.Config) (*Client, error) {
	var opts []option.ClientOption
	if path := cfg.Firebase.ServiceAccountKeyPath; path != "" {
		opts = append(opts, option.WithCredentialsFile(path))
	}

	app, err := fb.NewApp(ctx, &fb.Config{
		ProjectID:     cfg.Firebase.ProjectID,
		StorageBucket: cfg.Firebase.StorageBucket,
	}, opts...)
	if err != nil {
		return nil, fmt.Errorf("initialize firebase app: %w", err)
	}

	fs, err := app.Firestore(ctx)
	if err != nil {
		return nil, fmt.Errorf("initialize firestore client: %w", err)
	}

	authClient, err := app.Auth(ctx)
	if err != nil {
		return nil, fmt.Errorf("initialize auth client: %w", err)
	}

	c := &Client{
		App:           app,
		Firestore:     fs,
		Auth:          authClient,
		retryAttempts: cfg.Calls.RetryAttempts,
	}

	if cfg.Firebase.StorageBucket != "" {
		st, err := app.Storage(ctx)
		if err != nil {
			return nil, fmt.Errorf("initialize storage client: %w", err)
		}
		bucket, err := st.DefaultBucket()
		if err != nil {
			return nil, fmt.Errorf("open storage bucket %q: %w", cfg.Firebase.StorageBucket, err)
		}
		c.Bucket = bucket
		c.BucketName = cfg.Firebase.StorageBucket
	}

	return c, nil
}

// VerifyCredentials performs one cheap authenticated read so that a bad
// service account fails the process at startup instead of on the first
// tool call.
func (c *Client) VerifyCredentials(ctx context.Context) error {
	_, err := c.Firestore.Collections(ctx).Next()
	if err != nil && err != iterator.Done {
		return fmt.Errorf("service account credential check: %w", err)
	}
	return nil
}

// Close releases the underlying clients.
func (c *Client) Close() error {
	return c.Firestore.Close()
}
