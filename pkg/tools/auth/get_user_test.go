package auth

import (
	"context"
	"encoding/json"
	"testing"

	fbauth "firebase.google.com/go/v4/auth"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// fakeLookup records which lookup path a request took.
type fakeLookup struct {
	byUID   []string
	byEmail []string
	user    *fbauth.UserRecord
	err     error
}

func (f *fakeLookup) GetUser(ctx context.Context, uid string) (*fbauth.UserRecord, error) {
	f.byUID = append(f.byUID, uid)
	return f.user, f.err
}

func (f *fakeLookup) GetUserByEmail(ctx context.Context, email string) (*fbauth.UserRecord, error) {
	f.byEmail = append(f.byEmail, email)
	return f.user, f.err
}

func request(args map[string]any) mcp.CallToolRequest {
	req := mcp.CallToolRequest{}
	req.Params.Name = "auth_get_user"
	req.Params.Arguments = args
	return req
}

func payloadOf(t *testing.T, res *mcp.CallToolResult) map[string]any {
	t.Helper()
	require.NotNil(t, res)
	require.NotEmpty(t, res.Content)
	tc, ok := res.Content[0].(mcp.TextContent)
	require.True(t, ok)
	var body map[string]any
	require.NoError(t, json.Unmarshal([]byte(tc.Text), &body))
	return body
}

func testUser() *fbauth.UserRecord {
	return &fbauth.UserRecord{
		UserInfo: &fbauth.UserInfo{
			UID:         "uid-1",
			Email:       "ada@example.com",
			DisplayName: "Ada",
		},
		EmailVerified: true,
		UserMetadata: &fbauth.UserMetadata{
			CreationTimestamp:  1700000000000,
			LastLogInTimestamp: 1700000100000,
		},
	}
}

func TestEmailIdentifiersUseEmailLookup(t *testing.T) {
	lookup := &fakeLookup{user: testUser()}
	tool := NewGetUserTool(lookup)

	res, err := tool.Handler(context.Background(), request(map[string]any{
		"identifier": "ada@example.com",
	}))
	require.NoError(t, err)

	assert.False(t, res.IsError)
	assert.Equal(t, []string{"ada@example.com"}, lookup.byEmail)
	assert.Empty(t, lookup.byUID)

	payload := payloadOf(t, res)
	assert.Equal(t, "uid-1", payload["uid"])
	assert.Equal(t, "Ada", payload["displayName"])
	assert.Equal(t, true, payload["emailVerified"])
	assert.NotEmpty(t, payload["createdAt"])
	assert.NotEmpty(t, payload["lastLoginAt"])
}

func TestPlainIdentifiersUseUIDLookup(t *testing.T) {
	lookup := &fakeLookup{user: testUser()}
	tool := NewGetUserTool(lookup)

	res, err := tool.Handler(context.Background(), request(map[string]any{
		"identifier": "uid-1",
	}))
	require.NoError(t, err)

	assert.False(t, res.IsError)
	assert.Equal(t, []string{"uid-1"}, lookup.byUID)
	assert.Empty(t, lookup.byEmail)
}

func TestMissingIdentifierIsValidation(t *testing.T) {
	lookup := &fakeLookup{user: testUser()}
	tool := NewGetUserTool(lookup)

	res, err := tool.Handler(context.Background(), request(nil))
	require.NoError(t, err)

	assert.True(t, res.IsError)
	assert.Equal(t, "validation", payloadOf(t, res)["category"])
	assert.Empty(t, lookup.byUID)
	assert.Empty(t, lookup.byEmail)
}

func TestLookupFailureIsClassified(t *testing.T) {
	lookup := &fakeLookup{err: status.Error(codes.NotFound, "no user record")}
	tool := NewGetUserTool(lookup)

	res, err := tool.Handler(context.Background(), request(map[string]any{
		"identifier": "ghost",
	}))
	require.NoError(t, err)

	assert.True(t, res.IsError)
	assert.Equal(t, "not-found", payloadOf(t, res)["category"])
}
