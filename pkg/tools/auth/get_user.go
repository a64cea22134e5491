// Package auth exposes Firebase Authentication user lookup as an MCP tool.
package auth

import (
	"context"
	"strings"
	"time"

	fbauth "firebase.google.com/go/v4/auth"
	"github.com/mark3labs/mcp-go/mcp"

	"github.com/firebridge/mcp-server-firebase/core"
	fb "github.com/firebridge/mcp-server-firebase/pkg/firebase"
	"github.com/firebridge/mcp-server-firebase/pkg/tools"
)

// UserLookup is the slice of the Auth client the tool needs.
// *firebase.google.com/go/v4/auth.Client satisfies it.
type UserLookup interface {
	GetUser(ctx context.Context, uid string) (*fbauth.UserRecord, error)
	GetUserByEmail(ctx context.Context, email string) (*fbauth.UserRecord, error)
}

// GetUserTool looks a user up by email or UID. Identifiers containing
// an @ are treated as email addresses, everything else as a UID.
type GetUserTool struct {
	lookup UserLookup
	handle mcp.Tool
}

// Register constructs the auth tools against the given lookup client.
func Register(lookup UserLookup) []core.Tool {
	return []core.Tool{NewGetUserTool(lookup)}
}

func NewGetUserTool(lookup UserLookup) core.Tool {
	t := &GetUserTool{lookup: lookup}
	t.handle = mcp.NewTool(
		"auth_get_user",
		mcp.WithDescription("Get a Firebase Auth user by email or UID. Identifiers containing '@' are looked up as emails."),
		mcp.WithString("identifier", mcp.Required(), mcp.Description("User email address or UID.")),
	)
	return t
}

func (t *GetUserTool) Handle() mcp.Tool {
	return t.handle
}

func (t *GetUserTool) Handler(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	identifier, ok := tools.StringArg(request, "identifier")
	if !ok {
		return tools.Validationf("missing required parameter: identifier"), nil
	}

	var (
		user *fbauth.UserRecord
		err  error
	)
	if strings.Contains(identifier, "@") {
		user, err = t.lookup.GetUserByEmail(ctx, identifier)
	} else {
		user, err = t.lookup.GetUser(ctx, identifier)
	}
	if err != nil {
		return tools.FailureFromError(err), nil
	}

	return tools.Success(userPayload(user)), nil
}

func userPayload(user *fbauth.UserRecord) map[string]any {
	payload := map[string]any{
		"uid":           user.UID,
		"email":         user.Email,
		"emailVerified": user.EmailVerified,
		"disabled":      user.Disabled,
	}
	if user.DisplayName != "" {
		payload["displayName"] = user.DisplayName
	}
	if user.PhotoURL != "" {
		payload["photoUrl"] = user.PhotoURL
	}
	if user.PhoneNumber != "" {
		payload["phoneNumber"] = user.PhoneNumber
	}
	if meta := user.UserMetadata; meta != nil {
		if meta.CreationTimestamp > 0 {
			payload["createdAt"] = fb.FormatTime(time.UnixMilli(meta.CreationTimestamp))
		}
		if meta.LastLogInTimestamp > 0 {
			payload["lastLoginAt"] = fb.FormatTime(time.UnixMilli(meta.LastLogInTimestamp))
		}
	}
	if len(user.CustomClaims) > 0 {
		payload["customClaims"] = user.CustomClaims
	}
	return payload
}
