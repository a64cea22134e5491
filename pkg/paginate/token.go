// Package paginate implements the opaque continuation tokens returned by
// listing tools. A token is a base64url-encoded JSON cursor. The codec
// round-trips cursors faithfully and attaches no meaning to their fields;
// reusing a token with different filter parameters is a caller contract
// the codec does not police.
package paginate

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
)

// ErrBadToken reports a token that is not valid base64url-encoded JSON.
var ErrBadToken = errors.New("malformed page token")

// Cursor is the resume position carried inside a page token. Which
// fields are populated depends on the listing that produced the token.
type Cursor struct {
	// DocPath is the slash-separated path of the last document returned
	// by a Firestore listing or collection-group query.
	DocPath string `json:"d,omitempty"`

	// Offset is the number of entries already returned, used by listings
	// with no native cursor support (collection enumeration).
	Offset int `json:"o,omitempty"`

	// Native wraps a continuation token issued by the backend itself
	// (Cloud Storage object listing).
	Native string `json:"n,omitempty"`
}

// Encode serializes a cursor into an opaque token.
func Encode(c Cursor) (string, error) {
	data, err := json.Marshal(c)
	if err != nil {
		return "", fmt.Errorf("encode page token: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(data), nil
}

// Decode parses a token produced by Encode. Any malformed input,
// including truncated or tampered tokens, yields ErrBadToken.
func Decode(token string) (Cursor, error) {
	if token == "" {
		return Cursor{}, fmt.Errorf("%w: empty token", ErrBadToken)
	}

	data, err := base64.RawURLEncoding.DecodeString(token)
	if err != nil {
		return Cursor{}, fmt.Errorf("%w: %v", ErrBadToken, err)
	}

	var c Cursor
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&c); err != nil {
		return Cursor{}, fmt.Errorf("%w: %v", ErrBadToken, err)
	}
	if dec.More() {
		return Cursor{}, fmt.Errorf("%w: trailing data", ErrBadToken)
	}
	return c, nil
}
