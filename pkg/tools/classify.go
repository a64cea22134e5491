package tools

import (
	"context"
	"errors"
	"net"
	"regexp"
	"strings"

	gcs "cloud.google.com/go/storage"
	"firebase.google.com/go/v4/errorutils"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// Category is the error taxonomy every failed tool call reports.
type Category string

const (
	CategoryValidation    Category = "validation"
	CategoryPermission    Category = "permission"
	CategoryIndexRequired Category = "index-required"
	CategoryNetwork       Category = "network"
	CategoryNotFound      Category = "not-found"
	CategoryUnknown       Category = "unknown"
)

// Classified is the outcome of inspecting a backend failure: a category,
// a human-readable message, and category-specific metadata such as the
// console URL for a missing composite index.
type Classified struct {
	Category Category
	Message  string
	Meta     map[string]any
}

var (
	consoleURLRe = regexp.MustCompile(`https://console\.(?:firebase|cloud)\.google\.com/[^\s"']+`)
	credentialRe = regexp.MustCompile(`(?i)\b(api[_-]?key|access[_-]?token|refresh[_-]?token|token|secret|password|authorization|bearer|credential)\b\s*[=:]?\s*(?:bearer\s+)?[^\s,;"']+`)
	privateKeyRe = regexp.MustCompile(`-----BEGIN[A-Z ]*PRIVATE KEY-----[\s\S]*?-----END[A-Z ]*PRIVATE KEY-----`)
)

// Classify maps a failure surfaced by a Firebase SDK call onto the error
// taxonomy. It is total: any error value, including nil, produces a
// Classified rather than a panic. Argument-shape failures never reach
// this function; the dispatch table reports those as validation errors
// before any backend call is made.
func Classify(err error) Classified {
	if err == nil {
		return Classified{Category: CategoryUnknown, Message: "unknown error"}
	}

	msg := err.Error()

	// Missing composite index. Firestore reports these as failed
	// preconditions whose message carries the index-creation URL.
	if isIndexError(err, msg) {
		c := Classified{
			Category: CategoryIndexRequired,
			Message:  "this query requires a composite index",
		}
		if url := consoleURLRe.FindString(msg); url != "" {
			c.Meta = map[string]any{"indexUrl": url}
		}
		return c
	}

	if isCode(err, codes.PermissionDenied) || isCode(err, codes.Unauthenticated) ||
		errorutils.IsPermissionDenied(err) || errorutils.IsUnauthenticated(err) {
		return Classified{Category: CategoryPermission, Message: "permission denied: " + Sanitize(msg)}
	}

	if isCode(err, codes.NotFound) || errorutils.IsNotFound(err) ||
		errors.Is(err, gcs.ErrObjectNotExist) || errors.Is(err, gcs.ErrBucketNotExist) {
		return Classified{Category: CategoryNotFound, Message: "not found: " + Sanitize(msg)}
	}

	if isNetworkError(err) {
		return Classified{Category: CategoryNetwork, Message: "backend unreachable or timed out: " + Sanitize(msg)}
	}

	return Classified{Category: CategoryUnknown, Message: Sanitize(msg)}
}

func isIndexError(err error, msg string) bool {
	precondition := isCode(err, codes.FailedPrecondition) || errorutils.IsFailedPrecondition(err)
	return precondition && strings.Contains(strings.ToLower(msg), "index")
}

func isNetworkError(err error) bool {
	if isCode(err, codes.Unavailable) || isCode(err, codes.DeadlineExceeded) ||
		errorutils.IsUnavailable(err) || errorutils.IsDeadlineExceeded(err) {
		return true
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr)
}

func isCode(err error, code codes.Code) bool {
	st, ok := status.FromError(err)
	return ok && st.Code() == code
}

// Sanitize strips credential-shaped material from a message before it is
// shown to the caller.
func Sanitize(msg string) string {
	msg = privateKeyRe.ReplaceAllString(msg, "[REDACTED]")
	msg = credentialRe.ReplaceAllString(msg, "$1=[REDACTED]")
	return msg
}
