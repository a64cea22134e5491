package firebase

import (
	"encoding/base64"
	"strings"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/genproto/googleapis/type/latlng"
)

// Normalize converts a Firestore value into a JSON-safe one: timestamps
// become RFC3339 UTC strings, byte slices become base64, document
// references become their relative paths, geo points become
// {latitude, longitude}. Maps and slices are recursed. Pure and total.
func Normalize(v any) any {
	switch val := v.(type) {
	case time.Time:
		return FormatTime(val)
	case []byte:
		return base64.StdEncoding.EncodeToString(val)
	case *firestore.DocumentRef:
		if val == nil {
			return nil
		}
		return RelativePath(val.Path)
	case *latlng.LatLng:
		if val == nil {
			return nil
		}
		return map[string]any{
			"latitude":  val.Latitude,
			"longitude": val.Longitude,
		}
	case map[string]any:
		return NormalizeMap(val)
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = Normalize(item)
		}
		return out
	default:
		return v
	}
}

// NormalizeMap applies Normalize to every value of a document data map.
func NormalizeMap(m map[string]any) map[string]any {
	if m == nil {
		return nil
	}
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = Normalize(v)
	}
	return out
}

// FormatTime renders a timestamp the way every tool reports it.
func FormatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

// ParseFilterValue upgrades RFC3339 strings in filter and cursor values
// to time.Time so range comparisons against timestamp fields behave as
// callers expect. Anything else passes through untouched.
func ParseFilterValue(v any) any {
	s, ok := v.(string)
	if !ok {
		return v
	}
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t
	}
	return v
}

// RelativePath trims the projects/<p>/databases/<d>/documents/ prefix
// from a document resource name, yielding the slash-separated path the
// tool surface works with.
func RelativePath(resource string) string {
	const marker = "/documents/"
	if i := strings.Index(resource, marker); i >= 0 {
		return resource[i+len(marker):]
	}
	return resource
}
