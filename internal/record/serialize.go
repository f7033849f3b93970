package record

import (
	"encoding/json"
	"fmt"
)

// DefaultMaxPayloadBytes caps serialized args/return payloads so one noisy
// call cannot balloon the database.
const DefaultMaxPayloadBytes = 64 * 1024

const truncationMarker = "...(truncated)"

// SerializeValue renders an arbitrary value for storage. Structured JSON is
// attempted first; values JSON cannot represent (channels, funcs, cycles)
// fall back to their fmt representation. The result is clipped to maxBytes.
// Serialization never fails: the instrumented call must not be disturbed by
// an unrepresentable payload.
func SerializeValue(v any, maxBytes int) string {
	b, err := json.Marshal(v)
	if err != nil {
		return clip(fmt.Sprintf("%+v", v), maxBytes)
	}
	return clip(string(b), maxBytes)
}

// SerializeArgs renders positional arguments as a JSON array. Elements that
// cannot be marshaled individually are replaced by their fmt representation
// so the surrounding array stays structured.
func SerializeArgs(args []any, maxBytes int) string {
	enc := make([]any, len(args))
	for i, a := range args {
		if _, err := json.Marshal(a); err != nil {
			enc[i] = fmt.Sprintf("%+v", a)
		} else {
			enc[i] = a
		}
	}
	b, err := json.Marshal(enc)
	if err != nil {
		return clip(fmt.Sprintf("%+v", args), maxBytes)
	}
	return clip(string(b), maxBytes)
}

// clip bounds a serialized payload. A clipped payload is stored as opaque
// text, not valid JSON.
func clip(s string, maxBytes int) string {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxPayloadBytes
	}
	if len(s) <= maxBytes {
		return s
	}
	return s[:maxBytes] + truncationMarker
}
