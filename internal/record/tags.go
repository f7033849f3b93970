package record

import (
	"encoding/json"
	"sort"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// NormalizeTags canonicalizes a caller-supplied tag set: NFC normalization,
// surrounding whitespace trimmed, empties dropped, duplicates removed, sorted.
// Normalization happens once at wrap time so that tag filtering in the store
// is exact label equality.
func NormalizeTags(tags []string) []string {
	seen := make(map[string]struct{}, len(tags))
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		t = strings.TrimSpace(norm.NFC.String(t))
		if t == "" {
			continue
		}
		if _, dup := seen[t]; dup {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}

// EncodeStrings serializes a string list as a JSON array for storage.
// Used for both tags and dependency lists. An empty list encodes as "[]" so
// json_each always has a valid document.
func EncodeStrings(list []string) string {
	if len(list) == 0 {
		return "[]"
	}
	b, err := json.Marshal(list)
	if err != nil {
		// Plain strings; Marshal cannot fail on them.
		return "[]"
	}
	return string(b)
}

// DecodeStrings parses a stored JSON array back into a string slice.
// Malformed input yields an empty list rather than an error; the store never
// writes malformed lists, but records may predate this code.
func DecodeStrings(s string) []string {
	if s == "" {
		return nil
	}
	var list []string
	if err := json.Unmarshal([]byte(s), &list); err != nil {
		return nil
	}
	return list
}
