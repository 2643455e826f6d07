package postgres

import "encoding/json"

// decodeJSONMap decodes a stored JSON object column. Null, empty, or
// malformed values yield an empty map so callers never branch on decode
// failures.
func decodeJSONMap(raw []byte) map[string]any {
	if len(raw) == 0 {
		return map[string]any{}
	}
	var m map[string]any
	if err := json.Unmarshal(raw, &m); err != nil || m == nil {
		return map[string]any{}
	}
	return m
}

// decodeJSONStrings decodes a stored JSON string-array column with the same
// empty-default policy.
func decodeJSONStrings(raw []byte) []string {
	if len(raw) == 0 {
		return []string{}
	}
	var s []string
	if err := json.Unmarshal(raw, &s); err != nil || s == nil {
		return []string{}
	}
	return s
}

// encodeJSON marshals v for a JSON column, falling back to an empty object
// on failure. Marshal errors here would mean a non-serializable domain
// value, which is a programming bug, not request data.
func encodeJSON(v any) []byte {
	if v == nil {
		return []byte("{}")
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return []byte("{}")
	}
	return raw
}
