package core

import (
	"bytes"
	"encoding/json"
)

// rawScalar returns the text of a JSON scalar that may be encoded either as a
// number or as a string. The second result is false for absent or null values.
func rawScalar(raw json.RawMessage) (string, bool) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return "", false
	}
	if trimmed[0] == '"' {
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return "", false
		}
		return s, true
	}
	return string(trimmed), true
}
