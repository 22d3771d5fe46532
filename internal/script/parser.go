package script

import (
	"encoding/json"
	"strings"
)

// Parse interprets raw model output as the value of the named field. When
// the text is a JSON object carrying a key equal to the field name, the
// nested value is returned; any other valid JSON value is returned whole.
// Text that is not JSON at all comes back trimmed as-is, with ok=false so
// the caller can log the degradation. Parse never fails the call.
func Parse(raw, field string) (value any, ok bool) {
	cleaned := stripFences(strings.TrimSpace(raw))

	var v any
	if err := json.Unmarshal([]byte(cleaned), &v); err != nil {
		return strings.TrimSpace(raw), false
	}

	if obj, isObj := v.(map[string]any); isObj {
		if nested, has := obj[field]; has {
			return nested, true
		}
	}
	return v, true
}

// stripFences removes a surrounding markdown code fence, which several
// providers add around JSON answers.
func stripFences(s string) string {
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
