package script

import (
	"encoding/json"
	"log/slog"
	"strings"
)

// ResolveVariant matches the classification answer against the known
// variants, case-insensitively. Anything unmatched degrades to the topic
// variant with one log entry; classification never fails the call.
func ResolveVariant(log *slog.Logger, answer string) Variant {
	cleaned := strings.Trim(strings.TrimSpace(answer), "\"'`")

	for _, v := range Variants() {
		if strings.EqualFold(cleaned, string(v)) {
			return v
		}
	}

	log.Warn("Unrecognized video type, defaulting to topic", "answer", cleaned)
	return VariantTopic
}

// unwrapType pulls the "type" key out of a JSON-object classification
// answer, for backends that return the classification wrapped in a
// structured object. Non-object or keyless answers pass through.
func unwrapType(raw string) string {
	var wrapped struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal([]byte(stripFences(strings.TrimSpace(raw))), &wrapped); err != nil {
		return raw
	}
	if wrapped.Type == "" {
		return raw
	}
	return wrapped.Type
}
