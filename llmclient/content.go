package llmclient

import (
	"encoding/json"
	"strings"
)

// FlattenRaw normalizes a raw JSON message content field to a plain string.
// Backends disagree on the content shape: most return a string, some return
// an array of typed parts. Downstream routing does substring checks on the
// result, so this must be total and never fail.
func FlattenRaw(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	var parts []interface{}
	if err := json.Unmarshal(raw, &parts); err == nil {
		return flattenParts(parts)
	}
	var v interface{}
	if err := json.Unmarshal(raw, &v); err == nil {
		return Flatten(v)
	}
	return string(raw)
}

// Flatten normalizes any decoded content value to a plain string: strings
// pass through, arrays join with single spaces, everything else is
// JSON-serialized.
func Flatten(v interface{}) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case []interface{}:
		return flattenParts(t)
	default:
		b, err := json.Marshal(t)
		if err != nil {
			return ""
		}
		return string(b)
	}
}

func flattenParts(parts []interface{}) string {
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if s, ok := p.(string); ok {
			out = append(out, s)
			continue
		}
		b, err := json.Marshal(p)
		if err != nil {
			continue
		}
		out = append(out, string(b))
	}
	return strings.Join(out, " ")
}
