package ai

import (
	"bytes"
	"encoding/json"
	"strings"
)

// ExtractJSON pulls the first balanced JSON object or array out of a
// possibly messy model response: markdown fences are stripped and
// surrounding prose ignored. Returns false when nothing parseable is
// found.
func ExtractJSON(raw []byte) (json.RawMessage, bool) {
	s := strings.TrimSpace(string(raw))

	// strip markdown code fences
	if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```json")
		s = strings.TrimPrefix(s, "```")
		if idx := strings.LastIndex(s, "```"); idx >= 0 {
			s = s[:idx]
		}
		s = strings.TrimSpace(s)
	}

	start := strings.IndexAny(s, "{[")
	if start < 0 {
		return nil, false
	}

	candidate := balancedSlice(s[start:])
	if candidate == "" {
		return nil, false
	}

	if !json.Valid([]byte(candidate)) {
		return nil, false
	}
	return json.RawMessage(candidate), true
}

// balancedSlice returns the prefix of s forming one balanced JSON
// value, respecting strings and escapes.
func balancedSlice(s string) string {
	depth := 0
	inString := false
	escaped := false

	for i := 0; i < len(s); i++ {
		c := s[i]

		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}

		switch c {
		case '"':
			inString = true
		case '{', '[':
			depth++
		case '}', ']':
			depth--
			if depth == 0 {
				return s[:i+1]
			}
		}
	}
	return ""
}

// decodeLenient unmarshals a gateway response into out, tolerating
// fences and prose around the payload.
func decodeLenient(raw []byte, out any) error {
	payload, ok := ExtractJSON(raw)
	if !ok {
		return ErrMalformedResponse
	}

	dec := json.NewDecoder(bytes.NewReader(payload))
	return dec.Decode(out)
}
