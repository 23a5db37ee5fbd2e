package ai

import (
	"testing"
)

func TestExtractJSONPlain(t *testing.T) {
	raw, ok := ExtractJSON([]byte(`{"score": 0.8}`))
	if !ok {
		t.Fatal("plain object should extract")
	}
	if string(raw) != `{"score": 0.8}` {
		t.Errorf("got %s", raw)
	}
}

func TestExtractJSONFenced(t *testing.T) {
	input := "```json\n{\"flagged\": true}\n```"
	raw, ok := ExtractJSON([]byte(input))
	if !ok {
		t.Fatal("fenced object should extract")
	}
	if string(raw) != `{"flagged": true}` {
		t.Errorf("got %s", raw)
	}
}

func TestExtractJSONSurroundingProse(t *testing.T) {
	input := `Sure! Here is the analysis you asked for: {"moments": [{"start": 1, "end": 2}]} Hope that helps.`
	raw, ok := ExtractJSON([]byte(input))
	if !ok {
		t.Fatal("object inside prose should extract")
	}
	if string(raw) != `{"moments": [{"start": 1, "end": 2}]}` {
		t.Errorf("got %s", raw)
	}
}

func TestExtractJSONArray(t *testing.T) {
	raw, ok := ExtractJSON([]byte(`[1, 2, 3]`))
	if !ok || string(raw) != `[1, 2, 3]` {
		t.Errorf("got %s, %v", raw, ok)
	}
}

func TestExtractJSONBracesInStrings(t *testing.T) {
	input := `{"text": "closing } brace and \" escape", "n": 1}`
	raw, ok := ExtractJSON([]byte(input))
	if !ok {
		t.Fatal("braces inside strings must not end the scan")
	}
	if string(raw) != input {
		t.Errorf("got %s", raw)
	}
}

func TestExtractJSONRejectsGarbage(t *testing.T) {
	for _, input := range []string{
		"",
		"no json here at all",
		`{"unterminated": `,
		"``` ```",
	} {
		if raw, ok := ExtractJSON([]byte(input)); ok {
			t.Errorf("input %q should not extract, got %s", input, raw)
		}
	}
}

func TestDecodeLenient(t *testing.T) {
	var out struct {
		Flagged bool `json:"flagged"`
	}
	err := decodeLenient([]byte("```json\n{\"flagged\": true}\n```"), &out)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !out.Flagged {
		t.Error("flagged not decoded")
	}

	if err := decodeLenient([]byte("nope"), &out); err != ErrMalformedResponse {
		t.Errorf("garbage: got %v, want ErrMalformedResponse", err)
	}
}
