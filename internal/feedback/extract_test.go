package feedback

import (
	"encoding/json"
	"reflect"
	"testing"
)

func TestExtractObject_DirectJSON(t *testing.T) {
	t.Parallel()

	obj := ExtractObject(`{"sentiment":"negative","urgency":"high"}`)
	if obj == nil {
		t.Fatal("expected object, got nil")
	}
	if obj["sentiment"] != "negative" {
		t.Errorf("sentiment = %v, want negative", obj["sentiment"])
	}
}

func TestExtractObject_LeadingWhitespace(t *testing.T) {
	t.Parallel()

	obj := ExtractObject("\n\n  {\"summary\":\"ok\"}  \n")
	if obj == nil {
		t.Fatal("expected object, got nil")
	}
	if obj["summary"] != "ok" {
		t.Errorf("summary = %v, want ok", obj["summary"])
	}
}

func TestExtractObject_CodeFence(t *testing.T) {
	t.Parallel()

	raw := "Sure! ```json\n{\"sentiment\":\"positive\",\"themes\":[\"ui\"]}\n```"
	obj := ExtractObject(raw)
	if obj == nil {
		t.Fatal("expected object from fenced response, got nil")
	}
	if obj["sentiment"] != "positive" {
		t.Errorf("sentiment = %v, want positive", obj["sentiment"])
	}
}

func TestExtractObject_ProseWrapped(t *testing.T) {
	t.Parallel()

	raw := `Here is my analysis: {"urgency":"low"} hope that helps.`
	obj := ExtractObject(raw)
	if obj == nil {
		t.Fatal("expected object from prose-wrapped response, got nil")
	}
	if obj["urgency"] != "low" {
		t.Errorf("urgency = %v, want low", obj["urgency"])
	}
}

func TestExtractObject_Misses(t *testing.T) {
	t.Parallel()

	cases := map[string]string{
		"empty":          "",
		"no braces":      "I cannot answer that.",
		"only open":      "here { we go",
		"reversed":       "} nope {",
		"invalid inside": "{not json}",
		"json array":     `["a","b"]`,
		"json null":      `null`,
	}
	for name, raw := range cases {
		if obj := ExtractObject(raw); obj != nil {
			t.Errorf("%s: ExtractObject(%q) = %v, want nil", name, raw, obj)
		}
	}
}

// Extraction is idempotent: re-extracting the serialization of a successful
// extraction yields the same object.
func TestExtractObject_Idempotent(t *testing.T) {
	t.Parallel()

	raw := "noise before {\"sentiment\":\"neutral\",\"themes\":[\"a\",\"b\"],\"summary\":\"s\"} noise after"
	first := ExtractObject(raw)
	if first == nil {
		t.Fatal("first extraction failed")
	}

	serialized, err := json.Marshal(first)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	second := ExtractObject(string(serialized))
	if second == nil {
		t.Fatal("second extraction failed")
	}
	if !reflect.DeepEqual(first, second) {
		t.Errorf("extraction not idempotent: %v != %v", first, second)
	}
}
