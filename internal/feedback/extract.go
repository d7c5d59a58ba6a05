package feedback

import (
	"encoding/json"
	"strings"
)

// ExtractObject pulls a JSON object out of raw model text. Models frequently
// wrap their answer in prose or code fences, so after a failed direct parse
// the substring between the first '{' and the last '}' is tried. A miss
// yields nil - it is a recoverable signal, not an error. No repair beyond
// substring slicing is attempted.
func ExtractObject(raw string) map[string]any {
	s := strings.TrimSpace(raw)
	if s == "" {
		return nil
	}

	if strings.HasPrefix(s, "{") && strings.HasSuffix(s, "}") {
		if obj := parseObject(s); obj != nil {
			return obj
		}
	}

	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start < 0 || end <= start {
		return nil
	}
	return parseObject(s[start : end+1])
}

func parseObject(s string) map[string]any {
	var obj map[string]any
	if err := json.Unmarshal([]byte(s), &obj); err != nil {
		return nil
	}
	return obj
}
