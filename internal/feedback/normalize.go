package feedback

import "strings"

// valueImpactKeys are the key spellings accepted for the value-impact field,
// in lookup order. Model output has been observed to drift between these
// across prompt and model versions, so the tolerant read stays.
var valueImpactKeys = []string{"value_impact", "valueImpact", "value"}

// Normalize validates a candidate object extracted from model text and
// coerces it into an Analysis. The shape is checked strictly (exact enum
// values, string-only theme arrays, non-blank summary); values inside a valid
// shape are clamped to the field limits rather than rejected. Any structural
// failure returns nil.
func Normalize(candidate map[string]any) *Analysis {
	if candidate == nil {
		return nil
	}

	sentiment, ok := candidate["sentiment"].(string)
	if !ok || !validSentiment(sentiment) {
		return nil
	}

	urgency, ok := candidate["urgency"].(string)
	if !ok || !validLevel(urgency) {
		return nil
	}

	impact, ok := valueImpactField(candidate)
	if !ok || !validLevel(impact) {
		return nil
	}

	rawThemes, ok := candidate["themes"].([]any)
	if !ok {
		return nil
	}
	themes := make([]string, 0, len(rawThemes))
	for _, el := range rawThemes {
		s, ok := el.(string)
		if !ok {
			// one bad element invalidates the whole candidate
			return nil
		}
		themes = append(themes, s)
	}

	summary, ok := candidate["summary"].(string)
	if !ok || strings.TrimSpace(summary) == "" {
		return nil
	}

	return &Analysis{
		Sentiment:   Sentiment(sentiment),
		Urgency:     Level(urgency),
		ValueImpact: Level(impact),
		Themes:      clampThemes(themes),
		Summary:     truncate(strings.TrimSpace(summary), MaxSummaryLen),
	}
}

func valueImpactField(candidate map[string]any) (string, bool) {
	for _, key := range valueImpactKeys {
		if v, present := candidate[key]; present {
			s, ok := v.(string)
			return s, ok
		}
	}
	return "", false
}

func clampThemes(themes []string) []string {
	out := make([]string, 0, len(themes))
	for _, t := range themes {
		t = strings.TrimSpace(t)
		if t == "" {
			continue
		}
		out = append(out, truncate(t, MaxThemeLen))
		if len(out) == MaxThemes {
			break
		}
	}
	return out
}

func truncate(s string, limit int) string {
	r := []rune(s)
	if len(r) <= limit {
		return s
	}
	return string(r[:limit])
}
