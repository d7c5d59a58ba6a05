package feedback

import (
	"strings"
	"testing"
)

func validCandidate() map[string]any {
	return map[string]any{
		"sentiment":    "negative",
		"urgency":      "high",
		"value_impact": "high",
		"themes":       []any{"auth", "outage"},
		"summary":      "Login broken for most users.",
	}
}

func TestNormalize_Valid(t *testing.T) {
	t.Parallel()

	a := Normalize(validCandidate())
	if a == nil {
		t.Fatal("expected analysis, got nil")
	}
	if a.Sentiment != SentimentNegative {
		t.Errorf("Sentiment = %q, want negative", a.Sentiment)
	}
	if a.Urgency != LevelHigh {
		t.Errorf("Urgency = %q, want high", a.Urgency)
	}
	if a.ValueImpact != LevelHigh {
		t.Errorf("ValueImpact = %q, want high", a.ValueImpact)
	}
	if len(a.Themes) != 2 || a.Themes[0] != "auth" || a.Themes[1] != "outage" {
		t.Errorf("Themes = %v, want [auth outage]", a.Themes)
	}
	if a.Summary != "Login broken for most users." {
		t.Errorf("Summary = %q", a.Summary)
	}
}

func TestNormalize_NilCandidate(t *testing.T) {
	t.Parallel()

	if a := Normalize(nil); a != nil {
		t.Fatalf("Normalize(nil) = %v, want nil", a)
	}
}

func TestNormalize_Rejections(t *testing.T) {
	t.Parallel()

	mutations := map[string]func(map[string]any){
		"missing sentiment":        func(c map[string]any) { delete(c, "sentiment") },
		"sentiment out of enum":    func(c map[string]any) { c["sentiment"] = "angry" },
		"sentiment wrong case":     func(c map[string]any) { c["sentiment"] = "Negative" },
		"sentiment wrong type":     func(c map[string]any) { c["sentiment"] = 3 },
		"missing urgency":          func(c map[string]any) { delete(c, "urgency") },
		"urgency out of enum":      func(c map[string]any) { c["urgency"] = "critical" },
		"missing value impact":     func(c map[string]any) { delete(c, "value_impact") },
		"value impact out of enum": func(c map[string]any) { c["value_impact"] = "huge" },
		"missing themes":           func(c map[string]any) { delete(c, "themes") },
		"themes not an array":      func(c map[string]any) { c["themes"] = "auth" },
		"non-string theme":         func(c map[string]any) { c["themes"] = []any{"auth", 42} },
		"missing summary":          func(c map[string]any) { delete(c, "summary") },
		"summary wrong type":       func(c map[string]any) { c["summary"] = 7 },
		"summary blank":            func(c map[string]any) { c["summary"] = "   \n\t" },
	}

	for name, mutate := range mutations {
		c := validCandidate()
		mutate(c)
		if a := Normalize(c); a != nil {
			t.Errorf("%s: expected nil, got %+v", name, a)
		}
	}
}

func TestNormalize_ValueImpactFallbackKeys(t *testing.T) {
	t.Parallel()

	for _, key := range []string{"valueImpact", "value"} {
		c := validCandidate()
		delete(c, "value_impact")
		c[key] = "medium"

		a := Normalize(c)
		if a == nil {
			t.Fatalf("key %q: expected analysis, got nil", key)
		}
		if a.ValueImpact != LevelMedium {
			t.Errorf("key %q: ValueImpact = %q, want medium", key, a.ValueImpact)
		}
	}
}

func TestNormalize_PrimaryKeyWinsOverFallback(t *testing.T) {
	t.Parallel()

	c := validCandidate()
	c["value_impact"] = "low"
	c["valueImpact"] = "high"

	a := Normalize(c)
	if a == nil {
		t.Fatal("expected analysis, got nil")
	}
	if a.ValueImpact != LevelLow {
		t.Errorf("ValueImpact = %q, want low (primary key)", a.ValueImpact)
	}
}

func TestNormalize_ClampsThemes(t *testing.T) {
	t.Parallel()

	c := validCandidate()
	c["themes"] = []any{
		" padded ", "", "  ", strings.Repeat("x", 100),
		"a", "b", "c", "d", "e", "f",
	}

	a := Normalize(c)
	if a == nil {
		t.Fatal("expected analysis, got nil")
	}
	if len(a.Themes) != MaxThemes {
		t.Fatalf("len(Themes) = %d, want %d", len(a.Themes), MaxThemes)
	}
	if a.Themes[0] != "padded" {
		t.Errorf("Themes[0] = %q, want trimmed %q", a.Themes[0], "padded")
	}
	for i, th := range a.Themes {
		if len([]rune(th)) > MaxThemeLen {
			t.Errorf("Themes[%d] length %d exceeds %d", i, len([]rune(th)), MaxThemeLen)
		}
	}
}

func TestNormalize_EmptyThemesAllowed(t *testing.T) {
	t.Parallel()

	c := validCandidate()
	c["themes"] = []any{}

	a := Normalize(c)
	if a == nil {
		t.Fatal("expected analysis, got nil")
	}
	if len(a.Themes) != 0 {
		t.Errorf("Themes = %v, want empty", a.Themes)
	}
}

func TestNormalize_ClampsSummary(t *testing.T) {
	t.Parallel()

	c := validCandidate()
	c["summary"] = "  " + strings.Repeat("s", 500) + "  "

	a := Normalize(c)
	if a == nil {
		t.Fatal("expected analysis, got nil")
	}
	if len([]rune(a.Summary)) != MaxSummaryLen {
		t.Errorf("summary length = %d, want %d", len([]rune(a.Summary)), MaxSummaryLen)
	}
}

func TestNormalize_EndToEndFromExtract(t *testing.T) {
	t.Parallel()

	raw := "Sure! ```json\n{\"sentiment\":\"negative\",\"urgency\":\"high\",\"value_impact\":\"high\",\"themes\":[\"auth\",\"outage\"],\"summary\":\"Login broken for most users.\"}\n```"
	a := Normalize(ExtractObject(raw))
	if a == nil {
		t.Fatal("expected analysis from fenced model reply")
	}
	if a.Urgency != LevelHigh || len(a.Themes) != 2 {
		t.Errorf("unexpected analysis: %+v", a)
	}
}
