package slack

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/Damilola24434/feedback-triage/internal/feedback"
)

func sampleItem() *feedback.Item {
	return &feedback.Item{
		ID:     42,
		Source: "GitHub",
		Text:   "Login returns 500 for most users",
		Analysis: &feedback.Analysis{
			Sentiment:   feedback.SentimentNegative,
			Urgency:     feedback.LevelHigh,
			ValueImpact: feedback.LevelHigh,
			Themes:      []string{"auth", "outage"},
			Summary:     "Login broken for most users.",
		},
	}
}

func TestFeedbackTriaged_PostsToWebhook(t *testing.T) {
	t.Parallel()

	var got map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Content-Type") != "application/json" {
			t.Errorf("content-type = %q, want application/json", r.Header.Get("Content-Type"))
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Fatalf("decode body: %v", err)
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	n := New(srv.URL)
	if err := n.FeedbackTriaged(context.Background(), sampleItem()); err != nil {
		t.Fatalf("FeedbackTriaged: %v", err)
	}

	blocks, ok := got["blocks"].([]any)
	if !ok {
		t.Fatal("expected blocks array in payload")
	}
	// header, divider, fields, summary = 4 blocks
	if len(blocks) != 4 {
		t.Fatalf("blocks count = %d, want 4", len(blocks))
	}

	header := blocks[0].(map[string]any)
	headerText := header["text"].(map[string]any)["text"].(string)
	if !strings.Contains(headerText, "#42") {
		t.Errorf("header text = %q, want to contain the item id", headerText)
	}

	fields := blocks[2].(map[string]any)["fields"].([]any)
	var joined strings.Builder
	for _, f := range fields {
		joined.WriteString(f.(map[string]any)["text"].(string))
		joined.WriteString("\n")
	}
	for _, want := range []string{"GitHub", "negative", "auth, outage"} {
		if !strings.Contains(joined.String(), want) {
			t.Errorf("fields missing %q:\n%s", want, joined.String())
		}
	}

	summary := blocks[3].(map[string]any)["text"].(map[string]any)["text"].(string)
	if !strings.Contains(summary, "Login broken for most users.") {
		t.Errorf("summary section = %q", summary)
	}
}

func TestFeedbackTriaged_NoOpWithoutURL(t *testing.T) {
	t.Parallel()

	n := New("")
	if err := n.FeedbackTriaged(context.Background(), sampleItem()); err != nil {
		t.Fatalf("send with empty URL should be no-op, got: %v", err)
	}
}

func TestFeedbackTriaged_NonOKStatus(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte("internal error"))
	}))
	defer srv.Close()

	n := New(srv.URL)
	err := n.FeedbackTriaged(context.Background(), sampleItem())
	if err == nil {
		t.Fatal("expected error on non-OK status")
	}
	if !strings.Contains(err.Error(), "500") {
		t.Errorf("error = %q, want to contain status code 500", err.Error())
	}
}

func TestThemeLine(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		themes []string
		want   string
	}{
		{"none", nil, "-"},
		{"empty", []string{}, "-"},
		{"one", []string{"auth"}, "auth"},
		{"many", []string{"auth", "outage"}, "auth, outage"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := themeLine(tt.themes); got != tt.want {
				t.Errorf("themeLine(%v) = %q, want %q", tt.themes, got, tt.want)
			}
		})
	}
}

func FuzzBuildMessage(f *testing.F) {
	f.Add("GitHub", "negative", "high", "Login broken.", "auth")
	f.Add("", "", "", "", "")
	f.Add("<@U123> mention", "positive", "low", "*bold* _italic_ ~strike~", "ui")
	f.Add("src\x00\x01", "sev\nline", "imp\ttab", strings.Repeat("x", 5000), "t\x00heme")

	f.Fuzz(func(t *testing.T, source, sentiment, impact, summary, theme string) {
		item := &feedback.Item{
			ID:     1,
			Source: source,
			Analysis: &feedback.Analysis{
				Sentiment:   feedback.Sentiment(sentiment),
				Urgency:     feedback.LevelHigh,
				ValueImpact: feedback.Level(impact),
				Themes:      []string{theme},
				Summary:     summary,
			},
		}

		// Must not panic
		msg := buildMessage(item)

		// Must produce valid JSON
		data, err := json.Marshal(msg)
		if err != nil {
			t.Fatalf("buildMessage produced non-marshalable output: %v", err)
		}

		var decoded map[string]any
		if err := json.Unmarshal(data, &decoded); err != nil {
			t.Fatalf("buildMessage JSON does not round-trip: %v", err)
		}
		blocks, ok := decoded["blocks"].([]any)
		if !ok {
			t.Fatal("expected blocks array")
		}
		if len(blocks) != 4 {
			t.Fatalf("blocks count = %d, want 4", len(blocks))
		}
	})
}
