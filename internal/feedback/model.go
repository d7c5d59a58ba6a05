package feedback

import "time"

// Sentiment is the overall tone of a feedback item.
type Sentiment string

const (
	SentimentPositive Sentiment = "positive"
	SentimentNeutral  Sentiment = "neutral"
	SentimentNegative Sentiment = "negative"
)

// Level grades urgency and value impact.
type Level string

const (
	LevelLow    Level = "low"
	LevelMedium Level = "medium"
	LevelHigh   Level = "high"
)

// Field limits enforced at the trust boundary. Oversized values inside an
// otherwise valid model response are clamped, not rejected.
const (
	MaxSourceLen  = 100
	MaxTextLen    = 5000
	MaxThemes     = 6
	MaxThemeLen   = 40
	MaxSummaryLen = 200
)

// Analysis is the structured triage signal derived from one feedback item.
// Instances only ever come out of Normalize; downstream code may rely on
// every field being populated and in range.
type Analysis struct {
	Sentiment   Sentiment `json:"sentiment"`
	Urgency     Level     `json:"urgency"`
	ValueImpact Level     `json:"value_impact"`
	Themes      []string  `json:"themes"`
	Summary     string    `json:"summary"`
}

// Item is a persisted feedback record. Analysis is nil until triage has
// completed; it is replaced as a whole on retriage, never field by field.
type Item struct {
	ID        int64     `json:"id"`
	Source    string    `json:"source"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"created_at"`
	Analysis  *Analysis `json:"analysis,omitempty"`
}

// ThemeCount is one entry in a digest's theme ranking.
type ThemeCount struct {
	Theme string `json:"theme"`
	Count int    `json:"count"`
}

// Digest is a bounded statistical summary of the most recent items. It is
// computed on demand and never persisted.
type Digest struct {
	Total       int               `json:"total"`
	Analyzed    int               `json:"analyzed"`
	ByUrgency   map[Level]int     `json:"by_urgency"`
	BySentiment map[Sentiment]int `json:"by_sentiment"`
	BySource    map[string]int    `json:"by_source"`
	TopThemes   []ThemeCount      `json:"top_themes"`
}

func validSentiment(s string) bool {
	switch Sentiment(s) {
	case SentimentPositive, SentimentNeutral, SentimentNegative:
		return true
	}
	return false
}

func validLevel(s string) bool {
	switch Level(s) {
	case LevelLow, LevelMedium, LevelHigh:
		return true
	}
	return false
}
