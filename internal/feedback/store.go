package feedback

import "context"

// Store is the persistence boundary for feedback items.
//
// Insert assigns a fresh, monotonically increasing positive id. SetAnalysis
// replaces all analysis fields together and fails with ErrNotFound when the
// id does not exist. ListRecent returns items most-recent-first (descending
// id order).
type Store interface {
	Insert(ctx context.Context, source, text string) (int64, error)
	Get(ctx context.Context, id int64) (*Item, bool, error)
	SetAnalysis(ctx context.Context, id int64, a *Analysis) error
	ListRecent(ctx context.Context, limit int) ([]Item, error)
}

// Notifier receives analyzed feedback the service considers worth pushing
// out (currently high-urgency items). Implementations must not block longer
// than their own transport timeout.
type Notifier interface {
	FeedbackTriaged(ctx context.Context, item *Item) error
}
