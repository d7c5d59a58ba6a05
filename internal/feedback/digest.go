package feedback

import (
	"context"
	"sort"
	"strings"
)

// TopThemeCount caps the theme ranking in a digest.
const TopThemeCount = 8

// Aggregator builds dataset digests over the most recent items. It holds no
// state beyond the store handle; every digest is computed fresh.
type Aggregator struct {
	store   Store
	metrics *Metrics
}

// NewAggregator creates an aggregator. metrics may be nil.
func NewAggregator(store Store, m *Metrics) *Aggregator {
	return &Aggregator{store: store, metrics: m}
}

// Summarize scans up to limit of the most recently created items and tallies
// them into a Digest. Unanalyzed items count toward Total only. A row whose
// themes were lost to corruption (nil Themes on an otherwise analyzed item)
// still contributes to every counter except the theme ranking.
func (a *Aggregator) Summarize(ctx context.Context, limit int) (*Digest, error) {
	items, err := a.store.ListRecent(ctx, limit)
	if err != nil {
		return nil, &StoreError{Op: "list", Err: err}
	}
	d := buildDigest(items)
	if a.metrics != nil {
		a.metrics.DigestRows.Observe(float64(d.Total))
	}
	return d, nil
}

func buildDigest(items []Item) *Digest {
	d := &Digest{
		ByUrgency:   make(map[Level]int),
		BySentiment: make(map[Sentiment]int),
		BySource:    make(map[string]int),
		TopThemes:   []ThemeCount{},
	}

	type tally struct {
		count     int
		firstSeen int
	}
	themes := make(map[string]*tally)
	seen := 0

	for _, it := range items {
		d.Total++
		if it.Analysis == nil {
			continue
		}
		d.Analyzed++
		d.ByUrgency[it.Analysis.Urgency]++
		d.BySentiment[it.Analysis.Sentiment]++
		d.BySource[it.Source]++

		for _, th := range it.Analysis.Themes {
			// case-fold so "Login Bug" and "login bug" merge
			key := strings.ToLower(strings.TrimSpace(th))
			if key == "" {
				continue
			}
			t, ok := themes[key]
			if !ok {
				t = &tally{firstSeen: seen}
				seen++
				themes[key] = t
			}
			t.count++
		}
	}

	type ranked struct {
		theme string
		tally *tally
	}
	all := make([]ranked, 0, len(themes))
	for th, t := range themes {
		all = append(all, ranked{theme: th, tally: t})
	}
	sort.Slice(all, func(i, j int) bool {
		if all[i].tally.count != all[j].tally.count {
			return all[i].tally.count > all[j].tally.count
		}
		return all[i].tally.firstSeen < all[j].tally.firstSeen
	})
	if len(all) > TopThemeCount {
		all = all[:TopThemeCount]
	}
	for _, r := range all {
		d.TopThemes = append(d.TopThemes, ThemeCount{Theme: r.theme, Count: r.tally.count})
	}
	return d
}
