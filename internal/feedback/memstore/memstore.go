// Package memstore provides an in-memory implementation of feedback.Store.
package memstore

import (
	"context"
	"sync"
	"time"

	"github.com/Damilola24434/feedback-triage/internal/feedback"
)

// Store holds feedback items in memory. Suitable for dev/testing. Ids are
// assigned from a monotonic counter starting at 1.
type Store struct {
	mu     sync.RWMutex
	nextID int64
	items  map[int64]*feedback.Item
}

// New initializes a new in-memory Store.
func New() *Store {
	return &Store{
		nextID: 1,
		items:  make(map[int64]*feedback.Item),
	}
}

// Insert stores a new unanalyzed item and returns its id.
func (s *Store) Insert(_ context.Context, source, text string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextID
	s.nextID++
	s.items[id] = &feedback.Item{
		ID:        id,
		Source:    source,
		Text:      text,
		CreatedAt: time.Now().UTC(),
	}
	return id, nil
}

// Get retrieves an item by id. Returns a copy.
func (s *Store) Get(_ context.Context, id int64) (*feedback.Item, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	it, ok := s.items[id]
	if !ok {
		return nil, false, nil
	}
	cp := copyItem(it)
	return &cp, true, nil
}

// SetAnalysis replaces the item's analysis wholesale.
func (s *Store) SetAnalysis(_ context.Context, id int64, a *feedback.Analysis) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	it, ok := s.items[id]
	if !ok {
		return feedback.ErrNotFound
	}
	cp := copyAnalysis(a)
	it.Analysis = cp
	return nil
}

// ListRecent returns up to limit items in descending id order. Returns copies.
func (s *Store) ListRecent(_ context.Context, limit int) ([]feedback.Item, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if limit <= 0 {
		return []feedback.Item{}, nil
	}
	out := make([]feedback.Item, 0, limit)
	for id := s.nextID - 1; id >= 1 && len(out) < limit; id-- {
		it, ok := s.items[id]
		if !ok {
			continue
		}
		out = append(out, copyItem(it))
	}
	return out, nil
}

func copyItem(it *feedback.Item) feedback.Item {
	cp := *it
	cp.Analysis = copyAnalysis(it.Analysis)
	return cp
}

func copyAnalysis(a *feedback.Analysis) *feedback.Analysis {
	if a == nil {
		return nil
	}
	cp := *a
	if a.Themes != nil {
		cp.Themes = append([]string(nil), a.Themes...)
	}
	return &cp
}
