package store

import (
	"fmt"

	"github.com/matsen/citelink/internal/citation"
	"github.com/matsen/citelink/internal/record"
)

// Batch is a scoped-mutation guard over one item. While open, item and
// citation mutations accumulate in memory; End commits them with exactly
// one save. Partial application is never individually observable.
type Batch struct {
	store       *Store
	item        *record.Item
	citations   []*citation.Citation
	quarantined []citation.Quarantined
	suppress    bool
	ended       bool
}

// BeginBatch loads the item and its citation list once and returns the
// guard. The caller must End the batch on every exit path.
func (s *Store) BeginBatch(key string) (*Batch, error) {
	it, err := s.Item(key)
	if err != nil {
		return nil, err
	}
	if it == nil {
		return nil, fmt.Errorf("item %s not found", key)
	}
	citations, quarantined, err := s.Citations(it)
	if err != nil {
		return nil, err
	}
	return &Batch{store: s, item: it, citations: citations, quarantined: quarantined}, nil
}

// Item returns the batch's working copy of the item.
func (b *Batch) Item() *record.Item {
	return b.item
}

// Citations returns the batch's working citation list.
func (b *Batch) Citations() []*citation.Citation {
	return b.citations
}

// Quarantined returns the corrupt payload entries set aside at load.
func (b *Batch) Quarantined() []citation.Quarantined {
	return b.quarantined
}

// SetCitations replaces the working citation list.
func (b *Batch) SetCitations(citations []*citation.Citation) {
	b.citations = citations
}

// AddCitation appends to the working citation list.
func (b *Batch) AddCitation(c *citation.Citation) {
	b.citations = append(b.citations, c)
}

// RemoveCitation drops the citation at index i from the working list.
func (b *Batch) RemoveCitation(i int) {
	if i < 0 || i >= len(b.citations) {
		return
	}
	b.citations = append(b.citations[:i], b.citations[i+1:]...)
}

// Suppress marks the batch to discard its mutations on End.
func (b *Batch) Suppress() {
	b.suppress = true
}

// End closes the guard. Unless suppressed, it commits the accumulated item
// and citation state in one save. End is idempotent, so it is safe to defer
// and also call explicitly on the success path.
func (b *Batch) End() error {
	if b.ended {
		return nil
	}
	b.ended = true
	if b.suppress {
		return nil
	}

	if err := b.store.SetCitations(b.item.Key, b.citations); err != nil {
		return err
	}
	return b.store.SaveItem(b.item, true)
}
