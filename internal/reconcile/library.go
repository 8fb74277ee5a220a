package reconcile

import "github.com/matsen/citelink/internal/store"

// StoreLibrary adapts a SQLite store to the engine's Library interface.
// Everything except BeginBatch is satisfied by the embedded store; the
// override is only needed to return the Batch interface type.
type StoreLibrary struct {
	*store.Store
}

func (l StoreLibrary) BeginBatch(key string) (Batch, error) {
	return l.Store.BeginBatch(key)
}
