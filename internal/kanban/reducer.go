package kanban

import (
	"log"
)

// Reducer folds remote change notifications into the store. It deduplicates
// echoes of our own optimistic mutations by card identity and never panics
// on partial records; missing fields stay at their zero defaults.
type Reducer struct {
	store  *Store
	logger *log.Logger
}

func NewReducer(store *Store, logger *log.Logger) *Reducer {
	if logger == nil {
		logger = log.Default()
	}
	return &Reducer{store: store, logger: logger}
}

// Apply merges one notification. Unknown event types are logged and skipped.
func (r *Reducer) Apply(ev Event) {
	id := IDFor(&ev.Card)
	if id == "" {
		r.logger.Printf("kanban: dropping %s event without a card identity", ev.Type)
		return
	}

	switch ev.Type {
	case EventInsert:
		// An insert for a card we already track is an echo of our own
		// optimistic insert.
		if r.store.Has(id) {
			return
		}
		if ev.Card.Archived {
			return
		}
		r.store.Append(ev.Card)
	case EventUpdate:
		if ev.Card.Archived {
			// Archival is a delete as far as active views are concerned.
			if !r.store.Has(id) {
				return
			}
			r.store.Remove(id)
			return
		}
		// Remote is authoritative on update: replace wholesale,
		// last writer wins. Unknown cards become inserts.
		if !r.store.Replace(ev.Card) {
			r.store.Append(ev.Card)
		}
	case EventDelete:
		if !r.store.Has(id) {
			return
		}
		r.store.Remove(id)
	default:
		r.logger.Printf("kanban: dropping event with unknown type %q", ev.Type)
	}
}
