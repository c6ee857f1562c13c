package kanban

import (
	"log"
	"sort"
	"sync"

	"boardsync/internal/model"
)

// Store is the in-memory ordered card collection for one board. Slice order
// carries no meaning; only Position within a group does. All mutation entry
// points funnel through the coordinator or the merge reducer, and every
// mutation reindexes exactly the groups it touched so positions stay a
// contiguous 0..n-1 sequence per group.
//
// The store is mutex-guarded: the merge reducer and the failure reload run
// on goroutines other than the gesture caller's.
type Store struct {
	mu        sync.Mutex
	cards     []*model.Card
	columns   []model.Column
	swimlanes []string
	mode      string
	logger    *log.Logger
}

func NewStore(mode string, logger *log.Logger) *Store {
	if logger == nil {
		logger = log.Default()
	}
	if mode == "" {
		mode = model.ViewColumns
	}
	return &Store{mode: mode, logger: logger}
}

// Configure sets the board's column and swimlane configuration and reindexes
// every group, since stage resolution may have changed.
func (s *Store) Configure(columns []model.Column, swimlanes []string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.columns = append([]model.Column(nil), columns...)
	s.swimlanes = append([]string(nil), swimlanes...)
	s.reindexAll()
}

// SetViewMode switches the grouping dimension and reindexes every group.
func (s *Store) SetViewMode(mode string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.mode = mode
	s.reindexAll()
}

// Load replaces the collection with a canonical snapshot. Archived cards are
// dropped; they take no part in active views or position bookkeeping.
func (s *Store) Load(cards []model.Card) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cards = s.cards[:0]
	for i := range cards {
		if cards[i].Archived {
			continue
		}
		c := cards[i]
		s.cards = append(s.cards, &c)
	}
	s.reindexAll()
}

// Snapshot returns the cards bucketed by group key, ordered by position.
// The returned cards are copies; callers cannot mutate store state.
func (s *Store) Snapshot() map[string][]model.Card {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[string][]model.Card)
	for _, key := range s.groupKeys() {
		members := s.group(key)
		bucket := make([]model.Card, len(members))
		for i, c := range members {
			bucket[i] = *c
		}
		out[key] = bucket
	}
	return out
}

// Get returns a copy of the card with the given identity.
func (s *Store) Get(id string) (model.Card, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if c := s.find(id); c != nil {
		return *c, true
	}
	return model.Card{}, false
}

// Has reports whether a card with the given identity is in the store.
func (s *Store) Has(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.find(id) != nil
}

// Len returns the number of active cards.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.cards)
}

// GroupKeyOf returns the group key the card currently belongs to.
func (s *Store) GroupKeyOf(id string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := s.find(id)
	if c == nil {
		return "", false
	}
	return s.keyOf(c), true
}

// Columns returns the configured columns.
func (s *Store) Columns() []model.Column {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]model.Column(nil), s.columns...)
}

// TemplateFor returns the checklist template of the named stage, or nil.
func (s *Store) TemplateFor(stage string) []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if col := columnByName(s.columns, stage); col != nil {
		return append([]string(nil), col.ChecklistTemplate...)
	}
	return nil
}

// IsDoneStage reports whether the named stage is flagged "done".
func (s *Store) IsDoneStage(stage string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	col := columnByName(s.columns, stage)
	return col != nil && col.IsDone
}

// ViewMode returns the active grouping mode.
func (s *Store) ViewMode() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.mode
}

// Insert places a card into a group at the given index and reindexes only
// that group. The key's stage and lane are written onto the card.
func (s *Store) Insert(card model.Card, atKey string, atIndex int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	applyGroupKey(&card, atKey, s.mode)
	s.spliceLocked(&card, atKey, atIndex)
}

// Append places a card at the end of the group its own fields derive.
// Used by the merge reducer for remote inserts.
func (s *Store) Append(card model.Card) {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := s.keyOf(&card)
	s.spliceLocked(&card, key, len(s.group(key)))
}

// Remove deletes a card by identity and reindexes its former group. A stale
// identity is a logged no-op; card lists are frequently stale by the time a
// UI event fires and crashing the view is worse than ignoring it.
func (s *Store) Remove(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := s.find(id)
	if c == nil {
		s.logger.Printf("kanban: remove ignored, unknown card %q", id)
		return false
	}
	key := s.keyOf(c)
	s.deleteLocked(c)
	s.reindexGroups(key)
	return true
}

// Move removes a card from its current group ordering and inserts it into
// the destination group at toIndex, reindexing both groups. The optional
// mutate hook runs after the destination fields are applied but before
// reindexing, so business-rule field changes land in the same step.
func (s *Store) Move(id, toKey string, toIndex int, mutate func(*model.Card)) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := s.find(id)
	if c == nil {
		s.logger.Printf("kanban: move ignored, unknown card %q", id)
		return false
	}
	fromKey := s.keyOf(c)
	applyGroupKey(c, toKey, s.mode)
	if mutate != nil {
		mutate(c)
	}

	// Place within the destination ordering, then renumber both buckets.
	members := s.groupExcept(toKey, c)
	if toIndex < 0 {
		toIndex = 0
	}
	if toIndex > len(members) {
		toIndex = len(members)
	}
	c.Position = toIndex
	for i, m := range members {
		if i < toIndex {
			m.Position = i
		} else {
			m.Position = i + 1
		}
	}
	if fromKey != toKey {
		s.reindexGroups(fromKey)
	}
	return true
}

// Replace overwrites a locally-known card with the incoming remote record
// wholesale and reindexes the affected groups. Remote is authoritative on
// update; concurrent local edits that have not round-tripped yet lose.
func (s *Store) Replace(incoming model.Card) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := s.find(IDFor(&incoming))
	if c == nil {
		return false
	}
	oldKey := s.keyOf(c)
	*c = incoming
	newKey := s.keyOf(c)
	s.reindexGroups(oldKey, newKey)
	return true
}

// ReindexAll renumbers every group. Idempotent: repeated calls without
// intervening mutation yield identical positions.
func (s *Store) ReindexAll() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reindexAll()
}

func (s *Store) find(id string) *model.Card {
	for _, c := range s.cards {
		if IDFor(c) == id {
			return c
		}
	}
	return nil
}

func (s *Store) keyOf(c *model.Card) string {
	return GroupKeyFor(c, s.columns, s.mode, s.swimlanes)
}

// group returns the members of a bucket in position order. The sort is
// stable so ties keep their current relative order, which is what makes
// reindexing idempotent.
func (s *Store) group(key string) []*model.Card {
	var members []*model.Card
	for _, c := range s.cards {
		if s.keyOf(c) == key {
			members = append(members, c)
		}
	}
	sort.SliceStable(members, func(i, j int) bool {
		return members[i].Position < members[j].Position
	})
	return members
}

func (s *Store) groupExcept(key string, skip *model.Card) []*model.Card {
	members := s.group(key)
	for i, m := range members {
		if m == skip {
			return append(members[:i], members[i+1:]...)
		}
	}
	return members
}

func (s *Store) groupKeys() []string {
	seen := make(map[string]bool)
	var keys []string
	for _, c := range s.cards {
		key := s.keyOf(c)
		if !seen[key] {
			seen[key] = true
			keys = append(keys, key)
		}
	}
	return keys
}

func (s *Store) spliceLocked(card *model.Card, key string, index int) {
	members := s.group(key)
	if index < 0 {
		index = 0
	}
	if index > len(members) {
		index = len(members)
	}
	card.Position = index
	for i, m := range members {
		if i < index {
			m.Position = i
		} else {
			m.Position = i + 1
		}
	}
	s.cards = append(s.cards, card)
}

func (s *Store) deleteLocked(card *model.Card) {
	for i, c := range s.cards {
		if c == card {
			s.cards = append(s.cards[:i], s.cards[i+1:]...)
			return
		}
	}
}

func (s *Store) reindexGroups(keys ...string) {
	seen := make(map[string]bool)
	for _, key := range keys {
		if seen[key] {
			continue
		}
		seen[key] = true
		for i, m := range s.group(key) {
			m.Position = i
		}
	}
}

func (s *Store) reindexAll() {
	s.reindexGroups(s.groupKeys()...)
}
