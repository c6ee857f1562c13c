package kanban_test

import (
	"testing"

	"boardsync/internal/kanban"
	"boardsync/internal/model"

	"github.com/stretchr/testify/assert"
)

func newStore(t *testing.T, mode string, cards ...model.Card) *kanban.Store {
	t.Helper()
	store := kanban.NewStore(mode, nil)
	store.Configure(threeColumns(), []string{"General", "Tooling"})
	store.Load(cards)
	return store
}

// assertContiguous checks that every group's positions are exactly 0..n-1.
func assertContiguous(t *testing.T, snapshot map[string][]model.Card) {
	t.Helper()
	for key, bucket := range snapshot {
		for i, card := range bucket {
			assert.Equalf(t, i, card.Position, "group %q, card %q", key, kanban.IDFor(&card))
		}
	}
}

func TestStore_ReindexIsIdempotent(t *testing.T) {
	store := newStore(t, model.ViewColumns,
		cardWithUID("c1", "Backlog", 4),
		cardWithUID("c2", "Backlog", 1),
		cardWithUID("c3", "Doing", 9),
		cardWithUID("c4", "Backlog", 1),
	)

	store.ReindexAll()
	first := store.Snapshot()
	store.ReindexAll()
	second := store.Snapshot()

	assert.Equal(t, first, second)
	assertContiguous(t, second)
}

func TestStore_LoadDropsArchivedCards(t *testing.T) {
	archived := cardWithUID("c2", "Backlog", 1)
	archived.Archived = true

	store := newStore(t, model.ViewColumns, cardWithUID("c1", "Backlog", 0), archived)

	assert.Equal(t, 1, store.Len())
	assert.False(t, store.Has("c2"))
	assertContiguous(t, store.Snapshot())
}

func TestStore_InsertReindexesOnlyAffectedGroup(t *testing.T) {
	store := newStore(t, model.ViewColumns,
		cardWithUID("c1", "Backlog", 0),
		cardWithUID("c2", "Backlog", 1),
		cardWithUID("d1", "Doing", 0),
	)

	store.Insert(cardWithUID("c3", "", 0), "Backlog", 1)

	snapshot := store.Snapshot()
	assert.Equal(t, []string{"c1", "c3", "c2"}, uids(snapshot["Backlog"]))
	assert.Equal(t, []string{"d1"}, uids(snapshot["Doing"]))
	assertContiguous(t, snapshot)
}

func TestStore_InsertClampsIndex(t *testing.T) {
	store := newStore(t, model.ViewColumns, cardWithUID("c1", "Backlog", 0))

	store.Insert(cardWithUID("c2", "", 0), "Backlog", 99)

	snapshot := store.Snapshot()
	assert.Equal(t, []string{"c1", "c2"}, uids(snapshot["Backlog"]))
	assertContiguous(t, snapshot)
}

func TestStore_RemoveClosesGap(t *testing.T) {
	store := newStore(t, model.ViewColumns,
		cardWithUID("c1", "Backlog", 0),
		cardWithUID("c2", "Backlog", 1),
		cardWithUID("c3", "Backlog", 2),
	)

	assert.True(t, store.Remove("c2"))

	snapshot := store.Snapshot()
	assert.Equal(t, []string{"c1", "c3"}, uids(snapshot["Backlog"]))
	assertContiguous(t, snapshot)
}

func TestStore_RemoveUnknownIsNoop(t *testing.T) {
	store := newStore(t, model.ViewColumns, cardWithUID("c1", "Backlog", 0))

	assert.False(t, store.Remove("ghost"))
	assert.Equal(t, 1, store.Len())
}

func TestStore_MoveAcrossGroups(t *testing.T) {
	store := newStore(t, model.ViewColumns,
		cardWithUID("c1", "Backlog", 0),
		cardWithUID("c2", "Backlog", 1),
		cardWithUID("d1", "Doing", 0),
	)

	assert.True(t, store.Move("c1", "Doing", 1, nil))

	snapshot := store.Snapshot()
	assert.Equal(t, []string{"c2"}, uids(snapshot["Backlog"]))
	assert.Equal(t, []string{"d1", "c1"}, uids(snapshot["Doing"]))
	assertContiguous(t, snapshot)

	moved, ok := store.Get("c1")
	assert.True(t, ok)
	assert.Equal(t, "Doing", moved.Stage)
	assert.Equal(t, 1, moved.Position)
}

func TestStore_MoveWithinGroup(t *testing.T) {
	store := newStore(t, model.ViewColumns,
		cardWithUID("c1", "Backlog", 0),
		cardWithUID("c2", "Backlog", 1),
		cardWithUID("c3", "Backlog", 2),
	)

	assert.True(t, store.Move("c3", "Backlog", 0, nil))

	snapshot := store.Snapshot()
	assert.Equal(t, []string{"c3", "c1", "c2"}, uids(snapshot["Backlog"]))
	assertContiguous(t, snapshot)
}

func TestStore_MoveLastCardOutOfGroup(t *testing.T) {
	store := newStore(t, model.ViewColumns,
		cardWithUID("c1", "Backlog", 0),
		cardWithUID("d1", "Doing", 0),
	)

	assert.True(t, store.Move("c1", "Doing", 0, nil))

	snapshot := store.Snapshot()
	assert.Empty(t, snapshot["Backlog"])
	assert.Equal(t, []string{"c1", "d1"}, uids(snapshot["Doing"]))
	assertContiguous(t, snapshot)
}

func TestStore_ContiguityAfterMixedOperations(t *testing.T) {
	store := newStore(t, model.ViewAssignee,
		cardWithUID("c1", "Backlog", 0),
		cardWithUID("c2", "Backlog", 1),
		cardWithUID("c3", "Doing", 0),
	)

	store.Insert(cardWithUID("c4", "", 0), "Backlog|alice", 0)
	store.Move("c1", "Doing|bob", 0, nil)
	store.Remove("c2")
	store.Insert(cardWithUID("c5", "", 0), "Doing|bob", 1)
	store.Move("c5", "Doing|bob", 0, nil)

	assertContiguous(t, store.Snapshot())
}

func TestStore_SwimlaneModeGroupsByLane(t *testing.T) {
	inLane := cardWithUID("c1", "Backlog", 0)
	inLane.Swimlane = "Tooling"
	blankLane := cardWithUID("c2", "Backlog", 0)

	store := newStore(t, model.ViewSwimlane, inLane, blankLane)

	snapshot := store.Snapshot()
	assert.Equal(t, []string{"c1"}, uids(snapshot["Backlog|Tooling"]))
	// Blank swimlanes land in the board's first configured lane.
	assert.Equal(t, []string{"c2"}, uids(snapshot["Backlog|General"]))
}

func uids(cards []model.Card) []string {
	out := make([]string, len(cards))
	for i := range cards {
		out[i] = cards[i].UID
	}
	return out
}
