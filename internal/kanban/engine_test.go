package kanban_test

import (
	"context"
	"testing"

	"boardsync/internal/kanban"
	"boardsync/internal/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func newEngine(t *testing.T, remote *fakeRemote) *kanban.Engine {
	t.Helper()
	engine := kanban.NewEngine(uuid.New(), model.ViewColumns, remote, nil, nil, nil)
	engine.Coordinator().SetLaunch(func(fn func()) { fn() })
	assert.NoError(t, engine.Start(context.Background()))
	t.Cleanup(func() { assert.NoError(t, engine.Stop()) })
	return engine
}

func TestEngine_StartLoadsCanonicalState(t *testing.T) {
	remote := &fakeRemote{
		columns: threeColumns(),
		cards: []model.Card{
			cardWithUID("c1", "Backlog", 0),
			cardWithUID("c2", "Doing", 0),
		},
	}

	engine := newEngine(t, remote)

	snapshot := engine.Snapshot()
	assert.Equal(t, []string{"c1"}, uids(snapshot["Backlog"]))
	assert.Equal(t, []string{"c2"}, uids(snapshot["Doing"]))
}

func TestEngine_MoveThenRealtimeEchoKeepsSingleCard(t *testing.T) {
	remote := &fakeRemote{
		columns: threeColumns(),
		cards:   []model.Card{cardWithUID("c1", "Backlog", 0)},
	}
	engine := newEngine(t, remote)

	outcome := engine.OnDragEnd(context.Background(), "c1", nil, &kanban.DropTarget{GroupKey: "Doing", Index: 0})
	assert.Equal(t, kanban.OutcomeApplied, outcome)

	// The subscription echoes our own mutation back as an insert.
	echo := cardWithUID("c1", "Doing", 0)
	remote.push(kanban.Event{Type: kanban.EventInsert, Card: echo})

	assert.Equal(t, 1, engine.Store().Len())
	snapshot := engine.Snapshot()
	assert.Equal(t, []string{"c1"}, uids(snapshot["Doing"]))
	assert.Empty(t, snapshot["Backlog"])
}

func TestEngine_StaleRemoteUpdateIsSelfHealing(t *testing.T) {
	// A remote echo of the pre-move state may transiently overwrite the
	// optimistic move; the update triggered by our own mutation restores
	// it. Last writer wins, by policy.
	remote := &fakeRemote{
		columns: threeColumns(),
		cards:   []model.Card{cardWithUID("c1", "Backlog", 0)},
	}
	engine := newEngine(t, remote)

	engine.OnDragEnd(context.Background(), "c1", nil, &kanban.DropTarget{GroupKey: "Doing", Index: 0})

	stale := cardWithUID("c1", "Backlog", 0)
	remote.push(kanban.Event{Type: kanban.EventUpdate, Card: stale})
	got, _ := engine.Store().Get("c1")
	assert.Equal(t, "Backlog", got.Stage)

	fresh := cardWithUID("c1", "Doing", 0)
	remote.push(kanban.Event{Type: kanban.EventUpdate, Card: fresh})
	got, _ = engine.Store().Get("c1")
	assert.Equal(t, "Doing", got.Stage)
	assert.Equal(t, 1, engine.Store().Len())
}

func TestEngine_SwitchingViewModeRegroups(t *testing.T) {
	alice := cardWithUID("c1", "Doing", 0)
	alice.Assignee = "alice"
	remote := &fakeRemote{
		columns:  threeColumns(),
		settings: model.BoardSettings{Swimlanes: model.StringList{"General"}},
		cards:    []model.Card{alice, cardWithUID("c2", "Doing", 1)},
	}
	engine := newEngine(t, remote)

	engine.SetViewMode(model.ViewAssignee)

	snapshot := engine.Snapshot()
	assert.Equal(t, []string{"c1"}, uids(snapshot["Doing|alice"]))
	assert.Equal(t, []string{"c2"}, uids(snapshot["Doing|unassigned"]))
	assertContiguous(t, snapshot)
}

func TestEngine_CreateCardVisibleImmediately(t *testing.T) {
	remote := &fakeRemote{columns: threeColumns()}
	engine := newEngine(t, remote)

	engine.CreateCard(context.Background(), cardWithUID("c1", "Backlog", 0))

	assert.Equal(t, []string{"c1"}, uids(engine.Snapshot()["Backlog"]))
	assert.Len(t, remote.cards, 1)
}
