package kanban_test

import (
	"context"
	"testing"

	"boardsync/internal/kanban"

	"github.com/stretchr/testify/assert"
)

func TestDragController_DropWithoutDestinationIsNoop(t *testing.T) {
	f := newCoordinator(t, nil, cardWithUID("c1", "Backlog", 0))
	drag := kanban.NewDragController(f.coord, nil)
	drag.Start("c1")

	outcome := drag.OnDragEnd(context.Background(), "c1", &kanban.DropTarget{GroupKey: "Backlog", Index: 0}, nil)

	assert.Equal(t, kanban.OutcomeNoop, outcome)
	assert.Equal(t, 0, f.remote.updates())
}

func TestDragController_DropOnOriginIsNoop(t *testing.T) {
	f := newCoordinator(t, nil, cardWithUID("c1", "Backlog", 0))
	drag := kanban.NewDragController(f.coord, nil)
	origin := &kanban.DropTarget{GroupKey: "Backlog", Index: 0}

	outcome := drag.OnDragEnd(context.Background(), "c1", origin, &kanban.DropTarget{GroupKey: "Backlog", Index: 0})

	assert.Equal(t, kanban.OutcomeNoop, outcome)
	assert.Equal(t, 0, f.remote.updates())
}

func TestDragController_DropOnNewGroupMoves(t *testing.T) {
	f := newCoordinator(t, nil, cardWithUID("c1", "Backlog", 0))
	drag := kanban.NewDragController(f.coord, nil)
	drag.Start("c1")

	outcome := drag.OnDragEnd(context.Background(), "c1",
		&kanban.DropTarget{GroupKey: "Backlog", Index: 0},
		&kanban.DropTarget{GroupKey: "Doing", Index: 0})

	assert.Equal(t, kanban.OutcomeApplied, outcome)
	moved, _ := f.store.Get("c1")
	assert.Equal(t, "Doing", moved.Stage)
}

func TestDragController_CancelLeavesStateUntouched(t *testing.T) {
	f := newCoordinator(t, nil, cardWithUID("c1", "Backlog", 0))
	drag := kanban.NewDragController(f.coord, nil)
	before := f.store.Snapshot()

	drag.Start("c1")
	drag.Cancel()

	assert.Equal(t, before, f.store.Snapshot())
	assert.Equal(t, 0, f.remote.updates())
}

func TestDragController_GestureCompletesBeforeNextStarts(t *testing.T) {
	f := newCoordinator(t, nil,
		cardWithUID("c1", "Backlog", 0),
		cardWithUID("c2", "Backlog", 1),
	)
	drag := kanban.NewDragController(f.coord, nil)

	drag.Start("c1")
	// A second pointer cannot exist; the stray start is ignored.
	drag.Start("c2")
	outcome := drag.OnDragEnd(context.Background(), "c1", nil, &kanban.DropTarget{GroupKey: "Doing", Index: 0})
	assert.Equal(t, kanban.OutcomeApplied, outcome)

	// The controller is idle again, the next gesture proceeds normally.
	drag.Start("c2")
	outcome = drag.OnDragEnd(context.Background(), "c2", nil, &kanban.DropTarget{GroupKey: "Done", Index: 0})
	assert.Equal(t, kanban.OutcomeApplied, outcome)
}
