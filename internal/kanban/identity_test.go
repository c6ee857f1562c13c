package kanban_test

import (
	"testing"

	"boardsync/internal/kanban"
	"boardsync/internal/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestIDFor_PrefersUID(t *testing.T) {
	card := model.Card{ID: uuid.New(), UID: "c1"}

	assert.Equal(t, "c1", kanban.IDFor(&card))
}

func TestIDFor_FallsBackToRowID(t *testing.T) {
	rowID := uuid.New()
	card := model.Card{ID: rowID}

	assert.Equal(t, rowID.String(), kanban.IDFor(&card))
}

func TestIDFor_CompositeFallback(t *testing.T) {
	card := model.Card{
		Payload: model.Payload{"number": "P-104", "title": "Fix spindle"},
	}

	assert.Equal(t, "P-104::Fix spindle", kanban.IDFor(&card))
}

func TestIDFor_StableAcrossPayloadChanges(t *testing.T) {
	// Once a durable id exists the identity must never be recomputed from
	// mutable payload fields.
	card := model.Card{ID: uuid.New(), UID: "c1", Payload: model.Payload{"title": "before"}}
	before := kanban.IDFor(&card)

	card.Payload["title"] = "after"
	card.Stage = "Done"
	card.Assignee = "bob"

	assert.Equal(t, before, kanban.IDFor(&card))
}
