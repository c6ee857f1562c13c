package kanban_test

import (
	"testing"

	"boardsync/internal/kanban"
	"boardsync/internal/model"

	"github.com/stretchr/testify/assert"
)

func TestResolveStage_ExactMatch(t *testing.T) {
	columns := threeColumns()
	card := cardWithUID("c1", "Doing", 0)

	assert.Equal(t, "Doing", kanban.ResolveStage(&card, columns))
}

func TestResolveStage_TrimsWhitespace(t *testing.T) {
	columns := threeColumns()
	card := cardWithUID("c1", "  Doing ", 0)

	assert.Equal(t, "Doing", kanban.ResolveStage(&card, columns))
}

func TestResolveStage_UnknownFallsBackToFirstColumn(t *testing.T) {
	columns := threeColumns()
	card := cardWithUID("c1", "Werkzeugtransport", 0)

	assert.Equal(t, "Backlog", kanban.ResolveStage(&card, columns))
}

func TestResolveStage_FallbackTracksReordering(t *testing.T) {
	// "First" is first at call time, never cached.
	columns := threeColumns()
	card := cardWithUID("c1", "no-such-stage", 0)
	assert.Equal(t, "Backlog", kanban.ResolveStage(&card, columns))

	reordered := []model.Column{columns[2], columns[0], columns[1]}
	assert.Equal(t, "Done", kanban.ResolveStage(&card, reordered))
}

func TestResolveStage_NoColumns(t *testing.T) {
	card := cardWithUID("c1", "Doing", 0)

	assert.Equal(t, "", kanban.ResolveStage(&card, nil))
}
