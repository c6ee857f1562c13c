package kanban_test

import (
	"testing"

	"boardsync/internal/kanban"
	"boardsync/internal/model"

	"github.com/stretchr/testify/assert"
)

func TestGroupKeyFor_ColumnsMode(t *testing.T) {
	columns := threeColumns()
	card := cardWithUID("c1", "Doing", 0)
	card.Assignee = "alice"

	key := kanban.GroupKeyFor(&card, columns, model.ViewColumns, nil)

	assert.Equal(t, "Doing", key)
}

func TestGroupKeyFor_AssigneeMode(t *testing.T) {
	columns := threeColumns()
	card := cardWithUID("c1", "Doing", 0)
	card.Assignee = " alice "

	key := kanban.GroupKeyFor(&card, columns, model.ViewAssignee, nil)

	assert.Equal(t, "Doing|alice", key)
}

func TestGroupKeyFor_AssigneeMode_BlankUsesSentinel(t *testing.T) {
	columns := threeColumns()
	card := cardWithUID("c1", "Doing", 0)

	key := kanban.GroupKeyFor(&card, columns, model.ViewAssignee, nil)

	assert.Equal(t, "Doing|unassigned", key)
}

func TestGroupKeyFor_SwimlaneMode(t *testing.T) {
	columns := threeColumns()
	card := cardWithUID("c1", "Doing", 0)
	card.Swimlane = "Tooling"

	key := kanban.GroupKeyFor(&card, columns, model.ViewSwimlane, []string{"General", "Tooling"})

	assert.Equal(t, "Doing|Tooling", key)
}

func TestGroupKeyFor_SwimlaneMode_BlankUsesFirstConfigured(t *testing.T) {
	columns := threeColumns()
	card := cardWithUID("c1", "Doing", 0)

	key := kanban.GroupKeyFor(&card, columns, model.ViewSwimlane, []string{"General", "Tooling"})

	assert.Equal(t, "Doing|General", key)
}

func TestGroupKeyFor_UnresolvedStageUsesFallbackColumn(t *testing.T) {
	// The grouping key must bucket orphaned stages the same way the
	// resolver reroutes them, or drop targets and positions diverge.
	columns := threeColumns()
	card := cardWithUID("c1", "gone", 0)

	key := kanban.GroupKeyFor(&card, columns, model.ViewColumns, nil)

	assert.Equal(t, "Backlog", key)
}

func TestSplitGroupKey(t *testing.T) {
	stage, lane, hasLane := kanban.SplitGroupKey("Doing|alice")
	assert.Equal(t, "Doing", stage)
	assert.Equal(t, "alice", lane)
	assert.True(t, hasLane)

	stage, _, hasLane = kanban.SplitGroupKey("Doing")
	assert.Equal(t, "Doing", stage)
	assert.False(t, hasLane)

	assert.Equal(t, "Doing", kanban.StageOf("Doing|alice"))
}
