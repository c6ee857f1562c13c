package kanban

import (
	"strings"

	"boardsync/internal/model"
)

// GroupKeySep joins the stage and lane dimensions of a group key.
const GroupKeySep = "|"

// UnassignedLane is the lane used in assignee view for cards without an
// assignee.
const UnassignedLane = "unassigned"

// GroupKeyFor computes the bucket a card belongs to. The same key is used
// for rendering buckets and for position bookkeeping; the two must never
// diverge or reorder math desynchronizes from what the user sees.
func GroupKeyFor(card *model.Card, columns []model.Column, mode string, swimlanes []string) string {
	stage := ResolveStage(card, columns)
	switch mode {
	case model.ViewAssignee:
		lane := strings.TrimSpace(card.Assignee)
		if lane == "" {
			lane = UnassignedLane
		}
		return stage + GroupKeySep + lane
	case model.ViewSwimlane:
		lane := card.Swimlane
		if strings.TrimSpace(lane) == "" && len(swimlanes) > 0 {
			lane = swimlanes[0]
		}
		return stage + GroupKeySep + lane
	default:
		return stage
	}
}

// SplitGroupKey breaks a group key into its stage and optional lane.
func SplitGroupKey(key string) (stage, lane string, hasLane bool) {
	stage, lane, hasLane = strings.Cut(key, GroupKeySep)
	return stage, lane, hasLane
}

// StageOf returns the stage dimension of a group key.
func StageOf(key string) string {
	stage, _, _ := SplitGroupKey(key)
	return stage
}

// applyGroupKey rewrites the card fields that the key implies. In assignee
// view the sentinel lane maps back to an empty assignee.
func applyGroupKey(card *model.Card, key, mode string) {
	stage, lane, hasLane := SplitGroupKey(key)
	card.Stage = stage
	if !hasLane {
		return
	}
	switch mode {
	case model.ViewAssignee:
		if lane == UnassignedLane {
			lane = ""
		}
		card.Assignee = lane
	case model.ViewSwimlane:
		card.Swimlane = lane
	}
}
