package model

import (
	"strconv"
	"time"

	"github.com/google/uuid"
)

// Card is a tracked work item on a board. Stage references a Column by name
// (cards join columns by name, not id). Position is a zero-based rank inside
// the card's (stage, swimlane/assignee) group. Archived cards are excluded
// from active views and from position bookkeeping.
type Card struct {
	ID         uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey"`
	UID        string    `gorm:"index"`
	BoardID    uuid.UUID `gorm:"type:uuid;not null;index"`
	Stage      string    `gorm:"not null"`
	Swimlane   string
	Assignee   string
	Position   int  `gorm:"not null"`
	Archived   bool `gorm:"not null;default:false"`
	ArchivedAt *time.Time
	Payload    Payload    `gorm:"type:jsonb"`
	Checklists Checklists `gorm:"type:jsonb"`
	CreatedAt  time.Time
	UpdatedAt  time.Time

	Board Board `gorm:"foreignKey:BoardID"`
}

// ChecklistFor returns the completion map for stage, keyed by item name.
// Legacy records keyed the map by item index instead; those are normalized
// against the column's template order, which is why the template is needed.
func (c *Card) ChecklistFor(stage string, template []string) map[string]bool {
	done := make(map[string]bool, len(template))
	stored := c.Checklists[stage]
	for i, item := range template {
		if v, ok := stored[item]; ok {
			done[item] = v
			continue
		}
		if v, ok := stored[strconv.Itoa(i)]; ok {
			done[item] = v
			continue
		}
		done[item] = false
	}
	return done
}
