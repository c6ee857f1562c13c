package model

import (
	"github.com/google/uuid"
)

// Column is a board stage. Name is the join key used by cards and must be
// unique within a board; renaming a column cascades onto every card whose
// stage stores the old name.
type Column struct {
	ID                uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey"`
	BoardID           uuid.UUID `gorm:"type:uuid;not null;index;uniqueIndex:idx_columns_board_name"`
	Name              string    `gorm:"not null;uniqueIndex:idx_columns_board_name"`
	Position          int       `gorm:"not null"`
	IsDone            bool      `gorm:"not null;default:false"`
	WIPLimit          *int
	Color             string
	ChecklistTemplate StringList `gorm:"type:jsonb"`

	Board Board `gorm:"foreignKey:BoardID"`
}
