package model

import (
	"time"

	"github.com/google/uuid"
)

// EscalationRecord tags a card as escalated. CardUID references the card's
// external identifier so the record survives card re-import.
type EscalationRecord struct {
	ID         uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey"`
	BoardID    uuid.UUID `gorm:"type:uuid;not null;index"`
	CardUID    string    `gorm:"not null;index"`
	Level      string    `gorm:"not null"`
	Reason     string
	ResolvedAt *time.Time
	CreatedAt  time.Time

	Board Board `gorm:"foreignKey:BoardID"`
}
