package model

import (
	"time"

	"github.com/google/uuid"
)

// Topic is a "top topics" note attached to a board.
type Topic struct {
	ID        uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey"`
	BoardID   uuid.UUID `gorm:"type:uuid;not null;index"`
	Title     string    `gorm:"not null"`
	Body      string
	Pinned    bool      `gorm:"not null;default:false"`
	CreatedBy uuid.UUID `gorm:"type:uuid;not null"`
	CreatedAt time.Time
	UpdatedAt time.Time

	Board   Board `gorm:"foreignKey:BoardID"`
	Creator User  `gorm:"foreignKey:CreatedBy"`
}
