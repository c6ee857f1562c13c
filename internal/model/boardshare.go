package model

import (
	"time"

	"github.com/google/uuid"
)

// BoardShare grants a user access to a board. The core treats access as a
// boolean capability: viewers read, editors mutate.
type BoardShare struct {
	ID        uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey"`
	BoardID   uuid.UUID `gorm:"type:uuid;not null;index"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;index"`
	Role      string    `gorm:"not null;check:role IN ('viewer', 'editor')"`
	CreatedAt time.Time `gorm:"autoCreateTime"`

	Board Board `gorm:"foreignKey:BoardID"`
	User  User  `gorm:"foreignKey:UserID"`
}

const (
	RoleViewer = "viewer"
	RoleEditor = "editor"
)
