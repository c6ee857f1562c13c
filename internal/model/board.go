package model

import (
	"database/sql/driver"
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Board view modes. The active mode decides the grouping dimension used for
// rendering and position bookkeeping.
const (
	ViewColumns  = "columns"
	ViewAssignee = "assignee"
	ViewSwimlane = "swimlane"
)

// BoardSettings is the jsonb settings document of a board.
type BoardSettings struct {
	Swimlanes   StringList `json:"swimlanes"`
	DefaultView string     `json:"default_view"`
	Density     string     `json:"density"`
}

func (s BoardSettings) Value() (driver.Value, error) {
	return json.Marshal(s)
}

func (s *BoardSettings) Scan(value interface{}) error {
	return scanJSON(value, s)
}

type Board struct {
	ID           uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey"`
	Name         string    `gorm:"not null"`
	Description  string
	OwnerID      uuid.UUID     `gorm:"type:uuid;not null"`
	BoardAdminID *uuid.UUID    `gorm:"type:uuid"`
	Settings     BoardSettings `gorm:"type:jsonb"`
	Archived     bool          `gorm:"not null;default:false"`
	ArchivedAt   *time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time

	Owner User `gorm:"foreignKey:OwnerID"`
}
