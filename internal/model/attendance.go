package model

import (
	"time"

	"github.com/google/uuid"
)

// AttendanceRecord logs who attended a board's standup on a given day.
type AttendanceRecord struct {
	ID        uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey"`
	BoardID   uuid.UUID `gorm:"type:uuid;not null;index"`
	Person    string    `gorm:"not null"`
	Day       time.Time `gorm:"type:date;not null"`
	Present   bool      `gorm:"not null;default:true"`
	Note      string
	CreatedAt time.Time

	Board Board `gorm:"foreignKey:BoardID"`
}
