package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"boardsync/internal/model"
)

type AttendanceRepository struct {
	db *gorm.DB
}

func NewAttendanceRepository(db *gorm.DB) *AttendanceRepository {
	return &AttendanceRepository{db: db}
}

// Create adds an attendance record
func (r *AttendanceRepository) Create(ctx context.Context, record *model.AttendanceRecord) error {
	return r.db.WithContext(ctx).Create(record).Error
}

// GetByBoardAndDay retrieves the attendance records of a board for one day
func (r *AttendanceRepository) GetByBoardAndDay(ctx context.Context, boardID uuid.UUID, day time.Time) ([]model.AttendanceRecord, error) {
	var records []model.AttendanceRecord
	result := r.db.WithContext(ctx).
		Where("board_id = ? AND day = ?", boardID, day.Format("2006-01-02")).
		Order("person").
		Find(&records)
	if result.Error != nil {
		return nil, result.Error
	}
	return records, nil
}

// GetByBoardID retrieves a board's attendance history, newest day first
func (r *AttendanceRepository) GetByBoardID(ctx context.Context, boardID uuid.UUID) ([]model.AttendanceRecord, error) {
	var records []model.AttendanceRecord
	result := r.db.WithContext(ctx).
		Where("board_id = ?", boardID).
		Order("day DESC, person").
		Find(&records)
	if result.Error != nil {
		return nil, result.Error
	}
	return records, nil
}

// Delete removes an attendance record
func (r *AttendanceRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.AttendanceRecord{}, "id = ?", id).Error
}
