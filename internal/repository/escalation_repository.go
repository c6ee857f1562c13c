package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"boardsync/internal/model"
)

type EscalationRepository struct {
	db *gorm.DB
}

func NewEscalationRepository(db *gorm.DB) *EscalationRepository {
	return &EscalationRepository{db: db}
}

// Create adds an escalation record
func (r *EscalationRepository) Create(ctx context.Context, record *model.EscalationRecord) error {
	return r.db.WithContext(ctx).Create(record).Error
}

// GetOpenByBoardID retrieves a board's unresolved escalations, newest first
func (r *EscalationRepository) GetOpenByBoardID(ctx context.Context, boardID uuid.UUID) ([]model.EscalationRecord, error) {
	var records []model.EscalationRecord
	result := r.db.WithContext(ctx).
		Where("board_id = ? AND resolved_at IS NULL", boardID).
		Order("created_at DESC").
		Find(&records)
	if result.Error != nil {
		return nil, result.Error
	}
	return records, nil
}

// GetByCardUID retrieves every escalation of a card, open and resolved
func (r *EscalationRepository) GetByCardUID(ctx context.Context, boardID uuid.UUID, cardUID string) ([]model.EscalationRecord, error) {
	var records []model.EscalationRecord
	result := r.db.WithContext(ctx).
		Where("board_id = ? AND card_uid = ?", boardID, cardUID).
		Order("created_at DESC").
		Find(&records)
	if result.Error != nil {
		return nil, result.Error
	}
	return records, nil
}

// Resolve stamps an escalation as handled
func (r *EscalationRepository) Resolve(ctx context.Context, id uuid.UUID) error {
	now := time.Now()
	return r.db.WithContext(ctx).Model(&model.EscalationRecord{}).
		Where("id = ?", id).
		Update("resolved_at", &now).Error
}
