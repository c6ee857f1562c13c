package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"boardsync/internal/model"
)

type BoardRepository struct {
	db *gorm.DB
}

func NewBoardRepository(db *gorm.DB) *BoardRepository {
	return &BoardRepository{db: db}
}

// Create adds a new board to the database
func (r *BoardRepository) Create(ctx context.Context, board *model.Board) error {
	return r.db.WithContext(ctx).Create(board).Error
}

// GetByID retrieves a board by ID
func (r *BoardRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Board, error) {
	var board model.Board
	result := r.db.WithContext(ctx).First(&board, "id = ?", id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrBoardNotFound
		}
		return nil, result.Error
	}
	return &board, nil
}

// GetByOwnerID retrieves all active boards owned by a user
func (r *BoardRepository) GetByOwnerID(ctx context.Context, ownerID uuid.UUID) ([]model.Board, error) {
	var boards []model.Board
	result := r.db.WithContext(ctx).
		Where("owner_id = ? AND archived = ?", ownerID, false).
		Order("created_at DESC").
		Find(&boards)
	if result.Error != nil {
		return nil, result.Error
	}
	return boards, nil
}

// Update saves board changes
func (r *BoardRepository) Update(ctx context.Context, board *model.Board) error {
	result := r.db.WithContext(ctx).Save(board)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrBoardNotFound
	}
	return nil
}

// UpdateSettings persists only the settings document of a board
func (r *BoardRepository) UpdateSettings(ctx context.Context, id uuid.UUID, settings model.BoardSettings) error {
	result := r.db.WithContext(ctx).Model(&model.Board{}).
		Where("id = ?", id).
		Update("settings", settings)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrBoardNotFound
	}
	return nil
}

// Archive soft-deletes a board
func (r *BoardRepository) Archive(ctx context.Context, id uuid.UUID) error {
	now := time.Now()
	result := r.db.WithContext(ctx).Model(&model.Board{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"archived":    true,
			"archived_at": &now,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrBoardNotFound
	}
	return nil
}

// Delete removes a board permanently
func (r *BoardRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&model.Board{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrBoardNotFound
	}
	return nil
}
