package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"boardsync/internal/model"
)

type BoardShareRepository struct {
	db *gorm.DB
}

func NewBoardShareRepository(db *gorm.DB) *BoardShareRepository {
	return &BoardShareRepository{db: db}
}

// Create adds a new board share
func (r *BoardShareRepository) Create(ctx context.Context, share *model.BoardShare) error {
	return r.db.WithContext(ctx).Create(share).Error
}

// GetByBoardID retrieves all shares of a board
func (r *BoardShareRepository) GetByBoardID(ctx context.Context, boardID uuid.UUID) ([]model.BoardShare, error) {
	var shares []model.BoardShare
	result := r.db.WithContext(ctx).Where("board_id = ?", boardID).Find(&shares)
	if result.Error != nil {
		return nil, result.Error
	}
	return shares, nil
}

// GetByUserID retrieves all shares granted to a user
func (r *BoardShareRepository) GetByUserID(ctx context.Context, userID uuid.UUID) ([]model.BoardShare, error) {
	var shares []model.BoardShare
	result := r.db.WithContext(ctx).Where("user_id = ?", userID).Find(&shares)
	if result.Error != nil {
		return nil, result.Error
	}
	return shares, nil
}

// CheckAccess returns the role a user holds on a board, or an empty string
// when the board is not shared with them
func (r *BoardShareRepository) CheckAccess(ctx context.Context, boardID, userID uuid.UUID) (string, error) {
	var share model.BoardShare
	result := r.db.WithContext(ctx).
		Where("board_id = ? AND user_id = ?", boardID, userID).
		First(&share)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return "", nil
		}
		return "", result.Error
	}
	return share.Role, nil
}

// Delete removes a share
func (r *BoardShareRepository) Delete(ctx context.Context, boardID, userID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("board_id = ? AND user_id = ?", boardID, userID).
		Delete(&model.BoardShare{}).Error
}
