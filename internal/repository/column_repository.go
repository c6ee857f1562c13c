package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"boardsync/internal/model"
)

type ColumnRepository struct {
	db *gorm.DB
}

func NewColumnRepository(db *gorm.DB) *ColumnRepository {
	return &ColumnRepository{db: db}
}

// Create adds a new column to the database
func (r *ColumnRepository) Create(ctx context.Context, column *model.Column) error {
	return r.db.WithContext(ctx).Create(column).Error
}

// GetByID retrieves a column by ID
func (r *ColumnRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Column, error) {
	var column model.Column
	result := r.db.WithContext(ctx).First(&column, "id = ?", id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrColumnNotFound
		}
		return nil, result.Error
	}
	return &column, nil
}

// GetByBoardID retrieves all columns of a board in display order
func (r *ColumnRepository) GetByBoardID(ctx context.Context, boardID uuid.UUID) ([]model.Column, error) {
	var columns []model.Column
	result := r.db.WithContext(ctx).
		Where("board_id = ?", boardID).
		Order("position").
		Find(&columns)
	if result.Error != nil {
		return nil, result.Error
	}
	return columns, nil
}

// GetByName retrieves a column of a board by its name. Returns nil without
// error when no column carries that name.
func (r *ColumnRepository) GetByName(ctx context.Context, boardID uuid.UUID, name string) (*model.Column, error) {
	var column model.Column
	result := r.db.WithContext(ctx).
		Where("board_id = ? AND name = ?", boardID, name).
		First(&column)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, result.Error
	}
	return &column, nil
}

// GetMaxPosition returns the highest column position on a board, or -1
// when the board has no columns
func (r *ColumnRepository) GetMaxPosition(ctx context.Context, boardID uuid.UUID) (int, error) {
	var maxPosition *int
	result := r.db.WithContext(ctx).Model(&model.Column{}).
		Where("board_id = ?", boardID).
		Select("MAX(position)").
		Scan(&maxPosition)
	if result.Error != nil {
		return 0, result.Error
	}
	if maxPosition == nil {
		return -1, nil
	}
	return *maxPosition, nil
}

// Update saves column changes
func (r *ColumnRepository) Update(ctx context.Context, column *model.Column) error {
	result := r.db.WithContext(ctx).Save(column)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrColumnNotFound
	}
	return nil
}

// Rename changes only the name of a column. Callers run the card cascade
// afterwards; the column row is the source of truth for the new label.
func (r *ColumnRepository) Rename(ctx context.Context, id uuid.UUID, newName string) error {
	result := r.db.WithContext(ctx).Model(&model.Column{}).
		Where("id = ?", id).
		Update("name", newName)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrColumnNotFound
	}
	return nil
}

// Delete removes a column and shifts the positions of the columns after it
func (r *ColumnRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var column model.Column
		if err := tx.First(&column, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrColumnNotFound
			}
			return err
		}

		if err := tx.Delete(&column).Error; err != nil {
			return err
		}

		return tx.Model(&model.Column{}).
			Where("board_id = ? AND position > ?", column.BoardID, column.Position).
			Update("position", gorm.Expr("position - 1")).Error
	})
}
