package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"boardsync/internal/model"
)

type CardRepository struct {
	db *gorm.DB
}

func NewCardRepository(db *gorm.DB) *CardRepository {
	return &CardRepository{db: db}
}

// Create adds a new card to the database
func (r *CardRepository) Create(ctx context.Context, card *model.Card) error {
	return r.db.WithContext(ctx).Create(card).Error
}

// GetByID retrieves a card by its row id
func (r *CardRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Card, error) {
	var card model.Card
	result := r.db.WithContext(ctx).First(&card, "id = ?", id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrCardNotFound
		}
		return nil, result.Error
	}
	return &card, nil
}

// GetByUID retrieves a card by its external identifier within a board
func (r *CardRepository) GetByUID(ctx context.Context, boardID uuid.UUID, uid string) (*model.Card, error) {
	var card model.Card
	result := r.db.WithContext(ctx).First(&card, "board_id = ? AND uid = ?", boardID, uid)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrCardNotFound
		}
		return nil, result.Error
	}
	return &card, nil
}

// ListActive retrieves all non-archived cards of a board in stage and
// position order
func (r *CardRepository) ListActive(ctx context.Context, boardID uuid.UUID) ([]model.Card, error) {
	var cards []model.Card
	result := r.db.WithContext(ctx).
		Where("board_id = ? AND archived = ?", boardID, false).
		Order("stage, position").
		Find(&cards)
	if result.Error != nil {
		return nil, result.Error
	}
	return cards, nil
}

// ListArchived retrieves the archived cards of a board, newest first
func (r *CardRepository) ListArchived(ctx context.Context, boardID uuid.UUID) ([]model.Card, error) {
	var cards []model.Card
	result := r.db.WithContext(ctx).
		Where("board_id = ? AND archived = ?", boardID, true).
		Order("archived_at DESC").
		Find(&cards)
	if result.Error != nil {
		return nil, result.Error
	}
	return cards, nil
}

// Update saves a full card
func (r *CardRepository) Update(ctx context.Context, card *model.Card) error {
	result := r.db.WithContext(ctx).Save(card)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrCardNotFound
	}
	return nil
}

// UpdateFields applies a partial update to a card. This is the persistence
// call behind optimistic moves: only the fields the mutation touched are
// written, last writer wins.
func (r *CardRepository) UpdateFields(ctx context.Context, id uuid.UUID, fields map[string]interface{}) error {
	result := r.db.WithContext(ctx).Model(&model.Card{}).
		Where("id = ?", id).
		Updates(fields)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrCardNotFound
	}
	return nil
}

// Archive soft-deletes a card. Archived cards leave every active view;
// restoring them is an explicit separate operation, never implicit.
func (r *CardRepository) Archive(ctx context.Context, id uuid.UUID) error {
	now := time.Now()
	return r.UpdateFields(ctx, id, map[string]interface{}{
		"archived":    true,
		"archived_at": &now,
	})
}

// Restore brings an archived card back into the active set
func (r *CardRepository) Restore(ctx context.Context, id uuid.UUID) error {
	return r.UpdateFields(ctx, id, map[string]interface{}{
		"archived":    false,
		"archived_at": nil,
	})
}

// Delete removes a card permanently
func (r *CardRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&model.Card{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrCardNotFound
	}
	return nil
}

// CollectIDsByStage returns the row ids of all active cards whose stored
// stage equals the given label
func (r *CardRepository) CollectIDsByStage(ctx context.Context, boardID uuid.UUID, stage string) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	result := r.db.WithContext(ctx).Model(&model.Card{}).
		Where("board_id = ? AND archived = ? AND stage = ?", boardID, false, stage).
		Pluck("id", &ids)
	if result.Error != nil {
		return nil, result.Error
	}
	return ids, nil
}

// RenameStage rewrites the stored stage label of every active card that
// points at oldName, including the nested payload copy when present. Ids
// are collected first, then updated one by one; a partial failure leaves
// some cards on the old label, which the stage resolver reroutes to the
// first column until the cascade is repaired. That degraded state is
// accepted, so the cascade keeps going past individual failures and
// reports them at the end.
func (r *CardRepository) RenameStage(ctx context.Context, boardID uuid.UUID, oldName, newName string) (int, error) {
	ids, err := r.CollectIDsByStage(ctx, boardID, oldName)
	if err != nil {
		return 0, fmt.Errorf("collect cards for rename: %w", err)
	}

	updated := 0
	failed := 0
	for _, id := range ids {
		if err := r.renameCardStage(ctx, id, newName); err != nil {
			failed++
			continue
		}
		updated++
	}
	if failed > 0 {
		return updated, fmt.Errorf("rename cascade %q -> %q: %d of %d cards failed", oldName, newName, failed, len(ids))
	}
	return updated, nil
}

func (r *CardRepository) renameCardStage(ctx context.Context, id uuid.UUID, newName string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var card model.Card
		if err := tx.First(&card, "id = ?", id).Error; err != nil {
			return err
		}
		card.Stage = newName
		if card.Payload != nil {
			if _, ok := card.Payload["stage"]; ok {
				card.Payload["stage"] = newName
			}
		}
		return tx.Save(&card).Error
	})
}
