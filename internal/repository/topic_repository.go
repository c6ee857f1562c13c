package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"boardsync/internal/model"
)

type TopicRepository struct {
	db *gorm.DB
}

func NewTopicRepository(db *gorm.DB) *TopicRepository {
	return &TopicRepository{db: db}
}

// Create adds a new topic
func (r *TopicRepository) Create(ctx context.Context, topic *model.Topic) error {
	return r.db.WithContext(ctx).Create(topic).Error
}

// GetByID retrieves a topic by ID
func (r *TopicRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Topic, error) {
	var topic model.Topic
	result := r.db.WithContext(ctx).First(&topic, "id = ?", id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrTopicNotFound
		}
		return nil, result.Error
	}
	return &topic, nil
}

// GetByBoardID retrieves a board's topics, pinned ones first
func (r *TopicRepository) GetByBoardID(ctx context.Context, boardID uuid.UUID) ([]model.Topic, error) {
	var topics []model.Topic
	result := r.db.WithContext(ctx).
		Where("board_id = ?", boardID).
		Order("pinned DESC, created_at DESC").
		Find(&topics)
	if result.Error != nil {
		return nil, result.Error
	}
	return topics, nil
}

// Update saves topic changes
func (r *TopicRepository) Update(ctx context.Context, topic *model.Topic) error {
	result := r.db.WithContext(ctx).Save(topic)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrTopicNotFound
	}
	return nil
}

// Delete removes a topic
func (r *TopicRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&model.Topic{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrTopicNotFound
	}
	return nil
}
