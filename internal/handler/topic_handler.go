package handler

import (
	"errors"
	"net/http"

	"boardsync/internal/model"
	"boardsync/internal/repository"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type TopicHandler struct {
	topics *repository.TopicRepository
	boards *repository.BoardRepository
	shares *repository.BoardShareRepository
	access *accessChecker
}

func NewTopicHandler(topics *repository.TopicRepository, boards *repository.BoardRepository, shares *repository.BoardShareRepository) *TopicHandler {
	return &TopicHandler{
		topics: topics,
		boards: boards,
		shares: shares,
		access: &accessChecker{boards: boards, shares: shares},
	}
}

type CreateTopicRequest struct {
	Title  string `json:"title" binding:"required"`
	Body   string `json:"body"`
	Pinned bool   `json:"pinned"`
}

type UpdateTopicRequest struct {
	Title  *string `json:"title"`
	Body   *string `json:"body"`
	Pinned *bool   `json:"pinned"`
}

func (h *TopicHandler) checkEdit(c *gin.Context, boardID, userID uuid.UUID) bool {
	board, err := h.boards.GetByID(c.Request.Context(), boardID)
	if err != nil {
		if errors.Is(err, repository.ErrBoardNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Board not found"})
			return false
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve board"})
		return false
	}
	allowed, err := h.access.canEdit(c.Request.Context(), board, userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to check access"})
		return false
	}
	if !allowed {
		c.JSON(http.StatusForbidden, gin.H{"error": "You don't have permission to modify this board"})
		return false
	}
	return true
}

// Create adds a top topic to a board
func (h *TopicHandler) Create(c *gin.Context) {
	userID, ok := authedUser(c)
	if !ok {
		return
	}
	boardID, ok := boardParam(c, "id")
	if !ok {
		return
	}
	if !h.checkEdit(c, boardID, userID) {
		return
	}

	var req CreateTopicRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	topic := &model.Topic{
		BoardID:   boardID,
		Title:     req.Title,
		Body:      req.Body,
		Pinned:    req.Pinned,
		CreatedBy: userID,
	}
	if err := h.topics.Create(c.Request.Context(), topic); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create topic"})
		return
	}

	c.JSON(http.StatusCreated, topic)
}

// GetByBoard lists a board's topics, pinned first
func (h *TopicHandler) GetByBoard(c *gin.Context) {
	userID, ok := authedUser(c)
	if !ok {
		return
	}
	boardID, ok := boardParam(c, "id")
	if !ok {
		return
	}
	if !h.checkEdit(c, boardID, userID) {
		return
	}

	topics, err := h.topics.GetByBoardID(c.Request.Context(), boardID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve topics"})
		return
	}

	c.JSON(http.StatusOK, topics)
}

// Update edits a topic
func (h *TopicHandler) Update(c *gin.Context) {
	userID, ok := authedUser(c)
	if !ok {
		return
	}
	topicID, ok := boardParam(c, "id")
	if !ok {
		return
	}

	topic, err := h.topics.GetByID(c.Request.Context(), topicID)
	if err != nil {
		if errors.Is(err, repository.ErrTopicNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Topic not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve topic"})
		return
	}
	if !h.checkEdit(c, topic.BoardID, userID) {
		return
	}

	var req UpdateTopicRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}
	if req.Title != nil {
		topic.Title = *req.Title
	}
	if req.Body != nil {
		topic.Body = *req.Body
	}
	if req.Pinned != nil {
		topic.Pinned = *req.Pinned
	}

	if err := h.topics.Update(c.Request.Context(), topic); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update topic"})
		return
	}

	c.JSON(http.StatusOK, topic)
}

// Delete removes a topic
func (h *TopicHandler) Delete(c *gin.Context) {
	userID, ok := authedUser(c)
	if !ok {
		return
	}
	topicID, ok := boardParam(c, "id")
	if !ok {
		return
	}

	topic, err := h.topics.GetByID(c.Request.Context(), topicID)
	if err != nil {
		if errors.Is(err, repository.ErrTopicNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Topic not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve topic"})
		return
	}
	if !h.checkEdit(c, topic.BoardID, userID) {
		return
	}

	if err := h.topics.Delete(c.Request.Context(), topicID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete topic"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Topic deleted"})
}
