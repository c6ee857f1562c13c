package handler

import (
	"errors"
	"log"
	"net/http"

	"boardsync/internal/kanban"
	"boardsync/internal/model"
	"boardsync/internal/realtime"
	"boardsync/internal/repository"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type CardHandler struct {
	cards   *repository.CardRepository
	columns *repository.ColumnRepository
	boards  *repository.BoardRepository
	shares  *repository.BoardShareRepository
	bus     *realtime.Bus
	access  *accessChecker
}

func NewCardHandler(cards *repository.CardRepository, columns *repository.ColumnRepository, boards *repository.BoardRepository, shares *repository.BoardShareRepository, bus *realtime.Bus) *CardHandler {
	return &CardHandler{
		cards:   cards,
		columns: columns,
		boards:  boards,
		shares:  shares,
		bus:     bus,
		access:  &accessChecker{boards: boards, shares: shares},
	}
}

type CreateCardRequest struct {
	BoardID  string        `json:"board_id" binding:"required"`
	UID      string        `json:"uid"`
	Stage    string        `json:"stage" binding:"required"`
	Swimlane string        `json:"swimlane"`
	Assignee string        `json:"assignee"`
	Position *int          `json:"position"`
	Payload  model.Payload `json:"payload"`
}

type UpdateCardRequest struct {
	Swimlane   *string          `json:"swimlane"`
	Assignee   *string          `json:"assignee"`
	Payload    model.Payload    `json:"payload"`
	Checklists model.Checklists `json:"checklists"`
}

type MoveCardRequest struct {
	Stage    string  `json:"stage" binding:"required"`
	Position int     `json:"position"`
	Swimlane *string `json:"swimlane"`
	Assignee *string `json:"assignee"`
}

// editableCard loads a card and verifies the user may change its board.
// Writes the error response itself; callers bail out on nil.
func (h *CardHandler) editableCard(c *gin.Context, cardID, userID uuid.UUID) *model.Card {
	card, err := h.cards.GetByID(c.Request.Context(), cardID)
	if err != nil {
		if errors.Is(err, repository.ErrCardNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Card not found"})
			return nil
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve card"})
		return nil
	}

	board, err := h.boards.GetByID(c.Request.Context(), card.BoardID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve board"})
		return nil
	}
	allowed, err := h.access.canEdit(c.Request.Context(), board, userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to check access"})
		return nil
	}
	if !allowed {
		c.JSON(http.StatusForbidden, gin.H{"error": "You don't have permission to modify this board"})
		return nil
	}
	return card
}

func (h *CardHandler) publish(c *gin.Context, boardID uuid.UUID, ev kanban.Event) {
	if err := h.bus.Publish(c.Request.Context(), boardID, ev); err != nil {
		log.Printf("⚠️  could not broadcast card event for board %s: %v", boardID, err)
	}
}

// Create adds a card to a board and broadcasts the insert
func (h *CardHandler) Create(c *gin.Context) {
	userID, ok := authedUser(c)
	if !ok {
		return
	}

	var req CreateCardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}
	boardID, err := uuid.Parse(req.BoardID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid board ID format"})
		return
	}

	board, err := h.boards.GetByID(c.Request.Context(), boardID)
	if err != nil {
		if errors.Is(err, repository.ErrBoardNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Board not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve board"})
		return
	}
	allowed, err := h.access.canEdit(c.Request.Context(), board, userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to check access"})
		return
	}
	if !allowed {
		c.JSON(http.StatusForbidden, gin.H{"error": "You don't have permission to modify this board"})
		return
	}

	column, err := h.columns.GetByName(c.Request.Context(), boardID, req.Stage)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to check stage"})
		return
	}
	if column == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown column"})
		return
	}

	position := 0
	if req.Position != nil {
		position = *req.Position
	}

	card := &model.Card{
		UID:      req.UID,
		BoardID:  boardID,
		Stage:    req.Stage,
		Swimlane: req.Swimlane,
		Assignee: req.Assignee,
		Position: position,
		Payload:  req.Payload,
	}
	if err := h.cards.Create(c.Request.Context(), card); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create card"})
		return
	}

	h.publish(c, boardID, kanban.Event{Type: kanban.EventInsert, Card: *card})
	c.JSON(http.StatusCreated, card)
}

// GetByBoard lists the active cards of a board in stage and position order
func (h *CardHandler) GetByBoard(c *gin.Context) {
	userID, ok := authedUser(c)
	if !ok {
		return
	}
	boardID, ok := boardParam(c, "id")
	if !ok {
		return
	}

	board, err := h.boards.GetByID(c.Request.Context(), boardID)
	if err != nil {
		if errors.Is(err, repository.ErrBoardNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Board not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve board"})
		return
	}
	allowed, err := h.access.canView(c.Request.Context(), board, userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to check access"})
		return
	}
	if !allowed {
		c.JSON(http.StatusForbidden, gin.H{"error": "You don't have permission to access this board"})
		return
	}

	var cards []model.Card
	if c.Query("archived") == "true" {
		cards, err = h.cards.ListArchived(c.Request.Context(), boardID)
	} else {
		cards, err = h.cards.ListActive(c.Request.Context(), boardID)
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve cards"})
		return
	}

	c.JSON(http.StatusOK, cards)
}

// Update changes card content fields and broadcasts the new state
func (h *CardHandler) Update(c *gin.Context) {
	userID, ok := authedUser(c)
	if !ok {
		return
	}
	cardID, ok := boardParam(c, "id")
	if !ok {
		return
	}

	card := h.editableCard(c, cardID, userID)
	if card == nil {
		return
	}

	var req UpdateCardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	if req.Swimlane != nil {
		card.Swimlane = *req.Swimlane
	}
	if req.Assignee != nil {
		card.Assignee = *req.Assignee
	}
	if req.Payload != nil {
		card.Payload = req.Payload
	}
	if req.Checklists != nil {
		card.Checklists = req.Checklists
	}

	if err := h.cards.Update(c.Request.Context(), card); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update card"})
		return
	}

	h.publish(c, card.BoardID, kanban.Event{Type: kanban.EventUpdate, Card: *card})
	c.JSON(http.StatusOK, card)
}

// Move places a card on a stage and position and broadcasts the update.
// The server stores what it is told; per-group position bookkeeping happens
// in the card engines on load and merge.
func (h *CardHandler) Move(c *gin.Context) {
	userID, ok := authedUser(c)
	if !ok {
		return
	}
	cardID, ok := boardParam(c, "id")
	if !ok {
		return
	}

	card := h.editableCard(c, cardID, userID)
	if card == nil {
		return
	}

	var req MoveCardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}
	if req.Position < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Position must not be negative"})
		return
	}

	column, err := h.columns.GetByName(c.Request.Context(), card.BoardID, req.Stage)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to check stage"})
		return
	}
	if column == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown column"})
		return
	}

	fields := map[string]interface{}{
		"stage":    req.Stage,
		"position": req.Position,
	}
	if req.Swimlane != nil {
		fields["swimlane"] = *req.Swimlane
	}
	if req.Assignee != nil {
		fields["assignee"] = *req.Assignee
	}

	if err := h.cards.UpdateFields(c.Request.Context(), cardID, fields); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to move card"})
		return
	}

	moved, err := h.cards.GetByID(c.Request.Context(), cardID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve card"})
		return
	}

	h.publish(c, moved.BoardID, kanban.Event{Type: kanban.EventUpdate, Card: *moved})
	c.JSON(http.StatusOK, moved)
}

// Archive removes a card from the active views. The broadcast carries the
// archived flag, which every engine treats as a removal.
func (h *CardHandler) Archive(c *gin.Context) {
	userID, ok := authedUser(c)
	if !ok {
		return
	}
	cardID, ok := boardParam(c, "id")
	if !ok {
		return
	}

	card := h.editableCard(c, cardID, userID)
	if card == nil {
		return
	}

	if err := h.cards.Archive(c.Request.Context(), cardID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to archive card"})
		return
	}

	archived, err := h.cards.GetByID(c.Request.Context(), cardID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve card"})
		return
	}

	h.publish(c, archived.BoardID, kanban.Event{Type: kanban.EventUpdate, Card: *archived})
	c.JSON(http.StatusOK, gin.H{"message": "Card archived"})
}

// Restore brings an archived card back and broadcasts it as an insert
func (h *CardHandler) Restore(c *gin.Context) {
	userID, ok := authedUser(c)
	if !ok {
		return
	}
	cardID, ok := boardParam(c, "id")
	if !ok {
		return
	}

	card := h.editableCard(c, cardID, userID)
	if card == nil {
		return
	}

	if err := h.cards.Restore(c.Request.Context(), cardID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to restore card"})
		return
	}

	restored, err := h.cards.GetByID(c.Request.Context(), cardID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve card"})
		return
	}

	h.publish(c, restored.BoardID, kanban.Event{Type: kanban.EventInsert, Card: *restored})
	c.JSON(http.StatusOK, restored)
}

// Delete removes a card permanently and broadcasts the deletion
func (h *CardHandler) Delete(c *gin.Context) {
	userID, ok := authedUser(c)
	if !ok {
		return
	}
	cardID, ok := boardParam(c, "id")
	if !ok {
		return
	}

	card := h.editableCard(c, cardID, userID)
	if card == nil {
		return
	}

	if err := h.cards.Delete(c.Request.Context(), cardID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete card"})
		return
	}

	h.publish(c, card.BoardID, kanban.Event{Type: kanban.EventDelete, Card: *card})
	c.JSON(http.StatusOK, gin.H{"message": "Card deleted"})
}
