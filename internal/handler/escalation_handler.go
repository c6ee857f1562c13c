package handler

import (
	"errors"
	"net/http"

	"boardsync/internal/kanban"
	"boardsync/internal/model"
	"boardsync/internal/realtime"
	"boardsync/internal/repository"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type EscalationHandler struct {
	escalations *repository.EscalationRepository
	cards       *repository.CardRepository
	boards      *repository.BoardRepository
	shares      *repository.BoardShareRepository
	bus         *realtime.Bus
	access      *accessChecker
}

func NewEscalationHandler(escalations *repository.EscalationRepository, cards *repository.CardRepository, boards *repository.BoardRepository, shares *repository.BoardShareRepository, bus *realtime.Bus) *EscalationHandler {
	return &EscalationHandler{
		escalations: escalations,
		cards:       cards,
		boards:      boards,
		shares:      shares,
		bus:         bus,
		access:      &accessChecker{boards: boards, shares: shares},
	}
}

type CreateEscalationRequest struct {
	CardUID string `json:"card_uid" binding:"required"`
	Level   string `json:"level" binding:"required"`
	Reason  string `json:"reason"`
}

func (h *EscalationHandler) checkEdit(c *gin.Context, boardID, userID uuid.UUID) bool {
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

// markCard writes the escalation status into the card payload and broadcasts
// the change so the status coloring updates everywhere.
func (h *EscalationHandler) markCard(c *gin.Context, boardID uuid.UUID, cardUID, status string) {
	card, err := h.cards.GetByUID(c.Request.Context(), boardID, cardUID)
	if err != nil {
		// Escalations reference cards by external id; a record may outlive
		// its card.
		return
	}
	if card.Payload == nil {
		card.Payload = model.Payload{}
	}
	card.Payload["status"] = status
	if err := h.cards.UpdateFields(c.Request.Context(), card.ID, map[string]interface{}{
		"payload": card.Payload,
	}); err != nil {
		return
	}
	_ = h.bus.Publish(c.Request.Context(), boardID, kanban.Event{Type: kanban.EventUpdate, Card: *card})
}

// Create escalates a card
func (h *EscalationHandler) Create(c *gin.Context) {
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

	var req CreateEscalationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	record := &model.EscalationRecord{
		BoardID: boardID,
		CardUID: req.CardUID,
		Level:   req.Level,
		Reason:  req.Reason,
	}
	if err := h.escalations.Create(c.Request.Context(), record); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create escalation"})
		return
	}

	h.markCard(c, boardID, req.CardUID, "escalated")
	c.JSON(http.StatusCreated, record)
}

// GetOpen lists a board's unresolved escalations
func (h *EscalationHandler) GetOpen(c *gin.Context) {
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

	records, err := h.escalations.GetOpenByBoardID(c.Request.Context(), boardID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve escalations"})
		return
	}

	c.JSON(http.StatusOK, records)
}

// Resolve closes an escalation and clears the card's escalated status
func (h *EscalationHandler) Resolve(c *gin.Context) {
	userID, ok := authedUser(c)
	if !ok {
		return
	}
	boardID, ok := boardParam(c, "id")
	if !ok {
		return
	}
	escalationID, err := uuid.Parse(c.Param("escalation_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid ID format"})
		return
	}
	if !h.checkEdit(c, boardID, userID) {
		return
	}

	records, err := h.escalations.GetOpenByBoardID(c.Request.Context(), boardID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve escalations"})
		return
	}
	var target *model.EscalationRecord
	for i := range records {
		if records[i].ID == escalationID {
			target = &records[i]
			break
		}
	}
	if target == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Escalation not found"})
		return
	}

	if err := h.escalations.Resolve(c.Request.Context(), escalationID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to resolve escalation"})
		return
	}

	h.markCard(c, boardID, target.CardUID, "resolved")
	c.JSON(http.StatusOK, gin.H{"message": "Escalation resolved"})
}
