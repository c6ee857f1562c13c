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

type ColumnHandler struct {
	columns *repository.ColumnRepository
	cards   *repository.CardRepository
	boards  *repository.BoardRepository
	shares  *repository.BoardShareRepository
	bus     *realtime.Bus
	access  *accessChecker
}

func NewColumnHandler(columns *repository.ColumnRepository, cards *repository.CardRepository, boards *repository.BoardRepository, shares *repository.BoardShareRepository, bus *realtime.Bus) *ColumnHandler {
	return &ColumnHandler{
		columns: columns,
		cards:   cards,
		boards:  boards,
		shares:  shares,
		bus:     bus,
		access:  &accessChecker{boards: boards, shares: shares},
	}
}

type CreateColumnRequest struct {
	BoardID           string   `json:"board_id" binding:"required"`
	Name              string   `json:"name" binding:"required"`
	IsDone            bool     `json:"is_done"`
	WIPLimit          *int     `json:"wip_limit"`
	Color             string   `json:"color"`
	ChecklistTemplate []string `json:"checklist_template"`
}

type UpdateColumnRequest struct {
	Name              *string  `json:"name"`
	IsDone            *bool    `json:"is_done"`
	WIPLimit          *int     `json:"wip_limit"`
	Color             *string  `json:"color"`
	ChecklistTemplate []string `json:"checklist_template"`
}

type ColumnResponse struct {
	ID                uuid.UUID `json:"id"`
	BoardID           uuid.UUID `json:"board_id"`
	Name              string    `json:"name"`
	Position          int       `json:"position"`
	IsDone            bool      `json:"is_done"`
	WIPLimit          *int      `json:"wip_limit"`
	Color             string    `json:"color"`
	ChecklistTemplate []string  `json:"checklist_template"`
}

func columnResponse(col *model.Column) ColumnResponse {
	return ColumnResponse{
		ID:                col.ID,
		BoardID:           col.BoardID,
		Name:              col.Name,
		Position:          col.Position,
		IsDone:            col.IsDone,
		WIPLimit:          col.WIPLimit,
		Color:             col.Color,
		ChecklistTemplate: col.ChecklistTemplate,
	}
}

// editableBoard loads the board and verifies edit rights. Writes the error
// response itself; callers bail out on nil.
func (h *ColumnHandler) editableBoard(c *gin.Context, boardID, userID uuid.UUID) *model.Board {
	board, err := h.boards.GetByID(c.Request.Context(), boardID)
	if err != nil {
		if errors.Is(err, repository.ErrBoardNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Board not found"})
			return nil
		}
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
	return board
}

// Create appends a new column at the end of the board
func (h *ColumnHandler) Create(c *gin.Context) {
	userID, ok := authedUser(c)
	if !ok {
		return
	}

	var req CreateColumnRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}
	boardID, err := uuid.Parse(req.BoardID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid board ID format"})
		return
	}

	if h.editableBoard(c, boardID, userID) == nil {
		return
	}

	existing, err := h.columns.GetByName(c.Request.Context(), boardID, req.Name)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to check column name"})
		return
	}
	if existing != nil {
		c.JSON(http.StatusConflict, gin.H{"error": "A column with this name already exists"})
		return
	}

	maxPos, err := h.columns.GetMaxPosition(c.Request.Context(), boardID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to determine column position"})
		return
	}

	column := &model.Column{
		BoardID:           boardID,
		Name:              req.Name,
		Position:          maxPos + 1,
		IsDone:            req.IsDone,
		WIPLimit:          req.WIPLimit,
		Color:             req.Color,
		ChecklistTemplate: req.ChecklistTemplate,
	}
	if err := h.columns.Create(c.Request.Context(), column); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create column"})
		return
	}

	c.JSON(http.StatusCreated, columnResponse(column))
}

// GetAll lists the columns of a board in display order
func (h *ColumnHandler) GetAll(c *gin.Context) {
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

	columns, err := h.columns.GetByBoardID(c.Request.Context(), boardID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve columns"})
		return
	}

	response := make([]ColumnResponse, len(columns))
	for i := range columns {
		response[i] = columnResponse(&columns[i])
	}
	c.JSON(http.StatusOK, response)
}

// Update modifies a column. Renaming cascades onto every card that stores
// the old name and broadcasts the rewritten cards so connected views regroup
// without a reload.
func (h *ColumnHandler) Update(c *gin.Context) {
	userID, ok := authedUser(c)
	if !ok {
		return
	}
	columnID, ok := boardParam(c, "id")
	if !ok {
		return
	}

	column, err := h.columns.GetByID(c.Request.Context(), columnID)
	if err != nil {
		if errors.Is(err, repository.ErrColumnNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Column not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve column"})
		return
	}

	if h.editableBoard(c, column.BoardID, userID) == nil {
		return
	}

	var req UpdateColumnRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	oldName := column.Name
	if req.Name != nil && *req.Name != oldName {
		existing, err := h.columns.GetByName(c.Request.Context(), column.BoardID, *req.Name)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to check column name"})
			return
		}
		if existing != nil {
			c.JSON(http.StatusConflict, gin.H{"error": "A column with this name already exists"})
			return
		}
		column.Name = *req.Name
	}
	if req.IsDone != nil {
		column.IsDone = *req.IsDone
	}
	if req.WIPLimit != nil {
		column.WIPLimit = req.WIPLimit
	}
	if req.Color != nil {
		column.Color = *req.Color
	}
	if req.ChecklistTemplate != nil {
		column.ChecklistTemplate = req.ChecklistTemplate
	}

	if err := h.columns.Update(c.Request.Context(), column); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update column"})
		return
	}

	renamed := 0
	if column.Name != oldName {
		renamed = h.cascadeRename(c, column.BoardID, oldName, column.Name)
	}

	c.JSON(http.StatusOK, gin.H{
		"column":        columnResponse(column),
		"cards_renamed": renamed,
	})
}

// cascadeRename rewrites the cards and broadcasts the result. Card failures
// inside the cascade are logged, not fatal: cards left on the old label fall
// back to the first column until repaired.
func (h *ColumnHandler) cascadeRename(c *gin.Context, boardID uuid.UUID, oldName, newName string) int {
	updated, err := h.cards.RenameStage(c.Request.Context(), boardID, oldName, newName)
	if err != nil {
		log.Printf("⚠️  column rename cascade incomplete on board %s: %v", boardID, err)
	}

	cards, err := h.cards.ListActive(c.Request.Context(), boardID)
	if err != nil {
		log.Printf("⚠️  could not list cards after rename on board %s: %v", boardID, err)
		return updated
	}
	for i := range cards {
		if cards[i].Stage != newName {
			continue
		}
		if err := h.bus.Publish(c.Request.Context(), boardID, kanban.Event{Type: kanban.EventUpdate, Card: cards[i]}); err != nil {
			log.Printf("⚠️  could not broadcast renamed card %s: %v", cards[i].ID, err)
		}
	}
	return updated
}

// Delete removes a column. Cards that still store the deleted name are left
// alone; the stage resolver routes them to the first column.
func (h *ColumnHandler) Delete(c *gin.Context) {
	userID, ok := authedUser(c)
	if !ok {
		return
	}
	columnID, ok := boardParam(c, "id")
	if !ok {
		return
	}

	column, err := h.columns.GetByID(c.Request.Context(), columnID)
	if err != nil {
		if errors.Is(err, repository.ErrColumnNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Column not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve column"})
		return
	}

	if h.editableBoard(c, column.BoardID, userID) == nil {
		return
	}

	if err := h.columns.Delete(c.Request.Context(), columnID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete column"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Column deleted"})
}
