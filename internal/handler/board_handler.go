package handler

import (
	"errors"
	"net/http"

	"boardsync/internal/live"
	"boardsync/internal/model"
	"boardsync/internal/repository"

	"github.com/gin-gonic/gin"
)

type BoardHandler struct {
	boards   *repository.BoardRepository
	shares   *repository.BoardShareRepository
	registry *live.Registry
	access   *accessChecker
}

func NewBoardHandler(boards *repository.BoardRepository, shares *repository.BoardShareRepository, registry *live.Registry) *BoardHandler {
	return &BoardHandler{
		boards:   boards,
		shares:   shares,
		registry: registry,
		access:   &accessChecker{boards: boards, shares: shares},
	}
}

type CreateBoardRequest struct {
	Name        string              `json:"name" binding:"required"`
	Description string              `json:"description"`
	Settings    model.BoardSettings `json:"settings"`
}

type UpdateBoardRequest struct {
	Name        string               `json:"name"`
	Description string               `json:"description"`
	Settings    *model.BoardSettings `json:"settings"`
}

type BoardResponse struct {
	ID          string              `json:"id"`
	Name        string              `json:"name"`
	Description string              `json:"description"`
	OwnerID     string              `json:"owner_id"`
	Settings    model.BoardSettings `json:"settings"`
	CreatedAt   string              `json:"created_at"`
}

func boardResponse(board *model.Board) BoardResponse {
	return BoardResponse{
		ID:          board.ID.String(),
		Name:        board.Name,
		Description: board.Description,
		OwnerID:     board.OwnerID.String(),
		Settings:    board.Settings,
		CreatedAt:   board.CreatedAt.Format(http.TimeFormat),
	}
}

// Create creates a new board for the authenticated user
func (h *BoardHandler) Create(c *gin.Context) {
	ownerID, ok := authedUser(c)
	if !ok {
		return
	}

	var req CreateBoardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	if req.Settings.DefaultView == "" {
		req.Settings.DefaultView = model.ViewColumns
	}

	board := &model.Board{
		Name:        req.Name,
		Description: req.Description,
		OwnerID:     ownerID,
		Settings:    req.Settings,
	}

	if err := h.boards.Create(c.Request.Context(), board); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create board"})
		return
	}

	c.JSON(http.StatusCreated, boardResponse(board))
}

// GetAll returns the boards the user owns plus the ones shared with them
func (h *BoardHandler) GetAll(c *gin.Context) {
	userID, ok := authedUser(c)
	if !ok {
		return
	}

	owned, err := h.boards.GetByOwnerID(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve boards"})
		return
	}

	shares, err := h.shares.GetByUserID(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve shared boards"})
		return
	}

	response := make([]BoardResponse, 0, len(owned)+len(shares))
	for i := range owned {
		response = append(response, boardResponse(&owned[i]))
	}
	for _, share := range shares {
		board, err := h.boards.GetByID(c.Request.Context(), share.BoardID)
		if err != nil {
			if errors.Is(err, repository.ErrBoardNotFound) {
				continue
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve shared boards"})
			return
		}
		if board.Archived {
			continue
		}
		response = append(response, boardResponse(board))
	}

	c.JSON(http.StatusOK, response)
}

func (h *BoardHandler) GetByID(c *gin.Context) {
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

	c.JSON(http.StatusOK, boardResponse(board))
}

func (h *BoardHandler) Update(c *gin.Context) {
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

	allowed, err := h.access.canEdit(c.Request.Context(), board, userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to check access"})
		return
	}
	if !allowed {
		c.JSON(http.StatusForbidden, gin.H{"error": "You don't have permission to update this board"})
		return
	}

	var req UpdateBoardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	if req.Name != "" {
		board.Name = req.Name
	}
	if req.Description != "" {
		board.Description = req.Description
	}
	if req.Settings != nil {
		board.Settings = *req.Settings
	}

	if err := h.boards.Update(c.Request.Context(), board); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update board"})
		return
	}

	c.JSON(http.StatusOK, boardResponse(board))
}

// Archive soft-deletes a board and stops its live engine. Only the owner may
// archive.
func (h *BoardHandler) Archive(c *gin.Context) {
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

	if board.OwnerID != userID {
		c.JSON(http.StatusForbidden, gin.H{"error": "Only the owner can archive a board"})
		return
	}

	if err := h.boards.Archive(c.Request.Context(), boardID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to archive board"})
		return
	}
	h.registry.Drop(boardID)

	c.JSON(http.StatusOK, gin.H{"message": "Board archived"})
}
