package handler

import (
	"errors"
	"net/http"
	"strings"

	"boardsync/internal/model"
	"boardsync/internal/repository"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type BoardShareHandler struct {
	boards *repository.BoardRepository
	users  *repository.UserRepository
	shares *repository.BoardShareRepository
}

func NewBoardShareHandler(boards *repository.BoardRepository, users *repository.UserRepository, shares *repository.BoardShareRepository) *BoardShareHandler {
	return &BoardShareHandler{boards: boards, users: users, shares: shares}
}

type ShareBoardRequest struct {
	Email string `json:"email" binding:"required,email"`
	Role  string `json:"role" binding:"required"`
}

// ownedBoard loads the board and verifies the caller owns it. Only owners
// manage sharing.
func (h *BoardShareHandler) ownedBoard(c *gin.Context, boardID, userID uuid.UUID) *model.Board {
	board, err := h.boards.GetByID(c.Request.Context(), boardID)
	if err != nil {
		if errors.Is(err, repository.ErrBoardNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Board not found"})
			return nil
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve board"})
		return nil
	}
	if board.OwnerID != userID {
		c.JSON(http.StatusForbidden, gin.H{"error": "Only the owner can manage sharing"})
		return nil
	}
	return board
}

// ShareBoard grants a user viewer or editor access to a board
func (h *BoardShareHandler) ShareBoard(c *gin.Context) {
	userID, ok := authedUser(c)
	if !ok {
		return
	}
	boardID, ok := boardParam(c, "id")
	if !ok {
		return
	}

	if h.ownedBoard(c, boardID, userID) == nil {
		return
	}

	var req ShareBoardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}
	if req.Role != model.RoleViewer && req.Role != model.RoleEditor {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Role must be viewer or editor"})
		return
	}

	target, err := h.users.FindByEmail(c.Request.Context(), strings.ToLower(req.Email))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "DB error"})
		return
	}
	if target == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}
	if target.ID == userID {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Cannot share a board with yourself"})
		return
	}

	existing, err := h.shares.CheckAccess(c.Request.Context(), boardID, target.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to check existing share"})
		return
	}
	if existing != "" {
		c.JSON(http.StatusConflict, gin.H{"error": "Board is already shared with this user"})
		return
	}

	share := &model.BoardShare{
		BoardID: boardID,
		UserID:  target.ID,
		Role:    req.Role,
	}
	if err := h.shares.Create(c.Request.Context(), share); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to share board"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"board_id": boardID,
		"user_id":  target.ID,
		"role":     req.Role,
	})
}

// GetBoardShares lists who a board is shared with
func (h *BoardShareHandler) GetBoardShares(c *gin.Context) {
	userID, ok := authedUser(c)
	if !ok {
		return
	}
	boardID, ok := boardParam(c, "id")
	if !ok {
		return
	}

	if h.ownedBoard(c, boardID, userID) == nil {
		return
	}

	shares, err := h.shares.GetByBoardID(c.Request.Context(), boardID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve shares"})
		return
	}

	c.JSON(http.StatusOK, shares)
}

// RemoveShare revokes a user's access
func (h *BoardShareHandler) RemoveShare(c *gin.Context) {
	userID, ok := authedUser(c)
	if !ok {
		return
	}
	boardID, ok := boardParam(c, "id")
	if !ok {
		return
	}
	targetID, err := uuid.Parse(c.Param("user_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid ID format"})
		return
	}

	if h.ownedBoard(c, boardID, userID) == nil {
		return
	}

	if err := h.shares.Delete(c.Request.Context(), boardID, targetID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to remove share"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Share removed"})
}
