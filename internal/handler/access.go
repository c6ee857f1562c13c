package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"boardsync/internal/middleware"
	"boardsync/internal/model"
	"boardsync/internal/repository"
)

// accessChecker answers whether a user may see or change a board. The owner
// and the board admin hold full rights; shared users get the role stored on
// the share.
type accessChecker struct {
	boards *repository.BoardRepository
	shares *repository.BoardShareRepository
}

func (a *accessChecker) board(ctx context.Context, boardID uuid.UUID) (*model.Board, error) {
	return a.boards.GetByID(ctx, boardID)
}

func (a *accessChecker) canView(ctx context.Context, board *model.Board, userID uuid.UUID) (bool, error) {
	if board.OwnerID == userID {
		return true, nil
	}
	if board.BoardAdminID != nil && *board.BoardAdminID == userID {
		return true, nil
	}
	role, err := a.shares.CheckAccess(ctx, board.ID, userID)
	if err != nil {
		return false, err
	}
	return role != "", nil
}

func (a *accessChecker) canEdit(ctx context.Context, board *model.Board, userID uuid.UUID) (bool, error) {
	if board.OwnerID == userID {
		return true, nil
	}
	if board.BoardAdminID != nil && *board.BoardAdminID == userID {
		return true, nil
	}
	role, err := a.shares.CheckAccess(ctx, board.ID, userID)
	if err != nil {
		return false, err
	}
	return role == model.RoleEditor, nil
}

// authedUser extracts the authenticated user id set by the auth middleware.
// Writes the error response itself; callers bail out on !ok.
func authedUser(c *gin.Context) (uuid.UUID, bool) {
	userID, exists := c.Get(middleware.UserIDKey)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return uuid.Nil, false
	}
	id, ok := userID.(uuid.UUID)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Invalid user ID format"})
		return uuid.Nil, false
	}
	return id, true
}

// boardParam parses the board id path parameter. Writes the error response
// itself; callers bail out on !ok.
func boardParam(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid ID format"})
		return uuid.Nil, false
	}
	return id, true
}
