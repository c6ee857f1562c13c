package handler

import (
	"errors"
	"net/http"
	"time"

	"boardsync/internal/model"
	"boardsync/internal/repository"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type AttendanceHandler struct {
	records *repository.AttendanceRepository
	boards  *repository.BoardRepository
	shares  *repository.BoardShareRepository
	access  *accessChecker
}

func NewAttendanceHandler(records *repository.AttendanceRepository, boards *repository.BoardRepository, shares *repository.BoardShareRepository) *AttendanceHandler {
	return &AttendanceHandler{
		records: records,
		boards:  boards,
		shares:  shares,
		access:  &accessChecker{boards: boards, shares: shares},
	}
}

type CreateAttendanceRequest struct {
	Person  string `json:"person" binding:"required"`
	Day     string `json:"day" binding:"required"`
	Present *bool  `json:"present"`
	Note    string `json:"note"`
}

func (h *AttendanceHandler) checkEdit(c *gin.Context, boardID, userID uuid.UUID) bool {
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

// Create records who attended the standup on a given day
func (h *AttendanceHandler) Create(c *gin.Context) {
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

	var req CreateAttendanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}
	day, err := time.Parse("2006-01-02", req.Day)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Day must be YYYY-MM-DD"})
		return
	}

	present := true
	if req.Present != nil {
		present = *req.Present
	}

	record := &model.AttendanceRecord{
		BoardID: boardID,
		Person:  req.Person,
		Day:     day,
		Present: present,
		Note:    req.Note,
	}
	if err := h.records.Create(c.Request.Context(), record); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to record attendance"})
		return
	}

	c.JSON(http.StatusCreated, record)
}

// GetByBoard lists attendance, optionally narrowed to one day
func (h *AttendanceHandler) GetByBoard(c *gin.Context) {
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

	var records []model.AttendanceRecord
	var err error
	if dayStr := c.Query("day"); dayStr != "" {
		day, perr := time.Parse("2006-01-02", dayStr)
		if perr != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Day must be YYYY-MM-DD"})
			return
		}
		records, err = h.records.GetByBoardAndDay(c.Request.Context(), boardID, day)
	} else {
		records, err = h.records.GetByBoardID(c.Request.Context(), boardID)
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve attendance"})
		return
	}

	c.JSON(http.StatusOK, records)
}
