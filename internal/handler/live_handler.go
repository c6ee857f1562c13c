package handler

import (
	"errors"
	"io"
	"log"
	"net/http"

	"boardsync/internal/kanban"
	"boardsync/internal/live"
	"boardsync/internal/realtime"
	"boardsync/internal/repository"

	"github.com/gin-gonic/gin"
)

// LiveHandler serves the merged board state kept by the server-side engines
// and streams change events to browsers over SSE.
type LiveHandler struct {
	registry *live.Registry
	boards   *repository.BoardRepository
	shares   *repository.BoardShareRepository
	bus      *realtime.Bus
	access   *accessChecker
}

func NewLiveHandler(registry *live.Registry, boards *repository.BoardRepository, shares *repository.BoardShareRepository, bus *realtime.Bus) *LiveHandler {
	return &LiveHandler{
		registry: registry,
		boards:   boards,
		shares:   shares,
		bus:      bus,
		access:   &accessChecker{boards: boards, shares: shares},
	}
}

// viewableBoard verifies read access. Writes the error response itself;
// callers bail out on !ok.
func (h *LiveHandler) viewableBoard(c *gin.Context) (boardOK bool) {
	userID, ok := authedUser(c)
	if !ok {
		return false
	}
	boardID, ok := boardParam(c, "id")
	if !ok {
		return false
	}

	board, err := h.boards.GetByID(c.Request.Context(), boardID)
	if err != nil {
		if errors.Is(err, repository.ErrBoardNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Board not found"})
			return false
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve board"})
		return false
	}
	allowed, err := h.access.canView(c.Request.Context(), board, userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to check access"})
		return false
	}
	if !allowed {
		c.JSON(http.StatusForbidden, gin.H{"error": "You don't have permission to access this board"})
		return false
	}
	return true
}

// Snapshot returns the cards of a board bucketed by group key, exactly as
// the engine renders them after merging realtime events.
func (h *LiveHandler) Snapshot(c *gin.Context) {
	if !h.viewableBoard(c) {
		return
	}
	boardID, _ := boardParam(c, "id")

	engine, err := h.registry.Engine(c.Request.Context(), boardID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to start board engine"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"view":   engine.Store().ViewMode(),
		"groups": engine.Snapshot(),
	})
}

// Events streams the board's change events as SSE until the client
// disconnects.
func (h *LiveHandler) Events(c *gin.Context) {
	if !h.viewableBoard(c) {
		return
	}
	boardID, _ := boardParam(c, "id")

	events := make(chan kanban.Event, 16)
	unsubscribe, err := h.bus.Subscribe(c.Request.Context(), boardID, func(ev kanban.Event) {
		select {
		case events <- ev:
		default:
			// A stalled client drops events; it reloads the snapshot on
			// reconnect.
		}
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to subscribe"})
		return
	}
	defer func() {
		if err := unsubscribe(); err != nil {
			log.Printf("⚠️  could not unsubscribe from board %s: %v", boardID, err)
		}
	}()

	c.Writer.Header().Set("Content-Type", "text/event-stream")
	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Writer.Header().Set("Connection", "keep-alive")

	c.Stream(func(w io.Writer) bool {
		select {
		case ev := <-events:
			c.SSEvent(string(ev.Type), ev)
			return true
		case <-c.Request.Context().Done():
			return false
		}
	})
}
