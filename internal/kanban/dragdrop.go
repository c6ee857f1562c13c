package kanban

import (
	"context"
	"log"
	"sync"
)

// DropTarget describes one end of a drag gesture: the bucket and the index
// inside it.
type DropTarget struct {
	GroupKey string `json:"group_key"`
	Index    int    `json:"index"`
}

type gestureState int

const (
	gestureIdle gestureState = iota
	gestureDragging
)

// DragController interprets drag gestures and drives the coordinator. At
// most one gesture is in flight at a time (single-pointer UI); merely
// dragging over candidate targets never mutates the store.
type DragController struct {
	mu     sync.Mutex
	state  gestureState
	cardID string
	coord  *Coordinator
	logger *log.Logger
}

func NewDragController(coord *Coordinator, logger *log.Logger) *DragController {
	if logger == nil {
		logger = log.Default()
	}
	return &DragController{coord: coord, logger: logger}
}

// Start begins a gesture. A second Start while dragging is ignored.
func (d *DragController) Start(cardID string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.state == gestureDragging {
		d.logger.Printf("kanban: drag start ignored, gesture already in flight for %q", d.cardID)
		return
	}
	d.state = gestureDragging
	d.cardID = cardID
}

// Cancel aborts the gesture with no mutation.
func (d *DragController) Cancel() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.state = gestureIdle
	d.cardID = ""
}

// OnDragEnd resolves a finished gesture. A nil destination, or a
// destination identical to the origin, ends the gesture with no mutation;
// anything else goes through the coordinator. The controller returns to
// idle either way.
func (d *DragController) OnDragEnd(ctx context.Context, cardID string, src, dst *DropTarget) Outcome {
	d.mu.Lock()
	d.state = gestureIdle
	d.cardID = ""
	d.mu.Unlock()

	if dst == nil {
		return OutcomeNoop
	}
	if src != nil && src.GroupKey == dst.GroupKey && src.Index == dst.Index {
		return OutcomeNoop
	}
	return d.coord.ApplyMove(ctx, cardID, dst.GroupKey, dst.Index)
}
