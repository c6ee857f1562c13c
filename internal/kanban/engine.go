package kanban

import (
	"context"
	"fmt"
	"log"

	"boardsync/internal/model"

	"github.com/google/uuid"
)

// Engine ties the pieces together for one board: it owns the store, loads
// the canonical snapshot, wires the realtime subscription into the merge
// reducer, and exposes the drag entry point plus a grouped snapshot for
// rendering.
type Engine struct {
	boardID uuid.UUID
	store   *Store
	coord   *Coordinator
	reducer *Reducer
	drag    *DragController
	remote  RemoteStore
	logger  *log.Logger

	unsubscribe func() error
}

func NewEngine(boardID uuid.UUID, mode string, remote RemoteStore, confirm ConfirmFunc, notify NotifyFunc, logger *log.Logger) *Engine {
	if logger == nil {
		logger = log.Default()
	}
	store := NewStore(mode, logger)
	coord := NewCoordinator(boardID, store, remote, confirm, notify, logger)
	return &Engine{
		boardID: boardID,
		store:   store,
		coord:   coord,
		reducer: NewReducer(store, logger),
		drag:    NewDragController(coord, logger),
		remote:  remote,
		logger:  logger,
	}
}

// Start performs the initial load (columns, swimlanes, active cards) and
// attaches the realtime subscription.
func (e *Engine) Start(ctx context.Context) error {
	columns, err := e.remote.ListColumns(ctx, e.boardID)
	if err != nil {
		return fmt.Errorf("load columns: %w", err)
	}
	settings, err := e.remote.BoardSettings(ctx, e.boardID)
	if err != nil {
		return fmt.Errorf("load board settings: %w", err)
	}
	e.store.Configure(columns, settings.Swimlanes)

	cards, err := e.remote.ListCards(ctx, e.boardID)
	if err != nil {
		return fmt.Errorf("load cards: %w", err)
	}
	e.store.Load(cards)

	unsubscribe, err := e.remote.Subscribe(ctx, e.boardID, e.reducer.Apply)
	if err != nil {
		return fmt.Errorf("subscribe: %w", err)
	}
	e.unsubscribe = unsubscribe
	return nil
}

// Stop detaches the realtime subscription.
func (e *Engine) Stop() error {
	if e.unsubscribe == nil {
		return nil
	}
	err := e.unsubscribe()
	e.unsubscribe = nil
	return err
}

// OnDragEnd is the entry point for the drag-and-drop UI layer.
func (e *Engine) OnDragEnd(ctx context.Context, cardID string, src, dst *DropTarget) Outcome {
	return e.drag.OnDragEnd(ctx, cardID, src, dst)
}

// Drag exposes the gesture controller for UIs that report start/cancel.
func (e *Engine) Drag() *DragController {
	return e.drag
}

// CreateCard adds a card optimistically and persists it.
func (e *Engine) CreateCard(ctx context.Context, card model.Card) {
	e.coord.CreateCard(ctx, card)
}

// Snapshot returns the cards bucketed by group key for rendering.
func (e *Engine) Snapshot() map[string][]model.Card {
	return e.store.Snapshot()
}

// Store exposes the underlying card store.
func (e *Engine) Store() *Store {
	return e.store
}

// Coordinator exposes the optimistic mutation coordinator.
func (e *Engine) Coordinator() *Coordinator {
	return e.coord
}

// SetViewMode switches the grouping dimension.
func (e *Engine) SetViewMode(mode string) {
	e.store.SetViewMode(mode)
}
