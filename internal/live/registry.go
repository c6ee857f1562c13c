package live

import (
	"context"
	"log"
	"sync"

	"github.com/google/uuid"

	"boardsync/internal/kanban"
	"boardsync/internal/model"
)

// Registry lazily starts and caches one engine per board.
type Registry struct {
	remote *Remote
	logger *log.Logger

	mu      sync.Mutex
	engines map[uuid.UUID]*kanban.Engine
}

func NewRegistry(remote *Remote, logger *log.Logger) *Registry {
	if logger == nil {
		logger = log.Default()
	}
	return &Registry{
		remote:  remote,
		logger:  logger,
		engines: make(map[uuid.UUID]*kanban.Engine),
	}
}

// Engine returns the running engine for a board, starting one on first use.
// The board's configured default view decides the grouping dimension.
func (r *Registry) Engine(ctx context.Context, boardID uuid.UUID) (*kanban.Engine, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if engine, ok := r.engines[boardID]; ok {
		return engine, nil
	}

	settings, err := r.remote.BoardSettings(ctx, boardID)
	if err != nil {
		return nil, err
	}
	mode := settings.DefaultView
	if mode == "" {
		mode = model.ViewColumns
	}

	notify := func(n kanban.Notice) {
		r.logger.Printf("live: board %s notice: %s", boardID, n.Message)
	}
	engine := kanban.NewEngine(boardID, mode, r.remote, nil, notify, r.logger)
	if err := engine.Start(ctx); err != nil {
		return nil, err
	}
	r.engines[boardID] = engine
	return engine, nil
}

// Drop stops and forgets a board's engine. Used when a board is archived.
func (r *Registry) Drop(boardID uuid.UUID) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if engine, ok := r.engines[boardID]; ok {
		if err := engine.Stop(); err != nil {
			r.logger.Printf("live: stopping engine for board %s: %v", boardID, err)
		}
		delete(r.engines, boardID)
	}
}

// Shutdown stops every running engine.
func (r *Registry) Shutdown() {
	r.mu.Lock()
	defer r.mu.Unlock()

	for id, engine := range r.engines {
		if err := engine.Stop(); err != nil {
			r.logger.Printf("live: stopping engine for board %s: %v", id, err)
		}
		delete(r.engines, id)
	}
}
