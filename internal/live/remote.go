// Package live hosts one card engine per board on the server so that
// snapshot and event endpoints serve the same merged state every client
// converges to.
package live

import (
	"context"

	"github.com/google/uuid"

	"boardsync/internal/kanban"
	"boardsync/internal/model"
	"boardsync/internal/realtime"
	"boardsync/internal/repository"
)

// Remote adapts the repositories and the event bus to the engine's
// persistence interface. Mutations publish the resulting card state so
// every other subscriber converges on it.
type Remote struct {
	cards   *repository.CardRepository
	columns *repository.ColumnRepository
	boards  *repository.BoardRepository
	bus     *realtime.Bus
}

func NewRemote(cards *repository.CardRepository, columns *repository.ColumnRepository, boards *repository.BoardRepository, bus *realtime.Bus) *Remote {
	return &Remote{cards: cards, columns: columns, boards: boards, bus: bus}
}

func (r *Remote) ListCards(ctx context.Context, boardID uuid.UUID) ([]model.Card, error) {
	return r.cards.ListActive(ctx, boardID)
}

func (r *Remote) InsertCard(ctx context.Context, card *model.Card) error {
	if err := r.cards.Create(ctx, card); err != nil {
		return err
	}
	return r.bus.Publish(ctx, card.BoardID, kanban.Event{Type: kanban.EventInsert, Card: *card})
}

func (r *Remote) UpdateCard(ctx context.Context, id uuid.UUID, fields map[string]interface{}) error {
	if err := r.cards.UpdateFields(ctx, id, fields); err != nil {
		return err
	}
	updated, err := r.cards.GetByID(ctx, id)
	if err != nil {
		return err
	}
	return r.bus.Publish(ctx, updated.BoardID, kanban.Event{Type: kanban.EventUpdate, Card: *updated})
}

func (r *Remote) ListColumns(ctx context.Context, boardID uuid.UUID) ([]model.Column, error) {
	return r.columns.GetByBoardID(ctx, boardID)
}

func (r *Remote) BoardSettings(ctx context.Context, boardID uuid.UUID) (model.BoardSettings, error) {
	board, err := r.boards.GetByID(ctx, boardID)
	if err != nil {
		return model.BoardSettings{}, err
	}
	return board.Settings, nil
}

func (r *Remote) Subscribe(ctx context.Context, boardID uuid.UUID, fn func(kanban.Event)) (func() error, error) {
	return r.bus.Subscribe(ctx, boardID, fn)
}
