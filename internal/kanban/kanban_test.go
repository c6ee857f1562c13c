package kanban_test

import (
	"context"
	"sync"

	"boardsync/internal/kanban"
	"boardsync/internal/model"

	"github.com/google/uuid"
)

// fakeRemote is an in-memory RemoteStore with injectable failures and call
// counters, shared by the coordinator, reducer and engine tests.
type fakeRemote struct {
	mu sync.Mutex

	cards    []model.Card
	columns  []model.Column
	settings model.BoardSettings

	updateErr error
	insertErr error

	updateCalls int
	listCalls   int
	lastFields  map[string]interface{}

	subscribers []func(kanban.Event)
}

func (f *fakeRemote) ListCards(ctx context.Context, boardID uuid.UUID) ([]model.Card, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.listCalls++
	return append([]model.Card(nil), f.cards...), nil
}

func (f *fakeRemote) InsertCard(ctx context.Context, card *model.Card) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.insertErr != nil {
		return f.insertErr
	}
	if card.ID == uuid.Nil {
		card.ID = uuid.New()
	}
	f.cards = append(f.cards, *card)
	return nil
}

func (f *fakeRemote) UpdateCard(ctx context.Context, id uuid.UUID, fields map[string]interface{}) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.updateCalls++
	f.lastFields = fields
	return f.updateErr
}

func (f *fakeRemote) ListColumns(ctx context.Context, boardID uuid.UUID) ([]model.Column, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]model.Column(nil), f.columns...), nil
}

func (f *fakeRemote) BoardSettings(ctx context.Context, boardID uuid.UUID) (model.BoardSettings, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.settings, nil
}

func (f *fakeRemote) Subscribe(ctx context.Context, boardID uuid.UUID, fn func(kanban.Event)) (func() error, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.subscribers = append(f.subscribers, fn)
	return func() error { return nil }, nil
}

func (f *fakeRemote) push(ev kanban.Event) {
	f.mu.Lock()
	subs := append(([]func(kanban.Event))(nil), f.subscribers...)
	f.mu.Unlock()
	for _, fn := range subs {
		fn(ev)
	}
}

func (f *fakeRemote) updates() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.updateCalls
}

// threeColumns is the standard Backlog/Doing/Done test board.
func threeColumns() []model.Column {
	boardID := uuid.New()
	return []model.Column{
		{ID: uuid.New(), BoardID: boardID, Name: "Backlog", Position: 0},
		{ID: uuid.New(), BoardID: boardID, Name: "Doing", Position: 1},
		{ID: uuid.New(), BoardID: boardID, Name: "Done", Position: 2, IsDone: true},
	}
}

func cardWithUID(uid, stage string, position int) model.Card {
	return model.Card{
		ID:       uuid.New(),
		UID:      uid,
		Stage:    stage,
		Position: position,
	}
}
