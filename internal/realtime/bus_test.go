package realtime_test

import (
	"context"
	"testing"
	"time"

	"boardsync/internal/kanban"
	"boardsync/internal/model"
	"boardsync/internal/realtime"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
)

func setupBus(t *testing.T) *realtime.Bus {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	bus := realtime.NewBusWithClient(client, nil)
	t.Cleanup(func() { _ = bus.Close() })
	return bus
}

func TestBus_PublishReachesSubscriber(t *testing.T) {
	bus := setupBus(t)
	boardID := uuid.New()

	received := make(chan kanban.Event, 1)
	unsubscribe, err := bus.Subscribe(context.Background(), boardID, func(ev kanban.Event) {
		received <- ev
	})
	assert.NoError(t, err)
	defer func() { assert.NoError(t, unsubscribe()) }()

	sent := kanban.Event{
		Type: kanban.EventUpdate,
		Card: model.Card{UID: "c1", Stage: "Doing", Position: 2},
	}
	assert.NoError(t, bus.Publish(context.Background(), boardID, sent))

	select {
	case got := <-received:
		assert.Equal(t, kanban.EventUpdate, got.Type)
		assert.Equal(t, "c1", got.Card.UID)
		assert.Equal(t, "Doing", got.Card.Stage)
		assert.Equal(t, 2, got.Card.Position)
	case <-time.After(2 * time.Second):
		t.Fatal("event was not delivered")
	}
}

func TestBus_BoardsAreIsolated(t *testing.T) {
	bus := setupBus(t)
	boardA := uuid.New()
	boardB := uuid.New()

	received := make(chan kanban.Event, 1)
	unsubscribe, err := bus.Subscribe(context.Background(), boardA, func(ev kanban.Event) {
		received <- ev
	})
	assert.NoError(t, err)
	defer func() { _ = unsubscribe() }()

	assert.NoError(t, bus.Publish(context.Background(), boardB, kanban.Event{
		Type: kanban.EventInsert,
		Card: model.Card{UID: "other-board"},
	}))
	assert.NoError(t, bus.Publish(context.Background(), boardA, kanban.Event{
		Type: kanban.EventInsert,
		Card: model.Card{UID: "mine"},
	}))

	select {
	case got := <-received:
		assert.Equal(t, "mine", got.Card.UID)
	case <-time.After(2 * time.Second):
		t.Fatal("event was not delivered")
	}
}

func TestBus_UndecodablePayloadIsSkipped(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	bus := realtime.NewBusWithClient(client, nil)
	defer func() { _ = bus.Close() }()
	boardID := uuid.New()

	received := make(chan kanban.Event, 1)
	unsubscribe, err := bus.Subscribe(context.Background(), boardID, func(ev kanban.Event) {
		received <- ev
	})
	assert.NoError(t, err)
	defer func() { _ = unsubscribe() }()

	// Garbage on the channel must not kill the subscription.
	raw := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer func() { _ = raw.Close() }()
	assert.NoError(t, raw.Publish(context.Background(), "board:"+boardID.String(), "{not json").Err())

	assert.NoError(t, bus.Publish(context.Background(), boardID, kanban.Event{
		Type: kanban.EventDelete,
		Card: model.Card{UID: "c1"},
	}))

	select {
	case got := <-received:
		assert.Equal(t, kanban.EventDelete, got.Type)
	case <-time.After(2 * time.Second):
		t.Fatal("valid event after garbage was not delivered")
	}
}
