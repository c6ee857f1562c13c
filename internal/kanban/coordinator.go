package kanban

import (
	"context"
	"log"

	"boardsync/internal/model"

	"github.com/google/uuid"
)

// Outcome classifies the result of an optimistic mutation.
type Outcome int

const (
	// OutcomeNoop means nothing changed: same-place move, or a stale
	// reference that was logged and ignored.
	OutcomeNoop Outcome = iota
	// OutcomeApplied means the local store was mutated and the remote
	// update was issued. A later persistence failure reverts via reload.
	OutcomeApplied
	// OutcomeRejected means the checklist policy hook declined the move
	// before any mutation.
	OutcomeRejected
)

func (o Outcome) String() string {
	switch o {
	case OutcomeApplied:
		return "applied"
	case OutcomeRejected:
		return "rejected"
	default:
		return "noop"
	}
}

// ConfirmFunc is the policy hook invoked when a card is dragged out of a
// stage whose checklist is incomplete. The UI decides whether to prompt;
// returning false abandons the move before any mutation. A nil hook lets
// the move proceed.
type ConfirmFunc func(card model.Card, fromStage string) bool

// RemoteStore is the persistence and notification collaborator the engine
// consumes. Implementations must be safe for concurrent use; update calls
// are last-writer-wins at the remote layer.
type RemoteStore interface {
	ListCards(ctx context.Context, boardID uuid.UUID) ([]model.Card, error)
	InsertCard(ctx context.Context, card *model.Card) error
	UpdateCard(ctx context.Context, id uuid.UUID, fields map[string]interface{}) error
	ListColumns(ctx context.Context, boardID uuid.UUID) ([]model.Column, error)
	BoardSettings(ctx context.Context, boardID uuid.UUID) (model.BoardSettings, error)
	Subscribe(ctx context.Context, boardID uuid.UUID, fn func(Event)) (func() error, error)
}

// Coordinator applies optimistic mutations: the store is changed
// synchronously so the UI updates immediately, the remote partial update is
// issued asynchronously, and a persistence failure discards the optimistic
// state by reloading the canonical card list.
type Coordinator struct {
	boardID uuid.UUID
	store   *Store
	remote  RemoteStore
	confirm ConfirmFunc
	notify  NotifyFunc
	logger  *log.Logger

	// launch runs the asynchronous remote call. Tests replace it with an
	// inline runner to make the failure path deterministic.
	launch func(func())
}

func NewCoordinator(boardID uuid.UUID, store *Store, remote RemoteStore, confirm ConfirmFunc, notify NotifyFunc, logger *log.Logger) *Coordinator {
	if logger == nil {
		logger = log.Default()
	}
	return &Coordinator{
		boardID: boardID,
		store:   store,
		remote:  remote,
		confirm: confirm,
		notify:  notify,
		logger:  logger,
		launch:  func(fn func()) { go fn() },
	}
}

// SetLaunch replaces the runner used for asynchronous remote calls. A
// synchronous runner makes the failure path deterministic in tests.
func (c *Coordinator) SetLaunch(fn func(func())) {
	c.launch = fn
}

// ApplyMove moves a card to the destination group and index. Returns
// OutcomeNoop for stale references and same-place moves (no mutation, no
// remote call), OutcomeRejected when the checklist policy declines, and
// OutcomeApplied once the local mutation landed and the remote update was
// dispatched.
func (c *Coordinator) ApplyMove(ctx context.Context, cardID, destKey string, destIndex int) Outcome {
	card, ok := c.store.Get(cardID)
	if !ok {
		c.logger.Printf("kanban: applyMove ignored, unknown card %q", cardID)
		return OutcomeNoop
	}
	fromKey, _ := c.store.GroupKeyOf(cardID)
	if fromKey == destKey && card.Position == destIndex {
		return OutcomeNoop
	}

	fromStage := StageOf(fromKey)
	destStage := StageOf(destKey)

	// Leaving a stage with unfinished checklist items needs confirmation.
	if fromStage != destStage {
		if tmpl := c.store.TemplateFor(fromStage); len(tmpl) > 0 {
			if !checklistComplete(card.ChecklistFor(fromStage, tmpl), tmpl) {
				if c.confirm != nil && !c.confirm(card, fromStage) {
					return OutcomeRejected
				}
			}
		}
	}

	destDone := c.store.IsDoneStage(destStage)
	destTemplate := c.store.TemplateFor(destStage)
	seeded := false
	if !c.store.Move(cardID, destKey, destIndex, func(m *model.Card) {
		if destDone {
			// Entering a done column clears escalation coloring.
			if m.Payload == nil {
				m.Payload = model.Payload{}
			}
			m.Payload["status"] = "resolved"
		}
		if len(destTemplate) > 0 && m.Checklists[destStage] == nil {
			if m.Checklists == nil {
				m.Checklists = model.Checklists{}
			}
			blank := make(map[string]bool, len(destTemplate))
			for _, item := range destTemplate {
				blank[item] = false
			}
			m.Checklists[destStage] = blank
			seeded = true
		}
	}) {
		return OutcomeNoop
	}

	moved, _ := c.store.Get(cardID)
	fields := map[string]interface{}{
		"stage":    moved.Stage,
		"position": moved.Position,
	}
	switch c.store.ViewMode() {
	case model.ViewAssignee:
		fields["assignee"] = moved.Assignee
	case model.ViewSwimlane:
		fields["swimlane"] = moved.Swimlane
	}
	if destDone {
		fields["payload"] = moved.Payload
	}
	if seeded {
		fields["checklists"] = moved.Checklists
	}

	rowID := moved.ID
	c.launch(func() {
		if err := c.remote.UpdateCard(ctx, rowID, fields); err != nil {
			c.fail(ctx, err)
		}
	})
	return OutcomeApplied
}

// CreateCard appends a card to the end of its group locally and persists it
// asynchronously. Uses the same failure path as moves.
func (c *Coordinator) CreateCard(ctx context.Context, card model.Card) {
	card.BoardID = c.boardID
	c.store.Append(card)
	c.launch(func() {
		persisted := card
		if err := c.remote.InsertCard(ctx, &persisted); err != nil {
			c.fail(ctx, err)
		}
	})
}

// fail converts a remote persistence failure into one of the recovery
// outcomes: a persistent migration banner for schema mismatches, or a
// canonical reload plus transient notice for everything else. Nothing
// propagates to the caller.
func (c *Coordinator) fail(ctx context.Context, err error) {
	if IsSchemaMismatch(err) {
		c.logger.Printf("kanban: schema mismatch persisting board %s: %v", c.boardID, err)
		c.emit(Notice{
			Message:    "the card store is missing a required column; run the pending schema migration",
			Persistent: true,
		})
		return
	}
	c.logger.Printf("kanban: persistence failed for board %s, reloading: %v", c.boardID, err)
	cards, lerr := c.remote.ListCards(ctx, c.boardID)
	if lerr != nil {
		c.logger.Printf("kanban: canonical reload failed for board %s: %v", c.boardID, lerr)
	} else {
		c.store.Load(cards)
	}
	c.emit(Notice{Message: "could not save changes, the board was reverted"})
}

func (c *Coordinator) emit(n Notice) {
	if c.notify != nil {
		c.notify(n)
	}
}

func checklistComplete(done map[string]bool, template []string) bool {
	for _, item := range template {
		if !done[item] {
			return false
		}
	}
	return true
}
