package kanban

import (
	"strings"

	"boardsync/internal/model"

	"github.com/google/uuid"
)

// compositeIDSep joins the payload fallback fields of a card identity.
const compositeIDSep = "::"

// IDFor returns the stable external identifier of a card: the UID when set,
// else the row id, else a composite of the payload number and title. Once a
// durable id exists it must never be recomputed from mutable payload fields;
// drag tracking and realtime matching both key on this value.
func IDFor(card *model.Card) string {
	if uid := strings.TrimSpace(card.UID); uid != "" {
		return uid
	}
	if card.ID != uuid.Nil {
		return card.ID.String()
	}
	number := card.Payload.String("number")
	title := card.Payload.String("title")
	return strings.TrimSpace(number + compositeIDSep + title)
}
