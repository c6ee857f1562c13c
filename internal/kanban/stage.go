package kanban

import (
	"strings"

	"boardsync/internal/model"
)

// ResolveStage maps a card's stored stage label onto one of the board's
// configured column names. Labels that no longer match any column (renamed
// or deleted stages) fall back to the first configured column; that is the
// documented recovery path, not an error. Returns "" only when the board has
// no columns at all.
func ResolveStage(card *model.Card, columns []model.Column) string {
	if len(columns) == 0 {
		return ""
	}
	label := strings.TrimSpace(card.Stage)
	for _, col := range columns {
		if col.Name == label {
			return col.Name
		}
	}
	return columns[0].Name
}

// columnByName returns the configured column with the given name, or nil.
func columnByName(columns []model.Column, name string) *model.Column {
	for i := range columns {
		if columns[i].Name == name {
			return &columns[i]
		}
	}
	return nil
}
