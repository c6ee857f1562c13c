package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// JSONB column helpers. gorm has no built-in jsonb mapping, so each stored
// document type implements driver.Valuer and sql.Scanner.

func scanJSON(value interface{}, dest interface{}) error {
	if value == nil {
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, dest)
	case string:
		return json.Unmarshal([]byte(v), dest)
	default:
		return fmt.Errorf("unsupported jsonb source type %T", value)
	}
}

// Payload holds the free-form presentation fields of a card (title,
// description, escalation flags, team roster, status history and any
// extension fields the UI attaches).
type Payload map[string]interface{}

func (p Payload) Value() (driver.Value, error) {
	if p == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(p)
}

func (p *Payload) Scan(value interface{}) error {
	return scanJSON(value, p)
}

// String returns the payload field under key as a string, or "" when the
// field is missing or not a string.
func (p Payload) String(key string) string {
	if p == nil {
		return ""
	}
	s, _ := p[key].(string)
	return s
}

// Checklists maps a stage name to the completion state of that stage's
// checklist, keyed by item name.
type Checklists map[string]map[string]bool

func (c Checklists) Value() (driver.Value, error) {
	if c == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(c)
}

func (c *Checklists) Scan(value interface{}) error {
	return scanJSON(value, c)
}

// StringList is a jsonb-backed []string, used for checklist templates and
// swimlane name lists.
type StringList []string

func (l StringList) Value() (driver.Value, error) {
	if l == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(l)
}

func (l *StringList) Scan(value interface{}) error {
	return scanJSON(value, l)
}
