package kanban

import (
	"regexp"
)

// Notice is a user-visible notification emitted by the coordinator's failure
// paths. Transient notices ("could not save, reverted") disappear on their
// own; persistent ones stay until dismissed.
type Notice struct {
	Message    string
	Persistent bool
}

// NotifyFunc receives notices. A nil hook drops them.
type NotifyFunc func(Notice)

// schemaMismatchPattern recognizes the backing store rejecting an update
// because an expected column is missing. Retrying such an update can never
// succeed until the operator runs the pending migration, so it is reported
// differently from generic persistence failures.
var schemaMismatchPattern = regexp.MustCompile(`(?i)column .+ does not exist|SQLSTATE 42703`)

// IsSchemaMismatch reports whether err looks like a missing-column failure.
func IsSchemaMismatch(err error) bool {
	return err != nil && schemaMismatchPattern.MatchString(err.Error())
}
