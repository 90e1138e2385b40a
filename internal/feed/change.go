package feed

import (
	"time"

	"github.com/postportal/internal/db"
)

// ChangeKind classifies a single change-stream event.
type ChangeKind string

const (
	ChangeAdded    ChangeKind = "added"
	ChangeModified ChangeKind = "modified"
	ChangeRemoved  ChangeKind = "removed"
)

// Change describes how one remote post record evolved. Post carries the full
// record for added/modified events and is nil for removed events.
type Change struct {
	Kind ChangeKind
	ID   string
	Post *db.Post
}

// Source abstracts the remote real-time collection stream. Subscribe delivers
// the initial bounded snapshot as one batch of added events, followed by live
// incremental batches in commit order. The returned cancel func tears the
// subscription down; the channel is closed afterwards.
type Source interface {
	Subscribe(limit int) (<-chan []Change, func(), error)
}

// StatusWriter is the mutation interface the scheduler needs from the remote
// store. Promote must be idempotent: promoting an already published post is a
// no-op.
type StatusWriter interface {
	Promote(id string, now time.Time) error
}

// Notifier is a fire-and-forget notification sink.
type Notifier interface {
	Notify(userID, message, severity string)
}

// Clock supplies the current time so tests can inject fixed instants.
type Clock func() time.Time
