package core

import (
	"context"
	"errors"

	"github.com/travis-tran03/leetcode-jar/internal/models"
)

// Backend modes, as reported by Backend.Mode.
const (
	ModeStore = "store"
	ModeAPI   = "api"
	ModeLocal = "local"
)

var (
	ErrMissingDate = errors.New("missing date")
	ErrNoBackend   = errors.New("no backend configured")
)

// Backend is the uniform persistence contract shared by the store, API and
// local adapters.
type Backend interface {
	// Load returns the current state, already passed through the name map.
	Load(ctx context.Context) (*models.TrackerState, error)
	// Mark sets exactly one DayRecord entry; it is either applied or not.
	Mark(ctx context.Context, date, user string, status models.Status) error
	// CloseDay back-fills missed for every user without a status on date,
	// reading the backend's current state, and returns the number changed.
	CloseDay(ctx context.Context, date string) (int, error)
	// InitUsers replaces the user list.
	InitUsers(ctx context.Context, users []string) error
	Mode() string
}

// Watcher is implemented by backends that push a full snapshot on every
// remote change. Watch blocks until ctx is done or the subscription fails.
type Watcher interface {
	Watch(ctx context.Context, deliver func(*models.TrackerState)) error
}

// NameMigrator is implemented by backends whose data at rest can be renamed
// in place.
type NameMigrator interface {
	RenameUsers(ctx context.Context, mapping map[string]string) error
	Mode() string
}

// Notifier publishes change events to other processes.
type Notifier interface {
	Publish(ctx context.Context, event Event) error
}
