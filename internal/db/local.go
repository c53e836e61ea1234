package db

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/travis-tran03/leetcode-jar/internal/core"
	"github.com/travis-tran03/leetcode-jar/internal/models"
	"github.com/travis-tran03/leetcode-jar/pkg/cache"
)

// DefaultSlotKey is the slot the local backend persists to.
const DefaultSlotKey = "jar.localdata"

// LocalBackend keeps the tracker in one named slot of a cache.Cache.
// The slot is re-read on every operation so several processes sharing a
// directory or a Redis key see each other's writes.
type LocalBackend struct {
	slots    cache.Cache
	key      string
	dataFile string
	names    map[string]string
	logger   *zap.Logger

	mu       sync.Mutex
	defaults *models.TrackerState
}

// NewLocalBackend creates a backend on slots. dataFile supplies the defaults
// the persisted snapshot is merged over.
func NewLocalBackend(slots cache.Cache, key, dataFile string, names map[string]string, logger *zap.Logger) *LocalBackend {
	if logger == nil {
		logger = zap.NewNop()
	}
	if key == "" {
		key = DefaultSlotKey
	}
	return &LocalBackend{slots: slots, key: key, dataFile: dataFile, names: names, logger: logger}
}

func (l *LocalBackend) Mode() string { return core.ModeLocal }

// Close releases the underlying slot store.
func (l *LocalBackend) Close() error { return l.slots.Close() }

// Load returns the defaults with the persisted snapshot merged over them.
func (l *LocalBackend) Load(ctx context.Context) (*models.TrackerState, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	state, err := l.current(ctx)
	if err != nil {
		return nil, err
	}
	return state.Clone(), nil
}

// Mark sets one entry and persists the full snapshot.
func (l *LocalBackend) Mark(ctx context.Context, date, user string, status models.Status) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	return l.update(ctx, func(next *models.TrackerState) error {
		return next.SetEntry(date, user, status)
	})
}

// CloseDay back-fills missed on date and persists the snapshot.
func (l *LocalBackend) CloseDay(ctx context.Context, date string) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	changed := 0
	err := l.update(ctx, func(next *models.TrackerState) error {
		changed = next.CloseDay(date)
		return nil
	})
	if err != nil {
		return 0, err
	}
	return changed, nil
}

// InitUsers replaces the user list and persists the snapshot.
func (l *LocalBackend) InitUsers(ctx context.Context, users []string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	return l.update(ctx, func(next *models.TrackerState) error {
		next.InitUsers(users)
		return nil
	})
}

// Clear removes the persisted slot; the next load starts from the defaults.
func (l *LocalBackend) Clear(ctx context.Context) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if err := l.slots.Delete(ctx, l.key); err != nil {
		return fmt.Errorf("failed to clear local data: %w", err)
	}
	l.logger.Info("Cleared local data", zap.String("key", l.key))
	return nil
}

// RenameUsers rewrites the persisted slot with mapping applied. An empty slot
// is left alone.
func (l *LocalBackend) RenameUsers(ctx context.Context, mapping map[string]string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	raw, err := l.slots.Get(ctx, l.key)
	if err != nil {
		return fmt.Errorf("failed to read local data: %w", err)
	}
	if raw == "" {
		l.logger.Info("No local data to migrate", zap.String("key", l.key))
		return nil
	}
	persisted, err := models.ParseState([]byte(raw))
	if err != nil {
		return fmt.Errorf("local data is malformed: %w", err)
	}
	renamed := core.RemapNames(persisted, mapping)
	return l.persist(ctx, renamed)
}

// update applies fn to a copy of the current state and persists the copy.
// A failed fn or write leaves the slot untouched.
func (l *LocalBackend) update(ctx context.Context, fn func(next *models.TrackerState) error) error {
	state, err := l.current(ctx)
	if err != nil {
		return err
	}
	next := state.Clone()
	if err := fn(next); err != nil {
		return err
	}
	return l.persist(ctx, next)
}

func (l *LocalBackend) persist(ctx context.Context, state *models.TrackerState) error {
	data, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("failed to encode local data: %w", err)
	}
	if err := l.slots.Set(ctx, l.key, string(data), 0); err != nil {
		return fmt.Errorf("failed to save local data: %w", err)
	}
	return nil
}

// current rebuilds the state from the defaults and the slot. Callers hold mu.
func (l *LocalBackend) current(ctx context.Context) (*models.TrackerState, error) {
	if l.defaults == nil {
		l.defaults = LoadStaticData(l.dataFile, l.logger)
	}

	raw, err := l.slots.Get(ctx, l.key)
	if err != nil {
		return nil, fmt.Errorf("failed to read local data: %w", err)
	}

	var persisted *models.TrackerState
	if raw != "" {
		persisted, err = models.ParseState([]byte(raw))
		if err != nil {
			l.logger.Warn("Ignoring malformed local data", zap.String("key", l.key), zap.Error(err))
			persisted = nil
		}
	}

	merged := mergeOver(l.defaults, persisted)
	merged = core.RemapNames(merged, l.names)
	if len(merged.Users) == 0 {
		merged.Users = models.SampleState().Users
	}
	return merged, nil
}

// mergeOver lays persisted over defaults: entries replace per date key and
// users replace only when the persisted list is non-empty.
func mergeOver(defaults, persisted *models.TrackerState) *models.TrackerState {
	out := defaults.Clone()
	if persisted == nil {
		return out
	}
	if len(persisted.Users) > 0 {
		out.Users = append([]string{}, persisted.Users...)
	}
	for date, day := range persisted.Clone().Entries {
		out.Entries[date] = day
	}
	return out
}
