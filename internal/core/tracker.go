package core

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/travis-tran03/leetcode-jar/internal/models"
)

var (
	ErrMissingUser    = errors.New("missing user")
	ErrInvalidRequest = errors.New("invalid request")
)

// Tracker owns the in-memory TrackerState of one session and routes every
// state transition through the selected Backend.
//
// Writes are not serialized: two overlapping writes both reach the backend and
// whichever completes last determines the snapshot.
type Tracker struct {
	backend  Backend
	notifier Notifier
	logger   *zap.Logger
	validate *validator.Validate

	mu        sync.RWMutex
	state     *models.TrackerState
	listeners []func(*models.TrackerState)

	wg sync.WaitGroup
}

// NewTracker creates a Tracker over backend. A nil notifier drops events.
func NewTracker(backend Backend, notifier Notifier, logger *zap.Logger) *Tracker {
	if notifier == nil {
		notifier = NopNotifier{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Tracker{
		backend:  backend,
		notifier: notifier,
		logger:   logger,
		validate: validator.New(),
		state:    models.NewState(),
	}
}

// Mode reports the backend mode ("store", "api" or "local").
func (t *Tracker) Mode() string { return t.backend.Mode() }

// Backend returns the selected backend.
func (t *Tracker) Backend() Backend { return t.backend }

// OnChange registers fn to be called with every new snapshot.
func (t *Tracker) OnChange(fn func(*models.TrackerState)) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.listeners = append(t.listeners, fn)
}

// Snapshot returns a copy of the current state.
func (t *Tracker) Snapshot() *models.TrackerState {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.state.Clone()
}

// Start loads the first snapshot and, for push backends, starts the
// subscription goroutine, which runs until ctx is done. A failed first load
// leaves the empty shell in place and is returned.
func (t *Tracker) Start(ctx context.Context) error {
	var loadErr error
	if state, err := t.backend.Load(ctx); err != nil {
		t.logger.Warn("Initial load failed; starting from an empty state",
			zap.String("mode", t.Mode()), zap.Error(err))
		loadErr = fmt.Errorf("initial load from %s backend: %w", t.Mode(), err)
	} else {
		t.apply(state)
	}

	if w, ok := t.backend.(Watcher); ok {
		t.wg.Add(1)
		go func() {
			defer t.wg.Done()
			err := w.Watch(ctx, t.apply)
			if err != nil && !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded) {
				t.logger.Error("Snapshot subscription ended", zap.String("mode", t.Mode()), zap.Error(err))
			}
		}()
	}
	return loadErr
}

// Wait blocks until the subscription goroutine started by Start has exited.
func (t *Tracker) Wait() { t.wg.Wait() }

// Refresh refetches the full state from the backend.
func (t *Tracker) Refresh(ctx context.Context) error {
	state, err := t.backend.Load(ctx)
	if err != nil {
		return fmt.Errorf("failed to refresh from %s backend: %w", t.Mode(), err)
	}
	t.apply(state)
	return nil
}

// Mark records status for user on date.
func (t *Tracker) Mark(ctx context.Context, date, user string, status models.Status) error {
	req := models.MarkRequest{Date: date, User: user, Status: status}
	if err := t.check(req); err != nil {
		return err
	}
	if err := t.backend.Mark(ctx, date, user, status); err != nil {
		return fmt.Errorf("failed to mark %s as %s on %s: %w", user, status, date, err)
	}
	t.logger.Info("Marked entry", zap.String("mode", t.Mode()),
		zap.String("date", date), zap.String("user", user), zap.String("status", string(status)))

	event := newEvent(EventMark, t.Mode())
	event.Date, event.User, event.Status = date, user, status
	t.afterWrite(ctx, event)
	return nil
}

// CloseDay marks every user without a status on date as missed and returns
// how many users changed.
func (t *Tracker) CloseDay(ctx context.Context, date string) (int, error) {
	if err := t.check(models.CloseDayRequest{Date: date}); err != nil {
		return 0, err
	}
	changed, err := t.backend.CloseDay(ctx, date)
	if err != nil {
		return 0, fmt.Errorf("failed to close %s: %w", date, err)
	}
	t.logger.Info("Closed day", zap.String("mode", t.Mode()),
		zap.String("date", date), zap.Int("changed", changed))

	event := newEvent(EventCloseDay, t.Mode())
	event.Date, event.Changed = date, changed
	t.afterWrite(ctx, event)
	return changed, nil
}

// InitUsers replaces the user list.
func (t *Tracker) InitUsers(ctx context.Context, users []string) error {
	if err := t.check(models.InitRequest{Users: users}); err != nil {
		return err
	}
	if err := t.backend.InitUsers(ctx, users); err != nil {
		return fmt.Errorf("failed to initialize users: %w", err)
	}
	t.logger.Info("Initialized users", zap.String("mode", t.Mode()), zap.Strings("users", users))

	event := newEvent(EventInit, t.Mode())
	event.Users = users
	t.afterWrite(ctx, event)
	return nil
}

// afterWrite refetches the state unless the backend pushes it, then
// publishes the event. The write is already applied: a failed refetch or
// publish is logged and the snapshot stays as it was until the next refresh.
func (t *Tracker) afterWrite(ctx context.Context, event Event) {
	if _, push := t.backend.(Watcher); !push {
		if err := t.Refresh(ctx); err != nil {
			t.logger.Warn("Refetch after write failed; snapshot is stale",
				zap.String("type", event.Type), zap.Error(err))
		}
	}
	if err := t.notifier.Publish(ctx, event); err != nil {
		t.logger.Warn("Failed to publish change event", zap.String("type", event.Type), zap.Error(err))
	}
}

func (t *Tracker) apply(state *models.TrackerState) {
	snapshot := state.Clone()
	t.mu.Lock()
	t.state = snapshot
	listeners := append([]func(*models.TrackerState){}, t.listeners...)
	t.mu.Unlock()

	for _, fn := range listeners {
		fn(snapshot.Clone())
	}
}

// check validates a request model and maps the first failing field onto the
// package's sentinel errors.
func (t *Tracker) check(req interface{}) error {
	err := t.validate.Struct(req)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}
	fe := fieldErrs[0]
	switch fe.Field() {
	case "Date":
		return ErrMissingDate
	case "User":
		return ErrMissingUser
	case "Status":
		return fmt.Errorf("%w: %q", models.ErrInvalidStatus, fe.Value())
	}
	return fmt.Errorf("%w: %s failed %s", ErrInvalidRequest, fe.Namespace(), fe.Tag())
}
