package db

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/travis-tran03/leetcode-jar/internal/models"
)

// newEmulatorStore needs a running emulator, e.g.
// `gcloud emulators firestore start --host-port=localhost:8081`.
func newEmulatorStore(t *testing.T, names map[string]string) *FirestoreBackend {
	t.Helper()
	if os.Getenv("FIRESTORE_EMULATOR_HOST") == "" {
		t.Skip("FIRESTORE_EMULATOR_HOST not set")
	}
	ctx := context.Background()
	client, err := firestore.NewClient(ctx, "demo-jar")
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	doc := fmt.Sprintf("test-%s", uuid.NewString())
	store := NewFirestoreBackend(client, "jar", doc, names, zap.NewNop())
	require.NoError(t, store.EnsureDocument(ctx))
	return store
}

func TestFirestoreBackend_MarkAndCloseDay(t *testing.T) {
	ctx := context.Background()
	store := newEmulatorStore(t, nil)

	require.NoError(t, store.InitUsers(ctx, []string{"travis", "david"}))
	require.NoError(t, store.Mark(ctx, "2024-01-01", "travis", models.StatusDone))
	assert.ErrorIs(t, store.Mark(ctx, "2024-01-01", "zoe", models.StatusDone), models.ErrUnknownUser)

	changed, err := store.CloseDay(ctx, "2024-01-01")
	require.NoError(t, err)
	assert.Equal(t, 1, changed)
	changed, err = store.CloseDay(ctx, "2024-01-01")
	require.NoError(t, err)
	assert.Zero(t, changed)

	state, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, models.DayRecord{"travis": models.StatusDone, "david": models.StatusMissed},
		state.Entries["2024-01-01"])
}

func TestFirestoreBackend_RenameUsers(t *testing.T) {
	ctx := context.Background()
	store := newEmulatorStore(t, nil)

	require.NoError(t, store.InitUsers(ctx, []string{"alice", "david"}))
	require.NoError(t, store.Mark(ctx, "2024-01-01", "alice", models.StatusMissed))
	require.NoError(t, store.RenameUsers(ctx, map[string]string{"alice": "travis"}))

	state, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"travis", "david"}, state.Users)
	assert.Equal(t, models.DayRecord{"travis": models.StatusMissed}, state.Entries["2024-01-01"])
}

func TestFirestoreBackend_WatchDeliversChanges(t *testing.T) {
	store := newEmulatorStore(t, nil)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	snapshots := make(chan *models.TrackerState, 8)
	done := make(chan error, 1)
	go func() { done <- store.Watch(ctx, func(s *models.TrackerState) { snapshots <- s }) }()

	first := <-snapshots
	assert.Empty(t, first.Users)

	require.NoError(t, store.InitUsers(ctx, []string{"travis"}))
	for s := range snapshots {
		if len(s.Users) == 1 {
			assert.Equal(t, "travis", s.Users[0])
			break
		}
	}

	cancel()
	<-done
}
