package db

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/travis-tran03/leetcode-jar/internal/config"
	"github.com/travis-tran03/leetcode-jar/internal/core"
	"github.com/travis-tran03/leetcode-jar/internal/models"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	return &config.Config{
		Port:         "8080",
		Backend:      config.BackendAuto,
		InitTimeout:  time.Second,
		APITimeout:   time.Second,
		DataFile:     filepath.Join(t.TempDir(), "jar_data.json"),
		LocalDir:     t.TempDir(),
		LocalSlotKey: DefaultSlotKey,
	}
}

func TestSelectBackend_NothingConfiguredIsLocal(t *testing.T) {
	backend, err := SelectBackend(context.Background(), testConfig(t), zap.NewNop())
	require.NoError(t, err)
	assert.Equal(t, core.ModeLocal, backend.Mode())
}

func TestSelectBackend_ReachableAPI(t *testing.T) {
	api := &fakeAPI{state: models.SampleState()}
	srv := httptest.NewServer(api.handler())
	defer srv.Close()

	cfg := testConfig(t)
	cfg.APIURL = srv.URL
	backend, err := SelectBackend(context.Background(), cfg, zap.NewNop())
	require.NoError(t, err)
	assert.Equal(t, core.ModeAPI, backend.Mode())
}

func TestSelectBackend_UnreachableAPIFallsBack(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	cfg := testConfig(t)
	cfg.APIURL = srv.URL
	backend, err := SelectBackend(context.Background(), cfg, zap.NewNop())
	require.NoError(t, err)
	assert.Equal(t, core.ModeLocal, backend.Mode())
}

func TestSelectBackend_ForcedLocalSkipsAPI(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]bool{"ok": true})
	}))
	defer srv.Close()

	cfg := testConfig(t)
	cfg.APIURL = srv.URL
	cfg.Backend = config.BackendLocal
	backend, err := SelectBackend(context.Background(), cfg, zap.NewNop())
	require.NoError(t, err)
	assert.Equal(t, core.ModeLocal, backend.Mode())
}

func TestSelectBackend_ForcedStoreWithoutProjectFallsBack(t *testing.T) {
	cfg := testConfig(t)
	cfg.Backend = config.BackendStore
	backend, err := SelectBackend(context.Background(), cfg, zap.NewNop())
	require.NoError(t, err)
	assert.Equal(t, core.ModeLocal, backend.Mode())
}

func TestSelectBackend_InvalidNameMapIsIgnored(t *testing.T) {
	cfg := testConfig(t)
	cfg.NameMap = "broken"
	backend, err := SelectBackend(context.Background(), cfg, zap.NewNop())
	require.NoError(t, err)
	assert.Equal(t, core.ModeLocal, backend.Mode())
}

func TestOpenLocal_UnreachableRedisUsesDisk(t *testing.T) {
	cfg := testConfig(t)
	cfg.RedisAddress = "127.0.0.1:1"
	cfg.InitTimeout = 200 * time.Millisecond

	local, err := OpenLocal(context.Background(), cfg, nil, zap.NewNop())
	require.NoError(t, err)
	require.NoError(t, local.Mark(context.Background(), "2024-01-01", "travis", models.StatusDone))
	assert.FileExists(t, filepath.Join(cfg.LocalDir, DefaultSlotKey+".json"))
}
