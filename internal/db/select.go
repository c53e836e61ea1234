package db

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/travis-tran03/leetcode-jar/internal/config"
	"github.com/travis-tran03/leetcode-jar/internal/core"
	"github.com/travis-tran03/leetcode-jar/pkg/cache"
)

var errNotConfigured = errors.New("not configured")

// SelectBackend picks the persistence backend once at startup: the shared
// store if it initializes, else the remote API if it answers a ping, else the
// local slot. BACKEND may force a tier; a forced tier that fails still falls
// back to local. Only a local slot that cannot be opened is an error.
func SelectBackend(ctx context.Context, cfg *config.Config, logger *zap.Logger) (core.Backend, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	names, err := cfg.LegacyNames()
	if err != nil {
		logger.Warn("Ignoring invalid name map", zap.Error(err))
		names = nil
	}

	forced := strings.ToLower(cfg.Backend)
	wants := func(mode string) bool {
		return forced == "" || forced == config.BackendAuto || forced == mode
	}

	if wants(core.ModeStore) {
		store, err := OpenStore(ctx, cfg, names, logger)
		if err == nil {
			logger.Info("Using shared store backend", zap.String("project", cfg.FirebaseProjectID))
			return store, nil
		}
		logTierSkipped(logger, core.ModeStore, forced, err)
	}

	if wants(core.ModeAPI) {
		remote, err := OpenRemote(ctx, cfg, names, logger)
		if err == nil {
			logger.Info("Using remote API backend", zap.String("url", cfg.APIURL))
			return remote, nil
		}
		logTierSkipped(logger, core.ModeAPI, forced, err)
	}

	local, err := OpenLocal(ctx, cfg, names, logger)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", core.ErrNoBackend, err)
	}
	logger.Info("Using local backend", zap.String("key", cfg.LocalSlotKey))
	return local, nil
}

func logTierSkipped(logger *zap.Logger, mode, forced string, err error) {
	if errors.Is(err, errNotConfigured) && forced != mode {
		logger.Debug("Backend tier not configured", zap.String("mode", mode))
		return
	}
	logger.Warn("Backend tier unavailable; falling back", zap.String("mode", mode), zap.Error(err))
}

// OpenStore connects to Firestore and makes sure the tracker document exists.
func OpenStore(ctx context.Context, cfg *config.Config, names map[string]string, logger *zap.Logger) (*FirestoreBackend, error) {
	if !cfg.StoreConfigured() {
		return nil, fmt.Errorf("store: FIREBASE_PROJECT_ID %w", errNotConfigured)
	}
	client, err := InitFirestore(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}
	store := NewFirestoreBackend(client, cfg.FirestoreCollection, cfg.FirestoreDocument, names, logger)

	ensureCtx, cancel := context.WithTimeout(ctx, cfg.InitTimeout)
	defer cancel()
	if err := store.EnsureDocument(ensureCtx); err != nil {
		_ = client.Close()
		return nil, err
	}
	return store, nil
}

// OpenRemote returns a RemoteBackend once the API answers a ping.
func OpenRemote(ctx context.Context, cfg *config.Config, names map[string]string, logger *zap.Logger) (*RemoteBackend, error) {
	if !cfg.APIConfigured() {
		return nil, fmt.Errorf("api: API_URL %w", errNotConfigured)
	}
	remote := NewRemoteBackend(cfg.APIURL, cfg.APITimeout, names, logger)

	pingCtx, cancel := context.WithTimeout(ctx, cfg.InitTimeout)
	defer cancel()
	if err := remote.Ping(pingCtx); err != nil {
		return nil, err
	}
	return remote, nil
}

// OpenLocal opens the local slot in Redis when configured and reachable,
// otherwise in a file under LOCAL_DIR.
func OpenLocal(ctx context.Context, cfg *config.Config, names map[string]string, logger *zap.Logger) (*LocalBackend, error) {
	var slots cache.Cache
	if cfg.RedisConfigured() {
		redisCtx, cancel := context.WithTimeout(ctx, cfg.InitTimeout)
		rc, err := cache.NewRedisCache(redisCtx, cache.NewRedisCacheConfig{
			Address:  cfg.RedisAddress,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		}, logger)
		cancel()
		if err != nil {
			logger.Warn("Redis unavailable; keeping local data on disk", zap.Error(err))
		} else {
			slots = rc
		}
	}
	if slots == nil {
		fc, err := cache.NewFileCache(cfg.LocalDir)
		if err != nil {
			return nil, err
		}
		slots = fc
	}
	return NewLocalBackend(slots, cfg.LocalSlotKey, cfg.DataFile, names, logger), nil
}
