package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/travis-tran03/leetcode-jar/internal/config"
	"github.com/travis-tran03/leetcode-jar/internal/core"
	"github.com/travis-tran03/leetcode-jar/internal/db"
	"github.com/travis-tran03/leetcode-jar/internal/logger"
	"github.com/travis-tran03/leetcode-jar/pkg/messagequeue"
)

// session is everything one CLI invocation needs: configuration, a logger,
// the selected backend behind a Tracker and, when configured, the queue.
type session struct {
	cfg     *config.Config
	logger  *zap.Logger
	tracker *core.Tracker
	mq      messagequeue.MessageQueue
	closers []io.Closer
}

// loadEnv reads .env (when present), the configuration and the root flags.
func loadEnv(cmd *cobra.Command) (*config.Config, *zap.Logger, error) {
	if os.Getenv("GIN_MODE") != "release" {
		_ = godotenv.Load()
	}
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, nil, err
	}
	if backend, _ := cmd.Flags().GetString("backend"); backend != "" {
		cfg.Backend = backend
		if err := cfg.Validate(); err != nil {
			return nil, nil, err
		}
	}
	verbose, _ := cmd.Flags().GetBool("verbose")
	return cfg, logger.ForCLI(verbose), nil
}

// openSession selects the backend, connects the change queue and loads the
// first snapshot.
func openSession(cmd *cobra.Command) (*session, error) {
	ctx := cmd.Context()
	cfg, log, err := loadEnv(cmd)
	if err != nil {
		return nil, err
	}

	s := &session{cfg: cfg, logger: log}
	backend, err := db.SelectBackend(ctx, cfg, log)
	if err != nil {
		return nil, err
	}
	if closer, ok := backend.(io.Closer); ok {
		s.closers = append(s.closers, closer)
	}

	var notifier core.Notifier = core.NopNotifier{}
	if cfg.RabbitMQURL != "" {
		mq, err := messagequeue.NewRabbitMQService(messagequeue.NewRabbitMQServiceConfig{URL: cfg.RabbitMQURL}, log)
		if err != nil {
			log.Warn("Change events disabled: RabbitMQ unavailable", zap.Error(err))
		} else {
			s.mq = mq
			s.closers = append(s.closers, mq)
			notifier = core.NewQueueNotifier(mq, cfg.RabbitMQQueue)
		}
	}

	s.tracker = core.NewTracker(backend, notifier, log)
	if err := s.tracker.Start(ctx); err != nil {
		fmt.Fprintln(cmd.ErrOrStderr(), Warning("warning: "+err.Error()))
	}
	return s, nil
}

// Close waits for the tracker's subscription and releases connections in
// reverse order of opening.
func (s *session) Close() {
	s.tracker.Wait()
	for i := len(s.closers) - 1; i >= 0; i-- {
		if err := s.closers[i].Close(); err != nil {
			s.logger.Debug("Close failed", zap.Error(err))
		}
	}
	_ = s.logger.Sync()
}

// withSession runs fn with a session whose subscription stops when fn returns.
func withSession(cmd *cobra.Command, fn func(ctx context.Context, s *session) error) error {
	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()
	cmd.SetContext(ctx)

	s, err := openSession(cmd)
	if err != nil {
		return err
	}
	defer s.Close()
	defer cancel()
	return fn(ctx, s)
}
