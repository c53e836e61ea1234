package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/travis-tran03/leetcode-jar/internal/core"
	"github.com/travis-tran03/leetcode-jar/internal/models"
	"github.com/travis-tran03/leetcode-jar/pkg/messagequeue"
)

var watchCmd = LeafCommand{
	Use:   "watch",
	Short: "Print the totals on every change until interrupted",
	Args:  cobra.NoArgs,
	StrFlags: []StringFlag{
		{Name: "interval", Default: "10s", Usage: "refresh interval for backends without live updates"},
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		raw, _ := cmd.Flags().GetString("interval")
		interval, err := time.ParseDuration(raw)
		if err != nil || interval <= 0 {
			return fmt.Errorf("invalid --interval %q", raw)
		}
		return withSession(cmd, func(ctx context.Context, s *session) error {
			return runWatch(ctx, cmd.OutOrStdout(), s.tracker, s.mq, s.cfg.RabbitMQQueue, interval, s.logger)
		})
	},
}.Build()

// runWatch prints the totals line for the current snapshot and for every new
// one. Push backends deliver snapshots themselves; the others are refreshed
// every interval. Change events from the queue are printed as they arrive.
func runWatch(ctx context.Context, w io.Writer, tracker *core.Tracker, mq messagequeue.MessageQueue, queue string, interval time.Duration, log *zap.Logger) error {
	var mu sync.Mutex
	last := ""
	show := func(state *models.TrackerState) {
		line := core.RenderTotals(state)
		mu.Lock()
		defer mu.Unlock()
		if line == last {
			return
		}
		last = line
		_, _ = fmt.Fprintf(w, "%s %s\n", Silent(now().Format("15:04:05")), line)
	}

	tracker.OnChange(show)
	show(tracker.Snapshot())

	var wg sync.WaitGroup
	if mq != nil {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := mq.Consume(ctx, queue, func(body []byte) {
				event, err := core.DecodeEvent(body)
				if err != nil {
					log.Warn("Skipping malformed change event", zap.Error(err))
					return
				}
				mu.Lock()
				_, _ = fmt.Fprintln(w, Info(event.String()))
				mu.Unlock()
			})
			if err != nil && !errors.Is(err, context.Canceled) {
				log.Warn("Change event consumer stopped", zap.Error(err))
			}
		}()
	}

	if _, push := tracker.Backend().(core.Watcher); !push {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				wg.Wait()
				return nil
			case <-ticker.C:
				if err := tracker.Refresh(ctx); err != nil && ctx.Err() == nil {
					log.Warn("Refresh failed", zap.Error(err))
				}
			}
		}
	}

	<-ctx.Done()
	wg.Wait()
	return nil
}
