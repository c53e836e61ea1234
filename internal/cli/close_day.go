package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/travis-tran03/leetcode-jar/internal/core"
)

var closeDayCmd = LeafCommand{
	Use:      "close-day",
	Short:    "Close a date: every user without a status is marked missed",
	Args:     cobra.NoArgs,
	StrFlags: []StringFlag{dateFlag},
	RunE: func(cmd *cobra.Command, args []string) error {
		return withSession(cmd, func(ctx context.Context, s *session) error {
			return runCloseDay(ctx, cmd, s.tracker, dateOrToday(cmd))
		})
	},
}.Build()

func runCloseDay(ctx context.Context, cmd *cobra.Command, tracker *core.Tracker, date string) error {
	changed, err := tracker.CloseDay(ctx, date)
	if err != nil {
		return err
	}
	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Closed %s. Applied %d missing -> missed updates.\n", date, changed)
	return nil
}
