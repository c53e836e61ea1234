package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/travis-tran03/leetcode-jar/internal/core"
	"github.com/travis-tran03/leetcode-jar/internal/models"
)

var historyCmd = LeafCommand{
	Use:   "history",
	Short: "Show every recorded entry, oldest first",
	Args:  cobra.NoArgs,
	StrFlags: []StringFlag{
		{Name: "user", Usage: "only show entries for this user"},
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		user, _ := cmd.Flags().GetString("user")
		return withSession(cmd, func(_ context.Context, s *session) error {
			return runHistory(cmd, s.tracker.Snapshot(), user)
		})
	},
}.Build()

func runHistory(cmd *cobra.Command, state *models.TrackerState, user string) error {
	rows := core.FilterHistory(core.HistoryRows(state), user)
	if len(rows) == 0 {
		_, _ = fmt.Fprintln(cmd.OutOrStdout(), Silent("No entries."))
		return nil
	}
	_, _ = fmt.Fprintln(cmd.OutOrStdout(), core.RenderHistory(rows))
	return nil
}
