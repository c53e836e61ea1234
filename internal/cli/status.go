package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/travis-tran03/leetcode-jar/internal/core"
	"github.com/travis-tran03/leetcode-jar/internal/models"
)

var statusCmd = LeafCommand{
	Use:      "status",
	Short:    "Show every user's status for a date",
	Args:     cobra.NoArgs,
	StrFlags: []StringFlag{dateFlag},
	RunE: func(cmd *cobra.Command, args []string) error {
		return withSession(cmd, func(_ context.Context, s *session) error {
			return runStatus(cmd, s.tracker.Snapshot(), dateOrToday(cmd))
		})
	},
}.Build()

func runStatus(cmd *cobra.Command, state *models.TrackerState, date string) error {
	w := cmd.OutOrStdout()
	_, _ = fmt.Fprintf(w, "%s\n", Silent("Status for "+date+":"))
	lines := core.DayView(state, date)
	if len(lines) == 0 {
		_, _ = fmt.Fprintf(w, "  %s\n", core.NoUsers)
		return nil
	}
	for _, l := range lines {
		_, _ = fmt.Fprintf(w, "  %s: %s\n", l.User, statusText(l.Status))
	}
	return nil
}
