package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/travis-tran03/leetcode-jar/internal/core"
	"github.com/travis-tran03/leetcode-jar/internal/models"
)

var totalsCmd = LeafCommand{
	Use:   "totals",
	Short: "Show missed totals per user and the jar balance",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withSession(cmd, func(_ context.Context, s *session) error {
			return runTotals(cmd, s.tracker.Snapshot())
		})
	},
}.Build()

func runTotals(cmd *cobra.Command, state *models.TrackerState) error {
	w := cmd.OutOrStdout()
	_, _ = fmt.Fprintf(w, "%s\n", Silent("Totals (missed days -> $1 each):"))
	lines := core.TotalsView(state)
	if len(lines) == 0 {
		_, _ = fmt.Fprintf(w, "  %s\n", core.NoUsers)
	}
	for _, l := range lines {
		_, _ = fmt.Fprintf(w, "  %s: $%d\n", l.User, l.Missed)
	}
	_, _ = fmt.Fprintf(w, "%s %s\n", Info("Jar balance:"),
		Primary(fmt.Sprintf("$%d", core.JarBalance(core.ComputeTotals(state)))))
	return nil
}
