package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/travis-tran03/leetcode-jar/internal/core"
	"github.com/travis-tran03/leetcode-jar/internal/models"
)

var markCmd = LeafCommand{
	Use:      "mark USER done|missed",
	Short:    "Mark a user's day done or missed",
	Args:     cobra.ExactArgs(2),
	StrFlags: []StringFlag{dateFlag},
	RunE: func(cmd *cobra.Command, args []string) error {
		return withSession(cmd, func(ctx context.Context, s *session) error {
			return runMark(ctx, cmd, s.tracker, dateOrToday(cmd), args[0], models.Status(args[1]))
		})
	},
}.Build()

func runMark(ctx context.Context, cmd *cobra.Command, tracker *core.Tracker, date, user string, status models.Status) error {
	if err := tracker.Mark(ctx, date, user, status); err != nil {
		return err
	}
	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Marked %s as %s on %s\n", Primary(user), statusText(string(status)), date)
	return nil
}

func statusText(status string) string {
	switch status {
	case string(models.StatusDone):
		return Info(status)
	case string(models.StatusMissed):
		return Error(status)
	}
	return Silent(status)
}
