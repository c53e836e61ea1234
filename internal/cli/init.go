package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/travis-tran03/leetcode-jar/internal/core"
)

var initCmd = LeafCommand{
	Use:   "init USER...",
	Short: "Set the list of users (existing entries are kept)",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withSession(cmd, func(ctx context.Context, s *session) error {
			return runInit(ctx, cmd, s.tracker, args)
		})
	},
}.Build()

func runInit(ctx context.Context, cmd *cobra.Command, tracker *core.Tracker, users []string) error {
	if err := tracker.InitUsers(ctx, users); err != nil {
		return err
	}
	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", Info("Initialized users:"), strings.Join(users, ", "))
	return nil
}
