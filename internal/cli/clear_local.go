package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/travis-tran03/leetcode-jar/internal/db"
)

var clearLocalCmd = LeafCommand{
	Use:   "clear-local",
	Short: "Delete the locally saved data (shared store and API are untouched)",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, log, err := loadEnv(cmd)
		if err != nil {
			return err
		}
		names, err := cfg.LegacyNames()
		if err != nil {
			return err
		}
		local, err := db.OpenLocal(cmd.Context(), cfg, names, log)
		if err != nil {
			return err
		}
		defer local.Close()
		return runClearLocal(cmd.Context(), cmd, local)
	},
}.Build()

func runClearLocal(ctx context.Context, cmd *cobra.Command, local *db.LocalBackend) error {
	if err := local.Clear(ctx); err != nil {
		return err
	}
	_, _ = fmt.Fprintln(cmd.OutOrStdout(), Info("Local data cleared."))
	return nil
}
