package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/travis-tran03/leetcode-jar/internal/core"
	"github.com/travis-tran03/leetcode-jar/internal/models"
)

var exportCSVCmd = LeafCommand{
	Use:   "export-csv [PATH]",
	Short: "Write the history as CSV (default " + core.CSVFileName + ")",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := core.CSVFileName
		if len(args) == 1 {
			path = args[0]
		}
		return withSession(cmd, func(_ context.Context, s *session) error {
			return runExportCSV(cmd, s.tracker.Snapshot(), path)
		})
	},
}.Build()

var exportJSONCmd = LeafCommand{
	Use:   "export-json [PATH]",
	Short: "Write the full data as JSON (default " + core.ExportFileName + ")",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := core.ExportFileName
		if len(args) == 1 {
			path = args[0]
		}
		return withSession(cmd, func(_ context.Context, s *session) error {
			return runExportJSON(cmd, s.tracker.Snapshot(), path)
		})
	},
}.Build()

func runExportCSV(cmd *cobra.Command, state *models.TrackerState, path string) error {
	if err := os.WriteFile(path, []byte(core.ExportCSV(state)), 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", Info("Exported CSV to"), path)
	return nil
}

func runExportJSON(cmd *cobra.Command, state *models.TrackerState, path string) error {
	data, err := core.ExportJSON(state)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", Info("Exported JSON to"), path)
	return nil
}
