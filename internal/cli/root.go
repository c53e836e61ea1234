package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
)

// now is replaced in tests.
var now = time.Now

const dateLayout = "2006-01-02"

var rootCmd = &cobra.Command{
	Use:           "jar",
	Short:         "LeetCode jar: mark done or missed days, $1 per miss",
	SilenceErrors: true,
	SilenceUsage:  true,
}

func init() {
	rootCmd.PersistentFlags().String("backend", "", "force a backend: store, api or local (default: first available)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "log backend selection and debug output")

	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(markCmd)
	rootCmd.AddCommand(closeDayCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(totalsCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(exportCSVCmd)
	rootCmd.AddCommand(exportJSONCmd)
	rootCmd.AddCommand(clearLocalCmd)
	rootCmd.AddCommand(migrateNamesCmd)
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(serveCmd)
}

// Execute runs the root command until it finishes or SIGINT/SIGTERM arrives.
// Errors and panics are printed as an error banner and returned.
func Execute() (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("unexpected failure: %v", r)
			fmt.Fprintln(os.Stderr, Error("error: "+err.Error()))
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, Error("error: "+err.Error()))
		return err
	}
	return nil
}

// dateOrToday returns the --date flag, or today's date.
func dateOrToday(cmd *cobra.Command) string {
	if d, _ := cmd.Flags().GetString("date"); d != "" {
		return d
	}
	return now().Format(dateLayout)
}

var dateFlag = StringFlag{Name: "date", Usage: "date YYYY-MM-DD (default today)"}
