package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/travis-tran03/leetcode-jar/internal/api"
	"github.com/travis-tran03/leetcode-jar/internal/logger"
)

var serveCmd = LeafCommand{
	Use:   "serve",
	Short: "Serve the HTTP API over the selected backend",
	Args:  cobra.NoArgs,
	StrFlags: []StringFlag{
		{Name: "port", Usage: "listen port (default PORT or 8080)"},
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return withSession(cmd, func(ctx context.Context, s *session) error {
			if port, _ := cmd.Flags().GetString("port"); port != "" {
				s.cfg.Port = port
				if err := s.cfg.Validate(); err != nil {
					return err
				}
			}
			// the server logs requests, so it gets the full logger
			serverLog, err := logger.New(s.cfg.LogLevel, true)
			if err != nil {
				return err
			}
			defer serverLog.Sync()
			return api.Serve(ctx, s.cfg, serverLog, s.tracker)
		})
	},
}.Build()
