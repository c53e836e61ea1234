package cli

import (
	"context"
	"fmt"
	"sort"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/travis-tran03/leetcode-jar/internal/core"
	"github.com/travis-tran03/leetcode-jar/internal/db"
)

var migrateNamesCmd = LeafCommand{
	Use:   "migrate-names [OLD=NEW...]",
	Short: "Rename users in place: the local slot first, then the shared store",
	StrFlags: []StringFlag{
		{Name: "map-file", Usage: "YAML file of old: new pairs"},
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		mapFile, _ := cmd.Flags().GetString("map-file")
		mapping, err := buildMapping(args, mapFile)
		if err != nil {
			return err
		}
		if len(mapping) == 0 {
			return fmt.Errorf("%w: give OLD=NEW pairs or --map-file", core.ErrInvalidNameMap)
		}

		cfg, log, err := loadEnv(cmd)
		if err != nil {
			return err
		}
		ctx := cmd.Context()

		// data at rest is renamed as stored, so no legacy map is applied here
		var targets []core.NameMigrator
		local, err := db.OpenLocal(ctx, cfg, nil, log)
		if err != nil {
			return err
		}
		defer local.Close()
		targets = append(targets, local)

		if cfg.StoreConfigured() {
			store, err := db.OpenStore(ctx, cfg, nil, log)
			if err != nil {
				log.Warn("Shared store unavailable; migrating local data only", zap.Error(err))
				_, _ = fmt.Fprintln(cmd.ErrOrStderr(), Warning("warning: shared store skipped: "+err.Error()))
			} else {
				defer store.Close()
				targets = append(targets, store)
			}
		}
		return runMigrateNames(ctx, cmd, mapping, log, targets...)
	},
}.Build()

// buildMapping merges the file pairs with the argument pairs; arguments win.
func buildMapping(args []string, mapFile string) (map[string]string, error) {
	mapping := map[string]string{}
	if mapFile != "" {
		fromFile, err := core.LoadNameMapFile(mapFile)
		if err != nil {
			return nil, err
		}
		for k, v := range fromFile {
			mapping[k] = v
		}
	}
	fromArgs, err := core.ParseNamePairs(args)
	if err != nil {
		return nil, err
	}
	for k, v := range fromArgs {
		mapping[k] = v
	}
	return mapping, nil
}

func runMigrateNames(ctx context.Context, cmd *cobra.Command, mapping map[string]string, log *zap.Logger, targets ...core.NameMigrator) error {
	if err := core.MigrateNames(ctx, mapping, log, targets...); err != nil {
		return err
	}
	olds := make([]string, 0, len(mapping))
	for k := range mapping {
		olds = append(olds, k)
	}
	sort.Strings(olds)

	w := cmd.OutOrStdout()
	for _, t := range targets {
		_, _ = fmt.Fprintf(w, "%s %s\n", Info("Migrated"), t.Mode())
	}
	for _, o := range olds {
		_, _ = fmt.Fprintf(w, "  %s -> %s\n", Silent(o), Primary(mapping[o]))
	}
	return nil
}
