package core

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
)

// MigrateNames rewrites identifiers in place in every target, in order.
// There is no dry run and no rollback: a failing target is logged and
// reported in the joined error while the remaining targets still run.
func MigrateNames(ctx context.Context, mapping map[string]string, logger *zap.Logger, targets ...NameMigrator) error {
	if logger == nil {
		logger = zap.NewNop()
	}
	if len(mapping) == 0 {
		return fmt.Errorf("%w: mapping is empty", ErrInvalidNameMap)
	}
	if len(targets) == 0 {
		return ErrNoBackend
	}

	var errs []error
	for _, target := range targets {
		if err := target.RenameUsers(ctx, mapping); err != nil {
			logger.Error("Name migration failed", zap.String("mode", target.Mode()), zap.Error(err))
			errs = append(errs, fmt.Errorf("%s: %w", target.Mode(), err))
			continue
		}
		logger.Info("Name migration applied", zap.String("mode", target.Mode()), zap.Any("mapping", mapping))
	}
	return errors.Join(errs...)
}
