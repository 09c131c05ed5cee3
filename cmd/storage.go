package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/reelx/internal/shared"
	"github.com/desertthunder/reelx/internal/storage"
	"github.com/urfave/cli/v3"
)

// StorageClear removes every entry in the configured namespace, signing the user out.
func (r *Runner) StorageClear(ctx context.Context, cmd *cli.Command) error {
	if err := storage.Clear(r.kv); err != nil {
		return err
	}
	r.session.Initialize()
	r.cache.Reset()

	r.logger.Info("storage cleared", "namespace", r.config.Storage.Namespace)
	return r.writePlain("✓ Cleared namespace %s\n", r.config.Storage.Namespace)
}

// StorageRollback rolls back the latest storage migration.
func (r *Runner) StorageRollback(ctx context.Context, cmd *cli.Command) error {
	if r.db == nil {
		return fmt.Errorf("%w: storage is not backed by a database", shared.ErrServiceUnavailable)
	}
	if err := shared.RollbackMigration(r.db); err != nil {
		return fmt.Errorf("%w: %v", shared.ErrStorage, err)
	}
	return r.writePlain("✓ Rolled back latest migration\n")
}
