package main

import (
	"context"
	"fmt"
	"os"

	"github.com/desertthunder/reelx/internal/shared"
	"github.com/urfave/cli/v3"
)

// Setup creates the config file from the embedded template when missing and migrates storage.
func (r *Runner) Setup(ctx context.Context, cmd *cli.Command) error {
	configPath := cmd.String("config")

	if _, err := os.Stat(configPath); err != nil {
		r.logger.Info("config file not found, creating from template", "path", configPath)
		if err := shared.CreateConfigFile(configPath); err != nil {
			return fmt.Errorf("failed to create config file: %w", err)
		}
		r.logger.Info("config file created", "path", configPath)
	}

	config, err := shared.ResolveConfig(configPath)
	if err != nil {
		return err
	}

	r.logger.Info("initializing storage", "path", config.Storage.Path, "namespace", config.Storage.Namespace)
	db, err := shared.OpenMigrated(config.Storage.Path, config.Storage.MaxOpenConns, config.Storage.MaxIdleConns)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrStorage, err)
	}
	defer db.Close()

	r.writePlain("✓ Setup complete\n")
	r.writePlain("Config: %s\n", configPath)
	r.writePlain("Storage: %s\n", config.Storage.Path)
	r.writePlainln("Next steps:")
	r.writePlain("1. Set [api] base_url in %s (or run 'reelx mock serve')\n", configPath)
	return r.writePlain("2. Run 'reelx auth login' to sign in\n")
}
