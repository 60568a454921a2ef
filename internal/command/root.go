// Package command contains the CLI command constructors.
package command

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/stolasapp/inotebook/internal/config"
	"github.com/stolasapp/inotebook/internal/observability"
	"github.com/stolasapp/inotebook/internal/sec"
)

// RootCommand instantiates the root command, with all sub-commands bound.
func RootCommand() *cobra.Command {
	configFilePath := config.DefaultPath()
	cmd := &cobra.Command{
		Use:          "inotebook [command] [flags]",
		Short:        "The notes API server",
		Version:      version(),
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		CompletionOptions: cobra.CompletionOptions{
			HiddenDefaultCmd: true,
		},
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) (err error) {
			cfg, err := loadOrInitConfig(configFilePath)
			if err != nil {
				return fmt.Errorf("failed to load configuration: %w", err)
			}
			logger := observability.InitSlog(cfg)
			logger.DebugContext(cmd.Context(), "configuration loaded", slog.Any("config", cfg))
			slog.SetDefault(logger)
			cmd.SetContext(context.WithValue(cmd.Context(), configKey{}, cfg))
			return nil
		},
	}

	cmd.PersistentFlags().StringVarP(
		&configFilePath,
		"config", "c",
		configFilePath,
		"path to the configuration file",
	)

	cmd.AddCommand(
		serveCommand(),
		accountCommand(),
		tokenCommand(),
	)

	return cmd
}

// loadOrInitConfig loads the configuration at configFilePath. If the file does
// not exist and the environment does not supply a signing key, it offers to
// write a default configuration with a freshly generated one.
func loadOrInitConfig(configFilePath string) (*config.Config, error) {
	cfg, err := config.Load(configFilePath)
	if err == nil || !errors.Is(err, config.ErrSigningKeyRequired) {
		return cfg, err
	}
	if _, statErr := os.Stat(configFilePath); !errors.Is(statErr, os.ErrNotExist) {
		return nil, err
	}

	resp, initErr := prompt(fmt.Sprintf("Config not found at %s. Create one? [y|N] ", configFilePath), false)
	if initErr != nil || !bytes.Equal(resp, []byte("y")) {
		return nil, errors.Join(err, initErr)
	}

	cfg = config.Default()
	cfg.Auth.SigningKey = sec.GenerateSigningKey()
	if err = config.Save(configFilePath, cfg); err != nil {
		return nil, err
	}
	return config.Load(configFilePath)
}
