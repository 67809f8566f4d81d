// Package main provides the entry point for the application with CLI commands.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/shipdocs/employee-onboarding-sub012/cmd/app/commands"
	"github.com/shipdocs/employee-onboarding-sub012/internal/app"
	"github.com/shipdocs/employee-onboarding-sub012/internal/config"
)

const version = "1.0.0"

// withContainer builds the DI container for a command and guarantees that key
// material is wiped before the process exits.
func withContainer(
	fn func(ctx context.Context, cmd *cli.Command, container *app.Container, logger *slog.Logger) error,
) cli.ActionFunc {
	return func(ctx context.Context, cmd *cli.Command) error {
		cfg := config.Load()
		container := app.NewContainer(cfg)
		logger := container.Logger()

		defer func() {
			if err := container.Shutdown(context.Background()); err != nil {
				logger.Error("failed to shutdown container", slog.Any("error", err))
			}
		}()

		return fn(ctx, cmd, container, logger)
	}
}

func main() {
	cmd := &cli.Command{
		Name:    "fieldcrypt",
		Usage:   "Field-level encryption engine for sensitive database columns",
		Version: version,
		Commands: []*cli.Command{
			{
				Name:  "init-keys",
				Usage: "Initialize the key store, generating key version 1 if absent",
				Action: withContainer(func(ctx context.Context, cmd *cli.Command, container *app.Container, logger *slog.Logger) error {
					keyManager, err := container.KeyManager(ctx)
					if err != nil {
						return fmt.Errorf("failed to initialize key manager: %w", err)
					}
					return commands.RunInitKeys(ctx, keyManager, logger, commands.DefaultIO())
				}),
			},
			{
				Name:  "rotate-key",
				Usage: "Generate and promote a new key version",
				Action: withContainer(func(ctx context.Context, cmd *cli.Command, container *app.Container, logger *slog.Logger) error {
					useCase, err := container.FieldEncryption(ctx)
					if err != nil {
						return fmt.Errorf("failed to initialize encryption service: %w", err)
					}
					return commands.RunRotateKey(ctx, useCase, logger, commands.DefaultIO())
				}),
			},
			{
				Name:  "encrypt",
				Usage: "Encrypt a field value and print the payload JSON",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "value",
						Aliases:  []string{"v"},
						Usage:    "Plaintext value to encrypt",
						Required: true,
					},
					&cli.StringFlag{
						Name:    "context",
						Aliases: []string{"c"},
						Value:   "",
						Usage:   "Field context bound to the payload (e.g., employee.email)",
					},
				},
				Action: withContainer(func(ctx context.Context, cmd *cli.Command, container *app.Container, logger *slog.Logger) error {
					useCase, err := container.FieldEncryption(ctx)
					if err != nil {
						return fmt.Errorf("failed to initialize encryption service: %w", err)
					}
					return commands.RunEncrypt(ctx, useCase, commands.DefaultIO(),
						cmd.String("value"), cmd.String("context"))
				}),
			},
			{
				Name:  "decrypt",
				Usage: "Decrypt a payload JSON and print the plaintext",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "payload",
						Aliases:  []string{"p"},
						Usage:    "Encrypted payload JSON as produced by encrypt",
						Required: true,
					},
				},
				Action: withContainer(func(ctx context.Context, cmd *cli.Command, container *app.Container, logger *slog.Logger) error {
					useCase, err := container.FieldEncryption(ctx)
					if err != nil {
						return fmt.Errorf("failed to initialize encryption service: %w", err)
					}
					return commands.RunDecrypt(ctx, useCase, commands.DefaultIO(),
						cmd.String("payload"))
				}),
			},
			{
				Name:  "reencrypt",
				Usage: "Migrate a payload to the current key version",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "payload",
						Aliases:  []string{"p"},
						Usage:    "Encrypted payload JSON to migrate",
						Required: true,
					},
				},
				Action: withContainer(func(ctx context.Context, cmd *cli.Command, container *app.Container, logger *slog.Logger) error {
					useCase, err := container.FieldEncryption(ctx)
					if err != nil {
						return fmt.Errorf("failed to initialize encryption service: %w", err)
					}
					return commands.RunReencrypt(ctx, useCase, logger, commands.DefaultIO(),
						cmd.String("payload"))
				}),
			},
			{
				Name:  "search-hash",
				Usage: "Print the deterministic equality-search digest for a value",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "value",
						Aliases:  []string{"v"},
						Usage:    "Plaintext value to hash",
						Required: true,
					},
				},
				Action: withContainer(func(ctx context.Context, cmd *cli.Command, container *app.Container, logger *slog.Logger) error {
					useCase, err := container.FieldEncryption(ctx)
					if err != nil {
						return fmt.Errorf("failed to initialize encryption service: %w", err)
					}
					return commands.RunSearchHash(ctx, useCase, commands.DefaultIO(),
						cmd.String("value"))
				}),
			},
			{
				Name:  "metrics-server",
				Usage: "Start the Prometheus metrics server",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return commands.RunMetricsServer(ctx, version)
				},
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		logger := slog.New(slog.NewJSONHandler(os.Stderr, nil))
		logger.Error("command failed", slog.Any("error", err))
		os.Exit(1)
	}
}
