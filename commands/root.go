// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package commands

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"github.com/danielhkuo/toasty-votes/cliparse"
	"github.com/danielhkuo/toasty-votes/db"
)

var rootCmd = &cobra.Command{
	Use:   "toasty-votes",
	Short: "Toastmasters meeting voting server",
	Long: `toasty-votes runs voting sessions for Toastmasters meetings.
Admins open a session with speakers, evaluators and table topics speakers,
members vote once per category, and results are revealed when polls close.

Configuration comes from the environment (optionally a .env file) and can be
overridden with flags on every command, e.g. -d votes.db -t sqlite.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command
func Execute() error {
	err := rootCmd.Execute()
	if errors.Is(err, flag.ErrHelp) {
		return nil
	}
	return err
}

func init() {
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(grantAdminCmd)
	rootCmd.AddCommand(revokeAdminCmd)
	rootCmd.AddCommand(issueTokenCmd)
	rootCmd.AddCommand(resultsCmd)
}

// loadConfig parses args with the shared config flags and installs the
// configured logger as the slog default
func loadConfig(args []string, extra ...func(*flag.FlagSet)) (cliparse.Config, error) {
	cfg, err := cliparse.ParseFlags(args, extra...)
	if err != nil {
		return cliparse.Config{}, err
	}
	slog.SetDefault(cfg.NewLogger())
	return cfg, nil
}

// openDatabase connects and migrates, returning a closer for the caller to defer
func openDatabase(ctx context.Context, cfg cliparse.Config) (*gorm.DB, func(), error) {
	database, err := db.Open(ctx, cfg.DatabaseType, cfg.DatabaseURL)
	if err != nil {
		return nil, nil, fmt.Errorf("database connection failed: %w", err)
	}
	closer := func() {
		if err := db.Close(database); err != nil {
			slog.Error("close database", "error", err)
		}
	}

	if err := db.Migrate(ctx, database); err != nil {
		closer()
		return nil, nil, fmt.Errorf("schema migration failed: %w", err)
	}
	return database, closer, nil
}

// singleArg returns the one positional argument a command expects
func singleArg(cfg cliparse.Config, name string) (string, error) {
	if len(cfg.Args) != 1 || cfg.Args[0] == "" {
		return "", errors.New("expected exactly one argument: " + name)
	}
	return cfg.Args[0], nil
}
