// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package commands

import (
	"flag"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/danielhkuo/toasty-votes/identity"
)

var grantAdminCmd = &cobra.Command{
	Use:                "grant-admin [--create] <username>",
	Short:              "Make a user a platform admin",
	Long:               "Grant platform admin rights. With --create the user is created when missing.",
	DisableFlagParsing: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		var create bool
		cfg, err := loadConfig(args, func(fs *flag.FlagSet) {
			fs.BoolVar(&create, "create", false, "Create the user if it does not exist")
		})
		if err != nil {
			return err
		}
		username, err := singleArg(cfg, "username")
		if err != nil {
			return err
		}

		database, closeDB, err := openDatabase(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		defer closeDB()

		svc := identity.NewService(database, cfg.TokenSecret, slog.Default())
		if _, err := svc.GrantAdmin(cmd.Context(), username, create); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s is now a platform admin\n", username)
		return nil
	},
}

var revokeAdminCmd = &cobra.Command{
	Use:                "revoke-admin <username>",
	Short:              "Remove platform admin rights from a user",
	DisableFlagParsing: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(args)
		if err != nil {
			return err
		}
		username, err := singleArg(cfg, "username")
		if err != nil {
			return err
		}

		database, closeDB, err := openDatabase(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		defer closeDB()

		svc := identity.NewService(database, cfg.TokenSecret, slog.Default())
		if err := svc.RevokeAdmin(cmd.Context(), username); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s is no longer a platform admin\n", username)
		return nil
	},
}

var issueTokenCmd = &cobra.Command{
	Use:                "issue-token <username>",
	Short:              "Print a bearer token for a user, creating the user if needed",
	DisableFlagParsing: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(args)
		if err != nil {
			return err
		}
		if err := cfg.RequireTokenSecret(); err != nil {
			return err
		}
		username, err := singleArg(cfg, "username")
		if err != nil {
			return err
		}

		database, closeDB, err := openDatabase(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		defer closeDB()

		svc := identity.NewService(database, cfg.TokenSecret, slog.Default())
		token, err := svc.IssueToken(cmd.Context(), username)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), token)
		return nil
	},
}
