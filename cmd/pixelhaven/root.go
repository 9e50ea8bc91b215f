// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Pixelhaven Contributors

package main

import (
	"github.com/spf13/cobra"

	"github.com/pixelhaven/pixelhaven/internal/xdg"
)

// Global flags available to all subcommands.
var configFile string

// NewRootCmd creates the root command for the Pixelhaven CLI.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pixelhaven",
		Short: "Pixelhaven - a social gaming platform backend",
		Long: `Pixelhaven is the backend for a social gaming platform with user
profiles, item inventories, group walls, friends, and staff moderation.`,
	}

	cmd.PersistentFlags().StringVar(&configFile, "config", xdg.ConfigFile(), "config file path")

	cmd.AddCommand(NewServeCmd())
	cmd.AddCommand(NewMigrateCmd())
	cmd.AddCommand(NewSeedCmd())

	return cmd
}
