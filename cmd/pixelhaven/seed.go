// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Pixelhaven Contributors

package main

import (
	"context"
	"errors"
	"os"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"
	"github.com/spf13/cobra"

	"github.com/pixelhaven/pixelhaven/internal/access"
	"github.com/pixelhaven/pixelhaven/internal/auth"
	"github.com/pixelhaven/pixelhaven/internal/config"
	"github.com/pixelhaven/pixelhaven/internal/identity"
	identitypg "github.com/pixelhaven/pixelhaven/internal/identity/postgres"
	"github.com/pixelhaven/pixelhaven/internal/store"
)

// Default timeout for seed command.
const defaultSeedTimeout = 30 * time.Second

// seedConfig holds configuration for the seed command.
type seedConfig struct {
	username string
	timeout  time.Duration
}

// NewSeedCmd creates the seed subcommand.
func NewSeedCmd() *cobra.Command {
	cfg := &seedConfig{}

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Create the bootstrap administrator account",
		Long: `Creates an administrator account holding every staff capability.
The password is read from the PIXELHAVEN_ADMIN_PASSWORD environment variable.
This command is idempotent - an existing account keeps its password and is
re-granted the full capability set.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSeed(cmd, args, cfg)
		},
	}

	cmd.Flags().StringVar(&cfg.username, "username", "admin", "administrator username")
	cmd.Flags().DurationVar(&cfg.timeout, "timeout", defaultSeedTimeout, "timeout for database operations (e.g., 30s, 1m)")
	cmd.Flags().String("database.url", "", "PostgreSQL connection URL")

	return cmd
}

func runSeed(cmd *cobra.Command, _ []string, cfg *seedConfig) error {
	password := os.Getenv("PIXELHAVEN_ADMIN_PASSWORD")
	if password == "" {
		return oops.Code("CONFIG_INVALID").Errorf("PIXELHAVEN_ADMIN_PASSWORD environment variable is required")
	}
	if err := identity.ValidateUsername(cfg.username); err != nil {
		return err
	}

	appCfg, err := config.Load(configFile, cmd.Flags())
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), cfg.timeout)
	defer cancel()

	pool, err := store.Connect(ctx, appCfg.Database.URL)
	if err != nil {
		return err
	}
	defer pool.Close()

	users := identitypg.NewUserRepository(pool)
	staff := identitypg.NewStaffRepository(pool)

	user, err := users.GetByUsername(ctx, cfg.username)
	switch {
	case errors.Is(err, identity.ErrNotFound):
		hash, hashErr := auth.NewArgon2idHasher().Hash(password)
		if hashErr != nil {
			return hashErr
		}
		now := time.Now()
		user = &identity.User{
			ID:           ulid.Make(),
			Username:     cfg.username,
			PasswordHash: hash,
			CreatedAt:    now,
			UpdatedAt:    now,
		}
		if createErr := users.Create(ctx, user); createErr != nil {
			return createErr
		}
		cmd.Printf("Created administrator %q\n", cfg.username)
	case err != nil:
		return err
	default:
		cmd.Printf("Administrator %q already exists\n", cfg.username)
	}

	now := time.Now()
	rec := &identity.StaffRecord{
		UserID:    user.ID,
		Caps:      access.FullSet(),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if existing, getErr := staff.Get(ctx, user.ID); getErr == nil {
		rec.CreatedAt = existing.CreatedAt
	} else if !errors.Is(getErr, identity.ErrNotFound) {
		return getErr
	}
	if err := staff.Upsert(ctx, rec); err != nil {
		return err
	}

	cmd.Println("Granted full capability set")
	return nil
}
