// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/danielhkuo/toasty-votes/models"
)

// Migrate creates or updates all tables and indexes.
// Safe to call multiple times.
func Migrate(ctx context.Context, database *gorm.DB) error {
	err := database.WithContext(ctx).AutoMigrate(
		&models.User{},
		&models.AdminProfile{},
		&models.Session{},
		&models.Candidate{},
		&models.Vote{},
	)
	if err != nil {
		return fmt.Errorf("failed to migrate schema: %w", err)
	}
	return nil
}
