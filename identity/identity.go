// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package identity

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/danielhkuo/toasty-votes/auth"
	"github.com/danielhkuo/toasty-votes/db"
	"github.com/danielhkuo/toasty-votes/models"
)

var ErrUserNotFound = errors.New("user not found")

// Service resolves bearer tokens into actors and manages admin profiles
type Service struct {
	db     *gorm.DB
	secret string
	logger *slog.Logger
}

func NewService(database *gorm.DB, secret string, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{db: database, secret: secret, logger: logger}
}

// Resolve turns a bearer token into an Actor. An empty token yields the
// anonymous actor; a malformed or forged one yields auth.ErrInvalidToken.
// The user record is created on first sight.
func (s *Service) Resolve(ctx context.Context, token string) (models.Actor, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return models.Actor{}, nil
	}

	username, err := auth.ParseUserToken(token, s.secret)
	if err != nil {
		return models.Actor{}, err
	}

	user, err := s.EnsureUser(ctx, username)
	if err != nil {
		return models.Actor{}, err
	}

	var profile models.AdminProfile
	isAdmin := false
	err = s.db.WithContext(ctx).Where("user_id = ?", user.ID).First(&profile).Error
	switch {
	case err == nil:
		isAdmin = profile.IsPlatformAdmin
	case !db.IsNotFound(err):
		return models.Actor{}, fmt.Errorf("load admin profile: %w", err)
	}

	return models.Actor{
		UserID:          user.ID,
		Username:        user.Username,
		IsPlatformAdmin: isAdmin,
		Authenticated:   true,
	}, nil
}

// EnsureUser returns the user named username, creating it if needed
func (s *Service) EnsureUser(ctx context.Context, username string) (models.User, error) {
	if err := auth.ValidateUsername(username); err != nil {
		return models.User{}, err
	}

	user, err := s.findUser(ctx, username)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, ErrUserNotFound) {
		return models.User{}, err
	}

	user = models.User{
		ID:        uuid.NewString(),
		Username:  username,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.db.WithContext(ctx).Create(&user).Error; err != nil {
		// lost a race with a concurrent first request
		if db.IsUniqueViolation(err) {
			return s.findUser(ctx, username)
		}
		return models.User{}, fmt.Errorf("create user: %w", err)
	}

	s.logger.Info("user created", "event", "user_created", "user_id", user.ID, "username", username)
	return user, nil
}

// GrantAdmin marks username as a platform admin. Unknown users are created
// when create is set, otherwise ErrUserNotFound is returned.
func (s *Service) GrantAdmin(ctx context.Context, username string, create bool) (models.User, error) {
	var user models.User
	var err error
	if create {
		user, err = s.EnsureUser(ctx, username)
	} else {
		user, err = s.findUser(ctx, username)
	}
	if err != nil {
		return models.User{}, err
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var profile models.AdminProfile
		err := tx.Where("user_id = ?", user.ID).First(&profile).Error
		if db.IsNotFound(err) {
			profile = models.AdminProfile{ID: uuid.NewString(), UserID: user.ID, IsPlatformAdmin: true}
			return tx.Create(&profile).Error
		}
		if err != nil {
			return err
		}
		return tx.Model(&profile).Update("is_platform_admin", true).Error
	})
	if err != nil {
		return models.User{}, fmt.Errorf("grant admin: %w", err)
	}

	s.logger.Info("platform admin granted", "event", "admin_granted", "user_id", user.ID, "username", username)
	return user, nil
}

// RevokeAdmin clears the platform admin flag for username
func (s *Service) RevokeAdmin(ctx context.Context, username string) error {
	user, err := s.findUser(ctx, username)
	if err != nil {
		return err
	}

	if err := s.db.WithContext(ctx).
		Model(&models.AdminProfile{}).
		Where("user_id = ?", user.ID).
		Update("is_platform_admin", false).Error; err != nil {
		return fmt.Errorf("revoke admin: %w", err)
	}

	s.logger.Info("platform admin revoked", "event", "admin_revoked", "user_id", user.ID, "username", username)
	return nil
}

// IssueToken returns a bearer token for username, creating the user if needed
func (s *Service) IssueToken(ctx context.Context, username string) (string, error) {
	if _, err := s.EnsureUser(ctx, username); err != nil {
		return "", err
	}
	return auth.GenerateUserToken(username, s.secret)
}

func (s *Service) findUser(ctx context.Context, username string) (models.User, error) {
	var user models.User
	err := s.db.WithContext(ctx).Where("username = ?", username).First(&user).Error
	if err != nil {
		if db.IsNotFound(err) {
			return models.User{}, ErrUserNotFound
		}
		return models.User{}, fmt.Errorf("find user: %w", err)
	}
	return user, nil
}
