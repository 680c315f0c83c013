// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package voting

import (
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"

	"github.com/danielhkuo/toasty-votes/auth"
	"github.com/danielhkuo/toasty-votes/events"
	"github.com/danielhkuo/toasty-votes/models"
)

const (
	DefaultTTL     = 24 * time.Hour
	DefaultTitle   = "Toastmasters Vote"
	MaxTitleLength = 200
	MaxNameLength  = 100

	// collisions tolerated at one code length before widening
	codeAttemptsPerLength = 5
)

// Clock supplies the current time
type Clock interface {
	Now() time.Time
}

// ClockFunc adapts a function to Clock
type ClockFunc func() time.Time

func (f ClockFunc) Now() time.Time { return f() }

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now().UTC() }

// Options configures a Service. Zero values select the defaults.
type Options struct {
	TTL          time.Duration
	DefaultTitle string
	Clock        Clock
	Logger       *slog.Logger
	Events       events.Publisher
}

// Service runs the session, ledger, and tally operations against the database
type Service struct {
	db           *gorm.DB
	ttl          time.Duration
	defaultTitle string
	clock        Clock
	logger       *slog.Logger
	events       events.Publisher
	tracer       trace.Tracer

	generateCode func(length int) (string, error)
	insertVotes  func(tx *gorm.DB, votes []models.Vote) error
}

func NewService(db *gorm.DB, opts Options) *Service {
	s := &Service{
		db:           db,
		ttl:          opts.TTL,
		defaultTitle: opts.DefaultTitle,
		clock:        opts.Clock,
		logger:       resolveLogger(opts.Logger),
		events:       opts.Events,
		tracer:       otel.Tracer("github.com/danielhkuo/toasty-votes/voting"),
		generateCode: auth.GenerateCode,
		insertVotes:  createVotes,
	}
	if s.ttl <= 0 {
		s.ttl = DefaultTTL
	}
	if s.defaultTitle == "" {
		s.defaultTitle = DefaultTitle
	}
	if s.clock == nil {
		s.clock = systemClock{}
	}
	if s.events == nil {
		s.events = events.Nop{}
	}
	return s
}

// Now returns the service clock's current time
func (s *Service) Now() time.Time {
	return s.clock.Now()
}

func createVotes(tx *gorm.DB, votes []models.Vote) error {
	return tx.Create(&votes).Error
}

func resolveLogger(logger *slog.Logger) *slog.Logger {
	if logger == nil {
		return slog.Default()
	}
	return logger
}
