// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// Package events publishes session lifecycle events to NATS.
//
// Publishing is fire-and-forget: the database is the source of truth and a
// failed publish never fails the operation that produced it. When no NATS URL
// is configured, Connect returns Nop.
package events

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/nats-io/nats.go"
)

// Subjects
const (
	SubjectSessionCreated = "toasty.session.created"
	SubjectVotesCast      = "toasty.votes.cast"
	SubjectPollsClosed    = "toasty.polls.closed"
	SubjectResultsToggled = "toasty.results.toggled"
)

// Event is the JSON payload published on every subject
type Event struct {
	SessionID   string    `json:"session_id"`
	Code        string    `json:"code"`
	ActorID     string    `json:"actor_id,omitempty"`
	Votes       int       `json:"votes,omitempty"`
	ShowResults *bool     `json:"show_results,omitempty"`
	OccurredAt  time.Time `json:"occurred_at"`
}

// Publisher sends events to a message bus
type Publisher interface {
	Publish(ctx context.Context, subject string, ev Event) error
	Close()
}

// Nop discards every event
type Nop struct{}

func (Nop) Publish(context.Context, string, Event) error { return nil }
func (Nop) Close()                                      {}

// NATS publishes events over a core NATS connection
type NATS struct {
	conn *nats.Conn
}

// Connect dials url, or returns Nop when url is empty
func Connect(url string, opts ...nats.Option) (Publisher, error) {
	if url == "" {
		return Nop{}, nil
	}

	opts = append([]nats.Option{nats.Name("toasty-votes")}, opts...)
	nc, err := nats.Connect(url, opts...)
	if err != nil {
		return nil, err
	}
	return &NATS{conn: nc}, nil
}

// Publish encodes ev as JSON and publishes it to subject
func (p *NATS) Publish(ctx context.Context, subject string, ev Event) error {
	if p == nil {
		return errors.New("nil publisher")
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	data, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	return p.conn.Publish(subject, data)
}

// Close drains pending messages and closes the connection
func (p *NATS) Close() {
	if p == nil {
		return
	}
	if err := p.conn.Drain(); err != nil {
		p.conn.Close()
	}
}
