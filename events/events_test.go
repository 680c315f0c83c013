// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package events

import (
	"context"
	"encoding/json"
	"testing"
	"time"
)

func TestConnectWithoutURL(t *testing.T) {
	pub, err := Connect("")
	if err != nil {
		t.Fatalf("Connect() error = %v", err)
	}
	if _, ok := pub.(Nop); !ok {
		t.Fatalf("Expected Nop publisher, got %T", pub)
	}
	if err := pub.Publish(context.Background(), SubjectVotesCast, Event{}); err != nil {
		t.Errorf("Nop.Publish() error = %v", err)
	}
	pub.Close()
}

func TestNilNATSPublish(t *testing.T) {
	var p *NATS
	if err := p.Publish(context.Background(), SubjectPollsClosed, Event{}); err == nil {
		t.Error("Expected error from nil publisher")
	}
	p.Close()
}

func TestEventJSON(t *testing.T) {
	shown := true
	ev := Event{
		SessionID:   "s1",
		Code:        "ab12",
		ShowResults: &shown,
		OccurredAt:  time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC),
	}

	data, err := json.Marshal(ev)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}

	var got map[string]any
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if got["show_results"] != true {
		t.Errorf("show_results = %v, want true", got["show_results"])
	}
	if _, ok := got["votes"]; ok {
		t.Error("Expected votes to be omitted when zero")
	}
	if _, ok := got["actor_id"]; ok {
		t.Error("Expected actor_id to be omitted when empty")
	}
}
