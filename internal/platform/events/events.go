// Package events publishes domain facts for downstream consumers (abuse
// analytics, audit). Publishing is best effort: the owning transaction has
// already committed by the time an event is emitted, and a publish failure
// is logged, never surfaced to the caller.
package events

import (
	"context"
	"time"
)

// Event types emitted by calldex.
const (
	TypeSpamReported   = "spam.reported"
	TypeUserRegistered = "user.registered"
)

// Event is the wire payload for a single domain fact.
type Event struct {
	Type        string    `json:"type"`
	UserID      string    `json:"user_id"`
	PhoneNumber string    `json:"phone_number,omitempty"`
	Device      string    `json:"device,omitempty"`
	OccurredAt  time.Time `json:"occurred_at"`
}

// Publisher emits events. Implementations must be safe for concurrent use.
type Publisher interface {
	Publish(ctx context.Context, event Event) error
	Close()
}

// Noop discards all events. Used when no brokers are configured and in tests
// that don't assert on events.
type Noop struct{}

func (Noop) Publish(context.Context, Event) error { return nil }
func (Noop) Close()                               {}
