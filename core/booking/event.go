// Package booking defines the event emitted when a conversation reaches the
// completed state, and the sinks that record it.
package booking

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Event is the record of a finalized (unpaid) reservation intent.
type Event struct {
	ID        string    `db:"id"`
	UserID    string    `db:"user_id"`
	Tickets   int       `db:"tickets"`
	Location  string    `db:"location"`
	CreatedAt time.Time `db:"created_at"`
}

// NewEvent builds a booking event with a fresh identifier and timestamp.
func NewEvent(userID string, tickets int, location string) Event {
	return Event{
		ID:        uuid.NewString(),
		UserID:    userID,
		Tickets:   tickets,
		Location:  location,
		CreatedAt: time.Now().UTC(),
	}
}

// Sink receives booking events. Publishing is fire-and-forget from the
// caller's point of view; implementations report errors for logging only.
type Sink interface {
	Publish(ctx context.Context, ev Event) error
}

// Sinks fans an event out to every registered sink.
type Sinks []Sink

// Publish delivers the event to each sink, returning the first error.
func (s Sinks) Publish(ctx context.Context, ev Event) error {
	var first error
	for _, sink := range s {
		if sink == nil {
			continue
		}
		if err := sink.Publish(ctx, ev); err != nil && first == nil {
			first = err
		}
	}
	return first
}
