package booking

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/aarthigrand/cinebot/core/logger"
	"log/slog"
)

// LogSink records bookings as structured log lines, the minimal durable trail
// when no database is configured.
type LogSink struct{}

// Publish implements Sink.
func (LogSink) Publish(ctx context.Context, ev Event) error {
	logger.Info(ctx, "booking", "booking.created",
		slog.String("booking_id", ev.ID),
		slog.String("sender_id", logger.MaskSender(ev.UserID)),
		slog.Int("tickets", ev.Tickets),
		slog.String("location", ev.Location),
	)
	return nil
}

// StoreSink persists bookings into Postgres for later reporting.
type StoreSink struct {
	db *sqlx.DB
}

// NewStoreSink wraps an open database handle.
func NewStoreSink(db *sqlx.DB) *StoreSink {
	return &StoreSink{db: db}
}

const insertBooking = `
INSERT INTO bookings (id, user_id, tickets, location, created_at)
VALUES (:id, :user_id, :tickets, :location, :created_at)`

// Publish implements Sink.
func (s *StoreSink) Publish(ctx context.Context, ev Event) error {
	if _, err := s.db.NamedExecContext(ctx, insertBooking, ev); err != nil {
		return fmt.Errorf("insert booking: %w", err)
	}
	return nil
}

// ListSince returns bookings created at or after the given time, newest last.
func (s *StoreSink) ListSince(ctx context.Context, since time.Time) ([]Event, error) {
	var out []Event
	err := s.db.SelectContext(ctx, &out,
		`SELECT id, user_id, tickets, location, created_at
		 FROM bookings WHERE created_at >= $1 ORDER BY created_at`, since)
	if err != nil {
		return nil, fmt.Errorf("list bookings: %w", err)
	}
	return out, nil
}
