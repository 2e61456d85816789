package booking

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewEvent(t *testing.T) {
	before := time.Now().UTC()
	ev := NewEvent("whatsapp:+919876543210", 3, "Dindigul")

	_, err := uuid.Parse(ev.ID)
	require.NoError(t, err)
	assert.Equal(t, "whatsapp:+919876543210", ev.UserID)
	assert.Equal(t, 3, ev.Tickets)
	assert.Equal(t, "Dindigul", ev.Location)
	assert.False(t, ev.CreatedAt.Before(before))

	assert.NotEqual(t, ev.ID, NewEvent("u", 1, "l").ID)
}

type stubSink struct {
	calls int
	err   error
}

func (s *stubSink) Publish(context.Context, Event) error {
	s.calls++
	return s.err
}

func TestSinksFanOut(t *testing.T) {
	a := &stubSink{}
	b := &stubSink{err: errors.New("sink b down")}
	c := &stubSink{err: errors.New("sink c down")}

	err := Sinks{a, nil, b, c}.Publish(context.Background(), NewEvent("u", 1, "l"))

	// Every sink sees the event even when an earlier one failed.
	assert.Equal(t, 1, a.calls)
	assert.Equal(t, 1, b.calls)
	assert.Equal(t, 1, c.calls)
	assert.Equal(t, b.err, err)
}
