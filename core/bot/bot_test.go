package bot

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aarthigrand/cinebot/core/booking"
	"github.com/aarthigrand/cinebot/core/session"
)

type recordingSender struct {
	mu    sync.Mutex
	sent  []string
	fail  bool
}

func (r *recordingSender) Send(_ context.Context, _, body string, _ []string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sent = append(r.sent, body)
	if r.fail {
		return errors.New("delivery failed")
	}
	return nil
}

func (r *recordingSender) last(t *testing.T) string {
	t.Helper()
	r.mu.Lock()
	defer r.mu.Unlock()
	require.NotEmpty(t, r.sent)
	return r.sent[len(r.sent)-1]
}

type channelSink struct {
	events chan booking.Event
}

func newChannelSink() *channelSink {
	return &channelSink{events: make(chan booking.Event, 8)}
}

func (s *channelSink) Publish(_ context.Context, ev booking.Event) error {
	s.events <- ev
	return nil
}

func (s *channelSink) wait(t *testing.T) booking.Event {
	t.Helper()
	select {
	case ev := <-s.events:
		return ev
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for booking event")
		return booking.Event{}
	}
}

type panicCatalog struct{ fakeCatalog }

func (panicCatalog) SpecialShowCodes() []string { panic("catalog unavailable") }

func stateOf(store *session.Store, userID string) (session.State, int) {
	var (
		state   session.State
		entries int
	)
	store.WithSession(userID, func(sess *session.Session) {
		state = sess.State
		entries = len(sess.Data)
	})
	return state, entries
}

func TestHandleIncomingFullFlow(t *testing.T) {
	store := session.NewStore(0)
	sender := &recordingSender{}
	sink := newChannelSink()
	b := New(store, fakeCatalog{}, sender, sink)

	ctx := context.Background()
	const user = "whatsapp:+919876543210"

	b.HandleIncoming(ctx, user, "#wretro")
	assert.Contains(t, sender.last(t), "Terms and Conditions")

	b.HandleIncoming(ctx, user, "Accept")
	assert.Contains(t, sender.last(t), "How many tickets")

	b.HandleIncoming(ctx, user, "3 tickets")
	confirmation := sender.last(t)
	assert.Contains(t, confirmation, "3 ticket(s)")
	assert.Contains(t, confirmation, "Dindigul")

	ev := sink.wait(t)
	assert.Equal(t, user, ev.UserID)
	assert.Equal(t, 3, ev.Tickets)
	assert.Equal(t, "Dindigul", ev.Location)
	assert.NotEmpty(t, ev.ID)

	state, _ := stateOf(store, user)
	assert.Equal(t, session.StateCompleted, state)

	// No second event was emitted along the way.
	select {
	case extra := <-sink.events:
		t.Fatalf("unexpected extra booking event %+v", extra)
	default:
	}
}

func TestHandleIncomingPostCompletionRestarts(t *testing.T) {
	store := session.NewStore(0)
	sender := &recordingSender{}
	b := New(store, fakeCatalog{}, sender, nil)

	ctx := context.Background()
	const user = "whatsapp:+911111111111"

	b.HandleIncoming(ctx, user, "#wretro")
	b.HandleIncoming(ctx, user, "accept")
	b.HandleIncoming(ctx, user, "2")
	b.HandleIncoming(ctx, user, "hello again")

	assert.Contains(t, sender.last(t), "Welcome to")

	state, entries := stateOf(store, user)
	assert.Equal(t, session.StateInitial, state)
	assert.Zero(t, entries)
}

func TestHandleIncomingPanicBecomesApology(t *testing.T) {
	store := session.NewStore(0)
	sender := &recordingSender{}
	b := New(store, panicCatalog{}, sender, nil)

	const user = "whatsapp:+912222222222"
	b.HandleIncoming(context.Background(), user, "#wretro")

	assert.Contains(t, sender.last(t), "Sorry, there was an error")

	// The failed attempt left the session untouched.
	state, entries := stateOf(store, user)
	assert.Equal(t, session.StateInitial, state)
	assert.Zero(t, entries)
}

func TestHandleIncomingSendFailureKeepsTransition(t *testing.T) {
	store := session.NewStore(0)
	sender := &recordingSender{fail: true}
	b := New(store, fakeCatalog{}, sender, nil)

	const user = "whatsapp:+913333333333"
	b.HandleIncoming(context.Background(), user, "#wretro")

	state, _ := stateOf(store, user)
	assert.Equal(t, session.StateAcceptedTerms, state)
}

func TestHandleIncomingDecline(t *testing.T) {
	store := session.NewStore(0)
	sender := &recordingSender{}
	b := New(store, fakeCatalog{}, sender, nil)

	ctx := context.Background()
	const user = "whatsapp:+914444444444"

	b.HandleIncoming(ctx, user, "#wretro")
	b.HandleIncoming(ctx, user, "Decline")

	assert.True(t, strings.HasPrefix(sender.last(t), "Welcome to"))

	state, entries := stateOf(store, user)
	assert.Equal(t, session.StateInitial, state)
	assert.Zero(t, entries)
}
