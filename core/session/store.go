package session

import (
	"context"
	"sync"
	"time"

	"github.com/aarthigrand/cinebot/core/logger"
	"log/slog"
)

// DefaultTTL is the inactivity threshold after which a session is considered abandoned.
const DefaultTTL = 30 * time.Minute

// Store owns the mapping from user identifier to conversation session.
// A single mutex guards the whole mapping, which also serializes the
// read-modify-write of any one user's session.
type Store struct {
	mu       sync.Mutex
	sessions map[string]*Session
	ttl      time.Duration
	now      func() time.Time
}

// NewStore constructs an empty store with the given inactivity threshold.
// A non-positive ttl falls back to DefaultTTL.
func NewStore(ttl time.Duration) *Store {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Store{
		sessions: make(map[string]*Session),
		ttl:      ttl,
		now:      time.Now,
	}
}

// WithSession runs fn against the session for userID while holding the store
// lock, creating an initial session if absent. A session whose last activity
// is older than the inactivity threshold is reset before fn observes it.
func (s *Store) WithSession(userID string, fn func(*Session)) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	sess, ok := s.sessions[userID]
	if !ok {
		sess = newSession(userID, now)
		s.sessions[userID] = sess
		logger.Debug(context.Background(), "session", "session.create",
			slog.String("sender_id", logger.MaskSender(userID)),
		)
	} else if IsExpired(sess.LastActivity, now, s.ttl) {
		logger.Info(context.Background(), "session", "session.expired",
			slog.String("sender_id", logger.MaskSender(userID)),
			slog.String("state", string(sess.State)),
		)
		sess.Reset()
	}

	fn(sess)
}

// End removes the session entirely; a subsequent access starts fresh.
func (s *Store) End(userID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, userID)
}

// SweepExpired removes every session inactive beyond the threshold and
// returns the number removed.
func (s *Store) SweepExpired() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	removed := 0
	for userID, sess := range s.sessions {
		if IsExpired(sess.LastActivity, now, s.ttl) {
			delete(s.sessions, userID)
			removed++
		}
	}
	return removed
}

// Len reports the number of live sessions.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// RunSweeper periodically removes expired sessions until ctx is cancelled.
// It is intended to run in its own goroutine.
func (s *Store) RunSweeper(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = 5 * time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			removed := s.SweepExpired()
			if removed > 0 {
				logger.Info(ctx, "session", "session.sweep",
					slog.Int("removed", removed),
					slog.Int("sessions", s.Len()),
				)
			}
		}
	}
}
