package session

import "time"

// State identifies a step of the booking conversation flow.
type State string

const (
	// StateInitial indicates a fresh conversation with no booking in progress.
	StateInitial State = "initial"
	// StateAcceptedTerms indicates terms and conditions were presented and an
	// accept/decline answer is awaited.
	StateAcceptedTerms State = "accepted_terms"
	// StateTicketsSelected indicates a ticket quantity answer is awaited.
	StateTicketsSelected State = "tickets_selected"
	// StateCompleted indicates the booking intent was finalized.
	StateCompleted State = "completed"
)

// Valid reports whether s is a member of the closed state set.
func (s State) Valid() bool {
	switch s {
	case StateInitial, StateAcceptedTerms, StateTicketsSelected, StateCompleted:
		return true
	}
	return false
}

// Session stores conversation state and accumulated booking data for one user.
// Sessions are owned by the Store and must only be mutated inside
// Store.WithSession.
type Session struct {
	UserID       string
	State        State
	Data         map[string]any
	LastActivity time.Time
}

func newSession(userID string, now time.Time) *Session {
	return &Session{
		UserID:       userID,
		State:        StateInitial,
		Data:         make(map[string]any),
		LastActivity: now,
	}
}

// Set stores a data value and bumps the activity timestamp.
func (s *Session) Set(key string, value any) {
	s.Data[key] = value
	s.LastActivity = time.Now()
}

// GetString retrieves a string value by key.
func (s *Session) GetString(key string) (string, bool) {
	v, ok := s.Data[key]
	if !ok {
		return "", false
	}
	str, ok := v.(string)
	return str, ok
}

// GetInt retrieves an integer value by key.
func (s *Session) GetInt(key string) (int, bool) {
	v, ok := s.Data[key]
	if !ok {
		return 0, false
	}
	switch n := v.(type) {
	case int:
		return n, true
	case int64:
		return int(n), true
	}
	return 0, false
}

// Transition moves the session to a new state and bumps the activity timestamp.
func (s *Session) Transition(next State) {
	s.State = next
	s.LastActivity = time.Now()
}

// Reset returns the session to the initial state with empty data.
func (s *Session) Reset() {
	s.State = StateInitial
	s.Data = make(map[string]any)
	s.LastActivity = time.Now()
}

// IsExpired is the single expiry predicate shared by the lazy access check
// and the periodic sweep.
func IsExpired(lastActivity, now time.Time, threshold time.Duration) bool {
	return now.Sub(lastActivity) > threshold
}
