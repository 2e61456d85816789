package bot

import (
	"strconv"
	"strings"

	"github.com/aarthigrand/cinebot/core/reply"
	"github.com/aarthigrand/cinebot/core/session"
)

// Catalog is the read-only view of the cinema the engine decides against.
type Catalog interface {
	CinemaName() string
	SingleLocation() string
	IsSpecialShow(token string) bool
	SpecialShowCodes() []string
}

// Transition is the outcome of evaluating one inbound message: the state to
// move to, the data mutations to apply, and the reply to issue.
type Transition struct {
	Next session.State
	// Reset clears state and data before Set is applied.
	Reset bool
	Set   map[string]any
	Reply reply.ID
	// Booking marks that a booking event must be emitted.
	Booking bool
}

// Normalize prepares an inbound message body for evaluation.
func Normalize(text string) string {
	return strings.ToLower(strings.TrimSpace(text))
}

// Evaluate maps the current state and a normalized input to a transition.
// It is pure: no session is mutated here and no I/O happens.
//
// The flow is intentionally linear with no cycles except explicit resets;
// decline, invalid input and post-completion messages all route back to the
// initial state rather than leaving the user stuck.
func Evaluate(state session.State, input string, cat Catalog) Transition {
	switch state {
	case session.StateInitial:
		if code, ok := matchSpecialShow(input, cat); ok {
			return Transition{
				Next:  session.StateAcceptedTerms,
				Set:   map[string]any{"show_type": strings.ToUpper(code)},
				Reply: reply.Terms,
			}
		}
		return Transition{Next: session.StateInitial, Reply: reply.Welcome}

	case session.StateAcceptedTerms:
		switch {
		case strings.Contains(input, "accept"):
			return Transition{
				Next:  session.StateTicketsSelected,
				Set:   map[string]any{"location": cat.SingleLocation()},
				Reply: reply.TicketPrompt,
			}
		case strings.Contains(input, "decline"):
			return Transition{Next: session.StateInitial, Reset: true, Reply: reply.Welcome}
		default:
			return Transition{Next: session.StateAcceptedTerms, Reply: reply.AcceptDeclinePrompt}
		}

	case session.StateTicketsSelected:
		if tickets, ok := extractTickets(input); ok {
			return Transition{
				Next:    session.StateCompleted,
				Set:     map[string]any{"tickets": tickets},
				Reply:   reply.Confirmation,
				Booking: true,
			}
		}
		return Transition{Next: session.StateTicketsSelected, Reply: reply.TicketInvalid}

	default:
		// Completed sessions and any undefined state start over.
		return Transition{Next: session.StateInitial, Reset: true, Reply: reply.Welcome}
	}
}

// matchSpecialShow scans the input for a "#<code>" trigger token of any
// special show known to the catalog.
func matchSpecialShow(input string, cat Catalog) (string, bool) {
	for _, code := range cat.SpecialShowCodes() {
		code = strings.ToLower(strings.TrimSpace(code))
		if code == "" {
			continue
		}
		if strings.Contains(input, "#"+code) && cat.IsSpecialShow(code) {
			return code, true
		}
	}
	return "", false
}

// extractTickets pulls the numeric characters out of inputs like "2" or
// "2 tickets" and parses them as a count. Zero and negative results are
// invalid input, not a zero-ticket booking.
func extractTickets(input string) (int, bool) {
	var digits strings.Builder
	for _, r := range input {
		if r >= '0' && r <= '9' {
			digits.WriteRune(r)
		}
	}
	if digits.Len() == 0 {
		return 0, false
	}
	n, err := strconv.Atoi(digits.String())
	if err != nil || n <= 0 {
		return 0, false
	}
	return n, true
}
