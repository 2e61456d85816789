package bot

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aarthigrand/cinebot/core/cinema"
	coreconfig "github.com/aarthigrand/cinebot/core/config"
	"github.com/aarthigrand/cinebot/core/reply"
	"github.com/aarthigrand/cinebot/core/session"
)

type fakeCatalog struct{}

func (fakeCatalog) CinemaName() string     { return "Aarthi Grand Cineplex" }
func (fakeCatalog) SingleLocation() string { return "Dindigul" }
func (fakeCatalog) IsSpecialShow(token string) bool {
	return token == "wretro"
}
func (fakeCatalog) SpecialShowCodes() []string { return []string{"wretro"} }

func TestEvaluateTransitions(t *testing.T) {
	cases := []struct {
		name    string
		state   session.State
		input   string
		next    session.State
		reset   bool
		set     map[string]any
		reply   reply.ID
		booking bool
	}{
		{
			name:  "initial trigger token",
			state: session.StateInitial,
			input: "#wretro",
			next:  session.StateAcceptedTerms,
			set:   map[string]any{"show_type": "WRETRO"},
			reply: reply.Terms,
		},
		{
			name:  "initial trigger tolerates case and whitespace",
			state: session.StateInitial,
			input: "  #WRETRO  ",
			next:  session.StateAcceptedTerms,
			set:   map[string]any{"show_type": "WRETRO"},
			reply: reply.Terms,
		},
		{
			name:  "initial trigger embedded in sentence",
			state: session.StateInitial,
			input: "I want #wretro tickets",
			next:  session.StateAcceptedTerms,
			set:   map[string]any{"show_type": "WRETRO"},
			reply: reply.Terms,
		},
		{
			name:  "initial unrelated message stays put",
			state: session.StateInitial,
			input: "hello",
			next:  session.StateInitial,
			reply: reply.Welcome,
		},
		{
			name:  "terms accepted",
			state: session.StateAcceptedTerms,
			input: "Accept",
			next:  session.StateTicketsSelected,
			set:   map[string]any{"location": "Dindigul"},
			reply: reply.TicketPrompt,
		},
		{
			name:  "terms accepted within sentence",
			state: session.StateAcceptedTerms,
			input: "yes I accept the terms",
			next:  session.StateTicketsSelected,
			set:   map[string]any{"location": "Dindigul"},
			reply: reply.TicketPrompt,
		},
		{
			name:  "terms declined resets",
			state: session.StateAcceptedTerms,
			input: "Decline",
			next:  session.StateInitial,
			reset: true,
			reply: reply.Welcome,
		},
		{
			name:  "terms answer unclear",
			state: session.StateAcceptedTerms,
			input: "maybe later",
			next:  session.StateAcceptedTerms,
			reply: reply.AcceptDeclinePrompt,
		},
		{
			name:    "ticket count bare number",
			state:   session.StateTicketsSelected,
			input:   "2",
			next:    session.StateCompleted,
			set:     map[string]any{"tickets": 2},
			reply:   reply.Confirmation,
			booking: true,
		},
		{
			name:    "ticket count with words",
			state:   session.StateTicketsSelected,
			input:   "3 tickets please",
			next:    session.StateCompleted,
			set:     map[string]any{"tickets": 3},
			reply:   reply.Confirmation,
			booking: true,
		},
		{
			name:  "ticket count zero is invalid",
			state: session.StateTicketsSelected,
			input: "0",
			next:  session.StateTicketsSelected,
			reply: reply.TicketInvalid,
		},
		{
			name:  "ticket count non numeric",
			state: session.StateTicketsSelected,
			input: "abc",
			next:  session.StateTicketsSelected,
			reply: reply.TicketInvalid,
		},
		{
			name:  "completed conversation starts over",
			state: session.StateCompleted,
			input: "hi again",
			next:  session.StateInitial,
			reset: true,
			reply: reply.Welcome,
		},
		{
			name:  "undefined state starts over",
			state: session.State("weird"),
			input: "anything",
			next:  session.StateInitial,
			reset: true,
			reply: reply.Welcome,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			tr := Evaluate(tc.state, Normalize(tc.input), fakeCatalog{})
			assert.Equal(t, tc.next, tr.Next)
			assert.Equal(t, tc.reset, tr.Reset)
			assert.Equal(t, tc.reply, tr.Reply)
			assert.Equal(t, tc.booking, tr.Booking)
			if tc.set == nil {
				assert.Empty(t, tr.Set)
			} else {
				assert.Equal(t, tc.set, tr.Set)
			}
		})
	}
}

// The shipped sample catalog must answer to the advertised "#wretro"
// command, not just a hand-built fake.
func TestEvaluateSampleCatalogTrigger(t *testing.T) {
	path := filepath.Join(t.TempDir(), "movies.json")
	require.NoError(t, cinema.EnsureSampleData(path))

	cat, err := cinema.Load(coreconfig.CinemaConfig{
		Name:       "Aarthi Grand Cineplex",
		Location:   "Dindigul",
		MoviesFile: path,
	})
	require.NoError(t, err)

	tr := Evaluate(session.StateInitial, Normalize("#WRetro"), cat)
	assert.Equal(t, session.StateAcceptedTerms, tr.Next)
	assert.Equal(t, map[string]any{"show_type": "WRETRO"}, tr.Set)
	assert.Equal(t, reply.Terms, tr.Reply)
}

func TestEvaluateUnknownHashToken(t *testing.T) {
	tr := Evaluate(session.StateInitial, Normalize("#unknown"), fakeCatalog{})
	require.Equal(t, session.StateInitial, tr.Next)
	require.Equal(t, reply.Welcome, tr.Reply)
}

func TestExtractTickets(t *testing.T) {
	cases := []struct {
		input string
		want  int
		ok    bool
	}{
		{"2", 2, true},
		{"2 tickets", 2, true},
		{"book 10 for me", 10, true},
		{"0", 0, false},
		{"abc", 0, false},
		{"", 0, false},
	}
	for _, tc := range cases {
		got, ok := extractTickets(tc.input)
		assert.Equal(t, tc.ok, ok, "input %q", tc.input)
		assert.Equal(t, tc.want, got, "input %q", tc.input)
	}
}

func TestNormalize(t *testing.T) {
	assert.Equal(t, "#wretro", Normalize("  #WRetro \n"))
}
