package reply

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRender(t *testing.T) {
	p := Params{
		CinemaName: "Aarthi Grand Cineplex",
		Location:   "Dindigul",
		ShowType:   "WRETRO",
		Tickets:    3,
	}

	assert.Contains(t, Render(Welcome, p), "Welcome to Aarthi Grand Cineplex")
	assert.Contains(t, Render(Terms, p), "Terms and Conditions")
	assert.Contains(t, Render(AcceptDeclinePrompt, p), "'Accept' or 'Decline'")

	prompt := Render(TicketPrompt, p)
	assert.Contains(t, prompt, "Aarthi Grand Cineplex, Dindigul")
	assert.Contains(t, prompt, "How many tickets")

	confirmation := Render(Confirmation, p)
	assert.Contains(t, confirmation, "3 ticket(s)")
	assert.Contains(t, confirmation, "Dindigul")

	assert.Contains(t, Render(TicketInvalid, p), "valid number of tickets")
	assert.Contains(t, Render(Apology, p), "error processing your request")
}

func TestRenderUnknownFallsBackToWelcome(t *testing.T) {
	p := Params{CinemaName: "Aarthi Grand Cineplex"}
	assert.Equal(t, Render(Welcome, p), Render(ID("does-not-exist"), p))
}
