// Package reply renders the fixed outgoing message templates of the booking
// flow. Rendering is pure: no I/O, no state.
package reply

import "fmt"

// ID selects one of the fixed reply templates.
type ID string

const (
	// Welcome is the menu shown at the start of a conversation.
	Welcome ID = "welcome"
	// Terms presents the special show terms and conditions.
	Terms ID = "terms"
	// AcceptDeclinePrompt re-asks for an accept/decline answer.
	AcceptDeclinePrompt ID = "accept_decline_prompt"
	// TicketPrompt asks for the ticket quantity.
	TicketPrompt ID = "ticket_prompt"
	// TicketInvalid re-asks for a valid ticket quantity.
	TicketInvalid ID = "ticket_invalid"
	// Confirmation acknowledges a finalized booking intent.
	Confirmation ID = "confirmation"
	// Apology is the generic internal-error reply.
	Apology ID = "apology"
)

// Params carries the values interpolated into templates.
type Params struct {
	CinemaName string
	Location   string
	ShowType   string
	Tickets    int
}

// Render produces the outgoing message text for the given template.
// Unknown template identifiers fall back to the welcome text so the user is
// never left without a reply.
func Render(id ID, p Params) string {
	switch id {
	case Welcome:
		return fmt.Sprintf(
			"Welcome to %s! 🎬\n\n"+
				"How can I help you today?\n\n"+
				"1. View Current Movies\n"+
				"2. Check Special Shows\n"+
				"3. Book Tickets\n"+
				"4. Location & Hours",
			p.CinemaName,
		)
	case Terms:
		return "Women's FDFS (9:00 AM Show) — Retro Movie\n\n" +
			"Terms and Conditions\n\n" +
			"1. Entry is strictly restricted to women. This is an exclusive Women's First Day First Show (FDFS).\n" +
			"2. Children up to 10 years of age may accompany women.\n\n" +
			"Please reply 'Accept' to confirm or 'Decline' to cancel."
	case AcceptDeclinePrompt:
		return "Please respond with 'Accept' or 'Decline' to continue."
	case TicketPrompt:
		return fmt.Sprintf(
			"Women's FDFS (9:00 AM Show) — Retro Movie\n"+
				"📍 Location: %s, %s\n\n"+
				"How many tickets would you like to book? Please reply with a number.",
			p.CinemaName, p.Location,
		)
	case TicketInvalid:
		return "Please enter a valid number of tickets (e.g., '2' or '3 tickets')."
	case Confirmation:
		return fmt.Sprintf(
			"Thank you! We'll be sharing the ticket link with you shortly.\n"+
				"Please book your %d ticket(s) and enjoy the Women's Special FDFS at %s, %s. 😁",
			p.Tickets, p.CinemaName, p.Location,
		)
	case Apology:
		return "Sorry, there was an error processing your request. Please try again."
	default:
		return Render(Welcome, p)
	}
}
