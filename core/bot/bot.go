// Package bot orchestrates the conversation flow: it applies engine
// transitions to sessions, emits booking events, and issues replies.
package bot

import (
	"context"
	"fmt"
	"time"

	"github.com/aarthigrand/cinebot/core/booking"
	"github.com/aarthigrand/cinebot/core/logger"
	"github.com/aarthigrand/cinebot/core/reply"
	"github.com/aarthigrand/cinebot/core/session"
	"log/slog"
)

// Sender is the outbound messaging capability. A nil error means the message
// was accepted for delivery; delivery failures are the sender's to log.
type Sender interface {
	Send(ctx context.Context, to, body string, mediaURLs []string) error
}

// Bot ties the session store, the decision engine, the reply templates and
// the outbound channel together.
type Bot struct {
	store   *session.Store
	catalog Catalog
	outbox  Sender
	sink    booking.Sink
}

// New constructs the bot. The sink may be nil when no booking observer is
// configured.
func New(store *session.Store, catalog Catalog, outbox Sender, sink booking.Sink) *Bot {
	return &Bot{
		store:   store,
		catalog: catalog,
		outbox:  outbox,
		sink:    sink,
	}
}

// result is the successful outcome of processing one message.
type result struct {
	replyID reply.ID
	params  reply.Params
	event   *booking.Event
}

// HandleIncoming processes one inbound message end to end. Every message
// produces at most one attempt at one reply; internal failures become a
// generic apology and never propagate to the transport.
func (b *Bot) HandleIncoming(ctx context.Context, senderID, text string) {
	start := time.Now()

	res, err := b.process(senderID, text)
	if err != nil {
		logger.Error(ctx, "bot", "handle.fail",
			slog.String("status", "fail"),
			slog.String("err", err.Error()),
			slog.Duration("duration", logger.Took(start)),
		)
		b.send(ctx, senderID, reply.Render(reply.Apology, reply.Params{}))
		return
	}

	if res.event != nil {
		b.publish(ctx, *res.event)
	}

	logger.Debug(ctx, "bot", "handle.ok",
		slog.String("status", "ok"),
		slog.String("template", string(res.replyID)),
		slog.Duration("duration", logger.Took(start)),
	)
	b.send(ctx, senderID, reply.Render(res.replyID, res.params))
}

// process evaluates and applies the transition for one message under the
// session store lock. On failure the session is left as it was before the
// attempt: evaluation is pure and mutations only start once it succeeded.
func (b *Bot) process(senderID, text string) (result, error) {
	input := Normalize(text)

	var (
		res     result
		evalErr error
	)
	b.store.WithSession(senderID, func(sess *session.Session) {
		from := sess.State

		tr, err := b.safeEvaluate(from, input)
		if err != nil {
			evalErr = err
			return
		}

		if tr.Reset {
			sess.Reset()
		}
		for k, v := range tr.Set {
			sess.Set(k, v)
		}
		sess.Transition(tr.Next)

		if from != tr.Next {
			logger.Debug(context.Background(), "bot", "state.transition",
				slog.String("sender_id", logger.MaskSender(senderID)),
				slog.String("from_state", string(from)),
				slog.String("to_state", string(tr.Next)),
			)
		}

		res.replyID = tr.Reply
		res.params = b.replyParams(sess)

		if tr.Booking {
			tickets, _ := sess.GetInt("tickets")
			location, _ := sess.GetString("location")
			ev := booking.NewEvent(senderID, tickets, location)
			res.event = &ev
		}
	})

	if evalErr != nil {
		return result{}, evalErr
	}
	return res, nil
}

// safeEvaluate shields the caller from panics inside the decision logic.
func (b *Bot) safeEvaluate(state session.State, input string) (tr Transition, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("evaluate state %q: %v", state, r)
		}
	}()
	tr = Evaluate(state, input, b.catalog)
	return tr, nil
}

func (b *Bot) replyParams(sess *session.Session) reply.Params {
	p := reply.Params{
		CinemaName: b.catalog.CinemaName(),
		Location:   b.catalog.SingleLocation(),
	}
	if loc, ok := sess.GetString("location"); ok && loc != "" {
		p.Location = loc
	}
	if show, ok := sess.GetString("show_type"); ok {
		p.ShowType = show
	}
	if tickets, ok := sess.GetInt("tickets"); ok {
		p.Tickets = tickets
	}
	return p
}

// publish hands the booking event to the sink without blocking the reply
// path; the event outlives the webhook request context.
func (b *Bot) publish(ctx context.Context, ev booking.Event) {
	if b.sink == nil {
		return
	}
	bgCtx := context.WithoutCancel(ctx)
	go func() {
		pubCtx, cancel := context.WithTimeout(bgCtx, 5*time.Second)
		defer cancel()
		if err := b.sink.Publish(pubCtx, ev); err != nil {
			logger.Error(pubCtx, "bot", "booking.publish_fail",
				slog.String("booking_id", ev.ID),
				slog.String("err", err.Error()),
			)
		}
	}()
}

// send makes the single reply attempt; a failed delivery never rolls back
// the transition that already happened.
func (b *Bot) send(ctx context.Context, senderID, body string) {
	if b.outbox == nil {
		return
	}
	if err := b.outbox.Send(ctx, senderID, body, nil); err != nil {
		logger.Warn(ctx, "bot", "reply.send_fail",
			slog.String("err", err.Error()),
		)
	}
}
