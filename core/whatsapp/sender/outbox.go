package sender

import (
	"context"
	"errors"
	"log/slog"

	"github.com/aarthigrand/cinebot/core/logger"
)

// Client is the Twilio call the outbox schedules.
type Client interface {
	Send(ctx context.Context, to, body string, mediaURLs []string) (string, error)
}

// Outbox is the outbound messaging capability handed to the bot: it enqueues
// deliveries onto the dispatcher and falls back to a synchronous send when
// the queue cannot accept the job.
type Outbox struct {
	dispatcher *Dispatcher
	client     Client
}

// NewOutbox couples a dispatcher with the Twilio client.
func NewOutbox(d *Dispatcher, client Client) *Outbox {
	return &Outbox{dispatcher: d, client: client}
}

// Send queues one message for delivery. A nil return means the message was
// accepted for delivery, not that it reached the recipient.
func (o *Outbox) Send(ctx context.Context, to, body string, mediaURLs []string) error {
	// The delivery outlives the webhook request that triggered it; only the
	// values (rid, sender) are carried over, not the cancellation.
	sendCtx := context.WithoutCancel(ctx)
	run := func() error {
		_, err := o.client.Send(sendCtx, to, body, mediaURLs)
		return err
	}

	if o.dispatcher == nil {
		return run()
	}

	if err := o.dispatcher.Enqueue(sendCtx, "send.message", "Messages.json", run); err != nil {
		if errors.Is(err, ErrQueueFull) || errors.Is(err, ErrQueueClosed) {
			logger.Warn(ctx, "wa.sender", "queue.fallback",
				slog.String("err", err.Error()),
			)
			return run()
		}
		return err
	}
	return nil
}
