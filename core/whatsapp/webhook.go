package whatsapp

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"runtime/debug"
	"sync"
	"time"

	"github.com/labstack/echo/v4"

	coreconfig "github.com/aarthigrand/cinebot/core/config"
	"github.com/aarthigrand/cinebot/core/logger"
	"log/slog"
)

// emptyTwiML acknowledges a webhook without sending an inline reply; actual
// replies go out through the Messages API.
const emptyTwiML = `<?xml version="1.0" encoding="UTF-8"?><Response></Response>`

// Handler processes one inbound message. Implementations must not panic and
// must not block beyond ordinary message handling time.
type Handler interface {
	HandleIncoming(ctx context.Context, senderID, text string)
}

// WebhookServer receives Twilio WhatsApp callbacks and hands them to the bot.
type WebhookServer struct {
	cfg     *coreconfig.Config
	handler Handler
	echo    *echo.Echo
}

// NewWebhookServer wires routes and middleware onto a fresh echo instance.
func NewWebhookServer(cfg *coreconfig.Config, handler Handler) *WebhookServer {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	s := &WebhookServer{cfg: cfg, handler: handler, echo: e}

	e.Use(s.recoverMiddleware)
	e.Use(s.requestContextMiddleware)

	webhook := e.Group("")
	if cfg.RateLimit.Interval() > 0 {
		webhook.Use(rateLimitMiddleware(cfg.RateLimit.Interval()))
	}
	if cfg.Twilio.ValidateSignatures {
		webhook.Use(s.signatureMiddleware)
	}
	webhook.POST("/webhook", s.handleWebhook)

	e.GET("/healthz", s.handleHealth)
	e.GET("/", s.handleIndex)

	return s
}

// Run serves HTTP until ctx is cancelled, then shuts down gracefully.
func (s *WebhookServer) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- s.echo.Start(s.cfg.HTTP.Listen)
	}()

	logger.Info(ctx, "wa.webhook", "listen",
		slog.String("listen", s.cfg.HTTP.Listen),
	)

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := s.echo.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("webhook shutdown: %w", err)
		}
		return nil
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("webhook serve: %w", err)
		}
		return nil
	}
}

func (s *WebhookServer) handleWebhook(c echo.Context) error {
	sender := c.FormValue("From")
	body := c.FormValue("Body")

	if sender == "" {
		logger.Warn(c.Request().Context(), "wa.webhook", "webhook.missing_sender",
			slog.String("status", "skip"),
		)
		return c.Blob(http.StatusOK, "text/xml", []byte(emptyTwiML))
	}

	s.handler.HandleIncoming(c.Request().Context(), sender, body)

	return c.Blob(http.StatusOK, "text/xml", []byte(emptyTwiML))
}

func (s *WebhookServer) handleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

func (s *WebhookServer) handleIndex(c echo.Context) error {
	return c.String(http.StatusOK,
		fmt.Sprintf("WhatsApp Cinema Bot for %s is running", s.cfg.Cinema.Name))
}

// requestContextMiddleware attaches the correlation id and message metadata
// used by downstream logging.
func (s *WebhookServer) requestContextMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		req := c.Request()
		ctx := logger.WithRID(req.Context(), logger.NewRID())
		ctx = logger.WithMessageMeta(ctx, req.FormValue("From"), req.FormValue("MessageSid"))
		c.SetRequest(req.WithContext(ctx))

		if logger.ShouldSampleDebug() {
			logger.Debug(ctx, "wa.webhook", "webhook.received",
				slog.String("status", "ok"),
				slog.String("payload", logger.SanitizeLimit(req.FormValue("Body"), 256)),
			)
		}
		return next(c)
	}
}

// recoverMiddleware catches handler panics so one bad request never takes
// down the webhook listener.
func (s *WebhookServer) recoverMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		defer func() {
			if r := recover(); r != nil {
				logger.Error(c.Request().Context(), "wa.webhook", "webhook.panic",
					slog.Any("err", r),
					slog.String("stack", string(debug.Stack())),
				)
				_ = c.NoContent(http.StatusInternalServerError)
			}
		}()
		return next(c)
	}
}

// signatureMiddleware rejects requests whose X-Twilio-Signature does not
// match the configured auth token.
func (s *WebhookServer) signatureMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		req := c.Request()
		if err := req.ParseForm(); err != nil {
			return c.NoContent(http.StatusBadRequest)
		}
		header := req.Header.Get("X-Twilio-Signature")
		if !ValidateSignature(s.cfg.Twilio.AuthToken, s.cfg.Twilio.PublicURL, req.PostForm, header) {
			logger.Warn(req.Context(), "wa.webhook", "webhook.bad_signature",
				slog.String("status", "fail"),
			)
			return c.NoContent(http.StatusForbidden)
		}
		return next(c)
	}
}

// rateLimiter tracks the last message time per sender. Entries older than
// the interval no longer limit anything and are pruned on the way.
type rateLimiter struct {
	mu        sync.Mutex
	interval  time.Duration
	lastSeen  map[string]time.Time
	lastPrune time.Time
}

func newRateLimiter(interval time.Duration) *rateLimiter {
	return &rateLimiter{
		interval: interval,
		lastSeen: make(map[string]time.Time),
	}
}

// allow reports whether a message from sender may be processed at now, and
// records it when so.
func (l *rateLimiter) allow(sender string, now time.Time) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	if now.Sub(l.lastPrune) >= l.interval {
		for s, ts := range l.lastSeen {
			if now.Sub(ts) >= l.interval {
				delete(l.lastSeen, s)
			}
		}
		l.lastPrune = now
	}

	if last, ok := l.lastSeen[sender]; ok && now.Sub(last) < l.interval {
		return false
	}
	l.lastSeen[sender] = now
	return true
}

func (l *rateLimiter) size() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.lastSeen)
}

// rateLimitMiddleware enforces a minimum interval between messages from the
// same sender. Limited requests are acknowledged but not processed.
func rateLimitMiddleware(interval time.Duration) echo.MiddlewareFunc {
	limiter := newRateLimiter(interval)
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			sender := c.FormValue("From")
			if sender == "" {
				return next(c)
			}

			if !limiter.allow(sender, time.Now()) {
				logger.Warn(c.Request().Context(), "wa.webhook", "webhook.rate_limit",
					slog.String("status", "rate_limited"),
					slog.String("sender_id", logger.MaskSender(sender)),
				)
				return c.Blob(http.StatusOK, "text/xml", []byte(emptyTwiML))
			}

			return next(c)
		}
	}
}
