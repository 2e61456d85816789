// Package whatsapp implements the WhatsApp messaging channel: the Twilio
// REST client for outbound messages and the webhook server for inbound ones.
package whatsapp

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	coreconfig "github.com/aarthigrand/cinebot/core/config"
	"github.com/aarthigrand/cinebot/core/logger"
	"log/slog"
)

const defaultAPIBase = "https://api.twilio.com"

// APIError is a non-2xx response from the Twilio Messages API.
type APIError struct {
	Status  int    `json:"status"`
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// Error implements the error interface.
func (e *APIError) Error() string {
	return fmt.Sprintf("twilio: %s (%d, status %d)", e.Message, e.Code, e.Status)
}

// Client sends WhatsApp messages through the Twilio Messages API.
type Client struct {
	httpClient *http.Client
	apiBase    string
	accountSID string
	authToken  string
	from       string
}

// NewClient builds a client from the Twilio configuration section.
func NewClient(cfg coreconfig.TwilioConfig) *Client {
	return &Client{
		httpClient: BuildHTTPClient(),
		apiBase:    defaultAPIBase,
		accountSID: cfg.AccountSID,
		authToken:  cfg.AuthToken,
		from:       cfg.WhatsAppNumber,
	}
}

// normalizeRecipient ensures the whatsapp: channel prefix on a phone number.
func normalizeRecipient(to string) string {
	to = strings.TrimSpace(to)
	if !strings.HasPrefix(to, "whatsapp:") {
		to = "whatsapp:" + to
	}
	return to
}

// Send delivers one WhatsApp message, optionally with media attachments, and
// returns the provider-assigned message SID.
func (c *Client) Send(ctx context.Context, to, body string, mediaURLs []string) (string, error) {
	form := url.Values{}
	form.Set("From", c.from)
	form.Set("To", normalizeRecipient(to))
	form.Set("Body", body)
	for _, m := range mediaURLs {
		if strings.TrimSpace(m) == "" {
			continue
		}
		form.Add("MediaUrl", m)
	}
	return c.postMessage(ctx, form, to)
}

// SendSMS delivers a plain SMS from the account number, without the WhatsApp
// channel prefix. Used for sandbox invitations to recipients not yet opted in.
func (c *Client) SendSMS(ctx context.Context, to, body string) (string, error) {
	form := url.Values{}
	form.Set("From", strings.TrimPrefix(c.from, "whatsapp:"))
	form.Set("To", strings.TrimPrefix(strings.TrimSpace(to), "whatsapp:"))
	form.Set("Body", body)
	return c.postMessage(ctx, form, to)
}

func (c *Client) postMessage(ctx context.Context, form url.Values, to string) (string, error) {
	endpoint := fmt.Sprintf("%s/2010-04-01/Accounts/%s/Messages.json", c.apiBase, c.accountSID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.SetBasicAuth(c.accountSID, c.authToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("messages api: %w", err)
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode >= 300 {
		apiErr := &APIError{Status: resp.StatusCode}
		if jsonErr := json.Unmarshal(payload, apiErr); jsonErr != nil || apiErr.Message == "" {
			apiErr.Message = strings.TrimSpace(string(payload))
		}
		apiErr.Status = resp.StatusCode
		return "", apiErr
	}

	var created struct {
		SID string `json:"sid"`
	}
	if err := json.Unmarshal(payload, &created); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}

	logger.Debug(ctx, "wa.client", "message.sent",
		slog.String("message_sid", created.SID),
		slog.String("sender_id", logger.MaskSender(to)),
	)
	return created.SID, nil
}
