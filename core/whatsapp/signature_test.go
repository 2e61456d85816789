package whatsapp

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateSignatureRoundTrip(t *testing.T) {
	const (
		token     = "test-auth-token"
		publicURL = "https://bot.example.com/webhook"
	)
	form := url.Values{}
	form.Set("From", "whatsapp:+919876543210")
	form.Set("To", "whatsapp:+14155238886")
	form.Set("Body", "#wretro")
	form.Set("MessageSid", "SM00000000000000000000000000000000")

	sig := ComputeSignature(token, publicURL, form)
	assert.NotEmpty(t, sig)
	assert.True(t, ValidateSignature(token, publicURL, form, sig))
}

func TestValidateSignatureRejectsTampering(t *testing.T) {
	const (
		token     = "test-auth-token"
		publicURL = "https://bot.example.com/webhook"
	)
	form := url.Values{}
	form.Set("From", "whatsapp:+919876543210")
	form.Set("Body", "accept")

	sig := ComputeSignature(token, publicURL, form)

	tampered := url.Values{}
	tampered.Set("From", "whatsapp:+919876543210")
	tampered.Set("Body", "decline")
	assert.False(t, ValidateSignature(token, publicURL, tampered, sig))

	assert.False(t, ValidateSignature("other-token", publicURL, form, sig))
	assert.False(t, ValidateSignature(token, "https://evil.example.com/webhook", form, sig))
	assert.False(t, ValidateSignature(token, publicURL, form, ""))
}

func TestComputeSignatureOrdersParameters(t *testing.T) {
	const (
		token     = "token"
		publicURL = "https://bot.example.com/webhook"
	)
	a := url.Values{}
	a.Set("Body", "hi")
	a.Set("From", "whatsapp:+911")

	b := url.Values{}
	b.Set("From", "whatsapp:+911")
	b.Set("Body", "hi")

	assert.Equal(t, ComputeSignature(token, publicURL, a), ComputeSignature(token, publicURL, b))
}
