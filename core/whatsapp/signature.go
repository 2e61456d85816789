package whatsapp

import (
	"crypto/hmac"
	"crypto/sha1"
	"crypto/subtle"
	"encoding/base64"
	"net/url"
	"sort"
	"strings"
)

// ComputeSignature builds the expected X-Twilio-Signature value for a
// form-encoded webhook request: the full public URL concatenated with every
// POST parameter name and value in lexicographic order, HMAC-SHA1 signed
// with the auth token and base64 encoded.
func ComputeSignature(authToken, publicURL string, form url.Values) string {
	keys := make([]string, 0, len(form))
	for k := range form {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	b.WriteString(publicURL)
	for _, k := range keys {
		for _, v := range form[k] {
			b.WriteString(k)
			b.WriteString(v)
		}
	}

	mac := hmac.New(sha1.New, []byte(authToken))
	mac.Write([]byte(b.String()))
	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}

// ValidateSignature reports whether the received header matches the expected
// signature for the request.
func ValidateSignature(authToken, publicURL string, form url.Values, header string) bool {
	if strings.TrimSpace(header) == "" {
		return false
	}
	expected := ComputeSignature(authToken, publicURL, form)
	return subtle.ConstantTimeCompare([]byte(expected), []byte(header)) == 1
}
