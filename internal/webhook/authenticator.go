package webhook

import (
	"bytes"
	"crypto/hmac"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"encoding/json"
	"log/slog"
	"strings"
)

// Authenticator decides whether a notification comes from the payment gateway.
// It accepts either a bearer access token or an HMAC-SHA256 signature of the
// payload. With neither secret nor token configured it runs in open mode and
// lets credential-less notifications through, which is only safe in development.
type Authenticator struct {
	secret      string
	accessToken string
}

func NewAuthenticator(secret, accessToken string) *Authenticator {
	return &Authenticator{
		secret:      strings.TrimSpace(secret),
		accessToken: strings.TrimSpace(accessToken),
	}
}

// Open reports whether no credential is configured at all.
func (a *Authenticator) Open() bool {
	return a.secret == "" && a.accessToken == ""
}

func (a *Authenticator) Authenticate(payload []byte, signature, bearerToken string) bool {
	signature = strings.TrimSpace(signature)
	bearerToken = strings.TrimSpace(bearerToken)

	if bearerToken != "" {
		if a.accessToken != "" && secureEqual(a.accessToken, bearerToken) {
			slog.Info("webhook authenticated", "method", "bearer")
			return true
		}
		slog.Warn("invalid webhook bearer token",
			"token_length", len(bearerToken),
			"expected_length", len(a.accessToken))
	}

	if signature != "" {
		if a.secret == "" {
			slog.Warn("webhook signature provided but no webhook secret configured")
			return false
		}
		expected := Sign(a.secret, payload)
		if secureEqual(expected, strings.ToLower(signature)) {
			slog.Info("webhook authenticated", "method", "signature")
			return true
		}
		slog.Warn("invalid webhook signature", "signature_length", len(signature))
		return false
	}

	if bearerToken != "" {
		return false
	}

	if a.Open() {
		slog.Warn("webhook accepted without credentials: no webhook secret or access token configured")
		return true
	}

	slog.Warn("webhook missing signature and bearer token")
	return false
}

// Sign returns the hex HMAC-SHA256 of the canonical form of payload.
func Sign(secret string, payload []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(Canonical(payload))
	return hex.EncodeToString(mac.Sum(nil))
}

// Canonical strips insignificant whitespace from a JSON payload so that
// re-indented bodies sign identically. Non-JSON input is returned as is.
func Canonical(payload []byte) []byte {
	var buf bytes.Buffer
	if err := json.Compact(&buf, payload); err != nil {
		return payload
	}
	return buf.Bytes()
}

func secureEqual(a, b string) bool {
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}
