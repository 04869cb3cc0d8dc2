package webhook

import (
	"fmt"
	"io"
	"net/http"
	"strings"
)

// MaxBodyBytes caps the size of an inbound notification body.
const MaxBodyBytes = 1 << 20

// SignatureHeaders are checked in order; the first non-empty one is used.
var SignatureHeaders = []string{"X-Sepay-Signature", "X-Webhook-Signature", "Signature"}

// Notification is one inbound gateway callback, independent of the transport
// (HTTP request or Kafka message) it arrived on.
type Notification struct {
	Body        []byte
	Signature   string
	BearerToken string
	Source      string
}

const (
	SourceHTTP  = "http"
	SourceKafka = "kafka"
)

func FromRequest(r *http.Request, maxBytes int64) (Notification, error) {
	if maxBytes <= 0 {
		maxBytes = MaxBodyBytes
	}
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBytes+1))
	if err != nil {
		return Notification{}, fmt.Errorf("failed to read notification body: %w", err)
	}
	if int64(len(body)) > maxBytes {
		return Notification{}, fmt.Errorf("notification body exceeds %d bytes", maxBytes)
	}

	n := Notification{
		Body:        body,
		BearerToken: BearerToken(r.Header.Get("Authorization")),
		Source:      SourceHTTP,
	}
	for _, h := range SignatureHeaders {
		if v := strings.TrimSpace(r.Header.Get(h)); v != "" {
			n.Signature = v
			break
		}
	}
	return n, nil
}

// BearerToken extracts the token from an "Authorization: Bearer <token>" value.
func BearerToken(header string) string {
	header = strings.TrimSpace(header)
	if len(header) < 7 || !strings.EqualFold(header[:7], "bearer ") {
		return ""
	}
	return strings.TrimSpace(header[7:])
}
