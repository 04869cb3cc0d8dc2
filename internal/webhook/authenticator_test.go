package webhook

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAuthenticator_Authenticate(t *testing.T) {
	payload := []byte(`{"content":"NAPTIEN AB12CD34EF","transferAmount":50000}`)
	secret := "whsec"
	token := "tok-123"
	validSig := Sign(secret, payload)

	tests := []struct {
		name      string
		secret    string
		token     string
		signature string
		bearer    string
		want      bool
	}{
		{"valid bearer", secret, token, "", token, true},
		{"valid signature", secret, token, validSig, "", true},
		{"valid bearer wins over bad signature", secret, token, "deadbeef", token, true},
		{"upper case signature", secret, token, strings.ToUpper(validSig), "", true},
		{"invalid bearer falls back to valid signature", secret, token, validSig, "nope", true},
		{"invalid bearer without signature", secret, token, "", "nope", false},
		{"invalid signature", secret, token, "deadbeef", "", false},
		{"signature without configured secret", "", token, validSig, "", false},
		{"bearer without configured token", secret, "", "", token, false},
		{"no credentials with configuration", secret, token, "", "", false},
		{"open mode without credentials", "", "", "", "", true},
		{"open mode does not rescue bad bearer", "", "", "", "nope", false},
		{"open mode does not rescue bad signature", "", "", "deadbeef", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := NewAuthenticator(tt.secret, tt.token)
			assert.Equal(t, tt.want, a.Authenticate(payload, tt.signature, tt.bearer))
		})
	}
}

func TestSign_CanonicalPayload(t *testing.T) {
	compact := []byte(`{"a":1,"b":"x y"}`)
	indented := []byte("{\n  \"a\": 1,\n  \"b\": \"x y\"\n}")

	assert.Equal(t, Sign("k", compact), Sign("k", indented))
	assert.NotEqual(t, Sign("k", compact), Sign("other", compact))
	assert.Len(t, Sign("k", compact), 64)
}

func TestCanonical_NonJSON(t *testing.T) {
	raw := []byte("not json {")
	assert.Equal(t, raw, Canonical(raw))
}

func TestAuthenticator_Open(t *testing.T) {
	assert.True(t, NewAuthenticator(" ", "").Open())
	assert.False(t, NewAuthenticator("s", "").Open())
	assert.False(t, NewAuthenticator("", "t").Open())
}
