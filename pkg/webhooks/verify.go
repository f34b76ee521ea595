// Package webhooks verifies signed webhook deliveries from the auth provider.
//
// Deliveries follow the svix signing scheme: the payload is signed with
// HMAC-SHA256 over "<id>.<timestamp>.<body>" using a shared secret, and the
// signature arrives as a space-separated list of "v1,<base64>" entries in
// the signature header.
package webhooks

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/centra-hq/centra-console/pkg/apperrors"
)

// Header names for signed deliveries.
const (
	HeaderID        = "svix-id"
	HeaderTimestamp = "svix-timestamp"
	HeaderSignature = "svix-signature"
)

// Tolerance bounds how far a delivery timestamp may drift from the server
// clock before the delivery is rejected as a replay.
const Tolerance = 5 * time.Minute

// secretPrefix marks a base64-encoded signing secret.
const secretPrefix = "whsec_"

// Verifier checks webhook payload signatures against a shared secret.
type Verifier struct {
	key []byte
	now func() time.Time
}

// NewVerifier creates a verifier from a "whsec_"-prefixed base64 secret.
func NewVerifier(secret string) (*Verifier, error) {
	if secret == "" {
		return nil, apperrors.ErrNotConfigured
	}

	encoded := strings.TrimPrefix(secret, secretPrefix)
	key, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, fmt.Errorf("failed to decode webhook secret: %w", err)
	}

	return &Verifier{key: key, now: time.Now}, nil
}

// Verify checks the signature of one delivery. All three header values and
// the raw body are required. Returns apperrors.ErrBadSignature when the
// signature does not match or the timestamp is outside the tolerance.
func (v *Verifier) Verify(id, timestamp, signatures string, body []byte) error {
	if id == "" || timestamp == "" || signatures == "" {
		return fmt.Errorf("missing webhook headers: %w", apperrors.ErrBadSignature)
	}

	ts, err := strconv.ParseInt(timestamp, 10, 64)
	if err != nil {
		return fmt.Errorf("invalid webhook timestamp: %w", apperrors.ErrBadSignature)
	}

	drift := v.now().Sub(time.Unix(ts, 0))
	if drift > Tolerance || drift < -Tolerance {
		return fmt.Errorf("webhook timestamp outside tolerance: %w", apperrors.ErrBadSignature)
	}

	expected := v.sign(id, timestamp, body)

	// The header may carry several versioned signatures; any v1 match passes.
	for _, candidate := range strings.Fields(signatures) {
		version, sig, found := strings.Cut(candidate, ",")
		if !found || version != "v1" {
			continue
		}
		decoded, err := base64.StdEncoding.DecodeString(sig)
		if err != nil {
			continue
		}
		if hmac.Equal(decoded, expected) {
			return nil
		}
	}

	return apperrors.ErrBadSignature
}

// Sign produces the "v1,<base64>" signature for a delivery. Used by tests
// and by the local webhook replay tool.
func (v *Verifier) Sign(id, timestamp string, body []byte) string {
	return "v1," + base64.StdEncoding.EncodeToString(v.sign(id, timestamp, body))
}

func (v *Verifier) sign(id, timestamp string, body []byte) []byte {
	mac := hmac.New(sha256.New, v.key)
	fmt.Fprintf(mac, "%s.%s.", id, timestamp)
	mac.Write(body)
	return mac.Sum(nil)
}
