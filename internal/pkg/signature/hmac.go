// Package signature verifies payment-gateway confirmations. The gateway signs
// "orderRef|paymentRef" with HMAC-SHA256 using the shared webhook secret and sends
// the lowercase hex digest.
package signature

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"strings"

	"gamezone-booking/internal/pkg/errs"
)

var (
	ErrMissingSecret    = errs.New("payment signing secret is not configured")
	ErrInvalidSignature = errs.Mark(errs.New("invalid payment signature"), errs.ErrSignature)
)

type Verifier struct {
	secret []byte
}

func NewVerifier(secret string) *Verifier {
	return &Verifier{secret: []byte(secret)}
}

func (v *Verifier) Sign(orderRef, paymentRef string) string {
	mac := hmac.New(sha256.New, v.secret)
	mac.Write([]byte(orderRef + "|" + paymentRef))
	return hex.EncodeToString(mac.Sum(nil))
}

// Verify compares in constant time. A signature that is not valid hex is a mismatch.
func (v *Verifier) Verify(orderRef, paymentRef, sig string) error {
	if len(v.secret) == 0 {
		return ErrMissingSecret
	}
	got, err := hex.DecodeString(strings.TrimSpace(sig))
	if err != nil {
		return ErrInvalidSignature
	}
	mac := hmac.New(sha256.New, v.secret)
	mac.Write([]byte(orderRef + "|" + paymentRef))
	if !hmac.Equal(mac.Sum(nil), got) {
		return ErrInvalidSignature
	}
	return nil
}
