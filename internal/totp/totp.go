// Package totp produces the time-based one-time codes the login flow types
// into the code field. Codes are a deterministic function of the shared
// secret and the current 30-second window (RFC 6238).
package totp

import (
	"fmt"
	"time"

	ptotp "github.com/pquerna/otp/totp"
)

// Generator returns the code for the current time window.
type Generator func() (string, error)

// GenerationError wraps a failure to produce a code (typically a malformed
// secret). It propagates to the caller; the login flow never retries it.
type GenerationError struct {
	Cause error
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("totp: generate code: %v", e.Cause)
}

func (e *GenerationError) Unwrap() error { return e.Cause }

// New returns a Generator bound to a base32 secret, evaluated against the
// wall clock at each call.
func New(secret string) Generator {
	return NewWithClock(secret, time.Now)
}

// NewWithClock is New with an injectable clock.
func NewWithClock(secret string, clock func() time.Time) Generator {
	return func() (string, error) {
		code, err := ptotp.GenerateCode(secret, clock())
		if err != nil {
			return "", &GenerationError{Cause: err}
		}
		return code, nil
	}
}
