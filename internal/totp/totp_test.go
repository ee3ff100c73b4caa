package totp

import (
	"errors"
	"testing"
	"time"
)

// RFC 6238 appendix B secret ("12345678901234567890" in base32).
const rfcSecret = "GEZDGNBVGY3TQOJQGEZDGNBVGY3TQOJQ"

func fixedClock(sec int64) func() time.Time {
	return func() time.Time { return time.Unix(sec, 0).UTC() }
}

func TestGenerator_RFCVectors(t *testing.T) {
	cases := []struct {
		at   int64
		want string
	}{
		{59, "287082"},
		{1111111109, "081804"},
		{1234567890, "005924"},
	}
	for _, c := range cases {
		gen := NewWithClock(rfcSecret, fixedClock(c.at))
		got, err := gen()
		if err != nil {
			t.Fatalf("at %d: %v", c.at, err)
		}
		if got != c.want {
			t.Errorf("at %d: got %q, want %q", c.at, got, c.want)
		}
	}
}

func TestGenerator_StableWithinWindow(t *testing.T) {
	a, err := NewWithClock(rfcSecret, fixedClock(30000))()
	if err != nil {
		t.Fatal(err)
	}
	b, err := NewWithClock(rfcSecret, fixedClock(30029))()
	if err != nil {
		t.Fatal(err)
	}
	if a != b {
		t.Errorf("same window: got %q and %q, want equal", a, b)
	}
	c, err := NewWithClock(rfcSecret, fixedClock(30030))()
	if err != nil {
		t.Fatal(err)
	}
	if a == c {
		t.Errorf("adjacent windows produced identical code %q", a)
	}
}

func TestGenerator_BadSecret(t *testing.T) {
	gen := NewWithClock("not base32 at all!!!", fixedClock(59))
	_, err := gen()
	if err == nil {
		t.Fatal("expected error for malformed secret")
	}
	var genErr *GenerationError
	if !errors.As(err, &genErr) {
		t.Errorf("got %T, want *GenerationError", err)
	}
}
