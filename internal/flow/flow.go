// Package flow drives the timesheet UI through its three resilient step
// sequences: authentication, navigation, and entry creation. Every decision
// is taken from the live page (element presence, current URL), never from a
// cached flag, so a flaky render can only cost one step, not the whole run.
package flow

import (
	"context"
	"time"
)

// Page is the single page/session handle the flow drives. It is implemented
// by the rod-backed page in internal/browser and by fakes in tests.
//
// The handle has exactly one owner at a time; nothing here is safe for
// concurrent use.
type Page interface {
	// WaitVisible blocks until the selector resolves to a visible element
	// or the timeout expires.
	WaitVisible(selector string, timeout time.Duration) error

	// Has reports element existence immediately, without waiting.
	Has(selector string) (bool, error)

	// Click waits for the selector (bounded by timeout) and clicks it.
	Click(selector string, timeout time.Duration) error

	// Type waits for the selector, clears any existing value, and types
	// text into it.
	Type(selector, text string, timeout time.Duration) error

	// PressEnter sends Enter to the focused element.
	PressEnter() error

	// URL returns the page's current URL.
	URL() (string, error)

	// Navigate loads url and waits for the load to finish, bounded by
	// timeout. A slow load past the deadline is logged by the
	// implementation, not returned.
	Navigate(url string, timeout time.Duration) error

	// WaitNavigation arms a navigation watch and returns a wait function
	// that blocks until the navigation settles or the timeout expires.
	// The watch must be armed before the action that triggers navigation.
	WaitNavigation(timeout time.Duration) func()

	// Elements returns all current matches for the selector, immediately.
	Elements(selector string) ([]Element, error)
}

// Element is one matched element during a text-content scan.
type Element interface {
	Text() (string, error)
	Visible() (bool, error)
	Click() error
}

// settle pauses for d to let asynchronous rendering catch up. Returns early
// on context cancellation.
func settle(ctx context.Context, d time.Duration) {
	if d <= 0 {
		return
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
	case <-ctx.Done():
	}
}
