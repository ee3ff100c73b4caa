// CLAUDE:SUMMARY In-process callback sink delivering run events via Go function calls with zero serialization.
package sink

import (
	"context"

	"github.com/hazyhaar/pointeuse/punch"
)

// EventFunc is called for each event (in-process, zero serialisation).
type EventFunc func(ctx context.Context, ev punch.Event) error

// ReportFunc is called with the final report.
type ReportFunc func(ctx context.Context, rep punch.Report) error

// Callback delivers events via Go function calls. Tests use it to assert on
// the emitted event stream without capturing process output.
type Callback struct {
	onEvent  EventFunc
	onReport ReportFunc
}

// NewCallback creates a Callback sink. Either handler may be nil.
func NewCallback(onEvent EventFunc, onReport ReportFunc) *Callback {
	return &Callback{onEvent: onEvent, onReport: onReport}
}

func (c *Callback) Send(ctx context.Context, ev punch.Event) error {
	if c.onEvent != nil {
		return c.onEvent(ctx, ev)
	}
	return nil
}

func (c *Callback) SendReport(ctx context.Context, rep punch.Report) error {
	if c.onReport != nil {
		return c.onReport(ctx, rep)
	}
	return nil
}

func (c *Callback) Close() error { return nil }
