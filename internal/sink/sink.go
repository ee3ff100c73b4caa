// Package sink defines output backends for pointeuse run events.
package sink

import (
	"context"

	"github.com/hazyhaar/pointeuse/punch"
)

// Sink is the output interface. Implementations deliver run events and the
// final report to different backends (stdout, webhook, in-process callback).
type Sink interface {
	Send(ctx context.Context, ev punch.Event) error
	SendReport(ctx context.Context, rep punch.Report) error
	Close() error
}
