package pointeuse

import (
	"context"
	"io"
	"log/slog"

	"github.com/hazyhaar/pointeuse/internal/sink"
	"github.com/hazyhaar/pointeuse/punch"
)

// Sink is the output interface for run events and reports.
type Sink = sink.Sink

// NewStdoutSink creates a stdout JSON-lines sink.
func NewStdoutSink(w io.Writer) Sink {
	return sink.NewStdout(w)
}

// NewWebhookSink creates a webhook POST sink with retry.
func NewWebhookSink(url string, logger *slog.Logger) Sink {
	return sink.NewWebhook(url, sink.WithWebhookLogger(logger))
}

// EventFunc is called for each event.
type EventFunc = sink.EventFunc

// ReportFunc is called with the final report.
type ReportFunc = sink.ReportFunc

// NewCallbackSink creates an in-process callback sink. No serialisation;
// embedders receive the punch structs directly.
func NewCallbackSink(
	onEvent func(ctx context.Context, ev punch.Event) error,
	onReport func(ctx context.Context, rep punch.Report) error,
) Sink {
	return sink.NewCallback(onEvent, onReport)
}
