package sink

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/hazyhaar/pointeuse/punch"
)

// Emitter stamps events with the run id and a monotonic sequence number
// before delivery. Delivery failures are logged, never returned: losing an
// event must not fail the run that produced it.
//
// A nil *Emitter is valid and drops everything, so components can emit
// unconditionally.
type Emitter struct {
	runID  string
	sink   Sink
	logger *slog.Logger
	now    func() time.Time

	mu  sync.Mutex
	seq uint64
}

// NewEmitter creates an Emitter for one run.
func NewEmitter(runID string, s Sink, logger *slog.Logger) *Emitter {
	if logger == nil {
		logger = slog.Default()
	}
	return &Emitter{runID: runID, sink: s, logger: logger, now: time.Now}
}

// Emit builds and delivers one event.
func (e *Emitter) Emit(ctx context.Context, stage punch.Stage, action, target string, success bool, detail string) {
	if e == nil || e.sink == nil {
		return
	}
	e.mu.Lock()
	e.seq++
	ev := punch.Event{
		RunID:     e.runID,
		Seq:       e.seq,
		Stage:     stage,
		Action:    action,
		Target:    target,
		Success:   success,
		Detail:    detail,
		Timestamp: e.now().UnixMilli(),
	}
	e.mu.Unlock()

	if err := e.sink.Send(ctx, ev); err != nil {
		e.logger.Warn("sink: event delivery failed", "action", action, "error", err)
	}
}

// Report delivers the final run report.
func (e *Emitter) Report(ctx context.Context, rep punch.Report) {
	if e == nil || e.sink == nil {
		return
	}
	if err := e.sink.SendReport(ctx, rep); err != nil {
		e.logger.Warn("sink: report delivery failed", "error", err)
	}
}
