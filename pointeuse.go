// Package pointeuse automates clock-in and clock-out entries on a
// SuccessFactors-style time portal, driving Chrome headless as a
// disposable component. One Run covers one day: it decides which punches
// are due, authenticates if the portal asks, reaches the timesheet view,
// creates the entries, and reports.
//
// pointeuse trusts the live page over any remembered state. Element
// presence and the current URL decide every step, so a flaky render costs
// one retry path, not the run.
package pointeuse

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/hazyhaar/pointeuse/internal/browser"
	"github.com/hazyhaar/pointeuse/internal/config"
	"github.com/hazyhaar/pointeuse/internal/flow"
	"github.com/hazyhaar/pointeuse/internal/schedule"
	"github.com/hazyhaar/pointeuse/internal/sink"
	"github.com/hazyhaar/pointeuse/internal/totp"
	"github.com/hazyhaar/pointeuse/punch"
)

// Execute performs a complete run: launch Chrome, open the stealth page,
// run, tear everything down. Embedders that manage their own browser use
// New and Runner.Run directly.
func Execute(ctx context.Context, cfg *Config, secrets Secrets, logger *slog.Logger, sinks ...Sink) (*punch.Report, error) {
	if logger == nil {
		logger = slog.Default()
	}

	r := New(cfg, secrets, logger, sinks...)
	defer r.Close()

	mgr := browser.NewManager(browser.Config{
		RemoteURL:        cfg.Browser.Remote,
		Headful:          cfg.Browser.Mode == "headful",
		ResourceBlocking: cfg.Browser.ResourceBlocking,
		Logger:           logger,
	})
	if err := mgr.Start(); err != nil {
		return nil, fmt.Errorf("pointeuse: %w", err)
	}
	defer mgr.Close()

	page, err := mgr.OpenPage(ctx)
	if err != nil {
		return nil, fmt.Errorf("pointeuse: %w", err)
	}
	defer page.Close()

	return r.Run(ctx, page)
}

// HTMLer is implemented by pages that can serialise their document. Pages
// that do get a snapshot written to the dump directory after a failed run.
type HTMLer interface {
	HTML() ([]byte, error)
}

// Runner executes one punch run end to end. Create one per run or reuse
// across runs; it holds no per-run state.
type Runner struct {
	cfg     *config.Config
	secrets config.Secrets
	sinkR   *sink.Router
	logger  *slog.Logger

	now   func() time.Time
	newID func() string
}

// New creates a Runner from configuration.
func New(cfg *config.Config, secrets config.Secrets, logger *slog.Logger, sinks ...sink.Sink) *Runner {
	if logger == nil {
		logger = slog.Default()
	}
	return &Runner{
		cfg:     cfg,
		secrets: secrets,
		sinkR:   sink.NewRouter(logger, sinks...),
		logger:  logger,
		now:     time.Now,
		newID:   func() string { return uuid.Must(uuid.NewV7()).String() },
	}
}

// Due returns the entries due at a given time under the configured plan,
// earliest first. Entries whose slot time is still in the future are not
// included.
func (r *Runner) Due(at time.Time) ([]punch.Entry, error) {
	return schedule.Due(r.cfg.Plan(), r.cfg.ScheduleSet(), at)
}

// Run executes one punch run on page. A nil error with a zero-total Report
// means nothing was due. The error is non-nil when the run never reached
// the timesheet or when every due entry failed; partial failure is success
// with Failed > 0 in the Report.
func (r *Runner) Run(ctx context.Context, page flow.Page) (*punch.Report, error) {
	runID := r.newID()
	now := r.now()
	date := now.Format("2006-01-02")
	log := r.logger.With("run_id", runID)

	em := sink.NewEmitter(runID, r.sinkR, log)
	em.Emit(ctx, punch.StageRun, "run_started", r.cfg.BaseURL, true, date)

	due, err := r.Due(now)
	if err != nil {
		return nil, fmt.Errorf("pointeuse: %w", err)
	}
	if len(due) == 0 {
		log.Info("pointeuse: nothing due", "date", date)
		rep := punch.NewReport(runID, date, nil)
		em.Report(ctx, rep)
		em.Emit(ctx, punch.StageRun, "run_complete", "", true, "nothing due")
		return &rep, nil
	}
	log.Info("pointeuse: run starting", "date", date, "due", len(due))

	navTimeout := r.cfg.Timeouts.Navigate.Std()
	if err := page.Navigate(r.cfg.BaseURL, navTimeout); err != nil {
		em.Emit(ctx, punch.StageRun, "initial_navigation", r.cfg.BaseURL, false, err.Error())
		return nil, fmt.Errorf("pointeuse: initial navigation: %w", err)
	}
	em.Emit(ctx, punch.StageRun, "initial_navigation", r.cfg.BaseURL, true, "")

	auth := flow.NewAuthenticator(page, r.authConfig(log, em))
	if auth.Required(ctx) {
		log.Info("pointeuse: authentication required")
		if err := auth.Authenticate(ctx); err != nil {
			em.Emit(ctx, punch.StageRun, "run_failed", "", false, err.Error())
			r.dumpHTML(page, runID, log)
			return nil, fmt.Errorf("pointeuse: %w", err)
		}
	}

	// A code step that stranded the session on the company-selection page
	// is recovered by re-issuing the original navigation, once.
	if auth.Misrouted() {
		log.Warn("pointeuse: misrouted after auth, re-navigating")
		if err := page.Navigate(r.cfg.BaseURL, navTimeout); err != nil {
			log.Warn("pointeuse: recovery navigation failed", "error", err)
		}
	}

	nav := flow.NewNavigator(page, r.navConfig(log, em))
	if err := nav.ReachTimesheet(ctx); err != nil {
		em.Emit(ctx, punch.StageRun, "run_failed", "", false, err.Error())
		r.dumpHTML(page, runID, log)
		return nil, fmt.Errorf("pointeuse: %w", err)
	}

	eng := flow.NewEngine(page, r.engineConfig(log, em))
	results := eng.CreateAll(ctx, due)

	rep := punch.NewReport(runID, date, results)
	em.Report(ctx, rep)
	if rep.Failed > 0 {
		r.dumpHTML(page, runID, log)
	}

	log.Info("pointeuse: run complete",
		"total", rep.Total, "succeeded", rep.Succeeded, "failed", rep.Failed)

	if rep.Succeeded == 0 {
		em.Emit(ctx, punch.StageRun, "run_failed", "", false,
			fmt.Sprintf("all %d entries failed", rep.Total))
		return &rep, fmt.Errorf("pointeuse: all %d due entries failed", rep.Total)
	}
	em.Emit(ctx, punch.StageRun, "run_complete", "", true, "")
	return &rep, nil
}

// Close flushes and closes the sinks. The browser is owned by the caller.
func (r *Runner) Close() {
	r.sinkR.Close()
}

func (r *Runner) authConfig(log *slog.Logger, em *sink.Emitter) flow.AuthConfig {
	t := r.cfg.Timeouts

	gen := totp.New(r.secrets.TOTPSecret)
	if r.secrets.TOTPSecret == "" {
		gen = func() (string, error) {
			return "", fmt.Errorf("one-time code requested but POINTEUSE_TOTP_SECRET is not set")
		}
	}

	return flow.AuthConfig{
		Selectors:      r.cfg.Selectors,
		Username:       r.secrets.Username,
		Password:       r.secrets.Password,
		Generate:       gen,
		IDPMarker:      r.cfg.IDPMarker,
		MisrouteMarker: r.cfg.MisrouteMarker,
		Element:        t.Element.Std(),
		Settle:         t.Settle.Std(),
		LoginNavWait:   t.LoginNavWait.Std(),
		CodeNavRace:    t.CodeNavRace.Std(),
		CodeSubmitWait: t.CodeSubmitWait.Std(),
		PollAttempts:   t.CodePollAttempts,
		PollInterval:   t.CodePollInterval.Std(),
		Logger:         log,
		Events:         em,
	}
}

func (r *Runner) navConfig(log *slog.Logger, em *sink.Emitter) flow.NavConfig {
	t := r.cfg.Timeouts
	return flow.NavConfig{
		Selectors: r.cfg.Selectors,
		BaseURL:   r.cfg.BaseURL,
		UserID:    r.cfg.UserID,
		Icon:      t.Icon.Std(),
		Link:      t.Link.Std(),
		Navigate:  t.Navigate.Std(),
		Settle:    t.Settle.Std(),
		Now:       r.now,
		Logger:    log,
		Events:    em,
	}
}

func (r *Runner) engineConfig(log *slog.Logger, em *sink.Emitter) flow.EngineConfig {
	t := r.cfg.Timeouts
	return flow.EngineConfig{
		Selectors:  r.cfg.Selectors,
		Labels:     r.cfg.LabelMap(),
		Element:    t.Element.Std(),
		Settle:     t.Settle.Std(),
		EntryPause: t.EntryPause.Std(),
		Logger:     log,
		Events:     em,
	}
}

func (r *Runner) dumpHTML(page flow.Page, runID string, log *slog.Logger) {
	if r.cfg.DumpDir == "" {
		return
	}
	h, ok := page.(HTMLer)
	if !ok {
		return
	}
	html, err := h.HTML()
	if err != nil {
		log.Warn("pointeuse: page snapshot failed", "error", err)
		return
	}
	if err := os.MkdirAll(r.cfg.DumpDir, 0o755); err != nil {
		log.Warn("pointeuse: page snapshot failed", "error", err)
		return
	}
	path := filepath.Join(r.cfg.DumpDir, "punch-"+runID+".html")
	if err := os.WriteFile(path, html, 0o644); err != nil {
		log.Warn("pointeuse: page snapshot failed", "error", err)
		return
	}
	log.Info("pointeuse: page snapshot written", "path", path)
}
