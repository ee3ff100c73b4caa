// CLAUDE:SUMMARY Entry-creation engine: opens the form, fills compact time, selects kind via escalating strategies, submits.
package flow

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/hazyhaar/pointeuse/internal/sink"
	"github.com/hazyhaar/pointeuse/punch"
)

// Per-candidate wait inside strategy B. Short on purpose: candidates are
// tried in sequence against an already-open dropdown.
const candidateWait = 2 * time.Second

// Generic option shapes scanned by strategy C, most specific first.
var optionSelectors = []string{
	"li.sapMSelectListItem",
	"li.sapMLIB",
	`div[role="option"]`,
	`li[role="option"]`,
}

// EngineConfig configures the entry-creation Engine.
type EngineConfig struct {
	Selectors punch.SelectorSet

	// Labels is the display text per kind, as rendered by the dropdown.
	Labels map[punch.Kind]string

	Element    time.Duration // per-stage element waits
	Settle     time.Duration
	EntryPause time.Duration // pause between entries

	Logger *slog.Logger
	Events *sink.Emitter
}

func (c *EngineConfig) defaults() {
	if c.Element <= 0 {
		c.Element = 10 * time.Second
	}
	if c.Settle <= 0 {
		c.Settle = 2 * time.Second
	}
	if c.EntryPause <= 0 {
		c.EntryPause = 2 * time.Second
	}
	if c.Logger == nil {
		c.Logger = slog.Default()
	}
}

// Engine creates timesheet entries one at a time.
type Engine struct {
	cfg  EngineConfig
	page Page
	log  *slog.Logger
}

// NewEngine creates an entry-creation Engine driving page.
func NewEngine(page Page, cfg EngineConfig) *Engine {
	cfg.defaults()
	return &Engine{cfg: cfg, page: page, log: cfg.Logger}
}

// CreateAll processes entries strictly in order with a fixed pause between
// them. The result slice always has the same length and order as the input;
// one entry's failure never stops the next.
func (g *Engine) CreateAll(ctx context.Context, entries []punch.Entry) []punch.Result {
	results := make([]punch.Result, 0, len(entries))
	for i, e := range entries {
		if i > 0 {
			settle(ctx, g.cfg.EntryPause)
		}
		results = append(results, g.CreateOne(ctx, e))
	}
	return results
}

// CreateOne runs the creation pipeline for one entry. It never returns an
// error: every failure is captured into the Result.
func (g *Engine) CreateOne(ctx context.Context, e punch.Entry) punch.Result {
	res := punch.Result{Time: e.Time, Kind: e.Kind}
	if err := g.create(ctx, e); err != nil {
		g.log.Error("entry: failed", "time", e.Time, "kind", e.Kind, "error", err)
		g.cfg.Events.Emit(ctx, punch.StageEntry, "entry_failed", "", false, e.Time+" "+err.Error())
		res.Err = err.Error()
		return res
	}
	g.log.Info("entry: created", "time", e.Time, "kind", e.Kind)
	g.cfg.Events.Emit(ctx, punch.StageEntry, "entry_created", "", true, e.Time+" "+string(e.Kind))
	res.Success = true
	return res
}

func (g *Engine) create(ctx context.Context, e punch.Entry) error {
	sel := g.cfg.Selectors

	if err := g.page.Click(sel.EntriesPanel, g.cfg.Element); err != nil {
		return fmt.Errorf("open entries panel: %w", err)
	}
	if err := g.page.Click(sel.AddEntryButton, g.cfg.Element); err != nil {
		return fmt.Errorf("open creation form: %w", err)
	}

	compact := punch.CompactTime(e.Time)
	if err := g.page.Type(sel.TimeInput, compact, g.cfg.Element); err != nil {
		return fmt.Errorf("fill time %q: %w", compact, err)
	}

	if err := g.selectKind(ctx, e.Kind); err != nil {
		return err
	}

	if err := g.page.Click(sel.SubmitButton, g.cfg.Element); err != nil {
		return fmt.Errorf("submit entry: %w", err)
	}
	settle(ctx, g.cfg.Settle)
	return nil
}

// selectKind tries the strategies cheap-to-generic, short-circuiting on the
// first success. A more specific strategy is never retried after a generic
// one has run in the same call.
func (g *Engine) selectKind(ctx context.Context, kind punch.Kind) error {
	strategies := []struct {
		name string
		fn   func(context.Context, punch.Kind) error
	}{
		{"direct_text", g.strategyDirect},
		{"candidate_selectors", g.strategyCandidates},
		{"text_scan", g.strategyScan},
	}

	var attempts []string
	for _, s := range strategies {
		err := s.fn(ctx, kind)
		if err == nil {
			g.cfg.Events.Emit(ctx, punch.StageEntry, "kind_selected", s.name, true, string(kind))
			return nil
		}
		g.log.Debug("entry: strategy failed", "strategy", s.name, "kind", kind, "error", err)
		attempts = append(attempts, s.name+": "+err.Error())
	}
	return &SelectionError{Kind: kind, Label: g.label(kind), Attempts: attempts}
}

// strategyDirect types the display text into the type field and confirms
// with Enter. Fastest and most robust to layout, so it always goes first.
func (g *Engine) strategyDirect(ctx context.Context, kind punch.Kind) error {
	if err := g.page.Type(g.cfg.Selectors.TypeDropdown, g.label(kind), g.cfg.Element); err != nil {
		return fmt.Errorf("type into kind field: %w", err)
	}
	if err := g.page.PressEnter(); err != nil {
		return fmt.Errorf("confirm kind: %w", err)
	}
	return nil
}

// strategyCandidates opens the dropdown and clicks the first match from a
// kind-specific list of fixed selectors.
func (g *Engine) strategyCandidates(ctx context.Context, kind punch.Kind) error {
	if err := g.page.Click(g.cfg.Selectors.TypeDropdown, g.cfg.Element); err != nil {
		return fmt.Errorf("open dropdown: %w", err)
	}
	var lastErr error
	for _, sel := range kindCandidates(kind) {
		if err := g.page.Click(sel, candidateWait); err != nil {
			lastErr = err
			continue
		}
		g.log.Debug("entry: candidate matched", "selector", sel, "kind", kind)
		return nil
	}
	return fmt.Errorf("no candidate selector matched: %w", lastErr)
}

// kindCandidates returns the fixed selector list for a kind, keyed on the
// SuccessFactors time-event code with a positional last resort.
func kindCandidates(kind punch.Kind) []string {
	code := kind.TimeEventCode()
	position := 1
	if kind == punch.ClockOut {
		position = 2
	}
	return []string{
		fmt.Sprintf(`li[data-key=%q]`, code),
		fmt.Sprintf(`[id*=%q]`, code),
		fmt.Sprintf("ul.sapMSelectList li:nth-child(%d)", position),
	}
}

// strategyScan opens the dropdown and scans generic option shapes for an
// element whose visible text equals (case-insensitive) or contains the
// kind's display text, clicking the first match.
func (g *Engine) strategyScan(ctx context.Context, kind punch.Kind) error {
	if err := g.page.Click(g.cfg.Selectors.TypeDropdown, g.cfg.Element); err != nil {
		return fmt.Errorf("open dropdown: %w", err)
	}
	label := strings.ToLower(strings.TrimSpace(g.label(kind)))

	for _, sel := range optionSelectors {
		els, err := g.page.Elements(sel)
		if err != nil {
			g.log.Debug("entry: option scan failed", "selector", sel, "error", err)
			continue
		}
		for _, el := range els {
			text, err := el.Text()
			if err != nil {
				continue
			}
			t := strings.ToLower(strings.TrimSpace(text))
			if t != label && !strings.Contains(t, label) {
				continue
			}
			if vis, err := el.Visible(); err != nil || !vis {
				continue
			}
			if err := el.Click(); err != nil {
				return fmt.Errorf("click option %q: %w", text, err)
			}
			g.log.Debug("entry: option text matched", "selector", sel, "text", text)
			return nil
		}
	}
	return fmt.Errorf("no option text matched %q", g.label(kind))
}

func (g *Engine) label(kind punch.Kind) string {
	if l, ok := g.cfg.Labels[kind]; ok && l != "" {
		return l
	}
	return kind.DefaultLabel()
}
