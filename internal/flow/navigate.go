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

// NavConfig configures the Navigator.
type NavConfig struct {
	Selectors punch.SelectorSet

	// BaseURL is the tenant root, e.g. "https://acme.successfactors.example".
	BaseURL string

	// UserID is required only by the URL fallback; the primary UI path
	// works without it.
	UserID string

	Icon     time.Duration // time-tracking icon wait
	Link     time.Duration // view-timesheet link wait
	Navigate time.Duration // fallback URL navigation
	Settle   time.Duration

	// Now is the clock used to build the fallback URL's date. Defaults to
	// time.Now.
	Now func() time.Time

	Logger *slog.Logger
	Events *sink.Emitter
}

func (c *NavConfig) defaults() {
	if c.Icon <= 0 {
		c.Icon = 15 * time.Second
	}
	if c.Link <= 0 {
		c.Link = 10 * time.Second
	}
	if c.Navigate <= 0 {
		c.Navigate = 30 * time.Second
	}
	if c.Settle <= 0 {
		c.Settle = 2 * time.Second
	}
	if c.Now == nil {
		c.Now = time.Now
	}
	if c.Logger == nil {
		c.Logger = slog.Default()
	}
}

// Navigator reaches the timesheet view, preferring the UI path and falling
// back to a constructed URL.
type Navigator struct {
	cfg  NavConfig
	page Page
	log  *slog.Logger
}

// NewNavigator creates a Navigator driving page.
func NewNavigator(page Page, cfg NavConfig) *Navigator {
	cfg.defaults()
	return &Navigator{cfg: cfg, page: page, log: cfg.Logger}
}

// ReachTimesheet tries the UI path first; on any failure there it attempts
// the deterministic URL. When both fail the returned NavigationError
// carries both failure messages, so the caller can see every path tried.
func (n *Navigator) ReachTimesheet(ctx context.Context) error {
	primaryErr := n.primary(ctx)
	if primaryErr == nil {
		n.cfg.Events.Emit(ctx, punch.StageNavigate, "ui_path", n.cfg.Selectors.ViewTimesheetLink, true, "")
		return nil
	}

	n.log.Warn("navigate: ui path failed, trying fallback url", "error", primaryErr)
	n.cfg.Events.Emit(ctx, punch.StageNavigate, "ui_path", "", false, primaryErr.Error())

	if err := n.fallback(ctx); err != nil {
		n.cfg.Events.Emit(ctx, punch.StageNavigate, "fallback_url", "", false, err.Error())
		return &NavigationError{Msg: fmt.Sprintf("ui path failed (%v); url fallback failed (%v)", primaryErr, err)}
	}
	n.cfg.Events.Emit(ctx, punch.StageNavigate, "fallback_url", n.FallbackURL(), true, "")
	return nil
}

func (n *Navigator) primary(ctx context.Context) error {
	sel := n.cfg.Selectors

	if err := n.page.WaitVisible(sel.TimeTrackingIcon, n.cfg.Icon); err != nil {
		return fmt.Errorf("time-tracking icon: %w", err)
	}
	if err := n.page.Click(sel.TimeTrackingIcon, n.cfg.Icon); err != nil {
		return fmt.Errorf("click time-tracking icon: %w", err)
	}
	settle(ctx, n.cfg.Settle)

	if err := n.page.WaitVisible(sel.ViewTimesheetLink, n.cfg.Link); err != nil {
		return fmt.Errorf("view-timesheet link: %w", err)
	}
	if err := n.page.Click(sel.ViewTimesheetLink, n.cfg.Link); err != nil {
		return fmt.Errorf("click view-timesheet link: %w", err)
	}
	settle(ctx, n.cfg.Settle)

	return nil
}

func (n *Navigator) fallback(ctx context.Context) error {
	if n.cfg.UserID == "" {
		return fmt.Errorf("no user id configured")
	}
	target := n.FallbackURL()
	n.log.Info("navigate: fallback url", "url", target)

	if err := n.page.Navigate(target, n.cfg.Navigate); err != nil {
		return fmt.Errorf("navigate %s: %w", target, err)
	}
	settle(ctx, n.cfg.Settle)
	return nil
}

// FallbackURL builds the direct timerecords URL for the current local date.
// Computed fresh at every call; nothing about the date is cached.
func (n *Navigator) FallbackURL() string {
	base := strings.TrimRight(n.cfg.BaseURL, "/")
	return fmt.Sprintf("%s/sf/timesheet#/timerecords/%s/%s",
		base, n.cfg.UserID, n.cfg.Now().Format("2006-01-02"))
}
