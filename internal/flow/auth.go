// CLAUDE:SUMMARY Detects whether login is needed and runs the credential + one-time-code flow.
package flow

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/hazyhaar/pointeuse/internal/sink"
	"github.com/hazyhaar/pointeuse/punch"
)

// Generic one-time-code selectors tried after the configured one.
var codeFallbackSelectors = []string{
	`input[autocomplete="one-time-code"]`,
	`input[name*="otp" i]`,
}

// AuthConfig configures the Authenticator.
type AuthConfig struct {
	Selectors punch.SelectorSet

	Username string
	Password string

	// Generate produces the current one-time code when the code step
	// appears. Failures propagate as an AuthError wrapping the generator's
	// error.
	Generate func() (string, error)

	// IDPMarker is a URL substring identifying the identity provider's
	// pages, alongside the generic "login" and "auth" markers.
	IDPMarker string

	// MisrouteMarker is the URL substring of the intermediate
	// company-selection page a broken code step strands the session on.
	MisrouteMarker string

	Element        time.Duration // element waits during typing and clicking
	Settle         time.Duration
	LoginNavWait   time.Duration // navigation race bound in the credential step
	CodeNavRace    time.Duration // navigation race bound after code submit
	CodeSubmitWait time.Duration // fixed cap racing the code-submit navigation
	PollAttempts   int
	PollInterval   time.Duration

	Logger *slog.Logger
	Events *sink.Emitter
}

func (c *AuthConfig) defaults() {
	if c.Element <= 0 {
		c.Element = 10 * time.Second
	}
	if c.Settle <= 0 {
		c.Settle = 2 * time.Second
	}
	if c.LoginNavWait <= 0 {
		c.LoginNavWait = 10 * time.Second
	}
	if c.CodeNavRace <= 0 {
		c.CodeNavRace = 20 * time.Second
	}
	if c.CodeSubmitWait <= 0 {
		c.CodeSubmitWait = 8 * time.Second
	}
	if c.PollAttempts <= 0 {
		c.PollAttempts = 10
	}
	if c.PollInterval <= 0 {
		c.PollInterval = time.Second
	}
	if c.Logger == nil {
		c.Logger = slog.Default()
	}
}

// Authenticator decides whether authentication is required and executes the
// login + one-time-code flow.
type Authenticator struct {
	cfg  AuthConfig
	page Page
	log  *slog.Logger
}

// NewAuthenticator creates an Authenticator driving page.
func NewAuthenticator(page Page, cfg AuthConfig) *Authenticator {
	cfg.defaults()
	return &Authenticator{cfg: cfg, page: page, log: cfg.Logger}
}

// Required probes the live page for signs of an auth wall: a username
// input, a code input, or an auth-path URL. Probe failures are deliberately
// treated as "not required" and only logged, so a flaky probe cannot block
// a session that may already be authenticated: downstream steps will
// surface the real problem.
func (a *Authenticator) Required(ctx context.Context) bool {
	settle(ctx, a.cfg.Settle)

	failOpen := func(probe string, err error) bool {
		a.log.Warn("auth: probe failed, treating as not required", "probe", probe, "error", err)
		a.cfg.Events.Emit(ctx, punch.StageAuth, "probe_failed", probe, false, err.Error())
		return false
	}

	has, err := a.page.Has(a.cfg.Selectors.UsernameInput)
	if err != nil {
		return failOpen("username_input", err)
	}
	if has {
		a.cfg.Events.Emit(ctx, punch.StageAuth, "required", a.cfg.Selectors.UsernameInput, true, "username field present")
		return true
	}

	has, err = a.page.Has(a.cfg.Selectors.CodeInput)
	if err != nil {
		return failOpen("code_input", err)
	}
	if has {
		a.cfg.Events.Emit(ctx, punch.StageAuth, "required", a.cfg.Selectors.CodeInput, true, "code field present")
		return true
	}

	url, err := a.page.URL()
	if err != nil {
		return failOpen("url", err)
	}
	lower := strings.ToLower(url)
	for _, marker := range []string{"login", "auth", strings.ToLower(a.cfg.IDPMarker)} {
		if marker != "" && strings.Contains(lower, marker) {
			a.cfg.Events.Emit(ctx, punch.StageAuth, "required", url, true, "auth-path url marker "+marker)
			return true
		}
	}

	a.cfg.Events.Emit(ctx, punch.StageAuth, "not_required", url, true, "")
	return false
}

// Authenticate runs the login pipeline: the credential step if a username
// field is present, then a bounded poll for the one-time-code field, then
// code entry. Any failure in those steps surfaces as an AuthError with the
// cause preserved.
func (a *Authenticator) Authenticate(ctx context.Context) error {
	if err := a.credentialStep(ctx); err != nil {
		return err
	}

	working, err := a.pollCodeField(ctx)
	if err != nil {
		return err
	}

	if working == "" {
		// The code field never appeared. Absence is trusted as "not
		// needed" unless the URL shows the session stranded on the
		// company-selection page.
		url, err := a.page.URL()
		if err != nil {
			return authErr("read url after missing code field", err)
		}
		if a.misroutedURL(url) {
			a.cfg.Events.Emit(ctx, punch.StageAuth, "misrouted", url, false, "no code field")
			return &AuthError{Msg: "misrouted after missing code field"}
		}
		a.log.Info("auth: no code field, proceeding", "url", url)
		a.cfg.Events.Emit(ctx, punch.StageAuth, "code_field_absent", url, true, "proceeding without code")
		return nil
	}

	return a.codeStep(ctx, working)
}

// credentialStep types the username and password and submits, racing the
// login-button click against a navigation settle. A navigation timeout is
// tolerated; only a failed click is fatal.
func (a *Authenticator) credentialStep(ctx context.Context) error {
	sel := a.cfg.Selectors

	has, err := a.page.Has(sel.UsernameInput)
	if err != nil {
		return authErr("credential step: probe username field", err)
	}
	if !has {
		a.log.Debug("auth: no username field, skipping credential step")
		return nil
	}

	if err := a.page.Type(sel.UsernameInput, a.cfg.Username, a.cfg.Element); err != nil {
		return authErr("credential step: type username", err)
	}
	if err := a.page.Type(sel.PasswordInput, a.cfg.Password, a.cfg.Element); err != nil {
		return authErr("credential step: type password", err)
	}

	// Arm the navigation watch before the click that may trigger it.
	navSettled := make(chan struct{})
	wait := a.page.WaitNavigation(a.cfg.LoginNavWait)
	go func() {
		wait()
		close(navSettled)
	}()

	clicked := make(chan error, 1)
	go func() {
		clicked <- a.page.Click(sel.LoginButton, a.cfg.Element)
	}()

	select {
	case <-navSettled:
	case err := <-clicked:
		if err != nil {
			return authErr("credential step: click login button", err)
		}
	case <-ctx.Done():
		return authErr("credential step", ctx.Err())
	}
	a.cfg.Events.Emit(ctx, punch.StageAuth, "credentials_submitted", sel.LoginButton, true, "")

	settle(ctx, a.cfg.Settle)
	return nil
}

// pollCodeField probes the candidate selectors (configured first, then the
// generic fallbacks) up to PollAttempts times. The first candidate that
// resolves wins and is used for the remaining steps of this attempt only.
func (a *Authenticator) pollCodeField(ctx context.Context) (string, error) {
	candidates := append([]string{a.cfg.Selectors.CodeInput}, codeFallbackSelectors...)

	for attempt := 0; attempt < a.cfg.PollAttempts; attempt++ {
		if attempt > 0 {
			settle(ctx, a.cfg.PollInterval)
		}
		for _, cand := range candidates {
			if cand == "" {
				continue
			}
			has, err := a.page.Has(cand)
			if err != nil {
				return "", authErr("code field probe", err)
			}
			if has {
				a.log.Info("auth: code field found", "selector", cand, "attempt", attempt+1)
				a.cfg.Events.Emit(ctx, punch.StageAuth, "code_field_found", cand, true, "")
				return cand, nil
			}
		}
		if ctx.Err() != nil {
			return "", authErr("code field poll", ctx.Err())
		}
	}
	a.log.Info("auth: code field absent after polling", "attempts", a.cfg.PollAttempts)
	return "", nil
}

// codeStep generates the one-time code, types it into the working selector
// and submits with Enter. There is no submit-button click here, unlike the
// credential step; the code form submits on Enter. Completion is a race
// between a navigation settle and a fixed wait, and its outcome is only
// logged: the post-wait URL decides nothing in this step.
func (a *Authenticator) codeStep(ctx context.Context, working string) error {
	code, err := a.cfg.Generate()
	if err != nil {
		return authErr("generate one-time code", err)
	}
	if err := a.page.Type(working, code, a.cfg.Element); err != nil {
		return authErr("type one-time code", err)
	}

	navSettled := make(chan struct{})
	wait := a.page.WaitNavigation(a.cfg.CodeNavRace)
	go func() {
		wait()
		close(navSettled)
	}()

	if err := a.page.PressEnter(); err != nil {
		return authErr("submit one-time code", err)
	}
	a.cfg.Events.Emit(ctx, punch.StageAuth, "code_submitted", working, true, "")

	select {
	case <-navSettled:
	case <-time.After(a.cfg.CodeSubmitWait):
	case <-ctx.Done():
		return authErr("code submit wait", ctx.Err())
	}
	settle(ctx, a.cfg.Settle)

	if url, err := a.page.URL(); err != nil {
		a.log.Warn("auth: url read after code submit failed", "error", err)
	} else {
		a.log.Info("auth: code step finished", "url", url)
		a.cfg.Events.Emit(ctx, punch.StageAuth, "code_step_done", url, true, "")
	}
	return nil
}

// Misrouted reports whether the current URL shows the session stranded on
// the company-selection page. Read failures count as not misrouted.
func (a *Authenticator) Misrouted() bool {
	url, err := a.page.URL()
	if err != nil {
		a.log.Warn("auth: misroute check failed", "error", err)
		return false
	}
	return a.misroutedURL(url)
}

func (a *Authenticator) misroutedURL(url string) bool {
	if a.cfg.MisrouteMarker == "" {
		return false
	}
	return strings.Contains(strings.ToLower(url), strings.ToLower(a.cfg.MisrouteMarker))
}
