package browser

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/input"
	"github.com/go-rod/rod/lib/proto"

	"github.com/hazyhaar/pointeuse/internal/flow"
)

// Page adapts a Rod page to the flow.Page contract. It is bound to the run
// context handed to OpenPage and must not be shared across goroutines.
type Page struct {
	page *rod.Page
	ctx  context.Context
	log  *slog.Logger
}

// WaitVisible blocks until selector resolves to a visible element, bounded
// by timeout.
func (p *Page) WaitVisible(selector string, timeout time.Duration) error {
	el, err := p.page.Timeout(timeout).Element(selector)
	if err != nil {
		return fmt.Errorf("element %s: %w", selector, err)
	}
	if err := el.WaitVisible(); err != nil {
		return fmt.Errorf("wait visible %s: %w", selector, err)
	}
	return nil
}

// Has probes for selector without waiting.
func (p *Page) Has(selector string) (bool, error) {
	found, _, err := p.page.Has(selector)
	if err != nil {
		return false, fmt.Errorf("probe %s: %w", selector, err)
	}
	return found, nil
}

// Click waits for selector to become visible, then left-clicks it once.
func (p *Page) Click(selector string, timeout time.Duration) error {
	el, err := p.page.Timeout(timeout).Element(selector)
	if err != nil {
		return fmt.Errorf("element %s: %w", selector, err)
	}
	if err := el.WaitVisible(); err != nil {
		return fmt.Errorf("wait visible %s: %w", selector, err)
	}
	if err := el.Click(proto.InputMouseButtonLeft, 1); err != nil {
		return fmt.Errorf("click %s: %w", selector, err)
	}
	return nil
}

// Type waits for selector, selects any existing value so the keystrokes
// replace it, and types text.
func (p *Page) Type(selector, text string, timeout time.Duration) error {
	el, err := p.page.Timeout(timeout).Element(selector)
	if err != nil {
		return fmt.Errorf("element %s: %w", selector, err)
	}
	if err := el.WaitVisible(); err != nil {
		return fmt.Errorf("wait visible %s: %w", selector, err)
	}
	if err := el.SelectAllText(); err != nil {
		return fmt.Errorf("select text %s: %w", selector, err)
	}
	if err := el.Input(text); err != nil {
		return fmt.Errorf("input %s: %w", selector, err)
	}
	return nil
}

// PressEnter sends Enter to the focused element.
func (p *Page) PressEnter() error {
	if err := p.page.Keyboard.Press(input.Enter); err != nil {
		return fmt.Errorf("press enter: %w", err)
	}
	return nil
}

// URL returns the page's current URL.
func (p *Page) URL() (string, error) {
	info, err := p.page.Info()
	if err != nil {
		return "", fmt.Errorf("page info: %w", err)
	}
	return info.URL, nil
}

// Navigate loads url. A navigation that commits but loads past the deadline
// is logged, not returned: the flow's own element waits decide whether the
// page is usable.
func (p *Page) Navigate(url string, timeout time.Duration) error {
	navCtx, cancel := context.WithTimeout(p.ctx, timeout)
	defer cancel()

	if err := p.page.Context(navCtx).Navigate(url); err != nil {
		return fmt.Errorf("navigate %s: %w", url, err)
	}
	if err := p.page.Context(navCtx).WaitLoad(); err != nil {
		p.log.Warn("browser: wait load timeout", "url", url, "error", err)
	}
	return nil
}

// WaitNavigation arms a watch for the next navigation reaching network
// almost idle. Arm it before triggering the action, then call the returned
// function to block until it settles or the timeout expires.
func (p *Page) WaitNavigation(timeout time.Duration) func() {
	return p.page.Timeout(timeout).WaitNavigation(proto.PageLifecycleEventNameNetworkAlmostIdle)
}

// Elements returns all current matches for selector.
func (p *Page) Elements(selector string) ([]flow.Element, error) {
	els, err := p.page.Elements(selector)
	if err != nil {
		return nil, fmt.Errorf("elements %s: %w", selector, err)
	}
	out := make([]flow.Element, 0, len(els))
	for _, el := range els {
		out = append(out, &element{el: el})
	}
	return out, nil
}

// HTML serialises the current document as outer HTML.
func (p *Page) HTML() ([]byte, error) {
	res, err := p.page.Eval(`() => document.documentElement.outerHTML`)
	if err != nil {
		return nil, fmt.Errorf("serialize dom: %w", err)
	}
	return []byte(res.Value.Str()), nil
}

// Close closes the page. The Manager still owns the browser process.
func (p *Page) Close() error {
	return p.page.Close()
}

type element struct {
	el *rod.Element
}

func (e *element) Text() (string, error)  { return e.el.Text() }
func (e *element) Visible() (bool, error) { return e.el.Visible() }
func (e *element) Click() error           { return e.el.Click(proto.InputMouseButtonLeft, 1) }
