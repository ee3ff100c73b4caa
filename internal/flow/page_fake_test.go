package flow

import (
	"fmt"
	"time"

	"github.com/hazyhaar/pointeuse/punch"
)

func testSelectors() punch.SelectorSet {
	return punch.SelectorSet{
		UsernameInput:     "#user",
		PasswordInput:     "#pass",
		LoginButton:       "#login",
		CodeInput:         "#otp",
		TimeTrackingIcon:  "#icon",
		ViewTimesheetLink: "#sheet",
		EntriesPanel:      "#panel",
		AddEntryButton:    "#add",
		TimeInput:         "#time",
		TypeDropdown:      "#kind",
		SubmitButton:      "#save",
	}
}

// fakePage is an in-memory Page for tests. Waits resolve immediately:
// an absent element fails its wait at once instead of sleeping out the
// timeout.
type fakePage struct {
	present map[string]bool // Has and wait results
	hidden  map[string]bool // present but not visible

	hasErr     map[string]error
	failClick  map[string]error
	failType   map[string]error
	enterErr   error
	urlErr     error
	navErr     error
	elements   map[string][]*fakeElement
	elemErr    map[string]error
	appearAt   map[string]int // Has turns true from the Nth probe on
	failClickN map[string]int // Nth click of a selector fails

	url           string
	navSettleWait time.Duration // delay before WaitNavigation's func returns

	hasCalls   map[string]int
	clickCalls map[string]int
	clicked    []string
	typed      []typedOp
	navigated  []string
	enterCount int
}

type typedOp struct {
	sel, text string
}

func newFakePage() *fakePage {
	return &fakePage{
		present:    make(map[string]bool),
		hidden:     make(map[string]bool),
		hasErr:     make(map[string]error),
		failClick:  make(map[string]error),
		failType:   make(map[string]error),
		elements:   make(map[string][]*fakeElement),
		elemErr:    make(map[string]error),
		appearAt:   make(map[string]int),
		failClickN: make(map[string]int),
		hasCalls:   make(map[string]int),
		clickCalls: make(map[string]int),
	}
}

func (f *fakePage) has(sel string) bool {
	if n, ok := f.appearAt[sel]; ok {
		return f.hasCalls[sel] >= n
	}
	return f.present[sel]
}

func (f *fakePage) Has(sel string) (bool, error) {
	f.hasCalls[sel]++
	if err := f.hasErr[sel]; err != nil {
		return false, err
	}
	return f.has(sel), nil
}

func (f *fakePage) WaitVisible(sel string, _ time.Duration) error {
	f.hasCalls[sel]++
	if !f.has(sel) || f.hidden[sel] {
		return fmt.Errorf("wait visible %s: timeout", sel)
	}
	return nil
}

func (f *fakePage) Click(sel string, _ time.Duration) error {
	f.clickCalls[sel]++
	if err := f.failClick[sel]; err != nil {
		return err
	}
	if n, ok := f.failClickN[sel]; ok && f.clickCalls[sel] == n {
		return fmt.Errorf("click %s: detached on call %d", sel, n)
	}
	if !f.has(sel) {
		return fmt.Errorf("click %s: not found", sel)
	}
	f.clicked = append(f.clicked, sel)
	return nil
}

func (f *fakePage) Type(sel, text string, _ time.Duration) error {
	if err := f.failType[sel]; err != nil {
		return err
	}
	if !f.has(sel) {
		return fmt.Errorf("type %s: not found", sel)
	}
	f.typed = append(f.typed, typedOp{sel, text})
	return nil
}

func (f *fakePage) PressEnter() error {
	if f.enterErr != nil {
		return f.enterErr
	}
	f.enterCount++
	return nil
}

func (f *fakePage) URL() (string, error) {
	if f.urlErr != nil {
		return "", f.urlErr
	}
	return f.url, nil
}

func (f *fakePage) Navigate(url string, _ time.Duration) error {
	if f.navErr != nil {
		return f.navErr
	}
	f.navigated = append(f.navigated, url)
	f.url = url
	return nil
}

func (f *fakePage) WaitNavigation(_ time.Duration) func() {
	d := f.navSettleWait
	return func() {
		if d > 0 {
			time.Sleep(d)
		}
	}
}

func (f *fakePage) Elements(sel string) ([]Element, error) {
	if err := f.elemErr[sel]; err != nil {
		return nil, err
	}
	els := make([]Element, 0, len(f.elements[sel]))
	for _, e := range f.elements[sel] {
		els = append(els, e)
	}
	return els, nil
}

func (f *fakePage) typedInto(sel string) []string {
	var out []string
	for _, op := range f.typed {
		if op.sel == sel {
			out = append(out, op.text)
		}
	}
	return out
}

type fakeElement struct {
	text      string
	invisible bool
	clickErr  error
	clicked   bool
}

func (e *fakeElement) Text() (string, error)  { return e.text, nil }
func (e *fakeElement) Visible() (bool, error) { return !e.invisible, nil }
func (e *fakeElement) Click() error {
	if e.clickErr != nil {
		return e.clickErr
	}
	e.clicked = true
	return nil
}
