package flow

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/hazyhaar/pointeuse/punch"
)

func fastEngineConfig() EngineConfig {
	return EngineConfig{
		Selectors: testSelectors(),
		Labels: map[punch.Kind]string{
			punch.ClockIn:  "Clock In",
			punch.ClockOut: "Clock Out",
		},
		Element:    time.Millisecond,
		Settle:     time.Millisecond,
		EntryPause: time.Millisecond,
	}
}

// formReady sets up a page where panel, form, time field, dropdown and
// submit all resolve.
func formReady() *fakePage {
	p := newFakePage()
	for _, sel := range []string{"#panel", "#add", "#time", "#kind", "#save"} {
		p.present[sel] = true
	}
	return p
}

func TestCreateOne_DirectTextStrategy(t *testing.T) {
	p := formReady()

	g := NewEngine(p, fastEngineConfig())
	res := g.CreateOne(context.Background(), punch.Entry{Time: "08:00", Kind: punch.ClockIn})
	if !res.Success {
		t.Fatalf("result: %+v", res)
	}

	if got := p.typedInto("#time"); len(got) != 1 || got[0] != "800" {
		t.Errorf("time typed: got %v, want [800]", got)
	}
	if got := p.typedInto("#kind"); len(got) != 1 || got[0] != "Clock In" {
		t.Errorf("kind typed: got %v, want [Clock In]", got)
	}
	if p.enterCount != 1 {
		t.Errorf("enter presses: got %d, want 1", p.enterCount)
	}
	if p.clickCalls["#save"] != 1 {
		t.Error("submit not clicked")
	}
}

func TestCreateOne_CandidateStrategyAfterDirectFails(t *testing.T) {
	p := formReady()
	p.failType["#kind"] = errors.New("input detached")
	p.present[`li[data-key="P10"]`] = true

	g := NewEngine(p, fastEngineConfig())
	res := g.CreateOne(context.Background(), punch.Entry{Time: "08:00", Kind: punch.ClockIn})
	if !res.Success {
		t.Fatalf("result: %+v", res)
	}
	if p.clickCalls[`li[data-key="P10"]`] != 1 {
		t.Error("clock-in candidate selector not clicked")
	}
	// Each strategy opens the dropdown once; a second open would mean the
	// generic scan ran after a candidate already matched.
	if p.clickCalls["#kind"] != 1 {
		t.Errorf("dropdown opened %d times, want 1", p.clickCalls["#kind"])
	}
}

func TestCreateOne_ClockOutCandidates(t *testing.T) {
	p := formReady()
	p.failType["#kind"] = errors.New("input detached")
	p.present[`li[data-key="P20"]`] = true

	g := NewEngine(p, fastEngineConfig())
	res := g.CreateOne(context.Background(), punch.Entry{Time: "17:00", Kind: punch.ClockOut})
	if !res.Success {
		t.Fatalf("result: %+v", res)
	}
	if p.clickCalls[`li[data-key="P20"]`] != 1 {
		t.Error("clock-out candidate selector not clicked")
	}
}

func TestCreateOne_TextScanStrategy(t *testing.T) {
	p := formReady()
	p.failType["#kind"] = errors.New("input detached") // kills strategy A
	hiddenMatch := &fakeElement{text: "Clock In", invisible: true}
	match := &fakeElement{text: "  Clock In (P10)  "}
	other := &fakeElement{text: "Clock Out"}
	p.elements["li.sapMSelectListItem"] = []*fakeElement{other, hiddenMatch, match}

	g := NewEngine(p, fastEngineConfig())
	res := g.CreateOne(context.Background(), punch.Entry{Time: "08:00", Kind: punch.ClockIn})
	if !res.Success {
		t.Fatalf("result: %+v", res)
	}
	if !match.clicked {
		t.Error("visible matching option not clicked")
	}
	if hiddenMatch.clicked || other.clicked {
		t.Error("wrong option clicked")
	}
}

func TestCreateOne_AllStrategiesExhausted(t *testing.T) {
	p := formReady()
	p.failType["#kind"] = errors.New("input detached")
	// no candidates present, no options rendered

	g := NewEngine(p, fastEngineConfig())
	res := g.CreateOne(context.Background(), punch.Entry{Time: "08:00", Kind: punch.ClockIn})
	if res.Success {
		t.Fatal("expected failure when every strategy is exhausted")
	}
	if !strings.Contains(res.Err, "selection:") || !strings.Contains(res.Err, "clock_in") {
		t.Errorf("error %q must name the kind through a selection failure", res.Err)
	}
}

func TestCreateOne_SubmitFailureCaptured(t *testing.T) {
	p := formReady()
	p.failClick["#save"] = errors.New("modal blocked click")

	g := NewEngine(p, fastEngineConfig())
	res := g.CreateOne(context.Background(), punch.Entry{Time: "08:00", Kind: punch.ClockIn})
	if res.Success {
		t.Fatal("expected captured submit failure")
	}
	if !strings.Contains(res.Err, "submit") {
		t.Errorf("error %q does not mention the submit stage", res.Err)
	}
}

func TestCreateAll_LengthOrderAndIsolation(t *testing.T) {
	p := formReady()
	p.failClickN["#save"] = 3 // third entry's submit times out

	entries := []punch.Entry{
		{Time: "08:00", Kind: punch.ClockIn},
		{Time: "12:00", Kind: punch.ClockOut},
		{Time: "13:00", Kind: punch.ClockIn},
		{Time: "17:00", Kind: punch.ClockOut},
	}

	g := NewEngine(p, fastEngineConfig())
	results := g.CreateAll(context.Background(), entries)

	if len(results) != len(entries) {
		t.Fatalf("results: got %d, want %d", len(results), len(entries))
	}
	for i, r := range results {
		if r.Time != entries[i].Time || r.Kind != entries[i].Kind {
			t.Errorf("result %d out of order: %+v", i, r)
		}
	}
	wantOK := []bool{true, true, false, true}
	for i, r := range results {
		if r.Success != wantOK[i] {
			t.Errorf("result %d success: got %v, want %v (%s)", i, r.Success, wantOK[i], r.Err)
		}
	}
}

func TestCreateAll_Empty(t *testing.T) {
	g := NewEngine(newFakePage(), fastEngineConfig())
	if got := g.CreateAll(context.Background(), nil); len(got) != 0 {
		t.Errorf("got %d results for empty input", len(got))
	}
}
