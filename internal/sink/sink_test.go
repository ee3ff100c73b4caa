package sink

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/hazyhaar/pointeuse/punch"
)

func testEvent(seq uint64) punch.Event {
	return punch.Event{
		RunID:     "run-1",
		Seq:       seq,
		Stage:     punch.StageAuth,
		Action:    "code_field_found",
		Target:    "#otp",
		Success:   true,
		Timestamp: 1766400000000,
	}
}

func TestStdout_JSONLines(t *testing.T) {
	var buf bytes.Buffer
	s := NewStdout(&buf)

	if err := s.Send(context.Background(), testEvent(1)); err != nil {
		t.Fatal(err)
	}
	rep := punch.NewReport("run-1", "2026-08-21", []punch.Result{
		{Time: "08:00", Kind: punch.ClockIn, Success: true},
	})
	if err := s.SendReport(context.Background(), rep); err != nil {
		t.Fatal(err)
	}

	dec := json.NewDecoder(&buf)
	var first, second envelope
	if err := dec.Decode(&first); err != nil {
		t.Fatal(err)
	}
	if err := dec.Decode(&second); err != nil {
		t.Fatal(err)
	}
	if first.Type != "event" {
		t.Errorf("first line type: got %q, want %q", first.Type, "event")
	}
	if second.Type != "report" {
		t.Errorf("second line type: got %q, want %q", second.Type, "report")
	}
}

func TestRouter_IsolatesSinkFailures(t *testing.T) {
	var delivered []uint64
	failing := NewCallback(func(context.Context, punch.Event) error {
		return errors.New("boom")
	}, nil)
	recording := NewCallback(func(_ context.Context, ev punch.Event) error {
		delivered = append(delivered, ev.Seq)
		return nil
	}, nil)

	r := NewRouter(nil, failing, recording)
	err := r.Send(context.Background(), testEvent(3))
	if err == nil {
		t.Fatal("expected first sink's error to be returned")
	}
	if len(delivered) != 1 || delivered[0] != 3 {
		t.Errorf("second sink delivery: got %v, want [3]", delivered)
	}
}

func TestWebhook_RetriesUntilSuccess(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	w := NewWebhook(srv.URL, WithWebhookRetries(2))
	if err := w.Send(context.Background(), testEvent(1)); err != nil {
		t.Fatalf("send: %v", err)
	}
	if got := calls.Load(); got != 2 {
		t.Errorf("requests: got %d, want 2", got)
	}
}

func TestWebhook_ExhaustedRetries(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	w := NewWebhook(srv.URL, WithWebhookRetries(0))
	if err := w.Send(context.Background(), testEvent(1)); err == nil {
		t.Fatal("expected error after exhausting retries")
	}
}
