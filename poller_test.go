package agentboard

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"reflect"
	"strings"
	"sync/atomic"
	"testing"
	"time"
)

// newTestPoller builds a dashboard against handler and returns its poller.
func newTestPoller(t *testing.T, handler http.HandlerFunc, opts ...Option) *Poller {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	opts = append([]Option{WithBaseURL(server.URL), WithLogger(testLogger())}, opts...)
	d, err := New(opts...)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return d.Poller()
}

func TestRefreshLogs_RendersAllLinesInOrder(t *testing.T) {
	for _, n := range []int{0, 1, 8, 250} {
		t.Run(fmt.Sprintf("%d lines", n), func(t *testing.T) {
			lines := make([]string, n)
			for i := range lines {
				lines[i] = fmt.Sprintf("[INFO] line %d", i)
			}
			body := fmt.Sprintf(`{"logs":[%s]}`, quoteAll(lines))

			view := &fakeLogView{lines: []string{"stale"}}
			p := newTestPoller(t, func(w http.ResponseWriter, r *http.Request) {
				if r.URL.Path != LogsPath {
					t.Errorf("path = %s, want %s", r.URL.Path, LogsPath)
				}
				_, _ = w.Write([]byte(body))
			}, WithLogView(view))

			if err := p.RefreshLogs(context.Background()); err != nil {
				t.Fatalf("RefreshLogs() error = %v", err)
			}

			got, sets, scrolls := view.snapshot()
			if len(got) != n {
				t.Fatalf("rendered %d lines, want %d", len(got), n)
			}
			if n > 0 && !reflect.DeepEqual(got, lines) {
				t.Errorf("lines out of order: got %v", got)
			}
			if sets != 1 {
				t.Errorf("SetLines called %d times, want 1", sets)
			}
			if scrolls != 1 {
				t.Errorf("ScrollToEnd called %d times, want 1", scrolls)
			}
		})
	}
}

func TestRefreshLogs_FailureLeavesDisplayIntact(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{"non-JSON", func(w http.ResponseWriter, r *http.Request) { _, _ = w.Write([]byte("not json")) }},
		{"missing logs field", func(w http.ResponseWriter, r *http.Request) { _, _ = w.Write([]byte(`{"entries":[]}`)) }},
		{"null logs", func(w http.ResponseWriter, r *http.Request) { _, _ = w.Write([]byte(`{"logs":null}`)) }},
		{"server error", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusBadGateway) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			view := &fakeLogView{lines: []string{"previous"}}
			p := newTestPoller(t, tt.handler, WithLogView(view))

			err := p.RefreshLogs(context.Background())
			if !errors.Is(err, ErrTransport) {
				t.Fatalf("RefreshLogs() error = %v, want ErrTransport", err)
			}

			got, sets, scrolls := view.snapshot()
			if !reflect.DeepEqual(got, []string{"previous"}) || sets != 0 || scrolls != 0 {
				t.Errorf("display modified on failure: lines=%v sets=%d scrolls=%d", got, sets, scrolls)
			}
		})
	}
}

func TestRefreshLogs_NoViewBound(t *testing.T) {
	var hits atomic.Int32
	p := newTestPoller(t, func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		_, _ = w.Write([]byte(`{"logs":["a"]}`))
	})

	if err := p.RefreshLogs(context.Background()); err != nil {
		t.Fatalf("RefreshLogs() error = %v", err)
	}
	if hits.Load() != 1 {
		t.Errorf("requests = %d, want 1", hits.Load())
	}
}

// TestRefreshStats_UpdatesOnlyBoundKeysPresentInResponse covers the
// total_conversations example: only that element changes.
func TestRefreshStats_UpdatesOnlyBoundKeysPresentInResponse(t *testing.T) {
	conversations := newFakeText("0")
	messages := newFakeText("3456")
	satisfaction := newFakeText("92%")

	p := newTestPoller(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != StatsPath {
			t.Errorf("path = %s, want %s", r.URL.Path, StatsPath)
		}
		_, _ = w.Write([]byte(`{"total_conversations": 42, "unbound_key": "x"}`))
	},
		WithStatView("total_conversations", conversations),
		WithStatView("total_messages", messages),
		WithStatView("satisfaction_rate", satisfaction),
	)

	if err := p.RefreshStats(context.Background()); err != nil {
		t.Fatalf("RefreshStats() error = %v", err)
	}

	if got, writes := conversations.get(); got != "42" || writes != 1 {
		t.Errorf("total_conversations = %q (%d writes), want 42 (1 write)", got, writes)
	}
	if got, writes := messages.get(); got != "3456" || writes != 0 {
		t.Errorf("total_messages = %q (%d writes), want untouched", got, writes)
	}
	if got, writes := satisfaction.get(); got != "92%" || writes != 0 {
		t.Errorf("satisfaction_rate = %q (%d writes), want untouched", got, writes)
	}
}

func TestRefreshStats_ValueFormatting(t *testing.T) {
	tests := []struct {
		name      string
		json      string
		want      string
		wantWrite bool
	}{
		{"integer", `1243`, "1243", true},
		{"float", `2.30`, "2.30", true},
		{"negative", `-7`, "-7", true},
		{"string", `"2.3s"`, "2.3s", true},
		{"empty string", `""`, "", true},
		{"bool", `true`, "true", true},
		{"null", `null`, "prior", false},
		{"object", `{"a":1}`, "prior", false},
		{"array", `[1,2]`, "prior", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			view := newFakeText("prior")
			p := newTestPoller(t, func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(`{"k":` + tt.json + `}`))
			}, WithStatView("k", view))

			if err := p.RefreshStats(context.Background()); err != nil {
				t.Fatalf("RefreshStats() error = %v", err)
			}

			got, writes := view.get()
			if got != tt.want {
				t.Errorf("value = %q, want %q", got, tt.want)
			}
			if (writes > 0) != tt.wantWrite {
				t.Errorf("writes = %d, wantWrite = %v", writes, tt.wantWrite)
			}
		})
	}
}

func TestRefreshStats_FailureLeavesPriorValues(t *testing.T) {
	view := newFakeText("1243")
	p := newTestPoller(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<html>502</html>`))
	}, WithStatView("total_conversations", view))

	err := p.RefreshStats(context.Background())
	if !errors.Is(err, ErrTransport) {
		t.Fatalf("RefreshStats() error = %v, want ErrTransport", err)
	}
	if got, writes := view.get(); got != "1243" || writes != 0 {
		t.Errorf("value = %q (%d writes), want untouched", got, writes)
	}
}

func TestRefreshStats_NonObjectBodyIsFailure(t *testing.T) {
	view := newFakeText("prior")
	p := newTestPoller(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[1,2,3]`))
	}, WithStatView("k", view))

	if err := p.RefreshStats(context.Background()); err == nil {
		t.Fatal("RefreshStats() error = nil, want decode error")
	}
	if got, _ := view.get(); got != "prior" {
		t.Errorf("value = %q, want prior", got)
	}
}

// TestRefreshLogs_LastResponseWins verifies overlapping refreshes both
// complete and the later response overwrites the earlier one.
func TestRefreshLogs_LastResponseWins(t *testing.T) {
	var calls atomic.Int32
	releaseFirst := make(chan struct{})

	view := &fakeLogView{}
	p := newTestPoller(t, func(w http.ResponseWriter, r *http.Request) {
		n := calls.Add(1)
		if n == 1 {
			<-releaseFirst
			_, _ = w.Write([]byte(`{"logs":["first"]}`))
			return
		}
		_, _ = w.Write([]byte(`{"logs":["second"]}`))
	}, WithLogView(view))

	firstDone := make(chan error, 1)
	go func() { firstDone <- p.RefreshLogs(context.Background()) }()

	// wait until the first request is in flight
	deadline := time.Now().Add(time.Second)
	for calls.Load() < 1 && time.Now().Before(deadline) {
		time.Sleep(time.Millisecond)
	}

	if err := p.RefreshLogs(context.Background()); err != nil {
		t.Fatalf("second RefreshLogs() error = %v", err)
	}
	if got, _, _ := view.snapshot(); !reflect.DeepEqual(got, []string{"second"}) {
		t.Fatalf("after second response lines = %v, want [second]", got)
	}

	close(releaseFirst)
	if err := <-firstDone; err != nil {
		t.Fatalf("first RefreshLogs() error = %v", err)
	}

	got, sets, _ := view.snapshot()
	if !reflect.DeepEqual(got, []string{"first"}) {
		t.Errorf("lines = %v, want [first] (last to arrive wins)", got)
	}
	if sets != 2 {
		t.Errorf("SetLines called %d times, want 2 (no cancellation)", sets)
	}
}

func quoteAll(lines []string) string {
	quoted := make([]string, len(lines))
	for i, l := range lines {
		quoted[i] = fmt.Sprintf("%q", l)
	}
	return strings.Join(quoted, ",")
}
