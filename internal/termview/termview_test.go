package termview

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/jpalmerr/agentboard/internal/page"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// syncBuffer is a bytes.Buffer safe for a writer and a reader goroutine.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func newTestPage() *page.Page {
	return page.New(
		[]page.Stat{
			{Key: "total_conversations", Label: "Total Conversations"},
			{Key: "avg_response_time", Label: "Avg Response"},
		},
		[]page.Agent{{ID: "customer_service", Name: "Customer Service"}},
	)
}

func TestRender_Stats(t *testing.T) {
	pg := newTestPage()
	pg.StatElement("total_conversations").SetText("1243")
	pg.StatElement("avg_response_time").SetText("2.3s")

	v := New(pg, &bytes.Buffer{}, WithLogger(testLogger()))
	frame := v.Render(pg.Snapshot())

	for _, want := range []string{"Total Conversations", "1,243", "Avg Response", "2.3s"} {
		if !strings.Contains(frame, want) {
			t.Errorf("frame missing %q:\n%s", want, frame)
		}
	}
}

func TestRender_UnsetStatShowsDash(t *testing.T) {
	pg := page.New([]page.Stat{{Key: "total_messages", Label: "Messages"}}, nil)

	v := New(pg, &bytes.Buffer{})
	frame := v.Render(pg.Snapshot())

	if !strings.Contains(frame, "-") {
		t.Errorf("unset stat should render as '-':\n%s", frame)
	}
}

func TestRender_LogTail(t *testing.T) {
	pg := newTestPage()
	pg.LogRegion().SetLines([]string{"line-1", "line-2", "line-3", "line-4", "line-5"})

	v := New(pg, &bytes.Buffer{}, WithMaxLogLines(3))
	frame := v.Render(pg.Snapshot())

	if !strings.Contains(frame, "Logs (5)") {
		t.Errorf("frame should report total line count:\n%s", frame)
	}
	for _, gone := range []string{"line-1", "line-2"} {
		if strings.Contains(frame, gone) {
			t.Errorf("frame should not contain %q:\n%s", gone, frame)
		}
	}

	// tail keeps order
	i3 := strings.Index(frame, "line-3")
	i4 := strings.Index(frame, "line-4")
	i5 := strings.Index(frame, "line-5")
	if i3 < 0 || i4 < i3 || i5 < i4 {
		t.Errorf("tail lines missing or out of order:\n%s", frame)
	}
}

func TestRender_EmptyPage(t *testing.T) {
	pg := page.New(nil, nil)

	v := New(pg, &bytes.Buffer{})
	frame := v.Render(pg.Snapshot())

	if !strings.Contains(frame, "no stats configured") || !strings.Contains(frame, "no log lines") {
		t.Errorf("empty page placeholders missing:\n%s", frame)
	}
	if strings.Contains(frame, "Agents") {
		t.Errorf("agents section should be omitted:\n%s", frame)
	}
}

func TestRender_AgentResponseAndNotice(t *testing.T) {
	pg := newTestPage()
	pg.ResponseRegion("customer_service").SetText("Happy to help!")
	pg.ShowNotice("error", "customer_service", "Error saving settings.")

	v := New(pg, &bytes.Buffer{}, WithWidth(120))
	v.now = func() time.Time { return pg.Snapshot().Notice.At.Add(5 * time.Second) }
	frame := v.Render(pg.Snapshot())

	for _, want := range []string{"Customer Service", "Happy to help!", "customer_service: Error saving settings.", "ago"} {
		if !strings.Contains(frame, want) {
			t.Errorf("frame missing %q:\n%s", want, frame)
		}
	}
}

func TestFormatStat(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"0", "0"},
		{"42", "42"},
		{"1243", "1,243"},
		{"-1234567", "-1,234,567"},
		{"2.3s", "2.3s"},
		{"92%", "92%"},
		{"0.10", "0.10"},
		{"", ""},
	}

	for _, tt := range tests {
		if got := formatStat(tt.in); got != tt.want {
			t.Errorf("formatStat(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		in    string
		width int
		want  string
	}{
		{"short", 10, "short"},
		{"exactly10!", 10, "exactly10!"},
		{"this is too long", 8, "this is…"},
		{"anything", 1, "anything"},
	}

	for _, tt := range tests {
		if got := truncate(tt.in, tt.width); got != tt.want {
			t.Errorf("truncate(%q, %d) = %q, want %q", tt.in, tt.width, got, tt.want)
		}
	}
}

func TestRun_RedrawsOnUpdate(t *testing.T) {
	pg := newTestPage()
	out := &syncBuffer{}
	v := New(pg, out, WithLogger(testLogger()))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- v.Run(ctx) }()

	// initial frame
	deadline := time.Now().Add(time.Second)
	for !strings.Contains(out.String(), "no log lines") && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	if !strings.Contains(out.String(), "no log lines") {
		t.Fatalf("initial frame not drawn: %q", out.String())
	}

	pg.LogRegion().SetLines([]string{"[INFO] fresh line"})

	deadline = time.Now().Add(time.Second)
	for !strings.Contains(out.String(), "fresh line") && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	if !strings.Contains(out.String(), "fresh line") {
		t.Errorf("frame not redrawn after update: %q", out.String())
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Run() error = %v, want nil", err)
		}
	case <-time.After(time.Second):
		t.Fatal("Run() did not return after cancellation")
	}

	if strings.Contains(out.String(), clearScreen) {
		t.Error("non-terminal output should not be cleared between frames")
	}
}

func TestRun_CoalescesBursts(t *testing.T) {
	pg := newTestPage()
	out := &syncBuffer{}
	v := New(pg, out)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- v.Run(ctx) }()

	time.Sleep(20 * time.Millisecond)
	for i := 0; i < 10; i++ {
		pg.StatElement("total_conversations").SetText("1")
	}
	time.Sleep(redrawDelay * 4)
	cancel()
	<-done

	// one initial frame plus one coalesced redraw
	frames := strings.Count(out.String(), "Logs (0)")
	if frames != 2 {
		t.Errorf("frames = %d, want 2", frames)
	}
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, io.ErrClosedPipe }

func TestRun_WriteError(t *testing.T) {
	v := New(newTestPage(), failingWriter{}, WithLogger(testLogger()))

	if err := v.Run(context.Background()); err == nil {
		t.Fatal("Run() error = nil, want write error")
	}
}
