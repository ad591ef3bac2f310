package agentboard

import (
	"io"
	"log/slog"
	"sync"
)

// testLogger returns a logger that discards all output for clean test output.
func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// fakeLogView records writes to a log region.
type fakeLogView struct {
	mu      sync.Mutex
	lines   []string
	sets    int
	scrolls int
}

func (v *fakeLogView) SetLines(lines []string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.lines = append([]string(nil), lines...)
	v.sets++
}

func (v *fakeLogView) ScrollToEnd() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.scrolls++
}

func (v *fakeLogView) snapshot() (lines []string, sets, scrolls int) {
	v.mu.Lock()
	defer v.mu.Unlock()
	return append([]string(nil), v.lines...), v.sets, v.scrolls
}

// fakeText records writes to a text element.
type fakeText struct {
	mu     sync.Mutex
	text   string
	writes int
}

func newFakeText(initial string) *fakeText {
	return &fakeText{text: initial}
}

func (v *fakeText) SetText(text string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.text = text
	v.writes++
}

func (v *fakeText) get() (string, int) {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.text, v.writes
}

// fakeInput is a fixed test message input.
type fakeInput string

func (in fakeInput) Value() string { return string(in) }

// fakeForm is a fixed config form.
type fakeForm map[string]string

func (f fakeForm) Values() map[string]string {
	cp := make(map[string]string, len(f))
	for k, v := range f {
		cp[k] = v
	}
	return cp
}
