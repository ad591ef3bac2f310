// Package termview renders the page model to a terminal.
//
// A [View] redraws the whole page (stats, the tail of the log region, agent
// responses and the latest notice) every time the page changes. When the
// output is a terminal the screen is cleared between frames; otherwise
// frames are appended, which keeps piped output readable.
package termview

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"golang.org/x/term"

	"github.com/jpalmerr/agentboard/internal/page"
)

const (
	defaultMaxLogLines = 20
	defaultWidth       = 100

	// redrawDelay coalesces bursts of updates (a stats refresh writes one
	// element per key) into a single frame.
	redrawDelay = 50 * time.Millisecond

	clearScreen = "\x1b[H\x1b[2J"
)

// View draws a [page.Page] to an [io.Writer].
type View struct {
	page        *page.Page
	out         io.Writer
	logger      *slog.Logger
	renderer    *lipgloss.Renderer
	styles      styles
	tty         bool
	width       int
	maxLogLines int
	now         func() time.Time
}

// Option configures a [View].
type Option func(*View)

// WithMaxLogLines sets how many trailing log lines are drawn. Defaults to 20.
// Non-positive values are ignored.
func WithMaxLogLines(n int) Option {
	return func(v *View) {
		if n > 0 {
			v.maxLogLines = n
		}
	}
}

// WithWidth overrides the frame width. By default the terminal width is
// used, or 100 columns when the output is not a terminal.
func WithWidth(w int) Option {
	return func(v *View) {
		if w > 0 {
			v.width = w
		}
	}
}

// WithLogger sets the logger. Defaults to slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(v *View) {
		if l != nil {
			v.logger = l
		}
	}
}

// New creates a [View] drawing p to out.
func New(p *page.Page, out io.Writer, opts ...Option) *View {
	v := &View{
		page:        p,
		out:         out,
		logger:      slog.Default(),
		renderer:    lipgloss.NewRenderer(out),
		width:       defaultWidth,
		maxLogLines: defaultMaxLogLines,
		now:         time.Now,
	}

	if f, ok := out.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		v.tty = true
		if w, _, err := term.GetSize(int(f.Fd())); err == nil && w > 0 {
			v.width = w
		}
	}

	for _, opt := range opts {
		opt(v)
	}
	v.styles = newStyles(v.renderer)
	return v
}

// Run draws the page, then redraws it after every change until ctx is
// cancelled.
func (v *View) Run(ctx context.Context) error {
	ch := v.page.Subscribe()
	defer v.page.Unsubscribe(ch)

	if err := v.draw(); err != nil {
		return err
	}

	var pending <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			return nil
		case _, ok := <-ch:
			if !ok {
				return nil
			}
			if pending == nil {
				pending = time.After(redrawDelay)
			}
		case <-pending:
			pending = nil
			if err := v.draw(); err != nil {
				return err
			}
		}
	}
}

func (v *View) draw() error {
	frame := v.Render(v.page.Snapshot())
	if v.tty {
		frame = clearScreen + frame
	}
	if _, err := io.WriteString(v.out, frame+"\n"); err != nil {
		v.logger.Error("failed to draw frame", "error", err)
		return fmt.Errorf("draw frame: %w", err)
	}
	return nil
}

// Render returns snap as a single frame of text.
func (v *View) Render(snap page.Snapshot) string {
	sections := []string{v.renderStats(snap.Stats), v.renderLogs(snap.Logs)}
	if agents := v.renderAgents(snap.Agents); agents != "" {
		sections = append(sections, agents)
	}
	if snap.Notice != nil {
		sections = append(sections, v.renderNotice(*snap.Notice))
	}
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (v *View) renderStats(stats []page.StatValue) string {
	if len(stats) == 0 {
		return v.styles.muted.Render("no stats configured")
	}

	boxes := make([]string, 0, len(stats))
	for _, s := range stats {
		value := formatStat(s.Value)
		if value == "" {
			value = "-"
		}
		boxes = append(boxes, v.styles.statBox.Render(
			lipgloss.JoinVertical(lipgloss.Left,
				v.styles.label.Render(s.Label),
				v.styles.value.Render(value),
			),
		))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, boxes...)
}

func (v *View) renderLogs(logs []string) string {
	title := v.styles.title.Render(fmt.Sprintf("Logs (%d)", len(logs)))

	tail := logs
	if len(tail) > v.maxLogLines {
		tail = tail[len(tail)-v.maxLogLines:]
	}

	lines := make([]string, 0, len(tail))
	inner := max(v.width-4, 10)
	for _, l := range tail {
		lines = append(lines, v.logStyle(l).Render(truncate(l, inner)))
	}
	if len(lines) == 0 {
		lines = append(lines, v.styles.muted.Render("no log lines"))
	}

	return v.styles.panel.Width(inner).Render(
		lipgloss.JoinVertical(lipgloss.Left, append([]string{title}, lines...)...),
	)
}

func (v *View) renderAgents(agents []page.AgentState) string {
	if len(agents) == 0 {
		return ""
	}

	inner := max(v.width-4, 10)
	rows := []string{v.styles.title.Render("Agents")}
	for _, a := range agents {
		resp := a.Response
		if resp == "" {
			resp = v.styles.muted.Render("no test response")
		} else {
			resp = truncate(strings.ReplaceAll(resp, "\n", " "), inner-len(a.Name)-3)
		}
		rows = append(rows, v.styles.label.Render(a.Name)+" : "+resp)
	}
	return v.styles.panel.Width(inner).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func (v *View) renderNotice(n page.Notice) string {
	style := v.styles.info
	if n.Level == "error" {
		style = v.styles.error
	}
	text := n.Text
	if n.AgentID != "" {
		text = n.AgentID + ": " + text
	}
	return style.Render(text) + " " + v.styles.muted.Render(humanize.RelTime(n.At, v.now(), "ago", "from now"))
}

func (v *View) logStyle(line string) lipgloss.Style {
	switch {
	case strings.Contains(line, "[ERROR]"):
		return v.styles.error
	case strings.Contains(line, "[WARN"):
		return v.styles.warn
	default:
		return v.styles.plain
	}
}

// formatStat groups the digits of integer values; any other value is shown
// as received.
func formatStat(value string) string {
	if n, err := strconv.ParseInt(value, 10, 64); err == nil {
		return humanize.Comma(n)
	}
	return value
}

// truncate shortens s to at most width cells, marking the cut with an
// ellipsis.
func truncate(s string, width int) string {
	if width <= 1 || lipgloss.Width(s) <= width {
		return s
	}
	runes := []rune(s)
	for len(runes) > 0 && lipgloss.Width(string(runes)) > width-1 {
		runes = runes[:len(runes)-1]
	}
	return string(runes) + "…"
}
