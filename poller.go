package agentboard

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/jpalmerr/agentboard/internal/apiclient"
)

// Poller refreshes the log region and stat elements from the admin API.
//
// Poller is created by [New] and obtained with [Dashboard.Poller]. Refresh
// failures are logged and returned; they never reach the user and never
// touch the display, which keeps its previous content.
//
// Refreshes may run concurrently. Display writes are serialised so the
// response that arrives last wins.
type Poller struct {
	client    *apiclient.Client
	logView   LogView
	statViews map[string]TextView
	logger    *slog.Logger

	mu sync.Mutex
}

// RefreshLogs fetches the current log snapshot and, on success, replaces
// the log region content and scrolls it to its end.
//
// A response without a logs array counts as a decode failure. When no log
// view is bound the request is still made and its result discarded.
func (p *Poller) RefreshLogs(ctx context.Context) error {
	start := time.Now()

	var resp logsResponse
	err := p.client.Get(ctx, LogsPath, &resp)
	if err == nil && resp.Logs == nil {
		err = fmt.Errorf("%w: response has no logs array", ErrTransport)
	}
	if err != nil {
		p.logger.Warn("failed to refresh logs", "path", LogsPath, "error", err)
		return fmt.Errorf("refresh logs: %w", err)
	}

	snapshot := LogSnapshot(*resp.Logs)

	if p.logView != nil {
		p.mu.Lock()
		p.logView.SetLines(snapshot)
		p.logView.ScrollToEnd()
		p.mu.Unlock()
	}

	p.logger.Debug("logs refreshed",
		"lines", len(snapshot),
		"latency_ms", time.Since(start).Milliseconds(),
	)
	return nil
}

// RefreshStats fetches the current stats snapshot and, on success, updates
// every element bound to a key present in the response. Elements whose key
// is absent, and response keys with no bound element, are left alone.
func (p *Poller) RefreshStats(ctx context.Context) error {
	start := time.Now()

	var raw map[string]any
	if err := p.client.Get(ctx, StatsPath, &raw); err != nil {
		p.logger.Warn("failed to refresh stats", "path", StatsPath, "error", err)
		return fmt.Errorf("refresh stats: %w", err)
	}

	snapshot := decodeStats(raw)

	// sorted for a deterministic write order
	keys := make([]string, 0, len(snapshot))
	for key := range snapshot {
		if _, bound := p.statViews[key]; bound {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)

	p.mu.Lock()
	for _, key := range keys {
		p.statViews[key].SetText(snapshot[key])
	}
	p.mu.Unlock()

	p.logger.Debug("stats refreshed",
		"updated", len(keys),
		"received", len(raw),
		"latency_ms", time.Since(start).Milliseconds(),
	)
	return nil
}
