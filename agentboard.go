package agentboard

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"sync"
	"time"

	"github.com/jpalmerr/agentboard/internal/apiclient"
	"github.com/jpalmerr/agentboard/internal/scheduler"
)

const (
	defaultLogInterval   = 5 * time.Second
	defaultStatsInterval = 30 * time.Second

	// noticeBuffer is the capacity of the Notices channel. Notices beyond
	// it are dropped for the channel but still reach callbacks.
	noticeBuffer = 32
)

// Dashboard is the page controller: it owns the [Poller], the
// [ActionClient] and the timers that drive polling.
//
// Dashboard is created with [New] and functional options. Polling runs
// while the dashboard is mounted:
//
//	d, err := agentboard.New(
//	    agentboard.WithBaseURL("http://localhost:5000"),
//	    agentboard.WithLogView(logs),
//	    agentboard.WithStatView("total_conversations", conversations),
//	)
//	if err != nil {
//	    slog.Error("failed to create dashboard", "error", err)
//	    os.Exit(1)
//	}
//
//	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
//	defer cancel()
//
//	d.Start(ctx) // blocks until context cancelled
//
// Front-ends that switch between views call [Dashboard.Mount] and
// [Dashboard.Unmount] directly instead.
type Dashboard struct {
	logInterval   time.Duration
	statsInterval time.Duration
	client        *apiclient.Client
	poller        *Poller
	actions       *ActionClient
	logger        *slog.Logger

	notices         chan Notice
	noticeCallbacks []func(Notice)

	mu       sync.Mutex
	sched    *scheduler.Scheduler
	draining *scheduler.Scheduler
}

// New creates a new [Dashboard] with the given options.
//
// [WithBaseURL] is required and must be an http or https URL. Other options
// have defaults:
//   - Log interval: 5 seconds
//   - Stats interval: 30 seconds
//   - Request timeout: none
//
// Returns an error if the base URL is missing or invalid or if any option
// is invalid.
func New(opts ...Option) (*Dashboard, error) {
	cfg := &dashConfig{
		logInterval:   defaultLogInterval,
		statsInterval: defaultStatsInterval,
		statViews:     make(map[string]TextView),
		agents:        make(map[string]AgentBinding),
		headers:       make(map[string]string),
	}

	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			return nil, err
		}
	}

	if cfg.baseURL == "" {
		return nil, errors.New("base URL is required")
	}
	parsed, err := url.Parse(cfg.baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid base URL: %w", err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return nil, fmt.Errorf("base URL scheme must be http or https, got %q", parsed.Scheme)
	}
	if parsed.Host == "" {
		return nil, errors.New("base URL must include a host")
	}

	// default to slog.Default() if no logger provided
	logger := cfg.logger
	if logger == nil {
		logger = slog.Default()
	}

	client := apiclient.NewClient(cfg.baseURL, cfg.headers, cfg.requestTimeout, cfg.httpClient)

	d := &Dashboard{
		logInterval:     cfg.logInterval,
		statsInterval:   cfg.statsInterval,
		client:          client,
		logger:          logger,
		notices:         make(chan Notice, noticeBuffer),
		noticeCallbacks: cfg.noticeCallbacks,
	}

	d.poller = &Poller{
		client:    client,
		logView:   cfg.logView,
		statViews: cfg.statViews,
		logger:    logger,
	}
	d.actions = &ActionClient{
		client: client,
		agents: cfg.agents,
		notify: d.dispatch,
		logger: logger,
		now:    time.Now,
	}

	return d, nil
}

// Poller returns the dashboard's [Poller].
func (d *Dashboard) Poller() *Poller {
	return d.poller
}

// Actions returns the dashboard's [ActionClient].
func (d *Dashboard) Actions() *ActionClient {
	return d.actions
}

// Notices returns a receive-only channel of every [Notice] produced by the
// action client. The channel is buffered and never closed; notices are
// dropped when the buffer is full.
func (d *Dashboard) Notices() <-chan Notice {
	return d.notices
}

// LogInterval returns the configured log refresh interval.
func (d *Dashboard) LogInterval() time.Duration {
	return d.logInterval
}

// StatsInterval returns the configured stats refresh interval.
func (d *Dashboard) StatsInterval() time.Duration {
	return d.statsInterval
}

// BaseURL returns the admin API base URL.
func (d *Dashboard) BaseURL() string {
	return d.client.BaseURL()
}

// Mount starts polling: logs and stats are refreshed immediately, then on
// their intervals. Only refreshes with something bound are scheduled.
//
// Mount is non-blocking and a no-op while already mounted. A dashboard may
// be mounted again after [Dashboard.Unmount].
func (d *Dashboard) Mount(ctx context.Context) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.sched != nil {
		return
	}

	var tasks []scheduler.Task
	if d.poller.logView != nil {
		tasks = append(tasks, scheduler.Task{
			Name:     "logs",
			Interval: d.logInterval,
			Run:      func(ctx context.Context) { _ = d.poller.RefreshLogs(ctx) },
		})
	}
	if len(d.poller.statViews) > 0 {
		tasks = append(tasks, scheduler.Task{
			Name:     "stats",
			Interval: d.statsInterval,
			Run:      func(ctx context.Context) { _ = d.poller.RefreshStats(ctx) },
		})
	}

	d.sched = scheduler.New(tasks, d.logger)
	d.sched.Start(ctx)

	d.logger.Info("dashboard mounted",
		"base_url", d.client.BaseURL(),
		"log_interval", d.logInterval.String(),
		"stats_interval", d.statsInterval.String(),
		"tasks", len(tasks),
	)
}

// Unmount stops polling. It returns once no new refresh can start;
// refreshes already in flight are neither aborted nor waited for, and still
// update their views when they complete. Use [Dashboard.Wait] to wait for
// them. Safe to call when not mounted.
func (d *Dashboard) Unmount() {
	d.mu.Lock()
	sched := d.sched
	d.sched = nil
	d.mu.Unlock()

	if sched == nil {
		return
	}
	sched.Stop()

	d.mu.Lock()
	d.draining = sched
	d.mu.Unlock()

	d.client.Close()
	d.logger.Info("dashboard unmounted")
}

// Wait blocks until the refreshes started by the most recent mount have
// returned, or until ctx is done. It returns ctx.Err() if ctx ends first
// and nil immediately if the dashboard was never unmounted.
func (d *Dashboard) Wait(ctx context.Context) error {
	d.mu.Lock()
	sched := d.draining
	d.mu.Unlock()

	if sched == nil {
		return nil
	}
	return sched.Wait(ctx)
}

// Start mounts the dashboard and blocks until ctx is cancelled, then
// unmounts it. Refreshes still in flight at that point are not waited for;
// see [Dashboard.Wait].
//
// Returns nil on graceful shutdown.
func (d *Dashboard) Start(ctx context.Context) error {
	// check if context already cancelled
	if ctx.Err() != nil {
		return nil
	}

	d.Mount(ctx)
	<-ctx.Done()
	d.Unmount()
	return nil
}

// dispatch delivers n to the channel and to every callback.
func (d *Dashboard) dispatch(n Notice) {
	select {
	case d.notices <- n:
	default:
		d.logger.Debug("notice channel full, dropping notice", "action", n.Action, "agent_id", n.AgentID)
	}

	for _, cb := range d.noticeCallbacks {
		invokeCallbackSafe(cb, n, d.logger)
	}
}

// invokeCallbackSafe calls a notice callback with panic recovery.
// Panics are logged but do not propagate.
func invokeCallbackSafe(cb func(Notice), n Notice, logger *slog.Logger) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("notice callback panicked",
				"panic", r,
				"action", n.Action,
				"agent_id", n.AgentID,
			)
		}
	}()
	cb(n)
}
