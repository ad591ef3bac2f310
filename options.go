package agentboard

import (
	"errors"
	"log/slog"
	"net/http"
	"time"
)

// dashConfig holds mutable state during Dashboard construction.
type dashConfig struct {
	baseURL         string
	logInterval     time.Duration
	statsInterval   time.Duration
	logView         LogView
	statViews       map[string]TextView
	agents          map[string]AgentBinding
	headers         map[string]string
	requestTimeout  time.Duration
	httpClient      *http.Client
	logger          *slog.Logger
	noticeCallbacks []func(Notice)
}

// Option is a function that configures a [Dashboard] during construction.
//
// Option implements the functional options pattern, allowing optional
// configuration to be passed to [New] in a type-safe, extensible way.
// Options return an error if validation fails.
type Option func(*dashConfig) error

// WithBaseURL sets the admin API base URL. Required.
//
// Example:
//
//	d, err := agentboard.New(
//	    agentboard.WithBaseURL("https://admin.example.com"),
//	)
func WithBaseURL(rawURL string) Option {
	return func(cfg *dashConfig) error {
		if rawURL == "" {
			return errors.New("base URL cannot be empty")
		}
		cfg.baseURL = rawURL
		return nil
	}
}

// WithLogInterval sets how often the log region is refreshed.
// Defaults to 5 seconds.
//
// Returns an error if the duration is zero or negative.
func WithLogInterval(d time.Duration) Option {
	return func(cfg *dashConfig) error {
		if d <= 0 {
			return errors.New("log interval must be positive")
		}
		cfg.logInterval = d
		return nil
	}
}

// WithStatsInterval sets how often the stat elements are refreshed.
// Defaults to 30 seconds.
//
// Returns an error if the duration is zero or negative.
func WithStatsInterval(d time.Duration) Option {
	return func(cfg *dashConfig) error {
		if d <= 0 {
			return errors.New("stats interval must be positive")
		}
		cfg.statsInterval = d
		return nil
	}
}

// WithLogView binds the log display region.
//
// Returns an error if v is nil.
func WithLogView(v LogView) Option {
	return func(cfg *dashConfig) error {
		if v == nil {
			return errors.New("log view cannot be nil")
		}
		cfg.logView = v
		return nil
	}
}

// WithStatView binds the display element for a stat key. Binding the same
// key twice replaces the earlier element.
//
// Example:
//
//	d, err := agentboard.New(
//	    agentboard.WithBaseURL(url),
//	    agentboard.WithStatView("total_conversations", conversationsLabel),
//	)
//
// Returns an error if key is empty or v is nil.
func WithStatView(key string, v TextView) Option {
	return func(cfg *dashConfig) error {
		if key == "" {
			return errors.New("stat key cannot be empty")
		}
		if v == nil {
			return errors.New("stat view cannot be nil")
		}
		cfg.statViews[key] = v
		return nil
	}
}

// WithAgent binds the display elements of one agent panel.
//
// Returns an error if id is empty.
func WithAgent(id string, b AgentBinding) Option {
	return func(cfg *dashConfig) error {
		if id == "" {
			return errors.New("agent id cannot be empty")
		}
		cfg.agents[id] = b
		return nil
	}
}

// WithHeaders adds HTTP headers sent with every admin API request, for
// example a session cookie or bearer token issued by the backend.
//
// Accepts variadic key-value pairs. The number of arguments must be even.
func WithHeaders(keyValues ...string) Option {
	return func(cfg *dashConfig) error {
		if len(keyValues)%2 != 0 {
			return errors.New("WithHeaders requires an even number of arguments (key-value pairs)")
		}
		for i := 0; i < len(keyValues); i += 2 {
			cfg.headers[keyValues[i]] = keyValues[i+1]
		}
		return nil
	}
}

// WithRequestTimeout bounds every admin API request. By default no timeout
// is applied and a hung request never updates its target.
//
// Returns an error if the duration is zero or negative.
func WithRequestTimeout(d time.Duration) Option {
	return func(cfg *dashConfig) error {
		if d <= 0 {
			return errors.New("request timeout must be positive")
		}
		cfg.requestTimeout = d
		return nil
	}
}

// WithHTTPClient replaces the HTTP client used for admin API requests.
//
// Returns an error if c is nil.
func WithHTTPClient(c *http.Client) Option {
	return func(cfg *dashConfig) error {
		if c == nil {
			return errors.New("http client cannot be nil")
		}
		cfg.httpClient = c
		return nil
	}
}

// WithLogger sets a custom [slog.Logger] for the Dashboard.
// If not specified, [slog.Default] is used.
//
// Returns an error if the logger is nil.
func WithLogger(logger *slog.Logger) Option {
	return func(cfg *dashConfig) error {
		if logger == nil {
			return errors.New("logger cannot be nil")
		}
		cfg.logger = logger
		return nil
	}
}

// WithNoticeCallback registers a function called with every [Notice].
//
// Multiple callbacks run in registration order, synchronously on the
// goroutine that performed the action. Callbacks must be non-blocking.
// Panics within callbacks are recovered and logged.
//
// Example:
//
//	d, err := agentboard.New(
//	    agentboard.WithBaseURL(url),
//	    agentboard.WithNoticeCallback(func(n agentboard.Notice) {
//	        fmt.Println(n.Level, n.Text)
//	    }),
//	)
//
// Nil callbacks are silently ignored.
func WithNoticeCallback(cb func(Notice)) Option {
	return func(cfg *dashConfig) error {
		if cb == nil {
			return nil // no-op for nil callback (safe to call)
		}
		cfg.noticeCallbacks = append(cfg.noticeCallbacks, cb)
		return nil
	}
}
