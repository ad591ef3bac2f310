package server

import (
	"context"
	"encoding/json"
	"fmt"
	"html"
	"io"
	"io/fs"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/microcosm-cc/bluemonday"

	"github.com/jpalmerr/agentboard"
	"github.com/jpalmerr/agentboard/internal/page"
)

const (
	// sseWriteTimeout is the maximum time allowed for a single SSE write operation.
	// This prevents goroutine leaks when clients are slow or disconnected.
	// Must be <= shutdown timeout to ensure clean shutdown.
	sseWriteTimeout = 5 * time.Second

	// shutdownTimeout bounds graceful shutdown of in-flight requests.
	shutdownTimeout = 5 * time.Second

	// maxActionBodySize bounds action request bodies.
	maxActionBodySize = 64 << 10

	// defaultTitle is used when no custom title is configured.
	defaultTitle = "Agent Admin"

	// titlePlaceholder is the marker in HTML that gets replaced with the actual title.
	titlePlaceholder = "{{.Title}}"
)

// Actions is the action client the server forwards form submissions to.
// Both methods read the values the server has just written into the page.
type Actions interface {
	TestAgent(ctx context.Context, agentID, message string) error
	SaveAgentConfig(ctx context.Context, agentID string, cfg agentboard.AgentConfig) error
}

// Server handles HTTP requests for the browser dashboard.
//
// Server provides five endpoints:
//   - GET /: Serves the embedded dashboard HTML
//   - GET /api/page: Returns the current page snapshot as JSON
//   - GET /api/sse: Server-Sent Events stream of page updates
//   - POST /api/actions/test-agent: Tests an agent with a message
//   - POST /api/actions/agent-config: Saves an agent's config form
//
// Every text leaving the server is sanitised: the browser renders log
// lines, stat values and responses as HTML.
//
// The server is designed for graceful shutdown via context cancellation.
type Server struct {
	page       *page.Page
	actions    Actions
	port       int
	httpServer *http.Server
	assets     fs.FS
	title      string
	logger     *slog.Logger
	policy     *bluemonday.Policy
}

// NewServer creates a new HTTP [Server].
//
// Parameters:
//   - pg: Page model to serve and stream
//   - actions: Action client for form submissions (may be nil to disable actions)
//   - port: TCP port to listen on
//   - assets: Embedded filesystem containing dashboard assets (may be nil)
//   - title: Dashboard title (defaults to "Agent Admin" if empty)
//   - logger: Logger for server events
//
// The server is not started until [Server.Start] is called.
func NewServer(pg *page.Page, actions Actions, port int, assets fs.FS, title string, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{
		page:    pg,
		actions: actions,
		port:    port,
		assets:  assets,
		title:   title,
		logger:  logger,
		policy:  bluemonday.StrictPolicy(),
	}
}

// Handler returns the server's request router.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	// API routes
	mux.HandleFunc("/api/page", s.handlePage)
	mux.HandleFunc("/api/sse", s.handleSSE)
	mux.HandleFunc("/api/actions/test-agent", s.handleTestAgent)
	mux.HandleFunc("/api/actions/agent-config", s.handleAgentConfig)

	// serve dashboard assets
	if s.assets != nil {
		mux.HandleFunc("/", s.handleDashboard)
	}
	return mux
}

// Start begins serving HTTP requests in a background goroutine.
//
// Start is non-blocking and returns immediately after confirming the server
// is listening. The server will continue running until the context is
// cancelled, at which point it initiates a graceful shutdown with a 5-second
// timeout.
//
// Returns an error if the server fails to bind to the configured port.
func (s *Server) Start(ctx context.Context) error {
	// create listener first to verify port availability synchronously
	addr := fmt.Sprintf(":%d", s.port)
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to bind to port %d: %w", s.port, err)
	}

	s.httpServer = &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		// BaseContext derives all request contexts from the server context.
		// When ctx is cancelled, all request contexts are also cancelled,
		// enabling graceful shutdown of long-running handlers like SSE.
		BaseContext: func(_ net.Listener) context.Context {
			return ctx
		},
	}

	go func() {
		if err := s.httpServer.Serve(ln); err != nil && err != http.ErrServerClosed {
			s.logger.Error("http server error", "error", err)
		}
	}()

	// shutdown on context cancellation
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
			s.logger.Error("http server shutdown error", "error", err)
		}
	}()

	s.logger.Info("dashboard server listening", "addr", ln.Addr().String())
	return nil
}

// handleDashboard serves the main dashboard page.
func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}

	if s.assets == nil {
		http.Error(w, "Dashboard not found", http.StatusInternalServerError)
		return
	}

	content, err := fs.ReadFile(s.assets, "assets/index.html")
	if err != nil {
		http.Error(w, "Dashboard not found", http.StatusInternalServerError)
		return
	}

	// apply title substitution with HTML escaping to prevent XSS
	title := s.title
	if title == "" {
		title = defaultTitle
	}
	safeTitle := html.EscapeString(title)
	rendered := strings.ReplaceAll(string(content), titlePlaceholder, safeTitle)

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if _, err = w.Write([]byte(rendered)); err != nil {
		s.logger.Error("failed to write dashboard response", "error", err)
	}
}

// handlePage returns the current page snapshot as JSON.
func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	snap := s.sanitizeSnapshot(s.page.Snapshot())

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-cache")

	if err := json.NewEncoder(w).Encode(snap); err != nil {
		s.logger.Error("failed to encode page response", "error", err)
	}
}

// handleSSE streams page updates via Server-Sent Events.
//
// The first event is named "snapshot" and carries the whole page; every
// following event is an unnamed message carrying one [page.Update].
//
// The handler uses write deadlines to prevent goroutine leaks when clients are
// slow or disconnected. Without deadlines, a blocked Fprintf call would prevent
// the handler from detecting context cancellation or channel closure.
func (s *Server) handleSSE(w http.ResponseWriter, r *http.Request) {
	if _, ok := w.(http.Flusher); !ok {
		http.Error(w, "SSE not supported", http.StatusInternalServerError)
		return
	}

	rc := http.NewResponseController(w)

	// track if write deadlines are supported (may not be for some ResponseWriter impls)
	deadlinesSupported := true

	writeAndFlush := func(event string, data []byte) error {
		if deadlinesSupported {
			if err := rc.SetWriteDeadline(time.Now().Add(sseWriteTimeout)); err != nil {
				s.logger.Warn("sse write deadlines not supported", "error", err)
				deadlinesSupported = false
			}
		}

		if event != "" {
			if _, err := fmt.Fprintf(w, "event: %s\n", event); err != nil {
				return err
			}
		}
		if _, err := fmt.Fprintf(w, "data: %s\n\n", data); err != nil {
			return err
		}

		// ResponseController.Flush respects the write deadline
		return rc.Flush()
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("Access-Control-Allow-Origin", "*")

	// subscribe before the snapshot so no update falls between the two
	ch := s.page.Subscribe()
	defer s.page.Unsubscribe(ch)

	data, err := json.Marshal(s.sanitizeSnapshot(s.page.Snapshot()))
	if err != nil {
		s.logger.Error("failed to encode page snapshot", "error", err)
		return
	}
	if err := writeAndFlush("snapshot", data); err != nil {
		return
	}

	for {
		select {
		case u, ok := <-ch:
			if !ok {
				return
			}
			data, err := json.Marshal(s.sanitizeUpdate(u))
			if err != nil {
				continue
			}
			if err := writeAndFlush("", data); err != nil {
				return
			}

		case <-r.Context().Done():
			// request context is derived from server context via BaseContext,
			// so this fires on both client disconnect AND server shutdown
			return
		}
	}
}

// testAgentRequest is the body of POST /api/actions/test-agent.
type testAgentRequest struct {
	AgentID string `json:"agent_id"`
	Message string `json:"message"`
}

// agentConfigRequest is the body of POST /api/actions/agent-config.
type agentConfigRequest struct {
	AgentID string            `json:"agent_id"`
	Config  map[string]string `json:"config"`
}

// actionResult reports the outcome of an action. The user-facing outcome
// itself reaches the browser as page updates over SSE.
type actionResult struct {
	OK    bool   `json:"ok"`
	Error string `json:"error,omitempty"`
}

// handleTestAgent mirrors the submitted message into the agent's test input
// and sends it. The request's own message is sent, so concurrent
// submissions for one agent never swap values.
func (s *Server) handleTestAgent(w http.ResponseWriter, r *http.Request) {
	var req testAgentRequest
	if !s.decodeAction(w, r, &req) {
		return
	}
	if !s.page.HasAgent(req.AgentID) {
		http.Error(w, "Unknown agent", http.StatusNotFound)
		return
	}

	s.page.TestInput(req.AgentID).SetValue(req.Message)

	// the admin API round trip outlives a closed browser tab
	err := s.actions.TestAgent(context.WithoutCancel(r.Context()), req.AgentID, req.Message)
	s.writeActionResult(w, "test-agent", req.AgentID, err)
}

// handleAgentConfig mirrors the submitted values into the agent's config
// form and saves the declared fields of this request.
func (s *Server) handleAgentConfig(w http.ResponseWriter, r *http.Request) {
	var req agentConfigRequest
	if !s.decodeAction(w, r, &req) {
		return
	}
	if !s.page.HasAgent(req.AgentID) {
		http.Error(w, "Unknown agent", http.StatusNotFound)
		return
	}

	cfg := s.page.ConfigForm(req.AgentID).SetValues(req.Config)

	err := s.actions.SaveAgentConfig(context.WithoutCancel(r.Context()), req.AgentID, agentboard.AgentConfig(cfg))
	s.writeActionResult(w, "save-config", req.AgentID, err)
}

// decodeAction validates method and body of an action request. It writes
// the error response and returns false when the request is unusable.
func (s *Server) decodeAction(w http.ResponseWriter, r *http.Request, dst any) bool {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return false
	}
	if s.actions == nil {
		http.Error(w, "Actions not available", http.StatusServiceUnavailable)
		return false
	}

	dec := json.NewDecoder(io.LimitReader(r.Body, maxActionBodySize))
	if err := dec.Decode(dst); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return false
	}
	return true
}

// writeActionResult answers an action request. Failed actions still
// return 200: the failure is a normal outcome already shown on the page.
func (s *Server) writeActionResult(w http.ResponseWriter, action, agentID string, err error) {
	res := actionResult{OK: err == nil}
	if err != nil {
		res.Error = err.Error()
		s.logger.Debug("action failed", "action", action, "agent_id", agentID, "error", err)
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-cache")
	if encErr := json.NewEncoder(w).Encode(res); encErr != nil {
		s.logger.Error("failed to encode action response", "error", encErr)
	}
}
