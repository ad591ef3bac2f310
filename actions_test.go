package agentboard

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"reflect"
	"sync"
	"sync/atomic"
	"testing"
)

// recordedNotices collects notices delivered to a callback.
type recordedNotices struct {
	mu   sync.Mutex
	list []Notice
}

func (r *recordedNotices) add(n Notice) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.list = append(r.list, n)
}

func (r *recordedNotices) all() []Notice {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Notice(nil), r.list...)
}

// newTestActions builds a dashboard against handler and returns its action
// client plus the notices it produces.
func newTestActions(t *testing.T, handler http.HandlerFunc, opts ...Option) (*ActionClient, *recordedNotices) {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	rec := &recordedNotices{}
	opts = append([]Option{
		WithBaseURL(server.URL),
		WithLogger(testLogger()),
		WithNoticeCallback(rec.add),
	}, opts...)
	d, err := New(opts...)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return d.Actions(), rec
}

func TestTestAgent_EmptyMessage(t *testing.T) {
	var hits atomic.Int32
	response := newFakeText("previous reply")

	actions, rec := newTestActions(t, func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
	}, WithAgent("customer_service", AgentBinding{Response: response}))

	err := actions.TestAgent(context.Background(), "customer_service", "")
	if !errors.Is(err, ErrEmptyMessage) {
		t.Fatalf("TestAgent() error = %v, want ErrEmptyMessage", err)
	}

	if hits.Load() != 0 {
		t.Errorf("requests = %d, want 0", hits.Load())
	}
	if got, writes := response.get(); got != "previous reply" || writes != 0 {
		t.Errorf("response region = %q (%d writes), want untouched", got, writes)
	}

	notices := rec.all()
	if len(notices) != 1 {
		t.Fatalf("notices = %d, want 1", len(notices))
	}
	n := notices[0]
	if n.Level != NoticeError || n.Text != EmptyMessageText || n.Action != ActionTestAgent {
		t.Errorf("notice = %+v, want error %q", n, EmptyMessageText)
	}
	if n.AgentID != "customer_service" {
		t.Errorf("notice AgentID = %q, want customer_service", n.AgentID)
	}
	if n.At.IsZero() {
		t.Error("notice At should be set")
	}
}

func TestTestAgent_ShowsResponseVerbatim(t *testing.T) {
	const reply = "Thank you for your message. I'm here to help!\n  <b>not markup</b>"

	var hits atomic.Int32
	response := newFakeText("")

	actions, rec := newTestActions(t, func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		if r.Method != http.MethodPost {
			t.Errorf("method = %s, want POST", r.Method)
		}
		if r.URL.Path != TestAgentPath {
			t.Errorf("path = %s, want %s", r.URL.Path, TestAgentPath)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("Content-Type = %q, want application/json", ct)
		}

		var body map[string]string
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("decode body: %v", err)
		}
		want := map[string]string{"agent_id": "customer_service", "message": "Where is my order?"}
		if !reflect.DeepEqual(body, want) {
			t.Errorf("body = %v, want %v", body, want)
		}

		_ = json.NewEncoder(w).Encode(map[string]string{"response": reply})
	}, WithAgent("customer_service", AgentBinding{Response: response}))

	if err := actions.TestAgent(context.Background(), "customer_service", "Where is my order?"); err != nil {
		t.Fatalf("TestAgent() error = %v", err)
	}

	if hits.Load() != 1 {
		t.Errorf("requests = %d, want 1", hits.Load())
	}
	if got, writes := response.get(); got != reply || writes != 1 {
		t.Errorf("response region = %q (%d writes), want %q", got, writes, reply)
	}
	if len(rec.all()) != 0 {
		t.Errorf("notices = %v, want none on success", rec.all())
	}
}

func TestTestAgent_FailureShowsFixedText(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{"server error", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusInternalServerError) }},
		{"non-JSON", func(w http.ResponseWriter, r *http.Request) { _, _ = w.Write([]byte("oops")) }},
		{"missing response field", func(w http.ResponseWriter, r *http.Request) { _, _ = w.Write([]byte(`{"reply":"hi"}`)) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			response := newFakeText("earlier reply")
			actions, rec := newTestActions(t, tt.handler,
				WithAgent("technical_support", AgentBinding{Response: response}))

			err := actions.TestAgent(context.Background(), "technical_support", "hello")
			if !errors.Is(err, ErrTransport) {
				t.Fatalf("TestAgent() error = %v, want ErrTransport", err)
			}
			if got, _ := response.get(); got != ErrorTestingAgentText {
				t.Errorf("response region = %q, want %q", got, ErrorTestingAgentText)
			}
			if len(rec.all()) != 0 {
				t.Errorf("notices = %v, want none", rec.all())
			}
		})
	}
}

func TestTestAgent_EmptyResponseStringIsShown(t *testing.T) {
	response := newFakeText("earlier reply")
	actions, _ := newTestActions(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"response":""}`))
	}, WithAgent("a", AgentBinding{Response: response}))

	if err := actions.TestAgent(context.Background(), "a", "hi"); err != nil {
		t.Fatalf("TestAgent() error = %v", err)
	}
	if got, writes := response.get(); got != "" || writes != 1 {
		t.Errorf("response region = %q (%d writes), want empty", got, writes)
	}
}

func TestTestAgent_UnknownAgent(t *testing.T) {
	var hits atomic.Int32
	actions, _ := newTestActions(t, func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
	}, WithAgent("form_only", AgentBinding{Form: fakeForm{}}))

	for _, id := range []string{"missing", "form_only"} {
		err := actions.TestAgent(context.Background(), id, "hi")
		if !errors.Is(err, ErrUnknownAgent) {
			t.Errorf("TestAgent(%q) error = %v, want ErrUnknownAgent", id, err)
		}
	}
	if hits.Load() != 0 {
		t.Errorf("requests = %d, want 0", hits.Load())
	}
}

func TestSaveAgentConfig(t *testing.T) {
	tests := []struct {
		name      string
		body      string
		status    int
		wantLevel NoticeLevel
		wantText  string
		wantErr   error
	}{
		{"accepted", `{"success": true}`, http.StatusOK, NoticeInfo, ConfigSavedText, nil},
		{"rejected", `{"success": false}`, http.StatusOK, NoticeError, ConfigSaveFailedText, ErrSaveRejected},
		{"missing success field", `{}`, http.StatusOK, NoticeError, ConfigSaveFailedText, ErrSaveRejected},
		{"server error", `{"success": true}`, http.StatusInternalServerError, NoticeError, ConfigSaveFailedText, ErrTransport},
		{"non-JSON", `saved`, http.StatusOK, NoticeError, ConfigSaveFailedText, ErrTransport},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var hits atomic.Int32
			actions, rec := newTestActions(t, func(w http.ResponseWriter, r *http.Request) {
				hits.Add(1)
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			})

			err := actions.SaveAgentConfig(context.Background(), "customer_service", AgentConfig{"tone": "friendly"})
			if tt.wantErr == nil && err != nil {
				t.Fatalf("SaveAgentConfig() error = %v", err)
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Fatalf("SaveAgentConfig() error = %v, want %v", err, tt.wantErr)
			}

			if hits.Load() != 1 {
				t.Errorf("requests = %d, want 1", hits.Load())
			}

			notices := rec.all()
			if len(notices) != 1 {
				t.Fatalf("notices = %d, want exactly 1", len(notices))
			}
			n := notices[0]
			if n.Level != tt.wantLevel || n.Text != tt.wantText {
				t.Errorf("notice = %s %q, want %s %q", n.Level, n.Text, tt.wantLevel, tt.wantText)
			}
			if n.Action != ActionSaveConfig {
				t.Errorf("notice Action = %q, want %q", n.Action, ActionSaveConfig)
			}
			if (n.Err == nil) != (tt.wantErr == nil) {
				t.Errorf("notice Err = %v, want error: %v", n.Err, tt.wantErr != nil)
			}
		})
	}
}

func TestSaveAgentConfig_RequestBody(t *testing.T) {
	tests := []struct {
		name string
		cfg  AgentConfig
		want map[string]any
	}{
		{
			name: "fields",
			cfg:  AgentConfig{"tone": "friendly", "max_tokens": "256"},
			want: map[string]any{"agent_id": "customer_service", "config": map[string]any{"tone": "friendly", "max_tokens": "256"}},
		},
		{
			name: "empty form",
			cfg:  AgentConfig{},
			want: map[string]any{"agent_id": "customer_service", "config": map[string]any{}},
		},
		{
			name: "nil config",
			cfg:  nil,
			want: map[string]any{"agent_id": "customer_service", "config": map[string]any{}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got map[string]any
			actions, _ := newTestActions(t, func(w http.ResponseWriter, r *http.Request) {
				if r.URL.Path != AgentConfigPath {
					t.Errorf("path = %s, want %s", r.URL.Path, AgentConfigPath)
				}
				if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
					t.Errorf("decode body: %v", err)
				}
				_, _ = w.Write([]byte(`{"success": true}`))
			})

			if err := actions.SaveAgentConfig(context.Background(), "customer_service", tt.cfg); err != nil {
				t.Fatalf("SaveAgentConfig() error = %v", err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("body = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSubmitTestInput(t *testing.T) {
	var gotMessage string
	response := newFakeText("")
	actions, _ := newTestActions(t, func(w http.ResponseWriter, r *http.Request) {
		var body testAgentRequest
		_ = json.NewDecoder(r.Body).Decode(&body)
		gotMessage = body.Message
		_, _ = w.Write([]byte(`{"response":"ok"}`))
	}, WithAgent("a", AgentBinding{Input: fakeInput("ping"), Response: response}))

	if err := actions.SubmitTestInput(context.Background(), "a"); err != nil {
		t.Fatalf("SubmitTestInput() error = %v", err)
	}
	if gotMessage != "ping" {
		t.Errorf("message = %q, want ping", gotMessage)
	}
	if got, _ := response.get(); got != "ok" {
		t.Errorf("response region = %q, want ok", got)
	}

	if err := actions.SubmitTestInput(context.Background(), "unbound"); !errors.Is(err, ErrUnknownAgent) {
		t.Errorf("SubmitTestInput(unbound) error = %v, want ErrUnknownAgent", err)
	}
}

func TestSubmitConfigForm(t *testing.T) {
	var got agentConfigRequest
	actions, rec := newTestActions(t, func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewDecoder(r.Body).Decode(&got)
		_, _ = w.Write([]byte(`{"success": true}`))
	}, WithAgent("a", AgentBinding{Form: fakeForm{"tone": "formal", "language": "en"}}))

	if err := actions.SubmitConfigForm(context.Background(), "a"); err != nil {
		t.Fatalf("SubmitConfigForm() error = %v", err)
	}
	want := AgentConfig{"tone": "formal", "language": "en"}
	if got.AgentID != "a" || !reflect.DeepEqual(got.Config, want) {
		t.Errorf("request = %+v, want agent a with %v", got, want)
	}
	if n := rec.all(); len(n) != 1 || n[0].Level != NoticeInfo {
		t.Errorf("notices = %v, want one info notice", n)
	}

	if err := actions.SubmitConfigForm(context.Background(), "unbound"); !errors.Is(err, ErrUnknownAgent) {
		t.Errorf("SubmitConfigForm(unbound) error = %v, want ErrUnknownAgent", err)
	}
}
