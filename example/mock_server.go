package main

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"math/rand"
	"net/http"
	"sync"
	"time"
)

// mockAdminAPI serves the four admin endpoints with a slowly growing log
// and counters.
type mockAdminAPI struct {
	mu            sync.Mutex
	logs          []string
	conversations int
	messages      int
	configs       map[string]map[string]string
}

var mockReplies = map[string]string{
	"customer_service":  "Hello! Thanks for getting in touch. How can I help you today?",
	"technical_support": "I understand you're having a technical problem. I'll help you sort it out. First, could you restart the device?",
}

// StartMockAdminAPI runs a mock admin API on addr.
// Call this in a goroutine before creating the Dashboard.
func StartMockAdminAPI(addr string) {
	api := &mockAdminAPI{
		conversations: 1243,
		messages:      3456,
		configs:       make(map[string]map[string]string),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/api/logs", api.handleLogs)
	mux.HandleFunc("/api/stats", api.handleStats)
	mux.HandleFunc("/api/test-agent", api.handleTestAgent)
	mux.HandleFunc("/api/agent-config", api.handleAgentConfig)

	if err := http.ListenAndServe(addr, mux); err != nil {
		slog.Error("mock server error", "error", err)
	}
}

func (a *mockAdminAPI) handleLogs(w http.ResponseWriter, r *http.Request) {
	a.mu.Lock()
	// one new inbound message per poll
	a.conversations++
	a.messages += 1 + rand.Intn(3)
	a.logs = append(a.logs,
		fmt.Sprintf("[INFO] %s - Message received from +1555%07d", time.Now().Format(time.DateTime), rand.Intn(10_000_000)),
	)
	if len(a.logs) > 50 {
		a.logs = a.logs[len(a.logs)-50:]
	}
	logs := append([]string(nil), a.logs...)
	a.mu.Unlock()

	writeJSON(w, map[string]any{"logs": logs})
}

func (a *mockAdminAPI) handleStats(w http.ResponseWriter, r *http.Request) {
	a.mu.Lock()
	stats := map[string]any{
		"total_conversations": a.conversations,
		"total_messages":      a.messages,
		"avg_response_time":   fmt.Sprintf("%.1fs", 1.5+rand.Float64()*1.5),
		"satisfaction_rate":   "92%",
	}
	a.mu.Unlock()

	writeJSON(w, stats)
}

func (a *mockAdminAPI) handleTestAgent(w http.ResponseWriter, r *http.Request) {
	var req struct {
		AgentID string `json:"agent_id"`
		Message string `json:"message"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}

	reply, ok := mockReplies[req.AgentID]
	if !ok {
		reply = "Sorry, I couldn't process your request."
	}
	writeJSON(w, map[string]string{"response": reply})
}

func (a *mockAdminAPI) handleAgentConfig(w http.ResponseWriter, r *http.Request) {
	var req struct {
		AgentID string            `json:"agent_id"`
		Config  map[string]string `json:"config"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}

	a.mu.Lock()
	a.configs[req.AgentID] = req.Config
	a.mu.Unlock()

	slog.Info("settings saved", "agent_id", req.AgentID, "config", req.Config)
	writeJSON(w, map[string]bool{"success": true})
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to write response", "error", err)
	}
}
