// Standalone mock admin API for trying the CLI.
//
// Usage:
//
//	go run ./example/cmd/mockapi
//
// Then in another terminal:
//
//	go run ./cmd/agentboard serve -c example/config.yaml
//
// Set MOCKAPI_FAIL_SAVES=1 to make every settings save fail.
package main

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"math/rand"
	"net/http"
	"os"
	"time"
)

const addr = ":5000"

var sampleLogs = []string{
	"[INFO] 2023-08-15 10:30:45 - Message received from +5511999999999",
	"[INFO] 2023-08-15 10:30:46 - Intent detected: customer_service",
	"[INFO] 2023-08-15 10:30:48 - Reply generated: Hello! How can I help?",
	"[INFO] 2023-08-15 10:30:49 - Reply sent successfully",
	"[INFO] 2023-08-15 10:32:12 - Message received from +5511888888888",
	"[INFO] 2023-08-15 10:32:13 - Intent detected: technical_support",
	"[INFO] 2023-08-15 10:32:15 - Reply generated: I'll help with the technical problem.",
	"[INFO] 2023-08-15 10:32:16 - Reply sent successfully",
}

var replies = map[string]string{
	"customer_service":  "Hello! Thanks for getting in touch. How can I help you today?",
	"technical_support": "I understand you're having a technical problem. I'll help you sort it out. First, could you restart the device?",
}

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	failSaves := os.Getenv("MOCKAPI_FAIL_SAVES") == "1"

	fmt.Printf("Mock admin API starting on %s\n", addr)
	fmt.Println("Press Ctrl+C to stop")
	fmt.Println()

	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/logs", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, logger, map[string]any{"logs": sampleLogs})
	})

	mux.HandleFunc("GET /api/stats", func(w http.ResponseWriter, r *http.Request) {
		// simulate small latency variance
		time.Sleep(time.Duration(50+rand.Intn(150)) * time.Millisecond)
		writeJSON(w, logger, map[string]any{
			"total_conversations": 1243,
			"total_messages":      3456,
			"avg_response_time":   "2.3s",
			"satisfaction_rate":   "92%",
		})
	})

	mux.HandleFunc("POST /api/test-agent", func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			AgentID string `json:"agent_id"`
			Message string `json:"message"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad request", http.StatusBadRequest)
			return
		}
		logger.Info("test message", "agent_id", req.AgentID, "message", req.Message)

		reply, ok := replies[req.AgentID]
		if !ok {
			reply = "Sorry, I couldn't process your request."
		}
		writeJSON(w, logger, map[string]string{"response": reply})
	})

	mux.HandleFunc("POST /api/agent-config", func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			AgentID string         `json:"agent_id"`
			Config  map[string]any `json:"config"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad request", http.StatusBadRequest)
			return
		}
		logger.Info("settings saved", "agent_id", req.AgentID, "config", req.Config, "fail", failSaves)
		writeJSON(w, logger, map[string]bool{"success": !failSaves})
	})

	if err := http.ListenAndServe(addr, mux); err != nil {
		logger.Error("mock server error", "error", err)
		os.Exit(1)
	}
}

func writeJSON(w http.ResponseWriter, logger *slog.Logger, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error("failed to write response", "error", err)
	}
}
