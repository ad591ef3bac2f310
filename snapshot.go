package agentboard

import (
	"encoding/json"
	"strconv"
)

// Admin API paths.
const (
	LogsPath        = "/api/logs"
	StatsPath       = "/api/stats"
	TestAgentPath   = "/api/test-agent"
	AgentConfigPath = "/api/agent-config"
)

// LogSnapshot is an ordered sequence of log lines, rendered in order.
type LogSnapshot []string

// StatsSnapshot maps a stat key to its display text.
type StatsSnapshot map[string]string

// AgentConfig maps a config field name to its value.
type AgentConfig map[string]string

// logsResponse is the /api/logs body. Logs is a pointer so a missing field
// can be told apart from an empty array.
type logsResponse struct {
	Logs *[]string `json:"logs"`
}

type testAgentRequest struct {
	AgentID string `json:"agent_id"`
	Message string `json:"message"`
}

type testAgentResponse struct {
	Response *string `json:"response"`
}

type agentConfigRequest struct {
	AgentID string      `json:"agent_id"`
	Config  AgentConfig `json:"config"`
}

type agentConfigResponse struct {
	Success bool `json:"success"`
}

// decodeStats converts a raw /api/stats body into display text.
//
// Strings are used verbatim, numbers keep their JSON literal form and
// booleans render as true/false. Nulls, objects and arrays have no display
// form and are omitted, which leaves the bound element unchanged.
func decodeStats(raw map[string]any) StatsSnapshot {
	out := make(StatsSnapshot, len(raw))
	for key, v := range raw {
		if text, ok := statText(v); ok {
			out[key] = text
		}
	}
	return out
}

func statText(v any) (string, bool) {
	switch x := v.(type) {
	case string:
		return x, true
	case json.Number:
		return x.String(), true
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64), true
	case bool:
		return strconv.FormatBool(x), true
	default:
		return "", false
	}
}
