package page

import "time"

// Update kinds published by [Page].
const (
	KindLogs     = "logs"
	KindScroll   = "scroll"
	KindStat     = "stat"
	KindResponse = "response"
	KindNotice   = "notice"
)

// Stat declares a stat element shown on the page.
type Stat struct {
	// Key is the stat key in the /api/stats response.
	Key string `json:"key"`

	// Label is the human-readable caption. Defaults to Key.
	Label string `json:"label"`
}

// Agent declares an agent panel with a test input, a test response region
// and a config form.
type Agent struct {
	ID   string `json:"id"`
	Name string `json:"name"`

	// Fields lists the config form's input names. When empty the form
	// accepts any field.
	Fields []string `json:"fields"`
}

// Notice is the most recent user-facing notification.
type Notice struct {
	Level   string    `json:"level"`
	AgentID string    `json:"agent_id,omitempty"`
	Text    string    `json:"text"`
	At      time.Time `json:"at"`
}

// Update describes a single write to the page.
//
// Update is the unit streamed to browser clients over Server-Sent Events,
// so it is optimised for JSON serialisation.
type Update struct {
	// Kind is one of the Kind* constants.
	Kind string `json:"kind"`

	// Key is the stat key or agent ID the update applies to.
	Key string `json:"key,omitempty"`

	// Lines is the full log region content (KindLogs).
	Lines []string `json:"lines,omitempty"`

	// Text is the new element text (KindStat, KindResponse, KindNotice).
	Text string `json:"text,omitempty"`

	// Level is the notice level (KindNotice).
	Level string `json:"level,omitempty"`

	// At is when the write happened.
	At time.Time `json:"at"`
}

// StatValue is a stat element in a [Snapshot].
type StatValue struct {
	Key   string `json:"key"`
	Label string `json:"label"`
	Value string `json:"value"`
}

// AgentState is an agent panel in a [Snapshot].
type AgentState struct {
	ID       string            `json:"id"`
	Name     string            `json:"name"`
	Fields   []string          `json:"fields"`
	Input    string            `json:"input"`
	Response string            `json:"response"`
	Config   map[string]string `json:"config"`
}

// Snapshot is a point-in-time copy of the whole page.
type Snapshot struct {
	Logs   []string     `json:"logs"`
	Stats  []StatValue  `json:"stats"`
	Agents []AgentState `json:"agents"`
	Notice *Notice      `json:"notice"`
}
