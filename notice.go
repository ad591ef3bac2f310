package agentboard

import "time"

// User-facing texts carried by notices and written to response regions.
const (
	// EmptyMessageText is shown when a test is requested with no message.
	EmptyMessageText = "Please enter a message to test."

	// ErrorTestingAgentText replaces an agent's test response region when
	// the test request fails.
	ErrorTestingAgentText = "Error testing agent."

	// ConfigSavedText confirms a successful config save.
	ConfigSavedText = "Settings saved successfully!"

	// ConfigSaveFailedText reports any config save failure.
	ConfigSaveFailedText = "Error saving settings."
)

// NoticeLevel classifies a [Notice].
type NoticeLevel string

const (
	// NoticeInfo confirms a successful action.
	NoticeInfo NoticeLevel = "info"

	// NoticeError reports a failed or rejected action.
	NoticeError NoticeLevel = "error"
)

// String returns the string representation of the level.
func (l NoticeLevel) String() string {
	return string(l)
}

// Actions that produce notices.
const (
	ActionTestAgent  = "test-agent"
	ActionSaveConfig = "save-config"
)

// Notice is a user-facing notification produced by an action.
//
// Notices replace blocking alert dialogs: the dashboard delivers them on the
// channel returned by [Dashboard.Notices] and to callbacks registered with
// [WithNoticeCallback], where a front-end can display them and tests can
// assert against them.
type Notice struct {
	// Level is info for confirmations and error for failures.
	Level NoticeLevel

	// Action is the action that produced the notice (ActionTestAgent or
	// ActionSaveConfig).
	Action string

	// AgentID is the agent the action targeted.
	AgentID string

	// Text is the message to show the user.
	Text string

	// Err is the underlying error for error notices, nil otherwise.
	Err error

	// At is when the notice was produced.
	At time.Time
}
