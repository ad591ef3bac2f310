package agentboard

// LogView is the display region that shows the log snapshot.
//
// Implementations must tolerate calls from any goroutine; the dashboard
// serialises its own writes so calls never overlap.
type LogView interface {
	// SetLines replaces the region content with lines, in order.
	SetLines(lines []string)

	// ScrollToEnd scrolls the region so its last line is visible.
	ScrollToEnd()
}

// TextView is a display element holding a single text value, such as a stat
// element or an agent's test response region.
type TextView interface {
	SetText(text string)
}

// InputView is a text input read at submission time, such as an agent's
// test message input.
type InputView interface {
	Value() string
}

// FormView is a form whose field values are collected at submission time.
type FormView interface {
	// Values returns field name to value for every input in the form.
	Values() map[string]string
}

// AgentBinding groups the per-agent display elements.
//
// Any element may be nil. An agent without a Response view cannot be tested;
// an agent without an Input view or Form view cannot use the corresponding
// Submit method.
type AgentBinding struct {
	// Input is the test message input.
	Input InputView

	// Response is the region showing the test response.
	Response TextView

	// Form is the agent's config form.
	Form FormView
}

// TextViewFunc adapts a function to the [TextView] interface.
type TextViewFunc func(text string)

// SetText calls f(text).
func (f TextViewFunc) SetText(text string) {
	f(text)
}
