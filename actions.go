package agentboard

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/jpalmerr/agentboard/internal/apiclient"
)

// ActionClient performs the user-triggered actions: testing an agent with a
// message and saving an agent's config.
//
// Each action is a single request/response round trip with two outcomes.
// No retry is attempted; the user re-triggers a failed action.
type ActionClient struct {
	client *apiclient.Client
	agents map[string]AgentBinding
	notify func(Notice)
	logger *slog.Logger
	now    func() time.Time

	mu sync.Mutex
}

// TestAgent sends message to agentID and shows the reply in the agent's
// response region.
//
// An empty message produces an error notice with [EmptyMessageText] and
// returns [ErrEmptyMessage] without issuing a request. An agent with no
// bound response region returns [ErrUnknownAgent], also without a request.
// Otherwise exactly one request is made: on success the region shows the
// returned text verbatim; on any transport or decode failure it shows
// [ErrorTestingAgentText] and the error is returned.
func (a *ActionClient) TestAgent(ctx context.Context, agentID, message string) error {
	if message == "" {
		a.emit(Notice{
			Level:   NoticeError,
			Action:  ActionTestAgent,
			AgentID: agentID,
			Text:    EmptyMessageText,
			Err:     ErrEmptyMessage,
		})
		return ErrEmptyMessage
	}

	binding, ok := a.agents[agentID]
	if !ok || binding.Response == nil {
		a.logger.Warn("test requested for agent without response region", "agent_id", agentID)
		return fmt.Errorf("test agent %q: %w", agentID, ErrUnknownAgent)
	}

	var resp testAgentResponse
	err := a.client.Post(ctx, TestAgentPath, testAgentRequest{AgentID: agentID, Message: message}, &resp)
	if err == nil && resp.Response == nil {
		err = fmt.Errorf("%w: response has no response field", ErrTransport)
	}
	if err != nil {
		a.logger.Error("failed to test agent", "agent_id", agentID, "error", err)
		a.write(binding.Response, ErrorTestingAgentText)
		return fmt.Errorf("test agent %q: %w", agentID, err)
	}

	a.write(binding.Response, *resp.Response)
	a.logger.Debug("agent tested", "agent_id", agentID)
	return nil
}

// SaveAgentConfig submits cfg as agentID's configuration.
//
// A response with success=true produces an info notice with
// [ConfigSavedText]. success=false produces an error notice with
// [ConfigSaveFailedText] and returns [ErrSaveRejected]; a transport or
// decode failure produces the same notice and returns the error. Field
// validation is left to the backend.
func (a *ActionClient) SaveAgentConfig(ctx context.Context, agentID string, cfg AgentConfig) error {
	if cfg == nil {
		cfg = AgentConfig{}
	}

	var resp agentConfigResponse
	if err := a.client.Post(ctx, AgentConfigPath, agentConfigRequest{AgentID: agentID, Config: cfg}, &resp); err != nil {
		a.logger.Error("failed to save agent config", "agent_id", agentID, "error", err)
		a.emit(Notice{
			Level:   NoticeError,
			Action:  ActionSaveConfig,
			AgentID: agentID,
			Text:    ConfigSaveFailedText,
			Err:     err,
		})
		return fmt.Errorf("save config for %q: %w", agentID, err)
	}

	if !resp.Success {
		a.logger.Warn("agent config rejected", "agent_id", agentID)
		a.emit(Notice{
			Level:   NoticeError,
			Action:  ActionSaveConfig,
			AgentID: agentID,
			Text:    ConfigSaveFailedText,
			Err:     ErrSaveRejected,
		})
		return fmt.Errorf("save config for %q: %w", agentID, ErrSaveRejected)
	}

	a.logger.Info("agent config saved", "agent_id", agentID, "fields", len(cfg))
	a.emit(Notice{
		Level:   NoticeInfo,
		Action:  ActionSaveConfig,
		AgentID: agentID,
		Text:    ConfigSavedText,
	})
	return nil
}

// SubmitTestInput reads agentID's bound test input and calls [ActionClient.TestAgent].
func (a *ActionClient) SubmitTestInput(ctx context.Context, agentID string) error {
	binding, ok := a.agents[agentID]
	if !ok || binding.Input == nil {
		return fmt.Errorf("test agent %q: no test input: %w", agentID, ErrUnknownAgent)
	}
	return a.TestAgent(ctx, agentID, binding.Input.Value())
}

// SubmitConfigForm collects agentID's bound config form and calls
// [ActionClient.SaveAgentConfig].
func (a *ActionClient) SubmitConfigForm(ctx context.Context, agentID string) error {
	binding, ok := a.agents[agentID]
	if !ok || binding.Form == nil {
		return fmt.Errorf("save config for %q: no config form: %w", agentID, ErrUnknownAgent)
	}
	return a.SaveAgentConfig(ctx, agentID, AgentConfig(binding.Form.Values()))
}

// write serialises writes to response regions.
func (a *ActionClient) write(view TextView, text string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	view.SetText(text)
}

func (a *ActionClient) emit(n Notice) {
	if n.At.IsZero() {
		n.At = a.now()
	}
	if a.notify != nil {
		a.notify(n)
	}
}
