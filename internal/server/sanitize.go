package server

import "github.com/jpalmerr/agentboard/internal/page"

// sanitizeSnapshot returns a copy of snap with every displayed text and
// every identifier (stat keys, agent IDs, field names) made safe for HTML
// rendering. The browser places identifiers in element ids and input names.
func (s *Server) sanitizeSnapshot(snap page.Snapshot) page.Snapshot {
	snap.Logs = s.sanitizeLines(snap.Logs)

	stats := make([]page.StatValue, len(snap.Stats))
	for i, sv := range snap.Stats {
		stats[i] = page.StatValue{
			Key:   s.policy.Sanitize(sv.Key),
			Label: s.policy.Sanitize(sv.Label),
			Value: s.policy.Sanitize(sv.Value),
		}
	}
	snap.Stats = stats

	agents := make([]page.AgentState, len(snap.Agents))
	for i, a := range snap.Agents {
		cfg := make(map[string]string, len(a.Config))
		for k, v := range a.Config {
			cfg[s.policy.Sanitize(k)] = s.policy.Sanitize(v)
		}
		agents[i] = page.AgentState{
			ID:       s.policy.Sanitize(a.ID),
			Name:     s.policy.Sanitize(a.Name),
			Fields:   s.sanitizeLines(a.Fields),
			Input:    s.policy.Sanitize(a.Input),
			Response: s.policy.Sanitize(a.Response),
			Config:   cfg,
		}
	}
	snap.Agents = agents

	if snap.Notice != nil {
		n := *snap.Notice
		n.Level = s.policy.Sanitize(n.Level)
		n.AgentID = s.policy.Sanitize(n.AgentID)
		n.Text = s.policy.Sanitize(n.Text)
		snap.Notice = &n
	}
	return snap
}

// sanitizeUpdate returns a copy of u safe for HTML rendering.
func (s *Server) sanitizeUpdate(u page.Update) page.Update {
	u.Key = s.policy.Sanitize(u.Key)
	u.Level = s.policy.Sanitize(u.Level)
	u.Lines = s.sanitizeLines(u.Lines)
	u.Text = s.policy.Sanitize(u.Text)
	return u
}

func (s *Server) sanitizeLines(lines []string) []string {
	if lines == nil {
		return nil
	}
	out := make([]string, len(lines))
	for i, l := range lines {
		out[i] = s.policy.Sanitize(l)
	}
	return out
}
