package page

import (
	"sync"
	"time"
)

const subscriberBuffer = 100

// Page is the in-memory model of the dashboard page.
//
// Page is safe for concurrent use. Stats and agents are declared at
// construction; elements for undeclared stat keys or agents may still be
// requested and are appended to the snapshot in first-use order.
type Page struct {
	mu        sync.RWMutex
	logs      []string
	scrolls   int
	statOrder []string
	stats     map[string]*StatValue
	agentIDs  []string
	agents    map[string]*AgentState
	fieldSets map[string]map[string]struct{}
	notice    *Notice

	subscribers map[chan Update]struct{}
	subMu       sync.RWMutex

	now func() time.Time
}

// New creates a [Page] with the given stat elements and agent panels.
func New(stats []Stat, agents []Agent) *Page {
	p := &Page{
		stats:       make(map[string]*StatValue, len(stats)),
		agents:      make(map[string]*AgentState, len(agents)),
		fieldSets:   make(map[string]map[string]struct{}, len(agents)),
		subscribers: make(map[chan Update]struct{}),
		now:         time.Now,
	}

	for _, s := range stats {
		p.declareStatLocked(s.Key, s.Label)
	}
	for _, a := range agents {
		p.declareAgentLocked(a)
	}
	return p
}

func (p *Page) declareStatLocked(key, label string) *StatValue {
	if sv, ok := p.stats[key]; ok {
		return sv
	}
	if label == "" {
		label = key
	}
	sv := &StatValue{Key: key, Label: label}
	p.stats[key] = sv
	p.statOrder = append(p.statOrder, key)
	return sv
}

func (p *Page) declareAgentLocked(a Agent) *AgentState {
	if as, ok := p.agents[a.ID]; ok {
		return as
	}
	name := a.Name
	if name == "" {
		name = a.ID
	}
	as := &AgentState{
		ID:     a.ID,
		Name:   name,
		Fields: append([]string(nil), a.Fields...),
		Config: make(map[string]string),
	}
	p.agents[a.ID] = as
	p.agentIDs = append(p.agentIDs, a.ID)

	if len(a.Fields) > 0 {
		set := make(map[string]struct{}, len(a.Fields))
		for _, f := range a.Fields {
			set[f] = struct{}{}
		}
		p.fieldSets[a.ID] = set
	}
	return as
}

// LogRegion returns the handle for the log display region.
func (p *Page) LogRegion() *LogRegion {
	return &LogRegion{page: p}
}

// StatElement returns the handle for the element bound to key.
func (p *Page) StatElement(key string) *StatElement {
	p.mu.Lock()
	p.declareStatLocked(key, "")
	p.mu.Unlock()
	return &StatElement{page: p, key: key}
}

// ResponseRegion returns the handle for agentID's test response region.
func (p *Page) ResponseRegion(agentID string) *ResponseRegion {
	p.ensureAgent(agentID)
	return &ResponseRegion{page: p, agentID: agentID}
}

// TestInput returns the handle for agentID's test message input.
func (p *Page) TestInput(agentID string) *TestInput {
	p.ensureAgent(agentID)
	return &TestInput{page: p, agentID: agentID}
}

// ConfigForm returns the handle for agentID's config form.
func (p *Page) ConfigForm(agentID string) *ConfigForm {
	p.ensureAgent(agentID)
	return &ConfigForm{page: p, agentID: agentID}
}

// HasAgent reports whether agentID has a panel on the page.
func (p *Page) HasAgent(agentID string) bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	_, ok := p.agents[agentID]
	return ok
}

// Agents returns the declared agents in page order.
func (p *Page) Agents() []Agent {
	p.mu.RLock()
	defer p.mu.RUnlock()

	out := make([]Agent, 0, len(p.agentIDs))
	for _, id := range p.agentIDs {
		as := p.agents[id]
		out = append(out, Agent{ID: as.ID, Name: as.Name, Fields: append([]string(nil), as.Fields...)})
	}
	return out
}

// StatKeys returns the declared stat keys in page order.
func (p *Page) StatKeys() []string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return append([]string(nil), p.statOrder...)
}

func (p *Page) ensureAgent(agentID string) {
	p.mu.Lock()
	p.declareAgentLocked(Agent{ID: agentID})
	p.mu.Unlock()
}

// ShowNotice records a user-facing notification and publishes it.
func (p *Page) ShowNotice(level, agentID, text string) {
	now := p.now()

	p.mu.Lock()
	p.notice = &Notice{Level: level, AgentID: agentID, Text: text, At: now}
	p.mu.Unlock()

	p.publish(Update{Kind: KindNotice, Key: agentID, Text: text, Level: level, At: now})
}

// ScrollCount returns how many times the log region was scrolled to its end.
func (p *Page) ScrollCount() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.scrolls
}

// Snapshot returns a copy of the current page content. Modifying the
// result does not affect the page.
func (p *Page) Snapshot() Snapshot {
	p.mu.RLock()
	defer p.mu.RUnlock()

	snap := Snapshot{
		Logs:   append([]string{}, p.logs...),
		Stats:  make([]StatValue, 0, len(p.statOrder)),
		Agents: make([]AgentState, 0, len(p.agentIDs)),
	}

	for _, key := range p.statOrder {
		snap.Stats = append(snap.Stats, *p.stats[key])
	}

	for _, id := range p.agentIDs {
		as := p.agents[id]
		cp := *as
		cp.Fields = append([]string{}, as.Fields...)
		cp.Config = copyMap(as.Config)
		snap.Agents = append(snap.Agents, cp)
	}

	if p.notice != nil {
		n := *p.notice
		snap.Notice = &n
	}
	return snap
}

// Subscribe creates a new subscription and returns a channel for receiving
// updates.
//
// The returned channel has a buffer of 100 updates. If the buffer fills
// (slow consumer), new updates are dropped for this subscriber.
//
// Caller must call [Page.Unsubscribe] when done to prevent resource leaks.
func (p *Page) Subscribe() <-chan Update {
	ch := make(chan Update, subscriberBuffer)

	p.subMu.Lock()
	p.subscribers[ch] = struct{}{}
	p.subMu.Unlock()

	return ch
}

// Unsubscribe removes a subscription and closes its channel. Safe to call
// multiple times or with an unknown channel.
func (p *Page) Unsubscribe(ch <-chan Update) {
	p.subMu.Lock()
	defer p.subMu.Unlock()

	for subCh := range p.subscribers {
		if subCh == ch {
			delete(p.subscribers, subCh)
			close(subCh)
			break
		}
	}
}

// publish sends u to all subscribers without blocking.
func (p *Page) publish(u Update) {
	p.subMu.RLock()
	defer p.subMu.RUnlock()

	for ch := range p.subscribers {
		select {
		case ch <- u:
		default:
			// subscriber is slow, drop the update
		}
	}
}

func copyMap(m map[string]string) map[string]string {
	cp := make(map[string]string, len(m))
	for k, v := range m {
		cp[k] = v
	}
	return cp
}
