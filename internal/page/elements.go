package page

// LogRegion is the page's log display region.
type LogRegion struct {
	page *Page
}

// SetLines replaces the region content with lines, in order.
func (r *LogRegion) SetLines(lines []string) {
	p := r.page
	now := p.now()
	cp := append([]string{}, lines...)

	p.mu.Lock()
	p.logs = cp
	p.mu.Unlock()

	p.publish(Update{Kind: KindLogs, Lines: append([]string{}, cp...), At: now})
}

// ScrollToEnd scrolls the region to its last line.
func (r *LogRegion) ScrollToEnd() {
	p := r.page

	p.mu.Lock()
	p.scrolls++
	p.mu.Unlock()

	p.publish(Update{Kind: KindScroll, At: p.now()})
}

// Lines returns a copy of the region content.
func (r *LogRegion) Lines() []string {
	r.page.mu.RLock()
	defer r.page.mu.RUnlock()
	return append([]string{}, r.page.logs...)
}

// StatElement is the element bound to one stat key.
type StatElement struct {
	page *Page
	key  string
}

// SetText sets the displayed stat value.
func (e *StatElement) SetText(text string) {
	p := e.page
	now := p.now()

	p.mu.Lock()
	p.declareStatLocked(e.key, "").Value = text
	p.mu.Unlock()

	p.publish(Update{Kind: KindStat, Key: e.key, Text: text, At: now})
}

// Text returns the displayed stat value.
func (e *StatElement) Text() string {
	e.page.mu.RLock()
	defer e.page.mu.RUnlock()
	if sv, ok := e.page.stats[e.key]; ok {
		return sv.Value
	}
	return ""
}

// ResponseRegion is an agent's test response region.
type ResponseRegion struct {
	page    *Page
	agentID string
}

// SetText replaces the region text.
func (r *ResponseRegion) SetText(text string) {
	p := r.page
	now := p.now()

	p.mu.Lock()
	p.declareAgentLocked(Agent{ID: r.agentID}).Response = text
	p.mu.Unlock()

	p.publish(Update{Kind: KindResponse, Key: r.agentID, Text: text, At: now})
}

// Text returns the region text.
func (r *ResponseRegion) Text() string {
	r.page.mu.RLock()
	defer r.page.mu.RUnlock()
	if as, ok := r.page.agents[r.agentID]; ok {
		return as.Response
	}
	return ""
}

// TestInput is an agent's test message input.
type TestInput struct {
	page    *Page
	agentID string
}

// Value returns the current input value.
func (in *TestInput) Value() string {
	in.page.mu.RLock()
	defer in.page.mu.RUnlock()
	if as, ok := in.page.agents[in.agentID]; ok {
		return as.Input
	}
	return ""
}

// SetValue sets the input value, as a user typing into it would.
func (in *TestInput) SetValue(value string) {
	in.page.mu.Lock()
	in.page.declareAgentLocked(Agent{ID: in.agentID}).Input = value
	in.page.mu.Unlock()
}

// ConfigForm is an agent's config form.
type ConfigForm struct {
	page    *Page
	agentID string
}

// Values returns a copy of the form's field values.
func (f *ConfigForm) Values() map[string]string {
	f.page.mu.RLock()
	defer f.page.mu.RUnlock()
	if as, ok := f.page.agents[f.agentID]; ok {
		return copyMap(as.Config)
	}
	return map[string]string{}
}

// SetValues replaces the form's field values and returns a copy of what was
// kept. When the agent declares its fields, values for other names are
// dropped, as a form only submits the inputs it contains.
func (f *ConfigForm) SetValues(values map[string]string) map[string]string {
	p := f.page

	p.mu.Lock()
	defer p.mu.Unlock()

	as := p.declareAgentLocked(Agent{ID: f.agentID})
	allowed := p.fieldSets[f.agentID]

	cfg := make(map[string]string, len(values))
	for k, v := range values {
		if allowed != nil {
			if _, ok := allowed[k]; !ok {
				continue
			}
		}
		cfg[k] = v
	}
	as.Config = cfg
	return copyMap(cfg)
}
