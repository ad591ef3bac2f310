package config

import (
	"sort"

	"github.com/jpalmerr/agentboard"
	"github.com/jpalmerr/agentboard/internal/page"
)

// BuildPage creates the page model declared by cfg: one stat element per
// entry in Stats and one agent panel per entry in Agents, in file order.
func BuildPage(cfg *Config) *page.Page {
	stats := make([]page.Stat, 0, len(cfg.Stats))
	for _, s := range cfg.Stats {
		stats = append(stats, page.Stat{Key: s.Key, Label: s.Label})
	}

	agents := make([]page.Agent, 0, len(cfg.Agents))
	for _, a := range cfg.Agents {
		agents = append(agents, page.Agent{ID: a.ID, Name: a.Name, Fields: a.Fields})
	}

	return page.New(stats, agents)
}

// BuildOptions converts parsed configuration into SDK options that bind
// every element of p to a [agentboard.Dashboard].
//
// The log region is always bound. Stat elements and agent panels are bound
// for every declared stat key and agent.
func BuildOptions(cfg *Config, p *page.Page) []agentboard.Option {
	opts := []agentboard.Option{
		agentboard.WithBaseURL(cfg.API.BaseURL),
		agentboard.WithLogInterval(cfg.LogInterval.Duration()),
		agentboard.WithStatsInterval(cfg.StatsInterval.Duration()),
		agentboard.WithLogView(p.LogRegion()),
	}

	if cfg.API.Timeout != 0 {
		opts = append(opts, agentboard.WithRequestTimeout(cfg.API.Timeout.Duration()))
	}

	if len(cfg.API.Headers) > 0 {
		opts = append(opts, agentboard.WithHeaders(mapToKeyValuePairs(cfg.API.Headers)...))
	}

	for _, key := range p.StatKeys() {
		opts = append(opts, agentboard.WithStatView(key, p.StatElement(key)))
	}

	for _, a := range p.Agents() {
		opts = append(opts, agentboard.WithAgent(a.ID, agentboard.AgentBinding{
			Input:    p.TestInput(a.ID),
			Response: p.ResponseRegion(a.ID),
			Form:     p.ConfigForm(a.ID),
		}))
	}

	return opts
}

// mapToKeyValuePairs converts a map to a sorted slice of key-value pairs.
func mapToKeyValuePairs(m map[string]string) []string {
	// sort keys for deterministic ordering
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	pairs := make([]string, 0, len(m)*2)
	for _, k := range keys {
		pairs = append(pairs, k, m[k])
	}
	return pairs
}
