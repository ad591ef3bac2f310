// Package page provides the in-memory page model rendered by the browser
// and terminal front-ends.
//
// This package is internal to agentboard. A [Page] holds the content of
// every display region the dashboard writes to: the log region, one element
// per stat key, and per-agent test inputs, test responses and config forms.
// Its element handles satisfy the agentboard view interfaces, so the poller
// and action client write into a Page exactly as they would into any other
// injected view.
//
// Every write is published to subscribers as an [Update]. Subscribers
// receive updates via buffered channels with non-blocking sends (slow
// subscribers miss updates rather than block writers) and can recover the
// full state with [Page.Snapshot].
package page
