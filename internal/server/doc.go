// Package server provides the HTTP server for the AgentBoard browser
// dashboard.
//
// This package is internal to AgentBoard and handles all HTTP concerns:
//
//   - Dashboard serving: Serves the embedded HTML/CSS/JS dashboard at "/"
//   - Page API: JSON snapshot of the page model at "/api/page"
//   - Server-Sent Events: Real-time page updates at "/api/sse"
//   - Actions: Agent test and config save submissions under "/api/actions/"
//
// The server supports graceful shutdown via context cancellation, with a
// 5-second timeout for in-flight requests.
package server
