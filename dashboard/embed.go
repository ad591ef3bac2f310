// Package dashboard provides the embedded web UI assets for AgentBoard.
//
// This package uses Go's embed directive to include the dashboard HTML, CSS,
// and JavaScript at compile time. This enables single-binary deployment
// without external asset files.
//
// The embedded assets are served by the server package at the root path ("/").
package dashboard

import "embed"

// Assets is an embedded filesystem containing the dashboard web UI.
//
// The filesystem structure is:
//
//	assets/
//	  index.html    - Admin page with inline CSS and JavaScript
//
// The page renders the snapshot and updates streamed from /api/sse and
// posts agent tests and config saves to /api/actions/.
//
//go:embed assets/*
var Assets embed.FS
