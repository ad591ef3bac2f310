// Package agentboard is the client side of a messaging-agent admin console.
//
// A [Dashboard] polls the platform's admin API for logs and usage
// statistics and writes each snapshot into display elements supplied by the
// caller. It also performs the two operator actions: sending a test message
// to an agent and saving an agent's settings. Results of actions are
// reported as [Notice] values rather than blocking dialogs.
//
// # Quick Start
//
//	d, err := agentboard.New(
//	    agentboard.WithBaseURL("http://localhost:5000"),
//	    agentboard.WithLogView(logPanel),
//	    agentboard.WithStatView("total_conversations", conversationsLabel),
//	    agentboard.WithAgent("customer_service", agentboard.AgentBinding{
//	        Input:    messageInput,
//	        Response: responseRegion,
//	        Form:     settingsForm,
//	    }),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
//	defer stop()
//
//	// refreshes immediately, then every 5s (logs) and 30s (stats)
//	if err := d.Start(ctx); err != nil {
//	    log.Fatal(err)
//	}
//
// # Display Elements
//
// Elements are small interfaces: [LogView] for the log region, [TextView]
// for stat elements and agent response regions, [InputView] for the test
// message input and [FormView] for the settings form. Only bound elements
// are refreshed; a dashboard with no stat views never requests stats.
//
// # Refresh Semantics
//
// Each refresh is one GET request. A successful response replaces the bound
// elements; a failed one is logged at warn level and leaves them as they
// were. Refreshes are not cancelled when a newer one starts, and when two
// overlap the response that arrives last is the one displayed.
//
// # Architecture
//
// AgentBoard consists of several internal packages (under internal/):
//
//   - internal/apiclient: JSON request/response round trips to the admin API
//   - internal/scheduler: Independent fixed-interval tasks
//   - internal/page: In-memory page model with pub/sub for live updates
//   - internal/server: Browser UI, page snapshot and Server-Sent Events
//   - internal/termview: Terminal rendering of the page model
//   - dashboard: Embedded web UI assets
//
// The internal packages are not part of the public API and may change
// without notice.
package agentboard
