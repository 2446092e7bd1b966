// Package shutdown coordinates process exit for hwdesk-cli.
//
// Cleanup hooks (closing the session store, flushing metrics, saving
// shell history) run once, last registered first, under a shared
// deadline. Context ties a command's context to SIGINT and SIGTERM.
//
// Usage:
//
//	h := shutdown.NewHandler(5 * time.Second)
//	ctx, stop := h.Context(context.Background())
//	defer stop()
//	defer h.Shutdown()
package shutdown
