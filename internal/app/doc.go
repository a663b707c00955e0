// Package app is the composition root for kart.
//
// # Overview
//
// Run reads the config and the user's prefs, opens the JSON log file, builds
// the state store and its collaborators, then hands the terminal to the UI
// until the user quits or the context is cancelled.
//
// # Startup
//
//  1. Load ~/.config/kart/config.toml (defaults when absent)
//  2. Load ~/.config/kart/prefs.toml (theme, location permission)
//  3. Start logging with a per-run session id
//  4. Wire the catalog client, connectivity probe, location resolver and
//     share target into a state.Store
//  5. Start the background refresher when refresh_interval is set
//  6. Run the TUI (blocks)
//
// # Data Flow
//
//	┌──────────────┐
//	│   Run()      │
//	└──────┬───────┘
//	       │
//	       ├─────> config.Load()      Read kart config
//	       ├─────> logging.Setup()    Rotating JSON log
//	       ├─────> newStore()         Catalog, netcheck, location, share
//	       ├─────> StartRefresher()   Periodic LoadProductList
//	       └─────> ui.Run()           Start TUI (blocks)
//
// # Refresher
//
// The refresher dispatches LoadProductList on every interval. A load that
// ends with an error in the state shortens the next wait to an exponential
// backoff capped at 30 seconds; the first clean load restores the interval.
//
// # Share Targets
//
// With share.target = "clipboard" shared text goes to the system clipboard.
// With "stdout" it is buffered and printed once the alternate screen is
// gone, so it can be piped into other tools.
//
// # Errors
//
// Run returns configuration, logging and wiring failures. Catalog failures
// never end the program; they become the store's error text and are shown
// in the header. A cancelled context is a normal exit.
//
// # Usage Example
//
//	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
//	defer cancel()
//
//	if err := app.Run(ctx, app.Options{}); err != nil {
//		log.Fatalf("kart failed: %v", err)
//	}
package app
