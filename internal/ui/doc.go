// Package ui provides the terminal user interface for kart.
//
// # Architecture Overview
//
// The UI is a Bubble Tea program. It never holds catalog data of its own:
// the root Model subscribes to the state store, renders whatever snapshot
// arrived last, and turns key presses into store events. Events are
// dispatched from tea.Cmd goroutines so network loads never block input.
// Search edits are the exception: they are applied during Update so the
// store sees them in typing order.
//
// # Package Structure
//
//   - app.go: Model, Init/Update/View, global keys, store commands and Run
//   - list.go: product list, search box and the titled-box renderer
//   - detail.go: selected product viewport and the share flow
//   - wishlist.go: saved products
//   - logs.go: tail of kart's own JSON log file
//   - header.go: status line and per-view command bar
//   - help.go: keyboard shortcut overlay
//   - theme.go, style_helpers.go: palettes and background-safe rendering
//
// # Views
//
//   - Products: filtered product list with a preview pane on wide terminals
//   - Detail: the product loaded with enter, its price, wishlist state and
//     the address used for sharing
//   - Wishlist: products in the order they were saved
//   - Logs: kart's log file, optionally filtered by level
//
// # Event Flow
//
//  1. New subscribes to the store; Init arms the subscription and dispatches
//     LoadProductList
//  2. Each state from the subscription becomes a stateMsg and re-arms it
//  3. Keys map to events (LoadProductDetail, AddToWishlist, SearchProducts...)
//  4. A new wishlist notice schedules ClearLastWishlistActionMessage after
//     WishlistNoticeTTL unless a newer notice replaced it
//  5. Share answers the location prompt from prefs, then either fetches a
//     fresh position or shares with the current address
//
// # Usage Example
//
//	err := ui.Run(ui.Options{
//		Context:   ctx,
//		Store:     store,
//		Messages:  msgs,
//		Prefs:     p,
//		PrefsPath: prefsPath,
//		LogPath:   cfg.LogFile,
//	})
//
// # Key Bindings
//
//   - p / w / l: Products, wishlist, logs
//   - Tab: Cycle through views
//   - Enter: Open the highlighted product
//   - /: Search products (filters as you type)
//   - a: Add or remove the product from the wishlist
//   - s: Share the open product with your address
//   - L: Allow or deny location lookups for sharing
//   - r: Reload
//   - x: Dismiss the current error
//   - T: Cycle theme
//   - ESC: Clear search or return to products
//   - e or Ctrl+C: Exit
package ui
