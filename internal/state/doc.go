// Package state owns kart's screen state and the events that change it.
//
// # Overview
//
// Every screen renders one State value. Screens never edit it directly; they
// send an Event to the Store, which computes the next State and publishes it
// to every subscriber. The list, detail and wishlist views all read the same
// stream, so they cannot disagree about what is loaded or wishlisted.
//
// # Architecture
//
//	UI / refresher                Store                         Subscribers
//	┌──────────────┐   Dispatch   ┌─────────────────────────┐   ┌──────────┐
//	│ key handlers │─────────────→│ effects (fetch, share)  │   │ list     │
//	│ auto refresh │              │        ↓ result action  │   │ detail   │
//	└──────────────┘              │ Reduce(state, action)   │──→│ wishlist │
//	                              │        ↓ publish        │   └──────────┘
//	                              └─────────────────────────┘
//
// Reduce is a pure function: given a State and an event it returns the next
// State and performs no I/O. The Store wraps it with the side effects:
// connectivity checks, catalog fetches, location lookups and sharing.
//
// # Events
//
//	LoadProductList                  fetch the list
//	LoadProductDetail{ID}            fetch one detail
//	ClearError                       dismiss the error
//	RequestLocationAndShare          mark a share flow as started
//	LocationPermissionsResult{...}   record the permission answer
//	LocationFetched{...}             record the resolved position and name
//	ShareProductWithLocation         share selected product + address
//	AddToWishlist / RemoveFromWishlist
//	ClearLastWishlistActionMessage
//	SearchProducts{Query}
//
// The Event interface has an unexported method, so the set is closed. Loads
// are expanded by the Store into internal result actions (offline, started,
// loaded, failed) which Reduce also understands.
//
// # Load Semantics
//
// A load first asks the connectivity checker. When offline the state gets the
// "no internet" message and the catalog is never called. Otherwise a
// loading-start state is published, the fetch runs without holding the lock,
// and a terminal state follows with either the result or a classified error:
//
//	transport failure  → "network error: <detail>"
//	HTTP status ≥ 400  → "server error: <code>"
//	anything else      → "unexpected error: <detail>"
//
// A failed list load keeps the previously loaded products visible.
//
// # Ordering
//
// Dispatch returns after the last state the event causes has been published.
// Each transition is reduced and published while the store lock is held, so
// all subscribers see the same sequence. Fetches run outside the lock: a
// wishlist change or a detail load goes through while a list load waits on
// the network.
//
// Each list or detail load takes a sequence number. Dispatching a newer load
// of the same kind cancels the older fetch, and any result carrying an old
// sequence number is discarded. The last dispatched load wins.
//
// # Subscriptions
//
// Subscribe delivers the current State first and then every later State.
// Each subscriber has its own unbounded queue drained by one goroutine, so a
// slow screen delays only itself and never misses a transition. Cancelling a
// subscription (or closing the Store) stops that goroutine and closes the
// channel.
//
// # Usage Example
//
//	store, err := state.New(state.Deps{Catalog: client, Connectivity: checker})
//	if err != nil {
//		return err
//	}
//	defer store.Close()
//
//	updates, cancel := store.Subscribe()
//	defer cancel()
//
//	go store.Dispatch(ctx, state.LoadProductList{})
//	for st := range updates {
//		render(st)
//	}
package state
