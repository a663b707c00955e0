// Package catalog provides an HTTP client for the remote product catalog.
//
// # Overview
//
// The catalog is a static JSON tree. Two read-only resources are used:
//
//   - GET {base}/products.json: the product list
//   - GET {base}/product-details/{id}.json: one product with description
//     and a pre-formatted price
//
// # Client Usage
//
//	client, err := catalog.NewClient("https://example.firebaseio.com/",
//		catalog.WithTimeout(10*time.Second),
//		catalog.WithRateLimit(5, 2),
//	)
//	if err != nil {
//		log.Fatalf("failed to create client: %v", err)
//	}
//
//	products, err := client.FetchProducts(ctx)
//
// # Request Handling
//
// All requests:
//   - Use context for cancellation and timeout control
//   - Set Accept: application/json and User-Agent: kart/0.1
//   - Carry an X-Request-ID that also appears in the log record
//   - Wait on the rate limiter when one is configured
//
// # Error Handling
//
// Every failure is returned as *Error with a Kind:
//
//   - KindTransport: no usable response (DNS, refused, timeout, reset)
//   - KindStatus: the catalog answered with a non-2xx status
//   - KindUnexpected: anything else, including undecodable bodies
//
// A 404 for a detail matches ErrNotFound with errors.Is. Callers turn a
// Kind into user-facing text; this package never formats messages for
// people.
//
// # URL Construction
//
// The base may omit the scheme (https is assumed) and always gains a
// trailing slash so resources resolve beneath it:
//
//   - "example.com/shop" → https://example.com/shop/
//   - "http://localhost:8080" → http://localhost:8080/
//
// # Thread Safety
//
// Client is safe for concurrent use.
package catalog
