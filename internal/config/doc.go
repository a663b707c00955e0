// Package config loads kart's TOML configuration.
//
// # Configuration Discovery
//
// The Load function follows this resolution order:
//
//  1. If a path is explicitly provided, use it
//  2. Otherwise, use ~/.config/kart/config.toml (default)
//  3. If the config file doesn't exist, fall back to Default()
//  4. If the file exists but keys are missing or blank, keep the defaults
//
// # Default Values
//
//   - Catalog: catalog.DefaultBaseURL
//   - Request timeout: 10s, rate limit: 5 requests/second
//   - Auto refresh: disabled (refresh_interval = 0)
//   - Log file: ~/.local/state/kart/kart.log at level info
//   - Connectivity: TCP dial probe with a 2s timeout
//   - Location: IP lookup plus Nominatim reverse geocoding
//   - Share target: system clipboard
//
// # TOML Format
//
//	base_url = "https://example.firebaseio.com/"
//	request_timeout = "10s"
//	requests_per_second = 5
//	refresh_interval = "5m"
//	log_file = "~/.local/state/kart/kart.log"   # "" disables logging
//	log_level = "info"
//
//	[connectivity]
//	mode = "dial"            # or "assume-online"
//	timeout = "2s"
//
//	[location]
//	mode = "ip"              # "none", "static" or "ip"
//	latitude = 42.96         # static mode only
//	longitude = -85.67
//	lookup_url = "http://ip-api.com/json/"
//	geocode_url = "https://nominatim.openstreetmap.org/reverse"
//	timeout = "10s"
//
//	[share]
//	target = "clipboard"     # "stdout" or "both"
//
//	[messages]
//	no_internet = "You are offline"
//
// Durations use Go syntax ("500ms", "2m"). Every key under [messages] must
// name a known message; see messages.Keys.
//
// # Validation
//
// After parsing, the whole Config is checked with go-playground/validator.
// Errors name the offending key by its TOML path, e.g. "share.target".
//
// # Error Handling
//
// Load returns errors for:
//   - Path expansion failures (e.g., cannot determine home directory)
//   - File read errors (except os.ErrNotExist, which triggers defaults)
//   - TOML parsing errors and malformed durations
//   - Validation failures
//
// Missing config files are NOT an error. kart works out of the box against
// the public catalog.
package config
