// Package messages holds every user-facing string kart produces outside the
// view layer, keyed so that config can override them.
package messages

import (
	"fmt"
	"sort"
	"strings"
)

// Key names one message template.
type Key string

const (
	NoInternet          Key = "no_internet"
	NetworkError        Key = "network_error"    // %s detail
	ServerError         Key = "server_error"     // %d status code
	UnexpectedError     Key = "unexpected_error" // %s detail
	AddressNotAvailable Key = "address_not_available"
	PermissionDenied    Key = "location_permission_denied"
	CouldNotDetermine   Key = "could_not_determine_address"
	CouldNotGetLocation Key = "could_not_get_current_location"
	LocationUnknown     Key = "location_unknown"
	NoAddressFound      Key = "no_address_found"
	GeocodingError      Key = "geocoding_error" // %s detail
	AddedToWishlist     Key = "added_to_wishlist"
	RemovedFromWishlist Key = "removed_from_wishlist"
	ShareText           Key = "share_text" // %s title, %s price, %s address
	ShareCopied         Key = "share_copied"
	SharePrinted        Key = "share_printed"
	NothingToShare      Key = "nothing_to_share"
	LocationServicesOff Key = "location_services_disabled"
	UnknownError        Key = "unknown_error"
)

var defaults = map[Key]string{
	NoInternet:          "No internet connection",
	NetworkError:        "network error: %s",
	ServerError:         "server error: %d",
	UnexpectedError:     "unexpected error: %s",
	AddressNotAvailable: "Address not available.",
	PermissionDenied:    "Location permission denied.",
	CouldNotDetermine:   "Could not determine address.",
	CouldNotGetLocation: "Could not get current location.",
	LocationUnknown:     "Location unknown",
	NoAddressFound:      "No address found for these coordinates.",
	GeocodingError:      "Geocoding error: %s",
	AddedToWishlist:     "%s added to wishlist",
	RemovedFromWishlist: "%s removed from wishlist",
	ShareText:           "Check out %s for %s! Shared from %s.",
	ShareCopied:         "Share text copied",
	SharePrinted:        "Share text will be printed on exit",
	NothingToShare:      "Open a product to share it",
	LocationServicesOff: "Location services are disabled.",
	UnknownError:        "unknown error",
}

// Lookup renders the template for key with args.
type Lookup func(key Key, args ...any) string

// Default renders the built-in English templates.
var Default = New(nil)

// New returns a Lookup that prefers overrides and falls back to the built-in
// templates. Unknown keys render as the key itself so a missing string is
// visible rather than blank.
func New(overrides map[Key]string) Lookup {
	table := make(map[Key]string, len(defaults))
	for k, v := range defaults {
		table[k] = v
	}
	for k, v := range overrides {
		if strings.TrimSpace(v) != "" {
			table[k] = v
		}
	}
	return func(key Key, args ...any) string {
		tmpl, ok := table[key]
		if !ok {
			return string(key)
		}
		if len(args) == 0 {
			return tmpl
		}
		return fmt.Sprintf(tmpl, args...)
	}
}

// Known reports whether key names a built-in template.
func Known(key Key) bool {
	_, ok := defaults[key]
	return ok
}

// Keys returns every template key in sorted order.
func Keys() []Key {
	keys := make([]Key, 0, len(defaults))
	for k := range defaults {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}
