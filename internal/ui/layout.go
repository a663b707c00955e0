package ui

import "time"

// Terminal width thresholds for responsive layouts.
const (
	// LayoutCompactWidth is the threshold below which the preview pane is
	// hidden and the header shortens its labels.
	LayoutCompactWidth = 100

	// LayoutExtraWideWidth is the threshold for the narrow-list layout.
	LayoutExtraWideWidth = 160
)

// Log display limits.
const (
	// LogFetchLimit is the number of trailing log lines read per refresh.
	LogFetchLimit = 2000
)

// Timing constants.
const (
	// DefaultUIInterval is the default UI refresh interval.
	DefaultUIInterval = time.Second

	// WishlistNoticeTTL is how long a wishlist notice stays in the header.
	WishlistNoticeTTL = 3 * time.Second
)
