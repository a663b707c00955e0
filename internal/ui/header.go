package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/five82/kart/internal/messages"
)

// renderHeader renders the status bar with all information.
func (m Model) renderHeader() string {
	// Header uses Surface background
	styles := m.theme.Styles().WithBackground(m.theme.Panel)
	bg := NewBgStyle(m.theme.Panel)

	return lipgloss.NewStyle().
		Background(lipgloss.Color(m.theme.Panel)).
		Foreground(lipgloss.Color(m.theme.Text)).
		Width(m.width).
		MaxWidth(m.width).
		Render(m.buildStatusContent(styles, bg))
}

// buildStatusContent builds the status bar content string.
func (m Model) buildStatusContent(styles Styles, bg BgStyle) string {
	compact := m.width < LayoutCompactWidth
	s := m.snapshot
	badges := m.theme.Styles()

	var parts []string

	// Logo
	parts = append(parts, bg.Render("kart", styles.Logo))

	// Activity badge
	switch {
	case s.IsLoadingList || s.IsLoadingDetail:
		parts = append(parts, badges.Badge(BadgeLoading).Render("LOADING"))
	case s.IsFetchingLocation:
		parts = append(parts, badges.Badge(BadgeLocating).Render("LOCATING"))
	case s.Error == m.msgs(messages.NoInternet):
		parts = append(parts, badges.Badge(BadgeOffline).Render("OFFLINE"))
	case s.Error != "":
		parts = append(parts, badges.Badge(BadgeError).Render("ERROR"))
	case s.ProductsLoaded:
		parts = append(parts, badges.Badge(BadgeReady).Render("READY"))
	}

	// Counts
	parts = append(parts,
		bg.Render("Products:", styles.MutedText)+bg.Space()+
			bg.Render(fmt.Sprintf("%d", len(s.Products)), styles.Text),
	)
	wishStyle := styles.MutedText
	if len(s.Wishlist) > 0 {
		wishStyle = lipgloss.NewStyle().
			Background(lipgloss.Color(m.theme.Panel)).
			Foreground(lipgloss.Color(m.theme.Color(BadgeWishlist)))
	}
	label := ternary(compact, "W:", "Wishlist:")
	parts = append(parts,
		bg.Render(label, styles.MutedText)+bg.Space()+
			bg.Render(fmt.Sprintf("%d", len(s.Wishlist)), wishStyle),
	)

	if timeStr := m.formatTimestamp(); timeStr != "" && !compact {
		parts = append(parts, bg.Render(timeStr, styles.MutedText))
	}

	limit := 80
	if compact {
		limit = 40
	}

	// Wishlist notice
	if s.LastWishlistMessage != "" {
		parts = append(parts, bg.Render("★", styles.WarningText)+bg.Space()+
			bg.Render(truncate(s.LastWishlistMessage, limit), styles.Text))
	}

	// Error indicator
	if s.Error != "" {
		parts = append(parts,
			bg.Render(truncate(s.Error, limit), styles.DangerText)+bg.Space()+
				bg.Render("(x)", styles.FaintText),
		)
	}

	// Transient notice (share results, prefs failures)
	if m.notice != "" {
		style := styles.SuccessText
		if m.noticeError {
			style = styles.WarningText
		}
		parts = append(parts, bg.Render(truncate(m.notice, limit), style))
	}

	return bg.Join(parts, "  ")
}

// formatTimestamp formats the last update time with relative indicator.
func (m Model) formatTimestamp() string {
	if m.lastUpdated.IsZero() {
		return ""
	}

	timeSince := time.Since(m.lastUpdated)
	timeStr := m.lastUpdated.Format("15:04:05")

	if timeSince < time.Minute {
		timeStr += " (now)"
	} else if timeSince < time.Hour {
		timeStr += fmt.Sprintf(" (%dm ago)", int(timeSince.Minutes()))
	} else if timeSince < 24*time.Hour {
		timeStr += fmt.Sprintf(" (%dh ago)", int(timeSince.Hours()))
	}

	return timeStr
}

// renderCommandBar renders the command hints bar.
func (m Model) renderCommandBar() string {
	// Command bar uses Surface background
	styles := m.theme.Styles().WithBackground(m.theme.Panel)
	bg := NewBgStyle(m.theme.Panel)

	type cmd struct{ key, desc string }
	var commands []cmd

	switch m.currentView {
	case ViewDetail:
		wish := "Save"
		if d := m.snapshot.SelectedProduct; d != nil && m.snapshot.InWishlist(d.ID) {
			wish = "Unsave"
		}
		commands = []cmd{
			{"a", wish},
			{"s", "Share"},
			{"L", "Location " + ternary(m.prefs.LocationAllowed(), "on", "off")},
			{"r", "Reload"},
			{"esc", "Back"},
			{"?", "More"},
		}
	case ViewWishlist:
		commands = []cmd{
			{"enter", "Open"},
			{"d", "Remove"},
			{"j/k", "Navigate"},
			{"p", "Products"},
			{"?", "More"},
		}
	case ViewLogs:
		follow := ternary(m.logState.follow, "Pause", "Follow")
		level := m.logState.minLevel
		if level == "" {
			level = "All"
		}
		commands = []cmd{
			{"Space", follow},
			{"f", titleCase(level)},
			{"r", "Reload"},
			{"p", "Products"},
			{"?", "More"},
		}
	default: // ViewProducts
		if m.searchActive {
			commands = []cmd{
				{"enter", "Done"},
				{"esc", "Clear"},
			}
			break
		}
		commands = []cmd{
			{"enter", "Open"},
			{"/", "Search"},
			{"a", "Wishlist"},
			{"r", "Reload"},
			{"w", "Saved"},
			{"l", "Logs"},
			{"?", "More"},
		}
	}

	colon := bg.Sep(":")
	sep := bg.Spaces(2)

	segments := make([]string, 0, len(commands)+2)
	for _, c := range commands {
		segments = append(segments,
			bg.Render(c.key, styles.AccentText)+colon+bg.Render(c.desc, styles.MutedText))
	}

	if m.currentView == ViewProducts && !m.searchActive && m.snapshot.SearchQuery != "" {
		segments = append(segments,
			bg.Render("/"+truncate(m.snapshot.SearchQuery, 18), styles.AccentText))
	}

	// Add theme indicator
	segments = append(segments,
		bg.Render("T", styles.AccentText)+colon+bg.Render(m.theme.Name, styles.FaintText))

	return styles.Header.Width(m.width).MaxWidth(m.width).Render(strings.Join(segments, sep))
}
