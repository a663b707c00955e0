package ui

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/five82/kart/internal/messages"
	"github.com/five82/kart/internal/state"
)

// initDetailViewport initializes the detail viewport.
func (m *Model) initDetailViewport() {
	m.detailViewport = viewport.New(maxInt(m.width-4, 1), maxInt(m.height-4, 1))
	m.detailViewport.Style = lipgloss.NewStyle()
}

// updateDetailViewport re-renders the selected product into the viewport.
func (m *Model) updateDetailViewport() {
	if !m.ready {
		return
	}
	// Box height = m.height - 2 (header, cmdbar); inner = box - 2 borders
	m.detailViewport.Width = maxInt(m.width-4, 1)
	m.detailViewport.Height = maxInt(m.height-4, 1)
	m.detailViewport.Style = lipgloss.NewStyle().Background(lipgloss.Color(m.theme.Focus))
	m.detailViewport.SetContent(m.renderDetailContent(m.detailViewport.Width, m.theme.Focus))
}

// handleDetailKey processes keyboard input for the detail view.
func (m Model) handleDetailKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	detail := m.snapshot.SelectedProduct

	switch msg.String() {
	case "a":
		if detail == nil {
			return m, nil
		}
		return m, m.toggleWishlist(detail.Product())

	case "s":
		if detail == nil {
			return m, nil
		}
		m.notice = ""
		return m, m.shareCmd()

	case "r":
		if detail == nil {
			return m, nil
		}
		return m, m.dispatch(state.LoadProductDetail{ID: detail.ID})

	case "j", "down":
		m.detailViewport.ScrollDown(1)
	case "k", "up":
		m.detailViewport.ScrollUp(1)
	case "g", "home":
		m.detailViewport.GotoTop()
	case "G", "end":
		m.detailViewport.GotoBottom()
	case "ctrl+d":
		m.detailViewport.HalfPageDown()
	case "ctrl+u":
		m.detailViewport.HalfPageUp()
	case "pgdown":
		m.detailViewport.PageDown()
	case "pgup":
		m.detailViewport.PageUp()
	}
	return m, nil
}

// shareCmd runs the share-with-address flow: record the request, answer the
// permission prompt from prefs, then share with a fresh fix or the current
// address.
func (m Model) shareCmd() tea.Cmd {
	if m.store == nil {
		return nil
	}
	store, ctx, log := m.store, m.ctx, m.log
	allowed := m.prefs.LocationAllowed()
	done, nothing := m.shareNotice, m.msgs(messages.NothingToShare)
	return func() tea.Msg {
		if err := store.Dispatch(ctx, state.RequestLocationAndShare{}); err != nil {
			return noticeMsg{text: err.Error(), isError: true}
		}
		if err := store.Dispatch(ctx, state.LocationPermissionsResult{Granted: allowed}); err != nil {
			return noticeMsg{text: err.Error(), isError: true}
		}

		var err error
		if allowed {
			err = store.FetchLocationAndShare(ctx)
		} else {
			err = store.Dispatch(ctx, state.ShareProductWithLocation{})
		}
		switch {
		case errors.Is(err, state.ErrNothingToShare):
			return noticeMsg{text: nothing}
		case err != nil:
			log.WithError(err).Warn("share failed")
			return noticeMsg{text: "share: " + err.Error(), isError: true}
		}
		return noticeMsg{text: done}
	}
}

// renderDetail renders the detail view.
func (m Model) renderDetail() string {
	contentHeight := m.height - 2
	title := "Product"
	if d := m.snapshot.SelectedProduct; d != nil {
		title = fmt.Sprintf("#%d %s", d.ID, d.Product().DisplayTitle())
	}
	return m.renderTitledBox(title, m.detailViewport.View(), m.width, contentHeight, true)
}

// renderDetailContent renders the selected product, its wishlist state and
// the last known address.
func (m Model) renderDetailContent(width int, bgColor string) string {
	styles := m.theme.Styles().WithBackground(bgColor)
	wrap := lipgloss.NewStyle().Background(lipgloss.Color(bgColor)).Width(maxInt(width, 1))
	s := m.snapshot

	if s.SelectedProduct == nil {
		switch {
		case s.IsLoadingDetail:
			return styles.WarningText.Render("Loading product...")
		case s.Error != "":
			return styles.DangerText.Render(s.Error) + "\n\n" + styles.FaintText.Render("esc to go back")
		default:
			return styles.MutedText.Render("Select a product from the list")
		}
	}

	d := *s.SelectedProduct
	var b strings.Builder

	// -- HEADER --
	b.WriteString(styles.Text.Bold(true).Render(d.Product().DisplayTitle()))
	b.WriteString("\n")

	chips := []string{}
	if d.Price != "" {
		chips = append(chips, m.theme.Styles().Badge(BadgePrice).Render(d.Price))
	}
	if s.InWishlist(d.ID) {
		chips = append(chips, m.theme.Styles().Badge(BadgeWishlist).Render("WISHLIST"))
	}
	if s.IsLoadingDetail {
		chips = append(chips, m.theme.Styles().Badge(BadgeLoading).Render("REFRESHING"))
	}
	if len(chips) > 0 {
		b.WriteString(strings.Join(chips, styles.Text.Render(" ")))
		b.WriteString("\n")
	}

	writeSection := func(title string) {
		b.WriteString("\n")
		b.WriteString(styles.MutedText.Bold(true).Render(strings.ToUpper(title)))
		b.WriteString("\n")
	}

	if d.Summary != "" {
		writeSection("Summary")
		b.WriteString(wrap.Render(styles.Text.Render(d.Summary)))
		b.WriteString("\n")
	}

	if d.Description != "" {
		writeSection("Description")
		b.WriteString(wrap.Render(styles.Text.Render(d.Description)))
		b.WriteString("\n")
	}

	writeSection("Info")
	rows := [][2]string{
		{"ID", fmt.Sprintf("%d", d.ID)},
		{"Image", truncateMiddle(d.ImageURL, maxInt(width-12, 8))},
	}
	for _, row := range rows {
		if row[1] == "" {
			continue
		}
		b.WriteString(styles.FaintText.Render(padRight(row[0], 10)))
		b.WriteString(styles.InfoText.Render(row[1]))
		b.WriteString("\n")
	}

	writeSection("Share")
	b.WriteString(styles.FaintText.Render(padRight("Address", 10)))
	if s.IsFetchingLocation {
		b.WriteString(m.theme.Styles().Badge(BadgeLocating).Render("LOCATING"))
	} else {
		b.WriteString(styles.Text.Render(s.CurrentAddress))
	}
	b.WriteString("\n")
	if s.Location != nil {
		b.WriteString(styles.FaintText.Render(padRight("Position", 10)))
		b.WriteString(styles.MutedText.Render(s.Location.String()))
		b.WriteString("\n")
	}
	b.WriteString(styles.FaintText.Render(padRight("Location", 10)))
	b.WriteString(styles.MutedText.Render(m.locationLabel()))
	b.WriteString("\n")

	return b.String()
}

// locationLabel describes the standing location answer.
func (m Model) locationLabel() string {
	label := ternary(m.prefs.LocationAllowed(), "allowed", "denied")
	if g := m.snapshot.LocationPermission; g != nil {
		label += ternary(*g, " (last: granted)", " (last: denied)")
	}
	return label
}
