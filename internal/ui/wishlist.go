package ui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/five82/kart/internal/state"
)

// handleWishlistKey processes keyboard input for the wishlist view.
func (m Model) handleWishlistKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	items := m.snapshot.Wishlist

	switch msg.String() {
	case "enter":
		if len(items) == 0 {
			return m, nil
		}
		m.currentView = ViewDetail
		return m, m.dispatch(state.LoadProductDetail{ID: items[m.wishlistRow].ID})

	case "a", "d", "delete":
		if len(items) == 0 {
			return m, nil
		}
		return m, m.dispatch(state.RemoveFromWishlist{Product: items[m.wishlistRow]})
	}

	if row, ok := m.moveCursor(msg, m.wishlistRow, len(items), m.listHeight()); ok {
		m.wishlistRow = row
	}
	return m, nil
}

// renderWishlist renders saved products in the order they were added.
func (m Model) renderWishlist() string {
	styles := m.theme.Styles()
	contentHeight := m.height - 2
	items := m.snapshot.Wishlist

	if len(items) == 0 {
		emptyMsg := styles.MutedText.Render("Your wishlist is empty  (a on a product to save it)")
		return lipgloss.Place(m.width, contentHeight, lipgloss.Center, lipgloss.Center, emptyMsg)
	}

	width := m.width - 2
	rows := contentHeight - 2
	start, end := visibleWindow(m.wishlistRow, len(items), rows)

	lines := make([]string, 0, end-start)
	for i := start; i < end; i++ {
		p := items[i]
		selected := i == m.wishlistRow
		bgColor := ternary(selected, m.theme.SelectionBg, m.theme.Focus)
		bg := NewBgStyle(bgColor)

		idStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(m.theme.Faint))
		titleStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(m.theme.Text))
		summaryStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(m.theme.Muted))
		if selected {
			sel := lipgloss.Color(m.theme.SelectionText)
			idStyle = idStyle.Foreground(sel)
			titleStyle = titleStyle.Foreground(sel).Bold(true)
			summaryStyle = summaryStyle.Foreground(sel)
		}

		id := padRight(fmt.Sprintf("#%d", p.ID), 5)
		titleWidth := maxInt(width/2-len(id), 8)
		title := padRight(truncate(p.DisplayTitle(), titleWidth), titleWidth)
		summary := truncate(p.Summary, maxInt(width-len(id)-titleWidth-3, 0))

		content := bg.Render(id, idStyle) + bg.Space() + bg.Render(title, titleStyle)
		if summary != "" {
			content += bg.Spaces(2) + bg.Render(summary, summaryStyle)
		}
		lines = append(lines, bg.FillLine(content, width))
	}

	title := fmt.Sprintf("Wishlist %d", len(items))
	return m.renderTitledBox(title, strings.Join(lines, "\n"), m.width, contentHeight, true)
}
