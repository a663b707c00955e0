package ui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/five82/kart/internal/catalog"
	"github.com/five82/kart/internal/state"
)

// clampSelection keeps list cursors inside the current lists.
func (m *Model) clampSelection() {
	m.selectedRow = clampIndex(m.selectedRow, len(m.snapshot.VisibleProducts()))
	m.wishlistRow = clampIndex(m.wishlistRow, len(m.snapshot.Wishlist))
}

func clampIndex(idx, n int) int {
	if n == 0 || idx < 0 {
		return 0
	}
	if idx >= n {
		return n - 1
	}
	return idx
}

// selectedProduct returns the highlighted row of the product list.
func (m Model) selectedProduct() *catalog.Product {
	items := m.snapshot.VisibleProducts()
	if m.selectedRow < 0 || m.selectedRow >= len(items) {
		return nil
	}
	p := items[m.selectedRow]
	return &p
}

// moveCursor applies a navigation key to a cursor over n rows.
func (m Model) moveCursor(msg tea.KeyMsg, cur, n, page int) (int, bool) {
	if n == 0 {
		return 0, false
	}
	if page < 1 {
		page = 1
	}
	switch msg.String() {
	case "j", "down":
		cur++
	case "k", "up":
		cur--
	case "g", "home":
		cur = 0
	case "G", "end":
		cur = n - 1
	case "ctrl+d":
		cur += page / 2
	case "ctrl+u":
		cur -= page / 2
	case "pgdown":
		cur += page
	case "pgup":
		cur -= page
	default:
		return cur, false
	}
	return clampIndex(cur, n), true
}

// handleProductsKey processes keyboard input for the product list.
func (m Model) handleProductsKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "/":
		m.searchActive = true
		m.searchInput.SetValue(m.snapshot.SearchQuery)
		m.searchInput.CursorEnd()
		cmd := m.searchInput.Focus()
		return m, cmd

	case "r":
		return m, m.dispatch(state.LoadProductList{})

	case "enter":
		p := m.selectedProduct()
		if p == nil {
			return m, nil
		}
		m.currentView = ViewDetail
		return m, m.dispatch(state.LoadProductDetail{ID: p.ID})

	case "a":
		p := m.selectedProduct()
		if p == nil {
			return m, nil
		}
		return m, m.toggleWishlist(*p)
	}

	if row, ok := m.moveCursor(msg, m.selectedRow, len(m.snapshot.VisibleProducts()), m.listHeight()); ok {
		m.selectedRow = row
	}
	return m, nil
}

// handleSearchInput feeds keys to the search box. Every edit is dispatched so
// the list filters while typing.
func (m Model) handleSearchInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		m.searchActive = false
		m.searchInput.Blur()
		return m, nil

	case "esc":
		m.searchActive = false
		m.searchInput.Blur()
		m.searchInput.SetValue("")
		if m.snapshot.SearchQuery == "" {
			return m, nil
		}
		return m, m.search("")

	case "ctrl+c":
		return m, tea.Quit
	}

	before := m.searchInput.Value()
	var cmd tea.Cmd
	m.searchInput, cmd = m.searchInput.Update(msg)
	if after := m.searchInput.Value(); after != before {
		m.selectedRow = 0
		return m, tea.Batch(cmd, m.search(after))
	}
	return m, cmd
}

// toggleWishlist adds p, or removes it when already present.
func (m Model) toggleWishlist(p catalog.Product) tea.Cmd {
	if m.snapshot.InWishlist(p.ID) {
		return m.dispatch(state.RemoveFromWishlist{Product: p})
	}
	return m.dispatch(state.AddToWishlist{Product: p})
}

// listHeight is the number of rows visible inside a list pane.
func (m Model) listHeight() int {
	// header + cmdbar + box borders
	return maxInt(m.height-4, 1)
}

// renderProducts renders the product list with a preview pane.
func (m Model) renderProducts() string {
	styles := m.theme.Styles()
	contentHeight := m.height - 2 // Account for header + cmdbar

	items := m.snapshot.VisibleProducts()
	if len(items) == 0 && !m.searchActive && m.snapshot.SearchQuery == "" {
		emptyMsg := styles.MutedText.Render(m.emptyProductsText())
		return lipgloss.Place(m.width, contentHeight, lipgloss.Center, lipgloss.Center, emptyMsg)
	}

	// Extra wide: 35% list, 65% preview. Compact: list only.
	var listWidth, previewWidth int
	switch {
	case m.width < LayoutCompactWidth:
		listWidth = m.width
	case m.width >= LayoutExtraWideWidth:
		listWidth = m.width * 35 / 100
	default:
		listWidth = m.width * 45 / 100
	}
	previewWidth = m.width - listWidth

	listBg := m.theme.Focus
	listContent := m.renderProductRows(items, listWidth-2, contentHeight-2, listBg)
	listPane := m.renderTitledBox(m.productsTitle(len(items)), listContent, listWidth, contentHeight, true)

	if previewWidth <= 0 {
		return listPane
	}

	previewBg := m.theme.PanelAlt
	var previewContent string
	if p := m.selectedProduct(); p != nil {
		previewContent = m.renderPreview(*p, previewWidth-4, previewBg)
	} else {
		previewContent = lipgloss.NewStyle().
			Foreground(lipgloss.Color(m.theme.Muted)).
			Background(lipgloss.Color(previewBg)).
			Render("No matching products")
	}
	previewPane := m.renderTitledBox("Preview", previewContent, previewWidth, contentHeight, false)

	return lipgloss.JoinHorizontal(lipgloss.Top, listPane, previewPane)
}

func (m Model) emptyProductsText() string {
	switch {
	case m.snapshot.IsLoadingList:
		return "Loading products..."
	case m.snapshot.Error != "":
		return m.snapshot.Error + "  (r to retry)"
	case m.snapshot.ProductsLoaded:
		return "The catalog is empty"
	default:
		return "No products loaded  (r to load)"
	}
}

func (m Model) productsTitle(visible int) string {
	total := len(m.snapshot.Products)
	if m.snapshot.SearchQuery != "" {
		return fmt.Sprintf("Products %d/%d", visible, total)
	}
	return fmt.Sprintf("Products %d", total)
}

// renderProductRows renders the visible window of rows plus the search line.
func (m Model) renderProductRows(items []catalog.Product, width, height int, bgColor string) string {
	bg := NewBgStyle(bgColor)
	styles := m.theme.Styles()

	rows := height
	var search string
	if m.searchActive || m.snapshot.SearchQuery != "" {
		rows--
		if m.searchActive {
			search = m.searchInput.View()
		} else {
			search = bg.Render("/"+m.snapshot.SearchQuery, styles.AccentText)
		}
	}

	start, end := visibleWindow(m.selectedRow, len(items), rows)
	lines := make([]string, 0, rows+1)
	for i := start; i < end; i++ {
		lines = append(lines, m.formatProductRow(items[i], width, bgColor, i == m.selectedRow))
	}
	if len(items) == 0 {
		lines = append(lines, bg.Render("No matches", styles.MutedText))
	}
	for len(lines) < rows {
		lines = append(lines, "")
	}
	if search != "" {
		lines = append(lines, search)
	}
	return strings.Join(lines, "\n")
}

// visibleWindow returns the [start,end) slice of n rows that keeps cur in a
// window of size rows.
func visibleWindow(cur, n, rows int) (int, int) {
	if rows <= 0 || n <= rows {
		return 0, n
	}
	start := cur - rows/2
	if start < 0 {
		start = 0
	}
	if start+rows > n {
		start = n - rows
	}
	return start, start + rows
}

// formatProductRow formats a list row as "#ID ★ Title".
// When selected is true, uses SelectionText color for all text to ensure contrast.
func (m Model) formatProductRow(p catalog.Product, width int, bgColor string, selected bool) string {
	if selected {
		bgColor = m.theme.SelectionBg
	}
	bg := NewBgStyle(bgColor)

	idStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(m.theme.Faint))
	titleStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(m.theme.Text))
	markStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(m.theme.Color(BadgeWishlist)))
	if selected {
		sel := lipgloss.Color(m.theme.SelectionText)
		idStyle = idStyle.Foreground(sel)
		titleStyle = titleStyle.Foreground(sel).Bold(true)
	}

	id := padRight(fmt.Sprintf("#%d", p.ID), 5)
	mark := ternary(m.snapshot.InWishlist(p.ID), "★", " ")
	title := truncate(p.DisplayTitle(), maxInt(width-len(id)-3, 1))

	content := bg.Render(id, idStyle) + bg.Space() + bg.Render(mark, markStyle) + bg.Space() + bg.Render(title, titleStyle)
	return lipgloss.NewStyle().Background(lipgloss.Color(bgColor)).Width(width).Render(content)
}

// renderPreview renders the summary of the highlighted product.
func (m Model) renderPreview(p catalog.Product, width int, bgColor string) string {
	styles := m.theme.Styles().WithBackground(bgColor)
	wrap := lipgloss.NewStyle().Background(lipgloss.Color(bgColor)).Width(width)

	var b strings.Builder
	b.WriteString(styles.Text.Bold(true).Render(p.DisplayTitle()))
	b.WriteString("\n")
	b.WriteString(styles.FaintText.Render(fmt.Sprintf("#%d", p.ID)))
	if m.snapshot.InWishlist(p.ID) {
		b.WriteString(styles.FaintText.Render("  "))
		b.WriteString(m.theme.Styles().Badge(BadgeWishlist).Render("WISHLIST"))
	}
	b.WriteString("\n\n")
	if p.Summary != "" {
		b.WriteString(wrap.Render(styles.Text.Render(p.Summary)))
		b.WriteString("\n\n")
	}
	if p.ImageURL != "" {
		b.WriteString(styles.MutedText.Render("Image  "))
		b.WriteString(styles.InfoText.Render(truncateMiddle(p.ImageURL, maxInt(width-7, 8))))
		b.WriteString("\n\n")
	}
	b.WriteString(styles.FaintText.Render("enter to open  a to " + ternary(m.snapshot.InWishlist(p.ID), "remove", "save")))
	return b.String()
}

// renderTitledBox renders a box with the title embedded in the top border.
func (m Model) renderTitledBox(title, content string, width, height int, focused bool) string {
	var borderColorStr, bgColorStr string
	if focused {
		borderColorStr = m.theme.BorderFocus
		bgColorStr = m.theme.Focus
	} else {
		borderColorStr = m.theme.Border
		bgColorStr = m.theme.PanelAlt
	}
	bg := NewBgStyle(bgColorStr)
	borderStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(borderColorStr))
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(m.theme.Text))

	innerWidth := maxInt(width-2, 0)
	title = truncate(title, maxInt(innerWidth-4, 1))
	titleLen := lipgloss.Width(title)
	leftPad := maxInt((innerWidth-titleLen-2)/2, 0)
	rightPad := maxInt(innerWidth-titleLen-2-leftPad, 0)

	topBorder := bg.Render("┌", borderStyle) +
		bg.Render(strings.Repeat("─", leftPad), borderStyle) +
		bg.Render(" "+title+" ", titleStyle) +
		bg.Render(strings.Repeat("─", rightPad), borderStyle) +
		bg.Render("┐", borderStyle)

	bottomBorder := bg.Render("└", borderStyle) +
		bg.Render(strings.Repeat("─", innerWidth), borderStyle) +
		bg.Render("┘", borderStyle)

	contentStyle := lipgloss.NewStyle().Width(innerWidth).MaxWidth(innerWidth).Background(lipgloss.Color(bgColorStr))

	contentLines := strings.Split(content, "\n")
	boxHeight := height - 2

	lines := make([]string, 0, boxHeight)
	for i := 0; i < boxHeight; i++ {
		var line string
		if i < len(contentLines) {
			line = contentLines[i]
		}
		lines = append(lines,
			bg.Render("│", borderStyle)+
				contentStyle.Render(line)+
				bg.Render("│", borderStyle))
	}

	return topBorder + "\n" + strings.Join(lines, "\n") + "\n" + bottomBorder
}
