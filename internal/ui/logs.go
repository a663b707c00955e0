package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/five82/kart/internal/logtail"
)

// logState holds all log-related state.
type logState struct {
	entries     []logtail.Entry
	follow      bool
	lastRefresh time.Time
	err         string

	// minLevel hides entries below it; empty shows everything
	minLevel string

	// Content caching - skip re-render when unchanged
	contentVersion uint64
	lastRendered   uint64
}

var levelRank = map[string]int{
	"TRACE":   0,
	"DEBUG":   1,
	"INFO":    2,
	"WARN":    3,
	"WARNING": 3,
	"ERROR":   4,
	"FATAL":   5,
	"PANIC":   6,
}

// levelCycle is the order the level filter steps through.
var levelCycle = []string{"", "INFO", "WARN", "ERROR"}

type logEntriesMsg struct {
	entries []logtail.Entry
	err     error
}

// initLogViewport initializes the log viewport.
func (m *Model) initLogViewport() {
	m.logViewport = viewport.New(maxInt(m.width-4, 1), maxInt(m.height-5, 1))
	m.logViewport.Style = lipgloss.NewStyle()
}

// updateLogViewport updates the log viewport with current content.
func (m *Model) updateLogViewport() {
	if !m.ready {
		return
	}

	// Box height = m.height - 3 (header, cmdbar, status bar below)
	// Box inner = box height - 2 (top and bottom borders) = m.height - 5
	m.logViewport.Width = maxInt(m.width-4, 1)
	m.logViewport.Height = maxInt(m.height-5, 1)
	m.logViewport.Style = lipgloss.NewStyle().Background(lipgloss.Color(m.theme.Focus))

	if m.logState.lastRendered == 0 || m.logState.contentVersion != m.logState.lastRendered {
		m.logViewport.SetContent(m.renderLogContent())
		m.logState.lastRendered = m.logState.contentVersion
		if m.logState.lastRendered == 0 {
			m.logState.lastRendered = 1 // Mark as rendered at least once
		}
	}

	if m.logState.follow {
		m.logViewport.GotoBottom()
	}
}

// refreshLogs reads the tail of the log file.
func (m *Model) refreshLogs() tea.Cmd {
	path := m.logPath
	if path == "" {
		return nil
	}
	return func() tea.Msg {
		entries, err := logtail.ReadEntries(path, LogFetchLimit)
		return logEntriesMsg{entries: entries, err: err}
	}
}

// handleLogEntries stores a freshly read tail.
func (m *Model) handleLogEntries(msg logEntriesMsg) {
	m.logState.lastRefresh = time.Now()
	if msg.err != nil {
		m.logState.err = msg.err.Error()
		return
	}
	m.logState.err = ""
	m.logState.entries = msg.entries
	m.logState.contentVersion++
	m.updateLogViewport()
}

// filteredEntries applies the level filter.
func (m *Model) filteredEntries() []logtail.Entry {
	if m.logState.minLevel == "" {
		return m.logState.entries
	}
	floor := levelRank[m.logState.minLevel]
	out := make([]logtail.Entry, 0, len(m.logState.entries))
	for _, e := range m.logState.entries {
		rank, ok := levelRank[e.Level]
		if !ok || rank >= floor {
			out = append(out, e)
		}
	}
	return out
}

// handleLogsKey processes keyboard input for logs view.
func (m Model) handleLogsKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case " ":
		m.logState.follow = !m.logState.follow
		m.updateLogViewport()
		return m, nil

	case "f":
		m.logState.minLevel = nextLevel(m.logState.minLevel)
		m.logState.contentVersion++
		m.updateLogViewport()
		return m, nil

	case "r":
		return m, m.refreshLogs()

	case "g", "home":
		m.logViewport.GotoTop()
		m.logState.follow = false
	case "G", "end":
		m.logViewport.GotoBottom()
		m.logState.follow = true
	case "j", "down":
		m.logViewport.ScrollDown(1)
		m.logState.follow = false
	case "k", "up":
		m.logViewport.ScrollUp(1)
		m.logState.follow = false
	case "ctrl+d":
		m.logViewport.HalfPageDown()
		m.logState.follow = false
	case "ctrl+u":
		m.logViewport.HalfPageUp()
		m.logState.follow = false
	case "pgdown":
		m.logViewport.PageDown()
		m.logState.follow = false
	case "pgup":
		m.logViewport.PageUp()
		m.logState.follow = false
	}
	return m, nil
}

func nextLevel(current string) string {
	for i, lvl := range levelCycle {
		if lvl == current {
			return levelCycle[(i+1)%len(levelCycle)]
		}
	}
	return levelCycle[0]
}

// renderLogs renders the log view.
func (m Model) renderLogs() string {
	bg := NewBgStyle(m.theme.Focus)
	styles := m.theme.Styles()
	contentHeight := m.height - 3 // header + cmdbar + status bar below

	title := "Log"
	if m.logState.minLevel != "" {
		title = "Log (" + m.logState.minLevel + "+)"
	}

	box := m.renderTitledBox(title, m.logViewport.View(), m.width, contentHeight, true)
	return box + "\n" + m.renderLogStatus(styles, bg)
}

// renderLogStatus renders the log status bar.
func (m Model) renderLogStatus(styles Styles, bg BgStyle) string {
	if m.logPath == "" {
		return bg.Render("File logging is disabled (set log_file in config)", styles.MutedText)
	}

	autoTail := ternary(m.logState.follow, "on", "off")
	status := fmt.Sprintf("%d lines auto-tail %s", len(m.logState.entries), autoTail)

	parts := []string{bg.Render(status, styles.FaintText)}
	if m.logState.err != "" {
		parts = append(parts, bg.Render(m.logState.err, styles.DangerText))
	}
	parts = append(parts, bg.Render(truncateMiddle(m.logPath, 60), styles.AccentText))

	sep := bg.Space() + bg.Render("•", styles.FaintText) + bg.Space()
	return strings.Join(parts, sep)
}

// renderLogContent renders the colorized log lines.
func (m *Model) renderLogContent() string {
	bg := NewBgStyle(m.theme.Focus)
	styles := m.theme.Styles()

	entries := m.filteredEntries()
	if len(entries) == 0 {
		if m.logPath == "" {
			return bg.Render("No log file", styles.MutedText)
		}
		return bg.Render("No log entries yet", styles.MutedText)
	}

	lines := make([]string, 0, len(entries))
	for _, e := range entries {
		lines = append(lines, m.formatLogEntry(e, styles, bg))
	}
	return strings.Join(lines, "\n")
}

// formatLogEntry renders "15:04:05 LEVEL [component] message k=v ...".
func (m *Model) formatLogEntry(e logtail.Entry, styles Styles, bg BgStyle) string {
	if e.Raw != "" {
		return bg.Render(e.Raw, styles.MutedText)
	}

	var parts []string
	if ts := shortTime(e.Time); ts != "" {
		parts = append(parts, bg.Render(ts, styles.FaintText))
	}
	if e.Level != "" {
		parts = append(parts, bg.Render(padRight(e.Level, 5), m.getLevelStyle(e.Level, styles)))
	}
	if e.Component != "" {
		parts = append(parts, bg.Render("["+e.Component+"]", styles.AccentText))
	}
	parts = append(parts, bg.Render(e.Message, styles.Text))
	if len(e.Fields) > 0 {
		parts = append(parts, bg.Render(strings.Join(e.Fields, " "), styles.MutedText))
	}
	return strings.Join(parts, bg.Space())
}

// shortTime trims an RFC3339 timestamp to its clock part.
func shortTime(value string) string {
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return value
	}
	return t.Local().Format("15:04:05")
}

// getLevelStyle returns the style for a log level.
func (m *Model) getLevelStyle(level string, styles Styles) lipgloss.Style {
	switch level {
	case "INFO":
		return styles.SuccessText
	case "WARN", "WARNING":
		return styles.WarningText
	case "ERROR", "FATAL", "PANIC":
		return styles.DangerText
	case "DEBUG", "TRACE":
		return styles.InfoText
	default:
		return styles.Text
	}
}
