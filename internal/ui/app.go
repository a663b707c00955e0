package ui

import (
	"context"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/sirupsen/logrus"

	"github.com/five82/kart/internal/logging"
	"github.com/five82/kart/internal/messages"
	"github.com/five82/kart/internal/prefs"
	"github.com/five82/kart/internal/state"
)

// View represents the current active view.
type View int

const (
	ViewProducts View = iota
	ViewDetail
	ViewWishlist
	ViewLogs
)

// String returns the view's title.
func (v View) String() string {
	switch v {
	case ViewDetail:
		return "detail"
	case ViewWishlist:
		return "wishlist"
	case ViewLogs:
		return "logs"
	default:
		return "products"
	}
}

// Store is the part of the state store the UI drives.
type Store interface {
	Dispatch(ctx context.Context, ev state.Event) error
	Subscribe() (<-chan state.State, func())
	FetchLocationAndShare(ctx context.Context) error
}

// Options configures the UI.
type Options struct {
	Context   context.Context
	Store     Store
	Messages  messages.Lookup
	Prefs     prefs.Prefs
	PrefsPath string
	LogPath   string
	// ShareNotice is shown after a successful share; it should name where
	// the text went. Empty uses the clipboard message.
	ShareNotice string
	Tick        time.Duration
	Log         *logrus.Entry
}

// Model is the root application state for Bubble Tea.
type Model struct {
	// Configuration
	ctx       context.Context
	store     Store
	msgs      messages.Lookup
	log       *logrus.Entry
	prefs     prefs.Prefs
	prefsPath string
	logPath   string
	tick      time.Duration
	keys      keyMap

	shareNotice string

	// Store subscription
	updates     <-chan state.State
	unsubscribe func()

	// UI state
	theme       Theme
	currentView View
	width       int
	height      int
	ready       bool

	// Data state
	snapshot    state.State
	lastUpdated time.Time

	// List state
	selectedRow  int
	wishlistRow  int
	searchActive bool
	searchInput  textinput.Model

	// Detail state
	detailViewport viewport.Model

	// Log state
	logViewport viewport.Model
	logState    logState

	// Transient status line (share results, prefs errors)
	notice      string
	noticeError bool

	showHelp bool
}

// New creates a new Bubble Tea model subscribed to opts.Store.
func New(opts Options) Model {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}

	tick := opts.Tick
	if tick == 0 {
		tick = DefaultUIInterval
	}

	msgs := opts.Messages
	if msgs == nil {
		msgs = messages.Default
	}

	log := opts.Log
	if log == nil {
		log = logging.Discard()
	}

	prefsPath := opts.PrefsPath
	if prefsPath == "" {
		prefsPath = prefs.DefaultPath()
	}

	shareNotice := opts.ShareNotice
	if shareNotice == "" {
		shareNotice = msgs(messages.ShareCopied)
	}

	ti := textinput.New()
	ti.Placeholder = "Search products..."
	ti.Prompt = "/"
	ti.CharLimit = 100

	m := Model{
		ctx:         ctx,
		store:       opts.Store,
		msgs:        msgs,
		log:         log.WithField("component", "ui"),
		prefs:       opts.Prefs,
		prefsPath:   prefsPath,
		logPath:     opts.LogPath,
		shareNotice: shareNotice,
		tick:        tick,
		keys:        DefaultKeyMap(),
		theme:       GetTheme(opts.Prefs.Theme),
		currentView: ViewProducts,
		snapshot:    state.Initial(msgs),
		searchInput: ti,
		logState:    logState{follow: true},
	}
	if m.store != nil {
		m.updates, m.unsubscribe = m.store.Subscribe()
	}
	return m
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{
		tickCmd(m.tick),
	}
	if m.store != nil {
		cmds = append(cmds,
			waitForState(m.updates),
			m.dispatch(state.LoadProductList{}),
		)
	}
	return tea.Batch(cmds...)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		if !m.ready {
			m.initDetailViewport()
			m.initLogViewport()
		}
		m.ready = true
		m.clampSelection()
		m.updateDetailViewport()
		m.updateLogViewport()
		return m, nil

	case stateMsg:
		return m.handleState(state.State(msg))

	case updatesClosedMsg:
		m.updates = nil
		return m, nil

	case tickMsg:
		return m.handleTick()

	case wishlistExpiredMsg:
		if m.snapshot.LastWishlistMessage == string(msg) {
			return m, m.dispatch(state.ClearLastWishlistActionMessage{})
		}
		return m, nil

	case noticeMsg:
		m.notice = msg.text
		m.noticeError = msg.isError
		return m, nil

	case logEntriesMsg:
		m.handleLogEntries(msg)
		return m, nil
	}

	return m, nil
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}

	if m.showHelp {
		return m.renderHelp()
	}

	return m.renderMain()
}

// handleState takes a new snapshot from the store and re-arms the
// subscription.
func (m Model) handleState(s state.State) (tea.Model, tea.Cmd) {
	prev := m.snapshot
	m.snapshot = s
	m.lastUpdated = time.Now()
	m.clampSelection()
	m.updateDetailViewport()

	cmds := []tea.Cmd{waitForState(m.updates)}
	if s.LastWishlistMessage != "" && s.LastWishlistMessage != prev.LastWishlistMessage {
		cmds = append(cmds, expireWishlistCmd(s.LastWishlistMessage, WishlistNoticeTTL))
	}
	return m, tea.Batch(cmds...)
}

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.showHelp {
		// Any key closes help
		m.showHelp = false
		return m, nil
	}

	// The search box swallows everything while focused
	if m.searchActive {
		return m.handleSearchInput(msg)
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.showHelp = true
		return m, nil

	case key.Matches(msg, m.keys.CycleTheme):
		m.theme = GetTheme(NextTheme(m.theme.Name))
		m.prefs.Theme = m.theme.Name
		m.logState.contentVersion++
		m.updateDetailViewport()
		m.updateLogViewport()
		return m, m.savePrefs()

	case key.Matches(msg, m.keys.ToggleLocation):
		m.prefs = m.prefs.WithLocationAllowed(!m.prefs.LocationAllowed())
		m.notice = "Location sharing " + ternary(m.prefs.LocationAllowed(), "allowed", "denied")
		m.noticeError = false
		m.updateDetailViewport()
		return m, m.savePrefs()

	case key.Matches(msg, m.keys.DismissError):
		m.notice = ""
		if m.snapshot.Error != "" {
			return m, m.dispatch(state.ClearError{})
		}
		return m, nil

	case key.Matches(msg, m.keys.Tab):
		return m.switchView(m.nextView(1))

	case key.Matches(msg, m.keys.ShiftTab):
		return m.switchView(m.nextView(-1))

	case key.Matches(msg, m.keys.ViewProducts):
		return m.switchView(ViewProducts)

	case key.Matches(msg, m.keys.ViewWishlist):
		return m.switchView(ViewWishlist)

	case key.Matches(msg, m.keys.ViewLogs):
		return m.switchView(ViewLogs)

	case key.Matches(msg, m.keys.Escape):
		if m.currentView == ViewProducts && m.snapshot.SearchQuery != "" {
			m.searchInput.SetValue("")
			return m, m.search("")
		}
		m.currentView = ViewProducts
		return m, nil
	}

	// View-specific keys
	switch m.currentView {
	case ViewProducts:
		return m.handleProductsKey(msg)
	case ViewDetail:
		return m.handleDetailKey(msg)
	case ViewWishlist:
		return m.handleWishlistKey(msg)
	case ViewLogs:
		return m.handleLogsKey(msg)
	}

	return m, nil
}

// nextView returns the view dir steps away in the tab cycle. The detail view
// is only part of the cycle once a product has been opened.
func (m Model) nextView(dir int) View {
	cycle := []View{ViewProducts}
	if m.snapshot.SelectedProduct != nil || m.snapshot.IsLoadingDetail {
		cycle = append(cycle, ViewDetail)
	}
	cycle = append(cycle, ViewWishlist, ViewLogs)

	idx := 0
	for i, v := range cycle {
		if v == m.currentView {
			idx = i
			break
		}
	}
	idx = (idx + dir + len(cycle)) % len(cycle)
	return cycle[idx]
}

// switchView changes the active view, fetching logs immediately when
// entering the log view.
func (m Model) switchView(v View) (tea.Model, tea.Cmd) {
	m.currentView = v
	if v == ViewLogs {
		return m, m.refreshLogs()
	}
	return m, nil
}

// handleTick processes the refresh tick.
func (m Model) handleTick() (tea.Model, tea.Cmd) {
	cmds := []tea.Cmd{tickCmd(m.tick)}

	if m.currentView == ViewLogs && m.logState.follow {
		if cmd := m.refreshLogs(); cmd != nil {
			cmds = append(cmds, cmd)
		}
	}

	return m, tea.Batch(cmds...)
}

// renderMain renders the full UI.
func (m Model) renderMain() string {
	var b strings.Builder

	// Header line 1: logo + status
	b.WriteString(m.renderHeader())
	b.WriteString("\n")

	// Header line 2: command bar
	b.WriteString(m.renderCommandBar())
	b.WriteString("\n")

	b.WriteString(m.renderContent())

	return b.String()
}

// renderContent renders the main content area based on current view.
func (m Model) renderContent() string {
	switch m.currentView {
	case ViewProducts:
		return m.renderProducts()
	case ViewDetail:
		return m.renderDetail()
	case ViewWishlist:
		return m.renderWishlist()
	case ViewLogs:
		return m.renderLogs()
	default:
		return ""
	}
}

// Messages

type tickMsg time.Time

type stateMsg state.State

type updatesClosedMsg struct{}

// wishlistExpiredMsg carries the notice that was showing when its timer
// started.
type wishlistExpiredMsg string

type noticeMsg struct {
	text    string
	isError bool
}

// Commands

func tickCmd(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func waitForState(ch <-chan state.State) tea.Cmd {
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		s, ok := <-ch
		if !ok {
			return updatesClosedMsg{}
		}
		return stateMsg(s)
	}
}

func expireWishlistCmd(message string, after time.Duration) tea.Cmd {
	return tea.Tick(after, func(time.Time) tea.Msg {
		return wishlistExpiredMsg(message)
	})
}

// dispatch sends ev to the store off the UI goroutine. Resulting states
// arrive through the subscription.
func (m Model) dispatch(ev state.Event) tea.Cmd {
	if m.store == nil {
		return nil
	}
	store, ctx, log := m.store, m.ctx, m.log
	return func() tea.Msg {
		if err := store.Dispatch(ctx, ev); err != nil {
			log.WithError(err).Warn("dispatch failed")
			return noticeMsg{text: err.Error(), isError: true}
		}
		return nil
	}
}

// search applies the query before returning so successive edits reach the
// store in typing order. SearchProducts never touches the network.
func (m Model) search(query string) tea.Cmd {
	if m.store == nil {
		return nil
	}
	if err := m.store.Dispatch(m.ctx, state.SearchProducts{Query: query}); err != nil {
		m.log.WithError(err).Warn("search failed")
		text := err.Error()
		return func() tea.Msg { return noticeMsg{text: text, isError: true} }
	}
	return nil
}

// savePrefs persists the current preferences.
func (m Model) savePrefs() tea.Cmd {
	if m.prefsPath == "" {
		return nil
	}
	path, p, log := m.prefsPath, m.prefs, m.log
	return func() tea.Msg {
		if err := prefs.Save(path, p); err != nil {
			log.WithError(err).Warn("save prefs failed")
			return noticeMsg{text: "prefs: " + err.Error(), isError: true}
		}
		return nil
	}
}

// Run starts the Bubble Tea program and blocks until it exits.
func Run(opts Options) error {
	m := New(opts)
	if m.unsubscribe != nil {
		defer m.unsubscribe()
	}
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(m.ctx))
	_, err := p.Run()
	return err
}
