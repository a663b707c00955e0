package ui

import (
	"github.com/charmbracelet/lipgloss"
)

// Badge names a colored status chip.
type Badge int

const (
	BadgeLoading Badge = iota
	BadgeLocating
	BadgeReady
	BadgeOffline
	BadgeError
	BadgeWishlist
	BadgePrice
	badgeCount
)

// Badges holds one background color per Badge.
type Badges [badgeCount]string

// Theme is a kart color palette.
type Theme struct {
	Name string

	Background string // behind overlays
	Panel      string // header and command bar
	PanelAlt   string // preview and unfocused boxes
	Focus      string // focused box, detail and log content

	SelectionBg   string
	SelectionText string
	Border        string
	BorderFocus   string

	Text    string
	Muted   string
	Faint   string
	Accent  string
	Success string
	Warning string
	Danger  string
	Info    string

	Badges Badges
}

// Color returns the color of badge b.
func (t Theme) Color(b Badge) string {
	if b < 0 || b >= badgeCount || t.Badges[b] == "" {
		return t.Muted
	}
	return t.Badges[b]
}

// Styles returns Lipgloss styles for this theme.
func (t Theme) Styles() Styles {
	fg := func(c string) lipgloss.Style {
		return lipgloss.NewStyle().Foreground(lipgloss.Color(c))
	}
	return Styles{
		Text:        fg(t.Text),
		MutedText:   fg(t.Muted),
		FaintText:   fg(t.Faint),
		AccentText:  fg(t.Accent),
		SuccessText: fg(t.Success).Bold(true),
		WarningText: fg(t.Warning),
		DangerText:  fg(t.Danger).Bold(true),
		InfoText:    fg(t.Info),

		Header: fg(t.Text).Background(lipgloss.Color(t.Panel)).Padding(0, 1),
		Logo:   fg(t.Warning).Bold(true),

		theme: t,
	}
}

// Styles contains pre-built Lipgloss styles for a theme.
type Styles struct {
	Text        lipgloss.Style
	MutedText   lipgloss.Style
	FaintText   lipgloss.Style
	AccentText  lipgloss.Style
	SuccessText lipgloss.Style
	WarningText lipgloss.Style
	DangerText  lipgloss.Style
	InfoText    lipgloss.Style

	Header lipgloss.Style
	Logo   lipgloss.Style

	theme Theme
}

// Badge returns the chip style for b: dark text on the badge color.
func (s Styles) Badge(b Badge) lipgloss.Style {
	return lipgloss.NewStyle().
		Foreground(lipgloss.Color(s.theme.Background)).
		Background(lipgloss.Color(s.theme.Color(b))).
		Padding(0, 1)
}

// WithBackground returns a copy of s whose text styles paint bgColor
// instead of inheriting the terminal background.
func (s Styles) WithBackground(bgColor string) Styles {
	bg := lipgloss.Color(bgColor)
	out := s
	for _, st := range []*lipgloss.Style{
		&out.Text, &out.MutedText, &out.FaintText, &out.AccentText,
		&out.SuccessText, &out.WarningText, &out.DangerText, &out.InfoText,
		&out.Header, &out.Logo,
	} {
		*st = st.Background(bg)
	}
	return out
}

var themeOrder = []string{"Nightfox", "Kanagawa", "Slate"}

var themes = map[string]Theme{
	"Nightfox": nightfoxTheme(),
	"Kanagawa": kanagawaTheme(),
	"Slate":    slateTheme(),
}

// GetTheme returns a theme by name, falling back to Nightfox.
func GetTheme(name string) Theme {
	if t, ok := themes[name]; ok {
		return t
	}
	return themes[themeOrder[0]]
}

// NextTheme returns the theme after current in the T cycle.
func NextTheme(current string) string {
	for i, name := range themeOrder {
		if name == current {
			return themeOrder[(i+1)%len(themeOrder)]
		}
	}
	return themeOrder[0]
}

// ThemeNames returns available theme names in cycle order.
func ThemeNames() []string {
	return themeOrder
}

// https://github.com/EdenEast/nightfox.nvim
func nightfoxTheme() Theme {
	const (
		cyan    = "#63cdcf"
		magenta = "#9d79d6"
		green   = "#81b29a"
		orange  = "#f4a261"
		red     = "#c94f6d"
		yellow  = "#dbc074"
		blue    = "#719cd6"
	)
	return Theme{
		Name:          "Nightfox",
		Background:    "#131a24",
		Panel:         "#192330",
		PanelAlt:      "#212e3f",
		Focus:         "#29394f",
		SelectionBg:   "#2b3b51",
		SelectionText: "#cdcecf",
		Border:        "#39506d",
		BorderFocus:   blue,
		Text:          "#cdcecf",
		Muted:         "#738091",
		Faint:         "#71839b",
		Accent:        blue,
		Success:       green,
		Warning:       yellow,
		Danger:        red,
		Info:          cyan,
		Badges: Badges{
			BadgeLoading:  cyan,
			BadgeLocating: magenta,
			BadgeReady:    green,
			BadgeOffline:  orange,
			BadgeError:    red,
			BadgeWishlist: yellow,
			BadgePrice:    blue,
		},
	}
}

// https://github.com/rebelot/kanagawa.nvim
func kanagawaTheme() Theme {
	const (
		springBlue   = "#7FB4CA"
		oniViolet    = "#957FB8"
		springGreen  = "#98BB6C"
		surimiOrange = "#FFA066"
		waveRed      = "#E46876"
		carpYellow   = "#E6C384"
		crystalBlue  = "#7E9CD8"
	)
	return Theme{
		Name:          "Kanagawa",
		Background:    "#16161D",
		Panel:         "#1F1F28",
		PanelAlt:      "#2A2A37",
		Focus:         "#2A2A37",
		SelectionBg:   "#2D4F67",
		SelectionText: "#DCD7BA",
		Border:        "#54546D",
		BorderFocus:   crystalBlue,
		Text:          "#DCD7BA",
		Muted:         "#C8C093",
		Faint:         "#727169",
		Accent:        crystalBlue,
		Success:       springGreen,
		Warning:       carpYellow,
		Danger:        waveRed,
		Info:          springBlue,
		Badges: Badges{
			BadgeLoading:  springBlue,
			BadgeLocating: oniViolet,
			BadgeReady:    springGreen,
			BadgeOffline:  surimiOrange,
			BadgeError:    waveRed,
			BadgeWishlist: carpYellow,
			BadgePrice:    crystalBlue,
		},
	}
}

// Tailwind slate and sky scales.
func slateTheme() Theme {
	return Theme{
		Name:          "Slate",
		Background:    "#020617",
		Panel:         "#0f172a",
		PanelAlt:      "#1e293b",
		Focus:         "#283548",
		SelectionBg:   "#0284c7",
		SelectionText: "#f8fafc",
		Border:        "#334155",
		BorderFocus:   "#38bdf8",
		Text:          "#f1f5f9",
		Muted:         "#94a3b8",
		Faint:         "#64748b",
		Accent:        "#38bdf8",
		Success:       "#22c55e",
		Warning:       "#f59e0b",
		Danger:        "#ef4444",
		Info:          "#06b6d4",
		Badges: Badges{
			BadgeLoading:  "#38bdf8",
			BadgeLocating: "#06b6d4",
			BadgeReady:    "#22c55e",
			BadgeOffline:  "#f59e0b",
			BadgeError:    "#dc2626",
			BadgeWishlist: "#facc15",
			BadgePrice:    "#0ea5e9",
		},
	}
}
