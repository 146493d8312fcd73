// Package styles provides shared lipgloss styles for CLI and TUI components.
package styles

import (
	"sort"

	"github.com/charmbracelet/lipgloss"
)

// Palette defines a minimal semantic theme palette.
type Palette struct {
	Primary    lipgloss.Color
	Secondary  lipgloss.Color
	Foreground lipgloss.Color
	Muted      lipgloss.Color
	Background lipgloss.Color
	Surface    lipgloss.Color
	Success    lipgloss.Color
	Warning    lipgloss.Color
	Error      lipgloss.Color
}

// DefaultTheme is the name of the default theme.
const DefaultTheme = "tokyo-night"

// themes holds the built-in named palettes.
var themes = map[string]Palette{
	"tokyo-night": {
		Primary:    lipgloss.Color("#7aa2f7"),
		Secondary:  lipgloss.Color("#7dcfff"),
		Foreground: lipgloss.Color("#c0caf5"),
		Muted:      lipgloss.Color("#565f89"),
		Background: lipgloss.Color("#1a1b26"),
		Surface:    lipgloss.Color("#3b4261"),
		Success:    lipgloss.Color("#9ece6a"),
		Warning:    lipgloss.Color("#e0af68"),
		Error:      lipgloss.Color("#f7768e"),
	},
	"gruvbox": {
		Primary:    lipgloss.Color("#83a598"),
		Secondary:  lipgloss.Color("#8ec07c"),
		Foreground: lipgloss.Color("#ebdbb2"),
		Muted:      lipgloss.Color("#665c54"),
		Background: lipgloss.Color("#282828"),
		Surface:    lipgloss.Color("#3c3836"),
		Success:    lipgloss.Color("#b8bb26"),
		Warning:    lipgloss.Color("#fabd2f"),
		Error:      lipgloss.Color("#fb4934"),
	},
}

// ThemeNames returns sorted names of all built-in themes.
func ThemeNames() []string {
	names := make([]string, 0, len(themes))
	for name := range themes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// GetPalette returns the palette for the given theme name.
func GetPalette(name string) (Palette, bool) {
	p, ok := themes[name]
	return p, ok
}

// CurrentPalette holds the active theme palette.
var CurrentPalette Palette

// Annotation overlay styles. Comments use warning tones, rejections use
// error tones; the emphasized variants are selected when the annotation is
// hovered.
var (
	CommentStyle        lipgloss.Style
	CommentEmphasized   lipgloss.Style
	RejectionStyle      lipgloss.Style
	RejectionEmphasized lipgloss.Style
	OverlapStyle        lipgloss.Style // run covered by both kinds
	SelectionStyle      lipgloss.Style
	CursorStyle         lipgloss.Style
	StatusBarStyle      lipgloss.Style
	StatusModeStyle     lipgloss.Style
	ErrorBannerStyle    lipgloss.Style
	NoticeBannerStyle   lipgloss.Style
	PanelTitleStyle     lipgloss.Style
	PanelMutedStyle     lipgloss.Style
	ModalBorderStyle    lipgloss.Style
	HelpStyle           lipgloss.Style
	StageActiveStyle    lipgloss.Style
	StageInactiveStyle  lipgloss.Style
)

// Plain text styles for non-TUI command output.
var (
	TextPrimaryBoldStyle    lipgloss.Style
	TextForegroundBoldStyle lipgloss.Style
	TextMutedStyle          lipgloss.Style
	TextSuccessStyle        lipgloss.Style
	TextWarningStyle        lipgloss.Style
	TextErrorStyle          lipgloss.Style
)

// SetTheme applies the palette and rebuilds all derived styles.
func SetTheme(p Palette) {
	CurrentPalette = p

	CommentStyle = lipgloss.NewStyle().Background(p.Surface).Foreground(p.Warning)
	CommentEmphasized = lipgloss.NewStyle().Background(p.Warning).Foreground(p.Background).Bold(true)
	RejectionStyle = lipgloss.NewStyle().Background(p.Surface).Foreground(p.Error).Strikethrough(true)
	RejectionEmphasized = lipgloss.NewStyle().Background(p.Error).Foreground(p.Background).Bold(true).Strikethrough(true)
	OverlapStyle = lipgloss.NewStyle().Background(p.Surface).Foreground(p.Secondary).Underline(true)

	SelectionStyle = lipgloss.NewStyle().Background(p.Surface)
	CursorStyle = lipgloss.NewStyle().Background(p.Primary).Foreground(p.Background)

	StatusBarStyle = lipgloss.NewStyle().Foreground(p.Muted).Background(p.Background).Padding(0, 1)
	StatusModeStyle = lipgloss.NewStyle().Foreground(p.Foreground).Background(p.Surface).Bold(true).Padding(0, 1)

	ErrorBannerStyle = lipgloss.NewStyle().Foreground(p.Background).Background(p.Error).Bold(true).Padding(0, 1)
	NoticeBannerStyle = lipgloss.NewStyle().Foreground(p.Background).Background(p.Warning).Padding(0, 1)

	PanelTitleStyle = lipgloss.NewStyle().Foreground(p.Primary).Bold(true)
	PanelMutedStyle = lipgloss.NewStyle().Foreground(p.Muted)
	ModalBorderStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(p.Primary).
		Padding(1, 2)
	HelpStyle = lipgloss.NewStyle().Foreground(p.Muted)

	StageActiveStyle = lipgloss.NewStyle().Foreground(p.Success).Bold(true)
	StageInactiveStyle = lipgloss.NewStyle().Foreground(p.Muted)

	TextPrimaryBoldStyle = lipgloss.NewStyle().Foreground(p.Primary).Bold(true)
	TextForegroundBoldStyle = lipgloss.NewStyle().Foreground(p.Foreground).Bold(true)
	TextMutedStyle = lipgloss.NewStyle().Foreground(p.Muted)
	TextSuccessStyle = lipgloss.NewStyle().Foreground(p.Success)
	TextWarningStyle = lipgloss.NewStyle().Foreground(p.Warning)
	TextErrorStyle = lipgloss.NewStyle().Foreground(p.Error)
}

func init() {
	SetTheme(themes[DefaultTheme])
}
