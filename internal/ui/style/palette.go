package style

import "github.com/charmbracelet/lipgloss"

// Color palette
var (
	Cyan    = lipgloss.Color("#00E5FF") // Primary highlight
	Magenta = lipgloss.Color("#FF1B6B") // Accent
	Yellow  = lipgloss.Color("#FFB500") // Warnings
	Green   = lipgloss.Color("#2AFFAA") // Success
	Red     = lipgloss.Color("#FF5555") // Errors
	Blue    = lipgloss.Color("#3B82F6") // Info

	Base03 = lipgloss.Color("#1B1D23") // Background
	Base01 = lipgloss.Color("#6C7280") // Muted text
	Base2  = lipgloss.Color("#ECEFF4") // Primary text
)

// Palette provides a centralized color management
type Palette struct {
	Primary   lipgloss.Color
	Secondary lipgloss.Color
	Success   lipgloss.Color
	Error     lipgloss.Color
	Warning   lipgloss.Color
	Info      lipgloss.Color

	Background lipgloss.Color
	Text       lipgloss.Color
	TextMuted  lipgloss.Color
}

// DefaultPalette returns the default color palette
func DefaultPalette() Palette {
	return Palette{
		Primary:   Cyan,
		Secondary: Magenta,
		Success:   Green,
		Error:     Red,
		Warning:   Yellow,
		Info:      Blue,

		Background: Base03,
		Text:       Base2,
		TextMuted:  Base01,
	}
}

// Styles groups every style used by the demo screen.
type Styles struct {
	Title       lipgloss.Style
	MenuItem    lipgloss.Style
	Selected    lipgloss.Style
	Description lipgloss.Style
	Panel       lipgloss.Style
	Status      lipgloss.Style
	StatusError lipgloss.Style
	Time        lipgloss.Style
	Logger      lipgloss.Style

	levels map[string]lipgloss.Style
}

// NewStyles creates the demo styles from palette.
func NewStyles(palette Palette) Styles {
	return Styles{
		Title: lipgloss.NewStyle().
			Foreground(palette.Primary).
			Bold(true).
			Margin(1, 0, 1, 2),

		MenuItem: lipgloss.NewStyle().
			Foreground(palette.Text).
			Padding(0, 2),

		Selected: lipgloss.NewStyle().
			Foreground(palette.Background).
			Background(palette.Primary).
			Padding(0, 2).
			Bold(true),

		Description: lipgloss.NewStyle().
			Foreground(palette.TextMuted).
			Padding(0, 2).
			Italic(true),

		Panel: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(palette.TextMuted).
			Padding(0, 1),

		Status: lipgloss.NewStyle().
			Foreground(palette.Success).
			Padding(0, 2),

		StatusError: lipgloss.NewStyle().
			Foreground(palette.Error).
			Bold(true).
			Padding(0, 2),

		Time: lipgloss.NewStyle().
			Foreground(palette.TextMuted),

		Logger: lipgloss.NewStyle().
			Foreground(palette.Secondary),

		levels: map[string]lipgloss.Style{
			"debug": lipgloss.NewStyle().Foreground(palette.Primary),
			"info":  lipgloss.NewStyle().Foreground(palette.Success),
			"warn":  lipgloss.NewStyle().Foreground(palette.Warning),
			"error": lipgloss.NewStyle().Foreground(palette.Error).Bold(true),
		},
	}
}

// Level returns the style for a lowercase level name.
func (s Styles) Level(level string) lipgloss.Style {
	if st, ok := s.levels[level]; ok {
		return st
	}
	return lipgloss.NewStyle().Foreground(Base2)
}
