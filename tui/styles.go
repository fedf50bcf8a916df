package tui

import "github.com/charmbracelet/lipgloss"

// Palette is one color scheme
type Palette struct {
	Primary  lipgloss.Color
	Text     lipgloss.Color
	Muted    lipgloss.Color
	Success  lipgloss.Color
	Error    lipgloss.Color
	Border   lipgloss.Color
	Disabled lipgloss.Color
	ButtonFg lipgloss.Color
	ButtonBg lipgloss.Color
	AnswerBg lipgloss.Color
}

var (
	lightPalette = Palette{
		Primary:  lipgloss.Color("#7D56F4"),
		Text:     lipgloss.Color("#1F2937"),
		Muted:    lipgloss.Color("#6B7280"),
		Success:  lipgloss.Color("#047857"),
		Error:    lipgloss.Color("#DC2626"),
		Border:   lipgloss.Color("#874BFD"),
		Disabled: lipgloss.Color("#9CA3AF"),
		ButtonFg: lipgloss.Color("#FAFAFA"),
		ButtonBg: lipgloss.Color("#7D56F4"),
		AnswerBg: lipgloss.Color("#F3F4F6"),
	}
	darkPalette = Palette{
		Primary:  lipgloss.Color("#A78BFA"),
		Text:     lipgloss.Color("#F9FAFB"),
		Muted:    lipgloss.Color("#9CA3AF"),
		Success:  lipgloss.Color("#04B575"),
		Error:    lipgloss.Color("#F87171"),
		Border:   lipgloss.Color("#A78BFA"),
		Disabled: lipgloss.Color("#4B5563"),
		ButtonFg: lipgloss.Color("#111827"),
		ButtonBg: lipgloss.Color("#A78BFA"),
		AnswerBg: lipgloss.Color("#1F2937"),
	}
)

// Styles for the TUI application
type Styles struct {
	Title          lipgloss.Style
	Intro          lipgloss.Style
	Input          lipgloss.Style
	Button         lipgloss.Style
	ButtonDisabled lipgloss.Style
	Answer         lipgloss.Style
	Error          lipgloss.Style
	Info           lipgloss.Style
	Spinner        lipgloss.Style
}

// NewStyles builds the styles for the light or dark palette
func NewStyles(dark bool) Styles {
	p := lightPalette
	if dark {
		p = darkPalette
	}

	return Styles{
		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(p.Primary).
			MarginTop(1).
			MarginBottom(1),
		Intro: lipgloss.NewStyle().
			Foreground(p.Text),
		Input: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(p.Border).
			Padding(0, 1),
		Button: lipgloss.NewStyle().
			Bold(true).
			Foreground(p.ButtonFg).
			Background(p.ButtonBg).
			Padding(0, 2).
			MarginRight(2),
		ButtonDisabled: lipgloss.NewStyle().
			Foreground(p.Disabled).
			Padding(0, 2).
			MarginRight(2),
		Answer: lipgloss.NewStyle().
			Bold(true).
			Foreground(p.Success).
			Background(p.AnswerBg).
			Padding(1, 2),
		Error: lipgloss.NewStyle().
			Foreground(p.Error),
		Info: lipgloss.NewStyle().
			Foreground(p.Muted),
		Spinner: lipgloss.NewStyle().
			Foreground(p.Primary),
	}
}
