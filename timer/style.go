package timer

import "github.com/charmbracelet/lipgloss"

// Style holds the lipgloss styles of the timer screen.
type Style struct {
	Base       lipgloss.Style
	Main       lipgloss.Style
	Secondary  lipgloss.Style
	Hint       lipgloss.Style
	Error      lipgloss.Style
	Work       lipgloss.Style
	ShortBreak lipgloss.Style
	LongBreak  lipgloss.Style
}

const (
	workColor       = "#B0DB43"
	shortBreakColor = "#12EAEA"
	longBreakColor  = "#C492B1"
)

func chip(color string) lipgloss.Style {
	return lipgloss.NewStyle().
		Foreground(lipgloss.Color("#000000")).
		Background(lipgloss.Color(color)).
		Padding(0, 1).
		MarginRight(1)
}

// NewStyle returns the timer styles for a dark or light terminal.
func NewStyle(dark bool) Style {
	main := lipgloss.Color("#FFFFFF")
	secondary := lipgloss.Color("#BBBBBB")
	hint := lipgloss.Color("#777777")

	if !dark {
		main = lipgloss.Color("#111111")
		secondary = lipgloss.Color("#444444")
		hint = lipgloss.Color("#888888")
	}

	return Style{
		Base:       lipgloss.NewStyle().Padding(1, 2),
		Main:       lipgloss.NewStyle().Bold(true).Foreground(main),
		Secondary:  lipgloss.NewStyle().Foreground(secondary),
		Hint:       lipgloss.NewStyle().Foreground(hint),
		Error:      lipgloss.NewStyle().Foreground(lipgloss.Color("#FF5F5F")),
		Work:       chip(workColor).SetString("Work"),
		ShortBreak: chip(shortBreakColor).SetString("Short break"),
		LongBreak:  chip(longBreakColor).SetString("Long break"),
	}
}

// Phase returns the chip for the phase of s.
func (st Style) Phase(s State) lipgloss.Style {
	switch {
	case s.Phase == Work:
		return st.Work
	case s.LongBreak:
		return st.LongBreak
	default:
		return st.ShortBreak
	}
}
