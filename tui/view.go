package tui

import (
	"strings"

	"saythenumber/shared/types"
)

// View implements tea.Model interface
func (m Model) View() string {
	var b strings.Builder

	b.WriteString(m.styles.Title.Render("🔢 " + TextTitle))
	b.WriteString("\n")
	b.WriteString(m.styles.Intro.Render(TextIntro))
	b.WriteString("\n\n")

	b.WriteString(m.styles.Input.Render(m.input.View()))
	b.WriteString("\n\n")

	b.WriteString(m.button(TextButtonNow, types.PathNow))
	b.WriteString(m.button(TextButtonDelay, types.PathDelay))
	b.WriteString("\n\n")

	switch m.snapshot.State {
	case types.StateSucceeded:
		b.WriteString(m.styles.Answer.Render(m.snapshot.Answer))
		b.WriteString("\n\n")
	case types.StateFailed:
		if m.snapshot.Error != nil {
			b.WriteString(m.styles.Error.Render("❌ " + m.snapshot.Error.Message))
			b.WriteString("\n\n")
		}
	}

	if m.notice != "" {
		b.WriteString(m.styles.Info.Render(m.notice))
		b.WriteString("\n")
	}

	b.WriteString(m.help.View(keys))
	return b.String()
}

// button renders one submit control: disabled while loading, with the
// spinner on the path that is running
func (m Model) button(label string, path types.Path) string {
	if !m.snapshot.Loading {
		return m.styles.Button.Render(label)
	}
	if m.snapshot.Path == path {
		return m.styles.ButtonDisabled.Render(m.spinner.View() + " " + TextLoading)
	}
	return m.styles.ButtonDisabled.Render(label)
}
