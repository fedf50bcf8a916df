package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"saythenumber/orchestrator"
	"saythenumber/preferences"
)

// waitForAttempt blocks off the UI goroutine until the attempt settles
func waitForAttempt(a *orchestrator.Attempt) tea.Cmd {
	return func() tea.Msg {
		<-a.Done()
		return attemptSettledMsg{AttemptID: a.ID(), Result: a.Result()}
	}
}

// saveTheme persists the dark mode choice; an empty path skips saving
func saveTheme(path string, dark bool) tea.Cmd {
	if path == "" {
		return nil
	}
	return func() tea.Msg {
		prefs, err := preferences.Load(path)
		if err != nil {
			return themeSavedMsg{Err: err}
		}
		prefs.SetDarkMode(dark)
		return themeSavedMsg{Err: prefs.Save(path)}
	}
}
