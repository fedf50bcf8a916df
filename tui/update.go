package tui

import (
	"errors"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"saythenumber/numinput"
	"saythenumber/orchestrator"
)

// Update implements tea.Model interface
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyPress(msg)
	case tea.WindowSizeMsg:
		m.help.Width = msg.Width
		return m, nil
	case attemptSettledMsg:
		return m.handleAttemptSettled(msg)
	case themeSavedMsg:
		return m.handleThemeSaved(msg)
	case spinner.TickMsg:
		if !m.snapshot.Loading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// handleKeyPress processes keyboard input
func (m Model) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, keys.SayNow):
		return m.submit(m.orch.SubmitNow)
	case key.Matches(msg, keys.SayDelay):
		return m.submit(m.orch.SubmitWithDelay)
	case key.Matches(msg, keys.Theme):
		m.setTheme(!m.dark)
		return m, saveTheme(m.prefsPath, m.dark)
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	m.normalizeInput()
	return m, cmd
}

// normalizeInput rewrites the input to its canonical form after every edit
func (m *Model) normalizeInput() {
	raw := m.input.Value()
	if canonical := numinput.Normalize(raw); canonical != raw {
		m.input.SetValue(canonical)
		m.input.CursorEnd()
	}
}

// submit starts an attempt unless one is already loading
func (m Model) submit(fn func(string) (*orchestrator.Attempt, error)) (tea.Model, tea.Cmd) {
	if m.snapshot.Loading {
		return m, nil
	}

	attempt, err := fn(m.input.Value())
	if errors.Is(err, orchestrator.ErrAttemptInFlight) {
		m.snapshot = m.orch.Snapshot()
		return m, nil
	}
	if err != nil {
		m.logger.Error("Submit failed", zap.Error(err))
		m.notice = err.Error()
		return m, nil
	}

	m.notice = ""
	m.snapshot = m.orch.Snapshot()
	if !attempt.Dispatched() {
		m.snapshot = attempt.Result()
		return m, nil
	}
	return m, tea.Batch(waitForAttempt(attempt), m.spinner.Tick)
}

// handleAttemptSettled adopts the final state of the current attempt
func (m Model) handleAttemptSettled(msg attemptSettledMsg) (tea.Model, tea.Cmd) {
	current := m.orch.Snapshot()
	if current.AttemptID != msg.AttemptID {
		m.logger.Debug("Ignoring settled attempt that is no longer current", zap.String("attempt", msg.AttemptID))
		m.snapshot = current
		return m, nil
	}
	m.snapshot = msg.Result
	return m, nil
}

// handleThemeSaved surfaces a failed preference write without interrupting input
func (m Model) handleThemeSaved(msg themeSavedMsg) (tea.Model, tea.Cmd) {
	if msg.Err != nil {
		m.logger.Warn("Failed to save theme preference", zap.Error(msg.Err))
		m.notice = "Could not save theme preference"
		return m, nil
	}
	m.notice = ""
	return m, nil
}
