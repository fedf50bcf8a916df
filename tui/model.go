// Package tui is the terminal front end: one numeric input kept canonical on
// every edit, two submit paths sharing one loading state, and a result area.
package tui

import (
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"saythenumber/orchestrator"
	"saythenumber/shared/types"
)

// Submitter is the orchestrator surface the shell drives
type Submitter interface {
	SubmitNow(literal string) (*orchestrator.Attempt, error)
	SubmitWithDelay(literal string) (*orchestrator.Attempt, error)
	Snapshot() types.Snapshot
}

// Options configures a Model
type Options struct {
	DarkMode bool
	// PreferencesPath is where theme changes are saved; empty disables saving
	PreferencesPath string
	Logger          *zap.Logger
}

// Model represents the TUI state
type Model struct {
	orch   Submitter
	logger *zap.Logger

	input   textinput.Model
	spinner spinner.Model
	help    help.Model

	snapshot types.Snapshot

	dark      bool
	styles    Styles
	prefsPath string
	// notice holds a non-fatal problem to show under the form
	notice string
}

// NewModel creates a model bound to the orchestrator
func NewModel(orch Submitter, opts Options) Model {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	in := textinput.New()
	in.Placeholder = TextPlaceholder
	in.Prompt = "# "
	in.Focus()

	m := Model{
		orch:      orch,
		logger:    logger,
		input:     in,
		spinner:   spinner.New(spinner.WithSpinner(spinner.Dot)),
		help:      help.New(),
		snapshot:  orch.Snapshot(),
		prefsPath: opts.PreferencesPath,
	}
	m.setTheme(opts.DarkMode)
	return m
}

// Init implements tea.Model interface
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// Literal returns the canonical text currently in the input
func (m Model) Literal() string {
	return m.input.Value()
}

// DarkMode reports the active theme
func (m Model) DarkMode() bool {
	return m.dark
}

// Loading reports whether a submit is in flight
func (m Model) Loading() bool {
	return m.snapshot.Loading
}

func (m *Model) setTheme(dark bool) {
	m.dark = dark
	m.styles = NewStyles(dark)
	m.spinner.Style = m.styles.Spinner
}
