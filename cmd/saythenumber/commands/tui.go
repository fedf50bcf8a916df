package commands

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"saythenumber/preferences"
	"saythenumber/tui"
)

// runTUI starts the interactive terminal UI
func runTUI(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	// Close cancels the attempt and lets it settle before backends shut down.
	a := buildApp(ctx, cfg, logger)
	defer a.Close()

	prefsPath := cfg.PreferencesPath
	if prefsPath == "" {
		if p, err := preferences.DefaultPath(); err == nil {
			prefsPath = p
		} else {
			logger.Warn("Theme preference will not be saved", zap.Error(err))
		}
	}

	dark := lipgloss.HasDarkBackground()
	if prefsPath != "" {
		prefs, err := preferences.Load(prefsPath)
		if err != nil {
			logger.Warn("Ignoring unreadable preferences", zap.String("path", prefsPath), zap.Error(err))
		} else {
			dark = prefs.DarkModeOr(dark)
		}
	}

	model := tui.NewModel(a.orch, tui.Options{
		DarkMode:        dark,
		PreferencesPath: prefsPath,
		Logger:          logger.Named("tui"),
	})

	p := tea.NewProgram(model, tea.WithContext(ctx))
	_, err := p.Run()
	return err
}
