package tui

import "saythenumber/shared/types"

// attemptSettledMsg is sent when a submitted attempt has a final result
type attemptSettledMsg struct {
	AttemptID string
	Result    types.Snapshot
}

// themeSavedMsg reports the outcome of persisting the dark mode preference
type themeSavedMsg struct {
	Err error
}
