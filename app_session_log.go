package main

import "chronify/internal/sessionlog"

// GetSessionErrorLog returns the warnings and errors captured this run,
// oldest first.
func (a *App) GetSessionErrorLog() []sessionlog.Entry {
	return a.sessionLog.Recent()
}

// GetSessionLogFilePath returns the JSONL file of this run, or "" when the
// session log is disabled.
func (a *App) GetSessionLogFilePath() string {
	return a.sessionLog.Path()
}
