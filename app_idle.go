package main

import "chronify/internal/idle"

// IdleService answers the UI layer's idle-time query. It is bound only when
// idle_time_enabled is set at launch.
type IdleService struct {
	app    *App
	source idle.Source
}

// NewIdleService creates the service backed by the platform idle source.
func NewIdleService(app *App) *IdleService {
	return &IdleService{app: app, source: idle.Duration}
}

// GetSystemIdleTime returns milliseconds since the last keyboard or mouse
// input, or 0 when that cannot be measured. It also returns 0 after the
// feature was switched off by a config reload.
func (s *IdleService) GetSystemIdleTime() uint64 {
	if s.app != nil && !s.app.getConfigSnapshot().IdleTimeEnabled {
		return 0
	}
	return idle.Milliseconds(s.source)
}
