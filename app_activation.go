package main

import (
	"log/slog"

	"chronify/internal/ipc"
)

// handleActivationRequest serves requests from later launches.
func (a *App) handleActivationRequest(req ipc.Request) ipc.Response {
	switch req.Command {
	case ipc.CommandActivate:
		a.reopen()
		return ipc.OKResponse(req)
	case ipc.CommandPing:
		return ipc.OKResponse(req)
	default:
		slog.Debug("[ipc] unknown activation command", "command", req.Command)
		return ipc.ErrorResponse(req, "unknown command: "+req.Command)
	}
}
