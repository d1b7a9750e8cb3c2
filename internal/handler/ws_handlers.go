package handler

import (
	"log/slog"
	"net/http"

	"github.com/mtlprog/leadflow/internal/realtime"
)

// handleProjectWS joins the websocket connection to the project room.
// Clients receive pipeline events as JSON; anything they send is treated as
// a keepalive and discarded.
func (h *Handler) handleProjectWS(w http.ResponseWriter, r *http.Request) {
	projectID, ok := extractID(w, r)
	if !ok {
		return
	}

	if _, err := h.projectRepo.GetByID(r.Context(), projectID); err != nil {
		http.Error(w, "project not found", http.StatusNotFound)
		return
	}

	if err := realtime.ServeWS(h.hub, projectID, w, r); err != nil {
		// Upgrade already wrote the HTTP error response.
		slog.Debug("websocket upgrade failed", "project_id", projectID, "error", err)
	}
}
