package handlers

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"

	"github.com/okarhu/locboard/internal/intake"
	"github.com/okarhu/locboard/internal/middleware"
)

// ==========================
// Message Handler
// ==========================
type MessageHandler struct {
	Intake *intake.Service
}

// ==========================
// Post Message (POST /info)
// ==========================
//
// The body is one of three payload kinds (new post, edit, visit); the intake
// service decides which. A validation rejection is the client's fault (400),
// a store failure is ours (500).
func (h *MessageHandler) Post(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		JSONError(w, "failed to read body", http.StatusBadRequest)
		return
	}
	if len(body) == 0 {
		JSONError(w, "empty body", http.StatusBadRequest)
		return
	}

	username := middleware.Username(r.Context())
	if username == "" {
		JSONError(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	handled, err := h.Intake.Handle(r.Context(), body, username)
	if err != nil {
		slog.Error("message handling failed", "username", username, "error", err)
		JSONError(w, ErrMessageInternal, http.StatusInternalServerError)
		return
	}
	if !handled {
		JSONError(w, "failed to handle message", http.StatusBadRequest)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "OK"})
}

// ==========================
// List Messages (GET /info)
// ==========================
//
// 204 when the board is empty, matching the behavior clients already rely on.
func (h *MessageHandler) List(w http.ResponseWriter, r *http.Request) {
	entries, err := h.Intake.ListEntries(r.Context())
	if err != nil {
		slog.Error("listing failed", "error", err)
		JSONError(w, "database error", http.StatusInternalServerError)
		return
	}

	if len(entries) == 0 {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(entries)
}
