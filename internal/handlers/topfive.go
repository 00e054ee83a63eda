package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/okarhu/locboard/internal/repo"
)

// ==========================
// Top Five Handler
// ==========================
type TopFiveHandler struct {
	Repo *repo.LocationRepo
}

// ==========================
// Get Top Five (GET /topfive)
// ==========================
func (h *TopFiveHandler) Get(w http.ResponseWriter, r *http.Request) {
	top, err := h.Repo.TopFive(r.Context())
	if err != nil {
		slog.Error("top five failed", "error", err)
		JSONError(w, "database error", http.StatusInternalServerError)
		return
	}

	if len(top) == 0 {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(top)
}
