package handlers

import "net/http"

// HealthHandler responds with service health information.
type HealthHandler struct {
	Extractor string
}

// Handle implements GET /healthz.
func (h HealthHandler) Handle(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	payload := map[string]string{
		"status": "ok",
	}
	if h.Extractor != "" {
		payload["extractor"] = h.Extractor
	}

	respondJSON(r.Context(), w, http.StatusOK, payload)
}
