package handler

import "net/http"

type HealthHandler struct {
	name string
}

// NewHealthHandler returns the liveness endpoint. name is echoed in the
// X-Service header.
func NewHealthHandler(name string) *HealthHandler {
	return &HealthHandler{name: name}
}

func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		WriteError(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "only GET is allowed")
		return
	}

	w.Header().Set("X-Service", h.name)
	WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
