package handlers

import (
	"net/http"

	"github.com/Airlectric/Speech-To-Text-Ai/internal/asr"
)

type EnginesHandler struct {
	engines *asr.Registry
}

func NewEnginesHandler(engines *asr.Registry) *EnginesHandler {
	return &EnginesHandler{engines: engines}
}

// ListAvailable returns registered engines as {value, label, type} for dropdowns
func (h *EnginesHandler) ListAvailable(w http.ResponseWriter, r *http.Request) {
	list := h.engines.Available()
	if list == nil {
		list = []asr.Info{}
	}
	jsonResponse(w, map[string]interface{}{
		"engines": list,
		"default": h.engines.Default(),
	}, http.StatusOK)
}
