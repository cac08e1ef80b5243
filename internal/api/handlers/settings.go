package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/Airlectric/Speech-To-Text-Ai/internal/asr"
	"github.com/Airlectric/Speech-To-Text-Ai/internal/correct"
	"github.com/Airlectric/Speech-To-Text-Ai/internal/store"
)

// settingsKeys defines which keys are allowed and their display metadata
var settingsKeys = []SettingDef{
	{Key: SettingDefaultEngine, Label: "Default Engine", Placeholder: "first registered engine"},
	{Key: SettingDefaultLanguage, Label: "Default Language", Placeholder: "en"},
	{Key: SettingCorrectionStyle, Label: "Correction Style", Placeholder: "standard", Options: correct.Styles},
}

type SettingDef struct {
	Key         string   `json:"key"`
	Label       string   `json:"label"`
	Placeholder string   `json:"placeholder"`
	Options     []string `json:"options,omitempty"`
}

type SettingsHandler struct {
	store   *store.Store
	engines *asr.Registry
}

func NewSettingsHandler(st *store.Store, engines *asr.Registry) *SettingsHandler {
	return &SettingsHandler{store: st, engines: engines}
}

// GetSettings returns all settings with their display metadata
func (h *SettingsHandler) GetSettings(w http.ResponseWriter, r *http.Request) {
	all, err := h.store.GetAllSettings()
	if err != nil {
		jsonError(w, "failed to load settings", http.StatusInternalServerError)
		return
	}

	type SettingResponse struct {
		SettingDef
		Value string `json:"value"`
	}

	result := make([]SettingResponse, 0, len(settingsKeys))
	for _, def := range settingsKeys {
		result = append(result, SettingResponse{
			SettingDef: def,
			Value:      all[def.Key],
		})
	}

	jsonResponse(w, result, http.StatusOK)
}

// UpdateSettings saves settings from the request body. Unknown keys are
// ignored; an empty value clears the setting back to its default.
func (h *SettingsHandler) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	var updates map[string]string
	if err := json.NewDecoder(r.Body).Decode(&updates); err != nil {
		jsonError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	allowed := make(map[string]bool)
	for _, def := range settingsKeys {
		allowed[def.Key] = true
	}

	for key, value := range updates {
		if !allowed[key] {
			continue
		}
		if msg := h.validateSetting(key, value); msg != "" {
			jsonError(w, msg, http.StatusBadRequest)
			return
		}
		if err := h.store.SetSetting(key, value); err != nil {
			jsonError(w, "failed to save setting: "+key, http.StatusInternalServerError)
			return
		}
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *SettingsHandler) validateSetting(key, value string) string {
	if value == "" {
		return ""
	}
	switch key {
	case SettingDefaultEngine:
		if _, err := h.engines.Get(value); err != nil {
			return err.Error()
		}
	case SettingCorrectionStyle:
		if !correct.ValidStyle(value) {
			return "unknown correction style: " + value
		}
	}
	return ""
}
