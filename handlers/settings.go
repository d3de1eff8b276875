package handlers

import (
	"encoding/json"
	"log"
	"net/http"

	"sukebei/config"
)

type settingsStore interface {
	Load() (config.Settings, error)
	Save(config.Settings) error
}

var _ settingsStore = (*config.Manager)(nil)

type SettingsHandler struct {
	Manager settingsStore
	// OnReload is called with the saved settings so long-lived services can
	// pick them up without a restart.
	OnReload func(config.Settings)
}

func NewSettingsHandler(m settingsStore) *SettingsHandler {
	return &SettingsHandler{Manager: m}
}

func (h *SettingsHandler) GetSettings(w http.ResponseWriter, r *http.Request) {
	s, err := h.Manager.Load()
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, s)
}

func (h *SettingsHandler) PutSettings(w http.ResponseWriter, r *http.Request) {
	var s config.Settings
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(&s); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	if err := s.Validate(); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	if err := h.Manager.Save(s); err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	if h.OnReload != nil {
		h.OnReload(s)
		log.Printf("[settings] reloaded %d source config(s)", len(s.Sources))
	}

	writeJSON(w, http.StatusOK, s)
}
