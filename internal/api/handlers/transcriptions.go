package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/Airlectric/Speech-To-Text-Ai/internal/store"
)

type TranscriptionsHandler struct {
	store *store.Store
}

func NewTranscriptionsHandler(st *store.Store) *TranscriptionsHandler {
	return &TranscriptionsHandler{store: st}
}

// List returns saved transcriptions, newest first
func (h *TranscriptionsHandler) List(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			jsonError(w, "invalid limit", http.StatusBadRequest)
			return
		}
		limit = n
	}

	list, err := h.store.ListTranscriptions(limit)
	if err != nil {
		jsonError(w, "failed to list transcriptions: "+err.Error(), http.StatusInternalServerError)
		return
	}
	jsonResponse(w, list, http.StatusOK)
}

// Get returns a single transcription by ID
func (h *TranscriptionsHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		jsonError(w, "missing transcription ID", http.StatusBadRequest)
		return
	}

	rec, err := h.store.GetTranscription(id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			jsonError(w, "transcription not found", http.StatusNotFound)
			return
		}
		jsonError(w, "failed to load transcription: "+err.Error(), http.StatusInternalServerError)
		return
	}
	jsonResponse(w, rec, http.StatusOK)
}

// Delete removes a transcription from the history
func (h *TranscriptionsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		jsonError(w, "missing transcription ID", http.StatusBadRequest)
		return
	}

	if err := h.store.DeleteTranscription(id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			jsonError(w, "transcription not found", http.StatusNotFound)
			return
		}
		jsonError(w, "failed to delete transcription: "+err.Error(), http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
