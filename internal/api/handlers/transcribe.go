package handlers

import (
	"errors"
	"net/http"
	"path/filepath"

	"github.com/Airlectric/Speech-To-Text-Ai/internal/asr"
	"github.com/Airlectric/Speech-To-Text-Ai/internal/config"
	"github.com/Airlectric/Speech-To-Text-Ai/internal/correct"
	"github.com/Airlectric/Speech-To-Text-Ai/internal/job"
	"github.com/Airlectric/Speech-To-Text-Ai/internal/storage"
	"github.com/Airlectric/Speech-To-Text-Ai/internal/store"
)

// Settings keys consulted when the request omits a parameter.
const (
	SettingDefaultEngine   = "default_engine"
	SettingDefaultLanguage = "default_language"
	SettingCorrectionStyle = "correction_style"
)

type TranscribeHandler struct {
	cfg     *config.Config
	store   *store.Store
	engines *asr.Registry
	queue   *job.JobQueue
}

func NewTranscribeHandler(cfg *config.Config, st *store.Store, engines *asr.Registry, queue *job.JobQueue) *TranscribeHandler {
	return &TranscribeHandler{cfg: cfg, store: st, engines: engines, queue: queue}
}

// Submit accepts a multipart audio upload and enqueues a transcribe job.
// The upload is written to the upload dir; the job owns the file from
// here on and removes it once the attempt finishes.
func (h *TranscribeHandler) Submit(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.cfg.MaxUploadBytes)

	file, header, err := r.FormFile("file")
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			jsonError(w, "upload too large", http.StatusRequestEntityTooLarge)
			return
		}
		jsonError(w, "missing file field", http.StatusBadRequest)
		return
	}
	defer file.Close()

	// Recorder blobs may arrive without an extension; ffmpeg sniffs
	// those. Reject only names with a clearly non-audio extension.
	if ext := filepath.Ext(header.Filename); ext != "" && !storage.IsAudioFile(header.Filename) {
		jsonError(w, "unsupported file type: "+ext, http.StatusBadRequest)
		return
	}

	params, errMsg := h.resolveParams(r)
	if errMsg != "" {
		jsonError(w, errMsg, http.StatusBadRequest)
		return
	}
	params.SourceName = header.Filename

	path, _, err := storage.SaveUpload(h.cfg.UploadPath, file, header.Filename)
	if err != nil {
		jsonError(w, "failed to store upload", http.StatusInternalServerError)
		return
	}

	j, err := h.queue.Enqueue(job.JobTranscribe, path, params)
	if err != nil {
		jsonError(w, "failed to enqueue job: "+err.Error(), http.StatusInternalServerError)
		return
	}

	jsonResponse(w, j, http.StatusAccepted)
}

// resolveParams merges form values with stored settings and config
// defaults. Request beats setting beats config.
func (h *TranscribeHandler) resolveParams(r *http.Request) (job.TranscribeParams, string) {
	var params job.TranscribeParams

	params.Engine = r.FormValue("engine")
	if params.Engine == "" {
		params.Engine = h.store.GetSetting(SettingDefaultEngine, "")
	}
	if params.Engine == "" {
		params.Engine = h.cfg.Engine
	}
	if params.Engine == "" {
		params.Engine = h.engines.Default()
	}
	if _, err := h.engines.Get(params.Engine); err != nil {
		return params, err.Error()
	}

	params.Language = r.FormValue("language")
	if params.Language == "" {
		params.Language = h.store.GetSetting(SettingDefaultLanguage, "")
	}
	if params.Language == "" {
		params.Language = h.cfg.Language
	}

	params.Style = r.FormValue("style")
	if params.Style == "" {
		params.Style = h.store.GetSetting(SettingCorrectionStyle, "")
	}
	if !correct.ValidStyle(params.Style) {
		return params, "unknown correction style: " + params.Style
	}

	params.Correct = r.FormValue("correct") != "false"

	return params, ""
}
