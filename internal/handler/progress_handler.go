package handler

import (
	"encoding/json"
	"net/http"
	"path/filepath"

	"cardregistry/internal/service"

	"github.com/rs/zerolog"
)

type ProgressTracker interface {
	GetFileProgress(fileName string) *service.ProgressInfo
	GetAllFileProgress() []*service.ProgressInfo
	RegisterProgressListener(ch chan *service.ProgressInfo)
	UnregisterProgressListener(ch chan *service.ProgressInfo)
}

type ProgressHandler struct {
	importService ProgressTracker
	log           zerolog.Logger
}

func NewProgressHandler(importService ProgressTracker, log zerolog.Logger) *ProgressHandler {
	return &ProgressHandler{importService: importService, log: log}
}

// GetFileProgress returns the progress for a specific file
func (h *ProgressHandler) GetFileProgress(w http.ResponseWriter, r *http.Request) {
	fileName := r.URL.Query().Get("fileName")
	if fileName == "" {
		http.Error(w, "fileName parameter is required", http.StatusBadRequest)
		return
	}

	progress := h.importService.GetFileProgress(filepath.Base(fileName))
	if progress == nil {
		http.Error(w, "File not found or not being processed", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(progress)
}

// GetAllProgress returns the progress for all imported files
func (h *ProgressHandler) GetAllProgress(w http.ResponseWriter, r *http.Request) {
	progress := h.importService.GetAllFileProgress()

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(progress)
}

// SSEProgress streams progress updates to the client using Server-Sent Events
func (h *ProgressHandler) SSEProgress(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)

	progressChan := make(chan *service.ProgressInfo, 8)

	h.importService.RegisterProgressListener(progressChan)
	defer h.importService.UnregisterProgressListener(progressChan)

	flusher, _ := w.(http.Flusher)
	if flusher != nil {
		flusher.Flush()
	}

	for {
		select {
		case progress := <-progressChan:
			data, err := json.Marshal(progress)
			if err != nil {
				h.log.Error().Err(err).Msg("marshal progress")
				continue
			}
			if _, err := w.Write([]byte("data: " + string(data) + "\n\n")); err != nil {
				h.log.Debug().Err(err).Msg("write SSE data")
				return
			}
			if flusher != nil {
				flusher.Flush()
			}

		case <-r.Context().Done():
			h.log.Debug().Msg("progress client disconnected")
			return
		}
	}
}
