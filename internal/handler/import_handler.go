package handler

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"sync"

	"github.com/rs/zerolog"
)

type CSVImporter interface {
	ProcessCSV(ctx context.Context, filePath string) error
}

type ImportHandler struct {
	importService CSVImporter
	uploadDir     string
	log           zerolog.Logger
	wg            sync.WaitGroup
}

func NewImportHandler(importService CSVImporter, uploadDir string, log zerolog.Logger) *ImportHandler {
	return &ImportHandler{importService: importService, uploadDir: uploadDir, log: log}
}

// ImportCSV saves the uploaded roster files and registers their rows in the
// background, one file after another.
func (h *ImportHandler) ImportCSV(w http.ResponseWriter, r *http.Request) {
	if err := os.MkdirAll(h.uploadDir, 0755); err != nil {
		http.Error(w, "Failed to create uploads directory", http.StatusInternalServerError)
		return
	}

	err := r.ParseMultipartForm(10 << 20) // 10MB
	if err != nil {
		http.Error(w, "File too large or bad request", http.StatusRequestEntityTooLarge)
		return
	}

	files := r.MultipartForm.File["files"]
	if len(files) == 0 {
		http.Error(w, "No files uploaded", http.StatusBadRequest)
		return
	}

	fileNames := make([]string, 0, len(files))
	paths := make([]string, 0, len(files))

	for _, header := range files {
		name := filepath.Base(header.Filename)
		file, err := header.Open()
		if err != nil {
			h.log.Error().Err(err).Str("file", name).Msg("open upload")
			continue
		}

		savePath := filepath.Join(h.uploadDir, name)
		outFile, err := os.Create(savePath)
		if err != nil {
			h.log.Error().Err(err).Str("file", name).Msg("save upload")
			file.Close()
			continue
		}

		_, err = io.Copy(outFile, file)
		file.Close()
		outFile.Close()
		if err != nil {
			h.log.Error().Err(err).Str("file", name).Msg("write upload")
			continue
		}

		fileNames = append(fileNames, name)
		paths = append(paths, savePath)
	}

	if len(paths) == 0 {
		http.Error(w, "Failed to save uploaded files", http.StatusInternalServerError)
		return
	}

	ctx := context.WithoutCancel(r.Context())
	h.wg.Add(1)
	go func() {
		defer h.wg.Done()
		for _, p := range paths {
			if err := h.importService.ProcessCSV(ctx, p); err != nil {
				h.log.Error().Err(err).Str("file", p).Msg("import failed")
			}
		}
		h.log.Info().Int("files", len(paths)).Msg("all files processed")
	}()

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusAccepted)
	response := map[string]interface{}{
		"message": "Files uploaded successfully and import started",
		"files":   fileNames,
	}
	if err := json.NewEncoder(w).Encode(response); err != nil {
		h.log.Error().Err(err).Msg("encode response")
	}
}

// Wait blocks until every started import has finished.
func (h *ImportHandler) Wait() {
	h.wg.Wait()
}
