package api

import (
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/starford/dagaz/internal/feedstore"
	"github.com/starford/dagaz/internal/ics"
)

const maxFeedBytes = 10 << 20 // 10 MB

// FeedHandler accepts and lists calendar feed files.
type FeedHandler struct {
	feeds    feedstore.Provider
	importer *ics.Importer
}

// NewFeedHandler creates a handler over the feed import directory.
func NewFeedHandler(feeds feedstore.Provider, importer *ics.Importer) *FeedHandler {
	return &FeedHandler{feeds: feeds, importer: importer}
}

// safeName validates that the filename is a plain .ics name (no path
// separators, no traversal).
func safeName(name string) (string, error) {
	if name == "" {
		return "", fmt.Errorf("filename is required")
	}
	cleaned := filepath.Clean(name)
	if cleaned != filepath.Base(cleaned) || strings.Contains(cleaned, "..") {
		return "", fmt.Errorf("invalid filename: %s", name)
	}
	if !strings.HasSuffix(cleaned, ".ics") {
		return "", fmt.Errorf("only .ics files are accepted")
	}
	return cleaned, nil
}

// List handles GET /api/feeds.
//
//	@Summary		List imported calendar feed files
//	@Tags			feeds
//	@Produce		json
//	@Success		200	{object}	map[string][]feedstore.FeedFile
//	@Security		BearerAuth
//	@Router			/feeds [get]
func (h *FeedHandler) List(w http.ResponseWriter, r *http.Request) {
	files, err := h.feeds.List()
	if err != nil {
		writeServiceError(w, "list feeds", err)
		return
	}
	if files == nil {
		files = []feedstore.FeedFile{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"feeds": files})
}

// Upload handles POST /api/feeds (multipart/form-data, field "file").
// The uploaded feed is stored in the import directory and imported
// immediately.
//
//	@Summary		Upload an ICS feed and import its events
//	@Tags			feeds
//	@Accept			multipart/form-data
//	@Produce		json
//	@Param			file	formData	file	true	"ICS feed file"
//	@Success		201		{object}	FeedUploadResponse
//	@Failure		400		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/feeds [post]
func (h *FeedHandler) Upload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxFeedBytes)

	if err := r.ParseMultipartForm(maxFeedBytes); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("file too large or invalid multipart"))
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("missing 'file' field in multipart form"))
		return
	}
	defer file.Close()

	name, err := safeName(header.Filename)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody(err.Error()))
		return
	}

	data, err := io.ReadAll(file)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("failed to read file"))
		return
	}

	// Validate before storing so a broken feed is rejected outright.
	parsed, err := ics.Parse(data)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid ICS payload"))
		return
	}

	if err := h.feeds.Write(name, data); err != nil {
		writeServiceError(w, "store feed", err)
		return
	}
	if err := h.importer.ImportFeed(name); err != nil {
		writeServiceError(w, "import feed", err)
		return
	}

	writeJSON(w, http.StatusCreated, FeedUploadResponse{
		Filename: name,
		Size:     int64(len(data)),
		Events:   len(parsed),
	})
}

// Delete handles DELETE /api/feeds/{filename}: removes the feed file and
// drops its imported events.
//
//	@Summary		Delete a feed and its imported events
//	@Tags			feeds
//	@Param			filename	path	string	true	"Feed filename"
//	@Success		204			"Feed deleted"
//	@Failure		400			{object}	errResponse
//	@Security		BearerAuth
//	@Router			/feeds/{filename} [delete]
func (h *FeedHandler) Delete(w http.ResponseWriter, r *http.Request) {
	name, err := safeName(chi.URLParam(r, "filename"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody(err.Error()))
		return
	}
	if err := h.feeds.Delete(name); err != nil {
		writeServiceError(w, "delete feed", err)
		return
	}
	if err := h.importer.RemoveFeed(name); err != nil {
		writeServiceError(w, "drop feed events", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
