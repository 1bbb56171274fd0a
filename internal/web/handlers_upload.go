package web

// This file contains CSV import/export and the change event stream.

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/JonMunkholm/OrderTrack/internal/core"
	"github.com/JonMunkholm/OrderTrack/internal/logging"
)

// multipartOverhead is allowed on top of the file size limit for form
// boundaries and headers.
const multipartOverhead = 1 << 20

// handleImport reads the multipart "file" field and prepends its orders.
func (s *Server) handleImport(w http.ResponseWriter, r *http.Request) {
	maxSize := s.cfg.Import.MaxFileSize
	r.Body = http.MaxBytesReader(w, r.Body, maxSize+multipartOverhead)

	if err := r.ParseMultipartForm(32 << 20); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			s.respondError(w, r, core.ErrFileTooLarge)
			return
		}
		s.respondError(w, r, fmt.Errorf("%w: %v", core.ErrNoFile, err))
		return
	}
	defer func() {
		if r.MultipartForm != nil {
			_ = r.MultipartForm.RemoveAll()
		}
	}()

	file, header, err := r.FormFile("file")
	if err != nil {
		s.respondError(w, r, core.ErrNoFile)
		return
	}
	defer file.Close()

	logger := logging.WithFields(r.Context(), "filename", header.Filename, "size", header.Size)

	n, err := s.service.Import(r.Context(), file)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	logger.Info("csv imported", "count", n)
	writeJSON(w, http.StatusOK, map[string]int{"imported": n})
}

// handleExport downloads the filtered list as orders.csv. Criteria come
// from the query string, or from the session when there is none.
func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	c, ok := s.requestCriteria(r)
	if !ok {
		c = sessionFrom(r.Context()).Criteria()
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="orders.csv"`)
	if err := s.service.Export(w, c); err != nil {
		logging.FromContext(r.Context()).Error("export failed", "error", err)
	}
}

// keepAliveInterval spaces comment lines that stop proxies from closing an
// idle event stream.
var keepAliveInterval = 25 * time.Second

// handleEvents streams a "changed" event after every committed change to
// the order list.
func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		s.respondErrorStatus(w, r, errors.New("streaming not supported"), http.StatusInternalServerError)
		return
	}

	changes, stop := s.service.Subscribe()
	defer stop()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")

	fmt.Fprint(w, ": connected\n\n")
	flusher.Flush()

	ticker := time.NewTicker(keepAliveInterval)
	defer ticker.Stop()

	for {
		select {
		case _, ok := <-changes:
			if !ok {
				return
			}
			fmt.Fprint(w, "event: changed\ndata: {}\n\n")
			flusher.Flush()
		case <-ticker.C:
			fmt.Fprint(w, ": ping\n\n")
			flusher.Flush()
		case <-r.Context().Done():
			return
		}
	}
}
