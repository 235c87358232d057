// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package web exposes the anonymizer over HTTP.
package web

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"pii-anonymizer/internal/analyzer"
	"pii-anonymizer/internal/core"
	"pii-anonymizer/internal/documents"
	"pii-anonymizer/internal/observability"
	"pii-anonymizer/internal/version"
)

// MaxRequestBytes bounds request bodies, uploads included.
const MaxRequestBytes = 32 << 20

// WebServer serves the anonymizer API.
type WebServer struct {
	addr       string
	anonymizer *core.Anonymizer
	columns    []int
	workers    int
	observer   *observability.StandardObserver
	server     *http.Server
}

// TextRequest is the body of /anonymize and /analyze.
type TextRequest struct {
	Text string `json:"text"`
}

// TextResponse is returned by /anonymize.
type TextResponse struct {
	Success   bool   `json:"success"`
	RequestID string `json:"request_id,omitempty"`
	Text      string `json:"text,omitempty"`
	Entities  int    `json:"entities"`
	Error     string `json:"error,omitempty"`
}

// SpanResponse is one entry returned by /analyze. The matched text is not
// echoed back.
type SpanResponse struct {
	Start      int     `json:"start"`
	End        int     `json:"end"`
	EntityType string  `json:"entity_type"`
	Score      float64 `json:"score"`
	Source     string  `json:"source"`
}

// NewWebServer creates a new web server instance. columns and workers apply
// to uploaded CSV files.
func NewWebServer(addr string, anonymizer *core.Anonymizer, columns []int, workers int, observer *observability.StandardObserver) *WebServer {
	if observer == nil {
		observer = observability.Nop()
	}
	return &WebServer{
		addr:       addr,
		anonymizer: anonymizer,
		columns:    columns,
		workers:    workers,
		observer:   observer,
	}
}

// Handler returns the route table.
func (ws *WebServer) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/health", ws.handleHealth)
	mux.HandleFunc("/anonymize", ws.handleAnonymize)
	mux.HandleFunc("/analyze", ws.handleAnalyze)
	mux.HandleFunc("/anonymize/file", ws.handleFile)
	return mux
}

// Start serves until ctx is cancelled, then shuts down gracefully.
func (ws *WebServer) Start(ctx context.Context) error {
	ws.server = ws.createSecureServer()

	errCh := make(chan error, 1)
	go func() {
		ws.observer.Logger().WithField("addr", ws.addr).Info("web server listening")
		errCh <- ws.server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("web server on %s failed: %w", ws.addr, err)
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return ws.server.Shutdown(shutdownCtx)
	}
}

// createSecureServer creates an HTTP server with security timeouts
func (ws *WebServer) createSecureServer() *http.Server {
	return &http.Server{
		Addr:              ws.addr,
		Handler:           ws.Handler(),
		ReadHeaderTimeout: 15 * time.Second,
		ReadTimeout:       60 * time.Second,
		WriteTimeout:      5 * time.Minute,
		IdleTimeout:       60 * time.Second,
	}
}

func (ws *WebServer) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":    "healthy",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"service":   "pii-anonymizer",
		"version":   version.Short(),
		"build_info": map[string]interface{}{
			"commit":     version.GitCommit,
			"build_date": version.BuildDate,
			"go_version": version.GoVersion,
			"platform":   version.Platform,
		},
	})
}

func (ws *WebServer) decodeText(w http.ResponseWriter, r *http.Request) (string, bool) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return "", false
	}
	var req TextRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, MaxRequestBytes)).Decode(&req); err != nil {
		ws.sendError(w, "invalid JSON body: expected {\"text\": ...}", http.StatusBadRequest)
		return "", false
	}
	return req.Text, true
}

func (ws *WebServer) handleAnonymize(w http.ResponseWriter, r *http.Request) {
	text, ok := ws.decodeText(w, r)
	if !ok {
		return
	}
	res, err := ws.anonymizer.Process(r.Context(), text)
	if err != nil {
		ws.sendPipelineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, TextResponse{
		Success:   true,
		RequestID: res.RequestID,
		Text:      res.Text,
		Entities:  len(res.Spans),
	})
}

func (ws *WebServer) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	text, ok := ws.decodeText(w, r)
	if !ok {
		return
	}
	spans, err := ws.anonymizer.Analyze(r.Context(), text)
	if err != nil {
		ws.sendPipelineError(w, err)
		return
	}
	out := make([]SpanResponse, len(spans))
	for i, s := range spans {
		out[i] = SpanResponse{Start: s.Start, End: s.End, EntityType: string(s.EntityType), Score: s.Score, Source: s.Source}
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"success": true, "spans": out})
}

// handleFile anonymizes one uploaded file (form field "file") and returns
// the anonymized document. The optional "columns" field overrides the CSV
// columns, e.g. "1,3".
func (ws *WebServer) handleFile(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	r.Body = http.MaxBytesReader(w, r.Body, MaxRequestBytes)
	if err := r.ParseMultipartForm(MaxRequestBytes); err != nil {
		ws.sendError(w, "Failed to parse form data", http.StatusBadRequest)
		return
	}
	upload, header, err := r.FormFile("file")
	if err != nil {
		ws.sendError(w, "No file uploaded", http.StatusBadRequest)
		return
	}
	defer upload.Close()

	columns := ws.columns
	if raw := r.FormValue("columns"); raw != "" {
		if columns, err = parseColumns(raw); err != nil {
			ws.sendError(w, err.Error(), http.StatusBadRequest)
			return
		}
	}

	name := filepath.Base(header.Filename)
	if !validUploadName(name) {
		ws.sendError(w, "invalid file name", http.StatusBadRequest)
		return
	}
	if _, err := documents.DetectFormat(name); err != nil {
		ws.sendError(w, err.Error(), http.StatusUnsupportedMediaType)
		return
	}

	dir, err := os.MkdirTemp("", "pii-anonymizer-upload-")
	if err != nil {
		ws.sendError(w, "could not stage upload", http.StatusInternalServerError)
		return
	}
	defer os.RemoveAll(dir)

	src := filepath.Join(dir, name)
	if err := writeUpload(src, upload); err != nil {
		ws.sendError(w, "could not stage upload", http.StatusInternalServerError)
		return
	}

	dst, err := documents.AnonymizeFile(r.Context(), src, columns, ws.anonymizer.Anonymize,
		documents.WithWorkers(ws.workers),
		documents.WithObserver(ws.observer),
	)
	if err != nil {
		ws.sendPipelineError(w, err)
		return
	}
	data, err := os.ReadFile(dst)
	if err != nil {
		ws.sendError(w, "could not read result", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", contentType(dst))
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filepath.Base(dst)))
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

func writeUpload(path string, r io.Reader) error {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o600)
	if err != nil {
		return err
	}
	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// validUploadName reports whether name can be staged as a regular file
// inside the upload directory.
func validUploadName(name string) bool {
	switch name {
	case "", ".", "..", string(filepath.Separator):
		return false
	}
	return true
}

func parseColumns(raw string) ([]int, error) {
	var cols []int
	for _, part := range strings.Split(raw, ",") {
		n, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil || n < 0 {
			return nil, fmt.Errorf("invalid column %q", part)
		}
		cols = append(cols, n)
	}
	return cols, nil
}

func contentType(path string) string {
	if strings.EqualFold(filepath.Ext(path), ".csv") {
		return "text/csv; charset=utf-8"
	}
	return "text/plain; charset=utf-8"
}

// sendPipelineError maps pipeline failures to a status code. Details stay in
// the server log.
func (ws *WebServer) sendPipelineError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, analyzer.ErrTimeout):
		status = http.StatusGatewayTimeout
	case errors.Is(err, documents.ErrUnsupportedFormat):
		status = http.StatusUnsupportedMediaType
	}
	ws.observer.Logger().WithError(err).Warn("request failed")
	ws.sendError(w, http.StatusText(status), status)
}

func (ws *WebServer) sendError(w http.ResponseWriter, message string, statusCode int) {
	writeJSON(w, statusCode, TextResponse{Success: false, Error: message})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
