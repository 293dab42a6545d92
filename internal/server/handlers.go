package server

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/assetvault/asset-parser/internal/parsing"
)

// maxUploadSize bounds uploads at 50MB to handle high-resolution phone
// photos.
const maxUploadSize = int64(50 << 20)

// allowedTypes is the accepted content-type set. Anything else is
// rejected before the pipeline is invoked.
var allowedTypes = map[string]bool{
	"application/pdf": true,
	"image/jpeg":      true,
	"image/jpg":       true,
	"image/png":       true,
	"image/gif":       true,
	"image/bmp":       true,
	"image/tiff":      true,
	"image/webp":      true,
}

// fileInfo echoes upload metadata back to the UI
type fileInfo struct {
	Filename    string `json:"filename"`
	ContentType string `json:"content_type"`
	FileSize    int    `json:"file_size"`
}

// parseResponse is the transport envelope around a pipeline result
type parseResponse struct {
	Success       bool           `json:"success"`
	DocumentType  string         `json:"document_type"`
	ExtractedData parsing.Result `json:"extracted_data"`
	FileInfo      fileInfo       `json:"file_info"`
	ProcessedAt   string         `json:"processed_at"`
	Message       string         `json:"message,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		slog.Error("Error encoding response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

// handleHealth reports service liveness
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":    "healthy",
		"service":   "asset-parser",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// handleTest verifies the parsing pipeline is wired up
func (s *Server) handleTest(w http.ResponseWriter, r *http.Request) {
	if s.pipeline == nil {
		writeError(w, http.StatusInternalServerError, "parsing pipeline not initialized")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"services": map[string]string{
			"receipt_parser": "ok",
		},
	})
}

// handleParseReceipt accepts a multipart document upload, runs the
// parsing pipeline, and returns the extraction envelope
func (s *Server) handleParseReceipt(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		slog.Error("Error parsing multipart form", "error", err)
		writeError(w, http.StatusBadRequest, "error parsing form")
		return
	}

	f, header, err := r.FormFile("file")
	if err != nil {
		slog.Error("Error getting file from form", "error", err)
		writeError(w, http.StatusBadRequest, "no file provided")
		return
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		slog.Error("Error reading file data", "error", err, "filename", header.Filename)
		writeError(w, http.StatusInternalServerError, "error reading file")
		return
	}

	if len(data) == 0 {
		writeError(w, http.StatusBadRequest, "empty file")
		return
	}

	contentType := detectContentType(header.Header.Get("Content-Type"), header.Filename)
	if !allowedTypes[contentType] {
		writeError(w, http.StatusBadRequest, "unsupported file type: "+contentType)
		return
	}

	result := s.pipeline.Parse(r.Context(), parsing.Document{
		Bytes:       data,
		Filename:    header.Filename,
		ContentType: contentType,
	})

	response := parseResponse{
		Success:       result.Success,
		DocumentType:  "receipt",
		ExtractedData: result,
		FileInfo: fileInfo{
			Filename:    header.Filename,
			ContentType: contentType,
			FileSize:    len(data),
		},
		ProcessedAt: time.Now().UTC().Format(time.RFC3339),
	}

	if !result.Success {
		slog.Error("Document parsing failed", "filename", header.Filename, "error", result.Error)
		status := http.StatusInternalServerError
		if strings.Contains(result.Error, "unsupported content type") {
			status = http.StatusBadRequest
		}
		writeJSON(w, status, response)
		return
	}

	response.Message = "Data extracted successfully. Ready for UI form filling."
	slog.Info("Successfully processed document", "filename", header.Filename)
	writeJSON(w, http.StatusOK, response)
}

// detectContentType falls back to extension sniffing when the upload's
// declared content type is missing or generic
func detectContentType(declared, filename string) string {
	contentType := strings.ToLower(strings.TrimSpace(declared))
	if contentType != "" && contentType != "application/octet-stream" {
		return contentType
	}

	switch strings.ToLower(filepath.Ext(filename)) {
	case ".pdf":
		return "application/pdf"
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".png":
		return "image/png"
	case ".gif":
		return "image/gif"
	case ".bmp":
		return "image/bmp"
	case ".tiff", ".tif":
		return "image/tiff"
	case ".webp":
		return "image/webp"
	default:
		return "application/octet-stream"
	}
}
