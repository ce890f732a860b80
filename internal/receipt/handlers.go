package receipt

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/zombor/receipt-lens/internal/interpret"
	"github.com/zombor/receipt-lens/internal/scanning"
)

// maxUploadSize allows high-resolution phone photos
const maxUploadSize = int64(50 << 20)

// setCORSHeaders sets CORS headers on a response
func setCORSHeaders(w http.ResponseWriter) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
	w.Header().Set("Access-Control-Max-Age", "3600")
}

// writeJSON encodes v with the given status
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Error encoding response", "error", err)
	}
}

// writeJSONError writes an {"error": message} body
func writeJSONError(w http.ResponseWriter, message string, code int) {
	writeJSON(w, code, map[string]string{"error": message})
}

// writeServiceError maps service errors to HTTP statuses
func writeServiceError(w http.ResponseWriter, err error) {
	var validationErr *interpret.ValidationError
	var providerErr *scanning.ProviderError

	switch {
	case errors.As(err, &validationErr):
		writeJSONError(w, validationErr.Error(), http.StatusBadRequest)
	case errors.Is(err, scanning.ErrUnsupportedImage):
		writeJSONError(w, "The upload is not a readable image. Supported formats: JPEG, PNG, GIF, HEIC, HEIF, PDF.", http.StatusBadRequest)
	case errors.Is(err, ErrNoFile):
		writeJSONError(w, "File not found", http.StatusNotFound)
	case errors.Is(err, ErrNotFound):
		writeJSONError(w, "Receipt not found", http.StatusNotFound)
	case errors.Is(err, scanning.ErrProviderUnavailable):
		writeJSONError(w, "Text recognition is temporarily unavailable. Please try again.", http.StatusServiceUnavailable)
	case errors.As(err, &providerErr):
		writeJSONError(w, providerErr.Error(), http.StatusBadGateway)
	default:
		slog.Error("Unhandled service error", "error", err)
		writeJSONError(w, "Internal server error", http.StatusInternalServerError)
	}
}

// contentTypeFor guesses the upload type from its extension
func contentTypeFor(filename string) string {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".png":
		return "image/png"
	case ".gif":
		return "image/gif"
	case ".pdf":
		return "application/pdf"
	case ".heic":
		return "image/heic"
	case ".heif":
		return "image/heif"
	}
	return "application/octet-stream"
}

// handleScanReceipt handles receipt upload and text recognition
func (s *Server) handleScanReceipt(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		slog.Error("Error parsing multipart form", "error", err)
		errorMsg := "Error parsing form"
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			errorMsg = "File is too large. Maximum size is 50MB. Please compress or resize your image."
		}
		writeJSONError(w, errorMsg, http.StatusBadRequest)
		return
	}

	f, header, err := r.FormFile("file")
	if err != nil {
		slog.Error("Error getting file from form", "error", err)
		errorMsg := "No file provided"
		if errors.Is(err, http.ErrMissingFile) {
			errorMsg = "No file was selected. Please choose a file to upload."
		}
		writeJSONError(w, errorMsg, http.StatusBadRequest)
		return
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		slog.Error("Error reading file data", "error", err, "filename", header.Filename)
		writeJSONError(w, "Error reading file. Please try again.", http.StatusInternalServerError)
		return
	}
	if len(data) == 0 {
		writeJSONError(w, "The uploaded file is empty.", http.StatusBadRequest)
		return
	}

	contentType := strings.ToLower(strings.TrimSpace(header.Header.Get("Content-Type")))
	if contentType == "" || contentType == "application/octet-stream" {
		contentType = contentTypeFor(header.Filename)
	}

	record, err := s.service.ScanReceipt(r.Context(), header.Filename, data, contentType)
	if err != nil {
		slog.Error("Error scanning receipt", "filename", header.Filename, "error", err)
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, record)
}

// handleGenerateReceipt builds an itemized receipt from a total
func (s *Server) handleGenerateReceipt(w http.ResponseWriter, r *http.Request) {
	var req GenerateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	record, err := s.service.GenerateReceipt(req)
	if err != nil {
		slog.Error("Error generating receipt", "error", err)
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, record)
}

// handleListReceipts returns a list of all receipts
func (s *Server) handleListReceipts(w http.ResponseWriter, r *http.Request) {
	records, err := s.service.ListReceipts()
	if err != nil {
		slog.Error("Error listing receipts", "error", err)
		writeJSONError(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, records)
}

// handleGetReceipt returns a single receipt
func (s *Server) handleGetReceipt(w http.ResponseWriter, r *http.Request) {
	record, err := s.service.GetReceipt(r.PathValue("id"))
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, record)
}

// handleGetReceiptFile returns the uploaded image for a receipt
func (s *Server) handleGetReceiptFile(w http.ResponseWriter, r *http.Request) {
	data, contentType, err := s.service.GetReceiptFile(r.PathValue("id"))
	if err != nil {
		writeServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", contentType)
	w.Write(data)
}

// handleGetReceiptHTML returns printable markup for a receipt
func (s *Server) handleGetReceiptHTML(w http.ResponseWriter, r *http.Request) {
	markup, err := s.service.GetReceiptHTML(r.PathValue("id"))
	if err != nil {
		writeServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	io.WriteString(w, markup)
}

// handleDeleteReceipt deletes a receipt
func (s *Server) handleDeleteReceipt(w http.ResponseWriter, r *http.Request) {
	if err := s.service.DeleteReceipt(r.PathValue("id")); err != nil {
		writeServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

type categoryResponse struct {
	Value       interpret.Category `json:"value"`
	DisplayName string             `json:"display_name"`
}

// handleListCategories returns the closed category set
func (s *Server) handleListCategories(w http.ResponseWriter, r *http.Request) {
	categories := interpret.Categories()
	response := make([]categoryResponse, 0, len(categories))
	for _, c := range categories {
		response = append(response, categoryResponse{Value: c, DisplayName: c.DisplayName()})
	}

	writeJSON(w, http.StatusOK, response)
}
