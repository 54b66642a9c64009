package handlers

import (
	"context"
	"errors"
	"io"
	"net/http"
	"os"
	"strings"

	"github.com/finpal/finpal-be/internal/models"
	"github.com/finpal/finpal-be/internal/ocr"
	"github.com/rs/zerolog/log"
)

// ReceiptParser extracts an expense suggestion from a receipt image.
type ReceiptParser interface {
	ParseReceipt(ctx context.Context, filename string, image io.Reader) (models.SuggestedExpense, error)
}

// ReceiptHandler accepts receipt image uploads and relays them to the
// external OCR collaborator.
type ReceiptHandler struct {
	parser    ReceiptParser
	uploadDir string
	maxSize   int64
}

// NewReceiptHandler creates a new ReceiptHandler.
func NewReceiptHandler(parser ReceiptParser, uploadDir string, maxSize int64) *ReceiptHandler {
	return &ReceiptHandler{parser: parser, uploadDir: uploadDir, maxSize: maxSize}
}

// Upload handles a multipart receipt upload. Only image content is
// accepted and the size cap is enforced before anything reaches the
// collaborator. The temporary file is removed on every path.
func (h *ReceiptHandler) Upload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxSize)
	if err := r.ParseMultipartForm(h.maxSize); err != nil {
		respondError(w, http.StatusBadRequest, "Upload too large or malformed")
		return
	}

	file, header, err := r.FormFile("receipt")
	if err != nil {
		respondError(w, http.StatusBadRequest, "No file uploaded")
		return
	}
	defer file.Close()

	if !strings.HasPrefix(header.Header.Get("Content-Type"), "image/") {
		respondError(w, http.StatusBadRequest, "Please upload only image files")
		return
	}

	tmp, err := os.CreateTemp(h.uploadDir, "receipt-*")
	if err != nil {
		log.Error().Err(err).Msg("Failed to create temp upload file")
		respondError(w, http.StatusInternalServerError, "Failed to store upload")
		return
	}
	defer os.Remove(tmp.Name())
	defer tmp.Close()

	if _, err := io.Copy(tmp, file); err != nil {
		log.Error().Err(err).Msg("Failed to write temp upload file")
		respondError(w, http.StatusInternalServerError, "Failed to store upload")
		return
	}
	if _, err := tmp.Seek(0, io.SeekStart); err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to store upload")
		return
	}

	suggestion, err := h.parser.ParseReceipt(r.Context(), header.Filename, tmp)
	if err != nil {
		log.Error().Err(err).Str("filename", header.Filename).Msg("Receipt processing failed")
		if errors.Is(err, ocr.ErrProcessingFailed) {
			respondError(w, http.StatusBadGateway, "Failed to process receipt")
			return
		}
		respondError(w, http.StatusInternalServerError, "Failed to process receipt")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"message":          "Receipt processed successfully",
		"suggestedExpense": suggestion,
	})
}
