// Package ocr talks to the external receipt-parsing collaborator. The
// collaborator runs OCR plus an extraction model over an uploaded
// receipt image and returns structured merchant/total data; this
// package turns that into an expense suggestion.
package ocr

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/finpal/finpal-be/internal/models"
)

// ErrProcessingFailed signals that the collaborator was unreachable,
// returned a non-200 status or produced unparseable output. There is
// no partial result and no retry; the caller decides whether to try
// again.
var ErrProcessingFailed = errors.New("receipt processing failed")

// parseResponse mirrors the collaborator's output document. Fields we
// do not turn into a suggestion are ignored.
type parseResponse struct {
	MerchantInfo struct {
		Name string `json:"name"`
	} `json:"merchant_info"`
	ReceiptInfo struct {
		Date string `json:"date"`
	} `json:"receipt_info"`
	Totals struct {
		Total models.Cents `json:"total"`
	} `json:"totals"`
}

// Client calls the receipt-parsing service over HTTP with an explicit
// timeout. One request, one typed error; nothing is queued or retried.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a Client for the service at baseURL.
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// ParseReceipt forwards the raw image bytes to the collaborator and
// maps its output to an expense suggestion.
func (c *Client) ParseReceipt(ctx context.Context, filename string, image io.Reader) (models.SuggestedExpense, error) {
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("receipt", filename)
	if err != nil {
		return models.SuggestedExpense{}, err
	}
	if _, err := io.Copy(part, image); err != nil {
		return models.SuggestedExpense{}, err
	}
	if err := writer.Close(); err != nil {
		return models.SuggestedExpense{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/parse-receipt", &body)
	if err != nil {
		return models.SuggestedExpense{}, err
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return models.SuggestedExpense{}, fmt.Errorf("%w: %v", ErrProcessingFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return models.SuggestedExpense{}, fmt.Errorf("%w: collaborator returned status %d", ErrProcessingFailed, resp.StatusCode)
	}

	var parsed parseResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return models.SuggestedExpense{}, fmt.Errorf("%w: %v", ErrProcessingFailed, err)
	}
	if parsed.Totals.Total <= 0 {
		return models.SuggestedExpense{}, fmt.Errorf("%w: no total found on receipt", ErrProcessingFailed)
	}

	return toSuggestion(parsed), nil
}

// toSuggestion maps the collaborator document to the fields the
// add-expense form can prefill.
func toSuggestion(parsed parseResponse) models.SuggestedExpense {
	title := parsed.MerchantInfo.Name
	if title == "" {
		title = "Receipt"
	}

	date := normalizeDate(parsed.ReceiptInfo.Date)
	if date == "" {
		date = time.Now().Format(models.DateLayout)
	}

	return models.SuggestedExpense{
		Title:    title,
		Amount:   parsed.Totals.Total,
		Category: "Other",
		Date:     date,
	}
}

// normalizeDate tries the date formats receipts commonly carry and
// returns an ISO date, or "" when none match.
func normalizeDate(s string) string {
	layouts := []string{
		models.DateLayout,
		"01/02/2006",
		"02/01/2006",
		"Jan 2, 2006",
		"2 Jan 2006",
	}
	for _, layout := range layouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format(models.DateLayout)
		}
	}
	return ""
}
