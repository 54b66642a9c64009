package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/finpal/finpal-be/internal/auth"
	"github.com/finpal/finpal-be/internal/models"
	"github.com/finpal/finpal-be/internal/services"
	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

// ExpenseHandler handles HTTP requests for expense management.
type ExpenseHandler struct {
	service services.ExpenseServiceProvider
}

// NewExpenseHandler creates a new ExpenseHandler.
func NewExpenseHandler(service services.ExpenseServiceProvider) *ExpenseHandler {
	return &ExpenseHandler{service: service}
}

// ExpensePayload defines the structure for create requests.
type ExpensePayload struct {
	Title    string       `json:"title"`
	Amount   models.Cents `json:"amount"`
	Category string       `json:"category"`
	Date     string       `json:"date"`
}

// UpdatePayload defines the structure for partial updates; omitted
// fields keep their current value.
type UpdatePayload struct {
	Title    *string       `json:"title"`
	Amount   *models.Cents `json:"amount"`
	Category *string       `json:"category"`
	Date     *string       `json:"date"`
}

// List returns all expenses of the authenticated user, newest first.
func (h *ExpenseHandler) List(w http.ResponseWriter, r *http.Request) {
	user, _ := auth.UserFromContext(r.Context())

	expenses, err := h.service.ListExpenses(user.ID)
	if err != nil {
		log.Error().Err(err).Str("user_id", user.ID).Msg("Failed to list expenses")
		respondError(w, http.StatusInternalServerError, "Failed to retrieve expenses")
		return
	}

	respondJSON(w, http.StatusOK, expenses)
}

// Create handles the request to record a new expense.
func (h *ExpenseHandler) Create(w http.ResponseWriter, r *http.Request) {
	user, _ := auth.UserFromContext(r.Context())

	var payload ExpensePayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	expense, err := h.service.CreateExpense(user.ID, payload.Title, payload.Amount, payload.Category, payload.Date)
	if err != nil {
		respondServiceError(w, err, "Failed to create expense")
		return
	}

	respondJSON(w, http.StatusCreated, expense)
}

// Update applies a partial update to an expense owned by the caller.
func (h *ExpenseHandler) Update(w http.ResponseWriter, r *http.Request) {
	user, _ := auth.UserFromContext(r.Context())
	id := chi.URLParam(r, "id")

	var payload UpdatePayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	expense, err := h.service.UpdateExpense(user.ID, id, services.ExpenseUpdate{
		Title:    payload.Title,
		Amount:   payload.Amount,
		Category: payload.Category,
		Date:     payload.Date,
	})
	if err != nil {
		respondServiceError(w, err, "Failed to update expense")
		return
	}

	respondJSON(w, http.StatusOK, expense)
}

// Delete removes an expense owned by the caller.
func (h *ExpenseHandler) Delete(w http.ResponseWriter, r *http.Request) {
	user, _ := auth.UserFromContext(r.Context())
	id := chi.URLParam(r, "id")

	if err := h.service.DeleteExpense(user.ID, id); err != nil {
		respondServiceError(w, err, "Failed to delete expense")
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"message": "Expense removed"})
}

// Categories returns the caller's distinct expense categories, or the
// default suggestion set when they have none yet.
func (h *ExpenseHandler) Categories(w http.ResponseWriter, r *http.Request) {
	user, _ := auth.UserFromContext(r.Context())

	categories, err := h.service.ListCategories(user.ID)
	if err != nil {
		log.Error().Err(err).Str("user_id", user.ID).Msg("Failed to list categories")
		respondError(w, http.StatusInternalServerError, "Failed to retrieve categories")
		return
	}

	respondJSON(w, http.StatusOK, categories)
}

// ChatContext renders a text summary of the caller's recent spending
// for the chat assistant. An optional ?days= query overrides the
// 30-day default window.
func (h *ExpenseHandler) ChatContext(w http.ResponseWriter, r *http.Request) {
	user, _ := auth.UserFromContext(r.Context())

	windowDays := services.DefaultSummaryWindowDays
	if daysStr := r.URL.Query().Get("days"); daysStr != "" {
		days, err := strconv.Atoi(daysStr)
		if err != nil || days <= 0 {
			respondError(w, http.StatusBadRequest, "days must be a positive number")
			return
		}
		windowDays = days
	}

	summary, err := h.service.SummarizeRecent(user.ID, windowDays)
	if err != nil {
		log.Error().Err(err).Str("user_id", user.ID).Msg("Failed to summarize expenses")
		respondError(w, http.StatusInternalServerError, "Failed to build spending summary")
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"context": summary})
}
