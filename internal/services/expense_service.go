package services

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/finpal/finpal-be/internal/models"
	"github.com/finpal/finpal-be/internal/websocket"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// DefaultCategories is the suggestion set returned when a user has no
// expenses yet. Kept in sync with the category picker in the frontend.
var DefaultCategories = []string{
	"Food",
	"Transportation",
	"Housing",
	"Utilities",
	"Entertainment",
	"Healthcare",
	"Shopping",
	"Other",
}

// ExpenseUpdate carries a partial update; nil fields are left as-is.
type ExpenseUpdate struct {
	Title    *string
	Amount   *models.Cents
	Category *string
	Date     *string
}

// ExpenseServiceProvider defines the interface for expense services.
// Every operation is scoped to the calling user; there is no owner
// override.
type ExpenseServiceProvider interface {
	ListExpenses(userID string) ([]models.Expense, error)
	CreateExpense(userID, title string, amount models.Cents, category, date string) (models.Expense, error)
	UpdateExpense(userID, expenseID string, update ExpenseUpdate) (models.Expense, error)
	DeleteExpense(userID, expenseID string) error
	ListCategories(userID string) ([]string, error)
	SummarizeRecent(userID string, windowDays int) (string, error)
}

// ExpenseService provides business logic for expense management.
type ExpenseService struct {
	db  *sql.DB
	hub *websocket.Hub
}

// NewExpenseService creates a new ExpenseService. The hub may be nil in
// tests; change notifications are then skipped.
func NewExpenseService(db *sql.DB, hub *websocket.Hub) *ExpenseService {
	return &ExpenseService{db: db, hub: hub}
}

// ListExpenses retrieves all expenses owned by a user, newest first.
func (s *ExpenseService) ListExpenses(userID string) ([]models.Expense, error) {
	rows, err := s.db.Query(
		"SELECT id, user_id, title, amount_cents, category, date, created_at FROM expenses WHERE user_id = ? ORDER BY date DESC, created_at DESC",
		userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	expenses := []models.Expense{}
	for rows.Next() {
		var e models.Expense
		if err := rows.Scan(&e.ID, &e.UserID, &e.Title, &e.Amount, &e.Category, &e.Date, &e.CreatedAt); err != nil {
			return nil, err
		}
		expenses = append(expenses, e)
	}
	return expenses, rows.Err()
}

// getExpenseByID retrieves a single expense regardless of owner.
func (s *ExpenseService) getExpenseByID(id string) (models.Expense, error) {
	var e models.Expense
	row := s.db.QueryRow(
		"SELECT id, user_id, title, amount_cents, category, date, created_at FROM expenses WHERE id = ?",
		id,
	)
	err := row.Scan(&e.ID, &e.UserID, &e.Title, &e.Amount, &e.Category, &e.Date, &e.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return models.Expense{}, fmt.Errorf("expense %s: %w", id, ErrNotFound)
		}
		return models.Expense{}, err
	}
	return e, nil
}

// CreateExpense validates and persists a new expense owned by userID.
func (s *ExpenseService) CreateExpense(userID, title string, amount models.Cents, category, date string) (models.Expense, error) {
	title = strings.TrimSpace(title)
	category = strings.TrimSpace(category)
	if title == "" {
		return models.Expense{}, fmt.Errorf("title is required: %w", ErrValidation)
	}
	if category == "" {
		return models.Expense{}, fmt.Errorf("category is required: %w", ErrValidation)
	}
	if amount <= 0 {
		return models.Expense{}, fmt.Errorf("amount must be positive: %w", ErrValidation)
	}
	if _, err := models.ParseDate(date); err != nil {
		return models.Expense{}, fmt.Errorf("date must be a valid YYYY-MM-DD value: %w", ErrValidation)
	}

	expense := models.Expense{
		ID:       uuid.New().String(),
		UserID:   userID,
		Title:    title,
		Amount:   amount,
		Category: category,
		Date:     date,
	}

	stmt, err := s.db.Prepare("INSERT INTO expenses(id, user_id, title, amount_cents, category, date) VALUES(?, ?, ?, ?, ?, ?)")
	if err != nil {
		return models.Expense{}, err
	}
	defer stmt.Close()

	if _, err = stmt.Exec(expense.ID, expense.UserID, expense.Title, expense.Amount, expense.Category, expense.Date); err != nil {
		return models.Expense{}, err
	}

	created, err := s.getExpenseByID(expense.ID)
	if err != nil {
		return models.Expense{}, err
	}

	s.notify(userID, "expense_created", created)
	return created, nil
}

// UpdateExpense applies a partial update to an expense. Existence is
// checked before ownership, so a missing id yields ErrNotFound for any
// caller and ErrForbidden is reserved for someone else's record.
func (s *ExpenseService) UpdateExpense(userID, expenseID string, update ExpenseUpdate) (models.Expense, error) {
	existing, err := s.getExpenseByID(expenseID)
	if err != nil {
		return models.Expense{}, err
	}
	if existing.UserID != userID {
		return models.Expense{}, fmt.Errorf("expense %s: %w", expenseID, ErrForbidden)
	}

	if update.Title != nil {
		t := strings.TrimSpace(*update.Title)
		if t == "" {
			return models.Expense{}, fmt.Errorf("title cannot be empty: %w", ErrValidation)
		}
		existing.Title = t
	}
	if update.Amount != nil {
		if *update.Amount <= 0 {
			return models.Expense{}, fmt.Errorf("amount must be positive: %w", ErrValidation)
		}
		existing.Amount = *update.Amount
	}
	if update.Category != nil {
		c := strings.TrimSpace(*update.Category)
		if c == "" {
			return models.Expense{}, fmt.Errorf("category cannot be empty: %w", ErrValidation)
		}
		existing.Category = c
	}
	if update.Date != nil {
		if _, err := models.ParseDate(*update.Date); err != nil {
			return models.Expense{}, fmt.Errorf("date must be a valid YYYY-MM-DD value: %w", ErrValidation)
		}
		existing.Date = *update.Date
	}

	_, err = s.db.Exec(
		"UPDATE expenses SET title = ?, amount_cents = ?, category = ?, date = ? WHERE id = ?",
		existing.Title, existing.Amount, existing.Category, existing.Date, existing.ID,
	)
	if err != nil {
		return models.Expense{}, err
	}

	s.notify(userID, "expense_updated", existing)
	return existing, nil
}

// DeleteExpense removes an expense after the same existence and
// ownership checks as UpdateExpense.
func (s *ExpenseService) DeleteExpense(userID, expenseID string) error {
	existing, err := s.getExpenseByID(expenseID)
	if err != nil {
		return err
	}
	if existing.UserID != userID {
		return fmt.Errorf("expense %s: %w", expenseID, ErrForbidden)
	}

	if _, err := s.db.Exec("DELETE FROM expenses WHERE id = ?", expenseID); err != nil {
		return err
	}

	s.notify(userID, "expense_deleted", map[string]string{"id": expenseID})
	return nil
}

// ListCategories returns the distinct categories the user has spent
// in. A user with no expenses gets the default suggestion set rather
// than an empty list.
func (s *ExpenseService) ListCategories(userID string) ([]string, error) {
	rows, err := s.db.Query("SELECT DISTINCT category FROM expenses WHERE user_id = ? ORDER BY category", userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var categories []string
	for rows.Next() {
		var c string
		if err := rows.Scan(&c); err != nil {
			return nil, err
		}
		categories = append(categories, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if len(categories) == 0 {
		return append([]string(nil), DefaultCategories...), nil
	}
	return categories, nil
}

// notify pushes an expense change event to the owner's connected
// dashboard clients.
func (s *ExpenseService) notify(userID, action string, payload interface{}) {
	if s.hub == nil {
		return
	}
	msg, err := json.Marshal(websocket.Message{Action: action, Payload: payload})
	if err != nil {
		log.Error().Err(err).Str("action", action).Msg("Failed to encode expense event")
		return
	}
	s.hub.BroadcastTo(userID, msg)
}
