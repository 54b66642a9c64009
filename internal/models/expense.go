package models

import "time"

// DateLayout is the wire format for expense dates.
const DateLayout = "2006-01-02"

// Expense represents a single spending record owned by a user.
// The owner is set at creation and never changes.
type Expense struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	Title     string    `json:"title"`
	Amount    Cents     `json:"amount"`
	Category  string    `json:"category"`
	Date      string    `json:"date"` // ISO 8601 calendar date (YYYY-MM-DD)
	CreatedAt time.Time `json:"createdAt"`
}

// ParseDate validates and parses an expense date string.
func ParseDate(s string) (time.Time, error) {
	return time.Parse(DateLayout, s)
}

// SuggestedExpense is the structured result the OCR collaborator
// extracts from a receipt image.
type SuggestedExpense struct {
	Title    string `json:"title"`
	Amount   Cents  `json:"amount"`
	Category string `json:"category"`
	Date     string `json:"date"`
}
