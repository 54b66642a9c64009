package services

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/finpal/finpal-be/internal/models"
)

// DefaultSummaryWindowDays is the trailing window SummarizeRecent uses
// when the caller does not specify one.
const DefaultSummaryWindowDays = 30

type categoryTotal struct {
	name  string
	total models.Cents
}

// SummarizeRecent renders a human-readable overview of the user's
// spending within the trailing window: total spend, top categories,
// the single largest expense and the average spend per day. The text
// is fed to the chat assistant as conversational context.
func (s *ExpenseService) SummarizeRecent(userID string, windowDays int) (string, error) {
	if windowDays <= 0 {
		windowDays = DefaultSummaryWindowDays
	}
	cutoff := time.Now().AddDate(0, 0, -windowDays).Format(models.DateLayout)

	rows, err := s.db.Query(
		"SELECT id, user_id, title, amount_cents, category, date, created_at FROM expenses WHERE user_id = ? AND date >= ? ORDER BY date DESC",
		userID, cutoff,
	)
	if err != nil {
		return "", err
	}
	defer rows.Close()

	var (
		expenses []models.Expense
		total    models.Cents
		largest  models.Expense
		byCat    = map[string]models.Cents{}
	)
	for rows.Next() {
		var e models.Expense
		if err := rows.Scan(&e.ID, &e.UserID, &e.Title, &e.Amount, &e.Category, &e.Date, &e.CreatedAt); err != nil {
			return "", err
		}
		expenses = append(expenses, e)
		total += e.Amount
		byCat[e.Category] += e.Amount
		if e.Amount > largest.Amount {
			largest = e
		}
	}
	if err := rows.Err(); err != nil {
		return "", err
	}

	if len(expenses) == 0 {
		return fmt.Sprintf("You have no expenses recorded in the last %d days.", windowDays), nil
	}

	// Top 3 categories by amount spent, descending.
	cats := make([]categoryTotal, 0, len(byCat))
	for name, amt := range byCat {
		cats = append(cats, categoryTotal{name: name, total: amt})
	}
	sort.Slice(cats, func(i, j int) bool {
		if cats[i].total != cats[j].total {
			return cats[i].total > cats[j].total
		}
		return cats[i].name < cats[j].name
	})
	if len(cats) > 3 {
		cats = cats[:3]
	}

	parts := make([]string, 0, len(cats))
	for _, c := range cats {
		parts = append(parts, fmt.Sprintf("%s (%s)", c.name, c.total))
	}

	avgPerDay := models.Cents(int64(total) / int64(windowDays))

	var b strings.Builder
	fmt.Fprintf(&b, "In the last %d days you spent a total of %s across %d expenses. ", windowDays, total, len(expenses))
	fmt.Fprintf(&b, "Top categories: %s. ", strings.Join(parts, ", "))
	fmt.Fprintf(&b, "Your largest single expense was %q (%s) at %s on %s. ", largest.Title, largest.Category, largest.Amount, largest.Date)
	fmt.Fprintf(&b, "Average spend per day: %s.", avgPerDay)
	return b.String(), nil
}
