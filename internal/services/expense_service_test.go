package services

import (
	"database/sql"
	"testing"
	"time"

	"github.com/finpal/finpal-be/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

// ExpenseServiceTestSuite provides a test suite for expense operations.
type ExpenseServiceTestSuite struct {
	suite.Suite
	db      *sql.DB
	service *ExpenseService
	owner   models.User
	other   models.User
}

func (suite *ExpenseServiceTestSuite) SetupTest() {
	suite.db = newTestDB(suite.T())
	suite.service = NewExpenseService(suite.db, nil)

	users := NewUserService(suite.db)
	owner, err := users.RegisterUser("Owner", "owner@example.com", "pw")
	require.NoError(suite.T(), err)
	other, err := users.RegisterUser("Other", "other@example.com", "pw")
	require.NoError(suite.T(), err)
	suite.owner = owner
	suite.other = other
}

func (suite *ExpenseServiceTestSuite) TearDownTest() {
	if suite.db != nil {
		suite.db.Close()
	}
}

func (suite *ExpenseServiceTestSuite) create(title string, amount models.Cents, category, date string) models.Expense {
	expense, err := suite.service.CreateExpense(suite.owner.ID, title, amount, category, date)
	require.NoError(suite.T(), err, "failed to create expense %q", title)
	return expense
}

func (suite *ExpenseServiceTestSuite) TestCreateAndList() {
	created := suite.create("Groceries", 4599, "Food", "2026-08-20")

	assert.NotEmpty(suite.T(), created.ID)
	assert.Equal(suite.T(), suite.owner.ID, created.UserID)
	assert.Equal(suite.T(), models.Cents(4599), created.Amount)

	expenses, err := suite.service.ListExpenses(suite.owner.ID)
	require.NoError(suite.T(), err)
	require.Len(suite.T(), expenses, 1)
	assert.Equal(suite.T(), created.ID, expenses[0].ID)
	assert.Equal(suite.T(), "Groceries", expenses[0].Title)
	// Amount survives the storage round trip exactly.
	assert.Equal(suite.T(), models.Cents(4599), expenses[0].Amount)
}

func (suite *ExpenseServiceTestSuite) TestListOrdersByDateDescending() {
	suite.create("Old", 100, "Food", "2026-08-01")
	suite.create("New", 200, "Food", "2026-08-20")
	suite.create("Middle", 300, "Food", "2026-08-10")

	expenses, err := suite.service.ListExpenses(suite.owner.ID)
	require.NoError(suite.T(), err)
	require.Len(suite.T(), expenses, 3)
	assert.Equal(suite.T(), "New", expenses[0].Title)
	assert.Equal(suite.T(), "Middle", expenses[1].Title)
	assert.Equal(suite.T(), "Old", expenses[2].Title)
}

func (suite *ExpenseServiceTestSuite) TestListIsOwnerScoped() {
	suite.create("Mine", 100, "Food", "2026-08-20")

	expenses, err := suite.service.ListExpenses(suite.other.ID)
	require.NoError(suite.T(), err)
	assert.Empty(suite.T(), expenses)
}

func (suite *ExpenseServiceTestSuite) TestCreateValidation() {
	cases := []struct {
		name     string
		title    string
		amount   models.Cents
		category string
		date     string
	}{
		{"empty title", "", 100, "Food", "2026-08-20"},
		{"empty category", "Lunch", 100, "", "2026-08-20"},
		{"zero amount", "Lunch", 0, "Food", "2026-08-20"},
		{"negative amount", "Lunch", -100, "Food", "2026-08-20"},
		{"missing date", "Lunch", 100, "Food", ""},
		{"bad date", "Lunch", 100, "Food", "20-08-2026"},
	}

	for _, tc := range cases {
		suite.Run(tc.name, func() {
			_, err := suite.service.CreateExpense(suite.owner.ID, tc.title, tc.amount, tc.category, tc.date)
			assert.ErrorIs(suite.T(), err, ErrValidation)
		})
	}

	expenses, err := suite.service.ListExpenses(suite.owner.ID)
	require.NoError(suite.T(), err)
	assert.Empty(suite.T(), expenses, "nothing may be persisted on validation failure")
}

func (suite *ExpenseServiceTestSuite) TestUpdatePartialFields() {
	created := suite.create("Lunch", 1200, "Food", "2026-08-20")

	newTitle := "Team lunch"
	newAmount := models.Cents(1850)
	updated, err := suite.service.UpdateExpense(suite.owner.ID, created.ID, ExpenseUpdate{
		Title:  &newTitle,
		Amount: &newAmount,
	})
	require.NoError(suite.T(), err)

	assert.Equal(suite.T(), "Team lunch", updated.Title)
	assert.Equal(suite.T(), models.Cents(1850), updated.Amount)
	// Untouched fields keep their values.
	assert.Equal(suite.T(), "Food", updated.Category)
	assert.Equal(suite.T(), "2026-08-20", updated.Date)

	expenses, err := suite.service.ListExpenses(suite.owner.ID)
	require.NoError(suite.T(), err)
	require.Len(suite.T(), expenses, 1)
	assert.Equal(suite.T(), "Team lunch", expenses[0].Title)
}

func (suite *ExpenseServiceTestSuite) TestUpdateByNonOwnerIsForbidden() {
	created := suite.create("Lunch", 1200, "Food", "2026-08-20")

	newTitle := "Hijacked"
	_, err := suite.service.UpdateExpense(suite.other.ID, created.ID, ExpenseUpdate{Title: &newTitle})
	assert.ErrorIs(suite.T(), err, ErrForbidden)

	expenses, err := suite.service.ListExpenses(suite.owner.ID)
	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), "Lunch", expenses[0].Title)
}

func (suite *ExpenseServiceTestSuite) TestUpdateNonexistentIsNotFound() {
	newTitle := "Anything"
	// A missing id is NotFound for every caller, owner or not.
	_, err := suite.service.UpdateExpense(suite.owner.ID, "no-such-id", ExpenseUpdate{Title: &newTitle})
	assert.ErrorIs(suite.T(), err, ErrNotFound)

	_, err = suite.service.UpdateExpense(suite.other.ID, "no-such-id", ExpenseUpdate{Title: &newTitle})
	assert.ErrorIs(suite.T(), err, ErrNotFound)
}

func (suite *ExpenseServiceTestSuite) TestDelete() {
	created := suite.create("Lunch", 1200, "Food", "2026-08-20")

	assert.ErrorIs(suite.T(), suite.service.DeleteExpense(suite.other.ID, created.ID), ErrForbidden)
	assert.ErrorIs(suite.T(), suite.service.DeleteExpense(suite.owner.ID, "no-such-id"), ErrNotFound)

	require.NoError(suite.T(), suite.service.DeleteExpense(suite.owner.ID, created.ID))

	expenses, err := suite.service.ListExpenses(suite.owner.ID)
	require.NoError(suite.T(), err)
	assert.Empty(suite.T(), expenses)
}

func (suite *ExpenseServiceTestSuite) TestCategoriesDefaultFallback() {
	categories, err := suite.service.ListCategories(suite.owner.ID)
	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), DefaultCategories, categories)
	assert.Len(suite.T(), categories, 8)
}

func (suite *ExpenseServiceTestSuite) TestCategoriesAfterFirstExpense() {
	suite.create("Groceries", 4599, "Food", "2026-08-20")

	categories, err := suite.service.ListCategories(suite.owner.ID)
	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), []string{"Food"}, categories)
}

func (suite *ExpenseServiceTestSuite) TestSummarizeRecentNoExpenses() {
	summary, err := suite.service.SummarizeRecent(suite.owner.ID, 30)
	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), "You have no expenses recorded in the last 30 days.", summary)
}

func (suite *ExpenseServiceTestSuite) TestSummarizeRecent() {
	today := time.Now().Format(models.DateLayout)
	suite.create("Groceries", 10000, "Food", today)
	suite.create("Bus pass", 5000, "Transport", today)

	summary, err := suite.service.SummarizeRecent(suite.owner.ID, 30)
	require.NoError(suite.T(), err)

	assert.Contains(suite.T(), summary, "150.00", "total should be the sum of both expenses")
	assert.Contains(suite.T(), summary, "2 expenses")
	assert.Contains(suite.T(), summary, "Top categories: Food (100.00), Transport (50.00)")
	assert.Contains(suite.T(), summary, `"Groceries"`)
	assert.Contains(suite.T(), summary, "Average spend per day: 5.00")
}

func (suite *ExpenseServiceTestSuite) TestSummarizeRecentIgnoresOldExpenses() {
	old := time.Now().AddDate(0, 0, -45).Format(models.DateLayout)
	suite.create("Ancient", 99900, "Housing", old)

	summary, err := suite.service.SummarizeRecent(suite.owner.ID, 30)
	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), "You have no expenses recorded in the last 30 days.", summary)
}

func TestExpenseServiceTestSuite(t *testing.T) {
	suite.Run(t, new(ExpenseServiceTestSuite))
}
