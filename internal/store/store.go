// Package store holds the in-memory expense collection together with the
// known categories and per-category budgets. It has no knowledge of
// persistence; callers decide when state is written back.
package store

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"fintrack/internal/core"
)

// DefaultCategories seeds every new store.
var DefaultCategories = []string{
	"Food & Dining",
	"Transportation",
	"Shopping",
	"Entertainment",
	"Bills & Utilities",
	"Healthcare",
	"Education",
	"Personal Care",
	"Travel",
	"Other",
}

type Store struct {
	expenses   []core.Expense
	categories []string
	budgets    map[string]float64
}

func New() *Store {
	return &Store{
		categories: append([]string(nil), DefaultCategories...),
		budgets:    make(map[string]float64),
	}
}

// Add validates and appends a new expense, generating a fresh id. A new
// category name is registered automatically.
func (s *Store) Add(date string, amount float64, category, description string, tags []string) (core.Expense, error) {
	id := s.newID()
	e, err := core.NewExpense(id, date, amount, category, description, tags)
	if err != nil {
		return core.Expense{}, err
	}
	s.expenses = append(s.expenses, e)
	s.AddCategory(e.Category)
	return e, nil
}

// newID returns a short id not already present in the store. Collisions on
// the 8-char prefix are unlikely but checked anyway; generation retries
// until the id is unique.
func (s *Store) newID() string {
	for {
		id := uuid.NewString()[:8]
		if _, ok := s.Get(id); !ok {
			return id
		}
	}
}

// Remove deletes the first expense with the given id and reports whether
// anything was removed. An unknown id is not an error.
func (s *Store) Remove(id string) bool {
	for i, e := range s.expenses {
		if e.ID == id {
			s.expenses = append(s.expenses[:i], s.expenses[i+1:]...)
			return true
		}
	}
	return false
}

func (s *Store) Get(id string) (core.Expense, bool) {
	for _, e := range s.expenses {
		if e.ID == id {
			return e, true
		}
	}
	return core.Expense{}, false
}

// List returns a copy of all expenses in insertion order.
func (s *Store) List() []core.Expense {
	return append([]core.Expense(nil), s.expenses...)
}

func (s *Store) Len() int {
	return len(s.expenses)
}

func (s *Store) ByCategory(category string) []core.Expense {
	var out []core.Expense
	for _, e := range s.expenses {
		if e.Category == category {
			out = append(out, e)
		}
	}
	return out
}

// ByMonth returns the expenses whose date falls in the given year and month.
// Records with an unparsable date are skipped; dates are validated at
// construction, so such records should not exist.
func (s *Store) ByMonth(year, month int) []core.Expense {
	var out []core.Expense
	for _, e := range s.expenses {
		t, ok := e.Time()
		if !ok {
			continue
		}
		if t.Year() == year && int(t.Month()) == month {
			out = append(out, e)
		}
	}
	return out
}

// Search returns all expenses whose description, category, or any tag
// contains the keyword, case-insensitively, in store order.
func (s *Store) Search(keyword string) []core.Expense {
	keyword = strings.ToLower(keyword)
	var out []core.Expense
	for _, e := range s.expenses {
		if matches(e, keyword) {
			out = append(out, e)
		}
	}
	return out
}

func matches(e core.Expense, keyword string) bool {
	if strings.Contains(strings.ToLower(e.Description), keyword) {
		return true
	}
	if strings.Contains(strings.ToLower(e.Category), keyword) {
		return true
	}
	for _, tag := range e.Tags {
		if strings.Contains(strings.ToLower(tag), keyword) {
			return true
		}
	}
	return false
}

func (s *Store) TotalSpent() float64 {
	var total float64
	for _, e := range s.expenses {
		total += e.Amount
	}
	return total
}

func (s *Store) CategoryTotals() map[string]float64 {
	totals := make(map[string]float64)
	for _, e := range s.expenses {
		totals[e.Category] += e.Amount
	}
	return totals
}

// MonthlyTotals sums expenses per month, keyed "YYYY-MM".
func (s *Store) MonthlyTotals() map[string]float64 {
	totals := make(map[string]float64)
	for _, e := range s.expenses {
		t, ok := e.Time()
		if !ok {
			continue
		}
		totals[fmt.Sprintf("%04d-%02d", t.Year(), int(t.Month()))] += e.Amount
	}
	return totals
}

// AddCategory registers a category name. Adding an existing name is a no-op;
// insertion order is preserved and there is no removal.
func (s *Store) AddCategory(name string) {
	for _, c := range s.categories {
		if c == name {
			return
		}
	}
	s.categories = append(s.categories, name)
}

func (s *Store) Categories() []string {
	return append([]string(nil), s.categories...)
}

// SetBudget sets or overwrites the monthly budget ceiling for a category,
// registering the category if it is new.
func (s *Store) SetBudget(category string, amount float64) {
	s.budgets[category] = amount
	s.AddCategory(category)
}

func (s *Store) Budgets() map[string]float64 {
	out := make(map[string]float64, len(s.budgets))
	for k, v := range s.budgets {
		out[k] = v
	}
	return out
}

// BudgetStatus reports budget versus actual spending for every category
// with a budget entry. PercentUsed is 0 when the budget is 0.
func (s *Store) BudgetStatus() map[string]core.BudgetStatus {
	actuals := s.CategoryTotals()
	status := make(map[string]core.BudgetStatus, len(s.budgets))
	for category, budget := range s.budgets {
		actual := actuals[category]
		st := core.BudgetStatus{
			Budget:    budget,
			Actual:    actual,
			Remaining: budget - actual,
		}
		if budget > 0 {
			st.PercentUsed = actual / budget * 100
		}
		status[category] = st
	}
	return status
}

// Clear empties the expense list. Categories and budgets are untouched.
func (s *Store) Clear() {
	s.expenses = nil
}

// Replace swaps in a freshly loaded expense list, registering its
// categories. Used to seed the store from persistence at startup.
func (s *Store) Replace(expenses []core.Expense) {
	s.expenses = append([]core.Expense(nil), expenses...)
	for _, e := range s.expenses {
		s.AddCategory(e.Category)
	}
}
