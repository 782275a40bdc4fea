package core

import (
	"errors"
	"math"
	"strings"
	"time"
)

// DateLayout is the wire format for expense dates.
const DateLayout = "2006-01-02"

var (
	ErrInvalidDate      = errors.New("date must be in YYYY-MM-DD format")
	ErrInvalidAmount    = errors.New("amount must be a positive number")
	ErrEmptyCategory    = errors.New("category cannot be empty")
	ErrEmptyDescription = errors.New("description cannot be empty")
)

// Expense is a single validated expense record. Instances are built through
// NewExpense or FromMap and are never mutated afterwards.
type Expense struct {
	ID          string   `json:"id"`
	Date        string   `json:"date"`
	Amount      float64  `json:"amount"`
	Category    string   `json:"category"`
	Description string   `json:"description"`
	Tags        []string `json:"tags"`
}

// NewExpense validates the fields and returns the expense. Nil tags are
// normalized to an empty slice; tag order and duplicates are kept as given.
func NewExpense(id, date string, amount float64, category, description string, tags []string) (Expense, error) {
	e := Expense{
		ID:          id,
		Date:        date,
		Amount:      amount,
		Category:    category,
		Description: description,
		Tags:        tags,
	}
	if e.Tags == nil {
		e.Tags = []string{}
	}
	if err := e.Validate(); err != nil {
		return Expense{}, err
	}
	return e, nil
}

func (e Expense) Validate() error {
	if _, err := time.Parse(DateLayout, e.Date); err != nil {
		return ErrInvalidDate
	}
	if e.Amount <= 0 || math.IsNaN(e.Amount) || math.IsInf(e.Amount, 0) {
		return ErrInvalidAmount
	}
	if strings.TrimSpace(e.Category) == "" {
		return ErrEmptyCategory
	}
	if strings.TrimSpace(e.Description) == "" {
		return ErrEmptyDescription
	}
	return nil
}

// Time parses the expense date. The bool reports whether parsing succeeded;
// dates are validated at construction so a false here means the record
// bypassed validation.
func (e Expense) Time() (time.Time, bool) {
	t, err := time.Parse(DateLayout, e.Date)
	return t, err == nil
}

// ToMap converts the expense to a plain key-value map for serialization.
// FromMap(e.ToMap()) round-trips exactly.
func (e Expense) ToMap() map[string]any {
	tags := e.Tags
	if tags == nil {
		tags = []string{}
	}
	return map[string]any{
		"id":          e.ID,
		"date":        e.Date,
		"amount":      e.Amount,
		"category":    e.Category,
		"description": e.Description,
		"tags":        tags,
	}
}

// FromMap builds an expense from a plain map, as produced by ToMap or by
// decoding a snapshot record. Missing or mistyped keys default to zero
// values so that a partially corrupt record fails validation instead of
// aborting the whole decode.
func FromMap(m map[string]any) (Expense, error) {
	return NewExpense(
		stringKey(m, "id"),
		stringKey(m, "date"),
		floatKey(m, "amount"),
		stringKey(m, "category"),
		stringKey(m, "description"),
		tagsKey(m, "tags"),
	)
}

func stringKey(m map[string]any, key string) string {
	if v, ok := m[key].(string); ok {
		return v
	}
	return ""
}

func floatKey(m map[string]any, key string) float64 {
	switch v := m[key].(type) {
	case float64:
		return v
	case int:
		return float64(v)
	case int64:
		return float64(v)
	}
	return 0
}

func tagsKey(m map[string]any, key string) []string {
	switch v := m[key].(type) {
	case []string:
		return append([]string(nil), v...)
	case []any:
		tags := make([]string, 0, len(v))
		for _, t := range v {
			if s, ok := t.(string); ok {
				tags = append(tags, s)
			}
		}
		return tags
	}
	return []string{}
}
