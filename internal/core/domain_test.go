package core

import (
	"errors"
	"reflect"
	"testing"
)

func TestNewExpenseValid(t *testing.T) {
	e, err := NewExpense("ab12cd34", "2024-03-01", 12.50, "Food & Dining", "Coffee", []string{"work", "morning"})
	if err != nil {
		t.Fatalf("expected valid expense, got %v", err)
	}
	if e.ID != "ab12cd34" || e.Amount != 12.50 {
		t.Fatalf("unexpected expense: %+v", e)
	}
	if len(e.Tags) != 2 || e.Tags[0] != "work" {
		t.Fatalf("tags not preserved: %v", e.Tags)
	}
}

func TestNewExpenseNilTags(t *testing.T) {
	e, err := NewExpense("id1", "2024-03-01", 5, "Food", "Lunch", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if e.Tags == nil || len(e.Tags) != 0 {
		t.Fatalf("nil tags should normalize to empty slice, got %#v", e.Tags)
	}
}

func TestNewExpenseInvalid(t *testing.T) {
	cases := []struct {
		name        string
		date        string
		amount      float64
		category    string
		description string
		want        error
	}{
		{"bad date format", "03/01/2024", 10, "Food", "Lunch", ErrInvalidDate},
		{"impossible date", "2023-02-29", 10, "Food", "Lunch", ErrInvalidDate},
		{"zero amount", "2024-03-01", 0, "Food", "Lunch", ErrInvalidAmount},
		{"negative amount", "2024-03-01", -5, "Food", "Lunch", ErrInvalidAmount},
		{"empty category", "2024-03-01", 10, "", "Lunch", ErrEmptyCategory},
		{"whitespace category", "2024-03-01", 10, "   ", "Lunch", ErrEmptyCategory},
		{"empty description", "2024-03-01", 10, "Food", "", ErrEmptyDescription},
		{"whitespace description", "2024-03-01", 10, "Food", "  \t", ErrEmptyDescription},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			e, err := NewExpense("id1", tc.date, tc.amount, tc.category, tc.description, nil)
			if !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
			if !reflect.DeepEqual(e, Expense{}) {
				t.Fatalf("failed construction must not leave a partial expense: %+v", e)
			}
		})
	}
}

func TestMapRoundTrip(t *testing.T) {
	e, err := NewExpense("ab12cd34", "2024-03-01", 12.50, "Food & Dining", "Coffee", []string{"work", "work", "late"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got, err := FromMap(e.ToMap())
	if err != nil {
		t.Fatalf("round trip failed: %v", err)
	}
	if !reflect.DeepEqual(e, got) {
		t.Fatalf("round trip mismatch:\n  in:  %+v\n  out: %+v", e, got)
	}
}

func TestFromMapDefaults(t *testing.T) {
	// Missing keys default to zero values, so the record fails validation
	// rather than panicking or aborting a batch decode.
	_, err := FromMap(map[string]any{"id": "x"})
	if err == nil {
		t.Fatal("expected validation error for incomplete map")
	}

	// Decoded JSON carries tags as []any.
	e, err := FromMap(map[string]any{
		"id":          "ab12cd34",
		"date":        "2024-03-01",
		"amount":      7.0,
		"category":    "Food",
		"description": "Tea",
		"tags":        []any{"hot", "green"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(e.Tags, []string{"hot", "green"}) {
		t.Fatalf("unexpected tags: %v", e.Tags)
	}
}

func TestParseAmount(t *testing.T) {
	cases := []struct {
		in   string
		want float64
		ok   bool
	}{
		{"12.34", 12.34, true},
		{"12,34", 12.34, true},
		{"12.345", 12.35, true},
		{"7", 7, true},
		{"0", 0, false},
		{"-3.50", 0, false},
		{"abc", 0, false},
		{"", 0, false},
		{"NaN", 0, false},
		{"Inf", 0, false},
	}
	for _, tc := range cases {
		got, err := ParseAmount(tc.in)
		if tc.ok && (err != nil || got != tc.want) {
			t.Errorf("ParseAmount(%q) = %v, %v; want %v", tc.in, got, err, tc.want)
		}
		if !tc.ok && err == nil {
			t.Errorf("ParseAmount(%q) expected error", tc.in)
		}
	}
}
