// Package report computes aggregate reports over expense lists. All
// functions are pure: they never mutate their input and never touch
// persistence. Empty input is always valid and yields zero values.
package report

import (
	"fmt"
	"sort"
	"time"

	"fintrack/internal/core"
)

// Monthly is the result of MonthlyReport.
type Monthly struct {
	Year           int
	Month          int
	MonthName      string
	Count          int
	Total          float64
	AverageDaily   float64
	CategoryTotals map[string]float64
	TopCategories  []core.CategoryAmount // up to 3, descending by amount
	Expenses       []core.Expense        // ascending by date
}

// CategorySummary describes one category within a CategoryReport.
type CategorySummary struct {
	Name     string
	Total    float64
	Count    int
	Percent  float64 // of the grand total, 0 when that is 0
	Expenses []core.Expense
}

// Stats is the result of Statistics.
type Stats struct {
	Count     int
	Total     float64
	Average   float64
	Min       float64
	Max       float64
	ByMonth   map[string]float64 // keyed "YYYY-MM"
	ByWeekday map[string]float64 // keyed Monday..Sunday, always all seven
}

// MonthlyReport summarizes the expenses falling in the given year and month.
// Records with an unparsable date are skipped.
func MonthlyReport(expenses []core.Expense, year, month int) Monthly {
	r := Monthly{
		Year:           year,
		Month:          month,
		MonthName:      time.Month(month).String(),
		CategoryTotals: make(map[string]float64),
	}

	var order []string
	for _, e := range expenses {
		t, ok := e.Time()
		if !ok {
			continue
		}
		if t.Year() != year || int(t.Month()) != month {
			continue
		}
		r.Expenses = append(r.Expenses, e)
		r.Total += e.Amount
		if _, seen := r.CategoryTotals[e.Category]; !seen {
			order = append(order, e.Category)
		}
		r.CategoryTotals[e.Category] += e.Amount
	}
	r.Count = len(r.Expenses)

	sort.SliceStable(r.Expenses, func(i, j int) bool {
		return r.Expenses[i].Date < r.Expenses[j].Date
	})

	r.TopCategories = topCategories(r.CategoryTotals, order, 3)

	if days := DaysInMonth(year, month); days > 0 {
		r.AverageDaily = r.Total / float64(days)
	}
	return r
}

// topCategories ranks categories descending by amount. Ties keep the order
// in which the categories first appeared.
func topCategories(totals map[string]float64, order []string, n int) []core.CategoryAmount {
	ranked := make([]core.CategoryAmount, 0, len(order))
	for _, name := range order {
		ranked = append(ranked, core.CategoryAmount{Name: name, Amount: totals[name]})
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Amount > ranked[j].Amount
	})
	if len(ranked) > n {
		ranked = ranked[:n]
	}
	return ranked
}

// CategoryReport breaks all expenses down per category, sorted descending
// by total spend.
func CategoryReport(expenses []core.Expense) []CategorySummary {
	totals := make(map[string]float64)
	counts := make(map[string]int)
	perCategory := make(map[string][]core.Expense)
	var order []string

	var grand float64
	for _, e := range expenses {
		if _, seen := totals[e.Category]; !seen {
			order = append(order, e.Category)
		}
		totals[e.Category] += e.Amount
		counts[e.Category]++
		perCategory[e.Category] = append(perCategory[e.Category], e)
		grand += e.Amount
	}

	out := make([]CategorySummary, 0, len(order))
	for _, name := range order {
		cs := CategorySummary{
			Name:     name,
			Total:    totals[name],
			Count:    counts[name],
			Expenses: perCategory[name],
		}
		if grand > 0 {
			cs.Percent = cs.Total / grand * 100
		}
		out = append(out, cs)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Total > out[j].Total
	})
	return out
}

// Statistics computes overall figures for the full expense list. All fields
// are zero on empty input; monthly and weekday buckets skip records with an
// unparsable date.
func Statistics(expenses []core.Expense) Stats {
	s := Stats{
		ByMonth:   make(map[string]float64),
		ByWeekday: weekdayBuckets(),
	}
	if len(expenses) == 0 {
		return s
	}

	s.Count = len(expenses)
	s.Min = expenses[0].Amount
	s.Max = expenses[0].Amount
	for _, e := range expenses {
		s.Total += e.Amount
		if e.Amount < s.Min {
			s.Min = e.Amount
		}
		if e.Amount > s.Max {
			s.Max = e.Amount
		}
		t, ok := e.Time()
		if !ok {
			continue
		}
		s.ByMonth[fmt.Sprintf("%04d-%02d", t.Year(), int(t.Month()))] += e.Amount
		s.ByWeekday[t.Weekday().String()] += e.Amount
	}
	s.Average = s.Total / float64(s.Count)
	return s
}

func weekdayBuckets() map[string]float64 {
	buckets := make(map[string]float64, 7)
	for d := time.Sunday; d <= time.Saturday; d++ {
		buckets[d.String()] = 0
	}
	return buckets
}

// DaysInMonth returns the number of calendar days in the month, applying
// the Gregorian leap rule for February.
func DaysInMonth(year, month int) int {
	switch month {
	case 2:
		if (year%4 == 0 && year%100 != 0) || year%400 == 0 {
			return 29
		}
		return 28
	case 4, 6, 9, 11:
		return 30
	default:
		return 31
	}
}
