package main

import (
	"fmt"
	"strings"

	"fintrack/internal/core"
	"fintrack/internal/report"
)

func currency(amount float64) string {
	return fmt.Sprintf("$%.2f", amount)
}

func (a *app) printHeader(title string) {
	line := strings.Repeat("=", 60)
	fmt.Fprintf(a.out, "\n%s\n          %s\n%s\n", line, title, line)
}

func (a *app) printMenu(title string, options []string) {
	a.printHeader(title)
	for i, opt := range options {
		fmt.Fprintf(a.out, "%d. %s\n", i+1, opt)
	}
	fmt.Fprintln(a.out, strings.Repeat("=", 60))
}

func (a *app) printExpenseTable(expenses []core.Expense) {
	line := strings.Repeat("=", 80)
	fmt.Fprintf(a.out, "\n%s\n%-12s %-20s %12s  %-30s\n%s\n", line, "Date", "Category", "Amount", "Description", line)
	var total float64
	for _, e := range expenses {
		fmt.Fprintf(a.out, "%-12s %-20s %12s  %-30s\n", e.Date, clip(e.Category, 20), currency(e.Amount), clip(e.Description, 30))
		total += e.Amount
	}
	fmt.Fprintf(a.out, "%s\n%-34s %12s\n%s\n", line, "TOTAL", currency(total), line)
}

func (a *app) printMonthlyReport(r report.Monthly) {
	a.printHeader(fmt.Sprintf("MONTHLY REPORT: %s %d", strings.ToUpper(r.MonthName), r.Year))

	fmt.Fprintf(a.out, "\nSummary:\n  Total expenses: %d\n  Total amount:   %s\n  Average daily:  %s\n",
		r.Count, currency(r.Total), currency(r.AverageDaily))

	fmt.Fprintln(a.out, "\nTop categories:")
	if len(r.TopCategories) == 0 {
		fmt.Fprintln(a.out, "  No expenses for this month")
	}
	for i, c := range r.TopCategories {
		percent := 0.0
		if r.Total > 0 {
			percent = c.Amount / r.Total * 100
		}
		fmt.Fprintf(a.out, "  %d. %s: %s (%.1f%%)\n", i+1, c.Name, currency(c.Amount), percent)
	}

	if len(r.Expenses) > 0 {
		fmt.Fprintln(a.out, "\nRecent expenses:")
		recent := r.Expenses
		if len(recent) > 5 {
			recent = recent[len(recent)-5:]
		}
		for _, e := range recent {
			fmt.Fprintf(a.out, "  %s: %s - %s\n", e.Date, currency(e.Amount), e.Category)
		}
	}
}

// printCategoryChart renders a text bar chart of per-category spending.
func (a *app) printCategoryChart(summaries []report.CategorySummary) {
	const width = 40
	maxAmount := summaries[0].Total // sorted descending
	var grand float64
	for _, s := range summaries {
		grand += s.Total
	}

	fmt.Fprintln(a.out)
	for _, s := range summaries {
		barLen := 0
		if maxAmount > 0 {
			barLen = int(s.Total / maxAmount * width)
		}
		fmt.Fprintf(a.out, "%-20s %10s %6.1f%% %s\n",
			clip(s.Name, 20), currency(s.Total), s.Percent, strings.Repeat("#", barLen))
	}
	fmt.Fprintln(a.out, strings.Repeat("-", width+40))
	fmt.Fprintf(a.out, "%-20s %10s\n", "TOTAL", currency(grand))
}

func clip(s string, n int) string {
	r := []rune(s)
	if len(r) > n {
		return string(r[:n])
	}
	return s
}
