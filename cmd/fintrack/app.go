package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	"fintrack/internal/backend"
	"fintrack/internal/config"
	"fintrack/internal/core"
	"fintrack/internal/log"
	"fintrack/internal/report"
	"fintrack/internal/storage"
	"fintrack/internal/store"
)

// command enumerates the main menu choices.
type command int

const (
	cmdAddExpense command = iota + 1
	cmdViewExpenses
	cmdSearch
	cmdMonthlyReports
	cmdCategoryAnalysis
	cmdSetBudget
	cmdBudgetStatus
	cmdStatistics
	cmdExportImport
	cmdBackupRestore
	cmdExit
)

var menuLabels = []string{
	"Add New Expense",
	"View All Expenses",
	"Search Expenses",
	"Monthly Reports",
	"Category Analysis",
	"Set/Update Budget",
	"Budget Status",
	"Statistics Dashboard",
	"Export/Import Data",
	"Backup/Restore",
	"Exit",
}

type app struct {
	store   *store.Store
	repo    backend.Repository
	files   *storage.FileStore
	useJSON bool
	logger  *log.Logger

	lines <-chan string
	quit  <-chan struct{}
	out   io.Writer
}

func newApp(st *store.Store, res *backend.Result, cfg *config.Config, logger *log.Logger, quit <-chan struct{}) *app {
	return &app{
		store:   st,
		repo:    res.Repo,
		files:   res.Files,
		useJSON: cfg.DataBackend == string(backend.JSONBackend),
		logger:  logger,
		lines:   readLines(os.Stdin),
		quit:    quit,
		out:     os.Stdout,
	}
}

// run drives the menu loop until the user exits or input ends.
func (a *app) run(ctx context.Context) {
	a.printHeader("PERSONAL FINANCE TRACKER")
	fmt.Fprintln(a.out, "Track expenses, set budgets, and generate reports.")

	for {
		a.printMenu("MAIN MENU", menuLabels)
		choice, ok := a.prompt(fmt.Sprintf("\nEnter your choice (1-%d): ", len(menuLabels)))
		if !ok {
			// End of input or shutdown: save and leave.
			a.save(ctx)
			return
		}
		n, err := strconv.Atoi(choice)
		if err != nil || n < 1 || n > len(menuLabels) {
			fmt.Fprintf(a.out, "Please enter a number between 1 and %d.\n", len(menuLabels))
			continue
		}

		switch command(n) {
		case cmdAddExpense:
			a.addExpense(ctx)
		case cmdViewExpenses:
			a.viewExpenses(ctx)
		case cmdSearch:
			a.searchExpenses()
		case cmdMonthlyReports:
			a.monthlyReports()
		case cmdCategoryAnalysis:
			a.categoryAnalysis()
		case cmdSetBudget:
			a.setBudget()
		case cmdBudgetStatus:
			a.budgetStatus()
		case cmdStatistics:
			a.statistics()
		case cmdExportImport:
			a.exportImport(ctx)
		case cmdBackupRestore:
			a.backupRestore()
		case cmdExit:
			a.save(ctx)
			fmt.Fprintln(a.out, "\nThank you for using Personal Finance Tracker. Goodbye!")
			return
		}
	}
}

// save writes the current store state through the active backend. Failures
// are logged, never fatal; the data may not have been persisted.
func (a *app) save(ctx context.Context) {
	if err := a.repo.Save(ctx, a.store.List()); err != nil {
		a.logger.Error("could not save expenses", log.FieldError, err)
		fmt.Fprintln(a.out, "! Warning: data could not be saved.")
	}
}

func (a *app) addExpense(ctx context.Context) {
	a.printHeader("ADD NEW EXPENSE")

	today := time.Now().Format(core.DateLayout)
	date, ok := a.promptValid(
		fmt.Sprintf("Enter date (YYYY-MM-DD) [default: %s]: ", today),
		"Invalid date format. Use YYYY-MM-DD.",
		func(s string) bool {
			if s == "" {
				return true
			}
			_, err := time.Parse(core.DateLayout, s)
			return err == nil
		})
	if !ok {
		return
	}
	if date == "" {
		date = today
	}

	var amount float64
	for {
		in, ok := a.prompt("Enter amount ($): ")
		if !ok {
			return
		}
		v, err := core.ParseAmount(in)
		if err == nil {
			amount = v
			break
		}
		fmt.Fprintln(a.out, "Invalid amount. Please enter a positive number.")
	}

	category, ok := a.pickCategory("Select category (number) or type a new one: ")
	if !ok {
		return
	}

	description, ok := a.promptValid("Enter description: ", "Description cannot be empty.",
		func(s string) bool { return strings.TrimSpace(s) != "" })
	if !ok {
		return
	}

	tagsInput, ok := a.prompt("Enter tags (comma-separated, optional): ")
	if !ok {
		return
	}
	tags := splitTags(tagsInput)

	e, err := a.store.Add(date, amount, category, description, tags)
	if err != nil {
		fmt.Fprintf(a.out, "Could not add expense: %v\n", err)
		return
	}
	fmt.Fprintf(a.out, "\nExpense added:\n  ID: %s\n  Date: %s\n  Amount: %s\n  Category: %s\n  Description: %s\n",
		e.ID, e.Date, currency(e.Amount), e.Category, e.Description)
	a.save(ctx)
}

func (a *app) viewExpenses(ctx context.Context) {
	a.printHeader("ALL EXPENSES")
	if a.store.Len() == 0 {
		fmt.Fprintln(a.out, "No expenses recorded yet.")
		return
	}

	fmt.Fprintln(a.out, "Filter: 1) all  2) this month  3) last 30 days  4) by category")
	choice, ok := a.prompt("Select filter (1-4): ")
	if !ok {
		return
	}

	var expenses []core.Expense
	switch choice {
	case "2":
		now := time.Now()
		expenses = a.store.ByMonth(now.Year(), int(now.Month()))
	case "3":
		cutoff := time.Now().AddDate(0, 0, -30)
		for _, e := range a.store.List() {
			if t, ok := e.Time(); ok && t.After(cutoff) {
				expenses = append(expenses, e)
			}
		}
	case "4":
		category, ok := a.pickCategory("Select category (number): ")
		if !ok {
			return
		}
		expenses = a.store.ByCategory(category)
	default:
		expenses = a.store.List()
	}

	if len(expenses) == 0 {
		fmt.Fprintln(a.out, "No expenses found for the selected filter.")
		return
	}

	// Most recent first.
	sort.SliceStable(expenses, func(i, j int) bool { return expenses[i].Date > expenses[j].Date })
	a.printExpenseTable(expenses)

	fmt.Fprintln(a.out, "\nOptions: 1) view details  2) delete expense  3) back")
	option, ok := a.prompt("Select option (1-3): ")
	if !ok {
		return
	}
	switch option {
	case "1":
		a.expenseDetails()
	case "2":
		a.deleteExpense(ctx)
	}
}

func (a *app) expenseDetails() {
	id, ok := a.prompt("Enter expense ID: ")
	if !ok {
		return
	}
	e, found := a.store.Get(id)
	if !found {
		fmt.Fprintln(a.out, "Expense not found.")
		return
	}
	a.printHeader("EXPENSE DETAILS")
	tags := "none"
	if len(e.Tags) > 0 {
		tags = strings.Join(e.Tags, ", ")
	}
	fmt.Fprintf(a.out, "ID:          %s\nDate:        %s\nAmount:      %s\nCategory:    %s\nDescription: %s\nTags:        %s\n",
		e.ID, e.Date, currency(e.Amount), e.Category, e.Description, tags)
}

func (a *app) deleteExpense(ctx context.Context) {
	id, ok := a.prompt("Enter expense ID to delete: ")
	if !ok {
		return
	}
	confirm, ok := a.prompt(fmt.Sprintf("Delete expense %s? (yes/no): ", id))
	if !ok || !isYes(confirm) {
		fmt.Fprintln(a.out, "Deletion cancelled.")
		return
	}
	if a.store.Remove(id) {
		fmt.Fprintln(a.out, "Expense deleted.")
		a.save(ctx)
	} else {
		fmt.Fprintln(a.out, "Expense not found.")
	}
}

func (a *app) searchExpenses() {
	a.printHeader("SEARCH EXPENSES")
	keyword, ok := a.promptValid("Enter search keyword: ", "Search term cannot be empty.",
		func(s string) bool { return strings.TrimSpace(s) != "" })
	if !ok {
		return
	}
	results := a.store.Search(keyword)
	if len(results) == 0 {
		fmt.Fprintf(a.out, "No expenses found matching %q.\n", keyword)
		return
	}
	fmt.Fprintf(a.out, "Found %d expense(s):\n", len(results))
	a.printExpenseTable(results)
}

func (a *app) monthlyReports() {
	a.printHeader("MONTHLY REPORTS")
	fmt.Fprintln(a.out, "1) current month  2) specific month  3) monthly comparison")
	choice, ok := a.prompt("Select option (1-3): ")
	if !ok {
		return
	}

	switch choice {
	case "2":
		year, ok := a.promptInt("Enter year (YYYY): ", 1900, 9999)
		if !ok {
			return
		}
		month, ok := a.promptInt("Enter month (1-12): ", 1, 12)
		if !ok {
			return
		}
		a.printMonthlyReport(report.MonthlyReport(a.store.List(), year, month))
	case "3":
		a.monthlyComparison()
	default:
		now := time.Now()
		a.printMonthlyReport(report.MonthlyReport(a.store.List(), now.Year(), int(now.Month())))
	}
}

func (a *app) monthlyComparison() {
	totals := a.store.MonthlyTotals()
	if len(totals) == 0 {
		fmt.Fprintln(a.out, "No monthly data available.")
		return
	}
	months := make([]string, 0, len(totals))
	for m := range totals {
		months = append(months, m)
	}
	sort.Sort(sort.Reverse(sort.StringSlice(months)))

	fmt.Fprintf(a.out, "\n%-10s %15s %12s\n", "Month", "Total Amount", "# Expenses")
	fmt.Fprintln(a.out, strings.Repeat("-", 40))
	for _, m := range months {
		parts := strings.SplitN(m, "-", 2)
		year, _ := strconv.Atoi(parts[0])
		month, _ := strconv.Atoi(parts[1])
		count := len(a.store.ByMonth(year, month))
		fmt.Fprintf(a.out, "%-10s %15s %12d\n", m, currency(totals[m]), count)
	}
	fmt.Fprintln(a.out, strings.Repeat("-", 40))
}

func (a *app) categoryAnalysis() {
	a.printHeader("CATEGORY ANALYSIS")
	summaries := report.CategoryReport(a.store.List())
	if len(summaries) == 0 {
		fmt.Fprintln(a.out, "No expenses recorded yet.")
		return
	}
	a.printCategoryChart(summaries)
}

func (a *app) setBudget() {
	a.printHeader("SET/UPDATE BUDGET")
	budgets := a.store.Budgets()
	for i, c := range a.store.Categories() {
		if b, ok := budgets[c]; ok {
			fmt.Fprintf(a.out, "%d. %s (budget: %s)\n", i+1, c, currency(b))
		} else {
			fmt.Fprintf(a.out, "%d. %s\n", i+1, c)
		}
	}
	category, ok := a.pickCategory("Select category (number): ")
	if !ok {
		return
	}
	for {
		in, ok := a.prompt(fmt.Sprintf("Enter monthly budget for %s ($): ", category))
		if !ok {
			return
		}
		amount, err := core.ParseAmount(in)
		if err != nil {
			fmt.Fprintln(a.out, "Invalid amount. Please enter a positive number.")
			continue
		}
		a.store.SetBudget(category, amount)
		fmt.Fprintf(a.out, "Budget set for %s: %s\n", category, currency(amount))
		return
	}
}

func (a *app) budgetStatus() {
	a.printHeader("BUDGET STATUS")
	status := a.store.BudgetStatus()
	if len(status) == 0 {
		fmt.Fprintln(a.out, "No budgets set. Use 'Set/Update Budget' first.")
		return
	}

	categories := make([]string, 0, len(status))
	for c := range status {
		categories = append(categories, c)
	}
	sort.Strings(categories)

	fmt.Fprintf(a.out, "\n%-20s %12s %12s %12s %10s\n", "Category", "Budget", "Actual", "Remaining", "% Used")
	fmt.Fprintln(a.out, strings.Repeat("-", 70))
	var totalBudget, totalActual float64
	for _, c := range categories {
		st := status[c]
		marker := " "
		if st.Remaining < 0 {
			marker = "!"
		}
		fmt.Fprintf(a.out, "%-20s %12s %12s %11s%s %9.1f%%\n",
			c, currency(st.Budget), currency(st.Actual), currency(st.Remaining), marker, st.PercentUsed)
		totalBudget += st.Budget
		totalActual += st.Actual
	}
	fmt.Fprintln(a.out, strings.Repeat("-", 70))
	fmt.Fprintf(a.out, "Total budget: %s, spent: %s, remaining: %s\n",
		currency(totalBudget), currency(totalActual), currency(totalBudget-totalActual))
}

func (a *app) statistics() {
	a.printHeader("STATISTICS DASHBOARD")
	stats := report.Statistics(a.store.List())
	if stats.Count == 0 {
		fmt.Fprintln(a.out, "No expenses recorded yet.")
		return
	}

	fmt.Fprintf(a.out, "\nOverall:\n  Expenses: %d\n  Total:    %s\n  Average:  %s\n  Smallest: %s\n  Largest:  %s\n",
		stats.Count, currency(stats.Total), currency(stats.Average), currency(stats.Min), currency(stats.Max))

	fmt.Fprintln(a.out, "\nMonthly trend:")
	months := make([]string, 0, len(stats.ByMonth))
	for m := range stats.ByMonth {
		months = append(months, m)
	}
	sort.Sort(sort.Reverse(sort.StringSlice(months)))
	if len(months) > 6 {
		months = months[:6]
	}
	for _, m := range months {
		fmt.Fprintf(a.out, "  %s: %s\n", m, currency(stats.ByMonth[m]))
	}

	fmt.Fprintln(a.out, "\nSpending by day of week:")
	for d := time.Monday; ; d++ {
		name := d.String()
		fmt.Fprintf(a.out, "  %s: %s\n", name[:3], currency(stats.ByWeekday[name]))
		if d == time.Saturday {
			break
		}
	}
	fmt.Fprintf(a.out, "  Sun: %s\n", currency(stats.ByWeekday[time.Sunday.String()]))
}

func (a *app) exportImport(ctx context.Context) {
	a.printHeader("EXPORT/IMPORT DATA")
	fmt.Fprintln(a.out, "1) export to CSV  2) import from CSV  3) back")
	choice, ok := a.prompt("Select option (1-3): ")
	if !ok {
		return
	}

	switch choice {
	case "1":
		filename, ok := a.prompt("Enter filename (or press Enter for default): ")
		if !ok {
			return
		}
		path, err := a.files.ExportCSV(a.store.List(), filename)
		if err != nil {
			fmt.Fprintf(a.out, "Export failed: %v\n", err)
			return
		}
		fmt.Fprintf(a.out, "Data exported to %s\n", path)
	case "2":
		filename, ok := a.prompt("Enter CSV filename: ")
		if !ok || filename == "" {
			return
		}
		imported, skipped, err := a.files.ImportCSV(filename)
		if err != nil {
			fmt.Fprintf(a.out, "Import failed: %v\n", err)
			return
		}
		for _, sk := range skipped {
			fmt.Fprintf(a.out, "Skipped line %d: %v\n", sk.Index, sk.Reason)
		}
		if len(imported) == 0 {
			fmt.Fprintln(a.out, "Nothing to import.")
			return
		}
		confirm, ok := a.prompt(fmt.Sprintf("Import %d expenses? (yes/no): ", len(imported)))
		if !ok || !isYes(confirm) {
			fmt.Fprintln(a.out, "Import cancelled.")
			return
		}
		a.store.Replace(append(a.store.List(), imported...))
		a.save(ctx)
		fmt.Fprintln(a.out, "Data imported.")
	}
}

func (a *app) backupRestore() {
	a.printHeader("BACKUP/RESTORE")
	if !a.useJSON {
		fmt.Fprintln(a.out, "Backups are managed by the JSON backend; the SQLite database is a single durable file.")
		return
	}
	fmt.Fprintln(a.out, "1) create backup  2) restore from backup  3) list backups  4) back")
	choice, ok := a.prompt("Select option (1-4): ")
	if !ok {
		return
	}

	switch choice {
	case "1":
		// Saving rotates a fresh backup of the previous snapshot.
		if err := a.files.Save(a.store.List()); err != nil {
			fmt.Fprintf(a.out, "Backup failed: %v\n", err)
			return
		}
		fmt.Fprintln(a.out, "Backup created.")
	case "2":
		name := a.chooseBackup()
		if name == "" {
			return
		}
		confirm, ok := a.prompt(fmt.Sprintf("Restore from %s? (yes/no): ", name))
		if !ok || !isYes(confirm) {
			fmt.Fprintln(a.out, "Restore cancelled.")
			return
		}
		expenses, skipped, err := a.files.RestoreFromBackup(name)
		if err != nil {
			fmt.Fprintf(a.out, "Restore failed: %v\n", err)
			return
		}
		for _, sk := range skipped {
			fmt.Fprintf(a.out, "Skipped record %d: %v\n", sk.Index, sk.Reason)
		}
		a.store.Replace(expenses)
		fmt.Fprintf(a.out, "Restored %d expenses.\n", len(expenses))
	case "3":
		backups, err := a.files.ListBackups()
		if err != nil {
			fmt.Fprintf(a.out, "Could not list backups: %v\n", err)
			return
		}
		if len(backups) == 0 {
			fmt.Fprintln(a.out, "No backup files available.")
			return
		}
		for _, b := range backups {
			fmt.Fprintf(a.out, "  %s (%.1f KB, %s)\n",
				b.Name, float64(b.Size)/1024, b.ModTime.Format("2006-01-02 15:04:05"))
		}
	}
}

// chooseBackup lets the user pick a backup by number; empty string means
// cancelled or nothing available.
func (a *app) chooseBackup() string {
	backups, err := a.files.ListBackups()
	if err != nil || len(backups) == 0 {
		fmt.Fprintln(a.out, "No backup files available.")
		return ""
	}
	for i, b := range backups {
		fmt.Fprintf(a.out, "%d. %s (%.1f KB, %s)\n",
			i+1, b.Name, float64(b.Size)/1024, b.ModTime.Format("2006-01-02 15:04:05"))
	}
	n, ok := a.promptInt(fmt.Sprintf("Select backup (1-%d): ", len(backups)), 1, len(backups))
	if !ok {
		return ""
	}
	return backups[n-1].Name
}

// pickCategory shows the known categories and accepts either a number or a
// new category name.
func (a *app) pickCategory(label string) (string, bool) {
	categories := a.store.Categories()
	fmt.Fprintln(a.out, "\nAvailable categories:")
	for i, c := range categories {
		fmt.Fprintf(a.out, "%d. %s\n", i+1, c)
	}
	for {
		in, ok := a.prompt(label)
		if !ok {
			return "", false
		}
		if n, err := strconv.Atoi(in); err == nil && n >= 1 && n <= len(categories) {
			return categories[n-1], true
		}
		if strings.TrimSpace(in) != "" {
			return strings.TrimSpace(in), true
		}
		fmt.Fprintln(a.out, "Please select a category or enter a new one.")
	}
}

func splitTags(s string) []string {
	var tags []string
	for _, tag := range strings.Split(s, ",") {
		if tag = strings.TrimSpace(tag); tag != "" {
			tags = append(tags, tag)
		}
	}
	return tags
}

func isYes(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "y", "yes":
		return true
	}
	return false
}
