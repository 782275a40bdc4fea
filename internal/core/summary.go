package core

// CategoryAmount represents an amount aggregated by category name.
type CategoryAmount struct {
	Name   string
	Amount float64
}

// BudgetStatus compares a category's monthly budget ceiling against what
// was actually spent.
type BudgetStatus struct {
	Budget      float64
	Actual      float64
	Remaining   float64
	PercentUsed float64 // 0 when the budget is 0
}
