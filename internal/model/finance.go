package model

import "time"

type Goal struct {
	ID            string    `json:"id"`
	UserID        string    `json:"user_id"`
	Name          string    `json:"name"`
	TargetAmount  float64   `json:"target_amount"`
	CurrentAmount float64   `json:"current_amount"`
	CreatedAt     time.Time `json:"created_at"`
}

type Expense struct {
	ID          string    `json:"id"`
	UserID      string    `json:"user_id"`
	Description string    `json:"description"`
	Amount      float64   `json:"amount"`
	Date        string    `json:"date"`
	Category    string    `json:"category"`
	CreatedAt   time.Time `json:"created_at"`
}

type GoalProgress struct {
	GoalID  string  `json:"goal_id"`
	Name    string  `json:"name"`
	Percent float64 `json:"percent"`
	Reached bool    `json:"reached"`
}

type FinanceSummary struct {
	TotalSaved     float64            `json:"total_saved"`
	TotalTarget    float64            `json:"total_target"`
	TotalExpenses  float64            `json:"total_expenses"`
	OverallPercent float64            `json:"overall_percent"`
	Goals          []GoalProgress     `json:"goals"`
	ByCategory     map[string]float64 `json:"by_category"`
}
