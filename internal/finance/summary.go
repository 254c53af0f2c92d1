package finance

import (
	"math"

	"github.com/dukerupert/pairhouse/internal/model"
)

// Progress returns how far current is toward target as a percentage in
// [0, 100], rounded to one decimal. A non-positive target counts as reached
// once anything is saved.
func Progress(current, target float64) float64 {
	if target <= 0 {
		if current > 0 {
			return 100
		}
		return 0
	}
	p := current / target * 100
	switch {
	case p < 0:
		p = 0
	case p > 100:
		p = 100
	}
	return math.Round(p*10) / 10
}

// Summarize aggregates goals and expenses visible to one household.
func Summarize(goals []model.Goal, expenses []model.Expense) model.FinanceSummary {
	s := model.FinanceSummary{
		Goals:      make([]model.GoalProgress, 0, len(goals)),
		ByCategory: make(map[string]float64),
	}
	for _, g := range goals {
		s.TotalSaved += g.CurrentAmount
		s.TotalTarget += g.TargetAmount
		s.Goals = append(s.Goals, model.GoalProgress{
			GoalID:  g.ID,
			Name:    g.Name,
			Percent: Progress(g.CurrentAmount, g.TargetAmount),
			Reached: g.TargetAmount > 0 && g.CurrentAmount >= g.TargetAmount,
		})
	}
	for _, e := range expenses {
		s.TotalExpenses += e.Amount
		cat := e.Category
		if cat == "" {
			cat = CategoryOther
		}
		s.ByCategory[cat] += e.Amount
	}
	s.OverallPercent = Progress(s.TotalSaved, s.TotalTarget)
	if len(goals) == 0 {
		s.OverallPercent = 0
	}
	return s
}
