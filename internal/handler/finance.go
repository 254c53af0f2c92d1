package handler

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/dukerupert/pairhouse/internal/auth"
	"github.com/dukerupert/pairhouse/internal/finance"
	"github.com/dukerupert/pairhouse/internal/model"
	"github.com/dukerupert/pairhouse/internal/store"
)

type FinanceHandler struct {
	store  *store.FinanceStore
	pub    Publisher
	logger *slog.Logger
}

func NewFinanceHandler(s *store.FinanceStore, pub Publisher, logger *slog.Logger) *FinanceHandler {
	return &FinanceHandler{store: s, pub: pub, logger: logger}
}

func (h *FinanceHandler) ListGoals(w http.ResponseWriter, r *http.Request) {
	goals, err := h.store.ListGoals(r.Context(), auth.Owners(r.Context()))
	if err != nil {
		h.logger.Error("list goals", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to list goals")
		return
	}
	if goals == nil {
		goals = []model.Goal{}
	}
	writeJSON(w, http.StatusOK, goals)
}

func (h *FinanceHandler) CreateGoal(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name          string  `json:"name"`
		TargetAmount  float64 `json:"target_amount"`
		CurrentAmount float64 `json:"current_amount"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "name is required")
		return
	}
	if req.TargetAmount <= 0 {
		writeError(w, http.StatusBadRequest, "target_amount must be positive")
		return
	}
	if req.CurrentAmount < 0 {
		writeError(w, http.StatusBadRequest, "current_amount must not be negative")
		return
	}

	goal, err := h.store.CreateGoal(r.Context(), auth.UserID(r.Context()), req.Name, req.TargetAmount, req.CurrentAmount)
	if err != nil {
		h.logger.Error("create goal", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to create goal")
		return
	}

	broadcast(h.pub, r, "goal", "created", goal.ID)
	writeJSON(w, http.StatusCreated, goal)
}

func (h *FinanceHandler) Deposit(w http.ResponseWriter, r *http.Request) {
	h.adjust(w, r, 1)
}

// Withdraw lowers the saved amount; the balance never goes below zero.
func (h *FinanceHandler) Withdraw(w http.ResponseWriter, r *http.Request) {
	h.adjust(w, r, -1)
}

func (h *FinanceHandler) adjust(w http.ResponseWriter, r *http.Request, sign float64) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var req struct {
		Amount float64 `json:"amount"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Amount <= 0 {
		writeError(w, http.StatusBadRequest, "amount must be positive")
		return
	}

	goal, err := h.store.AdjustGoal(r.Context(), id, auth.UserID(r.Context()), sign*req.Amount)
	if err != nil {
		h.logger.Error("adjust goal", "id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to update goal")
		return
	}
	if goal == nil {
		writeError(w, http.StatusNotFound, "goal not found")
		return
	}

	broadcast(h.pub, r, "goal", "updated", id)
	writeJSON(w, http.StatusOK, goal)
}

func (h *FinanceHandler) DeleteGoal(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	deleted, err := h.store.DeleteGoal(r.Context(), id, auth.UserID(r.Context()))
	if err != nil {
		h.logger.Error("delete goal", "id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to delete goal")
		return
	}
	if !deleted {
		writeError(w, http.StatusNotFound, "goal not found")
		return
	}

	broadcast(h.pub, r, "goal", "deleted", id)
	w.WriteHeader(http.StatusNoContent)
}

func (h *FinanceHandler) ListExpenses(w http.ResponseWriter, r *http.Request) {
	expenses, err := h.store.ListExpenses(r.Context(), auth.Owners(r.Context()))
	if err != nil {
		h.logger.Error("list expenses", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to list expenses")
		return
	}
	if expenses == nil {
		expenses = []model.Expense{}
	}
	writeJSON(w, http.StatusOK, expenses)
}

// CreateExpense defaults the date to today and guesses the category from the
// description when none is given.
func (h *FinanceHandler) CreateExpense(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Description string  `json:"description"`
		Amount      float64 `json:"amount"`
		Date        string  `json:"date"`
		Category    string  `json:"category"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	req.Description = strings.TrimSpace(req.Description)
	if req.Description == "" {
		writeError(w, http.StatusBadRequest, "description is required")
		return
	}
	if req.Amount <= 0 {
		writeError(w, http.StatusBadRequest, "amount must be positive")
		return
	}
	if req.Date == "" {
		req.Date = today()
	}
	if !validDate(req.Date) {
		writeError(w, http.StatusBadRequest, "date must be YYYY-MM-DD")
		return
	}
	req.Category = strings.ToLower(strings.TrimSpace(req.Category))
	if req.Category == "" {
		req.Category = finance.Categorize(req.Description)
	}
	if !finance.ValidCategory(req.Category) {
		writeError(w, http.StatusBadRequest, "unknown category")
		return
	}

	expense, err := h.store.CreateExpense(r.Context(), auth.UserID(r.Context()), req.Description, req.Amount, req.Date, req.Category)
	if err != nil {
		h.logger.Error("create expense", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to create expense")
		return
	}

	broadcast(h.pub, r, "expense", "created", expense.ID)
	writeJSON(w, http.StatusCreated, expense)
}

func (h *FinanceHandler) DeleteExpense(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	deleted, err := h.store.DeleteExpense(r.Context(), id, auth.UserID(r.Context()))
	if err != nil {
		h.logger.Error("delete expense", "id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to delete expense")
		return
	}
	if !deleted {
		writeError(w, http.StatusNotFound, "expense not found")
		return
	}

	broadcast(h.pub, r, "expense", "deleted", id)
	w.WriteHeader(http.StatusNoContent)
}

func (h *FinanceHandler) Summary(w http.ResponseWriter, r *http.Request) {
	owners := auth.Owners(r.Context())
	goals, err := h.store.ListGoals(r.Context(), owners)
	if err != nil {
		h.logger.Error("summary goals", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to summarize finances")
		return
	}
	expenses, err := h.store.ListExpenses(r.Context(), owners)
	if err != nil {
		h.logger.Error("summary expenses", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to summarize finances")
		return
	}
	writeJSON(w, http.StatusOK, finance.Summarize(goals, expenses))
}
