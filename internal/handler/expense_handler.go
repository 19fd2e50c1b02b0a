package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"easystock-service/internal/middleware"
	"easystock-service/internal/model"
	"easystock-service/internal/policy"
	"easystock-service/internal/repository"
	"easystock-service/pkg/logger"
	"easystock-service/prometheus"
)

// ExpenseHandler serves the shop expense ledger. Writes require supervisor
// or above.
type ExpenseHandler struct {
	repo *repository.Repository
}

func NewExpenseHandler(repo *repository.Repository) *ExpenseHandler {
	return &ExpenseHandler{repo: repo}
}

func (h *ExpenseHandler) List(c echo.Context) error {
	log := logger.FromContext(c)
	actor := middleware.ActorFrom(c)
	prometheus.RecordEntityOperation("expense", "list")

	expenses, err := h.repo.ListExpenses(policy.ReadScope(actor, policy.EntityExpense))
	if err != nil {
		log.Error("Failed to list expenses", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to retrieve expenses"})
	}

	if len(expenses) == 0 && !actor.IsSuperAdmin() {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "no expense found"})
	}

	return c.JSON(http.StatusOK, expenses)
}

func (h *ExpenseHandler) Get(c echo.Context) error {
	log := logger.FromContext(c)
	actor := middleware.ActorFrom(c)
	prometheus.RecordEntityOperation("expense", "get")

	id, err := parseID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid expense ID"})
	}

	expense, err := h.repo.GetExpense(policy.ReadScope(actor, policy.EntityExpense), id)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			log.Error("Failed to get expense", zap.Uint("id", id), zap.Error(err))
		}
		return c.JSON(http.StatusNotFound, echo.Map{"error": "no expense found"})
	}

	return c.JSON(http.StatusOK, expense)
}

func (h *ExpenseHandler) Create(c echo.Context) error {
	log := logger.FromContext(c)
	actor := middleware.ActorFrom(c)
	prometheus.RecordEntityOperation("expense", "create")

	if err := policy.CanCreate(actor, policy.EntityExpense); err != nil {
		prometheus.RecordForbidden("expense", "create")
		return c.JSON(http.StatusForbidden, echo.Map{"error": "supervisor level required to create expenses"})
	}

	var expense model.Expense
	if err := c.Bind(&expense); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}
	if expense.Name == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name is required"})
	}

	if err := h.repo.CreateExpense(&expense, actor.UserID); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "expense already exists"})
		}
		log.Error("Failed to create expense", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "expense creation failed"})
	}

	log.Info("Expense created", zap.Uint("id", expense.ID), zap.String("name", expense.Name))
	return c.JSON(http.StatusCreated, expense)
}

func (h *ExpenseHandler) Update(c echo.Context) error {
	log := logger.FromContext(c)
	actor := middleware.ActorFrom(c)
	prometheus.RecordEntityOperation("expense", "update")

	if err := policy.CanUpdate(actor, policy.EntityExpense); err != nil {
		prometheus.RecordForbidden("expense", "update")
		return c.JSON(http.StatusForbidden, echo.Map{"error": "supervisor level required to update expenses"})
	}

	id, err := parseID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid expense ID"})
	}

	updates, err := bindUpdates(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}

	expense, err := h.repo.UpdateExpense(policy.ReadScope(actor, policy.EntityExpense), id, updates, actor.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "expense not found"})
		}
		log.Error("Failed to update expense", zap.Uint("id", id), zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "expense update failed"})
	}

	return c.JSON(http.StatusOK, expense)
}
