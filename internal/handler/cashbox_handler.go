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

// CashboxHandler serves the daily cash reconciliation records.
type CashboxHandler struct {
	repo *repository.Repository
}

func NewCashboxHandler(repo *repository.Repository) *CashboxHandler {
	return &CashboxHandler{repo: repo}
}

func (h *CashboxHandler) List(c echo.Context) error {
	log := logger.FromContext(c)
	actor := middleware.ActorFrom(c)
	prometheus.RecordEntityOperation("cashbox", "list")

	rows, err := h.repo.ListCashbox(policy.ReadScope(actor, policy.EntityCashbox))
	if err != nil {
		log.Error("Failed to list cashbox records", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to retrieve cashbox records"})
	}

	if len(rows) == 0 && !actor.IsSuperAdmin() {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "no cashbox record found"})
	}

	return c.JSON(http.StatusOK, rows)
}

func (h *CashboxHandler) Get(c echo.Context) error {
	log := logger.FromContext(c)
	actor := middleware.ActorFrom(c)
	prometheus.RecordEntityOperation("cashbox", "get")

	id, err := parseID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid cashbox ID"})
	}

	row, err := h.repo.GetCashbox(policy.ReadScope(actor, policy.EntityCashbox), id)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			log.Error("Failed to get cashbox record", zap.Uint("id", id), zap.Error(err))
		}
		return c.JSON(http.StatusNotFound, echo.Map{"error": "no cashbox record found"})
	}

	return c.JSON(http.StatusOK, row)
}

func (h *CashboxHandler) Create(c echo.Context) error {
	log := logger.FromContext(c)
	actor := middleware.ActorFrom(c)
	prometheus.RecordEntityOperation("cashbox", "create")

	if err := policy.CanCreate(actor, policy.EntityCashbox); err != nil {
		prometheus.RecordForbidden("cashbox", "create")
		return c.JSON(http.StatusForbidden, echo.Map{"error": "supervisor level required to create cashbox records"})
	}

	var row model.Cashbox
	if err := c.Bind(&row); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}

	if err := h.repo.CreateCashbox(&row, actor.UserID); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "cashbox record already exists"})
		}
		log.Error("Failed to create cashbox record", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "cashbox creation failed"})
	}

	log.Info("Cashbox record created", zap.Uint("id", row.ID))
	return c.JSON(http.StatusCreated, row)
}

func (h *CashboxHandler) Update(c echo.Context) error {
	log := logger.FromContext(c)
	actor := middleware.ActorFrom(c)
	prometheus.RecordEntityOperation("cashbox", "update")

	if err := policy.CanUpdate(actor, policy.EntityCashbox); err != nil {
		prometheus.RecordForbidden("cashbox", "update")
		return c.JSON(http.StatusForbidden, echo.Map{"error": "supervisor level required to update cashbox records"})
	}

	id, err := parseID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid cashbox ID"})
	}

	updates, err := bindUpdates(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}

	row, err := h.repo.UpdateCashbox(policy.ReadScope(actor, policy.EntityCashbox), id, updates, actor.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "cashbox record not found"})
		}
		log.Error("Failed to update cashbox record", zap.Uint("id", id), zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "cashbox update failed"})
	}

	return c.JSON(http.StatusOK, row)
}
