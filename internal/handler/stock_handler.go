package handler

import (
	"errors"
	"net/http"
	"time"

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

// StockHandler serves the daily stock records for the caller's shop.
type StockHandler struct {
	repo *repository.Repository
}

func NewStockHandler(repo *repository.Repository) *StockHandler {
	return &StockHandler{repo: repo}
}

func (h *StockHandler) List(c echo.Context) error {
	log := logger.FromContext(c)
	actor := middleware.ActorFrom(c)
	prometheus.RecordEntityOperation("stock", "list")

	stock, err := h.repo.ListStock(policy.ReadScope(actor, policy.EntityStock))
	if err != nil {
		log.Error("Failed to list stock", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to retrieve stock"})
	}

	if len(stock) == 0 && !actor.IsSuperAdmin() {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "no stock found"})
	}

	return c.JSON(http.StatusOK, stock)
}

func (h *StockHandler) Get(c echo.Context) error {
	log := logger.FromContext(c)
	actor := middleware.ActorFrom(c)
	prometheus.RecordEntityOperation("stock", "get")

	id, err := parseID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid stock ID"})
	}

	stock, err := h.repo.GetStock(policy.ReadScope(actor, policy.EntityStock), id)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			log.Error("Failed to get stock", zap.Uint("id", id), zap.Error(err))
		}
		return c.JSON(http.StatusNotFound, echo.Map{"error": "no stock found"})
	}

	return c.JSON(http.StatusOK, stock)
}

// ByDate returns the stock sheet for one day, with product and category
// names joined in so the client renders it directly.
func (h *StockHandler) ByDate(c echo.Context) error {
	log := logger.FromContext(c)
	actor := middleware.ActorFrom(c)
	prometheus.RecordEntityOperation("stock", "by_date")

	date := c.Param("stock_date")
	if _, err := time.Parse("2006-01-02", date); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid date format. Use YYYY-MM-DD."})
	}

	rows, err := h.repo.StockByDate(policy.ReadScope(actor, policy.EntityStock), date)
	if err != nil {
		log.Error("Failed to get stock by date", zap.String("date", date), zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to retrieve stock"})
	}

	if len(rows) == 0 && !actor.IsSuperAdmin() {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "no stock found"})
	}

	return c.JSON(http.StatusOK, rows)
}

func (h *StockHandler) Create(c echo.Context) error {
	log := logger.FromContext(c)
	actor := middleware.ActorFrom(c)
	prometheus.RecordEntityOperation("stock", "create")

	if err := policy.CanCreate(actor, policy.EntityStock); err != nil {
		prometheus.RecordForbidden("stock", "create")
		return c.JSON(http.StatusForbidden, echo.Map{"error": "supervisor level required to create stock"})
	}

	var stock model.Stock
	if err := c.Bind(&stock); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}
	if stock.ProductID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "product_id is required"})
	}

	if err := h.repo.CreateStock(&stock, actor.UserID); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "stock record already exists"})
		}
		log.Error("Failed to create stock", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "stock creation failed"})
	}

	log.Info("Stock created", zap.Uint("id", stock.ID), zap.Uint("product_id", stock.ProductID))
	return c.JSON(http.StatusCreated, stock)
}

func (h *StockHandler) Update(c echo.Context) error {
	log := logger.FromContext(c)
	actor := middleware.ActorFrom(c)
	prometheus.RecordEntityOperation("stock", "update")

	if err := policy.CanUpdate(actor, policy.EntityStock); err != nil {
		prometheus.RecordForbidden("stock", "update")
		return c.JSON(http.StatusForbidden, echo.Map{"error": "supervisor level required to update stock"})
	}

	id, err := parseID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid stock ID"})
	}

	updates, err := bindUpdates(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}

	stock, err := h.repo.UpdateStock(policy.ReadScope(actor, policy.EntityStock), id, updates, actor.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "stock record not found"})
		}
		log.Error("Failed to update stock", zap.Uint("id", id), zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "stock update failed"})
	}

	return c.JSON(http.StatusOK, stock)
}
