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

// ShopTypeHandler serves the shop type lookup. Reads are public; writes are
// super-admin only.
type ShopTypeHandler struct {
	repo *repository.Repository
}

func NewShopTypeHandler(repo *repository.Repository) *ShopTypeHandler {
	return &ShopTypeHandler{repo: repo}
}

func (h *ShopTypeHandler) List(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordEntityOperation("shop_type", "list")

	types, err := h.repo.ListShopTypes()
	if err != nil {
		log.Error("Failed to list shop types", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to retrieve shop types"})
	}

	return c.JSON(http.StatusOK, types)
}

func (h *ShopTypeHandler) Get(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordEntityOperation("shop_type", "get")

	id, err := parseID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid shop type ID"})
	}

	shopType, err := h.repo.GetShopType(id)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			log.Error("Failed to get shop type", zap.Uint("id", id), zap.Error(err))
		}
		return c.JSON(http.StatusNotFound, echo.Map{"error": "no shop type found"})
	}

	return c.JSON(http.StatusOK, shopType)
}

func (h *ShopTypeHandler) Create(c echo.Context) error {
	log := logger.FromContext(c)
	actor := middleware.ActorFrom(c)
	prometheus.RecordEntityOperation("shop_type", "create")

	if err := policy.CanCreate(actor, policy.EntityShopType); err != nil {
		prometheus.RecordForbidden("shop_type", "create")
		return c.JSON(http.StatusForbidden, echo.Map{"error": "only super-admin can create shop types"})
	}

	var shopType model.ShopType
	if err := c.Bind(&shopType); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}
	if shopType.Name == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name is required"})
	}

	if err := h.repo.CreateShopType(&shopType, actor.UserID); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "shop type already exists"})
		}
		log.Error("Failed to create shop type", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "shop type creation failed"})
	}

	log.Info("Shop type created", zap.Uint("id", shopType.ID), zap.String("name", shopType.Name))
	return c.JSON(http.StatusCreated, shopType)
}

func (h *ShopTypeHandler) Update(c echo.Context) error {
	log := logger.FromContext(c)
	actor := middleware.ActorFrom(c)
	prometheus.RecordEntityOperation("shop_type", "update")

	if err := policy.CanUpdate(actor, policy.EntityShopType); err != nil {
		prometheus.RecordForbidden("shop_type", "update")
		return c.JSON(http.StatusForbidden, echo.Map{"error": "only super-admin can update shop types"})
	}

	id, err := parseID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid shop type ID"})
	}

	updates, err := bindUpdates(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}

	shopType, err := h.repo.UpdateShopType(id, updates, actor.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "shop type not found"})
		}
		log.Error("Failed to update shop type", zap.Uint("id", id), zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "shop type update failed"})
	}

	return c.JSON(http.StatusOK, shopType)
}
