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

// ShopHandler serves the shop endpoints.
type ShopHandler struct {
	repo *repository.Repository
}

// NewShopHandler creates the shop handler.
func NewShopHandler(repo *repository.Repository) *ShopHandler {
	return &ShopHandler{repo: repo}
}

// List returns the shops visible to the caller.
func (h *ShopHandler) List(c echo.Context) error {
	log := logger.FromContext(c)
	actor := middleware.ActorFrom(c)
	prometheus.RecordEntityOperation("shop", "list")

	shops, err := h.repo.ListShops(policy.ReadScope(actor, policy.EntityShop))
	if err != nil {
		log.Error("Failed to list shops", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to retrieve shops"})
	}

	if len(shops) == 0 && !actor.IsSuperAdmin() {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "no shop found"})
	}

	return c.JSON(http.StatusOK, shops)
}

// Get returns one shop if it is inside the caller's scope.
func (h *ShopHandler) Get(c echo.Context) error {
	log := logger.FromContext(c)
	actor := middleware.ActorFrom(c)
	prometheus.RecordEntityOperation("shop", "get")

	id, err := parseID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid shop ID"})
	}

	shop, err := h.repo.GetShop(policy.ReadScope(actor, policy.EntityShop), id)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			log.Error("Failed to get shop", zap.Uint("id", id), zap.Error(err))
		}
		return c.JSON(http.StatusNotFound, echo.Map{"error": "no shop found"})
	}

	return c.JSON(http.StatusOK, shop)
}

// Create inserts a new shop. Only super-admin and admin may create shops.
func (h *ShopHandler) Create(c echo.Context) error {
	log := logger.FromContext(c)
	actor := middleware.ActorFrom(c)
	prometheus.RecordEntityOperation("shop", "create")

	if err := policy.CanCreate(actor, policy.EntityShop); err != nil {
		prometheus.RecordForbidden("shop", "create")
		return c.JSON(http.StatusForbidden, echo.Map{"error": "only super-admin and admin can create shops"})
	}

	var shop model.Shop
	if err := c.Bind(&shop); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}
	if shop.Name == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name is required"})
	}

	if err := h.repo.CreateShop(&shop, actor.UserID); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "shop already exists"})
		}
		log.Error("Failed to create shop", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "shop creation failed"})
	}

	log.Info("Shop created", zap.Uint("id", shop.ID), zap.String("name", shop.Name))
	return c.JSON(http.StatusCreated, shop)
}

// Update applies a partial update. Only super-admin and admin may update shops.
func (h *ShopHandler) Update(c echo.Context) error {
	log := logger.FromContext(c)
	actor := middleware.ActorFrom(c)
	prometheus.RecordEntityOperation("shop", "update")

	if err := policy.CanUpdate(actor, policy.EntityShop); err != nil {
		prometheus.RecordForbidden("shop", "update")
		return c.JSON(http.StatusForbidden, echo.Map{"error": "only super-admin and admin can update shops"})
	}

	id, err := parseID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid shop ID"})
	}

	updates, err := bindUpdates(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}

	shop, err := h.repo.UpdateShop(id, updates, actor.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "shop not found"})
		}
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "shop already exists"})
		}
		log.Error("Failed to update shop", zap.Uint("id", id), zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "shop update failed"})
	}

	return c.JSON(http.StatusOK, shop)
}
