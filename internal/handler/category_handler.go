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

// CategoryHandler serves the product category endpoints.
type CategoryHandler struct {
	repo *repository.Repository
}

func NewCategoryHandler(repo *repository.Repository) *CategoryHandler {
	return &CategoryHandler{repo: repo}
}

func (h *CategoryHandler) List(c echo.Context) error {
	log := logger.FromContext(c)
	actor := middleware.ActorFrom(c)
	prometheus.RecordEntityOperation("product_category", "list")

	categories, err := h.repo.ListProductCategories(policy.ReadScope(actor, policy.EntityProductCategory))
	if err != nil {
		log.Error("Failed to list product categories", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to retrieve product categories"})
	}

	if len(categories) == 0 && !actor.IsSuperAdmin() {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "no product category found"})
	}

	return c.JSON(http.StatusOK, categories)
}

func (h *CategoryHandler) Get(c echo.Context) error {
	log := logger.FromContext(c)
	actor := middleware.ActorFrom(c)
	prometheus.RecordEntityOperation("product_category", "get")

	id, err := parseID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid category ID"})
	}

	category, err := h.repo.GetProductCategory(policy.ReadScope(actor, policy.EntityProductCategory), id)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			log.Error("Failed to get product category", zap.Uint("id", id), zap.Error(err))
		}
		return c.JSON(http.StatusNotFound, echo.Map{"error": "no product category found"})
	}

	return c.JSON(http.StatusOK, category)
}

func (h *CategoryHandler) Create(c echo.Context) error {
	log := logger.FromContext(c)
	actor := middleware.ActorFrom(c)
	prometheus.RecordEntityOperation("product_category", "create")

	if err := policy.CanCreate(actor, policy.EntityProductCategory); err != nil {
		prometheus.RecordForbidden("product_category", "create")
		return c.JSON(http.StatusForbidden, echo.Map{"error": "supervisor level required to create product categories"})
	}

	var category model.ProductCategory
	if err := c.Bind(&category); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}
	if category.Name == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name is required"})
	}

	if err := h.repo.CreateProductCategory(&category, actor.UserID); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "product category already exists"})
		}
		log.Error("Failed to create product category", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "product category creation failed"})
	}

	log.Info("Product category created", zap.Uint("id", category.ID), zap.String("name", category.Name))
	return c.JSON(http.StatusCreated, category)
}

func (h *CategoryHandler) Update(c echo.Context) error {
	log := logger.FromContext(c)
	actor := middleware.ActorFrom(c)
	prometheus.RecordEntityOperation("product_category", "update")

	if err := policy.CanUpdate(actor, policy.EntityProductCategory); err != nil {
		prometheus.RecordForbidden("product_category", "update")
		return c.JSON(http.StatusForbidden, echo.Map{"error": "supervisor level required to update product categories"})
	}

	id, err := parseID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid category ID"})
	}

	updates, err := bindUpdates(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}

	category, err := h.repo.UpdateProductCategory(policy.ReadScope(actor, policy.EntityProductCategory), id, updates, actor.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "product category not found"})
		}
		log.Error("Failed to update product category", zap.Uint("id", id), zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "product category update failed"})
	}

	return c.JSON(http.StatusOK, category)
}
