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

// PackageHandler serves the subscription package catalog. Reads are public
// so the pricing page can render without a login; writes are super-admin only.
type PackageHandler struct {
	repo *repository.Repository
}

func NewPackageHandler(repo *repository.Repository) *PackageHandler {
	return &PackageHandler{repo: repo}
}

func (h *PackageHandler) List(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordEntityOperation("package", "list")

	packages, err := h.repo.ListPackages()
	if err != nil {
		log.Error("Failed to list packages", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to retrieve packages"})
	}

	return c.JSON(http.StatusOK, packages)
}

func (h *PackageHandler) Get(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordEntityOperation("package", "get")

	id, err := parseID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid package ID"})
	}

	pkg, err := h.repo.GetPackage(id)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			log.Error("Failed to get package", zap.Uint("id", id), zap.Error(err))
		}
		return c.JSON(http.StatusNotFound, echo.Map{"error": "no package found"})
	}

	return c.JSON(http.StatusOK, pkg)
}

func (h *PackageHandler) Create(c echo.Context) error {
	log := logger.FromContext(c)
	actor := middleware.ActorFrom(c)
	prometheus.RecordEntityOperation("package", "create")

	if err := policy.CanCreate(actor, policy.EntityPackage); err != nil {
		prometheus.RecordForbidden("package", "create")
		return c.JSON(http.StatusForbidden, echo.Map{"error": "only super-admin can create packages"})
	}

	var pkg model.Package
	if err := c.Bind(&pkg); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}
	if pkg.Name == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name is required"})
	}

	if err := h.repo.CreatePackage(&pkg, actor.UserID); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "package already exists"})
		}
		log.Error("Failed to create package", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "package creation failed"})
	}

	log.Info("Package created", zap.Uint("id", pkg.ID), zap.String("name", pkg.Name))
	return c.JSON(http.StatusCreated, pkg)
}

func (h *PackageHandler) Update(c echo.Context) error {
	log := logger.FromContext(c)
	actor := middleware.ActorFrom(c)
	prometheus.RecordEntityOperation("package", "update")

	if err := policy.CanUpdate(actor, policy.EntityPackage); err != nil {
		prometheus.RecordForbidden("package", "update")
		return c.JSON(http.StatusForbidden, echo.Map{"error": "only super-admin can update packages"})
	}

	id, err := parseID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid package ID"})
	}

	updates, err := bindUpdates(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}

	pkg, err := h.repo.UpdatePackage(id, updates, actor.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "package not found"})
		}
		log.Error("Failed to update package", zap.Uint("id", id), zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "package update failed"})
	}

	return c.JSON(http.StatusOK, pkg)
}
