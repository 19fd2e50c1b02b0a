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

// LicenseHandler serves the license endpoints. Any authenticated user may
// create a license (that is how a new company gets onboarded), but changing
// one afterwards is reserved for the super-admin.
type LicenseHandler struct {
	repo *repository.Repository
}

func NewLicenseHandler(repo *repository.Repository) *LicenseHandler {
	return &LicenseHandler{repo: repo}
}

func (h *LicenseHandler) List(c echo.Context) error {
	log := logger.FromContext(c)
	actor := middleware.ActorFrom(c)
	prometheus.RecordEntityOperation("license", "list")

	licenses, err := h.repo.ListLicenses(policy.ReadScope(actor, policy.EntityLicense))
	if err != nil {
		log.Error("Failed to list licenses", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to retrieve licenses"})
	}

	if len(licenses) == 0 && !actor.IsSuperAdmin() {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "no license found"})
	}

	return c.JSON(http.StatusOK, licenses)
}

func (h *LicenseHandler) Get(c echo.Context) error {
	log := logger.FromContext(c)
	actor := middleware.ActorFrom(c)
	prometheus.RecordEntityOperation("license", "get")

	id, err := parseID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid license ID"})
	}

	license, err := h.repo.GetLicense(policy.ReadScope(actor, policy.EntityLicense), id)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			log.Error("Failed to get license", zap.Uint("id", id), zap.Error(err))
		}
		return c.JSON(http.StatusNotFound, echo.Map{"error": "no license found"})
	}

	return c.JSON(http.StatusOK, license)
}

func (h *LicenseHandler) Create(c echo.Context) error {
	log := logger.FromContext(c)
	actor := middleware.ActorFrom(c)
	prometheus.RecordEntityOperation("license", "create")

	if err := policy.CanCreate(actor, policy.EntityLicense); err != nil {
		prometheus.RecordForbidden("license", "create")
		return c.JSON(http.StatusForbidden, echo.Map{"error": "not allowed to create licenses"})
	}

	var license model.License
	if err := c.Bind(&license); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}
	if license.Key == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "key is required"})
	}

	if err := h.repo.CreateLicense(&license, actor.UserID); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "license already exists"})
		}
		log.Error("Failed to create license", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "license creation failed"})
	}

	log.Info("License created", zap.Uint("id", license.ID))
	return c.JSON(http.StatusCreated, license)
}

func (h *LicenseHandler) Update(c echo.Context) error {
	log := logger.FromContext(c)
	actor := middleware.ActorFrom(c)
	prometheus.RecordEntityOperation("license", "update")

	if err := policy.CanUpdate(actor, policy.EntityLicense); err != nil {
		prometheus.RecordForbidden("license", "update")
		return c.JSON(http.StatusForbidden, echo.Map{"error": "only super-admin can update licenses"})
	}

	id, err := parseID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid license ID"})
	}

	updates, err := bindUpdates(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}

	license, err := h.repo.UpdateLicense(id, updates, actor.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "license not found"})
		}
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "license already exists"})
		}
		log.Error("Failed to update license", zap.Uint("id", id), zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "license update failed"})
	}

	return c.JSON(http.StatusOK, license)
}
