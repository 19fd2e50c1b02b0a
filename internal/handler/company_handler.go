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

// CompanyHandler serves the company endpoints.
type CompanyHandler struct {
	repo *repository.Repository
}

// NewCompanyHandler creates the company handler.
func NewCompanyHandler(repo *repository.Repository) *CompanyHandler {
	return &CompanyHandler{repo: repo}
}

// List returns the companies visible to the caller: everything for a
// super-admin, otherwise only the caller's own company.
func (h *CompanyHandler) List(c echo.Context) error {
	log := logger.FromContext(c)
	actor := middleware.ActorFrom(c)
	prometheus.RecordEntityOperation("company", "list")

	companies, err := h.repo.ListCompanies(policy.ReadScope(actor, policy.EntityCompany))
	if err != nil {
		log.Error("Failed to list companies", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to retrieve companies"})
	}

	if len(companies) == 0 && !actor.IsSuperAdmin() {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "no company found"})
	}

	return c.JSON(http.StatusOK, companies)
}

// Get returns one company if it is inside the caller's scope.
func (h *CompanyHandler) Get(c echo.Context) error {
	log := logger.FromContext(c)
	actor := middleware.ActorFrom(c)
	prometheus.RecordEntityOperation("company", "get")

	id, err := parseID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid company ID"})
	}

	company, err := h.repo.GetCompany(policy.ReadScope(actor, policy.EntityCompany), id)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			log.Error("Failed to get company", zap.Uint("id", id), zap.Error(err))
		}
		return c.JSON(http.StatusNotFound, echo.Map{"error": "no company found"})
	}

	return c.JSON(http.StatusOK, company)
}

// Create inserts a new company. Only super-admin and admin may create companies.
func (h *CompanyHandler) Create(c echo.Context) error {
	log := logger.FromContext(c)
	actor := middleware.ActorFrom(c)
	prometheus.RecordEntityOperation("company", "create")

	if err := policy.CanCreate(actor, policy.EntityCompany); err != nil {
		prometheus.RecordForbidden("company", "create")
		return c.JSON(http.StatusForbidden, echo.Map{"error": "only super-admin and admin can create companies"})
	}

	var company model.Company
	if err := c.Bind(&company); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}
	if company.Name == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name is required"})
	}

	if err := h.repo.CreateCompany(&company, actor.UserID); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "company already exists"})
		}
		log.Error("Failed to create company", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "company creation failed"})
	}

	log.Info("Company created", zap.Uint("id", company.ID), zap.String("name", company.Name))
	return c.JSON(http.StatusCreated, company)
}

// Update applies a partial update. Only super-admin and admin may update companies.
func (h *CompanyHandler) Update(c echo.Context) error {
	log := logger.FromContext(c)
	actor := middleware.ActorFrom(c)
	prometheus.RecordEntityOperation("company", "update")

	if err := policy.CanUpdate(actor, policy.EntityCompany); err != nil {
		prometheus.RecordForbidden("company", "update")
		return c.JSON(http.StatusForbidden, echo.Map{"error": "only super-admin and admin can update companies"})
	}

	id, err := parseID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid company ID"})
	}

	updates, err := bindUpdates(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}

	company, err := h.repo.UpdateCompany(id, updates, actor.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "company not found"})
		}
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "company already exists"})
		}
		log.Error("Failed to update company", zap.Uint("id", id), zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "company update failed"})
	}

	return c.JSON(http.StatusOK, company)
}
