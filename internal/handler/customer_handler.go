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

// CustomerHandler serves the customer endpoints. Any authenticated user in a
// shop can register and update customers; cashiers do this all day.
type CustomerHandler struct {
	repo *repository.Repository
}

func NewCustomerHandler(repo *repository.Repository) *CustomerHandler {
	return &CustomerHandler{repo: repo}
}

func (h *CustomerHandler) List(c echo.Context) error {
	log := logger.FromContext(c)
	actor := middleware.ActorFrom(c)
	prometheus.RecordEntityOperation("customer", "list")

	customers, err := h.repo.ListCustomers(policy.ReadScope(actor, policy.EntityCustomer))
	if err != nil {
		log.Error("Failed to list customers", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to retrieve customers"})
	}

	if len(customers) == 0 && !actor.IsSuperAdmin() {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "no customer found"})
	}

	return c.JSON(http.StatusOK, customers)
}

func (h *CustomerHandler) Get(c echo.Context) error {
	log := logger.FromContext(c)
	actor := middleware.ActorFrom(c)
	prometheus.RecordEntityOperation("customer", "get")

	id, err := parseID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid customer ID"})
	}

	customer, err := h.repo.GetCustomer(policy.ReadScope(actor, policy.EntityCustomer), id)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			log.Error("Failed to get customer", zap.Uint("id", id), zap.Error(err))
		}
		return c.JSON(http.StatusNotFound, echo.Map{"error": "no customer found"})
	}

	return c.JSON(http.StatusOK, customer)
}

func (h *CustomerHandler) Create(c echo.Context) error {
	log := logger.FromContext(c)
	actor := middleware.ActorFrom(c)
	prometheus.RecordEntityOperation("customer", "create")

	if err := policy.CanCreate(actor, policy.EntityCustomer); err != nil {
		prometheus.RecordForbidden("customer", "create")
		return c.JSON(http.StatusForbidden, echo.Map{"error": "not allowed to create customers"})
	}

	var customer model.Customer
	if err := c.Bind(&customer); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}
	if customer.Name == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name is required"})
	}

	if err := h.repo.CreateCustomer(&customer, actor.UserID); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "customer already exists"})
		}
		log.Error("Failed to create customer", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "customer creation failed"})
	}

	log.Info("Customer created", zap.Uint("id", customer.ID), zap.String("name", customer.Name))
	return c.JSON(http.StatusCreated, customer)
}

func (h *CustomerHandler) Update(c echo.Context) error {
	log := logger.FromContext(c)
	actor := middleware.ActorFrom(c)
	prometheus.RecordEntityOperation("customer", "update")

	if err := policy.CanUpdate(actor, policy.EntityCustomer); err != nil {
		prometheus.RecordForbidden("customer", "update")
		return c.JSON(http.StatusForbidden, echo.Map{"error": "not allowed to update customers"})
	}

	id, err := parseID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid customer ID"})
	}

	updates, err := bindUpdates(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}

	customer, err := h.repo.UpdateCustomer(policy.ReadScope(actor, policy.EntityCustomer), id, updates, actor.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "customer not found"})
		}
		log.Error("Failed to update customer", zap.Uint("id", id), zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "customer update failed"})
	}

	return c.JSON(http.StatusOK, customer)
}
