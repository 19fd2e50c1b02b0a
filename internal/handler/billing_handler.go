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

// BillingHandler serves bills, payments and the payment mode lookup. Bills
// and payments are open to every authenticated user in a shop; payment modes
// are a public lookup with super-admin writes.
type BillingHandler struct {
	repo *repository.Repository
}

func NewBillingHandler(repo *repository.Repository) *BillingHandler {
	return &BillingHandler{repo: repo}
}

func (h *BillingHandler) ListBills(c echo.Context) error {
	log := logger.FromContext(c)
	actor := middleware.ActorFrom(c)
	prometheus.RecordEntityOperation("bill", "list")

	bills, err := h.repo.ListBills(policy.ReadScope(actor, policy.EntityBill))
	if err != nil {
		log.Error("Failed to list bills", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to retrieve bills"})
	}

	if len(bills) == 0 && !actor.IsSuperAdmin() {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "no bill found"})
	}

	return c.JSON(http.StatusOK, bills)
}

func (h *BillingHandler) GetBill(c echo.Context) error {
	log := logger.FromContext(c)
	actor := middleware.ActorFrom(c)
	prometheus.RecordEntityOperation("bill", "get")

	id, err := parseID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid bill ID"})
	}

	bill, err := h.repo.GetBill(policy.ReadScope(actor, policy.EntityBill), id)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			log.Error("Failed to get bill", zap.Uint("id", id), zap.Error(err))
		}
		return c.JSON(http.StatusNotFound, echo.Map{"error": "no bill found"})
	}

	return c.JSON(http.StatusOK, bill)
}

func (h *BillingHandler) CreateBill(c echo.Context) error {
	log := logger.FromContext(c)
	actor := middleware.ActorFrom(c)
	prometheus.RecordEntityOperation("bill", "create")

	if err := policy.CanCreate(actor, policy.EntityBill); err != nil {
		prometheus.RecordForbidden("bill", "create")
		return c.JSON(http.StatusForbidden, echo.Map{"error": "not allowed to create bills"})
	}

	var bill model.Bill
	if err := c.Bind(&bill); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}

	if err := h.repo.CreateBill(&bill, actor.UserID); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "bill already exists"})
		}
		log.Error("Failed to create bill", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "bill creation failed"})
	}

	log.Info("Bill created", zap.Uint("id", bill.ID))
	return c.JSON(http.StatusCreated, bill)
}

func (h *BillingHandler) UpdateBill(c echo.Context) error {
	log := logger.FromContext(c)
	actor := middleware.ActorFrom(c)
	prometheus.RecordEntityOperation("bill", "update")

	if err := policy.CanUpdate(actor, policy.EntityBill); err != nil {
		prometheus.RecordForbidden("bill", "update")
		return c.JSON(http.StatusForbidden, echo.Map{"error": "not allowed to update bills"})
	}

	id, err := parseID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid bill ID"})
	}

	updates, err := bindUpdates(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}

	bill, err := h.repo.UpdateBill(policy.ReadScope(actor, policy.EntityBill), id, updates, actor.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "bill not found"})
		}
		log.Error("Failed to update bill", zap.Uint("id", id), zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "bill update failed"})
	}

	return c.JSON(http.StatusOK, bill)
}

func (h *BillingHandler) ListPayments(c echo.Context) error {
	log := logger.FromContext(c)
	actor := middleware.ActorFrom(c)
	prometheus.RecordEntityOperation("payment", "list")

	payments, err := h.repo.ListPayments(policy.ReadScope(actor, policy.EntityPayment))
	if err != nil {
		log.Error("Failed to list payments", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to retrieve payments"})
	}

	if len(payments) == 0 && !actor.IsSuperAdmin() {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "no payment found"})
	}

	return c.JSON(http.StatusOK, payments)
}

func (h *BillingHandler) GetPayment(c echo.Context) error {
	log := logger.FromContext(c)
	actor := middleware.ActorFrom(c)
	prometheus.RecordEntityOperation("payment", "get")

	id, err := parseID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid payment ID"})
	}

	payment, err := h.repo.GetPayment(policy.ReadScope(actor, policy.EntityPayment), id)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			log.Error("Failed to get payment", zap.Uint("id", id), zap.Error(err))
		}
		return c.JSON(http.StatusNotFound, echo.Map{"error": "no payment found"})
	}

	return c.JSON(http.StatusOK, payment)
}

func (h *BillingHandler) CreatePayment(c echo.Context) error {
	log := logger.FromContext(c)
	actor := middleware.ActorFrom(c)
	prometheus.RecordEntityOperation("payment", "create")

	if err := policy.CanCreate(actor, policy.EntityPayment); err != nil {
		prometheus.RecordForbidden("payment", "create")
		return c.JSON(http.StatusForbidden, echo.Map{"error": "not allowed to create payments"})
	}

	var payment model.Payment
	if err := c.Bind(&payment); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}

	if err := h.repo.CreatePayment(&payment, actor.UserID); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "payment already exists"})
		}
		log.Error("Failed to create payment", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "payment creation failed"})
	}

	log.Info("Payment created", zap.Uint("id", payment.ID))
	return c.JSON(http.StatusCreated, payment)
}

func (h *BillingHandler) UpdatePayment(c echo.Context) error {
	log := logger.FromContext(c)
	actor := middleware.ActorFrom(c)
	prometheus.RecordEntityOperation("payment", "update")

	if err := policy.CanUpdate(actor, policy.EntityPayment); err != nil {
		prometheus.RecordForbidden("payment", "update")
		return c.JSON(http.StatusForbidden, echo.Map{"error": "not allowed to update payments"})
	}

	id, err := parseID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid payment ID"})
	}

	updates, err := bindUpdates(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}

	payment, err := h.repo.UpdatePayment(policy.ReadScope(actor, policy.EntityPayment), id, updates, actor.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "payment not found"})
		}
		log.Error("Failed to update payment", zap.Uint("id", id), zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "payment update failed"})
	}

	return c.JSON(http.StatusOK, payment)
}

func (h *BillingHandler) ListPaymentModes(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordEntityOperation("payment_mode", "list")

	modes, err := h.repo.ListPaymentModes()
	if err != nil {
		log.Error("Failed to list payment modes", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to retrieve payment modes"})
	}

	return c.JSON(http.StatusOK, modes)
}

func (h *BillingHandler) GetPaymentMode(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordEntityOperation("payment_mode", "get")

	id, err := parseID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid payment mode ID"})
	}

	mode, err := h.repo.GetPaymentMode(id)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			log.Error("Failed to get payment mode", zap.Uint("id", id), zap.Error(err))
		}
		return c.JSON(http.StatusNotFound, echo.Map{"error": "no payment mode found"})
	}

	return c.JSON(http.StatusOK, mode)
}

func (h *BillingHandler) CreatePaymentMode(c echo.Context) error {
	log := logger.FromContext(c)
	actor := middleware.ActorFrom(c)
	prometheus.RecordEntityOperation("payment_mode", "create")

	if err := policy.CanCreate(actor, policy.EntityPaymentMode); err != nil {
		prometheus.RecordForbidden("payment_mode", "create")
		return c.JSON(http.StatusForbidden, echo.Map{"error": "only super-admin can create payment modes"})
	}

	var mode model.PaymentMode
	if err := c.Bind(&mode); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}
	if mode.Name == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name is required"})
	}

	if err := h.repo.CreatePaymentMode(&mode, actor.UserID); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "payment mode already exists"})
		}
		log.Error("Failed to create payment mode", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "payment mode creation failed"})
	}

	log.Info("Payment mode created", zap.Uint("id", mode.ID), zap.String("name", mode.Name))
	return c.JSON(http.StatusCreated, mode)
}

func (h *BillingHandler) UpdatePaymentMode(c echo.Context) error {
	log := logger.FromContext(c)
	actor := middleware.ActorFrom(c)
	prometheus.RecordEntityOperation("payment_mode", "update")

	if err := policy.CanUpdate(actor, policy.EntityPaymentMode); err != nil {
		prometheus.RecordForbidden("payment_mode", "update")
		return c.JSON(http.StatusForbidden, echo.Map{"error": "only super-admin can update payment modes"})
	}

	id, err := parseID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid payment mode ID"})
	}

	updates, err := bindUpdates(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}

	mode, err := h.repo.UpdatePaymentMode(id, updates, actor.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "payment mode not found"})
		}
		log.Error("Failed to update payment mode", zap.Uint("id", id), zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "payment mode update failed"})
	}

	return c.JSON(http.StatusOK, mode)
}
