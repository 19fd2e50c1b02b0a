package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"easystock-service/internal/middleware"
	"easystock-service/internal/model"
	"easystock-service/internal/policy"
	"easystock-service/internal/repository"
	"easystock-service/pkg/logger"
	"easystock-service/prometheus"
)

// UserHandler serves the user endpoints. Passwords are bcrypt-hashed before
// they touch the database and never serialized back out.
type UserHandler struct {
	repo *repository.Repository
}

func NewUserHandler(repo *repository.Repository) *UserHandler {
	return &UserHandler{repo: repo}
}

// registerRequest is the create-user payload. The plaintext password only
// lives here; the model carries the hash.
type registerRequest struct {
	Name        string `json:"name"`
	Phone       string `json:"phone"`
	Password    string `json:"password"`
	ShopID      *uint  `json:"shop_id"`
	UserLevelID uint   `json:"user_level_id"`
}

func (h *UserHandler) List(c echo.Context) error {
	log := logger.FromContext(c)
	actor := middleware.ActorFrom(c)
	prometheus.RecordEntityOperation("user", "list")

	users, err := h.repo.ListUsers(policy.ReadScope(actor, policy.EntityUser))
	if err != nil {
		log.Error("Failed to list users", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to retrieve users"})
	}

	if len(users) == 0 && !actor.IsSuperAdmin() {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "no user found"})
	}

	return c.JSON(http.StatusOK, users)
}

func (h *UserHandler) Get(c echo.Context) error {
	log := logger.FromContext(c)
	actor := middleware.ActorFrom(c)
	prometheus.RecordEntityOperation("user", "get")

	id, err := parseID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid user ID"})
	}

	user, err := h.repo.GetUser(policy.ReadScope(actor, policy.EntityUser), id)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			log.Error("Failed to get user", zap.Uint("id", id), zap.Error(err))
		}
		return c.JSON(http.StatusNotFound, echo.Map{"error": "no user found"})
	}

	return c.JSON(http.StatusOK, user)
}

func (h *UserHandler) Create(c echo.Context) error {
	log := logger.FromContext(c)
	actor := middleware.ActorFrom(c)
	prometheus.RecordEntityOperation("user", "create")

	if err := policy.CanCreate(actor, policy.EntityUser); err != nil {
		prometheus.RecordForbidden("user", "create")
		return c.JSON(http.StatusForbidden, echo.Map{"error": "only super-admin and admin can create users"})
	}

	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}
	if req.Phone == "" || req.Password == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "phone and password are required"})
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		log.Error("Failed to hash password", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "user creation failed"})
	}

	user := model.User{
		Name:        req.Name,
		Phone:       req.Phone,
		Password:    string(hash),
		ShopID:      req.ShopID,
		UserLevelID: req.UserLevelID,
	}

	if err := h.repo.CreateUser(&user, actor.UserID); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "user already exists"})
		}
		log.Error("Failed to create user", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "user creation failed"})
	}

	log.Info("User created", zap.Uint("id", user.ID), zap.String("phone", user.Phone))
	return c.JSON(http.StatusCreated, user)
}

// Update applies a partial update to a user. Besides the level gate, an
// admin may only touch users whose shop belongs to the admin's own company.
func (h *UserHandler) Update(c echo.Context) error {
	log := logger.FromContext(c)
	actor := middleware.ActorFrom(c)
	prometheus.RecordEntityOperation("user", "update")

	if err := policy.CanUpdate(actor, policy.EntityUser); err != nil {
		prometheus.RecordForbidden("user", "update")
		return c.JSON(http.StatusForbidden, echo.Map{"error": "only super-admin and admin can update users"})
	}

	id, err := parseID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid user ID"})
	}

	user, err := h.repo.GetUserAny(id)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			log.Error("Failed to get user", zap.Uint("id", id), zap.Error(err))
		}
		return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
	}

	targetCompany, err := h.repo.CompanyOfShop(user.ShopID)
	if err != nil {
		log.Error("Failed to resolve user company", zap.Uint("id", id), zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "user update failed"})
	}
	if err := policy.CanUpdateUser(actor, targetCompany); err != nil {
		prometheus.RecordForbidden("user", "update")
		return c.JSON(http.StatusForbidden, echo.Map{"error": "cannot update users outside your company"})
	}

	updates, err := bindUpdates(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}
	if raw, ok := updates["password"]; ok {
		plain, ok := raw.(string)
		if !ok || plain == "" {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid password"})
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
		if err != nil {
			log.Error("Failed to hash password", zap.Error(err))
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "user update failed"})
		}
		updates["password"] = string(hash)
	}

	updated, err := h.repo.UpdateUser(user, updates, actor.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "user already exists"})
		}
		log.Error("Failed to update user", zap.Uint("id", id), zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "user update failed"})
	}

	return c.JSON(http.StatusOK, updated)
}
