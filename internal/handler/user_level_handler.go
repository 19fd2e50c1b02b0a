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

// UserLevelHandler serves the user level lookup. Reads are public; writes
// are super-admin only.
type UserLevelHandler struct {
	repo *repository.Repository
}

func NewUserLevelHandler(repo *repository.Repository) *UserLevelHandler {
	return &UserLevelHandler{repo: repo}
}

func (h *UserLevelHandler) List(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordEntityOperation("user_level", "list")

	levels, err := h.repo.ListUserLevels()
	if err != nil {
		log.Error("Failed to list user levels", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to retrieve user levels"})
	}

	return c.JSON(http.StatusOK, levels)
}

func (h *UserLevelHandler) Get(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordEntityOperation("user_level", "get")

	id, err := parseID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid user level ID"})
	}

	level, err := h.repo.GetUserLevel(id)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			log.Error("Failed to get user level", zap.Uint("id", id), zap.Error(err))
		}
		return c.JSON(http.StatusNotFound, echo.Map{"error": "no user level found"})
	}

	return c.JSON(http.StatusOK, level)
}

func (h *UserLevelHandler) Create(c echo.Context) error {
	log := logger.FromContext(c)
	actor := middleware.ActorFrom(c)
	prometheus.RecordEntityOperation("user_level", "create")

	if err := policy.CanCreate(actor, policy.EntityUserLevel); err != nil {
		prometheus.RecordForbidden("user_level", "create")
		return c.JSON(http.StatusForbidden, echo.Map{"error": "only super-admin can create user levels"})
	}

	var level model.UserLevel
	if err := c.Bind(&level); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}
	if level.Name == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name is required"})
	}

	if err := h.repo.CreateUserLevel(&level, actor.UserID); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "user level already exists"})
		}
		log.Error("Failed to create user level", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "user level creation failed"})
	}

	log.Info("User level created", zap.Uint("id", level.ID), zap.String("name", level.Name))
	return c.JSON(http.StatusCreated, level)
}

func (h *UserLevelHandler) Update(c echo.Context) error {
	log := logger.FromContext(c)
	actor := middleware.ActorFrom(c)
	prometheus.RecordEntityOperation("user_level", "update")

	if err := policy.CanUpdate(actor, policy.EntityUserLevel); err != nil {
		prometheus.RecordForbidden("user_level", "update")
		return c.JSON(http.StatusForbidden, echo.Map{"error": "only super-admin can update user levels"})
	}

	id, err := parseID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid user level ID"})
	}

	updates, err := bindUpdates(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}

	level, err := h.repo.UpdateUserLevel(id, updates, actor.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "user level not found"})
		}
		log.Error("Failed to update user level", zap.Uint("id", id), zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "user level update failed"})
	}

	return c.JSON(http.StatusOK, level)
}
