package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"easystock-service/internal/middleware"
	"easystock-service/internal/repository"
	"easystock-service/pkg/jwtutil"
	"easystock-service/pkg/logger"
	"easystock-service/prometheus"
)

// AuthHandler issues and introspects session tokens.
type AuthHandler struct {
	repo *repository.Repository
}

// NewAuthHandler creates the auth handler.
func NewAuthHandler(repo *repository.Repository) *AuthHandler {
	return &AuthHandler{repo: repo}
}

// Login verifies phone+password and mints a bearer token.
func (h *AuthHandler) Login(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.LoginCounter.Inc()

	var req struct {
		Phone    string `json:"phone"`
		Password string `json:"password"`
	}

	if err := c.Bind(&req); err != nil {
		log.Error("Failed to parse login request", zap.Error(err))
		prometheus.RecordAuthError("invalid_request")
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}

	user, err := h.repo.FindUserByPhone(req.Phone)
	if err != nil {
		log.Warn("Login with unknown phone", zap.String("phone", req.Phone))
		prometheus.RecordAuthError("user_not_found")
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid phone or password"})
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		log.Warn("Login with invalid password", zap.String("phone", req.Phone))
		prometheus.RecordAuthError("invalid_password")
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid phone or password"})
	}

	token, err := jwtutil.GenerateToken(user.ID, user.Phone)
	if err != nil {
		log.Error("Failed to generate token", zap.Error(err))
		prometheus.RecordAuthError("token_generation_failed")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "token error"})
	}

	prometheus.IncreaseActiveTokens()
	log.Info("User logged in",
		zap.Uint("user_id", user.ID),
		zap.Uint("user_level_id", user.UserLevelID))

	return c.JSON(http.StatusOK, echo.Map{
		"access_token": token,
		"token_type":   "bearer",
		"user": echo.Map{
			"id":            user.ID,
			"name":          user.Name,
			"phone":         user.Phone,
			"shop_id":       user.ShopID,
			"user_level_id": user.UserLevelID,
		},
	})
}

// Me returns the caller's own user record.
func (h *AuthHandler) Me(c echo.Context) error {
	user := middleware.UserFrom(c)
	if user == nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "authentication required"})
	}
	return c.JSON(http.StatusOK, user)
}
