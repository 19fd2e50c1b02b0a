package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"easystock-service/internal/model"
	"easystock-service/internal/policy"
	"easystock-service/pkg/jwtutil"
	"easystock-service/prometheus"

	"easystock-service/pkg/logger"
)

const (
	currentUserKey = "current_user"
	actorKey       = "actor"
)

// Auth validates the bearer token, loads the caller's user record and
// resolves the policy actor for the request.
func Auth(engine *policy.Engine) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			log := logger.FromContext(c)

			// Get the Authorization header
			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				log.Warn("Missing Authorization header")
				prometheus.RecordAuthError("missing_token")
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing authorization token"})
			}

			// Check if it's a Bearer token
			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
				log.Warn("Invalid Authorization header format")
				prometheus.RecordAuthError("invalid_auth_format")
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid authorization format, expected Bearer token"})
			}

			// Validate the token
			claims, err := jwtutil.ValidateToken(parts[1])
			if err != nil {
				log.Warn("Invalid or expired token", zap.Error(err))
				prometheus.RecordAuthError("invalid_token")
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid or expired token"})
			}

			// The token is stateless; the user row is the source of truth
			// for role and shop assignment on every request.
			user, actor, err := engine.Resolve(claims.UserID)
			if err != nil {
				log.Warn("Token subject no longer resolves to a user",
					zap.Uint("user_id", claims.UserID), zap.Error(err))
				prometheus.RecordAuthError("unknown_user")
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid or expired token"})
			}

			c.Set(currentUserKey, user)
			c.Set(actorKey, actor)

			log.Debug("Request authenticated",
				zap.Uint("user_id", actor.UserID),
				zap.Int("user_level", actor.Level))

			return next(c)
		}
	}
}

// UserFrom returns the authenticated user stored by Auth.
func UserFrom(c echo.Context) *model.User {
	user, _ := c.Get(currentUserKey).(*model.User)
	return user
}

// ActorFrom returns the policy actor stored by Auth.
func ActorFrom(c echo.Context) policy.Actor {
	actor, _ := c.Get(actorKey).(policy.Actor)
	return actor
}
