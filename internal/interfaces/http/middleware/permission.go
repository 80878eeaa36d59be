package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/hyperflow/backend/internal/interfaces/http/dto"
	"go.uber.org/zap"
)

// RoleAdmin passes every role check
const RoleAdmin = "admin"

// PermissionConfig holds configuration for role middleware
type PermissionConfig struct {
	Logger *zap.Logger
}

// RequireRoles lets the request through when the token's role is one of roles.
// Admins are always allowed.
func RequireRoles(roles ...string) gin.HandlerFunc {
	return RequireRolesWithConfig(PermissionConfig{}, roles...)
}

// RequireRolesWithConfig is RequireRoles with logging of denials
func RequireRolesWithConfig(cfg PermissionConfig, roles ...string) gin.HandlerFunc {
	allowed := append([]string{RoleAdmin}, roles...)
	return func(c *gin.Context) {
		claims := GetJWTClaims(c)
		if claims == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewErrorResponseWithRequestID(
				dto.ErrCodeUnauthorized, "Authentication required", GetRequestID(c)))
			return
		}

		if !claims.HasRole(allowed...) {
			if cfg.Logger != nil {
				cfg.Logger.Warn("Role check failed",
					zap.String("user_id", claims.UserID),
					zap.String("role", claims.Role),
					zap.Strings("required_any", allowed),
					zap.String("path", c.FullPath()),
					zap.String("method", c.Request.Method),
				)
			}
			c.AbortWithStatusJSON(http.StatusForbidden, dto.NewErrorResponseWithRequestID(
				dto.ErrCodeForbidden, "Access denied: insufficient role", GetRequestID(c)))
			return
		}
		c.Next()
	}
}
