package middleware

import (
	"log/slog"
	"net/http"
	"strings"

	"tutorbook/internal/domain/identity"
	"tutorbook/internal/pkg/cookie"
	"tutorbook/internal/usecase"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type AuthMiddleware struct {
	tokenValidator usecase.TokenValidator
}

const (
	ctxSubjectIDKey = "subject_id"
	ctxRoleKey      = "subject_role"
)

func NewAuthMiddleware(tokenValidator usecase.TokenValidator) *AuthMiddleware {
	return &AuthMiddleware{
		tokenValidator: tokenValidator,
	}
}

func (m *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := cookie.GetAccessToken(c)

		if token == "" {
			authHeader := c.GetHeader("Authorization")
			if authHeader != "" && strings.HasPrefix(authHeader, "Bearer ") {
				token = strings.TrimSpace(authHeader[len("Bearer "):])
			}
		}

		if token == "" {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error": "Access token required",
			})
			c.Abort()
			return
		}

		subjectID, role, err := m.tokenValidator.ValidateToken(token)
		if err != nil {
			slog.Warn("Token validation failed in auth middleware", "error", err.Error())
			c.JSON(http.StatusUnauthorized, gin.H{
				"error": "Invalid or expired token",
			})
			c.Abort()
			return
		}

		c.Set(ctxSubjectIDKey, subjectID)
		c.Set(ctxRoleKey, role)
		c.Set("jwt_claims", map[string]any{
			"subject_id": subjectID.String(),
			"role":       role.String(),
		})
		c.Next()
	}
}

// RequireRole gates a route to the listed roles. Booking-level party
// checks still happen in the use cases; this only filters by role.
func (m *AuthMiddleware) RequireRole(roles ...identity.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		role, ok := GetRole(c)
		if !ok {
			// Unexpected error: should be used after RequireAuth()
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Internal server error",
			})
			c.Abort()
			return
		}

		for _, allowed := range roles {
			if role == allowed || role == identity.RoleAdmin {
				c.Next()
				return
			}
		}

		c.JSON(http.StatusForbidden, gin.H{
			"error": "Insufficient permissions",
		})
		c.Abort()
	}
}

func GetSubjectID(c *gin.Context) (uuid.UUID, bool) {
	subjectID, exists := c.Get(ctxSubjectIDKey)
	if !exists {
		return uuid.Nil, false
	}

	id, ok := subjectID.(uuid.UUID)
	return id, ok
}

func GetRole(c *gin.Context) (identity.Role, bool) {
	subjectRole, exists := c.Get(ctxRoleKey)
	if !exists {
		return "", false
	}

	role, ok := subjectRole.(identity.Role)
	return role, ok
}
