package api

import (
	"errors"
	"net/http"
	"strings"

	"workout-tracker/internal/repository"
	"workout-tracker/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Constants for context keys
const (
	ContextUserIDKey    = "userID"
	ContextRequestIDKey = "requestID"
)

// RequestID tags every request with a unique id, echoed in the
// X-Request-ID response header and attached to server-side logs.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := uuid.NewString()
		c.Set(ContextRequestIDKey, id)
		c.Writer.Header().Set("X-Request-ID", id)
		c.Next()
	}
}

// AuthMiddleware creates a Gin middleware for bearer-token authentication.
// It verifies the token, then resolves the subject to a stored user; a
// token whose user no longer exists is rejected, never passed through
// with an empty identity.
func AuthMiddleware(tokens service.TokenService, users repository.UserRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			abortWithError(c, http.StatusUnauthorized, "Authorization token required")
			return
		}

		// Expecting "Bearer <token>"
		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			abortWithError(c, http.StatusUnauthorized, "Authorization header format must be Bearer {token}")
			return
		}

		userIDHex, err := tokens.Verify(parts[1])
		if err != nil {
			abortWithError(c, http.StatusUnauthorized, "Request is not authorized")
			return
		}

		userID, err := primitive.ObjectIDFromHex(userIDHex)
		if err != nil {
			abortWithError(c, http.StatusUnauthorized, "Request is not authorized")
			return
		}

		// Only existence matters here; the password hash is never consulted.
		if _, err := users.GetByID(c.Request.Context(), userID); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				abortWithError(c, http.StatusUnauthorized, "Request is not authorized")
				return
			}
			abortWithError(c, http.StatusInternalServerError, "Failed to resolve user")
			return
		}

		c.Set(ContextUserIDKey, userIDHex)
		c.Next()
	}
}

// Helper to return JSON error response and abort request
func abortWithError(c *gin.Context, code int, message string) {
	c.AbortWithStatusJSON(code, gin.H{"error": message})
}

// getUserIDFromContext returns the authenticated user's id set by
// AuthMiddleware.
func getUserIDFromContext(c *gin.Context) (primitive.ObjectID, error) {
	idRaw, exists := c.Get(ContextUserIDKey)
	if !exists {
		return primitive.NilObjectID, errors.New("user ID not found in context")
	}
	idStr, ok := idRaw.(string)
	if !ok {
		return primitive.NilObjectID, errors.New("invalid user ID type in context")
	}
	return primitive.ObjectIDFromHex(idStr)
}
