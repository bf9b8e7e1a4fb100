package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/user-account-service/pkg/helpers"
	"github.com/oksasatya/user-account-service/pkg/response"
)

const CtxUserIDKey = "userID"

const (
	msgLoginRequired = "You must be logged in to access this resource."
	msgInvalidToken  = "Invalid token."
)

// TokenVerifier validates a bearer token; *helpers.JWTManager satisfies it.
type TokenVerifier interface {
	Verify(token string) (*helpers.Claims, error)
}

// Auth requires "Authorization: Bearer <token>" and stores the user id under CtxUserIDKey.
func Auth(tokens TokenVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c.GetHeader("Authorization"))
		if token == "" {
			response.Error(c, http.StatusUnauthorized, msgLoginRequired, nil)
			return
		}
		claims, err := tokens.Verify(token)
		if err != nil || claims.UserID == "" {
			response.Error(c, http.StatusUnauthorized, msgInvalidToken, nil)
			return
		}
		c.Set(CtxUserIDKey, claims.UserID)
		c.Next()
	}
}

func bearerToken(header string) string {
	scheme, token, ok := strings.Cut(strings.TrimSpace(header), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}
