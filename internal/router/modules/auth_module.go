package modules

import (
	"github.com/gin-gonic/gin"

	handlers "github.com/oksasatya/user-account-service/internal/interface/http"
)

// AuthModule exposes the public account endpoints.
type AuthModule struct {
	Handler *handlers.AuthHandler
}

func NewAuthModule(h *handlers.AuthHandler) *AuthModule {
	return &AuthModule{Handler: h}
}

func (m *AuthModule) Register(rg *gin.RouterGroup) {
	rg.POST("/auth/register", m.Handler.Register)
	rg.POST("/auth/login", m.Handler.Login)
}
