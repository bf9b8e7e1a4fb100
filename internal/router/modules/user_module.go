package modules

import (
	"github.com/gin-gonic/gin"

	handlers "github.com/oksasatya/user-account-service/internal/interface/http"
	"github.com/oksasatya/user-account-service/internal/interface/middleware"
)

// UserModule wires the user CRUD handlers behind bearer authentication.
// All routes live under /users of the given RouterGroup.
type UserModule struct {
	Handler *handlers.UserHandler
	Tokens  middleware.TokenVerifier
}

func NewUserModule(h *handlers.UserHandler, tokens middleware.TokenVerifier) *UserModule {
	return &UserModule{Handler: h, Tokens: tokens}
}

func (m *UserModule) Register(rg *gin.RouterGroup) {
	users := rg.Group("/users")
	users.Use(middleware.Auth(m.Tokens))
	{
		users.GET("", m.Handler.GetAll)
		users.GET("/search", m.Handler.Search)
		users.GET("/:id", m.Handler.GetByID)
		users.POST("", m.Handler.Create)
		users.PUT("/:id", m.Handler.Update)
		users.PATCH("/:id", m.Handler.Update)
		users.DELETE("/:id", m.Handler.Delete)
	}
}
