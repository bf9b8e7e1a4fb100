package router

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/user-account-service/internal/container"
	handlers "github.com/oksasatya/user-account-service/internal/interface/http"
	"github.com/oksasatya/user-account-service/internal/router/modules"
)

// InitModules wires every feature module from the container into the registry.
// Call once during startup, before RegisterAll.
func InitModules(r *Registry, c *container.Container) {
	r.Engine.GET("/ping", func(ctx *gin.Context) { ctx.String(http.StatusOK, "pong") })

	users := handlers.NewUserHandler(c.UserService())
	auth := handlers.NewAuthHandler(c.UserService(), c.AuthService())

	r.Add(modules.NewAuthModule(auth))
	r.Add(modules.NewUserModule(users, c.Tokens()))
	if c.Config.DebugMetricsEnabled {
		r.Add(modules.NewDebugModule())
	}
}
