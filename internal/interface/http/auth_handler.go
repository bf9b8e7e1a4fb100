package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	userapp "github.com/oksasatya/user-account-service/internal/application"
	"github.com/oksasatya/user-account-service/pkg/response"
)

type AuthHandler struct {
	Users *userapp.UserService
	Auth  *userapp.AuthService
}

func NewAuthHandler(users *userapp.UserService, auth *userapp.AuthService) *AuthHandler {
	return &AuthHandler{Users: users, Auth: auth}
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidPayload(c, err)
		return
	}
	res, err := h.Auth.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, res, "Login successful", nil)
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req createUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidPayload(c, err)
		return
	}
	u, err := h.Users.Create(c.Request.Context(), req.input())
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, http.StatusCreated, u, "User registered successfully", nil)
}
