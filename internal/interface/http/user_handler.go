package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	userapp "github.com/oksasatya/user-account-service/internal/application"
	repo "github.com/oksasatya/user-account-service/internal/domain/repository"
	"github.com/oksasatya/user-account-service/pkg/response"
	"github.com/oksasatya/user-account-service/pkg/validation"
)

type UserHandler struct {
	Svc *userapp.UserService
}

func NewUserHandler(svc *userapp.UserService) *UserHandler {
	return &UserHandler{Svc: svc}
}

func invalidPayload(c *gin.Context, err error) {
	response.Error(c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
}

func (h *UserHandler) GetByID(c *gin.Context) {
	u, err := h.Svc.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, u, "User fetched successfully", nil)
}

func (h *UserHandler) GetAll(c *gin.Context) {
	var q paginationQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		invalidPayload(c, err)
		return
	}
	users, err := h.Svc.GetAll(c.Request.Context(), repo.Pagination{Skip: q.Skip, Limit: q.Limit})
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, users, "Users fetched successfully", gin.H{"length": len(users)})
}

func (h *UserHandler) Create(c *gin.Context) {
	var req createUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidPayload(c, err)
		return
	}
	u, err := h.Svc.Create(c.Request.Context(), req.input())
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, http.StatusCreated, u, "User created successfully", nil)
}

func (h *UserHandler) Update(c *gin.Context) {
	var req updateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidPayload(c, err)
		return
	}
	u, err := h.Svc.Update(c.Request.Context(), c.Param("id"), req.input())
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, u, "User updated successfully", nil)
}

func (h *UserHandler) Delete(c *gin.Context) {
	u, err := h.Svc.Delete(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, u, "User deleted successfully", nil)
}

// Search queries the user search index by name or email.
func (h *UserHandler) Search(c *gin.Context) {
	var q searchQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		invalidPayload(c, err)
		return
	}
	users, err := h.Svc.Search(c.Request.Context(), q.Q, q.Size)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, users, "search results", gin.H{"length": len(users)})
}
