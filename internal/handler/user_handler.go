package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/eduhub/eduhub-api/internal/service"
	"github.com/eduhub/eduhub-api/pkg/response"
)

// UserHandler exposes the recipient directory.
type UserHandler struct {
	users *service.UserService
}

// NewUserHandler constructs handler.
func NewUserHandler(users *service.UserService) *UserHandler {
	return &UserHandler{users: users}
}

// Directory godoc
// @Summary List addressable users for message composition
// @Tags Users
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Envelope
// @Router /users [get]
func (h *UserHandler) Directory(c *gin.Context) {
	entries, err := h.users.Directory(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"users": entries}, nil)
}
