package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/eduhub/eduhub-api/internal/service"
	appErrors "github.com/eduhub/eduhub-api/pkg/errors"
	"github.com/eduhub/eduhub-api/pkg/response"
)

// ClassHandler exposes the teacher class roster endpoints.
type ClassHandler struct {
	classes *service.ClassService
}

// NewClassHandler constructs handler.
func NewClassHandler(classes *service.ClassService) *ClassHandler {
	return &ClassHandler{classes: classes}
}

// List godoc
// @Summary List classes assigned to the authenticated teacher
// @Tags Classes
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Envelope
// @Router /teacher/classes [get]
func (h *ClassHandler) List(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	classes, err := h.classes.TeacherClasses(c.Request.Context(), claims.UserID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"classes": classes}, nil)
}
