package handler

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/eduhub/eduhub-api/internal/service"
	appErrors "github.com/eduhub/eduhub-api/pkg/errors"
	"github.com/eduhub/eduhub-api/pkg/response"
)

// GradebookHandler exposes the class gradebook and its exports.
type GradebookHandler struct {
	gradebook *service.GradebookService
}

// NewGradebookHandler constructs handler.
func NewGradebookHandler(gradebook *service.GradebookService) *GradebookHandler {
	return &GradebookHandler{gradebook: gradebook}
}

// Get godoc
// @Summary Gradebook for one class
// @Tags Gradebook
// @Produce json
// @Security BearerAuth
// @Param classId query string true "Class ID"
// @Success 200 {object} response.Envelope
// @Router /teacher/gradebook [get]
func (h *GradebookHandler) Get(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	classID := c.Query("classId")
	if classID == "" {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "classId is required"))
		return
	}
	gradebook, err := h.gradebook.Compute(c.Request.Context(), claims.UserID, classID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, gradebook, nil)
}

// Export godoc
// @Summary Export the gradebook as CSV or PDF
// @Tags Gradebook
// @Produce text/csv
// @Produce application/pdf
// @Security BearerAuth
// @Param classId query string true "Class ID"
// @Param format query string true "csv or pdf"
// @Success 200 {file} file
// @Router /teacher/gradebook/export [get]
func (h *GradebookHandler) Export(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	classID := c.Query("classId")
	if classID == "" {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "classId is required"))
		return
	}
	format := c.DefaultQuery("format", "csv")
	payload, contentType, err := h.gradebook.Export(c.Request.Context(), claims.UserID, classID, format)
	if err != nil {
		response.Error(c, err)
		return
	}
	filename := fmt.Sprintf("gradebook-%s-%s.%s", classID, time.Now().UTC().Format("20060102"), format)
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, contentType, payload)
}
