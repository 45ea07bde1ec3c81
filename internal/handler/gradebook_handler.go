package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/VWTAlpine/Gradevue2UI-sub000/internal/middleware"
	"github.com/VWTAlpine/Gradevue2UI-sub000/internal/service"
	appErrors "github.com/VWTAlpine/Gradevue2UI-sub000/pkg/errors"
	"github.com/VWTAlpine/Gradevue2UI-sub000/pkg/response"
)

// GradebookHandler serves the session's gradebook views.
type GradebookHandler struct {
	manager *service.SessionManager
}

// NewGradebookHandler creates a new handler.
func NewGradebookHandler(manager *service.SessionManager) *GradebookHandler {
	return &GradebookHandler{manager: manager}
}

// Get godoc
// @Summary Get the current gradebook
// @Description Returns the session gradebook; the hypothetical derivation when what-if mode is on
// @Tags Gradebook
// @Produce json
// @Success 200 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Router /gradebook [get]
func (h *GradebookHandler) Get(c *gin.Context) {
	session, ok := middleware.SessionFrom(c)
	if !ok {
		response.Error(c, appErrors.ErrNoSession)
		return
	}
	response.JSON(c, http.StatusOK, session.View(), nil)
}

// Refresh godoc
// @Summary Refresh the gradebook from the district
// @Description Re-fetches the gradebook, bypassing the cache, and records grade changes
// @Tags Gradebook
// @Produce json
// @Success 200 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Failure 502 {object} response.Envelope
// @Failure 504 {object} response.Envelope
// @Router /gradebook/refresh [post]
func (h *GradebookHandler) Refresh(c *gin.Context) {
	claims, ok := middleware.ClaimsFrom(c)
	if !ok {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	session, ok := middleware.SessionFrom(c)
	if !ok {
		response.Error(c, appErrors.ErrNoSession)
		return
	}

	if err := h.manager.Refresh(c.Request.Context(), claims.SessionID); err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, session.View(), nil)
}

// SelectPeriod godoc
// @Summary Switch reporting period
// @Description Re-fetches the gradebook for the selected grading term
// @Tags Gradebook
// @Accept json
// @Produce json
// @Param payload body object true "Reporting period selection"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Router /gradebook/period [put]
func (h *GradebookHandler) SelectPeriod(c *gin.Context) {
	session, ok := middleware.SessionFrom(c)
	if !ok {
		response.Error(c, appErrors.ErrNoSession)
		return
	}

	var payload struct {
		// Index selects a reporting period; null selects the district's
		// current one.
		Index *int `json:"index"`
	}
	if err := c.ShouldBindJSON(&payload); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid period payload"))
		return
	}
	if payload.Index != nil && *payload.Index < 0 {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "index must not be negative"))
		return
	}

	view, err := session.SelectReportingPeriod(c.Request.Context(), payload.Index)
	if err != nil {
		response.Error(c, err)
		return
	}
	h.manager.Persist(c.Request.Context(), session)
	response.JSON(c, http.StatusOK, view, nil)
}
