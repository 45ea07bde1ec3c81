package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/VWTAlpine/Gradevue2UI-sub000/internal/middleware"
	"github.com/VWTAlpine/Gradevue2UI-sub000/internal/models"
	"github.com/VWTAlpine/Gradevue2UI-sub000/internal/service"
	appErrors "github.com/VWTAlpine/Gradevue2UI-sub000/pkg/errors"
	"github.com/VWTAlpine/Gradevue2UI-sub000/pkg/response"
)

// AuthHandler wires HTTP endpoints to the session manager.
type AuthHandler struct {
	manager *service.SessionManager
}

// NewAuthHandler creates a new handler.
func NewAuthHandler(manager *service.SessionManager) *AuthHandler {
	return &AuthHandler{manager: manager}
}

// Login godoc
// @Summary Authenticate against the district
// @Description Authenticate with StudentVue credentials and start a session
// @Tags Authentication
// @Accept json
// @Produce json
// @Param payload body models.Credentials true "Login payload"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Failure 504 {object} response.Envelope
// @Router /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var creds models.Credentials
	if err := c.ShouldBindJSON(&creds); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid login payload"))
		return
	}

	res, err := h.manager.Login(c.Request.Context(), creds)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, res, nil)
}

// Logout godoc
// @Summary Logout current session
// @Description End the session and discard persisted credentials
// @Tags Authentication
// @Produce json
// @Success 204 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Router /auth/logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	claims, ok := middleware.ClaimsFrom(c)
	if !ok {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	if err := h.manager.Logout(c.Request.Context(), claims.SessionID); err != nil {
		response.Error(c, err)
		return
	}

	response.NoContent(c)
}
