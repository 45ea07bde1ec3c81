package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/VWTAlpine/Gradevue2UI-sub000/internal/middleware"
	"github.com/VWTAlpine/Gradevue2UI-sub000/internal/models"
	appErrors "github.com/VWTAlpine/Gradevue2UI-sub000/pkg/errors"
	"github.com/VWTAlpine/Gradevue2UI-sub000/pkg/response"
)

// ChangesHandler serves the per-session grade change history.
type ChangesHandler struct{}

// NewChangesHandler creates a new handler.
func NewChangesHandler() *ChangesHandler {
	return &ChangesHandler{}
}

// List godoc
// @Summary List grade changes
// @Description Returns the retained grade change history, newest first
// @Tags Changes
// @Produce json
// @Param page query int false "Page number"
// @Param page_size query int false "Page size"
// @Success 200 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Router /changes [get]
func (h *ChangesHandler) List(c *gin.Context) {
	session, ok := middleware.SessionFrom(c)
	if !ok {
		response.Error(c, appErrors.ErrNoSession)
		return
	}

	page := queryInt(c, "page", 1)
	pageSize := queryInt(c, "page_size", 20)
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}

	changes := session.Changes()
	total := len(changes)
	start := (page - 1) * pageSize
	if start > total {
		start = total
	}
	end := start + pageSize
	if end > total {
		end = total
	}

	response.JSON(c, http.StatusOK, changes[start:end], &models.Pagination{
		Page:       page,
		PageSize:   pageSize,
		TotalCount: total,
	})
}

// Clear godoc
// @Summary Clear grade changes
// @Description Empties the session's grade change history
// @Tags Changes
// @Produce json
// @Success 204 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Router /changes [delete]
func (h *ChangesHandler) Clear(c *gin.Context) {
	session, ok := middleware.SessionFrom(c)
	if !ok {
		response.Error(c, appErrors.ErrNoSession)
		return
	}
	session.ClearChanges()
	response.NoContent(c)
}

func queryInt(c *gin.Context, key string, fallback int) int {
	raw := c.Query(key)
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return value
}
