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

// HypotheticalHandler exposes the what-if grade simulation endpoints.
type HypotheticalHandler struct{}

// NewHypotheticalHandler creates a new handler.
func NewHypotheticalHandler() *HypotheticalHandler {
	return &HypotheticalHandler{}
}

type scorePayload struct {
	PointsEarned   *float64 `json:"points_earned" binding:"required"`
	PointsPossible *float64 `json:"points_possible" binding:"required"`
}

func (p scorePayload) validate() error {
	if *p.PointsEarned < 0 || *p.PointsPossible < 0 {
		return appErrors.Clone(appErrors.ErrValidation, "points must not be negative")
	}
	return nil
}

// SetMode godoc
// @Summary Toggle what-if mode
// @Description Enables or disables hypothetical mode; disabling discards every override
// @Tags Hypothetical
// @Accept json
// @Produce json
// @Param payload body object true "Mode toggle"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Router /hypothetical/mode [put]
func (h *HypotheticalHandler) SetMode(c *gin.Context) {
	session, ok := middleware.SessionFrom(c)
	if !ok {
		response.Error(c, appErrors.ErrNoSession)
		return
	}

	var payload struct {
		Enabled *bool `json:"enabled" binding:"required"`
	}
	if err := c.ShouldBindJSON(&payload); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid mode payload"))
		return
	}

	view := session.SetHypotheticalMode(*payload.Enabled)
	response.JSON(c, http.StatusOK, view, nil)
}

// UpdateScore godoc
// @Summary Override an assignment score
// @Description Simulates a different score for an existing assignment
// @Tags Hypothetical
// @Accept json
// @Produce json
// @Param id path string true "Course id"
// @Param index path int true "Assignment index"
// @Param payload body scorePayload true "Score override"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /hypothetical/courses/{id}/assignments/{index} [put]
func (h *HypotheticalHandler) UpdateScore(c *gin.Context) {
	session, ok := middleware.SessionFrom(c)
	if !ok {
		response.Error(c, appErrors.ErrNoSession)
		return
	}

	index, err := strconv.Atoi(c.Param("index"))
	if err != nil || index < 0 {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid assignment index"))
		return
	}

	var payload scorePayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid score payload"))
		return
	}
	if err := payload.validate(); err != nil {
		response.Error(c, err)
		return
	}

	view, err := session.UpdateAssignmentScore(c.Param("id"), index, models.ScoreOverride{
		PointsEarned:   *payload.PointsEarned,
		PointsPossible: *payload.PointsPossible,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, view, nil)
}

type addAssignmentPayload struct {
	Name           string   `json:"name"`
	Type           string   `json:"type"`
	PointsEarned   *float64 `json:"points_earned" binding:"required"`
	PointsPossible *float64 `json:"points_possible" binding:"required"`
}

// AddAssignment godoc
// @Summary Add a hypothetical assignment
// @Description Appends a synthetic assignment to a course for simulation
// @Tags Hypothetical
// @Accept json
// @Produce json
// @Param id path string true "Course id"
// @Param payload body addAssignmentPayload true "New assignment"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /hypothetical/courses/{id}/assignments [post]
func (h *HypotheticalHandler) AddAssignment(c *gin.Context) {
	session, ok := middleware.SessionFrom(c)
	if !ok {
		response.Error(c, appErrors.ErrNoSession)
		return
	}

	var payload addAssignmentPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid assignment payload"))
		return
	}
	if *payload.PointsEarned < 0 || *payload.PointsPossible < 0 {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "points must not be negative"))
		return
	}
	name := payload.Name
	if name == "" {
		name = "Hypothetical Assignment"
	}

	added, err := session.AddHypotheticalAssignment(c.Param("id"), models.HypotheticalAssignment{
		Name:           name,
		Type:           payload.Type,
		PointsEarned:   *payload.PointsEarned,
		PointsPossible: *payload.PointsPossible,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, added)
}

// RemoveAssignment godoc
// @Summary Remove a hypothetical assignment
// @Description Deletes a previously added synthetic assignment by id
// @Tags Hypothetical
// @Produce json
// @Param id path string true "Course id"
// @Param assignmentId path string true "Hypothetical assignment id"
// @Success 204 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /hypothetical/courses/{id}/assignments/{assignmentId} [delete]
func (h *HypotheticalHandler) RemoveAssignment(c *gin.Context) {
	session, ok := middleware.SessionFrom(c)
	if !ok {
		response.Error(c, appErrors.ErrNoSession)
		return
	}

	if err := session.RemoveHypotheticalAssignment(c.Param("id"), c.Param("assignmentId")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
