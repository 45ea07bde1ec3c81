package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/VWTAlpine/Gradevue2UI-sub000/internal/middleware"
	"github.com/VWTAlpine/Gradevue2UI-sub000/internal/models"
	"github.com/VWTAlpine/Gradevue2UI-sub000/internal/service"
	"github.com/VWTAlpine/Gradevue2UI-sub000/pkg/response"
)

type stubFetcher struct {
	gradebook *models.Gradebook
}

func (s *stubFetcher) Fetch(ctx context.Context, creds models.Credentials, reportPeriod *int, fresh bool) (*models.Gradebook, error) {
	return s.gradebook, nil
}

func testGradebook() *models.Gradebook {
	grade := 82.0
	return &models.Gradebook{
		Courses: []*models.Course{
			{
				ID:          "course-0",
				Name:        "AP Calculus BC",
				Grade:       &grade,
				LetterGrade: "B-",
				Categories: []models.Category{
					{Name: "Tests", Weight: 0.6},
					{Name: "Homework", Weight: 0.4},
				},
				Assignments: []models.Assignment{
					{Name: "Unit 7 Test", Type: "Tests", PointsEarned: floatRef(75), PointsPossible: floatRef(100)},
					{Name: "Homework 7.1", Type: "Homework", PointsEarned: floatRef(36), PointsPossible: floatRef(40)},
				},
			},
		},
	}
}

func floatRef(v float64) *float64 {
	return &v
}

func loggedInSession(t *testing.T) *service.GradeSession {
	t.Helper()
	session := service.NewGradeSession(models.Credentials{
		DistrictURL: "https://student.example.org",
		Username:    "student1",
		Password:    "hunter2",
	}, &stubFetcher{gradebook: testGradebook()}, nil, nil, nil)
	_, err := session.Login(context.Background())
	require.NoError(t, err)
	return session
}

func withSession(session *service.GradeSession) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(middleware.ContextSessionKey, session)
		c.Next()
	}
}

func newHypotheticalRouter(session *service.GradeSession) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(withSession(session))

	handler := NewHypotheticalHandler()
	r.PUT("/hypothetical/mode", handler.SetMode)
	r.POST("/hypothetical/courses/:id/assignments", handler.AddAssignment)
	r.PUT("/hypothetical/courses/:id/assignments/:index", handler.UpdateScore)
	r.DELETE("/hypothetical/courses/:id/assignments/:assignmentId", handler.RemoveAssignment)
	return r
}

func performJSON(t *testing.T, r *gin.Engine, method, path string, payload interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var body *bytes.Buffer
	if payload != nil {
		raw, err := json.Marshal(payload)
		require.NoError(t, err)
		body = bytes.NewBuffer(raw)
	} else {
		body = bytes.NewBuffer(nil)
	}
	req, err := http.NewRequest(method, path, body)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeEnvelope(t *testing.T, w *httptest.ResponseRecorder) response.Envelope {
	t.Helper()
	var envelope response.Envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	return envelope
}

func TestSetModeEndpoint(t *testing.T) {
	session := loggedInSession(t)
	r := newHypotheticalRouter(session)

	w := performJSON(t, r, http.MethodPut, "/hypothetical/mode", gin.H{"enabled": true})
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, session.View().HypotheticalMode)

	w = performJSON(t, r, http.MethodPut, "/hypothetical/mode", gin.H{"enabled": false})
	require.Equal(t, http.StatusOK, w.Code)
	assert.False(t, session.View().HypotheticalMode)
}

func TestSetModeRejectsMissingFlag(t *testing.T) {
	r := newHypotheticalRouter(loggedInSession(t))
	w := performJSON(t, r, http.MethodPut, "/hypothetical/mode", gin.H{})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUpdateScoreEndpoint(t *testing.T) {
	session := loggedInSession(t)
	session.SetHypotheticalMode(true)
	r := newHypotheticalRouter(session)

	w := performJSON(t, r, http.MethodPut, "/hypothetical/courses/course-0/assignments/0",
		gin.H{"points_earned": 95, "points_possible": 100})
	require.Equal(t, http.StatusOK, w.Code)

	view := session.View()
	require.NotNil(t, view.Gradebook)
	assert.InDelta(t, 93, *view.Gradebook.Courses[0].Grade, 1e-9)
}

func TestUpdateScoreRejectsBadIndex(t *testing.T) {
	r := newHypotheticalRouter(loggedInSession(t))
	w := performJSON(t, r, http.MethodPut, "/hypothetical/courses/course-0/assignments/abc",
		gin.H{"points_earned": 95, "points_possible": 100})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUpdateScoreRejectsNegativePoints(t *testing.T) {
	r := newHypotheticalRouter(loggedInSession(t))
	w := performJSON(t, r, http.MethodPut, "/hypothetical/courses/course-0/assignments/0",
		gin.H{"points_earned": -1, "points_possible": 100})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUpdateScoreUnknownCourse(t *testing.T) {
	r := newHypotheticalRouter(loggedInSession(t))
	w := performJSON(t, r, http.MethodPut, "/hypothetical/courses/course-99/assignments/0",
		gin.H{"points_earned": 95, "points_possible": 100})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestAddAndRemoveAssignmentEndpoints(t *testing.T) {
	session := loggedInSession(t)
	session.SetHypotheticalMode(true)
	r := newHypotheticalRouter(session)

	w := performJSON(t, r, http.MethodPost, "/hypothetical/courses/course-0/assignments",
		gin.H{"name": "Final Exam", "type": "Tests", "points_earned": 100, "points_possible": 100})
	require.Equal(t, http.StatusCreated, w.Code)

	envelope := decodeEnvelope(t, w)
	data, ok := envelope.Data.(map[string]interface{})
	require.True(t, ok)
	id, _ := data["id"].(string)
	require.NotEmpty(t, id)

	view := session.View()
	require.Len(t, view.Gradebook.Courses[0].Assignments, 3)

	w = performJSON(t, r, http.MethodDelete, "/hypothetical/courses/course-0/assignments/"+id, nil)
	require.Equal(t, http.StatusNoContent, w.Code)
	assert.Len(t, session.View().Gradebook.Courses[0].Assignments, 2)

	w = performJSON(t, r, http.MethodDelete, "/hypothetical/courses/course-0/assignments/"+id, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
