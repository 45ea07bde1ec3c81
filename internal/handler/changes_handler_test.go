package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/VWTAlpine/Gradevue2UI-sub000/internal/models"
	"github.com/VWTAlpine/Gradevue2UI-sub000/internal/service"
)

type sequenceFetcher struct {
	gradebooks []*models.Gradebook
	calls      int
}

func (s *sequenceFetcher) Fetch(ctx context.Context, creds models.Credentials, reportPeriod *int, fresh bool) (*models.Gradebook, error) {
	idx := s.calls
	if idx >= len(s.gradebooks) {
		idx = len(s.gradebooks) - 1
	}
	s.calls++
	return s.gradebooks[idx], nil
}

func newChangesRouter(session *service.GradeSession) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(withSession(session))

	handler := NewChangesHandler()
	r.GET("/changes", handler.List)
	r.DELETE("/changes", handler.Clear)
	return r
}

func sessionWithChanges(t *testing.T, count int) *service.GradeSession {
	t.Helper()
	gradebooks := []*models.Gradebook{testGradebook()}
	for i := 0; i < count; i++ {
		next := testGradebook()
		grade := float64(i + 1)
		next.Courses[0].Grade = &grade
		gradebooks = append(gradebooks, next)
	}

	fetcher := &sequenceFetcher{gradebooks: gradebooks}
	session := service.NewGradeSession(models.Credentials{
		DistrictURL: "https://student.example.org",
		Username:    "student1",
		Password:    "hunter2",
	}, fetcher, nil, nil, nil)

	_, err := session.Login(context.Background())
	require.NoError(t, err)
	for i := 0; i < count; i++ {
		require.NoError(t, session.Refresh(context.Background()))
	}
	require.Len(t, session.Changes(), count)
	return session
}

func TestChangesListPagination(t *testing.T) {
	session := sessionWithChanges(t, 25)
	r := newChangesRouter(session)

	req, _ := http.NewRequest(http.MethodGet, "/changes?page=2&page_size=10", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var envelope struct {
		Data       []models.GradeChange `json:"data"`
		Pagination *models.Pagination   `json:"pagination"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))

	assert.Len(t, envelope.Data, 10)
	require.NotNil(t, envelope.Pagination)
	assert.Equal(t, 2, envelope.Pagination.Page)
	assert.Equal(t, 10, envelope.Pagination.PageSize)
	assert.Equal(t, 25, envelope.Pagination.TotalCount)
}

func TestChangesListDefaultsAndClamps(t *testing.T) {
	session := sessionWithChanges(t, 5)
	r := newChangesRouter(session)

	cases := []string{
		"/changes",
		"/changes?page=0&page_size=-1",
		"/changes?page=abc&page_size=" + strconv.Itoa(1000),
	}
	for _, path := range cases {
		req, _ := http.NewRequest(http.MethodGet, path, nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		require.Equal(t, http.StatusOK, w.Code, path)

		var envelope struct {
			Data       []models.GradeChange `json:"data"`
			Pagination *models.Pagination   `json:"pagination"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
		assert.Len(t, envelope.Data, 5)
		assert.Equal(t, 1, envelope.Pagination.Page)
		assert.Equal(t, 20, envelope.Pagination.PageSize)
	}
}

func TestChangesListPastEnd(t *testing.T) {
	session := sessionWithChanges(t, 3)
	r := newChangesRouter(session)

	req, _ := http.NewRequest(http.MethodGet, "/changes?page=9&page_size=10", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var envelope struct {
		Data []models.GradeChange `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	assert.Empty(t, envelope.Data)
}

func TestChangesClear(t *testing.T) {
	session := sessionWithChanges(t, 4)
	r := newChangesRouter(session)

	req, _ := http.NewRequest(http.MethodDelete, "/changes", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusNoContent, w.Code)
	assert.Empty(t, session.Changes())
}
