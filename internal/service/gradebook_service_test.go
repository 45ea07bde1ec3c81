package service

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/VWTAlpine/Gradevue2UI-sub000/internal/dto"
	"github.com/VWTAlpine/Gradevue2UI-sub000/internal/models"
	appErrors "github.com/VWTAlpine/Gradevue2UI-sub000/pkg/errors"
)

type mockSynergyClient struct {
	gradebook      *dto.Gradebook
	gradebookErr   error
	studentInfo    *dto.StudentInfo
	studentInfoErr error
	gradebookCalls int
}

func (m *mockSynergyClient) Gradebook(ctx context.Context, creds models.Credentials, reportPeriod *int) (*dto.Gradebook, error) {
	m.gradebookCalls++
	return m.gradebook, m.gradebookErr
}

func (m *mockSynergyClient) StudentInfo(ctx context.Context, creds models.Credentials) (*dto.StudentInfo, error) {
	return m.studentInfo, m.studentInfoErr
}

type memoryCacheRepo struct {
	entries  map[string][]byte
	patterns []string
}

func (m *memoryCacheRepo) Get(ctx context.Context, key string, dest interface{}) error {
	raw, ok := m.entries[key]
	if !ok {
		return appErrors.ErrCacheMiss
	}
	return json.Unmarshal(raw, dest)
}

func (m *memoryCacheRepo) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	if m.entries == nil {
		m.entries = make(map[string][]byte)
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	m.entries[key] = raw
	return nil
}

func (m *memoryCacheRepo) DeleteByPattern(ctx context.Context, pattern string) error {
	m.patterns = append(m.patterns, pattern)
	m.entries = make(map[string][]byte)
	return nil
}

func rawGradebook(title string) *dto.Gradebook {
	return &dto.Gradebook{
		Courses: dto.CourseNodes{
			Course: dto.NodeList[dto.Course]{{Title: title}},
		},
	}
}

func TestFetchDemoShortCircuits(t *testing.T) {
	client := &mockSynergyClient{gradebookErr: appErrors.ErrUpstreamUnavailable}
	svc := NewGradebookService(client, nil, nil, nil, nil)

	gradebook, err := svc.Fetch(context.Background(), models.Credentials{Username: models.DemoUsername}, nil, false)
	require.NoError(t, err)
	assert.NotEmpty(t, gradebook.Courses)
	assert.Zero(t, client.gradebookCalls, "demo must never reach the upstream")
}

func TestFetchParsesAndCaches(t *testing.T) {
	client := &mockSynergyClient{
		gradebook:   rawGradebook("AP Calculus BC"),
		studentInfo: &dto.StudentInfo{FormattedName: "Ada Lovelace"},
	}
	repo := &memoryCacheRepo{}
	cacheSvc := NewCacheService(repo, nil, time.Minute, nil, true)
	svc := NewGradebookService(client, nil, cacheSvc, nil, nil)

	gradebook, err := svc.Fetch(context.Background(), realCreds(), nil, false)
	require.NoError(t, err)
	require.Len(t, gradebook.Courses, 1)
	assert.Equal(t, "AP Calculus BC", gradebook.Courses[0].Name)
	require.NotNil(t, gradebook.StudentInfo)
	assert.Equal(t, "Ada Lovelace", gradebook.StudentInfo.Name)
	assert.Contains(t, repo.entries, "gradebook:student1:current")

	// Second fetch is served from cache.
	_, err = svc.Fetch(context.Background(), realCreds(), nil, false)
	require.NoError(t, err)
	assert.Equal(t, 1, client.gradebookCalls)
}

func TestFetchFreshBypassesAndInvalidatesCache(t *testing.T) {
	client := &mockSynergyClient{gradebook: rawGradebook("Chemistry")}
	repo := &memoryCacheRepo{}
	cacheSvc := NewCacheService(repo, nil, time.Minute, nil, true)
	svc := NewGradebookService(client, nil, cacheSvc, nil, nil)

	_, err := svc.Fetch(context.Background(), realCreds(), nil, false)
	require.NoError(t, err)

	_, err = svc.Fetch(context.Background(), realCreds(), nil, true)
	require.NoError(t, err)

	assert.Equal(t, 2, client.gradebookCalls)
	assert.Equal(t, []string{"gradebook:student1:*"}, repo.patterns)
}

func TestFetchStudentInfoFailureIsNonFatal(t *testing.T) {
	client := &mockSynergyClient{
		gradebook:      rawGradebook("Chemistry"),
		studentInfoErr: appErrors.ErrUpstreamUnavailable,
	}
	svc := NewGradebookService(client, nil, nil, nil, nil)

	gradebook, err := svc.Fetch(context.Background(), realCreds(), nil, false)
	require.NoError(t, err)
	assert.Nil(t, gradebook.StudentInfo)
}

func TestFetchUpstreamErrorPropagates(t *testing.T) {
	client := &mockSynergyClient{gradebookErr: appErrors.ErrUpstreamTimeout}
	svc := NewGradebookService(client, nil, nil, nil, nil)

	_, err := svc.Fetch(context.Background(), realCreds(), nil, false)
	assert.ErrorIs(t, err, appErrors.ErrUpstreamTimeout)
}

func TestCacheKeyPerPeriod(t *testing.T) {
	period := 2
	assert.Equal(t, "gradebook:student1:current", cacheKey("student1", nil))
	assert.Equal(t, "gradebook:student1:2", cacheKey("student1", &period))
}
