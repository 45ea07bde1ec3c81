package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/VWTAlpine/Gradevue2UI-sub000/internal/dto"
	"github.com/VWTAlpine/Gradevue2UI-sub000/internal/models"
)

// SynergyClient is the slice of the upstream client the gradebook service
// depends on.
type SynergyClient interface {
	Gradebook(ctx context.Context, creds models.Credentials, reportPeriod *int) (*dto.Gradebook, error)
	StudentInfo(ctx context.Context, creds models.Credentials) (*dto.StudentInfo, error)
}

// GradebookService fetches and normalises gradebooks. It fronts the
// Synergy client with the parser, the demo short-circuit and an optional
// Redis cache of parsed payloads.
type GradebookService struct {
	client  SynergyClient
	parser  *GradebookParser
	cache   *CacheService
	metrics *MetricsService
	logger  *zap.Logger
}

// NewGradebookService constructs a gradebook service.
func NewGradebookService(client SynergyClient, parser *GradebookParser, cache *CacheService, metrics *MetricsService, logger *zap.Logger) *GradebookService {
	if parser == nil {
		parser = NewGradebookParser(logger)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &GradebookService{client: client, parser: parser, cache: cache, metrics: metrics, logger: logger}
}

// Fetch returns the normalised gradebook for the given credentials and
// optional reporting period index. When fresh is true the cache is
// bypassed (the result is still written back).
func (s *GradebookService) Fetch(ctx context.Context, creds models.Credentials, reportPeriod *int, fresh bool) (*models.Gradebook, error) {
	if creds.IsDemo() {
		return DemoGradebook(), nil
	}

	key := cacheKey(creds.Username, reportPeriod)
	if fresh {
		// An explicit refresh distrusts every cached period, not just the
		// one being fetched.
		if err := s.Invalidate(ctx, creds.Username); err != nil {
			s.logger.Warn("gradebook cache invalidation failed", zap.Error(err))
		}
	} else {
		cached := &models.Gradebook{}
		if hit, err := s.cache.Get(ctx, key, cached); err == nil && hit {
			return cached, nil
		}
	}

	start := time.Now()
	raw, err := s.client.Gradebook(ctx, creds, reportPeriod)
	if s.metrics != nil {
		s.metrics.ObserveUpstreamRequest("Gradebook", err, time.Since(start))
	}
	if err != nil {
		return nil, err
	}

	// Profile data is decoration; a failure here never blocks the grades.
	start = time.Now()
	student, infoErr := s.client.StudentInfo(ctx, creds)
	if s.metrics != nil {
		s.metrics.ObserveUpstreamRequest("StudentInfo", infoErr, time.Since(start))
	}
	if infoErr != nil {
		s.logger.Warn("student info fetch failed", zap.Error(infoErr))
		student = nil
	}

	gradebook := s.parser.Parse(raw, student)
	if err := s.cache.Set(ctx, key, gradebook, 0); err != nil {
		s.logger.Warn("gradebook cache write failed", zap.Error(err))
	}
	return gradebook, nil
}

// Invalidate drops every cached gradebook for a username.
func (s *GradebookService) Invalidate(ctx context.Context, username string) error {
	return s.cache.Invalidate(ctx, fmt.Sprintf("gradebook:%s:*", username))
}

func cacheKey(username string, reportPeriod *int) string {
	if reportPeriod == nil {
		return fmt.Sprintf("gradebook:%s:current", username)
	}
	return fmt.Sprintf("gradebook:%s:%d", username, *reportPeriod)
}
