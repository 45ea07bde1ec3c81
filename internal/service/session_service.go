package service

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/VWTAlpine/Gradevue2UI-sub000/internal/models"
	appErrors "github.com/VWTAlpine/Gradevue2UI-sub000/pkg/errors"
)

// GradebookFetcher yields normalised gradebooks for a set of credentials.
type GradebookFetcher interface {
	Fetch(ctx context.Context, creds models.Credentials, reportPeriod *int, fresh bool) (*models.Gradebook, error)
}

// GradeSession holds the live state for one authenticated student: the
// current gradebook, the what-if overrides, and the grade change history.
// All mutations go through the session mutex; upstream fetches run outside
// the lock so a slow district never blocks reads.
type GradeSession struct {
	mu sync.Mutex

	creds        models.Credentials
	fetcher      GradebookFetcher
	engine       *HypotheticalEngine
	detector     *ChangeDetector
	logger       *zap.Logger
	newID        func() string
	gradebook    *models.Gradebook
	lastUpdated  time.Time
	reportPeriod *int
	refreshing   bool

	hypothetical bool
	overrides    map[string]*models.CourseOverrides

	changes *changeRing
}

// NewGradeSession constructs a session for the given credentials. The
// session is not logged in until Login succeeds.
func NewGradeSession(creds models.Credentials, fetcher GradebookFetcher, engine *HypotheticalEngine, detector *ChangeDetector, logger *zap.Logger) *GradeSession {
	if engine == nil {
		engine = NewHypotheticalEngine(logger)
	}
	if detector == nil {
		detector = NewChangeDetector()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &GradeSession{
		creds:     creds,
		fetcher:   fetcher,
		engine:    engine,
		detector:  detector,
		logger:    logger,
		newID:     uuid.NewString,
		overrides: make(map[string]*models.CourseOverrides),
		changes:   newChangeRing(maxGradeChanges),
	}
}

// Username returns the session's student username.
func (s *GradeSession) Username() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.creds.Username
}

// Credentials returns a copy of the session's credentials.
func (s *GradeSession) Credentials() models.Credentials {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.creds
}

// RestoreSnapshot seeds the session with persisted state so the first
// fetch can diff against the last-known gradebook. It is a no-op once a
// gradebook is already installed.
func (s *GradeSession) RestoreSnapshot(snapshot *models.Snapshot) {
	if snapshot == nil || snapshot.Gradebook == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.gradebook != nil {
		return
	}
	s.gradebook = snapshot.Gradebook
	s.lastUpdated = snapshot.LastUpdated
}

// Login performs the initial fetch and installs the gradebook. A failure
// leaves the session untouched.
func (s *GradeSession) Login(ctx context.Context) (models.SessionView, error) {
	s.mu.Lock()
	creds := s.creds
	period := s.reportPeriod
	s.mu.Unlock()

	gradebook, err := s.fetcher.Fetch(ctx, creds, period, false)
	if err != nil {
		return models.SessionView{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.install(gradebook)
	return s.viewLocked(), nil
}

// Refresh re-fetches the gradebook, bypassing the cache, and records any
// grade changes. Refresh on a demo session or an already-running refresh
// is a silent no-op; a failed fetch preserves the existing gradebook.
func (s *GradeSession) Refresh(ctx context.Context) error {
	s.mu.Lock()
	if s.gradebook == nil {
		s.mu.Unlock()
		return appErrors.ErrNoSession
	}
	if s.creds.IsDemo() || s.refreshing {
		s.mu.Unlock()
		return nil
	}
	s.refreshing = true
	creds := s.creds
	period := s.reportPeriod
	s.mu.Unlock()

	gradebook, err := s.fetcher.Fetch(ctx, creds, period, true)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.refreshing = false
	if err != nil {
		s.logger.Warn("gradebook refresh failed",
			zap.String("username", creds.Username), zap.Error(err))
		return err
	}
	s.install(gradebook)
	return nil
}

// SelectReportingPeriod switches the session to another grading term and
// re-fetches. A nil index selects the district's current period.
func (s *GradeSession) SelectReportingPeriod(ctx context.Context, index *int) (models.SessionView, error) {
	s.mu.Lock()
	if s.gradebook == nil {
		s.mu.Unlock()
		return models.SessionView{}, appErrors.ErrNoSession
	}
	creds := s.creds
	s.mu.Unlock()

	gradebook, err := s.fetcher.Fetch(ctx, creds, index, false)
	if err != nil {
		return models.SessionView{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.reportPeriod = index
	// Term switches replace the dataset wholesale, so diffing against the
	// old term would report phantom changes.
	s.gradebook = gradebook
	s.lastUpdated = time.Now().UTC()
	s.overrides = make(map[string]*models.CourseOverrides)
	return s.viewLocked(), nil
}

// install replaces the gradebook, diffing against the previous one first.
func (s *GradeSession) install(next *models.Gradebook) {
	if batch := s.detector.Diff(s.gradebook, next); len(batch) > 0 {
		s.changes.Prepend(batch)
		s.logger.Info("grade changes detected",
			zap.String("username", s.creds.Username), zap.Int("count", len(batch)))
	}
	if next.StudentInfo == nil && s.gradebook != nil {
		next.StudentInfo = s.gradebook.StudentInfo
	}
	s.gradebook = next
	s.lastUpdated = time.Now().UTC()
}

// Logout clears the gradebook, credentials and overrides. Change history
// survives so a later login can still show it.
func (s *GradeSession) Logout() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.gradebook = nil
	s.creds = models.Credentials{}
	s.lastUpdated = time.Time{}
	s.reportPeriod = nil
	s.hypothetical = false
	s.overrides = make(map[string]*models.CourseOverrides)
}

// SetHypotheticalMode toggles what-if mode. Turning the mode off discards
// every override so re-enabling starts from the real gradebook.
func (s *GradeSession) SetHypotheticalMode(enabled bool) models.SessionView {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.hypothetical = enabled
	if !enabled {
		s.overrides = make(map[string]*models.CourseOverrides)
	}
	return s.viewLocked()
}

// UpdateAssignmentScore upserts a score override for an existing
// assignment, addressed by its index in the base course.
func (s *GradeSession) UpdateAssignmentScore(courseID string, assignmentIndex int, override models.ScoreOverride) (models.SessionView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.gradebook == nil {
		return models.SessionView{}, appErrors.ErrNoSession
	}
	if s.gradebook.CourseByID(courseID) == nil {
		return models.SessionView{}, appErrors.Clone(appErrors.ErrNotFound, "unknown course id")
	}

	entry := s.overrides[courseID]
	if entry == nil {
		entry = &models.CourseOverrides{}
		s.overrides[courseID] = entry
	}
	if entry.ModifiedAssignments == nil {
		entry.ModifiedAssignments = make(map[int]models.ScoreOverride)
	}
	entry.ModifiedAssignments[assignmentIndex] = override
	return s.viewLocked(), nil
}

// AddHypotheticalAssignment appends a synthetic assignment to a course and
// returns it with its assigned id.
func (s *GradeSession) AddHypotheticalAssignment(courseID string, assignment models.HypotheticalAssignment) (models.HypotheticalAssignment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.gradebook == nil {
		return models.HypotheticalAssignment{}, appErrors.ErrNoSession
	}
	if s.gradebook.CourseByID(courseID) == nil {
		return models.HypotheticalAssignment{}, appErrors.Clone(appErrors.ErrNotFound, "unknown course id")
	}

	if assignment.ID == "" {
		assignment.ID = s.newID()
	}
	entry := s.overrides[courseID]
	if entry == nil {
		entry = &models.CourseOverrides{}
		s.overrides[courseID] = entry
	}
	entry.AddedAssignments = append(entry.AddedAssignments, assignment)
	return assignment, nil
}

// RemoveHypotheticalAssignment deletes a previously added assignment by id.
func (s *GradeSession) RemoveHypotheticalAssignment(courseID, assignmentID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.gradebook == nil {
		return appErrors.ErrNoSession
	}

	entry := s.overrides[courseID]
	if entry == nil {
		return appErrors.Clone(appErrors.ErrNotFound, "unknown hypothetical assignment")
	}
	for i, added := range entry.AddedAssignments {
		if added.ID == assignmentID {
			entry.AddedAssignments = append(entry.AddedAssignments[:i], entry.AddedAssignments[i+1:]...)
			if entry.Empty() {
				delete(s.overrides, courseID)
			}
			return nil
		}
	}
	return appErrors.Clone(appErrors.ErrNotFound, "unknown hypothetical assignment")
}

// Changes returns the retained grade change history, newest first.
func (s *GradeSession) Changes() []models.GradeChange {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.changes.List()
}

// ClearChanges empties the change history.
func (s *GradeSession) ClearChanges() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.changes.Clear()
}

// View returns the current session state. In what-if mode the gradebook is
// the derived hypothetical; the base gradebook is never mutated.
func (s *GradeSession) View() models.SessionView {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.viewLocked()
}

func (s *GradeSession) viewLocked() models.SessionView {
	view := models.SessionView{
		IsLoggedIn:       s.gradebook != nil,
		HypotheticalMode: s.hypothetical,
	}
	if !s.lastUpdated.IsZero() {
		updated := s.lastUpdated
		view.LastUpdated = &updated
	}
	if s.gradebook == nil {
		return view
	}
	if s.hypothetical {
		view.Gradebook = s.engine.Apply(s.gradebook, s.overrides)
	} else {
		view.Gradebook = s.gradebook
	}
	return view
}

// Snapshot captures the persistable state, or nil when nothing is loaded.
func (s *GradeSession) Snapshot() *models.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.gradebook == nil {
		return nil
	}
	return &models.Snapshot{
		Username:    s.creds.Username,
		Gradebook:   s.gradebook,
		LastUpdated: s.lastUpdated,
	}
}
