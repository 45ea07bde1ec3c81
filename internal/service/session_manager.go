package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/VWTAlpine/Gradevue2UI-sub000/internal/models"
	"github.com/VWTAlpine/Gradevue2UI-sub000/pkg/config"
	appErrors "github.com/VWTAlpine/Gradevue2UI-sub000/pkg/errors"
	"github.com/VWTAlpine/Gradevue2UI-sub000/pkg/secrets"
)

// SnapshotStore persists the last-known gradebook per student.
type SnapshotStore interface {
	Find(ctx context.Context, username string) (*models.Snapshot, error)
	Upsert(ctx context.Context, snapshot *models.Snapshot) error
	Delete(ctx context.Context, username string) error
}

// SessionManager owns the live sessions, mints and validates access
// tokens, and bridges sessions to the snapshot store. The snapshot store
// and the credential sealer are both optional; without them sessions are
// purely in-memory and do not survive a restart.
type SessionManager struct {
	mu       sync.RWMutex
	sessions map[string]*GradeSession

	fetcher   GradebookFetcher
	engine    *HypotheticalEngine
	detector  *ChangeDetector
	snapshots SnapshotStore
	sealer    *secrets.Sealer
	validator *validator.Validate
	jwtCfg    config.JWTConfig
	logger    *zap.Logger
	now       func() time.Time
}

// NewSessionManager constructs a session manager.
func NewSessionManager(fetcher GradebookFetcher, engine *HypotheticalEngine, detector *ChangeDetector, snapshots SnapshotStore, sealer *secrets.Sealer, validate *validator.Validate, jwtCfg config.JWTConfig, logger *zap.Logger) *SessionManager {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SessionManager{
		sessions:  make(map[string]*GradeSession),
		fetcher:   fetcher,
		engine:    engine,
		detector:  detector,
		snapshots: snapshots,
		sealer:    sealer,
		validator: validate,
		jwtCfg:    jwtCfg,
		logger:    logger,
		now:       time.Now,
	}
}

// Login authenticates against the district, registers a session and
// returns an access token. The snapshot from a previous run, when
// available, seeds the change diff before the first fetch.
func (m *SessionManager) Login(ctx context.Context, creds models.Credentials) (*models.LoginResponse, error) {
	if err := m.validator.Struct(creds); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid credentials payload")
	}
	if !creds.IsDemo() && creds.DistrictURL == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "district_url is required")
	}

	session := NewGradeSession(creds, m.fetcher, m.engine, m.detector, m.logger)
	if prior := m.loadSnapshot(ctx, creds.Username); prior != nil {
		session.RestoreSnapshot(prior)
	}

	view, err := session.Login(ctx)
	if err != nil {
		return nil, err
	}

	sessionID := uuid.NewString()
	m.mu.Lock()
	m.sessions[sessionID] = session
	m.mu.Unlock()

	m.persist(ctx, session)

	token, issuedAt, err := m.generateToken(sessionID, creds.Username)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to sign access token")
	}

	m.logger.Info("session started",
		zap.String("session_id", sessionID),
		zap.String("username", creds.Username),
		zap.Bool("demo", creds.IsDemo()))

	return &models.LoginResponse{
		AccessToken: token,
		ExpiresIn:   int64(m.jwtCfg.Expiration.Seconds()),
		IssuedAt:    issuedAt,
		Session:     view,
	}, nil
}

// Logout tears down the session and removes its persisted snapshot.
func (m *SessionManager) Logout(ctx context.Context, sessionID string) error {
	m.mu.Lock()
	session, ok := m.sessions[sessionID]
	delete(m.sessions, sessionID)
	m.mu.Unlock()
	if !ok {
		return appErrors.ErrNoSession
	}

	username := session.Username()
	session.Logout()

	if m.snapshots != nil && username != models.DemoUsername {
		if err := m.snapshots.Delete(ctx, username); err != nil {
			m.logger.Warn("failed to delete persisted snapshot",
				zap.String("username", username), zap.Error(err))
		}
	}
	m.logger.Info("session ended", zap.String("session_id", sessionID))
	return nil
}

// Resolve returns the live session for a token's claims. After a restart
// the session map is empty; when sealed credentials were persisted the
// session is rebuilt transparently under the same id.
func (m *SessionManager) Resolve(ctx context.Context, claims *models.JWTClaims) (*GradeSession, error) {
	m.mu.RLock()
	session, ok := m.sessions[claims.SessionID]
	m.mu.RUnlock()
	if ok {
		return session, nil
	}

	session, err := m.rebuild(ctx, claims)
	if err != nil {
		return nil, err
	}
	return session, nil
}

func (m *SessionManager) rebuild(ctx context.Context, claims *models.JWTClaims) (*GradeSession, error) {
	if m.snapshots == nil || m.sealer == nil {
		return nil, appErrors.ErrNoSession
	}

	snapshot := m.loadSnapshot(ctx, claims.Username)
	if snapshot == nil || snapshot.SealedCredentials == "" {
		return nil, appErrors.ErrNoSession
	}

	plaintext, err := m.sealer.Open(snapshot.SealedCredentials)
	if err != nil {
		m.logger.Warn("failed to unseal persisted credentials",
			zap.String("username", claims.Username), zap.Error(err))
		return nil, appErrors.ErrNoSession
	}
	var creds models.Credentials
	if err := json.Unmarshal(plaintext, &creds); err != nil {
		return nil, appErrors.ErrNoSession
	}

	session := NewGradeSession(creds, m.fetcher, m.engine, m.detector, m.logger)
	session.RestoreSnapshot(snapshot)

	m.mu.Lock()
	// Another request may have raced the rebuild; keep the winner.
	if existing, ok := m.sessions[claims.SessionID]; ok {
		m.mu.Unlock()
		return existing, nil
	}
	m.sessions[claims.SessionID] = session
	m.mu.Unlock()

	m.logger.Info("session rebuilt from snapshot",
		zap.String("session_id", claims.SessionID),
		zap.String("username", claims.Username))
	return session, nil
}

// Refresh triggers an upstream refresh for one session and persists the
// result.
func (m *SessionManager) Refresh(ctx context.Context, sessionID string) error {
	m.mu.RLock()
	session, ok := m.sessions[sessionID]
	m.mu.RUnlock()
	if !ok {
		return appErrors.ErrNoSession
	}
	if err := session.Refresh(ctx); err != nil {
		return err
	}
	m.persist(ctx, session)
	return nil
}

// SessionIDs lists the ids of all live sessions.
func (m *SessionManager) SessionIDs() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	ids := make([]string, 0, len(m.sessions))
	for id := range m.sessions {
		ids = append(ids, id)
	}
	return ids
}

// Persist writes the session's snapshot to the store.
func (m *SessionManager) Persist(ctx context.Context, session *GradeSession) {
	m.persist(ctx, session)
}

func (m *SessionManager) persist(ctx context.Context, session *GradeSession) {
	if m.snapshots == nil || session == nil {
		return
	}
	snapshot := session.Snapshot()
	if snapshot == nil || snapshot.Username == models.DemoUsername {
		return
	}

	if m.sealer != nil {
		payload, err := json.Marshal(session.Credentials())
		if err == nil {
			sealed, sealErr := m.sealer.Seal(payload)
			if sealErr != nil {
				m.logger.Warn("failed to seal credentials", zap.Error(sealErr))
			} else {
				snapshot.SealedCredentials = sealed
			}
		}
	}

	if err := m.snapshots.Upsert(ctx, snapshot); err != nil {
		m.logger.Warn("failed to persist gradebook snapshot",
			zap.String("username", snapshot.Username), zap.Error(err))
	}
}

func (m *SessionManager) loadSnapshot(ctx context.Context, username string) *models.Snapshot {
	if m.snapshots == nil || username == models.DemoUsername {
		return nil
	}
	snapshot, err := m.snapshots.Find(ctx, username)
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			m.logger.Warn("failed to load persisted snapshot",
				zap.String("username", username), zap.Error(err))
		}
		return nil
	}
	return snapshot
}

func (m *SessionManager) generateToken(sessionID, username string) (string, time.Time, error) {
	issuedAt := m.now().UTC()
	claims := models.JWTClaims{
		SessionID: sessionID,
		Username:  username,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    m.jwtCfg.Issuer,
			Subject:   username,
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			NotBefore: jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(issuedAt.Add(m.jwtCfg.Expiration)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(m.jwtCfg.Secret))
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, issuedAt, nil
}

// ValidateToken parses and verifies an access token, returning its claims.
func (m *SessionManager) ValidateToken(tokenString string) (*models.JWTClaims, error) {
	claims := &models.JWTClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return []byte(m.jwtCfg.Secret), nil
	})
	if err != nil || !token.Valid {
		return nil, appErrors.Clone(appErrors.ErrUnauthorized, "invalid or expired token")
	}
	return claims, nil
}
