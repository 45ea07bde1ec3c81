package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/VWTAlpine/Gradevue2UI-sub000/internal/models"
)

// SnapshotRepository persists the last-known gradebook per student so a
// fresh login can diff against it and surface grade changes across
// process restarts.
type SnapshotRepository struct {
	db     *sqlx.DB
	logger *zap.Logger
}

// NewSnapshotRepository constructs a snapshot repository.
func NewSnapshotRepository(db *sqlx.DB, logger *zap.Logger) *SnapshotRepository {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SnapshotRepository{db: db, logger: logger}
}

type snapshotRow struct {
	Username    string         `db:"username"`
	Gradebook   []byte         `db:"gradebook"`
	LastUpdated time.Time      `db:"last_updated"`
	Credentials sql.NullString `db:"credentials"`
}

// Find loads the snapshot for a username. A missing row returns
// sql.ErrNoRows; a row whose stored gradebook no longer unmarshals is
// treated as absent rather than an error, so a corrupt blob can never
// lock a student out.
func (r *SnapshotRepository) Find(ctx context.Context, username string) (*models.Snapshot, error) {
	var row snapshotRow
	err := r.db.GetContext(ctx, &row,
		`SELECT username, gradebook, last_updated, credentials
		   FROM gradebook_snapshots WHERE username = $1`, username)
	if err != nil {
		return nil, err
	}

	snapshot := &models.Snapshot{Username: row.Username, LastUpdated: row.LastUpdated}
	if row.Credentials.Valid {
		snapshot.SealedCredentials = row.Credentials.String
	}

	gradebook := &models.Gradebook{}
	if err := json.Unmarshal(row.Gradebook, gradebook); err != nil {
		r.logger.Warn("discarding malformed persisted gradebook",
			zap.String("username", username), zap.Error(err))
		return nil, sql.ErrNoRows
	}
	snapshot.Gradebook = gradebook
	return snapshot, nil
}

// Upsert stores or replaces the snapshot for a username.
func (r *SnapshotRepository) Upsert(ctx context.Context, snapshot *models.Snapshot) error {
	payload, err := json.Marshal(snapshot.Gradebook)
	if err != nil {
		return err
	}

	credentials := sql.NullString{String: snapshot.SealedCredentials, Valid: snapshot.SealedCredentials != ""}
	_, err = r.db.ExecContext(ctx,
		`INSERT INTO gradebook_snapshots (username, gradebook, last_updated, credentials)
		 VALUES ($1, $2, $3, $4)
		 ON CONFLICT (username) DO UPDATE
		   SET gradebook = EXCLUDED.gradebook,
		       last_updated = EXCLUDED.last_updated,
		       credentials = EXCLUDED.credentials`,
		snapshot.Username, payload, snapshot.LastUpdated.UTC(), credentials)
	return err
}

// Delete removes the snapshot for a username.
func (r *SnapshotRepository) Delete(ctx context.Context, username string) error {
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM gradebook_snapshots WHERE username = $1`, username)
	return err
}
