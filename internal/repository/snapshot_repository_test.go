package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"

	"github.com/VWTAlpine/Gradevue2UI-sub000/internal/models"
)

func newSnapshotRepoMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func sampleGradebookJSON(t *testing.T) []byte {
	t.Helper()
	grade := 91.25
	payload, err := json.Marshal(&models.Gradebook{
		Courses: []*models.Course{
			{ID: "course-0", Name: "AP Calculus BC", Grade: &grade, LetterGrade: "A-"},
		},
	})
	require.NoError(t, err)
	return payload
}

func TestSnapshotRepositoryFind(t *testing.T) {
	db, mock, cleanup := newSnapshotRepoMock(t)
	defer cleanup()

	repo := NewSnapshotRepository(db, nil)
	updated := time.Date(2026, time.March, 1, 8, 0, 0, 0, time.UTC)

	rows := sqlmock.NewRows([]string{"username", "gradebook", "last_updated", "credentials"}).
		AddRow("student1", sampleGradebookJSON(t), updated, "sealed-blob")
	mock.ExpectQuery(regexp.QuoteMeta("SELECT username, gradebook, last_updated, credentials")).
		WithArgs("student1").
		WillReturnRows(rows)

	snapshot, err := repo.Find(context.Background(), "student1")
	require.NoError(t, err)
	require.Equal(t, "student1", snapshot.Username)
	require.Equal(t, "sealed-blob", snapshot.SealedCredentials)
	require.Equal(t, updated, snapshot.LastUpdated)
	require.Len(t, snapshot.Gradebook.Courses, 1)
	require.Equal(t, "A-", snapshot.Gradebook.Courses[0].LetterGrade)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSnapshotRepositoryFindMissing(t *testing.T) {
	db, mock, cleanup := newSnapshotRepoMock(t)
	defer cleanup()

	repo := NewSnapshotRepository(db, nil)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT username, gradebook, last_updated, credentials")).
		WithArgs("nobody").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.Find(context.Background(), "nobody")
	require.ErrorIs(t, err, sql.ErrNoRows)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSnapshotRepositoryFindCorruptGradebook(t *testing.T) {
	db, mock, cleanup := newSnapshotRepoMock(t)
	defer cleanup()

	repo := NewSnapshotRepository(db, nil)
	rows := sqlmock.NewRows([]string{"username", "gradebook", "last_updated", "credentials"}).
		AddRow("student1", []byte("{not json"), time.Now(), nil)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT username, gradebook, last_updated, credentials")).
		WithArgs("student1").
		WillReturnRows(rows)

	// A corrupt stored blob reads as absent rather than an error.
	_, err := repo.Find(context.Background(), "student1")
	require.ErrorIs(t, err, sql.ErrNoRows)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSnapshotRepositoryUpsert(t *testing.T) {
	db, mock, cleanup := newSnapshotRepoMock(t)
	defer cleanup()

	repo := NewSnapshotRepository(db, nil)
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO gradebook_snapshots")).
		WillReturnResult(sqlmock.NewResult(0, 1))

	grade := 78.5
	err := repo.Upsert(context.Background(), &models.Snapshot{
		Username: "student1",
		Gradebook: &models.Gradebook{
			Courses: []*models.Course{{ID: "course-0", Grade: &grade, LetterGrade: "C+"}},
		},
		LastUpdated:       time.Now(),
		SealedCredentials: "sealed-blob",
	})
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSnapshotRepositoryDelete(t *testing.T) {
	db, mock, cleanup := newSnapshotRepoMock(t)
	defer cleanup()

	repo := NewSnapshotRepository(db, nil)
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM gradebook_snapshots")).
		WithArgs("student1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Delete(context.Background(), "student1"))
	require.NoError(t, mock.ExpectationsWereMet())
}
