package repository

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joseph-ayodele/resume-parser/constants"
	"github.com/joseph-ayodele/resume-parser/internal/common"
	"github.com/joseph-ayodele/resume-parser/internal/resume"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func openTestDB(t *testing.T) *DB {
	t.Helper()
	dsn := "sqlite://" + filepath.Join(t.TempDir(), "records.db")
	db, err := Open(context.Background(), Config{DSN: dsn}, testLogger())
	require.NoError(t, err)
	t.Cleanup(func() { db.Close(testLogger()) })
	return db
}

func fixedClock(t *testing.T) {
	t.Helper()
	base := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	tick := 0
	orig := now
	now = func() time.Time {
		tick++
		return base.Add(time.Duration(tick) * time.Millisecond)
	}
	t.Cleanup(func() { now = orig })
}

func TestOpen_EmptyDSN(t *testing.T) {
	_, err := Open(context.Background(), Config{}, testLogger())
	require.Error(t, err)
	assert.True(t, errors.Is(err, common.ErrInvalidInput))
}

func TestOpen_SQLiteDialectAndHealth(t *testing.T) {
	db := openTestDB(t)
	assert.Equal(t, DialectSQLite, db.Dialect())
	require.NoError(t, HealthCheck(context.Background(), db, time.Second, testLogger()))
}

func TestRebind(t *testing.T) {
	pg := &DB{dialect: DialectPostgres}
	lite := &DB{dialect: DialectSQLite}
	q := "SELECT * FROM t WHERE a = ? AND b = ?"
	assert.Equal(t, "SELECT * FROM t WHERE a = $1 AND b = $2", pg.rebind(q))
	assert.Equal(t, q, lite.rebind(q))
}

func TestDSNClassification(t *testing.T) {
	assert.True(t, isPostgres("postgres://u:p@localhost:5432/db"))
	assert.True(t, isPostgres("postgresql://localhost/db"))
	assert.False(t, isPostgres("sqlite:///tmp/x.db"))
	assert.Equal(t, "/tmp/x.db", sqlitePath("sqlite:///tmp/x.db"))
	assert.Equal(t, "file:x.db?mode=memory", sqlitePath("file:x.db?mode=memory"))
	assert.Equal(t, "x.db", sqlitePath("x.db"))
}

func TestSaveParsed_RoundTrip(t *testing.T) {
	ctx := context.Background()
	repo := NewParseRecordRepository(openTestDB(t), testLogger())

	rec := resume.Record{
		Email:      resume.Found("jane@x.io"),
		Skills:     resume.Found([]string{"python", "sql"}),
		Education:  resume.NotFound[[]string](),
		Experience: resume.Found("Experience at Acme"),
	}
	saved, err := repo.SaveParsed(ctx, SaveParsedRequest{
		SourcePath:  "/cv/jane.pdf",
		ContentHash: "abc123",
		Method:      "pdf-text",
		Record:      rec,
	})
	require.NoError(t, err)
	assert.Equal(t, constants.ParseStatusParsed, saved.Status)

	got, err := repo.GetByID(ctx, saved.ID)
	require.NoError(t, err)
	assert.Equal(t, "/cv/jane.pdf", got.SourcePath)
	assert.Equal(t, "abc123", got.ContentHash)
	assert.Equal(t, "pdf-text", got.Method)
	assert.Nil(t, got.Education)
	assert.Nil(t, got.ErrorMessage)
	assert.True(t, saved.CreatedAt.Equal(got.CreatedAt))
	assert.Equal(t, rec, got.Record())
}

func TestSaveFailure(t *testing.T) {
	ctx := context.Background()
	repo := NewParseRecordRepository(openTestDB(t), testLogger())

	saved, err := repo.SaveFailure(ctx, "/cv/missing.pdf", "", common.ErrNotFound)
	require.NoError(t, err)

	got, err := repo.GetByID(ctx, saved.ID)
	require.NoError(t, err)
	assert.Equal(t, constants.ParseStatusFailed, got.Status)
	require.NotNil(t, got.ErrorMessage)
	assert.Equal(t, common.ErrNotFound.Error(), *got.ErrorMessage)
	assert.Empty(t, got.Method)
	assert.False(t, got.Record().Email.IsFound())
}

func TestGetByID_NotFound(t *testing.T) {
	repo := NewParseRecordRepository(openTestDB(t), testLogger())
	_, err := repo.GetByID(context.Background(), uuid.New())
	require.Error(t, err)
	assert.True(t, errors.Is(err, common.ErrNotFound))
}

func TestListRecentAndLatestByHash(t *testing.T) {
	fixedClock(t)
	ctx := context.Background()
	repo := NewParseRecordRepository(openTestDB(t), testLogger())

	first, err := repo.SaveParsed(ctx, SaveParsedRequest{SourcePath: "a.txt", ContentHash: "h1", Method: "plain-text"})
	require.NoError(t, err)
	_, err = repo.SaveParsed(ctx, SaveParsedRequest{SourcePath: "b.txt", ContentHash: "h2", Method: "plain-text"})
	require.NoError(t, err)
	third, err := repo.SaveParsed(ctx, SaveParsedRequest{SourcePath: "a-copy.txt", ContentHash: "h1", Method: "plain-text"})
	require.NoError(t, err)

	recent, err := repo.ListRecent(ctx, 2)
	require.NoError(t, err)
	require.Len(t, recent, 2)
	assert.Equal(t, "a-copy.txt", recent[0].SourcePath)
	assert.Equal(t, "b.txt", recent[1].SourcePath)

	latest, err := repo.GetLatestByHash(ctx, "h1")
	require.NoError(t, err)
	assert.Equal(t, third.ID, latest.ID)
	assert.NotEqual(t, first.ID, latest.ID)

	_, err = repo.GetLatestByHash(ctx, "nope")
	assert.True(t, errors.Is(err, common.ErrNotFound))
}

func TestEnumValidator(t *testing.T) {
	assert.NoError(t, validStatus("PARSED"))
	assert.NoError(t, validStatus("FAILED"))
	assert.True(t, errors.Is(validStatus("RUNNING"), common.ErrInvalidInput))
}
