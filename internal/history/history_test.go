package history

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"gradecheck/internal/components/chrono"
	"gradecheck/internal/components/telemetry"
	"gradecheck/internal/grade"

	"github.com/stretchr/testify/require"

	_ "modernc.org/sqlite"
)

var (
	algebra = grade.Record{ID: "A1", Name: "Algebra", TeacherName: "Zhang San", MarkSystem: "百分制", Credit: 3, Score: 92, Passed: "通过", UploadTime: "2024-01-15 10:00:00"}
	biology = grade.Record{ID: "B2", Name: "Biology", TeacherName: "Li Si", MarkSystem: "百分制", Credit: 1.5, Score: 85.5, Passed: "通过", UploadTime: "2024-01-16 09:30:00"}
)

type steppedTime struct {
	now time.Time
}

func (s *steppedTime) Now() time.Time {
	now := s.now
	s.now = s.now.Add(time.Hour)
	return now.In(chrono.Shanghai())
}

func openMemory(t testing.TB, clock chrono.TimeAPI) Store {
	database, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	database.SetMaxOpenConns(1)

	store, err := NewStore(context.Background(), database, clock, telemetry.NewTestAPI())
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestRecordRun(t *testing.T) {
	start := time.Date(2024, 1, 15, 12, 0, 0, 0, chrono.Shanghai())
	store := openMemory(t, &steppedTime{now: start})
	ctx := context.Background()

	require.NoError(t, store.RecordRun(ctx, true, 1, []grade.Record{algebra}))
	require.NoError(t, store.RecordRun(ctx, false, 2, []grade.Record{biology}))
	require.NoError(t, store.RecordRun(ctx, false, 2, nil))

	runs, err := store.Runs(ctx, 10)
	require.NoError(t, err)
	require.Len(t, runs, 3)

	require.Empty(t, runs[0].New)
	require.False(t, runs[0].FirstRun)

	require.Equal(t, []grade.Record{biology}, runs[1].New)
	require.Equal(t, 2, runs[1].Fetched)
	require.True(t, runs[1].StartedAt.Equal(start.Add(time.Hour)))

	require.Equal(t, []grade.Record{algebra}, runs[2].New)
	require.True(t, runs[2].FirstRun)
	require.True(t, runs[2].StartedAt.Equal(start))

	limited, err := store.Runs(ctx, 1)
	require.NoError(t, err)
	require.Len(t, limited, 1)
	require.Equal(t, runs[0].ID, limited[0].ID)
}

func TestOpenFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.db")
	config := Config{File: path}
	require.True(t, config.Enabled())

	clock := chrono.FixedTime(time.Date(2024, 1, 15, 12, 0, 0, 0, time.UTC))
	ctx := context.Background()

	store, err := Open(ctx, config, clock, telemetry.NewTestAPI())
	require.NoError(t, err)
	require.NoError(t, store.RecordRun(ctx, true, 2, []grade.Record{algebra, biology}))
	require.NoError(t, store.Close())

	// reopening must not fail on the existing schema
	store, err = Open(ctx, config, clock, telemetry.NewTestAPI())
	require.NoError(t, err)
	defer store.Close()

	runs, err := store.Runs(ctx, 10)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	require.Equal(t, []grade.Record{algebra, biology}, runs[0].New)
}

func TestConfigDisabled(t *testing.T) {
	require.False(t, Config{}.Enabled())
	_, err := Config{}.OpenDB()
	require.Error(t, err)
}
