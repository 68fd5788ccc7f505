package snapshot

import (
	"encoding/json"
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"gradecheck/internal/grade"

	"github.com/stretchr/testify/require"
)

var records = []grade.Record{
	{
		ID:          "A1",
		Name:        "Algebra",
		TeacherName: "Zhang San",
		MarkSystem:  "百分制",
		Credit:      3,
		Score:       92.5,
		Passed:      "通过",
		UploadTime:  "2024-01-15 10:00:00",
	},
	{
		ID:          "B2",
		Name:        "Biology",
		TeacherName: "Li Si",
		MarkSystem:  "二级制",
		Credit:      1,
		Score:       0,
		Passed:      "通过",
		UploadTime:  "2024-01-16 09:30:00",
	},
}

func TestSaveLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "info.json")
	require.False(t, Exists(path))

	_, err := Load(path)
	require.ErrorIs(t, err, ErrNotFound)
	require.ErrorIs(t, err, fs.ErrNotExist)

	require.NoError(t, Save(path, records))
	require.True(t, Exists(path))

	loaded, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, records, loaded)
}

func TestSaveReplaces(t *testing.T) {
	path := filepath.Join(t.TempDir(), "info.json")

	require.NoError(t, Save(path, records))
	require.NoError(t, Save(path, records[:1]))

	loaded, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, records[:1], loaded)
}

func TestSaveCanonicalNames(t *testing.T) {
	path := filepath.Join(t.TempDir(), "info.json")
	require.NoError(t, Save(path, records[:1]))

	contents, err := os.ReadFile(path)
	require.NoError(t, err)

	var raw []map[string]any
	require.NoError(t, json.Unmarshal(contents, &raw))
	require.Len(t, raw, 1)
	for _, key := range []string{"id", "name", "teacher_name", "mark_system", "credit", "score", "passed", "upload_time"} {
		require.Contains(t, raw[0], key)
	}
}

func TestSaveEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "info.json")
	require.NoError(t, Save(path, nil))

	contents, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, "[]", string(contents))

	loaded, err := Load(path)
	require.NoError(t, err)
	require.Empty(t, loaded)
}

func TestLoadMalformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "info.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"not": "a list"}`), 0600))

	_, err := Load(path)
	require.Error(t, err)
	require.NotErrorIs(t, err, ErrNotFound)
}
