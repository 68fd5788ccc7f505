package commands

import (
	"bytes"
	"errors"
	"testing"

	"gradecheck/internal/grade"
	"gradecheck/internal/history"
	"gradecheck/internal/scrapers/cas"

	"github.com/stretchr/testify/require"
)

func TestMatchCourse(t *testing.T) {
	table := []struct {
		name     string
		query    string
		expected bool
	}{
		{name: "Linear Algebra", query: "", expected: true},
		{name: "Linear Algebra", query: "algebra", expected: true},
		{name: "Biology", query: "Biolgy", expected: true},
		{name: "Biology", query: "Chemistry", expected: false},
		{name: "矩阵分析", query: "矩阵", expected: true},
	}

	for _, row := range table {
		require.Equal(t, row.expected, matchCourse(row.name, row.query), "%s ~ %s", row.name, row.query)
	}
}

func TestFilterCourses(t *testing.T) {
	records := []grade.Record{
		{ID: "A1", Name: "Algebra"},
		{ID: "B2", Name: "Biology"},
	}
	require.Equal(t, []grade.Record{{ID: "B2", Name: "Biology"}}, filterCourses(records, "bio"))
	require.Empty(t, filterCourses(records, "Chemistry"))
	require.Equal(t, records, filterCourses(records, ""))
}

func TestGradeTable(t *testing.T) {
	out := gradeTable([]grade.Record{
		{ID: "A1", Name: "Algebra", TeacherName: "Zhang San", Credit: 3, Score: 92},
	}).Render()
	require.Contains(t, out, "课程名")
	require.Contains(t, out, "Algebra")
	require.Contains(t, out, "Zhang San")
}

func TestHistoryTable(t *testing.T) {
	out := historyTable([]history.Run{
		{ID: 1, FirstRun: true, Fetched: 2, New: []grade.Record{{Name: "Algebra"}, {Name: "Biology"}}},
	}).Render()
	require.Contains(t, out, "Algebra, Biology")
}

func TestPrintLoginFailed(t *testing.T) {
	var out bytes.Buffer
	printLoginFailed(&out, &cas.AuthError{Username: "SA23001", Err: errors.New("boom")})
	require.Contains(t, out.String(), "Login Failed!")
	require.Contains(t, out.String(), "SA23001")
}
