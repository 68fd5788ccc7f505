package grade

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func record(id, name string, score float64) Record {
	return Record{ID: id, Name: name, Score: score}
}

func TestDiff(t *testing.T) {
	table := []struct {
		name     string
		old      []Record
		new      []Record
		expected []Record
	}{
		{
			name:     "disjoint ids keep new order",
			old:      []Record{record("A1", "Algebra", 90), record("C3", "Chemistry", 80)},
			new:      []Record{record("D4", "Drawing", 70), record("B2", "Biology", 60), record("E5", "English", 50)},
			expected: []Record{record("D4", "Drawing", 70), record("B2", "Biology", 60), record("E5", "English", 50)},
		},
		{
			name:     "new is a subset of old",
			old:      []Record{record("A1", "Algebra", 90), record("B2", "Biology", 60)},
			new:      []Record{record("B2", "Biology", 60)},
			expected: []Record{},
		},
		{
			name:     "only ids are compared",
			old:      []Record{record("A1", "Algebra", 90)},
			new:      []Record{record("A1", "Algebra (renamed)", 55)},
			expected: []Record{},
		},
		{
			name:     "empty old",
			old:      nil,
			new:      []Record{record("A1", "Algebra", 90)},
			expected: []Record{record("A1", "Algebra", 90)},
		},
		{
			name:     "empty new",
			old:      []Record{record("A1", "Algebra", 90)},
			new:      nil,
			expected: []Record{},
		},
		{
			name:     "algebra and biology",
			old:      []Record{record("A1", "Algebra", 90)},
			new:      []Record{record("A1", "Algebra", 90), record("B2", "Biology", 60)},
			expected: []Record{record("B2", "Biology", 60)},
		},
	}

	for _, test := range table {
		t.Run(test.name, func(t *testing.T) {
			require.Equal(t, test.expected, Diff(test.old, test.new))
		})
	}
}

func TestNames(t *testing.T) {
	require.Equal(t, []string{"Algebra", "Biology"}, Names([]Record{
		record("A1", "Algebra", 0),
		record("B2", "Biology", 0),
	}))
	require.Equal(t, []string{}, Names(nil))
}
