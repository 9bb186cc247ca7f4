package dataset

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFromRowsSortsColumns(t *testing.T) {
	ds := FromRows([]Row{{"v": 1.0, "g": "A"}})
	assert.Equal(t, []string{"g", "v"}, ds.Columns)
	assert.Equal(t, 1, ds.RowCount())
	assert.Equal(t, 2, ds.ColumnCount())
}

func TestIsMissing(t *testing.T) {
	tests := []struct {
		name  string
		value any
		want  bool
	}{
		{"nil", nil, true},
		{"empty string", "", true},
		{"whitespace", "   ", true},
		{"zero", 0.0, false},
		{"text", "x", false},
		{"false", false, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsMissing(tt.value))
		})
	}
}

func TestDuplicateRows(t *testing.T) {
	ds := New([]string{"a", "b"}, []Row{
		{"a": 1.0, "b": "x"},
		{"a": 1.0, "b": "x"},
		{"a": 2.0, "b": "x"},
		{"a": 1.0, "b": "x"},
	})
	assert.Equal(t, 2, ds.DuplicateRows())
}

func TestSubsetKeepsColumnOrder(t *testing.T) {
	ds := New([]string{"b", "a"}, []Row{{"a": 1.0}, {"a": 2.0}, {"a": 3.0}})
	sub := ds.Subset([]int{0, 2})
	assert.Equal(t, []string{"b", "a"}, sub.Columns)
	assert.Equal(t, 3.0, sub.Cell(1, "a"))
}

func TestFingerprintTreatsBlankAsMissing(t *testing.T) {
	a := New([]string{"x"}, []Row{{"x": ""}})
	b := New([]string{"x"}, []Row{{"x": nil}})
	assert.Equal(t, a.Fingerprint(), b.Fingerprint())
}
