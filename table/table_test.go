package table

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRejectsBadColumns(t *testing.T) {
	_, err := New(nil)
	assert.Error(t, err)

	_, err = New([]Column{
		{Name: "a", Cells: make([]Cell, 3)},
		{Name: "b", Cells: make([]Cell, 2)},
	})
	assert.Error(t, err, "ragged columns")

	_, err = New([]Column{
		{Name: "a", Cells: make([]Cell, 1)},
		{Name: "a", Cells: make([]Cell, 1)},
	})
	assert.Error(t, err, "duplicate names")
}

func TestCellAccessOutOfRange(t *testing.T) {
	tbl, err := New([]Column{{Name: "v", Kind: KindNumber, Cells: []Cell{{Kind: KindNumber, Num: 1}}}})
	require.NoError(t, err)

	assert.True(t, tbl.Cell(-1, "v").IsNull())
	assert.True(t, tbl.Cell(5, "v").IsNull())
	assert.True(t, tbl.Cell(0, "missing").IsNull())
	assert.Equal(t, 1.0, tbl.Cell(0, "v").Num)
}

func TestCellLabels(t *testing.T) {
	assert.Equal(t, "42", Cell{Kind: KindNumber, Num: 42}.Label())
	assert.Equal(t, "3.14", Cell{Kind: KindNumber, Num: 3.14}.Label())
	assert.Equal(t, "hello", Cell{Kind: KindText, Str: "hello"}.Label())
	assert.Equal(t, "2024-03-01", Cell{Kind: KindDate, Time: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)}.Label())
	assert.Equal(t, "true", Cell{Kind: KindBool, Bool: true}.Label())
	assert.Equal(t, "", Cell{}.Label())
}

func TestNumericColumn(t *testing.T) {
	tbl, err := New([]Column{
		{Name: "v", Kind: KindNumber, Cells: []Cell{
			{Kind: KindNumber, Num: 1},
			{}, // null gap
			{Kind: KindNumber, Num: 3},
		}},
		{Name: "name", Kind: KindText, Cells: []Cell{
			{Kind: KindText, Str: "a"},
			{Kind: KindText, Str: "b"},
			{Kind: KindText, Str: "c"},
		}},
	})
	require.NoError(t, err)

	samples, err := tbl.NumericColumn("v")
	require.NoError(t, err)
	// Nulls are excluded but indices still reference the canonical rows.
	assert.Equal(t, []Sample{{Index: 0, Value: 1}, {Index: 2, Value: 3}}, samples)

	_, err = tbl.NumericColumn("name")
	assert.Error(t, err, "text column is not numeric")
	_, err = tbl.NumericColumn("nope")
	assert.Error(t, err)
}
