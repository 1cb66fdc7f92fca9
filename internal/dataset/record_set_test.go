package dataset

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		columns []string
		rows    []Row
		wantErr string
	}{
		{
			name:    "valid",
			columns: []string{"age", "class"},
			rows:    []Row{{"age": "30", "class": "good"}},
		},
		{
			name:    "no columns",
			columns: nil,
			wantErr: "no columns",
		},
		{
			name:    "duplicate column",
			columns: []string{"age", "age"},
			wantErr: "duplicate column",
		},
		{
			name:    "missing cell",
			columns: []string{"age", "class"},
			rows:    []Row{{"age": "30"}},
			wantErr: `row 1 has no value for "class"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rs, err := New(tt.columns, tt.rows)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrMalformed)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, len(tt.rows), rs.Len())
		})
	}
}

func TestRecordSetAccessors(t *testing.T) {
	rs, err := FromRecords(
		[]string{"age", "housing", "class"},
		[][]string{
			{"30", "own", "good"},
			{" 45 ", "rent", "bad"},
		},
	)
	require.NoError(t, err)

	assert.Equal(t, []string{"age", "housing", "class"}, rs.Columns())
	assert.Equal(t, []string{"own", "rent"}, rs.Column("housing"))
	assert.Nil(t, rs.Column("missing"))
	assert.Equal(t, []string{"good", "bad"}, rs.Labels())
	assert.Equal(t, "45", rs.Value(1, "age"))

	ages, err := rs.Float("age")
	require.NoError(t, err)
	assert.Equal(t, []float64{30, 45}, ages)

	_, err = rs.Float("housing")
	assert.ErrorIs(t, err, ErrMalformed)

	row := rs.Row(0)
	row["housing"] = "changed"
	assert.Equal(t, "own", rs.Value(0, "housing"), "Row must return a copy")

	sub := rs.Subset([]int{1})
	assert.Equal(t, 1, sub.Len())
	assert.Equal(t, "rent", sub.Value(0, "housing"))
	assert.Equal(t, [][]string{{"45", "rent", "bad"}}, sub.Records())
}

func TestFromRecordsFieldCount(t *testing.T) {
	_, err := FromRecords([]string{"a", "b"}, [][]string{{"1"}})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMalformed)
}

func TestContentHash(t *testing.T) {
	header := []string{"age", "class"}
	a, err := FromRecords(header, [][]string{{"30", "good"}, {"40", "bad"}})
	require.NoError(t, err)
	b, err := FromRecords(header, [][]string{{"30", "good"}, {"40", "bad"}})
	require.NoError(t, err)
	c, err := FromRecords(header, [][]string{{"30", "good"}, {"40", "good"}})
	require.NoError(t, err)
	d, err := FromRecords(header, [][]string{{"40", "bad"}, {"30", "good"}})
	require.NoError(t, err)

	assert.Equal(t, a.Hash(), b.Hash())
	assert.Equal(t, a.Key(), b.Key())
	assert.Len(t, a.Key(), 16)
	assert.NotEqual(t, a.Hash(), c.Hash(), "cell change must change the hash")
	assert.NotEqual(t, a.Hash(), d.Hash(), "row order is part of the content")
}
