package dataset

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestLoadCSV(t *testing.T) {
	rs, err := Load(filepath.Join("testdata", "credit_sample.csv"))
	require.NoError(t, err)

	assert.Equal(t, 10, rs.Len())
	assert.Len(t, rs.Columns(), 21)
	assert.Equal(t, "<0", rs.Value(0, "checking_status"))
	assert.Equal(t, "critical/other existing credit", rs.Value(0, "credit_history"))

	amounts, err := rs.Float("credit_amount")
	require.NoError(t, err)
	assert.Equal(t, 1169.0, amounts[0])

	labels := rs.Labels()
	assert.Equal(t, LabelGood, labels[0])
	assert.Equal(t, LabelBad, labels[1])
}

func TestLoadXLSX(t *testing.T) {
	src, err := Load(filepath.Join("testdata", "credit_sample.csv"))
	require.NoError(t, err)

	f := excelize.NewFile()
	defer f.Close()
	sheet := f.GetSheetName(0)
	header := make([]interface{}, 0, len(src.Columns()))
	for _, c := range src.Columns() {
		header = append(header, c)
	}
	require.NoError(t, f.SetSheetRow(sheet, "A1", &header))
	for i, rec := range src.Records() {
		row := make([]interface{}, len(rec))
		for j, v := range rec {
			row[j] = v
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow(sheet, cell, &row))
	}
	path := filepath.Join(t.TempDir(), "credit.xlsx")
	require.NoError(t, f.SaveAs(path))

	rs, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, src.Records(), rs.Records())
	assert.Equal(t, src.Key(), rs.Key())
}

func TestLoadErrors(t *testing.T) {
	dir := t.TempDir()
	write := func(name, content string) string {
		path := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
		return path
	}

	sample, err := os.ReadFile(filepath.Join("testdata", "credit_sample.csv"))
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(sample)), "\n")

	tests := []struct {
		name    string
		path    string
		wantErr string
	}{
		{
			name:    "missing file",
			path:    filepath.Join(dir, "absent.csv"),
			wantErr: "open dataset",
		},
		{
			name:    "unsupported extension",
			path:    write("credit.json", "{}"),
			wantErr: "unsupported file type",
		},
		{
			name:    "missing required columns",
			path:    write("narrow.csv", "age,class\n30,good\n"),
			wantErr: "missing required columns",
		},
		{
			name:    "non numeric value",
			path:    write("text.csv", lines[0]+"\n"+strings.Replace(lines[1], ",6,", ",six,", 1)+"\n"),
			wantErr: `"six" is not numeric`,
		},
		{
			name:    "unknown label",
			path:    write("label.csv", lines[0]+"\n"+strings.TrimSuffix(lines[1], "good")+"maybe\n"),
			wantErr: `label "maybe"`,
		},
		{
			name:    "header only",
			path:    write("empty.csv", lines[0]+"\n"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(tt.path)
			require.Error(t, err)
			if tt.name != "missing file" {
				assert.ErrorIs(t, err, ErrMalformed)
			}
			if tt.wantErr != "" {
				assert.Contains(t, err.Error(), tt.wantErr)
			}
		})
	}
}

func TestRequiredColumns(t *testing.T) {
	cols := RequiredColumns()
	assert.Len(t, cols, len(CategoricalColumns)+len(KeyNumericColumns)+1)
	assert.Contains(t, cols, LabelColumn)
	assert.True(t, IsCategorical("foreign_worker"))
	assert.False(t, IsCategorical("age"))
}
