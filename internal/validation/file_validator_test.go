package validation

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"creditrisk/internal/shared/testutil"
)

func TestFileValidator_ValidateDatasetFile(t *testing.T) {
	tests := []struct {
		name          string
		setupFunc     func(t *testing.T) string
		wantErr       bool
		errorContains string
	}{
		{
			name: "csv file",
			setupFunc: func(t *testing.T) string {
				file := filepath.Join(t.TempDir(), "credit.csv")
				require.NoError(t, os.WriteFile(file, []byte("class\ngood\n"), 0644))
				return file
			},
		},
		{
			name: "xlsx file with upper-case extension",
			setupFunc: func(t *testing.T) string {
				file := filepath.Join(t.TempDir(), "credit.XLSX")
				require.NoError(t, os.WriteFile(file, []byte("x"), 0644))
				return file
			},
		},
		{
			name: "missing file",
			setupFunc: func(t *testing.T) string {
				return filepath.Join(t.TempDir(), "missing.csv")
			},
			wantErr:       true,
			errorContains: "does not exist",
		},
		{
			name: "unsupported extension",
			setupFunc: func(t *testing.T) string {
				file := filepath.Join(t.TempDir(), "credit.json")
				require.NoError(t, os.WriteFile(file, []byte("{}"), 0644))
				return file
			},
			wantErr:       true,
			errorContains: "must have extension .csv or .xlsx",
		},
		{
			name: "excel lock file",
			setupFunc: func(t *testing.T) string {
				file := filepath.Join(t.TempDir(), "~$credit.xlsx")
				require.NoError(t, os.WriteFile(file, []byte("x"), 0644))
				return file
			},
			wantErr:       true,
			errorContains: "temporary Excel file",
		},
		{
			name: "directory with csv suffix",
			setupFunc: func(t *testing.T) string {
				dir := filepath.Join(t.TempDir(), "data.csv")
				require.NoError(t, os.Mkdir(dir, 0755))
				return dir
			},
			wantErr:       true,
			errorContains: "is a directory",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, _ := testutil.NewTestLogger(t)
			v := NewFileValidator(logger)

			err := v.ValidateDatasetFile(tt.setupFunc(t))
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errorContains)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestFileValidator_ValidateOutputFile(t *testing.T) {
	logger, handler := testutil.NewTestLogger(t)
	v := NewFileValidator(logger)
	dir := t.TempDir()

	t.Run("creates missing directory", func(t *testing.T) {
		path := filepath.Join(dir, "reports", "nested", "report.xlsx")
		require.NoError(t, v.ValidateOutputFile(path, ".xlsx"))
		info, err := os.Stat(filepath.Dir(path))
		require.NoError(t, err)
		assert.True(t, info.IsDir())

		entries, err := os.ReadDir(filepath.Dir(path))
		require.NoError(t, err)
		assert.Empty(t, entries, "write check file must be removed")
	})

	t.Run("wrong extension", func(t *testing.T) {
		err := v.ValidateOutputFile(filepath.Join(dir, "report.txt"), ".csv")
		require.ErrorIs(t, err, ErrInvalidPath)
	})

	t.Run("any extension when none given", func(t *testing.T) {
		assert.NoError(t, v.ValidateOutputFile(filepath.Join(dir, "report.anything")))
	})

	t.Run("path is a directory", func(t *testing.T) {
		target := filepath.Join(dir, "out.csv")
		require.NoError(t, os.Mkdir(target, 0755))
		err := v.ValidateOutputFile(target, ".csv")
		require.ErrorIs(t, err, ErrInvalidPath)
	})

	t.Run("parent is a file", func(t *testing.T) {
		blocker := filepath.Join(dir, "blocker")
		require.NoError(t, os.WriteFile(blocker, []byte("x"), 0644))
		err := v.ValidateOutputFile(filepath.Join(blocker, "report.csv"), ".csv")
		require.Error(t, err)
		assert.True(t, handler.ContainsMessage("Failed to create output directory"))
	})
}
