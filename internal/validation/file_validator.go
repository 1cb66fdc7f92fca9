// Package validation checks dataset and report paths before they are read
// or written, so command-line and startup failures name the offending file.
package validation

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// ErrInvalidPath marks a path that cannot serve as a dataset or report file.
var ErrInvalidPath = errors.New("invalid path")

// DatasetExtensions are the file types the dataset loader understands.
var DatasetExtensions = []string{".csv", ".xlsx"}

// FileValidator validates input and output files
type FileValidator struct {
	logger *slog.Logger
}

// NewFileValidator creates a new file validator
func NewFileValidator(logger *slog.Logger) *FileValidator {
	if logger == nil {
		logger = slog.Default()
	}
	return &FileValidator{
		logger: logger,
	}
}

// ValidateFile checks that path exists, is a regular file and can be opened.
func (v *FileValidator) ValidateFile(path string) error {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		v.logger.Error("File does not exist",
			slog.String("file", path))
		return fmt.Errorf("%w: file %s does not exist", ErrInvalidPath, path)
	}
	if err != nil {
		return fmt.Errorf("failed to stat file %s: %w", path, err)
	}
	if info.IsDir() {
		v.logger.Error("Path is a directory, not a file",
			slog.String("path", path))
		return fmt.Errorf("%w: %s is a directory, not a file", ErrInvalidPath, path)
	}

	file, err := os.Open(path)
	if err != nil {
		v.logger.Error("File is not readable",
			slog.String("file", path),
			slog.String("error", err.Error()))
		return fmt.Errorf("file %s is not readable: %w", path, err)
	}
	file.Close()

	v.logger.Debug("File validated",
		slog.String("file", path),
		slog.Int64("size", info.Size()))
	return nil
}

// ValidateDatasetFile checks that path is a readable .csv or .xlsx file and
// not an Excel lock file.
func (v *FileValidator) ValidateDatasetFile(path string) error {
	if err := checkExtension(path, DatasetExtensions...); err != nil {
		v.logger.Error("Unsupported dataset file",
			slog.String("file", path),
			slog.String("error", err.Error()))
		return err
	}
	if strings.HasPrefix(filepath.Base(path), "~$") {
		v.logger.Warn("Refusing temporary Excel file",
			slog.String("file", path))
		return fmt.Errorf("%w: %s is a temporary Excel file", ErrInvalidPath, path)
	}
	return v.ValidateFile(path)
}

// ValidateOutputFile checks that path has one of the given extensions and
// that its directory exists, or can be created, and is writable.
func (v *FileValidator) ValidateOutputFile(path string, extensions ...string) error {
	if err := checkExtension(path, extensions...); err != nil {
		return err
	}
	if info, err := os.Stat(path); err == nil && info.IsDir() {
		return fmt.Errorf("%w: %s is a directory, not a file", ErrInvalidPath, path)
	}
	return v.ValidateOutputDirectory(filepath.Dir(path))
}

// ValidateOutputDirectory ensures output directory exists or can be created
func (v *FileValidator) ValidateOutputDirectory(dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		v.logger.Error("Failed to create output directory",
			slog.String("directory", dir),
			slog.String("error", err.Error()))
		return fmt.Errorf("failed to create output directory %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, ".write_test_*")
	if err != nil {
		v.logger.Error("Output directory is not writable",
			slog.String("directory", dir),
			slog.String("error", err.Error()))
		return fmt.Errorf("output directory %s is not writable: %w", dir, err)
	}
	tmp.Close()
	os.Remove(tmp.Name())

	v.logger.Debug("Output directory validated",
		slog.String("directory", dir))
	return nil
}

func checkExtension(path string, allowed ...string) error {
	if len(allowed) == 0 {
		return nil
	}
	ext := strings.ToLower(filepath.Ext(path))
	for _, a := range allowed {
		if ext == a {
			return nil
		}
	}
	return fmt.Errorf("%w: %s must have extension %s", ErrInvalidPath, path, strings.Join(allowed, " or "))
}
