// Package validation holds filesystem checks shared by the command-line
// tools: workbook paths are verified before parsing starts and output
// directories are probed for writability before the pipeline runs.
package validation

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// FileValidator validates pipeline input and output paths.
type FileValidator struct {
	logger *slog.Logger
}

// NewFileValidator creates a new file validator.
func NewFileValidator(logger *slog.Logger) *FileValidator {
	if logger == nil {
		logger = slog.Default()
	}
	return &FileValidator{logger: logger}
}

// ValidateWorkbookPath checks that path names a readable Excel workbook.
// Office lock files ("~$...") are rejected so a workbook open in Excel is
// not half-read.
func (v *FileValidator) ValidateWorkbookPath(path string) error {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return fmt.Errorf("workbook %s does not exist", path)
	}
	if err != nil {
		return fmt.Errorf("stat workbook %s: %w", path, err)
	}
	if info.IsDir() {
		return fmt.Errorf("%s is a directory, not a workbook", path)
	}

	ext := strings.ToLower(filepath.Ext(path))
	if ext != ".xlsx" && ext != ".xls" {
		return fmt.Errorf("workbook %s has unsupported extension %q", path, ext)
	}
	if strings.HasPrefix(filepath.Base(path), "~$") {
		return fmt.Errorf("%s is an Office lock file, not a workbook", path)
	}

	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("workbook %s is not readable: %w", path, err)
	}
	f.Close()

	v.logger.Debug("workbook path validated",
		slog.String("path", path),
		slog.Int64("size", info.Size()))
	return nil
}

// EnsureOutputDirectory creates dir when missing and verifies it is writable
// by creating and removing a probe file.
func (v *FileValidator) EnsureOutputDirectory(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create output directory %s: %w", dir, err)
	}

	probe := filepath.Join(dir, ".write_test")
	f, err := os.Create(probe)
	if err != nil {
		return fmt.Errorf("output directory %s is not writable: %w", dir, err)
	}
	f.Close()
	os.Remove(probe)

	v.logger.Debug("output directory validated", slog.String("directory", dir))
	return nil
}
