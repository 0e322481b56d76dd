package validation

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateWorkbookPath(t *testing.T) {
	dir := t.TempDir()
	good := filepath.Join(dir, "attendance.xlsx")
	require.NoError(t, os.WriteFile(good, []byte("PK"), 0o644))
	lock := filepath.Join(dir, "~$attendance.xlsx")
	require.NoError(t, os.WriteFile(lock, []byte{}, 0o644))
	text := filepath.Join(dir, "notes.txt")
	require.NoError(t, os.WriteFile(text, []byte("x"), 0o644))

	v := NewFileValidator(nil)

	tests := []struct {
		name    string
		path    string
		wantErr string
	}{
		{name: "valid workbook", path: good},
		{name: "missing file", path: filepath.Join(dir, "absent.xlsx"), wantErr: "does not exist"},
		{name: "directory", path: dir, wantErr: "is a directory"},
		{name: "wrong extension", path: text, wantErr: "unsupported extension"},
		{name: "office lock file", path: lock, wantErr: "lock file"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.ValidateWorkbookPath(tt.path)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestEnsureOutputDirectory_CreatesMissing(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "reports", "csv")

	v := NewFileValidator(nil)
	require.NoError(t, v.EnsureOutputDirectory(dir))

	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())

	// Probe file must not be left behind.
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}
