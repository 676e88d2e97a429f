package validation

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "nycsales/internal/errors"
	"nycsales/internal/shared/testutil"
)

func TestFileValidator_ValidateInputDirectory(t *testing.T) {
	tests := []struct {
		name    string
		setup   func(t *testing.T) string
		wantErr bool
	}{
		{
			name:  "existing directory",
			setup: func(t *testing.T) string { return t.TempDir() },
		},
		{
			name: "missing directory",
			setup: func(t *testing.T) string {
				return filepath.Join(t.TempDir(), "absent")
			},
			wantErr: true,
		},
		{
			name: "path is a file",
			setup: func(t *testing.T) string {
				path := filepath.Join(t.TempDir(), "file.xlsx")
				require.NoError(t, os.WriteFile(path, []byte("x"), 0644))
				return path
			},
			wantErr: true,
		},
	}

	v := NewFileValidator(testutil.NewSilentLogger())
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.ValidateInputDirectory(tt.setup(t))
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, apperrors.IsType(err, tt.wantType), "got %v", err)
				assert.Contains(t, err.Error(), "path="+tt.path)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestFileValidator_ValidateOutputDirectory(t *testing.T) {
	v := NewFileValidator(nil)
	dir := filepath.Join(t.TempDir(), "reports", "summary")

	require.NoError(t, v.ValidateOutputDirectory(dir))

	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())

	_, err = os.Stat(filepath.Join(dir, ".write_test"))
	assert.True(t, os.IsNotExist(err), "scratch file should be removed")
}

func TestFileValidator_ValidateFile(t *testing.T) {
	dir := t.TempDir()
	good := filepath.Join(dir, "2018_manhattan.xlsx")
	require.NoError(t, os.WriteFile(good, []byte("PK"), 0644))
	empty := filepath.Join(dir, "2019_manhattan.xlsx")
	require.NoError(t, os.WriteFile(empty, nil, 0644))

	tests := []struct {
		name     string
		path     string
		wantErr  bool
		wantType apperrors.ErrorType
	}{
		{name: "readable file", path: good},
		{name: "empty file", path: empty, wantErr: true, wantType: apperrors.ErrTypeSource},
		{name: "missing file", path: filepath.Join(dir, "2020_manhattan.xlsx"), wantErr: true, wantType: apperrors.ErrTypeNotFound},
		{name: "directory", path: dir, wantErr: true, wantType: apperrors.ErrTypeSource},
	}

	v := NewFileValidator(testutil.NewSilentLogger())
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.ValidateFile(tt.path)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, apperrors.IsType(err, apperrors.ErrTypeSource))
				return
			}
			assert.NoError(t, err)
		})
	}
}
