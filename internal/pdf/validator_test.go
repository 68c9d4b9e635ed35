package pdf

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidator_Validate(t *testing.T) {
	validator := NewValidator(1024 * 1024) // 1MB limit

	tests := []struct {
		name    string
		data    []byte
		wantErr bool
	}{
		{name: "empty", data: nil, wantErr: true},
		{name: "no header", data: []byte("hello world"), wantErr: true},
		{name: "truncated", data: []byte("%PDF-1.7\n1 0 obj\n"), wantErr: true},
		{name: "too large", data: make([]byte, 1024*1024+1), wantErr: true},
		{name: "blank page", data: blankPDF(), wantErr: false},
		{name: "form", data: formPDF(), wantErr: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validator.Validate(tt.data)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestNewValidatorDefaultLimit(t *testing.T) {
	assert.Equal(t, int64(DefaultMaxTemplateSize), NewValidator(0).MaxFileSize())
	assert.Equal(t, int64(10), NewValidator(10).MaxFileSize())
}

func TestValidator_ValidateFileInfo(t *testing.T) {
	validator := NewValidator(100)
	tempDir := t.TempDir()

	write := func(name string, size int) (string, os.FileInfo) {
		path := filepath.Join(tempDir, name)
		require.NoError(t, os.WriteFile(path, make([]byte, size), 0o600))
		info, err := os.Stat(path)
		require.NoError(t, err)
		return path, info
	}

	path, info := write("ok.pdf", 10)
	assert.NoError(t, validator.ValidateFileInfo(path, info))

	path, info = write("empty.pdf", 0)
	assert.Error(t, validator.ValidateFileInfo(path, info))

	path, info = write("big.pdf", 101)
	assert.Error(t, validator.ValidateFileInfo(path, info))

	path, info = write("notes.txt", 10)
	assert.Error(t, validator.ValidateFileInfo(path, info))

	dirInfo, err := os.Stat(tempDir)
	require.NoError(t, err)
	assert.Error(t, validator.ValidateFileInfo(tempDir, dirInfo))
}
