package templates

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/a3tai/mcp-enrollment-pdf/internal/pdf"
)

// DirSource reads templates from a local directory.
type DirSource struct {
	paths     *PathValidator
	validator *pdf.Validator
}

// NewDirSource creates a source for dir. maxFileSize bounds template size.
func NewDirSource(dir string, maxFileSize int64) (*DirSource, error) {
	paths, err := NewPathValidator(dir)
	if err != nil {
		return nil, err
	}
	return &DirSource{
		paths:     paths,
		validator: pdf.NewValidator(maxFileSize),
	}, nil
}

// Dir returns the template directory.
func (s *DirSource) Dir() string {
	return s.paths.Root()
}

// Template reads and validates the named template.
func (s *DirSource) Template(ctx context.Context, name string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	path, err := s.paths.Resolve(name)
	if err != nil {
		return nil, err
	}

	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	if err != nil {
		return nil, fmt.Errorf("cannot access template: %w", err)
	}
	if err := s.validator.ValidateFileInfo(path, info); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read template %s: %w", name, err)
	}
	if err := s.validator.Validate(data); err != nil {
		return nil, fmt.Errorf("template %s: %w", name, err)
	}
	return data, nil
}

// List returns the PDF file names in the template directory, sorted.
func (s *DirSource) List() ([]string, error) {
	entries, err := os.ReadDir(s.paths.Root())
	if err != nil {
		return nil, fmt.Errorf("failed to read template directory: %w", err)
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() || !strings.EqualFold(filepath.Ext(e.Name()), ".pdf") {
			continue
		}
		names = append(names, e.Name())
	}
	sort.Strings(names)
	return names, nil
}
