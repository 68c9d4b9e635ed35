package templates

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// PathValidator keeps template lookups inside the template directory.
type PathValidator struct {
	root string
}

// NewPathValidator creates a validator for the given template directory.
func NewPathValidator(root string) (*PathValidator, error) {
	if root == "" {
		return nil, fmt.Errorf("template directory cannot be empty")
	}

	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve template directory: %w", err)
	}
	return &PathValidator{root: filepath.Clean(abs)}, nil
}

// Root returns the absolute template directory.
func (v *PathValidator) Root() string {
	return v.root
}

// Resolve maps a template name to an absolute path inside the root. Names
// are plain file names or paths relative to the root; anything that
// escapes it, directly or through a symlink, is rejected.
func (v *PathValidator) Resolve(name string) (string, error) {
	name = strings.ReplaceAll(name, "\x00", "")
	if name == "" {
		return "", fmt.Errorf("template name cannot be empty")
	}
	if filepath.IsAbs(name) {
		return "", fmt.Errorf("template name must be relative: %s", name)
	}

	path := filepath.Clean(filepath.Join(v.root, name))
	if !v.within(path) {
		return "", fmt.Errorf("template path is outside template directory: %s", name)
	}

	// Handle symlinks - evaluate the real paths for both input path and directory
	if info, err := os.Lstat(path); err == nil && info.Mode()&os.ModeSymlink != 0 {
		resolved, err := filepath.EvalSymlinks(path)
		if err != nil {
			return "", fmt.Errorf("failed to resolve template link: %w", err)
		}
		if !v.within(resolved) {
			return "", fmt.Errorf("template link points outside template directory: %s", name)
		}
	}

	return path, nil
}

func (v *PathValidator) within(path string) bool {
	roots := []string{v.root}
	if real, err := filepath.EvalSymlinks(v.root); err == nil && real != v.root {
		roots = append(roots, real)
	}
	for _, root := range roots {
		withSep := root
		if !strings.HasSuffix(withSep, string(filepath.Separator)) {
			withSep += string(filepath.Separator)
		}
		if strings.HasPrefix(path, withSep) {
			return true
		}
	}
	return false
}
