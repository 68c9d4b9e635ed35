// Package templates fetches the blank template PDFs: from a local
// directory, from an HTTP asset server, and through a Redis cache.
package templates

import (
	"context"
	"errors"
)

// ErrNotFound is returned when a template does not exist at its source.
var ErrNotFound = errors.New("template not found")

// Source fetches template bytes by file name.
type Source interface {
	Template(ctx context.Context, name string) ([]byte, error)
}
