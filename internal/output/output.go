// Package output delivers generated documents: written to a directory, or
// bundled into one zip archive when an export produced several files.
package output

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/klauspost/compress/zip"
	"go.uber.org/zap"

	"github.com/a3tai/mcp-enrollment-pdf/internal/compose"
)

// Content types of a bundle.
const (
	ContentTypePDF = "application/pdf"
	ContentTypeZip = "application/zip"
)

// Bundle is an export packed for a single download.
type Bundle struct {
	Name        string
	ContentType string
	Data        []byte
}

// Pack returns the only file of a single-document export as is and zips
// everything else. The archive is named after the first file without its
// part suffix.
func Pack(res *compose.Result, modified time.Time) (*Bundle, error) {
	if res == nil || len(res.Files) == 0 {
		return nil, fmt.Errorf("export has no files")
	}
	if len(res.Files) == 1 {
		f := res.Files[0]
		return &Bundle{Name: f.Name, ContentType: ContentTypePDF, Data: f.Data}, nil
	}

	var buf bytes.Buffer
	if err := Zip(&buf, res.Files, modified); err != nil {
		return nil, err
	}
	return &Bundle{
		Name:        archiveName(res.Files[0].Name),
		ContentType: ContentTypeZip,
		Data:        buf.Bytes(),
	}, nil
}

// Zip writes files into a zip archive in order.
func Zip(w io.Writer, files []compose.File, modified time.Time) error {
	zw := zip.NewWriter(w)
	for _, f := range files {
		hdr := &zip.FileHeader{
			Name:     f.Name,
			Method:   zip.Deflate,
			Modified: modified,
		}
		entry, err := zw.CreateHeader(hdr)
		if err != nil {
			return fmt.Errorf("failed to add %s to archive: %w", f.Name, err)
		}
		if _, err := entry.Write(f.Data); err != nil {
			return fmt.Errorf("failed to write %s to archive: %w", f.Name, err)
		}
	}
	if err := zw.Close(); err != nil {
		return fmt.Errorf("failed to finish archive: %w", err)
	}
	return nil
}

func archiveName(first string) string {
	base := strings.TrimSuffix(first, filepath.Ext(first))
	if i := strings.LastIndex(base, "_Teil"); i > 0 {
		base = base[:i]
	}
	return base + ".zip"
}

// DirSink writes generated documents into a directory.
type DirSink struct {
	dir    string
	logger *zap.Logger
}

// NewDirSink creates the directory if needed.
func NewDirSink(dir string, logger *zap.Logger) (*DirSink, error) {
	if dir == "" {
		return nil, fmt.Errorf("output directory cannot be empty")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DirSink{dir: dir, logger: logger}, nil
}

// Dir returns the output directory.
func (s *DirSink) Dir() string {
	return s.dir
}

// Write stores every file of res and returns the written paths in order.
// Existing files with the same name are replaced.
func (s *DirSink) Write(res *compose.Result) ([]string, error) {
	paths := make([]string, 0, len(res.Files))
	for _, f := range res.Files {
		name := filepath.Base(f.Name)
		if name != f.Name || name == "." || name == ".." {
			return paths, fmt.Errorf("invalid output file name: %q", f.Name)
		}

		path := filepath.Join(s.dir, name)
		if err := os.WriteFile(path, f.Data, 0o644); err != nil {
			return paths, fmt.Errorf("failed to write %s: %w", name, err)
		}
		paths = append(paths, path)

		s.logger.Info("document saved",
			zap.String("export_id", res.ID),
			zap.String("path", path),
			zap.Int("bytes", len(f.Data)),
		)
	}
	return paths, nil
}
