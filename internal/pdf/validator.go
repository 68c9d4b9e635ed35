package pdf

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	"github.com/ledongthuc/pdf"
)

// DefaultMaxTemplateSize bounds template files read from disk or the network.
const DefaultMaxTemplateSize = 50 * 1024 * 1024

// Validator checks that template bytes are a readable PDF before filling.
type Validator struct {
	maxFileSize int64
}

// NewValidator creates a new template validator with the specified size limit.
func NewValidator(maxFileSize int64) *Validator {
	if maxFileSize <= 0 {
		maxFileSize = DefaultMaxTemplateSize
	}
	return &Validator{
		maxFileSize: maxFileSize,
	}
}

// MaxFileSize returns the configured size limit in bytes.
func (v *Validator) MaxFileSize() int64 {
	return v.maxFileSize
}

// Validate performs detailed validation on template bytes.
func (v *Validator) Validate(data []byte) error {
	if len(data) == 0 {
		return newError(ErrorTypeTemplateUnreadable, "template is empty", nil)
	}

	if int64(len(data)) > v.maxFileSize {
		return newError(ErrorTypeTemplateUnreadable,
			fmt.Sprintf("template too large: %d bytes (max: %d bytes)", len(data), v.maxFileSize), nil)
	}

	if !bytes.HasPrefix(bytes.TrimLeft(data, "\x00\t\r\n "), []byte("%PDF-")) {
		return newError(ErrorTypeTemplateUnreadable, "missing PDF header", nil)
	}

	return v.open(data)
}

// open parses data with the lenient reader, which panics on some malformed
// cross-reference tables.
func (v *Validator) open(data []byte) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = newError(ErrorTypeTemplateUnreadable, fmt.Sprintf("invalid PDF file: %v", r), nil)
		}
	}()

	// Try to open the PDF to validate it's a readable file
	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return newError(ErrorTypeTemplateUnreadable, "invalid PDF file", err)
	}
	if r.NumPage() == 0 {
		return newError(ErrorTypeTemplateUnreadable, "template has no pages", nil)
	}

	return nil
}

// ValidateFileInfo performs basic validation on file info without opening the PDF
func (v *Validator) ValidateFileInfo(filePath string, fileInfo os.FileInfo) error {
	if fileInfo.IsDir() {
		return fmt.Errorf("path is a directory, not a file: %s", filePath)
	}

	if !strings.HasSuffix(strings.ToLower(filePath), ".pdf") {
		return fmt.Errorf("file is not a PDF: %s", filePath)
	}

	if fileInfo.Size() == 0 {
		return fmt.Errorf("file is empty: %s", filePath)
	}

	if fileInfo.Size() > v.maxFileSize {
		return fmt.Errorf("file too large: %d bytes (max: %d bytes)",
			fileInfo.Size(), v.maxFileSize)
	}

	return nil
}
