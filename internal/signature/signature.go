// Package signature decodes data-URL signatures and stamps them onto
// template pages at fixed anchors.
package signature

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	_ "image/gif" // register decoders
	_ "image/jpeg"
	"image/png"
	"math"
	"strings"

	"go.uber.org/zap"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"
)

// Format of an embeddable image.
type Format string

const (
	FormatPNG  Format = "png"
	FormatJPEG Format = "jpeg"
)

var (
	// ErrNotDataURL is returned for strings that are not base64 data URLs.
	ErrNotDataURL = errors.New("not a base64 data URL")
	// ErrUnsupportedType is returned for non-image MIME types.
	ErrUnsupportedType = errors.New("unsupported image type")
)

// Image is a decoded signature ready for embedding.
type Image struct {
	Data   []byte
	Format Format
	Width  int
	Height int
}

// Decode parses a data URL ("data:image/png;base64,..."). The whole image is
// decoded so truncated data is rejected here. PNG and JPEG are kept as-is;
// other raster types the canvas may produce (webp, bmp, gif) are re-encoded
// as PNG.
func Decode(dataURL string) (*Image, error) {
	header, payload, ok := strings.Cut(dataURL, ",")
	if !ok || !strings.HasPrefix(header, "data:") || !strings.HasSuffix(header, ";base64") {
		return nil, ErrNotDataURL
	}
	mime := strings.ToLower(strings.TrimSuffix(strings.TrimPrefix(header, "data:"), ";base64"))
	if !strings.HasPrefix(mime, "image/") {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedType, mime)
	}

	raw, err := base64.StdEncoding.DecodeString(strings.TrimSpace(payload))
	if err != nil {
		return nil, fmt.Errorf("invalid base64 payload: %w", err)
	}

	img, _, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("invalid %s data: %w", mime, err)
	}
	b := img.Bounds()

	switch mime {
	case "image/png":
		return &Image{Data: raw, Format: FormatPNG, Width: b.Dx(), Height: b.Dy()}, nil
	case "image/jpeg", "image/jpg":
		return &Image{Data: raw, Format: FormatJPEG, Width: b.Dx(), Height: b.Dy()}, nil
	default:
		var buf bytes.Buffer
		if err := png.Encode(&buf, img); err != nil {
			return nil, fmt.Errorf("failed to re-encode %s as png: %w", mime, err)
		}
		return &Image{Data: buf.Bytes(), Format: FormatPNG, Width: b.Dx(), Height: b.Dy()}, nil
	}
}

// Fit returns the scale factor that fits a width x height image into a
// maxWidth x maxHeight box without distorting or enlarging it. A zero bound
// is unconstrained.
func Fit(width, height int, maxWidth, maxHeight float64) float64 {
	if width <= 0 || height <= 0 {
		return 0
	}
	scale := 1.0
	if maxWidth > 0 {
		scale = math.Min(scale, maxWidth/float64(width))
	}
	if maxHeight > 0 {
		scale = math.Min(scale, maxHeight/float64(height))
	}
	return scale
}

// Spot is a fixed anchor on a template page.
type Spot struct {
	Page      int // 1-based
	X, Y      float64
	MaxWidth  float64
	MaxHeight float64
}

// Placement is the computed position of an image in PDF space.
type Placement struct {
	Page   int
	X, Y   float64 // lower-left corner
	Scale  float64
	Width  float64
	Height float64
}

// Stamper is a document that can draw images.
type Stamper interface {
	PageSize(page int) (width, height float64, err error)
	AddImage(page int, img *Image, x, y, scale float64) error
}

// Place computes where img lands for spot on a page of the given height.
func Place(img *Image, spot Spot, coords CoordinateSystem, pageHeight float64) Placement {
	scale := Fit(img.Width, img.Height, spot.MaxWidth, spot.MaxHeight)
	w := float64(img.Width) * scale
	h := float64(img.Height) * scale
	return Placement{
		Page:   spot.Page,
		X:      spot.X,
		Y:      coords.BottomY(pageHeight, spot.Y, h),
		Scale:  scale,
		Width:  w,
		Height: h,
	}
}

// Embed stamps dataURL onto doc at spot. An empty dataURL is a no-op. Decode
// and embedding failures are logged and reported as false; the document
// stays usable without the signature.
func Embed(doc Stamper, dataURL string, spot Spot, coords CoordinateSystem, logger *zap.Logger) bool {
	if dataURL == "" {
		return false
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	img, err := Decode(dataURL)
	if err != nil {
		logger.Warn("signature skipped", zap.Int("page", spot.Page), zap.Error(err))
		return false
	}

	_, pageHeight, err := doc.PageSize(spot.Page)
	if err != nil {
		logger.Warn("signature skipped", zap.Int("page", spot.Page), zap.Error(err))
		return false
	}

	p := Place(img, spot, coords, pageHeight)
	if err := doc.AddImage(p.Page, img, p.X, p.Y, p.Scale); err != nil {
		logger.Warn("signature skipped", zap.Int("page", spot.Page), zap.Error(err))
		return false
	}
	return true
}
