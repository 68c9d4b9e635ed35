package signature

// CoordinateSystem tells how a template family measures anchor Y values.
type CoordinateSystem int

const (
	// BottomUp anchors are given in PDF space: Y grows upwards from the page bottom.
	BottomUp CoordinateSystem = iota
	// TopDown anchors are measured from the top edge of the page.
	TopDown
)

// String returns the coordinate system name.
func (c CoordinateSystem) String() string {
	if c == TopDown {
		return "top-down"
	}
	return "bottom-up"
}

// BottomY converts an anchor Y into the PDF Y of the image's lower edge.
func (c CoordinateSystem) BottomY(pageHeight, y, height float64) float64 {
	if c == TopDown {
		return pageHeight - y - height
	}
	return y
}
