package pdf

import (
	"bytes"
	"fmt"
)

// buildPDF assembles a PDF from object bodies numbered 1..n with a valid
// cross-reference table. Object 1 must be the catalog.
func buildPDF(objects ...string) []byte {
	var buf bytes.Buffer
	buf.WriteString("%PDF-1.7\n")

	offsets := make([]int, len(objects))
	for i, body := range objects {
		offsets[i] = buf.Len()
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", i+1, body)
	}

	xref := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n", len(objects)+1)
	buf.WriteString("0000000000 65535 f \n")
	for _, off := range offsets {
		fmt.Fprintf(&buf, "%010d 00000 n \n", off)
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n", len(objects)+1, xref)
	return buf.Bytes()
}

// blankPDF is a single A4 page without a form.
func blankPDF() []byte {
	return buildPDF(
		"<< /Type /Catalog /Pages 2 0 R >>",
		"<< /Type /Pages /Kids [3 0 R] /Count 1 >>",
		"<< /Type /Page /Parent 2 0 R /MediaBox [0 0 595 842] >>",
	)
}

// formPDF is a two page template with a flat text field, a checkbox,
// a radio group and a nested text field on page 2. It carries the default
// appearance and resources pdfcpu needs to fill it.
func formPDF() []byte {
	return buildPDF(
		// 1
		"<< /Type /Catalog /Pages 2 0 R /AcroForm << /Fields [5 0 R 6 0 R 7 0 R 10 0 R] /DA (/Helv 0 Tf 0 g) /DR << /Font << /Helv 13 0 R >> >> >> >>",
		// 2
		"<< /Type /Pages /Kids [3 0 R 4 0 R] /Count 2 /MediaBox [0 0 595 842] >>",
		// 3
		"<< /Type /Page /Parent 2 0 R /MediaBox [0 0 595 842] /Annots [5 0 R 6 0 R 8 0 R 9 0 R] >>",
		// 4
		"<< /Type /Page /Parent 2 0 R /MediaBox [0 0 595 842] /Annots [11 0 R] >>",
		// 5
		"<< /Type /Annot /Subtype /Widget /FT /Tx /T (Name) /DA (/Helv 0 Tf 0 g) /Rect [50 700 200 720] /P 3 0 R >>",
		// 6
		"<< /Type /Annot /Subtype /Widget /FT /Btn /T (Ja) /Rect [50 650 60 660] /P 3 0 R /AS /Off /AP << /N << /Yes 12 0 R /Off 12 0 R >> >> >>",
		// 7
		"<< /FT /Btn /Ff 49152 /T (Art) /Kids [8 0 R 9 0 R] >>",
		// 8
		"<< /Type /Annot /Subtype /Widget /Parent 7 0 R /Rect [50 600 60 610] /P 3 0 R /AS /Off /AP << /N << /A 12 0 R /Off 12 0 R >> >> >>",
		// 9
		"<< /Type /Annot /Subtype /Widget /Parent 7 0 R /Rect [80 600 90 610] /P 3 0 R /AS /Off /AP << /N << /B 12 0 R /Off 12 0 R >> >> >>",
		// 10
		"<< /T (Kind1) /Kids [11 0 R] >>",
		// 11
		"<< /Type /Annot /Subtype /Widget /FT /Tx /T (Vorname) /DA (/Helv 0 Tf 0 g) /Parent 10 0 R /Rect [50 700 200 720] /P 4 0 R >>",
		// 12
		"<< /Type /XObject /Subtype /Form /BBox [0 0 10 10] /Length 3 >>\nstream\n0 g\nendstream",
		// 13
		"<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica /Encoding /WinAnsiEncoding >>",
	)
}
