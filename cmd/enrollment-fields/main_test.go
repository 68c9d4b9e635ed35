package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// formPDF is a one page template with a text field and a checkbox.
func formPDF() []byte {
	objects := []string{
		"<< /Type /Catalog /Pages 2 0 R /AcroForm << /Fields [4 0 R 5 0 R] >> >>",
		"<< /Type /Pages /Kids [3 0 R] /Count 1 >>",
		"<< /Type /Page /Parent 2 0 R /MediaBox [0 0 595 842] /Annots [4 0 R 5 0 R] >>",
		"<< /Type /Annot /Subtype /Widget /FT /Tx /T (Telefon) /Rect [50 700 200 720] /P 3 0 R >>",
		"<< /Type /Annot /Subtype /Widget /FT /Btn /T (Ja) /Rect [50 650 60 660] /P 3 0 R /AP << /N << /Yes 6 0 R /Off 6 0 R >> >> >>",
		"<< >>",
	}

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

func writeTemplate(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "dak_familienversicherung.pdf")
	require.NoError(t, os.WriteFile(path, formPDF(), 0o600))
	return path
}

func TestRunListsFields(t *testing.T) {
	path := writeTemplate(t)
	var stdout, stderr bytes.Buffer

	code := run("enrollment-fields", []string{path}, &stdout, &stderr)
	require.Equal(t, exitOK, code, stderr.String())
	assert.Contains(t, stdout.String(), "1 pages, 2 fields")
	assert.Contains(t, stdout.String(), "Telefon")
	assert.Contains(t, stdout.String(), "Type: checkbox")
}

func TestRunCheckReportsUnresolved(t *testing.T) {
	path := writeTemplate(t)
	var stdout, stderr bytes.Buffer

	code := run("enrollment-fields", []string{"--check", "dak-familie", "--format", "json", path}, &stdout, &stderr)
	require.Equal(t, exitUnresolved, code, stderr.String())

	var reports []Report
	require.NoError(t, json.Unmarshal(stdout.Bytes(), &reports))
	require.Len(t, reports, 1)
	assert.Equal(t, "dak-familie", reports[0].Descriptor)
	assert.NotEmpty(t, reports[0].Unresolved)
	for _, u := range reports[0].Unresolved {
		assert.NotEqual(t, "Telefon", u.Want)
	}
}

func TestRunErrors(t *testing.T) {
	path := writeTemplate(t)
	tests := [][]string{
		{},
		{"--format", "xml", path},
		{"--check", "nope", path},
		{filepath.Join(t.TempDir(), "missing.pdf")},
		{"--dir", t.TempDir()},
		{"--no-such-flag"},
	}
	for _, args := range tests {
		var stdout, stderr bytes.Buffer
		assert.Equal(t, exitError, run("enrollment-fields", args, &stdout, &stderr), "%v", args)
	}
}

func TestRunRejectsNonPDF(t *testing.T) {
	path := filepath.Join(t.TempDir(), "x.pdf")
	require.NoError(t, os.WriteFile(path, []byte("hello"), 0o600))

	var stdout, stderr bytes.Buffer
	assert.Equal(t, exitError, run("enrollment-fields", []string{path}, &stdout, &stderr))
}
