// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package verify

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// minimalPDF builds a one-page PDF with a correct cross-reference table.
func minimalPDF() []byte {
	objects := []string{
		"<< /Type /Catalog /Pages 2 0 R >>",
		"<< /Type /Pages /Kids [3 0 R] /Count 1 >>",
		"<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] /Resources << >> >>",
	}

	var buf bytes.Buffer
	buf.WriteString("%PDF-1.4\n")
	offsets := make([]int, len(objects))
	for i, obj := range objects {
		offsets[i] = buf.Len()
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", i+1, obj)
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

func writeFile(t *testing.T, dir, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}

func TestValidatePDF(t *testing.T) {
	dir := t.TempDir()

	valid := writeFile(t, dir, "1.pdf", minimalPDF())
	assert.NoError(t, ValidatePDF(valid))

	html := writeFile(t, dir, "2.pdf", []byte("<html><body>Please solve the captcha</body></html>"))
	assert.Error(t, ValidatePDF(html))

	empty := writeFile(t, dir, "3.pdf", nil)
	assert.Error(t, ValidatePDF(empty))
}

func TestVerify(t *testing.T) {
	dir := t.TempDir()
	pdf := minimalPDF()

	writeFile(t, dir, "1.pdf", pdf)
	truncated := writeFile(t, dir, "2.pdf", pdf[:len(pdf)/3])
	writeFile(t, dir, "3.PDF", pdf)
	empty := writeFile(t, dir, "4.pdf", nil)
	writeFile(t, dir, "5.mhtml", []byte("MIME-Version: 1.0"))
	writeFile(t, dir, "6", []byte("opaque"))
	require.NoError(t, os.Mkdir(filepath.Join(dir, "7.pdf"), 0o755))

	report, err := Verify(context.Background(), dir, 2)
	require.NoError(t, err)

	assert.Equal(t, 4, report.Checked)
	assert.False(t, report.OK())
	require.Len(t, report.Invalid, 2)
	assert.Equal(t, truncated, report.Invalid[0].Path)
	assert.Equal(t, empty, report.Invalid[1].Path)
}

func TestVerifyEmptyDirectory(t *testing.T) {
	report, err := Verify(context.Background(), t.TempDir(), 0)
	require.NoError(t, err)
	assert.Zero(t, report.Checked)
	assert.True(t, report.OK())
}

func TestVerifyMissingDirectory(t *testing.T) {
	_, err := Verify(context.Background(), filepath.Join(t.TempDir(), "missing"), 1)
	assert.Error(t, err)
}

func TestVerifyCancelled(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "1.pdf", minimalPDF())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := Verify(ctx, dir, 1)
	assert.ErrorIs(t, err, context.Canceled)
}
