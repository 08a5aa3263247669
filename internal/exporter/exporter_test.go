package exporter

import (
	"archive/zip"
	"errors"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"

	"github.com/fumiama/go-docx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Akaiko1/file-lister/internal/renderer"
	"github.com/Akaiko1/file-lister/internal/scanner"
)

var (
	scanTime   = time.Date(2024, 3, 9, 14, 5, 7, 0, time.UTC)
	exportTime = time.Date(2024, 3, 9, 15, 0, 0, 0, time.UTC)
)

func newTestExporter() *DocxExporter {
	return &DocxExporter{now: func() time.Time { return exportTime }, write: writeDocument}
}

func sampleReport() renderer.Report {
	return renderer.Render([]scanner.FileEntry{
		{RelativePath: "a.jpg", Size: 2048},
		{RelativePath: "subdir/b.png", Size: 100},
		{RelativePath: "archive.tar.gz", Size: 3 * 1024 * 1024},
	}, "/data", scanTime, true)
}

func nonEmptyLines(r renderer.Report) []string {
	var out []string
	for _, l := range r.Lines {
		if strings.TrimSpace(l) != "" {
			out = append(out, l)
		}
	}
	return out
}

func TestExport_RoundTripParagraphs(t *testing.T) {
	dest := filepath.Join(t.TempDir(), "listing.docx")
	report := sampleReport()

	require.NoError(t, newTestExporter().Export(report, dest))

	paragraphs, err := ReadParagraphs(dest)
	require.NoError(t, err)

	body := nonEmptyLines(report)
	require.Len(t, paragraphs, len(body)+2)
	assert.Equal(t, Title, paragraphs[0])
	assert.Equal(t, "Generated: 2024-03-09 15:00:00", paragraphs[1])
	assert.Equal(t, body, paragraphs[2:])
	assert.Contains(t, paragraphs, renderer.Separator)
	assert.Contains(t, paragraphs, "   1. a.jpg (2.00 KB)")
}

func TestExport_NoFilesReport(t *testing.T) {
	dest := filepath.Join(t.TempDir(), "empty.docx")
	report := renderer.Render(nil, "/data", scanTime, true)

	require.NoError(t, newTestExporter().Export(report, dest))

	paragraphs, err := ReadParagraphs(dest)
	require.NoError(t, err)
	assert.Equal(t, []string{Title, "Generated: 2024-03-09 15:00:00", renderer.NoFilesLine}, paragraphs)
}

func TestExport_EmptyReport(t *testing.T) {
	dest := filepath.Join(t.TempDir(), "never.docx")

	err := newTestExporter().Export(renderer.Report{}, dest)
	assert.ErrorIs(t, err, ErrEmptyReport)
	assert.NoFileExists(t, dest)
}

func TestExport_MissingParentDirectory(t *testing.T) {
	dest := filepath.Join(t.TempDir(), "no", "such", "dir", "out.docx")

	err := newTestExporter().Export(sampleReport(), dest)

	var exportErr *ExportError
	require.ErrorAs(t, err, &exportErr)
	assert.Equal(t, dest, exportErr.Path)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestExport_EmptyDestination(t *testing.T) {
	var exportErr *ExportError
	assert.ErrorAs(t, newTestExporter().Export(sampleReport(), ""), &exportErr)
}

func TestExport_ReplacesExistingFileWithoutLeftovers(t *testing.T) {
	dir := t.TempDir()
	dest := filepath.Join(dir, "listing.docx")
	require.NoError(t, os.WriteFile(dest, []byte("old contents"), 0o644))

	require.NoError(t, newTestExporter().Export(sampleReport(), dest))

	_, err := ReadParagraphs(dest)
	require.NoError(t, err)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "listing.docx", entries[0].Name())
}

func TestExport_FailureKeepsPreviousFile(t *testing.T) {
	if runtime.GOOS == "windows" || os.Geteuid() == 0 {
		t.Skip("permission bits are not enforced here")
	}
	dir := t.TempDir()
	dest := filepath.Join(dir, "listing.docx")
	require.NoError(t, os.WriteFile(dest, []byte("previous"), 0o644))
	require.NoError(t, os.Chmod(dir, 0o555))
	t.Cleanup(func() { _ = os.Chmod(dir, 0o755) })

	err := newTestExporter().Export(sampleReport(), dest)

	var exportErr *ExportError
	require.ErrorAs(t, err, &exportErr)

	data, readErr := os.ReadFile(dest)
	require.NoError(t, readErr)
	assert.Equal(t, "previous", string(data))
}

func TestExport_WriteFailureKeepsPreviousFile(t *testing.T) {
	dir := t.TempDir()
	dest := filepath.Join(dir, "listing.docx")
	require.NoError(t, os.WriteFile(dest, []byte("previous"), 0o644))

	exp := newTestExporter()
	exp.write = func(w io.Writer, _ *docx.Docx) (int64, error) {
		n, _ := w.Write([]byte("PK partial"))
		return int64(n), errors.New("disk full")
	}

	err := exp.Export(sampleReport(), dest)

	var exportErr *ExportError
	require.ErrorAs(t, err, &exportErr)
	assert.Contains(t, err.Error(), "disk full")

	data, readErr := os.ReadFile(dest)
	require.NoError(t, readErr)
	assert.Equal(t, "previous", string(data))

	entries, readErr := os.ReadDir(dir)
	require.NoError(t, readErr)
	assert.Len(t, entries, 1, "temporary file left behind")
}

func TestExport_DestinationIsDirectory(t *testing.T) {
	dir := t.TempDir()
	dest := filepath.Join(dir, "listing.docx")
	require.NoError(t, os.Mkdir(dest, 0o755))

	err := newTestExporter().Export(sampleReport(), dest)

	var exportErr *ExportError
	require.ErrorAs(t, err, &exportErr)
	info, statErr := os.Stat(dest)
	require.NoError(t, statErr)
	assert.True(t, info.IsDir())

	entries, readErr := os.ReadDir(dir)
	require.NoError(t, readErr)
	assert.Len(t, entries, 1)
}

func TestExport_KeepsExistingPermissions(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("unix permission bits")
	}
	dest := filepath.Join(t.TempDir(), "private.docx")
	require.NoError(t, os.WriteFile(dest, []byte("old"), 0o600))
	require.NoError(t, os.Chmod(dest, 0o600))

	require.NoError(t, newTestExporter().Export(sampleReport(), dest))

	info, err := os.Stat(dest)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}

func TestExport_WritesThroughSymlink(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("symlinks need privileges on windows")
	}
	dir := t.TempDir()
	target := filepath.Join(dir, "real.docx")
	link := filepath.Join(dir, "link.docx")
	require.NoError(t, os.WriteFile(target, []byte("old"), 0o644))
	require.NoError(t, os.Symlink(target, link))

	require.NoError(t, newTestExporter().Export(sampleReport(), link))

	info, err := os.Lstat(link)
	require.NoError(t, err)
	assert.NotZero(t, info.Mode()&os.ModeSymlink, "link was replaced by a regular file")

	paragraphs, err := ReadParagraphs(target)
	require.NoError(t, err)
	assert.Equal(t, Title, paragraphs[0])
}

func TestExport_TitleUsesTitleStyle(t *testing.T) {
	dest := filepath.Join(t.TempDir(), "listing.docx")
	require.NoError(t, newTestExporter().Export(sampleReport(), dest))

	f, err := os.Open(dest)
	require.NoError(t, err)
	defer f.Close()
	info, err := f.Stat()
	require.NoError(t, err)

	doc, err := docx.Parse(f, info.Size())
	require.NoError(t, err)
	title, ok := doc.Document.Body.Items[0].(*docx.Paragraph)
	require.True(t, ok)
	require.NotNil(t, title.Properties)
	require.NotNil(t, title.Properties.Style)
	assert.Equal(t, titleStyleID, title.Properties.Style.Val)

	zr, err := zip.OpenReader(dest)
	require.NoError(t, err)
	defer zr.Close()
	styles, err := zr.Open("word/styles.xml")
	require.NoError(t, err)
	defer styles.Close()
	data, err := io.ReadAll(styles)
	require.NoError(t, err)
	assert.Contains(t, string(data), `w:styleId="Title"`)
	assert.Contains(t, string(data), `<w:outlineLvl w:val="0"/>`)
}

func TestStyledTemplate_PassesOtherFilesThrough(t *testing.T) {
	tmpl := styledTemplate{base: docx.TemplateXMLFS}

	f, err := tmpl.Open("xml/default/word/fontTable.xml")
	require.NoError(t, err)
	defer f.Close()
	data, err := io.ReadAll(f)
	require.NoError(t, err)
	assert.NotContains(t, string(data), titleStyleXML)

	styles, err := tmpl.Open(stylesPath)
	require.NoError(t, err)
	info, err := styles.Stat()
	require.NoError(t, err)
	body, err := io.ReadAll(styles)
	require.NoError(t, err)
	assert.Equal(t, int64(len(body)), info.Size())
	assert.True(t, strings.HasSuffix(strings.TrimSpace(string(body)), titleStyleXML+"</w:styles>"))
}

func TestReadParagraphs_NotADocx(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plain.docx")
	require.NoError(t, os.WriteFile(path, []byte("not a zip"), 0o644))

	_, err := ReadParagraphs(path)
	assert.Error(t, err)
}

func TestDefaultFileName(t *testing.T) {
	assert.Equal(t, "file_list_2024-03-09_14-05-07.docx", DefaultFileName(scanTime))
}
