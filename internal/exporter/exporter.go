// Package exporter writes a rendered listing to a Word (.docx) document.
package exporter

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fumiama/go-docx"

	"github.com/Akaiko1/file-lister/internal/logging"
	"github.com/Akaiko1/file-lister/internal/renderer"
)

const (
	// Title is the first paragraph of every exported document.
	Title = "Directory File Listing"

	// FileExt is the extension of exported documents.
	FileExt = ".docx"

	fileNameStamp = "2006-01-02_15-04-05"
)

var logger = logging.Get("exporter")

// ErrEmptyReport is returned when there is nothing to export yet.
var ErrEmptyReport = errors.New("no listing to export, scan a directory first")

// ExportError reports a failure to write the destination document. A file
// that already existed at Path is left as it was.
type ExportError struct {
	Path string
	Err  error
}

func (e *ExportError) Error() string {
	return fmt.Sprintf("failed to export %q: %v", e.Path, e.Err)
}

func (e *ExportError) Unwrap() error { return e.Err }

// DocumentExporter defines the interface for persisting a report.
type DocumentExporter interface {
	Export(report renderer.Report, dest string) error
}

// DocxExporter implements DocumentExporter with go-docx.
type DocxExporter struct {
	now   func() time.Time
	write func(w io.Writer, doc *docx.Docx) (int64, error)
}

// NewDocxExporter creates an exporter that stamps documents with the current time.
func NewDocxExporter() *DocxExporter {
	return &DocxExporter{now: time.Now, write: writeDocument}
}

// DefaultFileName suggests a file name for a document generated at t.
func DefaultFileName(t time.Time) string {
	return "file_list_" + t.Format(fileNameStamp) + FileExt
}

// Export writes report to dest: a title, the generation time, then one
// paragraph per non-empty report line. The document is written to a
// temporary file beside dest and renamed over it once complete.
func (e *DocxExporter) Export(report renderer.Report, dest string) error {
	if report.IsEmpty() {
		return ErrEmptyReport
	}
	if dest == "" {
		return &ExportError{Path: dest, Err: errors.New("destination path cannot be empty")}
	}

	log := logger.With("path", dest)
	doc := e.build(report)

	if err := e.writeAtomic(dest, doc); err != nil {
		log.Error("export failed", "err", err)
		return &ExportError{Path: dest, Err: err}
	}

	log.Info("export finished", "lines", len(report.Lines))
	return nil
}

func (e *DocxExporter) build(report renderer.Report) *docx.Docx {
	doc := docx.New().UseTemplate(templateName, docx.DefaultTemplateFilesList, styledTemplate{base: docx.TemplateXMLFS})

	doc.AddParagraph().Style(titleStyleID).AddText(Title)
	doc.AddParagraph().AddText("Generated: " + e.now().Format(renderer.TimeLayout))

	for _, line := range report.Lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		preserveSpace(doc.AddParagraph().AddText(line))
	}

	// Section properties close the body, so the page size goes in last.
	return doc.WithA4Page()
}

// preserveSpace keeps the padding of the right-aligned index column.
func preserveSpace(run *docx.Run) {
	for _, child := range run.Children {
		if text, ok := child.(*docx.Text); ok {
			text.XMLSpace = "preserve"
		}
	}
}

// writeAtomic replaces dest with the document in one rename. An existing
// file keeps its permissions and a symlinked dest is replaced at its target.
func (e *DocxExporter) writeAtomic(dest string, doc *docx.Docx) error {
	target, err := resolveTarget(dest)
	if err != nil {
		return err
	}

	return replaceFile(target, func(w io.Writer) error {
		if _, err := e.write(w, doc); err != nil {
			return fmt.Errorf("write document: %w", err)
		}
		return nil
	})
}

// resolveTarget follows dest when it is a symlink. A missing dest is
// returned unchanged.
func resolveTarget(dest string) (string, error) {
	info, err := os.Lstat(dest)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return dest, nil
		}
		return "", fmt.Errorf("inspect destination: %w", err)
	}
	if info.Mode()&os.ModeSymlink == 0 {
		return dest, nil
	}
	target, err := filepath.EvalSymlinks(dest)
	if err != nil {
		return "", fmt.Errorf("resolve destination link: %w", err)
	}
	return target, nil
}

func writeDocument(w io.Writer, doc *docx.Docx) (int64, error) {
	return doc.WriteTo(w)
}

// ReadParagraphs opens a .docx file and returns the text of each body paragraph.
func ReadParagraphs(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open document: %w", err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("stat document: %w", err)
	}

	doc, err := docx.Parse(f, info.Size())
	if err != nil {
		return nil, fmt.Errorf("parse document: %w", err)
	}

	var paragraphs []string
	for _, item := range doc.Document.Body.Items {
		if p, ok := item.(*docx.Paragraph); ok {
			paragraphs = append(paragraphs, p.String())
		}
	}
	return paragraphs, nil
}
