package renderer

import (
	"fmt"
	"strings"
	"time"

	"github.com/Akaiko1/file-lister/internal/category"
	"github.com/Akaiko1/file-lister/internal/scanner"
)

const (
	// TimeLayout renders timestamps as YYYY-MM-DD HH:MM:SS.
	TimeLayout = "2006-01-02 15:04:05"

	// SeparatorWidth is the number of '=' characters under the header.
	SeparatorWidth = 60

	NoFilesLine = "No files found"
)

// Separator is the header rule line.
var Separator = strings.Repeat("=", SeparatorWidth)

// Report is the rendered listing of one scan. A Report is never modified
// after Render returns it; the zero value means "nothing scanned yet".
type Report struct {
	Lines     []string
	Root      string
	Generated time.Time
	FileCount int
}

// IsEmpty reports whether the report has no content to export.
func (r Report) IsEmpty() bool {
	for _, line := range r.Lines {
		if strings.TrimSpace(line) != "" {
			return false
		}
	}
	return true
}

// String returns the report as displayed, one line per row.
func (r Report) String() string {
	return strings.Join(r.Lines, "\n")
}

// ListingRenderer defines the interface for turning scan entries into a Report.
type ListingRenderer interface {
	Render(entries []scanner.FileEntry, root string, ts time.Time, showExtensions bool) Report
}

// StandardRenderer implements ListingRenderer with the numbered line format.
type StandardRenderer struct{}

// Render builds the header and one numbered line per entry. With
// showExtensions false, only the final dot-suffix of each path is removed.
func (StandardRenderer) Render(entries []scanner.FileEntry, root string, ts time.Time, showExtensions bool) Report {
	return Render(entries, root, ts, showExtensions)
}

// Render is the package-level form of StandardRenderer.Render.
func Render(entries []scanner.FileEntry, root string, ts time.Time, showExtensions bool) Report {
	report := Report{
		Root:      root,
		Generated: ts,
		FileCount: len(entries),
	}

	if len(entries) == 0 {
		report.Lines = []string{NoFilesLine}
		return report
	}

	lines := make([]string, 0, len(entries)+4)
	lines = append(lines,
		"Directory: "+root,
		"Scan time: "+ts.Format(TimeLayout),
		Separator,
		"",
	)

	for i, entry := range entries {
		path := entry.RelativePath
		if !showExtensions {
			path = category.TrimExt(path)
		}
		lines = append(lines, fmt.Sprintf("%4d. %s (%s)", i+1, path, FormatSize(entry.Size)))
	}

	report.Lines = lines
	return report
}

// RenderResult renders a scan result using its own root and timestamp.
func RenderResult(res *scanner.Result, showExtensions bool) Report {
	if res == nil {
		return Report{}
	}
	return Render(res.Entries, res.Root, res.Timestamp, showExtensions)
}
