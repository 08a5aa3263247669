package clipboard

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Akaiko1/file-lister/internal/exporter"
	"github.com/Akaiko1/file-lister/internal/renderer"
	"github.com/Akaiko1/file-lister/internal/scanner"
)

type memoryClipboard struct {
	content string
}

func (m *memoryClipboard) SetContent(content string) error {
	m.content = content
	return nil
}

func TestCopyReport(t *testing.T) {
	report := renderer.Render([]scanner.FileEntry{{RelativePath: "a.txt", Size: 1}}, "/r",
		time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC), true)

	clip := &memoryClipboard{}
	require.NoError(t, CopyReport(clip, report))
	assert.Equal(t, report.String(), clip.content)
	assert.Contains(t, clip.content, "   1. a.txt (1.00 B)")
}

func TestCopyReport_Empty(t *testing.T) {
	clip := &memoryClipboard{content: "untouched"}
	assert.ErrorIs(t, CopyReport(clip, renderer.Report{}), exporter.ErrEmptyReport)
	assert.Equal(t, "untouched", clip.content)
}

func TestCopyTree(t *testing.T) {
	tree := renderer.BuildTree("/r", []scanner.FileEntry{{RelativePath: "d/a.txt", Size: 1}})

	clip := &memoryClipboard{}
	require.NoError(t, CopyTree(clip, tree))
	assert.Contains(t, clip.content, "File Tree for: /r")
	assert.Contains(t, clip.content, "a.txt (1.00 B)")

	assert.ErrorIs(t, CopyTree(clip, nil), exporter.ErrEmptyReport)
}

func TestFyneClipboardManager_NilClipboard(t *testing.T) {
	m := NewFyneClipboardManager(nil)
	assert.ErrorIs(t, m.SetContent("x"), ErrUnavailable)
}
