package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Akaiko1/file-lister/internal/category"
	"github.com/Akaiko1/file-lister/internal/exporter"
	"github.com/Akaiko1/file-lister/internal/scanner"
)

func writeFiles(t *testing.T, files map[string]int) string {
	t.Helper()
	root := t.TempDir()
	for rel, size := range files {
		path := filepath.Join(root, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, make([]byte, size), 0o644))
	}
	return root
}

// writeConfig creates a config file whose log goes to the temp dir.
func writeConfig(t *testing.T, body string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	logPath := filepath.ToSlash(filepath.Join(dir, "file-lister.log"))
	content := body + "logging:\n  level: debug\n  path: " + logPath + "\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func executeRoot(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), errOut.String(), err
}

func TestRunScan_PrintsReport(t *testing.T) {
	root := writeFiles(t, map[string]int{"a.txt": 10, "photo.jpg": 2048})
	var out, errOut bytes.Buffer

	report, err := runScan(context.Background(), &out, &errOut, scanner.NewDirectoryScanner(1),
		scanner.Options{Root: root, ShowExtensions: true}, "", false)
	require.NoError(t, err)

	text := out.String()
	assert.True(t, strings.HasPrefix(text, "Directory: "+root+"\n"))
	assert.Contains(t, text, "a.txt (10.00 B)")
	assert.Contains(t, text, "photo.jpg (2.00 KB)")
	assert.Equal(t, "Listed 2 of 2 files\n", errOut.String())
	assert.Equal(t, 2, report.FileCount)
	assert.Equal(t, report.String()+"\n", out.String())
}

func TestRunScan_ExportAndVerify(t *testing.T) {
	root := writeFiles(t, map[string]int{"a.txt": 10, "sub/b.pdf": 1})
	dest := filepath.Join(t.TempDir(), "list.docx")
	var out, errOut bytes.Buffer

	_, err := runScan(context.Background(), &out, &errOut, scanner.NewDirectoryScanner(2),
		scanner.Options{Root: root, Recursive: true, ShowExtensions: false}, dest, true)
	require.NoError(t, err)

	paragraphs, err := exporter.ReadParagraphs(dest)
	require.NoError(t, err)
	// Title, generation line, header (3 non-blank) and two entries.
	assert.Len(t, paragraphs, 2+3+2)
	assert.Contains(t, errOut.String(), "Exported to: "+dest)
	assert.Contains(t, errOut.String(), "Verified 7 paragraphs")
}

func TestRunScan_InvalidRoot(t *testing.T) {
	var out, errOut bytes.Buffer
	_, err := runScan(context.Background(), &out, &errOut, scanner.NewDirectoryScanner(1),
		scanner.Options{Root: filepath.Join(t.TempDir(), "missing")}, "", false)

	var invalid *scanner.InvalidPathError
	require.ErrorAs(t, err, &invalid)
	assert.Empty(t, out.String())
}

func TestRunScan_Cancelled(t *testing.T) {
	root := writeFiles(t, map[string]int{"a.txt": 1, "d/b.txt": 1})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var out, errOut bytes.Buffer
	_, err := runScan(ctx, &out, &errOut, scanner.NewDirectoryScanner(1),
		scanner.Options{Root: root, Recursive: true}, "", false)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestScanCommand_UsesSavedSettings(t *testing.T) {
	root := writeFiles(t, map[string]int{"top.png": 1, "top.txt": 1, "nested/deep.png": 1})
	cfg := writeConfig(t, "recursive: false\nshow_extensions: true\ncategory: images\n")

	out, _, err := executeRoot(t, "--config", cfg, "scan", root)
	require.NoError(t, err)

	assert.Contains(t, out, "   1. top.png (1.00 B)")
	assert.NotContains(t, out, "top.txt")
	assert.NotContains(t, out, "deep.png")
}

func TestScanCommand_FlagsOverrideSettings(t *testing.T) {
	root := writeFiles(t, map[string]int{"top.png": 1, "top.txt": 1, "nested/deep.txt": 1})
	cfg := writeConfig(t, "recursive: false\ncategory: images\n")

	out, _, err := executeRoot(t, "--config", cfg, "scan", root,
		"--recursive", "--category", "documents", "--show-ext=false")
	require.NoError(t, err)

	assert.Contains(t, out, "top (1.00 B)")
	assert.Contains(t, out, "nested/deep (1.00 B)")
	assert.NotContains(t, out, ".png")
}

func TestScanCommand_UnknownCategory(t *testing.T) {
	root := writeFiles(t, map[string]int{"a.txt": 1})
	cfg := writeConfig(t, "")

	_, _, err := executeRoot(t, "--config", cfg, "scan", root, "--category", "spreadsheets")
	assert.ErrorIs(t, err, category.ErrUnknownCategory)
}

func TestScanCommand_InvalidLogLevel(t *testing.T) {
	root := writeFiles(t, map[string]int{"a.txt": 1})
	cfg := writeConfig(t, "")

	_, _, err := executeRoot(t, "--config", cfg, "--log-level", "loud", "scan", root)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "initializing logging")
}

func TestCategoryHelp(t *testing.T) {
	help := categoryHelp()
	assert.Contains(t, help, "all        every file")
	assert.Contains(t, help, "images     .jpg .jpeg .png")
	assert.Contains(t, help, "archives   .zip .rar .7z")
}

func TestScanCommand_RequiresDirectory(t *testing.T) {
	cfg := writeConfig(t, "")
	_, _, err := executeRoot(t, "--config", cfg, "scan")
	assert.Error(t, err)
}
