package clipboard

import (
	"errors"
	"fmt"

	"fyne.io/fyne/v2"
	"github.com/atotto/clipboard"

	"github.com/Akaiko1/file-lister/internal/exporter"
	"github.com/Akaiko1/file-lister/internal/renderer"
)

// ErrUnavailable is returned when the platform offers no clipboard.
var ErrUnavailable = errors.New("clipboard is not available")

// ClipboardManager defines the interface for clipboard operations.
type ClipboardManager interface {
	SetContent(content string) error
}

// FyneClipboardManager implements ClipboardManager using Fyne's clipboard.
type FyneClipboardManager struct {
	clipboard fyne.Clipboard
}

// NewFyneClipboardManager creates a new FyneClipboardManager.
func NewFyneClipboardManager(clipboard fyne.Clipboard) *FyneClipboardManager {
	return &FyneClipboardManager{clipboard: clipboard}
}

// SetContent sets the clipboard content.
func (c *FyneClipboardManager) SetContent(content string) error {
	if c.clipboard == nil {
		return ErrUnavailable
	}
	c.clipboard.SetContent(content)
	return nil
}

// SystemClipboardManager writes to the OS clipboard directly. The headless
// command uses it since there is no Fyne window to own a clipboard.
type SystemClipboardManager struct{}

// SetContent sets the clipboard content.
func (SystemClipboardManager) SetContent(content string) error {
	if clipboard.Unsupported {
		return ErrUnavailable
	}
	if err := clipboard.WriteAll(content); err != nil {
		return fmt.Errorf("writing clipboard: %w", err)
	}
	return nil
}

// CopyReport puts the report text on the clipboard, exactly as displayed.
func CopyReport(m ClipboardManager, report renderer.Report) error {
	if report.IsEmpty() {
		return exporter.ErrEmptyReport
	}
	return m.SetContent(report.String())
}

// CopyTree puts the tree view of a scan result on the clipboard.
func CopyTree(m ClipboardManager, tree *renderer.TreeNode) error {
	if tree == nil {
		return exporter.ErrEmptyReport
	}
	return m.SetContent(renderer.RenderTree(tree))
}
