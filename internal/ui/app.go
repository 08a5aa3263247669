package ui

import (
	"errors"
	"fmt"
	"os"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/storage"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
	"github.com/dustin/go-humanize"

	"github.com/Akaiko1/file-lister/internal/category"
	"github.com/Akaiko1/file-lister/internal/clipboard"
	"github.com/Akaiko1/file-lister/internal/config"
	"github.com/Akaiko1/file-lister/internal/exporter"
	"github.com/Akaiko1/file-lister/internal/logging"
	"github.com/Akaiko1/file-lister/internal/orchestrator"
	"github.com/Akaiko1/file-lister/internal/renderer"
	"github.com/Akaiko1/file-lister/internal/scanner"
)

const (
	appTitle = "Directory File Lister"

	// Messages
	msgReady        = "Ready"
	msgNoData       = "Please scan a directory first."
	msgInvalidPath  = "Please choose an existing directory."
	msgBusy         = "Please wait for the current operation to finish."
	msgScanning     = "Reading directory..."
	msgExporting    = "Exporting Word document..."
	msgCopySuccess  = "File list copied to clipboard!"
	msgDropNotDir   = "please drop a folder, not a file"
	msgDropNotLocal = "invalid file path"
)

var logger = logging.Get("ui")

// FileListerApp is the main window: directory picker, listing options, the
// report view and the export/copy actions.
type FileListerApp struct {
	// Core components
	app    fyne.App
	window fyne.Window
	config *config.Config
	saver  *config.Saver

	// Services
	orchestrator *orchestrator.Orchestrator
	clipboard    clipboard.ClipboardManager

	// UI components
	dirEntry    *widget.Entry
	extCheck    *widget.Check
	subdirCheck *widget.Check
	categorySel *widget.Select
	scanBtn     *widget.Button
	exportBtn   *widget.Button
	copyBtn     *widget.Button
	copyTreeBtn *widget.Button
	output      *widget.TextGrid
	statusLabel *widget.Label
	progress    dialog.Dialog
	progressBar *widget.ProgressBarInfinite
	lastResult  *scanner.Result
}

// NewFileListerApp creates the application window from cfg. Option changes
// are written back to cfgPath.
func NewFileListerApp(cfg *config.Config, cfgPath string) *FileListerApp {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}

	fyneApp := app.NewWithID("io.github.akaiko1.filelister")
	fyneApp.SetIcon(theme.FolderIcon())

	window := fyneApp.NewWindow(appTitle)
	window.Resize(fyne.NewSize(float32(cfg.Window.Width), float32(cfg.Window.Height)))

	a := &FileListerApp{
		app:         fyneApp,
		window:      window,
		config:      cfg,
		saver:       config.NewSaver(cfgPath),
		clipboard:   clipboard.NewFyneClipboardManager(fyneApp.Clipboard()),
		statusLabel: widget.NewLabel(msgReady),
	}

	a.orchestrator = orchestrator.New(
		scanner.NewDirectoryScanner(0),
		renderer.StandardRenderer{},
		exporter.NewDocxExporter(),
		fyne.Do,
		orchestrator.Callbacks{
			OnStateChange: a.handleStateChange,
			OnScanDone:    a.handleScanDone,
			OnExportDone:  a.handleExportDone,
		},
	)
	return a
}

// Run starts the application.
func (a *FileListerApp) Run() {
	a.window.SetContent(a.createMainContent())
	a.enableDragDrop()
	logger.Info("window shown")
	a.window.ShowAndRun()
	a.saver.Wait()
}

// createMainContent creates the main UI content.
func (a *FileListerApp) createMainContent() fyne.CanvasObject {
	a.dirEntry = widget.NewEntry()
	a.dirEntry.SetPlaceHolder("Directory path")
	a.dirEntry.SetText(a.config.LastDirectory)

	browseBtn := widget.NewButtonWithIcon("Browse", theme.FolderOpenIcon(), a.handleBrowse)
	a.scanBtn = widget.NewButtonWithIcon("Read Directory", theme.SearchIcon(), a.handleScan)
	a.exportBtn = widget.NewButtonWithIcon("Export to Word", theme.DocumentSaveIcon(), a.handleExport)
	a.copyBtn = widget.NewButtonWithIcon("Copy", theme.ContentCopyIcon(), a.handleCopy)
	a.copyTreeBtn = widget.NewButtonWithIcon("Copy as Tree", theme.ListIcon(), a.handleCopyTree)

	a.extCheck = widget.NewCheck("Show extensions", nil)
	a.extCheck.SetChecked(a.config.ShowExtensions)
	a.subdirCheck = widget.NewCheck("Include subdirectories", nil)
	a.subdirCheck.SetChecked(a.config.Recursive)

	labels := make([]string, 0, len(category.List()))
	for _, c := range category.List() {
		labels = append(labels, c.Label())
	}
	a.categorySel = widget.NewSelect(labels, nil)
	a.categorySel.SetSelected(a.config.CategoryValue().Label())

	a.output = widget.NewTextGrid()

	pathRow := container.NewBorder(nil, nil, widget.NewLabel("Directory:"),
		container.NewHBox(browseBtn, a.scanBtn, a.exportBtn, a.copyBtn, a.copyTreeBtn), a.dirEntry)
	optionsRow := container.NewHBox(a.extCheck, a.subdirCheck, widget.NewLabel("File type:"), a.categorySel)

	header := container.NewVBox(pathRow, optionsRow, widget.NewLabel("Files:"))
	return container.NewBorder(header, a.statusLabel, nil, nil, container.NewScroll(a.output))
}

// currentOptions reads the scan options from the widgets.
func (a *FileListerApp) currentOptions() scanner.Options {
	cat, ok := category.FromLabel(a.categorySel.Selected)
	if !ok {
		cat = category.All
	}
	return scanner.Options{
		Root:           a.dirEntry.Text,
		Recursive:      a.subdirCheck.Checked,
		ShowExtensions: a.extCheck.Checked,
		Category:       cat,
	}
}

// handleBrowse opens the folder dialog, starting at the current directory.
func (a *FileListerApp) handleBrowse() {
	folderDialog := dialog.NewFolderOpen(func(folder fyne.ListableURI, err error) {
		if err != nil {
			a.showError("Folder Selection Error", err)
			return
		}
		if folder == nil {
			return // User cancelled
		}
		a.dirEntry.SetText(folder.Path())
	}, a.window)

	if dir := a.dirEntry.Text; dir != "" {
		if lister, err := storage.ListerForURI(storage.NewFileURI(dir)); err == nil {
			folderDialog.SetLocation(lister)
		}
	}
	folderDialog.Show()
}

// handleScan starts a scan with the options shown in the window.
func (a *FileListerApp) handleScan() {
	a.startScan(a.currentOptions())
}

func (a *FileListerApp) startScan(opts scanner.Options) {
	err := a.orchestrator.StartScan(opts)
	switch {
	case err == nil:
		a.statusLabel.SetText(msgScanning)
		a.rememberOptions(opts)
	case errors.Is(err, orchestrator.ErrBusy):
		dialog.ShowInformation("Busy", msgBusy, a.window)
	default:
		var invalid *scanner.InvalidPathError
		if errors.As(err, &invalid) {
			dialog.ShowError(fmt.Errorf("%s\n%w", msgInvalidPath, err), a.window)
			return
		}
		a.showError("Scan Error", err)
	}
}

// handleExport asks for a destination and exports the current report.
func (a *FileListerApp) handleExport() {
	if a.orchestrator.Report().IsEmpty() {
		dialog.ShowInformation("No Data", msgNoData, a.window)
		return
	}

	saveDialog := dialog.NewFileSave(func(writer fyne.URIWriteCloser, err error) {
		if err != nil {
			a.showError("Save Error", err)
			return
		}
		if writer == nil {
			return // User cancelled
		}
		dest := writer.URI().Path()
		// The exporter replaces the file itself.
		_ = writer.Close()

		if err := a.orchestrator.StartExport(dest); err != nil {
			a.showError("Export Error", err)
			return
		}
		a.statusLabel.SetText(msgExporting)
	}, a.window)

	saveDialog.SetFileName(exporter.DefaultFileName(time.Now()))
	saveDialog.SetFilter(storage.NewExtensionFileFilter([]string{exporter.FileExt}))
	saveDialog.Show()
}

// handleCopy copies the report text to the clipboard.
func (a *FileListerApp) handleCopy() {
	if err := clipboard.CopyReport(a.clipboard, a.orchestrator.Report()); err != nil {
		if errors.Is(err, exporter.ErrEmptyReport) {
			dialog.ShowInformation("No Data", msgNoData, a.window)
			return
		}
		a.showError("Clipboard Error", err)
		return
	}
	a.statusLabel.SetText(msgCopySuccess)
}

// handleCopyTree copies the last scan as an indented tree.
func (a *FileListerApp) handleCopyTree() {
	if a.lastResult == nil {
		dialog.ShowInformation("No Data", msgNoData, a.window)
		return
	}
	tree := renderer.BuildTree(a.lastResult.Root, a.lastResult.Entries)
	if err := clipboard.CopyTree(a.clipboard, tree); err != nil {
		a.showError("Clipboard Error", err)
		return
	}
	a.statusLabel.SetText(msgCopySuccess)
}

// handleStateChange disables the actions while a worker runs.
func (a *FileListerApp) handleStateChange(state orchestrator.State) {
	busy := state != orchestrator.Idle
	for _, btn := range []*widget.Button{a.scanBtn, a.exportBtn, a.copyBtn, a.copyTreeBtn} {
		if btn == nil {
			continue
		}
		if busy {
			btn.Disable()
		} else {
			btn.Enable()
		}
	}

	if busy {
		a.showProgress(state)
	} else {
		a.hideProgress()
	}
}

func (a *FileListerApp) handleScanDone(report renderer.Report, res *scanner.Result, err error) {
	if err != nil {
		a.statusLabel.SetText("Read failed")
		a.showError("Scan Error", err)
		return
	}

	a.lastResult = res
	a.output.SetText(report.String())
	a.statusLabel.SetText(fmt.Sprintf("Listed %s of %s files in %s (%s)",
		humanize.Comma(int64(res.TotalCount())), humanize.Comma(int64(res.Scanned)), res.Root,
		report.Generated.Format(renderer.TimeLayout)))
}

func (a *FileListerApp) handleExportDone(path string, err error) {
	if err != nil {
		a.statusLabel.SetText("Export failed")
		a.showError("Export Error", exportFailure(path, err))
		return
	}
	a.statusLabel.SetText("Export finished")
	dialog.ShowInformation("Success", "Exported to: "+path, a.window)
}

// exportFailure adds a note when the save dialog already emptied the
// destination, since the previous document cannot be restored.
func exportFailure(path string, err error) error {
	info, statErr := os.Stat(path)
	if statErr != nil || !info.Mode().IsRegular() || info.Size() != 0 {
		return err
	}
	return fmt.Errorf("%w\n%s is now empty; its previous contents were cleared when it was chosen", err, path)
}

func (a *FileListerApp) showProgress(state orchestrator.State) {
	if a.progress != nil {
		return
	}
	title := "Scanning"
	if state == orchestrator.Exporting {
		title = "Exporting"
	}
	a.progressBar = widget.NewProgressBarInfinite()
	a.progressBar.Start()
	a.progress = dialog.NewCustomWithoutButtons(title, a.progressBar, a.window)
	a.progress.Show()
}

func (a *FileListerApp) hideProgress() {
	if a.progress == nil {
		return
	}
	a.progressBar.Stop()
	a.progress.Hide()
	a.progress = nil
}

// rememberOptions stores the last used directory and options in the config file.
func (a *FileListerApp) rememberOptions(opts scanner.Options) {
	a.config.LastDirectory = opts.Root
	a.config.Recursive = opts.Recursive
	a.config.ShowExtensions = opts.ShowExtensions
	a.config.Category = opts.Category.String()
	a.saver.SaveAsync(*a.config, func(err error) {
		logger.Warn("could not save settings", "err", err)
	})
}

// showError shows an error dialog.
func (a *FileListerApp) showError(title string, err error) {
	logger.Error(title, "err", err)
	dialog.ShowError(fmt.Errorf("%s: %w", title, err), a.window)
}

// enableDragDrop scans a folder dropped onto the window.
func (a *FileListerApp) enableDragDrop() {
	a.window.SetOnDropped(func(position fyne.Position, uris []fyne.URI) {
		if len(uris) == 0 {
			return
		}
		uri := uris[0] // Take first dropped item

		if uri.Scheme() != "file" {
			dialog.ShowError(errors.New(msgDropNotLocal), a.window)
			return
		}

		path := uri.Path()
		if info, err := os.Stat(path); err != nil || !info.IsDir() {
			dialog.ShowError(errors.New(msgDropNotDir), a.window)
			return
		}

		a.dirEntry.SetText(path)
		a.startScan(a.currentOptions())
	})
}
