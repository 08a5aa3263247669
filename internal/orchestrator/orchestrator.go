// Package orchestrator runs scans and exports off the interactive thread and
// guards them with an Idle/Scanning/Exporting state machine.
package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/Akaiko1/file-lister/internal/exporter"
	"github.com/Akaiko1/file-lister/internal/logging"
	"github.com/Akaiko1/file-lister/internal/renderer"
	"github.com/Akaiko1/file-lister/internal/scanner"
)

var logger = logging.Get("orchestrator")

// ErrBusy is returned when an operation is requested while another runs.
var ErrBusy = errors.New("another operation is in progress")

// State is the orchestrator's current activity.
type State int

const (
	Idle State = iota
	Scanning
	Exporting
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Scanning:
		return "scanning"
	case Exporting:
		return "exporting"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Poster runs fn on the interactive thread. The GUI passes fyne.Do.
type Poster func(fn func())

// Callbacks receive completion events on the interactive thread.
type Callbacks struct {
	// OnStateChange fires on every transition, including the return to Idle.
	OnStateChange func(State)
	// OnScanDone delivers the new report, or the error that left the
	// previous report in place.
	OnScanDone func(report renderer.Report, res *scanner.Result, err error)
	// OnExportDone delivers the destination path and the export outcome.
	OnExportDone func(path string, err error)
}

// Orchestrator owns the current report and serializes scan and export workers.
type Orchestrator struct {
	scanner  scanner.FileSystemScanner
	renderer renderer.ListingRenderer
	exporter exporter.DocumentExporter
	post     Poster
	cb       Callbacks

	mu     sync.Mutex
	state  State
	report renderer.Report
}

// New wires the pipeline stages. A nil post runs callbacks on the worker.
func New(s scanner.FileSystemScanner, r renderer.ListingRenderer, e exporter.DocumentExporter, post Poster, cb Callbacks) *Orchestrator {
	if post == nil {
		post = func(fn func()) { fn() }
	}
	return &Orchestrator{
		scanner:  s,
		renderer: r,
		exporter: e,
		post:     post,
		cb:       cb,
	}
}

// State returns the current state.
func (o *Orchestrator) State() State {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.state
}

// Report returns the latest successfully rendered report.
func (o *Orchestrator) Report() renderer.Report {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.report
}

// StartScan validates opts.Root and, when idle, scans, filters and renders
// on a new goroutine. Validation and busy errors are returned before any
// worker starts.
func (o *Orchestrator) StartScan(opts scanner.Options) error {
	if err := scanner.Validate(opts.Root); err != nil {
		return err
	}
	if err := o.transition(Scanning); err != nil {
		return err
	}

	go func() {
		var (
			report renderer.Report
			res    *scanner.Result
			err    error
		)
		defer func() {
			if r := recover(); r != nil {
				logger.Error("panic during scan", "panic", r)
				err = fmt.Errorf("scan failed unexpectedly: %v", r)
			}
			o.finishScan(report, res, err)
		}()

		res, err = o.scanner.Scan(context.Background(), opts)
		if err != nil {
			return
		}
		report = o.renderer.Render(res.Entries, res.Root, res.Timestamp, opts.ShowExtensions)
	}()
	return nil
}

// StartExport writes a snapshot of the current report to dest on a new
// goroutine. Without a report it fails with exporter.ErrEmptyReport.
func (o *Orchestrator) StartExport(dest string) error {
	o.mu.Lock()
	if o.report.IsEmpty() {
		o.mu.Unlock()
		return exporter.ErrEmptyReport
	}
	if o.state != Idle {
		o.mu.Unlock()
		return ErrBusy
	}
	o.state = Exporting
	snapshot := o.report
	o.mu.Unlock()
	o.notifyState(Exporting)

	go func() {
		var err error
		defer func() {
			if r := recover(); r != nil {
				logger.Error("panic during export", "panic", r)
				err = fmt.Errorf("export failed unexpectedly: %v", r)
			}
			o.finishExport(dest, err)
		}()

		err = o.exporter.Export(snapshot, dest)
	}()
	return nil
}

func (o *Orchestrator) transition(to State) error {
	o.mu.Lock()
	if o.state != Idle {
		o.mu.Unlock()
		logger.Warn("rejected request while busy", "state", o.state, "requested", to)
		return ErrBusy
	}
	o.state = to
	o.mu.Unlock()
	o.notifyState(to)
	return nil
}

func (o *Orchestrator) finishScan(report renderer.Report, res *scanner.Result, err error) {
	o.mu.Lock()
	if err == nil {
		o.report = report
	}
	o.state = Idle
	o.mu.Unlock()

	if err != nil {
		logger.Warn("scan did not complete", "err", err)
	}

	o.post(func() {
		o.emitState(Idle)
		if o.cb.OnScanDone != nil {
			o.cb.OnScanDone(report, res, err)
		}
	})
}

func (o *Orchestrator) finishExport(dest string, err error) {
	o.mu.Lock()
	o.state = Idle
	o.mu.Unlock()

	o.post(func() {
		o.emitState(Idle)
		if o.cb.OnExportDone != nil {
			o.cb.OnExportDone(dest, err)
		}
	})
}

func (o *Orchestrator) notifyState(s State) {
	o.post(func() { o.emitState(s) })
}

func (o *Orchestrator) emitState(s State) {
	if o.cb.OnStateChange != nil {
		o.cb.OnStateChange(s)
	}
}
