package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/Akaiko1/file-lister/internal/category"
	"github.com/Akaiko1/file-lister/internal/clipboard"
	"github.com/Akaiko1/file-lister/internal/exporter"
	"github.com/Akaiko1/file-lister/internal/renderer"
	"github.com/Akaiko1/file-lister/internal/scanner"
)

// scanFlags are the headless scan options. Unset listing flags fall back to
// the values saved by the window.
type scanFlags struct {
	recursive bool
	showExt   bool
	category  string
	output    string
	verify    bool
	copy      bool
	workers   int
}

func newScanCmd(state *cliState) *cobra.Command {
	flags := &scanFlags{}

	names := make([]string, 0, len(category.List()))
	for _, c := range category.List() {
		names = append(names, c.String())
	}

	cmd := &cobra.Command{
		Use:   "scan <directory>",
		Short: "Print the file listing of a directory",
		Long:  "Print the file listing of a directory.\n\nFile types for --category:\n" + categoryHelp(),
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := flags.options(cmd, state, args[0])
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			report, err := runScan(ctx, cmd.OutOrStdout(), cmd.ErrOrStderr(),
				scanner.NewDirectoryScanner(flags.workers), opts, flags.output, flags.verify)
			if err != nil || !flags.copy {
				return err
			}
			if err := clipboard.CopyReport(clipboard.SystemClipboardManager{}, report); err != nil {
				return fmt.Errorf("copying report: %w", err)
			}
			fmt.Fprintln(cmd.ErrOrStderr(), "File list copied to clipboard")
			return nil
		},
	}

	cmd.Flags().BoolVarP(&flags.recursive, "recursive", "r", true, "include subdirectories")
	cmd.Flags().BoolVarP(&flags.showExt, "show-ext", "x", true, "show file extensions")
	cmd.Flags().StringVarP(&flags.category, "category", "c", category.All.String(),
		"file type filter: "+strings.Join(names, ", "))
	cmd.Flags().StringVarP(&flags.output, "output", "o", "", "export the listing to this .docx file")
	cmd.Flags().BoolVar(&flags.verify, "verify", false, "read the exported document back and check it")
	cmd.Flags().BoolVar(&flags.copy, "copy", false, "copy the listing to the system clipboard")
	cmd.Flags().IntVarP(&flags.workers, "workers", "w", 0, "walker goroutines (0=auto)")
	return cmd
}

// categoryHelp lists each category with its extensions.
func categoryHelp() string {
	var b strings.Builder
	for _, c := range category.List() {
		exts := category.Extensions(c)
		if len(exts) == 0 {
			fmt.Fprintf(&b, "  %-10s every file\n", c)
			continue
		}
		fmt.Fprintf(&b, "  %-10s %s\n", c, strings.Join(exts, " "))
	}
	return b.String()
}

// options merges the command line with the saved settings.
func (f *scanFlags) options(cmd *cobra.Command, state *cliState, root string) (scanner.Options, error) {
	opts := scanner.Options{
		Root:           root,
		Recursive:      f.recursive,
		ShowExtensions: f.showExt,
		Category:       category.All,
	}
	if cfg := state.cfg; cfg != nil {
		if !cmd.Flags().Changed("recursive") {
			opts.Recursive = cfg.Recursive
		}
		if !cmd.Flags().Changed("show-ext") {
			opts.ShowExtensions = cfg.ShowExtensions
		}
		if !cmd.Flags().Changed("category") {
			opts.Category = cfg.CategoryValue()
			return opts, nil
		}
	}

	cat, err := category.Parse(f.category)
	if err != nil {
		return opts, fmt.Errorf("--category: %w", err)
	}
	opts.Category = cat
	return opts, nil
}

// runScan scans opts.Root, prints the report to out and, when output is set,
// exports it. The summary goes to errOut so out holds only the report.
func runScan(ctx context.Context, out, errOut io.Writer, s scanner.FileSystemScanner, opts scanner.Options, output string, verify bool) (renderer.Report, error) {
	if err := scanner.Validate(opts.Root); err != nil {
		return renderer.Report{}, err
	}

	res, err := s.Scan(ctx, opts)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return renderer.Report{}, fmt.Errorf("scan interrupted: %w", err)
		}
		return renderer.Report{}, err
	}

	report := renderer.RenderResult(res, opts.ShowExtensions)
	if _, err := fmt.Fprintln(out, report.String()); err != nil {
		return report, fmt.Errorf("writing report: %w", err)
	}
	fmt.Fprintf(errOut, "Listed %s of %s files\n",
		humanize.Comma(int64(res.TotalCount())), humanize.Comma(int64(res.Scanned)))

	if output == "" {
		return report, nil
	}

	if err := exporter.NewDocxExporter().Export(report, output); err != nil {
		return report, err
	}
	logger.Info("exported listing", "path", output, "files", report.FileCount,
		"scanned_at", report.Generated.Format(renderer.TimeLayout))
	fmt.Fprintf(errOut, "Exported to: %s\n", output)

	if verify {
		return report, verifyExport(report, output, errOut)
	}
	return report, nil
}

// verifyExport checks that the document holds the title, the generation
// line and one paragraph per non-blank report line.
func verifyExport(report renderer.Report, path string, errOut io.Writer) error {
	paragraphs, err := exporter.ReadParagraphs(path)
	if err != nil {
		return fmt.Errorf("verifying export: %w", err)
	}

	want := []string{exporter.Title}
	for _, line := range report.Lines {
		if strings.TrimSpace(line) != "" {
			want = append(want, line)
		}
	}

	if len(paragraphs) != len(want)+1 {
		return fmt.Errorf("verifying export: got %d paragraphs, want %d", len(paragraphs), len(want)+1)
	}
	if paragraphs[0] != want[0] {
		return fmt.Errorf("verifying export: title is %q", paragraphs[0])
	}
	for i, line := range want[1:] {
		if got := paragraphs[i+2]; got != line {
			return fmt.Errorf("verifying export: paragraph %d is %q, want %q", i+2, got, line)
		}
	}

	fmt.Fprintf(errOut, "Verified %s paragraphs\n", humanize.Comma(int64(len(paragraphs))))
	return nil
}
