package scanner

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"sync"
	"time"

	"github.com/charlievieth/fastwalk"

	"github.com/Akaiko1/file-lister/internal/category"
	"github.com/Akaiko1/file-lister/internal/logging"
)

var logger = logging.Get("scanner")

// Options describes a single scan. It is not modified by the scanner.
type Options struct {
	Root           string
	Recursive      bool
	ShowExtensions bool
	Category       category.Category
}

// FileEntry is one regular file found under the root.
type FileEntry struct {
	// RelativePath is relative to the root and uses '/' separators. For a
	// single-level scan it is the bare file name.
	RelativePath string
	AbsolutePath string
	Size         int64
}

// Result holds the entries of one scan in discovery order. The order follows
// the file system enumeration (and, for recursive scans, the parallel walk)
// and is not sorted.
type Result struct {
	Root      string
	Timestamp time.Time
	Entries   []FileEntry

	// Scanned counts regular files seen before the category filter.
	Scanned int
}

// TotalCount returns the number of entries after filtering.
func (r *Result) TotalCount() int {
	return len(r.Entries)
}

// FileSystemScanner defines the interface for scanning file systems.
type FileSystemScanner interface {
	Scan(ctx context.Context, opts Options) (*Result, error)
}

// DirectoryScanner implements FileSystemScanner on the local file system.
type DirectoryScanner struct {
	workers int
	now     func() time.Time

	// enterDir, when set, runs before a directory of a recursive walk is read.
	enterDir func(path string)
}

// NewDirectoryScanner creates a scanner. workers bounds the parallel walk of
// recursive scans; values below 1 use the fastwalk default.
func NewDirectoryScanner(workers int) *DirectoryScanner {
	if workers < 1 {
		workers = fastwalk.DefaultNumWorkers()
	}
	return &DirectoryScanner{
		workers: min(workers, runtime.NumCPU()*4),
		now:     time.Now,
	}
}

// Validate checks that root names an existing directory.
func Validate(root string) error {
	if root == "" {
		return &InvalidPathError{Path: root, Err: ErrEmptyPath}
	}
	info, err := os.Stat(root)
	if err != nil {
		return &InvalidPathError{Path: root, Err: err}
	}
	if !info.IsDir() {
		return &InvalidPathError{Path: root, Err: ErrNotDirectory}
	}
	return nil
}

// Scan lists the regular files under opts.Root and applies opts.Category.
// Any I/O error aborts the scan and no partial result is returned.
func (s *DirectoryScanner) Scan(ctx context.Context, opts Options) (*Result, error) {
	if err := Validate(opts.Root); err != nil {
		return nil, err
	}

	absRoot, err := filepath.Abs(opts.Root)
	if err != nil {
		return nil, &InvalidPathError{Path: opts.Root, Err: err}
	}

	started := s.now()
	logger.Info("scan started", "root", absRoot, "recursive", opts.Recursive, "category", opts.Category)

	var entries []FileEntry
	if opts.Recursive {
		entries, err = s.walkRecursive(ctx, absRoot)
	} else {
		entries, err = s.listDirectory(ctx, absRoot)
	}
	if err != nil {
		logger.Error("scan failed", "root", absRoot, "err", err)
		return nil, err
	}

	filtered := category.Filter(entries, opts.Category, func(e FileEntry) string {
		return e.AbsolutePath
	})

	logger.Info("scan finished", "root", absRoot, "scanned", len(entries), "listed", len(filtered),
		"elapsed", time.Since(started))

	return &Result{
		Root:      opts.Root,
		Timestamp: started,
		Entries:   filtered,
		Scanned:   len(entries),
	}, nil
}

// listDirectory returns the regular files directly inside root.
func (s *DirectoryScanner) listDirectory(ctx context.Context, root string) ([]FileEntry, error) {
	dirEntries, err := os.ReadDir(root)
	if err != nil {
		return nil, &ScanError{Path: root, Err: err}
	}

	entries := make([]FileEntry, 0, len(dirEntries))
	for _, d := range dirEntries {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		path := filepath.Join(root, d.Name())
		info, ok, err := regularFileInfo(path, d, os.Stat)
		if err != nil {
			return nil, &ScanError{Path: path, Err: err}
		}
		if !ok {
			continue
		}

		entries = append(entries, FileEntry{
			RelativePath: d.Name(),
			AbsolutePath: path,
			Size:         info.Size(),
		})
	}
	return entries, nil
}

// walkRecursive walks root in parallel. Directory symlinks are not followed.
func (s *DirectoryScanner) walkRecursive(ctx context.Context, root string) ([]FileEntry, error) {
	var (
		mu      sync.Mutex
		entries []FileEntry
	)

	conf := fastwalk.Config{
		Follow:     false,
		NumWorkers: s.workers,
	}

	walkErr := fastwalk.Walk(&conf, root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return &ScanError{Path: path, Err: err}
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if d.IsDir() {
			logger.Debug("entering directory", "path", path)
			if s.enterDir != nil {
				s.enterDir(path)
			}
			return nil
		}

		info, ok, err := regularFileInfo(path, d, func(p string) (fs.FileInfo, error) {
			return fastwalk.StatDirEntry(p, d)
		})
		if err != nil {
			return &ScanError{Path: path, Err: err}
		}
		if !ok {
			return nil
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			return &ScanError{Path: path, Err: err}
		}

		mu.Lock()
		entries = append(entries, FileEntry{
			RelativePath: filepath.ToSlash(rel),
			AbsolutePath: path,
			Size:         info.Size(),
		})
		mu.Unlock()
		return nil
	})

	if walkErr != nil {
		var scanErr *ScanError
		switch {
		case errors.As(walkErr, &scanErr):
			return nil, scanErr
		case errors.Is(walkErr, context.Canceled), errors.Is(walkErr, context.DeadlineExceeded):
			return nil, walkErr
		default:
			return nil, &ScanError{Path: root, Err: walkErr}
		}
	}
	return entries, nil
}

// regularFileInfo returns the FileInfo of d when it is, or links to, a
// regular file. Dangling symlinks are skipped.
func regularFileInfo(path string, d fs.DirEntry, stat func(string) (fs.FileInfo, error)) (fs.FileInfo, bool, error) {
	typ := d.Type()
	switch {
	case typ.IsRegular():
		info, err := d.Info()
		if err != nil {
			return nil, false, fmt.Errorf("failed to stat file: %w", err)
		}
		return info, true, nil
	case typ&fs.ModeSymlink != 0:
		info, err := stat(path)
		if errors.Is(err, fs.ErrNotExist) {
			logger.Warn("skipping dangling symlink", "path", path)
			return nil, false, nil
		}
		if err != nil {
			return nil, false, fmt.Errorf("failed to resolve symlink: %w", err)
		}
		return info, info.Mode().IsRegular(), nil
	default:
		return nil, false, nil
	}
}
