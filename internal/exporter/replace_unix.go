//go:build !windows

package exporter

import (
	"fmt"
	"io"
	"path/filepath"

	"github.com/google/renameio/v2"
)

// replaceFile writes target through a temp file in the same directory and
// renames it into place. An existing target keeps its permission bits.
func replaceFile(target string, fill func(w io.Writer) error) error {
	pf, err := renameio.NewPendingFile(target,
		renameio.WithTempDir(filepath.Dir(target)),
		renameio.WithPermissions(0o644),
		renameio.WithExistingPermissions(),
	)
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer func() { _ = pf.Cleanup() }()

	if err := fill(pf); err != nil {
		return err
	}
	if err := pf.CloseAtomicallyReplace(); err != nil {
		return fmt.Errorf("replace destination: %w", err)
	}
	return nil
}
