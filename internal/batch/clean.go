// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package batch

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// Clean empties the output directory: every entry under dir is deleted, and
// the directory itself is created if absent. The operation is idempotent
// and shares no state with the batch driver.
func Clean(dir string, w io.Writer) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return fmt.Errorf("creating output directory %s: %w", dir, err)
			}
			fmt.Fprintf(w, "created empty output directory %s\n", dir)
			return nil
		}
		return fmt.Errorf("reading output directory %s: %w", dir, err)
	}

	removed := 0
	for _, entry := range entries {
		path := filepath.Join(dir, entry.Name())
		if err := os.RemoveAll(path); err != nil {
			return fmt.Errorf("removing %s: %w", path, err)
		}
		removed++
	}

	fmt.Fprintf(w, "cleaned %s (%d entries removed)\n", dir, removed)
	return nil
}
