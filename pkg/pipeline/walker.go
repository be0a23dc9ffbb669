package pipeline

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// walk publishes every non-empty regular file under roots whose name ends in
// the dialect suffix. Roots are visited in order and each in lexical order.
// Any traversal error is fatal.
func walk(ctx context.Context, roots []string, opts Options, items chan<- WorkItem) error {
	ext := opts.Dialect.Ext()
	log := opts.Logger.With("role", "walker")

	for _, root := range roots {
		log.Debug("walking", "root", root)
		err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				return nil
			}
			if !strings.HasSuffix(d.Name(), ext) {
				log.Debug("skipping file without suffix", "path", path, "suffix", ext)
				return nil
			}
			// Symlinks to files are followed; symlinked directories are not.
			info, err := os.Stat(path)
			if err != nil {
				return err
			}
			if !info.Mode().IsRegular() {
				log.Debug("skipping non-regular file", "path", path)
				return nil
			}
			if info.Size() == 0 {
				log.Debug("skipping empty file", "path", path)
				return nil
			}

			select {
			case items <- WorkItem{Path: path, Size: info.Size()}:
				return nil
			case <-ctx.Done():
				return ctx.Err()
			}
		})
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return fmt.Errorf("walking %s: %w", root, err)
		}
	}
	return nil
}
