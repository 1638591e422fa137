// Package publish writes a rendered site to disk and checks it against what
// is already there.
package publish

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/dgallion1/flagdoc/internal/render"
)

// ErrOutOfDate is returned by Check when the output directory does not match
// the freshly generated site.
var ErrOutOfDate = errors.New("generated documentation is out of date")

// ErrUnsafePath is returned for a page whose path is absolute or leaves the
// output directory, such as one derived from a key containing "../".
var ErrUnsafePath = errors.New("page path escapes output directory")

// DefaultWorkers bounds concurrent page writes when no limit is configured.
const DefaultWorkers = 8

// Stats summarizes a Write call.
type Stats struct {
	Written   int
	Unchanged int
}

// Write stores every page under dir with at most workers concurrent writes.
// Pages whose file already holds identical bytes are left untouched.
func Write(ctx context.Context, dir string, pages []render.Page, workers int, log *slog.Logger) (Stats, error) {
	if workers <= 0 {
		workers = DefaultWorkers
	}
	for _, p := range pages {
		if _, err := pagePath(dir, p); err != nil {
			return Stats{}, err
		}
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return Stats{}, fmt.Errorf("create output dir: %w", err)
	}

	var written, unchanged atomic.Int64
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for _, p := range pages {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			path, err := pagePath(dir, p)
			if err != nil {
				return err
			}
			if old, err := os.ReadFile(path); err == nil && bytes.Equal(old, p.Content) {
				unchanged.Add(1)
				return nil
			}
			if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
				return fmt.Errorf("create dir for %s: %w", p.Path, err)
			}
			if err := os.WriteFile(path, p.Content, 0o644); err != nil {
				return fmt.Errorf("write %s: %w", p.Path, err)
			}
			written.Add(1)
			log.Debug("wrote page", "path", p.Path, "bytes", len(p.Content))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Stats{}, err
	}

	st := Stats{Written: int(written.Load()), Unchanged: int(unchanged.Load())}
	log.Info("wrote site", "dir", dir, "written", st.Written, "unchanged", st.Unchanged)
	return st, nil
}

// pagePath resolves p under dir. Paths that are absolute or climb out of dir
// are rejected.
func pagePath(dir string, p render.Page) (string, error) {
	rel := filepath.FromSlash(p.Path)
	if !filepath.IsLocal(rel) {
		return "", fmt.Errorf("%w: %q", ErrUnsafePath, p.Path)
	}
	return filepath.Join(dir, rel), nil
}
