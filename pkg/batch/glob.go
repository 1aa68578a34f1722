package batch

import (
	"context"
	"io/fs"
	"os"

	"github.com/bmatcuk/doublestar/v4"
	"gitlab.com/tozd/go/errors"
	"golang.org/x/sync/errgroup"
)

// expandPaths resolves a task's path list against root. Glob patterns expand
// to whatever currently matches; a literal path is kept even when the file is
// absent so the batch can report it as missing instead of silently dropping
// it.
func expandPaths(root string, patterns []string) ([]string, error) {
	fsys := os.DirFS(root)

	seen := make(map[string]bool)
	var paths []string
	add := func(p string) {
		if !seen[p] {
			seen[p] = true
			paths = append(paths, p)
		}
	}

	for _, pattern := range patterns {
		if !hasMeta(pattern) {
			add(pattern)
			continue
		}
		matches, err := doublestar.Glob(fsys, pattern)
		if err != nil {
			return nil, errors.Errorf("expanding glob %q: %w", pattern, err)
		}
		for _, m := range matches {
			if info, err := fs.Stat(fsys, m); err == nil && info.IsDir() {
				continue
			}
			add(m)
		}
	}
	return paths, nil
}

// group bounds per-file parallelism within one task.
type group struct {
	eg  *errgroup.Group
	ctx context.Context
}

func newGroup(ctx context.Context, limit int) *group {
	eg, ctx := errgroup.WithContext(ctx)
	if limit > 0 {
		eg.SetLimit(limit)
	}
	return &group{eg: eg, ctx: ctx}
}

func (g *group) Go(fn func(context.Context) error) {
	g.eg.Go(func() error {
		return fn(g.ctx)
	})
}

func (g *group) Wait() error {
	return g.eg.Wait()
}
