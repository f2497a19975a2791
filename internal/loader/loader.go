// Package loader performs batch loading of monitoring workbooks. One broken
// file is logged and skipped; the batch continues with the remaining files.
package loader

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"vitalstat/adapters/excel"
	"vitalstat/domain/dataset"
	"vitalstat/internal"
	"vitalstat/internal/errors"
	"vitalstat/internal/groups"
	"vitalstat/internal/pool"
	"vitalstat/internal/registry"
)

// Loader reads workbook batches with bounded parallelism.
type Loader struct {
	parallelism int
	logger      *internal.Logger
}

// New creates a loader. Parallelism below 1 is clamped to 1.
func New(parallelism int) *Loader {
	if parallelism < 1 {
		parallelism = 1
	}
	return &Loader{parallelism: parallelism, logger: internal.DefaultLogger}
}

// LoadDirectory loads every workbook under dir into a fresh registry.
// Files that fail to load are logged and skipped; subjects are registered in
// filename order regardless of completion order.
func (l *Loader) LoadDirectory(ctx context.Context, dir string) (*registry.SubjectRegistry, error) {
	paths, err := listWorkbooks(dir)
	if err != nil {
		return nil, err
	}

	tables, err := l.loadAll(ctx, paths)
	if err != nil {
		return nil, err
	}

	reg := registry.New()
	for _, table := range tables {
		reg.Add(table)
	}
	l.logger.Info("loaded %d of %d workbooks from %s", reg.Len(), len(paths), dir)
	return reg, nil
}

// LoadGroups treats each immediate subdirectory of root as one group: its
// workbooks are loaded into a shared registry and pooled under the
// directory's name.
func (l *Loader) LoadGroups(ctx context.Context, root string) (*registry.SubjectRegistry, *groups.Registry, error) {
	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, nil, errors.Wrapf(err, "cannot read groups directory %s", root)
	}

	reg := registry.New()
	groupRegistry := groups.New()

	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		dir := filepath.Join(root, entry.Name())
		paths, err := listWorkbooks(dir)
		if err != nil {
			l.logger.Error("group %q skipped: %v", entry.Name(), err)
			continue
		}
		if len(paths) == 0 {
			l.logger.Warn("group %q skipped: no workbooks in %s", entry.Name(), dir)
			continue
		}

		tables, err := l.loadAll(ctx, paths)
		if err != nil {
			return nil, nil, err
		}

		p := pool.New(reg)
		for _, table := range tables {
			reg.Add(table)
			p.Add(table.Subject())
		}
		if p.Len() == 0 {
			l.logger.Warn("group %q skipped: no workbook loaded successfully", entry.Name())
			continue
		}
		groupRegistry.Add(entry.Name(), p)
	}

	return reg, groupRegistry, nil
}

// loadAll reads the given workbooks with bounded parallelism, preserving the
// input order of the survivors. The only hard failure is cancellation.
func (l *Loader) loadAll(ctx context.Context, paths []string) ([]*dataset.Table, error) {
	tables := make([]*dataset.Table, len(paths))
	var mu sync.Mutex

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(l.parallelism)

	for i, path := range paths {
		i, path := i, path
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			table, err := l.loadOne(path)
			if err != nil {
				l.logger.Error("workbook %s skipped: %v", path, err)
				return nil
			}
			mu.Lock()
			tables[i] = table
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, errors.Wrap(err, "batch loading aborted")
	}

	var out []*dataset.Table
	for _, table := range tables {
		if table != nil {
			out = append(out, table)
		}
	}
	return out, nil
}

func (l *Loader) loadOne(path string) (*dataset.Table, error) {
	reader, err := excel.OpenWorkbook(path)
	if err != nil {
		return nil, err
	}
	defer reader.Close()
	return reader.ReadTable()
}

// listWorkbooks returns the .xlsx files under dir in name order, ignoring
// Excel lock files.
func listWorkbooks(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, errors.Wrapf(err, "cannot read data directory %s", dir)
	}
	var paths []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if strings.HasPrefix(name, "~$") {
			continue
		}
		ext := strings.ToLower(filepath.Ext(name))
		if ext != ".xlsx" && ext != ".xlsm" {
			continue
		}
		paths = append(paths, filepath.Join(dir, name))
	}
	sort.Strings(paths)
	return paths, nil
}
