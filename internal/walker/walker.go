package walker

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	evxerrors "github.com/Aman-CERP/evidex/internal/errors"
	"github.com/Aman-CERP/evidex/internal/ignore"
)

// ValidateRoots checks that every root exists and is a directory. The first
// offending root yields a fatal root error naming it.
func ValidateRoots(roots []string) error {
	if len(roots) == 0 {
		return evxerrors.ValidationError("at least one --root is required", nil)
	}
	for _, root := range roots {
		info, err := os.Stat(root)
		if err != nil {
			return evxerrors.RootError(root, err)
		}
		if !info.IsDir() {
			return evxerrors.RootError(root, nil)
		}
	}
	return nil
}

// Scan walks roots in order and streams every regular file. Symlinks are
// not followed and unreadable entries are skipped. The channel is closed
// when the walk completes or ctx is cancelled.
func Scan(ctx context.Context, roots []string, opts Options) (<-chan Result, error) {
	absRoots := make([]string, 0, len(roots))
	for _, r := range roots {
		abs, err := filepath.Abs(r)
		if err != nil {
			return nil, evxerrors.RootError(r, err)
		}
		// A root that is itself a symlink is resolved so its contents are walked.
		if info, err := os.Lstat(abs); err == nil && info.Mode()&fs.ModeSymlink != 0 {
			if resolved, err := filepath.EvalSymlinks(abs); err == nil {
				abs = resolved
			}
		}
		absRoots = append(absRoots, abs)
	}

	prune := absSet(opts.Prune)
	skip := absSet(opts.Skip)

	base := ignore.New(opts.Exclude...)

	results := make(chan Result, 64)
	go func() {
		defer close(results)
		for _, root := range absRoots {
			if err := walkRoot(ctx, root, rootMatcher(base, root), prune, skip, results); err != nil {
				if !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded) {
					select {
					case results <- Result{Error: err}:
					case <-ctx.Done():
					}
				}
				return
			}
		}
	}()
	return results, nil
}

// Walk collects Scan into a slice in walk order.
func Walk(ctx context.Context, roots []string, opts Options) ([]File, error) {
	ch, err := Scan(ctx, roots, opts)
	if err != nil {
		return nil, err
	}
	var files []File
	var walkErr error
	for res := range ch {
		if res.Error != nil {
			walkErr = res.Error
			continue
		}
		files = append(files, *res.File)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return files, walkErr
}

func absSet(paths []string) map[string]struct{} {
	set := make(map[string]struct{}, len(paths))
	for _, p := range paths {
		if abs, err := filepath.Abs(p); err == nil {
			set[abs] = struct{}{}
		}
	}
	return set
}

// rootMatcher extends base with the root's ignore file, if any.
func rootMatcher(base *ignore.Matcher, root string) *ignore.Matcher {
	lines, err := ignore.ReadFile(filepath.Join(root, ignore.FileName))
	if err != nil {
		return base
	}
	slog.Debug("ignore_file_loaded", slog.String("root", root), slog.Int("patterns", len(lines)))
	return base.With(lines...)
}

func walkRoot(ctx context.Context, root string, exclude *ignore.Matcher, prune, skip map[string]struct{}, results chan<- Result) error {
	return filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if err != nil {
			slog.Debug("walk_entry_skipped", slog.String("path", p), slog.String("error", err.Error()))
			if d != nil && d.IsDir() && p != root {
				return filepath.SkipDir
			}
			return nil
		}

		if p == root {
			return nil
		}

		rel, err := filepath.Rel(root, p)
		if err != nil {
			return nil
		}
		rel = filepath.ToSlash(rel)

		if d.IsDir() {
			if _, ok := prune[p]; ok {
				return filepath.SkipDir
			}
			if exclude.Match(rel, true) {
				return filepath.SkipDir
			}
			return nil
		}

		if !d.Type().IsRegular() {
			return nil
		}
		if rel == ignore.FileName || exclude.Match(rel, false) {
			return nil
		}
		if _, ok := skip[p]; ok {
			return nil
		}

		info, err := d.Info()
		if err != nil {
			return nil
		}

		f := &File{
			Root:    root,
			AbsPath: p,
			RelPath: rel,
			Name:    d.Name(),
			Size:    info.Size(),
			ModTime: info.ModTime(),
		}
		select {
		case results <- Result{File: f}:
		case <-ctx.Done():
			return ctx.Err()
		}
		return nil
	})
}
