package cli

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/morozRed/crumbtrail/internal/crumb"
	"github.com/morozRed/crumbtrail/internal/parser"
	"github.com/morozRed/crumbtrail/internal/validate"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const defaultDebounce = 200 * time.Millisecond

// watchIndex holds the breadcrumbs of each watched file so a change only
// re-parses the files it touched.
type watchIndex struct {
	logger *zap.Logger
	files  map[string][]crumb.Breadcrumb
}

func newWatchIndex(logger *zap.Logger, result *parser.ScanResult) *watchIndex {
	idx := &watchIndex{logger: logger, files: make(map[string][]crumb.Breadcrumb)}
	for _, file := range result.Files {
		if !file.Skipped {
			idx.files[file.Path] = file.Breadcrumbs
		}
	}
	return idx
}

// update re-parses relPath from disk, dropping it when it can no longer be read.
func (w *watchIndex) update(root, relPath string) {
	data, err := os.ReadFile(filepath.Join(root, filepath.FromSlash(relPath)))
	if err != nil {
		w.logger.Debug("watched file unreadable", zap.String("path", relPath), zap.Error(err))
		delete(w.files, relPath)
		return
	}
	file := parser.New(parser.WithLogger(w.logger)).ParseContent(relPath, data)
	w.files[relPath] = file.Breadcrumbs
}

// all returns the collection in path order, matching a directory scan.
func (w *watchIndex) all() []crumb.Breadcrumb {
	paths := make([]string, 0, len(w.files))
	for path := range w.files {
		paths = append(paths, path)
	}
	sort.Strings(paths)

	out := make([]crumb.Breadcrumb, 0)
	for _, path := range paths {
		out = append(out, w.files[path]...)
	}
	return out
}

func RunWatch(cmd *cobra.Command, args []string) error {
	s, err := newSession(cmd, args)
	if err != nil {
		return err
	}
	defer s.close()
	if s.file != "" {
		return fmt.Errorf("watch needs a directory, got file %s", s.file)
	}

	debounce, err := cmd.Flags().GetDuration("debounce")
	if err != nil {
		return fmt.Errorf("failed to read --debounce flag: %w", err)
	}
	if debounce <= 0 {
		debounce = defaultDebounce
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	defer watcher.Close()

	if err := s.watchTree(watcher, s.root); err != nil {
		return err
	}

	result, _ := s.scan("watch", false)
	index := newWatchIndex(s.logger, result)
	w := cmd.OutOrStdout()
	printWatchReport(w, index.all())

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return s.watchLoop(ctx, watcher, index, debounce, w)
}

func (s *session) watchLoop(ctx context.Context, watcher *fsnotify.Watcher, index *watchIndex, debounce time.Duration, w io.Writer) error {
	timer := time.NewTimer(debounce)
	timer.Stop()
	pending := make(map[string]bool)

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			relPath, ok := s.relative(event.Name)
			if !ok {
				continue
			}
			if event.Op&fsnotify.Create == fsnotify.Create {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					if err := s.watchTree(watcher, event.Name); err != nil {
						s.logger.Warn("failed to watch new directory", zap.String("path", relPath), zap.Error(err))
					}
					continue
				}
			}
			if !s.filter.Accepts(relPath) {
				continue
			}
			s.logger.Debug("file changed", zap.String("path", relPath), zap.String("op", event.Op.String()))
			pending[relPath] = true
			timer.Reset(debounce)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			s.logger.Warn("watch error", zap.Error(err))

		case <-timer.C:
			for relPath := range pending {
				index.update(s.root, relPath)
			}
			pending = make(map[string]bool)
			printWatchReport(w, index.all())
		}
	}
}

// watchTree adds dir and every non-ignored directory below it.
func (s *session) watchTree(watcher *fsnotify.Watcher, dir string) error {
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			s.logger.Debug("walk error", zap.String("path", path), zap.Error(err))
			if d != nil && d.IsDir() && path != dir {
				return filepath.SkipDir
			}
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if relPath, ok := s.relative(path); ok && path != s.root && s.filter.Ignore != nil && s.filter.Ignore.ShouldIgnore(relPath, true) {
			return filepath.SkipDir
		}
		if err := watcher.Add(path); err != nil {
			return fmt.Errorf("failed to watch directory %s: %w", path, err)
		}
		return nil
	})
}

func (s *session) relative(path string) (string, bool) {
	rel, err := filepath.Rel(s.root, path)
	if err != nil {
		return "", false
	}
	return filepath.ToSlash(rel), true
}

func printWatchReport(w io.Writer, all []crumb.Breadcrumb) {
	r := validate.Validate(all)
	fmt.Fprintf(w, "[%s] breadcrumbs=%d\n", time.Now().Format("15:04:05"), len(all))
	PrintValidation(w, r)
}
