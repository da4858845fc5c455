package watch

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/gofrs/flock"

	"qrdaconv/internal/batch"
	"qrdaconv/internal/config"
	"qrdaconv/internal/decode"
	"qrdaconv/internal/fileutil"
	"qrdaconv/internal/logging"
	"qrdaconv/internal/services"
)

// ErrAlreadyRunning is returned when another watcher holds the lock.
var ErrAlreadyRunning = errors.New("another qrdaconv watcher is already running")

// Runner converts a set of paths. *batch.Driver satisfies it.
type Runner interface {
	Run(ctx context.Context, args []string, opts decode.Options) (*batch.Summary, error)
}

// Options tune a watcher beyond the configuration.
type Options struct {
	// ConvertExisting queues matching files already in the directory.
	ConvertExisting bool
	// OnRun is called after every batch run.
	OnRun func(ctx context.Context, summary *batch.Summary)
}

// Watcher converts files appearing under a directory.
type Watcher struct {
	dir      string
	pattern  string
	debounce time.Duration
	runner   Runner
	convOpts decode.Options
	opts     Options
	lock     *flock.Flock
	logger   *slog.Logger

	pending map[string]*pendingFile
}

type pendingFile struct {
	last time.Time
	info os.FileInfo
}

// New builds a watcher for dir.
func New(cfg *config.Config, dir string, runner Runner, convOpts decode.Options, opts Options, logger *slog.Logger) *Watcher {
	return &Watcher{
		dir:      dir,
		pattern:  cfg.Watch.Pattern,
		debounce: time.Duration(cfg.Watch.DebounceMS) * time.Millisecond,
		runner:   runner,
		convOpts: convOpts,
		opts:     opts,
		lock:     flock.New(cfg.Paths.LockPath),
		logger:   logging.NewComponentLogger(logger, "watch"),
		pending:  make(map[string]*pendingFile),
	}
}

// Run watches until ctx is cancelled. It returns ErrAlreadyRunning when the
// lock is held elsewhere.
func (w *Watcher) Run(ctx context.Context) error {
	info, err := os.Stat(w.dir)
	if err != nil {
		return services.Wrap(services.ErrUsage, "watch", "stat", w.dir, err)
	}
	if !info.IsDir() {
		return services.Wrap(services.ErrUsage, "watch", "stat", w.dir+" is not a directory", nil)
	}

	ok, err := w.lock.TryLock()
	if err != nil {
		return services.Wrap(services.ErrIO, "watch", "acquire lock", w.lock.Path(), err)
	}
	if !ok {
		return ErrAlreadyRunning
	}
	defer func() { _ = w.lock.Unlock() }()

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return services.Wrap(services.ErrIO, "watch", "fsnotify", "", err)
	}
	defer func() { _ = fw.Close() }()

	if err := w.addTree(fw, w.dir); err != nil {
		return services.Wrap(services.ErrIO, "watch", "add directory", w.dir, err)
	}
	if w.opts.ConvertExisting {
		w.queueExisting()
	}

	w.logger.Info("watching directory",
		logging.String(logging.FieldEventType, "watch_start"),
		logging.String("directory", w.dir),
		logging.String("pattern", w.pattern),
		logging.Duration("debounce", w.debounce),
	)

	tick := max(w.debounce/2, 5*time.Millisecond)
	ticker := time.NewTicker(tick)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("watcher stopped", logging.String(logging.FieldEventType, "watch_stop"))
			return nil
		case ev, ok := <-fw.Events:
			if !ok {
				return nil
			}
			w.handleEvent(fw, ev)
		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			logging.WarnWithContext(w.logger, "fsnotify error", "watch_error",
				logging.Error(err),
				logging.String(logging.FieldImpact, "some file events may be missed"),
			)
		case now := <-ticker.C:
			w.flush(ctx, now)
		}
	}
}

func (w *Watcher) addTree(fw *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		return fw.Add(p)
	})
}

func (w *Watcher) queueExisting() {
	_ = filepath.WalkDir(w.dir, func(p string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return nil
		}
		if w.matches(p) {
			w.pending[p] = &pendingFile{last: time.Now()}
		}
		return nil
	})
}

func (w *Watcher) handleEvent(fw *fsnotify.Watcher, ev fsnotify.Event) {
	if ev.Op&fsnotify.Create == fsnotify.Create {
		if fi, err := os.Stat(ev.Name); err == nil && fi.IsDir() {
			_ = w.addTree(fw, ev.Name)
			return
		}
	}
	if ev.Op&(fsnotify.Remove|fsnotify.Rename) != 0 {
		delete(w.pending, ev.Name)
		return
	}
	if ev.Op&(fsnotify.Create|fsnotify.Write) == 0 || !w.matches(ev.Name) {
		return
	}
	w.pending[ev.Name] = &pendingFile{last: time.Now()}
}

func (w *Watcher) matches(path string) bool {
	ok, err := filepath.Match(w.pattern, filepath.Base(path))
	return err == nil && ok
}

// flush converts every pending file that has been quiet for the debounce
// window and whose size and mtime held still since the previous tick.
func (w *Watcher) flush(ctx context.Context, now time.Time) {
	var ready []string
	for path, p := range w.pending {
		if now.Sub(p.last) < w.debounce {
			continue
		}
		stable, info, err := fileutil.IsStable(path, p.info)
		if err != nil {
			delete(w.pending, path)
			continue
		}
		if !stable {
			p.info = info
			continue
		}
		ready = append(ready, path)
		delete(w.pending, path)
	}
	if len(ready) == 0 {
		return
	}
	sort.Strings(ready)

	summary, err := w.runner.Run(ctx, ready, w.convOpts)
	if err != nil {
		logging.ErrorWithContext(w.logger, "watch batch failed", "watch_batch_failure",
			logging.Error(err),
			logging.Int("files", len(ready)),
		)
		return
	}
	w.logger.Info("watch batch complete",
		logging.String(logging.FieldEventType, "watch_batch"),
		logging.String(logging.FieldRunID, summary.RunID),
		logging.Int("converted", summary.Converted),
		logging.Int("failed", summary.Failed),
	)
	if w.opts.OnRun != nil {
		w.opts.OnRun(ctx, summary)
	}
}
