package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
	"github.com/fsnotify/fsnotify"

	svg2img "github.com/alnah/go-svg2img"
)

// watcher re-renders SVG files when they change. It owns one Converter, so
// the browser stays up during bursts of edits and the idle timer closes it
// in between.
type watcher struct {
	conv     *svg2img.Converter
	fsw      *fsnotify.Watcher
	root     string // watched file or directory
	single   bool   // root is a file
	output   string
	opts     svg2img.Options
	debounce time.Duration
	logger   *log.Logger
	flags    *convertFlags
	env      *Environment

	// pending maps a path to its debounce timer. Only the run loop touches it.
	pending map[string]*time.Timer
	due     chan string
	done    chan struct{} // closed when run returns
}

// runWatch renders every file once, then re-renders on change until ctx is
// canceled.
func runWatch(ctx context.Context, positionalArgs []string, flags *convertFlags, env *Environment) error {
	if len(positionalArgs) == 0 {
		return ErrNoInput
	}
	root := positionalArgs[0]

	s, err := resolveSettings(flags, env)
	if err != nil {
		return err
	}
	if s.opts.Encoding != svg2img.EncodingNone {
		return fmt.Errorf("%w: watch writes files only", ErrEncodingNeedsSingleFile)
	}

	info, err := os.Stat(root)
	if err != nil {
		return fmt.Errorf("discovering files: %w", err)
	}

	logger := newLogger(env.Stderr, flags.common.quiet, flags.common.verbose)
	conv := newConverter(s, env, logger)
	defer func() {
		if err := conv.Close(); err != nil {
			logger.Warn("closing browser", "err", err)
		}
	}()

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating file watcher: %w", err)
	}
	defer fsw.Close()

	w := &watcher{
		conv:     conv,
		fsw:      fsw,
		root:     root,
		single:   !info.IsDir(),
		output:   s.outputDir,
		opts:     s.opts,
		debounce: flags.debounce,
		logger:   logger,
		flags:    flags,
		env:      env,
		pending:  make(map[string]*time.Timer),
		due:      make(chan string),
		done:     make(chan struct{}),
	}
	if w.debounce <= 0 {
		w.debounce = defaultDebounce
	}

	files, err := discoverFiles(root, s.outputDir, s.opts.Type)
	if err != nil {
		return fmt.Errorf("discovering files: %w", err)
	}
	results := convertBatch(ctx, conv, files, s.opts, s.workers)
	_, _ = printResults(results, flags.common.quiet, flags.common.verbose, env)

	if err := w.addWatches(); err != nil {
		return err
	}
	logger.Info("watching for changes", "path", root)

	return w.run(ctx)
}

// addWatches registers the root directory and its subdirectories, or the
// parent directory of a single file. fsnotify watches are not recursive.
func (w *watcher) addWatches() error {
	if w.single {
		return w.add(filepath.Dir(w.root))
	}
	return filepath.WalkDir(w.root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if path != w.root && isHidden(path) {
			return filepath.SkipDir
		}
		return w.add(path)
	})
}

func (w *watcher) add(dir string) error {
	if err := w.fsw.Add(dir); err != nil {
		return fmt.Errorf("watching %s: %w", dir, err)
	}
	w.logger.Debug("watching directory", "dir", dir)
	return nil
}

// run processes file events until ctx is canceled or the watcher closes.
func (w *watcher) run(ctx context.Context) error {
	defer func() {
		close(w.done)
		for _, t := range w.pending {
			t.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-w.fsw.Events:
			if !ok {
				return nil
			}
			w.handleEvent(ctx, event)

		case path := <-w.due:
			delete(w.pending, path)
			w.render(ctx, path)

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return nil
			}
			w.logger.Error("watcher error", "err", err)
		}
	}
}

// handleEvent debounces writes and creations of SVG files and follows new
// directories.
func (w *watcher) handleEvent(ctx context.Context, event fsnotify.Event) {
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
		return
	}
	path := event.Name

	if event.Has(fsnotify.Create) && !w.single {
		if info, err := os.Stat(path); err == nil && info.IsDir() && !isHidden(path) {
			if err := w.add(path); err != nil {
				w.logger.Warn("cannot watch new directory", "err", err)
			}
			return
		}
	}

	if !w.relevant(path) {
		return
	}

	if t, ok := w.pending[path]; ok {
		t.Stop()
	}
	w.pending[path] = time.AfterFunc(w.debounce, func() { w.deliver(ctx, path) })
}

// deliver hands a debounced path to the run loop. It reports false when the
// loop has stopped or ctx is done.
func (w *watcher) deliver(ctx context.Context, path string) bool {
	select {
	case w.due <- path:
		return true
	case <-w.done:
		return false
	case <-ctx.Done():
		return false
	}
}

// relevant reports whether path is an SVG file this watcher renders.
func (w *watcher) relevant(path string) bool {
	if w.single {
		return filepath.Clean(path) == filepath.Clean(w.root)
	}
	return isSVG(path) && !isHidden(path)
}

// render converts one changed file and reports the result.
func (w *watcher) render(ctx context.Context, path string) {
	base := ""
	if !w.single {
		base = w.root
	}
	f := FileToConvert{
		InputPath:  path,
		OutputPath: resolveOutputPath(path, w.output, base, w.opts.Type),
	}

	res := convertFile(ctx, w.conv, f, w.opts)
	if errors.Is(res.Err, context.Canceled) {
		return
	}
	_, _ = printResults([]ConversionResult{res}, w.flags.common.quiet, w.flags.common.verbose, w.env)
}

// runWatchCmd parses flags and runs watch until interrupted.
func runWatchCmd(ctx context.Context, args []string, env *Environment) int {
	flags, positional, err := parseWatchFlags(args, env.Stderr)
	if err != nil {
		return flagErrorCode(err)
	}
	return reportError(env, runWatch(ctx, positional, flags, env))
}
