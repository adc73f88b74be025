package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/ardnew/mung"
	"github.com/fsnotify/fsnotify"

	"github.com/ardnew/skiff/lang"
	"github.com/ardnew/skiff/log"
	"github.com/ardnew/skiff/pkg"
)

// Run executes one or more scripts sequentially in a single interpreter,
// so bindings declared by an earlier script are visible to later ones.
type Run struct {
	Paths []string `arg:"" optional:"" name:"path" help:"Script files to execute, or '-' for stdin."`
	Watch bool     `short:"w" help:"Re-run the scripts whenever one changes."`
}

// watchSettle is the window in which a burst of change events from a
// single editor save collapses into one re-run.
const watchSettle = 100 * time.Millisecond

func (r *Run) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)
	defer func(err *error) { cancel(*err) }(&err)

	paths := make([]string, 0, max(len(r.Paths), 1))
	for _, path := range r.Paths {
		paths = append(paths, resolveScript(path))
	}

	// Without any path arguments, read a script from stdin.
	if len(paths) == 0 {
		paths = append(paths, stdinSource)
	}

	log.DebugContext(ctx, "run",
		slog.Any("paths", paths), slog.Bool("watch", r.Watch))

	if r.Watch {
		return r.watch(ctx, paths)
	}

	return runScripts(ctx, paths)
}

// runScripts evaluates the concatenation of the given scripts with a
// fresh interpreter. Evaluation errors print an annotated source
// excerpt to stderr before being returned.
func runScripts(ctx context.Context, paths []string) error {
	srcs := sources(paths)
	if srcs == nil {
		return ErrOpenSource.With(slog.Any("paths", paths))
	}

	source, err := io.ReadAll(srcs)
	if err != nil {
		return ErrOpenSource.Wrap(err)
	}

	it := lang.New(lang.WithLogger(log.Default()))

	if _, err := it.Run(ctx, source); err != nil {
		fmt.Fprintln(os.Stderr, lang.Detail(err, source))

		return err
	}

	return nil
}

// watch re-runs the scripts whenever one of them changes, until the
// context is canceled. A failing run is reported and watching resumes;
// stdin cannot be watched and is dropped from the set.
func (r *Run) watch(ctx context.Context, paths []string) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return ErrWatchSource.Wrap(err)
	}
	defer watcher.Close()

	watched := make([]string, 0, len(paths))

	for _, path := range paths {
		if path == stdinSource {
			log.WarnContext(ctx, "cannot watch stdin", slog.String("path", path))

			continue
		}

		if err := watcher.Add(path); err != nil {
			return ErrWatchSource.With(slog.String("path", path)).Wrap(err)
		}

		watched = append(watched, path)
	}

	if len(watched) == 0 {
		return ErrWatchSource.Wrap(errors.New("no watchable paths"))
	}

	// The first run happens immediately; later runs are change-driven.
	r.rerun(ctx, watched)

	var last time.Time

	for {
		select {
		case <-ctx.Done():
			// Watch mode ends by interrupt.
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}

			if !event.Op.Has(fsnotify.Write) && !event.Op.Has(fsnotify.Create) &&
				!event.Op.Has(fsnotify.Rename) && !event.Op.Has(fsnotify.Remove) {
				continue
			}

			// Atomic saves replace the watched inode; re-adding the path
			// picks up the file that took its place.
			if event.Op.Has(fsnotify.Rename) || event.Op.Has(fsnotify.Remove) {
				_ = watcher.Add(event.Name)
			}

			if time.Since(last) < watchSettle {
				continue
			}

			last = time.Now()

			log.InfoContext(ctx, "source changed",
				slog.String("path", event.Name), slog.String("op", event.Op.String()))

			r.rerun(ctx, watched)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}

			log.WarnContext(ctx, "watch error", slog.Any("error", err))
		}
	}
}

func (r *Run) rerun(ctx context.Context, paths []string) {
	if err := runScripts(ctx, paths); err != nil {
		log.ErrorContext(ctx, "run failed", slog.Any("error", err))
	}
}

// resolveScript maps a command-line path argument to the script it
// names. Stdin and anything containing a path separator pass through
// unchanged, as does any name that resolves in the current directory.
// A bare name searches the directories of $SKIFF_PATH, trying the name
// itself and then the name with the script extension appended.
func resolveScript(name string) string {
	if name == stdinSource || strings.ContainsRune(name, os.PathSeparator) {
		return name
	}

	if _, err := os.Stat(name); err == nil {
		return name
	}

	for _, dir := range searchPath() {
		for _, base := range []string{name, name + pkg.ScriptExt} {
			path := filepath.Join(dir, base)
			if _, err := os.Stat(path); err == nil {
				return path
			}
		}
	}

	return name
}

// searchPath returns the script search path: the current directory
// followed by the entries of $SKIFF_PATH, deduplicated.
func searchPath() []string {
	merged := mung.Make(
		mung.WithSubjectItems(os.Getenv(pathEnv())),
		mung.WithDelim(string(os.PathListSeparator)),
		mung.WithPrefixItems("."),
	).String()

	dirs := make([]string, 0, 2)

	for _, dir := range strings.Split(merged, string(os.PathListSeparator)) {
		if dir != "" {
			dirs = append(dirs, dir)
		}
	}

	return dirs
}

// pathEnv returns the name of the search path environment variable.
func pathEnv() string {
	return strings.ToUpper(pkg.Name) + "_PATH"
}
