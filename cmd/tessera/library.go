package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/spf13/cobra"

	"github.com/alexisbeaulieu97/tessera/internal/anim"
	"github.com/alexisbeaulieu97/tessera/internal/config"
	"github.com/alexisbeaulieu97/tessera/internal/events"
	"github.com/alexisbeaulieu97/tessera/internal/logger"
	"github.com/alexisbeaulieu97/tessera/internal/loop"
	"github.com/alexisbeaulieu97/tessera/internal/ui"
)

var unsafePathChars = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

// workspace is everything a command needs once the library is loaded.
type workspace struct {
	log     *logger.Logger
	library *config.Library
	engine  *ui.Engine
	clock   *loop.Manual
}

func newLogger(cmd *cobra.Command, flags *rootFlags) (*logger.Logger, error) {
	level := "warn"
	if flags.verbose {
		level = "debug"
	}
	return logger.New(logger.Options{Level: level, HumanReadable: true, Writer: cmd.ErrOrStderr()})
}

// loadWorkspace fetches --repo when set, then loads every definition found
// under paths. With no paths and no repository the current directory is used.
func loadWorkspace(cmd *cobra.Command, flags *rootFlags, paths []string) (*workspace, error) {
	log, err := newLogger(cmd, flags)
	if err != nil {
		return nil, newCommandError("load definitions", "creating logger", err, "Check the --verbose flag.")
	}

	if flags.repo != "" {
		dir, err := fetchRepository(cmd.Context(), flags, log)
		if err != nil {
			return nil, err
		}
		paths = append(paths, dir)
	}
	if len(paths) == 0 {
		paths = []string{"."}
	}

	lib, err := config.LoadLibrary(paths...)
	if err != nil {
		return nil, newCommandError("load definitions", strings.Join(paths, ", "), err, "Fix the reported document and try again.")
	}

	clock := loop.NewManual()
	opts := ui.Options{Logger: log, Scheduler: clock, Animator: anim.New(clock, anim.DefaultFrame)}
	catalog, err := lib.Catalog()
	if err != nil {
		return nil, newCommandError("load definitions", "building translations", err, "Translation catalogs map locales to nested string tables.")
	}
	if catalog != nil {
		if flags.locale != "" {
			catalog.SetLocale(flags.locale)
		}
		opts.Translator = catalog
	}

	engine, err := lib.Engine(opts, builtinHooks(log))
	if err != nil {
		return nil, newCommandError("load definitions", "registering definitions", err, "Hooks may only run the built-in callbacks: log, stop, prevent.")
	}
	log.WithFields(map[string]any{
		"documents":   len(lib.Documents),
		"definitions": len(engine.Registry().Names()),
	}).Debug("definitions loaded")

	return &workspace{log: log, library: lib, engine: engine, clock: clock}, nil
}

func fetchRepository(ctx context.Context, flags *rootFlags, log *logger.Logger) (string, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	base := flags.cacheDir
	if base == "" {
		cache, err := os.UserCacheDir()
		if err != nil {
			return "", newCommandError("fetch library", "determining cache directory", err, "Pass --cache-dir explicitly.")
		}
		base = filepath.Join(cache, "tessera")
	}
	dest := filepath.Join(base, unsafePathChars.ReplaceAllString(flags.repo, "_"))

	head, err := config.FetchLibrary(ctx, config.FetchOptions{
		URL:         flags.repo,
		Branch:      flags.branch,
		Destination: dest,
	})
	if err != nil {
		return "", newCommandError("fetch library", flags.repo, err, "Check the repository URL and your network access.")
	}
	log.WithFields(map[string]any{"repo": flags.repo, "head": head, "path": dest}).Info("library fetched")
	return dest, nil
}

// builtinHooks are the callbacks definition documents can name from the CLI.
func builtinHooks(log *logger.Logger) config.HookLibrary {
	return config.HookLibrary{
		"log": func(inst *ui.Instance, ev *events.Event) error {
			log.WithFields(map[string]any{"definition": inst.Name(), "event": ev.Type}).Info("hook fired")
			return nil
		},
		"stop": func(_ *ui.Instance, ev *events.Event) error {
			ev.StopPropagation()
			return nil
		},
		"prevent": func(_ *ui.Instance, ev *events.Event) error {
			ev.PreventDefault()
			return nil
		},
	}
}

// resolveAll resolves every registered definition, returning the failures.
func resolveAll(engine *ui.Engine) []error {
	var errs []error
	for _, name := range engine.Registry().Names() {
		if _, err := engine.Registry().Resolve(name); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", name, err))
		}
	}
	return errs
}
