package commands

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"git.home.luguber.info/inful/blogbuilder/internal/config"
	"git.home.luguber.info/inful/blogbuilder/internal/logfields"
	"git.home.luguber.info/inful/blogbuilder/internal/watch"
)

// WatchCmd implements the 'watch' command.
type WatchCmd struct {
	BuildCmd
	Debounce time.Duration `help:"Quiet period before a rebuild" default:"300ms"`
}

func (w *WatchCmd) Run(_ *Global, root *CLI) error {
	cfg, err := loadConfig(root.Config, &w.BuildCmd)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return RunWatch(ctx, cfg, root.Config, w.Debounce)
}

// RunWatch builds once and then rebuilds on every change to the posts,
// about page, static assets or configuration file. Build failures are logged
// and do not stop watching.
func RunWatch(ctx context.Context, cfg *config.Config, configPath string, debounce time.Duration) error {
	rebuild := func(ctx context.Context) error {
		_, err := RunBuild(ctx, cfg, os.Stdout)
		return err
	}
	if err := rebuild(ctx); err != nil {
		slog.Warn("Initial build failed; waiting for changes", logfields.Error(err))
	}

	w := watch.New(WatchPaths(cfg, configPath), rebuild,
		watch.WithDebounce(debounce),
		watch.WithIgnore(cfg.Paths.Output),
		watch.WithIgnoreFile(cfg.Build.MetricsFile))
	return w.Run(ctx)
}

// WatchPaths lists the inputs that affect a build.
func WatchPaths(cfg *config.Config, configPath string) []string {
	paths := []string{cfg.Paths.Posts, cfg.Paths.Static}
	if cfg.Paths.About != "" {
		paths = append(paths, cfg.Paths.About)
	}
	if configPath != "" {
		paths = append(paths, filepath.Clean(configPath))
	}
	return paths
}
