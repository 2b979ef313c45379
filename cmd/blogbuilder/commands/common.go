package commands

import (
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/alecthomas/kong"
)

// LogLevelEnv overrides the log level when --verbose is not given.
const LogLevelEnv = "BLOGBUILDER_LOG_LEVEL"

// Global context passed to subcommands.
type Global struct {
	Logger *slog.Logger
}

// CLI definition & global flags. Running the binary without a command builds
// the site.
type CLI struct {
	Config  string           `short:"c" help:"Configuration file path" default:"blogbuilder.yaml"`
	Verbose bool             `short:"v" help:"Enable verbose logging"`
	Version kong.VersionFlag `name:"version" help:"Show version and exit"`

	Build BuildCmd `cmd:"" default:"withargs" help:"Build the site into the output directory (default)"`
	New   NewCmd   `cmd:"" help:"Create a new post with front matter"`
	Init  InitCmd  `cmd:"" help:"Write an example configuration file"`
	Watch WatchCmd `cmd:"" help:"Build, then rebuild whenever posts or static files change"`
}

// AfterApply runs after flag parsing; setup logging once.
// nolint:unparam // AfterApply currently never returns an error.
func (c *CLI) AfterApply(g *Global) error {
	g.Logger = NewLogger(os.Stderr, parseLogLevel(c.Verbose))
	slog.SetDefault(g.Logger)
	return nil
}

// NewLogger returns the text logger used by every command.
func NewLogger(w io.Writer, level slog.Level) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// parseLogLevel resolves the level from --verbose, then BLOGBUILDER_LOG_LEVEL
// (debug, info, warn, error), then info.
func parseLogLevel(verbose bool) slog.Level {
	if verbose {
		return slog.LevelDebug
	}
	raw := strings.TrimSpace(os.Getenv(LogLevelEnv))
	if raw == "" {
		return slog.LevelInfo
	}
	var level slog.Level
	if err := level.UnmarshalText([]byte(raw)); err != nil {
		return slog.LevelInfo
	}
	return level
}
