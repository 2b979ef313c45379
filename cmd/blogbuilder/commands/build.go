package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	prom "github.com/prometheus/client_golang/prometheus"

	"git.home.luguber.info/inful/blogbuilder/internal/config"
	foundationerrors "git.home.luguber.info/inful/blogbuilder/internal/foundation/errors"
	"git.home.luguber.info/inful/blogbuilder/internal/logfields"
	"git.home.luguber.info/inful/blogbuilder/internal/metrics"
	"git.home.luguber.info/inful/blogbuilder/internal/site"
)

// BuildCmd implements the 'build' command.
type BuildCmd struct {
	Output      string `short:"o" help:"Override paths.output"`
	Profile     string `short:"p" help:"Override site.profile (bio|full)"`
	VerifyLinks bool   `name:"verify-links" help:"Check internal links in the generated HTML"`
	MetricsFile string `name:"metrics-file" help:"Write Prometheus textfile metrics to this path"`
}

func (b *BuildCmd) Run(_ *Global, root *CLI) error {
	cfg, err := loadConfig(root.Config, b)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	_, err = RunBuild(ctx, cfg, os.Stdout)
	return err
}

// loadConfig reads the configuration file and applies command-line overrides.
func loadConfig(path string, b *BuildCmd) (*config.Config, error) {
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	if b == nil {
		return cfg, nil
	}
	if b.Output != "" {
		cfg.Paths.Output = b.Output
	}
	if b.Profile != "" {
		cfg.Site.Profile = config.NormalizeProfile(b.Profile)
	}
	if b.VerifyLinks {
		cfg.Build.VerifyLinks = true
	}
	if b.MetricsFile != "" {
		cfg.Build.MetricsFile = b.MetricsFile
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	slog.Debug("Configuration loaded", slog.String("config", cfg.String()))
	return cfg, nil
}

// RunBuild performs one build and, when configured, exports its metrics. A
// summary line is printed to out on success.
func RunBuild(ctx context.Context, cfg *config.Config, out io.Writer) (*site.BuildReport, error) {
	var reg *prom.Registry
	var opts []site.Option
	if cfg.Build.MetricsFile != "" {
		reg = prom.NewRegistry()
		opts = append(opts, site.WithRecorder(metrics.NewPrometheusRecorder(reg)))
	}

	report, err := site.New(cfg, opts...).Build(ctx)

	if reg != nil {
		if werr := metrics.WriteTextfile(cfg.Build.MetricsFile, reg); werr != nil {
			if err == nil {
				return report, foundationerrors.WrapError(werr, foundationerrors.CategoryFileSystem, "export build metrics").
					WithContext("path", cfg.Build.MetricsFile).
					Build()
			}
			slog.Warn("Failed to export build metrics", logfields.Path(cfg.Build.MetricsFile), logfields.Error(werr))
		}
	}
	if err != nil {
		return report, err
	}

	_, _ = fmt.Fprintf(out, "Built %s: %s\n", cfg.Paths.Output, report.Summary())
	return report, nil
}
