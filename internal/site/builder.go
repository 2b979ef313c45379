package site

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"git.home.luguber.info/inful/blogbuilder/internal/config"
	foundationerrors "git.home.luguber.info/inful/blogbuilder/internal/foundation/errors"
	"git.home.luguber.info/inful/blogbuilder/internal/logfields"
	"git.home.luguber.info/inful/blogbuilder/internal/markdown"
	"git.home.luguber.info/inful/blogbuilder/internal/metrics"
	"git.home.luguber.info/inful/blogbuilder/internal/templates"
)

// Builder produces the static site described by a configuration.
type Builder struct {
	cfg      *config.Config
	recorder metrics.Recorder
	observer BuildObserver
	now      func() time.Time
	newID    func() string
}

// Option customizes a Builder.
type Option func(*Builder)

// WithRecorder routes stage and build metrics to rec.
func WithRecorder(rec metrics.Recorder) Option {
	return func(b *Builder) {
		if rec != nil {
			b.recorder = rec
		}
	}
}

// WithObserver adds an observer notified after the logging and metrics observers.
func WithObserver(obs BuildObserver) Option {
	return func(b *Builder) { b.observer = obs }
}

// WithClock replaces time.Now. The clock decides the footer year and the
// report timestamps.
func WithClock(now func() time.Time) Option {
	return func(b *Builder) { b.now = now }
}

// New returns a Builder for cfg. cfg is read but never modified.
func New(cfg *config.Config, opts ...Option) *Builder {
	b := &Builder{
		cfg:      cfg,
		recorder: metrics.NoopRecorder{},
		observer: NoopObserver{},
		now:      time.Now,
		newID:    uuid.NewString,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Build runs every stage once. The report is returned even when the build
// fails, describing how far it got.
func (b *Builder) Build(ctx context.Context) (*BuildReport, error) {
	start := b.now()
	report := newBuildReport(b.newID(), b.cfg.Site.Profile, start)
	obs := observers{logObserver{buildID: report.BuildID}, recorderObserver{rec: b.recorder}, b.observer}

	slog.Info("Starting build",
		logfields.BuildID(report.BuildID),
		logfields.Profile(string(b.cfg.Site.Profile)),
		logfields.Path(b.cfg.Paths.Output))

	bs, err := b.newBuildState(report, start)
	if err == nil {
		err = runStages(ctx, bs, stagePipeline(), obs)
	}

	report.finish(b.now(), err)
	obs.OnBuildComplete(report)
	return report, err
}

func (b *Builder) newBuildState(report *BuildReport, start time.Time) (*BuildState, error) {
	md := markdown.New(markdown.Options{HeadingIDs: b.cfg.Build.HeadingIDs})
	tpl, err := templates.New(templates.SiteFromConfig(b.cfg), md, start.UTC().Year())
	if err != nil {
		return nil, foundationerrors.WrapError(err, foundationerrors.CategoryInternal, "load page templates").Build()
	}
	return &BuildState{
		Config:    b.cfg,
		Report:    report,
		Markdown:  md,
		Templates: tpl,
		recorder:  b.recorder,
	}, nil
}
