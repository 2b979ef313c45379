package site

import (
	"log/slog"
	"time"

	"git.home.luguber.info/inful/blogbuilder/internal/logfields"
	"git.home.luguber.info/inful/blogbuilder/internal/metrics"
)

// BuildObserver receives callbacks around stage execution and build lifecycle.
type BuildObserver interface {
	OnStageStart(stage StageName)
	OnStageComplete(stage StageName, duration time.Duration, result metrics.ResultLabel)
	OnBuildComplete(report *BuildReport)
}

// NoopObserver is a no-op implementation.
type NoopObserver struct{}

func (NoopObserver) OnStageStart(StageName)                                          {}
func (NoopObserver) OnStageComplete(StageName, time.Duration, metrics.ResultLabel) {}
func (NoopObserver) OnBuildComplete(*BuildReport)                                  {}

// recorderObserver adapts metrics.Recorder into a BuildObserver.
type recorderObserver struct{ rec metrics.Recorder }

func (r recorderObserver) OnStageStart(StageName) {}

func (r recorderObserver) OnStageComplete(stage StageName, d time.Duration, result metrics.ResultLabel) {
	if result != metrics.ResultSkipped {
		r.rec.ObserveStageDuration(string(stage), d)
	}
	r.rec.IncStageResult(string(stage), result)
}

func (r recorderObserver) OnBuildComplete(report *BuildReport) {
	r.rec.ObserveBuildDuration(report.Duration())
	r.rec.IncBuildOutcome(report.Outcome)
}

// logObserver writes stage progress to slog.
type logObserver struct{ buildID string }

func (l logObserver) OnStageStart(stage StageName) {
	slog.Debug("Stage started", logfields.BuildID(l.buildID), logfields.Stage(string(stage)))
}

func (l logObserver) OnStageComplete(stage StageName, d time.Duration, result metrics.ResultLabel) {
	attrs := []any{logfields.BuildID(l.buildID), logfields.Stage(string(stage)), logfields.Duration(d), slog.String("result", string(result))}
	if result == metrics.ResultSkipped {
		slog.Debug("Stage skipped", attrs...)
		return
	}
	slog.Info("Stage complete", attrs...)
}

func (l logObserver) OnBuildComplete(report *BuildReport) {
	slog.Info("Build complete", report.LogAttrs()...)
}

// observers fans callbacks out to several observers in order.
type observers []BuildObserver

func (o observers) OnStageStart(stage StageName) {
	for _, obs := range o {
		obs.OnStageStart(stage)
	}
}

func (o observers) OnStageComplete(stage StageName, d time.Duration, result metrics.ResultLabel) {
	for _, obs := range o {
		obs.OnStageComplete(stage, d, result)
	}
}

func (o observers) OnBuildComplete(report *BuildReport) {
	for _, obs := range o {
		obs.OnBuildComplete(report)
	}
}
