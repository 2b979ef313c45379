package metrics

import (
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
)

const namespace = "blogbuilder"

// PrometheusRecorder implements Recorder using Prometheus metrics.
type PrometheusRecorder struct {
	stageDuration *prom.HistogramVec
	buildDuration prom.Histogram
	stageResults  *prom.CounterVec
	buildOutcome  *prom.CounterVec
	artifacts     *prom.CounterVec
	posts         prom.Gauge
	lastBuild     prom.Gauge
}

// NewPrometheusRecorder constructs the build metrics and registers them on reg.
// A nil reg gets a private registry.
func NewPrometheusRecorder(reg *prom.Registry) *PrometheusRecorder {
	if reg == nil {
		reg = prom.NewRegistry()
	}
	pr := &PrometheusRecorder{}
	pr.stageDuration = prom.NewHistogramVec(prom.HistogramOpts{
		Namespace: namespace,
		Name:      "stage_duration_seconds",
		Help:      "Duration of individual build stages",
		Buckets:   prom.DefBuckets,
	}, []string{"stage"})
	pr.buildDuration = prom.NewHistogram(prom.HistogramOpts{
		Namespace: namespace,
		Name:      "build_duration_seconds",
		Help:      "Total build duration",
		Buckets:   prom.DefBuckets,
	})
	pr.stageResults = prom.NewCounterVec(prom.CounterOpts{
		Namespace: namespace,
		Name:      "stage_results_total",
		Help:      "Stage result counts by outcome",
	}, []string{"stage", "result"})
	pr.buildOutcome = prom.NewCounterVec(prom.CounterOpts{
		Namespace: namespace,
		Name:      "build_outcomes_total",
		Help:      "Build outcomes by final status",
	}, []string{"outcome"})
	pr.artifacts = prom.NewCounterVec(prom.CounterOpts{
		Namespace: namespace,
		Name:      "artifacts_written_total",
		Help:      "Files written to the output directory by kind",
	}, []string{"kind"})
	pr.posts = prom.NewGauge(prom.GaugeOpts{
		Namespace: namespace,
		Name:      "posts",
		Help:      "Number of posts in the last build",
	})
	pr.lastBuild = prom.NewGauge(prom.GaugeOpts{
		Namespace: namespace,
		Name:      "last_build_success_timestamp_seconds",
		Help:      "Unix time of the last successful build",
	})
	reg.MustRegister(pr.stageDuration, pr.buildDuration, pr.stageResults, pr.buildOutcome, pr.artifacts, pr.posts, pr.lastBuild)
	return pr
}

func (p *PrometheusRecorder) ObserveStageDuration(stage string, d time.Duration) {
	if p == nil || p.stageDuration == nil {
		return
	}
	p.stageDuration.WithLabelValues(stage).Observe(d.Seconds())
}

func (p *PrometheusRecorder) ObserveBuildDuration(d time.Duration) {
	if p == nil || p.buildDuration == nil {
		return
	}
	p.buildDuration.Observe(d.Seconds())
}

func (p *PrometheusRecorder) IncStageResult(stage string, result ResultLabel) {
	if p == nil || p.stageResults == nil {
		return
	}
	p.stageResults.WithLabelValues(stage, string(result)).Inc()
}

func (p *PrometheusRecorder) IncBuildOutcome(outcome BuildOutcomeLabel) {
	if p == nil || p.buildOutcome == nil {
		return
	}
	p.buildOutcome.WithLabelValues(string(outcome)).Inc()
	if outcome == BuildOutcomeSuccess {
		p.lastBuild.SetToCurrentTime()
	}
}

func (p *PrometheusRecorder) AddArtifacts(kind string, n int) {
	if p == nil || p.artifacts == nil || n <= 0 {
		return
	}
	p.artifacts.WithLabelValues(kind).Add(float64(n))
}

func (p *PrometheusRecorder) SetPosts(n int) {
	if p == nil || p.posts == nil {
		return
	}
	p.posts.Set(float64(n))
}
