package site

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"git.home.luguber.info/inful/blogbuilder/internal/config"
	"git.home.luguber.info/inful/blogbuilder/internal/linkverify"
	"git.home.luguber.info/inful/blogbuilder/internal/logfields"
	"git.home.luguber.info/inful/blogbuilder/internal/metrics"
)

// Artifact kinds counted in the report.
const (
	KindPage   = "page"
	KindFeed   = "feed"
	KindMarker = "marker"
	KindStatic = "static"
)

// BuildReport summarizes one build run.
type BuildReport struct {
	BuildID        string
	Profile        config.Profile
	Start          time.Time
	End            time.Time
	Posts          int
	Artifacts      map[string]int // kind -> files written
	Stages         []StageName    // stages in the order they were visited
	StageDurations map[StageName]time.Duration
	StageResults   map[StageName]metrics.ResultLabel
	BrokenLinks    []linkverify.BrokenLink
	Outcome        metrics.BuildOutcomeLabel
	Err            error
}

func newBuildReport(buildID string, profile config.Profile, start time.Time) *BuildReport {
	return &BuildReport{
		BuildID:        buildID,
		Profile:        profile,
		Start:          start,
		Artifacts:      map[string]int{},
		StageDurations: map[StageName]time.Duration{},
		StageResults:   map[StageName]metrics.ResultLabel{},
	}
}

func (r *BuildReport) recordStage(stage StageName, d time.Duration, result metrics.ResultLabel) {
	r.Stages = append(r.Stages, stage)
	r.StageDurations[stage] = d
	r.StageResults[stage] = result
}

func (r *BuildReport) addArtifact(kind string) {
	r.Artifacts[kind]++
}

// finish stamps the end time and derives the outcome from the build error.
func (r *BuildReport) finish(end time.Time, err error) {
	r.End = end
	r.Err = err
	switch {
	case err == nil:
		r.Outcome = metrics.BuildOutcomeSuccess
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		r.Outcome = metrics.BuildOutcomeCanceled
	default:
		r.Outcome = metrics.BuildOutcomeFailed
	}
}

// ArtifactCount is the total number of files written.
func (r *BuildReport) ArtifactCount() int {
	n := 0
	for _, c := range r.Artifacts {
		n += c
	}
	return n
}

// Duration is the wall time between start and end.
func (r *BuildReport) Duration() time.Duration {
	if r.End.IsZero() {
		return 0
	}
	return r.End.Sub(r.Start)
}

// Summary renders a one-line human readable description.
func (r *BuildReport) Summary() string {
	kinds := make([]string, 0, len(r.Artifacts))
	for k := range r.Artifacts {
		kinds = append(kinds, k)
	}
	sort.Strings(kinds)
	parts := make([]string, 0, len(kinds))
	for _, k := range kinds {
		parts = append(parts, fmt.Sprintf("%s=%d", k, r.Artifacts[k]))
	}
	return fmt.Sprintf("outcome=%s posts=%d artifacts=%d [%s] duration=%s",
		r.Outcome, r.Posts, r.ArtifactCount(), strings.Join(parts, " "), r.Duration().Round(time.Millisecond))
}

// LogAttrs returns the report fields for structured logging.
func (r *BuildReport) LogAttrs() []any {
	attrs := []any{
		logfields.BuildID(r.BuildID),
		logfields.Profile(string(r.Profile)),
		slog.String("outcome", string(r.Outcome)),
		slog.Int("posts", r.Posts),
		logfields.Count(r.ArtifactCount()),
		logfields.Duration(r.Duration()),
	}
	if len(r.BrokenLinks) > 0 {
		attrs = append(attrs, slog.Int("broken_links", len(r.BrokenLinks)))
	}
	return attrs
}
