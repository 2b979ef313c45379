package site

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/blogbuilder/internal/config"
	foundationerrors "git.home.luguber.info/inful/blogbuilder/internal/foundation/errors"
	"git.home.luguber.info/inful/blogbuilder/internal/metrics"
)

func TestBuildReport_Finish(t *testing.T) {
	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	tests := []struct {
		name string
		err  error
		want metrics.BuildOutcomeLabel
	}{
		{"success", nil, metrics.BuildOutcomeSuccess},
		{"failed", errors.New("boom"), metrics.BuildOutcomeFailed},
		{"canceled", fmt.Errorf("stage: %w", context.Canceled), metrics.BuildOutcomeCanceled},
		{"deadline", context.DeadlineExceeded, metrics.BuildOutcomeCanceled},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newBuildReport("id", config.ProfileBio, start)
			r.finish(start.Add(1500*time.Millisecond), tt.err)
			assert.Equal(t, tt.want, r.Outcome)
			assert.Equal(t, 1500*time.Millisecond, r.Duration())
		})
	}
}

func TestBuildReport_Summary(t *testing.T) {
	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	r := newBuildReport("id", config.ProfileFull, start)
	r.Posts = 2
	r.addArtifact(KindPage)
	r.addArtifact(KindPage)
	r.addArtifact(KindFeed)
	r.finish(start.Add(42*time.Millisecond), nil)

	assert.Equal(t, 3, r.ArtifactCount())
	assert.Equal(t, "outcome=success posts=2 artifacts=3 [feed=1 page=2] duration=42ms", r.Summary())
	assert.NotEmpty(t, r.LogAttrs())
}

func TestRunStages_StopsOnFirstError(t *testing.T) {
	bs := &BuildState{Report: newBuildReport("id", config.ProfileBio, time.Now())}
	var ran []string
	stages := []StageDef{
		{Name: "one", Fn: func(context.Context, *BuildState) error { ran = append(ran, "one"); return nil }},
		{Name: "two", Fn: func(context.Context, *BuildState) error { ran = append(ran, "two"); return errors.New("boom") }},
		{Name: "three", Fn: func(context.Context, *BuildState) error { ran = append(ran, "three"); return nil }},
	}

	err := runStages(context.Background(), bs, stages, NoopObserver{})
	require.Error(t, err)
	assert.Equal(t, []string{"one", "two"}, ran)
	assert.True(t, foundationerrors.HasCategory(err, foundationerrors.CategoryInternal))
	assert.Equal(t, metrics.ResultFatal, bs.Report.StageResults["two"])
	assert.NotContains(t, bs.Report.StageResults, StageName("three"))
}

func TestRunStages_SkipsStage(t *testing.T) {
	bs := &BuildState{Report: newBuildReport("id", config.ProfileBio, time.Now())}
	stages := []StageDef{{
		Name: "skipped",
		Fn:   func(context.Context, *BuildState) error { t.Fatal("must not run"); return nil },
		Skip: func(*BuildState) bool { return true },
	}}

	require.NoError(t, runStages(context.Background(), bs, stages, NoopObserver{}))
	assert.Equal(t, metrics.ResultSkipped, bs.Report.StageResults["skipped"])
}

func TestStageError_KeepsCategory(t *testing.T) {
	orig := foundationerrors.RenderError("render post").Build()
	err := stageError(StageRenderPosts, orig)

	ce, ok := foundationerrors.AsClassified(err)
	require.True(t, ok)
	assert.Equal(t, foundationerrors.CategoryRender, ce.Category())
	stage, ok := ce.Context().GetString("stage")
	require.True(t, ok)
	assert.Equal(t, "render_posts", stage)
}
