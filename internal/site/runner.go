package site

import (
	"context"
	"time"

	foundationerrors "git.home.luguber.info/inful/blogbuilder/internal/foundation/errors"
	"git.home.luguber.info/inful/blogbuilder/internal/metrics"
)

// runStages executes stages in order, recording timing and stopping on the
// first error. Cancellation is checked between stages only.
func runStages(ctx context.Context, bs *BuildState, stages []StageDef, obs BuildObserver) error {
	for _, st := range stages {
		if err := ctx.Err(); err != nil {
			bs.Report.recordStage(st.Name, 0, metrics.ResultCanceled)
			obs.OnStageComplete(st.Name, 0, metrics.ResultCanceled)
			return foundationerrors.WrapError(err, foundationerrors.CategoryInternal, "build canceled").
				WithContext("stage", string(st.Name)).
				Build()
		}
		if st.Skip != nil && st.Skip(bs) {
			bs.Report.recordStage(st.Name, 0, metrics.ResultSkipped)
			obs.OnStageComplete(st.Name, 0, metrics.ResultSkipped)
			continue
		}

		obs.OnStageStart(st.Name)
		t0 := time.Now()
		err := st.Fn(ctx, bs)
		dur := time.Since(t0)

		result := metrics.ResultSuccess
		if err != nil {
			result = metrics.ResultFatal
		}
		bs.Report.recordStage(st.Name, dur, result)
		obs.OnStageComplete(st.Name, dur, result)
		if err != nil {
			return stageError(st.Name, err)
		}
	}
	return nil
}

// stageError tags err with the failing stage, classifying it as internal when
// the stage returned a plain error.
func stageError(stage StageName, err error) error {
	if ce, ok := foundationerrors.AsClassified(err); ok {
		return ce.WithContext("stage", string(stage))
	}
	return foundationerrors.WrapError(err, foundationerrors.CategoryInternal, "stage failed").
		WithContext("stage", string(stage)).
		Build()
}
