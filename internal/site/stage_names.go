package site

import "context"

// StageName identifies a build stage in logs, metrics and the report.
type StageName string

// Canonical stage names, in execution order.
const (
	StagePrepareOutput StageName = "prepare_output"
	StageCopyStatic    StageName = "copy_static"
	StageLoadPosts     StageName = "load_posts"
	StageRenderPosts   StageName = "render_posts"
	StageRenderHome    StageName = "render_home"
	StageRenderPages   StageName = "render_pages"
	StageRenderFeed    StageName = "render_feed"
	StageWriteMarkers  StageName = "write_markers"
	StageVerifyLinks   StageName = "verify_links"
)

// Stage executes one step of the build against the shared state.
type Stage func(ctx context.Context, bs *BuildState) error

// StageDef pairs a stage name with its function. Skip, when set and true for
// the current state, records the stage as skipped without running it.
type StageDef struct {
	Name StageName
	Fn   Stage
	Skip func(bs *BuildState) bool
}

// stagePipeline returns the stages of a build in order.
func stagePipeline() []StageDef {
	return []StageDef{
		{Name: StagePrepareOutput, Fn: stagePrepareOutput},
		{Name: StageCopyStatic, Fn: stageCopyStatic},
		{Name: StageLoadPosts, Fn: stageLoadPosts},
		{Name: StageRenderPosts, Fn: stageRenderPosts},
		{Name: StageRenderHome, Fn: stageRenderHome},
		{Name: StageRenderPages, Fn: stageRenderPages, Skip: withoutListingPages},
		{Name: StageRenderFeed, Fn: stageRenderFeed},
		{Name: StageWriteMarkers, Fn: stageWriteMarkers},
		{Name: StageVerifyLinks, Fn: stageVerifyLinks, Skip: linkVerificationDisabled},
	}
}

func withoutListingPages(bs *BuildState) bool {
	return !bs.Config.Site.Profile.HasListingPages()
}

func linkVerificationDisabled(bs *BuildState) bool {
	return !bs.Config.Build.VerifyLinks
}
