package site

import (
	"git.home.luguber.info/inful/blogbuilder/internal/config"
	"git.home.luguber.info/inful/blogbuilder/internal/content"
	"git.home.luguber.info/inful/blogbuilder/internal/markdown"
	"git.home.luguber.info/inful/blogbuilder/internal/metrics"
	"git.home.luguber.info/inful/blogbuilder/internal/templates"
)

// BuildState carries the inputs and intermediate results shared by stages.
type BuildState struct {
	Config    *config.Config
	Report    *BuildReport
	Markdown  *markdown.Renderer
	Templates *templates.Renderer
	recorder  metrics.Recorder

	// Posts is filled by load_posts, newest first, and never reordered.
	Posts []*content.Document
	// About is the standalone about document; nil when absent in the bio profile.
	About *content.Document
}
