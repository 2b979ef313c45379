package site

import (
	"context"
	"log/slog"
	"os"
	"path"
	"strings"

	"git.home.luguber.info/inful/blogbuilder/internal/config"
	"git.home.luguber.info/inful/blogbuilder/internal/content"
	"git.home.luguber.info/inful/blogbuilder/internal/feed"
	foundationerrors "git.home.luguber.info/inful/blogbuilder/internal/foundation/errors"
	"git.home.luguber.info/inful/blogbuilder/internal/linkverify"
	"git.home.luguber.info/inful/blogbuilder/internal/logfields"
)

// Output-relative paths of the fixed artifacts.
const (
	HomePath       = "index.html"
	PostsIndexPath = "posts/index.html"
	AboutPath      = "about/index.html"
	FeedPath       = "feed.xml"
	CNAMEPath      = "CNAME"
	NoJekyllPath   = ".nojekyll"
)

// PostPath returns the output-relative path of a post page.
func PostPath(slug string) string {
	return path.Join("posts", slug, "index.html")
}

func stagePrepareOutput(_ context.Context, bs *BuildState) error {
	out := bs.Config.Paths.Output
	if err := os.MkdirAll(out, 0o755); err != nil {
		return foundationerrors.WrapError(err, foundationerrors.CategoryFileSystem, "create output directory").
			WithContext("path", out).
			Build()
	}
	return nil
}

func stageCopyStatic(_ context.Context, bs *BuildState) error {
	src := bs.Config.Paths.Static
	info, err := os.Stat(src)
	switch {
	case os.IsNotExist(err):
		return foundationerrors.FileSystemError("static directory not found").
			WithContext("path", src).
			Build()
	case err != nil:
		return foundationerrors.WrapError(err, foundationerrors.CategoryFileSystem, "stat static directory").
			WithContext("path", src).
			Build()
	case !info.IsDir():
		return foundationerrors.FileSystemError("static path is not a directory").
			WithContext("path", src).
			Build()
	}

	n, err := copyTree(src, bs.Config.Paths.Output)
	bs.Report.Artifacts[KindStatic] += n
	bs.recorder.AddArtifacts(KindStatic, n)
	return err
}

func stageLoadPosts(_ context.Context, bs *BuildState) error {
	posts, err := content.LoadPosts(bs.Config.Paths.Posts)
	if err != nil {
		return err
	}
	bs.Posts = posts
	bs.Report.Posts = len(posts)
	bs.recorder.SetPosts(len(posts))
	slog.Info("Loaded posts", logfields.Count(len(posts)), logfields.Path(bs.Config.Paths.Posts))

	about, err := loadAbout(bs.Config)
	if err != nil {
		return err
	}
	bs.About = about
	return nil
}

// loadAbout reads the standalone about document. It is optional in the bio
// profile and required when the about page is published.
func loadAbout(cfg *config.Config) (*content.Document, error) {
	p := cfg.Paths.About
	required := cfg.Site.Profile.HasListingPages()
	if p == "" {
		if required {
			return nil, foundationerrors.ConfigError("paths.about must be set for the full profile").Build()
		}
		return nil, nil
	}
	if _, err := os.Stat(p); os.IsNotExist(err) {
		if required {
			return nil, foundationerrors.ContentError("about page not found").
				WithContext("path", p).
				WithContext("profile", string(cfg.Site.Profile)).
				Build()
		}
		slog.Debug("No about document, homepage bio omitted", logfields.Path(p))
		return nil, nil
	}
	return content.LoadPage(p)
}

func stageRenderPosts(ctx context.Context, bs *BuildState) error {
	for _, p := range bs.Posts {
		if err := ctx.Err(); err != nil {
			return err
		}
		html, err := bs.Templates.Post(p)
		if err != nil {
			return renderError(err, "render post", p.SourcePath)
		}
		if err := bs.write(PostPath(p.Slug), []byte(html), KindPage); err != nil {
			return err
		}
	}
	return nil
}

func stageRenderHome(_ context.Context, bs *BuildState) error {
	var bio *content.Document
	if !bs.Config.Site.Profile.HasListingPages() {
		bio = bs.About
	}
	html, err := bs.Templates.Home(bs.Posts, bio)
	if err != nil {
		return renderError(err, "render home page", HomePath)
	}
	return bs.write(HomePath, []byte(html), KindPage)
}

func stageRenderPages(_ context.Context, bs *BuildState) error {
	html, err := bs.Templates.PostsIndex(bs.Posts)
	if err != nil {
		return renderError(err, "render posts index", PostsIndexPath)
	}
	if err := bs.write(PostsIndexPath, []byte(html), KindPage); err != nil {
		return err
	}

	html, err = bs.Templates.About(bs.About)
	if err != nil {
		return renderError(err, "render about page", bs.About.SourcePath)
	}
	return bs.write(AboutPath, []byte(html), KindPage)
}

func stageRenderFeed(_ context.Context, bs *BuildState) error {
	site := bs.Config.Site
	data, err := feed.Build(feed.Channel{
		Title:       site.Title,
		Link:        site.BaseURL,
		Description: site.Description,
		Language:    site.FeedLanguage,
	}, bs.Posts, bs.Markdown)
	if err != nil {
		return renderError(err, "render feed", FeedPath)
	}
	return bs.write(FeedPath, data, KindFeed)
}

func stageWriteMarkers(_ context.Context, bs *BuildState) error {
	if domain := strings.TrimSpace(bs.Config.Site.Domain); domain != "" {
		if err := bs.write(CNAMEPath, []byte(domain), KindMarker); err != nil {
			return err
		}
	} else {
		slog.Debug("No domain configured, CNAME not written")
	}
	return bs.write(NoJekyllPath, nil, KindMarker)
}

func stageVerifyLinks(_ context.Context, bs *BuildState) error {
	res, err := linkverify.Verify(bs.Config.Paths.Output, bs.Config.Site.BaseURL)
	if err != nil {
		return err
	}
	bs.Report.BrokenLinks = res.Broken
	if len(res.Broken) == 0 {
		return nil
	}
	for _, b := range res.Broken {
		slog.Warn("Broken internal link", logfields.Path(b.Page), slog.String("url", b.URL), slog.String("tag", b.Tag))
	}
	return foundationerrors.ValidationError("generated site contains broken internal links").
		WithContext("count", len(res.Broken)).
		WithContext("first", res.Broken[0].String()).
		Build()
}

func renderError(err error, message, source string) error {
	if foundationerrors.IsClassified(err) {
		return err
	}
	return foundationerrors.WrapError(err, foundationerrors.CategoryRender, message).
		Fatal().
		WithContext("path", source).
		Build()
}
