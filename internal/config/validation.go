package config

import (
	"net/url"
	"path/filepath"

	"git.home.luguber.info/inful/blogbuilder/internal/foundation"
)

var configValidator = foundation.NewValidatorChain(
	foundation.Field(func(c *Config) string { return c.Site.Title }, foundation.Required("site.title")),
	validateBaseURL,
	foundation.Field(func(c *Config) Profile { return c.Site.Profile },
		foundation.OneOf("site.profile", []Profile{ProfileBio, ProfileFull})),
	validateOutput,
)

// Validate checks the settings a build cannot run without. All failures are
// reported together as one validation error.
func (c *Config) Validate() error {
	return configValidator.Validate(c).ToError()
}

func validateBaseURL(c *Config) foundation.ValidationResult {
	u, err := url.Parse(c.Site.BaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		fe := foundation.NewValidationError("site.base_url", "absolute_url", "must be an absolute http(s) URL")
		fe.Value = c.Site.BaseURL
		return foundation.Invalid(fe)
	}
	return foundation.Valid()
}

// validateOutput keeps the output directory away from the inputs, since every
// build writes into it.
func validateOutput(c *Config) foundation.ValidationResult {
	out := filepath.Clean(c.Paths.Output)
	if out == "." || out == "/" {
		fe := foundation.NewValidationError("paths.output", "dedicated_dir", "must be a dedicated directory")
		fe.Value = c.Paths.Output
		return foundation.Invalid(fe)
	}
	result := foundation.Valid()
	for _, in := range []struct{ field, path string }{
		{"paths.posts", c.Paths.Posts},
		{"paths.static", c.Paths.Static},
	} {
		if filepath.Clean(in.path) == out {
			fe := foundation.NewValidationError(in.field, "distinct_output", "must differ from paths.output")
			fe.Value = in.path
			result = result.Combine(foundation.Invalid(fe))
		}
	}
	return result
}
