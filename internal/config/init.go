package config

import (
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	foundationerrors "git.home.luguber.info/inful/blogbuilder/internal/foundation/errors"
)

// Init writes an example configuration file populated with the defaults.
func Init(path string, force bool) error {
	if _, err := os.Stat(path); err == nil && !force {
		return foundationerrors.ConfigError("configuration file already exists (use --force to overwrite)").
			WithContext("path", path).
			Build()
	}

	data, err := yaml.Marshal(Default())
	if err != nil {
		return foundationerrors.WrapError(err, foundationerrors.CategoryInternal, "marshal example configuration").Build()
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return foundationerrors.WrapError(err, foundationerrors.CategoryFileSystem, "create configuration directory").
				WithContext("path", dir).
				Build()
		}
	}
	// #nosec G306 -- configuration is not secret and is meant to be committed.
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return foundationerrors.WrapError(err, foundationerrors.CategoryFileSystem, "write configuration file").
			WithContext("path", path).
			Build()
	}
	return nil
}
