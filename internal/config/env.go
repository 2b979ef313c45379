package config

import (
	"errors"
	"io/fs"
	"log/slog"

	"github.com/joho/godotenv"

	foundationerrors "git.home.luguber.info/inful/blogbuilder/internal/foundation/errors"
)

var envFiles = []string{".env", ".env.local"}

// loadEnvFiles loads the first .env file found. Variables already present in
// the process environment are never overridden.
func loadEnvFiles() error {
	for _, name := range envFiles {
		err := godotenv.Load(name)
		if err == nil {
			slog.Debug("Loaded environment file", "path", name)
			return nil
		}
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		return foundationerrors.WrapError(err, foundationerrors.CategoryConfig, "load environment file").
			Fatal().
			WithContext("path", name).
			Build()
	}
	return nil
}
