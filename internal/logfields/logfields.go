package logfields

import (
	"log/slog"
	"time"
)

// Canonical log field names shared by the builder, CLI and watcher.
const (
	KeyBuildID    = "build_id"
	KeyStage      = "stage"
	KeyPath       = "path"
	KeySlug       = "slug"
	KeyCount      = "count"
	KeyDurationMS = "duration_ms"
	KeyProfile    = "profile"
	KeyError      = "error"
)

func BuildID(id string) slog.Attr  { return slog.String(KeyBuildID, id) }
func Stage(name string) slog.Attr  { return slog.String(KeyStage, name) }
func Path(p string) slog.Attr      { return slog.String(KeyPath, p) }
func Slug(s string) slog.Attr      { return slog.String(KeySlug, s) }
func Count(n int) slog.Attr        { return slog.Int(KeyCount, n) }
func Profile(p string) slog.Attr   { return slog.String(KeyProfile, p) }
func Duration(d time.Duration) slog.Attr {
	return slog.Float64(KeyDurationMS, float64(d.Microseconds())/1000)
}
func Error(err error) slog.Attr {
	if err == nil {
		return slog.String(KeyError, "")
	}
	return slog.String(KeyError, err.Error())
}
