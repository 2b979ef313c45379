package site

import (
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	foundationerrors "git.home.luguber.info/inful/blogbuilder/internal/foundation/errors"
	"git.home.luguber.info/inful/blogbuilder/internal/logfields"
)

// Artifact is one rendered output file.
type Artifact struct {
	Path string // relative to the output directory, slash separated
	Data []byte
	Kind string
}

// write stores an artifact below the output directory, creating parent
// directories as needed, and counts it in the report.
func (bs *BuildState) write(rel string, data []byte, kind string) error {
	a := Artifact{Path: rel, Data: data, Kind: kind}
	if err := writeArtifact(bs.Config.Paths.Output, a); err != nil {
		return err
	}
	bs.Report.addArtifact(kind)
	bs.recorder.AddArtifacts(kind, 1)
	return nil
}

func writeArtifact(outDir string, a Artifact) error {
	full := filepath.Join(outDir, filepath.FromSlash(a.Path))
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return foundationerrors.WrapError(err, foundationerrors.CategoryFileSystem, "create artifact directory").
			WithContext("path", full).
			Build()
	}
	// #nosec G306 -- published site files are world readable.
	if err := os.WriteFile(full, a.Data, 0o644); err != nil {
		return foundationerrors.WrapError(err, foundationerrors.CategoryFileSystem, "write artifact").
			WithContext("path", full).
			Build()
	}
	slog.Debug("Wrote artifact", logfields.Path(a.Path), slog.String("kind", a.Kind), slog.Int("bytes", len(a.Data)))
	return nil
}

// copyTree copies every regular file below src into dst, preserving the
// relative layout. It returns the number of files copied.
func copyTree(src, dst string) (int, error) {
	copied := 0
	err := filepath.WalkDir(src, func(p string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		rel, err := filepath.Rel(src, p)
		if err != nil {
			return err
		}
		target := filepath.Join(dst, rel)
		if d.IsDir() {
			return os.MkdirAll(target, 0o755)
		}
		if !d.Type().IsRegular() {
			slog.Debug("Skipping non-regular static entry", logfields.Path(p))
			return nil
		}
		if err := copyFile(p, target); err != nil {
			return err
		}
		copied++
		slog.Debug("Copied static file", logfields.Path(filepath.ToSlash(rel)))
		return nil
	})
	if err != nil {
		return copied, foundationerrors.WrapError(err, foundationerrors.CategoryFileSystem, "copy static assets").
			WithContext("path", src).
			Build()
	}
	return copied, nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(filepath.Clean(src))
	if err != nil {
		return err
	}
	defer func() { _ = in.Close() }()

	// #nosec G302 G304 -- destination is inside the configured output directory.
	out, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		return err
	}
	return out.Close()
}
