package archive

import (
	"archive/zip"
	"io"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
)

// RestoreOption configures a Restore call
type RestoreOption func(*restorer)

// WithRestoreProgress registers a callback invoked once per restored entry
// with the entry name and the home-relative destination path
func WithRestoreProgress(fn func(entryName, relPath string)) RestoreOption {
	return func(r *restorer) {
		r.progress = fn
	}
}

type restorer struct {
	progress func(entryName, relPath string)
}

// Restore extracts a previously built archive, recreating every manifested
// file at home/relative_path. Returns the home-relative paths that were
// restored.
//
// Destinations come from the embedded manifest, not from a flat extraction
// root: restore puts files back where they were exported from. Anything
// already present at a destination is removed first, recursively for a
// directory, so restoring the same archive twice yields the same final
// state. Entries with no manifest mapping are skipped and never written
// to disk.
func Restore(archivePath, home string, opts ...RestoreOption) ([]string, error) {
	r := &restorer{}
	for _, opt := range opts {
		opt(r)
	}

	zr, err := zip.OpenReader(archivePath)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open archive %s", archivePath)
	}
	defer zr.Close()

	mapping, err := readManifest(&zr.Reader)
	if err != nil {
		return nil, err
	}

	var restored []string
	for _, entry := range zr.File {
		if entry.Name == ManifestName {
			continue
		}

		relPath, ok := mapping[entry.Name]
		if !ok || relPath == "" {
			continue
		}

		dest := filepath.Join(home, filepath.FromSlash(relPath))
		if err := writeEntry(entry, dest); err != nil {
			return restored, errors.Wrapf(err, "failed to restore %s", relPath)
		}

		restored = append(restored, relPath)
		if r.progress != nil {
			r.progress(entry.Name, relPath)
		}
	}

	return restored, nil
}

// readManifest locates and parses the manifest entry
func readManifest(zr *zip.Reader) (map[string]string, error) {
	f, err := zr.Open(ManifestName)
	if err != nil {
		return nil, errors.Wrap(err, "archive has no manifest entry")
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read manifest entry")
	}

	return ParseManifest(data), nil
}

// writeEntry replaces whatever exists at dest with the entry's bytes
func writeEntry(entry *zip.File, dest string) error {
	if info, err := os.Lstat(dest); err == nil {
		if info.IsDir() {
			if err := os.RemoveAll(dest); err != nil {
				return errors.Wrap(err, "failed to remove existing directory")
			}
		} else if err := os.Remove(dest); err != nil {
			return errors.Wrap(err, "failed to remove existing file")
		}
	}

	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return errors.Wrap(err, "failed to create parent directories")
	}

	src, err := entry.Open()
	if err != nil {
		return errors.Wrap(err, "failed to open archive entry")
	}
	defer src.Close()

	out, err := os.Create(dest)
	if err != nil {
		return errors.Wrap(err, "failed to create destination file")
	}
	defer out.Close()

	if _, err := io.Copy(out, src); err != nil {
		return errors.Wrap(err, "failed to write destination file")
	}

	return out.Close()
}
