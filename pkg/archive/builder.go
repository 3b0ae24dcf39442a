package archive

import (
	"archive/zip"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"

	"github.com/pkg/errors"

	"github.com/jingkaihe/skillsync/pkg/skills"
)

// BuildOption configures a Build call
type BuildOption func(*builder)

// WithBuildProgress registers a callback invoked once per packaged file
// with the assigned archive entry name. Presentation concerns stay with
// the caller; the builder itself never prints.
func WithBuildProgress(fn func(file skills.SkillFile, entryName string)) BuildOption {
	return func(b *builder) {
		b.progress = fn
	}
}

type builder struct {
	progress func(file skills.SkillFile, entryName string)
}

// Build packages the given skill files into a zip archive at dest and
// returns the sha256 hex digest of the finished archive bytes.
//
// Entry names are derived from each file's skill directory name with a
// per-name occurrence counter: the first "foo" becomes foo.md, repeats
// become foo_1.md, foo_2.md and so on in input order. One manifest line
// entry_name=relative_path is recorded per file, and the manifest is
// written as the final archive entry before the archive is finalized.
//
// The digest is computed over the complete finished file, so it
// fingerprints exactly the bytes that will be transmitted. On failure a
// partially written archive may be left at dest; the caller owns cleanup.
func Build(files []skills.SkillFile, dest string, opts ...BuildOption) (string, error) {
	b := &builder{}
	for _, opt := range opts {
		opt(b)
	}

	out, err := os.Create(dest)
	if err != nil {
		return "", errors.Wrapf(err, "failed to create archive at %s", dest)
	}
	defer out.Close()

	zw := zip.NewWriter(out)

	manifest := &Manifest{}
	nameCount := make(map[string]int)

	for _, file := range files {
		content, err := os.ReadFile(file.Path)
		if err != nil {
			return "", errors.Wrapf(err, "failed to read skill file %s", file.Path)
		}

		entryName := nextEntryName(nameCount, file.SkillName)

		w, err := zw.Create(entryName)
		if err != nil {
			return "", errors.Wrapf(err, "failed to create archive entry %s", entryName)
		}
		if _, err := w.Write(content); err != nil {
			return "", errors.Wrapf(err, "failed to write archive entry %s", entryName)
		}

		manifest.Add(entryName, file.RelPath)

		if b.progress != nil {
			b.progress(file, entryName)
		}
	}

	mw, err := zw.Create(ManifestName)
	if err != nil {
		return "", errors.Wrap(err, "failed to create manifest entry")
	}
	if _, err := mw.Write(manifest.Encode()); err != nil {
		return "", errors.Wrap(err, "failed to write manifest entry")
	}

	if err := zw.Close(); err != nil {
		return "", errors.Wrap(err, "failed to finalize archive")
	}
	if err := out.Close(); err != nil {
		return "", errors.Wrap(err, "failed to close archive")
	}

	return fileChecksum(dest)
}

// nextEntryName assigns a unique archive entry name for a skill name,
// counting occurrences within a single build
func nextEntryName(nameCount map[string]int, skillName string) string {
	count := nameCount[skillName]
	nameCount[skillName]++

	if count == 0 {
		return skillName + ".md"
	}
	return fmt.Sprintf("%s_%d.md", skillName, count)
}

// fileChecksum computes the sha256 hex digest of a file's contents
func fileChecksum(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", errors.Wrapf(err, "failed to open %s for hashing", path)
	}
	defer f.Close()

	hasher := sha256.New()
	if _, err := io.Copy(hasher, f); err != nil {
		return "", errors.Wrapf(err, "failed to hash %s", path)
	}

	return hex.EncodeToString(hasher.Sum(nil)), nil
}
