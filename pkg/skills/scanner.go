package skills

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
)

const (
	skillFileName      = "SKILL.md"
	skillFileNameLower = "skill.md"

	// maxDepth bounds traversal below each root. The root itself is depth 0;
	// files at depth 1-3 are eligible.
	maxDepth = 3
)

// Scanner discovers skill files under a set of root directories
type Scanner struct {
	roots []string
	home  string
}

// RootScan holds the discovery outcome for a single root directory
type RootScan struct {
	Root    string
	Missing bool // root does not exist; not an error
	Files   []SkillFile
}

// ScanResult groups discovered skill files by their originating root,
// preserving root order
type ScanResult struct {
	Roots []RootScan
}

// Files returns all discovered files flattened in root order
func (r *ScanResult) Files() []SkillFile {
	var files []SkillFile
	for _, root := range r.Roots {
		files = append(files, root.Files...)
	}
	return files
}

// Total returns the number of discovered files across all roots
func (r *ScanResult) Total() int {
	n := 0
	for _, root := range r.Roots {
		n += len(root.Files)
	}
	return n
}

// Option is a function that configures a Scanner
type Option func(*Scanner)

// WithRoots sets explicit root directories to scan
func WithRoots(dirs ...string) Option {
	return func(s *Scanner) {
		s.roots = dirs
	}
}

// WithDefaultRoots configures the default root pair under the home
// directory. Both roots are always included; a missing one is skipped
// during the scan.
func WithDefaultRoots() Option {
	return func(s *Scanner) {
		s.roots = []string{
			filepath.Join(s.home, ".claude", "skills"),
			filepath.Join(s.home, ".codex", "skills"),
		}
	}
}

// NewScanner creates a Scanner rooted at the given home directory. With no
// options the default root pair is used.
func NewScanner(home string, opts ...Option) (*Scanner, error) {
	if home == "" {
		return nil, errors.New("home directory is required")
	}

	s := &Scanner{home: home}

	if len(opts) == 0 {
		WithDefaultRoots()(s)
	} else {
		for _, opt := range opts {
			opt(s)
		}
	}

	return s, nil
}

// Roots returns the configured root directories in scan order
func (s *Scanner) Roots() []string {
	return s.roots
}

// Scan walks every configured root depth-first and collects skill files.
// A root that does not exist is recorded as missing rather than failing
// the scan.
func (s *Scanner) Scan() (*ScanResult, error) {
	result := &ScanResult{}

	for _, root := range s.roots {
		rs := RootScan{Root: root}

		if _, err := os.Stat(root); err != nil {
			rs.Missing = true
			result.Roots = append(result.Roots, rs)
			continue
		}

		files, err := s.scanRoot(root)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to scan %s", root)
		}
		rs.Files = files
		result.Roots = append(result.Roots, rs)
	}

	return result, nil
}

// scanRoot walks a single root, honoring the depth bound
func (s *Scanner) scanRoot(root string) ([]SkillFile, error) {
	var files []SkillFile

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if path == root {
			return nil
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		depth := len(strings.Split(filepath.ToSlash(rel), "/"))

		if d.IsDir() {
			if depth >= maxDepth {
				return filepath.SkipDir
			}
			return nil
		}

		name := d.Name()
		if name != skillFileName && name != skillFileNameLower {
			return nil
		}
		if depth > maxDepth {
			return nil
		}

		files = append(files, s.newSkillFile(path))
		return nil
	})
	if err != nil {
		return nil, err
	}

	return files, nil
}

// newSkillFile builds a SkillFile for an absolute path. The relative path
// is the portable identity of the file; when the file lives outside the
// home directory the slash-normalized absolute path is used instead.
func (s *Scanner) newSkillFile(path string) SkillFile {
	rel, err := filepath.Rel(s.home, path)
	if err != nil || strings.HasPrefix(rel, "..") {
		rel = path
	}

	return SkillFile{
		Path:      path,
		RelPath:   filepath.ToSlash(rel),
		SkillName: filepath.Base(filepath.Dir(path)),
	}
}
