package skills

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestNewScanner(t *testing.T) {
	home := t.TempDir()

	t.Run("default roots", func(t *testing.T) {
		scanner, err := NewScanner(home)
		require.NoError(t, err)
		assert.Equal(t, []string{
			filepath.Join(home, ".claude", "skills"),
			filepath.Join(home, ".codex", "skills"),
		}, scanner.Roots())
	})

	t.Run("explicit roots", func(t *testing.T) {
		scanner, err := NewScanner(home, WithRoots("/tmp/custom"))
		require.NoError(t, err)
		assert.Equal(t, []string{"/tmp/custom"}, scanner.Roots())
	})

	t.Run("empty home", func(t *testing.T) {
		_, err := NewScanner("")
		assert.Error(t, err)
	})
}

func TestScan(t *testing.T) {
	home := t.TempDir()
	root := filepath.Join(home, ".claude", "skills")

	writeFile(t, filepath.Join(root, "alpha", "SKILL.md"), "alpha")
	writeFile(t, filepath.Join(root, "beta", "skill.md"), "beta")
	writeFile(t, filepath.Join(root, "gamma", "README.md"), "not a skill")

	scanner, err := NewScanner(home, WithRoots(root))
	require.NoError(t, err)
	result, err := scanner.Scan()
	require.NoError(t, err)

	files := result.Files()
	require.Len(t, files, 2)
	assert.Equal(t, "alpha", files[0].SkillName)
	assert.Equal(t, ".claude/skills/alpha/SKILL.md", files[0].RelPath)
	assert.Equal(t, "beta", files[1].SkillName)
	assert.Equal(t, ".claude/skills/beta/skill.md", files[1].RelPath)
}

func TestScanCaseSensitiveMatch(t *testing.T) {
	home := t.TempDir()
	root := filepath.Join(home, "skills")

	// Only the two exact spellings match
	writeFile(t, filepath.Join(root, "one", "SKILL.md"), "x")
	writeFile(t, filepath.Join(root, "two", "skill.md"), "x")
	writeFile(t, filepath.Join(root, "three", "Skill.md"), "x")

	scanner, err := NewScanner(home, WithRoots(root))
	require.NoError(t, err)
	result, err := scanner.Scan()
	require.NoError(t, err)

	names := make([]string, 0)
	for _, f := range result.Files() {
		names = append(names, f.SkillName)
	}
	assert.ElementsMatch(t, []string{"one", "two"}, names)
}

func TestScanDepthBound(t *testing.T) {
	home := t.TempDir()
	root := filepath.Join(home, "skills")

	writeFile(t, filepath.Join(root, "SKILL.md"), "depth 1")
	writeFile(t, filepath.Join(root, "a", "b", "SKILL.md"), "depth 3")
	writeFile(t, filepath.Join(root, "a", "b", "c", "SKILL.md"), "depth 4, ignored")

	scanner, err := NewScanner(home, WithRoots(root))
	require.NoError(t, err)
	result, err := scanner.Scan()
	require.NoError(t, err)

	rels := make([]string, 0)
	for _, f := range result.Files() {
		rels = append(rels, f.RelPath)
	}
	assert.ElementsMatch(t, []string{"skills/SKILL.md", "skills/a/b/SKILL.md"}, rels)
}

func TestScanMissingRoot(t *testing.T) {
	home := t.TempDir()
	existing := filepath.Join(home, "existing")
	missing := filepath.Join(home, "does-not-exist")

	writeFile(t, filepath.Join(existing, "alpha", "SKILL.md"), "alpha")

	scanner, err := NewScanner(home, WithRoots(missing, existing))
	require.NoError(t, err)
	result, err := scanner.Scan()
	require.NoError(t, err)

	require.Len(t, result.Roots, 2)
	assert.True(t, result.Roots[0].Missing)
	assert.Empty(t, result.Roots[0].Files)
	assert.False(t, result.Roots[1].Missing)
	assert.Len(t, result.Roots[1].Files, 1)
	assert.Equal(t, 1, result.Total())
}

func TestScanPreservesRootOrder(t *testing.T) {
	home := t.TempDir()
	rootA := filepath.Join(home, "rootA")
	rootB := filepath.Join(home, "rootB")

	writeFile(t, filepath.Join(rootA, "alpha", "SKILL.md"), "A")
	writeFile(t, filepath.Join(rootB, "alpha", "SKILL.md"), "B")

	scanner, err := NewScanner(home, WithRoots(rootA, rootB))
	require.NoError(t, err)
	result, err := scanner.Scan()
	require.NoError(t, err)

	files := result.Files()
	require.Len(t, files, 2)
	assert.Equal(t, "rootA/alpha/SKILL.md", files[0].RelPath)
	assert.Equal(t, "rootB/alpha/SKILL.md", files[1].RelPath)
}

func TestScanFileOutsideHome(t *testing.T) {
	home := t.TempDir()
	outside := t.TempDir()

	writeFile(t, filepath.Join(outside, "alpha", "SKILL.md"), "alpha")

	scanner, err := NewScanner(home, WithRoots(outside))
	require.NoError(t, err)
	result, err := scanner.Scan()
	require.NoError(t, err)

	files := result.Files()
	require.Len(t, files, 1)
	// Falls back to the slash-normalized absolute path
	assert.Equal(t, filepath.ToSlash(filepath.Join(outside, "alpha", "SKILL.md")), files[0].RelPath)
}
