package archive

import (
	"archive/zip"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jingkaihe/skillsync/pkg/skills"
)

// buildRawArchive writes a zip containing the given entries plus a manifest
// with the supplied content, bypassing Build
func buildRawArchive(t *testing.T, entries map[string]string, manifest string) string {
	t.Helper()

	zipPath := filepath.Join(t.TempDir(), "skills.zip")
	out, err := os.Create(zipPath)
	require.NoError(t, err)

	zw := zip.NewWriter(out)
	for name, content := range entries {
		w, err := zw.Create(name)
		require.NoError(t, err)
		_, err = w.Write([]byte(content))
		require.NoError(t, err)
	}
	if manifest != "" {
		w, err := zw.Create(ManifestName)
		require.NoError(t, err)
		_, err = w.Write([]byte(manifest))
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
	require.NoError(t, out.Close())

	return zipPath
}

func TestRestoreRoundTrip(t *testing.T) {
	srcHome := t.TempDir()
	files := []skills.SkillFile{
		writeSkill(t, srcHome, ".claude/skills/alpha", "SKILL.md", "alpha content"),
		writeSkill(t, srcHome, ".codex/skills/beta", "skill.md", "beta content"),
	}

	zipPath := filepath.Join(t.TempDir(), "skills.zip")
	_, err := Build(files, zipPath)
	require.NoError(t, err)

	destHome := t.TempDir()
	restored, err := Restore(zipPath, destHome)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{".claude/skills/alpha/SKILL.md", ".codex/skills/beta/skill.md"}, restored)

	alpha, err := os.ReadFile(filepath.Join(destHome, ".claude", "skills", "alpha", "SKILL.md"))
	require.NoError(t, err)
	assert.Equal(t, "alpha content", string(alpha))

	beta, err := os.ReadFile(filepath.Join(destHome, ".codex", "skills", "beta", "skill.md"))
	require.NoError(t, err)
	assert.Equal(t, "beta content", string(beta))
}

func TestRestoreManifestNotRestored(t *testing.T) {
	home := t.TempDir()
	files := []skills.SkillFile{
		writeSkill(t, home, ".claude/skills/alpha", "SKILL.md", "content"),
	}

	zipPath := filepath.Join(t.TempDir(), "skills.zip")
	_, err := Build(files, zipPath)
	require.NoError(t, err)

	destHome := t.TempDir()
	_, err = Restore(zipPath, destHome)
	require.NoError(t, err)

	_, err = os.Stat(filepath.Join(destHome, ManifestName))
	assert.True(t, os.IsNotExist(err))
}

func TestRestoreIdempotent(t *testing.T) {
	srcHome := t.TempDir()
	files := []skills.SkillFile{
		writeSkill(t, srcHome, ".claude/skills/alpha", "SKILL.md", "new content"),
	}

	zipPath := filepath.Join(t.TempDir(), "skills.zip")
	_, err := Build(files, zipPath)
	require.NoError(t, err)

	// Pre-existing unrelated directory tree at the destination path
	destHome := t.TempDir()
	conflict := filepath.Join(destHome, ".claude", "skills", "alpha", "SKILL.md")
	require.NoError(t, os.MkdirAll(filepath.Join(conflict, "nested"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(conflict, "nested", "junk.txt"), []byte("junk"), 0o644))

	for i := 0; i < 2; i++ {
		_, err = Restore(zipPath, destHome)
		require.NoError(t, err)
	}

	content, err := os.ReadFile(conflict)
	require.NoError(t, err)
	assert.Equal(t, "new content", string(content))
}

func TestRestoreOrphanEntrySkipped(t *testing.T) {
	zipPath := buildRawArchive(t,
		map[string]string{
			"known.md":  "known content",
			"orphan.md": "orphan content",
		},
		"known.md=.claude/skills/known/SKILL.md\n")

	destHome := t.TempDir()
	restored, err := Restore(zipPath, destHome)
	require.NoError(t, err)
	assert.Equal(t, []string{".claude/skills/known/SKILL.md"}, restored)

	_, err = os.Stat(filepath.Join(destHome, "orphan.md"))
	assert.True(t, os.IsNotExist(err))
}

func TestRestoreMalformedManifestLineIgnored(t *testing.T) {
	zipPath := buildRawArchive(t,
		map[string]string{"good.md": "good content"},
		"a line without a separator\ngood.md=.claude/skills/good/SKILL.md\n")

	destHome := t.TempDir()
	restored, err := Restore(zipPath, destHome)
	require.NoError(t, err)
	assert.Equal(t, []string{".claude/skills/good/SKILL.md"}, restored)
}

func TestRestoreMissingManifest(t *testing.T) {
	zipPath := buildRawArchive(t, map[string]string{"stray.md": "content"}, "")

	_, err := Restore(zipPath, t.TempDir())
	assert.Error(t, err)
}

func TestRestoreInvalidArchive(t *testing.T) {
	path := filepath.Join(t.TempDir(), "not-a-zip.zip")
	require.NoError(t, os.WriteFile(path, []byte("definitely not a zip"), 0o644))

	_, err := Restore(path, t.TempDir())
	assert.Error(t, err)
}

func TestRestoreProgressCallback(t *testing.T) {
	home := t.TempDir()
	files := []skills.SkillFile{
		writeSkill(t, home, ".claude/skills/alpha", "SKILL.md", "a"),
	}

	zipPath := filepath.Join(t.TempDir(), "skills.zip")
	_, err := Build(files, zipPath)
	require.NoError(t, err)

	var seen []string
	_, err = Restore(zipPath, t.TempDir(), WithRestoreProgress(func(entryName, relPath string) {
		seen = append(seen, entryName+"->"+relPath)
	}))
	require.NoError(t, err)
	assert.Equal(t, []string{"alpha.md->.claude/skills/alpha/SKILL.md"}, seen)
}
