// Package archive packages skill files into a flat zip archive and restores
// them to their original locations. Entry names inside the archive are
// derived from the owning skill directory, with a numeric suffix on
// collisions. An embedded manifest entry maps each entry name back to the
// file's home-relative path so a restore lands files exactly where they
// were exported from.
package archive

import (
	"strings"
)

// ManifestName is the distinguished zip entry holding the manifest. It is
// never restored as a skill file.
const ManifestName = "manifest.txt"

// Manifest is an ordered sequence of entry_name=relative_path records
type Manifest struct {
	lines []string
}

// Add appends a record mapping an archive entry name to the original
// home-relative path
func (m *Manifest) Add(entryName, relPath string) {
	m.lines = append(m.lines, entryName+"="+relPath)
}

// Len returns the number of records
func (m *Manifest) Len() int {
	return len(m.lines)
}

// Encode renders the manifest as newline-separated records in insertion
// order
func (m *Manifest) Encode() []byte {
	var sb strings.Builder
	for _, line := range m.lines {
		sb.WriteString(line)
		sb.WriteByte('\n')
	}
	return []byte(sb.String())
}

// ParseManifest decodes manifest content into an entry-name to relative-path
// mapping. Each line is split on the first '='; lines without one are
// silently dropped.
func ParseManifest(data []byte) map[string]string {
	mapping := make(map[string]string)
	for _, line := range strings.Split(string(data), "\n") {
		name, relPath, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		mapping[name] = relPath
	}
	return mapping
}
