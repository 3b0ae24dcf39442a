// Package skills discovers skill definition files on the local machine.
// A skill is a directory containing a SKILL.md descriptor with optional
// YAML frontmatter. Discovery walks a configurable set of root directories
// and returns the descriptor files it finds, keyed by their location
// relative to the user's home directory so they can be packaged and later
// restored on another machine.
package skills

// SkillFile represents a discovered skill descriptor file
type SkillFile struct {
	Path      string // Absolute path on disk
	RelPath   string // Path relative to the home directory, forward slashes
	SkillName string // Name of the immediate parent directory
}

// Metadata represents the YAML frontmatter in SKILL.md files
type Metadata struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
}
