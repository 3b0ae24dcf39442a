package skills

import (
	"bytes"
	"regexp"
	"strings"

	"github.com/yuin/goldmark"
	meta "github.com/yuin/goldmark-meta"
	"github.com/yuin/goldmark/parser"
)

// noDescription is the placeholder when no extractor produces a result
const noDescription = "No description"

const (
	frontmatterMaxLen = 100
	plainLineMaxLen   = 80
)

// extractor attempts to pull a short description out of a SKILL.md body.
// It reports false when the content has no usable match.
type extractor func(content string) (string, bool)

// extractors is the ordered fallback chain; the first success wins
var extractors = []extractor{
	fromFrontmatter,
	fromHeading,
	fromPlainLine,
}

// Describe extracts a short human-readable description from skill file
// content, falling through frontmatter, heading markers, and plain text
// before giving up with a placeholder.
func Describe(content string) string {
	for _, extract := range extractors {
		if desc, ok := extract(content); ok {
			return desc
		}
	}
	return noDescription
}

// fromFrontmatter parses the leading YAML frontmatter block and returns
// the description field with line breaks collapsed to single spaces.
func fromFrontmatter(content string) (string, bool) {
	md := goldmark.New(goldmark.WithExtensions(meta.Meta))

	var buf bytes.Buffer
	pctx := parser.NewContext()
	if err := md.Convert([]byte(content), &buf, parser.WithContext(pctx)); err != nil {
		return "", false
	}

	metaData := meta.Get(pctx)
	if metaData == nil {
		return "", false
	}

	desc, _ := metaData["description"].(string)
	if desc == "" {
		return "", false
	}

	var parts []string
	for _, line := range strings.Split(desc, "\n") {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			parts = append(parts, trimmed)
		}
	}

	return truncate(strings.Join(parts, " "), frontmatterMaxLen), true
}

var headingPatterns = []*regexp.Regexp{
	regexp.MustCompile(`##\s*(?:Description|描述)\s*\n\s*([^\n]+)`),
	regexp.MustCompile(`\[!?description\]:\s*([^\n]+)`),
}

// fromHeading matches a "## Description" section (or its localized form)
// or an inline [description]: marker.
func fromHeading(content string) (string, bool) {
	for _, pattern := range headingPatterns {
		if m := pattern.FindStringSubmatch(content); m != nil {
			return strings.TrimSpace(m[1]), true
		}
	}
	return "", false
}

// frontmatterKeys are line prefixes that never count as descriptive text
var frontmatterKeys = []string{"name:", "description:", "allowed-tools:", "metadata:"}

// fromPlainLine takes the first non-empty line that is not a heading,
// frontmatter delimiter, or frontmatter key.
func fromPlainLine(content string) (string, bool) {
	for _, line := range strings.Split(content, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" ||
			strings.HasPrefix(trimmed, "#") ||
			strings.HasPrefix(trimmed, "---") ||
			hasFrontmatterKey(trimmed) {
			continue
		}
		return truncate(trimmed, plainLineMaxLen), true
	}
	return "", false
}

func hasFrontmatterKey(line string) bool {
	for _, key := range frontmatterKeys {
		if strings.HasPrefix(line, key) {
			return true
		}
	}
	return false
}

// truncate limits a string to n runes
func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
