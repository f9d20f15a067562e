package page

import (
	"regexp"
	"strings"
)

var (
	// [Chorus], [Verse 2]:, (Intro)
	sectionRegex = regexp.MustCompile(`^[\[(][^\])]*[\])]:?$`)
	// a line of chord names only: "Am  F  C/E  G7"
	chordLineRegex = regexp.MustCompile(`^([A-H][#b]?(m|maj|min|dim|aug|sus)?\d*(/[A-H][#b]?)?\s*)+$`)
	// chord separator lines like "| | |"
	separatorRegex = regexp.MustCompile(`^[\s|\-]*$`)
	commentRegex   = regexp.MustCompile(`/\*[^*]*\*?/?`)
	spacesRegex    = regexp.MustCompile(`\s+`)
)

// processTextLines keeps only the singable lines of a page's text
func processTextLines(text string) []string {
	var lines []string

	for _, line := range strings.Split(text, "\n") {
		trimmedLine := strings.TrimSpace(line)

		if trimmedLine == "" {
			continue
		}
		if sectionRegex.MatchString(trimmedLine) {
			continue
		}
		if separatorRegex.MatchString(trimmedLine) {
			continue
		}
		if chordLineRegex.MatchString(trimmedLine) {
			continue
		}

		cleanLine := commentRegex.ReplaceAllString(trimmedLine, "")
		cleanLine = strings.ReplaceAll(cleanLine, "*", "")
		cleanLine = spacesRegex.ReplaceAllString(cleanLine, " ")
		cleanLine = strings.TrimSpace(cleanLine)

		if cleanLine != "" {
			lines = append(lines, cleanLine)
		}
	}

	return lines
}
