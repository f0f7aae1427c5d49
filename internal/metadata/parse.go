package metadata

import "strings"

// ParseResponse reads the four-line model answer by position: title,
// keywords, category, description. Each value is the text after the first
// ": " on its line. Missing lines, or lines without a separator, leave the
// field empty. Blank lines are skipped before positions are assigned.
func ParseResponse(filename, text string) Row {
	var lines []string
	for _, l := range strings.Split(strings.TrimSpace(text), "\n") {
		if l = strings.TrimSpace(l); l != "" {
			lines = append(lines, l)
		}
	}

	field := func(i int) string {
		if i >= len(lines) {
			return ""
		}
		_, v, ok := strings.Cut(lines[i], ": ")
		if !ok {
			return ""
		}
		return strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(v), ";"))
	}

	row := Row{
		Filename:    filename,
		Title:       field(0),
		Category:    field(2),
		Description: field(3),
	}
	if kw := field(1); kw != "" {
		row.Keywords = strings.Split(kw, ", ")
	}

	return row
}
