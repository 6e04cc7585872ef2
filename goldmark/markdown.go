// Package goldmark renders model replies from markdown to ANSI-styled
// terminal output, using goldmark for parsing and lipgloss for styling.
package goldmark

import "github.com/serline/serline"

// Render parses markdown source and returns ANSI-styled terminal output.
// Paragraphs and list items are word-wrapped to width. Code blocks are
// rendered at full width without reflow, on the theme's code background.
func Render(source string, width int, theme serline.Theme) string {
	if source == "" {
		return ""
	}
	if width <= 0 {
		width = 80
	}
	r := newReplyRenderer(theme)
	return r.render([]byte(source), width)
}
