package bubbletea

import (
	"strings"

	rw "github.com/mattn/go-runewidth"
	"github.com/rivo/uniseg"
)

// wrapText word-wraps s to the given display width. Words wider than a
// full line are hard-broken at rune boundaries so CJK and other wide
// runes never straddle the edge.
func wrapText(s string, width int) []string {
	if width <= 0 || uniseg.StringWidth(s) <= width {
		return []string{s}
	}

	var (
		lines []string
		line  strings.Builder
		lineW int
	)
	flush := func() {
		lines = append(lines, line.String())
		line.Reset()
		lineW = 0
	}

	for _, word := range strings.Split(s, " ") {
		wordW := uniseg.StringWidth(word)

		if wordW > width {
			if lineW > 0 {
				flush()
			}
			for _, r := range word {
				w := rw.RuneWidth(r)
				if lineW+w > width {
					flush()
				}
				line.WriteRune(r)
				lineW += w
			}
			continue
		}

		sep := 0
		if lineW > 0 {
			sep = 1
		}
		if lineW+sep+wordW > width {
			flush()
			sep = 0
		}
		if sep > 0 {
			line.WriteByte(' ')
		}
		line.WriteString(word)
		lineW += sep + wordW
	}
	if lineW > 0 || len(lines) == 0 {
		flush()
	}
	return lines
}
