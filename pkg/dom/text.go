package dom

import (
	"strings"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
)

// minContentWidth keeps deeply nested nodes from wrapping every glyph.
const minContentWidth = 56

// face is the fixed-pitch face used for all text metrics.
var face font.Face = basicfont.Face7x13

// LineHeight returns the height of one line of text.
func LineHeight() float64 {
	return float64(face.Metrics().Height.Ceil())
}

// textHeight wraps text greedily at word boundaries to width and returns
// the height of the resulting lines. Explicit newlines start new lines.
func textHeight(text string, width float64) float64 {
	lines := 0
	for _, para := range strings.Split(text, "\n") {
		lines += wrapCount(para, width)
	}
	return float64(lines) * LineHeight()
}

func wrapCount(para string, width float64) int {
	words := strings.Fields(para)
	if len(words) == 0 {
		return 1
	}
	space := advance(" ")
	lines := 1
	cur := 0.0
	for _, w := range words {
		ww := advance(w)
		switch {
		case cur == 0:
			cur = ww
		case cur+space+ww <= width:
			cur += space + ww
		default:
			lines++
			cur = ww
		}
		// Words wider than the line overflow onto as many lines as needed.
		for cur > width && width > 0 {
			lines++
			cur -= width
		}
	}
	return lines
}

func advance(s string) float64 {
	return float64(font.MeasureString(face, s).Ceil())
}
