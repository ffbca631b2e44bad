package textdraw

import (
	"strings"
	"unicode"

	"github.com/mitchellh/go-wordwrap"
)

// Wrap breaks text on whitespace so that no line exceeds width characters.
// Existing line breaks are kept. Words longer than width are split into
// width-sized pieces, the last of which may share a line with the words
// after it. width <= 0 disables wrapping.
func Wrap(text string, width int) string {
	if width <= 0 {
		return text
	}
	return wordwrap.WrapString(splitLongWords(text, width), uint(width))
}

// splitLongWords inserts a space after every width runes of an unbroken word.
func splitLongWords(text string, width int) string {
	var b strings.Builder
	b.Grow(len(text))
	run := 0
	for _, r := range text {
		if unicode.IsSpace(r) {
			run = 0
		} else {
			if run == width {
				b.WriteByte(' ')
				run = 0
			}
			run++
		}
		b.WriteRune(r)
	}
	return b.String()
}
