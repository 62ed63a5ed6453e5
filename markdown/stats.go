package markdown

import (
	"regexp"
	"strings"
)

// wordsPerMinute is the assumed reading speed.
const wordsPerMinute = 200

var markerStrippers = []*regexp.Regexp{
	regexp.MustCompile(`#{1,6}[\s\p{Z}]+`),
	regexp.MustCompile(`[*\-+][\s\p{Z}]+`),
	regexp.MustCompile(`\d+\.[\s\p{Z}]+`),
	regexp.MustCompile(`>[\s\p{Z}]*`),
	regexp.MustCompile(`\|`),
	regexp.MustCompile("[*_`]"),
}

// isCJK reports whether r is in the CJK Unified Ideographs block.
func isCJK(r rune) bool { return r >= 0x4E00 && r <= 0x9FFF }

// CountWords counts words in mixed CJK and space-separated text after
// stripping Markdown markers. Each CJK ideograph counts as one word.
func CountWords(text string) int {
	clean := text
	for _, re := range markerStrippers {
		clean = re.ReplaceAllString(clean, "")
	}

	cjk := 0
	var rest strings.Builder
	for _, r := range clean {
		if isCJK(r) {
			cjk++
			continue
		}
		rest.WriteRune(r)
	}
	return cjk + len(strings.Fields(rest.String()))
}

// ReadingTime returns the whole minutes needed to read words, rounded up.
func ReadingTime(words int) int {
	if words <= 0 {
		return 0
	}
	return (words + wordsPerMinute - 1) / wordsPerMinute
}
