package markdown

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"
)

var (
	looseHeadingRe = regexp.MustCompile(`^(#{1,6})[\s\p{Z}]*(.*)$`)
	indentedItemRe = regexp.MustCompile(`^([\s\p{Z}]*)([*\-+]|\d+\.)[\s\p{Z}]+(.*)$`)
)

// Warning is an advisory note about suspicious syntax.
type Warning struct {
	Line    int    `json:"line"`
	Message string `json:"message"`
}

func (w Warning) String() string { return fmt.Sprintf("line %d: %s", w.Line, w.Message) }

// Validate flags syntax that is likely a mistake. It never changes what
// Parse produces; an empty result means nothing looked off.
func Validate(text string) []Warning {
	var warnings []Warning
	header := -1

	for i, line := range strings.Split(text, "\n") {
		n := i + 1
		if m := looseHeadingRe.FindStringSubmatch(line); m != nil && strings.TrimSpace(m[2]) == "" {
			warnings = append(warnings, Warning{Line: n, Message: "heading text is empty"})
		}
		if m := indentedItemRe.FindStringSubmatch(line); m != nil && utf8.RuneCountInString(m[1])%2 != 0 {
			warnings = append(warnings, Warning{Line: n, Message: "list indentation should be a multiple of 2"})
		}

		trimmed := strings.TrimSpace(line)
		if trimmed == "" || !strings.Contains(trimmed, "|") || bulletRe.MatchString(trimmed) || orderedRe.MatchString(trimmed) {
			if trimmed != "" {
				header = -1
			}
			continue
		}
		cells := splitCells(trimmed)
		if isDelimiterRow(cells) {
			continue
		}
		if header < 0 {
			header = len(cells)
			continue
		}
		if len(cells) != header {
			warnings = append(warnings, Warning{
				Line:    n,
				Message: fmt.Sprintf("table row has %d cells, header has %d", len(cells), header),
			})
		}
	}
	return warnings
}
