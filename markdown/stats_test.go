package markdown

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCountWords(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  int
	}{
		{name: "empty", input: "", want: 0},
		{name: "cjk and english", input: "你好吗 hello world", want: 5},
		{name: "cjk adjacent to english", input: "买iPad很值", want: 4},
		{name: "heading marker stripped", input: "## Hello there", want: 2},
		{name: "list markers stripped", input: "- one\n- two\n1. three", want: 3},
		{name: "table pipes stripped", input: "| a | b |", want: 2},
		{name: "emphasis stripped", input: "**bold**, _it_ `code`", want: 3},
		{name: "quote marker stripped", input: "> quoted words", want: 2},
		{name: "fullwidth space after heading marker", input: "##\u3000标题", want: 2},
		{name: "no-break space after bullet", input: "-\u00a0one two", want: 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CountWords(tt.input))
		})
	}
}

func TestReadingTime(t *testing.T) {
	assert.Equal(t, 0, ReadingTime(0))
	assert.Equal(t, 1, ReadingTime(1))
	assert.Equal(t, 1, ReadingTime(200))
	assert.Equal(t, 2, ReadingTime(201))
}
