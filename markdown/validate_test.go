package markdown

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []Warning
	}{
		{
			name:  "clean document",
			input: "# Title\n\n- a\n  - b\n\n| x | y |\n|---|---|\n| 1 | 2 |",
		},
		{
			name:  "empty heading",
			input: "text\n###   ",
			want:  []Warning{{Line: 2, Message: "heading text is empty"}},
		},
		{
			name:  "empty heading after fullwidth space",
			input: "#\u3000",
			want:  []Warning{{Line: 1, Message: "heading text is empty"}},
		},
		{
			name:  "indentation counts runes",
			input: "- a\n\u00a0 - b",
		},
		{
			name:  "odd unicode indentation",
			input: "- a\n\u3000- b",
			want:  []Warning{{Line: 2, Message: "list indentation should be a multiple of 2"}},
		},
		{
			name:  "odd indentation",
			input: "- a\n - b",
			want:  []Warning{{Line: 2, Message: "list indentation should be a multiple of 2"}},
		},
		{
			name:  "table cell mismatch",
			input: "| a | b |\n|---|---|\n| 1 |",
			want:  []Warning{{Line: 3, Message: "table row has 1 cells, header has 2"}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Validate(tt.input))
		})
	}
}

func TestValidateDoesNotAffectParse(t *testing.T) {
	input := "###\n - a"
	before := ToRecords(Parse(input).Elements)
	require.NotEmpty(t, Validate(input))
	assert.Equal(t, before, ToRecords(Parse(input).Elements))
}

func TestWarningString(t *testing.T) {
	assert.Equal(t, "line 4: heading text is empty", Warning{Line: 4, Message: "heading text is empty"}.String())
}
