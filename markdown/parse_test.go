package markdown

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTable(t *testing.T) {
	doc := Parse("| A | B |\n|---|---|\n| 1 | 2 |")

	require.Len(t, doc.Elements, 1)
	tbl, ok := doc.Elements[0].(*Table)
	require.True(t, ok, "expected *Table, got %T", doc.Elements[0])
	assert.Equal(t, TypeTable, tbl.Type())
	assert.Equal(t, []string{"A", "B"}, tbl.Columns)
	assert.Equal(t, [][]string{{"1", "2"}}, tbl.Rows)
}

func TestParseTableAlignedDelimiter(t *testing.T) {
	doc := Parse("| Name | Price |\n|:---|---:|\n| pen | 3 |\n| ink | 9 |")

	require.Len(t, doc.Elements, 1)
	tbl := doc.Elements[0].(*Table)
	assert.Equal(t, []string{"Name", "Price"}, tbl.Columns)
	assert.Equal(t, [][]string{{"pen", "3"}, {"ink", "9"}}, tbl.Rows)
	for _, row := range tbl.Rows {
		for _, cell := range row {
			assert.NotContains(t, cell, "-")
		}
	}
}

func TestParseDelimiterOnlyTableIsDropped(t *testing.T) {
	doc := Parse("|---|---|")
	assert.Empty(t, doc.Elements)
}

func TestParseList(t *testing.T) {
	doc := Parse("- x\n- y\n- z")

	require.Len(t, doc.Elements, 1)
	list, ok := doc.Elements[0].(*List)
	require.True(t, ok)
	assert.Equal(t, TypeBulletList, list.Type())
	assert.False(t, list.Ordered)
	require.Len(t, list.Children(), 3)
	for i, want := range []string{"x", "y", "z"} {
		assert.Equal(t, want, list.Items[i].Content)
		assert.Equal(t, TypeParagraph, list.Items[i].Type())
	}
	assert.Equal(t, "li-1-0", list.Items[0].ID)
	assert.Equal(t, "li-1-2", list.Items[2].ID)
}

func TestParseListMarkers(t *testing.T) {
	doc := Parse("* a\n+ b\n- c")
	require.Len(t, doc.Elements, 1)
	assert.Len(t, doc.Elements[0].Children(), 3)
}

func TestParseOrderedListIgnoresNumerals(t *testing.T) {
	doc := Parse("3. first\n7. second")

	require.Len(t, doc.Elements, 1)
	list := doc.Elements[0].(*List)
	assert.True(t, list.Ordered)
	assert.Equal(t, TypeOrderList, list.Type())
	assert.Equal(t, "first", list.Items[0].Content)
	assert.Equal(t, "second", list.Items[1].Content)
}

func TestParseSwitchingListKindStartsNewList(t *testing.T) {
	doc := Parse("- a\n1. b")

	require.Len(t, doc.Elements, 2)
	assert.Equal(t, TypeBulletList, doc.Elements[0].Type())
	assert.Equal(t, TypeOrderList, doc.Elements[1].Type())
}

func TestParseListContinuesAcrossBlankLine(t *testing.T) {
	doc := Parse("- a\n\n- b")

	require.Len(t, doc.Elements, 1)
	assert.Len(t, doc.Elements[0].Children(), 2)
}

func TestParseHeading(t *testing.T) {
	doc := Parse("### Hello\nworld")

	require.Len(t, doc.Elements, 2)
	h, ok := doc.Elements[0].(*Heading)
	require.True(t, ok)
	assert.Equal(t, TypeH3, h.Type())
	assert.Equal(t, 3, h.Level)
	assert.Equal(t, "Hello", h.Content)

	p, ok := doc.Elements[1].(*Paragraph)
	require.True(t, ok)
	assert.Equal(t, "world", p.Content)
}

func TestParseHeadingLevels(t *testing.T) {
	tests := []struct {
		input string
		want  Type
	}{
		{"# a", TypeH1},
		{"## a", TypeH2},
		{"###### a", TypeH6},
		{"####### a", TypeParagraph},
		{"#a", TypeParagraph},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			doc := Parse(tt.input)
			require.Len(t, doc.Elements, 1)
			assert.Equal(t, tt.want, doc.Elements[0].Type())
		})
	}
}

func TestParseUnicodeSeparators(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    Type
		content string
	}{
		{"ideographic space after heading marker", "##\u3000标题", TypeH2, "标题"},
		{"no-break space after heading marker", "#\u00a0Title", TypeH1, "Title"},
		{"ideographic space after bullet", "-\u3000第一项", TypeBulletList, ""},
		{"no-break space after ordinal", "1.\u00a0first", TypeOrderList, ""},
		{"ideographic space after quote marker", ">\u3000引用", TypeBlockquote, "引用"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := Parse(tt.input)
			require.Len(t, doc.Elements, 1)
			assert.Equal(t, tt.want, doc.Elements[0].Type())
			if tt.content != "" {
				assert.Equal(t, tt.content, doc.Elements[0].Body())
			}
		})
	}

	doc := Parse("##\u3000标题\n-\u3000第一项")
	require.Len(t, doc.Elements, 2)
	assert.Equal(t, TypeH2, doc.Elements[0].Type())
	assert.Equal(t, TypeBulletList, doc.Elements[1].Type())
	require.Len(t, doc.Elements[1].Children(), 1)
	assert.Equal(t, "第一项", doc.Elements[1].Children()[0].Body())
}

func TestParseParagraphJoinsLines(t *testing.T) {
	doc := Parse("first line\n  second line  \n\nnext")

	require.Len(t, doc.Elements, 2)
	assert.Equal(t, "first line\nsecond line", doc.Elements[0].Body())
	assert.Equal(t, "next", doc.Elements[1].Body())
}

func TestParseBlockquoteMerges(t *testing.T) {
	doc := Parse("> one\n>two\n\nafter")

	require.Len(t, doc.Elements, 2)
	q, ok := doc.Elements[0].(*Blockquote)
	require.True(t, ok)
	assert.Equal(t, "one\ntwo", q.Content)
	assert.Equal(t, TypeParagraph, doc.Elements[1].Type())
}

func TestParseBareMarkersFallBackToParagraph(t *testing.T) {
	doc := Parse(">\n-")

	require.Len(t, doc.Elements, 1)
	assert.Equal(t, TypeParagraph, doc.Elements[0].Type())
	assert.Equal(t, ">\n-", doc.Elements[0].Body())
}

func TestParseIDsAreSequential(t *testing.T) {
	doc := Parse("# T\n\npara\n\n- a\n\n| x |\n\n> q")

	var ids []string
	for _, e := range doc.Elements {
		ids = append(ids, e.Ident())
	}
	assert.Equal(t, []string{"element-1", "element-2", "element-3", "element-4", "element-5"}, ids)
}

func TestParseDeterministic(t *testing.T) {
	input := "# Title\n\nSome text\nmore\n\n- a\n- b\n\n1. c\n\n| h |\n|---|\n| v |\n\n> quote"

	first := ToRecords(Parse(input).Elements)
	second := ToRecords(Parse(input).Elements)
	assert.Equal(t, first, second)
}

func TestParseNonEmptyInvariant(t *testing.T) {
	inputs := []string{
		"",
		"\n\n\n",
		"|",
		"| | |",
		"# \n##\n- \n>",
		"a | b\n---|---\n\n\n> x\n1. y\n   \n",
		strings.Repeat("|---|\n", 5),
	}
	for _, in := range inputs {
		for _, e := range Parse(in).Elements {
			nonEmpty := strings.TrimSpace(e.Body()) != "" || len(e.Children()) > 0
			if tbl, ok := e.(*Table); ok {
				nonEmpty = len(tbl.Columns) > 0 || len(tbl.Rows) > 0
			}
			assert.True(t, nonEmpty, "input %q produced empty %s", in, e.Type())
		}
	}
}

func TestParseMixedDocument(t *testing.T) {
	input := `# 为什么小朋友喜欢吃糖?

## 生理因素

甜味让人愉悦。

- 能量来源
- 情绪安慰

| 产品 | 价格 |
|---|---|
| 奶糖 | 12 |

1. 雀巢超启能恩4段

> 适量即可`

	doc := Parse(input)
	var types []Type
	for _, e := range doc.Elements {
		types = append(types, e.Type())
	}
	assert.Equal(t, []Type{TypeH1, TypeH2, TypeParagraph, TypeBulletList, TypeTable, TypeOrderList, TypeBlockquote}, types)
	assert.Greater(t, doc.WordCount, 0)
	assert.Equal(t, 1, doc.ReadingTimeMinutes)
}

func TestToRecordMetadata(t *testing.T) {
	doc := Parse("## Hi\n\n- a")

	h := ToRecord(doc.Elements[0])
	require.NotNil(t, h.Metadata)
	assert.Equal(t, 2, h.Metadata.Level)

	l := ToRecord(doc.Elements[1])
	require.NotNil(t, l.Metadata)
	require.NotNil(t, l.Metadata.Ordered)
	assert.False(t, *l.Metadata.Ordered)
	require.Len(t, l.Children, 1)
	assert.Nil(t, l.Children[0].Metadata)
}
