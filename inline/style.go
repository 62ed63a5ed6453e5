package inline

import (
	"strings"
	"unicode"

	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	extensionAST "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"
)

// Only the paragraph block parser is registered: element text has already
// been split into blocks, so "---" or "1)" must stay literal here.
var inlineParser = parser.NewParser(
	parser.WithBlockParsers(util.Prioritized(parser.NewParagraphParser(), 1000)),
	parser.WithInlineParsers(parser.DefaultInlineParsers()...),
	parser.WithInlineParsers(util.Prioritized(extension.NewStrikethroughParser(), 500)),
)

// Style splits s into runs of bold, italic, code, strikethrough and linked
// text. Newlines inside s are kept as "\n" in the run text, and leading and
// trailing whitespace is attached to the first and last run.
func Style(s string) []Run {
	core := strings.TrimFunc(s, unicode.IsSpace)
	if core == "" {
		if s == "" {
			return nil
		}
		return []Run{{Text: s}}
	}
	lead := s[:strings.Index(s, core)]
	trail := s[len(lead)+len(core):]

	src := []byte(core)
	doc := inlineParser.Parse(text.NewReader(src))

	var runs []Run
	collectRuns(doc, src, Run{}, &runs)
	if strings.TrimSpace(joinRuns(runs)) == "" {
		runs = []Run{{Text: core}}
	}

	runs[0].Text = lead + runs[0].Text
	runs[len(runs)-1].Text += trail
	return runs
}

func collectRuns(node ast.Node, src []byte, style Run, out *[]Run) {
	for child := node.FirstChild(); child != nil; child = child.NextSibling() {
		switch c := child.(type) {
		case *ast.Text:
			appendRun(out, style, string(c.Segment.Value(src)))
			if c.SoftLineBreak() || c.HardLineBreak() {
				appendRun(out, style, "\n")
			}
		case *ast.String:
			appendRun(out, style, string(c.Value))
		case *ast.Paragraph:
			collectRuns(c, src, style, out)
			if child.NextSibling() != nil {
				appendRun(out, style, "\n")
			}
		case *ast.Emphasis:
			next := style
			if c.Level >= 2 {
				next.Bold = true
			} else {
				next.Italic = true
			}
			collectRuns(c, src, next, out)
		case *ast.CodeSpan:
			next := style
			next.Code = true
			appendRun(out, next, string(c.Text(src)))
		case *ast.Link:
			next := style
			next.Link = string(c.Destination)
			collectRuns(c, src, next, out)
		case *ast.AutoLink:
			next := style
			next.Link = string(c.URL(src))
			label := string(c.Label(src))
			if label == "" {
				label = next.Link
			}
			appendRun(out, next, label)
		case *ast.Image:
			alt := strings.TrimSpace(string(c.Text(src)))
			if alt == "" {
				alt = string(c.Destination)
			}
			appendRun(out, style, alt)
		case *ast.RawHTML:
			for i := 0; i < c.Segments.Len(); i++ {
				seg := c.Segments.At(i)
				appendRun(out, style, string(seg.Value(src)))
			}
		case *extensionAST.Strikethrough:
			next := style
			next.Strike = true
			collectRuns(c, src, next, out)
		default:
			if child.HasChildren() {
				collectRuns(child, src, style, out)
			}
		}
	}
}

// appendRun adds s in style r, merging with the previous run when the style
// matches.
func appendRun(out *[]Run, r Run, s string) {
	if s == "" {
		return
	}
	if n := len(*out); n > 0 && (*out)[n-1].sameStyle(r) {
		(*out)[n-1].Text += s
		return
	}
	r.Text = s
	*out = append(*out, r)
}

func joinRuns(runs []Run) string {
	var b strings.Builder
	for _, r := range runs {
		b.WriteString(r.Text)
	}
	return b.String()
}

// PlainText returns the text of runs without styling.
func PlainText(runs []Run) string {
	return joinRuns(runs)
}
