package markdown

import (
	"fmt"
	"regexp"
	"strings"
)

// Marker separators accept any Unicode space, so a fullwidth U+3000 after
// "##" or "-" still starts a heading or list item.
var (
	headingRe   = regexp.MustCompile(`^(#{1,6})[\s\p{Z}]+(.+)$`)
	bulletRe    = regexp.MustCompile(`^[*\-+][\s\p{Z}]+(.+)$`)
	orderedRe   = regexp.MustCompile(`^\d+\.[\s\p{Z}]+(.+)$`)
	quoteRe     = regexp.MustCompile(`^>[\s\p{Z}]*(.+)$`)
	delimCellRe = regexp.MustCompile(`^:?-+:?$`)
)

// Document is the result of one parse pass.
type Document struct {
	Elements           []Element
	WordCount          int
	ReadingTimeMinutes int
}

// Parse splits text into block elements and computes reading statistics.
// Identical input always yields identical ids and structure.
func Parse(text string) Document {
	p := &parser{}
	for _, raw := range strings.Split(text, "\n") {
		p.line(strings.TrimSpace(raw))
	}
	p.transition(nil)

	return Document{Elements: p.out}.WithStats(text)
}

// WithStats returns d with word count and reading time computed over text.
// Callers that rewrite the input before parsing pass the original text.
func (d Document) WithStats(text string) Document {
	d.WordCount = CountWords(text)
	d.ReadingTimeMinutes = ReadingTime(d.WordCount)
	return d
}

// accumulator is a multi-line block that is still being built.
type accumulator interface {
	// finish returns the finished element, or nil when the block is empty.
	finish() Element
}

type paragraphAcc struct {
	id    string
	lines []string
}

func (a *paragraphAcc) finish() Element {
	content := strings.Join(a.lines, "\n")
	if strings.TrimSpace(content) == "" {
		return nil
	}
	return &Paragraph{ID: a.id, Content: content}
}

type listAcc struct {
	id      string
	n       int
	ordered bool
	items   []*Paragraph
}

func (a *listAcc) add(text string) {
	a.items = append(a.items, &Paragraph{
		ID:      fmt.Sprintf("li-%d-%d", a.n, len(a.items)),
		Content: text,
	})
}

func (a *listAcc) finish() Element {
	if len(a.items) == 0 {
		return nil
	}
	return &List{ID: a.id, Ordered: a.ordered, Items: a.items}
}

type tableAcc struct {
	id      string
	columns []string
	rows    [][]string
}

func (a *tableAcc) add(cells []string) {
	if len(a.columns) == 0 {
		a.columns = cells
		return
	}
	a.rows = append(a.rows, cells)
}

func (a *tableAcc) finish() Element {
	if len(a.columns) == 0 && len(a.rows) == 0 {
		return nil
	}
	return &Table{ID: a.id, Columns: a.columns, Rows: a.rows}
}

type quoteAcc struct {
	id    string
	lines []string
}

func (a *quoteAcc) finish() Element {
	content := strings.Join(a.lines, "\n")
	if strings.TrimSpace(content) == "" {
		return nil
	}
	return &Blockquote{ID: a.id, Content: content}
}

type parser struct {
	counter int
	cur     accumulator
	out     []Element
}

func (p *parser) nextID() (string, int) {
	p.counter++
	return fmt.Sprintf("element-%d", p.counter), p.counter
}

// transition flushes the current accumulator and installs next (which may be nil).
func (p *parser) transition(next accumulator) {
	if p.cur != nil {
		if el := p.cur.finish(); el != nil {
			p.out = append(p.out, el)
		}
	}
	p.cur = next
}

func (p *parser) line(line string) {
	if line == "" {
		if _, ok := p.cur.(*paragraphAcc); ok {
			p.transition(nil)
		}
		return
	}

	if m := headingRe.FindStringSubmatch(line); m != nil {
		p.transition(nil)
		id, _ := p.nextID()
		p.out = append(p.out, &Heading{ID: id, Level: len(m[1]), Content: m[2]})
		return
	}

	if m := bulletRe.FindStringSubmatch(line); m != nil {
		p.listItem(false, m[1])
		return
	}

	if m := orderedRe.FindStringSubmatch(line); m != nil {
		p.listItem(true, m[1])
		return
	}

	if strings.Contains(line, "|") {
		acc, ok := p.cur.(*tableAcc)
		if !ok {
			id, _ := p.nextID()
			acc = &tableAcc{id: id}
			p.transition(acc)
		}
		cells := splitCells(line)
		if isDelimiterRow(cells) {
			return
		}
		acc.add(cells)
		return
	}

	if m := quoteRe.FindStringSubmatch(line); m != nil {
		if acc, ok := p.cur.(*quoteAcc); ok {
			acc.lines = append(acc.lines, m[1])
			return
		}
		id, _ := p.nextID()
		p.transition(&quoteAcc{id: id, lines: []string{m[1]}})
		return
	}

	if acc, ok := p.cur.(*paragraphAcc); ok {
		acc.lines = append(acc.lines, line)
		return
	}
	id, _ := p.nextID()
	p.transition(&paragraphAcc{id: id, lines: []string{line}})
}

func (p *parser) listItem(ordered bool, text string) {
	acc, ok := p.cur.(*listAcc)
	if !ok || acc.ordered != ordered {
		id, n := p.nextID()
		acc = &listAcc{id: id, n: n, ordered: ordered}
		p.transition(acc)
	}
	acc.add(text)
}

// splitCells splits a table row on pipes, trimming cells and dropping empty
// ones produced by leading or trailing pipes.
func splitCells(line string) []string {
	var cells []string
	for _, c := range strings.Split(line, "|") {
		if c = strings.TrimSpace(c); c != "" {
			cells = append(cells, c)
		}
	}
	return cells
}

// isDelimiterRow reports whether every cell looks like ---, :--, --: or :-:.
// A row without cells counts as a delimiter.
func isDelimiterRow(cells []string) bool {
	for _, c := range cells {
		if !delimCellRe.MatchString(c) {
			return false
		}
	}
	return true
}
